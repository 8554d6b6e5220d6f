/*
Package journal keeps a SQLite history of build and deploy runs.

The journal is write-mostly: each build and each deploy appends one row, and
deploys also record every command they executed. It is informational only and
never decides whether a build or deploy may proceed.

The SQLite driver is selected at compile time. The default build uses the pure
Go modernc.org/sqlite driver; building with the cgo_sqlite tag switches to
github.com/mattn/go-sqlite3.
*/
package journal
