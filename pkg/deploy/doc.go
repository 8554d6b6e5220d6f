// Package deploy publishes the generated site: it runs the build, stages the
// working tree, commits and pushes, stopping at the first failing command.
//
// There are no retries and no rollback. A push that fails after a successful
// commit leaves the commit in place for the operator to push by hand.
package deploy
