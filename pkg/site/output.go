package site

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

// cleanOutput removes the output directory and recreates it empty.
func (b *Builder) cleanOutput() error {
	dir := filepath.Clean(b.cfg.OutputDir)
	if dir == "." || dir == string(filepath.Separator) || dir == "" {
		return fmt.Errorf("refusing to clear output directory %q", b.cfg.OutputDir)
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to clear output directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// writeFile writes data to rel inside the output directory, creating parent
// directories as needed. The file is replaced atomically.
func (b *Builder) writeFile(rel string, data []byte) (string, error) {
	path := filepath.Join(b.cfg.OutputDir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	// atomic creates its temp file 0600.
	if err := os.Chmod(path, 0644); err != nil {
		return "", fmt.Errorf("failed to set mode on %s: %w", path, err)
	}
	b.logger.Info("Wrote file", "path", path)
	return path, nil
}
