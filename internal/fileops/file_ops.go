// Where: internal/fileops/file_ops.go
// What: Shared filesystem operations for rendered artifacts and app storage.
// Why: Keep temp-file and directory behavior consistent across commands.
package fileops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}

// WriteFile writes content to path, creating parent directories as needed.
func WriteFile(path, content string) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

// TempFileFor writes content to a newly allocated file in dir (the OS temp
// directory when dir is empty) and returns its path. The file is left on disk.
func TempFileFor(dir, prefix, content string) (string, error) {
	if dir != "" {
		if err := EnsureDir(dir); err != nil {
			return "", err
		}
	}
	file, err := os.CreateTemp(dir, prefix+"-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := file.WriteString(content); err != nil {
		_ = file.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return file.Name(), nil
}

// ExpandHome resolves a leading "~" against the user's home directory and
// returns an absolute path.
func ExpandHome(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
