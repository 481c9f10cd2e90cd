package util

import (
	"errors"
	"path/filepath"
	"strings"
)

// SanitizeFileName removes path separators and rejects traversal patterns.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errors.New("invalid file name")
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	if s == "" {
		return "", errors.New("invalid file name")
	}
	return s, nil
}

// NormalizeExt returns the lower-cased extension of a file name, dot included.
func NormalizeExt(fileName string) string {
	return strings.ToLower(filepath.Ext(strings.TrimSpace(fileName)))
}

// BaseName returns the file name without its extension.
func BaseName(fileName string) string {
	base := filepath.Base(strings.TrimSpace(fileName))
	return strings.TrimSuffix(base, filepath.Ext(base))
}
