package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SanitizeFileName replaces anything outside [a-zA-Z0-9-_.] with an
// underscore so uploaded titles are safe to use as file names.
func SanitizeFileName(name string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			return r
		}
		return '_'
	}, name)
}

// CopyFileWithTimestamp copies src into dir under a sanitized,
// timestamp-suffixed name and returns the destination path.
func CopyFileWithTimestamp(src, dir string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	ext := filepath.Ext(src)
	base := strings.TrimSuffix(filepath.Base(src), ext)
	destPath := filepath.Join(dir, fmt.Sprintf("%s_%d%s", SanitizeFileName(base), time.Now().Unix(), ext))

	out, err := os.Create(destPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return "", err
	}
	return destPath, nil
}
