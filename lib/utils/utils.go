package utils

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/aquilax/truncate"
	"golang.org/x/exp/constraints"
)

func Min[T constraints.Ordered](a T, bs ...T) T {
	result := a
	for _, b := range bs {
		if result > b {
			result = b
		}
	}
	return result
}

func Max[T constraints.Ordered](a T, bs ...T) T {
	result := a
	for _, b := range bs {
		if result < b {
			result = b
		}
	}
	return result
}

func PathAbs(path string) (string, error) {
	if strings.HasPrefix(filepath.ToSlash(path), "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}

		path = filepath.Join(home, path[2:])
	}

	path, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return path, nil
}

// IsInside returns true if path is dir or one of its descendants. Both must be slash separated
// and relative to the same root. An empty dir contains everything.
func IsInside(path string, dir string) bool {
	dir = strings.Trim(dir, "/")
	if dir == "" || dir == "." {
		return true
	}

	return path == dir || strings.HasPrefix(path, dir+"/")
}

func TruncateFilename(path string) string {
	return truncate.Truncate(path, 40, "...", truncate.PositionMiddle)
}
