package fs

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPatterns matches the recognized image file extensions. Patterns are
// applied to lowercased file names, so matching is case-insensitive.
var DefaultPatterns = []string{"*.png", "*.jpg", "*.jpeg", "*.gif", "*.bmp"}

// Lister enumerates image files directly inside a directory (no recursion).
type Lister struct {
	patterns []string
}

func NewLister(patterns []string) *Lister {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	return &Lister{patterns: patterns}
}

// List returns the matching files in dir, sorted by name for deterministic
// enumeration order.
func (l *Lister) List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if l.matches(strings.ToLower(entry.Name())) {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func (l *Lister) matches(name string) bool {
	for _, pattern := range l.patterns {
		matched, err := doublestar.Match(pattern, name)
		if err == nil && matched {
			return true
		}
	}
	return false
}
