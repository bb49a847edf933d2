package sourcefs

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExtensions is the default allow-list of source file extensions.
var DefaultExtensions = []string{".h", ".hpp", ".cpp", ".c", ".c++", ".inl"}

var skippedDirs = map[string]bool{
	".git": true,
	".svn": true,
	".hg":  true,
}

// SkippedDir reports whether directories named name are never traversed.
func SkippedDir(name string) bool {
	return skippedDirs[name]
}

// HasExtension reports whether path ends in one of extensions. Matching is
// case-sensitive. An empty list matches every path.
func HasExtension(path string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	ext := filepath.Ext(path)
	for _, e := range extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// CollectOptions filters the files Collect returns.
type CollectOptions struct {
	// Extensions limits results to these extensions. Empty means every file.
	Extensions []string
	// Exclude holds doublestar patterns matched against slash-separated
	// paths relative to the root.
	Exclude []string
}

// ValidatePatterns reports the first malformed exclude pattern.
func ValidatePatterns(patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid exclude pattern: %q", p)
		}
	}
	return nil
}

// Collect walks root recursively and returns the absolute paths of matching
// files in lexical order.
func Collect(root string, opts CollectOptions) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", root, err)
	}

	allowed := make(map[string]bool, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		allowed[ext] = true
	}

	files := make([]string, 0, 256)
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if path != absRoot && (skippedDirs[d.Name()] || excluded(opts.Exclude, rel)) {
				return filepath.SkipDir
			}
			return nil
		}

		if len(allowed) > 0 && !allowed[filepath.Ext(path)] {
			return nil
		}
		if excluded(opts.Exclude, rel) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

func excluded(patterns []string, rel string) bool {
	for _, p := range patterns {
		if matched, err := doublestar.Match(p, rel); err == nil && matched {
			return true
		}
	}
	return false
}
