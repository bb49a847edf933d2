package headers

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// CwdToken at the start of an include directory entry is replaced by the
// working directory.
const CwdToken = "$(cwd)"

// Diagnostic describes an include directory entry that was discarded.
type Diagnostic struct {
	Line   int
	Entry  string
	Reason string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d: %q: %s", d.Line, d.Entry, d.Reason)
}

// IncludeDirs is the ordered set of auxiliary include directories. Every
// entry is absolute and ends with exactly one path separator.
type IncludeDirs struct {
	dirs []string
}

// NewIncludeDirs builds a set from absolute directory paths without checking
// that they exist.
func NewIncludeDirs(dirs ...string) IncludeDirs {
	normalized := make([]string, 0, len(dirs))
	for _, d := range dirs {
		normalized = append(normalized, withTrailingSeparator(filepath.Clean(d)))
	}
	return IncludeDirs{dirs: normalized}
}

// LoadIncludeDirFile reads include directory entries from the file at path.
func LoadIncludeDirFile(path, cwd string) (IncludeDirs, []Diagnostic, error) {
	if hasInvalidPathChars(path) {
		return IncludeDirs{}, nil, fmt.Errorf("invalid path to additional include directories file: %q", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return IncludeDirs{}, nil, fmt.Errorf("failed to open additional include directories file: %w", err)
	}
	defer f.Close()

	return ParseIncludeDirs(f, cwd)
}

// ParseIncludeDirs reads one directory per line. Blank lines and lines
// starting with '#' are ignored. Entries that are not existing directories,
// or that contain characters the host does not allow in paths, are dropped
// and reported as diagnostics.
func ParseIncludeDirs(r io.Reader, cwd string) (IncludeDirs, []Diagnostic, error) {
	var dirs []string
	var diagnostics []Diagnostic
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		entry := strings.TrimSpace(scanner.Text())
		if entry == "" || strings.HasPrefix(entry, "#") {
			continue
		}

		dir, reason := normalizeIncludeDir(entry, cwd)
		if reason != "" {
			diagnostics = append(diagnostics, Diagnostic{Line: lineNo, Entry: entry, Reason: reason})
			continue
		}
		if seen[dir] {
			diagnostics = append(diagnostics, Diagnostic{Line: lineNo, Entry: entry, Reason: "duplicate entry"})
			continue
		}
		seen[dir] = true
		dirs = append(dirs, dir)
	}
	if err := scanner.Err(); err != nil {
		return IncludeDirs{}, diagnostics, fmt.Errorf("failed to read include directories: %w", err)
	}

	return IncludeDirs{dirs: dirs}, diagnostics, nil
}

func normalizeIncludeDir(entry, cwd string) (string, string) {
	if strings.HasPrefix(entry, CwdToken) {
		entry = filepath.Join(cwd, strings.TrimPrefix(entry, CwdToken))
	}
	if hasInvalidPathChars(entry) {
		return "", "contains characters that are not valid in a path"
	}
	if !filepath.IsAbs(entry) {
		entry = filepath.Join(cwd, entry)
	}
	entry = filepath.Clean(entry)

	info, err := os.Stat(entry)
	if err != nil {
		return "", "directory does not exist"
	}
	if !info.IsDir() {
		return "", "not a directory"
	}

	return withTrailingSeparator(entry), ""
}

// Dirs returns the directories in declaration order.
func (d IncludeDirs) Dirs() []string {
	return append([]string(nil), d.dirs...)
}

// Len returns the number of directories.
func (d IncludeDirs) Len() int {
	return len(d.dirs)
}

// Rank returns the most specific directory that is a literal prefix of
// target. The longest directory wins; equal lengths keep the first one.
func (d IncludeDirs) Rank(target string) (string, bool) {
	best := ""
	for _, dir := range d.dirs {
		if !strings.HasPrefix(target, dir) {
			continue
		}
		if len(dir) > len(best) {
			best = dir
		}
	}
	return best, best != ""
}

func withTrailingSeparator(dir string) string {
	return strings.TrimRight(dir, string(filepath.Separator)) + string(filepath.Separator)
}

func hasInvalidPathChars(path string) bool {
	for _, r := range path {
		if r == 0 {
			return true
		}
		if runtime.GOOS == "windows" && (r < 32 || strings.ContainsRune(`"<>|`, r)) {
			return true
		}
	}
	return false
}
