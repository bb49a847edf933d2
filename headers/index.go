package headers

import (
	"strings"

	"github.com/hbollon/go-edlib"
)

// maxSuggestionDistance bounds how far a suggested name may be from the
// requested one.
const maxSuggestionDistance = 2

// Index looks up files by base name across the source tree and the auxiliary
// include directories.
type Index struct {
	files []SourceFile
	names []string
}

// NewIndex builds an index over primary followed by aux. Order is kept and
// becomes the order candidates are presented in.
func NewIndex(primary, aux []SourceFile) *Index {
	files := make([]SourceFile, 0, len(primary)+len(aux))
	files = append(files, primary...)
	files = append(files, aux...)

	seenNames := make(map[string]bool)
	var names []string
	for _, f := range files {
		key := strings.ToLower(f.Name)
		if seenNames[key] {
			continue
		}
		seenNames[key] = true
		names = append(names, f.Name)
	}

	return &Index{files: files, names: names}
}

// Find returns the files whose base name equals name. Entries with the same
// absolute path (compared case-insensitively) are returned once. An empty
// result means the header is not part of the project.
func (idx *Index) Find(name string, caseSensitive bool) []SourceFile {
	var matches []SourceFile
	seen := make(map[string]bool)

	for _, f := range idx.files {
		if !sameName(f.Name, name, caseSensitive) {
			continue
		}
		key := pathKey(f.Path)
		if seen[key] {
			continue
		}
		seen[key] = true
		matches = append(matches, f)
	}

	return matches
}

// Suggest returns the indexed base name closest to name, if one is within a
// small edit distance. Names differing only in case are suggested first.
func (idx *Index) Suggest(name string) (string, bool) {
	want := strings.ToLower(name)
	best := ""
	bestDistance := maxSuggestionDistance + 1

	for _, candidate := range idx.names {
		if candidate == name {
			continue
		}
		distance := edlib.LevenshteinDistance(want, strings.ToLower(candidate))
		if distance < bestDistance {
			best = candidate
			bestDistance = distance
		}
	}

	return best, best != ""
}

func sameName(a, b string, caseSensitive bool) bool {
	if caseSensitive {
		return a == b
	}
	return strings.EqualFold(a, b)
}

func pathKey(path string) string {
	return strings.ToLower(path)
}
