// Package headers finds the files an include directive can refer to and
// picks one when several match.
package headers

import (
	"path/filepath"
	"strings"
)

// SourceFile is a file discovered on disk.
type SourceFile struct {
	// Path is the cleaned absolute path.
	Path string
	// Dir is the directory containing the file.
	Dir string
	// Name is the base name.
	Name string
}

// NewSourceFile describes the file at absPath.
func NewSourceFile(absPath string) SourceFile {
	clean := filepath.Clean(absPath)
	return SourceFile{
		Path: clean,
		Dir:  filepath.Dir(clean),
		Name: filepath.Base(clean),
	}
}

// IncludeBaseName returns the file name an include path refers to. Both
// separator styles are stripped regardless of host.
func IncludeBaseName(includePath string) string {
	if i := strings.LastIndexAny(includePath, `/\`); i >= 0 {
		return includePath[i+1:]
	}
	return includePath
}

// NewSourceFiles describes every path in absPaths, preserving order.
func NewSourceFiles(absPaths []string) []SourceFile {
	files := make([]SourceFile, 0, len(absPaths))
	for _, p := range absPaths {
		files = append(files, NewSourceFile(p))
	}
	return files
}
