// Package relpath computes the relative paths written into rewritten include
// directives.
package relpath

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrNoCommonRoot is returned when two paths share no root a relative path
// could be expressed against, such as paths on different volumes.
var ErrNoCommonRoot = errors.New("paths have no common root")

// ErrNotAbsolute is returned when either input path is not absolute.
var ErrNotAbsolute = errors.New("path is not absolute")

// Error reports a relative path that could not be computed.
type Error struct {
	From string
	To   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("unable to get relative path from %q to %q: %v", e.From, e.To, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Base says what the "from" argument of Relative names.
type Base int

const (
	// FromFile means the path is relative to the directory containing from.
	FromFile Base = iota
	// FromDir means the path is relative to from itself.
	FromDir
)

// Relative returns the path of to expressed relative to from, using forward
// slashes and without a leading "./".
func Relative(from, to string, base Base) (string, error) {
	if !filepath.IsAbs(from) {
		return "", &Error{From: from, To: to, Err: ErrNotAbsolute}
	}
	if !filepath.IsAbs(to) {
		return "", &Error{From: from, To: to, Err: ErrNotAbsolute}
	}

	fromDir := filepath.Clean(from)
	if base == FromFile {
		fromDir = filepath.Dir(fromDir)
	}
	target := filepath.Clean(to)

	if !strings.EqualFold(filepath.VolumeName(fromDir), filepath.VolumeName(target)) {
		return "", &Error{From: from, To: to, Err: ErrNoCommonRoot}
	}

	rel, err := filepath.Rel(fromDir, target)
	if err != nil {
		return "", &Error{From: from, To: to, Err: fmt.Errorf("%w: %v", ErrNoCommonRoot, err)}
	}

	return StripCurrentDir(filepath.ToSlash(rel)), nil
}

// StripCurrentDir removes a single leading "./" (or ".\") marker.
func StripCurrentDir(path string) string {
	if strings.HasPrefix(path, "./") || strings.HasPrefix(path, `.\`) {
		return path[2:]
	}
	return path
}
