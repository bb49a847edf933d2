package includes

import (
	"fmt"
	"path/filepath"
	"strings"
)

// pathResolver resolves file arguments against the source root. Arguments
// must name files inside the root.
type pathResolver struct {
	root string
}

func newPathResolver(root string) (pathResolver, error) {
	if root == "" {
		root = "."
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return pathResolver{}, fmt.Errorf("failed to resolve root path: %w", err)
	}
	return pathResolver{root: filepath.Clean(absRoot)}, nil
}

func (r pathResolver) resolve(arg string) (string, error) {
	if arg == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	path := arg
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.root, path)
	}
	path = filepath.Clean(path)

	within, err := isWithinRoot(r.root, path)
	if err != nil {
		return "", err
	}
	if !within {
		return "", fmt.Errorf("path must be within the root directory %s: %q", r.root, arg)
	}
	return path, nil
}

func isWithinRoot(root, target string) (bool, error) {
	root = resolveSymlinks(root)
	target = resolveSymlinks(target)

	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false, fmt.Errorf("failed to evaluate path %q: %w", target, err)
	}
	if rel == "." {
		return true, nil
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false, nil
	}
	return !filepath.IsAbs(rel), nil
}

func resolveSymlinks(path string) string {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return path
	}
	return resolved
}
