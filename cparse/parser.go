// Package cparse lists the #include directives of C and C++ files using
// tree-sitter.
package cparse

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
)

// IncludeKind distinguishes between system and local includes.
type IncludeKind int

const (
	IncludeLocal IncludeKind = iota
	IncludeSystem
)

func (k IncludeKind) String() string {
	if k == IncludeSystem {
		return "system"
	}
	return "local"
}

// Include represents an include directive.
type Include struct {
	Path string
	Kind IncludeKind
	// Line is 1-based.
	Line int
}

// Dialect picks the grammar used for parsing.
type Dialect int

const (
	DialectCpp Dialect = iota
	DialectC
)

// DialectFor returns the grammar for a file name. Only ".c" files use the C
// grammar; headers are parsed as C++, which accepts both.
func DialectFor(filePath string) Dialect {
	if strings.EqualFold(filepath.Ext(filePath), ".c") {
		return DialectC
	}
	return DialectCpp
}

// ParseIncludes parses source code and extracts its includes in source order.
func ParseIncludes(ctx context.Context, sourceCode []byte, dialect Dialect) ([]Include, error) {
	parser := sitter.NewParser()

	if dialect == DialectC {
		parser.SetLanguage(c.GetLanguage())
	} else {
		parser.SetLanguage(cpp.GetLanguage())
	}

	tree, err := parser.ParseCtx(ctx, nil, sourceCode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}
	defer tree.Close()

	return extractIncludes(tree.RootNode(), sourceCode), nil
}

func extractIncludes(rootNode *sitter.Node, sourceCode []byte) []Include {
	var includes []Include

	var walk func(*sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}

		if n.Type() == "preproc_include" {
			if inc := extractIncludeFromNode(n, sourceCode); inc.Path != "" {
				includes = append(includes, inc)
			}
		}

		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}

	walk(rootNode)
	return includes
}

func extractIncludeFromNode(node *sitter.Node, sourceCode []byte) Include {
	line := int(node.StartPoint().Row) + 1
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "string_literal":
			return Include{Path: cleanStringLiteral(child.Content(sourceCode)), Kind: IncludeLocal, Line: line}
		case "system_lib_string":
			return Include{Path: cleanSystemInclude(child.Content(sourceCode)), Kind: IncludeSystem, Line: line}
		}
	}

	return Include{}
}

func cleanStringLiteral(raw string) string {
	return strings.Trim(raw, "\"' ")
}

func cleanSystemInclude(raw string) string {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "<")
	trimmed = strings.TrimSuffix(trimmed, ">")
	return strings.TrimSpace(trimmed)
}
