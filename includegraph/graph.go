// Package includegraph builds the graph of which project file includes
// which, as resolved by base name against the candidate index.
package includegraph

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	graphlib "github.com/dominikbraun/graph"
	"golang.org/x/sync/errgroup"

	"github.com/LegacyCodeHQ/relativize/cparse"
	"github.com/LegacyCodeHQ/relativize/headers"
	"github.com/LegacyCodeHQ/relativize/sourcefs"
)

// Options configures Build.
type Options struct {
	// Root is used to shorten vertex names. Files outside Root keep their
	// absolute path.
	Root          string
	Index         *headers.Index
	CaseSensitive bool
	// Brackets also follows #include <...> directives.
	Brackets bool
	// AllCandidates adds an edge to every candidate of an ambiguous
	// directive. By default ambiguous directives add no edge.
	AllCandidates bool
	Reader        sourcefs.ContentReader
}

// Edge is an include of To by From. Ambiguous is set when the directive had
// more than one candidate.
type Edge struct {
	From      string
	To        string
	Line      int
	Ambiguous bool
}

// Graph is a directed include graph keyed by vertex name.
type Graph struct {
	g     graphlib.Graph[string, string]
	edges []Edge
}

// Build parses every file in files and links it to the files its directives
// resolve to.
func Build(ctx context.Context, files []string, opts Options) (*Graph, error) {
	if opts.Reader == nil {
		opts.Reader = sourcefs.FilesystemContentReader()
	}
	if opts.Index == nil {
		opts.Index = headers.NewIndex(nil, nil)
	}

	result := &Graph{g: graphlib.New(graphlib.StringHash, graphlib.Directed())}
	for _, file := range files {
		if err := result.addVertex(opts.vertexName(file)); err != nil {
			return nil, err
		}
	}

	parsed, err := parseAll(ctx, files, opts.Reader)
	if err != nil {
		return nil, err
	}

	for i, file := range files {
		from := opts.vertexName(file)
		for _, inc := range parsed[i] {
			if inc.Kind == cparse.IncludeSystem && !opts.Brackets {
				continue
			}

			candidates := opts.Index.Find(headers.IncludeBaseName(inc.Path), opts.CaseSensitive)
			if len(candidates) == 0 || (len(candidates) > 1 && !opts.AllCandidates) {
				continue
			}
			for _, c := range candidates {
				edge := Edge{From: from, To: opts.vertexName(c.Path), Line: inc.Line, Ambiguous: len(candidates) > 1}
				if err := result.addEdge(edge); err != nil {
					return nil, err
				}
			}
		}
	}

	return result, nil
}

// parseAll parses files concurrently. Results are in the order of files.
func parseAll(ctx context.Context, files []string, read sourcefs.ContentReader) ([][]cparse.Include, error) {
	parsed := make([][]cparse.Include, len(files))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.GOMAXPROCS(0))
	for i, file := range files {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			text, err := sourcefs.ReadText(read, file)
			if err != nil {
				return err
			}
			includes, err := cparse.ParseIncludes(groupCtx, []byte(text.Content), cparse.DialectFor(file))
			if err != nil {
				return fmt.Errorf("failed to parse %s: %w", file, err)
			}
			parsed[i] = includes
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return parsed, nil
}

func (o Options) vertexName(path string) string {
	if o.Root != "" {
		if rel, err := filepath.Rel(o.Root, path); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(path)
}

func (g *Graph) addVertex(name string) error {
	err := g.g.AddVertex(name)
	if err != nil && !errors.Is(err, graphlib.ErrVertexAlreadyExists) {
		return err
	}
	return nil
}

func (g *Graph) addEdge(e Edge) error {
	// Auxiliary include files are not vertices until something includes them.
	if err := g.addVertex(e.To); err != nil {
		return err
	}

	err := g.g.AddEdge(e.From, e.To)
	if errors.Is(err, graphlib.ErrEdgeAlreadyExists) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to add include %s -> %s: %w", e.From, e.To, err)
	}
	g.edges = append(g.edges, e)
	return nil
}

// Vertices returns the vertex names in lexical order.
func (g *Graph) Vertices() ([]string, error) {
	adjacency, err := g.g.AdjacencyMap()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(adjacency))
	for name := range adjacency {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Edges returns the edges in the order they were discovered. Repeated
// includes of the same file appear once.
func (g *Graph) Edges() []Edge {
	return append([]Edge(nil), g.edges...)
}

// Cycles returns the strongly connected components with more than one file,
// plus files that include themselves. Each component is sorted and the
// components are ordered by their first name.
func (g *Graph) Cycles() ([][]string, error) {
	components, err := graphlib.StronglyConnectedComponents(g.g)
	if err != nil {
		return nil, err
	}

	var cycles [][]string
	for _, component := range components {
		if len(component) == 1 && !g.selfIncludes(component[0]) {
			continue
		}
		sort.Strings(component)
		cycles = append(cycles, component)
	}
	sort.Slice(cycles, func(i, j int) bool {
		return cycles[i][0] < cycles[j][0]
	})
	return cycles, nil
}

func (g *Graph) selfIncludes(name string) bool {
	_, err := g.g.Edge(name, name)
	return err == nil
}

// WriteDOT renders the graph in Graphviz DOT format. Vertices are listed in
// lexical order and edges by source then target, so equal graphs render
// byte-for-byte the same. Ambiguous edges are dashed.
func (g *Graph) WriteDOT(w io.Writer) error {
	vertices, err := g.Vertices()
	if err != nil {
		return err
	}
	edges := g.Edges()
	sort.SliceStable(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})

	var sb strings.Builder
	sb.WriteString("digraph includes {\n")
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [shape=box];\n")
	sb.WriteString("\n")
	for _, v := range vertices {
		sb.WriteString(fmt.Sprintf("  %q;\n", v))
	}
	if len(edges) > 0 {
		sb.WriteString("\n")
	}
	for _, e := range edges {
		if e.Ambiguous {
			sb.WriteString(fmt.Sprintf("  %q -> %q [style=dashed];\n", e.From, e.To))
			continue
		}
		sb.WriteString(fmt.Sprintf("  %q -> %q;\n", e.From, e.To))
	}
	sb.WriteString("}\n")

	_, err = io.WriteString(w, sb.String())
	return err
}
