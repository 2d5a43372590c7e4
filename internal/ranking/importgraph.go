package ranking

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dominikbraun/graph"
)

// importPatterns is a language-agnostic regex family for import
// statements, matched against raw chunk content. Each pattern's first
// capture group is the imported module/path string.
var importPatterns = []*regexp.Regexp{
	regexp.MustCompile(`import\s+.*?\s+from\s+['"]([^'"]+)['"]`),    // import { x } from 'y' (JS/TS)
	regexp.MustCompile(`require\(\s*['"]([^'"]+)['"]\s*\)`),         // require('y')
	regexp.MustCompile(`from\s+([\w.]+)\s+import\b`),                // from x import y (Python)
	regexp.MustCompile(`#include\s+["<]([^">]+)[">]`),               // #include "y" / <y>
	regexp.MustCompile(`\buse\s+([\w:]+)`),                          // use x (Rust/PHP)
}

// ImportCounts maps a resolved import target back to the number of
// documents across the collection that import it.
type ImportCounts struct {
	ByTarget map[string]int
	Max      int
}

// DocumentContent is the minimal per-document view CountImports needs: its
// own relative path (the vertex import edges point at) and raw content (the
// text import statements are extracted from). Multiple documents sharing a
// relativePath (one codebase file split into several chunks) are expected
// and merge harmlessly, since graph vertices/edges are idempotent.
type DocumentContent struct {
	RelativePath string
	Content      string
}

// extractImports returns the resolved import targets found in content,
// relative to codebaseRoot when the target looks like a relative path.
func extractImports(content, relativePath, codebaseRoot string) []string {
	seen := make(map[string]bool)
	var targets []string

	for _, re := range importPatterns {
		for _, m := range re.FindAllStringSubmatch(content, -1) {
			if len(m) < 2 {
				continue
			}
			target := resolveImportTarget(m[1], relativePath, codebaseRoot)
			if target == "" || seen[target] {
				continue
			}
			seen[target] = true
			targets = append(targets, target)
		}
	}
	return targets
}

func resolveImportTarget(raw, fromRelativePath, codebaseRoot string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	if !strings.HasPrefix(raw, ".") {
		return raw // package/module name: resolved as-is, not file-relative
	}
	dir := filepath.Dir(filepath.Join(codebaseRoot, fromRelativePath))
	resolved := filepath.Join(dir, raw)
	rel, err := filepath.Rel(codebaseRoot, resolved)
	if err != nil {
		return raw
	}
	return filepath.ToSlash(rel)
}

// CountImports builds a directed import graph over docs (one vertex per
// document's relative path plus one per resolved import target, with edges
// extracted from each document's content) and reads maxImportCount /
// per-path importCount off each target's in-degree.
func CountImports(docs []DocumentContent, codebaseRoot string) ImportCounts {
	g := graph.New(func(s string) string { return s }, graph.Directed())

	addVertex := func(id string) {
		_ = g.AddVertex(id) // idempotent: AddVertex errors on duplicates, which we ignore
	}

	for _, d := range docs {
		addVertex(d.RelativePath)
		for _, target := range extractImports(d.Content, d.RelativePath, codebaseRoot) {
			addVertex(target)
			_ = g.AddEdge(d.RelativePath, target) // ignore duplicate-edge errors
		}
	}

	predecessors, err := g.PredecessorMap()
	if err != nil {
		return ImportCounts{ByTarget: map[string]int{}}
	}

	counts := make(map[string]int, len(predecessors))
	max := 0
	for target, preds := range predecessors {
		n := len(preds)
		if n == 0 {
			continue
		}
		counts[target] = n
		if n > max {
			max = n
		}
	}

	return ImportCounts{ByTarget: counts, Max: max}
}
