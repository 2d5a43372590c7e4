package ranking

// Test Plan:
// - extractImports recognizes each supported language family
// - resolveImportTarget resolves relative imports against the importing file's directory
// - resolveImportTarget passes package-style imports through unchanged
// - CountImports derives in-degree based counts and the collection max

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractImports(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"js named import", `import { foo } from './bar';`, "bar"},
		{"js require", `const bar = require('./bar');`, "bar"},
		{"python from import", `from pkg.bar import baz`, "pkg.bar"},
		{"c include", `#include "bar.h"`, "bar.h"},
		{"rust use", `use bar::baz;`, "bar::baz"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := extractImports(tc.content, "foo.go", "/root")
			assert.Contains(t, got, tc.want)
		})
	}
}

func TestExtractImports_Dedup(t *testing.T) {
	t.Parallel()
	content := "import { a } from './bar';\nimport { b } from './bar';"
	got := extractImports(content, "foo.go", "/root")
	assert.Len(t, got, 1)
}

func TestResolveImportTarget(t *testing.T) {
	t.Parallel()

	t.Run("relative import resolves against the importing file's directory", func(t *testing.T) {
		got := resolveImportTarget("./bar", "pkg/foo.go", "/root")
		assert.Equal(t, "pkg/bar", got)
	})

	t.Run("parent-relative import", func(t *testing.T) {
		got := resolveImportTarget("../bar", "pkg/sub/foo.go", "/root")
		assert.Equal(t, "pkg/bar", got)
	})

	t.Run("package-style import passes through unchanged", func(t *testing.T) {
		got := resolveImportTarget("fmt", "pkg/foo.go", "/root")
		assert.Equal(t, "fmt", got)
	})

	t.Run("empty import resolves to empty", func(t *testing.T) {
		assert.Equal(t, "", resolveImportTarget("  ", "pkg/foo.go", "/root"))
	})
}

func TestCountImports(t *testing.T) {
	t.Parallel()

	docs := []DocumentContent{
		{RelativePath: "a.go", Content: `import { x } from './shared';`},
		{RelativePath: "b.go", Content: `import { y } from './shared';`},
		{RelativePath: "c.go", Content: "import { z } from './shared';\nimport { w } from './other';"},
	}

	counts := CountImports(docs, "/root")
	assert.Equal(t, 3, counts.ByTarget["shared"])
	assert.Equal(t, 1, counts.ByTarget["other"])
	assert.Equal(t, 3, counts.Max)
	assert.Zero(t, counts.ByTarget["a.go"], "a document with no importers has no entry")
}

func TestCountImports_Empty(t *testing.T) {
	t.Parallel()
	counts := CountImports(nil, "/root")
	assert.Empty(t, counts.ByTarget)
	assert.Equal(t, 0, counts.Max)
}
