package chunk

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	c "github.com/tree-sitter/tree-sitter-c/bindings/go"
	java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	php "github.com/tree-sitter/tree-sitter-php/bindings/go"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	ruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"
	rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// languageRegistry builds the *sitter.Language for every syntax-aware tag.
// Each call builds a fresh map; sitter.Language values are safe for
// concurrent Parser use.
func languageRegistry() map[string]*sitter.Language {
	return map[string]*sitter.Language{
		"c":          sitter.NewLanguage(c.Language()),
		"java":       sitter.NewLanguage(java.Language()),
		"php":        sitter.NewLanguage(php.LanguagePHP()),
		"python":     sitter.NewLanguage(python.Language()),
		"ruby":       sitter.NewLanguage(ruby.Language()),
		"rust":       sitter.NewLanguage(rust.Language()),
		"typescript": sitter.NewLanguage(typescript.LanguageTypescript()),
	}
}
