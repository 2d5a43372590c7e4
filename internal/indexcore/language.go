package indexcore

import "strings"

// languageByExt maps a file extension (including the leading dot) to the
// language tag passed to chunk.Chunker.Split and stored on documents.
// Extensions outside tree-sitter's supported set (see
// internal/chunk/languages.go) still get a language tag for search/ranking
// purposes; the chunker silently falls back to size-bounded splitting for
// them.
var languageByExt = map[string]string{
	".go":   "go",
	".ts":   "typescript",
	".tsx":  "typescript",
	".js":   "javascript",
	".jsx":  "javascript",
	".py":   "python",
	".rs":   "rust",
	".c":    "c",
	".cpp":  "cpp",
	".cc":   "cpp",
	".h":    "c",
	".hpp":  "cpp",
	".php":  "php",
	".rb":   "ruby",
	".java": "java",
	".md":   "markdown",
	".rst":  "rst",
}

func languageForPath(relativePath string) string {
	ext := extOf(relativePath)
	if lang, ok := languageByExt[ext]; ok {
		return lang
	}
	return "plaintext"
}

func extOf(relativePath string) string {
	i := strings.LastIndexByte(relativePath, '.')
	if i < 0 {
		return ""
	}
	return strings.ToLower(relativePath[i:])
}
