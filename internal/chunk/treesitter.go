package chunk

import (
	"context"
	"fmt"
	"sort"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// declarationTargetSize bounds how many top-level declarations are grouped
// into a single chunk before a new one starts; it is a soft target (unlike
// the fallback splitter's hard chunkSize), since declaration boundaries take
// priority over exact sizing.
const declarationTargetSize = 1800

// treeSitterSplitter implements the syntax-aware chunking strategy: it
// splits source at the top-level declaration boundaries tree-sitter exposes,
// grouping adjacent small declarations together up to a soft target size.
type treeSitterSplitter struct {
	languages map[string]*sitter.Language
}

func newTreeSitterSplitter() *treeSitterSplitter {
	return &treeSitterSplitter{languages: languageRegistry()}
}

func (t *treeSitterSplitter) supports(languageTag string) bool {
	_, ok := t.languages[languageTag]
	return ok
}

func (t *treeSitterSplitter) supportedLanguages() []string {
	names := make([]string, 0, len(t.languages))
	for name := range t.languages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (t *treeSitterSplitter) split(ctx context.Context, code []byte, languageTag, filePath string) ([]Chunk, error) {
	lang, ok := t.languages[languageTag]
	if !ok {
		return nil, fmt.Errorf("chunk: unsupported language %q", languageTag)
	}

	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(lang); err != nil {
		return nil, fmt.Errorf("chunk: set language %q: %w", languageTag, err)
	}

	tree := parser.Parse(code, nil)
	if tree == nil {
		return nil, fmt.Errorf("chunk: failed to parse %s as %s", filePath, languageTag)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil || root.ChildCount() == 0 {
		return nil, nil
	}

	lineStarts := computeLineStarts(string(code))

	type span struct {
		startByte, endByte uint
	}
	var spans []span
	childCount := int(root.ChildCount())
	for i := 0; i < childCount; i++ {
		child := root.Child(uint(i))
		if child == nil {
			continue
		}
		spans = append(spans, span{startByte: child.StartByte(), endByte: child.EndByte()})
	}
	if len(spans) == 0 {
		return nil, nil
	}

	var chunks []Chunk
	groupStart := spans[0].startByte
	groupEnd := spans[0].endByte

	flush := func() {
		text := strings.TrimRight(string(code[groupStart:groupEnd]), "\n")
		if strings.TrimSpace(text) == "" {
			return
		}
		startLine := byteOffsetToLine(lineStarts, int(groupStart))
		endLine := byteOffsetToLine(lineStarts, int(groupEnd)-1)
		chunks = append(chunks, Chunk{
			Content:   text,
			StartLine: startLine,
			EndLine:   endLine,
			Language:  languageTag,
			FilePath:  filePath,
		})
	}

	for i := 1; i < len(spans); i++ {
		s := spans[i]
		if int(s.endByte-groupStart) > declarationTargetSize {
			flush()
			groupStart = s.startByte
			groupEnd = s.endByte
			continue
		}
		groupEnd = s.endByte
	}
	flush()

	return chunks, nil
}
