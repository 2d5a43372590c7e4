package vectorstore

import (
	"fmt"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
)

// hybridIndex is an in-memory bleve full-text index over one collection's
// document content, used as the text-side ranked list in hybrid search.
type hybridIndex struct {
	mu    sync.RWMutex
	index bleve.Index
}

func newHybridIndex(collection string) (*hybridIndex, error) {
	mapping := buildHybridMapping()
	idx, err := bleve.NewMemOnly(mapping)
	if err != nil {
		return nil, fmt.Errorf("create bleve index for %s: %w", collection, err)
	}
	return &hybridIndex{index: idx}, nil
}

func buildHybridMapping() *mapping.IndexMappingImpl {
	contentMapping := bleve.NewTextFieldMapping()
	contentMapping.Analyzer = "standard"
	contentMapping.Store = false
	contentMapping.Index = true

	pathMapping := bleve.NewTextFieldMapping()
	pathMapping.Analyzer = "keyword"
	pathMapping.Store = false
	pathMapping.Index = true

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("content", contentMapping)
	docMapping.AddFieldMappingsAt("relativePath", pathMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

type hybridDoc struct {
	Content      string `json:"content"`
	RelativePath string `json:"relativePath"`
}

func (h *hybridIndex) index(documents []Document) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	batch := h.index.NewBatch()
	for _, doc := range documents {
		if err := batch.Index(doc.ID, hybridDoc{Content: doc.Content, RelativePath: doc.RelativePath}); err != nil {
			return fmt.Errorf("add %s to batch: %w", doc.ID, err)
		}
	}
	return h.index.Batch(batch)
}

func (h *hybridIndex) delete(ids []string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	batch := h.index.NewBatch()
	for _, id := range ids {
		batch.Delete(id)
	}
	return h.index.Batch(batch)
}

// search returns document ids ranked by bleve relevance for queryText.
func (h *hybridIndex) search(queryText string, limit int) ([]string, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	q := bleve.NewQueryStringQuery(queryText)
	req := bleve.NewSearchRequestOptions(q, limit, 0, false)

	result, err := h.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("bleve search: %w", err)
	}

	ids := make([]string, 0, len(result.Hits))
	for _, hit := range result.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}

func (h *hybridIndex) close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.index.Close()
}
