package vectorstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/philippgille/chromem-go"
)

// ChromemStore is an alternate, fully in-process VectorStore backend for
// deployments that want to avoid a SQLite dependency. It has no hybrid
// text index; CreateHybridCollection behaves the same as CreateCollection.
//
// chromem-go owns vector storage and ANN search; a shadow map of Documents
// keyed by id is kept alongside it, since the public chromem API exposes
// no by-id lookup or full scan beyond QueryEmbedding.
type ChromemStore struct {
	mu          sync.RWMutex
	db          *chromem.DB
	collections map[string]*chromem.Collection
	dimensions  map[string]int
	shadow      map[string]map[string]Document // collection -> id -> Document
}

// NewChromemStore returns an empty in-process store.
func NewChromemStore() *ChromemStore {
	return &ChromemStore{
		db:          chromem.NewDB(),
		collections: make(map[string]*chromem.Collection),
		dimensions:  make(map[string]int),
		shadow:      make(map[string]map[string]Document),
	}
}

func (c *ChromemStore) CreateCollection(ctx context.Context, name string, dimension int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.collections[name]; ok {
		return nil
	}

	// nil embedding func: vectors are supplied directly by the caller, the
	// collection never needs to embed text itself.
	coll, err := c.db.CreateCollection(name, nil, nil)
	if err != nil {
		return newErr(KindInternal, "createCollection", err)
	}

	c.collections[name] = coll
	c.dimensions[name] = dimension
	c.shadow[name] = make(map[string]Document)
	return nil
}

func (c *ChromemStore) CreateHybridCollection(ctx context.Context, name string, dimension int) error {
	return c.CreateCollection(ctx, name, dimension)
}

func (c *ChromemStore) DropCollection(ctx context.Context, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.collections[name]; !ok {
		return newErr(KindNotFound, "dropCollection", fmt.Errorf("collection %q does not exist", name))
	}

	if err := c.db.DeleteCollection(name); err != nil {
		return newErr(KindInternal, "dropCollection", err)
	}
	delete(c.collections, name)
	delete(c.dimensions, name)
	delete(c.shadow, name)
	return nil
}

func (c *ChromemStore) HasCollection(ctx context.Context, name string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.collections[name]
	return ok, nil
}

func (c *ChromemStore) ListCollections(ctx context.Context) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.collections))
	for n := range c.collections {
		names = append(names, n)
	}
	return names, nil
}

func (c *ChromemStore) lookup(name string) (*chromem.Collection, int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	coll, ok := c.collections[name]
	if !ok {
		return nil, 0, newErr(KindNotFound, "lookup", fmt.Errorf("collection %q does not exist", name))
	}
	return coll, c.dimensions[name], nil
}

func (c *ChromemStore) Insert(ctx context.Context, name string, documents []Document) error {
	if len(documents) == 0 {
		return nil
	}

	coll, dimension, err := c.lookup(name)
	if err != nil {
		return err
	}

	for _, doc := range documents {
		if len(doc.Vector) != dimension {
			return newErr(KindDimensionMismatch, "insert",
				fmt.Errorf("document %s has dimension %d, collection %q expects %d", doc.ID, len(doc.Vector), name, dimension))
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, doc := range documents {
		// chromem-go has no native upsert; delete any existing entry first.
		_ = coll.Delete(ctx, nil, nil, doc.ID)

		if err := coll.AddDocument(ctx, chromem.Document{
			ID:        doc.ID,
			Content:   doc.Content,
			Embedding: doc.Vector,
		}); err != nil {
			return newErr(KindInternal, "insert", fmt.Errorf("add document %s: %w", doc.ID, err))
		}

		c.shadow[name][doc.ID] = doc
	}

	return nil
}

func (c *ChromemStore) Search(ctx context.Context, name string, queryVector []float32, opts SearchOptions) ([]ScoredDocument, error) {
	coll, dimension, err := c.lookup(name)
	if err != nil {
		return nil, err
	}
	if len(queryVector) != dimension {
		return nil, newErr(KindDimensionMismatch, "search",
			fmt.Errorf("query vector has dimension %d, collection %q expects %d", len(queryVector), name, dimension))
	}
	if opts.FilterExpr != nil {
		if err := opts.FilterExpr.Validate(); err != nil {
			return nil, err
		}
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = 10
	}

	fetchN := topK
	if opts.FilterExpr != nil {
		fetchN = topK * 5
	}
	if fetchN > coll.Count() {
		fetchN = coll.Count()
	}
	if fetchN == 0 {
		return nil, nil
	}

	docs, err := coll.QueryEmbedding(ctx, queryVector, fetchN, nil, nil)
	if err != nil {
		return nil, newErr(KindInternal, "search", err)
	}

	c.mu.RLock()
	shadow := c.shadow[name]
	c.mu.RUnlock()

	results := make([]ScoredDocument, 0, topK)
	for _, d := range docs {
		doc, ok := shadow[d.ID]
		if !ok {
			continue
		}
		if opts.FilterExpr != nil && !opts.FilterExpr.Match(fieldMap(doc)) {
			continue
		}
		results = append(results, ScoredDocument{Document: doc, Score: float64(d.Similarity)})
		if len(results) >= topK {
			break
		}
	}

	return results, nil
}

func (c *ChromemStore) HybridSearch(ctx context.Context, name string, queryVectors [][]float32, opts HybridSearchOptions) ([]ScoredDocument, error) {
	if _, _, err := c.lookup(name); err != nil {
		return nil, err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}

	var rankedLists [][]string
	for _, qv := range queryVectors {
		results, err := c.Search(ctx, name, qv, SearchOptions{TopK: limit * 3, FilterExpr: opts.FilterExpr})
		if err != nil {
			return nil, err
		}
		ids := make([]string, len(results))
		for i, r := range results {
			ids[i] = r.Document.ID
		}
		rankedLists = append(rankedLists, ids)
	}

	fused := reciprocalRankFusion(rankedLists, 60)
	if len(fused) > limit {
		fused = fused[:limit]
	}

	c.mu.RLock()
	shadow := c.shadow[name]
	c.mu.RUnlock()

	results := make([]ScoredDocument, 0, len(fused))
	for _, f := range fused {
		doc, ok := shadow[f.id]
		if !ok {
			continue
		}
		results = append(results, ScoredDocument{Document: doc, Score: f.score})
	}
	return results, nil
}

func (c *ChromemStore) Query(ctx context.Context, name string, filter *Filter, outputFields []string, limit int) ([]Row, error) {
	if _, _, err := c.lookup(name); err != nil {
		return nil, err
	}
	if filter != nil {
		if err := filter.Validate(); err != nil {
			return nil, err
		}
	}
	if limit <= 0 {
		limit = 1000
	}

	c.mu.RLock()
	shadow := c.shadow[name]
	docs := make([]Document, 0, len(shadow))
	for _, doc := range shadow {
		docs = append(docs, doc)
	}
	c.mu.RUnlock()

	var out []Row
	for _, doc := range docs {
		if filter != nil && !filter.Match(fieldMap(doc)) {
			continue
		}
		out = append(out, Row{Fields: projectFields(doc, outputFields), Metadata: doc.Metadata})
		if len(out) >= limit {
			break
		}
	}

	return out, nil
}

func (c *ChromemStore) Delete(ctx context.Context, name string, ids []string) error {
	coll, _, err := c.lookup(name)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	shadow := c.shadow[name]
	for _, id := range ids {
		_ = coll.Delete(ctx, nil, nil, id)
		delete(shadow, id)
	}
	return nil
}

func (c *ChromemStore) Close() error {
	return nil
}
