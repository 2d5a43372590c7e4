package vectorstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"

	sq "github.com/Masterminds/squirrel"
	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"
)

func init() {
	// Registers the sqlite-vec extension with every future connection;
	// mirrors the teacher's package-level bootstrap.
	sqlite_vec.Auto()
}

var collectionNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// SQLiteStore is the primary VectorStore backend: one vec0 virtual table
// plus one documents table per collection, optionally paired with a bleve
// full-text index for hybrid search.
type SQLiteStore struct {
	db *sql.DB

	mu      sync.RWMutex
	handles map[string]collectionHandle // authoritative existence + dimension
	hybrid  map[string]*hybridIndex

	handleCache *HandleCache // hot-path memoization in front of handles
}

type collectionHandle struct {
	name      string
	dimension int
}

// Open creates or attaches to a SQLite database at path (":memory:" for an
// ephemeral store) and prepares it for vector collections.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, newErr(KindUnavailable, "open", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, newErr(KindUnavailable, "open", err)
	}

	handleCache, err := NewHandleCache()
	if err != nil {
		db.Close()
		return nil, newErr(KindInternal, "open", err)
	}

	return &SQLiteStore{
		db:          db,
		handles:     make(map[string]collectionHandle),
		hybrid:      make(map[string]*hybridIndex),
		handleCache: handleCache,
	}, nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range s.hybrid {
		h.close()
	}
	return s.db.Close()
}

func sanitizeCollection(name string) error {
	if !collectionNamePattern.MatchString(name) {
		return fmt.Errorf("collection name %q must match [a-zA-Z0-9_]+", name)
	}
	return nil
}

func docsTable(name string) string { return name + "_docs" }
func vecTable(name string) string  { return name + "_vec" }

func (s *SQLiteStore) CreateCollection(ctx context.Context, name string, dimension int) error {
	if err := sanitizeCollection(name); err != nil {
		return newErr(KindInvalidFilter, "createCollection", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.handles[name]; ok {
		return nil // idempotent: existing collection is not replaced
	}

	if err := s.createCollectionTables(name, dimension); err != nil {
		return err
	}

	h := collectionHandle{name: name, dimension: dimension}
	s.handles[name] = h
	s.handleCache.Set(name, h)
	return nil
}

func (s *SQLiteStore) createCollectionTables(name string, dimension int) error {
	docsDDL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			content TEXT NOT NULL,
			relative_path TEXT NOT NULL,
			start_line INTEGER NOT NULL,
			end_line INTEGER NOT NULL,
			file_extension TEXT NOT NULL,
			mtime INTEGER NOT NULL,
			metadata TEXT NOT NULL
		)
	`, docsTable(name))
	if _, err := s.db.Exec(docsDDL); err != nil {
		return newErr(KindInternal, "createCollection", fmt.Errorf("create docs table: %w", err))
	}

	vecDDL := fmt.Sprintf(`
		CREATE VIRTUAL TABLE IF NOT EXISTS %s USING vec0(
			id TEXT PRIMARY KEY,
			embedding float[%d]
		)
	`, vecTable(name), dimension)
	if _, err := s.db.Exec(vecDDL); err != nil {
		return newErr(KindInternal, "createCollection", fmt.Errorf("create vector table: %w", err))
	}

	return nil
}

func (s *SQLiteStore) CreateHybridCollection(ctx context.Context, name string, dimension int) error {
	if err := s.CreateCollection(ctx, name, dimension); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.hybrid[name]; ok {
		return nil
	}
	idx, err := newHybridIndex(name)
	if err != nil {
		return newErr(KindInternal, "createHybridCollection", err)
	}
	s.hybrid[name] = idx
	return nil
}

func (s *SQLiteStore) DropCollection(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.handles[name]; !ok {
		return newErr(KindNotFound, "dropCollection", fmt.Errorf("collection %q does not exist", name))
	}

	if _, err := s.db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", docsTable(name))); err != nil {
		return newErr(KindInternal, "dropCollection", err)
	}
	if _, err := s.db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", vecTable(name))); err != nil {
		return newErr(KindInternal, "dropCollection", err)
	}

	if idx, ok := s.hybrid[name]; ok {
		idx.close()
		delete(s.hybrid, name)
	}
	delete(s.handles, name)
	s.handleCache.Drop(name)
	return nil
}

func (s *SQLiteStore) HasCollection(ctx context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.handles[name]
	return ok, nil
}

func (s *SQLiteStore) ListCollections(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.handles))
	for n := range s.handles {
		names = append(names, n)
	}
	return names, nil
}

func (s *SQLiteStore) handle(name string) (collectionHandle, error) {
	if h, ok := s.handleCache.Get(name); ok {
		return h, nil
	}

	s.mu.RLock()
	h, ok := s.handles[name]
	s.mu.RUnlock()
	if !ok {
		return collectionHandle{}, newErr(KindNotFound, "lookup", fmt.Errorf("collection %q does not exist", name))
	}

	s.handleCache.Set(name, h)
	return h, nil
}

func (s *SQLiteStore) Insert(ctx context.Context, name string, documents []Document) error {
	if len(documents) == 0 {
		return nil
	}

	h, err := s.handle(name)
	if err != nil {
		return err
	}

	for _, doc := range documents {
		if len(doc.Vector) != h.dimension {
			return newErr(KindDimensionMismatch, "insert",
				fmt.Errorf("document %s has dimension %d, collection %q expects %d", doc.ID, len(doc.Vector), name, h.dimension))
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return newErr(KindInternal, "insert", err)
	}
	defer tx.Rollback()

	for _, doc := range documents {
		metaJSON, err := json.Marshal(doc.Metadata)
		if err != nil {
			return newErr(KindInternal, "insert", fmt.Errorf("marshal metadata for %s: %w", doc.ID, err))
		}

		_, err = sq.Insert(docsTable(name)).
			Columns("id", "content", "relative_path", "start_line", "end_line", "file_extension", "mtime", "metadata").
			Values(doc.ID, doc.Content, doc.RelativePath, doc.StartLine, doc.EndLine, doc.FileExtension, doc.Mtime, string(metaJSON)).
			Options("OR REPLACE").
			RunWith(tx).
			ExecContext(ctx)
		if err != nil {
			return newErr(KindInternal, "insert", fmt.Errorf("write document %s: %w", doc.ID, err))
		}

		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", vecTable(name)), doc.ID); err != nil {
			return newErr(KindInternal, "insert", fmt.Errorf("clear stale vector for %s: %w", doc.ID, err))
		}

		embBytes, err := sqlite_vec.SerializeFloat32(doc.Vector)
		if err != nil {
			return newErr(KindInternal, "insert", fmt.Errorf("serialize vector for %s: %w", doc.ID, err))
		}
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("INSERT INTO %s (id, embedding) VALUES (?, ?)", vecTable(name)), doc.ID, embBytes); err != nil {
			return newErr(KindInternal, "insert", fmt.Errorf("write vector for %s: %w", doc.ID, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return newErr(KindInternal, "insert", err)
	}

	s.mu.RLock()
	idx, hasHybrid := s.hybrid[name]
	s.mu.RUnlock()
	if hasHybrid {
		if err := idx.index(documents); err != nil {
			return newErr(KindInternal, "insert", fmt.Errorf("text index: %w", err))
		}
	}

	return nil
}

func (s *SQLiteStore) Search(ctx context.Context, name string, queryVector []float32, opts SearchOptions) ([]ScoredDocument, error) {
	h, err := s.handle(name)
	if err != nil {
		return nil, err
	}
	if len(queryVector) != h.dimension {
		return nil, newErr(KindDimensionMismatch, "search",
			fmt.Errorf("query vector has dimension %d, collection %q expects %d", len(queryVector), name, h.dimension))
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

	queryBytes, err := sqlite_vec.SerializeFloat32(queryVector)
	if err != nil {
		return nil, newErr(KindInternal, "search", err)
	}

	// sqlite-vec can't evaluate the Filter AST directly, so over-fetch a
	// wider KNN window and apply the filter in Go before truncating.
	fetchLimit := topK
	if opts.FilterExpr != nil {
		fetchLimit = topK * 5
		if fetchLimit < 50 {
			fetchLimit = 50
		}
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, vec_distance_cosine(embedding, ?) as distance
		FROM %s
		ORDER BY distance
		LIMIT ?
	`, vecTable(name)), queryBytes, fetchLimit)
	if err != nil {
		return nil, newErr(KindInternal, "search", err)
	}
	defer rows.Close()

	type candidate struct {
		id       string
		distance float64
	}
	var candidates []candidate
	for rows.Next() {
		var c candidate
		if err := rows.Scan(&c.id, &c.distance); err != nil {
			return nil, newErr(KindInternal, "search", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, newErr(KindInternal, "search", err)
	}

	var results []ScoredDocument
	for _, c := range candidates {
		doc, ok, err := s.fetchDocument(ctx, name, c.id)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if opts.FilterExpr != nil && !opts.FilterExpr.Match(fieldMap(doc)) {
			continue
		}
		results = append(results, ScoredDocument{Document: doc, Score: 1 - c.distance})
		if len(results) >= topK {
			break
		}
	}

	return results, nil
}

func (s *SQLiteStore) fetchDocument(ctx context.Context, name, id string) (Document, bool, error) {
	row := s.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT id, content, relative_path, start_line, end_line, file_extension, mtime, metadata
		FROM %s WHERE id = ?
	`, docsTable(name)), id)

	var doc Document
	var metaJSON string
	if err := row.Scan(&doc.ID, &doc.Content, &doc.RelativePath, &doc.StartLine, &doc.EndLine, &doc.FileExtension, &doc.Mtime, &metaJSON); err != nil {
		if err == sql.ErrNoRows {
			return Document{}, false, nil
		}
		return Document{}, false, newErr(KindInternal, "fetchDocument", err)
	}

	if metaJSON != "" {
		if err := json.Unmarshal([]byte(metaJSON), &doc.Metadata); err != nil {
			return Document{}, false, newErr(KindInternal, "fetchDocument", fmt.Errorf("unmarshal metadata: %w", err))
		}
	}
	return doc, true, nil
}

// HybridSearch fuses one ranked list per query vector via Reciprocal Rank
// Fusion (k=60). The hybrid text index is not consulted here; text ranking
// is fused only by HybridSearchText.
func (s *SQLiteStore) HybridSearch(ctx context.Context, name string, queryVectors [][]float32, opts HybridSearchOptions) ([]ScoredDocument, error) {
	if _, err := s.handle(name); err != nil {
		return nil, err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}

	var rankedLists [][]string
	for _, qv := range queryVectors {
		results, err := s.Search(ctx, name, qv, SearchOptions{TopK: limit * 3, FilterExpr: opts.FilterExpr})
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

	results := make([]ScoredDocument, 0, len(fused))
	for _, f := range fused {
		doc, ok, err := s.fetchDocument(ctx, name, f.id)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		results = append(results, ScoredDocument{Document: doc, Score: f.score})
	}
	return results, nil
}

// HybridSearchText runs a vector search plus a bleve full-text search
// against queryText and fuses the two ranked lists via RRF. Requires the
// collection to have been created with CreateHybridCollection.
func (s *SQLiteStore) HybridSearchText(ctx context.Context, name string, queryVector []float32, queryText string, opts HybridSearchOptions) ([]ScoredDocument, error) {
	if _, err := s.handle(name); err != nil {
		return nil, err
	}

	s.mu.RLock()
	idx, hasHybrid := s.hybrid[name]
	s.mu.RUnlock()
	if !hasHybrid {
		return nil, newErr(KindInvalidFilter, "hybridSearchText", fmt.Errorf("collection %q has no text index", name))
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}

	vecResults, err := s.Search(ctx, name, queryVector, SearchOptions{TopK: limit * 3, FilterExpr: opts.FilterExpr})
	if err != nil {
		return nil, err
	}
	vecIDs := make([]string, len(vecResults))
	for i, r := range vecResults {
		vecIDs[i] = r.Document.ID
	}

	textIDs, err := idx.search(queryText, limit*3)
	if err != nil {
		return nil, newErr(KindInternal, "hybridSearchText", err)
	}

	fused := reciprocalRankFusion([][]string{vecIDs, textIDs}, 60)
	if len(fused) > limit {
		fused = fused[:limit]
	}

	results := make([]ScoredDocument, 0, len(fused))
	for _, f := range fused {
		doc, ok, err := s.fetchDocument(ctx, name, f.id)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if opts.FilterExpr != nil && !opts.FilterExpr.Match(fieldMap(doc)) {
			continue
		}
		results = append(results, ScoredDocument{Document: doc, Score: f.score})
	}
	return results, nil
}

func (s *SQLiteStore) Query(ctx context.Context, name string, filter *Filter, outputFields []string, limit int) ([]Row, error) {
	if _, err := s.handle(name); err != nil {
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

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, content, relative_path, start_line, end_line, file_extension, mtime, metadata
		FROM %s
	`, docsTable(name)))
	if err != nil {
		return nil, newErr(KindInternal, "query", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var doc Document
		var metaJSON string
		if err := rows.Scan(&doc.ID, &doc.Content, &doc.RelativePath, &doc.StartLine, &doc.EndLine, &doc.FileExtension, &doc.Mtime, &metaJSON); err != nil {
			return nil, newErr(KindInternal, "query", err)
		}
		if metaJSON != "" {
			if err := json.Unmarshal([]byte(metaJSON), &doc.Metadata); err != nil {
				return nil, newErr(KindInternal, "query", err)
			}
		}

		if filter != nil && !filter.Match(fieldMap(doc)) {
			continue
		}

		out = append(out, Row{Fields: projectFields(doc, outputFields), Metadata: doc.Metadata})
		if len(out) >= limit {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, newErr(KindInternal, "query", err)
	}

	return out, nil
}

func projectFields(doc Document, fields []string) map[string]any {
	all := map[string]any{
		"id":            doc.ID,
		"content":       doc.Content,
		"relativePath":  doc.RelativePath,
		"startLine":     doc.StartLine,
		"endLine":       doc.EndLine,
		"fileExtension": doc.FileExtension,
		"mtime":         doc.Mtime,
	}
	if len(fields) == 0 {
		return all
	}
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		if v, ok := all[f]; ok {
			out[f] = v
		}
	}
	return out
}

func (s *SQLiteStore) Delete(ctx context.Context, name string, ids []string) error {
	if _, err := s.handle(name); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	inClause := strings.Join(placeholders, ", ")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return newErr(KindInternal, "delete", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id IN (%s)", docsTable(name), inClause), args...); err != nil {
		return newErr(KindInternal, "delete", err)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id IN (%s)", vecTable(name), inClause), args...); err != nil {
		return newErr(KindInternal, "delete", err)
	}
	if err := tx.Commit(); err != nil {
		return newErr(KindInternal, "delete", err)
	}

	s.mu.RLock()
	idx, hasHybrid := s.hybrid[name]
	s.mu.RUnlock()
	if hasHybrid {
		if err := idx.delete(ids); err != nil {
			return newErr(KindInternal, "delete", fmt.Errorf("text index: %w", err))
		}
	}

	return nil
}
