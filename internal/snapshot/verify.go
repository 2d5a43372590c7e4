package snapshot

import "context"

// CollectionChecker reports whether a codebase's VectorStore collection
// still holds data. err non-nil means the check itself failed (e.g. the
// store is unreachable); hasData is only meaningful when err is nil.
type CollectionChecker func(ctx context.Context, codebasePath string) (hasData bool, err error)

// Verify asks check about every codebase listed in s.IndexedCodebases and
// applies spec.md §4.6's verification outcomes:
//   - hasData, no error -> keep
//   - no data, no error (NotFound or empty) -> remove from the snapshot
//   - any error (Unavailable or otherwise) -> keep; a transient failure must
//     never be allowed to silently drop an entry
//
// Returns whether any entry was removed, so the caller can decide whether
// the snapshot needs saving (it is saved only on a removal, per spec).
func Verify(ctx context.Context, s *Snapshot, check CollectionChecker) bool {
	mutated := false

	for _, path := range append([]string{}, s.IndexedCodebases...) {
		hasData, err := check(ctx, path)
		if err != nil {
			continue // transient or unknown failure: keep
		}
		if !hasData {
			s.MarkUnknown(path)
			mutated = true
		}
	}

	return mutated
}
