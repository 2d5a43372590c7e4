package indexcore

import (
	"context"

	"github.com/codectx/codectx/internal/filesync"
	"github.com/codectx/codectx/internal/vectorstore"
)

// collectionName derives the VectorStore collection name for a codebase from
// its absolute path, reusing filesync's derivation so the manifest directory
// and the collection always agree on identity for the same codebase.
func collectionName(codebaseAbsPath string) string {
	return filesync.DeriveName(codebaseAbsPath)
}

// ensureCollection creates name if it doesn't already exist. An existing
// collection is left untouched; a dimension mismatch against previously
// indexed documents surfaces naturally from Insert as KindDimensionMismatch
// rather than being pre-checked here, since VectorStore exposes no way to
// read back a collection's declared dimension.
func ensureCollection(ctx context.Context, store vectorstore.VectorStore, name string, dimension int, hybrid bool) error {
	exists, err := store.HasCollection(ctx, name)
	if err != nil {
		return translateStoreErr("hasCollection", err)
	}
	if exists {
		return nil
	}

	if hybrid {
		err = store.CreateHybridCollection(ctx, name, dimension)
	} else {
		err = store.CreateCollection(ctx, name, dimension)
	}
	if err != nil {
		return translateStoreErr("createCollection", err)
	}
	return nil
}
