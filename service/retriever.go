package service

import (
	"context"
	"fmt"

	"github.com/tieubaoca/study-assistant-be/database"
	"github.com/tieubaoca/study-assistant-be/types"
)

const DefaultRetrievalTopK = 3

// Retriever composes query embedding with index lookup. Results are not
// cached; queries are cheap next to embedding and index builds.
type Retriever struct {
	embedder Embedder
	indexes  *database.IndexManager
}

func NewRetriever(embedder Embedder, indexes *database.IndexManager) *Retriever {
	return &Retriever{
		embedder: embedder,
		indexes:  indexes,
	}
}

// Retrieve returns the top-k most relevant chunks for the query. Any
// failure to load the index or embed the query surfaces as
// types.ErrRetrievalUnavailable so callers can degrade gracefully.
func (r *Retriever) Retrieve(ctx context.Context, documentID, query string, k int) ([]types.ScoredChunk, error) {
	if k <= 0 {
		k = DefaultRetrievalTopK
	}

	vectors, err := r.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrRetrievalUnavailable, err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("%w: empty query embedding", types.ErrRetrievalUnavailable)
	}

	results, err := r.indexes.Search(documentID, vectors[0], k)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrRetrievalUnavailable, err)
	}
	return results, nil
}
