package nlquery

import (
	"context"

	"github.com/tmc/langchaingo/embeddings"

	"github.com/sqlynx/sqlynx/internal/retrieval"
)

// IndexRetriever adapts a schema index and an embedder to the TableRetriever interface.
type IndexRetriever struct {
	Index    retrieval.SchemaIndex
	Embedder embeddings.Embedder
}

// Retrieve returns the topK table schemas most similar to the question.
func (indexRetriever IndexRetriever) Retrieve(executionContext context.Context, question string, topK int) ([]retrieval.ScoredTable, error) {
	return indexRetriever.Index.Retrieve(executionContext, indexRetriever.Embedder, question, topK)
}
