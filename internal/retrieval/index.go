package retrieval

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/tmc/langchaingo/embeddings"

	"github.com/sqlynx/sqlynx/internal/sqlengine"
)

const (
	embedDocumentsErrorTemplateConstant = "failed to embed table schema descriptions: %w"
	embedQueryErrorTemplateConstant     = "failed to embed question: %w"
	vectorCountMismatchTemplateConstant = "embedder returned %d vectors for %d descriptions"
)

// IndexEntry holds one embedded table schema description.
type IndexEntry struct {
	TableName   string    `json:"table_name"`
	Description string    `json:"description"`
	Vector      []float32 `json:"vector"`
}

// SchemaIndex is the persisted collection of embedded table schemas.
type SchemaIndex struct {
	Entries []IndexEntry `json:"entries"`
}

// ScoredTable pairs a table schema description with its similarity to a question.
type ScoredTable struct {
	TableName   string
	Description string
	Score       float64
}

// BuildSchemaIndex embeds every table schema description into a fresh index.
func BuildSchemaIndex(executionContext context.Context, embedder embeddings.Embedder, schemas []sqlengine.TableSchema) (SchemaIndex, error) {
	descriptions := make([]string, len(schemas))
	for schemaIndex, schema := range schemas {
		descriptions[schemaIndex] = schema.Description()
	}

	vectors, embedError := embedder.EmbedDocuments(executionContext, descriptions)
	if embedError != nil {
		return SchemaIndex{}, fmt.Errorf(embedDocumentsErrorTemplateConstant, embedError)
	}
	if len(vectors) != len(descriptions) {
		return SchemaIndex{}, fmt.Errorf(vectorCountMismatchTemplateConstant, len(vectors), len(descriptions))
	}

	entries := make([]IndexEntry, len(schemas))
	for entryIndex, schema := range schemas {
		entries[entryIndex] = IndexEntry{
			TableName:   schema.Name,
			Description: descriptions[entryIndex],
			Vector:      vectors[entryIndex],
		}
	}

	return SchemaIndex{Entries: entries}, nil
}

// Retrieve returns the topK table schemas most similar to the question.
func (index SchemaIndex) Retrieve(executionContext context.Context, embedder embeddings.Embedder, question string, topK int) ([]ScoredTable, error) {
	questionVector, embedError := embedder.EmbedQuery(executionContext, question)
	if embedError != nil {
		return nil, fmt.Errorf(embedQueryErrorTemplateConstant, embedError)
	}

	scoredTables := make([]ScoredTable, 0, len(index.Entries))
	for _, entry := range index.Entries {
		scoredTables = append(scoredTables, ScoredTable{
			TableName:   entry.TableName,
			Description: entry.Description,
			Score:       cosineSimilarity(questionVector, entry.Vector),
		})
	}

	sort.SliceStable(scoredTables, func(firstIndex, secondIndex int) bool {
		return scoredTables[firstIndex].Score > scoredTables[secondIndex].Score
	})

	if topK > 0 && topK < len(scoredTables) {
		scoredTables = scoredTables[:topK]
	}

	return scoredTables, nil
}

func cosineSimilarity(firstVector []float32, secondVector []float32) float64 {
	if len(firstVector) != len(secondVector) || len(firstVector) == 0 {
		return 0
	}

	var dotProduct, firstMagnitude, secondMagnitude float64
	for componentIndex := range firstVector {
		firstComponent := float64(firstVector[componentIndex])
		secondComponent := float64(secondVector[componentIndex])
		dotProduct += firstComponent * secondComponent
		firstMagnitude += firstComponent * firstComponent
		secondMagnitude += secondComponent * secondComponent
	}
	if firstMagnitude == 0 || secondMagnitude == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(firstMagnitude) * math.Sqrt(secondMagnitude))
}
