package retrieval

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tmc/langchaingo/embeddings"

	"github.com/sqlynx/sqlynx/internal/sqlengine"
)

const (
	// DefaultIndexDirectory mirrors the storage location of the original index.
	DefaultIndexDirectory = "storage/sql_index_data"

	indexFileNameConstant                 = "index.json"
	indexDirectoryErrorTemplateConstant   = "failed to create index directory: %w"
	indexSerializeErrorTemplateConstant   = "failed to serialize schema index: %w"
	indexWriteErrorTemplateConstant       = "failed to persist schema index: %w"
	indexReadErrorTemplateConstant        = "failed to read schema index: %w"
	indexDeserializeErrorTemplateConstant = "failed to parse schema index: %w"
	indexFileModeConstant                 = 0o644
	indexDirectoryModeConstant            = 0o755
)

// Persist writes the index as JSON below the provided directory.
func (index SchemaIndex) Persist(indexDirectory string) error {
	if directoryError := os.MkdirAll(indexDirectory, indexDirectoryModeConstant); directoryError != nil {
		return fmt.Errorf(indexDirectoryErrorTemplateConstant, directoryError)
	}

	serializedIndex, marshalError := json.Marshal(index)
	if marshalError != nil {
		return fmt.Errorf(indexSerializeErrorTemplateConstant, marshalError)
	}

	indexFilePath := filepath.Join(indexDirectory, indexFileNameConstant)
	if writeError := os.WriteFile(indexFilePath, serializedIndex, indexFileModeConstant); writeError != nil {
		return fmt.Errorf(indexWriteErrorTemplateConstant, writeError)
	}

	return nil
}

// LoadSchemaIndex reads a previously persisted index from the provided directory.
//
// The boolean result reports whether a persisted index was found.
func LoadSchemaIndex(indexDirectory string) (SchemaIndex, bool, error) {
	indexFilePath := filepath.Join(indexDirectory, indexFileNameConstant)

	serializedIndex, readError := os.ReadFile(indexFilePath)
	if readError != nil {
		if errors.Is(readError, fs.ErrNotExist) {
			return SchemaIndex{}, false, nil
		}
		return SchemaIndex{}, false, fmt.Errorf(indexReadErrorTemplateConstant, readError)
	}

	var loadedIndex SchemaIndex
	if unmarshalError := json.Unmarshal(serializedIndex, &loadedIndex); unmarshalError != nil {
		return SchemaIndex{}, false, fmt.Errorf(indexDeserializeErrorTemplateConstant, unmarshalError)
	}

	return loadedIndex, true, nil
}

// EnsureSchemaIndex loads the persisted index when present and otherwise builds and persists a fresh one.
func EnsureSchemaIndex(executionContext context.Context, embedder embeddings.Embedder, indexDirectory string, schemas []sqlengine.TableSchema) (SchemaIndex, error) {
	loadedIndex, indexFound, loadError := LoadSchemaIndex(indexDirectory)
	if loadError != nil {
		return SchemaIndex{}, loadError
	}
	if indexFound {
		return loadedIndex, nil
	}

	builtIndex, buildError := BuildSchemaIndex(executionContext, embedder, schemas)
	if buildError != nil {
		return SchemaIndex{}, buildError
	}
	if persistError := builtIndex.Persist(indexDirectory); persistError != nil {
		return SchemaIndex{}, persistError
	}

	return builtIndex, nil
}
