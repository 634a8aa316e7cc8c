package knowledge

import (
	"errors"
	"fmt"
	"os"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
)

const textField = "text"

// Passage is one chunk of the knowledge corpus as stored in the index.
type Passage struct {
	Seq  int    `json:"seq"`
	Text string `json:"text"`
}

func NewIndexMapping() mapping.IndexMapping {
	passageMapping := bleve.NewDocumentMapping()

	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Index = true
	textFieldMapping.Store = true
	textFieldMapping.IncludeInAll = true
	passageMapping.AddFieldMappingsAt(textField, textFieldMapping)

	seqFieldMapping := bleve.NewNumericFieldMapping()
	seqFieldMapping.Index = false
	seqFieldMapping.Store = true
	passageMapping.AddFieldMappingsAt("seq", seqFieldMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = passageMapping
	indexMapping.DefaultAnalyzer = "standard"

	return indexMapping
}

// BuildIndex writes chunks into a new index at path. An existing index is
// replaced only when force is set.
func BuildIndex(path string, chunks []string, force bool) (int, error) {
	if _, err := os.Stat(path); err == nil {
		if !force {
			return 0, fmt.Errorf("index %s already exists (use -force to replace it)", path)
		}
		if err := os.RemoveAll(path); err != nil {
			return 0, fmt.Errorf("failed to remove existing index: %w", err)
		}
	}

	index, err := bleve.New(path, NewIndexMapping())
	if err != nil {
		return 0, fmt.Errorf("failed to create bleve index: %w", err)
	}
	defer index.Close()

	return IndexPassages(index, chunks)
}

// IndexPassages adds chunks to index in a single batch.
func IndexPassages(index bleve.Index, chunks []string) (int, error) {
	batch := index.NewBatch()
	for i, chunk := range chunks {
		if err := batch.Index(fmt.Sprintf("passage-%05d", i), Passage{Seq: i, Text: chunk}); err != nil {
			return 0, fmt.Errorf("failed to add passage %d to batch: %w", i, err)
		}
	}

	if err := index.Batch(batch); err != nil {
		return 0, fmt.Errorf("failed to execute batch index: %w", err)
	}
	return len(chunks), nil
}

// OpenIndex opens a persisted index read-only.
func OpenIndex(path string) (bleve.Index, error) {
	index, err := bleve.OpenUsing(path, map[string]interface{}{"read_only": true})
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		return nil, fmt.Errorf("knowledge index %s not found: %w", path, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open knowledge index: %w", err)
	}
	return index, nil
}
