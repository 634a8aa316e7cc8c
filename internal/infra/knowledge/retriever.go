package knowledge

import (
	"clinic-connector/internal/infra/logger"
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	NoRelevantInformation = "No relevant information found."
	DefaultTopK           = 3
	memoSize              = 256
)

// Retriever answers free-text queries with the best matching corpus passages.
type Retriever struct {
	Logger *logger.Logger
	index  bleve.Index
	memo   *lru.Cache[string, string]
}

// NewRetriever wraps index. A nil index makes every search return NoRelevantInformation.
func NewRetriever(logger *logger.Logger, index bleve.Index) *Retriever {
	memo, _ := lru.New[string, string](memoSize)
	return &Retriever{Logger: logger, index: index, memo: memo}
}

// OpenRetriever opens the persisted index at path, degrading to an empty
// retriever when it cannot be opened.
func OpenRetriever(logger *logger.Logger, path string) *Retriever {
	index, err := OpenIndex(path)
	if err != nil {
		logger.Warn(fmt.Sprintf("Knowledge retrieval disabled: %v", err))
		return NewRetriever(logger, nil)
	}

	count, _ := index.DocCount()
	logger.Info(fmt.Sprintf("Knowledge index loaded from %s with %d passages", path, count))
	return NewRetriever(logger, index)
}

func (r *Retriever) Available() bool {
	return r.index != nil
}

// Search returns up to topK passages joined by newlines, best match first.
func (r *Retriever) Search(ctx context.Context, text string, topK int) string {
	text = strings.TrimSpace(text)
	if r.index == nil || text == "" {
		return NoRelevantInformation
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	key := fmt.Sprintf("%d|%s", topK, strings.ToLower(text))
	if cached, ok := r.memo.Get(key); ok {
		return cached
	}

	matchQuery := query.NewMatchQuery(text)
	matchQuery.SetField(textField)

	request := bleve.NewSearchRequestOptions(matchQuery, topK, 0, false)
	request.Fields = []string{textField}

	result, err := r.index.SearchInContext(ctx, request)
	if err != nil {
		r.Logger.Error(fmt.Sprintf("Knowledge search failed: %v", err))
		return NoRelevantInformation
	}

	passages := make([]string, 0, len(result.Hits))
	for _, hit := range result.Hits {
		if passage, ok := hit.Fields[textField].(string); ok && passage != "" {
			passages = append(passages, passage)
		}
	}

	answer := NoRelevantInformation
	if len(passages) > 0 {
		answer = strings.Join(passages, "\n")
	}
	r.memo.Add(key, answer)
	return answer
}

func (r *Retriever) Close() error {
	if r.index == nil {
		return nil
	}
	return r.index.Close()
}
