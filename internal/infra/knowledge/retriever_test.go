package knowledge

import (
	"clinic-connector/internal/infra/logger"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blevesearch/bleve/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var corpus = []string{
	"City Clinic is open Monday to Saturday from 9 AM to 6 PM.",
	"Dermatology consultations are available at Lake Clinic on Tuesdays.",
	"Parking is free for patients at every clinic.",
	"Cardiology appointments require a referral letter.",
}

func newMemRetriever(t *testing.T) *Retriever {
	t.Helper()
	index, err := bleve.NewMemOnly(NewIndexMapping())
	require.NoError(t, err)

	n, err := IndexPassages(index, corpus)
	require.NoError(t, err)
	require.Equal(t, len(corpus), n)

	r := NewRetriever(logger.Discard(), index)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestRetrieverFindsRelevantPassage(t *testing.T) {
	r := newMemRetriever(t)

	out := r.Search(context.Background(), "dermatology", 3)
	assert.Equal(t, corpus[1], out)
}

func TestRetrieverLimitsToTopK(t *testing.T) {
	r := newMemRetriever(t)

	out := r.Search(context.Background(), "clinic", 2)
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 2)
}

func TestRetrieverNoMatch(t *testing.T) {
	r := newMemRetriever(t)

	assert.Equal(t, NoRelevantInformation, r.Search(context.Background(), "zebra", 3))
	assert.Equal(t, NoRelevantInformation, r.Search(context.Background(), "   ", 3))
}

func TestRetrieverWithoutIndex(t *testing.T) {
	r := OpenRetriever(logger.Discard(), filepath.Join(t.TempDir(), "missing.bleve"))

	assert.False(t, r.Available())
	assert.Equal(t, NoRelevantInformation, r.Search(context.Background(), "parking", 3))
}

func TestRetrieverMemoizesResults(t *testing.T) {
	r := newMemRetriever(t)
	ctx := context.Background()

	first := r.Search(ctx, "Parking", 3)
	_, cached := r.memo.Get("3|parking")
	assert.True(t, cached)
	assert.Equal(t, first, r.Search(ctx, "parking", 3))
}

func TestBuildAndOpenIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "knowledge.bleve")

	n, err := BuildIndex(path, corpus, false)
	require.NoError(t, err)
	assert.Equal(t, len(corpus), n)

	_, err = BuildIndex(path, corpus, false)
	assert.Error(t, err)

	_, err = BuildIndex(path, corpus[:1], true)
	require.NoError(t, err)

	r := OpenRetriever(logger.Discard(), path)
	defer r.Close()
	require.True(t, r.Available())
	assert.Equal(t, corpus[0], r.Search(context.Background(), "saturday", 3))
}
