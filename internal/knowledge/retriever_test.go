package knowledge

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrieveRanksBestDocumentFirst(t *testing.T) {
	r := NewMemoryRetriever(Corpus())

	results := r.Retrieve([]string{"chest pain"}, 3)
	require.NotEmpty(t, results)
	assert.Equal(t, "chest_pain_001", results[0].DocumentID)
	assert.InDelta(t, 1.0, results[0].Relevance, 1e-9)

	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i].Relevance, results[i-1].Relevance)
	}
}

func TestRetrieveHonorsTopK(t *testing.T) {
	r := NewMemoryRetriever(Corpus())

	// "emergency" appears across most of the corpus.
	results := r.Retrieve([]string{"emergency"}, 2)
	assert.Len(t, results, 2)
}

func TestRetrieveOmitsZeroOverlap(t *testing.T) {
	r := NewMemoryRetriever(Corpus())

	assert.Empty(t, r.Retrieve([]string{"xylophone"}, 5))
	assert.Empty(t, r.Retrieve(nil, 5))
	assert.Empty(t, r.Retrieve([]string{"fever"}, 0))
}

func TestRetrieveDeterministic(t *testing.T) {
	r := NewMemoryRetriever(Corpus())

	keywords := []string{"headache", "sudden", "weakness"}
	first := r.Retrieve(keywords, 5)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, r.Retrieve(keywords, 5))
	}
}

func TestRetrieveExcerptBounded(t *testing.T) {
	long := Document{
		ID:      "long_001",
		Title:   "Long Protocol",
		Content: strings.Repeat("hydration and rest are advised.\n", 40),
	}
	r := NewMemoryRetriever([]Document{long})

	results := r.Retrieve([]string{"hydration"}, 1)
	require.Len(t, results, 1)
	assert.LessOrEqual(t, len(results[0].Excerpt), excerptLimit)
}
