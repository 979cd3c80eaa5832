// Package knowledge provides similarity search over the curated first-aid
// reference corpus. Retrieval is purely additive: it runs only after a risk
// assessment is frozen and never influences triage decisions.
package knowledge

import (
	"sort"
	"strings"
)

// Snippet is one retrieved reference passage with its relevance score.
type Snippet struct {
	DocumentID string  `json:"document_id"`
	Title      string  `json:"title"`
	Category   string  `json:"category"`
	Excerpt    string  `json:"excerpt"`
	Relevance  float64 `json:"relevance"`
}

// Retriever returns the top-k reference snippets for a keyword query.
// Implementations must be deterministic for a fixed corpus and k.
type Retriever interface {
	Retrieve(keywords []string, k int) []Snippet
}

// MemoryRetriever scores the in-process corpus with weighted term frequency.
// The corpus is immutable after construction and safe for concurrent use.
type MemoryRetriever struct {
	docs []Document
}

// NewMemoryRetriever builds a retriever over the given documents. Pass
// Corpus() for the curated first-aid set.
func NewMemoryRetriever(docs []Document) *MemoryRetriever {
	return &MemoryRetriever{docs: docs}
}

// Retrieve scores every document against the keywords and returns the top k,
// highest relevance first. Documents with zero overlap are omitted. Ties
// break on document ID so results are stable across calls.
func (r *MemoryRetriever) Retrieve(keywords []string, k int) []Snippet {
	if k <= 0 || len(keywords) == 0 {
		return nil
	}

	type scored struct {
		doc   Document
		score float64
	}

	var results []scored
	for _, doc := range r.docs {
		body := strings.ToLower(doc.Title + " " + doc.Content)
		var score float64
		for _, kw := range keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			n := strings.Count(body, kw)
			if n > 0 {
				// Title hits weigh double: titles name the protocol.
				if strings.Contains(strings.ToLower(doc.Title), kw) {
					score += 2
				}
				score += float64(n)
			}
		}
		if score > 0 {
			results = append(results, scored{doc: doc, score: score})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].doc.ID < results[j].doc.ID
	})

	if len(results) > k {
		results = results[:k]
	}

	max := 0.0
	if len(results) > 0 {
		max = results[0].score
	}

	snippets := make([]Snippet, len(results))
	for i, res := range results {
		snippets[i] = Snippet{
			DocumentID: res.doc.ID,
			Title:      res.doc.Title,
			Category:   res.doc.Category,
			Excerpt:    excerpt(res.doc.Content),
			Relevance:  res.score / max,
		}
	}
	return snippets
}

const excerptLimit = 400

func excerpt(content string) string {
	content = strings.TrimSpace(content)
	if len(content) <= excerptLimit {
		return content
	}
	cut := content[:excerptLimit]
	if idx := strings.LastIndexByte(cut, '\n'); idx > excerptLimit/2 {
		cut = cut[:idx]
	}
	return strings.TrimSpace(cut)
}
