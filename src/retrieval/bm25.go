package retrieval

import (
	"errors"
	"math"
	"sort"
	"strings"

	"fusego/src/corpus"
)

// BM25 Okapi parameters. The idf of very common terms can go negative; those
// get floored at epsilon times the mean idf instead.
const (
	bm25K1      = 1.5
	bm25B       = 0.75
	bm25Epsilon = 0.25
)

// ErrNotIndexed is returned by Search before Index has been called.
var ErrNotIndexed = errors.New("retrieval: bm25 index not built, call Index first")

// ErrEmptyCorpus is returned by Index when no documents are supplied.
var ErrEmptyCorpus = errors.New("retrieval: no documents to index")

// BM25 scores keyword relevance over a fixed document snapshot using the
// Okapi formula. The index is immutable after construction; re-indexing means
// building a fresh instance. Tokenization is lowercase whitespace splitting,
// no stemming and no stopwords, so scoring stays deterministic.
type BM25 struct {
	docIDs    []string
	termFreqs []map[string]int
	docLens   []int
	avgDocLen float64
	idf       map[string]float64
	indexed   bool
}

// NewBM25 returns an empty index; call Index before Search.
func NewBM25() *BM25 {
	return &BM25{}
}

func bm25Tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

// Index builds term statistics from the document snapshot. Must be called
// exactly once before Search.
func (b *BM25) Index(docs []corpus.Document) error {
	if len(docs) == 0 {
		return ErrEmptyCorpus
	}

	b.docIDs = make([]string, len(docs))
	b.termFreqs = make([]map[string]int, len(docs))
	b.docLens = make([]int, len(docs))

	docFreq := make(map[string]int)
	totalLen := 0

	for i, doc := range docs {
		b.docIDs[i] = doc.ID
		tokens := bm25Tokenize(doc.Content)
		b.docLens[i] = len(tokens)
		totalLen += len(tokens)

		freqs := make(map[string]int, len(tokens))
		for _, tok := range tokens {
			freqs[tok]++
		}
		b.termFreqs[i] = freqs

		for term := range freqs {
			docFreq[term]++
		}
	}

	b.avgDocLen = float64(totalLen) / float64(len(docs))

	// Standard Okapi idf with the negative-idf floor: terms appearing in
	// more than half the corpus would otherwise score below zero.
	b.idf = make(map[string]float64, len(docFreq))
	n := float64(len(docs))
	var idfSum float64
	var negative []string
	for term, df := range docFreq {
		idf := math.Log((n - float64(df) + 0.5) / (float64(df) + 0.5))
		b.idf[term] = idf
		idfSum += idf
		if idf < 0 {
			negative = append(negative, term)
		}
	}
	if len(b.idf) > 0 {
		floor := bm25Epsilon * idfSum / float64(len(b.idf))
		for _, term := range negative {
			b.idf[term] = floor
		}
	}

	b.indexed = true
	return nil
}

// Indexed reports whether Index has been called.
func (b *BM25) Indexed() bool {
	return b.indexed
}

// Len returns the number of indexed documents.
func (b *BM25) Len() int {
	return len(b.docIDs)
}

// Search scores every document against the query and returns the topK by
// descending score, ties broken by original document order. An empty query
// yields all-zero scores in original order. Zero or negative scores are not
// filtered out here; that is the caller's call.
func (b *BM25) Search(query string, topK int) ([]Result, error) {
	if !b.indexed {
		return nil, ErrNotIndexed
	}

	queryTokens := bm25Tokenize(query)

	results := make([]Result, len(b.docIDs))
	for i, id := range b.docIDs {
		results[i] = Result{ID: id, Score: b.scoreDoc(queryTokens, i)}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topK >= 0 && len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

func (b *BM25) scoreDoc(queryTokens []string, doc int) float64 {
	var score float64
	norm := bm25K1 * (1 - bm25B + bm25B*float64(b.docLens[doc])/b.avgDocLen)
	for _, term := range queryTokens {
		tf := float64(b.termFreqs[doc][term])
		if tf == 0 {
			continue
		}
		score += b.idf[term] * tf * (bm25K1 + 1) / (tf + norm)
	}
	return score
}
