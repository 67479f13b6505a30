// Package retrieval holds the ranking core: BM25 keyword scoring, dense
// vector retrieval, and reciprocal rank fusion of the two.
package retrieval

// Result is one ranked entry: a document or chunk id with its score. Scores
// are only comparable within the list that produced them.
type Result struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}
