// Package models defines core data structures for Q&A records, chat queries, and users.
package models

// QARecord is a single question/answer pair from the FAQ corpus.
// Records are immutable once loaded.
type QARecord struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Candidate is a transient similarity hit: the corpus index of the matched
// question and its cosine similarity score. Never persisted.
type Candidate struct {
	Index int     `json:"index"`
	Score float64 `json:"score"`
}

// ResponseTier classifies a reply by the confidence band of the best match.
type ResponseTier int

const (
	// TierFallback means retrieval produced nothing usable and a canned
	// template answer was returned.
	TierFallback ResponseTier = iota
	// TierLowConfidence means the best match scored in (0.2, 0.5].
	TierLowConfidence
	// TierModerateConfidence means the best match scored in (0.5, 0.8].
	TierModerateConfidence
	// TierDirectMatch means the best match scored above 0.8.
	TierDirectMatch
)

// String returns the wire name of the tier.
func (t ResponseTier) String() string {
	switch t {
	case TierDirectMatch:
		return "direct_match"
	case TierModerateConfidence:
		return "moderate_confidence"
	case TierLowConfidence:
		return "low_confidence"
	default:
		return "fallback"
	}
}
