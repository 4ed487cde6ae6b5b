package chatbot

import (
	"context"
	"fmt"

	"github.com/krishisaathi/krishisaathi/internal/config"
	"github.com/krishisaathi/krishisaathi/internal/embedding"
	"github.com/krishisaathi/krishisaathi/internal/models"
	"github.com/krishisaathi/krishisaathi/internal/vector"
	"github.com/krishisaathi/krishisaathi/pkg/utils"
)

// comprehensiveKeywords route broad "tell me everything" questions straight
// to the templates; single retrieved answers are too narrow for them.
var comprehensiveKeywords = []string{
	"what do i need", "how to grow", "complete guide", "everything about", "all about",
}

// Selector turns a query into a tiered reply using retrieval over the corpus.
// It is stateless between calls; all state lives in the immutable corpus
// snapshot it was built with.
type Selector struct {
	cfg      *config.ChatbotConfig
	records  []models.QARecord
	embedder embedding.Embedder
	index    vector.Index
	filter   *QualityFilter
}

// NewSelector builds a selector over an index-aligned records/index pair.
func NewSelector(
	cfg *config.ChatbotConfig,
	records []models.QARecord,
	embedder embedding.Embedder,
	index vector.Index,
) *Selector {
	return &Selector{
		cfg:      cfg,
		records:  records,
		embedder: embedder,
		index:    index,
		filter:   NewQualityFilter(cfg),
	}
}

// Select returns the reply and its confidence tier for query.
// Retrieval or embedding failures surface as errors; the caller decides the
// safe boundary behavior (the dialogue layer falls back to a canned message).
func (s *Selector) Select(ctx context.Context, query string) (string, models.ResponseTier, error) {
	if utils.ContainsAny(query, comprehensiveKeywords) {
		return Fallback(query), models.TierFallback, nil
	}
	if len(s.records) == 0 || s.index == nil || s.index.Size() == 0 {
		return Fallback(query), models.TierFallback, nil
	}

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return "", models.TierFallback, fmt.Errorf("embed query: %w", err)
	}
	candidates, err := s.index.Query(ctx, queryVec, s.cfg.TopK, s.cfg.RetrievalThreshold)
	if err != nil {
		return "", models.TierFallback, fmt.Errorf("similarity query: %w", err)
	}

	kept := s.filter.Filter(s.records, candidates)
	if len(kept) == 0 {
		return Fallback(query), models.TierFallback, nil
	}

	best := kept[0]
	answer := s.records[best.Index].Answer
	switch {
	case best.Score > s.cfg.DirectMatchThreshold:
		return "🎯 " + answer, models.TierDirectMatch, nil
	case best.Score > s.cfg.ModerateThreshold:
		return "📚 Based on similar queries: " + answer, models.TierModerateConfidence, nil
	case best.Score > s.cfg.LowThreshold:
		return "💡 Related information: " + answer +
			"\n\nFor more specific advice, please provide more details about your farming situation.", models.TierLowConfidence, nil
	default:
		return Fallback(query), models.TierFallback, nil
	}
}
