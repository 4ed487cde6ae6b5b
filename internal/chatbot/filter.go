package chatbot

import (
	"strings"

	"github.com/krishisaathi/krishisaathi/internal/config"
	"github.com/krishisaathi/krishisaathi/internal/models"
	"github.com/krishisaathi/krishisaathi/pkg/utils"
)

// noiseTokens flags answers that are weather-report or timestamp fragments
// rather than agricultural advice. The KCC dump contains many of these.
var noiseTokens = []string{
	"weather", "temperature", "cloudy", "precipitation", "humidity",
	"wind", "°c", "pm", "friday", "monday", "tuesday",
}

// QualityFilter removes candidates whose answers are too short or resemble
// weather/time noise.
type QualityFilter struct {
	minChars int
	minWords int
	denylist []string
}

// NewQualityFilter builds a filter from the configured length limits.
func NewQualityFilter(cfg *config.ChatbotConfig) *QualityFilter {
	return &QualityFilter{
		minChars: cfg.MinAnswerChars,
		minWords: cfg.MinAnswerWords,
		denylist: noiseTokens,
	}
}

// Keep reports whether an answer passes all quality rules: more than
// minChars characters, more than minWords words, and no denylisted token.
func (f *QualityFilter) Keep(answer string) bool {
	if len(answer) <= f.minChars {
		return false
	}
	if utils.WordCount(answer) <= f.minWords {
		return false
	}
	lower := strings.ToLower(answer)
	for _, tok := range f.denylist {
		if strings.Contains(lower, tok) {
			return false
		}
	}
	return true
}

// Filter returns the candidates whose answers pass Keep, preserving input order.
func (f *QualityFilter) Filter(records []models.QARecord, candidates []models.Candidate) []models.Candidate {
	kept := make([]models.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Index < 0 || c.Index >= len(records) {
			continue
		}
		if f.Keep(records[c.Index].Answer) {
			kept = append(kept, c)
		}
	}
	return kept
}
