package chatbot

import (
	"testing"

	"github.com/krishisaathi/krishisaathi/internal/config"
	"github.com/krishisaathi/krishisaathi/internal/models"
)

func testChatbotConfig() *config.ChatbotConfig {
	return &config.ChatbotConfig{
		TopK:                 config.DefaultTopK,
		RetrievalThreshold:   config.DefaultRetrievalThreshold,
		DirectMatchThreshold: config.DefaultDirectMatchThreshold,
		ModerateThreshold:    config.DefaultModerateThreshold,
		LowThreshold:         config.DefaultLowThreshold,
		MinAnswerChars:       config.DefaultMinAnswerChars,
		MinAnswerWords:       config.DefaultMinAnswerWords,
	}
}

const goodAnswer = "For cotton cultivation choose certified seeds, prepare the soil well, and monitor bollworm regularly through the season."

func TestQualityFilterKeep(t *testing.T) {
	f := NewQualityFilter(testChatbotConfig())
	cases := []struct {
		name   string
		answer string
		want   bool
	}{
		{"good answer", goodAnswer, true},
		{"too short", "Use neem oil.", false},
		{"too few words", "verylongsinglewordanswerwithmanycharactersinit extra three words", false},
		{"weather noise", "Today the weather will be mostly sunny with some clouds over the district.", false},
		{"day-name noise", "The market opens again from Friday and prices of produce are expected to rise.", false},
		{"degree noise", "Expected maximum around 34°c with clear skies across the whole growing region today.", false},
	}
	for _, c := range cases {
		if got := f.Keep(c.answer); got != c.want {
			t.Errorf("%s: Keep=%t, want %t", c.name, got, c.want)
		}
	}
}

func TestQualityFilterPreservesOrder(t *testing.T) {
	f := NewQualityFilter(testChatbotConfig())
	records := []models.QARecord{
		{Question: "q0", Answer: goodAnswer},
		{Question: "q1", Answer: "short"},
		{Question: "q2", Answer: goodAnswer},
	}
	in := []models.Candidate{
		{Index: 2, Score: 0.9},
		{Index: 1, Score: 0.8},
		{Index: 0, Score: 0.7},
	}
	out := f.Filter(records, in)
	if len(out) != 2 {
		t.Fatalf("expected 2 survivors, got %d", len(out))
	}
	if out[0].Index != 2 || out[1].Index != 0 {
		t.Errorf("order not preserved: %+v", out)
	}
}

func TestQualityFilterDropsHighestScoringNoise(t *testing.T) {
	f := NewQualityFilter(testChatbotConfig())
	records := []models.QARecord{
		{Question: "q0", Answer: "Cloudy with light precipitation expected over most farming districts this whole week ahead."},
		{Question: "q1", Answer: goodAnswer},
	}
	in := []models.Candidate{
		{Index: 0, Score: 0.95},
		{Index: 1, Score: 0.4},
	}
	out := f.Filter(records, in)
	if len(out) != 1 || out[0].Index != 1 {
		t.Fatalf("denylisted top candidate must be dropped: %+v", out)
	}
}

func TestQualityFilterIgnoresOutOfRangeIndex(t *testing.T) {
	f := NewQualityFilter(testChatbotConfig())
	records := []models.QARecord{{Question: "q0", Answer: goodAnswer}}
	out := f.Filter(records, []models.Candidate{{Index: 5, Score: 0.9}, {Index: 0, Score: 0.5}})
	if len(out) != 1 || out[0].Index != 0 {
		t.Errorf("unexpected survivors: %+v", out)
	}
}
