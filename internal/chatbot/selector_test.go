package chatbot

import (
	"context"
	"strings"
	"testing"

	"github.com/krishisaathi/krishisaathi/internal/models"
)

// stubEmbedder returns a fixed vector for any input.
type stubEmbedder struct{ dims int }

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return make([]float32, s.dims), nil
}

func (s *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = make([]float32, s.dims)
	}
	return out, nil
}

func (s *stubEmbedder) Dimensions() int { return s.dims }
func (s *stubEmbedder) Close() error    { return nil }

// stubIndex returns preset candidates regardless of the query vector.
type stubIndex struct{ candidates []models.Candidate }

func (s *stubIndex) Build(ctx context.Context, vectors [][]float32) error { return nil }
func (s *stubIndex) Query(ctx context.Context, query []float32, topK int, threshold float64) ([]models.Candidate, error) {
	return s.candidates, nil
}
func (s *stubIndex) Save(path string) error { return nil }
func (s *stubIndex) Load(path string) error { return nil }
func (s *stubIndex) Size() int              { return len(s.candidates) }
func (s *stubIndex) Close() error           { return nil }

func selectorWithScore(score float64) *Selector {
	records := []models.QARecord{{Question: "stored question", Answer: goodAnswer}}
	return NewSelector(
		testChatbotConfig(),
		records,
		&stubEmbedder{dims: 4},
		&stubIndex{candidates: []models.Candidate{{Index: 0, Score: score}}},
	)
}

func TestSelectTierBoundaries(t *testing.T) {
	cases := []struct {
		score float64
		tier  models.ResponseTier
	}{
		{0.81, models.TierDirectMatch},
		{0.8, models.TierModerateConfidence}, // exactly 0.8 is not a direct match
		{0.51, models.TierModerateConfidence},
		{0.5, models.TierLowConfidence}, // exactly 0.5 is not moderate
		{0.21, models.TierLowConfidence},
		{0.2, models.TierFallback}, // exactly 0.2 falls through to templates
	}
	for _, c := range cases {
		reply, tier, err := selectorWithScore(c.score).Select(context.Background(), "cotton spacing advice")
		if err != nil {
			t.Fatalf("score %v: %v", c.score, err)
		}
		if tier != c.tier {
			t.Errorf("score %v: tier=%v, want %v", c.score, tier, c.tier)
		}
		if reply == "" {
			t.Errorf("score %v: empty reply", c.score)
		}
	}
}

func TestSelectTierMarkers(t *testing.T) {
	reply, _, _ := selectorWithScore(0.95).Select(context.Background(), "cotton spacing advice")
	if !strings.HasPrefix(reply, "🎯 ") || !strings.Contains(reply, goodAnswer) {
		t.Errorf("direct match reply=%q", reply)
	}
	reply, _, _ = selectorWithScore(0.7).Select(context.Background(), "cotton spacing advice")
	if !strings.Contains(reply, "Based on similar queries") {
		t.Errorf("moderate reply=%q", reply)
	}
	reply, _, _ = selectorWithScore(0.3).Select(context.Background(), "cotton spacing advice")
	if !strings.Contains(reply, "Related information") || !strings.Contains(reply, "more details") {
		t.Errorf("low confidence reply=%q", reply)
	}
}

func TestSelectComprehensiveBypassesRetrieval(t *testing.T) {
	// A perfect-score candidate exists, but the comprehensive phrasing must
	// route to the template guide instead.
	s := selectorWithScore(1.0)
	reply, tier, err := s.Select(context.Background(), "how to grow cotton")
	if err != nil {
		t.Fatal(err)
	}
	if tier != models.TierFallback {
		t.Errorf("tier=%v, want fallback", tier)
	}
	if !strings.Contains(reply, "Complete Cotton Growing Guide") {
		t.Errorf("reply=%q", reply)
	}
}

func TestSelectNoSurvivorsFallsBack(t *testing.T) {
	records := []models.QARecord{{Question: "q", Answer: "short"}}
	s := NewSelector(
		testChatbotConfig(),
		records,
		&stubEmbedder{dims: 4},
		&stubIndex{candidates: []models.Candidate{{Index: 0, Score: 0.9}}},
	)
	reply, tier, err := s.Select(context.Background(), "soil health")
	if err != nil {
		t.Fatal(err)
	}
	if tier != models.TierFallback {
		t.Errorf("tier=%v, want fallback", tier)
	}
	if reply != soilResponse {
		t.Errorf("reply=%q", reply)
	}
}

func TestSelectEmptyCorpus(t *testing.T) {
	s := NewSelector(testChatbotConfig(), nil, nil, nil)
	reply, tier, err := s.Select(context.Background(), "how do I irrigate sugarcane")
	if err != nil {
		t.Fatal(err)
	}
	if tier != models.TierFallback || reply == "" {
		t.Errorf("reply=%q tier=%v", reply, tier)
	}
}
