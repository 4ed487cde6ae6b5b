package chatbot

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/krishisaathi/krishisaathi/internal/config"
	"github.com/krishisaathi/krishisaathi/internal/corpus"
)

const cottonAnswer = "Plant cotton during June and July after monsoon onset; use black soil and maintain 90cm spacing between rows."

func newTestEngine(t *testing.T, csv string) *Engine {
	t.Helper()
	dir := t.TempDir()
	if csv != "" {
		if err := os.WriteFile(filepath.Join(dir, "faq.csv"), []byte(csv), 0644); err != nil {
			t.Fatal(err)
		}
	}
	store := corpus.NewStore(&config.CorpusConfig{Dir: dir}, nil, nil)
	embCfg := &config.EmbeddingConfig{MaxFeatures: 5000, CacheSize: 100}
	return NewEngine(testChatbotConfig(), embCfg, store, nil, "", nil)
}

const testCSV = "question,answer\n" +
	"cotton cultivation telangana," + cottonAnswer + "\n" +
	"soil testing frequency,Test your soil once every two seasons and add organic matter based on the report results.\n" +
	"drip irrigation benefits,Drip irrigation saves water and delivers nutrients directly to plant roots across the field.\n"

func TestEngineNotReady(t *testing.T) {
	e := newTestEngine(t, testCSV)
	if e.Ready() {
		t.Fatal("engine must not be ready before Initialize")
	}
	resp := e.Respond(context.Background(), "how to water rice fields", "en")
	if resp.Reply != preparingResponse {
		t.Errorf("reply=%q, want preparing message", resp.Reply)
	}
}

func TestEngineShortCircuits(t *testing.T) {
	e := newTestEngine(t, testCSV)
	if err := e.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	cases := []struct {
		input string
		want  string
	}{
		{"hi", greetingResponse},
		{"hello there", greetingResponse},
		{"who are you", identityResponse},
		{"hello, who are you", identityResponse}, // four words, too long for greeting
		{"thanks", thanksResponse},
		{"", promptForTopicResponse},
		{"   ", promptForTopicResponse},
	}
	for _, c := range cases {
		resp := e.Respond(ctx, c.input, "en")
		if resp.Reply != c.want {
			t.Errorf("Respond(%q)=%q, want %q", c.input, resp.Reply, c.want)
		}
	}
}

func TestEngineGreetingNeedsShortInput(t *testing.T) {
	e := newTestEngine(t, testCSV)
	if err := e.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}
	// Four words with a greeting keyword is a real question, not a greeting.
	resp := e.Respond(context.Background(), "hey what about soil", "en")
	if resp.Reply == greetingResponse {
		t.Error("long input must not hit the greeting branch")
	}
}

func TestEngineDirectMatch(t *testing.T) {
	e := newTestEngine(t, testCSV)
	if err := e.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}
	resp := e.Respond(context.Background(), "cotton cultivation telangana", "en")
	if !strings.HasPrefix(resp.Reply, "🎯 ") {
		t.Fatalf("expected direct hit marker, got %q", resp.Reply)
	}
	if !strings.Contains(resp.Reply, cottonAnswer) {
		t.Errorf("expected stored answer verbatim, got %q", resp.Reply)
	}
	if resp.Tier != "direct_match" {
		t.Errorf("tier=%q", resp.Tier)
	}
}

func TestEngineComprehensiveBypass(t *testing.T) {
	e := newTestEngine(t, testCSV)
	if err := e.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}
	resp := e.Respond(context.Background(), "how to grow cotton in my village", "en")
	if !strings.Contains(resp.Reply, "Complete Cotton Growing Guide") {
		t.Errorf("expected cotton guide, got %q", resp.Reply)
	}
	if resp.Tier != "fallback" {
		t.Errorf("tier=%q", resp.Tier)
	}
}

func TestEngineEmptyCorpus(t *testing.T) {
	e := newTestEngine(t, "")
	if err := e.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !e.Ready() {
		t.Fatal("engine should be ready even with an empty corpus")
	}
	resp := e.Respond(context.Background(), "how much urea for wheat", "en")
	if resp.Reply == "" {
		t.Fatal("reply must never be empty")
	}
	if resp.Tier != "fallback" {
		t.Errorf("tier=%q, want fallback", resp.Tier)
	}
}

func TestEngineRebuildAlignment(t *testing.T) {
	e := newTestEngine(t, testCSV)
	ctx := context.Background()
	if err := e.Initialize(ctx); err != nil {
		t.Fatal(err)
	}
	first := e.CorpusSize()
	if err := e.Rebuild(ctx); err != nil {
		t.Fatal(err)
	}
	if e.CorpusSize() != first {
		t.Errorf("corpus size changed across identical rebuilds: %d vs %d", first, e.CorpusSize())
	}
	snap := e.current.Load()
	if snap == nil {
		t.Fatal("no snapshot after rebuild")
	}
	if snap.selector.index.Size() != len(snap.records) {
		t.Errorf("index size %d misaligned with corpus %d", snap.selector.index.Size(), len(snap.records))
	}
}
