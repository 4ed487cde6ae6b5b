package chatbot

import (
	"strings"
	"testing"
)

func TestFallbackCottonGuide(t *testing.T) {
	got := Fallback("what do i need to grow cotton")
	if !strings.Contains(got, "Complete Cotton Growing Guide") {
		t.Errorf("expected full cotton guide, got %q", got)
	}
	// Vernacular term triggers the same guide.
	got = Fallback("kapas farming tips")
	if !strings.Contains(got, "Complete Cotton Growing Guide") {
		t.Errorf("expected full cotton guide for kapas, got %q", got)
	}
}

func TestFallbackTopicPriority(t *testing.T) {
	cases := []struct {
		query string
		want  string
	}{
		{"cotton price", cottonResponse},
		{"paddy water level", riceResponse},
		{"gehun varieties", wheatResponse},
		{"my mitti is too acidic", soilResponse},
		{"which khad for sugarcane", fertilizerResponse},
		{"keet attack on leaves", pestResponse},
		{"tell me a story", capabilitiesResponse},
	}
	for _, c := range cases {
		if got := Fallback(c.query); got != c.want {
			t.Errorf("Fallback(%q)=%q, want %q", c.query, got, c.want)
		}
	}
}

func TestFallbackCottonBeatsRice(t *testing.T) {
	// Cotton outranks rice in the dispatch order.
	if got := Fallback("cotton or rice this season"); got != cottonResponse {
		t.Errorf("expected cotton response, got %q", got)
	}
}

func TestFallbackNeverEmpty(t *testing.T) {
	for _, q := range []string{"", "xyzzy", "quantum computing"} {
		if got := Fallback(q); got == "" {
			t.Errorf("Fallback(%q) returned empty string", q)
		}
	}
}
