// Package translate proxies the public Google translate endpoint for chat
// replies and batched UI strings. Every failure degrades to the English
// source text: translation is best effort, never a reason to drop a reply.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/krishisaathi/krishisaathi/internal/config"
)

// Translator calls the unauthenticated translate_a/single endpoint. UI string
// sets are cached per language for the lifetime of the process; they never
// change once translated.
type Translator struct {
	endpoint string
	client   *http.Client
	logger   *zap.Logger

	mu      sync.RWMutex
	uiCache map[string]map[string]string
}

// NewTranslator creates a translator with the configured endpoint and timeout.
func NewTranslator(cfg *config.TranslateConfig, logger *zap.Logger) *Translator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Translator{
		endpoint: cfg.Endpoint,
		client:   &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		logger:   logger,
		uiCache:  make(map[string]map[string]string),
	}
}

// Translate renders text from source to target. English targets and
// same-language requests return the text unchanged; so does any request,
// decode, or timeout failure.
func (t *Translator) Translate(ctx context.Context, text, source, target string) string {
	if text == "" || target == "en" || target == source {
		return text
	}
	out, err := t.request(ctx, text, source, target)
	if err != nil {
		t.logger.Warn("translation failed, returning source text",
			zap.String("target", target), zap.Error(err))
		return text
	}
	return out
}

// UITranslations returns the UI string table in the given language. English
// returns the base table; other languages are translated in one batched
// request and cached. On failure the English table is returned uncached so a
// later request can retry.
func (t *Translator) UITranslations(ctx context.Context, language string) map[string]string {
	if language == "en" {
		return BaseTexts()
	}

	t.mu.RLock()
	cached, ok := t.uiCache[language]
	t.mu.RUnlock()
	if ok {
		return cached
	}

	texts := make([]string, len(baseKeys))
	for i, key := range baseKeys {
		texts[i] = baseTexts[key]
	}

	translated, err := t.request(ctx, strings.Join(texts, "\n"), "en", language)
	if err != nil {
		t.logger.Warn("ui batch translation failed",
			zap.String("language", language), zap.Error(err))
		return BaseTexts()
	}

	lines := strings.Split(translated, "\n")
	out := make(map[string]string, len(baseKeys))
	for i, key := range baseKeys {
		if i < len(lines) && strings.TrimSpace(lines[i]) != "" {
			out[key] = strings.TrimSpace(lines[i])
		} else {
			out[key] = baseTexts[key]
		}
	}

	t.mu.Lock()
	t.uiCache[language] = out
	t.mu.Unlock()
	return out
}

// request performs one translate_a/single call and concatenates the returned
// sentence segments.
func (t *Translator) request(ctx context.Context, text, source, target string) (string, error) {
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", source)
	params.Set("tl", target)
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build translate request: %w", err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translate endpoint returned %d", resp.StatusCode)
	}

	// The endpoint returns nested arrays: result[0] is a list of segments,
	// each [translated, original, ...].
	var result []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode translate response: %w", err)
	}
	if len(result) == 0 {
		return "", fmt.Errorf("empty translate response")
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(result[0], &segments); err != nil {
		return "", fmt.Errorf("failed to decode translate segments: %w", err)
	}

	var sb strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		var piece string
		if err := json.Unmarshal(seg[0], &piece); err != nil {
			continue
		}
		sb.WriteString(piece)
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no translated segments in response")
	}
	return sb.String(), nil
}
