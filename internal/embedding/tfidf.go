package embedding

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/krishisaathi/krishisaathi/pkg/utils"
)

var tokenPattern = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)

// TFIDFEmbedder vectorizes text with a TF-IDF model fitted over the corpus
// questions. The vocabulary and IDF table are frozen after Fit, so embeddings
// are deterministic for a fitted model. Vectors are L2-normalized, which makes
// the inner product of two embeddings their cosine similarity.
type TFIDFEmbedder struct {
	vocabulary  map[string]int
	idf         []float64
	dimensions  int
	maxFeatures int
	stopwords   map[string]struct{}
	cache       *EmbeddingCache
	fitted      bool
}

// NewTFIDFEmbedder returns an unfitted embedder. maxFeatures caps the
// vocabulary size (most frequent terms win); cacheSize bounds the query
// embedding cache, 0 disables it.
func NewTFIDFEmbedder(maxFeatures, cacheSize int) *TFIDFEmbedder {
	e := &TFIDFEmbedder{
		vocabulary:  make(map[string]int),
		maxFeatures: maxFeatures,
		stopwords:   englishStopwords(),
	}
	if cacheSize > 0 {
		e.cache = NewEmbeddingCache(cacheSize)
	}
	return e
}

// Fit builds the vocabulary and smoothed IDF table from the corpus.
// Calling Fit again replaces the model and invalidates the cache.
func (e *TFIDFEmbedder) Fit(corpus []string) error {
	if len(corpus) == 0 {
		return fmt.Errorf("empty corpus")
	}
	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range e.tokenize(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	if len(df) == 0 {
		return fmt.Errorf("no tokens found in corpus")
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	// Deterministic vocabulary order; when capped, keep the most frequent terms.
	sort.Strings(terms)
	if e.maxFeatures > 0 && len(terms) > e.maxFeatures {
		sort.SliceStable(terms, func(i, j int) bool { return df[terms[i]] > df[terms[j]] })
		terms = terms[:e.maxFeatures]
		sort.Strings(terms)
	}

	vocab := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	n := float64(len(corpus))
	for i, term := range terms {
		vocab[term] = i
		idf[i] = smoothedIDF(n, float64(df[term]))
	}
	e.vocabulary = vocab
	e.idf = idf
	e.dimensions = len(terms)
	e.fitted = true
	if e.cache != nil {
		e.cache = NewEmbeddingCache(e.cache.capacity)
	}
	return nil
}

// Embed returns the L2-normalized TF-IDF vector for text. Empty or
// whitespace-only input yields a zero vector.
func (e *TFIDFEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if !e.fitted {
		return nil, fmt.Errorf("embedder not fitted")
	}
	if e.cache != nil {
		if vec, ok := e.cache.Get(text); ok {
			return vec, nil
		}
	}

	vec := make([]float32, e.dimensions)
	tf := make(map[int]int)
	total := 0
	for _, tok := range e.tokenize(text) {
		if idx, ok := e.vocabulary[tok]; ok {
			tf[idx]++
			total++
		}
	}
	if total > 0 {
		for idx, count := range tf {
			vec[idx] = float32(float64(count) / float64(total) * e.idf[idx])
		}
		utils.NormalizeL2(vec)
	}
	if e.cache != nil {
		e.cache.Set(text, vec)
	}
	return vec, nil
}

// EmbedBatch embeds each text, preserving input length and order.
func (e *TFIDFEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		embeddings[i] = vec
	}
	return embeddings, nil
}

// Dimensions returns the vocabulary size of the fitted model (0 before Fit).
func (e *TFIDFEmbedder) Dimensions() int {
	return e.dimensions
}

// Close is a no-op for TFIDFEmbedder.
func (e *TFIDFEmbedder) Close() error {
	return nil
}

func (e *TFIDFEmbedder) tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := e.stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}

// smoothedIDF is log((1+n)/(1+df)) + 1, the smoothed inverse document frequency.
func smoothedIDF(n, df float64) float64 {
	return math.Log((1+n)/(1+df)) + 1.0
}

func englishStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for",
		"to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was",
		"were", "be", "been", "being", "it", "this", "that", "these", "those",
		"from", "up", "down", "over", "under", "again", "than", "so", "such",
		"into", "about", "between", "through", "during", "before", "after",
		"out", "off", "own", "same", "too", "very", "can", "will", "just",
		"should", "now", "what", "which", "who", "how", "do", "does", "my",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
