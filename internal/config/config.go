// Package config provides configuration loading and structs for the KrishiSaathi server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Corpus    CorpusConfig    `yaml:"corpus"`
	KCC       KCCConfig       `yaml:"kcc"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Chatbot   ChatbotConfig   `yaml:"chatbot"`
	Translate TranslateConfig `yaml:"translate"`
	Predict   PredictConfig   `yaml:"predict"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds paths for the database and the embedding snapshot.
type StorageConfig struct {
	DatabasePath       string `yaml:"database_path"`
	VectorSnapshotPath string `yaml:"vector_snapshot_path"`
}

// CorpusConfig holds FAQ corpus source settings. Sources lists tabular files
// (CSV or XLSX) relative to Dir; an empty list means every such file in Dir.
type CorpusConfig struct {
	Dir     string   `yaml:"dir"`
	Sources []string `yaml:"sources"`
	// Watch enables rebuilding the corpus when files under Dir change.
	Watch bool `yaml:"watch"`
}

// KCCConfig holds settings for the Kisan Call Centre government dataset.
type KCCConfig struct {
	Enabled        bool     `yaml:"enabled"`
	SnapshotPath   string   `yaml:"snapshot_path"`
	APIURL         string   `yaml:"api_url"`
	APIKey         string   `yaml:"api_key"`
	States         []string `yaml:"states"`
	LimitPerState  int      `yaml:"limit_per_state"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`
}

// EmbeddingConfig holds TF-IDF embedder settings.
type EmbeddingConfig struct {
	MaxFeatures int `yaml:"max_features"`
	CacheSize   int `yaml:"cache_size"`
}

// ChatbotConfig holds the retrieval and tiering thresholds. The defaults
// reproduce the deployed behavior and should not be changed casually.
type ChatbotConfig struct {
	TopK                 int     `yaml:"top_k"`
	RetrievalThreshold   float64 `yaml:"retrieval_threshold"`
	DirectMatchThreshold float64 `yaml:"direct_match_threshold"`
	ModerateThreshold    float64 `yaml:"moderate_threshold"`
	LowThreshold         float64 `yaml:"low_threshold"`
	MinAnswerChars       int     `yaml:"min_answer_chars"`
	MinAnswerWords       int     `yaml:"min_answer_words"`
}

// TranslateConfig holds translation proxy settings.
type TranslateConfig struct {
	Endpoint       string `yaml:"endpoint"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// PredictConfig holds paths for the pre-trained ONNX models.
type PredictConfig struct {
	ModelsDir string `yaml:"models_dir"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	cfg.Storage.VectorSnapshotPath = expandPath(cfg.Storage.VectorSnapshotPath, configDir)
	cfg.Corpus.Dir = expandPath(cfg.Corpus.Dir, configDir)
	cfg.KCC.SnapshotPath = expandPath(cfg.KCC.SnapshotPath, configDir)
	cfg.Predict.ModelsDir = expandPath(cfg.Predict.ModelsDir, configDir)

	return &cfg, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
