package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/krishisaathi/krishisaathi/internal/config"
	"github.com/krishisaathi/krishisaathi/internal/models"
)

// kccRecord is one advisory entry from the Kisan Call Centre dataset.
// Only the query text and the answer are used.
type kccRecord struct {
	QueryText string `json:"QueryText"`
	KccAns    string `json:"KccAns"`
	StateName string `json:"StateName,omitempty"`
	Crop      string `json:"Crop,omitempty"`
}

type kccAPIResponse struct {
	Records []kccRecord `json:"records"`
}

// KCCClient loads the KCC government Q&A dataset, preferring a local JSON
// snapshot and falling back to the data.gov.in API. Every fetch failure
// degrades to whatever is available locally; it is never fatal.
type KCCClient struct {
	cfg    *config.KCCConfig
	client *http.Client
	logger *zap.Logger
}

// NewKCCClient creates a client with the configured per-request timeout.
func NewKCCClient(cfg *config.KCCConfig, logger *zap.Logger) *KCCClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KCCClient{
		cfg:    cfg,
		client: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		logger: logger,
	}
}

// Records returns the KCC corpus records. When the local snapshot is absent
// the dataset is fetched from the API, persisted, and the load is retried
// exactly once.
func (c *KCCClient) Records(ctx context.Context) ([]models.QARecord, error) {
	records, err := c.loadSnapshot()
	if err == nil {
		return records, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("kcc snapshot unreadable: %w", err)
	}

	c.logger.Info("kcc snapshot missing, fetching from API",
		zap.String("path", c.cfg.SnapshotPath))
	if fetchErr := c.fetchAndPersist(ctx); fetchErr != nil {
		return nil, fmt.Errorf("kcc fetch failed: %w", fetchErr)
	}
	return c.loadSnapshot()
}

// loadSnapshot reads the local JSON dump and converts usable entries.
func (c *KCCClient) loadSnapshot() ([]models.QARecord, error) {
	data, err := os.ReadFile(c.cfg.SnapshotPath)
	if err != nil {
		return nil, err
	}
	var raw []kccRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse kcc snapshot: %w", err)
	}
	records := make([]models.QARecord, 0, len(raw))
	for _, r := range raw {
		if r.QueryText == "" || r.KccAns == "" {
			continue
		}
		records = append(records, models.QARecord{Question: r.QueryText, Answer: r.KccAns})
	}
	return records, nil
}

// fetchAndPersist pulls per-state pages from the API and writes the combined
// JSON snapshot. Individual state failures are logged and skipped.
func (c *KCCClient) fetchAndPersist(ctx context.Context) error {
	var all []kccRecord
	for _, state := range c.cfg.States {
		page, err := c.fetchState(ctx, state)
		if err != nil {
			c.logger.Warn("kcc state fetch failed", zap.String("state", state), zap.Error(err))
			continue
		}
		all = append(all, page...)
	}
	if len(all) == 0 {
		return fmt.Errorf("no records fetched from any state")
	}
	if dir := filepath.Dir(c.cfg.SnapshotPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create snapshot dir: %w", err)
		}
	}
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal kcc snapshot: %w", err)
	}
	if err := os.WriteFile(c.cfg.SnapshotPath, data, 0644); err != nil {
		return fmt.Errorf("write kcc snapshot: %w", err)
	}
	c.logger.Info("kcc snapshot saved",
		zap.String("path", c.cfg.SnapshotPath), zap.Int("records", len(all)))
	return nil
}

func (c *KCCClient) fetchState(ctx context.Context, state string) ([]kccRecord, error) {
	params := url.Values{}
	params.Set("api-key", c.cfg.APIKey)
	params.Set("format", "json")
	params.Set("limit", fmt.Sprintf("%d", c.cfg.LimitPerState))
	params.Set("filters[StateName]", state)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.APIURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned %d", resp.StatusCode)
	}
	var out kccAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return out.Records, nil
}
