package chatbot

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/krishisaathi/krishisaathi/internal/config"
	"github.com/krishisaathi/krishisaathi/internal/corpus"
	"github.com/krishisaathi/krishisaathi/internal/embedding"
	"github.com/krishisaathi/krishisaathi/internal/models"
	"github.com/krishisaathi/krishisaathi/internal/storage"
	"github.com/krishisaathi/krishisaathi/internal/vector"
	"github.com/krishisaathi/krishisaathi/pkg/utils"
)

// snapshot is one immutable generation of the corpus, its fitted embedder,
// and the aligned similarity index. Respond reads the current snapshot
// without locks; Rebuild swaps in a complete new one or none at all.
type snapshot struct {
	records  []models.QARecord
	selector *Selector
}

// Engine is the chatbot context object: explicit dependencies, no process
// globals. It serves queries from an atomically swapped corpus snapshot.
type Engine struct {
	cfg          *config.ChatbotConfig
	embCfg       *config.EmbeddingConfig
	store        *corpus.Store
	storage      storage.Storage
	snapshotPath string
	logger       *zap.Logger

	current   atomic.Pointer[snapshot]
	rebuildMu sync.Mutex
}

// NewEngine creates an engine. It is not ready until Initialize or Rebuild
// completes; Respond returns a defined "still preparing" reply before that.
func NewEngine(
	cfg *config.ChatbotConfig,
	embCfg *config.EmbeddingConfig,
	store *corpus.Store,
	db storage.Storage,
	snapshotPath string,
	logger *zap.Logger,
) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		cfg:          cfg,
		embCfg:       embCfg,
		store:        store,
		storage:      db,
		snapshotPath: snapshotPath,
		logger:       logger,
	}
}

// Ready reports whether a corpus snapshot has been installed.
func (e *Engine) Ready() bool {
	return e.current.Load() != nil
}

// CorpusSize returns the number of records in the current snapshot.
func (e *Engine) CorpusSize() int {
	if snap := e.current.Load(); snap != nil {
		return len(snap.records)
	}
	return 0
}

// Respond answers one chat turn. It always returns a response; selector
// failures are logged and degrade to the generic trouble message.
func (e *Engine) Respond(ctx context.Context, text, language string) models.ChatResponse {
	start := time.Now()
	resp := models.ChatResponse{Language: language, Tier: models.TierFallback.String()}

	e.logger.Debug("chat query", zap.String("text", utils.Truncate(text, 120)))

	if reply, ok := shortCircuit(text); ok {
		resp.Reply = reply
	} else if snap := e.current.Load(); snap == nil {
		resp.Reply = preparingResponse
	} else {
		reply, tier, err := snap.selector.Select(ctx, text)
		if err != nil {
			e.logger.Warn("selector failed, using trouble response", zap.Error(err))
			resp.Reply = troubleResponse
		} else {
			resp.Reply = reply
			resp.Tier = tier.String()
		}
	}

	resp.QueryTime = time.Since(start).Milliseconds()
	return resp
}

// Initialize restores the corpus from the persisted snapshot when available,
// otherwise builds it from the sources. Safe to call once at startup before
// serving; Respond degrades gracefully if it has not completed yet.
func (e *Engine) Initialize(ctx context.Context) error {
	if e.storage != nil {
		records, err := e.storage.ListQARecords(ctx)
		if err != nil {
			e.logger.Warn("corpus snapshot unreadable, rebuilding from sources", zap.Error(err))
		} else if len(records) > 0 {
			if err := e.install(ctx, records, true); err == nil {
				e.logger.Info("corpus restored from snapshot", zap.Int("records", len(records)))
				return nil
			}
			e.logger.Warn("snapshot restore failed, rebuilding from sources")
		}
	}
	return e.Rebuild(ctx)
}

// Rebuild loads the corpus from its sources, fits the embedder, rebuilds the
// index, persists the snapshot, and swaps the new generation in. Rebuilds
// are serialized; a failed rebuild leaves the current snapshot untouched.
func (e *Engine) Rebuild(ctx context.Context) error {
	e.rebuildMu.Lock()
	defer e.rebuildMu.Unlock()

	records, err := e.store.Load(ctx)
	if err != nil {
		return err
	}
	if err := e.install(ctx, records, false); err != nil {
		return err
	}
	e.persist(ctx, records)
	e.logger.Info("corpus rebuilt", zap.Int("records", len(records)))
	return nil
}

// install fits the embedder over the record questions, builds (or, when
// fromSnapshot is set, tries to load) the aligned index, and swaps the
// snapshot. An empty corpus installs an empty snapshot: queries then answer
// from templates rather than erroring.
func (e *Engine) install(ctx context.Context, records []models.QARecord, fromSnapshot bool) error {
	if len(records) == 0 {
		e.current.Store(&snapshot{
			records:  nil,
			selector: NewSelector(e.cfg, nil, nil, nil),
		})
		return nil
	}

	questions := make([]string, len(records))
	for i, rec := range records {
		questions[i] = rec.Question
	}

	embedder := embedding.NewTFIDFEmbedder(e.embCfg.MaxFeatures, e.embCfg.CacheSize)
	if err := embedder.Fit(questions); err != nil {
		return err
	}

	index, err := vector.NewMemoryIndex(embedder.Dimensions())
	if err != nil {
		return err
	}
	loaded := false
	if fromSnapshot && e.snapshotPath != "" {
		// TF-IDF fitting is deterministic over the stored questions, so a
		// vector snapshot with matching size belongs to this corpus.
		if err := index.Load(e.snapshotPath); err != nil {
			e.logger.Warn("vector snapshot load failed, re-embedding", zap.Error(err))
		} else if index.Size() == len(records) {
			loaded = true
		}
	}
	if !loaded {
		vectors, err := embedder.EmbedBatch(ctx, questions)
		if err != nil {
			return err
		}
		if err := index.Build(ctx, vectors); err != nil {
			return err
		}
	}

	e.current.Store(&snapshot{
		records:  records,
		selector: NewSelector(e.cfg, records, embedder, index),
	})
	return nil
}

// persist writes the corpus to storage and the embeddings to the vector
// snapshot file. Persistence failures are logged, never fatal: the in-memory
// snapshot is already serving.
func (e *Engine) persist(ctx context.Context, records []models.QARecord) {
	if e.storage != nil {
		if err := e.storage.ReplaceQARecords(ctx, records); err != nil {
			e.logger.Warn("corpus snapshot persist failed", zap.Error(err))
		}
	}
	if e.snapshotPath != "" {
		if snap := e.current.Load(); snap != nil && snap.selector != nil && snap.selector.index != nil {
			if err := snap.selector.index.Save(e.snapshotPath); err != nil {
				e.logger.Warn("vector snapshot persist failed",
					zap.String("path", e.snapshotPath), zap.Error(err))
			}
		}
	}
}
