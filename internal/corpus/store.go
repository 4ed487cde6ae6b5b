// Package corpus loads the FAQ question/answer corpus from tabular sources
// and the KCC government dataset.
package corpus

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/krishisaathi/krishisaathi/internal/config"
	"github.com/krishisaathi/krishisaathi/internal/models"
)

// Store aggregates QARecords from configured tabular sources and the KCC
// dataset. Load never fails the whole corpus for a single bad source: each
// file either contributes records or is logged and skipped.
type Store struct {
	cfg    *config.CorpusConfig
	kcc    *KCCClient
	logger *zap.Logger
}

// NewStore creates a corpus store. kcc may be nil to disable the government
// dataset merge.
func NewStore(cfg *config.CorpusConfig, kcc *KCCClient, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{cfg: cfg, kcc: kcc, logger: logger}
}

// Load returns all QARecords from the KCC dataset and the tabular sources.
// The result may be empty; that is not an error.
func (s *Store) Load(ctx context.Context) ([]models.QARecord, error) {
	var records []models.QARecord

	if s.kcc != nil {
		kccRecords, err := s.kcc.Records(ctx)
		if err != nil {
			s.logger.Warn("kcc dataset unavailable, continuing without it", zap.Error(err))
		} else {
			records = append(records, kccRecords...)
			s.logger.Info("kcc records loaded", zap.Int("count", len(kccRecords)))
		}
	}

	for _, path := range s.sourcePaths() {
		fileRecords, err := loadTabular(path)
		if err != nil {
			s.logger.Warn("skipping corpus source", zap.String("path", path), zap.Error(err))
			continue
		}
		records = append(records, fileRecords...)
		s.logger.Info("corpus source loaded", zap.String("path", path), zap.Int("count", len(fileRecords)))
	}

	return records, nil
}

// sourcePaths resolves the configured source list against the corpus dir.
// An empty list means every CSV/XLSX file in the dir, in name order.
func (s *Store) sourcePaths() []string {
	if len(s.cfg.Sources) > 0 {
		paths := make([]string, len(s.cfg.Sources))
		for i, src := range s.cfg.Sources {
			if filepath.IsAbs(src) {
				paths[i] = src
			} else {
				paths[i] = filepath.Join(s.cfg.Dir, src)
			}
		}
		return paths
	}
	entries, err := os.ReadDir(s.cfg.Dir)
	if err != nil {
		s.logger.Warn("corpus dir unreadable", zap.String("dir", s.cfg.Dir), zap.Error(err))
		return nil
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".csv", ".xlsx":
			paths = append(paths, filepath.Join(s.cfg.Dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths
}

// columnMapping is the validated result of header sniffing for one file.
type columnMapping struct {
	question int
	answer   int
}

// detectColumns sniffs the header row for a question-like and an answer-like
// column: the first column whose lower-cased name contains "question" (or
// "q") and the first containing "answer" (or "a"). Returns an error when no
// mapping is found, which fails that file's load only.
func detectColumns(header []string) (columnMapping, error) {
	question, answer := -1, -1
	for i, name := range header {
		lower := strings.ToLower(strings.TrimSpace(name))
		if question < 0 && strings.Contains(lower, "question") {
			question = i
		}
		if answer < 0 && i != question && strings.Contains(lower, "answer") {
			answer = i
		}
	}
	// Loose single-letter fallback from the deployed heuristic.
	if question < 0 {
		for i, name := range header {
			if i != answer && strings.Contains(strings.ToLower(name), "q") {
				question = i
				break
			}
		}
	}
	if answer < 0 {
		for i, name := range header {
			if i != question && strings.Contains(strings.ToLower(name), "a") {
				answer = i
				break
			}
		}
	}
	if question < 0 || answer < 0 {
		return columnMapping{}, fmt.Errorf("no question/answer columns in header %v", header)
	}
	return columnMapping{question: question, answer: answer}, nil
}

// loadTabular reads one CSV or XLSX source into QARecords, skipping rows
// with an empty question or answer after trimming.
func loadTabular(path string) ([]models.QARecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return loadCSV(path)
	case ".xlsx":
		return loadXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported corpus source format: %s", path)
	}
}

func loadCSV(path string) ([]models.QARecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	mapping, err := detectColumns(header)
	if err != nil {
		return nil, err
	}

	var records []models.QARecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		if rec, ok := recordFromRow(row, mapping); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

func loadXLSX(path string) ([]models.QARecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx has no sheets: %s", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("get rows for sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("xlsx sheet is empty: %s", path)
	}
	mapping, err := detectColumns(rows[0])
	if err != nil {
		return nil, err
	}

	var records []models.QARecord
	for _, row := range rows[1:] {
		if rec, ok := recordFromRow(row, mapping); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

func recordFromRow(row []string, mapping columnMapping) (models.QARecord, bool) {
	if mapping.question >= len(row) || mapping.answer >= len(row) {
		return models.QARecord{}, false
	}
	question := strings.TrimSpace(row[mapping.question])
	answer := strings.TrimSpace(row[mapping.answer])
	if question == "" || answer == "" {
		return models.QARecord{}, false
	}
	return models.QARecord{Question: question, Answer: answer}, true
}
