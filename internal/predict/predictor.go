// Package predict serves the three pre-trained agronomy models: crop
// recommendation, fertilizer recommendation, and leaf disease classification.
// Models are loaded lazily on first use and shared across requests.
package predict

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/krishisaathi/krishisaathi/internal/config"
	"github.com/krishisaathi/krishisaathi/internal/models"
)

// cropLabels is the class order of the crop recommendation model.
var cropLabels = []string{
	"rice", "maize", "chickpea", "kidneybeans", "pigeonpeas", "mothbeans",
	"mungbean", "blackgram", "lentil", "pomegranate", "banana", "mango",
	"grapes", "watermelon", "muskmelon", "apple", "orange", "papaya",
	"coconut", "cotton", "jute", "coffee",
}

// fertilizerLabels is the class order of the fertilizer recommendation model.
var fertilizerLabels = []string{
	"10-26-26", "14-35-14", "17-17-17", "20-20", "28-28", "DAP", "Urea",
}

// diseaseLabels is the class order of the leaf disease classifier.
var diseaseLabels = []string{"Healthy", "Powdery Mildew", "Rust Disease"}

// Predictor owns the three model sessions. Zero value is not usable; create
// with NewPredictor. All methods are safe for concurrent use.
type Predictor struct {
	modelsDir string
	logger    *zap.Logger

	mu          sync.Mutex
	crop        *onnxModel
	fertilizer  *onnxModel
	fertColumns []string
	disease     *onnxModel
}

// NewPredictor creates a predictor over the configured models directory.
// No model files are touched until the first prediction.
func NewPredictor(cfg *config.PredictConfig, logger *zap.Logger) *Predictor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Predictor{modelsDir: cfg.ModelsDir, logger: logger}
}

func (p *Predictor) lazyCrop() (*onnxModel, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.crop != nil {
		return p.crop, nil
	}
	m, err := newONNXModel(
		filepath.Join(p.modelsDir, "crop_model.onnx"),
		"float_input", "probabilities",
		[]int64{1, 7}, len(cropLabels),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load crop model: %w", err)
	}
	p.logger.Info("crop model loaded", zap.String("dir", p.modelsDir))
	p.crop = m
	return m, nil
}

func (p *Predictor) lazyFertilizer() (*onnxModel, []string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fertilizer != nil {
		return p.fertilizer, p.fertColumns, nil
	}
	columns, err := LoadFertilizerColumns(filepath.Join(p.modelsDir, "fertilizer_columns.json"))
	if err != nil {
		return nil, nil, err
	}
	m, err := newONNXModel(
		filepath.Join(p.modelsDir, "fertilizer_model.onnx"),
		"float_input", "probabilities",
		[]int64{1, int64(len(columns))}, len(fertilizerLabels),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load fertilizer model: %w", err)
	}
	p.logger.Info("fertilizer model loaded", zap.Int("columns", len(columns)))
	p.fertilizer = m
	p.fertColumns = columns
	return m, columns, nil
}

func (p *Predictor) lazyDisease() (*onnxModel, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.disease != nil {
		return p.disease, nil
	}
	m, err := newONNXModel(
		filepath.Join(p.modelsDir, "disease_model.onnx"),
		"input", "output",
		[]int64{1, imageSize, imageSize, 3}, len(diseaseLabels),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load disease model: %w", err)
	}
	p.logger.Info("disease model loaded")
	p.disease = m
	return m, nil
}

// PredictCrop recommends a crop for the given soil and climate readings.
func (p *Predictor) PredictCrop(ctx context.Context, f *models.CropFeatures) (*models.CropPrediction, error) {
	model, err := p.lazyCrop()
	if err != nil {
		return nil, err
	}
	probs, err := model.Run(cropVector(f))
	if err != nil {
		return nil, err
	}
	idx, conf := argmax(probs)
	if idx >= len(cropLabels) {
		return nil, fmt.Errorf("crop model returned class %d outside label table", idx)
	}
	confidence := float64(conf)
	return &models.CropPrediction{Crop: cropLabels[idx], Confidence: &confidence}, nil
}

// PredictFertilizer recommends a fertilizer for the given readings and
// categorical soil/crop types.
func (p *Predictor) PredictFertilizer(ctx context.Context, f *models.FertilizerFeatures) (*models.FertilizerPrediction, error) {
	if err := f.Validate(SoilTypes, CropTypes); err != nil {
		return nil, err
	}
	model, columns, err := p.lazyFertilizer()
	if err != nil {
		return nil, err
	}
	probs, err := model.Run(fertilizerVector(f, columns))
	if err != nil {
		return nil, err
	}
	idx, _ := argmax(probs)
	if idx >= len(fertilizerLabels) {
		return nil, fmt.Errorf("fertilizer model returned class %d outside label table", idx)
	}
	return &models.FertilizerPrediction{Fertilizer: fertilizerLabels[idx]}, nil
}

// PredictDisease classifies a leaf photo and derives a severity band from the
// classifier confidence.
func (p *Predictor) PredictDisease(ctx context.Context, imageBytes []byte) (*models.DiseasePrediction, error) {
	pixels, err := preprocessImage(imageBytes)
	if err != nil {
		return nil, err
	}
	model, err := p.lazyDisease()
	if err != nil {
		return nil, err
	}
	probs, err := model.Run(pixels)
	if err != nil {
		return nil, err
	}
	idx, conf := argmax(probs)
	if idx >= len(diseaseLabels) {
		return nil, fmt.Errorf("disease model returned class %d outside label table", idx)
	}

	base := diseaseLabels[idx]
	severity := severityBand(base, float64(conf))
	disease := base
	if severity != "None" {
		disease = base + " - " + severity
	}
	return &models.DiseasePrediction{
		Disease:     disease,
		BaseDisease: base,
		Confidence:  float64(conf),
		Severity:    severity,
	}, nil
}

// Close releases all loaded model sessions.
func (p *Predictor) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var firstErr error
	for _, m := range []*onnxModel{p.crop, p.fertilizer, p.disease} {
		if m != nil {
			if err := m.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	p.crop, p.fertilizer, p.disease = nil, nil, nil
	return firstErr
}

// argmax returns the index and value of the largest element.
func argmax(xs []float32) (int, float32) {
	best, bestVal := 0, float32(0)
	for i, v := range xs {
		if i == 0 || v > bestVal {
			best, bestVal = i, v
		}
	}
	return best, bestVal
}
