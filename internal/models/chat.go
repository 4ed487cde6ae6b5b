package models

import "fmt"

// ChatRequest is a single chat turn from the client. Language is a hint for
// the UI layer; the retrieval pipeline itself is language-agnostic.
type ChatRequest struct {
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}

// Validate normalizes the request. An empty language hint defaults to English.
// Empty text is allowed: the dialogue layer answers it with a topic prompt.
func (r *ChatRequest) Validate() error {
	if r.Language == "" {
		r.Language = "en"
	}
	return nil
}

// ChatResponse is the reply for a chat turn.
type ChatResponse struct {
	Reply    string `json:"reply"`
	Tier     string `json:"tier"`
	Language string `json:"language"`
	// QueryTime is the end-to-end handling time in milliseconds.
	QueryTime int64 `json:"query_time_ms"`
}

// CropFeatures are the soil and climate inputs for crop recommendation.
type CropFeatures struct {
	N           float64 `json:"N"`
	P           float64 `json:"P"`
	K           float64 `json:"K"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	PH          float64 `json:"ph"`
	Rainfall    float64 `json:"rainfall"`
}

// FertilizerFeatures are the inputs for fertilizer recommendation.
// SoilType and CropType are categorical and one-hot encoded before inference.
type FertilizerFeatures struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Moisture    float64 `json:"moisture"`
	SoilType    string  `json:"soil_type"`
	CropType    string  `json:"crop_type"`
	N           float64 `json:"N"`
	P           float64 `json:"P"`
	K           float64 `json:"K"`
}

// CropPrediction is the crop recommendation result.
type CropPrediction struct {
	Crop       string   `json:"crop"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// FertilizerPrediction is the fertilizer recommendation result.
type FertilizerPrediction struct {
	Fertilizer string `json:"fertilizer"`
}

// DiseasePrediction is the plant-disease classification result with a
// confidence-derived severity band.
type DiseasePrediction struct {
	Disease     string  `json:"disease"`
	BaseDisease string  `json:"base_disease"`
	Confidence  float64 `json:"confidence"`
	Severity    string  `json:"severity"`
}

// Validate checks that the fertilizer inputs name known categories.
func (f *FertilizerFeatures) Validate(soilTypes, cropTypes []string) error {
	if !contains(soilTypes, f.SoilType) {
		return fmt.Errorf("unknown soil type: %q", f.SoilType)
	}
	if !contains(cropTypes, f.CropType) {
		return fmt.Errorf("unknown crop type: %q", f.CropType)
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
