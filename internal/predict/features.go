package predict

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/krishisaathi/krishisaathi/internal/models"
)

// SoilTypes and CropTypes are the categorical values the fertilizer model was
// trained on. Inputs outside these lists are rejected before inference.
var (
	SoilTypes = []string{"Clayey", "Loamy", "Red", "Sandy"}
	CropTypes = []string{
		"Cotton", "Ground Nuts", "Maize", "Millets", "Oil seeds",
		"Paddy", "Pulses", "Sugarcane", "Tobacco", "Wheat",
	}
)

// defaultFertilizerColumns is the training-time column order. The column names
// carry the training data's quirks ("Temparature", trailing space in
// "Humidity ") and must match the exported model exactly.
var defaultFertilizerColumns = []string{
	"Temparature", "Humidity ", "Moisture", "Nitrogen", "Potassium", "Phosphorous",
	"Soil Type_Clayey", "Soil Type_Loamy", "Soil Type_Red", "Soil Type_Sandy",
	"Crop Type_Cotton", "Crop Type_Ground Nuts", "Crop Type_Maize", "Crop Type_Millets",
	"Crop Type_Oil seeds", "Crop Type_Paddy", "Crop Type_Pulses", "Crop Type_Sugarcane",
	"Crop Type_Tobacco", "Crop Type_Wheat",
}

// LoadFertilizerColumns reads the column-order file exported alongside the
// fertilizer model. A missing file falls back to the default training order.
func LoadFertilizerColumns(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return defaultFertilizerColumns, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read fertilizer columns: %w", err)
	}
	var columns []string
	if err := json.Unmarshal(data, &columns); err != nil {
		return nil, fmt.Errorf("failed to parse fertilizer columns: %w", err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("fertilizer columns file is empty")
	}
	return columns, nil
}

// fertilizerVector one-hot encodes the categorical inputs and reorders the
// features to the model's column order. Unknown columns stay zero.
func fertilizerVector(f *models.FertilizerFeatures, columns []string) []float32 {
	named := map[string]float64{
		"Temparature": f.Temperature,
		"Humidity ":   f.Humidity,
		"Moisture":    f.Moisture,
		"Nitrogen":    f.N,
		"Potassium":   f.K,
		"Phosphorous": f.P,
	}
	named["Soil Type_"+f.SoilType] = 1
	named["Crop Type_"+f.CropType] = 1

	vec := make([]float32, len(columns))
	for i, col := range columns {
		vec[i] = float32(named[col])
	}
	return vec
}

// cropVector lays out the crop features in the model's training order.
func cropVector(f *models.CropFeatures) []float32 {
	return []float32{
		float32(f.N), float32(f.P), float32(f.K),
		float32(f.Temperature), float32(f.Humidity),
		float32(f.PH), float32(f.Rainfall),
	}
}
