package predict

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/nfnt/resize"
)

// imageSize is the square input resolution of the disease classifier.
const imageSize = 224

// preprocessImage decodes a JPEG or PNG leaf photo, resizes it to the model
// resolution, and scales the RGB channels to [0,1] in HWC order.
func preprocessImage(data []byte) ([]float32, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	resized := resize.Resize(imageSize, imageSize, img, resize.Bilinear)

	pixels := make([]float32, imageSize*imageSize*3)
	i := 0
	bounds := resized.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := resized.At(x, y).RGBA()
			pixels[i] = float32(r>>8) / 255.0
			pixels[i+1] = float32(g>>8) / 255.0
			pixels[i+2] = float32(b>>8) / 255.0
			i += 3
		}
	}
	return pixels, nil
}

// severityBand maps classifier confidence to a severity label. Healthy leaves
// have no severity. Lower confidence on a disease class correlates with more
// advanced, harder-to-recognize damage in the training data.
func severityBand(disease string, confidence float64) string {
	if disease == "Healthy" {
		return "None"
	}
	switch {
	case confidence >= 0.85:
		return "Early"
	case confidence >= 0.65:
		return "Moderate"
	default:
		return "Severe"
	}
}
