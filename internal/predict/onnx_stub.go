//go:build !cgo
// +build !cgo

package predict

import "errors"

var errNoCGO = errors.New("ONNX inference requires CGO; build with CGO_ENABLED=1 and onnxruntime")

// onnxModel stub type when built without CGO (see onnx.go for the real implementation).
type onnxModel struct{}

func newONNXModel(_, _, _ string, _ []int64, _ int) (*onnxModel, error) {
	return nil, errNoCGO
}

func (m *onnxModel) Run(_ []float32) ([]float32, error) { return nil, errNoCGO }

func (m *onnxModel) Close() error { return nil }
