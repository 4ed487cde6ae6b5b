//go:build cgo
// +build cgo

package predict

import (
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// onnxModel wraps one single-input, single-output float32 ONNX session.
// Tensors are pre-allocated; Run copies the input in and the output out.
type onnxModel struct {
	session      *ort.AdvancedSession
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
	outputLen    int
	mu           sync.Mutex
}

// newONNXModel creates a session for the model at path. InitializeEnvironment
// is idempotent across models.
func newONNXModel(path, inputName, outputName string, inputShape []int64, outputLen int) (*onnxModel, error) {
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("failed to initialize ONNX runtime: %w", err)
	}

	inputLen := int64(1)
	for _, d := range inputShape {
		inputLen *= d
	}
	inputTensor, err := ort.NewTensor(ort.NewShape(inputShape...), make([]float32, inputLen))
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}
	outputTensor, err := ort.NewTensor(ort.NewShape(1, int64(outputLen)), make([]float32, outputLen))
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(
		path,
		[]string{inputName},
		[]string{outputName},
		[]ort.ArbitraryTensor{inputTensor},
		[]ort.ArbitraryTensor{outputTensor},
		nil,
	)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	return &onnxModel{
		session:      session,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
		outputLen:    outputLen,
	}, nil
}

// Run executes the model on input and returns a copy of the output.
func (m *onnxModel) Run(input []float32) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data := m.inputTensor.GetData()
	if len(input) != len(data) {
		return nil, fmt.Errorf("input length %d does not match model input %d", len(input), len(data))
	}
	copy(data, input)

	if err := m.session.Run(); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	out := make([]float32, m.outputLen)
	copy(out, m.outputTensor.GetData()[:m.outputLen])
	return out, nil
}

// Close destroys the session and tensors.
func (m *onnxModel) Close() error {
	var err error
	if m.session != nil {
		err = m.session.Destroy()
		m.session = nil
	}
	if m.inputTensor != nil {
		_ = m.inputTensor.Destroy()
		m.inputTensor = nil
	}
	if m.outputTensor != nil {
		_ = m.outputTensor.Destroy()
		m.outputTensor = nil
	}
	return err
}
