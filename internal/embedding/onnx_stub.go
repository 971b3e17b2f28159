//go:build !cgo
// +build !cgo

package embedding

import (
	"context"
	"errors"
)

var errNoCGO = errors.New("onnx provider requires a CGO build with onnxruntime installed")

// ONNXEmbedder placeholder for builds without CGO. The real implementation
// lives in onnx.go.
type ONNXEmbedder struct{}

// NewONNXEmbedder always fails without CGO; build with CGO_ENABLED=1 and the
// onnxruntime library to use the ONNX provider.
func NewONNXEmbedder(string, int, int, int) (*ONNXEmbedder, error) {
	return nil, errNoCGO
}

func (e *ONNXEmbedder) Embed(context.Context, string) ([]float32, error) { return nil, errNoCGO }

func (e *ONNXEmbedder) EmbedBatch(context.Context, []string) ([][]float32, error) {
	return nil, errNoCGO
}

func (e *ONNXEmbedder) Dimensions() int { return 0 }

func (e *ONNXEmbedder) Close() error { return nil }
