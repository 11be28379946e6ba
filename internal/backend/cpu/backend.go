// Package cpu implements the pure-Go CPU backend.
package cpu

import (
	"fmt"

	"github.com/mirage-ml/mirage/internal/tensor"
)

// Backend implements tensor operations on the CPU in pure Go.
type Backend struct{}

// New creates a new CPU backend.
func New() *Backend {
	return &Backend{}
}

// Name returns the backend name.
func (c *Backend) Name() string {
	return "CPU"
}

// Add performs element-wise addition with NumPy-style broadcasting.
func (c *Backend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return binaryOp("add", a, b, func(x, y float32) float32 { return x + y })
}

// Sub performs element-wise subtraction with broadcasting.
func (c *Backend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return binaryOp("sub", a, b, func(x, y float32) float32 { return x - y })
}

// Mul performs element-wise multiplication with broadcasting.
func (c *Backend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return binaryOp("mul", a, b, func(x, y float32) float32 { return x * y })
}

// Div performs element-wise division with broadcasting.
func (c *Backend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return binaryOp("div", a, b, func(x, y float32) float32 { return x / y })
}

// binaryOp applies f element-wise, resolving broadcasting first.
// The same-shape case takes a tight-loop fast path.
func binaryOp(name string, a, b *tensor.RawTensor, f func(x, y float32) float32) *tensor.RawTensor {
	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	result, err := tensor.NewRaw(outShape)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", name, err))
	}

	if !needsBroadcast && a.Shape().Equal(b.Shape()) {
		aData, bData, outData := a.Data(), b.Data(), result.Data()
		for i := range outData {
			outData[i] = f(aData[i], bData[i])
		}
		return result
	}

	broadcastOp(result, a, b, outShape, f)
	return result
}

// broadcastOp walks the output coordinates and maps each one back to the
// (possibly smaller) input tensors, right-aligning dimensions.
func broadcastOp(result, a, b *tensor.RawTensor, outShape tensor.Shape, f func(x, y float32) float32) {
	aData, bData, outData := a.Data(), b.Data(), result.Data()
	aShape, bShape := a.Shape(), b.Shape()
	aStrides, bStrides := a.Strides(), b.Strides()
	outStrides := outShape.ComputeStrides()

	for i := range outData {
		aIdx, bIdx := 0, 0
		for d := 0; d < len(outShape); d++ {
			coord := (i / outStrides[d]) % outShape[d]

			if ad := d - (len(outShape) - len(aShape)); ad >= 0 {
				if aShape[ad] > 1 {
					aIdx += coord * aStrides[ad]
				}
			}
			if bd := d - (len(outShape) - len(bShape)); bd >= 0 {
				if bShape[bd] > 1 {
					bIdx += coord * bStrides[bd]
				}
			}
		}
		outData[i] = f(aData[aIdx], bData[bIdx])
	}
}
