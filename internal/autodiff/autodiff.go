// Package autodiff implements automatic differentiation using the
// decorator pattern.
//
// Backend[B] wraps any compute backend and records every differentiable
// operation on a GradientTape during the forward pass. Walking the tape
// in reverse yields gradients for all participating tensors.
//
// Usage:
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//	// ... forward pass ...
//	grads := autodiff.Backward(loss, backend)
package autodiff

import (
	"fmt"
	"math"

	"github.com/mirage-ml/mirage/internal/autodiff/ops"
	"github.com/mirage-ml/mirage/internal/tensor"
)

// Backend wraps a compute backend and adds automatic differentiation.
// It implements tensor.Backend plus the activation and loss operations
// the nn package looks up via capability interfaces.
type Backend[B tensor.Backend] struct {
	inner B
	tape  *GradientTape
}

// New creates a new autodiff backend wrapping the given backend.
func New[B tensor.Backend](backend B) *Backend[B] {
	return &Backend[B]{
		inner: backend,
		tape:  NewGradientTape(),
	}
}

// Tape returns the gradient tape for manual control.
func (b *Backend[B]) Tape() *GradientTape {
	return b.tape
}

// Inner returns the wrapped backend.
func (b *Backend[B]) Inner() B {
	return b.inner
}

// Name returns the backend name.
func (b *Backend[B]) Name() string {
	return "Autodiff(" + b.inner.Name() + ")"
}

// Add performs element-wise addition and records the operation.
func (b *Backend[B]) Add(x, y *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Add(x, y)
	b.tape.Record(ops.NewAddOp(x, y, result))
	return result
}

// Sub performs element-wise subtraction and records the operation.
func (b *Backend[B]) Sub(x, y *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Sub(x, y)
	b.tape.Record(ops.NewSubOp(x, y, result))
	return result
}

// Mul performs element-wise multiplication and records the operation.
func (b *Backend[B]) Mul(x, y *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Mul(x, y)
	b.tape.Record(ops.NewMulOp(x, y, result))
	return result
}

// Div performs element-wise division and records the operation.
func (b *Backend[B]) Div(x, y *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Div(x, y)
	b.tape.Record(ops.NewDivOp(x, y, result))
	return result
}

// MatMul performs matrix multiplication and records the operation.
func (b *Backend[B]) MatMul(x, y *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.MatMul(x, y)
	b.tape.Record(ops.NewMatMulOp(x, y, result))
	return result
}

// Transpose permutes dimensions and records the operation.
// The inner backend materializes a new tensor, so without recording,
// gradients would never reach the pre-transpose parameter.
func (b *Backend[B]) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	ndim := len(t.Shape())
	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}

	result := b.inner.Transpose(t, axes...)
	b.tape.Record(ops.NewTransposeOp(t, result, axes))
	return result
}

// Reshape changes the shape and records the operation.
func (b *Backend[B]) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	result := b.inner.Reshape(t, newShape)
	b.tape.Record(ops.NewReshapeOp(t, result))
	return result
}

// MulScalar multiplies by a constant and records the operation.
func (b *Backend[B]) MulScalar(t *tensor.RawTensor, s float32) *tensor.RawTensor {
	result := b.inner.MulScalar(t, s)
	b.tape.Record(ops.NewMulScalarOp(t, result, s))
	return result
}

// AddScalar adds a constant and records the operation.
func (b *Backend[B]) AddScalar(t *tensor.RawTensor, s float32) *tensor.RawTensor {
	result := b.inner.AddScalar(t, s)
	b.tape.Record(ops.NewAddScalarOp(t, result))
	return result
}

// SumDim sums along a dimension and records the operation.
func (b *Backend[B]) SumDim(t *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	result := b.inner.SumDim(t, dim, keepDim)
	// The op's backward replicates the gradient along dim; the element
	// order is the same whether or not the dim was kept.
	b.tape.Record(ops.NewSumDimOp(t, result, dim))
	return result
}

// LeakyReLU applies the leaky rectifier: x if x > 0, else slope * x.
func (b *Backend[B]) LeakyReLU(x *tensor.RawTensor, slope float32) *tensor.RawTensor {
	result, err := tensor.NewRaw(x.Shape())
	if err != nil {
		panic(fmt.Sprintf("leakyrelu: %v", err))
	}

	xData, resData := x.Data(), result.Data()
	for i, val := range xData {
		if val > 0 {
			resData[i] = val
		} else {
			resData[i] = slope * val
		}
	}

	b.tape.Record(ops.NewLeakyReLUOp(x, result, slope))
	return result
}

// Sigmoid applies the logistic function: σ(x) = 1 / (1 + exp(-x)).
// Outputs are clamped strictly inside (0, 1); in float32 the exact
// formula saturates to 1.0 for moderately large inputs.
func (b *Backend[B]) Sigmoid(x *tensor.RawTensor) *tensor.RawTensor {
	result, err := tensor.NewRaw(x.Shape())
	if err != nil {
		panic(fmt.Sprintf("sigmoid: %v", err))
	}

	xData, resData := x.Data(), result.Data()
	for i, val := range xData {
		resData[i] = ops.ClampProb(float32(1.0 / (1.0 + math.Exp(float64(-val)))))
	}

	b.tape.Record(ops.NewSigmoidOp(x, result))
	return result
}

// MaxDim takes the maximum along one dimension, dropping it.
// Gradients flow only to the winning elements.
func (b *Backend[B]) MaxDim(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	op := ops.MaxDim(x, dim)
	b.tape.Record(op)
	return op.Output()
}

// BCE computes mean binary cross-entropy between probabilities and
// 0/1 targets, returning a single-element tensor.
func (b *Backend[B]) BCE(probs, targets *tensor.RawTensor) *tensor.RawTensor {
	op := ops.BCE(probs, targets)
	b.tape.Record(op)
	return op.Output()
}
