package nn

import (
	"fmt"
	"math/rand"

	"github.com/mirage-ml/mirage/internal/tensor"
)

// MaxDimBackend is implemented by backends that support a maximum
// reduction along one dimension with gradient routing to the winners.
type MaxDimBackend interface {
	MaxDim(x *tensor.RawTensor, dim int) *tensor.RawTensor
}

// Maxout implements a maxout dense layer: k parallel affine pieces whose
// element-wise maximum is the output.
//
//	y_o = max_{p < k} (x @ W_p.T + b_p)_o
//
// The layer learns its own piecewise-linear activation instead of
// applying a fixed one, so no activation follows it.
type Maxout[B tensor.Backend] struct {
	inFeatures  int
	outFeatures int
	pieces      int
	weight      *Parameter[B] // [pieces*out, in]
	bias        *Parameter[B] // [pieces*out]
}

// NewMaxout creates a Maxout layer with the given number of pieces.
func NewMaxout[B tensor.Backend](inFeatures, outFeatures, pieces int, rng *rand.Rand, backend B) *Maxout[B] {
	if pieces < 2 {
		panic(fmt.Sprintf("Maxout: need at least 2 pieces, got %d", pieces))
	}

	rows := pieces * outFeatures
	weight := NewParameter("weight", Xavier(inFeatures, outFeatures, tensor.Shape{rows, inFeatures}, rng, backend))
	bias := NewParameter("bias", Zeros(tensor.Shape{rows}, backend))

	return &Maxout[B]{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		pieces:      pieces,
		weight:      weight,
		bias:        bias,
	}
}

// Forward computes all pieces in one matmul and reduces with max.
//
// Input [batch, in] -> affine [batch, pieces*out] -> view as
// [batch, pieces, out] -> max over the pieces dimension -> [batch, out].
func (m *Maxout[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	inputShape := input.Shape()
	if len(inputShape) != 2 {
		panic(fmt.Sprintf("Maxout.Forward: expected 2D input [batch, features], got shape %v", inputShape))
	}
	if inputShape[1] != m.inFeatures {
		panic(fmt.Sprintf("Maxout.Forward: expected input with %d features, got %d", m.inFeatures, inputShape[1]))
	}

	backend := input.Backend()
	mb, ok := any(backend).(MaxDimBackend)
	if !ok {
		panic("Maxout: backend must implement MaxDim (use the autodiff backend)")
	}

	batch := inputShape[0]
	z := input.MatMul(m.weight.Tensor().T())
	z = z.Add(m.bias.Tensor().Reshape(1, m.pieces*m.outFeatures))
	z = z.Reshape(batch, m.pieces, m.outFeatures)

	return tensor.New[B](mb.MaxDim(z.Raw(), 1), backend)
}

// Parameters returns [weight, bias].
func (m *Maxout[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{m.weight, m.bias}
}

// Weight returns the stacked per-piece weight parameter.
func (m *Maxout[B]) Weight() *Parameter[B] {
	return m.weight
}

// Bias returns the stacked per-piece bias parameter.
func (m *Maxout[B]) Bias() *Parameter[B] {
	return m.bias
}

// Pieces returns the number of affine pieces.
func (m *Maxout[B]) Pieces() int {
	return m.pieces
}

// OutFeatures returns the number of output features.
func (m *Maxout[B]) OutFeatures() int {
	return m.outFeatures
}
