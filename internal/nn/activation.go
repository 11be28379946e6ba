package nn

import (
	"github.com/mirage-ml/mirage/internal/tensor"
)

// LeakyReLUBackend is implemented by backends that support the leaky
// rectifier activation.
type LeakyReLUBackend interface {
	LeakyReLU(x *tensor.RawTensor, slope float32) *tensor.RawTensor
}

// SigmoidBackend is implemented by backends that support the sigmoid
// activation.
type SigmoidBackend interface {
	Sigmoid(x *tensor.RawTensor) *tensor.RawTensor
}

// LeakyReLU is the leaky rectifier activation module:
// f(x) = x for x > 0, slope * x otherwise.
//
// The small negative slope keeps gradients alive for negative inputs,
// which matters in adversarial training where a dead discriminator unit
// stops teaching the generator anything.
type LeakyReLU[B tensor.Backend] struct {
	slope float32
}

// NewLeakyReLU creates a LeakyReLU with the given negative slope.
func NewLeakyReLU[B tensor.Backend](slope float32) *LeakyReLU[B] {
	return &LeakyReLU[B]{slope: slope}
}

// Forward applies the leaky rectifier element-wise.
func (l *LeakyReLU[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	backend := input.Backend()
	lb, ok := any(backend).(LeakyReLUBackend)
	if !ok {
		panic("LeakyReLU: backend must implement LeakyReLU (use the autodiff backend)")
	}
	return tensor.New[B](lb.LeakyReLU(input.Raw(), l.slope), backend)
}

// Parameters returns nil (no trainable parameters).
func (l *LeakyReLU[B]) Parameters() []*Parameter[B] {
	return nil
}

// Sigmoid squashes values into (0, 1): σ(x) = 1 / (1 + exp(-x)).
// Used as the discriminator's output so it reads as a probability.
type Sigmoid[B tensor.Backend] struct{}

// NewSigmoid creates a new Sigmoid activation module.
func NewSigmoid[B tensor.Backend]() *Sigmoid[B] {
	return &Sigmoid[B]{}
}

// Forward applies the sigmoid element-wise.
func (s *Sigmoid[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	backend := input.Backend()
	sb, ok := any(backend).(SigmoidBackend)
	if !ok {
		panic("Sigmoid: backend must implement Sigmoid (use the autodiff backend)")
	}
	return tensor.New[B](sb.Sigmoid(input.Raw()), backend)
}

// Parameters returns nil (no trainable parameters).
func (s *Sigmoid[B]) Parameters() []*Parameter[B] {
	return nil
}
