package tensor

// Backend defines the interface that compute backends must implement.
// Backends carry out the actual arithmetic for tensor operations; the
// Tensor type only dispatches to them.
//
// Implementations:
//   - backend/cpu: pure Go reference implementation
//   - autodiff: decorator that wraps any backend and records operations
//     on a gradient tape
//
// Every operation allocates and returns a fresh RawTensor. Backends must
// not modify their inputs: the autodiff decorator relies on input values
// surviving until the backward pass.
type Backend interface {
	// Element-wise binary operations with NumPy-style broadcasting.
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// MatMul performs 2D matrix multiplication: (M,K) @ (K,N) -> (M,N).
	MatMul(a, b *RawTensor) *RawTensor

	// Shape operations.
	Transpose(t *RawTensor, axes ...int) *RawTensor
	Reshape(t *RawTensor, newShape Shape) *RawTensor

	// Scalar operations.
	MulScalar(t *RawTensor, s float32) *RawTensor
	AddScalar(t *RawTensor, s float32) *RawTensor

	// SumDim sums along one dimension, optionally keeping it with size 1.
	SumDim(t *RawTensor, dim int, keepDim bool) *RawTensor

	// Name returns the backend name (e.g. "CPU", "Autodiff(CPU)").
	Name() string
}
