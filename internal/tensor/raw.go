package tensor

import "fmt"

// RawTensor is the low-level tensor representation: a flat float32
// buffer in row-major order plus its shape. Mirage trains everything in
// float32, so unlike a general framework there is no dtype dispatch and
// no device field; the buffer always lives in host memory.
//
// RawTensor identity matters: the autodiff tape keys gradients by
// *RawTensor pointer, so operations always allocate fresh outputs and
// never modify their inputs in place.
type RawTensor struct {
	data   []float32
	shape  Shape
	stride []int
}

// NewRaw creates a zero-filled RawTensor with the given shape.
func NewRaw(shape Shape) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	return &RawTensor{
		data:   make([]float32, shape.NumElements()),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
	}, nil
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// Strides returns the tensor's row-major memory strides.
func (r *RawTensor) Strides() []int {
	return r.stride
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// Data returns the underlying float32 slice.
// Mutations through the slice are visible to every view of the tensor.
func (r *RawTensor) Data() []float32 {
	return r.data
}

// Clone creates a deep copy with its own buffer.
func (r *RawTensor) Clone() *RawTensor {
	clone := &RawTensor{
		data:   make([]float32, len(r.data)),
		shape:  r.shape.Clone(),
		stride: append([]int(nil), r.stride...),
	}
	copy(clone.data, r.data)
	return clone
}

// View returns a RawTensor that shares this tensor's buffer but carries
// a different shape. The element count must match.
//
// Views are how Reshape stays zero-copy while still producing a distinct
// tape identity for gradient bookkeeping.
func (r *RawTensor) View(shape Shape) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if shape.NumElements() != r.NumElements() {
		return nil, fmt.Errorf("view shape %v requires %d elements, tensor has %d",
			shape, shape.NumElements(), r.NumElements())
	}

	return &RawTensor{
		data:   r.data,
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
	}, nil
}

// String returns a short human-readable description.
func (r *RawTensor) String() string {
	return fmt.Sprintf("RawTensor%v", r.shape)
}
