package tensor

import (
	"fmt"
	"math/rand"
)

// Zeros creates a tensor filled with zeros.
func Zeros[B Backend](shape Shape, b B) *Tensor[B] {
	raw, err := NewRaw(shape)
	if err != nil {
		panic(fmt.Sprintf("zeros: %v", err))
	}
	return New(raw, b)
}

// Ones creates a tensor filled with ones.
func Ones[B Backend](shape Shape, b B) *Tensor[B] {
	return Full(shape, 1.0, b)
}

// Full creates a tensor filled with a specific value.
func Full[B Backend](shape Shape, value float32, b B) *Tensor[B] {
	raw, err := NewRaw(shape)
	if err != nil {
		panic(fmt.Sprintf("full: %v", err))
	}
	data := raw.Data()
	for i := range data {
		data[i] = value
	}
	return New(raw, b)
}

// Randn creates a tensor with values drawn from the standard normal
// distribution N(0, 1) using the provided source.
//
// The explicit *rand.Rand keeps runs reproducible: seeding the source
// and replaying the same call sequence yields identical tensors.
func Randn[B Backend](shape Shape, rng *rand.Rand, b B) *Tensor[B] {
	raw, err := NewRaw(shape)
	if err != nil {
		panic(fmt.Sprintf("randn: %v", err))
	}
	data := raw.Data()
	for i := range data {
		data[i] = float32(rng.NormFloat64())
	}
	return New(raw, b)
}

// FromSlice creates a tensor from a Go slice.
// The slice is copied into the tensor's own buffer.
func FromSlice[B Backend](data []float32, shape Shape, b B) (*Tensor[B], error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}

	raw, err := NewRaw(shape)
	if err != nil {
		return nil, err
	}
	copy(raw.Data(), data)

	return New(raw, b), nil
}
