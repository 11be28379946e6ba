package ops

import (
	"fmt"

	"github.com/mirage-ml/mirage/internal/tensor"
)

// onesLike creates a tensor of ones with the given shape.
func onesLike(shape tensor.Shape) *tensor.RawTensor {
	result, err := tensor.NewRaw(shape)
	if err != nil {
		panic(fmt.Sprintf("ops: %v", err))
	}
	data := result.Data()
	for i := range data {
		data[i] = 1.0
	}
	return result
}

// reduceBroadcast reduces a gradient back to the shape of an input that
// was broadcast during the forward pass.
//
// Dimensions the input did not have are summed away; dimensions where
// the input had size 1 are summed but kept. Without this, bias
// parameters of shape [1, n] would receive [batch, n] gradients.
func reduceBroadcast(grad *tensor.RawTensor, targetShape tensor.Shape, backend tensor.Backend) *tensor.RawTensor {
	if grad.Shape().Equal(targetShape) {
		return grad
	}

	result := grad
	// Sum away leading dimensions the target does not have.
	for len(result.Shape()) > len(targetShape) {
		result = backend.SumDim(result, 0, false)
	}
	// Sum (keeping the dim) where the target has size 1.
	for d := 0; d < len(targetShape); d++ {
		if targetShape[d] == 1 && result.Shape()[d] != 1 {
			result = backend.SumDim(result, d, true)
		}
	}

	if !result.Shape().Equal(targetShape) {
		panic(fmt.Sprintf("ops: cannot reduce gradient %v to input shape %v", grad.Shape(), targetShape))
	}
	return result
}
