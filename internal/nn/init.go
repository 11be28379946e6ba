package nn

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/mirage-ml/mirage/internal/tensor"
)

// Xavier initializes a weight tensor with the Glorot uniform
// distribution: U(-sqrt(6/(fanIn+fanOut)), sqrt(6/(fanIn+fanOut))).
//
// The explicit random source keeps model construction reproducible.
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, rng *rand.Rand, backend B) *tensor.Tensor[B] {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))

	raw, err := tensor.NewRaw(shape)
	if err != nil {
		panic(fmt.Sprintf("xavier: %v", err))
	}

	data := raw.Data()
	for i := range data {
		data[i] = float32((rng.Float64()*2.0 - 1.0) * bound)
	}

	return tensor.New(raw, backend)
}

// Zeros creates a zero tensor, the usual bias initialization.
func Zeros[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[B] {
	return tensor.Zeros(shape, backend)
}
