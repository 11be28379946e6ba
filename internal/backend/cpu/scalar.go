package cpu

import (
	"fmt"

	"github.com/mirage-ml/mirage/internal/tensor"
)

// MulScalar multiplies every element by s.
func (c *Backend) MulScalar(t *tensor.RawTensor, s float32) *tensor.RawTensor {
	return scalarOp("mulscalar", t, func(x float32) float32 { return x * s })
}

// AddScalar adds s to every element.
func (c *Backend) AddScalar(t *tensor.RawTensor, s float32) *tensor.RawTensor {
	return scalarOp("addscalar", t, func(x float32) float32 { return x + s })
}

func scalarOp(name string, t *tensor.RawTensor, f func(x float32) float32) *tensor.RawTensor {
	result, err := tensor.NewRaw(t.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	inData, outData := t.Data(), result.Data()
	for i := range outData {
		outData[i] = f(inData[i])
	}
	return result
}
