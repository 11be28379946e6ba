package autodiff_test

import (
	"math"
	"testing"

	"github.com/mirage-ml/mirage/internal/autodiff"
	"github.com/mirage-ml/mirage/internal/backend/cpu"
	"github.com/mirage-ml/mirage/internal/tensor"
)

func floatEqual(a, b, eps float32) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < eps
}

func newBackend() *autodiff.Backend[*cpu.Backend] {
	return autodiff.New(cpu.New())
}

func fromSlice(t *testing.T, backend *autodiff.Backend[*cpu.Backend], data []float32, shape tensor.Shape) *tensor.Tensor[*autodiff.Backend[*cpu.Backend]] {
	t.Helper()
	x, err := tensor.FromSlice(data, shape, backend)
	if err != nil {
		t.Fatal(err)
	}
	return x
}

// TestBackward_AddMulChain checks z = x*y + x: dz/dx = y + 1, dz/dy = x.
func TestBackward_AddMulChain(t *testing.T) {
	backend := newBackend()
	x := fromSlice(t, backend, []float32{2, 3}, tensor.Shape{2})
	y := fromSlice(t, backend, []float32{5, 7}, tensor.Shape{2})

	backend.Tape().StartRecording()
	z := x.Mul(y).Add(x)
	grads := autodiff.Backward(z, backend)

	gradX := grads[x.Raw()]
	gradY := grads[y.Raw()]
	if gradX == nil || gradY == nil {
		t.Fatal("missing gradients for inputs")
	}

	wantX := []float32{6, 8}
	wantY := []float32{2, 3}
	for i := range wantX {
		if !floatEqual(gradX.Data()[i], wantX[i], 1e-5) {
			t.Errorf("dz/dx[%d]: got %f, want %f", i, gradX.Data()[i], wantX[i])
		}
		if !floatEqual(gradY.Data()[i], wantY[i], 1e-5) {
			t.Errorf("dz/dy[%d]: got %f, want %f", i, gradY.Data()[i], wantY[i])
		}
	}
}

// TestBackward_MatMul checks gradients against hand-computed values:
// for C = A @ B with seed dL/dC = 1, dL/dA = 1 @ B^T and dL/dB = A^T @ 1.
func TestBackward_MatMul(t *testing.T) {
	backend := newBackend()
	a := fromSlice(t, backend, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	b := fromSlice(t, backend, []float32{5, 6, 7, 8}, tensor.Shape{2, 2})

	backend.Tape().StartRecording()
	c := a.MatMul(b)
	grads := autodiff.Backward(c, backend)

	// dL/dA[i][k] = sum_j B[k][j]; row sums of B are [11, 15].
	wantA := []float32{11, 15, 11, 15}
	// dL/dB[k][j] = sum_i A[i][k]; column sums of A are [4, 6].
	wantB := []float32{4, 4, 6, 6}

	gradA, gradB := grads[a.Raw()], grads[b.Raw()]
	for i := range wantA {
		if !floatEqual(gradA.Data()[i], wantA[i], 1e-5) {
			t.Errorf("dL/dA[%d]: got %f, want %f", i, gradA.Data()[i], wantA[i])
		}
		if !floatEqual(gradB.Data()[i], wantB[i], 1e-5) {
			t.Errorf("dL/dB[%d]: got %f, want %f", i, gradB.Data()[i], wantB[i])
		}
	}
}

// TestBackward_BroadcastBias checks that a [1, n] bias broadcast over a
// batch accumulates its gradient across the batch dimension.
func TestBackward_BroadcastBias(t *testing.T) {
	backend := newBackend()
	x := fromSlice(t, backend, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{3, 2})
	bias := fromSlice(t, backend, []float32{10, 20}, tensor.Shape{1, 2})

	backend.Tape().StartRecording()
	out := x.Add(bias)
	grads := autodiff.Backward(out, backend)

	gradBias := grads[bias.Raw()]
	if gradBias == nil {
		t.Fatal("missing bias gradient")
	}
	if !gradBias.Shape().Equal(tensor.Shape{1, 2}) {
		t.Fatalf("bias gradient shape: got %v", gradBias.Shape())
	}
	// Each bias element feeds all 3 rows.
	if !floatEqual(gradBias.Data()[0], 3, 1e-5) || !floatEqual(gradBias.Data()[1], 3, 1e-5) {
		t.Errorf("bias gradient: got %v, want [3, 3]", gradBias.Data())
	}
}

func TestLeakyReLU_ForwardBackward(t *testing.T) {
	backend := newBackend()
	x := fromSlice(t, backend, []float32{-2, 0.5, 3}, tensor.Shape{3})

	backend.Tape().StartRecording()
	out := tensor.New(backend.LeakyReLU(x.Raw(), 0.2), backend)

	want := []float32{-0.4, 0.5, 3}
	for i := range want {
		if !floatEqual(out.Data()[i], want[i], 1e-6) {
			t.Errorf("forward[%d]: got %f, want %f", i, out.Data()[i], want[i])
		}
	}

	grads := autodiff.Backward(out, backend)
	grad := grads[x.Raw()]
	wantGrad := []float32{0.2, 1, 1}
	for i := range wantGrad {
		if !floatEqual(grad.Data()[i], wantGrad[i], 1e-6) {
			t.Errorf("backward[%d]: got %f, want %f", i, grad.Data()[i], wantGrad[i])
		}
	}
}

func TestSigmoid_ForwardBackward(t *testing.T) {
	backend := newBackend()
	x := fromSlice(t, backend, []float32{0, 2}, tensor.Shape{2})

	backend.Tape().StartRecording()
	out := tensor.New(backend.Sigmoid(x.Raw()), backend)

	if !floatEqual(out.Data()[0], 0.5, 1e-6) {
		t.Errorf("sigmoid(0): got %f, want 0.5", out.Data()[0])
	}
	s2 := float32(1.0 / (1.0 + math.Exp(-2)))
	if !floatEqual(out.Data()[1], s2, 1e-5) {
		t.Errorf("sigmoid(2): got %f, want %f", out.Data()[1], s2)
	}

	grads := autodiff.Backward(out, backend)
	grad := grads[x.Raw()]
	// d sigmoid = s * (1 - s)
	if !floatEqual(grad.Data()[0], 0.25, 1e-5) {
		t.Errorf("d sigmoid(0): got %f, want 0.25", grad.Data()[0])
	}
	if !floatEqual(grad.Data()[1], s2*(1-s2), 1e-5) {
		t.Errorf("d sigmoid(2): got %f, want %f", grad.Data()[1], s2*(1-s2))
	}
}

// Float32 saturates around |x| ≈ 17; the clamp must keep outputs
// strictly inside (0, 1).
func TestSigmoid_SaturatedInputs(t *testing.T) {
	backend := newBackend()
	x := fromSlice(t, backend, []float32{-80, -50, 50, 80}, tensor.Shape{4})

	out := backend.Sigmoid(x.Raw())
	for i, v := range out.Data() {
		if v <= 0 || v >= 1 {
			t.Errorf("sigmoid output %d: got %f, want strictly inside (0, 1)", i, v)
		}
	}
}

func TestMaxDim_ForwardBackward(t *testing.T) {
	backend := newBackend()
	// [2, 2, 2]: two batch rows, two pieces, two features.
	x := fromSlice(t, backend, []float32{
		1, 8, // batch 0, piece 0
		5, 2, // batch 0, piece 1
		0, 0, // batch 1, piece 0
		3, -1, // batch 1, piece 1
	}, tensor.Shape{2, 2, 2})

	backend.Tape().StartRecording()
	out := tensor.New(backend.MaxDim(x.Raw(), 1), backend)

	if !out.Shape().Equal(tensor.Shape{2, 2}) {
		t.Fatalf("MaxDim shape: got %v", out.Shape())
	}
	want := []float32{5, 8, 3, 0}
	for i := range want {
		if out.Data()[i] != want[i] {
			t.Fatalf("MaxDim forward: got %v, want %v", out.Data(), want)
		}
	}

	grads := autodiff.Backward(out, backend)
	grad := grads[x.Raw()]
	// Only the winning elements receive gradient.
	wantGrad := []float32{0, 1, 1, 0, 0, 1, 1, 0}
	for i := range wantGrad {
		if grad.Data()[i] != wantGrad[i] {
			t.Fatalf("MaxDim backward: got %v, want %v", grad.Data(), wantGrad)
		}
	}
}

func TestBCE_ForwardBackward(t *testing.T) {
	backend := newBackend()
	probs := fromSlice(t, backend, []float32{0.8, 0.3}, tensor.Shape{2, 1})
	targets := fromSlice(t, backend, []float32{1, 0}, tensor.Shape{2, 1})

	backend.Tape().StartRecording()
	loss := tensor.New(backend.BCE(probs.Raw(), targets.Raw()), backend)

	// -(ln 0.8 + ln 0.7) / 2
	wantLoss := float32(-(math.Log(0.8) + math.Log(0.7)) / 2)
	if !floatEqual(loss.Item(), wantLoss, 1e-5) {
		t.Errorf("BCE loss: got %f, want %f", loss.Item(), wantLoss)
	}

	grads := autodiff.Backward(loss, backend)
	grad := grads[probs.Raw()]
	// d/dp = (p - y) / (p * (1 - p) * n)
	want := []float32{
		(0.8 - 1) / (0.8 * 0.2 * 2),
		(0.3 - 0) / (0.3 * 0.7 * 2),
	}
	for i := range want {
		if !floatEqual(grad.Data()[i], want[i], 1e-4) {
			t.Errorf("BCE grad[%d]: got %f, want %f", i, grad.Data()[i], want[i])
		}
	}

	if grads[targets.Raw()] != nil {
		t.Error("targets must not receive a gradient")
	}
}

// TestBCE_GradientMatchesFiniteDifference cross-checks the fused
// backward against a numerical derivative of the forward loss.
func TestBCE_GradientMatchesFiniteDifference(t *testing.T) {
	backend := newBackend()
	values := []float32{0.9, 0.4, 0.6}
	labels := []float32{1, 0, 1}

	probs := fromSlice(t, backend, values, tensor.Shape{3, 1})
	targets := fromSlice(t, backend, labels, tensor.Shape{3, 1})

	backend.Tape().StartRecording()
	loss := tensor.New(backend.BCE(probs.Raw(), targets.Raw()), backend)
	grads := autodiff.Backward(loss, backend)
	grad := grads[probs.Raw()]
	backend.Tape().StopRecording()

	bceAt := func(p []float32) float64 {
		sum := 0.0
		for i := range p {
			y := float64(labels[i])
			sum += -(y*math.Log(float64(p[i])) + (1-y)*math.Log(1-float64(p[i])))
		}
		return sum / float64(len(p))
	}

	const h = 1e-3
	for i := range values {
		plus := append([]float32(nil), values...)
		minus := append([]float32(nil), values...)
		plus[i] += h
		minus[i] -= h
		numeric := float32((bceAt(plus) - bceAt(minus)) / (2 * h))

		if !floatEqual(grad.Data()[i], numeric, 1e-2) {
			t.Errorf("grad[%d]: analytic %f vs numeric %f", i, grad.Data()[i], numeric)
		}
	}
}

func TestReshape_GradientFlows(t *testing.T) {
	backend := newBackend()
	x := fromSlice(t, backend, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	y := fromSlice(t, backend, []float32{2, 2, 2, 2}, tensor.Shape{4})

	backend.Tape().StartRecording()
	out := x.Reshape(4).Mul(y)
	grads := autodiff.Backward(out, backend)

	grad := grads[x.Raw()]
	if grad == nil {
		t.Fatal("gradient did not flow through reshape")
	}
	for i := 0; i < 4; i++ {
		if !floatEqual(grad.Data()[i], 2, 1e-6) {
			t.Errorf("grad[%d]: got %f, want 2", i, grad.Data()[i])
		}
	}
}

func TestTape_RecordingControl(t *testing.T) {
	backend := newBackend()
	x := fromSlice(t, backend, []float32{1, 2}, tensor.Shape{2})

	// Nothing recorded while the tape is stopped.
	x.Add(x)
	if backend.Tape().NumOps() != 0 {
		t.Errorf("ops recorded while stopped: %d", backend.Tape().NumOps())
	}

	backend.Tape().StartRecording()
	x.Add(x)
	if backend.Tape().NumOps() != 1 {
		t.Errorf("ops recorded: got %d, want 1", backend.Tape().NumOps())
	}

	backend.Tape().Clear()
	if backend.Tape().NumOps() != 0 {
		t.Error("Clear did not empty the tape")
	}
	if !backend.Tape().IsRecording() {
		t.Error("Clear must preserve the recording state")
	}
}
