package nn

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
)

// buildFixedNetwork constructs the hand-checkable [2,2,1] network:
// layer 1 weights [[0.5,-0.5],[0.5,0.5]] with zero biases, layer 2
// weights [[1],[1]] with zero bias.
func buildFixedNetwork(t *testing.T) *Network {
	t.Helper()

	net, err := New([]int{2, 2, 1}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	require.NoError(t, net.Layer(0).SetWeights([][]float64{{0.5, -0.5}, {0.5, 0.5}}))
	require.NoError(t, net.Layer(0).SetBiases([]float64{0, 0}))
	require.NoError(t, net.Layer(1).SetWeights([][]float64{{1}, {1}}))
	require.NoError(t, net.Layer(1).SetBiases([]float64{0}))

	return net
}

func TestNew_Validation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	_, err := New([]int{5}, rng)
	assert.Error(t, err, "single layer size must be rejected")

	_, err = New([]int{5, 0, 3}, rng)
	assert.Error(t, err, "zero layer size must be rejected")

	net, err := New([]int{5, 3, 2}, rng)
	require.NoError(t, err)
	assert.Equal(t, 5, net.InputSize())
	assert.Equal(t, 2, net.OutputSize())
	assert.Equal(t, 2, net.Len())
}

// TestForward_WorkedExample pins the [2,2,1] forward pass to the value
// obtained by evaluating the two sigmoid compositions by hand:
// hidden = [σ(0.5), σ(-0.5)], and since σ(x)+σ(-x) = 1 the output
// weighted sum is exactly 1, so output = σ(1).
func TestForward_WorkedExample(t *testing.T) {
	net := buildFixedNetwork(t)

	out, err := net.Forward([]float64{1, 0})
	require.NoError(t, err)
	require.Len(t, out, 1)

	want := 1 / (1 + math.Exp(-1.0)) // σ(1) = 0.7310585786300049
	assert.InDelta(t, want, out[0], 1e-12)
	assert.InDelta(t, 0.7310585786300049, out[0], 1e-12)
}

func TestForward_OutputLength(t *testing.T) {
	for _, sizes := range [][]int{{3, 2}, {4, 7, 3}, {2, 5, 5, 6}} {
		net, err := New(sizes, rand.New(rand.NewSource(9)))
		require.NoError(t, err)

		input := make([]float64, sizes[0])
		out, err := net.Forward(input)
		require.NoError(t, err)
		assert.Len(t, out, sizes[len(sizes)-1])
	}
}

func TestForward_Deterministic(t *testing.T) {
	net, err := New([]int{6, 4, 3}, rand.New(rand.NewSource(11)))
	require.NoError(t, err)

	input := []float64{0.1, 0.9, 0.3, 0.7, 0.5, 0.2}
	first, err := net.Forward(input)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := net.Forward(input)
		require.NoError(t, err)
		// Bit-identical, not merely close.
		assert.Equal(t, first, again)
	}
}

// TestClassify_TieBreak drives all output weights and biases to zero so
// every output node reads σ(0) = 0.5; the lowest index must win.
func TestClassify_TieBreak(t *testing.T) {
	net, err := New([]int{3, 4}, rand.New(rand.NewSource(2)))
	require.NoError(t, err)

	require.NoError(t, net.Layer(0).SetWeights([][]float64{
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}))
	require.NoError(t, net.Layer(0).SetBiases([]float64{0, 0, 0, 0}))

	class, err := net.Classify([]float64{0.2, 0.4, 0.6})
	require.NoError(t, err)
	assert.Equal(t, 0, class)

	// Two equal maxima above the rest: still the lower index.
	require.NoError(t, net.Layer(0).SetBiases([]float64{-1, 2, 2, 0}))
	class, err = net.Classify([]float64{0.2, 0.4, 0.6})
	require.NoError(t, err)
	assert.Equal(t, 1, class)
}

func TestCost(t *testing.T) {
	net := buildFixedNetwork(t)

	sample := NewSample([]float64{1, 0}, []float64{0})
	cost, err := net.Cost(sample)
	require.NoError(t, err)

	out := 1 / (1 + math.Exp(-1.0))
	assert.InDelta(t, out*out, cost, 1e-12, "Cost is the plain sum of squared errors")

	// BatchCost averages per-sample costs.
	perfect := NewSample([]float64{1, 0}, []float64{out})
	mean, err := net.BatchCost([]Sample{sample, perfect})
	require.NoError(t, err)
	assert.InDelta(t, out*out/2, mean, 1e-12)

	_, err = net.BatchCost(nil)
	assert.Error(t, err, "empty batch has no mean cost")
}

// flattenParams and setParams map a network's weights and biases to a
// flat vector for finite-difference checking.
func flattenParams(net *Network) []float64 {
	var params []float64
	for _, layer := range net.layers {
		for _, row := range layer.weights {
			params = append(params, row...)
		}
		params = append(params, layer.biases...)
	}
	return params
}

func setParams(net *Network, params []float64) {
	idx := 0
	for _, layer := range net.layers {
		for _, row := range layer.weights {
			copy(row, params[idx:idx+len(row)])
			idx += len(row)
		}
		copy(layer.biases, params[idx:idx+len(layer.biases)])
		idx += len(layer.biases)
	}
}

// TestGradients_FiniteDifference verifies the analytic backpropagation
// gradients against a central finite-difference approximation of
// ∂Cost/∂param for a small random network.
func TestGradients_FiniteDifference(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	net, err := New([]int{4, 3, 2}, rng)
	require.NoError(t, err)

	sample := NewSample([]float64{0.2, 0.8, 0.5, 0.1}, []float64{1, 0})

	// Analytic gradients, read straight out of the accumulators.
	require.NoError(t, net.accumulate(sample))
	var analytic []float64
	for _, layer := range net.layers {
		for _, row := range layer.gradW {
			analytic = append(analytic, row...)
		}
		analytic = append(analytic, layer.gradB...)
	}
	net.clearGradients()

	// Numeric gradients of the same cost surface.
	base := flattenParams(net)
	costAt := func(params []float64) float64 {
		setParams(net, params)
		cost, err := net.Cost(sample)
		if err != nil {
			t.Fatalf("Cost: %v", err)
		}
		return cost
	}
	numeric := fd.Gradient(nil, costAt, base, &fd.Settings{
		Formula: fd.Central,
		Step:    1e-6,
	})
	setParams(net, base)

	require.Len(t, analytic, len(numeric))
	for i := range analytic {
		assert.InDelta(t, numeric[i], analytic[i], 1e-4,
			"gradient mismatch at flattened parameter %d", i)
	}
}

// TestLearn_BatchOfOneEquivalence: Learn([s], rate) must match a direct
// single-example gradient step at the same rate.
func TestLearn_BatchOfOneEquivalence(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	net, err := New([]int{3, 3, 2}, rng)
	require.NoError(t, err)

	sample := NewSample([]float64{0.3, 0.6, 0.9}, []float64{0, 1})
	manual := net.Snapshot()

	const rate = 0.5
	require.NoError(t, net.Learn([]Sample{sample}, rate))

	// Direct step on the snapshot: accumulate once, apply the full rate.
	require.NoError(t, manual.accumulate(sample))
	for _, layer := range manual.layers {
		layer.ApplyGradients(rate)
	}
	manual.clearGradients()

	for i := 0; i < net.Len(); i++ {
		assert.Equal(t, manual.Layer(i).Weights(), net.Layer(i).Weights(), "layer %d weights", i)
		assert.Equal(t, manual.Layer(i).Biases(), net.Layer(i).Biases(), "layer %d biases", i)
	}
}

func TestLearn_OneStepPerCall(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	net, err := New([]int{2, 2}, rng)
	require.NoError(t, err)

	a := NewSample([]float64{1, 0}, []float64{1, 0})
	b := NewSample([]float64{0, 1}, []float64{0, 1})

	// A two-sample batch must apply the mean gradient once, which is the
	// same update as summing both samples' gradients at rate/2.
	manual := net.Snapshot()
	require.NoError(t, net.Learn([]Sample{a, b}, 1.0))

	require.NoError(t, manual.accumulate(a))
	require.NoError(t, manual.accumulate(b))
	for _, layer := range manual.layers {
		layer.ApplyGradients(1.0 / 2)
	}
	manual.clearGradients()

	assert.Equal(t, manual.Layer(0).Weights(), net.Layer(0).Weights())
	assert.Equal(t, manual.Layer(0).Biases(), net.Layer(0).Biases())

	// Accumulators are cleared after the step.
	for i := range net.Layer(0).gradB {
		assert.Zero(t, net.Layer(0).gradB[i])
	}
}

func TestLearn_ShapeMismatchLeavesNoPartialState(t *testing.T) {
	rng := rand.New(rand.NewSource(10))
	net, err := New([]int{2, 2}, rng)
	require.NoError(t, err)

	before := net.Snapshot()
	good := NewSample([]float64{1, 0}, []float64{1, 0})
	bad := NewSample([]float64{1, 0, 0}, []float64{1, 0})

	err = net.Learn([]Sample{good, bad}, 0.5)
	require.Error(t, err)

	// No parameters moved and no gradients linger.
	assert.Equal(t, before.Layer(0).Weights(), net.Layer(0).Weights())
	for i := range net.Layer(0).gradB {
		assert.Zero(t, net.Layer(0).gradB[i])
	}
}

func TestSnapshot_Isolation(t *testing.T) {
	rng := rand.New(rand.NewSource(12))
	net, err := New([]int{2, 3, 2}, rng)
	require.NoError(t, err)

	snap := net.Snapshot()
	sample := NewSample([]float64{0.5, 0.5}, []float64{1, 0})
	require.NoError(t, net.Learn([]Sample{sample}, 1.0))

	// Training the live network must not disturb the snapshot.
	assert.NotEqual(t, snap.Layer(0).Weights(), net.Layer(0).Weights())

	out1, err := snap.Forward([]float64{0.5, 0.5})
	require.NoError(t, err)
	out2, err := snap.Forward([]float64{0.5, 0.5})
	require.NoError(t, err)
	assert.Equal(t, out1, out2)
}

func TestLabeledSample(t *testing.T) {
	s, err := LabeledSample([]float64{0.1}, 3, 5)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0, 1, 0}, s.Expected)
	assert.Equal(t, 3, s.Label)

	_, err = LabeledSample([]float64{0.1}, 5, 5)
	assert.Error(t, err)
	_, err = LabeledSample([]float64{0.1}, -1, 5)
	assert.Error(t, err)

	hand := NewSample([]float64{0.1}, []float64{0.25, 0.75})
	assert.Equal(t, -1, hand.Label)
}
