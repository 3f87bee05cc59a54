package nn

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// Layer is one fully connected transformation with its own weights,
// biases, and gradient accumulators.
//
// Performs the transformation: out[j] = sigmoid(bias[j] + Σ_i in[i]*W[i][j])
// where:
//   - W is the weight matrix with shape [inSize][outSize]
//   - bias is the bias vector with shape [outSize]
//
// Weights are initialized from Uniform(-1, 1) scaled by 1/sqrt(inSize);
// biases start at zero. The accumulators gradW/gradB sum per-sample
// gradients across a batch and are zeroed after every optimizer step.
//
// Example:
//
//	rng := rand.New(rand.NewSource(1))
//	layer := nn.NewLayer(784, 128, rng)
//
//	trace, err := layer.Forward(input)  // trace.Output has length 128
type Layer struct {
	inSize  int
	outSize int

	weights [][]float64 // [inSize][outSize]
	biases  []float64   // [outSize]

	gradW [][]float64 // accumulated ∂cost/∂weight
	gradB []float64   // accumulated ∂cost/∂bias
}

// Trace records the intermediates of a single forward pass through one
// layer. The backward-pass methods consume it, which keeps Forward
// reentrant: nothing is cached on the Layer itself.
type Trace struct {
	Input       []float64 // the vector the layer was fed, length inSize
	WeightedSum []float64 // bias + dot(input, weights), before activation
	Output      []float64 // sigmoid(WeightedSum)
}

// NewLayer creates a dense layer mapping inSize inputs to outSize outputs.
//
// Each weight is drawn independently from Uniform(-1, 1) and divided by
// sqrt(inSize), a crude Xavier-style scaling that keeps early activations
// away from the flat tails of the sigmoid. The random source is injected
// so runs are reproducible.
func NewLayer(inSize, outSize int, rng *rand.Rand) *Layer {
	l := &Layer{
		inSize:  inSize,
		outSize: outSize,
		weights: make([][]float64, inSize),
		biases:  make([]float64, outSize),
		gradW:   make([][]float64, inSize),
		gradB:   make([]float64, outSize),
	}

	scale := 1 / math.Sqrt(float64(inSize))
	for i := range l.weights {
		row := make([]float64, outSize)
		for j := range row {
			row[j] = (rng.Float64()*2 - 1) * scale
		}
		l.weights[i] = row
		l.gradW[i] = make([]float64, outSize)
	}

	return l
}

// sigmoid is the layer activation: 1 / (1 + e^-x).
func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// sigmoidDerivative is dσ/dx evaluated at the weighted sum, σ(x)(1-σ(x)).
func sigmoidDerivative(x float64) float64 {
	s := sigmoid(x)
	return s * (1 - s)
}

// Forward runs the layer on input and returns the Trace of the pass.
//
// The activations are trace.Output. Deterministic given the layer's
// weights, biases, and the input. Returns a ShapeError if len(input)
// differs from the layer's input size.
func (l *Layer) Forward(input []float64) (*Trace, error) {
	if len(input) != l.inSize {
		return nil, &ShapeError{Op: "Layer.Forward", Got: len(input), Want: l.inSize}
	}

	trace := &Trace{
		Input:       input,
		WeightedSum: make([]float64, l.outSize),
		Output:      make([]float64, l.outSize),
	}

	for j := 0; j < l.outSize; j++ {
		sum := l.biases[j]
		for i, x := range input {
			sum += x * l.weights[i][j]
		}
		trace.WeightedSum[j] = sum
		trace.Output[j] = sigmoid(sum)
	}

	return trace, nil
}

// OutputNodeValues seeds the backward sweep at the output layer.
//
// For each node: nodeValue = σ'(weightedSum) * 2*(activation - expected),
// the derivative of the squared-error cost through the sigmoid.
func (l *Layer) OutputNodeValues(trace *Trace, expected []float64) ([]float64, error) {
	if err := l.checkTrace(trace, "Layer.OutputNodeValues"); err != nil {
		return nil, err
	}
	if len(expected) != l.outSize {
		return nil, &ShapeError{Op: "Layer.OutputNodeValues", Got: len(expected), Want: l.outSize}
	}

	nodeValues := make([]float64, l.outSize)
	for j := range nodeValues {
		costDerivative := 2 * (trace.Output[j] - expected[j])
		activationDerivative := sigmoidDerivative(trace.WeightedSum[j])
		nodeValues[j] = activationDerivative * costDerivative
	}
	return nodeValues, nil
}

// HiddenNodeValues propagates the error signal from next back into this
// layer. Error flows backward along the forward connections: node j of
// this layer collects next.weights[j][k] * nextNodeValues[k] over k, then
// scales by σ' of this layer's own weighted sum from trace.
func (l *Layer) HiddenNodeValues(trace *Trace, next *Layer, nextNodeValues []float64) ([]float64, error) {
	if err := l.checkTrace(trace, "Layer.HiddenNodeValues"); err != nil {
		return nil, err
	}
	if next == nil {
		return nil, &StateError{Op: "Layer.HiddenNodeValues", Reason: "next layer is nil"}
	}
	if next.inSize != l.outSize {
		return nil, &ShapeError{Op: "Layer.HiddenNodeValues", Got: next.inSize, Want: l.outSize}
	}
	if len(nextNodeValues) != next.outSize {
		return nil, &ShapeError{Op: "Layer.HiddenNodeValues", Got: len(nextNodeValues), Want: next.outSize}
	}

	nodeValues := make([]float64, l.outSize)
	for j := range nodeValues {
		raw := floats.Dot(next.weights[j], nextNodeValues)
		nodeValues[j] = raw * sigmoidDerivative(trace.WeightedSum[j])
	}
	return nodeValues, nil
}

// AccumulateGradients adds this pass's contribution to the gradient
// accumulators: gradW[i][j] += input[i]*nodeValues[j], gradB[j] +=
// nodeValues[j]. Accumulation, not assignment — callers average over a
// batch by pre-dividing the learning rate in ApplyGradients.
func (l *Layer) AccumulateGradients(trace *Trace, nodeValues []float64) error {
	if err := l.checkTrace(trace, "Layer.AccumulateGradients"); err != nil {
		return err
	}
	if len(nodeValues) != l.outSize {
		return &ShapeError{Op: "Layer.AccumulateGradients", Got: len(nodeValues), Want: l.outSize}
	}

	for i, x := range trace.Input {
		floats.AddScaled(l.gradW[i], x, nodeValues)
	}
	floats.Add(l.gradB, nodeValues)
	return nil
}

// ApplyGradients takes one gradient-descent step: every weight and bias
// moves against its accumulated gradient scaled by rate. The caller is
// responsible for pre-dividing rate by the batch size to obtain a true
// batch-mean update.
func (l *Layer) ApplyGradients(rate float64) {
	for i := range l.weights {
		floats.AddScaled(l.weights[i], -rate, l.gradW[i])
	}
	floats.AddScaled(l.biases, -rate, l.gradB)
}

// ClearGradients zeroes both accumulators.
func (l *Layer) ClearGradients() {
	for i := range l.gradW {
		for j := range l.gradW[i] {
			l.gradW[i][j] = 0
		}
	}
	for j := range l.gradB {
		l.gradB[j] = 0
	}
}

// checkTrace validates that trace came from a forward pass on a layer of
// this shape. A nil or mismatched trace is a StateError: the backward
// math would silently read stale or foreign intermediates.
func (l *Layer) checkTrace(trace *Trace, op string) error {
	if trace == nil {
		return &StateError{Op: op, Reason: "no forward trace: call Forward first"}
	}
	if len(trace.Input) != l.inSize || len(trace.WeightedSum) != l.outSize || len(trace.Output) != l.outSize {
		return &StateError{Op: op, Reason: "forward trace does not match this layer's shape"}
	}
	return nil
}

// InSize returns the number of inputs the layer accepts.
func (l *Layer) InSize() int {
	return l.inSize
}

// OutSize returns the number of nodes in the layer.
func (l *Layer) OutSize() int {
	return l.outSize
}

// SetWeights replaces the weight matrix. Intended for tests and for
// snapshotting; shape must be [inSize][outSize].
func (l *Layer) SetWeights(weights [][]float64) error {
	if len(weights) != l.inSize {
		return &ShapeError{Op: "Layer.SetWeights", Got: len(weights), Want: l.inSize}
	}
	for i, row := range weights {
		if len(row) != l.outSize {
			return &ShapeError{Op: "Layer.SetWeights", Got: len(row), Want: l.outSize}
		}
		copy(l.weights[i], row)
	}
	return nil
}

// SetBiases replaces the bias vector; length must be outSize.
func (l *Layer) SetBiases(biases []float64) error {
	if len(biases) != l.outSize {
		return &ShapeError{Op: "Layer.SetBiases", Got: len(biases), Want: l.outSize}
	}
	copy(l.biases, biases)
	return nil
}

// Weights returns a copy of the weight matrix.
func (l *Layer) Weights() [][]float64 {
	out := make([][]float64, l.inSize)
	for i, row := range l.weights {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

// Biases returns a copy of the bias vector.
func (l *Layer) Biases() []float64 {
	return append([]float64(nil), l.biases...)
}

// clone deep-copies the layer's parameters. Gradient accumulators start
// zeroed in the copy.
func (l *Layer) clone() *Layer {
	c := &Layer{
		inSize:  l.inSize,
		outSize: l.outSize,
		weights: make([][]float64, l.inSize),
		biases:  append([]float64(nil), l.biases...),
		gradW:   make([][]float64, l.inSize),
		gradB:   make([]float64, l.outSize),
	}
	for i, row := range l.weights {
		c.weights[i] = append([]float64(nil), row...)
		c.gradW[i] = make([]float64, l.outSize)
	}
	return c
}
