package nn

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// Network is an ordered chain of dense sigmoid layers.
//
// It composes forward passes, orchestrates a full backpropagation sweep
// across all layers, and applies batched gradient-descent updates. The
// architecture is fixed at construction: layers are never inserted or
// removed afterwards, and layers[i].OutSize() == layers[i+1].InSize()
// always holds.
//
// Example:
//
//	rng := rand.New(rand.NewSource(42))
//	net, err := nn.New([]int{784, 128, 64, 10}, rng)
//	...
//	class, err := net.Classify(pixels)
type Network struct {
	sizes  []int
	layers []*Layer
}

// New builds a network from an ordered list of layer sizes [n0, ..., nk],
// creating k dense layers chained n0→n1→...→nk. At least two sizes are
// required and every size must be positive. Weights are initialized from
// the injected random source.
func New(sizes []int, rng *rand.Rand) (*Network, error) {
	if len(sizes) < 2 {
		return nil, fmt.Errorf("nn: need at least two layer sizes, got %d", len(sizes))
	}
	for i, s := range sizes {
		if s <= 0 {
			return nil, fmt.Errorf("nn: layer size %d at index %d must be > 0", s, i)
		}
	}

	layers := make([]*Layer, len(sizes)-1)
	for i := range layers {
		layers[i] = NewLayer(sizes[i], sizes[i+1], rng)
	}

	return &Network{
		sizes:  append([]int(nil), sizes...),
		layers: layers,
	}, nil
}

// forward runs the input through every layer and returns one Trace per
// layer. traces[len-1].Output is the network output.
func (n *Network) forward(input []float64) ([]*Trace, error) {
	traces := make([]*Trace, len(n.layers))
	current := input
	for i, layer := range n.layers {
		trace, err := layer.Forward(current)
		if err != nil {
			return nil, err
		}
		traces[i] = trace
		current = trace.Output
	}
	return traces, nil
}

// Forward runs the input through the full chain and returns the output
// layer's activations. The outputs are raw independent sigmoids, not a
// normalized distribution.
func (n *Network) Forward(input []float64) ([]float64, error) {
	traces, err := n.forward(input)
	if err != nil {
		return nil, err
	}
	return traces[len(traces)-1].Output, nil
}

// Classify returns the index of the most activated output node.
// Ties resolve to the lowest index: the scan uses a strict > comparison.
func (n *Network) Classify(input []float64) (int, error) {
	outputs, err := n.Forward(input)
	if err != nil {
		return 0, err
	}

	maxIndex := 0
	maxValue := outputs[0]
	for i := 1; i < len(outputs); i++ {
		if outputs[i] > maxValue {
			maxValue = outputs[i]
			maxIndex = i
		}
	}
	return maxIndex, nil
}

// Cost returns the total squared error of the network on one sample:
// the sum over output nodes of (output - expected)², not averaged over
// the output width.
func (n *Network) Cost(sample Sample) (float64, error) {
	outputs, err := n.Forward(sample.Input)
	if err != nil {
		return 0, err
	}
	if len(sample.Expected) != n.OutputSize() {
		return 0, &ShapeError{Op: "Network.Cost", Got: len(sample.Expected), Want: n.OutputSize()}
	}

	diff := make([]float64, len(outputs))
	floats.SubTo(diff, outputs, sample.Expected)
	return floats.Dot(diff, diff), nil
}

// BatchCost returns the mean per-sample Cost over the batch.
func (n *Network) BatchCost(batch []Sample) (float64, error) {
	if len(batch) == 0 {
		return 0, &ShapeError{Op: "Network.BatchCost", Got: 0, Want: 1}
	}

	total := 0.0
	for _, sample := range batch {
		cost, err := n.Cost(sample)
		if err != nil {
			return 0, err
		}
		total += cost
	}
	return total / float64(len(batch)), nil
}

// Learn performs one mini-batch gradient-descent step.
//
// For every sample the gradients of all layers are accumulated via a
// full backpropagation sweep; then every layer applies a single update
// scaled by learnRate/len(batch) — the exact batch-mean gradient, with
// no intra-batch parameter mutation — and the accumulators are cleared.
//
// On any error the accumulators are cleared and the step is abandoned:
// no partial update is ever applied.
func (n *Network) Learn(batch []Sample, learnRate float64) error {
	if len(batch) == 0 {
		return &ShapeError{Op: "Network.Learn", Got: 0, Want: 1}
	}

	for _, sample := range batch {
		if err := n.accumulate(sample); err != nil {
			n.clearGradients()
			return err
		}
	}

	step := learnRate / float64(len(batch))
	for _, layer := range n.layers {
		layer.ApplyGradients(step)
	}
	n.clearGradients()
	return nil
}

// accumulate runs one forward pass and one backward sweep for a single
// sample, adding its gradients into every layer's accumulators.
func (n *Network) accumulate(sample Sample) error {
	traces, err := n.forward(sample.Input)
	if err != nil {
		return err
	}

	// Seed the error signal at the output layer.
	last := len(n.layers) - 1
	nodeValues, err := n.layers[last].OutputNodeValues(traces[last], sample.Expected)
	if err != nil {
		return err
	}
	if err := n.layers[last].AccumulateGradients(traces[last], nodeValues); err != nil {
		return err
	}

	// Walk backward from the second-to-last layer, each time deriving
	// this layer's node values from the next layer's.
	for i := last - 1; i >= 0; i-- {
		nodeValues, err = n.layers[i].HiddenNodeValues(traces[i], n.layers[i+1], nodeValues)
		if err != nil {
			return err
		}
		if err := n.layers[i].AccumulateGradients(traces[i], nodeValues); err != nil {
			return err
		}
	}
	return nil
}

func (n *Network) clearGradients() {
	for _, layer := range n.layers {
		layer.ClearGradients()
	}
}

// Snapshot returns a deep copy of the network's parameters.
//
// Training mutates weights in place with no coordination, so concurrent
// readers (a live preview, for example) must work against a snapshot or
// a published pointer to one — never the live network.
func (n *Network) Snapshot() *Network {
	layers := make([]*Layer, len(n.layers))
	for i, layer := range n.layers {
		layers[i] = layer.clone()
	}
	return &Network{
		sizes:  append([]int(nil), n.sizes...),
		layers: layers,
	}
}

// InputSize returns the length of input vectors the network accepts.
func (n *Network) InputSize() int {
	return n.sizes[0]
}

// OutputSize returns the length of the network's output vector.
func (n *Network) OutputSize() int {
	return n.sizes[len(n.sizes)-1]
}

// Sizes returns a copy of the layer-size list the network was built from.
func (n *Network) Sizes() []int {
	return append([]int(nil), n.sizes...)
}

// Len returns the number of dense layers in the chain.
func (n *Network) Len() int {
	return len(n.layers)
}

// Layer returns the layer at the given index.
func (n *Network) Layer(index int) *Layer {
	if index < 0 || index >= len(n.layers) {
		panic("Network.Layer: index out of bounds")
	}
	return n.layers[index]
}
