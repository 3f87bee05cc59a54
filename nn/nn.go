// Copyright 2026 Glyph Engine. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn is the public surface of the glyph numeric engine: dense
// sigmoid layers, hand-derived backpropagation, and mini-batch gradient
// descent over fixed-size pixel vectors.
package nn

import (
	"math/rand"

	"github.com/glyph-ml/glyph/internal/nn"
)

// Sample is one (input, expected output, label) training triple.
type Sample = nn.Sample

// NewSample creates a sample from raw input and expected-output vectors.
func NewSample(input, expected []float64) Sample {
	return nn.NewSample(input, expected)
}

// LabeledSample creates a sample with a one-hot expected output.
func LabeledSample(input []float64, label, classes int) (Sample, error) {
	return nn.LabeledSample(input, label, classes)
}

// Layer is a single fully connected sigmoid transformation.
type Layer = nn.Layer

// Trace records the intermediates of one forward pass through a layer.
type Trace = nn.Trace

// NewLayer creates a dense layer mapping inSize inputs to outSize outputs.
//
// Example:
//
//	rng := rand.New(rand.NewSource(1))
//	layer := nn.NewLayer(784, 128, rng)
func NewLayer(inSize, outSize int, rng *rand.Rand) *Layer {
	return nn.NewLayer(inSize, outSize, rng)
}

// Network is an ordered chain of dense layers.
type Network = nn.Network

// New builds a network from an ordered list of layer sizes.
//
// Example:
//
//	net, err := nn.New([]int{784, 128, 64, 10}, rng)
func New(sizes []int, rng *rand.Rand) (*Network, error) {
	return nn.New(sizes, rng)
}

// ShapeError reports a vector length that does not match a declared size.
type ShapeError = nn.ShapeError

// StateError reports a backward-pass call without a matching forward trace.
type StateError = nn.StateError
