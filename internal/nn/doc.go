// Package nn implements the numeric core of the glyph engine: dense
// sigmoid layers, hand-derived reverse-mode backpropagation, and
// mini-batch gradient descent.
//
// The building blocks:
//   - Sample: one (input, expected output, label) training triple
//   - Layer: a fully connected transformation with gradient accumulators
//   - Network: an ordered chain of Layers with Learn/Classify/Cost
//
// Gradients are analytic, not autodiff: each Layer knows the derivative
// of its own sigmoid-plus-squared-error pairing and the error signal is
// propagated backward layer by layer. A forward pass returns a Trace
// value holding the intermediates the backward pass needs, so the same
// Layer can serve concurrent inference without shared mutable caches.
package nn
