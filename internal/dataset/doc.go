// Package dataset loads delimited EMNIST-style image data into training
// samples and provides the batching helpers the trainer consumes.
//
// The numeric core only enforces vector shapes; sourcing, parsing, and
// pixel normalization all live here. Load failures are recoverable
// errors surfaced before any training starts — a partially parsed file
// never produces a partial sample set.
package dataset
