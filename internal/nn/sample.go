package nn

import "fmt"

// Sample is one training example: an input vector with components in
// [0, 1], the expected output vector, and an optional class label.
//
// Label is the index of the correct class and is used only for
// evaluation, never for training; it is -1 when the sample was not
// built from a label. Expected is one-hot iff the sample came from
// LabeledSample — hand-built samples may use any target vector.
type Sample struct {
	Input    []float64
	Expected []float64
	Label    int
}

// NewSample creates a sample from raw input and expected-output vectors.
// The label is recorded as absent (-1).
func NewSample(input, expected []float64) Sample {
	return Sample{Input: input, Expected: expected, Label: -1}
}

// LabeledSample creates a sample whose expected output is the one-hot
// encoding of label over the given class count.
func LabeledSample(input []float64, label, classes int) (Sample, error) {
	if classes <= 0 {
		return Sample{}, fmt.Errorf("nn: class count must be > 0 (got %d)", classes)
	}
	if label < 0 || label >= classes {
		return Sample{}, fmt.Errorf("nn: label %d out of range [0, %d)", label, classes)
	}
	expected := make([]float64, classes)
	expected[label] = 1
	return Sample{Input: input, Expected: expected, Label: label}, nil
}
