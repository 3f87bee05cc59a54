package dataset

import "github.com/glyph-ml/glyph/internal/nn"

// Batches splits samples into contiguous batches of batchSize, in order.
// The final batch may be shorter when the set does not divide evenly.
// The returned batches alias the input slice; nothing is copied.
func Batches(samples []nn.Sample, batchSize int) [][]nn.Sample {
	if batchSize <= 0 || len(samples) == 0 {
		return nil
	}

	numBatches := (len(samples) + batchSize - 1) / batchSize
	batches := make([][]nn.Sample, 0, numBatches)
	for start := 0; start < len(samples); start += batchSize {
		end := start + batchSize
		if end > len(samples) {
			end = len(samples)
		}
		batches = append(batches, samples[start:end])
	}
	return batches
}

// Split divides samples into a leading training portion and a trailing
// evaluation portion according to trainRatio in [0, 1].
func Split(samples []nn.Sample, trainRatio float64) (train, test []nn.Sample) {
	idx := int(float64(len(samples)) * trainRatio)
	if idx < 0 {
		idx = 0
	}
	if idx > len(samples) {
		idx = len(samples)
	}
	return samples[:idx], samples[idx:]
}
