package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/glyph-ml/glyph/internal/nn"
)

// ImageSize is the width and height of the square input images.
const ImageSize = 28

// Pixels is the flattened length of one image vector.
const Pixels = ImageSize * ImageSize

// Load reads samples from an EMNIST-style CSV file.
//
// Row format (no header):
//
//	label,pixel0,pixel1,...,pixel783
//
// Pixel values are 0–255 and are normalized to [0, 1]. EMNIST stores
// images column-major (transposed relative to screen orientation), so
// the loader transposes each image to row-major while flattening.
//
// maxSamples limits how many rows are read (0 = all). Every sample gets
// a one-hot expected output over classes, with the label recorded.
func Load(path string, maxSamples, classes int) ([]nn.Sample, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = 1 + Pixels

	var samples []nn.Sample
	row := 0
	for {
		if maxSamples > 0 && len(samples) >= maxSamples {
			break
		}
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("dataset: read %s row %d: %w", path, row+1, err)
		}
		row++

		label, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("dataset: %s row %d: bad label: %w", path, row, err)
		}
		if label < 0 || label >= classes {
			return nil, fmt.Errorf("dataset: %s row %d: label %d out of range [0, %d)", path, row, label, classes)
		}

		input := make([]float64, Pixels)
		for r := 0; r < ImageSize; r++ {
			for c := 0; c < ImageSize; c++ {
				// Transpose: pixel (r, c) lives at column-major index c*28+r.
				raw := record[1+c*ImageSize+r]
				value, err := strconv.Atoi(raw)
				if err != nil {
					return nil, fmt.Errorf("dataset: %s row %d: bad pixel: %w", path, row, err)
				}
				input[r*ImageSize+c] = float64(value) / 255.0
			}
		}

		sample, err := nn.LabeledSample(input, label, classes)
		if err != nil {
			return nil, fmt.Errorf("dataset: %s row %d: %w", path, row, err)
		}
		samples = append(samples, sample)
	}

	if len(samples) == 0 {
		return nil, fmt.Errorf("dataset: %s contains no samples", path)
	}
	return samples, nil
}

// LoadTrainTest loads the training and held-out evaluation sets from
// separate files with independent sample limits.
func LoadTrainTest(trainPath, testPath string, maxTrain, maxTest, classes int) (train, test []nn.Sample, err error) {
	train, err = Load(trainPath, maxTrain, classes)
	if err != nil {
		return nil, nil, err
	}
	test, err = Load(testPath, maxTest, classes)
	if err != nil {
		return nil, nil, err
	}
	return train, test, nil
}
