// Copyright 2026 Glyph Engine. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package dataset is the public surface of the glyph data loader.
package dataset

import (
	"github.com/glyph-ml/glyph/internal/dataset"
	"github.com/glyph-ml/glyph/internal/nn"
)

// ImageSize is the width and height of the square input images.
const ImageSize = dataset.ImageSize

// Pixels is the flattened length of one image vector.
const Pixels = dataset.Pixels

// Load reads samples from an EMNIST-style CSV file.
func Load(path string, maxSamples, classes int) ([]nn.Sample, error) {
	return dataset.Load(path, maxSamples, classes)
}

// LoadTrainTest loads the training and evaluation sets from separate files.
func LoadTrainTest(trainPath, testPath string, maxTrain, maxTest, classes int) (train, test []nn.Sample, err error) {
	return dataset.LoadTrainTest(trainPath, testPath, maxTrain, maxTest, classes)
}

// Batches splits samples into contiguous batches of batchSize.
func Batches(samples []nn.Sample, batchSize int) [][]nn.Sample {
	return dataset.Batches(samples, batchSize)
}

// Split divides samples into training and evaluation portions.
func Split(samples []nn.Sample, trainRatio float64) (train, test []nn.Sample) {
	return dataset.Split(samples, trainRatio)
}
