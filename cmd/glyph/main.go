// Package main provides the glyph CLI.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/glyph-ml/glyph/internal/dataset"
	"github.com/glyph-ml/glyph/internal/inference"
	"github.com/glyph-ml/glyph/internal/metrics"
	"github.com/glyph-ml/glyph/internal/nn"
	"github.com/glyph-ml/glyph/internal/trainer"
)

const version = "v0.1.0-dev"

const classes = 10

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "version":
		fmt.Printf("glyph %s\n", version)
	case "train":
		if err := runTrain(os.Args[2:]); err != nil {
			log.Fatalf("training failed: %v", err)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf("glyph %s - handwritten digit classifier\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  train      Train a network on CSV image data")
	fmt.Println("  version    Show version")
}

func runTrain(args []string) error {
	fs := flag.NewFlagSet("train", flag.ExitOnError)
	cfgPath := fs.String("config", "configs/train.yaml", "Path to YAML config")
	trainFile := fs.String("train-file", "", "Training CSV file")
	testFile := fs.String("test-file", "", "Evaluation CSV file")
	maxTrain := fs.Int("max-train", 0, "Cap on training samples (0 = all)")
	maxTest := fs.Int("max-test", 0, "Cap on evaluation samples (0 = all)")
	seed := fs.Int64("seed", 1, "PRNG seed for weight initialization")
	hidden := fs.String("hidden", "128,64", "Comma-separated hidden layer sizes")
	learningRate := fs.Float64("learning-rate", 0, "Override initial learning rate")
	batchSize := fs.Int("batch-size", 0, "Override batch size")
	maxEpochs := fs.Int("max-epochs", 0, "Override max epochs")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *trainFile == "" || *testFile == "" {
		return errors.New("both -train-file and -test-file are required")
	}

	cfg, err := trainer.LoadConfig(*cfgPath)
	if err != nil {
		return err
	}
	cfg.ApplyOverrides(trainer.Overrides{
		InitialLearningRate: *learningRate,
		BatchSize:           *batchSize,
		MaxEpochs:           *maxEpochs,
	})
	if err := cfg.Validate(); err != nil {
		return err
	}

	sizes, err := layerSizes(*hidden)
	if err != nil {
		return err
	}

	trainSet, testSet, err := dataset.LoadTrainTest(*trainFile, *testFile, *maxTrain, *maxTest, classes)
	if err != nil {
		return err
	}
	log.Printf("loaded train=%d test=%d", len(trainSet), len(testSet))

	net, err := nn.New(sizes, rand.New(rand.NewSource(*seed)))
	if err != nil {
		return err
	}
	predictor := inference.NewPredictor(net)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hooks := trainer.Hooks{
		EpochEnd: func(epoch, totalEpochs int, accuracy float64) {
			log.Printf("epoch=%d/%d accuracy=%.4f", epoch, totalEpochs, accuracy)
		},
		Publish: predictor.Update,
	}

	accuracy, err := trainer.Train(ctx, net, trainSet, testSet, *cfg, hooks)
	if err != nil {
		return err
	}
	log.Printf("finished accuracy=%.4f", accuracy)

	summary, err := metrics.Evaluate(net, testSet)
	if err != nil {
		return err
	}
	log.Printf("eval samples=%d correct=%d accuracy=%.4f mean_cost=%.4f std_cost=%.4f",
		summary.Samples, summary.Correct, summary.Accuracy, summary.MeanCost, summary.StdCost)
	return nil
}

// layerSizes expands a comma-separated hidden-layer list into the full
// [input, hidden..., output] size list.
func layerSizes(hidden string) ([]int, error) {
	sizes := []int{dataset.Pixels}
	if hidden != "" {
		for _, part := range strings.Split(hidden, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("invalid hidden layer size %q", part)
			}
			sizes = append(sizes, n)
		}
	}
	return append(sizes, classes), nil
}
