package trainer

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Config holds every knob of the training loop. There are no implicit
// defaults: Validate rejects a config that leaves required fields unset.
type Config struct {
	// InitialLearningRate is the gradient-descent step scale at epoch 1.
	InitialLearningRate float64 `yaml:"initial_learning_rate"`
	// MinLearningRate is the floor the decayed rate clamps to.
	MinLearningRate float64 `yaml:"min_learning_rate"`
	// DecayFactor multiplies the learning rate when a decay trigger fires.
	DecayFactor float64 `yaml:"decay_factor"`
	// BatchSize is the contiguous mini-batch length.
	BatchSize int `yaml:"batch_size"`
	// MaxEpochs bounds the run when no stop condition fires earlier.
	MaxEpochs int `yaml:"max_epochs"`
	// TargetAccuracy stops training immediately once reached.
	TargetAccuracy float64 `yaml:"target_accuracy"`
	// Patience is the number of consecutive non-improving epochs
	// tolerated before early stopping.
	Patience int `yaml:"patience"`
	// AccuracyThresholds is an ascending list of accuracies; crossing
	// one decays the learning rate and consumes the entry.
	AccuracyThresholds []float64 `yaml:"accuracy_thresholds"`
}

// Overrides captures CLI-supplied values layered on top of a file config.
type Overrides struct {
	InitialLearningRate float64
	MinLearningRate     float64
	DecayFactor         float64
	BatchSize           int
	MaxEpochs           int
	TargetAccuracy      float64
	Patience            int
}

// LoadConfig reads and validates a Config from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("trainer: open config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("trainer: parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyOverrides updates cfg using any non-zero override.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.InitialLearningRate > 0 {
		c.InitialLearningRate = o.InitialLearningRate
	}
	if o.MinLearningRate > 0 {
		c.MinLearningRate = o.MinLearningRate
	}
	if o.DecayFactor > 0 {
		c.DecayFactor = o.DecayFactor
	}
	if o.BatchSize > 0 {
		c.BatchSize = o.BatchSize
	}
	if o.MaxEpochs > 0 {
		c.MaxEpochs = o.MaxEpochs
	}
	if o.TargetAccuracy > 0 {
		c.TargetAccuracy = o.TargetAccuracy
	}
	if o.Patience > 0 {
		c.Patience = o.Patience
	}
}

// Validate verifies the config is runnable.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("trainer: config is nil")
	}
	if c.InitialLearningRate <= 0 {
		return fmt.Errorf("trainer: initial_learning_rate must be > 0 (got %g)", c.InitialLearningRate)
	}
	if c.MinLearningRate <= 0 || c.MinLearningRate > c.InitialLearningRate {
		return fmt.Errorf("trainer: min_learning_rate must be in (0, initial] (got %g)", c.MinLearningRate)
	}
	if c.DecayFactor <= 0 || c.DecayFactor >= 1 {
		return fmt.Errorf("trainer: decay_factor must be in (0, 1) (got %g)", c.DecayFactor)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("trainer: batch_size must be > 0 (got %d)", c.BatchSize)
	}
	if c.MaxEpochs <= 0 {
		return fmt.Errorf("trainer: max_epochs must be > 0 (got %d)", c.MaxEpochs)
	}
	if c.TargetAccuracy <= 0 || c.TargetAccuracy > 1 {
		return fmt.Errorf("trainer: target_accuracy must be in (0, 1] (got %g)", c.TargetAccuracy)
	}
	if c.Patience <= 0 {
		return fmt.Errorf("trainer: patience must be > 0 (got %d)", c.Patience)
	}
	if !sort.Float64sAreSorted(c.AccuracyThresholds) {
		return errors.New("trainer: accuracy_thresholds must be ascending")
	}
	for _, threshold := range c.AccuracyThresholds {
		if threshold <= 0 || threshold >= 1 {
			return fmt.Errorf("trainer: accuracy threshold %g outside (0, 1)", threshold)
		}
	}
	return nil
}
