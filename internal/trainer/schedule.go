package trainer

// stallDecayEvery is how many consecutive non-improving epochs trigger
// a learning-rate decay.
const stallDecayEvery = 5

// schedule is the per-epoch control policy: learning-rate decay and
// early stopping, driven only by the accuracy sequence. Keeping it free
// of any network reference makes the policy testable against crafted
// accuracy sequences.
type schedule struct {
	cfg  Config
	rate float64

	best       float64   // best accuracy seen so far
	stall      int       // consecutive epochs without a new best
	thresholds []float64 // unconsumed decay thresholds, ascending
}

func newSchedule(cfg Config) *schedule {
	return &schedule{
		cfg:        cfg,
		rate:       cfg.InitialLearningRate,
		thresholds: append([]float64(nil), cfg.AccuracyThresholds...),
	}
}

// observe folds one epoch's evaluation accuracy into the policy.
//
// Stop conditions, in priority order: target accuracy reached (result
// is the current accuracy), patience exhausted (result is the best
// accuracy). When training continues, the two decay triggers are
// applied independently — threshold consumption and the five-epoch
// stall — and the rate clamps at the configured minimum.
func (s *schedule) observe(accuracy float64) (done bool, result float64) {
	if accuracy >= s.cfg.TargetAccuracy {
		return true, accuracy
	}

	if accuracy > s.best {
		s.best = accuracy
		s.stall = 0
	} else {
		s.stall++
	}

	if s.stall >= s.cfg.Patience {
		return true, s.best
	}

	// Trigger a: the first time accuracy meets the next unconsumed
	// threshold. Each threshold fires at most once, one per epoch.
	if len(s.thresholds) > 0 && accuracy >= s.thresholds[0] {
		s.rate *= s.cfg.DecayFactor
		s.thresholds = s.thresholds[1:]
	}

	// Trigger b: every five consecutive epochs without a new best.
	if s.stall > 0 && s.stall%stallDecayEvery == 0 {
		s.rate *= s.cfg.DecayFactor
	}

	if s.rate < s.cfg.MinLearningRate {
		s.rate = s.cfg.MinLearningRate
	}

	return false, 0
}
