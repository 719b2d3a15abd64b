package ensemble

import (
	"github.com/YuminosukeSato/blend/pkg/log"
	"github.com/YuminosukeSato/blend/pkg/telemetry"
	"github.com/YuminosukeSato/blend/sklearn/model_selection"
)

// Config is the plain-data configuration of an Ensemble.
type Config struct {
	// Folds is K, the number of folds of the out-of-fold pass.
	Folds int `yaml:"folds" json:"folds"`
	// Shuffle draws holdout sets from a seeded permutation instead of
	// contiguous blocks.
	Shuffle bool `yaml:"shuffle" json:"shuffle"`
	// Seed seeds the permutation when Shuffle is set.
	Seed uint64 `yaml:"seed" json:"seed"`
	// Tabular hands the meta-model an *ensemble.Frame carrying column names
	// instead of a bare *mat.Dense.
	Tabular bool `yaml:"tabular" json:"tabular"`
	// Verbose is 0 for warnings only, 1 for per-phase progress, 2 or more for
	// per-unit detail.
	Verbose int `yaml:"verbose" json:"verbose"`
	// Workers bounds concurrently running units; 0 or less means all CPUs.
	Workers int `yaml:"workers" json:"workers"`
}

// DefaultConfig returns 10 shuffled folds with seed 0 on all CPUs.
func DefaultConfig() Config {
	return Config{
		Folds:   10,
		Shuffle: true,
	}
}

type settings struct {
	cfg      Config
	logger   log.Logger
	metrics  *telemetry.Collector
	splitter model_selection.Splitter
}

// Option configures an Ensemble.
type Option func(*settings)

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(s *settings) {
		s.cfg = cfg
	}
}

// WithFolds sets the number of folds.
func WithFolds(k int) Option {
	return func(s *settings) {
		s.cfg.Folds = k
	}
}

// WithShuffle enables or disables shuffled fold assignment.
func WithShuffle(shuffle bool) Option {
	return func(s *settings) {
		s.cfg.Shuffle = shuffle
	}
}

// WithSeed sets the shuffle seed.
func WithSeed(seed uint64) Option {
	return func(s *settings) {
		s.cfg.Seed = seed
	}
}

// WithTabularOutput passes the prediction matrix to the meta-model as a Frame.
func WithTabularOutput(tabular bool) Option {
	return func(s *settings) {
		s.cfg.Tabular = tabular
	}
}

// WithVerbose sets the log verbosity of the default logger.
func WithVerbose(v int) Option {
	return func(s *settings) {
		s.cfg.Verbose = v
	}
}

// WithWorkers bounds the worker pool.
func WithWorkers(n int) Option {
	return func(s *settings) {
		s.cfg.Workers = n
	}
}

// WithLogger overrides the logger; Verbose is then ignored.
func WithLogger(l log.Logger) Option {
	return func(s *settings) {
		s.logger = l
	}
}

// WithMetrics records fit and predict telemetry in c.
func WithMetrics(c *telemetry.Collector) Option {
	return func(s *settings) {
		s.metrics = c
	}
}

// WithSplitter replaces the KFold built from Folds, Shuffle and Seed.
func WithSplitter(sp model_selection.Splitter) Option {
	return func(s *settings) {
		s.splitter = sp
	}
}

func (s *settings) resolve() {
	if s.logger == nil {
		if s.cfg.Verbose > 0 {
			s.logger = log.NewZerologProvider(log.LevelFromVerbosity(s.cfg.Verbose)).GetLoggerWithName("Ensemble")
		} else {
			s.logger = log.GetLoggerWithName("Ensemble")
		}
	}
}

func (s *settings) newSplitter() model_selection.Splitter {
	if s.splitter != nil {
		return s.splitter
	}
	return model_selection.NewKFold(s.cfg.Folds, s.cfg.Shuffle, s.cfg.Seed)
}
