package config

import (
	"fmt"
	"math"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/iksim/internal/ik"
)

const (
	DefaultChain         = "reference"
	DefaultFrames        = 200000
	DefaultSettleFrames  = 1
	DefaultExtent        = 60.0
	DefaultViewWidth     = 60
	DefaultViewHeight    = 30
	DefaultFPS           = 60
	DefaultFramesPerTick = 200
	DefaultTheme         = "cyberpunk"
	DefaultLogLevel      = "info"
)

type Config struct {
	Chain     string        `yaml:"chain"`
	Lengths   []float64     `yaml:"lengths"`
	Joints    int           `yaml:"joints"`
	StepSize  float64       `yaml:"step_size"`
	Threshold float64       `yaml:"threshold"`
	Frames    int           `yaml:"frames"`
	Settle    int           `yaml:"settle_frames"`
	Target    *TargetConfig `yaml:"target,omitempty"`
	View      ViewConfig    `yaml:"view"`
	LogLevel  string        `yaml:"log_level"`
}

type TargetConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// ViewConfig controls the live terminal view. Extent is the half-width of
// the visible world square centred on the chain base.
type ViewConfig struct {
	Extent        float64 `yaml:"extent"`
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	FPS           int     `yaml:"fps"`
	FramesPerTick int     `yaml:"frames_per_tick"`
	Theme         string  `yaml:"theme"`
}

func DefaultConfig() *Config {
	return &Config{
		Chain:     DefaultChain,
		Lengths:   ik.ReferenceLengths(),
		Joints:    ik.ReferenceJoints,
		StepSize:  ik.DefaultStepSize,
		Threshold: ik.DefaultThreshold,
		Frames:    DefaultFrames,
		Settle:    DefaultSettleFrames,
		View: ViewConfig{
			Extent:        DefaultExtent,
			Width:         DefaultViewWidth,
			Height:        DefaultViewHeight,
			FPS:           DefaultFPS,
			FramesPerTick: DefaultFramesPerTick,
			Theme:         DefaultTheme,
		},
		LogLevel: DefaultLogLevel,
	}
}

func Load(path string) (*Config, error) {
	return LoadWith(path, DefaultConfig())
}

// LoadWith reads path on top of a copy of base, so keys missing from the
// file keep base's values.
func LoadWith(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports every problem in the configuration at once.
func (c *Config) Validate() error {
	var err error
	if len(c.Lengths) == 0 {
		err = multierr.Append(err, ik.ErrEmptyChain)
	}
	for i, l := range c.Lengths {
		if !(l > 0) || math.IsInf(l, 0) {
			err = multierr.Append(err, fmt.Errorf("lengths[%d]=%g: %w", i, l, ik.ErrInvalidLength))
		}
	}
	if c.Joints < 0 {
		err = multierr.Append(err, fmt.Errorf("joints=%d: must not be negative", c.Joints))
	} else if c.Joints > 0 && c.Joints != len(c.Lengths) {
		err = multierr.Append(err, fmt.Errorf("joints=%d with %d lengths: %w", c.Joints, len(c.Lengths), ik.ErrJointCount))
	}
	if !(c.StepSize > 0) || math.IsInf(c.StepSize, 0) {
		err = multierr.Append(err, fmt.Errorf("step_size=%g: %w", c.StepSize, ik.ErrInvalidStepSize))
	}
	if !(c.Threshold >= 0) || math.IsInf(c.Threshold, 0) {
		err = multierr.Append(err, fmt.Errorf("threshold=%g: %w", c.Threshold, ik.ErrInvalidThreshold))
	}
	if c.Frames <= 0 {
		err = multierr.Append(err, fmt.Errorf("frames must be positive, got %d", c.Frames))
	}
	if c.Settle < 0 {
		err = multierr.Append(err, fmt.Errorf("settle_frames must not be negative, got %d", c.Settle))
	}
	if c.View.Extent <= 0 {
		err = multierr.Append(err, fmt.Errorf("view.extent must be positive, got %g", c.View.Extent))
	}
	if c.View.Width <= 0 || c.View.Height <= 0 {
		err = multierr.Append(err, fmt.Errorf("view size must be positive, got %dx%d", c.View.Width, c.View.Height))
	}
	if c.View.FPS <= 0 {
		err = multierr.Append(err, fmt.Errorf("view.fps must be positive, got %d", c.View.FPS))
	}
	if c.View.FramesPerTick <= 0 {
		err = multierr.Append(err, fmt.Errorf("view.frames_per_tick must be positive, got %d", c.View.FramesPerTick))
	}
	return err
}

// SolverConfig converts the chain section into solver construction parameters.
func (c *Config) SolverConfig() ik.SolverConfig {
	lengths := make([]float64, len(c.Lengths))
	copy(lengths, c.Lengths)
	return ik.SolverConfig{
		Lengths:   lengths,
		StepSize:  c.StepSize,
		Threshold: c.Threshold,
		Joints:    c.Joints,
	}
}

func (c *Config) Clone() *Config {
	out := *c
	out.Lengths = append([]float64(nil), c.Lengths...)
	if c.Target != nil {
		t := *c.Target
		out.Target = &t
	}
	return &out
}
