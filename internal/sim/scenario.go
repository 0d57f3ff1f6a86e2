package sim

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is a scripted sequence of targets, the offline equivalent of a
// user clicking new targets while the chain is still moving.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Reset       bool           `yaml:"reset_between_steps"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep sets (or, with Clear, unsets) the target and runs up to
// Frames frames.
type ScenarioStep struct {
	Label  string  `yaml:"label"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Clear  bool    `yaml:"clear"`
	Frames int     `yaml:"frames"`
}

type StepOutcome struct {
	Label  string
	Step   int
	Result *Result
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", sc.Name)
	}
	for i, st := range sc.Steps {
		if st.Frames <= 0 {
			return nil, fmt.Errorf("scenario %q step %d: frames must be positive, got %d", sc.Name, i+1, st.Frames)
		}
	}
	return &sc, nil
}

// RunScenario plays every step on the runner's solver in order. The chain
// carries its pose from one step to the next unless Reset is set.
func RunScenario(ctx context.Context, r *Runner, sc *Scenario, settle int) ([]StepOutcome, error) {
	outcomes := make([]StepOutcome, 0, len(sc.Steps))
	s := r.Solver()

	for i, st := range sc.Steps {
		if sc.Reset && i > 0 {
			s.Reset()
		}
		if st.Clear {
			s.ClearTarget()
		} else {
			s.SetTarget(st.X, st.Y)
		}

		label := st.Label
		if label == "" {
			label = fmt.Sprintf("step-%d", i+1)
		}

		res, err := r.Run(ctx, Config{
			Frames:         st.Frames,
			StopOnConverge: !st.Clear,
			SettleFrames:   max(settle, 1),
			SampleEvery:    1,
		})
		if err != nil {
			return outcomes, fmt.Errorf("step %d (%s): %w", i+1, label, err)
		}
		outcomes = append(outcomes, StepOutcome{Label: label, Step: i + 1, Result: res})
	}

	return outcomes, nil
}
