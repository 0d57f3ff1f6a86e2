package sim

import (
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/iksim/internal/ik"
)

type Metric interface {
	Name() string
	Observe(f ik.Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(f ik.Frame)
}

// Config bounds a run. With StopOnConverge the run ends after SettleFrames
// consecutive converged frames.
type Config struct {
	Frames         int
	StopOnConverge bool
	SettleFrames   int
	// SampleEvery keeps every n-th frame in the trace; the last frame is
	// always kept. Zero or one keeps every frame.
	SampleEvery int
}

func DefaultConfig() Config {
	return Config{
		Frames:         200000,
		StopOnConverge: true,
		SettleFrames:   1,
		SampleEvery:    1,
	}
}

// Angles is a joint-angle vector stored as a single CSV field.
type Angles []float64

func (a Angles) MarshalCSV() (string, error) {
	parts := make([]string, len(a))
	for i, v := range a {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ";"), nil
}

func (a *Angles) UnmarshalCSV(s string) error {
	if s == "" {
		*a = Angles{}
		return nil
	}
	parts := strings.Split(s, ";")
	out := make(Angles, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return err
		}
		out[i] = v
	}
	*a = out
	return nil
}

// Sample is one recorded frame of a run.
type Sample struct {
	Frame     int     `csv:"frame" json:"frame"`
	Status    string  `csv:"status" json:"status"`
	Error     float64 `csv:"error" json:"error"`
	EffectorX float64 `csv:"effector_x" json:"effector_x"`
	EffectorY float64 `csv:"effector_y" json:"effector_y"`
	Theta     Angles  `csv:"theta" json:"theta"`
}

func NewSample(f ik.Frame) Sample {
	return Sample{
		Frame:     f.Index,
		Status:    f.Status.String(),
		Error:     f.Error,
		EffectorX: f.Effector.X(),
		EffectorY: f.Effector.Y(),
		Theta:     append(Angles(nil), f.Theta...),
	}
}

type Result struct {
	Samples    []Sample
	Metrics    map[string]float64
	FramesRun  int
	Converged  bool
	FinalError float64
	Final      ik.Frame
}

// Errors returns the error column of the trace.
func (r *Result) Errors() []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = s.Error
	}
	return out
}

// Path returns the effector positions of the trace.
func (r *Result) Path() []mgl64.Vec2 { return TracePath(r.Samples) }

func TracePath(samples []Sample) []mgl64.Vec2 {
	out := make([]mgl64.Vec2, len(samples))
	for i, s := range samples {
		out[i] = mgl64.Vec2{s.EffectorX, s.EffectorY}
	}
	return out
}
