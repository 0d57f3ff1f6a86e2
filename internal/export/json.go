package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/iksim/internal/sim"
	"github.com/san-kum/iksim/internal/storage"
)

type TraceData struct {
	ID         string             `json:"id"`
	Chain      string             `json:"chain"`
	Lengths    []float64          `json:"lengths"`
	StepSize   float64            `json:"step_size"`
	Threshold  float64            `json:"threshold"`
	Target     [2]float64         `json:"target"`
	Frames     int                `json:"frames"`
	Converged  bool               `json:"converged"`
	FinalError float64            `json:"final_error"`
	Samples    []sim.Sample       `json:"samples"`
	Metrics    map[string]float64 `json:"metrics"`
}

// TraceJSON writes a stored run and its samples as one indented document.
func TraceJSON(w io.Writer, meta *storage.RunMetadata, samples []sim.Sample) error {
	if samples == nil {
		samples = []sim.Sample{}
	}
	data := TraceData{
		ID:         meta.ID,
		Chain:      meta.Chain,
		Lengths:    meta.Lengths,
		StepSize:   meta.StepSize,
		Threshold:  meta.Threshold,
		Target:     [2]float64{meta.TargetX, meta.TargetY},
		Frames:     meta.Frames,
		Converged:  meta.Converged,
		FinalError: meta.FinalError,
		Samples:    samples,
		Metrics:    meta.Metrics,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
