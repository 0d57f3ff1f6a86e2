package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gocarina/gocsv"
	"go.uber.org/multierr"

	"github.com/san-kum/iksim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	traceFile    = "trace.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunInfo describes the solver a run was made with.
type RunInfo struct {
	Chain     string
	Lengths   []float64
	StepSize  float64
	Threshold float64
	TargetX   float64
	TargetY   float64
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Chain      string             `json:"chain"`
	Timestamp  time.Time          `json:"timestamp"`
	Lengths    []float64          `json:"lengths"`
	StepSize   float64            `json:"step_size"`
	Threshold  float64            `json:"threshold"`
	TargetX    float64            `json:"target_x"`
	TargetY    float64            `json:"target_y"`
	Frames     int                `json:"frames"`
	Converged  bool               `json:"converged"`
	FinalError float64            `json:"final_error"`
	FinalTheta []float64          `json:"final_theta"`
	Metrics    map[string]float64 `json:"metrics"`
}

func (s *Store) Save(info RunInfo, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", info.Chain, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Chain:      info.Chain,
		Timestamp:  now,
		Lengths:    info.Lengths,
		StepSize:   info.StepSize,
		Threshold:  info.Threshold,
		TargetX:    info.TargetX,
		TargetY:    info.TargetY,
		Frames:     result.FramesRun,
		Converged:  result.Converged,
		FinalError: result.FinalError,
		FinalTheta: append([]float64(nil), result.Final.Theta...),
		Metrics:    result.Metrics,
	}

	samples := result.Samples
	if samples == nil {
		samples = []sim.Sample{}
	}
	if err := writeRun(runDir, &meta, samples); err != nil {
		return "", multierr.Append(err, os.RemoveAll(runDir))
	}

	return runID, nil
}

func writeRun(runDir string, meta *RunMetadata, samples []sim.Sample) error {
	if err := writeMetadata(filepath.Join(runDir, metadataFile), meta); err != nil {
		return err
	}
	return writeTrace(filepath.Join(runDir, traceFile), samples)
}

func writeMetadata(path string, meta *RunMetadata) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, f.Close()) }()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func writeTrace(path string, samples []sim.Sample) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, f.Close()) }()

	return gocsv.MarshalFile(&samples, f)
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadTrace(runID string) ([]sim.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, traceFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	samples := []sim.Sample{}
	if err := gocsv.UnmarshalFile(file, &samples); err != nil {
		if err == gocsv.ErrEmptyCSVFile {
			return []sim.Sample{}, nil
		}
		return nil, err
	}
	return samples, nil
}
