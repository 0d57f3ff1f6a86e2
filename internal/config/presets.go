package config

import (
	"sort"

	"github.com/san-kum/iksim/internal/ik"
)

// Chains maps a chain name to its bone lengths.
var Chains = map[string][]float64{
	"reference": ik.ReferenceLengths(),
	"arm3":      {10, 8, 6},
	"snake8":    {4, 4, 4, 4, 4, 4, 4, 4},
}

func preset(chain string, x, y float64, stepSize float64) *Config {
	cfg := DefaultConfig()
	cfg.Chain = chain
	cfg.Lengths = append([]float64(nil), Chains[chain]...)
	cfg.Joints = len(cfg.Lengths)
	cfg.StepSize = stepSize
	cfg.Target = &TargetConfig{X: x, Y: y}
	return cfg
}

var Presets = map[string]map[string]*Config{
	"reference": {
		"reach":       preset("reference", 20, 15, 1e-5),
		"close":       preset("reference", 10, 15, 1e-5),
		"behind":      preset("reference", -10, 20, 1e-5),
		"overhead":    preset("reference", 0, 30, 1e-5),
		"unreachable": preset("reference", 40, 40, 1e-5),
	},
	"arm3": {
		"reach":       preset("arm3", 12, 10, 5e-5),
		"fold":        preset("arm3", -4, 6, 5e-5),
		"unreachable": preset("arm3", 30, 0.5, 5e-5),
	},
	"snake8": {
		"curl":  preset("snake8", -6, 10, 2e-5),
		"reach": preset("snake8", 20, 20, 2e-5),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(chain, name string) *Config {
	chainPresets, ok := Presets[chain]
	if !ok {
		return nil
	}
	cfg, ok := chainPresets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(chain string) []string {
	chainPresets, ok := Presets[chain]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(chainPresets))
	for name := range chainPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func ListChains() []string {
	names := make([]string, 0, len(Chains))
	for name := range Chains {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
