// Package report renders evaluation results as the JSON envelope, YAML files
// and plain-text tables.
package report

import (
	"encoding/json"
	"runtime"
	"time"
)

// Version tags the gold data revision the scores are comparable with.
const Version = "v20200708"

type Envelope struct {
	Success  bool            `json:"success" yaml:"success"`
	RepScore float64         `json:"rep_score" yaml:"rep_score"`
	Version  string          `json:"version" yaml:"version"`
	MacroAve MacroAve        `json:"macro_ave" yaml:"macro_ave"`
	Ins      []InstanceEntry `json:"ins" yaml:"ins"`
	// Meta is set on file reports only; stdout keeps the bare envelope.
	Meta *Meta `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// Table is metric -> granularity -> score.
type Table map[string]map[string]float64

type MacroAve struct {
	AvailableRate map[string]float64 `json:"available_rate" yaml:"available_rate"`
	Available     map[string]Table   `json:"available" yaml:"available"`
	Total         map[string]Table   `json:"total" yaml:"total"`
}

type InstanceEntry struct {
	ID string                `json:"ID" yaml:"ID"`
	QA PartRecord[float64]   `json:"QA" yaml:"QA"`
	Q  PartRecord[float64]   `json:"Q" yaml:"Q"`
	A  PartRecord[[]float64] `json:"A" yaml:"A"`
}

// PartRecord flattens to {"available": bool, "<metric>": {"<granularity>": V}}.
type PartRecord[V float64 | []float64] struct {
	Available bool
	Values    map[string]map[string]V
}

func (p PartRecord[V]) flatten() map[string]any {
	m := make(map[string]any, len(p.Values)+1)
	m["available"] = p.Available
	for k, v := range p.Values {
		m[k] = v
	}
	return m
}

func (p PartRecord[V]) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.flatten())
}

func (p PartRecord[V]) MarshalYAML() (any, error) {
	return p.flatten(), nil
}

type Meta struct {
	RunID       string          `json:"run_id" yaml:"run_id"`
	GeneratedAt time.Time       `json:"generated_at" yaml:"generated_at"`
	Target      string          `json:"target,omitempty" yaml:"target,omitempty"`
	Gold        string          `json:"gold,omitempty" yaml:"gold,omitempty"`
	Analyzer    string          `json:"analyzer,omitempty" yaml:"analyzer,omitempty"`
	Environment EnvironmentInfo `json:"environment" yaml:"environment"`
}

type EnvironmentInfo struct {
	GoVersion string `json:"go_version" yaml:"go_version"`
	OS        string `json:"os" yaml:"os"`
	Arch      string `json:"arch" yaml:"arch"`
	NumCPU    int    `json:"num_cpu" yaml:"num_cpu"`
}

func NewEnvironmentInfo() EnvironmentInfo {
	return EnvironmentInfo{
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		NumCPU:    runtime.NumCPU(),
	}
}
