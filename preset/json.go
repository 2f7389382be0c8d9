package preset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cwbudde/algo-notesynth/render"
	"github.com/cwbudde/algo-notesynth/synth"
)

// File is the JSON schema for render presets. Absent fields keep their
// defaults.
type File struct {
	Engine      string   `json:"engine"`
	SampleRate  *int     `json:"sample_rate"`
	BPM         *float64 `json:"bpm"`
	Transpose   *int     `json:"transpose"`
	Repeat      *int     `json:"repeat"`
	Boost       *float64 `json:"boost"`
	Legato      *float64 `json:"legato"`
	Pause       *float64 `json:"pause"`
	TargetPeak  *float64 `json:"target_peak"`
	Seed        *int64   `json:"seed"`
	SampleDir   string   `json:"sample_dir"`
	SampleLayer *int     `json:"sample_layer"`
}

// LoadJSON loads a preset JSON file and applies it on top of the default
// render config. A relative sample_dir is resolved against the preset's
// directory.
func LoadJSON(path string) (*render.Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	cfg := render.DefaultConfig()
	if err := ApplyFile(&cfg, &f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if f.SampleDir != "" && !filepath.IsAbs(cfg.SampleDir) {
		base := filepath.Dir(path)
		cfg.SampleDir = filepath.Clean(filepath.Join(base, cfg.SampleDir))
	}
	return &cfg, nil
}

// ApplyFile applies a parsed preset file onto an existing config.
func ApplyFile(dst *render.Config, f *File) error {
	if dst == nil {
		return fmt.Errorf("nil destination config")
	}
	if f == nil {
		return nil
	}

	if f.Engine != "" {
		kind, err := synth.ParseKind(f.Engine)
		if err != nil {
			return err
		}
		dst.Engine = kind
	}
	if f.SampleRate != nil {
		if *f.SampleRate < 0 {
			return fmt.Errorf("sample_rate must be >= 0")
		}
		dst.SampleRate = *f.SampleRate
	}
	if f.BPM != nil {
		if *f.BPM <= 0 {
			return fmt.Errorf("bpm must be > 0")
		}
		dst.BPM = *f.BPM
	}
	if f.Transpose != nil {
		dst.Transpose = *f.Transpose
	}
	if f.Repeat != nil {
		if *f.Repeat < 0 {
			return fmt.Errorf("repeat must be >= 0")
		}
		dst.Repeat = *f.Repeat
	}
	if f.Boost != nil {
		if *f.Boost < 1 {
			return fmt.Errorf("boost must be >= 1")
		}
		dst.Boost = *f.Boost
	}
	if f.Legato != nil {
		if *f.Legato <= 0 || *f.Legato > 1 {
			return fmt.Errorf("legato must be in (0,1]")
		}
		dst.Legato = *f.Legato
	}
	if f.Pause != nil {
		if *f.Pause < 0 || *f.Pause >= 1 {
			return fmt.Errorf("pause must be in [0,1)")
		}
		dst.Pause = *f.Pause
	}
	if f.TargetPeak != nil {
		if *f.TargetPeak <= 0 || *f.TargetPeak > render.MaxPCM {
			return fmt.Errorf("target_peak must be in (0,%d]", render.MaxPCM)
		}
		dst.TargetPeak = *f.TargetPeak
	}
	if f.Seed != nil {
		dst.Seed = *f.Seed
	}
	if f.SampleDir != "" {
		dst.SampleDir = strings.TrimSpace(f.SampleDir)
	}
	if f.SampleLayer != nil {
		if *f.SampleLayer < 1 {
			return fmt.Errorf("sample_layer must be >= 1")
		}
		dst.SampleLayer = *f.SampleLayer
	}
	return dst.Validate()
}
