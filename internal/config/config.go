// Package config holds the run settings shared by train and score, and loads
// them from an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"alnmodel/internal/errmodel"
)

// ErrInvalid marks a settings file or value that cannot be used.
var ErrInvalid = errors.New("config: invalid")

// Settings are the tunables a YAML file may provide. Command-line flags
// override them.
type Settings struct {
	Alpha              float64 `yaml:"alpha"`
	MaxReadLen         int     `yaml:"max_read_len"`
	Bins               int     `yaml:"bins"`
	Threads            int     `yaml:"threads"` // 0 = all CPUs
	Passes             int     `yaml:"passes"`
	Disable            bool    `yaml:"disable"`
	TrainOrphansBySide bool    `yaml:"train_orphans_by_side"`
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	mc := errmodel.DefaultConfig()
	return Settings{
		Alpha:      mc.Alpha,
		MaxReadLen: mc.MaxReadLen,
		Bins:       mc.Bins,
		Passes:     1,
	}
}

// Load overlays the YAML file at path onto base. Keys absent from the file
// keep their base value; unknown keys are an error.
func Load(path string, base Settings) (Settings, error) {
	fh, err := os.Open(path)
	if err != nil {
		return base, err
	}
	defer fh.Close()
	s, err := Decode(fh, base)
	if err != nil {
		return base, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Decode is Load for an open reader.
func Decode(r io.Reader, base Settings) (Settings, error) {
	s := base
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return base, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return s, s.Validate()
}

// Validate checks ranges.
func (s Settings) Validate() error {
	if err := s.ModelConfig().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	switch {
	case s.Threads < 0:
		return fmt.Errorf("%w: threads must be >= 0, got %d", ErrInvalid, s.Threads)
	case s.Passes < 1:
		return fmt.Errorf("%w: passes must be >= 1, got %d", ErrInvalid, s.Passes)
	}
	return nil
}

// ModelConfig returns the errmodel construction parameters.
func (s Settings) ModelConfig() errmodel.Config {
	return errmodel.Config{Alpha: s.Alpha, MaxReadLen: s.MaxReadLen, Bins: s.Bins}
}

// EffectiveThreads resolves 0 to the number of CPUs.
func (s Settings) EffectiveThreads() int {
	if s.Threads <= 0 {
		return runtime.NumCPU()
	}
	return s.Threads
}
