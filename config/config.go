// Package config handles tapevm.toml run configuration.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/sarchlab/tapevm/core"
	"github.com/sarchlab/tapevm/tape"
)

// FileName is the name of the configuration file.
const FileName = "tapevm.toml"

// Config represents a tapevm.toml configuration.
type Config struct {
	Tape   Tape   `toml:"tape"`
	Output Output `toml:"output"`
	Run    Run    `toml:"run"`

	// Dir is the directory containing the tapevm.toml file (set at load time).
	Dir string `toml:"-"`
}

// Tape configures the initial memory tape.
type Tape struct {
	Size      int      `toml:"size"`
	CellWidth int      `toml:"cell_width"`
	Initial   []uint64 `toml:"initial"`
}

// Output configures how emitted cells are rendered.
type Output struct {
	Mode      string  `toml:"mode"`
	Signed    bool    `toml:"signed"`
	Separator *string `toml:"separator"`
}

// Run configures the bounds of a run.
type Run struct {
	MaxSteps uint64 `toml:"max_steps"`
	Timeout  string `toml:"timeout"`
}

// Default returns the configuration matching the engine defaults.
func Default() *Config {
	sep := "\n"
	return &Config{
		Tape: Tape{
			Size:      tape.DefaultSize,
			CellWidth: int(tape.Width8),
		},
		Output: Output{
			Mode:      core.OutputChar.String(),
			Separator: &sep,
		},
	}
}

// Parse decodes a configuration and fills in defaults.
func Parse(data []byte) (*Config, error) {
	c := Default()
	if err := toml.Unmarshal(data, c); err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Load parses a tapevm.toml file from the given directory.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	c.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	return c, nil
}

// FindAndLoad walks up from startDir to find a tapevm.toml file,
// then loads and returns it. Returns the defaults if no file is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), nil
		}
		dir = parent
	}
}

// Validate checks every field.
func (c *Config) Validate() error {
	var errs []error

	if c.Tape.Size < 1 {
		errs = append(errs, fmt.Errorf("tape.size must be at least 1, got %d", c.Tape.Size))
	}
	if _, err := tape.ParseWidth(c.Tape.CellWidth); err != nil {
		errs = append(errs, fmt.Errorf("tape.cell_width: %w", err))
	}
	if _, err := core.ParseOutputMode(c.Output.Mode); err != nil {
		errs = append(errs, fmt.Errorf("output.mode: %w", err))
	}
	if _, err := c.Timeout(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Timeout returns the run timeout, or zero if none is set.
func (c *Config) Timeout() (time.Duration, error) {
	if c.Run.Timeout == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(c.Run.Timeout)
	if err != nil {
		return 0, fmt.Errorf("run.timeout: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("run.timeout must not be negative, got %s", d)
	}

	return d, nil
}

// Builder returns an engine builder configured from c. Input and output
// sinks are left to the caller.
func (c *Config) Builder() (core.Builder, error) {
	if err := c.Validate(); err != nil {
		return core.Builder{}, err
	}

	width, _ := tape.ParseWidth(c.Tape.CellWidth)
	mode, _ := core.ParseOutputMode(c.Output.Mode)

	b := core.MakeBuilder().
		WithTapeSize(c.Tape.Size).
		WithInitialTape(c.Tape.Initial).
		WithCellWidth(width).
		WithOutputMode(mode).
		WithSigned(c.Output.Signed).
		WithStepBudget(c.Run.MaxSteps)
	if c.Output.Separator != nil {
		b = b.WithSeparator(*c.Output.Separator)
	}

	return b, nil
}

// Context derives a context bounded by the configured timeout. Without a
// timeout the returned context only ends with parent.
func (c *Config) Context(parent context.Context) (context.Context, context.CancelFunc) {
	d, err := c.Timeout()
	if err != nil || d == 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, d)
}
