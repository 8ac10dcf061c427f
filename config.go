package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/AmrMurad1/Go-ExtSort/runs"
	"github.com/AmrMurad1/Go-ExtSort/shared"
)

// Config is the configuration for one sort.
type Config struct {
	InputPath      string
	OutputPath     string
	MaxInMemory    int
	TempDir        string
	Compress       bool
	Verify         bool
	ReadBufferSize int
}

// NewDefaultConfig returns a configuration that keeps runs in the working
// directory. Paths and the memory bound still have to be set.
func NewDefaultConfig() *Config {
	return &Config{
		TempDir:        runs.DefaultDir,
		ReadBufferSize: 64 * 1024,
	}
}

func (c *Config) WithInput(path string) *Config {
	c.InputPath = path
	return c
}

func (c *Config) WithOutput(path string) *Config {
	c.OutputPath = path
	return c
}

func (c *Config) WithMaxInMemory(k int) *Config {
	c.MaxInMemory = k
	return c
}

func (c *Config) WithTempDir(dir string) *Config {
	c.TempDir = dir
	return c
}

func (c *Config) WithCompress(enable bool) *Config {
	c.Compress = enable
	return c
}

func (c *Config) WithVerify(enable bool) *Config {
	c.Verify = enable
	return c
}

// Validate checks the configuration without touching the filesystem.
func (c *Config) Validate() error {
	if c.MaxInMemory <= 1 {
		return fmt.Errorf("%w: must allow more than one int in memory simultaneously, got %d", shared.ErrInvalidConfiguration, c.MaxInMemory)
	}
	if c.InputPath == "" {
		return fmt.Errorf("%w: input path is empty", shared.ErrInvalidConfiguration)
	}
	if c.OutputPath == "" {
		return fmt.Errorf("%w: output path is empty", shared.ErrInvalidConfiguration)
	}
	if c.TempDir == "" {
		return fmt.Errorf("%w: temp dir is empty", shared.ErrInvalidConfiguration)
	}

	// Run files are named by their id; an input named like one would be
	// truncated while it is still being read.
	if isRunName(c.TempDir, c.InputPath) {
		return fmt.Errorf("%w: input %s collides with the run files in %s", shared.ErrInvalidConfiguration, c.InputPath, c.TempDir)
	}
	return nil
}

func (c *Config) runsConfig() *runs.Config {
	config := runs.NewDefaultConfig()
	config.Dir = c.TempDir
	config.Compress = c.Compress
	if c.ReadBufferSize > 0 {
		config.ReadBufferSize = c.ReadBufferSize
	}
	return config
}

func isRunName(dir, path string) bool {
	if _, err := strconv.Atoi(filepath.Base(path)); err != nil {
		return false
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return filepath.Dir(absPath) == absDir
}
