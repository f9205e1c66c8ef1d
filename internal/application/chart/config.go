package chart

import (
	"errors"

	"github.com/encukou/portingchart/internal/config"
)

// Config bundles the chart settings with the options of a single run.
type Config struct {
	// Inputs are CSV files or directories holding them.
	Inputs []string

	// Chart settings, usually config.Default() overlaid with a file and flags.
	Chart config.Config

	// Cache settings
	CacheDir string
	NoCache  bool

	// Performance settings
	Concurrency int
}

// Validate fills defaults and checks the configuration.
func (c *Config) Validate() error {
	if len(c.Inputs) == 0 {
		return errors.New("no input files given")
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 4
	}
	if c.CacheDir == "" {
		c.CacheDir = c.Chart.CacheDir
	}
	if c.CacheDir == "" {
		c.NoCache = true
	}
	return c.Chart.Validate()
}
