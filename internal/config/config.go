// Package config holds the chart settings read from YAML and command flags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/encukou/portingchart/internal/data/parser"
	"github.com/encukou/portingchart/internal/util"
)

// DateLayout is the format of the since setting.
const DateLayout = "2006-01-02"

// Layout gives the plot size and the margins around it, in pixels.
type Layout struct {
	Width        int `yaml:"width"`
	Height       int `yaml:"height"`
	MarginTop    int `yaml:"margin_top"`
	MarginRight  int `yaml:"margin_right"`
	MarginBottom int `yaml:"margin_bottom"`
	MarginLeft   int `yaml:"margin_left"`
	// BottomInset keeps the lowest band off the x axis.
	BottomInset int `yaml:"bottom_inset"`
}

// TotalWidth is the width of the whole document.
func (l Layout) TotalWidth() int {
	return l.Width + l.MarginLeft + l.MarginRight
}

// TotalHeight is the height of the whole document.
func (l Layout) TotalHeight() int {
	return l.Height + l.MarginTop + l.MarginBottom
}

// PlotBottom is the y position of the zero line.
func (l Layout) PlotBottom() float64 {
	return float64(l.Height - l.BottomInset)
}

// Config is the full chart configuration.
type Config struct {
	ColorMapping  map[string]string `yaml:"color_mapping"`
	CategoryOrder []string          `yaml:"category_order"`
	Normalize     bool              `yaml:"normalize"`
	Unit          string            `yaml:"unit"`
	Since         string            `yaml:"since"`
	Timezone      string            `yaml:"timezone"`
	Tension       float64           `yaml:"tension"`
	Layout        Layout            `yaml:"layout"`
	Columns       parser.Columns    `yaml:"columns"`
	CacheDir      string            `yaml:"cache_dir"`
}

// Default returns the settings of the porting status chart.
func Default() Config {
	return Config{
		ColorMapping: map[string]string{
			"py3-only":    "#5cb85c",
			"legacy-leaf": "#7cb5e6",
			"released":    "#3c763d",
			"dropped":     "#777777",
			"mispackaged": "#f0ad4e",
			"in-progress": "#5bc0de",
			"blocked":     "#a94442",
			"idle":        "#d9534f",
		},
		CategoryOrder: []string{
			"py3-only", "legacy-leaf", "released", "dropped",
			"mispackaged", "in-progress", "blocked", "idle",
		},
		Unit:     " packages",
		Since:    "2015-10-10",
		Timezone: "Local",
		Tension:  0.7,
		Layout: Layout{
			Width:        600,
			Height:       550,
			MarginTop:    20,
			MarginRight:  60,
			MarginBottom: 30,
			MarginLeft:   60,
			BottomInset:  10,
		},
		Columns:  parser.DefaultColumns(),
		CacheDir: "~/.portingchart/cache",
	}
}

// Load reads a YAML file over the defaults. Keys absent from the file keep their
// default value; a color_mapping in the file replaces the default one entirely.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	util.LogDebug("Loaded config", util.F("file", path))
	return cfg, nil
}

// Parse decodes YAML over the defaults. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	defaults := cfg.ColorMapping
	cfg.ColorMapping = nil

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.ColorMapping == nil {
		cfg.ColorMapping = defaults
	}
	return cfg, nil
}

// Validate checks the settings for consistency.
func (c Config) Validate() error {
	l := c.Layout
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("layout size must be positive, got %dx%d", l.Width, l.Height)
	}
	if l.MarginTop < 0 || l.MarginRight < 0 || l.MarginBottom < 0 || l.MarginLeft < 0 {
		return errors.New("layout margins must not be negative")
	}
	if l.BottomInset < 0 || l.BottomInset >= l.Height {
		return fmt.Errorf("bottom inset %d outside plot height %d", l.BottomInset, l.Height)
	}
	if c.Tension < 0 || c.Tension > 1 {
		return fmt.Errorf("tension must be within [0,1], got %g", c.Tension)
	}
	if len(c.ColorMapping) == 0 {
		return errors.New("color_mapping must not be empty")
	}
	for category, color := range c.ColorMapping {
		if color == "" {
			return fmt.Errorf("empty color for %q", category)
		}
	}
	seen := make(map[string]bool, len(c.CategoryOrder))
	for _, category := range c.CategoryOrder {
		if seen[category] {
			return fmt.Errorf("category %q listed twice in category_order", category)
		}
		seen[category] = true
	}
	if c.Columns.Timestamp == "" || c.Columns.Category == "" || c.Columns.Value == "" {
		return errors.New("column names must not be empty")
	}
	if _, err := util.LoadLocation(c.Timezone); err != nil {
		return err
	}
	if _, err := c.Cutoff(time.UTC); err != nil {
		return err
	}
	return nil
}

// Cutoff returns midnight of the since date in loc, or the zero time when since
// is empty.
func (c Config) Cutoff(loc *time.Location) (time.Time, error) {
	if c.Since == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(DateLayout, c.Since, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid since date %q: %w", c.Since, err)
	}
	return t, nil
}
