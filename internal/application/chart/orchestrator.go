package chart

import (
	"context"
	"fmt"
	"time"

	"github.com/encukou/portingchart/internal/data/watcher"
	"github.com/encukou/portingchart/internal/util"
)

// Orchestrator loads the configured inputs and builds charts from them.
type Orchestrator struct {
	config *Config
	loc    *time.Location
	loader *DataLoader
}

// NewOrchestrator validates config and prepares the data loader.
func NewOrchestrator(config *Config) (*Orchestrator, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	loc, err := util.LoadLocation(config.Chart.Timezone)
	if err != nil {
		return nil, err
	}
	loader, err := NewDataLoader(config, loc)
	if err != nil {
		return nil, err
	}
	return &Orchestrator{
		config: config,
		loc:    loc,
		loader: loader,
	}, nil
}

// Location is the zone used for parsing, ticks and tooltip dates.
func (o *Orchestrator) Location() *time.Location {
	return o.loc
}

// Loader returns the data loader.
func (o *Orchestrator) Loader() *DataLoader {
	return o.loader
}

// Build loads the inputs and computes a fresh chart.
func (o *Orchestrator) Build() (*Chart, error) {
	start := time.Now()
	samples, err := o.loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load data: %w", err)
	}
	c, err := Build(samples, o.config.Chart, o.loc)
	if err != nil {
		return nil, fmt.Errorf("failed to build chart: %w", err)
	}
	util.LogDebug("Built chart",
		util.F("layers", len(c.Layers)),
		util.F("elapsed", util.FormatDuration(time.Since(start))))
	return c, nil
}

// Watch calls render once, then again after every change to an input file,
// until ctx is done. Each call builds an independent chart. Render errors stop
// the loop only on the first call; later ones are logged.
func (o *Orchestrator) Watch(ctx context.Context, debounce time.Duration, render func(*Chart) error) error {
	files, err := o.loader.Files()
	if err != nil {
		return fmt.Errorf("failed to resolve inputs: %w", err)
	}

	c, err := o.Build()
	if err != nil {
		return err
	}
	if err := render(c); err != nil {
		return err
	}

	fw, err := watcher.NewFileWatcher(ctx, files, debounce)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fw.Close()
	util.LogInfo("Watching inputs", util.F("files", len(files)))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events():
			if !ok {
				return nil
			}
			util.LogDebug("Input changed", util.F("path", ev.Path), util.F("op", ev.Operation))
			c, err := o.Build()
			if err == nil {
				err = render(c)
			}
			if err != nil {
				util.LogErrorf("Re-render failed: %v", err)
			}
		}
	}
}
