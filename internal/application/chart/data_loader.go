package chart

import (
	"fmt"
	"strings"
	"time"

	"github.com/encukou/portingchart/internal/core/model"
	"github.com/encukou/portingchart/internal/data/cache"
	"github.com/encukou/portingchart/internal/data/parser"
	"github.com/encukou/portingchart/internal/data/scanner"
	"github.com/encukou/portingchart/internal/util"
)

// DataLoader resolves the inputs and reads their samples, through the parsed
// record cache when one is configured.
type DataLoader struct {
	config    *Config
	loc       *time.Location
	parser    *parser.Parser
	fileCache *cache.FileCache
	settings  string
}

// NewDataLoader creates a loader reading timestamps without a zone in loc.
func NewDataLoader(config *Config, loc *time.Location) (*DataLoader, error) {
	dl := &DataLoader{
		config:   config,
		loc:      loc,
		parser:   parser.NewParser(config.Chart.Columns, loc, config.Concurrency),
		settings: cacheSettings(config.Chart.Columns, loc),
	}
	if !config.NoCache {
		fc, err := cache.NewFileCache(config.CacheDir)
		if err != nil {
			return nil, fmt.Errorf("failed to create file cache: %w", err)
		}
		dl.fileCache = fc
	}
	return dl, nil
}

// cacheSettings names everything that changes how a file parses. Entries
// stored under different settings are not reused.
func cacheSettings(columns parser.Columns, loc *time.Location) string {
	return strings.Join([]string{columns.Timestamp, columns.Category, columns.Value, loc.String()}, "|")
}

// Files returns the resolved input files.
func (dl *DataLoader) Files() ([]string, error) {
	return scanner.Resolve(dl.config.Inputs)
}

// Load reads every input and drops samples before the configured cutoff.
func (dl *DataLoader) Load() ([]model.Sample, error) {
	files, err := dl.Files()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve inputs: %w", err)
	}
	util.LogDebugf("Loading %d files", len(files))

	var samples []model.Sample
	if dl.fileCache == nil {
		samples, err = parser.Merge(dl.parser.ParseFiles(files))
	} else {
		samples, err = dl.loadCached(files)
	}
	if err != nil {
		return nil, err
	}

	cutoff, err := dl.config.Chart.Cutoff(dl.loc)
	if err != nil {
		return nil, err
	}
	kept := parser.FilterSince(samples, cutoff)
	util.LogInfo("Loaded samples",
		util.F("files", len(files)),
		util.F("samples", len(samples)),
		util.F("kept", len(kept)))
	return kept, nil
}

func (dl *DataLoader) loadCached(files []string) ([]model.Sample, error) {
	var all []model.Sample
	for _, f := range files {
		samples, err := dl.fileCache.Load(f, dl.settings, dl.parser.ParseFile)
		if err != nil {
			return nil, err
		}
		all = append(all, samples...)
	}
	return all, nil
}

// ClearCache drops every cached entry. It is a no-op without a cache.
func (dl *DataLoader) ClearCache() error {
	if dl.fileCache == nil {
		return nil
	}
	return dl.fileCache.Clear()
}
