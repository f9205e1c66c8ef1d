// Package parser loads status history CSV files into samples.
package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/encukou/portingchart/internal/core/model"
	"github.com/encukou/portingchart/internal/util"
)

var (
	// ErrMissingColumn is returned when a configured column is absent from the header.
	ErrMissingColumn = errors.New("column not found")
	// ErrNegativeValue is returned for counts below zero.
	ErrNegativeValue = errors.New("negative value")
	// ErrBadTimestamp is returned when no known layout matches a timestamp.
	ErrBadTimestamp = errors.New("unrecognized timestamp")
)

// ZoneAbbrevLayout reads a trailing zone abbreviation such as UTC or CEST.
const ZoneAbbrevLayout = "2006-01-02 15:04:05 MST"

// TimestampLayouts are tried in order. The first two are what git's %ci and the
// hand-written histories use.
var TimestampLayouts = []string{
	"2006-01-02 15:04:05 -0700",
	ZoneAbbrevLayout,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Columns names the CSV columns holding each sample field.
type Columns struct {
	Timestamp string `yaml:"timestamp"`
	Category  string `yaml:"category"`
	Value     string `yaml:"value"`
}

// DefaultColumns matches the output of the history export script.
func DefaultColumns() Columns {
	return Columns{
		Timestamp: "date",
		Category:  "status",
		Value:     "num_packages",
	}
}

// Parser reads status histories.
type Parser struct {
	columns     Columns
	loc         *time.Location
	concurrency int
}

// ParseResult is the outcome of parsing a single file.
type ParseResult struct {
	File    string
	Samples []model.Sample
	Error   error
}

// NewParser creates a parser. Timestamps without a zone are read in loc.
func NewParser(columns Columns, loc *time.Location, concurrency int) *Parser {
	if loc == nil {
		loc = time.Local
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Parser{columns: columns, loc: loc, concurrency: concurrency}
}

// ParseTimestamp parses s with the first matching layout of TimestampLayouts.
// A zone abbreviation must be UTC, GMT or one that loc defines; any other is
// rejected instead of being read as offset zero.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range TimestampLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err != nil {
			continue
		}
		if layout == ZoneAbbrevLayout && !knownZone(t, loc) {
			name, _ := t.Zone()
			return time.Time{}, fmt.Errorf("%w: unknown zone %q", ErrBadTimestamp, name)
		}
		return t, nil
	}
	return time.Time{}, ErrBadTimestamp
}

// knownZone reports whether the zone of t was resolved. time.ParseInLocation
// keeps loc for abbreviations loc defines and fabricates a zero offset zone
// for anything else.
func knownZone(t time.Time, loc *time.Location) bool {
	name, offset := t.Zone()
	if name == "UTC" || name == "GMT" || offset != 0 {
		return true
	}
	return t.Location() == loc
}

// ParseValue parses a non-negative finite count.
func ParseValue(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrSyntax
	}
	if v < 0 {
		return 0, ErrNegativeValue
	}
	return v, nil
}

type columnIndex struct {
	timestamp, category, value int
}

func (p *Parser) resolve(header []string) (columnIndex, error) {
	byName := make(map[string]int, len(header))
	for i, col := range header {
		byName[strings.ToLower(strings.TrimSpace(col))] = i
	}

	find := func(name string) (int, error) {
		if i, ok := byName[strings.ToLower(name)]; ok {
			return i, nil
		}
		return 0, &model.RecordError{
			Line:   1,
			Column: name,
			Value:  strings.Join(header, ","),
			Err:    ErrMissingColumn,
		}
	}

	var idx columnIndex
	var err error
	if idx.timestamp, err = find(p.columns.Timestamp); err != nil {
		return idx, err
	}
	if idx.category, err = find(p.columns.Category); err != nil {
		return idx, err
	}
	if idx.value, err = find(p.columns.Value); err != nil {
		return idx, err
	}
	return idx, nil
}

// Parse reads a CSV document with a header row. The first malformed row aborts
// parsing with a *model.RecordError. An empty document yields no samples.
func (p *Parser) Parse(r io.Reader) ([]model.Sample, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading CSV header: %w", err)
	}
	idx, err := p.resolve(header)
	if err != nil {
		return nil, err
	}

	var samples []model.Sample
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, &model.RecordError{Line: pe.Line, Err: pe.Err}
			}
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		line, _ := reader.FieldPos(0)

		sample, err := p.parseRecord(record, idx, line)
		if err != nil {
			return nil, err
		}
		samples = append(samples, sample)
	}
	return samples, nil
}

func (p *Parser) parseRecord(record []string, idx columnIndex, line int) (model.Sample, error) {
	field := func(i int, name string) (string, error) {
		if i >= len(record) {
			return "", &model.RecordError{Line: line, Column: name, Err: ErrMissingColumn}
		}
		return record[i], nil
	}

	raw, err := field(idx.timestamp, p.columns.Timestamp)
	if err != nil {
		return model.Sample{}, err
	}
	ts, err := ParseTimestamp(raw, p.loc)
	if err != nil {
		return model.Sample{}, &model.RecordError{Line: line, Column: p.columns.Timestamp, Value: raw, Err: err}
	}

	category, err := field(idx.category, p.columns.Category)
	if err != nil {
		return model.Sample{}, err
	}
	category = strings.TrimSpace(category)
	if category == "" {
		return model.Sample{}, &model.RecordError{Line: line, Column: p.columns.Category, Err: errors.New("empty category")}
	}

	raw, err = field(idx.value, p.columns.Value)
	if err != nil {
		return model.Sample{}, err
	}
	value, err := ParseValue(raw)
	if err != nil {
		return model.Sample{}, &model.RecordError{Line: line, Column: p.columns.Value, Value: raw, Err: err}
	}

	return model.Sample{Timestamp: ts, Category: category, Value: value}, nil
}

// ParseFile parses the CSV file at path.
func (p *Parser) ParseFile(path string) ([]model.Sample, error) {
	util.LogDebug("Start parsing file", util.F("file", path))

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	samples, err := p.Parse(file)
	if err != nil {
		util.LogDebugf("Failed to parse %s: %v", path, err)
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	util.LogDebug("Parsed file", util.F("file", path), util.F("samples", len(samples)))
	return samples, nil
}

// ParseFiles parses files concurrently. Results are returned in input order.
func (p *Parser) ParseFiles(files []string) []ParseResult {
	start := time.Now()
	results := make([]ParseResult, len(files))
	semaphore := make(chan struct{}, p.concurrency)
	var wg sync.WaitGroup

	for i, file := range files {
		wg.Add(1)
		go func(i int, f string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			samples, err := p.ParseFile(f)
			results[i] = ParseResult{File: f, Samples: samples, Error: err}
		}(i, file)
	}
	wg.Wait()

	util.LogDebugf("Parsed %d files in %s", len(files), util.FormatDuration(time.Since(start)))
	return results
}

// Merge concatenates the samples of every result, returning the first error.
func Merge(results []ParseResult) ([]model.Sample, error) {
	var all []model.Sample
	for _, r := range results {
		if r.Error != nil {
			return nil, r.Error
		}
		all = append(all, r.Samples...)
	}
	return all, nil
}

// FilterSince drops samples before cutoff. A zero cutoff keeps everything.
func FilterSince(samples []model.Sample, cutoff time.Time) []model.Sample {
	if cutoff.IsZero() {
		return samples
	}
	out := make([]model.Sample, 0, len(samples))
	for _, s := range samples {
		if !s.Timestamp.Before(cutoff) {
			out = append(out, s)
		}
	}
	return out
}
