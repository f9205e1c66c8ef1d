package parser

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/encukou/portingchart/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const history = `commit,date,status,num_packages
a1b2c3,2015-10-10 09:15:00 +0200,done,5
a1b2c3,2015-10-10 09:15:00 +0200,todo,3
d4e5f6,2015-10-11 18:00:00 +0200,done,7
d4e5f6,2015-10-11 18:00:00 +0200,todo,2
`

func newParser() *Parser {
	return NewParser(DefaultColumns(), time.UTC, 2)
}

func TestNewParserDefaults(t *testing.T) {
	p := NewParser(DefaultColumns(), nil, 0)

	assert.Equal(t, time.Local, p.loc)
	assert.Equal(t, 1, p.concurrency)
	assert.Equal(t, Columns{Timestamp: "date", Category: "status", Value: "num_packages"}, p.columns)
}

func TestParseHistory(t *testing.T) {
	samples, err := newParser().Parse(strings.NewReader(history))
	require.NoError(t, err)
	require.Len(t, samples, 4)

	zone := time.FixedZone("", 2*60*60)
	assert.True(t, samples[0].Timestamp.Equal(time.Date(2015, 10, 10, 9, 15, 0, 0, zone)))
	assert.Equal(t, "done", samples[0].Category)
	assert.Equal(t, 5.0, samples[0].Value)
	assert.Equal(t, "todo", samples[3].Category)
	assert.Equal(t, 2.0, samples[3].Value)
}

func TestParseTimestamp(t *testing.T) {
	prague, err := time.LoadLocation("Europe/Prague")
	require.NoError(t, err)

	tests := []struct {
		name     string
		input    string
		expected time.Time
	}{
		{"numeric offset", "2015-10-10 00:00:00 +0200", time.Date(2015, 10, 9, 22, 0, 0, 0, time.UTC)},
		{"UTC abbreviation", "2015-10-10 00:00:00 UTC", time.Date(2015, 10, 10, 0, 0, 0, 0, time.UTC)},
		{"RFC3339", "2015-10-10T00:00:00Z", time.Date(2015, 10, 10, 0, 0, 0, 0, time.UTC)},
		{"no zone uses location", "2015-10-10 00:00:00", time.Date(2015, 10, 9, 22, 0, 0, 0, time.UTC)},
		{"date only", "2015-10-10", time.Date(2015, 10, 9, 22, 0, 0, 0, time.UTC)},
		{"surrounding space", "  2015-10-10 00:00:00 UTC ", time.Date(2015, 10, 10, 0, 0, 0, 0, time.UTC)},
		{"abbreviation known in location", "2015-10-10 00:00:00 CEST", time.Date(2015, 10, 9, 22, 0, 0, 0, time.UTC)},
		{"GMT abbreviation", "2015-10-10 00:00:00 GMT", time.Date(2015, 10, 10, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input, prague)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.expected), "got %s", got)
		})
	}

	_, err = ParseTimestamp("10/10/2015", prague)
	assert.ErrorIs(t, err, ErrBadTimestamp)
}

func TestParseTimestampUnknownZone(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"abbreviation of another location", "2015-10-10 00:00:00 CEST"},
		{"made up abbreviation", "2015-10-10 00:00:00 XYZ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input, time.UTC)
			assert.ErrorIs(t, err, ErrBadTimestamp)
			assert.True(t, got.IsZero())
		})
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
		err      error
	}{
		{"0", 0, nil},
		{"42", 42, nil},
		{" 7 ", 7, nil},
		{"2.5", 2.5, nil},
		{"-1", 0, ErrNegativeValue},
		{"seven", 0, strconv.ErrSyntax},
		{"NaN", 0, strconv.ErrSyntax},
		{"+Inf", 0, strconv.ErrSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseValue(tt.input)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseMalformedRecords(t *testing.T) {
	tests := []struct {
		name   string
		csv    string
		line   int
		column string
	}{
		{
			name:   "bad timestamp",
			csv:    "date,status,num_packages\n2015-10-10 00:00:00 UTC,done,5\nyesterday,done,5\n",
			line:   3,
			column: "date",
		},
		{
			name:   "unknown zone abbreviation",
			csv:    "date,status,num_packages\n2015-10-10 00:00:00 UTC,done,5\n2015-10-10 00:00:00 CEST,done,5\n",
			line:   3,
			column: "date",
		},
		{
			name:   "non-numeric count",
			csv:    "date,status,num_packages\n2015-10-10 00:00:00 UTC,done,many\n",
			line:   2,
			column: "num_packages",
		},
		{
			name:   "negative count",
			csv:    "date,status,num_packages\n2015-10-10 00:00:00 UTC,done,-3\n",
			line:   2,
			column: "num_packages",
		},
		{
			name:   "short row",
			csv:    "date,status,num_packages\n2015-10-10 00:00:00 UTC,done\n",
			line:   2,
			column: "num_packages",
		},
		{
			name:   "empty category",
			csv:    "date,status,num_packages\n2015-10-10 00:00:00 UTC,,4\n",
			line:   2,
			column: "status",
		},
		{
			name:   "missing header column",
			csv:    "date,state,num_packages\n2015-10-10 00:00:00 UTC,done,4\n",
			line:   1,
			column: "status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			samples, err := newParser().Parse(strings.NewReader(tt.csv))

			assert.Nil(t, samples)
			require.ErrorIs(t, err, model.ErrMalformedRecord)
			var rec *model.RecordError
			require.ErrorAs(t, err, &rec)
			assert.Equal(t, tt.line, rec.Line)
			assert.Equal(t, tt.column, rec.Column)
		})
	}
}

func TestParseBareQuote(t *testing.T) {
	_, err := newParser().Parse(strings.NewReader("date,status,num_packages\n2015-10-10 00:00:00 UTC,do\"ne,4\n"))

	var rec *model.RecordError
	require.ErrorAs(t, err, &rec)
	assert.Equal(t, 2, rec.Line)
}

func TestParseEmptyInput(t *testing.T) {
	samples, err := newParser().Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, samples)

	samples, err = newParser().Parse(strings.NewReader("date,status,num_packages\n"))
	require.NoError(t, err)
	assert.Empty(t, samples)
}

func TestParseCustomColumns(t *testing.T) {
	p := NewParser(Columns{Timestamp: "When", Category: "Kind", Value: "Count"}, time.UTC, 1)

	samples, err := p.Parse(strings.NewReader("when,kind,count\n2016-01-01,legacy,12\n"))
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, "legacy", samples[0].Category)
	assert.Equal(t, 12.0, samples[0].Value)
}

func TestParseFilesKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.csv")
	second := filepath.Join(dir, "second.csv")
	require.NoError(t, os.WriteFile(first, []byte(history), 0644))
	require.NoError(t, os.WriteFile(second, []byte("date,status,num_packages\n2015-10-12 00:00:00 UTC,done,6\n"), 0644))

	results := newParser().ParseFiles([]string{first, second})
	require.Len(t, results, 2)
	assert.Equal(t, first, results[0].File)
	assert.Len(t, results[0].Samples, 4)
	assert.Equal(t, second, results[1].File)
	assert.Len(t, results[1].Samples, 1)

	merged, err := Merge(results)
	require.NoError(t, err)
	assert.Len(t, merged, 5)
	assert.Equal(t, 6.0, merged[4].Value)
}

func TestParseFileErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("date,status,num_packages\nnever,done,1\n"), 0644))

	_, err := newParser().ParseFile(filepath.Join(dir, "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = newParser().ParseFile(bad)
	assert.ErrorIs(t, err, model.ErrMalformedRecord)
	assert.Contains(t, err.Error(), bad)

	_, err = Merge(newParser().ParseFiles([]string{bad}))
	assert.ErrorIs(t, err, model.ErrMalformedRecord)
}

func TestFilterSince(t *testing.T) {
	cutoff := time.Date(2015, 10, 10, 0, 0, 0, 0, time.UTC)
	samples := []model.Sample{
		{Timestamp: cutoff.Add(-time.Second), Category: "done", Value: 1},
		{Timestamp: cutoff, Category: "done", Value: 2},
		{Timestamp: cutoff.Add(time.Hour), Category: "done", Value: 3},
	}

	kept := FilterSince(samples, cutoff)
	require.Len(t, kept, 2)
	assert.Equal(t, 2.0, kept[0].Value)

	assert.Len(t, FilterSince(samples, time.Time{}), 3)
}
