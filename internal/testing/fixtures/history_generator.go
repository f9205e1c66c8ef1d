package fixtures

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"
)

// CommitDateLayout is the layout of git's %ci dates.
const CommitDateLayout = "2006-01-02 15:04:05 -0700"

// Snapshot is the status breakdown recorded at one commit.
type Snapshot struct {
	Commit string
	Date   time.Time
	Counts map[string]int
}

// Statuses used by the generated histories, bottom to top.
var Statuses = []string{
	"py3-only", "legacy-leaf", "released", "dropped",
	"mispackaged", "in-progress", "blocked", "idle",
}

// HistoryGenerator writes status history CSV files in the format produced by
// the history export script.
type HistoryGenerator struct {
	baseDir string
}

// NewHistoryGenerator creates a generator writing under baseDir.
func NewHistoryGenerator(baseDir string) *HistoryGenerator {
	return &HistoryGenerator{
		baseDir: baseDir,
	}
}

// GetBaseDir returns the directory files are written to.
func (g *HistoryGenerator) GetBaseDir() string {
	return g.baseDir
}

// GenerateSimpleHistory writes three daily snapshots of two statuses.
func (g *HistoryGenerator) GenerateSimpleHistory(name string, start time.Time) (string, error) {
	snapshots := []Snapshot{
		{Date: start, Counts: map[string]int{"py3-only": 5, "idle": 3}},
		{Date: start.AddDate(0, 0, 1), Counts: map[string]int{"py3-only": 7, "idle": 2}},
		{Date: start.AddDate(0, 0, 2), Counts: map[string]int{"py3-only": 6, "idle": 3}},
	}
	return g.WriteHistory(name, snapshots)
}

// GenerateProgress writes one snapshot every step, moving packages from idle
// to py3-only until none are left. total packages are split over all statuses
// at the start.
func (g *HistoryGenerator) GenerateProgress(name string, start time.Time, step time.Duration, count, total int) (string, error) {
	snapshots := make([]Snapshot, 0, count)
	for i := 0; i < count; i++ {
		counts := make(map[string]int, len(Statuses))
		moved := total * i / max(count-1, 1)
		counts["py3-only"] = moved
		counts["idle"] = total - moved
		for _, s := range Statuses[1 : len(Statuses)-1] {
			counts[s] = (i + len(s)) % 4
		}
		snapshots = append(snapshots, Snapshot{
			Date:   start.Add(time.Duration(i) * step),
			Counts: counts,
		})
	}
	return g.WriteHistory(name, snapshots)
}

// WriteHistory writes snapshots to name under the base directory, one row per
// status with statuses in alphabetical order. Snapshots without a commit get a
// generated one.
func (g *HistoryGenerator) WriteHistory(name string, snapshots []Snapshot) (string, error) {
	if err := os.MkdirAll(g.baseDir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(g.baseDir, name)
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"commit", "date", "status", "num_packages"}); err != nil {
		return "", err
	}
	for i, snap := range snapshots {
		commit := snap.Commit
		if commit == "" {
			commit = fmt.Sprintf("%07x", 0xabc000+i)
		}
		statuses := make([]string, 0, len(snap.Counts))
		for s := range snap.Counts {
			statuses = append(statuses, s)
		}
		sort.Strings(statuses)
		for _, s := range statuses {
			row := []string{commit, snap.Date.Format(CommitDateLayout), s, strconv.Itoa(snap.Counts[s])}
			if err := w.Write(row); err != nil {
				return "", err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return path, file.Close()
}

// CreateEmptyHistory writes a history holding only the header row.
func (g *HistoryGenerator) CreateEmptyHistory(name string) (string, error) {
	return g.WriteHistory(name, nil)
}

// CleanupTestData removes the base directory.
func (g *HistoryGenerator) CleanupTestData() error {
	return os.RemoveAll(g.baseDir)
}
