package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/encukou/portingchart/internal/util"
)

// Extension is the suffix of history files picked up from directories.
const Extension = ".csv"

// FileScanner finds history files below a directory.
type FileScanner struct {
	baseDir string
}

// NewFileScanner creates a new FileScanner instance
func NewFileScanner(baseDir string) *FileScanner {
	return &FileScanner{baseDir: baseDir}
}

// Scan walks the directory and returns every CSV file in lexical order.
func (s *FileScanner) Scan() ([]string, error) {
	start := time.Now()
	var files []string
	dirCount := 0
	totalCount := 0

	util.LogDebug(fmt.Sprintf("Start scanning directory: %s", s.baseDir))

	err := filepath.Walk(s.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			util.LogDebug(fmt.Sprintf("Skip file (error): %s - %v", path, err))
			return nil
		}
		if info.IsDir() {
			dirCount++
			return nil
		}

		totalCount++
		if strings.HasSuffix(strings.ToLower(path), Extension) {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)

	util.LogDebug(fmt.Sprintf("File scan completed: duration %v, scanned %d directories, %d files, found %d CSV files",
		time.Since(start), dirCount, totalCount, len(files)))

	return files, err
}

// Resolve expands inputs into a list of files. Directories contribute the CSV
// files they contain; plain paths are kept whatever their extension. Duplicates
// are dropped, first occurrence wins.
func Resolve(inputs []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, in := range inputs {
		info, err := os.Stat(in)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(filepath.Clean(in))
			continue
		}
		found, err := NewFileScanner(in).Scan()
		if err != nil {
			return nil, err
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("no %s files in %s", Extension, in)
		}
		for _, f := range found {
			add(f)
		}
	}
	return files, nil
}
