package util

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/bytedance/sonic"
)

// formatEntry serializes an entry as a single line without the trailing newline.
func formatEntry(entry LogEntry, format LogFormat) (string, error) {
	if format == FormatJSON {
		data, err := sonic.Marshal(entry)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	line := fmt.Sprintf("%s [%s] %s", entry.Timestamp.Format("2006/01/02 15:04:05"), entry.Level, entry.Message)
	if len(entry.Fields) > 0 {
		line += " " + sortedFields(entry.Fields)
	}
	return line, nil
}

// WriterOutput writes entries to an io.Writer.
type WriterOutput struct {
	mu     sync.Mutex
	writer io.Writer
	format LogFormat
	closer io.Closer
}

// NewConsoleOutput writes to w, typically os.Stderr. Close leaves w open.
func NewConsoleOutput(w io.Writer, format LogFormat) Output {
	return &WriterOutput{writer: w, format: format}
}

// NewFileOutput appends to the file at path.
func NewFileOutput(path string, format LogFormat) (Output, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	return &WriterOutput{writer: file, format: format, closer: file}, nil
}

func (o *WriterOutput) Write(entry LogEntry) error {
	line, err := formatEntry(entry, o.format)
	if err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	_, err = fmt.Fprintln(o.writer, line)
	return err
}

func (o *WriterOutput) Close() error {
	if o.closer == nil {
		return nil
	}
	return o.closer.Close()
}
