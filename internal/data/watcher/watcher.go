// Package watcher reports changes to history files.
package watcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/encukou/portingchart/internal/util"
)

// DefaultDebounce coalesces the burst of events a single save produces.
const DefaultDebounce = 200 * time.Millisecond

// Event reports that a watched file changed.
type Event struct {
	Path      string
	Operation string
}

// FileWatcher watches the directories holding a set of files so that editors
// replacing a file by rename are noticed too. Only events for the given files
// are delivered.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]bool
	events   chan Event
	debounce time.Duration
	once     sync.Once
}

// NewFileWatcher starts watching files. Events are delivered until ctx is done
// or Close is called.
func NewFileWatcher(ctx context.Context, files []string, debounce time.Duration) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	fw := &FileWatcher{
		watcher:  w,
		files:    make(map[string]bool, len(files)),
		events:   make(chan Event, 16),
		debounce: debounce,
	}

	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			w.Close()
			return nil, err
		}
		fw.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, err
		}
	}

	go fw.processEvents(ctx)
	return fw, nil
}

func (fw *FileWatcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return fw.files[abs]
}

func (fw *FileWatcher) processEvents(ctx context.Context) {
	defer close(fw.events)

	var (
		pending *Event
		timer   *time.Timer
		fire    <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			fw.Close()
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if !fw.relevant(event) {
				continue
			}
			pending = &Event{Path: event.Name, Operation: event.Op.String()}
			if fw.debounce <= 0 {
				fw.emit(ctx, *pending)
				pending = nil
				continue
			}
			if timer == nil {
				timer = time.NewTimer(fw.debounce)
			} else {
				timer.Reset(fw.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if pending != nil {
				fw.emit(ctx, *pending)
				pending = nil
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			util.LogError("File monitoring error: " + err.Error())
		}
	}
}

func (fw *FileWatcher) emit(ctx context.Context, e Event) {
	util.LogDebug("Source changed", util.F("file", e.Path), util.F("op", e.Operation))
	select {
	case fw.events <- e:
	case <-ctx.Done():
	}
}

// Events returns the change notifications. The channel is closed when watching
// stops.
func (fw *FileWatcher) Events() <-chan Event {
	return fw.events
}

// Close stops watching.
func (fw *FileWatcher) Close() error {
	var err error
	fw.once.Do(func() {
		err = fw.watcher.Close()
	})
	return err
}
