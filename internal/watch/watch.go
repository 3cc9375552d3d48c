// Package watch reports edits to a fixed set of files, debounced, so plans
// can be re-evaluated as they are saved.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Debounce is how long a file must stay quiet before its change is reported.
const Debounce = 100 * time.Millisecond

// ChangeKind describes the type of file change detected.
type ChangeKind int

const (
	ChangeModified ChangeKind = iota // File written or recreated
	ChangeRemoved                    // File deleted or renamed away
)

// String returns "modified" or "removed".
func (k ChangeKind) String() string {
	if k == ChangeRemoved {
		return "removed"
	}
	return "modified"
}

// Change is a settled change to one watched file.
type Change struct {
	Kind ChangeKind
	File string // Absolute path
}

// Watcher monitors files by watching their parent directories with fsnotify.
type Watcher struct {
	Changes <-chan Change // Read-only external channel
	Errors  <-chan error

	files   map[string]bool
	dirs    []string
	changes chan Change
	errs    chan error
	stop    chan struct{}
	done    chan struct{}
	watcher *fsnotify.Watcher
}

// New creates a watcher for files. Files need not exist yet, but their
// directories must.
func New(files ...string) (*Watcher, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("watch: no files given")
	}
	set := make(map[string]bool, len(files))
	var dirs []string
	seenDir := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("watch: resolve %s: %w", f, err)
		}
		set[abs] = true
		if d := filepath.Dir(abs); !seenDir[d] {
			seenDir[d] = true
			dirs = append(dirs, d)
		}
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	ch := make(chan Change, 16)
	errs := make(chan error, 4)
	return &Watcher{
		Changes: ch,
		Errors:  errs,
		files:   set,
		dirs:    dirs,
		changes: ch,
		errs:    errs,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
		watcher: fw,
	}, nil
}

// Start begins watching.
func (w *Watcher) Start() error {
	for _, d := range w.dirs {
		if err := w.watcher.Add(d); err != nil {
			w.watcher.Close()
			return fmt.Errorf("watch: add %s: %w", d, err)
		}
	}
	go w.loop()
	return nil
}

// Stop closes the watcher and its channels. It blocks until the event loop
// has exited.
func (w *Watcher) Stop() {
	close(w.stop)
	w.watcher.Close()
	<-w.done
	close(w.changes)
	close(w.errs)
}

func (w *Watcher) loop() {
	defer close(w.done)

	// Debounce: track last event time per file.
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(Debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-w.stop:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			name := filepath.Clean(event.Name)
			if !w.files[name] {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				pending[name] = time.Now()
			}

		case now := <-ticker.C:
			for file, t := range pending {
				if now.Sub(t) >= Debounce {
					delete(pending, file)
					if !w.emit(file) {
						return
					}
				}
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
				// Drop when nobody is reading errors.
			}
		}
	}
}

// emit reports file's current state. It returns false once the watcher is
// stopping.
func (w *Watcher) emit(file string) bool {
	c := Change{Kind: ChangeModified, File: file}
	if _, err := os.Stat(file); err != nil {
		c.Kind = ChangeRemoved
	}
	select {
	case w.changes <- c:
		return true
	case <-w.stop:
		return false
	}
}
