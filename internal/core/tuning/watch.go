package tuning

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zeusync/steering/internal/core/observability/log"
)

const DefaultDebounce = 100 * time.Millisecond

// Watcher reloads a weight file whenever it changes and delivers the parsed set on
// Updates. The host applies updates between steps; the watcher never touches a tree.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	log      log.Log

	Updates chan *WeightSet
	Errors  chan error

	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

type WatchOption func(*Watcher)

// WithDebounce sets how long the file must stay quiet before it is reloaded.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) { w.debounce = d }
}

func WithLogger(l log.Log) WatchOption {
	return func(w *Watcher) { w.log = l }
}

// NewWatcher watches the directory holding path, so editors that replace the file on
// save are still picked up.
func NewWatcher(path string, opts ...WatchOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, err
	}

	w := &Watcher{
		watcher:  fw,
		path:     abs,
		debounce: DefaultDebounce,
		log:      log.NewNop(),
		Updates:  make(chan *WeightSet, 1),
		Errors:   make(chan error, 1),
		closeCh:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	go w.run()
	return w, nil
}

func (w *Watcher) Path() string { return w.path }

// Close stops the watcher and closes both channels.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Updates)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			ws, err := LoadWeightsFile(w.path)
			if err != nil {
				w.report(err)
				continue
			}
			w.log.Debug("weights reloaded", log.String("path", w.path), log.Int("nodes", len(ws.Weights)))
			select {
			case w.Updates <- ws:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.report(err)
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) report(err error) {
	select {
	case w.Errors <- err:
	default:
		w.log.Warn("weights watcher error dropped", log.String("path", w.path), log.Error(err))
	}
}
