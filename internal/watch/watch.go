// Package watch implements watch mode (§6 option table's `watch`): after
// a sync parse, keep watching the project root for further changes and
// trigger debounced incremental re-parses. Concurrent parses of the same
// project are disallowed (§5 "Shared-resource policy"), enforced here with
// a per-project mutex.
package watch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tsgraph/tsgraph/internal/config"
	"github.com/tsgraph/tsgraph/internal/parseengine"
)

// projectLocks enforces "concurrent parses of the same project are
// disallowed" across every watcher's reparses in this process. A parse
// started directly through parseengine.Engine.Parse does not take this lock.
var projectLocks sync.Map // projectID -> *sync.Mutex

func lockFor(projectID string) *sync.Mutex {
	m, _ := projectLocks.LoadOrStore(projectID, &sync.Mutex{})
	return m.(*sync.Mutex)
}

// Watcher watches a project root and triggers debounced incremental parses.
type Watcher struct {
	engine *parseengine.Engine
	req    config.ParseRequest
	fsw    *fsnotify.Watcher
}

// New starts an fsnotify watch on req.ProjectPath.
func New(engine *parseengine.Engine, req config.ParseRequest) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(req.ProjectPath); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch: add %s: %w", req.ProjectPath, err)
	}
	return &Watcher{engine: engine, req: req, fsw: fsw}, nil
}

func (w *Watcher) Close() error { return w.fsw.Close() }

// Run blocks until ctx is cancelled, coalescing filesystem events within
// the request's debounce window and triggering one incremental parse per
// coalesced burst.
func (w *Watcher) Run(ctx context.Context, progress chan<- parseengine.Progress) error {
	debounce := time.Duration(w.req.WatchDebounceMs) * time.Millisecond
	if debounce <= 0 {
		debounce = time.Second
	}

	var timer *time.Timer
	trigger := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.AfterFunc(debounce, func() {
					select {
					case trigger <- struct{}{}:
					default:
					}
				})
			} else {
				timer.Reset(debounce)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			if progress != nil {
				progress <- parseengine.Progress{Type: "progress", Data: map[string]interface{}{"watchError": err.Error()}}
			}
		case <-trigger:
			w.reparse(ctx, progress)
		}
	}
}

func (w *Watcher) reparse(ctx context.Context, progress chan<- parseengine.Progress) {
	mu := lockFor(w.req.ProjectID)
	if !mu.TryLock() {
		if progress != nil {
			progress <- parseengine.Progress{Type: "progress", Data: map[string]interface{}{"skippedReparse": "project already parsing"}}
		}
		return
	}
	defer mu.Unlock()

	req := w.req
	req.ClearExisting = false
	if err := w.engine.Parse(ctx, req, progress); err != nil && progress != nil {
		progress <- parseengine.Progress{Type: "error", Err: err}
	}
}
