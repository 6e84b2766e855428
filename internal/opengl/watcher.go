package opengl

import (
	"fmt"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"planet-render/internal/logger"
)

// ShaderWatcher recompiles programs when their source files change on disk.
// File events are collected on a background goroutine; the reload itself
// happens in Poll, which must run on the GL thread.
type ShaderWatcher struct {
	watcher  *fsnotify.Watcher
	programs []*Program

	changed chan string
	done    chan struct{}

	// overflow is set when an event was dropped on a full queue.
	overflow atomic.Bool
}

// NewShaderWatcher watches the directories holding the programs' sources.
// Directories are watched rather than files so that editors which save by
// renaming are picked up too.
func NewShaderWatcher(programs ...*Program) (*ShaderWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("shader watcher: %w", err)
	}

	dirs := map[string]bool{}
	for _, p := range programs {
		dirs[filepath.Dir(p.VertPath)] = true
		dirs[filepath.Dir(p.FragPath)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, fmt.Errorf("shader watcher: watch %q: %w", dir, err)
		}
	}

	sw := &ShaderWatcher{
		watcher:  w,
		programs: programs,
		changed:  make(chan string, 16),
		done:     make(chan struct{}),
	}
	go sw.watch()
	return sw, nil
}

func (sw *ShaderWatcher) watch() {
	for {
		select {
		case <-sw.done:
			return
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			sw.queue(filepath.Clean(event.Name))
		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			logger.Log.Warn("shader watcher", zap.Error(err))
		}
	}
}

func (sw *ShaderWatcher) queue(path string) {
	select {
	case sw.changed <- path:
	default:
		sw.overflow.Store(true)
	}
}

// stale drains the queue and returns the programs that need a rebuild. After
// a dropped event the changed path is unknown, so every program is stale.
func (sw *ShaderWatcher) stale() []*Program {
	changed := map[string]bool{}
drain:
	for {
		select {
		case path := <-sw.changed:
			changed[path] = true
		default:
			break drain
		}
	}
	if sw.overflow.Swap(false) {
		return sw.programs
	}

	var out []*Program
	for _, p := range sw.programs {
		if usesAny(p, changed) {
			out = append(out, p)
		}
	}
	return out
}

// Poll reloads every program whose sources changed since the last call and
// returns the programs that were rebuilt. A failed build is logged and the
// old program kept.
func (sw *ShaderWatcher) Poll() []*Program {
	var reloaded []*Program
	for _, p := range sw.stale() {
		if err := p.Reload(); err != nil {
			logger.Log.Error("shader reload failed, keeping previous program",
				zap.String("program", p.Name), zap.Error(err))
			continue
		}
		logger.Log.Info("shader reloaded", zap.String("program", p.Name))
		reloaded = append(reloaded, p)
	}
	return reloaded
}

func usesAny(p *Program, paths map[string]bool) bool {
	for path := range paths {
		if p.Uses(path) {
			return true
		}
	}
	return false
}

func (sw *ShaderWatcher) Close() error {
	close(sw.done)
	return sw.watcher.Close()
}
