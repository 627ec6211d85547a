// Package inbox watches a directory and uploads every document dropped into it
package inbox

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yildizm/TransformoDocs/internal/logger"
)

// Config configures a Watcher
type Config struct {
	Dir         string
	Extensions  []string      // allowed extensions, lowercase, without '.'
	Debounce    time.Duration // coalesce write bursts
	InitialScan bool          // emit files already present
}

// Watcher discovers documents under a directory tree
type Watcher struct {
	cfg  Config
	exts map[string]struct{}
	log  *logger.Logger
}

// NewWatcher validates cfg and creates a watcher
func NewWatcher(cfg Config, log *logger.Logger) (*Watcher, error) {
	if cfg.Dir == "" {
		return nil, errors.New("no directory provided")
	}
	info, err := os.Stat(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("cannot watch %s: %w", cfg.Dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("cannot watch %s: not a directory", cfg.Dir)
	}
	if len(cfg.Extensions) == 0 {
		return nil, errors.New("no extensions allowed")
	}
	if log == nil {
		log = logger.Nop()
	}

	exts := make(map[string]struct{}, len(cfg.Extensions))
	for _, ext := range cfg.Extensions {
		exts[strings.TrimPrefix(strings.ToLower(ext), ".")] = struct{}{}
	}

	return &Watcher{cfg: cfg, exts: exts, log: log.WithComponent("inbox")}, nil
}

// Allowed reports whether path has an allowed extension
func (w *Watcher) Allowed(path string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	_, ok := w.exts[ext]
	return ok
}

// Watch starts watching and returns a channel of settled document paths.
// Both channels are closed once ctx is done.
func (w *Watcher) Watch(ctx context.Context) (<-chan string, <-chan error, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	var initial []string
	err = filepath.WalkDir(w.cfg.Dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return fw.Add(path)
		}
		if w.cfg.InitialScan && w.Allowed(path) {
			initial = append(initial, path)
		}
		return nil
	})
	if err != nil {
		_ = fw.Close()
		return nil, nil, fmt.Errorf("failed to watch %s: %w", w.cfg.Dir, err)
	}

	paths := make(chan string, 64)
	errs := make(chan error, 1)

	go w.loop(ctx, fw, initial, paths, errs)

	w.log.Info("watching %s for %d extension(s)", w.cfg.Dir, len(w.exts))
	return paths, errs, nil
}

func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher, initial []string, paths chan<- string, errs chan<- error) {
	defer close(paths)
	defer close(errs)
	defer func() { _ = fw.Close() }()

	emit := func(path string) bool {
		select {
		case paths <- path:
			return true
		case <-ctx.Done():
			return false
		}
	}

	for _, path := range initial {
		if !emit(path) {
			return
		}
	}

	pending := map[string]struct{}{}
	timer := time.NewTimer(time.Hour)
	timer.Stop()

	flush := func() bool {
		for path := range pending {
			delete(pending, path)
			if !isFile(path) {
				continue
			}
			if !emit(path) {
				return false
			}
		}
		return true
	}

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) && isDir(event.Name) {
				if err := fw.Add(event.Name); err != nil {
					w.log.Warn("failed to watch new directory %s: %v", event.Name, err)
				}
				continue
			}
			if !w.Allowed(event.Name) || !(event.Has(fsnotify.Create) || event.Has(fsnotify.Write) || event.Has(fsnotify.Rename)) {
				continue
			}

			w.log.Debug("%s %s", event.Op, event.Name)
			pending[event.Name] = struct{}{}
			if w.cfg.Debounce <= 0 {
				if !flush() {
					return
				}
				continue
			}
			timer.Reset(w.cfg.Debounce)

		case <-timer.C:
			if !flush() {
				return
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watcher error: %v", err)
			select {
			case errs <- err:
			default:
			}
		}
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
