package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period WatchFile waits for before reporting
// a change.
const DefaultDebounce = 100 * time.Millisecond

// WatchFile calls onChange after path is written, created or renamed into
// place. Bursts of events within debounce collapse into one call. The
// parent directory is watched so editors that replace the file atomically
// are still seen. WatchFile blocks until ctx is done.
func WatchFile(ctx context.Context, path string, debounce time.Duration, onChange func()) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return ErrWatcherStopped
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				if ctx.Err() == nil {
					onChange()
				}
			})
			mu.Unlock()
		case err, ok := <-w.Errors:
			if !ok {
				return ErrWatcherStopped
			}
			return fmt.Errorf("watching %s: %w", abs, err)
		}
	}
}

// Watch reloads the configuration at path on every change and hands the
// result to fn. A file that fails to load is reported through the error
// argument and the previous configuration stays in effect for the caller.
func Watch(ctx context.Context, path string, fn func(*Config, error)) error {
	return WatchFile(ctx, path, DefaultDebounce, func() {
		fn(Load(path))
	})
}
