package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zmcado0/femme-futures-coop/internal/logger"
)

// Watch emits a value after content or manifest changes settle. The
// channel has a buffer of one so pending notifications coalesce, and it
// is closed when ctx is cancelled or the source is closed.
func (s *Source) Watch(ctx context.Context) (<-chan struct{}, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	s.mu.Unlock()

	dirs := []string{s.ContentRoot()}
	if manifestDir := filepath.Dir(s.ManifestFile()); manifestDir != dirs[0] {
		dirs = append(dirs, manifestDir)
	}
	for _, dir := range dirs {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			return nil, fmt.Errorf("watch %s: not a directory", dir)
		}
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = w.Close()
		return nil, ErrClosed
	}
	s.watchers = append(s.watchers, w)
	s.mu.Unlock()

	out := make(chan struct{}, 1)
	go s.watchLoop(ctx, w, out)
	return out, nil
}

func (s *Source) watchLoop(ctx context.Context, w *fsnotify.Watcher, out chan<- struct{}) {
	defer close(out)
	defer func() { _ = w.Close() }()

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if !s.handleFsEvent(event) {
				continue
			}
			logger.Debug("watch: %s %s", event.Op, event.Name)
			if timer == nil {
				timer = time.NewTimer(s.debounce)
			} else {
				timer.Reset(s.debounce)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			select {
			case out <- struct{}{}:
			default:
			}

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logger.Warn("watch error: %v", err)
		}
	}
}

// handleFsEvent reports whether an event should trigger a reload. Chmod
// events, hidden files and editor temp files are ignored.
func (s *Source) handleFsEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	if isHidden(event.Name) {
		return false
	}
	if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
		return false
	}
	return true
}

// isHidden matches dot files and editor backups such as "~$draft.docx".
func isHidden(path string) bool {
	if path == "" {
		return false
	}
	name := filepath.Base(path)
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~") || strings.HasSuffix(name, "~")
}
