package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zmcado0/femme-futures-coop/internal/adapters/driven/source/manifest"
	"github.com/zmcado0/femme-futures-coop/internal/core/domain"
	"github.com/zmcado0/femme-futures-coop/internal/core/ports/driven"
)

// Ensure Source implements the interfaces.
var (
	_ driven.Source        = (*Source)(nil)
	_ driven.ChangeWatcher = (*Source)(nil)
)

// DefaultDebounce coalesces bursts of file events into one notification.
const DefaultDebounce = 250 * time.Millisecond

// ErrClosed is returned by Watch after Close.
var ErrClosed = errors.New("filesystem source is closed")

// Source reads the manifest and documents from disk.
type Source struct {
	root         string
	manifestPath string
	contentDir   string
	debounce     time.Duration

	mu       sync.Mutex
	closed   bool
	watchers []*fsnotify.Watcher
}

// New creates a source rooted at root.
func New(root, manifestPath, contentDir string) *Source {
	return &Source{
		root:         root,
		manifestPath: manifestPath,
		contentDir:   contentDir,
		debounce:     DefaultDebounce,
	}
}

// SetDebounce changes the watch debounce interval.
func (s *Source) SetDebounce(d time.Duration) {
	s.debounce = d
}

// Location returns the root directory.
func (s *Source) Location() string {
	return s.root
}

// ManifestFile returns the manifest path on disk.
func (s *Source) ManifestFile() string {
	return filepath.Join(s.root, filepath.FromSlash(s.manifestPath))
}

// ContentRoot returns the content directory on disk.
func (s *Source) ContentRoot() string {
	return filepath.Join(s.root, filepath.FromSlash(s.contentDir))
}

// Load reads and parses the manifest.
func (s *Source) Load(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrManifestUnavailable, err)
	}
	data, err := os.ReadFile(s.ManifestFile())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrManifestUnavailable, err)
	}
	return manifest.Parse(data)
}

// Fetch reads the bytes for identifier. Identifiers that would resolve
// outside the content directory are rejected.
func (s *Source) Fetch(ctx context.Context, identifier string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := s.resolve(identifier)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", identifier, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", identifier)
	}
	return os.ReadFile(path)
}

func (s *Source) resolve(identifier string) (string, error) {
	rel := filepath.FromSlash(identifier)
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("%w: %q escapes the content directory", domain.ErrInvalidInput, identifier)
	}
	return filepath.Join(s.ContentRoot(), rel), nil
}

// Close stops all watchers. It is safe to call more than once.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	var errs []error
	for _, w := range s.watchers {
		if err := w.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.watchers = nil
	return errors.Join(errs...)
}
