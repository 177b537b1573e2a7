package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zmcado0/femme-futures-coop/internal/adapters/driven/source/manifest"
	"github.com/zmcado0/femme-futures-coop/internal/core/domain"
	"github.com/zmcado0/femme-futures-coop/internal/core/ports/driven"
	"github.com/zmcado0/femme-futures-coop/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.Source = (*Source)(nil)

// MaxDocumentSize caps the bytes read for one response.
const MaxDocumentSize = 64 << 20

// Source reads the manifest and documents from a web server.
type Source struct {
	base         *url.URL
	manifestPath string
	contentDir   string
	client       *http.Client
	timeout      time.Duration
	limiter      *RateLimiter
}

// Option configures a Source.
type Option func(*Source)

// WithHTTPClient sets the client used for requests.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Source) {
		if c != nil {
			s.client = c
		}
	}
}

// WithTimeout bounds each request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Source) {
		s.timeout = d
	}
}

// WithRateLimit caps requests per second. Zero means unlimited.
func WithRateLimit(perSecond float64) Option {
	return func(s *Source) {
		s.limiter = NewRateLimiter(perSecond)
	}
}

// New creates a source for the archive at base.
func New(base, manifestPath, contentDir string, opts ...Option) (*Source, error) {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return nil, fmt.Errorf("%w: source url: %v", domain.ErrInvalidInput, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: source url must be http or https, got %q", domain.ErrInvalidInput, base)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: source url has no host", domain.ErrInvalidInput)
	}

	s := &Source{
		base:         u,
		manifestPath: manifestPath,
		contentDir:   contentDir,
		client:       http.DefaultClient,
		limiter:      NewRateLimiter(0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Location returns the base URL.
func (s *Source) Location() string {
	return s.base.String()
}

// ManifestURL returns the manifest address.
func (s *Source) ManifestURL() string {
	return s.resolve(splitPath(s.manifestPath)...)
}

// DocumentURL returns the address of one identifier. Each path segment
// of the identifier is escaped.
func (s *Source) DocumentURL(identifier string) string {
	segments := append(splitPath(s.contentDir), splitPath(identifier)...)
	return s.resolve(segments...)
}

// Load fetches the manifest once. There is no retry.
func (s *Source) Load(ctx context.Context) ([]string, error) {
	data, err := s.get(ctx, s.ManifestURL())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrManifestUnavailable, err)
	}
	return manifest.Parse(data)
}

// Fetch returns the bytes for identifier.
func (s *Source) Fetch(ctx context.Context, identifier string) ([]byte, error) {
	for _, seg := range strings.Split(identifier, "/") {
		if seg == ".." {
			return nil, fmt.Errorf("%w: %q escapes the content directory", domain.ErrInvalidInput, identifier)
		}
	}
	return s.get(ctx, s.DocumentURL(identifier))
}

func (s *Source) get(ctx context.Context, target string) ([]byte, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	logger.Debug("GET %s", target)
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", target, err)
	}
	defer resp.Body.Close()

	s.limiter.UpdateFromResponse(resp)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: target}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", target, err)
	}
	if len(data) > MaxDocumentSize {
		return nil, fmt.Errorf("%s exceeds %d bytes", target, MaxDocumentSize)
	}
	return data, nil
}

func (s *Source) resolve(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, seg := range segments {
		escaped[i] = url.PathEscape(seg)
	}
	u := *s.base
	u.RawQuery = ""
	u.Fragment = ""
	u.Path = ""
	u.RawPath = ""
	base := strings.TrimRight(s.base.EscapedPath(), "/")
	return u.String() + base + "/" + strings.Join(escaped, "/")
}

func splitPath(p string) []string {
	var out []string
	for _, seg := range strings.Split(p, "/") {
		if seg != "" && seg != "." {
			out = append(out, seg)
		}
	}
	return out
}
