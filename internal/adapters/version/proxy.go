// Package version looks up the latest published release through the Go module proxy.
package version

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/felixgeelhaar/fortify/timeout"
	"go.trai.ch/rewatch/internal/build"
	"go.trai.ch/rewatch/internal/core/domain"
	"go.trai.ch/rewatch/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/mod/module"
)

var _ ports.VersionSource = (*ProxySource)(nil)

const (
	// DefaultProxyURL is the public Go module proxy.
	DefaultProxyURL = "https://proxy.golang.org"

	lookupTimeout = 5 * time.Second
	maxAttempts   = 2
	maxBodySize   = 64 << 10
)

// ProxySource implements ports.VersionSource with the module proxy's @latest endpoint.
type ProxySource struct {
	client   *http.Client
	proxyURL string
	module   string
	delay    time.Duration
}

// Option configures a ProxySource.
type Option func(*ProxySource)

// WithProxyURL queries proxyURL instead of the public proxy.
func WithProxyURL(proxyURL string) Option {
	return func(s *ProxySource) {
		s.proxyURL = strings.TrimSuffix(proxyURL, "/")
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *ProxySource) {
		s.client = client
	}
}

// WithRetryDelay sets the delay before the second attempt.
func WithRetryDelay(delay time.Duration) Option {
	return func(s *ProxySource) {
		s.delay = delay
	}
}

// NewProxySource creates a ProxySource for the rewatch module.
func NewProxySource(opts ...Option) *ProxySource {
	s := &ProxySource{
		client:   http.DefaultClient,
		proxyURL: DefaultProxyURL,
		module:   build.ModulePath,
		delay:    500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type latestInfo struct {
	Version string    `json:"Version"`
	Time    time.Time `json:"Time"`
}

// Latest returns the latest published version of the module.
func (s *ProxySource) Latest(ctx context.Context) (string, error) {
	r := retry.New[string](retry.Config{
		MaxAttempts:   maxAttempts,
		InitialDelay:  s.delay,
		BackoffPolicy: retry.BackoffExponential,
	})
	t := timeout.New[string](timeout.Config{
		DefaultTimeout: lookupTimeout,
	})

	v, err := t.Execute(ctx, lookupTimeout, func(ctx context.Context) (string, error) {
		return r.Do(ctx, s.fetch)
	})
	if err != nil {
		return "", errors.Join(domain.ErrVersionCheckFailed, zerr.With(err, "module", s.module))
	}
	return v, nil
}

func (s *ProxySource) fetch(ctx context.Context) (string, error) {
	escaped, err := module.EscapePath(s.module)
	if err != nil {
		return "", zerr.Wrap(err, "invalid module path")
	}

	url := fmt.Sprintf("%s/%s/@latest", s.proxyURL, escaped)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", zerr.Wrap(err, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", zerr.Wrap(err, "request failed")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", zerr.With(zerr.New("unexpected response"), "status", resp.StatusCode)
	}

	var info latestInfo
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&info); err != nil {
		return "", zerr.Wrap(err, "failed to decode response")
	}
	if info.Version == "" {
		return "", zerr.New("response has no version")
	}
	return info.Version, nil
}
