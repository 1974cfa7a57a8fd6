package syncer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrExternalBlocked is returned when a download targets a remote host
// without an active permit.
var ErrExternalBlocked = errors.New("external host fetch not permitted")

// Fetcher downloads remote files to temporary local paths. External hosts
// are blocked by default; media resolution takes a scoped permit for the
// duration of a single fetch.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration

	mu      sync.Mutex
	permits int
}

// NewFetcher creates a fetcher with the given per-download timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   timeout,
		ResponseHeaderTimeout: timeout,
	}
	return &Fetcher{
		client:  &http.Client{Transport: transport, Timeout: timeout},
		timeout: timeout,
	}
}

// AllowExternal grants a permit for external fetches and returns the release
// function. Callers must release on every exit path.
func (f *Fetcher) AllowExternal() (release func()) {
	f.mu.Lock()
	f.permits++
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			f.permits--
			f.mu.Unlock()
		})
	}
}

func (f *Fetcher) externalAllowed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.permits > 0
}

// Download fetches the URL to a temporary file and returns its path. Any
// partial file is removed before an error is returned.
func (f *Fetcher) Download(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid media URL %q", rawURL)
	}
	if !f.externalAllowed() {
		return "", ErrExternalBlocked
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request for %q: %w", rawURL, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %q: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %q: unexpected status %d", rawURL, resp.StatusCode)
	}

	tmp, err := os.CreateTemp("", "sync-media-"+uuid.NewString())
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("download %q: %w", rawURL, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close temp file: %w", err)
	}

	return tmp.Name(), nil
}
