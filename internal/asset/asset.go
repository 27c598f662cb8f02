// Package asset fetches remote content without blocking the frame loop.
//
// A fetch returns a [Handle] immediately; the caller polls it once per tick
// until it leaves Pending. Handles are safe for concurrent use: the fetch
// goroutine completes them while the frame loop polls.
package asset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

const (
	DefaultTimeout  = 10 * time.Second
	DefaultMaxBytes = 1 << 20
)

var (
	ErrStatus    = errors.New("asset: unexpected status")
	ErrTooLarge  = errors.New("asset: response too large")
	ErrCancelled = errors.New("asset: cancelled")
)

type Status int

const (
	Pending Status = iota
	Ready
	Failed
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

type Handle struct {
	mu     sync.Mutex
	status Status
	data   []byte
	err    error
	cancel context.CancelFunc
}

// NewHandle returns a pending handle. cancel may be nil.
func NewHandle(cancel context.CancelFunc) *Handle {
	return &Handle{cancel: cancel}
}

// Complete resolves the handle. Only the first call has any effect.
func (h *Handle) Complete(data []byte, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.status != Pending {
		return
	}
	if err != nil {
		h.status, h.err = Failed, err
		return
	}
	h.status, h.data = Ready, data
}

func (h *Handle) Poll() (Status, []byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status, h.data, h.err
}

// Cancel abandons a pending fetch. The handle reports Failed with
// ErrCancelled.
func (h *Handle) Cancel() {
	if h.cancel != nil {
		h.cancel()
	}
	h.Complete(nil, ErrCancelled)
}

type Fetcher interface {
	Fetch(ctx context.Context, url string) *Handle
}

// HTTPFetcher fetches over HTTP GET.
type HTTPFetcher struct {
	client   *http.Client
	maxBytes int64
	log      *slog.Logger
}

func NewHTTPFetcher(log *slog.Logger) *HTTPFetcher {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &HTTPFetcher{
		client:   &http.Client{Timeout: DefaultTimeout},
		maxBytes: DefaultMaxBytes,
		log:      log,
	}
}

// WithTimeout sets a custom request timeout.
func (f *HTTPFetcher) WithTimeout(d time.Duration) *HTTPFetcher {
	f.client.Timeout = d
	return f
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := NewHandle(cancel)
	go func() {
		defer cancel()
		data, err := f.get(ctx, url)
		if err != nil {
			f.log.Warn("asset fetch failed", "url", url, "err", err)
		} else {
			f.log.Debug("asset fetched", "url", url, "bytes", len(data))
		}
		h.Complete(data, err)
	}()
	return h
}

func (f *HTTPFetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("asset: build request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("asset: get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("asset: read body: %w", err)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, ErrTooLarge
	}
	return data, nil
}
