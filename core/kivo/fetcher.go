package kivo

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"kivo-exporter/core/cache"

	"go.uber.org/zap"
)

// apiCodeOK is the success code the API embeds in its own payload.
// Only responses carrying it are worth caching.
const apiCodeOK = 200

// Fetcher resolves student and spine payloads cache-first. Every call that
// actually reaches the network increments a per-kind counter; cache hits
// cost nothing and are not counted.
type Fetcher struct {
	httpClient *http.Client
	store      *cache.Store
	logger     *zap.Logger
	cfg        Config

	studentCalls atomic.Int64
	spineCalls   atomic.Int64
}

// NewFetcher creates a fetcher with a fixed per-request timeout and the
// identifying User-Agent from the configuration.
func NewFetcher(cfg Config, store *cache.Store, logger *zap.Logger) *Fetcher {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 10
	}
	return &Fetcher{
		httpClient: &http.Client{Timeout: time.Duration(timeout) * time.Second},
		store:      store,
		logger:     logger,
		cfg:        cfg,
	}
}

// Stats reports how many fetches reached the network.
type Stats struct {
	StudentCalls int64
	SpineCalls   int64
}

// Stats returns the current network-call counters.
func (f *Fetcher) Stats() Stats {
	return Stats{
		StudentCalls: f.studentCalls.Load(),
		SpineCalls:   f.spineCalls.Load(),
	}
}

// FetchStudent resolves a student payload. The returned flag reports
// whether the payload came from the cache; callers use it to skip rate
// pacing on cache hits. A single network attempt is made, never retried.
func (f *Fetcher) FetchStudent(ctx context.Context, id int) (*StudentResponse, bool, error) {
	if raw, ok := f.store.Get(cache.KindStudent, id); ok {
		var resp StudentResponse
		if err := json.Unmarshal(raw, &resp); err == nil {
			return &resp, true, nil
		}
		f.logger.Warn("cached student entry no longer decodes, refetching",
			zap.Int("student_id", id))
	}

	f.studentCalls.Add(1)
	body, err := f.get(ctx, f.cfg.StudentURL, id)
	if err != nil {
		return nil, false, err
	}

	var resp StudentResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, false, &APIError{Kind: FailureInvalidFormat, Detail: err.Error()}
	}

	// Only a payload that reports success on its own terms is cached;
	// anything else may be an error page we do not want to replay.
	if resp.Code == apiCodeOK {
		f.store.Put(cache.KindStudent, id, body)
	}
	return &resp, false, nil
}

// FetchSpine resolves a spine payload. A response is only valid when it is
// an object with a nested data object; anything else is rejected as
// malformed and not cached.
func (f *Fetcher) FetchSpine(ctx context.Context, id int) (*SpineData, error) {
	if raw, ok := f.store.Get(cache.KindSpine, id); ok {
		var resp SpineResponse
		if err := json.Unmarshal(raw, &resp); err == nil && resp.Data != nil {
			return resp.Data, nil
		}
		f.logger.Warn("cached spine entry no longer decodes, refetching",
			zap.Int("spine_id", id))
	}

	f.spineCalls.Add(1)
	body, err := f.get(ctx, f.cfg.SpineURL, id)
	if err != nil {
		return nil, err
	}

	var resp SpineResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &APIError{Kind: FailureInvalidFormat, Detail: err.Error()}
	}
	if resp.Data == nil {
		f.logger.Warn("spine response has no data payload", zap.Int("spine_id", id))
		return nil, &APIError{Kind: FailureInvalidFormat}
	}

	f.store.Put(cache.KindSpine, id, body)
	return resp.Data, nil
}

// get performs a single GET against base+id and classifies every failure
// into an APIError.
func (f *Fetcher) get(ctx context.Context, base string, id int) ([]byte, error) {
	url := base + strconv.Itoa(id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &APIError{Kind: FailureTransport, Detail: err.Error()}
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)

	res, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Kind: FailureTransport, Detail: err.Error()}
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, &APIError{Kind: FailureNotFound}
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &APIError{Kind: FailureHTTPStatus, Detail: res.Status}
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &APIError{Kind: FailureTransport, Detail: err.Error()}
	}
	return body, nil
}
