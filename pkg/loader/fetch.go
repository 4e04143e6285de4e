package loader

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/model"
)

// Status is one of the three mutually exclusive fetch outcomes.
type Status int

const (
	StatusLoading Status = iota
	StatusError
	StatusReady
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	case StatusReady:
		return "ready"
	default:
		return "unknown"
	}
}

// State is what the gallery view sees of the data source.
type State struct {
	Status Status
	Posts  []model.Post
	Err    error
	Report LoadReport
}

// Loading is the state before the first fetch completes.
func Loading() State {
	return State{Status: StatusLoading}
}

// Failed wraps a fetch error.
func Failed(err error) State {
	return State{Status: StatusError, Err: err}
}

// Ready carries a loaded post list.
func Ready(posts []model.Post, report LoadReport) State {
	return State{Status: StatusReady, Posts: posts, Report: report}
}

// Message is the user-facing error text, or "" when not in error.
func (s State) Message() string {
	if s.Status != StatusError || s.Err == nil {
		return ""
	}
	return s.Err.Error()
}

// RetryConfig tunes the exponential backoff used between fetch attempts.
type RetryConfig struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
}

// DefaultRetryConfig retries three times starting at half a second.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:      3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		Multiplier:      1.5,
	}
}

// Fetcher loads a source with retries and reports the result as a State.
type Fetcher struct {
	source Source
	retry  RetryConfig
	log    zerolog.Logger
}

// NewFetcher creates a fetcher for src.
func NewFetcher(src Source, retry RetryConfig, log zerolog.Logger) *Fetcher {
	return &Fetcher{source: src, retry: retry, log: log}
}

// Source returns the underlying source.
func (f *Fetcher) Source() Source {
	return f.source
}

// Fetch loads the posts, retrying transient failures. Missing files and
// unsupported or unparseable sources fail immediately.
func (f *Fetcher) Fetch(ctx context.Context) State {
	var (
		posts  []model.Post
		report LoadReport
	)
	operation := func() error {
		var err error
		posts, report, err = f.source.Load(ctx)
		if err != nil && isPermanent(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = f.retry.InitialInterval
	bo.MaxInterval = f.retry.MaxInterval
	bo.Multiplier = f.retry.Multiplier
	bo.Reset()
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, f.retry.MaxRetries), ctx)

	notify := func(err error, wait time.Duration) {
		f.log.Warn().
			Err(err).
			Str("source", f.source.String()).
			Str("next_attempt_in", wait.Round(time.Millisecond).String()).
			Msg("gallery fetch failed, retrying")
	}

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		f.log.Error().Err(err).Str("source", f.source.String()).Msg("gallery fetch failed")
		return Failed(err)
	}

	f.log.Info().
		Str("source", f.source.String()).
		Int("loaded", report.Loaded).
		Int("malformed", report.Malformed).
		Int("invalid", report.Invalid).
		Msg("gallery loaded")
	return Ready(posts, report)
}

func isPermanent(err error) bool {
	return errors.Is(err, ErrNoPosts) ||
		errors.Is(err, ErrUnsupportedSource) ||
		errors.Is(err, context.Canceled)
}
