package engine

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Default timing windows for the scheduler.
const (
	DefaultUpdateDebounce = 100 * time.Millisecond
	DefaultUpdateThrottle = 50 * time.Millisecond
	DefaultFastPathDelay  = 10 * time.Millisecond
)

// DefaultFocusDimOpacity is the dim strength applied to inactive sentences.
const DefaultFocusDimOpacity = 0.18

// ScanCache memoizes tokenizer output keyed by a content hash.
// cachemanager.InMemoryCacheManager satisfies this.
type ScanCache interface {
	Get(ctx context.Context, key string) ([]Sentence, bool)
	Set(ctx context.Context, key string, sentences []Sentence, ttl time.Duration)
}

// Options configures an Engine. The zero value is not usable; start from
// DefaultOptions.
type Options struct {
	// SentenceEndings are the terminator characters as UTF-8 bytes;
	// multi-byte terminators like 。 are valid. Default: . ! ?
	SentenceEndings []byte

	// EnableFocusMode dims all sentences except the active one.
	EnableFocusMode bool

	// FocusDimOpacity is the dim strength for inactive sentences, in [0,1].
	FocusDimOpacity float64

	// AutoScroll keeps the caret vertically centered after updates.
	AutoScroll bool

	// SmoothScroll selects smooth vs instant scrolling when AutoScroll is on.
	SmoothScroll bool

	// HeadingTags lists block markers treated as atomic heading sentences.
	// Accepted and validated, but not currently consulted by the tokenizer.
	HeadingTags []string

	// UpdateDebounce is the delay after a content-changing signal before a
	// full scan runs.
	UpdateDebounce time.Duration

	// UpdateThrottle is the delay after a navigation-only signal before the
	// active sentence is recomputed.
	UpdateThrottle time.Duration

	// FastPathDelay replaces UpdateDebounce when the character before the
	// caret is a terminator, so the new sentence activates promptly.
	FastPathDelay time.Duration

	// OnSentenceChange fires after every scan that replaced the collection,
	// with a snapshot of the new sentences (empty slice when cleared).
	OnSentenceChange func(sentences []Sentence)

	// OnActiveSentenceChange fires when the active sentence changes.
	// sentence is nil when no sentence is active.
	OnActiveSentenceChange func(index int, sentence *Sentence)

	// Tracer records a span per scan cycle. Defaults to a no-op tracer.
	Tracer trace.Tracer

	// ScanCache, when set, memoizes tokenization by content hash.
	ScanCache ScanCache

	// ScanCacheTTL bounds how long cached scans live. Zero means 10 minutes.
	ScanCacheTTL time.Duration
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		SentenceEndings: DefaultSentenceEndings,
		EnableFocusMode: true,
		FocusDimOpacity: DefaultFocusDimOpacity,
		AutoScroll:      true,
		SmoothScroll:    true,
		HeadingTags:     []string{"h1", "h2", "h3"},
		UpdateDebounce:  DefaultUpdateDebounce,
		UpdateThrottle:  DefaultUpdateThrottle,
		FastPathDelay:   DefaultFastPathDelay,
	}
}

var validHeadingTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// validate fills unset fields with defaults and rejects out-of-range values.
func (o *Options) validate() error {
	if len(o.SentenceEndings) == 0 {
		o.SentenceEndings = DefaultSentenceEndings
	}
	if o.FocusDimOpacity < 0 || o.FocusDimOpacity > 1 {
		return fmt.Errorf("focus dim opacity %v out of range [0,1]", o.FocusDimOpacity)
	}
	for _, tag := range o.HeadingTags {
		if !validHeadingTags[tag] {
			return fmt.Errorf("unknown heading tag %q", tag)
		}
	}
	if o.UpdateDebounce <= 0 {
		o.UpdateDebounce = DefaultUpdateDebounce
	}
	if o.UpdateThrottle <= 0 {
		o.UpdateThrottle = DefaultUpdateThrottle
	}
	if o.FastPathDelay <= 0 {
		o.FastPathDelay = DefaultFastPathDelay
	}
	if o.Tracer == nil {
		o.Tracer = noop.NewTracerProvider().Tracer("engine")
	}
	if o.ScanCacheTTL <= 0 {
		o.ScanCacheTTL = 10 * time.Minute
	}
	return nil
}
