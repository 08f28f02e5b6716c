package engine

import (
	"context"
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dtannen/scrivo/internal/log"
	"github.com/dtannen/scrivo/internal/pubsub"
)

// state tracks the reconciler side of the Empty <-> Rendered machine.
type state int

const (
	stateEmpty state = iota
	stateRendered
)

// fingerprint is the cheap content-change detector compared at each scan
// against the value stored at the last full rebuild.
type fingerprint struct {
	textLen int
	rawLen  int
}

// trigger identifies what started a scan cycle.
type trigger string

const (
	triggerContent    trigger = "content"
	triggerNavigation trigger = "navigation"
	triggerManual     trigger = "manual"
)

// Event is the payload published on the engine's broker after each cycle
// that changed observable state.
type Event struct {
	Sentences   []Sentence
	ActiveIndex int
	Active      *Sentence
}

// Engine detects sentence boundaries in a Surface and keeps the rendered
// highlight state synchronized with the caret.
type Engine struct {
	mu       sync.Mutex
	surface  Surface
	renderer RegionRenderer
	opts     Options
	tok      *Tokenizer

	state       state
	collection  Collection
	regionCount int
	activeID    uint32
	hasActive   bool
	lastPrint   fingerprint
	focusMode   bool
	closed      bool

	sched  scheduler
	events *pubsub.Broker[Event]
}

// New creates an engine managing surface. The surface must be present and
// editable; otherwise an error wrapping ErrInvalidSurface is returned.
// Surfaces that also implement RegionRenderer receive region lifecycle
// calls; otherwise the engine runs headless (tokenization and active
// tracking only).
func New(surface Surface, opts Options) (*Engine, error) {
	if surface == nil {
		return nil, fmt.Errorf("%w: nil surface", ErrInvalidSurface)
	}
	if !surface.Editable() {
		return nil, fmt.Errorf("%w: surface is read-only", ErrInvalidSurface)
	}
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("engine options: %w", err)
	}

	renderer, ok := surface.(RegionRenderer)
	if !ok {
		renderer = nopRenderer{}
	}

	e := &Engine{
		surface:   surface,
		renderer:  renderer,
		opts:      opts,
		tok:       NewTokenizer(opts.SentenceEndings),
		focusMode: opts.EnableFocusMode,
		events:    pubsub.NewBroker[Event](),
	}
	if styler, ok := renderer.(FocusStyler); ok {
		styler.SetFocusDim(e.focusMode)
	}
	return e, nil
}

// Events returns the broker publishing SentencesEvent and ActiveChangedEvent.
func (e *Engine) Events() *pubsub.Broker[Event] {
	return e.events
}

// HandleContentChange registers a content-changing signal (typing, paste,
// deletion). The scan is debounced; when the character before the caret is a
// terminator the short fast-path delay applies so the new sentence activates
// promptly.
//
// The fast path decodes the rune before the caret; a caret offset that is
// not on a rune boundary falls back to the regular debounce.
func (e *Engine) HandleContentChange() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	delay := e.opts.UpdateDebounce
	text := e.surface.Text()
	off := clampOffset(e.surface.CaretOffset(), len(text))
	if off > 0 {
		if r, _ := utf8.DecodeLastRuneInString(text[:off]); e.tok.IsTerminator(r) {
			delay = e.opts.FastPathDelay
		}
	}
	e.mu.Unlock()

	log.Debug(log.CatSched, "content signal", "delay", delay)
	e.sched.schedule(delay, func() { e.scan(triggerContent) })
}

// HandleNavigation registers a navigation-only signal (arrow keys, paging,
// pointer clicks, focus, in-surface selection change). The recomputation is
// throttled and never rebuilds regions; only the active marker moves.
func (e *Engine) HandleNavigation() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	delay := e.opts.UpdateThrottle
	e.mu.Unlock()

	e.sched.schedule(delay, func() { e.recomputeActive() })
}

// Update forces an immediate full scan, cancelling any pending scheduled
// update.
func (e *Engine) Update() {
	e.sched.cancel()
	e.scan(triggerManual)
}

// SetFocusMode enables or disables dimming of inactive sentences. This is a
// style-only change; no re-scan occurs and the dim styling is restored
// as-was when toggled back on.
func (e *Engine) SetFocusMode(enabled bool) {
	e.mu.Lock()
	e.focusMode = enabled
	renderer := e.renderer
	e.mu.Unlock()

	if styler, ok := renderer.(FocusStyler); ok {
		styler.SetFocusDim(enabled)
	}
}

// ToggleFocusMode flips focus mode and returns the new value.
func (e *Engine) ToggleFocusMode() bool {
	e.mu.Lock()
	e.focusMode = !e.focusMode
	enabled := e.focusMode
	renderer := e.renderer
	e.mu.Unlock()

	if styler, ok := renderer.(FocusStyler); ok {
		styler.SetFocusDim(enabled)
	}
	return enabled
}

// FocusMode reports whether focus mode is enabled.
func (e *Engine) FocusMode() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.focusMode
}

// Sentences returns a snapshot of the current sentence collection in order.
func (e *Engine) Sentences() []Sentence {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.collection.Sentences()
}

// ActiveSentence returns the sentence presently marked active.
func (e *Engine) ActiveSentence() (Sentence, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.hasActive {
		return Sentence{}, false
	}
	idx := e.collection.IndexOf(e.activeID)
	if idx < 0 {
		return Sentence{}, false
	}
	return e.collection.At(idx), true
}

// ActiveSentenceIndex returns the index of the active sentence, or -1.
func (e *Engine) ActiveSentenceIndex() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.hasActive {
		return -1
	}
	return e.collection.IndexOf(e.activeID)
}

// Close cancels pending scheduled work, destroys all rendered regions, and
// detaches the engine. No update fires after Close.
func (e *Engine) Close() {
	e.sched.close()

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	renderer := e.renderer
	e.collection = NewCollection(nil)
	e.regionCount = 0
	e.hasActive = false
	e.state = stateEmpty
	e.mu.Unlock()

	renderer.DestroyRegions()
	e.events.Close()
	log.Debug(log.CatEngine, "engine closed")
}

// notification collects observer work to run after the mutex is released,
// so callbacks can safely call back into the engine.
type notification struct {
	sentencesChanged bool
	sentences        []Sentence
	activeChanged    bool
	activeIndex      int
	active           *Sentence
}

// scan runs one full update cycle: tokenize, reconcile, restore caret.
func (e *Engine) scan(trig trigger) {
	ctx, span := e.opts.Tracer.Start(context.Background(), "engine.scan",
		trace.WithAttributes(attribute.String("trigger", string(trig))))
	defer span.End()

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}

	text := e.surface.Text()
	raw := e.surface.RawLen()
	fp := fingerprint{textLen: len(text), rawLen: raw}

	if strings.TrimSpace(text) == "" {
		note := e.clearLocked(fp)
		e.mu.Unlock()
		span.SetAttributes(attribute.Bool("empty", true))
		e.notify(note)
		return
	}

	sentences := e.tokenize(ctx, text)
	off := clampOffset(e.surface.CaretOffset(), len(text))
	activeIdx := findActiveSentenceIndex(sentences, off)

	// Same-length edits slip past the fingerprint but can shift sentence
	// ids (the identity hashes a text prefix); regions would then hold ids
	// no scan result knows, so id drift forces the rebuild too.
	full := fp != e.lastPrint ||
		e.regionCount == 0 ||
		!e.renderer.Validate(len(sentences)) ||
		!e.collection.sameIDs(sentences)

	var note notification
	if full {
		e.renderer.CreateRegions(sentences)
		e.regionCount = len(sentences)
		e.collection = NewCollection(sentences)
		e.lastPrint = fp
		e.state = stateRendered
		e.surface.SetCaretOffset(off)
		note.sentencesChanged = true
		note.sentences = e.collection.Sentences()
		log.Debug(log.CatRender, "full rebuild", "sentences", len(sentences), "trigger", trig)
	} else {
		// Incremental: ids matched, so regions stay untouched and the
		// replaced collection only refreshes sentence text snapshots.
		e.collection = NewCollection(sentences)
	}
	// CreateRegions resets marker state, so a rebuild must re-mark even
	// when the active sentence id carried over.
	e.setActiveLocked(activeIdx, full, &note)
	e.mu.Unlock()

	span.SetAttributes(
		attribute.Bool("full_rebuild", full),
		attribute.Int("sentences", len(sentences)),
		attribute.Int("active_index", activeIdx),
	)

	e.syncViewport()
	e.notify(note)
}

// recomputeActive is the navigation path: no tokenization, no region
// lifecycle, only the active marker may move.
func (e *Engine) recomputeActive() {
	e.mu.Lock()
	if e.closed || e.state == stateEmpty {
		e.mu.Unlock()
		return
	}
	text := e.surface.Text()
	off := clampOffset(e.surface.CaretOffset(), len(text))
	idx := findActiveSentenceIndex(e.collection.ordered, off)

	var note notification
	e.setActiveLocked(idx, false, &note)
	e.mu.Unlock()

	e.syncViewport()
	e.notify(note)
}

// clearLocked transitions to Empty. Fires the sentence-change observer only
// on the Rendered -> Empty transition, so clearing all text notifies exactly
// once.
func (e *Engine) clearLocked(fp fingerprint) notification {
	var note notification
	e.lastPrint = fp
	if e.state == stateEmpty {
		return note
	}

	e.renderer.DestroyRegions()
	e.regionCount = 0
	e.collection = NewCollection(nil)
	e.state = stateEmpty
	note.sentencesChanged = true
	note.sentences = []Sentence{}
	if e.hasActive {
		e.hasActive = false
		note.activeChanged = true
		note.activeIndex = -1
	}
	log.Debug(log.CatEngine, "cleared: text empty")
	return note
}

// setActiveLocked moves the active marker to the sentence at idx.
// Equality short-circuit: when the resolved id matches the current active id
// no callback fires; the marker itself is still reapplied when rebuilt is
// set, since fresh regions carry no marker.
func (e *Engine) setActiveLocked(idx int, rebuilt bool, note *notification) {
	if idx < 0 || idx >= e.collection.Len() {
		if e.hasActive {
			if !rebuilt {
				e.renderer.UnmarkActive(e.activeID)
			}
			e.hasActive = false
			note.activeChanged = true
			note.activeIndex = -1
		}
		return
	}

	next := e.collection.At(idx)
	if e.hasActive && e.activeID == next.ID {
		if rebuilt {
			e.renderer.MarkActive(next.ID)
		}
		return
	}
	if e.hasActive && !rebuilt {
		e.renderer.UnmarkActive(e.activeID)
	}
	e.renderer.MarkActive(next.ID)
	e.activeID = next.ID
	e.hasActive = true
	snapshot := next
	note.activeChanged = true
	note.activeIndex = idx
	note.active = &snapshot
}

// notify fires observer callbacks and publishes broker events outside the
// engine mutex.
func (e *Engine) notify(note notification) {
	if note.sentencesChanged {
		if e.opts.OnSentenceChange != nil {
			e.opts.OnSentenceChange(note.sentences)
		}
		e.events.Publish(pubsub.SentencesEvent, Event{
			Sentences:   note.sentences,
			ActiveIndex: note.activeIndex,
			Active:      note.active,
		})
	}
	if note.activeChanged {
		if e.opts.OnActiveSentenceChange != nil {
			e.opts.OnActiveSentenceChange(note.activeIndex, note.active)
		}
		e.events.Publish(pubsub.ActiveChangedEvent, Event{
			ActiveIndex: note.activeIndex,
			Active:      note.active,
		})
	}
}

// syncViewport centers the caret after updates that may have moved content.
// Best-effort: failures are swallowed, never propagated.
func (e *Engine) syncViewport() {
	e.mu.Lock()
	autoScroll := e.opts.AutoScroll && !e.closed
	smooth := e.opts.SmoothScroll
	renderer := e.renderer
	e.mu.Unlock()
	if !autoScroll {
		return
	}

	syncer, ok := renderer.(ViewportSyncer)
	if !ok {
		if s, ok := e.surface.(ViewportSyncer); ok {
			syncer = s
		} else {
			return
		}
	}
	if err := syncer.ScrollCaretIntoView(smooth); err != nil {
		log.Debug(log.CatEngine, "viewport sync skipped", "reason", err)
	}
}

// tokenize runs the tokenizer, memoized by content hash when a scan cache is
// configured.
func (e *Engine) tokenize(ctx context.Context, text string) []Sentence {
	if e.opts.ScanCache == nil {
		return e.tok.Scan(text)
	}
	key := contentKey(text)
	if cached, ok := e.opts.ScanCache.Get(ctx, key); ok {
		return cached
	}
	sentences := e.tok.Scan(text)
	e.opts.ScanCache.Set(ctx, key, sentences, e.opts.ScanCacheTTL)
	return sentences
}

// contentKey hashes the full text for scan-cache lookup. Unlike the render
// fingerprint, the cache key must not collide on same-length edits.
func contentKey(text string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	return strconv.FormatUint(h.Sum64(), 16)
}

// findActiveSentenceIndex resolves the caret offset to a sentence index.
// Caret strictly inside [start, end) selects that sentence; caret exactly at
// a sentence's end selects the next one (the sentence about to be typed),
// except at the last sentence where the caret landing at or past its start
// selects it. Total over any offset and non-empty sequence; -1 only when
// the sequence is empty.
func findActiveSentenceIndex(sentences []Sentence, offset int) int {
	if len(sentences) == 0 {
		return -1
	}
	last := len(sentences) - 1
	for i := 0; i < last; i++ {
		if offset >= sentences[i].Start && offset < sentences[i].End {
			return i
		}
	}
	if offset >= sentences[last].Start {
		return last
	}
	return 0
}

func clampOffset(off, length int) int {
	if off < 0 {
		return 0
	}
	if off > length {
		return length
	}
	return off
}

// nopRenderer lets the engine run headless against surfaces with no
// rendering capability.
type nopRenderer struct{}

func (nopRenderer) CreateRegions([]Sentence) {}
func (nopRenderer) MarkActive(uint32)        {}
func (nopRenderer) UnmarkActive(uint32)      {}
func (nopRenderer) DestroyRegions()          {}
func (nopRenderer) Validate(int) bool        { return true }
