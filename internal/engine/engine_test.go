package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/dtannen/scrivo/internal/pubsub"
)

// ============================================================================
// Test doubles
// ============================================================================

// fakeSurface implements Surface, RegionRenderer, FocusStyler and
// ViewportSyncer with call counters. Engine callbacks arrive from timer
// goroutines, so all state is mutex-guarded.
type fakeSurface struct {
	mu       sync.Mutex
	text     string
	caret    int
	editable bool

	regions      []Sentence
	marked       map[uint32]bool
	validateOK   bool
	createCalls  int
	destroyCalls int
	setCaret     []int
	dimStates    []bool
	scrollCalls  int
	scrollErr    error
}

func newFakeSurface(text string) *fakeSurface {
	return &fakeSurface{
		text:       text,
		editable:   true,
		marked:     map[uint32]bool{},
		validateOK: true,
	}
}

func (f *fakeSurface) Text() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.text
}

func (f *fakeSurface) RawLen() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.text)
}

func (f *fakeSurface) Editable() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.editable
}

func (f *fakeSurface) CaretOffset() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.caret
}

func (f *fakeSurface) SetCaretOffset(offset int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.caret = offset
	f.setCaret = append(f.setCaret, offset)
}

func (f *fakeSurface) CreateRegions(sentences []Sentence) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.regions = append([]Sentence(nil), sentences...)
	f.marked = map[uint32]bool{}
	f.createCalls++
}

func (f *fakeSurface) MarkActive(id uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.marked[id] = true
}

func (f *fakeSurface) UnmarkActive(id uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.marked, id)
}

func (f *fakeSurface) DestroyRegions() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.regions = nil
	f.marked = map[uint32]bool{}
	f.destroyCalls++
}

func (f *fakeSurface) Validate(count int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.validateOK && len(f.regions) == count
}

func (f *fakeSurface) SetFocusDim(enabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dimStates = append(f.dimStates, enabled)
}

func (f *fakeSurface) ScrollCaretIntoView(smooth bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scrollCalls++
	return f.scrollErr
}

func (f *fakeSurface) setText(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.text = text
	if f.caret > len(text) {
		f.caret = len(text)
	}
}

func (f *fakeSurface) moveCaret(offset int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.caret = offset
}

func (f *fakeSurface) snapshot() (createCalls, destroyCalls, regionCount int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.createCalls, f.destroyCalls, len(f.regions)
}

func (f *fakeSurface) markedIDs() []uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]uint32, 0, len(f.marked))
	for id := range f.marked {
		ids = append(ids, id)
	}
	return ids
}

// headlessSurface implements only Surface.
type headlessSurface struct {
	text  string
	caret int
}

func (h *headlessSurface) Text() string         { return h.text }
func (h *headlessSurface) RawLen() int          { return len(h.text) }
func (h *headlessSurface) Editable() bool       { return true }
func (h *headlessSurface) CaretOffset() int     { return h.caret }
func (h *headlessSurface) SetCaretOffset(o int) { h.caret = o }

func fastOptions() Options {
	opts := DefaultOptions()
	opts.UpdateDebounce = 30 * time.Millisecond
	opts.UpdateThrottle = 15 * time.Millisecond
	opts.FastPathDelay = 5 * time.Millisecond
	return opts
}

// ============================================================================
// Construction
// ============================================================================

func TestNew_NilSurface(t *testing.T) {
	_, err := New(nil, DefaultOptions())
	require.ErrorIs(t, err, ErrInvalidSurface)
}

func TestNew_ReadOnlySurface(t *testing.T) {
	surf := newFakeSurface("text")
	surf.editable = false

	_, err := New(surf, DefaultOptions())
	require.ErrorIs(t, err, ErrInvalidSurface)
}

func TestNew_InvalidOptions(t *testing.T) {
	surf := newFakeSurface("text")

	opts := DefaultOptions()
	opts.FocusDimOpacity = 1.5
	_, err := New(surf, opts)
	require.Error(t, err)

	opts = DefaultOptions()
	opts.HeadingTags = []string{"h7"}
	_, err = New(surf, opts)
	require.Error(t, err)
}

func TestNew_AppliesInitialFocusDim(t *testing.T) {
	surf := newFakeSurface("text")
	opts := DefaultOptions()
	opts.EnableFocusMode = true

	eng, err := New(surf, opts)
	require.NoError(t, err)
	defer eng.Close()

	require.Equal(t, []bool{true}, surf.dimStates)
}

// ============================================================================
// Scan and active resolution
// ============================================================================

func TestEngine_Update_BuildsCollection(t *testing.T) {
	surf := newFakeSurface("Hello world. How are you?")
	eng, err := New(surf, fastOptions())
	require.NoError(t, err)
	defer eng.Close()

	eng.Update()

	sentences := eng.Sentences()
	require.Len(t, sentences, 2)
	require.Equal(t, "Hello world. ", sentences[0].Text)
	require.Equal(t, "How are you?", sentences[1].Text)

	creates, _, regions := surf.snapshot()
	require.Equal(t, 1, creates)
	require.Equal(t, 2, regions)
	require.Equal(t, 0, eng.ActiveSentenceIndex())
}

func TestEngine_CaretAtSentenceEndSelectsNext(t *testing.T) {
	surf := newFakeSurface("Hello world. How are you?")
	surf.caret = 13
	eng, err := New(surf, fastOptions())
	require.NoError(t, err)
	defer eng.Close()

	eng.Update()

	require.Equal(t, 1, eng.ActiveSentenceIndex())
	active, ok := eng.ActiveSentence()
	require.True(t, ok)
	require.Equal(t, "How are you?", active.Text)
}

func TestEngine_CaretInsideSentence(t *testing.T) {
	surf := newFakeSurface("Hello world. How are you?")
	surf.caret = 5
	eng, err := New(surf, fastOptions())
	require.NoError(t, err)
	defer eng.Close()

	eng.Update()

	require.Equal(t, 0, eng.ActiveSentenceIndex())
}

func TestEngine_CaretAtDocumentEndSelectsLast(t *testing.T) {
	surf := newFakeSurface("One. Two. Three.")
	surf.caret = len(surf.text)
	eng, err := New(surf, fastOptions())
	require.NoError(t, err)
	defer eng.Close()

	eng.Update()

	require.Equal(t, 2, eng.ActiveSentenceIndex())
}

func TestEngine_CaretRestoredAfterRebuild(t *testing.T) {
	surf := newFakeSurface("Hello world. How are you?")
	surf.caret = 7
	eng, err := New(surf, fastOptions())
	require.NoError(t, err)
	defer eng.Close()

	eng.Update()

	require.Equal(t, 7, surf.CaretOffset())
	require.Equal(t, []int{7}, surf.setCaret)
}

func TestEngine_ActiveMarkerSingleRegion(t *testing.T) {
	surf := newFakeSurface("One. Two. Three.")
	surf.caret = 6
	eng, err := New(surf, fastOptions())
	require.NoError(t, err)
	defer eng.Close()

	eng.Update()

	ids := surf.markedIDs()
	require.Len(t, ids, 1)
	active, ok := eng.ActiveSentence()
	require.True(t, ok)
	require.Equal(t, active.ID, ids[0])
}

// ============================================================================
// Empty transition
// ============================================================================

func TestEngine_ClearFiresExactlyOnce(t *testing.T) {
	surf := newFakeSurface("Some text here.")
	opts := fastOptions()

	var mu sync.Mutex
	var calls [][]Sentence
	opts.OnSentenceChange = func(s []Sentence) {
		mu.Lock()
		calls = append(calls, s)
		mu.Unlock()
	}

	eng, err := New(surf, opts)
	require.NoError(t, err)
	defer eng.Close()

	eng.Update()
	surf.setText("")
	eng.Update()
	eng.Update() // still empty, must not refire

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, calls, 2)
	require.Len(t, calls[0], 1)
	require.Empty(t, calls[1])

	_, destroys, regions := surf.snapshot()
	require.Equal(t, 1, destroys)
	require.Zero(t, regions)
	require.Equal(t, -1, eng.ActiveSentenceIndex())
}

func TestEngine_WhitespaceOnlyIsEmpty(t *testing.T) {
	surf := newFakeSurface("   \n\t ")
	eng, err := New(surf, fastOptions())
	require.NoError(t, err)
	defer eng.Close()

	eng.Update()

	require.Empty(t, eng.Sentences())
	require.Equal(t, -1, eng.ActiveSentenceIndex())
	creates, _, _ := surf.snapshot()
	require.Zero(t, creates)
}

// ============================================================================
// Rebuild policy
// ============================================================================

func TestEngine_UnchangedContentSkipsRebuild(t *testing.T) {
	surf := newFakeSurface("Hello world. How are you?")
	eng, err := New(surf, fastOptions())
	require.NoError(t, err)
	defer eng.Close()

	eng.Update()
	eng.Update()
	eng.Update()

	creates, _, _ := surf.snapshot()
	require.Equal(t, 1, creates)
	// Caret only restored by the single full rebuild.
	require.Len(t, surf.setCaret, 1)
}

func TestEngine_ContentGrowthForcesRebuild(t *testing.T) {
	surf := newFakeSurface("Hello world.")
	eng, err := New(surf, fastOptions())
	require.NoError(t, err)
	defer eng.Close()

	eng.Update()
	surf.setText("Hello world. More!")
	eng.Update()

	creates, _, regions := surf.snapshot()
	require.Equal(t, 2, creates)
	require.Equal(t, 2, regions)
}

func TestEngine_ValidateFailureSelfHeals(t *testing.T) {
	surf := newFakeSurface("Hello world.")
	eng, err := New(surf, fastOptions())
	require.NoError(t, err)
	defer eng.Close()

	eng.Update()

	// Simulate external destruction of the rendered state.
	surf.mu.Lock()
	surf.regions = nil
	surf.mu.Unlock()

	eng.Update()

	creates, _, regions := surf.snapshot()
	require.Equal(t, 2, creates)
	require.Equal(t, 1, regions)
}

func TestEngine_SameLengthEditRebuildsWhenIDsShift(t *testing.T) {
	surf := newFakeSurface("Hello world. How are you?")
	eng, err := New(surf, fastOptions())
	require.NoError(t, err)
	defer eng.Close()

	eng.Update()
	// Same-length replacement is invisible to the fingerprint, but the
	// first sentence's id changes with its text. Regions must follow, and
	// the active marker must land on an id the regions know.
	surf.setText("Jello world. How are you?")
	eng.Update()

	creates, _, _ := surf.snapshot()
	require.Equal(t, 2, creates)
	require.Equal(t, "Jello world. ", eng.Sentences()[0].Text)

	marked := surf.markedIDs()
	require.Len(t, marked, 1)
	require.Equal(t, eng.Sentences()[0].ID, marked[0])
}

func TestEngine_SameLengthEditBeyondIDPrefixKeepsRegions(t *testing.T) {
	surf := newFakeSurface("Alpha beta gamma delta epsilon. Next one.")
	eng, err := New(surf, fastOptions())
	require.NoError(t, err)
	defer eng.Close()

	eng.Update()
	// An edit past the identity prefix leaves every id in place; the
	// incremental path keeps regions and refreshes the collection text.
	surf.setText("Alpha beta gamma delta epsiloX. Next one.")
	eng.Update()

	creates, _, _ := surf.snapshot()
	require.Equal(t, 1, creates)
	require.Equal(t, "Alpha beta gamma delta epsiloX. ", eng.Sentences()[0].Text)
}

// ============================================================================
// Navigation path
// ============================================================================

func TestEngine_NavigationMovesMarkerWithoutRebuild(t *testing.T) {
	surf := newFakeSurface("Hello world. How are you?")
	eng, err := New(surf, fastOptions())
	require.NoError(t, err)
	defer eng.Close()

	eng.Update()
	require.Equal(t, 0, eng.ActiveSentenceIndex())

	surf.moveCaret(20)
	eng.HandleNavigation()
	require.Eventually(t, func() bool {
		return eng.ActiveSentenceIndex() == 1
	}, time.Second, 5*time.Millisecond)

	creates, destroys, _ := surf.snapshot()
	require.Equal(t, 1, creates)
	require.Zero(t, destroys)
	ids := surf.markedIDs()
	require.Len(t, ids, 1)
}

func TestEngine_NavigationWithinActiveSentenceIsNoop(t *testing.T) {
	surf := newFakeSurface("Hello world. How are you?")
	opts := fastOptions()

	var count int
	var mu sync.Mutex
	opts.OnActiveSentenceChange = func(index int, s *Sentence) {
		mu.Lock()
		count++
		mu.Unlock()
	}

	eng, err := New(surf, opts)
	require.NoError(t, err)
	defer eng.Close()

	eng.Update()
	mu.Lock()
	initial := count
	mu.Unlock()

	surf.moveCaret(3)
	eng.HandleNavigation()
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, initial, count)
}

func TestEngine_NavigationBeforeFirstScanIsNoop(t *testing.T) {
	surf := newFakeSurface("Hello world.")
	eng, err := New(surf, fastOptions())
	require.NoError(t, err)
	defer eng.Close()

	eng.HandleNavigation()
	time.Sleep(60 * time.Millisecond)

	creates, _, _ := surf.snapshot()
	require.Zero(t, creates)
	require.Equal(t, -1, eng.ActiveSentenceIndex())
}

// ============================================================================
// Scheduling
// ============================================================================

func TestEngine_ContentSignalsCollapse(t *testing.T) {
	surf := newFakeSurface("Hello world. How are you?")
	eng, err := New(surf, fastOptions())
	require.NoError(t, err)
	defer eng.Close()

	for i := 0; i < 8; i++ {
		eng.HandleContentChange()
	}

	require.Eventually(t, func() bool {
		creates, _, _ := surf.snapshot()
		return creates == 1
	}, time.Second, 5*time.Millisecond)

	time.Sleep(100 * time.Millisecond)
	creates, _, _ := surf.snapshot()
	require.Equal(t, 1, creates)
}

func TestEngine_FastPathAfterTerminator(t *testing.T) {
	surf := newFakeSurface("Hello world.")
	surf.caret = len(surf.text)
	opts := fastOptions()
	opts.UpdateDebounce = 400 * time.Millisecond
	opts.FastPathDelay = 10 * time.Millisecond

	eng, err := New(surf, opts)
	require.NoError(t, err)
	defer eng.Close()

	eng.HandleContentChange()

	// Well before the regular debounce window.
	require.Eventually(t, func() bool {
		creates, _, _ := surf.snapshot()
		return creates == 1
	}, 200*time.Millisecond, 5*time.Millisecond)
}

// ============================================================================
// Focus mode
// ============================================================================

func TestEngine_FocusToggleIsStyleOnly(t *testing.T) {
	surf := newFakeSurface("Hello world. How are you?")
	opts := fastOptions()
	opts.EnableFocusMode = true

	eng, err := New(surf, opts)
	require.NoError(t, err)
	defer eng.Close()

	eng.Update()
	creates, _, _ := surf.snapshot()
	require.Equal(t, 1, creates)

	require.False(t, eng.ToggleFocusMode())
	require.True(t, eng.ToggleFocusMode())

	creates, destroys, _ := surf.snapshot()
	require.Equal(t, 1, creates)
	require.Zero(t, destroys)
	require.Equal(t, []bool{true, false, true}, surf.dimStates)
	require.True(t, eng.FocusMode())
}

// ============================================================================
// Viewport sync
// ============================================================================

func TestEngine_ViewportSyncBestEffort(t *testing.T) {
	surf := newFakeSurface("Hello world.")
	surf.scrollErr = errors.New("viewport gone")
	opts := fastOptions()
	opts.AutoScroll = true

	eng, err := New(surf, opts)
	require.NoError(t, err)
	defer eng.Close()

	// Must not panic or propagate.
	eng.Update()

	surf.mu.Lock()
	defer surf.mu.Unlock()
	require.Equal(t, 1, surf.scrollCalls)
}

func TestEngine_AutoScrollDisabled(t *testing.T) {
	surf := newFakeSurface("Hello world.")
	opts := fastOptions()
	opts.AutoScroll = false

	eng, err := New(surf, opts)
	require.NoError(t, err)
	defer eng.Close()

	eng.Update()

	surf.mu.Lock()
	defer surf.mu.Unlock()
	require.Zero(t, surf.scrollCalls)
}

// ============================================================================
// Headless and lifecycle
// ============================================================================

func TestEngine_HeadlessSurface(t *testing.T) {
	surf := &headlessSurface{text: "One. Two.", caret: 6}
	eng, err := New(surf, fastOptions())
	require.NoError(t, err)
	defer eng.Close()

	eng.Update()

	require.Len(t, eng.Sentences(), 2)
	require.Equal(t, 1, eng.ActiveSentenceIndex())
}

func TestEngine_Close(t *testing.T) {
	surf := newFakeSurface("Hello world.")
	eng, err := New(surf, fastOptions())
	require.NoError(t, err)

	eng.Update()
	eng.Close()

	_, destroys, regions := surf.snapshot()
	require.Equal(t, 1, destroys)
	require.Zero(t, regions)

	// Signals after Close never fire.
	eng.HandleContentChange()
	eng.HandleNavigation()
	eng.Update()
	time.Sleep(80 * time.Millisecond)

	creates, _, _ := surf.snapshot()
	require.Equal(t, 1, creates)
	require.Empty(t, eng.Sentences())

	// Idempotent.
	eng.Close()
}

// ============================================================================
// Events
// ============================================================================

func TestEngine_PublishesEvents(t *testing.T) {
	surf := newFakeSurface("Hello world.")
	eng, err := New(surf, fastOptions())
	require.NoError(t, err)
	defer eng.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := eng.Events().Subscribe(ctx)

	eng.Update()

	deadline := time.After(time.Second)
	var sawSentences, sawActive bool
	for !(sawSentences && sawActive) {
		select {
		case event := <-ch:
			switch event.Type {
			case pubsub.SentencesEvent:
				require.Len(t, event.Payload.Sentences, 1)
				sawSentences = true
			case pubsub.ActiveChangedEvent:
				require.Equal(t, 0, event.Payload.ActiveIndex)
				require.NotNil(t, event.Payload.Active)
				sawActive = true
			}
		case <-deadline:
			require.Fail(t, "timeout waiting for engine events")
		}
	}
}

// ============================================================================
// Active resolution properties
// ============================================================================

// TestFindActiveSentenceIndex_Total verifies that any caret offset over any
// non-empty sentence sequence resolves to a valid index, and that the index
// respects the boundary rule (end of sentence i selects i+1).
func TestFindActiveSentenceIndex_Total(t *testing.T) {
	rapid.Check(t, func(r *rapid.T) {
		tok := NewTokenizer(nil)
		text := rapid.StringMatching(`[a-z .!?]{1,150}`).Draw(r, "text")
		sentences := tok.Scan(text)
		if len(sentences) == 0 {
			return
		}

		offset := rapid.IntRange(0, len(text)).Draw(r, "offset")
		idx := findActiveSentenceIndex(sentences, offset)

		require.GreaterOrEqual(r, idx, 0)
		require.Less(r, idx, len(sentences))

		s := sentences[idx]
		if idx < len(sentences)-1 {
			require.GreaterOrEqual(r, offset, s.Start)
			require.Less(r, offset, s.End)
		} else {
			require.GreaterOrEqual(r, offset, s.Start)
		}
	})
}

func TestFindActiveSentenceIndex_Empty(t *testing.T) {
	require.Equal(t, -1, findActiveSentenceIndex(nil, 0))
	require.Equal(t, -1, findActiveSentenceIndex([]Sentence{}, 42))
}
