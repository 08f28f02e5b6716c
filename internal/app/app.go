// Package app contains the root application model.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"go.opentelemetry.io/otel/trace"

	"github.com/dtannen/scrivo/internal/cachemanager"
	"github.com/dtannen/scrivo/internal/config"
	"github.com/dtannen/scrivo/internal/engine"
	"github.com/dtannen/scrivo/internal/keys"
	"github.com/dtannen/scrivo/internal/log"
	"github.com/dtannen/scrivo/internal/pubsub"
	"github.com/dtannen/scrivo/internal/sessions"
	"github.com/dtannen/scrivo/internal/ui/editor"
	"github.com/dtannen/scrivo/internal/ui/help"
	"github.com/dtannen/scrivo/internal/ui/statusbar"
	"github.com/dtannen/scrivo/internal/ui/toaster"
	"github.com/dtannen/scrivo/internal/watcher"
)

// editorZone is the bubblezone id wrapping the text area, used to translate
// mouse clicks into buffer coordinates.
const editorZone = "editor"

// endingsPresets are the terminator sets ctrl+e cycles through.
var endingsPresets = []string{".!?", ".!?;:", ".!?。！？"}

// toastDuration is how long transient notifications stay on screen.
const toastDuration = 3 * time.Second

// documentChangedMsg signals that the open file changed on disk.
type documentChangedMsg struct{}

// Services holds optional collaborators injected by the command layer.
type Services struct {
	// Recorder tracks writing sessions. Nil disables session tracking.
	Recorder *sessions.Recorder

	// Tracer records engine scan spans. Nil means no tracing.
	Tracer trace.Tracer
}

// Model is the root application state.
type Model struct {
	editor     *editor.Model
	eng        *engine.Engine
	engineOpts engine.Options
	keys       keys.KeyMap

	statusbar     statusbar.Model
	showStatusBar bool
	help          help.Model
	showHelp      bool

	// Centralized toaster so notifications survive overlay changes.
	toaster toaster.Model

	cfg        config.Config
	configPath string
	docPath    string

	width  int
	height int

	endingsIndex int

	recorder *sessions.Recorder

	watcherHandle *watcher.Watcher
	watcherCh     <-chan struct{}

	listenerCtx    context.Context
	listenerCancel context.CancelFunc
	engineListener *pubsub.ContinuousListener[engine.Event]
}

// New builds the root model for docPath. The file is loaded if it exists;
// otherwise the editor starts empty and the file is created on first save.
// configPath is where runtime toggles (focus mode, endings) are persisted.
func New(cfg config.Config, docPath, configPath string, svc Services) (*Model, error) {
	ed := editor.New("Start writing…")
	ed.Focus()

	if data, err := os.ReadFile(docPath); err == nil { //nolint:gosec // G304: user-supplied document path
		ed.SetContent(string(data))
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading %s: %w", docPath, err)
	}

	opts := cfg.EngineOptions()
	if svc.Tracer != nil {
		opts.Tracer = svc.Tracer
	}
	if cfg.Engine.ScanCache {
		opts.ScanCache = cachemanager.NewInMemoryCacheManager[string, []engine.Sentence](
			"sentence-scan", 10*time.Minute, 30*time.Minute)
	}

	eng, err := engine.New(ed, opts)
	if err != nil {
		return nil, fmt.Errorf("creating engine: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	m := &Model{
		editor:         ed,
		eng:            eng,
		engineOpts:     opts,
		keys:           keys.DefaultKeyMap(),
		statusbar:      statusbar.New().SetFilename(filepath.Base(docPath)).SetFocusMode(eng.FocusMode()),
		showStatusBar:  cfg.UI.ShowStatusBar,
		help:           help.New(cfg.UI.MarkdownStyle),
		toaster:        toaster.New(),
		cfg:            cfg,
		configPath:     configPath,
		docPath:        docPath,
		endingsIndex:   endingsIndexFor(cfg.Engine.SentenceEndings),
		recorder:       svc.Recorder,
		listenerCtx:    ctx,
		listenerCancel: cancel,
		engineListener: pubsub.NewContinuousListener(ctx, eng.Events()),
	}

	// Watcher failure is not fatal; the editor works without auto-reload.
	w, err := watcher.New(watcher.DefaultConfig(docPath))
	if err != nil {
		log.Warn(log.CatWatcher, "file watching disabled", "error", err)
	} else if ch, err := w.Start(); err != nil {
		log.Warn(log.CatWatcher, "file watching disabled", "error", err)
	} else {
		m.watcherHandle = w
		m.watcherCh = ch
	}

	return m, nil
}

func endingsIndexFor(endings string) int {
	for i, preset := range endingsPresets {
		if preset == endings {
			return i
		}
	}
	return 0
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.engineListener.Listen()}
	if m.watcherCh != nil {
		cmds = append(cmds, m.watchDocument())
	}
	// Initial scan so sentences are highlighted before the first keystroke.
	m.eng.Update()
	return tea.Batch(cmds...)
}

// watchDocument bridges the watcher channel into the update loop.
func (m *Model) watchDocument() tea.Cmd {
	ch := m.watcherCh
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return documentChangedMsg{}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case pubsub.Event[engine.Event]:
		return m.handleEngineEvent(msg)

	case documentChangedMsg:
		return m.handleDocumentChanged()

	case toaster.DismissMsg:
		m.toaster = m.toaster.Hide()
		return m, nil
	}

	return m, nil
}

// layout distributes the window between the editor and the status bar.
func (m *Model) layout() {
	editorHeight := m.height
	if m.showStatusBar {
		editorHeight--
	}
	if editorHeight < 1 {
		editorHeight = 1
	}
	m.editor.SetSize(m.width, editorHeight)
	m.statusbar = m.statusbar.SetWidth(m.width)
	m.help = m.help.SetSize(m.width, m.height)
	m.toaster = m.toaster.SetSize(m.width, m.height)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any chrome key closes the overlay; everything else is swallowed
		// so keystrokes don't leak into the buffer underneath.
		if key.Matches(msg, m.keys.Escape) || key.Matches(msg, m.keys.Help) {
			m.showHelp = false
		}
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Save):
		return m.save()

	case key.Matches(msg, m.keys.Reload):
		return m.reload()

	case key.Matches(msg, m.keys.ToggleFocus):
		enabled := m.eng.ToggleFocusMode()
		m.statusbar = m.statusbar.SetFocusMode(enabled)
		if err := config.SaveFocusMode(m.configPath, enabled); err != nil {
			log.ErrorErr(log.CatConfig, "persisting focus mode", err)
		}
		return m, nil

	case key.Matches(msg, m.keys.ForceRescan):
		m.eng.Update()
		return m, nil

	case key.Matches(msg, m.keys.CycleEndings):
		return m.cycleEndings()

	case key.Matches(msg, m.keys.ToggleStatus):
		m.showStatusBar = !m.showStatusBar
		m.layout()
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		return m, nil
	}

	switch m.editor.HandleKey(msg) {
	case editor.EffectContent:
		m.eng.HandleContentChange()
		m.statusbar = m.statusbar.SetDirty(m.editor.Dirty())
	case editor.EffectNavigation:
		m.eng.HandleNavigation()
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	z := zone.Get(editorZone)
	if z == nil || !z.InBounds(msg) {
		return m, nil
	}
	if m.editor.HandleClick(msg.X-z.StartX, msg.Y-z.StartY) == editor.EffectNavigation {
		m.eng.HandleNavigation()
	}
	return m, nil
}

func (m *Model) handleEngineEvent(msg pubsub.Event[engine.Event]) (tea.Model, tea.Cmd) {
	m.statusbar = m.statusbar.
		SetCounts(m.editor.WordCount(), len(msg.Payload.Sentences)).
		SetActiveIndex(msg.Payload.ActiveIndex).
		SetDirty(m.editor.Dirty())

	if msg.Type == pubsub.SentencesEvent && m.recorder != nil {
		if err := m.recorder.Observe(m.editor.Content()); err != nil {
			log.ErrorErr(log.CatSession, "recording session", err)
		}
	}

	return m, m.engineListener.Listen()
}

func (m *Model) handleDocumentChanged() (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.cfg.AutoReload && !m.editor.Dirty() {
		if err := m.loadFromDisk(); err != nil {
			m.toaster = m.toaster.Show("Reload failed: "+err.Error(), toaster.StyleError)
		} else {
			m.toaster = m.toaster.Show("Reloaded from disk", toaster.StyleInfo)
		}
	} else {
		m.toaster = m.toaster.Show("File changed on disk (ctrl+r to reload)", toaster.StyleWarn)
	}
	cmd = toaster.ScheduleDismiss(toastDuration)
	return m, tea.Batch(cmd, m.watchDocument())
}

func (m *Model) loadFromDisk() error {
	data, err := os.ReadFile(m.docPath) //nolint:gosec // G304: user-supplied document path
	if err != nil {
		return err
	}
	m.editor.SetContent(string(data))
	m.eng.HandleContentChange()
	m.statusbar = m.statusbar.SetDirty(false)
	return nil
}

func (m *Model) save() (tea.Model, tea.Cmd) {
	if err := writeFileAtomic(m.docPath, []byte(m.editor.Content())); err != nil {
		log.ErrorErr(log.CatUI, "saving document", err)
		m.toaster = m.toaster.Show("Save failed: "+err.Error(), toaster.StyleError)
		return m, toaster.ScheduleDismiss(toastDuration)
	}
	m.editor.MarkSaved()
	m.statusbar = m.statusbar.SetDirty(false)
	m.toaster = m.toaster.Show("Saved", toaster.StyleSuccess)
	return m, toaster.ScheduleDismiss(toastDuration)
}

func (m *Model) reload() (tea.Model, tea.Cmd) {
	if err := m.loadFromDisk(); err != nil {
		m.toaster = m.toaster.Show("Reload failed: "+err.Error(), toaster.StyleError)
	} else {
		m.toaster = m.toaster.Show("Reloaded from disk", toaster.StyleInfo)
	}
	return m, toaster.ScheduleDismiss(toastDuration)
}

// cycleEndings switches to the next terminator preset. The engine holds its
// terminator set for its lifetime, so it is rebuilt in place.
func (m *Model) cycleEndings() (tea.Model, tea.Cmd) {
	m.endingsIndex = (m.endingsIndex + 1) % len(endingsPresets)
	endings := endingsPresets[m.endingsIndex]

	if err := m.swapEngine(endings); err != nil {
		log.ErrorErr(log.CatEngine, "switching sentence endings", err)
		m.toaster = m.toaster.Show("Could not switch endings: "+err.Error(), toaster.StyleError)
		return m, toaster.ScheduleDismiss(toastDuration)
	}

	m.cfg.Engine.SentenceEndings = endings
	if err := config.SaveSentenceEndings(m.configPath, endings); err != nil {
		log.ErrorErr(log.CatConfig, "persisting sentence endings", err)
	}

	m.toaster = m.toaster.Show("Sentence endings: "+endings, toaster.StyleInfo)
	return m, tea.Batch(toaster.ScheduleDismiss(toastDuration), m.engineListener.Listen())
}

func (m *Model) swapEngine(endings string) error {
	opts := m.engineOpts
	opts.SentenceEndings = []byte(endings)
	opts.EnableFocusMode = m.eng.FocusMode()

	eng, err := engine.New(m.editor, opts)
	if err != nil {
		return err
	}

	m.listenerCancel()
	m.eng.Close()

	ctx, cancel := context.WithCancel(context.Background())
	m.eng = eng
	m.engineOpts = opts
	m.listenerCtx = ctx
	m.listenerCancel = cancel
	m.engineListener = pubsub.NewContinuousListener(ctx, eng.Events())
	m.eng.Update()
	return nil
}

// View implements tea.Model.
func (m *Model) View() string {
	view := zone.Mark(editorZone, m.editor.View())
	if m.showStatusBar {
		view += "\n" + m.statusbar.View()
	}
	if m.showHelp {
		view = m.help.Overlay(view)
	}
	if m.toaster.Visible() {
		view = m.toaster.Overlay(view, m.width, m.height)
	}
	return zone.Scan(view)
}

// Close releases resources held by the application.
func (m *Model) Close() error {
	m.listenerCancel()
	m.eng.Close()

	if m.recorder != nil {
		if err := m.recorder.Close(); err != nil {
			log.ErrorErr(log.CatSession, "closing session recorder", err)
		}
	}

	if m.watcherHandle != nil {
		if err := m.watcherHandle.Stop(); err != nil {
			return err
		}
	}
	return nil
}

// writeFileAtomic writes data via a temp file and rename so a crash mid-write
// never truncates the document.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".scrivo-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
