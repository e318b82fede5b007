// Package app is the root bubbletea model: one editor panel, a status bar and
// the expand and shrink commands wired to the selection engine.
package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/avitaltamir/vibeselect/internal/components/editor"
	"github.com/avitaltamir/vibeselect/internal/config"
	"github.com/avitaltamir/vibeselect/internal/expand"
	"github.com/avitaltamir/vibeselect/internal/lsp"
	"github.com/avitaltamir/vibeselect/internal/theme"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	"github.com/tliron/commonlog"
)

// Version is the application version, set at build time via ldflags
var Version = "dev"

var log = commonlog.GetLogger("vibeselect.app")

// Documents is the document side of a language server range provider.
type Documents interface {
	Open(doc expand.DocumentID, language, text string)
	Update(ctx context.Context, doc expand.DocumentID, text string)
	Close(ctx context.Context, doc expand.DocumentID)
	Prepare(ctx context.Context, doc expand.DocumentID) (*lsp.Client, error)
}

// Servers stops language servers on quit.
type Servers interface {
	Shutdown(ctx context.Context) error
}

// Options configures the application.
type Options struct {
	Path   string
	Engine *expand.Engine

	// Documents and Servers are nil when language servers are disabled
	Documents Documents
	Servers   Servers

	Config     config.Config
	ConfigPath string // theme changes are saved here when set
	Watch      bool
}

// fileChangeDebounceInterval is the minimum time between reloads
const fileChangeDebounceInterval = 200 * time.Millisecond

// cleanupTimeout bounds releasing documents and stopping servers on quit
const cleanupTimeout = 5 * time.Second

// serverState describes the language server behind the open document.
type serverState int

const (
	serverNone serverState = iota
	serverStarting
	serverReady
	serverUnavailable
)

// Model is the root application model.
type Model struct {
	editor  editor.Model
	engine  *expand.Engine
	docs    Documents
	servers Servers

	keys    KeyMap
	help    help.Model
	spinner spinner.Model
	watcher *fsnotify.Watcher

	cfg        config.Config
	configPath string
	path       string
	opened     expand.DocumentID // document registered with docs

	width    int
	height   int
	ready    bool
	showHelp bool
	quitting bool

	pending   bool // a selection command is running
	reloading bool // a debounced reload is scheduled
	server    serverState
	status    string
	statusErr bool
}

// New creates the application model.
func New(opts Options) Model {
	engine := opts.Engine
	if engine == nil {
		engine = expand.New(nil, nil, expand.Options{})
	}

	var watcher *fsnotify.Watcher
	if opts.Watch && opts.Path != "" {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			log.Warningf("file watcher: %v", err)
		} else if err := w.Add(filepath.Dir(opts.Path)); err != nil {
			log.Warningf("watch %s: %v", opts.Path, err)
			_ = w.Close()
		} else {
			watcher = w
		}
	}

	if opts.Config.Theme != "" && !theme.SetThemeByName(opts.Config.Theme) {
		log.Warningf("unknown theme %q", opts.Config.Theme)
	}

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	return Model{
		editor:     editor.New().Focus(),
		engine:     engine,
		docs:       opts.Documents,
		servers:    opts.Servers,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		spinner:    sp,
		watcher:    watcher,
		cfg:        opts.Config,
		configPath: opts.ConfigPath,
		path:       opts.Path,
	}
}

// Init loads the file and starts the background ticks.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.editor.Init(),
		pruneTick(m.cfg.PruneInterval()),
	}
	if m.path != "" {
		cmds = append(cmds, editor.LoadFile(m.path))
	}
	if m.watcher != nil {
		cmds = append(cmds, m.watchFilesCmd())
	}
	return tea.Batch(cmds...)
}

// pruneTick returns a command that sends a pruneTickMsg after interval
func pruneTick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return pruneTickMsg{}
	})
}

// watchFilesCmd returns a command that waits for the next change to the file
func (m Model) watchFilesCmd() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	watcher, path := m.watcher, filepath.Clean(m.path)
	return func() tea.Msg {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(event.Name) != path {
					continue
				}
				return FileChangeMsg{Path: event.Name, Op: event.Op}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				log.Debugf("watch: %v", err)
			}
		}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.help.Width = msg.Width
		m.editor = m.editor.SetSize(msg.Width, max(msg.Height-1, 0))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case editor.FileLoadedMsg:
		return m.handleFileLoaded(msg)

	case SelectionResultMsg:
		return m.handleSelectionResult(msg), nil

	case ServerReadyMsg:
		if msg.Doc != m.editor.Document() {
			return m, nil
		}
		switch {
		case msg.Err != nil:
			m.server = serverUnavailable
			m.setError("language server: " + msg.Err.Error())
		case msg.Ready:
			m.server = serverReady
		default:
			m.server = serverUnavailable
		}
		return m, nil

	case editor.CopiedMsg:
		if msg.Err != nil {
			m.setError("copy failed: " + msg.Err.Error())
		} else {
			m.setStatus(fmt.Sprintf("copied %d characters", msg.Chars))
		}
		return m, nil

	case FileChangeMsg:
		return m.handleFileChange(msg)

	case reloadMsg:
		m.reloading = false
		return m, editor.LoadFile(m.path)

	case pruneTickMsg:
		m.engine.Prune()
		return m, pruneTick(m.cfg.PruneInterval())

	case spinner.TickMsg:
		if !m.pending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case CleanupDoneMsg:
		if msg.Err != nil {
			log.Warningf("cleanup: %v", msg.Err)
		}
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, m.cleanup()

	case m.showHelp:
		m.showHelp = false
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Theme):
		t := theme.NextTheme()
		m.editor = m.editor.SetSize(m.editor.Size())
		m.setStatus("theme: " + t.Name)
		return m, m.saveTheme(t.Name)

	case key.Matches(msg, m.keys.Expand):
		return m.runSelection(CommandExpand)

	case key.Matches(msg, m.keys.Shrink):
		return m.runSelection(CommandShrink)
	}

	// The engine compares the cursor it left behind with the one it is
	// handed next, so the cursor must not move under a running command.
	if m.pending {
		return m, nil
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

// runSelection starts an expand or shrink against a snapshot of the editor.
func (m Model) runSelection(command Command) (tea.Model, tea.Cmd) {
	if m.editor.Path() == "" && m.editor.Text() == "" {
		return m, nil
	}
	if m.pending {
		m.setStatus(command.String() + ": " + expand.ActionBusy.String())
		return m, nil
	}
	m.pending = true

	engine := m.engine
	snap := m.editor.Snapshot()
	run := func() tea.Msg {
		ctx := context.Background()
		var out expand.Outcome
		if command == CommandExpand {
			out = engine.Expand(ctx, snap)
		} else {
			out = engine.Shrink(ctx, snap)
		}
		return SelectionResultMsg{Command: command, Snapshot: snap, Outcome: out}
	}
	return m, tea.Batch(run, m.spinner.Tick)
}

func (m Model) handleSelectionResult(msg SelectionResultMsg) Model {
	m.pending = false
	out := msg.Outcome
	if out.Action == expand.ActionBusy {
		m.setStatus(msg.Command.String() + ": " + out.Action.String())
		return m
	}
	if !m.editor.Apply(msg.Snapshot) {
		log.Debugf("dropping %s result for a changed document", msg.Command)
		return m
	}
	m.setStatus(describe(out))
	if out.Lookup.Status == expand.StatusFailed || out.Lookup.Status == expand.StatusTimedOut {
		m.statusErr = true
	}
	return m
}

// describe renders an outcome for the status bar.
func describe(out expand.Outcome) string {
	s := out.Action.String()
	switch out.Action {
	case expand.ActionExpanded, expand.ActionNativeExpanded:
		if out.Lookup.Status == expand.StatusSkipped {
			break
		}
		s += " · ranges " + out.Lookup.Status.String()
		if out.Lookup.Cached {
			s += " (cached)"
		}
	}
	return s
}

func (m Model) handleFileLoaded(msg editor.FileLoadedMsg) (tea.Model, tea.Cmd) {
	prevDoc, prevText := m.editor.Document(), m.editor.Text()

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	if msg.Err != nil {
		m.setError(msg.Err.Error())
		return m, cmd
	}

	if m.editor.Version() > 1 {
		m.setStatus("reloaded from disk")
	}

	// Recorded ranges describe the old text, so an edit on disk ends the path.
	doc := m.editor.Document()
	if doc == prevDoc && m.editor.Text() != prevText {
		m.engine.Forget(doc)
	} else {
		m.engine.Invalidate(doc)
	}
	if m.docs == nil {
		return m, cmd
	}

	if doc == m.opened {
		docs, text := m.docs, m.editor.Text()
		return m, tea.Batch(cmd, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), lsp.StartTimeout)
			defer cancel()
			docs.Update(ctx, doc, text)
			return prepare(ctx, docs, doc)
		})
	}

	m.docs.Open(doc, m.editor.Language(), m.editor.Text())
	m.opened = doc
	m.server = serverStarting
	docs := m.docs
	return m, tea.Batch(cmd, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), lsp.StartTimeout)
		defer cancel()
		return prepare(ctx, docs, doc)
	})
}

// prepare starts the document's server ahead of the first expand.
func prepare(ctx context.Context, docs Documents, doc expand.DocumentID) tea.Msg {
	client, err := docs.Prepare(ctx, doc)
	return ServerReadyMsg{Doc: doc, Ready: client != nil, Err: err}
}

func (m Model) handleFileChange(msg FileChangeMsg) (tea.Model, tea.Cmd) {
	next := m.watchFilesCmd()
	switch {
	case msg.Op.Has(fsnotify.Remove) || msg.Op.Has(fsnotify.Rename):
		doc := m.editor.Document()
		m.engine.Forget(doc)
		m.setError("file removed from disk")
		if m.docs != nil && m.opened == doc {
			m.opened = ""
			docs := m.docs
			return m, tea.Batch(next, func() tea.Msg {
				ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
				defer cancel()
				docs.Close(ctx, doc)
				return nil
			})
		}
		return m, next

	case msg.Op.Has(fsnotify.Write) || msg.Op.Has(fsnotify.Create):
		if m.reloading {
			return m, next
		}
		m.reloading = true
		return m, tea.Batch(next, tea.Tick(fileChangeDebounceInterval, func(time.Time) tea.Msg {
			return reloadMsg{}
		}))
	}
	return m, next
}

// cleanup releases the document and stops servers before quitting.
func (m Model) cleanup() tea.Cmd {
	engine, docs, servers, watcher := m.engine, m.docs, m.servers, m.watcher
	doc, opened := m.editor.Document(), m.opened
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
		defer cancel()

		engine.Forget(doc)
		var errs []error
		if docs != nil && opened != "" {
			docs.Close(ctx, opened)
		}
		if servers != nil {
			errs = append(errs, servers.Shutdown(ctx))
		}
		if watcher != nil {
			errs = append(errs, watcher.Close())
		}
		return CleanupDoneMsg{Err: errors.Join(errs...)}
	}
}

// saveTheme persists the theme choice. The file is read back first so
// command line overrides in m.cfg are not written out.
func (m Model) saveTheme(name string) tea.Cmd {
	if m.configPath == "" {
		return nil
	}
	path := m.configPath
	return func() tea.Msg {
		cfg := config.LoadFile(path)
		cfg.Theme = name
		if err := config.Save(path, cfg); err != nil {
			log.Warningf("save config: %v", err)
		}
		return nil
	}
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.statusErr = true
}

// View renders the application.
func (m Model) View() string {
	if !m.ready {
		return ""
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.editor.View(), m.renderStatusBar())
}

func (m Model) renderStatusBar() string {
	style := theme.StatusBarStyle.Width(m.width)

	var left string
	switch {
	case m.pending:
		left = theme.StatusBarHighlight.Render(" " + m.spinner.View() + " selecting")
	case m.status != "" && m.statusErr:
		left = theme.StatusError.Render(" " + m.status)
	case m.status != "":
		left = theme.StatusOK.Render(" " + m.status)
	}

	depth := m.engine.Depth(m.editor.Document())
	right := theme.StatusBarSection.Render(m.serverLabel())
	if m.server == serverStarting {
		right = theme.StatusWarn.Render(m.serverLabel())
	}
	if depth > 1 {
		right += theme.StatusBarSection.Render(fmt.Sprintf(" │ depth %d", depth-1))
	}
	right += theme.StatusBarSection.Render(fmt.Sprintf(" │ %s expand  %s shrink │ %s help ",
		m.keys.Expand.Help().Key, m.keys.Shrink.Help().Key, m.keys.Help.Help().Key))

	left = lipgloss.NewStyle().MaxWidth(max(m.width-lipgloss.Width(right), 0)).Render(left)
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return style.MaxWidth(m.width).Render(left + lipgloss.NewStyle().Width(gap).Render("") + right)
}

func (m Model) serverLabel() string {
	switch m.server {
	case serverStarting:
		return theme.StatusPending + " lsp starting"
	case serverReady:
		return theme.StatusPending + " lsp"
	case serverUnavailable:
		return theme.StatusIdle + " syntax"
	default:
		if m.docs == nil {
			return theme.StatusIdle + " syntax"
		}
		return theme.StatusIdle + " lsp"
	}
}

// renderHelpOverlay renders the key bindings over the whole screen.
func (m Model) renderHelpOverlay() string {
	h := m.help
	h.ShowAll = true

	title := lipgloss.NewStyle().
		Foreground(theme.ColorAccent).
		Bold(true).
		Render("VIBESELECT " + Version)
	hint := theme.TextMutedStyle.Render("Press any key to close")

	box := lipgloss.NewStyle().
		Border(theme.NeonBorder).
		BorderForeground(theme.ColorAccent).
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, "", h.View(m.keys), "", hint))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// Editor returns the editor component.
func (m Model) Editor() editor.Model {
	return m.editor
}

// Status returns the status bar message.
func (m Model) Status() string {
	return m.status
}

// Pending reports whether a selection command is running.
func (m Model) Pending() bool {
	return m.pending
}
