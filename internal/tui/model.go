// Package tui is the terminal front end of v2browse. The Model owns the
// widgets and forwards every user action to a session.Session; directory
// service requests run as tea.Cmds and come back as messages.ResultMsg.
package tui

import (
	"context"
	"fmt"
	"strings"

	"v2browse/internal/config"
	"v2browse/internal/container"
	"v2browse/internal/log"
	"v2browse/internal/session"
	"v2browse/internal/tui/components"
	"v2browse/internal/tui/messages"
	"v2browse/internal/tui/styles"
	"v2browse/internal/tui/views"
	"v2browse/pkg/types"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type Model struct {
	session *session.Session
	ctx     context.Context
	logger  *log.Logger

	cfg     *config.Config
	cfgPath string

	keys  types.KeyMap
	help  help.Model
	theme styles.Theme

	mode     types.Mode
	pane     types.Pane
	showHelp bool
	width    int
	height   int

	tree    *components.FileTree
	list    *components.FileList
	preview *components.FileBrowser
	status  *components.StatusBar
	prompt  *components.Prompt

	filter     *types.Pattern
	filterText string
	prevFilter string

	// notice is a one-off message shown until the next key press
	notice string

	startPath string
	watch     <-chan []byte
}

// Option configures a Model.
type Option func(*Model)

// WithConfig sets the configuration and the file theme changes are saved
// to. An empty path keeps theme changes in memory.
func WithConfig(cfg *config.Config, path string) Option {
	return func(m *Model) {
		if cfg != nil {
			m.cfg = cfg
			m.cfgPath = path
			m.theme = styles.ForName(cfg.UI.Theme)
			m.startPath = cfg.UI.StartPath
		}
	}
}

// WithStartPath sets the directory opened first.
func WithStartPath(p string) Option {
	return func(m *Model) { m.startPath = p }
}

// WithLogger sets the logger. The TUI owns the terminal, so it should
// write to a file.
func WithLogger(l *log.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithContainerWatch reloads the container whenever ch delivers a blob
// written by another process.
func WithContainerWatch(ch <-chan []byte) Option {
	return func(m *Model) { m.watch = ch }
}

// WithContext sets the context requests run under.
func WithContext(ctx context.Context) Option {
	return func(m *Model) {
		if ctx != nil {
			m.ctx = ctx
		}
	}
}

// New creates a model over s.
func New(s *session.Session, opts ...Option) *Model {
	m := &Model{
		session: s,
		ctx:     context.Background(),
		logger:  log.Default(),
		cfg:     config.New(),
		keys:    types.DefaultKeyMap(),
		help:    help.New(),
		theme:   styles.ForName("default"),
		mode:    types.Normal,
		pane:    types.ListingPane,
		tree:    components.NewFileTree(),
		list:    components.NewFileList(),
		preview: components.NewFileBrowser(),
		status:  components.NewStatusBar(),
		prompt:  components.NewPrompt(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.resize(m.width, m.height)
	m.tree.SetListing(s.State().Listing, false)
	m.sync()
	return m
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.run(m.session.Navigate(m.startPath)), m.waitForContainer())
}

// View implements tea.Model
func (m *Model) View() string {
	return views.RenderMainView(m)
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		m.notice = ""
		if m.mode != types.Normal {
			return m, m.handlePromptKeys(msg)
		}
		return m, m.handleNormalKeys(msg)

	case messages.ResultMsg:
		if m.session.Apply(msg.Event) {
			if _, ok := msg.Event.(session.ListingLoaded); ok {
				m.tree.SetListing(m.filter.Filter(m.session.State().Listing), false)
			}
		}
		m.sync()
		return m, nil

	case messages.ContainerReloadMsg:
		if msg.Err != nil {
			m.logger.With(log.ErrorFields(msg.Err)...).Warn("Ignoring unreadable container update")
		} else {
			m.session.ReplaceContainer(msg.Container)
			m.notice = "Container updated by another session"
			m.sync()
		}
		return m, m.waitForContainer()

	case messages.ConfigSavedMsg:
		if msg.Err != nil {
			m.logger.With(log.ErrorFields(msg.Err)...).Warn("Saving config failed")
			m.notice = "Could not save theme"
			m.sync()
		}
		return m, nil
	}

	return m, m.status.Update(msg)
}

func (m *Model) handleNormalKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return nil
	case key.Matches(msg, m.keys.SwitchPane):
		m.pane = (m.pane + 1) % 3
		return nil
	case key.Matches(msg, m.keys.Reload):
		return m.run(m.session.Reload())
	case key.Matches(msg, m.keys.GoBack):
		return m.run(m.session.Up())
	case key.Matches(msg, m.keys.Filter):
		m.mode = types.Filter
		m.prevFilter = m.filterText
		return m.prompt.Open("/", "glob, e.g. *.pdf", m.filterText)
	case key.Matches(msg, m.keys.GotoPath):
		m.mode = types.Command
		return m.prompt.Open(":", "path", m.session.State().Path)
	case key.Matches(msg, m.keys.ToggleTheme):
		return m.toggleTheme()
	case key.Matches(msg, m.keys.DismissError):
		m.session.Dismiss()
		m.sync()
		return nil
	case key.Matches(msg, m.keys.Delete):
		m.deleteFromContainer()
		return nil
	}

	switch m.pane {
	case types.ContainerPane:
		return m.handleContainerKeys(msg)
	case types.PreviewPane:
		return m.preview.Update(msg)
	default:
		return m.handleListingKeys(msg)
	}
}

func (m *Model) handleListingKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.tree.MoveUp()
	case key.Matches(msg, m.keys.Down):
		m.tree.MoveDown()
	case key.Matches(msg, m.keys.GotoTop):
		m.tree.MoveTop()
	case key.Matches(msg, m.keys.GotoBottom):
		m.tree.MoveBottom()
	case key.Matches(msg, m.keys.Expand):
		m.tree.Toggle()
	case key.Matches(msg, m.keys.Open):
		row, ok := m.tree.Current()
		if !ok {
			return nil
		}
		if row.Parent != nil {
			return m.run(m.session.OpenChild(*row.Parent, row.Entry))
		}
		return m.run(m.session.OpenEntry(row.Entry))
	case key.Matches(msg, m.keys.Select):
		if row, ok := m.tree.Current(); ok {
			m.check(m.session.ToggleSelection(row.Name()))
		}
	case key.Matches(msg, m.keys.SelectAll):
		m.check(m.session.SelectAll())
	case key.Matches(msg, m.keys.ClearSelection):
		m.check(m.session.ClearSelection())
	}
	m.sync()
	return nil
}

func (m *Model) handleContainerKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.list.MoveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.list.MoveCursor(1)
	case key.Matches(msg, m.keys.GotoTop):
		m.list.MoveCursor(-len(m.list.Items()))
	case key.Matches(msg, m.keys.GotoBottom):
		m.list.MoveCursor(len(m.list.Items()))
	case key.Matches(msg, m.keys.Select):
		if e, ok := m.list.Current(); ok {
			m.session.ToggleContainerSelection(e.Key())
		}
	case key.Matches(msg, m.keys.SelectAll):
		all := make(map[string]bool)
		for _, k := range m.list.Items().Keys() {
			all[k] = true
		}
		m.session.SetContainerSelection(all)
	case key.Matches(msg, m.keys.ClearSelection):
		m.session.SetContainerSelection(nil)
	case key.Matches(msg, m.keys.Open):
		if e, ok := m.list.Current(); ok {
			return m.run(m.session.OpenContainerEntry(e))
		}
	}
	m.sync()
	return nil
}

// deleteFromContainer removes the checked container rows. In the container
// pane with nothing checked it removes the row under the cursor.
func (m *Model) deleteFromContainer() {
	if len(m.session.State().ContainerSelected) > 0 {
		m.check(m.session.DeleteSelected())
	} else if e, ok := m.list.Current(); ok && m.pane == types.ContainerPane {
		m.check(m.session.DeleteFromContainer(map[string]bool{e.Key(): true}))
	}
	m.sync()
}

func (m *Model) handlePromptKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyCtrlC:
		return tea.Quit

	case tea.KeyEnter:
		value := strings.TrimSpace(m.prompt.Close())
		mode := m.mode
		m.mode = types.Normal
		if mode == types.Command {
			return m.run(m.session.Navigate(value))
		}
		m.applyFilter(value)
		return nil

	case tea.KeyEsc:
		m.prompt.Close()
		if m.mode == types.Filter {
			m.applyFilter(m.prevFilter)
		}
		m.mode = types.Normal
		return nil
	}

	cmd := m.prompt.Update(msg)
	if m.mode == types.Filter {
		// filter as you type; an incomplete pattern keeps the last good one
		m.applyFilter(m.prompt.Value())
	}
	return cmd
}

func (m *Model) applyFilter(text string) {
	p, err := types.CompilePattern(text)
	if err != nil {
		m.notice = fmt.Sprintf("Invalid filter %q", text)
		m.sync()
		return
	}
	m.filter, m.filterText = p, text
	m.tree.SetListing(m.filter.Filter(m.session.State().Listing), true)
	m.sync()
}

func (m *Model) toggleTheme() tea.Cmd {
	name := config.NextTheme(m.theme.Name)
	m.theme = styles.ForName(name)
	m.cfg.UI.Theme = name
	m.notice = "Theme: " + name
	m.sync()

	if m.cfgPath == "" {
		return nil
	}
	cfg, path := *m.cfg, m.cfgPath
	return func() tea.Msg {
		return messages.ConfigSavedMsg{Err: config.SaveConfig(&cfg, path)}
	}
}

// run issues req against the directory service in the background.
func (m *Model) run(req session.Request) tea.Cmd {
	m.sync()
	ctx, s := m.ctx, m.session
	return tea.Batch(
		func() tea.Msg { return messages.ResultMsg{Event: s.Execute(ctx, req)} },
		m.status.Tick(),
	)
}

func (m *Model) waitForContainer() tea.Cmd {
	ch := m.watch
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		data, ok := <-ch
		if !ok {
			return nil
		}
		c, err := container.Decode(data)
		return messages.ContainerReloadMsg{Container: c, Err: err}
	}
}

// check logs container write failures; the session already shows them.
func (m *Model) check(err error) {
	if err != nil {
		m.logger.With(log.ErrorFields(err)...).Warn("Container update failed")
	}
}

// sync copies the session state into the widgets.
func (m *Model) sync() {
	st := m.session.State()

	m.list.SetItems(m.session.Container())

	if st.File == "" || (!st.LoadingFile && st.Content == nil) {
		m.preview.SetFile("", "", nil, false, false)
	} else {
		full := types.JoinPath(st.FileDir, st.File)
		if full != m.preview.Title() || st.LoadingFile != m.preview.Loading() {
			m.preview.SetFile(full, st.ContentType, st.Content, st.Binary, st.LoadingFile)
		}
	}

	m.status.SetLoading(st.Loading())
	var errs []string
	for _, e := range []string{st.Err, st.StorageErr} {
		if e != "" {
			errs = append(errs, e)
		}
	}
	m.status.SetError(strings.Join(errs, " · "))

	text := fmt.Sprintf("%d entries · %d selected · %d in container",
		len(st.Listing), len(st.Selected), len(m.list.Items()))
	if m.notice != "" {
		text += " · " + m.notice
	}
	m.status.SetText(text)
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	d := views.Layout(width, height)
	m.tree.Height = d.BodyHeight
	m.tree.Width = d.TreeWidth
	m.tree.EnsureCursorVisible()
	m.list.SetSize(d.RightWidth, d.ContainerHeight)
	m.preview.SetSize(d.RightWidth, d.PreviewHeight)
	m.help.Width = width
}

// Getters used by the views.

func (m *Model) Session() *session.Session { return m.session }

func (m *Model) Mode() types.Mode { return m.mode }

func (m *Model) Pane() types.Pane { return m.pane }

func (m *Model) ShowHelp() bool { return m.showHelp }

func (m *Model) Size() (int, int) { return m.width, m.height }

func (m *Model) Theme() styles.Theme { return m.theme }

func (m *Model) Breadcrumbs() []types.Crumb { return m.session.Breadcrumbs() }

func (m *Model) Filter() string { return m.filterText }

func (m *Model) SelectionMode() string { return m.session.Mode() }

func (m *Model) Selected() map[string]bool { return m.session.State().Selected }

func (m *Model) ContainerChecked() map[string]bool {
	return m.session.State().ContainerSelected
}

func (m *Model) Tree() *components.FileTree { return m.tree }

func (m *Model) ContainerList() *components.FileList { return m.list }

func (m *Model) Preview() *components.FileBrowser { return m.preview }

func (m *Model) Status() *components.StatusBar { return m.status }

func (m *Model) Prompt() *components.Prompt { return m.prompt }

func (m *Model) HelpView() string {
	m.help.ShowAll = m.showHelp
	return m.help.View(m.keys)
}
