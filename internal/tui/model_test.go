package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"v2browse/internal/config"
	"v2browse/internal/container"
	"v2browse/internal/errors"
	"v2browse/internal/log"
	"v2browse/internal/session"
	"v2browse/internal/store"
	"v2browse/internal/tui/messages"
	"v2browse/pkg/types"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	listings map[string]types.Listing
	files    map[string][]byte
}

func (f *fakeService) ListDirectory(_ context.Context, p string) (types.Listing, error) {
	l, ok := f.listings[p]
	if !ok {
		return nil, errors.NewDirectoryLoadError(p, fmt.Errorf("not found")).WithStatus(404)
	}
	return l, nil
}

func (f *fakeService) ReadFile(_ context.Context, dir, name string) ([]byte, error) {
	b, ok := f.files[types.JoinPath(dir, name)]
	if !ok {
		return nil, errors.NewFileLoadError(name, nil).WithStatus(404)
	}
	return b, nil
}

func file(name string) types.Entry { return types.Entry{Name: name, Type: types.File} }

func dir(name string, children ...types.Entry) types.Entry {
	return types.Entry{Name: name, Type: types.Directory, Contents: children}
}

func newTestModel(t *testing.T, opts ...Option) *Model {
	t.Helper()
	svc := &fakeService{
		listings: map[string]types.Listing{
			"":     {dir("A", file("f1"), file("f2")), file("B"), dir("docs", file("a.txt"))},
			"A":    {file("f1"), file("f2")},
			"docs": {file("a.txt")},
		},
		files: map[string][]byte{
			"B":          []byte("root file"),
			"A/f1":       []byte("first"),
			"docs/a.txt": []byte("hello"),
		},
	}
	quiet := log.NewLogger(log.WithOutput(&bytes.Buffer{}))
	mgr, err := container.NewManager(nil, container.NewPersister(store.NewMemoryStore(), container.DefaultKey, quiet))
	require.NoError(t, err)
	s := session.New(svc, mgr, session.WithLogger(quiet))

	m := New(s, append([]Option{WithLogger(quiet)}, opts...)...)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	drain(m, m.Init())
	return m
}

// collect runs cmd and flattens batches. Only use it on commands that
// return immediately.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// drain feeds request results produced by cmd back into the model.
func drain(m *Model, cmd tea.Cmd) {
	for _, msg := range collect(cmd) {
		if r, ok := msg.(messages.ResultMsg); ok {
			m.Update(r)
		}
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
)

// press sends a key and returns the resulting command.
func press(m *Model, k tea.KeyMsg) tea.Cmd {
	_, cmd := m.Update(k)
	return cmd
}

func rowNames(m *Model) []string {
	var out []string
	for _, r := range m.Tree().VisibleRows {
		out = append(out, r.Name())
	}
	return out
}

func TestModelInitialization(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, types.Normal, m.Mode())
	assert.Equal(t, types.ListingPane, m.Pane())
	assert.Equal(t, []string{"A", "B", "docs"}, rowNames(m))
	assert.False(t, m.Status().Loading())
	assert.Contains(t, m.Status().Text(), "3 entries")
}

func TestModelStartPath(t *testing.T) {
	m := newTestModel(t, WithStartPath("docs"))
	assert.Equal(t, "docs", m.Session().State().Path)
	assert.Equal(t, []string{"a.txt"}, rowNames(m))
}

func TestModelNavigation(t *testing.T) {
	m := newTestModel(t)

	// enter on a directory navigates into it
	drain(m, press(m, enter))
	assert.Equal(t, "A", m.Session().State().Path)
	assert.Equal(t, []string{"f1", "f2"}, rowNames(m))

	// moving past the end stays on the last row
	press(m, runes("j"))
	press(m, runes("j"))
	assert.Equal(t, 1, m.Tree().Cursor)

	drain(m, press(m, runes("h")))
	assert.Equal(t, "", m.Session().State().Path)
	assert.Equal(t, 0, m.Tree().Cursor, "a new listing resets the cursor")
}

func TestModelExpandAndSelectChild(t *testing.T) {
	m := newTestModel(t)

	press(m, runes("o"))
	assert.Equal(t, []string{"A", "f1", "f2", "B", "docs"}, rowNames(m))

	press(m, runes("j"))
	press(m, space)
	assert.True(t, m.Selected()["f1"])

	items := m.ContainerList().Items()
	require.Len(t, items, 1)
	assert.Equal(t, "A", items[0].Name)
	assert.Equal(t, []types.Entry{file("f1")}, items[0].Contents)

	// opening a child file previews it without navigating
	drain(m, press(m, enter))
	assert.Equal(t, "", m.Session().State().Path)
	assert.Equal(t, "A/f1", m.Preview().Title())

	// "o" on a child collapses the parent
	press(m, runes("o"))
	assert.Equal(t, []string{"A", "B", "docs"}, rowNames(m))
	assert.Equal(t, 0, m.Tree().Cursor)
}

func TestModelOpenFilePreview(t *testing.T) {
	m := newTestModel(t)
	press(m, runes("j"))
	drain(m, press(m, enter))

	assert.Equal(t, "B", m.Preview().Title())
	assert.Contains(t, m.Preview().Summary(), "text/plain")
	assert.Contains(t, m.Preview().Summary(), "9 B")
	assert.Contains(t, m.View(), "root file")
}

func TestModelSelectAllAndClear(t *testing.T) {
	m := newTestModel(t)
	press(m, runes("a"))
	assert.Len(t, m.Selected(), 6)
	assert.Equal(t, []string{"A", "B", "docs"}, m.ContainerList().Items().Keys())

	press(m, runes("x"))
	assert.Empty(t, m.Selected())
	assert.Empty(t, m.ContainerList().Items())
}

func TestModelContainerPaneDelete(t *testing.T) {
	m := newTestModel(t)
	press(m, runes("j"))
	press(m, space)
	press(m, runes("j"))
	press(m, space)
	require.Equal(t, []string{"B", "docs"}, m.ContainerList().Items().Keys())

	press(m, tab)
	assert.Equal(t, types.ContainerPane, m.Pane())

	// check the first row, then delete the checked rows
	press(m, space)
	assert.True(t, m.ContainerChecked()["B"])
	press(m, runes("d"))
	assert.Equal(t, []string{"docs"}, m.ContainerList().Items().Keys())
	assert.Empty(t, m.ContainerChecked())

	// with nothing checked the row under the cursor goes
	press(m, runes("d"))
	assert.Empty(t, m.ContainerList().Items())
}

func TestModelOpenContainerEntry(t *testing.T) {
	m := newTestModel(t)
	press(m, runes("G"))
	press(m, space)
	press(m, tab)

	drain(m, press(m, enter))
	assert.Equal(t, "docs", m.Session().State().Path)
}

func TestModelFilter(t *testing.T) {
	m := newTestModel(t)

	press(m, runes("/"))
	assert.Equal(t, types.Filter, m.Mode())
	for _, r := range "doc*" {
		press(m, runes(string(r)))
	}
	assert.Equal(t, []string{"docs"}, rowNames(m), "the filter applies while typing")

	press(m, enter)
	assert.Equal(t, types.Normal, m.Mode())
	assert.Equal(t, "doc*", m.Filter())

	// escape restores the committed filter
	press(m, runes("/"))
	press(m, tea.KeyMsg{Type: tea.KeyBackspace})
	press(m, runes("x"))
	press(m, esc)
	assert.Equal(t, "doc*", m.Filter())
	assert.Equal(t, []string{"docs"}, rowNames(m))

	// children matching keep their parent
	press(m, runes("/"))
	for i := 0; i < 4; i++ {
		press(m, tea.KeyMsg{Type: tea.KeyBackspace})
	}
	for _, r := range "f1" {
		press(m, runes(string(r)))
	}
	press(m, enter)
	assert.Equal(t, []string{"A"}, rowNames(m))
	press(m, runes("o"))
	assert.Equal(t, []string{"A", "f1"}, rowNames(m))
}

func TestModelGotoPathAndErrors(t *testing.T) {
	m := newTestModel(t)

	press(m, runes(":"))
	assert.Equal(t, types.Command, m.Mode())
	for _, r := range "missing" {
		press(m, runes(string(r)))
	}
	drain(m, press(m, enter))
	assert.Equal(t, types.Normal, m.Mode())
	assert.Equal(t, "", m.Session().State().Path)
	assert.Equal(t, "Failed to load directory contents", m.Status().Error())
	assert.Contains(t, m.View(), "Failed to load directory contents")

	press(m, esc)
	assert.Empty(t, m.Status().Error())

	press(m, runes(":"))
	for _, r := range "docs" {
		press(m, runes(string(r)))
	}
	drain(m, press(m, enter))
	assert.Equal(t, "docs", m.Session().State().Path)
}

func TestModelFileFailure(t *testing.T) {
	m := newTestModel(t, WithStartPath("A"))
	press(m, runes("j"))
	drain(m, press(m, enter))

	assert.Equal(t, "Failed to load file", m.Status().Error())
	assert.Empty(t, m.Preview().Title())
}

func TestModelThemeToggleSaves(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	cfg := config.NewTestConfig("http://example.com", dir)

	m := newTestModel(t, WithConfig(cfg, path))
	assert.Equal(t, "default", m.Theme().Name)

	cmd := press(m, runes("t"))
	assert.Equal(t, "light", m.Theme().Name)
	require.NotNil(t, cmd)
	saved, ok := cmd().(messages.ConfigSavedMsg)
	require.True(t, ok)
	require.NoError(t, saved.Err)

	loaded, err := config.LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "light", loaded.UI.Theme)

	press(m, runes("t"))
	assert.Equal(t, "dark", m.Theme().Name)
}

func TestModelContainerReload(t *testing.T) {
	ch := make(chan []byte, 1)
	m := newTestModel(t)
	WithContainerWatch(ch)(m)

	blob, err := json.Marshal(container.Container{container.NewEntry("docs", file("a.txt"))})
	require.NoError(t, err)
	ch <- blob

	msg := m.waitForContainer()()
	reload, ok := msg.(messages.ContainerReloadMsg)
	require.True(t, ok)
	require.NoError(t, reload.Err)

	m.Update(reload)
	assert.Equal(t, []string{"docs/a.txt"}, m.ContainerList().Items().Keys())
	assert.Contains(t, m.Status().Text(), "Container updated")

	close(ch)
	assert.Nil(t, m.waitForContainer()())
}

func TestModelStaleResultIgnored(t *testing.T) {
	m := newTestModel(t)
	s := m.Session()

	slow := s.Navigate("A")
	fast := s.Navigate("docs")
	m.Update(messages.ResultMsg{Event: s.Execute(context.Background(), fast)})
	m.Update(messages.ResultMsg{Event: s.Execute(context.Background(), slow)})

	assert.Equal(t, "docs", s.State().Path)
	assert.Equal(t, []string{"a.txt"}, rowNames(m))
}

func TestModelViewAndHelp(t *testing.T) {
	m := newTestModel(t)
	view := m.View()
	assert.Contains(t, view, "v2browse")
	assert.Contains(t, view, "Root")
	assert.Contains(t, view, "Container (0)")
	assert.Contains(t, view, "(no file open)")

	press(m, runes("?"))
	assert.True(t, m.ShowHelp())
	assert.True(t, strings.Contains(m.HelpView(), "select all"))

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
