package browser

import (
	"context"
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/bookconnect/internal/catalog"
	"github.com/alexisbeaulieu97/bookconnect/internal/present"
	"github.com/alexisbeaulieu97/bookconnect/internal/source"
	"github.com/alexisbeaulieu97/bookconnect/internal/theme"
)

func testCatalog(n int) *source.Catalog {
	books := make([]catalog.Record, 0, n+2)
	for i := 0; i < n; i++ {
		books = append(books, catalog.Record{
			ID:     fmt.Sprintf("b%02d", i),
			Title:  fmt.Sprintf("Filler %02d", i),
			Author: "austen",
			Genres: []string{"romance"},
		})
	}
	books = append(books,
		catalog.Record{ID: "dune", Title: "Dune", Author: "herbert", Genres: []string{"scifi"}, Description: "Spice must flow.", Published: "1965"},
		catalog.Record{ID: "messiah", Title: "Dune Messiah", Author: "herbert", Genres: []string{"scifi"}},
	)
	return &source.Catalog{
		Books: books,
		Authors: source.NewNameTable(
			source.Entry{ID: "austen", Name: "Jane Austen"},
			source.Entry{ID: "herbert", Name: "Frank Herbert"},
		),
		Genres: source.NewNameTable(
			source.Entry{ID: "romance", Name: "Romance"},
			source.Entry{ID: "scifi", Name: "Science Fiction"},
		),
		PageSize: 4,
		Origin:   "test",
	}
}

func newTestModel(t *testing.T, cat *source.Catalog, loader Loader) Model {
	t.Helper()

	mgr, err := catalog.New(cat.Books, cat.PageSize)
	require.NoError(t, err)

	m, err := New(Options{Manager: mgr, Catalog: cat, Theme: theme.Day, Loader: loader})
	require.NoError(t, err)

	return press(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
}

func press(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typed(s string) []tea.Msg {
	msgs := make([]tea.Msg, 0, len(s))
	for _, r := range s {
		msgs = append(msgs, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return msgs
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	right = tea.KeyMsg{Type: tea.KeyRight}
	down  = tea.KeyMsg{Type: tea.KeyDown}
)

func itemIDs(items []present.Preview) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestNewRequiresManager(t *testing.T) {
	_, err := New(Options{})
	require.Error(t, err)

	_, err = New(Options{Manager: catalog.NewManager()})
	require.Error(t, err, "an uninitialized manager is rejected")
}

func TestInitialPage(t *testing.T) {
	m := newTestModel(t, testCatalog(6), nil)
	assert.Len(t, m.Items(), 4)
	assert.Equal(t, ViewList, m.Mode())
	assert.Equal(t, "Jane Austen", m.Items()[0].Author)
	assert.Contains(t, m.View(), "Show more (4)")
}

func TestShowMoreAppendsAndDisables(t *testing.T) {
	m := newTestModel(t, testCatalog(6), nil)

	m = press(t, m, runes("m"))
	assert.Len(t, m.Items(), 8)
	assert.True(t, m.list.ShowMore.Disabled)

	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	assert.Len(t, m.Items(), 8, "show more with nothing left is a no-op")
	assert.Contains(t, m.View(), "Show more (0)")
}

func TestSearchByTitle(t *testing.T) {
	m := newTestModel(t, testCatalog(6), nil)
	m = press(t, m, right, runes("m"))
	require.Equal(t, 1, m.Cursor())

	m = press(t, m, runes("/"))
	require.Equal(t, ViewSearch, m.Mode())

	m = press(t, m, typed("DUNE")...)
	m = press(t, m, enter)

	assert.Equal(t, ViewList, m.Mode())
	assert.Equal(t, []string{"dune", "messiah"}, itemIDs(m.Items()))
	assert.Equal(t, 0, m.Cursor(), "search resets the scroll position")
	assert.Contains(t, m.View(), `title "DUNE"`)
}

func TestSearchBySelectors(t *testing.T) {
	m := newTestModel(t, testCatalog(6), nil)

	// Title -> Author, pick "Frank Herbert" (any, austen, herbert).
	m = press(t, m, runes("/"), tab, right, right)
	assert.Equal(t, "herbert", m.searchCriteria().Author)

	// Author -> Genre, pick "Science Fiction" (any, romance, scifi).
	m = press(t, m, tab, right, right, enter)
	assert.Equal(t, []string{"dune", "messiah"}, itemIDs(m.Items()))
	assert.Equal(t, catalog.Criteria{Author: "herbert", Genre: "scifi"}, m.manager.Criteria())
}

func TestSearchEmptyResult(t *testing.T) {
	m := newTestModel(t, testCatalog(2), nil)
	m = press(t, m, runes("/"))
	m = press(t, m, typed("zzz")...)
	m = press(t, m, enter)

	assert.Empty(t, m.Items())
	assert.Contains(t, m.View(), present.EmptyMessage)
	assert.Contains(t, m.View(), "Show more (0)")
}

func TestSearchCancelKeepsResults(t *testing.T) {
	m := newTestModel(t, testCatalog(6), nil)
	m = press(t, m, runes("/"))
	m = press(t, m, typed("dune")...)
	m = press(t, m, esc)

	assert.Equal(t, ViewList, m.Mode())
	assert.Len(t, m.Items(), 4)
	assert.True(t, m.manager.Criteria().IsIdentity())
}

func TestOpenDetail(t *testing.T) {
	m := newTestModel(t, testCatalog(0), nil)
	m = press(t, m, enter)

	require.Equal(t, ViewDetail, m.Mode())
	view := m.View()
	assert.Contains(t, view, "Dune")
	assert.Contains(t, view, "Frank Herbert (1965)")
	assert.Contains(t, view, "Science Fiction")
	assert.Contains(t, view, present.NoCoverAlt)

	m = press(t, m, esc)
	assert.Equal(t, ViewList, m.Mode())
}

func TestCursorMovesAcrossGrid(t *testing.T) {
	m := newTestModel(t, testCatalog(10), nil)
	cols := m.columns()
	require.Greater(t, cols, 1)

	m = press(t, m, right)
	assert.Equal(t, 1, m.Cursor())

	m = press(t, m, down)
	assert.Equal(t, min(1+cols, len(m.Items())-1), m.Cursor())

	m = press(t, m, runes("k"), runes("h"), runes("h"))
	assert.Equal(t, 0, m.Cursor(), "cursor clamps at the first item")
}

func TestThemeToggleAndSettings(t *testing.T) {
	m := newTestModel(t, testCatalog(2), nil)

	m = press(t, m, runes("t"))
	assert.Equal(t, theme.Night, m.Theme())

	m = press(t, m, runes("s"))
	require.Equal(t, ViewSettings, m.Mode())
	m = press(t, m, right, enter)
	assert.Equal(t, theme.Day, m.Theme())
	assert.Equal(t, ViewList, m.Mode())

	m = press(t, m, runes("s"), right, esc)
	assert.Equal(t, theme.Day, m.Theme(), "cancel leaves the theme alone")
}

func TestHelpOverlay(t *testing.T) {
	m := newTestModel(t, testCatalog(2), nil)
	m = press(t, m, runes("?"))
	require.Equal(t, ViewHelp, m.Mode())
	assert.Contains(t, m.View(), "reload catalog")

	m = press(t, m, esc)
	assert.Equal(t, ViewList, m.Mode())
}

func TestWindowTooSmall(t *testing.T) {
	m := newTestModel(t, testCatalog(2), nil)
	m = press(t, m, tea.WindowSizeMsg{Width: 30, Height: 10})
	assert.True(t, m.showError)
	assert.Contains(t, m.errorMsg, "Terminal too small")

	m = press(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.False(t, m.showError)
}

func TestReloadReappliesCriteria(t *testing.T) {
	fresh := testCatalog(1)
	fresh.Books = append(fresh.Books, catalog.Record{ID: "children", Title: "Children of Dune", Author: "herbert"})

	loader := func(ctx context.Context) (*source.Catalog, error) { return fresh, nil }
	m := newTestModel(t, testCatalog(6), loader)

	m = press(t, m, runes("/"))
	m = press(t, m, typed("dune")...)
	m = press(t, m, enter)
	require.Len(t, m.Items(), 2)

	next, cmd := m.Update(runes("r"))
	require.NotNil(t, cmd)
	m = next.(Model)
	assert.True(t, m.loading)

	cat, err := loader(context.Background())
	require.NoError(t, err)
	m = press(t, m, CatalogLoadedMsg{Catalog: cat})

	assert.False(t, m.loading)
	assert.Equal(t, []string{"dune", "messiah", "children"}, itemIDs(m.Items()))
	assert.Contains(t, m.View(), "Catalog reloaded")
}

func TestReloadFailureShowsBanner(t *testing.T) {
	m := newTestModel(t, testCatalog(2), nil)
	m = press(t, m, runes("r"))
	assert.True(t, m.showError, "reload without a loader is reported")

	m = press(t, m, runes("x"))
	assert.False(t, m.showError)

	msg := reloadCmd(context.Background(), func(ctx context.Context) (*source.Catalog, error) {
		return nil, errors.New("network down")
	})()
	errMsg, ok := msg.(ErrorMsg)
	require.True(t, ok)

	m.loading = true
	next, cmd := m.Update(errMsg)
	m = next.(Model)
	require.NotNil(t, cmd, "the banner schedules its own dismissal")
	assert.False(t, m.loading)
	assert.True(t, m.showError)
	assert.Contains(t, m.View(), "network down")
	assert.Len(t, m.Items(), 4, "failed reload keeps the current catalog")
}

func TestReloadCmdReportsMissingCatalog(t *testing.T) {
	msg := reloadCmd(context.Background(), func(ctx context.Context) (*source.Catalog, error) {
		return nil, nil
	})()

	errMsg, ok := msg.(ErrorMsg)
	require.True(t, ok)
	assert.Contains(t, errMsg.Message, "no catalog")
	assert.NoError(t, errMsg.Err)
}

func TestClearErrorMsgDismissesMatchingBanner(t *testing.T) {
	m := newTestModel(t, testCatalog(2), nil)

	m = press(t, m, ErrorMsg{Message: "first"})
	require.True(t, m.showError)

	m = press(t, m, ErrorMsg{Message: "second"})
	m = press(t, m, ClearErrorMsg{Message: "first"})
	assert.True(t, m.showError, "an older timer keeps a newer banner")
	assert.Equal(t, "second", m.errorMsg)

	m = press(t, m, ClearErrorMsg{Message: "second"})
	assert.False(t, m.showError)
}

func TestFailedOpenSchedulesDismissal(t *testing.T) {
	cat := testCatalog(0)
	m := newTestModel(t, cat, nil)
	require.NotEmpty(t, m.Items())

	// Remove the selected record from the source so Lookup misses.
	cat.Books[0].ID = "gone"

	next, cmd := m.Update(enter)
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.True(t, m.showError)
	assert.Equal(t, ViewList, m.Mode())
}

func TestReloadDropsVanishedAuthor(t *testing.T) {
	fresh := testCatalog(2)
	fresh.Authors = source.NewNameTable(source.Entry{ID: "austen", Name: "Jane Austen"})

	m := newTestModel(t, testCatalog(2), func(ctx context.Context) (*source.Catalog, error) { return fresh, nil })

	m = press(t, m, runes("/"), tab, right, right, enter)
	require.Equal(t, "herbert", m.manager.Criteria().Author)
	require.Equal(t, []string{"dune", "messiah"}, itemIDs(m.Items()))

	m = press(t, m, CatalogLoadedMsg{Catalog: fresh})
	assert.Equal(t, catalog.Any, m.manager.Criteria().Author)
	assert.Equal(t, []string{"b00", "b01", "dune", "messiah"}, itemIDs(m.Items()))

	// Resubmitting the untouched form keeps the same filter.
	before := itemIDs(m.Items())
	m = press(t, m, runes("/"), enter)
	assert.Equal(t, catalog.Any, m.manager.Criteria().Author)
	assert.Equal(t, before, itemIDs(m.Items()))
}

func TestReloadKeepsKnownSelectors(t *testing.T) {
	fresh := testCatalog(3)
	m := newTestModel(t, testCatalog(2), func(ctx context.Context) (*source.Catalog, error) { return fresh, nil })

	m = press(t, m, runes("/"), tab, right, right, enter)
	require.Equal(t, "herbert", m.manager.Criteria().Author)

	m = press(t, m, CatalogLoadedMsg{Catalog: fresh})
	assert.Equal(t, "herbert", m.manager.Criteria().Author)
	assert.Equal(t, []string{"dune", "messiah"}, itemIDs(m.Items()))

	m = press(t, m, runes("/"))
	assert.Equal(t, "herbert", m.searchCriteria().Author, "the form shows the active author")
}

func TestReloadCmdRunsLoader(t *testing.T) {
	want := testCatalog(1)
	cmd := reloadCmd(context.Background(), func(ctx context.Context) (*source.Catalog, error) {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		return want, nil
	})

	msg, ok := cmd().(CatalogLoadedMsg)
	require.True(t, ok)
	assert.Same(t, want, msg.Catalog)
}

func TestQuit(t *testing.T) {
	m := newTestModel(t, testCatalog(2), nil)
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
