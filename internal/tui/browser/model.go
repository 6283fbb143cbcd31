// Package browser is the interactive terminal catalog browser.
package browser

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/bookconnect/internal/catalog"
	"github.com/alexisbeaulieu97/bookconnect/internal/logger"
	"github.com/alexisbeaulieu97/bookconnect/internal/present"
	"github.com/alexisbeaulieu97/bookconnect/internal/source"
	"github.com/alexisbeaulieu97/bookconnect/internal/theme"
)

const (
	cardWidth  = 34
	cardHeight = 5

	minWidth  = 40
	minHeight = 16
)

// Search form fields, in focus order.
const (
	fieldTitle = iota
	fieldAuthor
	fieldGenre
	fieldCount
)

// Options configures a browser Model.
type Options struct {
	Manager *catalog.Manager
	Catalog *source.Catalog
	Theme   theme.Theme
	// PageSize overrides the catalog's page size on reload when positive.
	PageSize int
	// Loader enables reloading the catalog with "r". Nil disables it.
	Loader  Loader
	Logger  *logger.Logger
	Context context.Context
}

// Model is the browser state.
type Model struct {
	// Core data
	manager  *catalog.Manager
	catalog  *source.Catalog
	list     *present.List
	pageSize int
	loader   Loader
	ctx      context.Context
	log      *logger.Logger

	// UI state
	viewMode  ViewMode
	prevMode  ViewMode
	cursor    int
	scrollRow int

	// Appearance
	theme  theme.Theme
	styles styles

	// Search overlay
	titleInput  textinput.Model
	authorOpts  []present.Option
	genreOpts   []present.Option
	authorIndex int
	genreIndex  int
	focus       int

	// Settings overlay
	settingsChoice theme.Theme

	// Detail overlay
	detail   present.Detail
	viewport viewport.Model

	// Components
	keys     keyMap
	formKeys formKeyMap
	help     help.Model
	spinner  spinner.Model

	// Status
	loading   bool
	showError bool
	errorMsg  string
	notice    string

	// Dimensions
	width  int
	height int
}

// New creates a browser over an initialized manager.
func New(opts Options) (Model, error) {
	if opts.Manager == nil {
		return Model{}, errors.New("browser: catalog manager is required")
	}
	if !opts.Manager.Ready() {
		return Model{}, errors.New("browser: catalog manager is not initialized")
	}
	cat := opts.Catalog
	if cat == nil {
		cat = &source.Catalog{}
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	t := opts.Theme
	if t == "" {
		t = theme.Day
	}

	input := textinput.New()
	input.Placeholder = "Title"
	input.Prompt = ""
	input.CharLimit = 120
	input.Width = 30

	st := newStyles(t)
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = st.spinner

	m := Model{
		manager:    opts.Manager,
		catalog:    cat,
		list:       &present.List{},
		pageSize:   opts.PageSize,
		loader:     opts.Loader,
		ctx:        ctx,
		log:        opts.Logger,
		viewMode:   ViewList,
		theme:      t,
		styles:     st,
		titleInput: input,
		keys:       newKeyMap(),
		formKeys:   newFormKeyMap(),
		help:       help.New(),
		spinner:    s,
		viewport:   viewport.New(60, 10),
		width:      80,
		height:     24,
	}
	m.rebuildOptions()

	// The manager may already be past its first page, so rebuild from the
	// whole visible slice.
	view := m.manager.View()
	view.Reset = true
	view.Revealed = view.Visible
	m.list.Apply(view, m.catalog.Authors)

	return m, nil
}

// Init initializes the model and returns initial commands
func (m Model) Init() tea.Cmd {
	return nil
}

// Theme returns the active theme.
func (m Model) Theme() theme.Theme {
	return m.theme
}

// Mode returns the current view mode.
func (m Model) Mode() ViewMode {
	return m.viewMode
}

// Items returns the rendered previews.
func (m Model) Items() []present.Preview {
	return m.list.Items
}

// Cursor returns the selected item index.
func (m Model) Cursor() int {
	return m.cursor
}

// SelectedPreview returns the preview under the cursor.
func (m Model) SelectedPreview() (present.Preview, bool) {
	if m.cursor < 0 || m.cursor >= len(m.list.Items) {
		return present.Preview{}, false
	}
	return m.list.Items[m.cursor], true
}

func (m *Model) setTheme(t theme.Theme) {
	m.theme = t
	m.styles = newStyles(t)
	m.spinner.Style = m.styles.spinner
	m.log.Info("theme changed", "theme", t.String())
}

func (m *Model) rebuildOptions() {
	m.authorOpts = present.Options(m.catalog.Authors, present.AllAuthors)
	m.genreOpts = present.Options(m.catalog.Genres, present.AllGenres)
	m.authorIndex = 0
	m.genreIndex = 0
}

// applyView folds a manager view into the list; a reset also rewinds the cursor.
func (m *Model) applyView(v catalog.View) {
	m.list.Apply(v, m.catalog.Authors)
	if v.Reset {
		m.cursor = 0
		m.scrollRow = 0
	}
	m.clampCursor()
}

func (m *Model) columns() int {
	return max(1, (m.width-2)/cardWidth)
}

func (m *Model) visibleRows() int {
	chrome := 12
	if m.showError {
		chrome += 4
	}
	return max(1, (m.height-chrome)/cardHeight)
}

func (m *Model) moveCursor(delta int) {
	if len(m.list.Items) == 0 {
		return
	}
	m.cursor += delta
	m.clampCursor()
}

func (m *Model) clampCursor() {
	n := len(m.list.Items)
	if n == 0 {
		m.cursor = 0
		m.scrollRow = 0
		return
	}
	m.cursor = min(max(m.cursor, 0), n-1)

	row := m.cursor / m.columns()
	rows := m.visibleRows()
	if row < m.scrollRow {
		m.scrollRow = row
	}
	if row >= m.scrollRow+rows {
		m.scrollRow = row - rows + 1
	}
}

func (m *Model) setError(msg string) {
	m.showError = true
	m.errorMsg = msg
}

// flashError shows msg and schedules its dismissal.
func (m *Model) flashError(msg string) tea.Cmd {
	m.setError(msg)
	return clearErrorCmd(msg)
}

func (m *Model) clearError() {
	m.showError = false
	m.errorMsg = ""
}

func (m *Model) openSearch() {
	c := m.manager.Criteria()
	m.titleInput.SetValue(c.Title)
	m.titleInput.CursorEnd()
	m.authorIndex = optionIndex(m.authorOpts, c.Author)
	m.genreIndex = optionIndex(m.genreOpts, c.Genre)
	m.focus = fieldTitle
	m.titleInput.Focus()
	m.viewMode = ViewSearch
}

func (m *Model) searchCriteria() catalog.Criteria {
	c := catalog.Criteria{Title: m.titleInput.Value(), Author: catalog.Any, Genre: catalog.Any}
	if m.authorIndex < len(m.authorOpts) {
		c.Author = m.authorOpts[m.authorIndex].Value
	}
	if m.genreIndex < len(m.genreOpts) {
		c.Genre = m.genreOpts[m.genreIndex].Value
	}
	return c
}

func (m *Model) openDetail(id string) error {
	book, err := m.manager.Lookup(id)
	if err != nil {
		return err
	}
	m.detail = present.NewDetail(book, m.catalog.Authors, m.catalog.Genres)
	m.resizeViewport()
	m.viewport.SetContent(m.detailBody())
	m.viewport.GotoTop()
	m.viewMode = ViewDetail
	return nil
}

func (m *Model) resizeViewport() {
	w := max(20, min(m.width-12, 76))
	h := max(3, m.height-16)
	m.viewport.Width = w
	m.viewport.Height = h
}

func optionIndex(opts []present.Option, value string) int {
	for i, o := range opts {
		if o.Value == value {
			return i
		}
	}
	return 0
}
