package browser

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/bookconnect/internal/catalog"
	"github.com/alexisbeaulieu97/bookconnect/internal/source"
	"github.com/alexisbeaulieu97/bookconnect/internal/theme"
)

const tooSmallPrefix = "Terminal too small"

// Update handles incoming messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resizeViewport()

		if m.width < minWidth || m.height < minHeight {
			m.setError(fmt.Sprintf("%s (%dx%d). Minimum size: %dx%d",
				tooSmallPrefix, m.width, m.height, minWidth, minHeight))
		} else if m.showError && strings.HasPrefix(m.errorMsg, tooSmallPrefix) {
			m.clearError()
		}
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case CatalogLoadedMsg:
		m.loading = false
		return m.installCatalog(msg.Catalog)

	case ErrorMsg:
		// Reload is the only asynchronous operation, so any error ends it.
		m.loading = false
		if msg.Err != nil {
			m.log.Error(msg.Err, "browser error", "message", msg.Message)
		}
		return m, m.flashError(msg.Message)

	case ClearErrorMsg:
		if m.showError && m.errorMsg == msg.Message {
			m.clearError()
		}
		return m, nil
	}

	return m, nil
}

// installCatalog re-initializes the manager with a reloaded document and
// re-applies the active search. Author and genre ids missing from the new
// tables are dropped from the search.
func (m Model) installCatalog(cat *source.Catalog) (tea.Model, tea.Cmd) {
	if cat == nil {
		return m, m.flashError("Reload failed: loader returned no catalog")
	}

	criteria := knownSelectors(m.manager.Criteria(), cat)
	pageSize := cat.PageSize
	if m.pageSize > 0 {
		pageSize = m.pageSize
	}

	view, err := m.manager.Initialize(cat.Books, pageSize)
	if err != nil {
		return m, m.flashError(fmt.Sprintf("Reload failed: %v", err))
	}
	if !criteria.IsIdentity() {
		if view, err = m.manager.ApplyFilter(criteria); err != nil {
			return m, m.flashError(fmt.Sprintf("Reload failed: %v", err))
		}
	}

	m.catalog = cat
	m.rebuildOptions()
	m.authorIndex = optionIndex(m.authorOpts, criteria.Author)
	m.genreIndex = optionIndex(m.genreOpts, criteria.Genre)
	m.applyView(view)

	if dups := cat.DuplicateIDs(); len(dups) > 0 {
		m.log.Warn("duplicate book ids", "ids", dups)
	}
	m.notice = fmt.Sprintf("Catalog reloaded: %d books", len(cat.Books))
	m.log.Info("catalog reloaded", "origin", cat.Origin, "books", len(cat.Books), "criteria", criteria.String())
	return m, nil
}

// knownSelectors resets the author and genre of c to catalog.Any when the
// reloaded tables no longer list them.
func knownSelectors(c catalog.Criteria, cat *source.Catalog) catalog.Criteria {
	c = c.Normalize()
	if _, ok := cat.Authors.Name(c.Author); c.Author != catalog.Any && !ok {
		c.Author = catalog.Any
	}
	if _, ok := cat.Genres.Name(c.Genre); c.Genre != catalog.Any && !ok {
		c.Genre = catalog.Any
	}
	return c
}

// handleKeyPress handles keyboard input based on current view mode
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.viewMode {
	case ViewSearch:
		return m.handleSearchKeys(msg)
	case ViewSettings:
		return m.handleSettingsKeys(msg)
	case ViewDetail:
		return m.handleDetailKeys(msg)
	case ViewHelp:
		return m.handleHelpKeys(msg)
	default:
		return m.handleListKeys(msg)
	}
}

// handleListKeys handles keys in list view
func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Dismiss), key.Matches(msg, m.keys.Back):
		m.clearError()
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-m.columns())
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(m.columns())
		return m, nil

	case key.Matches(msg, m.keys.Left):
		m.moveCursor(-1)
		return m, nil

	case key.Matches(msg, m.keys.Right):
		m.moveCursor(1)
		return m, nil

	case key.Matches(msg, m.keys.Open):
		selected, ok := m.SelectedPreview()
		if !ok {
			return m, nil
		}
		if err := m.openDetail(selected.ID); err != nil {
			m.log.Warn("open book failed", "id", selected.ID, "error", err.Error())
			return m, m.flashError(fmt.Sprintf("Cannot open %s: %v", selected.ID, err))
		}
		return m, nil

	case key.Matches(msg, m.keys.More):
		if view, ok := m.manager.LoadMore(); ok {
			m.applyView(view)
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.openSearch()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Settings):
		m.settingsChoice = m.theme
		m.viewMode = ViewSettings
		return m, nil

	case key.Matches(msg, m.keys.Theme):
		m.setTheme(m.theme.Toggle())
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		if m.loading {
			return m, nil
		}
		if m.loader == nil {
			return m, m.flashError("Reload is not available for this catalog")
		}
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, reloadCmd(m.ctx, m.loader))

	case key.Matches(msg, m.keys.Help):
		m.prevMode = ViewList
		m.viewMode = ViewHelp
		return m, nil
	}

	return m, nil
}

// handleSearchKeys drives the search overlay: a title input plus author and
// genre selectors.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit

	case key.Matches(msg, m.formKeys.Cancel):
		m.titleInput.Blur()
		m.viewMode = ViewList
		return m, nil

	case key.Matches(msg, m.formKeys.Submit):
		criteria := m.searchCriteria()
		view, err := m.manager.ApplyFilter(criteria)
		m.titleInput.Blur()
		m.viewMode = ViewList
		if err != nil {
			return m, m.flashError(fmt.Sprintf("Search failed: %v", err))
		}
		m.applyView(view)
		m.log.Debug("search submitted", "criteria", criteria.Normalize().String(), "matches", view.Total())
		return m, nil

	case key.Matches(msg, m.formKeys.Next):
		m.setFocus((m.focus + 1) % fieldCount)
		return m, nil

	case key.Matches(msg, m.formKeys.Prev):
		m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		return m, nil
	}

	switch m.focus {
	case fieldAuthor:
		m.authorIndex = cycle(m.authorIndex, len(m.authorOpts), msg, m.formKeys)
		return m, nil
	case fieldGenre:
		m.genreIndex = cycle(m.genreIndex, len(m.genreOpts), msg, m.formKeys)
		return m, nil
	}

	var cmd tea.Cmd
	m.titleInput, cmd = m.titleInput.Update(msg)
	return m, cmd
}

func (m *Model) setFocus(field int) {
	m.focus = field
	if field == fieldTitle {
		m.titleInput.Focus()
		return
	}
	m.titleInput.Blur()
}

func cycle(index, n int, msg tea.KeyMsg, keys formKeyMap) int {
	if n == 0 {
		return 0
	}
	switch {
	case key.Matches(msg, keys.Left):
		return (index + n - 1) % n
	case key.Matches(msg, keys.Right):
		return (index + 1) % n
	}
	return index
}

// handleSettingsKeys handles the theme picker.
func (m Model) handleSettingsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit

	case key.Matches(msg, m.formKeys.Cancel):
		m.viewMode = ViewList
		return m, nil

	case key.Matches(msg, m.formKeys.Submit):
		if m.settingsChoice != m.theme {
			m.setTheme(m.settingsChoice)
		}
		m.viewMode = ViewList
		return m, nil

	case key.Matches(msg, m.formKeys.Left), key.Matches(msg, m.formKeys.Right),
		key.Matches(msg, m.formKeys.Next), key.Matches(msg, m.formKeys.Prev):
		m.settingsChoice = m.settingsChoice.Toggle()
		return m, nil
	}

	switch msg.String() {
	case "d":
		m.settingsChoice = theme.Day
	case "n":
		m.settingsChoice = theme.Night
	}
	return m, nil
}

// handleDetailKeys handles keys in detail view
func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "esc", "backspace":
		m.viewMode = ViewList
		return m, nil

	case "?":
		m.prevMode = ViewDetail
		m.viewMode = ViewHelp
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// handleHelpKeys handles keys in help view
func (m Model) handleHelpKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "?", "esc", "q":
		m.viewMode = m.prevMode
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}
