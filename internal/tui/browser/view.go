package browser

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	textwidth "golang.org/x/text/width"

	"github.com/alexisbeaulieu97/bookconnect/internal/catalog"
	"github.com/alexisbeaulieu97/bookconnect/internal/present"
	"github.com/alexisbeaulieu97/bookconnect/internal/theme"
)

// View renders the current model state
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewSearch:
		content = m.place(m.renderSearch())
	case ViewSettings:
		content = m.place(m.renderSettings())
	case ViewDetail:
		content = m.place(m.renderDetail())
	case ViewHelp:
		content = m.place(m.renderHelp())
	default:
		content = m.renderListView()
	}

	return m.styles.app.Width(m.width).Height(m.height).Render(content)
}

func (m Model) place(box string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// renderListView renders the card grid with its header and footer.
func (m Model) renderListView() string {
	var content strings.Builder

	content.WriteString(m.renderHeader())
	content.WriteString("\n")

	if m.showError {
		content.WriteString(m.styles.errorBanner.Render(m.errorMsg))
		content.WriteString("\n")
	} else if m.notice != "" {
		content.WriteString(m.styles.infoBanner.Render(m.notice))
		content.WriteString("\n")
	}

	if m.list.ShowEmpty {
		content.WriteString(m.styles.empty.Render(m.list.EmptyMessage()))
	} else {
		content.WriteString(m.renderGrid())
	}
	content.WriteString("\n")

	content.WriteString(m.renderShowMore())
	content.WriteString("\n")
	content.WriteString(m.renderFooter())

	return content.String()
}

func (m Model) renderHeader() string {
	title := m.styles.title.Render("📚 Book Connect")

	view := m.manager.View()
	summary := fmt.Sprintf("Showing %d of %d  •  %d per page", len(m.list.Items), view.Total(), m.manager.PageSize())
	if c := m.manager.Criteria(); !c.IsIdentity() {
		summary += "  •  " + m.describeCriteria()
	}
	if m.loading {
		summary += fmt.Sprintf("  %s Reloading catalog", m.spinner.View())
	}

	return m.styles.header.Width(max(m.width-2, 0)).Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, m.styles.muted.Render(summary)),
	)
}

func (m Model) describeCriteria() string {
	c := m.manager.Criteria()
	var parts []string
	if title := strings.TrimSpace(c.Title); title != "" {
		parts = append(parts, fmt.Sprintf("title %q", title))
	}
	if c.Author != catalog.Any {
		parts = append(parts, "author "+labelFor(m.authorOpts, c.Author))
	}
	if c.Genre != catalog.Any {
		parts = append(parts, "genre "+labelFor(m.genreOpts, c.Genre))
	}
	return strings.Join(parts, ", ")
}

func (m Model) renderGrid() string {
	items := m.list.Items
	cols := m.columns()
	rows := m.visibleRows()

	start := m.scrollRow * cols
	end := min(start+rows*cols, len(items))

	var lines []string
	if start > 0 {
		lines = append(lines, m.styles.muted.Render("▲ More above"))
	}
	for rowStart := start; rowStart < end; rowStart += cols {
		var cards []string
		for i := rowStart; i < min(rowStart+cols, end); i++ {
			cards = append(cards, m.renderCard(items[i], i == m.cursor))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	if end < len(items) {
		lines = append(lines, m.styles.muted.Render("▼ More below"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderCard(p present.Preview, selected bool) string {
	inner := cardWidth - 4

	cover := p.ImageAlt
	if p.Image != "" {
		cover = "▣ " + p.Image
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.cardTitle.Render(truncate(p.Title, inner)),
		m.styles.cardAuthor.Render(truncate(p.Author, inner)),
		m.styles.cardCover.Render(truncate(cover, inner)),
	)

	style := m.styles.card
	if selected {
		style = m.styles.selectedCard
	}
	return style.Width(cardWidth - 2).Render(body)
}

func (m Model) renderShowMore() string {
	sm := m.list.ShowMore
	if sm.Disabled {
		return m.styles.buttonOff.Render(sm.String())
	}
	return m.styles.button.Render(sm.String())
}

func (m Model) renderFooter() string {
	status := m.styles.muted.Render(fmt.Sprintf("theme: %s", m.theme))
	return m.styles.footer.Width(max(m.width-2, 0)).Render(
		lipgloss.JoinVertical(lipgloss.Left, m.help.ShortHelpView(m.keys.ShortHelp()), status),
	)
}

func (m Model) renderSearch() string {
	field := func(idx int, label, value string) string {
		l := m.styles.label.Render(label)
		if m.focus == idx {
			l = m.styles.label.Foreground(m.styles.palette.Accent).Render(label)
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, l, value)
	}
	selector := func(idx int, opts []present.Option, i int) string {
		label := ""
		if i < len(opts) {
			label = opts[i].Label
		}
		text := fmt.Sprintf("‹ %s ›", label)
		if m.focus == idx {
			return m.styles.focused.Render(text)
		}
		return text
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.overlayTitle.Render("Search"),
		field(fieldTitle, "Title", m.titleInput.View()),
		field(fieldAuthor, "Author", selector(fieldAuthor, m.authorOpts, m.authorIndex)),
		field(fieldGenre, "Genre", selector(fieldGenre, m.genreOpts, m.genreIndex)),
		"",
		m.help.ShortHelpView(m.formKeys.ShortHelp()),
	)
	return m.styles.overlay.Render(body)
}

func (m Model) renderSettings() string {
	option := func(t theme.Theme, label string) string {
		if m.settingsChoice == t {
			return m.styles.focused.Render("[" + label + "]")
		}
		return " " + label + " "
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.overlayTitle.Render("Settings"),
		lipgloss.JoinHorizontal(lipgloss.Top,
			m.styles.label.Render("Theme"),
			option(theme.Day, "Day"), " ", option(theme.Night, "Night"),
		),
		"",
		m.help.ShortHelpView([]key.Binding{m.formKeys.Left, m.formKeys.Submit, m.formKeys.Cancel}),
	)
	return m.styles.overlay.Render(body)
}

func (m Model) renderDetail() string {
	d := m.detail

	cover := present.NoCoverAlt
	if d.Image != "" {
		cover = d.Image
	}
	genres := "none"
	if len(d.Genres) > 0 {
		genres = strings.Join(d.Genres, ", ")
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.overlayTitle.Render(d.Title),
		m.styles.muted.Render(d.Subtitle),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, m.styles.label.Render("Genres"), genres),
		lipgloss.JoinHorizontal(lipgloss.Top, m.styles.label.Render("Cover"), cover),
		"",
		m.viewport.View(),
		"",
		m.styles.muted.Render("esc close • ↑/↓ scroll • ? help"),
	)
	return m.styles.overlay.Render(body)
}

func (m Model) detailBody() string {
	if strings.TrimSpace(m.detail.Description) == "" {
		return m.styles.muted.Render("No description.")
	}
	return lipgloss.NewStyle().Width(m.viewport.Width).Render(m.detail.Description)
}

func (m Model) renderHelp() string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.overlayTitle.Render("Keyboard shortcuts"),
		m.help.FullHelpView(m.keys.FullHelp()),
	)
	return m.styles.overlay.Render(body)
}

func labelFor(opts []present.Option, value string) string {
	for _, o := range opts {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

// truncate shortens s to at most limit terminal cells, ending with an ellipsis.
func truncate(s string, limit int) string {
	if limit <= 0 || cells(s) <= limit {
		return s
	}
	var b strings.Builder
	used := 0
	for _, r := range s {
		w := runeCells(r)
		if used+w > limit-1 {
			break
		}
		b.WriteRune(r)
		used += w
	}
	return b.String() + "…"
}

func cells(s string) int {
	n := 0
	for _, r := range s {
		n += runeCells(r)
	}
	return n
}

// runeCells treats East Asian wide and fullwidth runes as two cells.
func runeCells(r rune) int {
	switch textwidth.LookupRune(r).Kind() {
	case textwidth.EastAsianWide, textwidth.EastAsianFullwidth:
		return 2
	}
	return 1
}
