package browser

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/bookconnect/internal/theme"
)

// styles are rebuilt whenever the theme changes.
type styles struct {
	palette theme.Palette

	app          lipgloss.Style
	title        lipgloss.Style
	header       lipgloss.Style
	card         lipgloss.Style
	selectedCard lipgloss.Style
	cardTitle    lipgloss.Style
	cardAuthor   lipgloss.Style
	cardCover    lipgloss.Style
	button       lipgloss.Style
	buttonOff    lipgloss.Style
	empty        lipgloss.Style
	footer       lipgloss.Style
	errorBanner  lipgloss.Style
	infoBanner   lipgloss.Style
	overlay      lipgloss.Style
	overlayTitle lipgloss.Style
	label        lipgloss.Style
	focused      lipgloss.Style
	muted        lipgloss.Style
	spinner      lipgloss.Style
}

func newStyles(t theme.Theme) styles {
	p := t.Palette()

	base := lipgloss.NewStyle().Foreground(p.Foreground)

	card := base.
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Muted).
		Padding(0, 1)

	button := base.
		Bold(true).
		Padding(0, 2).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(p.Accent).
		Foreground(p.Accent)

	return styles{
		palette: p,

		app: base.Background(p.Background),

		title: base.
			Bold(true).
			Foreground(p.Accent).
			PaddingRight(2),

		header: base.
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(p.Muted).
			MarginBottom(1),

		card: card,

		selectedCard: card.
			BorderForeground(p.Accent).
			Foreground(p.Background).
			Background(p.Foreground),

		cardTitle:  lipgloss.NewStyle().Bold(true),
		cardAuthor: lipgloss.NewStyle().Foreground(p.Muted),
		cardCover:  lipgloss.NewStyle().Foreground(p.Muted).Italic(true),

		button:    button,
		buttonOff: button.BorderForeground(p.Muted).Foreground(p.Muted),

		empty: base.
			Foreground(p.Muted).
			Italic(true).
			PaddingTop(2).
			PaddingBottom(2),

		footer: base.
			Foreground(p.Muted).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(p.Muted).
			MarginTop(1),

		errorBanner: lipgloss.NewStyle().
			Foreground(p.Error).
			Bold(true).
			Padding(0, 2).
			MarginBottom(1).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(p.Error),

		infoBanner: base.
			Foreground(p.Accent).
			Padding(0, 2).
			MarginBottom(1),

		overlay: base.
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(p.Accent).
			Padding(1, 3),

		overlayTitle: base.
			Bold(true).
			Foreground(p.Accent).
			MarginBottom(1),

		label: base.
			Foreground(p.Muted).
			Bold(true).
			Width(10),

		focused: base.
			Foreground(p.Accent).
			Bold(true),

		muted: base.Foreground(p.Muted),

		spinner: lipgloss.NewStyle().Foreground(p.Accent),
	}
}
