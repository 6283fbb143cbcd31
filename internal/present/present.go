// Package present turns catalog state into the display models rendered by the
// terminal browser and the CLI.
package present

import (
	"fmt"

	"github.com/alexisbeaulieu97/bookconnect/internal/catalog"
	"github.com/alexisbeaulieu97/bookconnect/internal/source"
)

const (
	UnknownTitle  = "Unknown Title"
	UnknownAuthor = "Unknown Author"
	NoCoverAlt    = "No cover available"
	ShowMoreLabel = "Show more"
	AllGenres     = "All Genres"
	AllAuthors    = "All Authors"
	EmptyMessage  = "No results found. Your filters might be too narrow."
)

// Names resolves ids to display names.
type Names interface {
	Name(id string) (string, bool)
}

// Preview is a single list item.
type Preview struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Image    string `json:"image,omitempty"`
	ImageAlt string `json:"image_alt"`
}

// NewPreview builds the list item for book, resolving the author name.
func NewPreview(book catalog.Book, authors Names) Preview {
	title := book.Title
	if title == "" {
		title = UnknownTitle
	}

	alt := NoCoverAlt
	if book.Image != "" {
		alt = title + " cover"
	}

	return Preview{
		ID:       book.ID,
		Title:    title,
		Author:   authorName(book.Author, authors),
		Image:    book.Image,
		ImageAlt: alt,
	}
}

// Detail is the expanded view of one book.
type Detail struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Subtitle    string   `json:"subtitle"`
	Description string   `json:"description"`
	Image       string   `json:"image,omitempty"`
	Genres      []string `json:"genres"`
}

// NewDetail builds the detail view. The subtitle reads "Author (Year)"; the
// year is left out when the publication date is unknown.
func NewDetail(book catalog.Book, authors, genres Names) Detail {
	title := book.Title
	if title == "" {
		title = UnknownTitle
	}

	subtitle := authorName(book.Author, authors)
	if year := book.Year(); year != 0 {
		subtitle = fmt.Sprintf("%s (%d)", subtitle, year)
	}

	names := make([]string, 0, len(book.Genres))
	for _, id := range book.Genres {
		if name, ok := lookup(genres, id); ok {
			names = append(names, name)
			continue
		}
		names = append(names, id)
	}

	return Detail{
		ID:          book.ID,
		Title:       title,
		Subtitle:    subtitle,
		Description: book.Description,
		Image:       book.Image,
		Genres:      names,
	}
}

// Option is one dropdown choice.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Options lists the "any" choice labelled defaultLabel followed by the table
// entries in document order.
func Options(table source.NameTable, defaultLabel string) []Option {
	out := make([]Option, 0, table.Len()+1)
	out = append(out, Option{Value: catalog.Any, Label: defaultLabel})
	for _, e := range table.Entries() {
		out = append(out, Option{Value: e.ID, Label: e.Name})
	}
	return out
}

// ShowMore is the state of the load-more control.
type ShowMore struct {
	Label     string `json:"label"`
	Remaining int    `json:"remaining"`
	Disabled  bool   `json:"disabled"`
}

// NewShowMore derives the control from a view.
func NewShowMore(v catalog.View) ShowMore {
	return ShowMore{
		Label:     ShowMoreLabel,
		Remaining: v.Remaining,
		Disabled:  v.Remaining == 0,
	}
}

// String renders the button text, e.g. "Show more (12)".
func (s ShowMore) String() string {
	return fmt.Sprintf("%s (%d)", s.Label, s.Remaining)
}

func authorName(id string, authors Names) string {
	if name, ok := lookup(authors, id); ok && name != "" {
		return name
	}
	return UnknownAuthor
}

func lookup(names Names, id string) (string, bool) {
	if names == nil {
		return "", false
	}
	return names.Name(id)
}
