package catalog

import (
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// Record is a raw catalog entry as supplied by the catalog source.
type Record struct {
	ID          string   `yaml:"id" json:"id" validate:"required"`
	Title       string   `yaml:"title" json:"title" validate:"required"`
	Author      string   `yaml:"author" json:"author" validate:"required"`
	Image       string   `yaml:"image,omitempty" json:"image,omitempty"`
	Genres      []string `yaml:"genres,omitempty" json:"genres,omitempty"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Published   string   `yaml:"published,omitempty" json:"published,omitempty"`
}

// Book is a validated, normalized catalog entry. Books are cheap to build and
// are derived from a Record every time they are needed.
type Book struct {
	ID          string
	Title       string
	Author      string
	Image       string
	Genres      []string
	Description string
	Published   time.Time
}

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

var publishedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006",
}

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("http_image", func(fl validator.FieldLevel) bool {
			return isHTTPURL(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

// NewBook validates rec and returns the normalized Book. Records with an empty
// id, title or author are rejected with an *InvalidRecordError.
func NewBook(rec Record) (Book, error) {
	if err := validatorInstance().Struct(rec); err != nil {
		return Book{}, invalidRecord(rec.ID, err)
	}

	return Book{
		ID:          rec.ID,
		Title:       rec.Title,
		Author:      rec.Author,
		Image:       normalizeImage(rec.Image),
		Genres:      uniqueGenres(rec.Genres),
		Description: rec.Description,
		Published:   parsePublished(rec.Published),
	}, nil
}

// Matches reports whether the book satisfies every constraint in c.
func (b Book) Matches(c Criteria) bool {
	titleOK := true
	if needle := c.titleNeedle(); needle != "" {
		titleOK = strings.Contains(strings.ToLower(b.Title), strings.ToLower(needle))
	}

	authorOK := !c.constrainsAuthor() || b.Author == c.Author
	genreOK := !c.constrainsGenre() || b.HasGenre(c.Genre)

	return titleOK && authorOK && genreOK
}

// HasGenre reports whether id is one of the book's genres.
func (b Book) HasGenre(id string) bool {
	return slices.Contains(b.Genres, id)
}

// Year returns the publication year, or 0 when the date is unknown.
func (b Book) Year() int {
	if b.Published.IsZero() {
		return 0
	}
	return b.Published.Year()
}

func invalidRecord(id string, err error) error {
	fields := []string{}
	if ves, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range ves {
			fields = append(fields, strings.ToLower(fe.Field()))
		}
	}
	if len(fields) == 0 {
		fields = append(fields, "required fields")
	}
	return &InvalidRecordError{ID: id, Fields: fields}
}

// normalizeImage keeps only well-formed http(s) URLs; anything else becomes "".
func normalizeImage(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if err := validatorInstance().Var(trimmed, "http_image"); err != nil {
		return ""
	}
	return trimmed
}

func isHTTPURL(raw string) bool {
	if raw == "" || strings.ContainsAny(raw, " \t\n") {
		return false
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(parsed.Scheme)
	return (scheme == "http" || scheme == "https") && parsed.Host != ""
}

func uniqueGenres(genres []string) []string {
	if len(genres) == 0 {
		return []string{}
	}
	out := make([]string, 0, len(genres))
	for _, g := range genres {
		if g == "" || slices.Contains(out, g) {
			continue
		}
		out = append(out, g)
	}
	return out
}

func parsePublished(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range publishedLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC()
		}
	}
	return time.Time{}
}
