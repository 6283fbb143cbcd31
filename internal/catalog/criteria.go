package catalog

import (
	"fmt"
	"strings"
)

// Any is the selector value meaning "no constraint" for author and genre.
const Any = "any"

// Criteria is the transient search filter submitted by the user.
type Criteria struct {
	Title  string
	Author string
	Genre  string
}

// AnyCriteria returns the identity filter.
func AnyCriteria() Criteria {
	return Criteria{Author: Any, Genre: Any}
}

// IsIdentity reports whether c constrains nothing.
func (c Criteria) IsIdentity() bool {
	return c.titleNeedle() == "" && !c.constrainsAuthor() && !c.constrainsGenre()
}

// Normalize trims the title and maps empty selectors to Any.
func (c Criteria) Normalize() Criteria {
	out := Criteria{
		Title:  strings.TrimSpace(c.Title),
		Author: strings.TrimSpace(c.Author),
		Genre:  strings.TrimSpace(c.Genre),
	}
	if out.Author == "" {
		out.Author = Any
	}
	if out.Genre == "" {
		out.Genre = Any
	}
	return out
}

// String renders the criteria for logs.
func (c Criteria) String() string {
	n := c.Normalize()
	return fmt.Sprintf("title=%q author=%s genre=%s", n.Title, n.Author, n.Genre)
}

func (c Criteria) titleNeedle() string {
	return strings.TrimSpace(c.Title)
}

func (c Criteria) constrainsAuthor() bool {
	return c.Author != "" && c.Author != Any
}

func (c Criteria) constrainsGenre() bool {
	return c.Genre != "" && c.Genre != Any
}
