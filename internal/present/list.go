package present

import "github.com/alexisbeaulieu97/bookconnect/internal/catalog"

// List mirrors the mounted preview items. Apply keeps it in step with the
// catalog manager: a reset view replaces the items, anything else appends the
// newly revealed books.
type List struct {
	Items     []Preview
	ShowMore  ShowMore
	ShowEmpty bool
}

// Apply folds v into the list.
func (l *List) Apply(v catalog.View, authors Names) {
	if v.Reset {
		l.Items = make([]Preview, 0, len(v.Visible))
	}
	for _, book := range v.Revealed {
		l.Items = append(l.Items, NewPreview(book, authors))
	}
	l.ShowMore = NewShowMore(v)
	l.ShowEmpty = v.IsEmpty
}

// EmptyMessage is the text shown when ShowEmpty is set.
func (l *List) EmptyMessage() string {
	if !l.ShowEmpty {
		return ""
	}
	return EmptyMessage
}
