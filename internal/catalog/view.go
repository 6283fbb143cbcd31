package catalog

// View is the derived state handed to renderers after every change.
//
// Visible always holds the full visible slice so consumers that redraw from
// scratch can ignore the rest. Revealed holds only the books added by the
// change that produced the view; when Reset is true it equals Visible and the
// previously rendered items must be discarded.
type View struct {
	Visible   []Book
	Revealed  []Book
	Remaining int
	IsEmpty   bool
	Reset     bool
}

// Total is the number of books matching the active filter.
func (v View) Total() int {
	return len(v.Visible) + v.Remaining
}

// CanLoadMore reports whether a load-more request would reveal anything.
func (v View) CanLoadMore() bool {
	return v.Remaining > 0
}
