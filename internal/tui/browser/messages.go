package browser

import "github.com/alexisbeaulieu97/bookconnect/internal/source"

// ViewMode determines which screen to render
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewSearch
	ViewSettings
	ViewDetail
	ViewHelp
)

func (v ViewMode) String() string {
	switch v {
	case ViewSearch:
		return "search"
	case ViewSettings:
		return "settings"
	case ViewDetail:
		return "detail"
	case ViewHelp:
		return "help"
	default:
		return "list"
	}
}

// CatalogLoadedMsg carries a successfully reloaded catalog.
type CatalogLoadedMsg struct {
	Catalog *source.Catalog
}

// ErrorMsg indicates a general error occurred
type ErrorMsg struct {
	Message string
	Err     error
}

// ClearErrorMsg requests error banner dismissal. Only the banner showing
// Message is cleared, so a newer error survives an older timer.
type ClearErrorMsg struct {
	Message string
}
