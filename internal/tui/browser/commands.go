package browser

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/bookconnect/internal/source"
)

// Loader fetches a fresh copy of the catalog document.
type Loader func(ctx context.Context) (*source.Catalog, error)

const (
	reloadTimeout = 2 * time.Minute
	errorTimeout  = 6 * time.Second
)

// reloadCmd runs the loader off the event loop.
func reloadCmd(ctx context.Context, load Loader) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, reloadTimeout)
		defer cancel()

		cat, err := load(ctx)
		if err != nil {
			return ErrorMsg{Message: fmt.Sprintf("Reload failed: %v", err), Err: err}
		}
		if cat == nil {
			return ErrorMsg{Message: "Reload failed: loader returned no catalog"}
		}
		return CatalogLoadedMsg{Catalog: cat}
	}
}

// clearErrorCmd dismisses the banner showing message after the timeout.
func clearErrorCmd(message string) tea.Cmd {
	return tea.Tick(errorTimeout, func(time.Time) tea.Msg {
		return ClearErrorMsg{Message: message}
	})
}
