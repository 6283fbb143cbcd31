package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/bookconnect/internal/theme"
	"github.com/alexisbeaulieu97/bookconnect/internal/tui/browser"
)

// resolveTheme may query the terminal for its background, so only the
// browser calls it.
var resolveTheme = theme.Parse

func newBrowseCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Launch the interactive catalog browser",
		Long:  `Launch the terminal browser to page through the catalog, search it and open book details.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, flags)
		},
	}

	return cmd
}

func runBrowse(cmd *cobra.Command, flags *rootFlags) error {
	app, err := newAppContext(cmd, flags, "browse the catalog", true)
	if err != nil {
		return err
	}
	defer app.Close()

	t, err := resolveTheme(app.Config.Theme)
	if err != nil {
		return newCommandError("browse the catalog", "selecting theme", err, "Use day, night or system.")
	}

	ctx := cmdContext(cmd)
	m, err := browser.New(browser.Options{
		Manager:  app.Manager,
		Catalog:  app.Catalog,
		Theme:    t,
		PageSize: app.Config.PageSize,
		Loader:   app.Loader(),
		Logger:   app.Logger.With("component", "browser"),
		Context:  ctx,
	})
	if err != nil {
		return newCommandError("browse the catalog", "creating browser", err, "Report this as a bug.")
	}

	app.Logger.Info("launching browser", "origin", app.Catalog.Origin, "page_size", app.PageSize, "theme", t.String())

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	if _, err := p.Run(); err != nil {
		app.Logger.Error(err, "browser execution failed")
		return fmt.Errorf("failed to run browser: %w", err)
	}

	app.Logger.Info("browser closed")
	return nil
}
