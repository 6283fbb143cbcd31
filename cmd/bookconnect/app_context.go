package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/bookconnect/internal/catalog"
	"github.com/alexisbeaulieu97/bookconnect/internal/config"
	"github.com/alexisbeaulieu97/bookconnect/internal/logger"
	"github.com/alexisbeaulieu97/bookconnect/internal/source"
	bcerrors "github.com/alexisbeaulieu97/bookconnect/pkg/errors"
)

// AppContext bundles the long-lived services a command works with.
type AppContext struct {
	Config  *config.Config
	Logger  *logger.Logger
	Catalog *source.Catalog
	Manager *catalog.Manager

	// PageSize is the effective page length after overrides.
	PageSize int

	closers []io.Closer
}

// newAppContext loads settings, the catalog document and an initialized
// manager. Interactive sessions never log to the terminal.
func newAppContext(cmd *cobra.Command, flags *rootFlags, operation string, interactive bool) (*AppContext, error) {
	if err := validateRootFlags(cmd, flags); err != nil {
		return nil, newCommandError(operation, "validating flags", err, "Run 'bookconnect --help' for usage.")
	}

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, newCommandError(operation, "loading settings", err, configSuggestion(err))
	}
	applyFlagOverrides(cfg, flags)
	if err := config.Validate(cfg); err != nil {
		return nil, newCommandError(operation, "validating settings", err, configSuggestion(err))
	}

	app := &AppContext{Config: cfg}

	log, err := app.buildLogger(cmd, interactive)
	if err != nil {
		return nil, newCommandError(operation, "creating logger", err, "Check --log-level and --log-file.")
	}
	app.Logger = log.With("command", cmd.Name())

	cat, err := source.Load(cmdContext(cmd), cfg.Source)
	if err != nil {
		app.Logger.Error(err, "catalog load failed", "location", cfg.Source.Location())
		app.Close()
		return nil, newCommandError(operation, fmt.Sprintf("loading catalog from %s", cfg.Source.Location()), err, sourceSuggestion(err))
	}
	if dups := cat.DuplicateIDs(); len(dups) > 0 {
		app.Logger.Warn("duplicate book ids", "ids", dups)
	}
	app.Catalog = cat

	app.PageSize = cat.PageSize
	if cfg.PageSize > 0 {
		app.PageSize = cfg.PageSize
	}

	mgr, err := catalog.New(cat.Books, app.PageSize, catalog.WithLogger(app.Logger))
	if err != nil {
		app.Close()
		return nil, newCommandError(operation, "initializing catalog", err, "Set a positive page_size in the catalog or pass --page-size.")
	}
	app.Manager = mgr

	return app, nil
}

// Loader re-reads the configured catalog document.
func (a *AppContext) Loader() func(ctx context.Context) (*source.Catalog, error) {
	src := a.Config.Source
	return func(ctx context.Context) (*source.Catalog, error) {
		return source.Load(ctx, src)
	}
}

// Close releases the log file, if any.
func (a *AppContext) Close() {
	for _, c := range a.closers {
		_ = c.Close()
	}
	a.closers = nil
}

func (a *AppContext) buildLogger(cmd *cobra.Command, interactive bool) (*logger.Logger, error) {
	opts := logger.Options{
		Level:         a.Config.Log.Level,
		HumanReadable: !a.Config.Log.JSON,
		Writer:        cmd.ErrOrStderr(),
		Component:     "bookconnect",
	}

	switch {
	case a.Config.Log.File != "":
		f, err := os.OpenFile(a.Config.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		a.closers = append(a.closers, f)
		opts.Writer = f
		opts.HumanReadable = false
	case interactive:
		opts.Writer = io.Discard
	}

	return logger.New(opts)
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func configSuggestion(err error) string {
	var parseErr *bcerrors.ParseError
	if errors.As(err, &parseErr) {
		return "Fix the YAML syntax in your settings file."
	}
	var validationErr *bcerrors.ValidationError
	if errors.As(err, &validationErr) {
		return fmt.Sprintf("Correct the %q setting or its BOOKCONNECT_ environment override.", validationErr.Field)
	}
	return "Check the --config path and file permissions."
}

func sourceSuggestion(err error) string {
	var parseErr *bcerrors.ParseError
	if errors.As(err, &parseErr) {
		return "Fix the catalog document syntax and try again."
	}
	var validationErr *bcerrors.ValidationError
	if errors.As(err, &validationErr) {
		return "Author and genre tables need a non-empty id and name for every entry."
	}
	return "Check --catalog or --git-url and make sure the document exists."
}
