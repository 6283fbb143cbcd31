package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/bookconnect/internal/catalog"
	"github.com/alexisbeaulieu97/bookconnect/internal/present"
)

type showOptions struct {
	jsonOutput bool
}

func newShowCmd(flags *rootFlags) *cobra.Command {
	opts := &showOptions{}

	cmd := &cobra.Command{
		Use:   "show <book-id>",
		Short: "Show the details of a book",
		Long:  `Show a book from the full catalog, regardless of any search filter.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, flags, opts, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

func runShow(cmd *cobra.Command, flags *rootFlags, opts *showOptions, id string) error {
	app, err := newAppContext(cmd, flags, "show book", false)
	if err != nil {
		return err
	}
	defer app.Close()

	book, err := app.Manager.Lookup(id)
	if err != nil {
		suggestion := "Run 'bookconnect search' to list available book ids."
		if errors.Is(err, catalog.ErrInvalidRecord) {
			suggestion = "The catalog entry is missing required fields; fix it in the catalog document."
		}
		return newCommandError("show book", fmt.Sprintf("looking up %q", id), err, suggestion)
	}

	detail := present.NewDetail(book, app.Catalog.Authors, app.Catalog.Genres)

	if opts.jsonOutput {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(detail)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, detail.Title)
	fmt.Fprintln(out, detail.Subtitle)
	fmt.Fprintln(out)

	cover := detail.Image
	if cover == "" {
		cover = present.NoCoverAlt
	}
	fmt.Fprintf(out, "Genres: %s\n", valueOrFallback(strings.Join(detail.Genres, ", "), "(none)"))
	fmt.Fprintf(out, "Cover:  %s\n", cover)

	if desc := strings.TrimSpace(detail.Description); desc != "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, desc)
	}
	return nil
}

func valueOrFallback(value, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	return trimmed
}
