package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/bookconnect/internal/catalog"
	"github.com/alexisbeaulieu97/bookconnect/internal/present"
)

type searchOptions struct {
	title      string
	author     string
	genre      string
	more       int
	jsonOutput bool
}

func newSearchCmd(flags *rootFlags) *cobra.Command {
	opts := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Filter the catalog and print the visible page",
		Long: `Apply a title, author and genre filter and print the first page of matches.
Use --more to reveal additional pages, as the "Show more" button does.`,
		Example: `  bookconnect search --title dune
  bookconnect search --author austen --genre romance --more 1
  bookconnect search --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, flags, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.title, "title", "t", "", "Case-insensitive title substring")
	cmd.Flags().StringVarP(&opts.author, "author", "a", catalog.Any, "Author id, or any")
	cmd.Flags().StringVarP(&opts.genre, "genre", "g", catalog.Any, "Genre id, or any")
	cmd.Flags().IntVarP(&opts.more, "more", "m", 0, "Number of extra pages to reveal")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

func runSearch(cmd *cobra.Command, flags *rootFlags, opts *searchOptions) error {
	if opts.more < 0 {
		return newCommandError("search", "validating flags", fmt.Errorf("--more must not be negative, got %d", opts.more), "Pass 0 or a positive page count.")
	}

	app, err := newAppContext(cmd, flags, "search", false)
	if err != nil {
		return err
	}
	defer app.Close()

	criteria := catalog.Criteria{Title: opts.title, Author: opts.author, Genre: opts.genre}
	view, err := app.Manager.ApplyFilter(criteria)
	if err != nil {
		return newCommandError("search", "applying filter", err, "Check the catalog document.")
	}
	for i := 0; i < opts.more; i++ {
		next, ok := app.Manager.LoadMore()
		if !ok {
			break
		}
		view = next
	}

	var list present.List
	list.Apply(view, app.Catalog.Authors)

	if opts.jsonOutput {
		return renderSearchJSON(cmd, &list)
	}
	return renderSearchTable(cmd, &list)
}

func renderSearchTable(cmd *cobra.Command, list *present.List) error {
	out := cmd.OutOrStdout()

	if list.ShowEmpty {
		fmt.Fprintln(out, list.EmptyMessage())
		return nil
	}

	writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tTITLE\tAUTHOR\tCOVER")
	for _, p := range list.Items {
		cover := p.Image
		if cover == "" {
			cover = p.ImageAlt
		}
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n", p.ID, p.Title, p.Author, cover)
	}
	if err := writer.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%d shown. %s", len(list.Items), list.ShowMore.String())
	if !list.ShowMore.Disabled {
		fmt.Fprint(out, " (use --more to reveal)")
	}
	fmt.Fprintln(out)
	return nil
}

type searchJSON struct {
	Books    []present.Preview `json:"books"`
	ShowMore present.ShowMore  `json:"show_more"`
	Empty    bool              `json:"empty"`
	Message  string            `json:"message,omitempty"`
}

func renderSearchJSON(cmd *cobra.Command, list *present.List) error {
	payload := searchJSON{
		Books:    list.Items,
		ShowMore: list.ShowMore,
		Empty:    list.ShowEmpty,
		Message:  list.EmptyMessage(),
	}
	if payload.Books == nil {
		payload.Books = []present.Preview{}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}
