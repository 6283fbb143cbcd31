package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/bookconnect/internal/present"
)

type optionsOptions struct {
	jsonOutput bool
}

func newOptionsCmd(flags *rootFlags) *cobra.Command {
	opts := &optionsOptions{}

	cmd := &cobra.Command{
		Use:       "options <authors|genres>",
		Short:     "List the author or genre filter choices",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"authors", "genres"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOptions(cmd, flags, opts, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

func runOptions(cmd *cobra.Command, flags *rootFlags, opts *optionsOptions, kind string) error {
	app, err := newAppContext(cmd, flags, "list options", false)
	if err != nil {
		return err
	}
	defer app.Close()

	var choices []present.Option
	switch kind {
	case "authors":
		choices = present.Options(app.Catalog.Authors, present.AllAuthors)
	default:
		choices = present.Options(app.Catalog.Genres, present.AllGenres)
	}

	if opts.jsonOutput {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(choices)
	}

	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "VALUE\tLABEL")
	for _, c := range choices {
		fmt.Fprintf(writer, "%s\t%s\n", c.Value, c.Label)
	}
	return writer.Flush()
}
