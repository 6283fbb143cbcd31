package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath  string
	catalogPath string
	gitURL      string
	gitRef      string
	gitFile     string
	pageSize    int
	theme       string
	logLevel    string
	logFile     string
	verbose     bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "bookconnect",
		Short:         "Browse, search and page through a book catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Interactive terminals get the browser; pipes get the first page.
			if isTerminal(cmd.OutOrStdout()) {
				return runBrowse(cmd, flags)
			}
			return runSearch(cmd, flags, &searchOptions{})
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "Path to the settings file (default: user config dir)")
	pf.StringVar(&flags.catalogPath, "catalog", "", "Path to a YAML or JSON catalog document")
	pf.StringVar(&flags.gitURL, "git-url", "", "Git repository holding the catalog document")
	pf.StringVar(&flags.gitRef, "git-ref", "", "Branch, tag or commit to read from (default: HEAD)")
	pf.StringVar(&flags.gitFile, "git-file", "", "Catalog document path inside the repository")
	pf.IntVar(&flags.pageSize, "page-size", 0, "Books revealed per page (default: catalog setting)")
	pf.StringVar(&flags.theme, "theme", "", "Colour theme: day, night or system")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	pf.StringVar(&flags.logFile, "log-file", "", "Write logs to this file instead of stderr")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(newBrowseCmd(flags))
	cmd.AddCommand(newSearchCmd(flags))
	cmd.AddCommand(newShowCmd(flags))
	cmd.AddCommand(newOptionsCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
