package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alexisbeaulieu97/bookconnect/internal/config"
)

func validateRootFlags(cmd *cobra.Command, flags *rootFlags) error {
	if cmd.Flags().Changed("page-size") && flags.pageSize <= 0 {
		return fmt.Errorf("--page-size must be positive, got %d", flags.pageSize)
	}
	if flags.theme != "" {
		switch strings.ToLower(flags.theme) {
		case config.ThemeDay, config.ThemeNight, config.ThemeSystem:
		default:
			return fmt.Errorf("--theme must be day, night or system, got %q", flags.theme)
		}
	}
	if (flags.gitRef != "" || flags.gitFile != "") && flags.gitURL == "" {
		return fmt.Errorf("--git-ref and --git-file require --git-url")
	}
	if flags.gitURL != "" && flags.catalogPath != "" {
		return fmt.Errorf("--catalog and --git-url are mutually exclusive")
	}
	return nil
}

// applyFlagOverrides layers explicitly set flags over the loaded settings.
func applyFlagOverrides(cfg *config.Config, flags *rootFlags) {
	if flags.catalogPath != "" {
		cfg.Source.Path = flags.catalogPath
		cfg.Source.Git = config.GitConfig{}
	}
	if flags.gitURL != "" {
		cfg.Source.Git.URL = flags.gitURL
	}
	if flags.gitRef != "" {
		cfg.Source.Git.Ref = flags.gitRef
	}
	if flags.gitFile != "" {
		cfg.Source.Git.File = flags.gitFile
	}
	if cfg.Source.UsesGit() && cfg.Source.Git.File == "" {
		cfg.Source.Git.File = config.Default().Source.Git.File
	}
	if flags.pageSize > 0 {
		cfg.PageSize = flags.pageSize
	}
	if flags.theme != "" {
		cfg.Theme = strings.ToLower(flags.theme)
	}
	if flags.logLevel != "" {
		cfg.Log.Level = strings.ToLower(flags.logLevel)
	}
	if flags.verbose {
		cfg.Log.Level = "debug"
	}
	if flags.logFile != "" {
		cfg.Log.File = flags.logFile
	}
}

func isTerminal(writer any) bool {
	if file, ok := writer.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	return false
}
