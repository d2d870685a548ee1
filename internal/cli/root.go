// Package cli provides the Cobra command structure for gomddeep.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gomddeep/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root gomddeep command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "gomddeep",
		Short: "A Markdown to HTML converter with Markdown Extra support",
		Long: `gomddeep converts Markdown documents to HTML.

The default "deep" engine implements classic Markdown plus the Markdown Extra
syntax: tables, fenced code, footnotes, definition lists, abbreviations and
header ids. It can sanitize untrusted input, qualify relative URLs, size local
images and split documents into sections. A goldmark engine is available for
strict CommonMark or GitHub Flavored Markdown output.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.AddCommand(newConvertCommand())
	rootCmd.AddCommand(newSectionsCommand())
	rootCmd.AddCommand(newRefsCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
