package cli

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/gomddeep/internal/logging"
	"github.com/yaklabco/gomddeep/pkg/config"
	"github.com/yaklabco/gomddeep/pkg/engine"
	"github.com/yaklabco/gomddeep/pkg/fsutil"
	"github.com/yaklabco/gomddeep/pkg/markdown"
	"github.com/yaklabco/gomddeep/pkg/reporter"
	"github.com/yaklabco/gomddeep/pkg/runner"
)

type refsFlags struct {
	format  string
	id      string
	ignore  []string
	jobs    int
	compact bool
}

func newRefsCommand() *cobra.Command {
	flags := &refsFlags{}

	cmd := &cobra.Command{
		Use:   "refs [paths...]",
		Short: "List the link reference definitions of Markdown files",
		Long: `List the link reference definitions ("[id]: url "title"") found in
Markdown files. Lookups are case-insensitive, as they are when rendering.`,
		Example: `  gomddeep refs docs/
  gomddeep refs README.md --id homepage
  gomddeep refs --format json`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRefs(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", string(config.FormatText),
		"output format: text, table, summary, json, yaml")
	cmd.Flags().StringVar(&flags.id, "id", "", "only show the definition with this id")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact output format")

	return cmd
}

func runRefs(cmd *cobra.Command, args []string, flags *refsFlags) error {
	ctx := commandContext(cmd)
	logger := logging.Default()

	format, err := reporter.ParseFormat(flags.format)
	if err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	workDir, err := filepath.Abs(".")
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	cliCfg := &config.Config{}
	if cmd.Flags().Changed("ignore") {
		cliCfg.Ignore = flags.ignore
	}
	finalCfg, err := loadConfig(ctx, cmd, workDir, cliCfg)
	if err != nil {
		return err
	}

	files, err := runner.Discover(ctx, runner.Options{
		Paths:        args,
		WorkingDir:   workDir,
		Extensions:   finalCfg.Extensions,
		ExcludeGlobs: finalCfg.Ignore,
	})
	if err != nil {
		return err
	}

	jobs := flags.jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	reports := make([]reporter.LinkReport, len(files))
	opts := finalCfg.MarkdownOptions()

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(jobs)

	for i, path := range files {
		group.Go(func() error {
			src, _, err := fsutil.ReadFile(groupCtx, path)
			if err != nil {
				return err
			}

			fileOpts := opts
			if fileOpts.DocumentLocation == "" {
				fileOpts.DocumentLocation = filepath.Dir(path)
			}

			doc, _, err := engine.NewDeep(fileOpts).Document(groupCtx, src)
			if err != nil {
				return fmt.Errorf("parse %s: %w", path, err)
			}

			reports[i] = reporter.LinkReport{Path: path, Links: selectLinks(doc, flags.id)}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	logger.Debug("collected link definitions", logging.FieldFiles, len(files))

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	return reporter.ReportLinks(reports, reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      format,
		Color:       colorMode,
		ShowSummary: true,
		Compact:     flags.compact,
		WorkingDir:  workDir,
	})
}

// selectLinks returns every definition of doc, or only the one named id.
func selectLinks(doc *markdown.Document, id string) []markdown.LinkDefinition {
	if id == "" {
		return doc.LinkDefinitions()
	}
	if def, ok := doc.LinkDefinition(id); ok {
		return []markdown.LinkDefinition{def}
	}
	return nil
}
