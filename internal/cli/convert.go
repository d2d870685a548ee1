package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/yaklabco/gomddeep/internal/configloader"
	"github.com/yaklabco/gomddeep/internal/logging"
	"github.com/yaklabco/gomddeep/pkg/cache"
	"github.com/yaklabco/gomddeep/pkg/config"
	"github.com/yaklabco/gomddeep/pkg/engine"
	"github.com/yaklabco/gomddeep/pkg/fsutil"
	"github.com/yaklabco/gomddeep/pkg/reporter"
	"github.com/yaklabco/gomddeep/pkg/runner"
)

// stdinArg names standard input on the command line.
const stdinArg = "-"

type convertFlags struct {
	engine     string
	flavor     string
	outputDir  string
	outputExt  string
	format     string
	ignore     []string
	extensions []string
	jobs       int
	stdout     bool
	dryRun     bool
	verbose    bool
	compact    bool
	follow     bool
	watch      bool
	cache      bool
	cacheFile  string

	md markdownFlags
}

// markdownFlags holds the document option flags. Only flags the user set are
// copied into the configuration, so file settings survive otherwise.
type markdownFlags struct {
	safe              bool
	extra             bool
	markdownInHTML    bool
	autoIDs           bool
	urlBase           string
	urlRoot           string
	newWindowExternal bool
	newWindowLocal    bool
	noFollow          bool
	noFollowExternal  bool
	maxImageWidth     int
	documentRoot      string
	footnotesClass    string
	titledImagesClass string
	extractHead       bool
	userBreaks        bool
	summary           int
	sectionHeader     string
	sectionSuffix     string
	sectionFooter     string
	maxNesting        int
	detectLanguage    bool
}

func newConvertCommand() *cobra.Command {
	flags := &convertFlags{}

	cmd := &cobra.Command{
		Use:   "convert [paths...]",
		Short: "Convert Markdown files to HTML",
		Long:  convertLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args, flags)
		},
	}

	addConvertFlags(cmd, flags)
	addMarkdownFlags(cmd, &flags.md)

	return cmd
}

const convertLongDescription = `Convert Markdown files to HTML.

By default, converts all .md, .markdown and .txt files in the current directory
and subdirectories, writing each result next to its source with an .html
extension. Files whose output is already up to date are left untouched.

With no paths and piped input, or with "-" as the only path, the document is
read from standard input and the HTML is written to standard output.

Examples:
  gomddeep convert                         # Convert the current directory
  gomddeep convert docs/ --out site/       # Mirror docs/ into site/
  gomddeep convert README.md --stdout      # Print the HTML
  cat notes.md | gomddeep convert --safe   # Sanitize untrusted input
  gomddeep convert --engine goldmark --flavor gfm
  gomddeep convert --watch --cache         # Reconvert on change`

func addConvertFlags(cmd *cobra.Command, flags *convertFlags) {
	cmd.Flags().StringVar(&flags.engine, "engine", config.EngineDeep,
		fmt.Sprintf("rendering engine: %v", engine.Names()))
	cmd.Flags().StringVar(&flags.flavor, "flavor", string(config.FlavorCommonMark),
		"goldmark dialect: commonmark, gfm")
	cmd.Flags().StringVarP(&flags.outputDir, "out", "o", "", "directory that receives converted files")
	cmd.Flags().StringVar(&flags.outputExt, "ext", runner.DefaultOutputExt, "extension of converted files")
	cmd.Flags().StringVar(&flags.format, "format", string(config.FormatText),
		"report format: text, table, summary, json, yaml")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.extensions, "extensions", nil,
		"file extensions picked up from directories (default .md,.markdown,.txt)")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().BoolVar(&flags.stdout, "stdout", false, "write HTML to standard output instead of files")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "convert without writing anything")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "list every file in the report")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact output format")
	cmd.Flags().BoolVar(&flags.follow, "follow-symlinks", false, "descend into symlinked directories")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "keep running and reconvert files as they change")
	cmd.Flags().BoolVar(&flags.cache, "cache", false, "skip files whose output is current ("+cache.DefaultFileName+")")
	cmd.Flags().StringVar(&flags.cacheFile, "cache-file", "", "path of the conversion cache (implies --cache)")
}

func addMarkdownFlags(cmd *cobra.Command, md *markdownFlags) {
	flagSet := cmd.Flags()

	flagSet.BoolVar(&md.safe, "safe", false, "strip unsafe HTML tags and attributes")
	flagSet.BoolVar(&md.extra, "extra", true, "enable Markdown Extra syntax")
	flagSet.BoolVar(&md.markdownInHTML, "markdown-in-html", false, "process markdown inside HTML blocks")
	flagSet.BoolVar(&md.autoIDs, "auto-ids", false, "generate id attributes for headings")
	flagSet.StringVar(&md.urlBase, "url-base", "", "base URL for relative links")
	flagSet.StringVar(&md.urlRoot, "url-root", "", "base URL for root-relative links")
	flagSet.BoolVar(&md.newWindowExternal, "new-window-external", false, "open external links in a new window")
	flagSet.BoolVar(&md.newWindowLocal, "new-window-local", false, "open local links in a new window")
	flagSet.BoolVar(&md.noFollow, "nofollow", false, "add rel=nofollow to every link")
	flagSet.BoolVar(&md.noFollowExternal, "nofollow-external", false, "add rel=nofollow to external links")
	flagSet.IntVar(&md.maxImageWidth, "max-image-width", 0, "scale local images wider than this")
	flagSet.StringVar(&md.documentRoot, "document-root", "", "directory for root-relative image paths")
	flagSet.StringVar(&md.footnotesClass, "footnotes-class", "", "class of the footnotes div")
	flagSet.StringVar(&md.titledImagesClass, "titled-images-class", "", "wrap titled images in a div of this class")
	flagSet.BoolVar(&md.extractHead, "extract-head", false, "drop <head> blocks from the output")
	flagSet.BoolVar(&md.userBreaks, "user-breaks", false, "treat === lines and rules as section breaks")
	flagSet.IntVar(&md.summary, "summary", 0, "render plain text up to this many characters (-1 = all)")
	flagSet.StringVar(&md.sectionHeader, "section-header", "", "text before each section, {0} is the index")
	flagSet.StringVar(&md.sectionSuffix, "section-heading-suffix", "", "text after each section heading")
	flagSet.StringVar(&md.sectionFooter, "section-footer", "", "text after each section")
	flagSet.IntVar(&md.maxNesting, "max-nesting", 0, "maximum nesting of quotes and lists")
	flagSet.BoolVar(&md.detectLanguage, "detect-language", false, "guess the language of unlabeled code blocks")

	setFlagGroup(flagSet, markdownFlagGroup,
		"safe", "extra", "markdown-in-html", "auto-ids", "url-base", "url-root",
		"new-window-external", "new-window-local", "nofollow", "nofollow-external",
		"max-image-width", "document-root", "footnotes-class", "titled-images-class",
		"extract-head", "user-breaks", "summary", "section-header",
		"section-heading-suffix", "section-footer", "max-nesting", "detect-language")
}

// applyMarkdownFlags copies the changed document flags into cfg.
func applyMarkdownFlags(cmd *cobra.Command, md *markdownFlags, cfg *config.MarkdownConfig) {
	changed := cmd.Flags().Changed
	setBool := func(name string, value bool, dst **bool) {
		if changed(name) {
			*dst = &value
		}
	}
	setString := func(name, value string, dst *string) {
		if changed(name) {
			*dst = value
		}
	}
	setInt := func(name string, value int, dst *int) {
		if changed(name) {
			*dst = value
		}
	}

	setBool("safe", md.safe, &cfg.SafeMode)
	setBool("extra", md.extra, &cfg.ExtraMode)
	setBool("markdown-in-html", md.markdownInHTML, &cfg.MarkdownInHTML)
	setBool("auto-ids", md.autoIDs, &cfg.AutoHeadingIDs)
	setString("url-base", md.urlBase, &cfg.URLBaseLocation)
	setString("url-root", md.urlRoot, &cfg.URLRootLocation)
	setBool("new-window-external", md.newWindowExternal, &cfg.NewWindowForExternalLinks)
	setBool("new-window-local", md.newWindowLocal, &cfg.NewWindowForLocalLinks)
	setBool("nofollow", md.noFollow, &cfg.NoFollowLinks)
	setBool("nofollow-external", md.noFollowExternal, &cfg.NoFollowExternalLinks)
	setInt("max-image-width", md.maxImageWidth, &cfg.MaxImageWidth)
	setString("document-root", md.documentRoot, &cfg.DocumentRoot)
	setString("footnotes-class", md.footnotesClass, &cfg.HTMLClassFootnotes)
	setString("titled-images-class", md.titledImagesClass, &cfg.HTMLClassTitledImages)
	setBool("extract-head", md.extractHead, &cfg.ExtractHeadBlocks)
	setBool("user-breaks", md.userBreaks, &cfg.UserBreaks)
	setInt("summary", md.summary, &cfg.SummaryLength)
	setString("section-header", md.sectionHeader, &cfg.SectionHeader)
	setString("section-heading-suffix", md.sectionSuffix, &cfg.SectionHeadingSuffix)
	setString("section-footer", md.sectionFooter, &cfg.SectionFooter)
	setInt("max-nesting", md.maxNesting, &cfg.MaxNesting)
	setBool("detect-language", md.detectLanguage, &cfg.DetectCodeLanguage)
}

// cliConfig builds the highest precedence configuration layer from the
// flags the user set.
func cliConfig(cmd *cobra.Command, flags *convertFlags) *config.Config {
	changed := cmd.Flags().Changed

	cfg := &config.Config{
		Format: config.OutputFormat(flags.format),
		Stdout: flags.stdout,
		DryRun: flags.dryRun,
	}
	if changed("engine") {
		cfg.Engine = flags.engine
	}
	if changed("flavor") {
		cfg.Flavor = config.Flavor(flags.flavor)
	}
	if changed("out") {
		cfg.OutputDir = flags.outputDir
	}
	if changed("jobs") {
		cfg.Jobs = flags.jobs
	}
	if changed("ignore") {
		cfg.Ignore = flags.ignore
	}
	if changed("extensions") {
		cfg.Extensions = normalizeExtensions(flags.extensions)
	}
	applyMarkdownFlags(cmd, &flags.md, &cfg.Markdown)

	return cfg
}

// normalizeExtensions adds the leading dot the runner expects.
func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		if ext == "" {
			continue
		}
		if ext[0] != '.' {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}

// commandContext returns the command context, which is nil when the command
// is executed without ExecuteContext.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadConfig merges config files, environment and cfg the way every
// command does, logging loader warnings.
func loadConfig(ctx context.Context, cmd *cobra.Command, workDir string, cfg *config.Config) (*config.Config, error) {
	logger := logging.Default()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cfg,
	})
	if err != nil {
		return nil, errors.Join(errConfig, err)
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldFiles, loadResult.LoadedFrom)
	}

	return loadResult.Config, nil
}

func runConvert(cmd *cobra.Command, args []string, flags *convertFlags) error {
	logger := logging.Default()

	ctx := commandContext(cmd)

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	if !config.OutputFormat(flags.format).IsValid() {
		return fmt.Errorf("%w: unknown format %q", errUsage, flags.format)
	}

	finalCfg, err := loadConfig(ctx, cmd, workDir, cliConfig(cmd, flags))
	if err != nil {
		return err
	}

	logger.Debug("configuration loaded",
		logging.FieldEngine, finalCfg.Engine,
		logging.FieldFlavor, finalCfg.Flavor,
		logging.FieldDryRun, finalCfg.DryRun,
		logging.FieldJobs, finalCfg.Jobs,
	)

	engineOpts := engine.Options{
		Markdown: finalCfg.MarkdownOptions(),
		Flavor:   string(finalCfg.Flavor),
	}

	if readsStdin(cmd, args) {
		if flags.watch {
			return fmt.Errorf("%w: --watch cannot read standard input", errUsage)
		}
		return convertStdin(ctx, cmd, finalCfg.Engine, engineOpts, workDir)
	}

	runOpts := runner.Options{
		Paths:          args,
		WorkingDir:     workDir,
		Extensions:     finalCfg.Extensions,
		ExcludeGlobs:   finalCfg.Ignore,
		FollowSymlinks: flags.follow,
		Jobs:           finalCfg.Jobs,
		OutputDir:      finalCfg.OutputDir,
		OutputExt:      flags.outputExt,
		Mode:           outputMode(finalCfg),
	}

	fingerprint, err := settingsFingerprint(finalCfg, runOpts.OutputExt)
	if err != nil {
		return err
	}
	runOpts.Fingerprint = fingerprint

	if flags.cache || flags.cacheFile != "" {
		cachePath := flags.cacheFile
		if cachePath == "" {
			cachePath = filepath.Join(workDir, cache.DefaultFileName)
		}
		convCache, err := cache.Open(cachePath)
		if err != nil {
			return err
		}
		defer func() {
			if err := convCache.Close(); err != nil {
				logger.Warn("close cache", logging.FieldError, err)
			}
		}()
		runOpts.Cache = convCache
	}

	// With --stdout the HTML owns standard output, so the report moves.
	reportWriter := cmd.OutOrStdout()
	if finalCfg.Stdout {
		reportWriter = cmd.ErrOrStderr()
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	format, err := reporter.ParseFormat(string(finalCfg.Format))
	if err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      reportWriter,
		Format:      format,
		Color:       colorMode,
		ShowSummary: true,
		Verbose:     flags.verbose,
		Compact:     flags.compact,
		WorkingDir:  workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	convRunner := runner.New(finalCfg.Engine, engineOpts)

	logger.Debug("starting conversion",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	if flags.watch {
		return watchConvert(ctx, cmd, convRunner, runOpts, rep)
	}

	result, err := convRunner.Run(ctx, runOpts)
	if err != nil {
		return fmt.Errorf("conversion run failed: %w", err)
	}

	if finalCfg.Stdout {
		if err := writeCollected(cmd.OutOrStdout(), result); err != nil {
			return err
		}
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	if ExitCodeFromResult(result) != ExitSuccess {
		return ErrConversionFailed
	}

	return nil
}

func outputMode(cfg *config.Config) runner.OutputMode {
	switch {
	case cfg.DryRun:
		return runner.OutputNone
	case cfg.Stdout:
		return runner.OutputCollect
	default:
		return runner.OutputFiles
	}
}

// settingsFingerprint digests every setting that changes the produced HTML.
func settingsFingerprint(cfg *config.Config, outputExt string) (string, error) {
	settings := struct {
		Engine    string                `yaml:"engine"`
		Flavor    config.Flavor         `yaml:"flavor"`
		Markdown  config.MarkdownConfig `yaml:"markdown"`
		OutputExt string                `yaml:"output_ext"`
	}{cfg.Engine, cfg.Flavor, cfg.Markdown, outputExt}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return "", fmt.Errorf("fingerprint settings: %w", err)
	}
	return fsutil.Digest(data), nil
}

func writeCollected(w io.Writer, result *runner.Result) error {
	for _, outcome := range result.Files {
		if outcome.Error != nil {
			continue
		}
		if _, err := w.Write(outcome.HTML); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	return nil
}

func watchConvert(
	ctx context.Context,
	cmd *cobra.Command,
	convRunner *runner.Runner,
	runOpts runner.Options,
	rep reporter.Reporter,
) error {
	logger := logging.Default()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	logger.Info("watching for changes", logging.FieldPaths, runOpts.Paths)

	return convRunner.Watch(ctx, runOpts, runner.WatchOptions{
		OnResult: func(result *runner.Result) {
			if runOpts.Mode == runner.OutputCollect {
				if err := writeCollected(cmd.OutOrStdout(), result); err != nil {
					logger.Error("write output", logging.FieldError, err)
				}
			}
			if _, err := rep.Report(ctx, result); err != nil {
				logger.Error("report failed", logging.FieldError, err)
			}
		},
	})
}

// readsStdin reports whether the document comes from standard input: either
// "-" is the only path, or no paths were given and input is piped.
func readsStdin(cmd *cobra.Command, args []string) bool {
	if len(args) == 1 && args[0] == stdinArg {
		return true
	}
	if len(args) > 0 {
		return false
	}

	file, ok := cmd.InOrStdin().(*os.File)
	if !ok {
		return true
	}
	if isTerminal(file) {
		return false
	}
	info, err := file.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeNamedPipe != 0 || info.Mode().IsRegular()
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	file, ok := r.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

func convertStdin(ctx context.Context, cmd *cobra.Command, name string, opts engine.Options, workDir string) error {
	src, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("read standard input: %w", err)
	}

	if opts.Markdown.DocumentLocation == "" {
		opts.Markdown.DocumentLocation = workDir
	}

	conv, err := engine.New(name, opts)
	if err != nil {
		return err
	}

	out, err := conv.Convert(ctx, src)
	if err != nil {
		return fmt.Errorf("convert standard input: %w", err)
	}

	if _, err := cmd.OutOrStdout().Write(out); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	logging.Default().Debug("converted standard input",
		logging.FieldEngine, conv.Name(),
		logging.FieldBytes, len(out),
	)
	return nil
}
