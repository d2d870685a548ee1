package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yaklabco/gomddeep/internal/logging"
	"github.com/yaklabco/gomddeep/pkg/config"
	"github.com/yaklabco/gomddeep/pkg/fsutil"
	"github.com/yaklabco/gomddeep/pkg/markdown"
)

// sectionFilePattern names the files written by "sections split --out".
const sectionFilePattern = "section-%03d.md"

type sectionsFlags struct {
	user      bool
	outputDir string
	format    string
}

// sectionEntry is the structured form of one split section.
type sectionEntry struct {
	Index   int    `json:"index" yaml:"index"`
	Content string `json:"content" yaml:"content"`
}

func newSectionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sections",
		Short: "Split documents into sections and join them back",
		Long: `Split a Markdown document into sections, or join sections into a document.

Heading sections start at every level 1 to 3 heading; the text before the
first heading is section 0. With --user the document is split at user breaks
instead: lines of "===" or horizontal rules standing on their own.`,
	}

	cmd.AddCommand(newSectionsSplitCommand())
	cmd.AddCommand(newSectionsJoinCommand())

	return cmd
}

func newSectionsSplitCommand() *cobra.Command {
	flags := &sectionsFlags{}

	cmd := &cobra.Command{
		Use:   "split [file|-]",
		Short: "Split a document into sections",
		Example: `  gomddeep sections split guide.md
  gomddeep sections split guide.md --out parts/
  cat slides.md | gomddeep sections split --user --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSectionsSplit(cmd, args, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.user, "user", false, "split at user breaks instead of headings")
	cmd.Flags().StringVarP(&flags.outputDir, "out", "o", "", "write each section to a numbered file in this directory")
	cmd.Flags().StringVar(&flags.format, "format", string(config.FormatText), "output format: text, json, yaml")

	return cmd
}

func newSectionsJoinCommand() *cobra.Command {
	flags := &sectionsFlags{}

	cmd := &cobra.Command{
		Use:     "join files...",
		Short:   "Join section files into one document",
		Example: `  gomddeep sections join parts/section-*.md > guide.md`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSectionsJoin(cmd, args, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.user, "user", false, "join with user breaks")

	return cmd
}

func runSectionsSplit(cmd *cobra.Command, args []string, flags *sectionsFlags) error {
	ctx := commandContext(cmd)
	logger := logging.Default()

	src, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	var sections []string
	if flags.user {
		sections = markdown.SplitUserSections(string(src))
	} else {
		sections = markdown.SplitSections(string(src))
	}

	logger.Debug("split document", logging.FieldSections, len(sections))

	if flags.outputDir != "" {
		if err := os.MkdirAll(flags.outputDir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		for i, section := range sections {
			path := filepath.Join(flags.outputDir, fmt.Sprintf(sectionFilePattern, i))
			if err := fsutil.WriteAtomic(ctx, path, []byte(section), fsutil.DefaultFileMode); err != nil {
				return err
			}
			logger.Debug("wrote section", logging.FieldPath, path)
		}
		logger.Info("split document", logging.FieldSections, len(sections), logging.FieldOutput, flags.outputDir)
		return nil
	}

	return writeSections(cmd.OutOrStdout(), sections, config.OutputFormat(flags.format))
}

func writeSections(w io.Writer, sections []string, format config.OutputFormat) error {
	entries := make([]sectionEntry, len(sections))
	for i, section := range sections {
		entries[i] = sectionEntry{Index: i, Content: section}
	}

	switch format {
	case config.FormatText, "":
		var buf bytes.Buffer
		for _, entry := range entries {
			fmt.Fprintf(&buf, "<!-- section %d -->\n", entry.Index)
			buf.WriteString(entry.Content)
			if entry.Content != "" && !strings.HasSuffix(entry.Content, "\n") {
				buf.WriteByte('\n')
			}
		}
		_, err := w.Write(buf.Bytes())
		return err
	case config.FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	case config.FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(config.YAMLIndent())
		if err := encoder.Encode(entries); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return fmt.Errorf("%w: sections cannot be written as %q", errUsage, format)
	}
}

func runSectionsJoin(cmd *cobra.Command, args []string, flags *sectionsFlags) error {
	ctx := commandContext(cmd)

	sections := make([]string, 0, len(args))
	for _, path := range args {
		content, _, err := fsutil.ReadFile(ctx, path)
		if err != nil {
			return err
		}
		sections = append(sections, string(content))
	}

	var joined string
	if flags.user {
		joined = markdown.JoinUserSections(sections)
	} else {
		joined = markdown.JoinSections(sections)
	}

	_, err := io.WriteString(cmd.OutOrStdout(), joined)
	return err
}

// readInput reads the single file argument, or standard input when there is
// none or it is "-".
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == stdinArg {
		if isTerminal(cmd.InOrStdin()) {
			return nil, ErrNoInput
		}
		src, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read standard input: %w", err)
		}
		return src, nil
	}

	src, _, err := fsutil.ReadFile(commandContext(cmd), args[0])
	return src, err
}
