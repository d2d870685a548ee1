package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gomddeep/internal/configloader"
	"github.com/yaklabco/gomddeep/internal/logging"
	"github.com/yaklabco/gomddeep/pkg/config"
)

// Default file names written by init.
const (
	defaultConfigYAML = ".gomddeep.yml"
	defaultConfigJSON = ".gomddeep.json"
)

type initFlags struct {
	force  bool
	full   bool
	format string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a gomddeep configuration file",
		Long: `Create a new .gomddeep.yml configuration file in the current directory.

The minimal template lists the common settings as comments. The full template
writes every markdown option with its default value and a short description.`,
		Example: `  gomddeep init                      Create a minimal .gomddeep.yml
  gomddeep init --full               Document every markdown option
  gomddeep init --format json        Create .gomddeep.json instead
  gomddeep init --output site.yml    Write to a custom path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "document every markdown option")
	cmd.Flags().StringVar(&flags.format, "format", "yaml", "file format: yaml or json")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "",
		"output file path (default: .gomddeep.yml or .gomddeep.json)")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewInteractive()
	logger.SetOutput(cmd.ErrOrStderr())

	if flags.format != "yaml" && flags.format != "json" {
		return fmt.Errorf("%w: format %q must be yaml or json", errUsage, flags.format)
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = defaultConfigYAML
		if flags.format == "json" {
			outputPath = defaultConfigJSON
		}
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{
		Full:   flags.full,
		Format: flags.format,
	})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if err := configloader.WriteConfig(absPath, content, flags.force); err != nil {
		return err
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	if flags.full {
		logger.Info("every markdown option is listed with its default")
	}

	return nil
}
