package reporter

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/gomddeep/pkg/config"
	"github.com/yaklabco/gomddeep/pkg/runner"
)

func renderJSON(out *output, result *runner.Result) (int, error) {
	doc := BuildDocument(result, out.opts)
	return doc.Summary.FilesFailed, encodeJSON(out.w, doc, out.opts.Compact)
}

func renderYAML(out *output, result *runner.Result) (int, error) {
	doc := BuildDocument(result, out.opts)
	return doc.Summary.FilesFailed, encodeYAML(out.w, doc)
}

// encodeJSON writes value indented by two spaces, or on one line when compact.
func encodeJSON(w io.Writer, value any, compact bool) error {
	encoder := json.NewEncoder(w)
	if !compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

func encodeYAML(w io.Writer, value any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(config.YAMLIndent())
	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("encode YAML: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("encode YAML: %w", err)
	}
	return nil
}
