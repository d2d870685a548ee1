package config

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

const yamlIndent = 2

// YAMLIndent is the indentation used for every YAML document gomddeep writes.
func YAMLIndent() int { return yamlIndent }

// ToYAML encodes the file-backed fields of c. CLI-only fields are omitted.
func (c *Config) ToYAML() ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(yamlIndent)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// ToYAMLWithHeader is ToYAML preceded by header and a blank line.
func (c *Config) ToYAMLWithHeader(header string) ([]byte, error) {
	body, err := c.ToYAML()
	if err != nil || header == "" {
		return body, err
	}
	return append([]byte(strings.TrimRight(header, "\n")+"\n\n"), body...), nil
}

// FromYAML decodes a config file. JSON is a subset of YAML, so .json
// configs go through here too.
func FromYAML(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return &cfg, nil
}

// Clone returns a copy of c that shares no slices or pointers with it.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	out := *c
	out.Extensions = slices.Clone(c.Extensions)
	out.Ignore = slices.Clone(c.Ignore)
	out.Markdown = c.Markdown.clone()
	return &out
}

func (m MarkdownConfig) clone() MarkdownConfig {
	out := m
	for _, flag := range []**bool{
		&out.SafeMode,
		&out.ExtraMode,
		&out.MarkdownInHTML,
		&out.AutoHeadingIDs,
		&out.NewWindowForExternalLinks,
		&out.NewWindowForLocalLinks,
		&out.NoFollowLinks,
		&out.NoFollowExternalLinks,
		&out.ExtractHeadBlocks,
		&out.UserBreaks,
		&out.DetectCodeLanguage,
	} {
		if *flag != nil {
			*flag = Bool(**flag)
		}
	}
	return out
}
