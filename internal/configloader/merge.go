package configloader

import "github.com/yaklabco/gomddeep/pkg/config"

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Markdown options: merged field by field, nil pointers leave base alone
//   - Slices: override replaces base entirely if override is non-nil
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.Engine != "" {
		result.Engine = override.Engine
	}
	if override.Flavor != "" {
		result.Flavor = override.Flavor
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.OutputDir != "" {
		result.OutputDir = override.OutputDir
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}

	// CLI-only booleans can only be switched on.
	if override.Stdout {
		result.Stdout = true
	}
	if override.DryRun {
		result.DryRun = true
	}

	result.Markdown = mergeMarkdown(base.Markdown, override.Markdown)

	if override.Extensions != nil {
		result.Extensions = override.Extensions
	}
	if override.Ignore != nil {
		result.Ignore = override.Ignore
	}

	return &result
}

// mergeMarkdown merges document options field by field.
func mergeMarkdown(base, override config.MarkdownConfig) config.MarkdownConfig {
	result := base

	mergeBool(&result.SafeMode, override.SafeMode)
	mergeBool(&result.ExtraMode, override.ExtraMode)
	mergeBool(&result.MarkdownInHTML, override.MarkdownInHTML)
	mergeBool(&result.AutoHeadingIDs, override.AutoHeadingIDs)
	mergeBool(&result.NewWindowForExternalLinks, override.NewWindowForExternalLinks)
	mergeBool(&result.NewWindowForLocalLinks, override.NewWindowForLocalLinks)
	mergeBool(&result.NoFollowLinks, override.NoFollowLinks)
	mergeBool(&result.NoFollowExternalLinks, override.NoFollowExternalLinks)
	mergeBool(&result.ExtractHeadBlocks, override.ExtractHeadBlocks)
	mergeBool(&result.UserBreaks, override.UserBreaks)
	mergeBool(&result.DetectCodeLanguage, override.DetectCodeLanguage)

	mergeString(&result.URLBaseLocation, override.URLBaseLocation)
	mergeString(&result.URLRootLocation, override.URLRootLocation)
	mergeString(&result.DocumentRoot, override.DocumentRoot)
	mergeString(&result.DocumentLocation, override.DocumentLocation)
	mergeString(&result.HTMLClassFootnotes, override.HTMLClassFootnotes)
	mergeString(&result.HTMLClassTitledImages, override.HTMLClassTitledImages)
	mergeString(&result.SectionHeader, override.SectionHeader)
	mergeString(&result.SectionHeadingSuffix, override.SectionHeadingSuffix)
	mergeString(&result.SectionFooter, override.SectionFooter)

	mergeInt(&result.MaxImageWidth, override.MaxImageWidth)
	mergeInt(&result.SummaryLength, override.SummaryLength)
	mergeInt(&result.MaxNesting, override.MaxNesting)

	return result
}

func mergeBool(dst **bool, v *bool) {
	if v != nil {
		*dst = v
	}
}

func mergeString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func mergeInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
