// Package runner converts many markdown files concurrently.
package runner

import (
	"github.com/yaklabco/gomddeep/pkg/cache"
	"github.com/yaklabco/gomddeep/pkg/config"
)

// DefaultOutputExt is the extension given to converted files.
const DefaultOutputExt = ".html"

// OutputMode selects what happens to converted HTML.
type OutputMode int

const (
	// OutputFiles writes each document to its output path.
	OutputFiles OutputMode = iota

	// OutputCollect keeps the HTML in FileOutcome.HTML for the caller.
	OutputCollect

	// OutputNone converts without keeping or writing anything.
	OutputNone
)

// Options controls a multi-file conversion.
type Options struct {
	// Paths are the user-specified paths (files or directories) to process.
	// If empty, defaults to the current working directory.
	Paths []string

	// WorkingDir is the base directory used to resolve relative Paths.
	// If empty, the current process working directory is used.
	WorkingDir string

	// Extensions is the set of file extensions (with leading dot) picked up
	// when walking directories. Defaults to config.DefaultExtensions().
	Extensions []string

	// ExcludeGlobs are glob patterns used to skip files or directories.
	ExcludeGlobs []string

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means "auto" (runtime.NumCPU()).
	Jobs int

	// OutputDir receives converted files mirroring their path relative to
	// WorkingDir. When empty each output is written next to its source.
	OutputDir string

	// OutputExt replaces the source extension. Defaults to DefaultOutputExt.
	OutputExt string

	// Mode selects what happens to the converted HTML.
	Mode OutputMode

	// Cache, when set, lets OutputFiles runs skip sources whose output is
	// current.
	Cache *cache.Cache

	// Fingerprint identifies every setting that changes the HTML. It is
	// mixed into cache digests so that a settings change invalidates them.
	Fingerprint string
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return config.DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}

func (o Options) effectiveOutputExt() string {
	if o.OutputExt == "" {
		return DefaultOutputExt
	}
	return o.OutputExt
}
