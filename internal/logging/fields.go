package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Conversion fields.
	FieldEngine   = "engine"
	FieldFlavor   = "flavor"
	FieldJobs     = "jobs"
	FieldDryRun   = "dry_run"
	FieldBytes    = "bytes"
	FieldDuration = "duration"
	FieldSections = "sections"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesConverted  = "files_converted"
	FieldFilesFailed     = "files_failed"
	FieldFilesSkipped    = "files_skipped"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
