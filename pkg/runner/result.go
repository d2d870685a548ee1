package runner

import "time"

// FileOutcome describes what happened to one source file.
type FileOutcome struct {
	// Path is the absolute source path.
	Path string

	// OutputPath is where the HTML goes (or would go in dry runs).
	OutputPath string

	// HTML is the converted document when the run used OutputCollect.
	HTML []byte

	// InputBytes and OutputBytes are the source and HTML sizes.
	InputBytes  int
	OutputBytes int

	// Duration is the time spent converting.
	Duration time.Duration

	// Written is true if the output file was created or changed.
	Written bool

	// Unchanged is true if the output file already held the same HTML.
	Unchanged bool

	// Cached is true if the cache showed the output to be current.
	Cached bool

	// Skipped is true if the source changed while it was being converted;
	// nothing was written.
	Skipped bool

	// Error is set if the file could not be converted.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	FilesDiscovered int
	FilesConverted  int
	FilesWritten    int
	FilesUnchanged  int
	FilesCached     int
	FilesSkipped    int
	FilesFailed     int

	BytesIn  int64
	BytesOut int64

	// Duration is the wall time of the run.
	Duration time.Duration
}

// Result is the overall runner result.
type Result struct {
	// Files are ordered deterministically by path.
	Files []FileOutcome

	Stats Stats

	// Errors contains any non-file-specific errors encountered.
	Errors []error
}

// HasFailures reports whether any file failed to convert.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesFailed > 0
}

// Failed returns the outcomes that carry an error.
func (r *Result) Failed() []FileOutcome {
	if r == nil {
		return nil
	}

	var failed []FileOutcome
	for _, outcome := range r.Files {
		if outcome.Error != nil {
			failed = append(failed, outcome)
		}
	}
	return failed
}

// accumulate updates the result with a file outcome.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	switch {
	case outcome.Error != nil:
		r.Stats.FilesFailed++
		return
	case outcome.Cached:
		r.Stats.FilesCached++
		return
	case outcome.Skipped:
		r.Stats.FilesSkipped++
		return
	}

	r.Stats.FilesConverted++
	r.Stats.BytesIn += int64(outcome.InputBytes)
	r.Stats.BytesOut += int64(outcome.OutputBytes)

	if outcome.Written {
		r.Stats.FilesWritten++
	}
	if outcome.Unchanged {
		r.Stats.FilesUnchanged++
	}
}
