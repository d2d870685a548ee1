package logging_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/gomddeep/internal/logging"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  log.Level
	}{
		{"debug", log.DebugLevel},
		{"info", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"DEBUG", log.DebugLevel},
		{" Error ", log.ErrorLevel},
		{"", log.InfoLevel},
		{"verbose", log.InfoLevel},
	}

	for _, testCase := range tests {
		t.Run(testCase.input, func(t *testing.T) {
			t.Parallel()

			if got := logging.ParseLevel(testCase.input); got != testCase.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", testCase.input, got, testCase.want)
			}
			if got := logging.New(testCase.input).GetLevel(); got != testCase.want {
				t.Errorf("New(%q) level = %v, want %v", testCase.input, got, testCase.want)
			}
		})
	}
}

// Replaces the process-wide logger, so not parallel.
func TestDefaultLogger(t *testing.T) {
	original := logging.Default()
	if original == nil {
		t.Fatal("Default returned nil")
	}
	t.Cleanup(func() { logging.SetDefault(original) })

	replacement := logging.New("error")
	logging.SetDefault(replacement)
	if logging.Default() != replacement {
		t.Fatal("SetDefault did not replace the logger")
	}

	logging.SetLevel("debug")
	if replacement.GetLevel() != log.DebugLevel {
		t.Errorf("SetLevel changed level to %v, want debug", replacement.GetLevel())
	}
}

func TestNewInteractive(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewInteractive()
	logger.SetOutput(&buf)
	logger.Info("created .gomddeep.yml")

	if logger.GetLevel() != log.InfoLevel {
		t.Errorf("expected info level, got %v", logger.GetLevel())
	}
	if !bytes.Contains(buf.Bytes(), []byte("gomddeep")) {
		t.Errorf("expected prefix in output: %q", buf.String())
	}
}

func TestNewWithWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, "warn")

	logger.Info("hidden")
	logger.Warn("converted with warnings", logging.FieldPath, "docs/a.md")

	out := buf.String()
	if bytes.Contains(buf.Bytes(), []byte("hidden")) {
		t.Errorf("info message should be filtered at warn level: %q", out)
	}
	if !bytes.Contains(buf.Bytes(), []byte("path=docs/a.md")) {
		t.Errorf("expected structured field in output: %q", out)
	}
}

func TestContext(t *testing.T) {
	t.Parallel()

	if logging.FromContext(context.Background()) != logging.Default() {
		t.Error("expected default logger from empty context")
	}

	logger := logging.New("debug")
	ctx := logging.WithLogger(context.Background(), logger)
	if logging.FromContext(ctx) != logger {
		t.Error("expected attached logger from context")
	}
}

func TestWithFile(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.New("info")
	logger.SetOutput(&buf)

	ctx := logging.WithFile(logging.WithLogger(context.Background(), logger), "docs/b.md")
	logging.FromContext(ctx).Info("converted")

	if !bytes.Contains(buf.Bytes(), []byte("path=docs/b.md")) {
		t.Errorf("expected file path in output: %q", buf.String())
	}
}
