package pretty_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomddeep/internal/ui/pretty"
)

func TestNewStyles_ColorDisabled(t *testing.T) {
	styles := pretty.NewStyles(false)
	require.NotNil(t, styles)

	text := "test"
	for name, rendered := range map[string]string{
		"bold":    styles.Bold.Render(text),
		"error":   styles.Error.Render(text),
		"written": styles.Written.Render(text),
		"cached":  styles.Cached.Render(text),
		"header":  styles.TableHeader.Render(text),
	} {
		assert.Equal(t, text, rendered, "no-color %s should not add formatting", name)
	}
}

func TestNewStyles_ColorEnabled(t *testing.T) {
	styles := pretty.NewStyles(true)
	require.NotNil(t, styles)

	// Lipgloss may drop ANSI codes in non-TTY environments; the text survives.
	assert.Contains(t, styles.Error.Render("x"), "x")
	assert.Contains(t, styles.Success.Render("x"), "x")
	assert.Contains(t, styles.TableErrorRow.Render("x"), "x")
}

func TestIsColorEnabled_AlwaysMode(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, pretty.IsColorEnabled("always", &buf), "always mode should return true")
}

func TestIsColorEnabled_NeverMode(t *testing.T) {
	assert.False(t, pretty.IsColorEnabled("never", os.Stdout), "never mode should return false")
}

func TestIsColorEnabled_AutoMode_NonTTY(t *testing.T) {
	var buf bytes.Buffer
	assert.False(t, pretty.IsColorEnabled("auto", &buf), "auto mode with non-TTY should return false")
}

func TestIsColorEnabled_AutoMode_NoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	assert.False(t, pretty.IsColorEnabled("auto", os.Stdout), "auto mode with NO_COLOR set should return false")
}

func TestIsColorEnabled_DefaultsToAuto(t *testing.T) {
	t.Setenv("NO_COLOR", "")

	var buf bytes.Buffer
	assert.False(t, pretty.IsColorEnabled("", &buf), "empty mode with non-TTY should behave like auto")
	assert.False(t, pretty.IsColorEnabled("unknown", &buf), "unknown mode with non-TTY should behave like auto")
}
