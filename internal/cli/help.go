package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/gomddeep/internal/ui/pretty"
)

const (
	flagGroupAnnotation = "gomddeep_flag_group"
	markdownFlagGroup   = "Markdown Options"
)

// setFlagGroup lists the named flags under their own heading in help output.
func setFlagGroup(flags *pflag.FlagSet, group string, names ...string) {
	for _, name := range names {
		_ = flags.SetAnnotation(name, flagGroupAnnotation, []string{group})
	}
}

func flagGroup(flag *pflag.Flag) string {
	if group := flag.Annotations[flagGroupAnnotation]; len(group) > 0 {
		return group[0]
	}
	return ""
}

// HelpStyles holds the lipgloss styles used by help and usage output.
type HelpStyles struct {
	Command lipgloss.Style
	Heading lipgloss.Style
	Name    lipgloss.Style
	Flag    lipgloss.Style
	Dim     lipgloss.Style
}

// NewHelpStyles returns styles for help output; without color every style
// renders text unchanged.
func NewHelpStyles(colorEnabled bool) *HelpStyles {
	plain := lipgloss.NewStyle()
	if !colorEnabled {
		return &HelpStyles{Command: plain, Heading: plain, Name: plain, Flag: plain, Dim: plain}
	}
	return &HelpStyles{
		Command: plain.Foreground(lipgloss.Color("14")).Bold(true),
		Heading: plain.Foreground(lipgloss.Color("11")).Bold(true),
		Name:    plain.Foreground(lipgloss.Color("10")),
		Flag:    plain.Foreground(lipgloss.Color("12")),
		Dim:     plain.Foreground(lipgloss.Color("8")),
	}
}

// HelpFormatter renders cobra help with styled headings and grouped flags.
type HelpFormatter struct {
	styles *HelpStyles
}

// NewHelpFormatter resolves colorMode against writer and returns a formatter.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	return &HelpFormatter{styles: NewHelpStyles(pretty.IsColorEnabled(colorMode, writer))}
}

const usageTemplate = `{{heading "Usage:"}}
{{- if .Runnable}}
  {{command .UseLine}}{{end}}
{{- if .HasAvailableSubCommands}}
  {{command .CommandPath}} [command]{{end}}
{{- if .Aliases}}

{{heading "Aliases:"}}
  {{dim (join .Aliases ", ")}}{{end}}
{{- if .HasExample}}

{{heading "Examples:"}}
{{dim .Example}}{{end}}
{{- if .HasAvailableSubCommands}}

{{heading "Available Commands:"}}
{{- range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{name (pad .Name .NamePadding)}} {{.Short}}{{end}}{{end}}{{end}}
{{- range $group := groups}}{{with flags $ $group}}

{{heading (print (or $group "Flags") ":")}}
{{.}}{{end}}{{end}}
{{- if .HasAvailableInheritedFlags}}

{{heading "Global Flags:"}}
{{inherited .}}{{end}}
{{- if .HasAvailableSubCommands}}

Use "{{command (print .CommandPath " [command] --help")}}" for more information about a command.{{end}}
`

const helpTemplate = `{{if or .Runnable .HasSubCommands}}{{command .CommandPath}}{{if .Version}} {{dim .Version}}{{end}}

{{end}}{{with (or .Long .Short)}}{{trimRight .}}

{{end}}`

func (h *HelpFormatter) funcs() template.FuncMap {
	return template.FuncMap{
		"heading": h.styles.Heading.Render,
		"command": h.styles.Command.Render,
		"name":    h.styles.Name.Render,
		"dim":     h.styles.Dim.Render,
		"join":    strings.Join,
		"pad":     runewidth.FillRight,
		"groups":  func() []string { return []string{"", markdownFlagGroup} },
		"flags": func(cmd *cobra.Command, group string) string {
			return h.renderFlags(cmd.LocalFlags(), func(f *pflag.Flag) bool { return flagGroup(f) == group })
		},
		"inherited": func(cmd *cobra.Command) string {
			return h.renderFlags(cmd.InheritedFlags(), func(*pflag.Flag) bool { return true })
		},
		"trimRight": trimTrailingWhitespaces,
	}
}

// renderFlags lays out the visible flags of set that keep accepts, one per
// line, with descriptions aligned on the widest flag column.
func (h *HelpFormatter) renderFlags(set *pflag.FlagSet, keep func(*pflag.Flag) bool) string {
	type row struct {
		names, typ, usage string
	}

	var rows []row
	width := 0
	set.VisitAll(func(flag *pflag.Flag) {
		if flag.Hidden || !keep(flag) {
			return
		}
		names := "    --" + flag.Name
		if flag.Shorthand != "" {
			names = "-" + flag.Shorthand + ", --" + flag.Name
		}
		typ, usage := pflag.UnquoteUsage(flag)
		switch {
		case flag.DefValue == "" || flag.DefValue == "false" || flag.DefValue == "0" || flag.DefValue == "[]":
		case flag.Value.Type() == "string":
			usage += fmt.Sprintf(" (default %q)", flag.DefValue)
		default:
			usage += " (default " + flag.DefValue + ")"
		}
		r := row{names: names, typ: typ, usage: usage}
		rows = append(rows, r)
		width = max(width, runewidth.StringWidth(flagColumn(r.names, r.typ)))
	})

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		column := h.styles.Flag.Render(r.names)
		if r.typ != "" {
			column += " " + h.styles.Dim.Render(r.typ)
		}
		gap := strings.Repeat(" ", width-runewidth.StringWidth(flagColumn(r.names, r.typ))+3)
		lines = append(lines, "  "+column+gap+r.usage)
	}
	return strings.Join(lines, "\n")
}

func flagColumn(names, typ string) string {
	if typ == "" {
		return names
	}
	return names + " " + typ
}

// ApplyToCommand installs the styled templates on cmd; subcommands inherit
// them through cobra's parent lookup.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	funcs := h.funcs()
	usage := template.Must(template.New("usage").Funcs(funcs).Parse(usageTemplate))
	help := template.Must(template.Must(usage.Clone()).New("help").Parse(helpTemplate + `{{template "usage" .}}`))

	cmd.SetUsageFunc(func(c *cobra.Command) error {
		return usage.Execute(c.OutOrStderr(), c)
	})
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		if err := help.Execute(c.OutOrStdout(), c); err != nil {
			c.PrintErrln(err)
		}
	})
}

func trimTrailingWhitespaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
