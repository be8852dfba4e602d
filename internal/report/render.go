package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/rollout/internal/event"
)

type styles struct {
	title   lipgloss.Style
	section lipgloss.Style
	success lipgloss.Style
	partial lipgloss.Style
	failure lipgloss.Style
	muted   lipgloss.Style
}

func newStyles(styled bool) styles {
	if !styled {
		plain := lipgloss.NewStyle()
		return styles{plain, plain, plain, plain, plain, plain}
	}
	return styles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		section: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		partial: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		failure: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	}
}

// Render writes s to w. Colours are only used when styled is set.
func Render(w io.Writer, s Summary, styled bool) error {
	st := newStyles(styled)
	var sections []string

	title := "rollout"
	if s.Name != "" {
		title = fmt.Sprintf("rollout • %s", s.Name)
	}
	if out := s.Outcome; out != nil {
		title = fmt.Sprintf("%s • %s %s", title, out.Command, out.Version)
		if out.Stage != "" {
			title = fmt.Sprintf("%s (%s)", title, out.Stage)
		}
	}
	sections = append(sections, st.title.Render(title))

	if out := s.Outcome; out != nil {
		var lines []string
		lines = append(lines, hostLines(st.success.Render("✓"), "installed", out.Installed)...)
		lines = append(lines, hostLines(st.success.Render("✓"), "deployed", out.Deployed)...)
		lines = append(lines, hostLines(st.failure.Render("✗"), "failed", out.Failed)...)
		if len(lines) > 0 {
			sections = append(sections, st.section.Render("Hosts"), strings.Join(lines, "\n"))
		}
	}

	if len(s.Failures) > 0 {
		lines := make([]string, 0, len(s.Failures))
		for _, f := range s.Failures {
			line := fmt.Sprintf(" %s %s: %s", st.failure.Render("✗"), f.Host, f.Name)
			if f.Error != "" {
				line = fmt.Sprintf("%s (%s)", line, f.Error)
			}
			lines = append(lines, line)
		}
		sections = append(sections, st.section.Render("Failures"), strings.Join(lines, "\n"))
	}

	if len(s.Phases) > 0 {
		var lines []string
		for _, name := range event.Lifecycle() {
			d, ok := s.Phases[name]
			if !ok {
				continue
			}
			lines = append(lines, fmt.Sprintf(" %-26s %s", name, st.muted.Render(d.Truncate(time.Millisecond).String())))
		}
		sections = append(sections, st.section.Render("Timings"), strings.Join(lines, "\n"))
	}

	result := fmt.Sprintf("Result: %s", gradeStyle(st, s.Grade).Render(string(s.Grade)))
	if s.Warnings > 0 {
		result = fmt.Sprintf("%s, %d warning(s)", result, s.Warnings)
	}
	if s.Total > 0 {
		result = fmt.Sprintf("%s in %s", result, s.Total.Truncate(time.Millisecond))
	}
	sections = append(sections, result)

	_, err := fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, sections...))
	return err
}

func hostLines(icon, label string, hosts []string) []string {
	if len(hosts) == 0 {
		return nil
	}
	return []string{fmt.Sprintf(" %s %s: %s", icon, label, strings.Join(hosts, ", "))}
}

func gradeStyle(st styles, g Grade) lipgloss.Style {
	switch g {
	case GradeFailure:
		return st.failure
	case GradePartial:
		return st.partial
	default:
		return st.success
	}
}
