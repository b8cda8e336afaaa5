package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spigell/candidate-sourcer/internal/sourcing"
	"go.yaml.in/yaml/v3"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
	formatText = "text"

	cardWidth = 78
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	nameStyle  = lipgloss.NewStyle().Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	cardStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1).
			Width(cardWidth)
)

func validFormat(format string) error {
	switch format {
	case formatJSON, formatYAML, formatText:
		return nil
	}
	return fmt.Errorf("unknown output format %q (want json, yaml or text)", format)
}

// writeStructured prints v as indented json or yaml.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}

func writeResult(w io.Writer, format string, r *sourcing.Result) error {
	if format == formatText {
		_, err := io.WriteString(w, renderResult(r))
		return err
	}
	return writeStructured(w, format, r)
}

func writeReply(w io.Writer, format string, reply sourcing.Reply) error {
	if format == formatText {
		_, err := io.WriteString(w, renderReply(reply))
		return err
	}
	return writeStructured(w, format, reply)
}

func renderReply(reply sourcing.Reply) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(reply.AssistantMessage))
	b.WriteString("\n")

	if reply.Clarification != nil {
		for _, q := range reply.Clarification.Questions {
			b.WriteString(warnStyle.Render("? " + q))
			b.WriteString("\n")
		}
	}

	if reply.Result != nil {
		b.WriteString("\n")
		b.WriteString(renderResult(reply.Result))
	}
	return b.String()
}

func renderResult(r *sourcing.Result) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(criteriaLine(r.Criteria)))
	b.WriteString("\n")
	if len(r.Queries) > 0 {
		b.WriteString(labelStyle.Render("queries: " + strings.Join(r.Queries, " | ")))
		b.WriteString("\n")
	}

	for i, c := range r.Candidates {
		b.WriteString(renderCandidate(i+1, c))
		b.WriteString("\n")
	}

	if r.Error != nil {
		b.WriteString(warnStyle.Render("note: " + *r.Error))
		b.WriteString("\n")
	}
	return b.String()
}

func criteriaLine(c sourcing.CriteriaView) string {
	parts := []string{c.Role}
	if c.Seniority != nil {
		parts = append([]string{*c.Seniority}, parts...)
	}
	line := strings.Join(parts, " ")
	if len(c.Companies) > 0 {
		line += " at " + strings.Join(c.Companies, ", ")
	}
	if len(c.Locations) > 0 {
		line += " in " + strings.Join(c.Locations, ", ")
	}
	return line
}

func renderCandidate(n int, c sourcing.CandidateSummary) string {
	body := strings.Join([]string{
		nameStyle.Render(fmt.Sprintf("%d. %s", n, c.Name)),
		c.Headline,
		"",
		labelStyle.Render("skills: ") + c.SkillsSummary,
		labelStyle.Render("experience: ") + c.ExperienceSummary,
		labelStyle.Render("profile: ") + c.LinkedInURL,
	}, "\n")
	return cardStyle.Render(body)
}
