package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/promptline/promptline/internal/completion"
)

var (
	// Colors and styles
	suggestionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15"))

	descriptionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("241"))

	moreStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("241"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))
)

// RenderSuggestions renders a completion result as a menu, one
// suggestion per line with its description when enabled.
func RenderSuggestions(result completion.Result, showDescriptions bool) string {
	if len(result.Suggestions) == 0 {
		return moreStyle.Render("(no completions)")
	}

	widest := 0
	for _, s := range result.Suggestions {
		if len(s.Text) > widest {
			widest = len(s.Text)
		}
	}

	var b strings.Builder
	for _, s := range result.Suggestions {
		b.WriteString(suggestionStyle.Render(fmt.Sprintf("%-*s", widest, s.Text)))
		if showDescriptions && s.Description != "" {
			b.WriteString("  ")
			b.WriteString(descriptionStyle.Render(s.Description))
		}
		b.WriteString("\r\n")
	}

	if result.HasMore {
		b.WriteString(moreStyle.Render("…more suggestions not shown"))
		b.WriteString("\r\n")
	}

	return b.String()
}

// RenderHistory renders history entries, oldest first, numbered from 1.
func RenderHistory(commands []string) string {
	if len(commands) == 0 {
		return moreStyle.Render("(history is empty)") + "\r\n"
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("History"))
	b.WriteString("\r\n")
	for i, cmd := range commands {
		b.WriteString(descriptionStyle.Render(fmt.Sprintf("%4d  ", i+1)))
		b.WriteString(suggestionStyle.Render(cmd))
		b.WriteString("\r\n")
	}
	return b.String()
}
