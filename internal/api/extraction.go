package api

import (
	"regexp"
	"strings"
)

var (
	markdownLink   = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	numberedMarker = regexp.MustCompile(`^\d+[.)]\s+`)
	spaceRun       = regexp.MustCompile(`[ \t]+`)
)

// extractReportText turns an uploaded markdown document into plain prose.
// Code blocks and headings are skipped; list items become sentences of
// their own.
func extractReportText(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")

	var (
		out     []string
		inFence bool
	)
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			continue
		}
		if inFence || trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		list := isListItem(trimmed)
		text := cleanText(trimmed)
		if text == "" {
			continue
		}
		if list && !strings.ContainsAny(text[len(text)-1:], ".!?") {
			text += "."
		}
		out = append(out, text)
	}

	return strings.Join(out, "\n")
}

// isListItem checks if a line is a list item
func isListItem(line string) bool {
	if strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") || strings.HasPrefix(line, "+ ") {
		return true
	}
	return numberedMarker.MatchString(line)
}

// cleanText removes markdown formatting and cleans up text
func cleanText(text string) string {
	// Remove list markers
	text = strings.TrimPrefix(text, "- ")
	text = strings.TrimPrefix(text, "* ")
	text = strings.TrimPrefix(text, "+ ")
	text = numberedMarker.ReplaceAllString(text, "")
	text = strings.TrimPrefix(text, "> ")

	// Remove markdown links but keep text
	text = markdownLink.ReplaceAllString(text, "$1")

	// Remove bold/italic and inline code markers
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "__", "")
	text = strings.ReplaceAll(text, "*", "")
	text = strings.ReplaceAll(text, "`", "")

	text = spaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
