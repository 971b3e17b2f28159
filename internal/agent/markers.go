package agent

import (
	"regexp"
	"strings"
)

// Runtimes that inline tool calls in their output wrap them in markers like
// <tool_call>...</tool_call> or [TOOL_CALL]...[/TOOL_CALL]. None of that markup
// may leak into user-visible text.
var invocationMarkers = []*regexp.Regexp{
	regexp.MustCompile(`(?s)<tool_call>.*?</tool_call>`),
	regexp.MustCompile(`(?s)<invoke[^>]*>.*?</invoke>`),
	regexp.MustCompile(`(?s)\[TOOL_CALL\].*?\[/TOOL_CALL\]`),
}

// StripInvocationMarkers removes internal invocation markup from response text
// and collapses the whitespace left behind.
func StripInvocationMarkers(text string) string {
	for _, re := range invocationMarkers {
		text = re.ReplaceAllString(text, "")
	}
	lines := strings.Split(text, "\n")
	out := lines[:0]
	for _, ln := range lines {
		if strings.TrimSpace(ln) != "" || len(out) > 0 && strings.TrimSpace(out[len(out)-1]) != "" {
			out = append(out, ln)
		}
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
