// Package tui holds the terminal presentation for the chat REPL.
package tui

import (
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders assistant replies as markdown
// in the terminal, matching the detected background.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		// Fall back to plain text when the terminal defeats glamour
		return func(text string) (string, error) { return text + "\n", nil }
	}
	return func(text string) (string, error) {
		return r.Render(text)
	}
}
