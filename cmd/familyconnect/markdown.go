package main

import (
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// markdownRenderer renders assistant replies with terminal styling. LLM
// replies are frequently markdown; plain text passes through unharmed.
type markdownRenderer struct {
	renderer *glamour.TermRenderer
}

func newMarkdownRenderer() (*markdownRenderer, error) {
	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w - 4
		if width > 120 {
			width = 120
		}
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	return &markdownRenderer{renderer: renderer}, nil
}

// Render styles content for the terminal, falling back to the raw text when
// rendering fails or no renderer is available.
func (mr *markdownRenderer) Render(content string) string {
	if mr == nil || mr.renderer == nil || content == "" {
		return content
	}
	rendered, err := mr.renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(rendered, "\n") + "\n"
}
