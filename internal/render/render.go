// Package render turns Markdown into styled terminal text.
package render

import (
	"log/slog"

	"github.com/charmbracelet/glamour"
)

// Banners shown by the console front-ends, as Markdown.
const (
	StartBanner    = "\n------\n> What do you want to know?"
	FollowUpBanner = "\n------\n> What else do you want to know?\n"
	Farewell       = "_Goodbye!_ 👋"
)

// Markdowner renders Markdown for display.
type Markdowner interface {
	Markdown(md string) string
}

// Renderer wraps a glamour renderer.
type Renderer struct {
	tr *glamour.TermRenderer
}

// New builds a renderer. Style "auto" picks dark or light from the terminal
// background and plain output when not attached to one; any other value is a
// glamour standard style name such as "dark", "light", "notty" or "ascii".
func New(style string, wordWrap int) (*Renderer, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(wordWrap)}
	if style == "" || style == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	tr, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, err
	}
	return &Renderer{tr: tr}, nil
}

// Markdown renders md. Input glamour cannot render is returned unchanged.
func (r *Renderer) Markdown(md string) string {
	out, err := r.tr.Render(md)
	if err != nil {
		slog.Warn("markdown render failed", "err", err)
		return md
	}
	return out
}
