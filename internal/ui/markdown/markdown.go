// Package markdown renders reference documents such as the pattern grammar
// for the terminal.
package markdown

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// Styles understood by New besides the glamour style names.
const (
	StyleDark  = "dark"
	StyleLight = "light"
	// StylePlain renders without colors, for pipes and files.
	StylePlain = "notty"
)

// compactStyle drops document margins so tables start at column zero.
const compactStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// Renderer wraps glamour with a fixed word wrap width.
type Renderer struct {
	renderer *glamour.TermRenderer
	width    int
	style    string
}

// New creates a renderer. An empty style means StyleDark; WithAutoStyle is
// avoided because its background query leaks into a running program's input.
func New(width int, style string) (*Renderer, error) {
	if style == "" {
		style = StyleDark
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithStylesFromJSONBytes([]byte(compactStyle)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	return &Renderer{renderer: r, width: width, style: style}, nil
}

// Width returns the configured word wrap width.
func (r *Renderer) Width() int {
	return r.width
}

// Style returns the glamour style in use.
func (r *Renderer) Style() string {
	return r.style
}

// Render transforms markdown to terminal output without trailing blank
// lines.
func (r *Renderer) Render(doc string) (string, error) {
	out, err := r.renderer.Render(doc)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n") + "\n", nil
}
