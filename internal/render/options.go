// Package render draws text for the terminal: literal backend text, our own
// markdown help pages, and the TUI color themes.
package render

// Help styles understood by the markdown renderer
const (
	StyleDark  = "dark"
	StyleLight = "light"
	StyleNoTTY = "notty"
	StyleASCII = "ascii"
)

// Options configures the markdown renderer behavior.
type Options struct {
	// Width defines the maximum output width (default: 80)
	Width int

	// Style is a glamour standard style name
	Style string
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return Options{
		Width: 80,
		Style: StyleDark,
	}
}

// WithWidth returns Options with the specified width.
func (o Options) WithWidth(width int) Options {
	o.Width = width
	return o
}

// WithStyle returns Options with the specified style.
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}

// HelpStyles lists the accepted help_style values
func HelpStyles() []string {
	return []string{StyleDark, StyleLight, "dracula", "tokyo-night", "pink", StyleNoTTY, StyleASCII}
}

// IsHelpStyle reports whether name is an accepted help style
func IsHelpStyle(name string) bool {
	for _, s := range HelpStyles() {
		if s == name {
			return true
		}
	}
	return false
}
