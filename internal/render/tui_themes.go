package render

import (
	"github.com/charmbracelet/lipgloss"
)

// TUITheme is the color scheme of the chat window
type TUITheme struct {
	Name        string
	Description string

	Background lipgloss.Color
	Surface    lipgloss.Color
	Border     lipgloss.Color

	Primary lipgloss.Color // title, spinner, send hint
	User    lipgloss.Color // user bubbles
	Robot   lipgloss.Color // robot bubbles
	Option  lipgloss.Color // option buttons
	Focus   lipgloss.Color // focused option button
	Error   lipgloss.Color // "Error: " replies

	Text    lipgloss.Color
	TextDim lipgloss.Color
}

// DefaultTUITheme is used when the configured theme is unknown
const DefaultTUITheme = "tokyonight"

var (
	TokyoNightTheme = TUITheme{
		Name:        "tokyonight",
		Description: "Tokyo Night - Dark theme with blue accents",

		Background: lipgloss.Color("#1a1b26"),
		Surface:    lipgloss.Color("#24283b"),
		Border:     lipgloss.Color("#414868"),

		Primary: lipgloss.Color("#7aa2f7"),
		User:    lipgloss.Color("#9ece6a"),
		Robot:   lipgloss.Color("#7aa2f7"),
		Option:  lipgloss.Color("#bb9af7"),
		Focus:   lipgloss.Color("#e0af68"),
		Error:   lipgloss.Color("#f7768e"),

		Text:    lipgloss.Color("#c0caf5"),
		TextDim: lipgloss.Color("#565f89"),
	}

	CatppuccinMochaTheme = TUITheme{
		Name:        "catppuccin",
		Description: "Catppuccin Mocha - Warm dark theme with pastel colors",

		Background: lipgloss.Color("#1e1e2e"),
		Surface:    lipgloss.Color("#313244"),
		Border:     lipgloss.Color("#45475a"),

		Primary: lipgloss.Color("#89b4fa"), // Blue
		User:    lipgloss.Color("#a6e3a1"), // Green
		Robot:   lipgloss.Color("#89b4fa"), // Blue
		Option:  lipgloss.Color("#cba6f7"), // Mauve
		Focus:   lipgloss.Color("#f9e2af"), // Yellow
		Error:   lipgloss.Color("#f38ba8"), // Red

		Text:    lipgloss.Color("#cdd6f4"),
		TextDim: lipgloss.Color("#6c7086"),
	}

	NordTheme = TUITheme{
		Name:        "nord",
		Description: "Nord - Arctic-inspired theme with cool tones",

		Background: lipgloss.Color("#2e3440"),
		Surface:    lipgloss.Color("#3b4252"),
		Border:     lipgloss.Color("#4c566a"),

		Primary: lipgloss.Color("#88c0d0"), // Frost
		User:    lipgloss.Color("#a3be8c"), // Aurora green
		Robot:   lipgloss.Color("#88c0d0"),
		Option:  lipgloss.Color("#b48ead"), // Aurora purple
		Focus:   lipgloss.Color("#ebcb8b"), // Aurora yellow
		Error:   lipgloss.Color("#bf616a"), // Aurora red

		Text:    lipgloss.Color("#eceff4"),
		TextDim: lipgloss.Color("#7b88a1"),
	}

	DraculaTheme = TUITheme{
		Name:        "dracula",
		Description: "Dracula - Dark theme with vibrant colors",

		Background: lipgloss.Color("#282a36"),
		Surface:    lipgloss.Color("#44475a"),
		Border:     lipgloss.Color("#6272a4"),

		Primary: lipgloss.Color("#8be9fd"), // Cyan
		User:    lipgloss.Color("#50fa7b"), // Green
		Robot:   lipgloss.Color("#8be9fd"),
		Option:  lipgloss.Color("#ff79c6"), // Pink
		Focus:   lipgloss.Color("#f1fa8c"), // Yellow
		Error:   lipgloss.Color("#ff5555"), // Red

		Text:    lipgloss.Color("#f8f8f2"),
		TextDim: lipgloss.Color("#6272a4"),
	}
)

// GetTUIThemeByName returns a TUI theme by its name
func GetTUIThemeByName(name string) (TUITheme, bool) {
	switch name {
	case "tokyonight":
		return TokyoNightTheme, true
	case "catppuccin":
		return CatppuccinMochaTheme, true
	case "nord":
		return NordTheme, true
	case "dracula":
		return DraculaTheme, true
	default:
		return TUITheme{}, false
	}
}

// ResolveTUITheme returns the named theme, falling back to the default
func ResolveTUITheme(name string) TUITheme {
	if theme, ok := GetTUIThemeByName(name); ok {
		return theme
	}
	return TokyoNightTheme
}

// AvailableTUIThemes returns a list of all available TUI themes
func AvailableTUIThemes() []TUITheme {
	return []TUITheme{
		TokyoNightTheme,
		CatppuccinMochaTheme,
		NordTheme,
		DraculaTheme,
	}
}

// TUIThemeNames returns just the theme names for selection
func TUIThemeNames() []string {
	themes := AvailableTUIThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
