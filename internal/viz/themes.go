package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines color scheme for the TUI
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Muted   lipgloss.Color
	Cold    lipgloss.Color // coldest layer
	Hot     lipgloss.Color // hottest layer
	Heater  lipgloss.Color
}

// Available themes
var (
	ThemeThermal = Theme{
		Name:    "thermal",
		Primary: lipgloss.Color("#00ffff"),
		Muted:   lipgloss.Color("#666688"),
		Cold:    lipgloss.Color("#2060ff"),
		Hot:     lipgloss.Color("#ff3020"),
		Heater:  lipgloss.Color("#ffaa00"),
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Primary: lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Cold:    lipgloss.Color("#404040"),
		Hot:     lipgloss.Color("#f0f0f0"),
		Heater:  lipgloss.Color("#0088ff"),
	}

	ThemeSunset = Theme{
		Name:    "sunset",
		Primary: lipgloss.Color("#ff6b6b"),
		Muted:   lipgloss.Color("#8b6b8c"),
		Cold:    lipgloss.Color("#2d1b6e"),
		Hot:     lipgloss.Color("#feca57"),
		Heater:  lipgloss.Color("#ff9ff3"),
	}

	// Default theme
	CurrentTheme = ThemeThermal

	// All available themes
	Themes = []Theme{
		ThemeThermal,
		ThemeMinimal,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeThermal
}

// SetTheme changes the current theme
func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	names := ThemeNames()
	for i, name := range names {
		if name == CurrentTheme.Name {
			SetTheme(names[(i+1)%len(names)])
			return
		}
	}
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
