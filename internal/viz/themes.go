package viz

import "github.com/charmbracelet/lipgloss"

// Theme assigns colors to the parts of the live view.
type Theme struct {
	Name      string
	Chain     lipgloss.Color
	Header    lipgloss.Color
	Target    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Converged lipgloss.Color
	Stepping  lipgloss.Color
	Idle      lipgloss.Color
}

var (
	ThemeCyberpunk = Theme{
		Name:      "cyberpunk",
		Chain:     lipgloss.Color("#ff00ff"),
		Header:    lipgloss.Color("#00ffff"),
		Target:    lipgloss.Color("#ffff00"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#666666"),
		Converged: lipgloss.Color("#00ff00"),
		Stepping:  lipgloss.Color("#ff8800"),
		Idle:      lipgloss.Color("#888888"),
	}

	ThemeRetroGreen = Theme{
		Name:      "retro",
		Chain:     lipgloss.Color("#00ff00"), // green phosphor
		Header:    lipgloss.Color("#00cc00"),
		Target:    lipgloss.Color("#88ff88"),
		Text:      lipgloss.Color("#00ff00"),
		Muted:     lipgloss.Color("#005500"),
		Converged: lipgloss.Color("#88ff88"),
		Stepping:  lipgloss.Color("#ffff00"),
		Idle:      lipgloss.Color("#007700"),
	}

	ThemeMinimal = Theme{
		Name:      "minimal",
		Chain:     lipgloss.Color("#ffffff"),
		Header:    lipgloss.Color("#cccccc"),
		Target:    lipgloss.Color("#0088ff"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#888888"),
		Converged: lipgloss.Color("#00ff00"),
		Stepping:  lipgloss.Color("#ffaa00"),
		Idle:      lipgloss.Color("#888888"),
	}

	ThemeOcean = Theme{
		Name:      "ocean",
		Chain:     lipgloss.Color("#00a8cc"),
		Header:    lipgloss.Color("#0077be"),
		Target:    lipgloss.Color("#ffd700"),
		Text:      lipgloss.Color("#e0f0ff"),
		Muted:     lipgloss.Color("#4488aa"),
		Converged: lipgloss.Color("#00ff88"),
		Stepping:  lipgloss.Color("#ffcc00"),
		Idle:      lipgloss.Color("#4488aa"),
	}

	ThemeSunset = Theme{
		Name:      "sunset",
		Chain:     lipgloss.Color("#ff6b6b"), // coral
		Header:    lipgloss.Color("#feca57"),
		Target:    lipgloss.Color("#ff9ff3"),
		Text:      lipgloss.Color("#fff5f5"),
		Muted:     lipgloss.Color("#8b6b8c"),
		Converged: lipgloss.Color("#5fd068"),
		Stepping:  lipgloss.Color("#ffc048"),
		Idle:      lipgloss.Color("#8b6b8c"),
	}

	CurrentTheme = ThemeCyberpunk

	Themes = []Theme{
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeMinimal,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to cyberpunk.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeCyberpunk
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// NextTheme returns the name of the theme after name, wrapping around.
func NextTheme(name string) string {
	names := ThemeNames()
	for i, n := range names {
		if n == name {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}
