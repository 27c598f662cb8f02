package tui

import "github.com/charmbracelet/lipgloss"

// Theme colors the chrome around the exercise area. The exercise area itself
// keeps the scene's own colors so anaglyph stimuli stay accurate.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Success lipgloss.Color
	Error   lipgloss.Color
}

var (
	ThemeMinimal = Theme{
		Name:    "minimal",
		Primary: lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#0088ff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Success: lipgloss.Color("#00ff00"),
		Error:   lipgloss.Color("#ff0000"),
	}

	ThemeLight = Theme{
		Name:    "light",
		Primary: lipgloss.Color("#1a1a1a"),
		Accent:  lipgloss.Color("#0055cc"),
		Text:    lipgloss.Color("#222222"),
		Muted:   lipgloss.Color("#777777"),
		Success: lipgloss.Color("#1e8c3a"),
		Error:   lipgloss.Color("#c0392b"),
	}

	ThemeCyberpunk = Theme{
		Name:    "cyberpunk",
		Primary: lipgloss.Color("#ff00ff"),
		Accent:  lipgloss.Color("#00ffff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#666666"),
		Success: lipgloss.Color("#00ff00"),
		Error:   lipgloss.Color("#ff0000"),
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Primary: lipgloss.Color("#00ff00"),
		Accent:  lipgloss.Color("#88ff88"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Success: lipgloss.Color("#88ff88"),
		Error:   lipgloss.Color("#ff0000"),
	}

	ThemeOcean = Theme{
		Name:    "ocean",
		Primary: lipgloss.Color("#0077be"),
		Accent:  lipgloss.Color("#ffd700"),
		Text:    lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#4488aa"),
		Success: lipgloss.Color("#00ff88"),
		Error:   lipgloss.Color("#ff4444"),
	}

	ThemeSunset = Theme{
		Name:    "sunset",
		Primary: lipgloss.Color("#ff6b6b"),
		Accent:  lipgloss.Color("#ff9ff3"),
		Text:    lipgloss.Color("#fff5f5"),
		Muted:   lipgloss.Color("#8b6b8c"),
		Success: lipgloss.Color("#5fd068"),
		Error:   lipgloss.Color("#ff4757"),
	}

	Themes = []Theme{ThemeMinimal, ThemeLight, ThemeCyberpunk, ThemeRetroGreen, ThemeOcean, ThemeSunset}
)

// GetTheme returns a theme by name, minimal when unknown.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeMinimal
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// next cycles to the theme after t.
func (t Theme) next() Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

type styles struct {
	title, sub, selected, item, desc, key, hint, status, good, bad, graph lipgloss.Style
}

func (t Theme) styles() styles {
	return styles{
		title:    lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		sub:      lipgloss.NewStyle().Foreground(t.Muted),
		selected: lipgloss.NewStyle().Foreground(t.Text).Bold(true),
		item:     lipgloss.NewStyle().Foreground(t.Muted),
		desc:     lipgloss.NewStyle().Foreground(t.Accent),
		key:      lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		hint:     lipgloss.NewStyle().Foreground(t.Muted),
		status:   lipgloss.NewStyle().Foreground(t.Text),
		good:     lipgloss.NewStyle().Foreground(t.Success).Bold(true),
		bad:      lipgloss.NewStyle().Foreground(t.Error).Bold(true),
		graph:    lipgloss.NewStyle().Foreground(t.Accent),
	}
}
