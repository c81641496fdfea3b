package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the colour scheme of the live view.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

var Themes = []Theme{
	{
		Name:    "phosphor",
		Primary: lipgloss.Color("#00ff88"),
		Accent:  lipgloss.Color("#00ccff"),
		Text:    lipgloss.Color("#e0e0e0"),
		Muted:   lipgloss.Color("#666688"),
		Warning: lipgloss.Color("#ffaa00"),
		Error:   lipgloss.Color("#ff4444"),
	},
	{
		Name:    "ocean",
		Primary: lipgloss.Color("#00a8cc"),
		Accent:  lipgloss.Color("#ffd700"),
		Text:    lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#4488aa"),
		Warning: lipgloss.Color("#ffcc00"),
		Error:   lipgloss.Color("#ff4757"),
	},
	{
		Name:    "mono",
		Primary: lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#aaaaaa"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#777777"),
		Warning: lipgloss.Color("#ffffff"),
		Error:   lipgloss.Color("#ffffff"),
	},
}

// ThemeByName falls back to the first theme.
func ThemeByName(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

type styles struct {
	title, label, value, muted, warn, err, graph, panel lipgloss.Style
}

func (t Theme) styles() styles {
	return styles{
		title: lipgloss.NewStyle().Foreground(t.Primary).Bold(true).MarginBottom(1),
		label: lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value: lipgloss.NewStyle().Foreground(t.Text),
		muted: lipgloss.NewStyle().Foreground(t.Muted),
		warn:  lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		err:   lipgloss.NewStyle().Foreground(t.Error).Bold(true),
		graph: lipgloss.NewStyle().Foreground(t.Accent).Padding(1, 0),
		panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(0, 2).
			Width(64),
	}
}
