package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorText    lipgloss.Color = "#cdd6f4"
	colorMuted   lipgloss.Color = "#a6adc8"
	colorBorder  lipgloss.Color = "#585b70"
	colorAccent  lipgloss.Color = "#89b4fa"
	colorError   lipgloss.Color = "#f38ba8"
	colorSurface lipgloss.Color = "#313244"
	colorChipBg  lipgloss.Color = "#1e3a5f"
	colorChipFg  lipgloss.Color = "#b4d0fb"
)

type styles struct {
	appTitle     lipgloss.Style
	paneTitle    lipgloss.Style
	dialogTitle  lipgloss.Style
	dialog       lipgloss.Style
	button       lipgloss.Style
	card         lipgloss.Style
	cardCursor   lipgloss.Style
	cardSelected lipgloss.Style
	cardTitle    lipgloss.Style
	chip         lipgloss.Style
	muted        lipgloss.Style
	accent       lipgloss.Style
	errText      lipgloss.Style
	disabled     lipgloss.Style
	detailTitle  lipgloss.Style
	content      lipgloss.Style
}

func defaultStyles() styles {
	card := lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(colorBorder).
		PaddingLeft(1)
	return styles{
		appTitle:     lipgloss.NewStyle().Bold(true).Foreground(colorText),
		paneTitle:    lipgloss.NewStyle().Bold(true).Underline(true),
		dialogTitle:  lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		dialog:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorAccent).Padding(1, 2),
		button:       lipgloss.NewStyle().Bold(true).Foreground(colorText).Background(colorSurface).Padding(0, 1),
		card:         card,
		cardCursor:   card.BorderForeground(colorAccent),
		cardSelected: card.BorderForeground(colorAccent).Background(colorSurface),
		cardTitle:    lipgloss.NewStyle().Bold(true),
		chip:         lipgloss.NewStyle().Foreground(colorChipFg).Background(colorChipBg).Padding(0, 1),
		muted:        lipgloss.NewStyle().Foreground(colorMuted),
		accent:       lipgloss.NewStyle().Foreground(colorAccent).Bold(true),
		errText:      lipgloss.NewStyle().Foreground(colorError),
		disabled:     lipgloss.NewStyle().Foreground(colorBorder),
		detailTitle:  lipgloss.NewStyle().Bold(true).Foreground(colorText),
		content:      lipgloss.NewStyle(),
	}
}
