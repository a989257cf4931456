package ui

import "github.com/charmbracelet/lipgloss"

// ComposeLayout joins the radar panel and beacon panel horizontally,
// with menu bar on top and status bar on bottom.
func ComposeLayout(menuBar, radarPanel, beaconPanel, statusBar string) string {
	middle := lipgloss.JoinHorizontal(lipgloss.Top, radarPanel, beaconPanel)
	return lipgloss.JoinVertical(lipgloss.Left, menuBar, middle, statusBar)
}
