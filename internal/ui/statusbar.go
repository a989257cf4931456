package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, status string, ranging bool, auth string, tracked int, sweepDeg, maxRange float64) string {
	var badge string
	switch {
	case status == "Error :(" || status == "Restrict Monitor":
		badge = StyleStatusError.Render("[" + strings.ToUpper(status) + "]")
	case ranging:
		badge = StyleStatusScanning.Render("[RANGING]")
	default:
		badge = StyleStatusPaused.Render("[WAITING]")
	}

	info := fmt.Sprintf(" Auth: %s  Beacons heard: %d  Sweep: %ddeg  Range: 0-%.0fm",
		auth, tracked, int(sweepDeg), maxRange)

	content := badge + StyleStatusBar.Render(info)

	gap := width - lipgloss.Width(content)
	if gap < 0 {
		gap = 0
	}
	return StyleStatusBar.Width(width).Render(content + strings.Repeat(" ", gap))
}
