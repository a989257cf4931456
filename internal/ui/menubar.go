package ui

import (
	"fmt"
	"strings"

	"beacon-watch.klederson.com/internal/config"
	"github.com/charmbracelet/lipgloss"
)

// RenderMenuBar renders the top menu bar.
func RenderMenuBar(width int, region, adapter string, ranging bool) string {
	title := fmt.Sprintf(" %s v%s ", config.AppName, config.AppVersion)

	keys := []struct{ key, label string }{
		{"R", "eset"},
		{"Q", "uit"},
	}

	menu := ""
	for _, k := range keys {
		menu += "  " + StyleMenuKey.Render("["+k.key+"]") + StyleMenuLabel.Render(k.label)
	}

	status := StyleStatusPaused.Render("IDLE")
	if ranging {
		status = StyleStatusScanning.Render("RANGING")
	}

	info := StyleMenuLabel.Render(fmt.Sprintf("Region: %s  Adapter: %s", region, adapter))

	left := StyleMenuKey.Render(title) + menu
	right := status + "  " + info + " "

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return StyleMenuBar.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
