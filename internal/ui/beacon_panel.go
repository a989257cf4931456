package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Field is one labelled line of the beacon panel. Dimmed values are drawn
// in the placeholder style.
type Field struct {
	Label  string
	Value  string
	Dimmed bool
}

// RenderBeaconPanel renders the label panel with a signal bar and an RSSI
// sparkline below it. rssiHistory is empty until a beacon has been shown.
func RenderBeaconPanel(fields []Field, width, height int, rssiHistory []float64) string {
	innerW := width - 4
	if innerW < 20 {
		innerW = 20
	}

	lines := []string{
		StylePanelTitle.Render("BEACON"),
		StyleRule.Render(strings.Repeat("-", innerW)),
		"",
	}

	for _, f := range fields {
		label := StyleFieldLabel.Render(fmt.Sprintf("  %-10s", f.Label))
		val := StyleFieldValue
		if f.Dimmed {
			val = StyleFieldNone
		}
		lines = append(lines, label+val.Render(f.Value))
	}

	lines = append(lines, "")

	if n := len(rssiHistory); n > 0 {
		last := rssiHistory[n-1]
		barWidth := innerW - 22
		if barWidth < 10 {
			barWidth = 10
		}
		lines = append(lines, StyleFieldLabel.Render("  Signal ")+renderSignalBar(last, barWidth)+
			StyleFieldValue.Render(fmt.Sprintf(" %ddBm", int(last))))
		lines = append(lines, "")

		sparkW := innerW - 4
		if sparkW < 10 {
			sparkW = 10
		}
		lines = append(lines, StyleFieldLabel.Render("  RSSI History:"))
		lines = append(lines, "  "+lipgloss.NewStyle().Foreground(ColorGreen).Render(renderSparkline(rssiHistory, sparkW)))
	}

	// Pad to fill height
	for len(lines) < height-2 {
		lines = append(lines, "")
	}

	return StylePanelActive.Width(width - 2).Height(height - 2).Render(strings.Join(lines, "\n"))
}

func renderSignalBar(rssi float64, width int) string {
	// Map RSSI -100..-30 to 0..width filled bars
	ratio := math.Max(0, math.Min(1, (rssi+100.0)/70.0))
	filled := int(math.Round(ratio * float64(width)))

	filledPart := lipgloss.NewStyle().Foreground(signalColor(rssi)).Render(strings.Repeat("|", filled))
	emptyPart := lipgloss.NewStyle().Foreground(ColorDimGreen).Render(strings.Repeat("-", width-filled))
	return StyleHelp.Render("[") + filledPart + emptyPart + StyleHelp.Render("]")
}

func signalColor(rssi float64) lipgloss.Color {
	switch {
	case rssi >= -60:
		return ColorMatrixGreen
	case rssi >= -75:
		return ColorGreen
	case rssi >= -90:
		return ColorWarning
	default:
		return ColorError
	}
}

func renderSparkline(values []float64, width int) string {
	if len(values) == 0 {
		return ""
	}

	chars := []byte{'_', '.', '-', '~', '^'}

	// Take last `width` values
	if len(values) > width {
		values = values[len(values)-width:]
	}

	minV, maxV := values[0], values[0]
	for _, v := range values {
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}
	rng := maxV - minV
	if rng < 1 {
		rng = 1
	}

	var sb strings.Builder
	for _, v := range values {
		idx := int((v - minV) / rng * float64(len(chars)-1))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(chars) {
			idx = len(chars) - 1
		}
		sb.WriteByte(chars[idx])
	}
	return sb.String()
}
