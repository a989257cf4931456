package radar

import (
	"fmt"
	"math"
	"strings"

	"beacon-watch.klederson.com/internal/beacon"
	"beacon-watch.klederson.com/internal/config"
	"github.com/charmbracelet/lipgloss"
)

var (
	colorBright  = lipgloss.Color("#00FF41")
	colorMid     = lipgloss.Color("#008F11")
	colorDim     = lipgloss.Color("#004A0A")
	colorNear    = lipgloss.Color("#00FFAA")
	colorFar     = lipgloss.Color("#FFCC00")
	colorLabel   = lipgloss.Color("#00CC33")
	colorUnknown = lipgloss.Color("#FF3300")

	styleCenter = lipgloss.NewStyle().Foreground(colorBright).Bold(true)
	styleRing   = lipgloss.NewStyle().Foreground(colorMid)
	styleDot    = lipgloss.NewStyle().Foreground(colorDim)
	styleLabel  = lipgloss.NewStyle().Foreground(colorLabel)
)

// Target is the beacon glyph position in cells.
type Target struct {
	Col, Row int
}

// Place computes where a beacon is drawn on a radar of the given size.
func Place(b beacon.Beacon, width, height int, maxRange float64) Target {
	centerX, centerY, radius := frame(width, height)
	r := MetersToRadius(b.Accuracy, maxRange, radius)
	a := b.Angle()
	return Target{
		Col: centerX + int(math.Round(r*math.Sin(a))),
		Row: centerY - int(math.Round(r*math.Cos(a)*config.AspectRatio)),
	}
}

func frame(width, height int) (centerX, centerY int, radius float64) {
	centerX = width / 2
	centerY = height / 2
	radius = math.Min(float64(centerX-1), float64(centerY-1)/config.AspectRatio)
	if radius < 3 {
		radius = 3
	}
	return centerX, centerY, radius
}

// Render draws the proximity radar: rings at the immediate and near bucket
// edges, the outer ring at maxRange, and the displayed beacon if there is one.
func Render(width, height int, target *beacon.Beacon, maxRange float64, sweep *Sweep) string {
	if width < 10 || height < 5 {
		return ""
	}

	centerX, centerY, radius := frame(width, height)
	ringRadii := []float64{
		MetersToRadius(config.ImmediateRange, maxRange, radius),
		MetersToRadius(config.NearRange, maxRange, radius),
		radius,
	}

	var pos Target
	var label string
	if target != nil {
		pos = Place(*target, width, height, maxRange)
		label = fmt.Sprintf("%d/%d", target.Major, target.Minor)
	}
	labelCol := pos.Col + 2
	if labelCol+len(label) >= width {
		labelCol = pos.Col - len(label) - 1
	}

	var sb strings.Builder
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			if target != nil && row == pos.Row {
				if col == pos.Col {
					sb.WriteString(renderBeacon(*target))
					continue
				}
				if col == labelCol && labelCol >= 0 {
					sb.WriteString(styleLabel.Render(label))
					col += len(label) - 1
					continue
				}
			}
			sb.WriteString(renderCell(col, row, centerX, centerY, radius, ringRadii, sweep))
		}
		if row < height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func renderBeacon(b beacon.Beacon) string {
	var c lipgloss.Color
	switch b.Proximity {
	case beacon.ProximityImmediate:
		c = colorBright
	case beacon.ProximityNear:
		c = colorNear
	case beacon.ProximityFar:
		c = colorFar
	default:
		c = colorUnknown
	}
	return lipgloss.NewStyle().Foreground(c).Bold(true).Render("@")
}

func renderCell(col, row, centerX, centerY int, radius float64, ringRadii []float64, sweep *Sweep) string {
	dist := CellDistance(col, row, centerX, centerY)
	angle := CellAngle(col, row, centerX, centerY)

	if dist > radius+0.5 {
		return " "
	}
	if col == centerX && row == centerY {
		return styleCenter.Render("+")
	}
	for _, ringR := range ringRadii {
		if math.Abs(dist-ringR) < 0.8 {
			return renderSweepChar(RingChar(angle), sweep, angle)
		}
	}
	return renderSweepChar('.', sweep, angle)
}

func renderSweepChar(ch rune, sweep *Sweep, angle float64) string {
	color := sweepColor(sweep.Intensity(angle))
	if color == "" {
		if ch == '.' {
			return styleDot.Render(".")
		}
		return styleRing.Render(string(ch))
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(string(ch))
}

func sweepColor(intensity float64) string {
	switch {
	case intensity <= 0:
		return ""
	case intensity > 0.8:
		return "#00FF41"
	case intensity > 0.5:
		return "#00CC33"
	case intensity > 0.3:
		return "#00AA22"
	default:
		return "#005511"
	}
}

// RenderLegend produces the radar legend line.
func RenderLegend(width int, maxRange float64) string {
	legend := fmt.Sprintf("rings: %.1fm  %.1fm  %.0fm", config.ImmediateRange, config.NearRange, maxRange)
	styled := styleRing.Render(legend)
	pad := (width - lipgloss.Width(styled)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + styled
}
