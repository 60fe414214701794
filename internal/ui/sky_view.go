package ui

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-sidereal/internal/astro"
	"github.com/litescript/ls-sidereal/internal/report"
	"github.com/litescript/ls-sidereal/internal/sky"
	"github.com/litescript/ls-sidereal/internal/state"
)

const (
	// Star glyphs by magnitude
	glyphStarBright  = '✶' // mag < 0.5, haloed
	glyphStarMedium  = '✸' // mag < 1.5
	glyphStarDim     = '*' // mag < 2.5
	glyphStarVeryDim = '·'

	glyphSun     = '☉'
	glyphGrid    = '·'
	glyphHorizon = '•'

	// Star colors (grayscale so the Sun stands out)
	colorStarBright  = "255" // bright white
	colorStarMedium  = "250" // medium gray
	colorStarDim     = "246" // dim gray
	colorStarVeryDim = "242" // very dim gray

	colorSunGlyph  = "226"
	colorLabel     = "#d0c8ff" // soft purple
	colorGridLine  = "238"
	colorHorizon   = "60"
	colorCardinal  = "252"
	colorContrast  = "231"
	colorSkyDay    = "#16324F"
	colorSkyTwi    = "#2A1E4A"
	colorSkyNight  = "#0B0B1A"
)

// SparklineWidth is the fixed width of the Sun altitude sparkline.
const SparklineWidth = 48

// sparklineBlocks are the Unicode block characters for sparkline (0 = lowest, 7 = highest).
var sparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sun altitude gradient: below horizon (deep blue) → horizon (violet) → high (gold).
var (
	altColorLow  = [3]uint8{0x1b, 0x2b, 0x4b}
	altColorMid  = [3]uint8{0x9d, 0x4e, 0xdd}
	altColorHigh = [3]uint8{0xff, 0xd1, 0x66}
)

// SkyViewModel renders the observer's sky dome.
type SkyViewModel struct {
	width  int
	height int

	frame    sky.Frame
	options  state.Options
	sunTrace []float64 // Sun altitude in degrees across the next solar day
}

// NewSkyViewModel creates a new sky view model.
func NewSkyViewModel() SkyViewModel {
	return SkyViewModel{options: state.DefaultOptions()}
}

// SetSize updates the viewport size.
func (m SkyViewModel) SetSize(width, height int) SkyViewModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData updates the view with a snapshot and the frame computed for it.
func (m SkyViewModel) UpdateData(snap state.Snapshot, f sky.Frame) SkyViewModel {
	m.frame = f
	m.options = snap.Options
	m.sunTrace = sampleSunAltitude(snap.Observer, snap.Reference, snap.EffectiveTime, SparklineWidth)
	return m
}

// View renders the sky view.
func (m SkyViewModel) View() string {
	if m.width < 20 || m.height < 10 {
		return "Sky view requires larger terminal"
	}

	// Header, status and sparkline take four lines. Cells are about twice
	// as tall as wide, so the dome is twice as wide as it is high.
	domeH := m.height - 4
	domeW := domeH*2 + 1
	if domeW > m.width-2 {
		domeW = m.width - 2
		domeH = domeW / 2
	}
	if domeH < 5 {
		domeH = 5
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderDome(domeW, domeH))
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.renderSunSparkline())
	return b.String()
}

func (m SkyViewModel) renderHeader() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("135")) // violet
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))               // muted purple
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorLabel))

	title := titleStyle.Render("Sky over " + m.frame.Observer.Name)
	where := dimStyle.Render(fmt.Sprintf("%.2f°, %.2f°", m.frame.Observer.LatDeg(), m.frame.Observer.LonDeg()))
	lst := accentStyle.Render(fmt.Sprintf("LST %.1f°", astro.Rad2Deg(m.frame.LST)))

	return fmt.Sprintf("  %s | %s | %s | %s | %s", title, where, lst,
		onOff(dimStyle, accentStyle, "labels", m.options.ShowLabels),
		onOff(dimStyle, accentStyle, "grid", m.options.ShowGrid))
}

func onOff(dim, accent lipgloss.Style, name string, on bool) string {
	if on {
		return accent.Render(name + ": on")
	}
	return dim.Render(name + ": off")
}

func (m SkyViewModel) renderStatus() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	sunStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229"))

	sun := m.frame.Sun.Horizontal
	line := sunStyle.Render(fmt.Sprintf("☉ Sun alt %+.1f° az %.1f° (%s)",
		astro.Rad2Deg(sun.Altitude), astro.Rad2Deg(sun.Azimuth), report.Compass(sun.Azimuth)))
	line += dimStyle.Render(fmt.Sprintf(" | %s | %d stars visible", m.frame.Phase, len(m.frame.VisibleStars())))
	return "  " + line
}

// domeCell maps a dome point in [-1, 1]² to a canvas cell.
func (c *canvas) domeCell(p sky.Point) (x, y int) {
	x = int(math.Round((p.X + 1) / 2 * float64(c.w-1)))
	y = int(math.Round((p.Y + 1) / 2 * float64(c.h-1)))
	return x, y
}

// plotDome draws at a dome point only over empty or grid cells.
func (c *canvas) plotDome(p sky.Point, r rune, color lipgloss.Color) {
	x, y := c.domeCell(p)
	if !c.inBounds(x, y) {
		return
	}
	if cur := c.cells[y][x].r; cur != ' ' && cur != glyphGrid {
		return
	}
	c.set(x, y, r, color, false)
}

// drawDomeRing draws a circle of dome radius r.
func (c *canvas) drawDomeRing(r float64, glyph rune, color lipgloss.Color) {
	steps := int(2 * math.Pi * r * float64(c.w) / 2)
	if steps < 16 {
		steps = 16
	}
	if steps > 720 {
		steps = 720
	}
	for i := 0; i < steps; i++ {
		theta := 2 * math.Pi * float64(i) / float64(steps)
		c.plotDome(sky.Point{X: r * math.Cos(theta), Y: r * math.Sin(theta)}, glyph, color)
	}
}

// skyPos tracks a labeled body for label rendering.
type skyPos struct {
	x, y  int
	name  string
	isSun bool
}

func (m SkyViewModel) renderDome(width, height int) string {
	c := newCanvas(width, height)

	// Mark the inside of the dome for the sky background
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			px := float64(x)/float64(width-1)*2 - 1
			py := float64(y)/float64(height-1)*2 - 1
			c.cells[y][x].bg = math.Hypot(px, py) <= 1.02
		}
	}

	if m.options.ShowGrid {
		for _, alt := range sky.GridAltitudes {
			c.drawDomeRing(sky.AltitudeRing(alt), glyphGrid, colorGridLine)
		}
		for _, az := range sky.GridAzimuths {
			for alt := 5.0; alt < 90; alt += 5 {
				p := sky.Project(astro.Horizontal{Altitude: astro.Deg2Rad(alt), Azimuth: az})
				c.plotDome(p, glyphGrid, colorGridLine)
			}
		}
	}

	var positions []skyPos

	// Stars, faintest first so bright ones win shared cells
	stars := m.frame.VisibleStars()
	sort.SliceStable(stars, func(i, j int) bool { return stars[i].Magnitude > stars[j].Magnitude })
	for _, s := range stars {
		x, y := c.domeCell(s.Point())
		glyph, color := m.starGlyph(s.Magnitude)
		c.set(x, y, glyph, color, s.Glow || m.options.HighContrast)
		if s.Label {
			positions = append(positions, skyPos{x: x, y: y, name: s.Name})
		}
	}

	// Horizon and cardinals drawn over the stars on the rim
	c.drawDomeRing(1, glyphHorizon, m.horizonColor())
	for _, cd := range sky.Cardinals() {
		x, y := c.domeCell(cd.Point)
		c.set(x, y, rune(cd.Label[0]), colorCardinal, true)
	}

	if m.frame.SunDrawn {
		x, y := c.domeCell(m.frame.SunPoint())
		c.set(x, y, glyphSun, colorSunGlyph, true)
		positions = append(positions, skyPos{x: x, y: y, name: "Sun", isSun: true})
	}

	if m.options.ShowLabels {
		m.renderLabels(c, positions)
	}

	return c.render(m.skyColor(), !m.options.HighContrast)
}

// renderLabels writes names to the right of their glyphs, skipping labels
// that would overwrite anything already drawn.
func (m SkyViewModel) renderLabels(c *canvas, positions []skyPos) {
	claimed := make(map[[2]int]bool)

	// Sun first, then stars brightest first (positions are faintest first)
	order := make([]skyPos, 0, len(positions))
	for i := len(positions) - 1; i >= 0; i-- {
		if positions[i].isSun {
			order = append([]skyPos{positions[i]}, order...)
		} else {
			order = append(order, positions[i])
		}
	}

	labelColor := lipgloss.Color(colorLabel)
	if m.options.HighContrast {
		labelColor = colorContrast
	}

	for _, p := range order {
		if !c.inBounds(p.x, p.y) {
			continue
		}
		runes := []rune(p.name)
		start := p.x + 2
		if start+len(runes) > c.w {
			// Flip to the left side near the east rim
			start = p.x - 1 - len(runes)
		}
		if start < 0 {
			continue
		}

		free := true
		for i := range runes {
			x := start + i
			cur := c.cells[p.y][x].r
			if claimed[[2]int{x, p.y}] || (cur != ' ' && cur != glyphGrid) {
				free = false
				break
			}
		}
		if !free {
			continue
		}

		color := labelColor
		if p.isSun {
			color = "229"
		}
		for i, r := range runes {
			x := start + i
			claimed[[2]int{x, p.y}] = true
			c.set(x, p.y, r, color, false)
		}
	}
}

func (m SkyViewModel) skyColor() lipgloss.Color {
	switch m.frame.Phase {
	case astro.PhaseDay:
		return colorSkyDay
	case astro.PhaseTwilight:
		return colorSkyTwi
	default:
		return colorSkyNight
	}
}

func (m SkyViewModel) horizonColor() lipgloss.Color {
	if m.options.HighContrast {
		return colorContrast
	}
	return colorHorizon
}

// starGlyph returns the appropriate glyph and color for a star based on its magnitude.
// Brighter stars (lower magnitude) get more prominent symbols.
func (m SkyViewModel) starGlyph(mag float64) (rune, lipgloss.Color) {
	var glyph rune
	var color lipgloss.Color
	switch {
	case mag < sky.GlowMagnitude:
		glyph, color = glyphStarBright, colorStarBright
	case mag < 1.5:
		glyph, color = glyphStarMedium, colorStarMedium
	case mag < 2.5:
		glyph, color = glyphStarDim, colorStarDim
	default:
		glyph, color = glyphStarVeryDim, colorStarVeryDim
	}
	if m.options.HighContrast {
		color = colorContrast
	}
	return glyph, color
}

// renderSunSparkline renders the Sun's altitude over the next solar day.
func (m SkyViewModel) renderSunSparkline() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	if len(m.sunTrace) == 0 {
		return "  " + dimStyle.Render("No Sun track")
	}

	var sb strings.Builder
	sb.WriteString("  ")
	sb.WriteString(dimStyle.Render("Sun 24h "))
	for _, alt := range m.sunTrace {
		// Map -90..90 to 0..1
		t := (alt + 90) / 180
		if t < 0 {
			t = 0
		}
		if t > 1 {
			t = 1
		}

		blockIdx := int(t * 7.0)
		if blockIdx > 7 {
			blockIdx = 7
		}

		r, g, b := interpolateAltColor(t)
		color := fmt.Sprintf("#%02x%02x%02x", r, g, b)
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(string(sparklineBlocks[blockIdx])))
	}

	peak := math.Inf(-1)
	for _, alt := range m.sunTrace {
		peak = math.Max(peak, alt)
	}
	sb.WriteString(dimStyle.Render(fmt.Sprintf(" peak %.0f°", peak)))
	return sb.String()
}

// sampleSunAltitude samples the Sun's altitude in degrees at width evenly
// spaced instants from start across one solar day.
func sampleSunAltitude(obs astro.Observer, ref astro.Reference, start float64, width int) []float64 {
	if width <= 0 {
		return nil
	}
	out := make([]float64, width)
	for i := range out {
		t := start + float64(i)/float64(width)*astro.SolarDaySeconds
		out[i] = astro.Rad2Deg(astro.SunAltitude(t, obs, ref))
	}
	return out
}

// interpolateAltColor returns RGB color for altitude value t in [0, 1].
// Gradient: low (deep blue) → horizon (violet) → high (gold).
func interpolateAltColor(t float64) (uint8, uint8, uint8) {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	lo, hi := altColorLow, altColorMid
	s := t * 2
	if t >= 0.5 {
		lo, hi = altColorMid, altColorHigh
		s = (t - 0.5) * 2
	}

	r := uint8(float64(lo[0])*(1-s) + float64(hi[0])*s)
	g := uint8(float64(lo[1])*(1-s) + float64(hi[1])*s)
	b := uint8(float64(lo[2])*(1-s) + float64(hi[2])*s)
	return r, g, b
}
