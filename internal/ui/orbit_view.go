package ui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-sidereal/internal/astro"
	"github.com/litescript/ls-sidereal/internal/sky"
	"github.com/litescript/ls-sidereal/internal/state"
)

// Orbit view glyphs and colors
const (
	glyphOrbit     = '·'
	glyphEarthDay  = '█'
	glyphEarthDark = '▒'
	glyphMarker    = '◆'
	glyphStarLine  = '∙'
	glyphRefStar   = '✶'

	colorOrbitRing = "240"
	colorEarthDay  = "#3B82F6"
	colorEarthDark = "#1B2B4B"
	colorMarker    = "229" // bright gold
	colorStarLine  = "#8BE9FF"
)

// earthRadius is the Earth disk radius in orbit units, exaggerated so the
// day side and marker read at terminal resolution.
const earthRadius = 0.2

// OrbitViewModel renders the top-down Earth–Sun view.
type OrbitViewModel struct {
	width  int
	height int

	snapshot state.Snapshot
	orbit    sky.Orbit

	showStarLine bool // direction of the reference star
}

// NewOrbitViewModel creates a new orbit view model.
func NewOrbitViewModel() OrbitViewModel {
	return OrbitViewModel{showStarLine: true}
}

// SetSize updates the viewport size.
func (m OrbitViewModel) SetSize(width, height int) OrbitViewModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData updates the model with a new snapshot.
func (m OrbitViewModel) UpdateData(snap state.Snapshot) OrbitViewModel {
	m.snapshot = snap
	m.orbit = sky.ComputeOrbit(snap.EffectiveTime, snap.Observer, snap.Reference)
	return m
}

// Update handles input messages.
func (m OrbitViewModel) Update(msg tea.Msg) (OrbitViewModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "s" {
		m.showStarLine = !m.showStarLine
	}
	return m, nil
}

// ShowStarLine reports whether the reference star direction is drawn.
func (m OrbitViewModel) ShowStarLine() bool {
	return m.showStarLine
}

// View renders the orbit view.
func (m OrbitViewModel) View() string {
	if m.width < 40 || m.height < 10 {
		return "Terminal too small for orbit view"
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.buildCanvas(), m.renderHUD())
}

func (m OrbitViewModel) buildCanvas() string {
	// Reserve space for HUD (3 lines)
	canvasH := m.height - 4
	if canvasH < 5 {
		canvasH = 5
	}
	canvasW := m.width - 2
	c := newCanvas(canvasW, canvasH)

	cx := float64(canvasW / 2)
	cy := float64(canvasH / 2)

	// Orbit radius in cells; rows are about twice as tall as columns
	rx := math.Min(cx-8, (cy-1)*2) * 0.9
	if rx < 4 {
		rx = 4
	}
	ry := rx / 2

	c.drawEllipse(cx, cy, rx, ry, glyphOrbit, colorOrbitRing)

	o := m.orbit
	ex := cx + o.Earth.X*rx
	ey := cy + o.Earth.Y*ry

	if m.showStarLine {
		m.drawStarLine(c, ex, ey, rx, ry)
	}
	m.drawEarth(c, ex, ey, rx, ry)

	// Meridian marker just outside the disk
	mp := o.MarkerPoint(earthRadius * 1.45)
	mx := int(math.Round(cx + mp.X*rx))
	my := int(math.Round(cy + mp.Y*ry))
	c.set(mx, my, glyphMarker, colorMarker, true)

	// Sun at the origin, drawn last so it is always visible
	c.set(int(cx), int(cy), '☉', "220", true)
	c.writeText(int(cx)+2, int(cy), "Sun", "220")

	return c.render("", false)
}

// drawEarth shades each cell of the disk by whether it faces the Sun.
func (m OrbitViewModel) drawEarth(c *canvas, ex, ey, rx, ry float64) {
	erx := math.Max(earthRadius*rx, 2)
	ery := math.Max(earthRadius*ry, 1)

	for y := int(ey - ery); y <= int(ey+ery)+1; y++ {
		for x := int(ex - erx); x <= int(ex+erx)+1; x++ {
			dx := (float64(x) - ex) / erx
			dy := (float64(y) - ey) / ery
			if dx*dx+dy*dy > 1 {
				continue
			}
			// Normalizing by the radii keeps the angle in orbit coordinates.
			angle := math.Atan2(dy, dx)
			if math.Abs(astro.AngleDiff(m.orbit.SunDir, angle)) < math.Pi/2 {
				c.set(x, y, glyphEarthDay, colorEarthDay, false)
			} else {
				c.set(x, y, glyphEarthDark, colorEarthDark, false)
			}
		}
	}
}

// drawStarLine draws the fixed direction of the star that was on the
// observer's meridian at t = 0. It is the same from anywhere on the orbit.
func (m OrbitViewModel) drawStarLine(c *canvas, ex, ey, rx, ry float64) {
	dir := m.orbit.StarDir
	cos, sin := math.Cos(dir), math.Sin(dir)

	const length = 0.9
	steps := int(length * rx)
	lastX, lastY, drawn := 0, 0, false
	for i := int(earthRadius*1.8*rx) + 1; i <= steps; i++ {
		d := float64(i) / rx
		x := int(math.Round(ex + d*cos*rx))
		y := int(math.Round(ey + d*sin*ry))
		if !c.inBounds(x, y) {
			break
		}
		c.setIfEmpty(x, y, glyphStarLine, colorStarLine)
		lastX, lastY, drawn = x, y, true
	}
	if drawn {
		c.set(lastX, lastY, glyphRefStar, colorStarLine, true)
	}
}

func (m OrbitViewModel) renderHUD() string {
	var b strings.Builder

	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	o := m.orbit
	e := m.snapshot.Earth

	b.WriteString("  ")
	b.WriteString(headerStyle.Render(fmt.Sprintf("%c %s", glyphMarker, m.snapshot.Observer.Name)))
	b.WriteString("  ")
	b.WriteString(labelStyle.Render("Rotation: "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%6.1f°", astro.Rad2Deg(e.SiderealAngle))))
	b.WriteString("  ")
	b.WriteString(labelStyle.Render("Orbit: "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%6.2f°", astro.Rad2Deg(e.OrbitAngle))))
	b.WriteString("  ")
	b.WriteString(labelStyle.Render("Sun lon: "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%6.2f°", astro.Rad2Deg(e.SunEclipticLon))))
	b.WriteString("\n")

	side := "night"
	if o.Daytime() {
		side = "day"
	}
	b.WriteString("  ")
	b.WriteString(labelStyle.Render("Hour angle: "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%+6.1f° (%s)", astro.Rad2Deg(astro.AngleDiff(o.SunDir, o.Marker)), side)))
	b.WriteString("  ")
	b.WriteString(labelStyle.Render("Marker to star: "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%+6.2f°", astro.Rad2Deg(astro.AngleDiff(o.StarDir, o.Marker)))))
	b.WriteString("\n")

	star := "off"
	if m.showStarLine {
		star = "on"
	}
	b.WriteString("  ")
	b.WriteString(dimStyle.Render(fmt.Sprintf("%c faces the star again every sidereal day, the Sun every solar day | star line: %s",
		glyphMarker, star)))

	return b.String()
}
