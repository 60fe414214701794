package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// canvasCell is one character of a view canvas.
type canvasCell struct {
	r     rune
	color lipgloss.Color
	bold  bool
	bg    bool // takes the canvas background
}

// canvas is a character grid shared by the orbit and sky views.
type canvas struct {
	w, h  int
	cells [][]canvasCell
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, cells: make([][]canvasCell, h)}
	for y := range c.cells {
		c.cells[y] = make([]canvasCell, w)
		for x := range c.cells[y] {
			c.cells[y][x] = canvasCell{r: ' '}
		}
	}
	return c
}

func (c *canvas) inBounds(x, y int) bool {
	return x >= 0 && x < c.w && y >= 0 && y < c.h
}

func (c *canvas) set(x, y int, r rune, color lipgloss.Color, bold bool) {
	if !c.inBounds(x, y) {
		return
	}
	c.cells[y][x].r = r
	c.cells[y][x].color = color
	c.cells[y][x].bold = bold
}

// setIfEmpty draws only on blank cells.
func (c *canvas) setIfEmpty(x, y int, r rune, color lipgloss.Color) {
	if c.inBounds(x, y) && c.cells[y][x].r == ' ' {
		c.set(x, y, r, color, false)
	}
}

// drawEllipse draws an ellipse with radii rx, ry in cells around (cx, cy).
func (c *canvas) drawEllipse(cx, cy, rx, ry float64, glyph rune, color lipgloss.Color) {
	if rx < 1 {
		return
	}

	// Draw circle using parametric equations
	steps := int(2 * math.Pi * rx)
	if steps < 8 {
		steps = 8
	}
	if steps > 360 {
		steps = 360
	}

	for i := 0; i < steps; i++ {
		theta := 2 * math.Pi * float64(i) / float64(steps)
		x := int(math.Round(cx + rx*math.Cos(theta)))
		y := int(math.Round(cy + ry*math.Sin(theta)))
		c.setIfEmpty(x, y, glyph, color)
	}
}

// writeText writes s starting at (x, y), clipped to the canvas.
func (c *canvas) writeText(x, y int, s string, color lipgloss.Color) {
	for i, r := range []rune(s) {
		c.set(x+i, y, r, color, false)
	}
}

// render converts the grid to a string, indented two columns. When useBg is
// set, cells marked bg are painted with the background color.
func (c *canvas) render(bg lipgloss.Color, useBg bool) string {
	var b strings.Builder
	for y := 0; y < c.h; y++ {
		b.WriteString("  ")
		for x := 0; x < c.w; x++ {
			cell := c.cells[y][x]
			if cell.r == ' ' && !(cell.bg && useBg) {
				b.WriteRune(' ')
				continue
			}
			style := lipgloss.NewStyle()
			if cell.color != "" {
				style = style.Foreground(cell.color)
			}
			if cell.bold {
				style = style.Bold(true)
			}
			if cell.bg && useBg {
				style = style.Background(bg)
			}
			b.WriteString(style.Render(string(cell.r)))
		}
		if y < c.h-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
