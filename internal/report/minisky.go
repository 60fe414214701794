package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/litescript/ls-sidereal/internal/astro"
	"github.com/litescript/ls-sidereal/internal/sky"
)

// MiniSkyConfig sizes the ASCII dome.
type MiniSkyConfig struct {
	Width  int // columns inside the border; terminal cells are about twice as tall as wide
	Height int
	Legend int // labeled stars listed under the dome, 0 for none
}

// DefaultMiniSkyConfig returns a 41×21 dome with a short legend.
func DefaultMiniSkyConfig() MiniSkyConfig {
	return MiniSkyConfig{Width: 41, Height: 21, Legend: 8}
}

// Glyphs used on the mini sky.
const (
	glyphHorizon = '·'
	glyphStar    = '*'
	glyphBright  = '✦'
	glyphSun     = '☉'
)

type canvas struct {
	w, h  int
	cells [][]rune
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, cells: make([][]rune, h)}
	for i := range c.cells {
		c.cells[i] = []rune(strings.Repeat(" ", w))
	}
	return c
}

// cell maps a dome point in [-1, 1]² to a grid cell.
func (c *canvas) cell(p sky.Point) (col, row int) {
	col = int(math.Round((p.X + 1) / 2 * float64(c.w-1)))
	row = int(math.Round((p.Y + 1) / 2 * float64(c.h-1)))
	return col, row
}

func (c *canvas) set(p sky.Point, r rune) {
	col, row := c.cell(p)
	if col < 0 || col >= c.w || row < 0 || row >= c.h {
		return
	}
	c.cells[row][col] = r
}

// WriteMiniSky draws the observer's dome in a box, north up and east right.
func WriteMiniSky(w io.Writer, f sky.Frame, cfg MiniSkyConfig) {
	if cfg.Width < 11 || cfg.Height < 5 {
		cfg = DefaultMiniSkyConfig()
	}
	c := newCanvas(cfg.Width, cfg.Height)

	for deg := 0; deg < 360; deg += 3 {
		c.set(sky.Project(astro.Horizontal{Azimuth: astro.Deg2Rad(float64(deg))}), glyphHorizon)
	}
	for _, cd := range sky.Cardinals() {
		c.set(cd.Point, rune(cd.Label[0]))
	}

	stars := f.VisibleStars()
	for _, s := range stars {
		g := glyphStar
		if s.Glow {
			g = glyphBright
		}
		c.set(s.Point(), g)
	}
	if f.SunDrawn {
		c.set(f.SunPoint(), glyphSun)
	}

	title := fmt.Sprintf(" Sky over %s ", f.Observer.Name)
	if len([]rune(title)) > cfg.Width {
		title = ""
	}
	fmt.Fprintf(w, "┌%s%s┐\n", title, strings.Repeat("─", cfg.Width-len([]rune(title))))
	for _, row := range c.cells {
		fmt.Fprintf(w, "│%s│\n", string(row))
	}
	fmt.Fprintf(w, "└%s┘\n", strings.Repeat("─", cfg.Width))

	fmt.Fprintf(w, "%c Sun %+.1f° %s   %c bright  %c star\n",
		glyphSun, astro.Rad2Deg(f.Sun.Horizontal.Altitude), f.Phase, glyphBright, glyphStar)

	if len(stars) == 0 {
		fmt.Fprintln(w, "No stars above the horizon")
		return
	}
	if cfg.Legend <= 0 {
		return
	}

	sort.SliceStable(stars, func(i, j int) bool { return stars[i].Magnitude < stars[j].Magnitude })
	n := 0
	for _, s := range stars {
		if !s.Label || n >= cfg.Legend {
			continue
		}
		fmt.Fprintf(w, "  %-12s %5.1f° %-2s  mag %5.2f\n",
			s.Name, astro.Rad2Deg(s.Horizontal.Altitude), Compass(s.Horizontal.Azimuth), s.Magnitude)
		n++
	}
}
