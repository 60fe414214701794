package astro

import "strings"

// Star is a catalog entry. RA and Dec are in radians.
type Star struct {
	Name      string
	RA        float64
	Dec       float64
	Magnitude float64 // apparent visual magnitude (lower = brighter)
}

// catalog is the fixed illustrative star set. Order is significant: it is
// the order every caller sees.
var catalog = buildCatalog([]catalogRow{
	{"Sirius", 101.29, -16.72, -1.46},
	{"Canopus", 95.99, -52.70, -0.72},
	{"Arcturus", 213.92, 19.18, -0.05},
	{"Vega", 279.23, 38.78, 0.03},
	{"Capella", 79.17, 45.99, 0.08},
	{"Rigel", 78.63, -8.20, 0.12},
	{"Procyon", 114.83, 5.22, 0.38},
	{"Betelgeuse", 88.79, 7.41, 0.50},
	{"Altair", 297.70, 8.87, 0.77},
	{"Aldebaran", 68.98, 16.51, 0.85},
	{"Spica", 201.30, -11.16, 0.97},
	{"Antares", 247.35, -26.43, 1.06},
	{"Pollux", 116.33, 28.03, 1.14},
	{"Fomalhaut", 344.41, -29.62, 1.16},
	{"Deneb", 310.36, 45.28, 1.25},
	{"Regulus", 152.09, 11.97, 1.35},
	{"Castor", 113.65, 31.88, 1.58},
	{"Polaris", 37.95, 89.26, 1.98},

	// Orion's belt
	{"Alnitak", 85.19, -1.94, 1.77},
	{"Alnilam", 84.05, -1.20, 1.69},
	{"Mintaka", 83.00, -0.30, 2.23},

	// Big Dipper
	{"Dubhe", 165.93, 61.75, 1.79},
	{"Merak", 165.46, 56.38, 2.37},
	{"Phecda", 178.46, 53.69, 2.44},
	{"Megrez", 183.86, 57.03, 3.31},
	{"Alioth", 193.51, 55.96, 1.77},
	{"Mizar", 200.98, 54.93, 2.27},
	{"Alkaid", 206.89, 49.31, 1.86},

	// Southern Cross
	{"Acrux", 186.65, -63.10, 0.77},
	{"Mimosa", 191.93, -59.69, 1.25},
	{"Gacrux", 187.79, -57.11, 1.63},

	{"Bellatrix", 81.28, 6.35, 1.64},
	{"Alhena", 99.43, 16.40, 1.93},
	{"Shaula", 263.40, -37.10, 1.63},
	{"Hadar", 210.96, -60.37, 0.61},
	{"Miaplacidus", 138.30, -69.72, 1.68},
})

type catalogRow struct {
	name          string
	raDeg, decDeg float64
	mag           float64
}

func buildCatalog(rows []catalogRow) []Star {
	stars := make([]Star, len(rows))
	for i, r := range rows {
		stars[i] = Star{
			Name:      r.name,
			RA:        Deg2Rad(r.raDeg),
			Dec:       Deg2Rad(r.decDeg),
			Magnitude: r.mag,
		}
	}
	return stars
}

// Catalog returns a copy of the star catalog in catalog order.
func Catalog() []Star {
	out := make([]Star, len(catalog))
	copy(out, catalog)
	return out
}

// StarsByMagnitude returns the stars with magnitude <= maxMag, preserving
// catalog order.
func StarsByMagnitude(maxMag float64) []Star {
	var out []Star
	for _, s := range catalog {
		if s.Magnitude <= maxMag {
			out = append(out, s)
		}
	}
	return out
}

// StarByName looks a star up case-insensitively.
func StarByName(name string) (Star, bool) {
	for _, s := range catalog {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return Star{}, false
}

// StarSize maps magnitude to a display radius in [1, 5].
func StarSize(mag float64) float64 {
	return clamp(5-(mag+1.5)*0.8, 1, 5)
}

// StarOpacity maps magnitude to an opacity in [0.3, 1].
func StarOpacity(mag float64) float64 {
	return clamp(1-(mag+1.5)*0.15, 0.3, 1)
}

// Equatorial returns the star's position.
func (s Star) Equatorial() Equatorial {
	return Equatorial{RA: s.RA, Dec: s.Dec}
}
