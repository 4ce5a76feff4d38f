// Package hex provides cube-coordinate math for the hexagonal grid.
// Coordinates satisfy q + r + s == 0; s is stored for convenience but is
// always derivable from q and r.
package hex

import (
	"fmt"
	"math"
)

// Coord is a cube coordinate on the hex grid.
type Coord struct {
	Q int `json:"q"`
	R int `json:"r"`
	S int `json:"s"`
}

// New builds a coordinate from axial q, r.
func New(q, r int) Coord {
	return Coord{Q: q, R: r, S: -q - r}
}

// Valid reports whether the cube invariant holds.
func (c Coord) Valid() bool {
	return c.Q+c.R+c.S == 0
}

// Key returns a stable string form usable as a JSON map key.
func (c Coord) Key() string {
	return fmt.Sprintf("%d,%d", c.Q, c.R)
}

// ParseKey parses a string produced by Key.
func ParseKey(key string) (Coord, error) {
	var q, r int
	if _, err := fmt.Sscanf(key, "%d,%d", &q, &r); err != nil {
		return Coord{}, fmt.Errorf("invalid hex key %q: %w", key, err)
	}
	return New(q, r), nil
}

// Add returns c + o.
func (c Coord) Add(o Coord) Coord {
	return Coord{Q: c.Q + o.Q, R: c.R + o.R, S: c.S + o.S}
}

// Sub returns c - o.
func (c Coord) Sub(o Coord) Coord {
	return Coord{Q: c.Q - o.Q, R: c.R - o.R, S: c.S - o.S}
}

// Directions are the six neighbor offsets, clockwise from east.
var Directions = [6]Coord{
	{Q: 1, R: 0, S: -1},
	{Q: 1, R: -1, S: 0},
	{Q: 0, R: -1, S: 1},
	{Q: -1, R: 0, S: 1},
	{Q: -1, R: 1, S: 0},
	{Q: 0, R: 1, S: -1},
}

// Neighbors returns the six adjacent coordinates.
func (c Coord) Neighbors() [6]Coord {
	var result [6]Coord
	for i, d := range Directions {
		result[i] = c.Add(d)
	}
	return result
}

// Distance returns the hex distance between two coordinates.
func Distance(a, b Coord) int {
	dq := abs(a.Q - b.Q)
	dr := abs(a.R - b.R)
	ds := abs(a.S - b.S)
	return (dq + dr + ds) / 2
}

// Range returns all coordinates within radius of center, center included.
func Range(center Coord, radius int) []Coord {
	if radius < 0 {
		return nil
	}
	result := make([]Coord, 0, 1+3*radius*(radius+1))
	for q := -radius; q <= radius; q++ {
		lo := maxInt(-radius, -q-radius)
		hi := minInt(radius, -q+radius)
		for r := lo; r <= hi; r++ {
			result = append(result, center.Add(New(q, r)))
		}
	}
	return result
}

// Ring returns the coordinates at exactly radius from center.
// Ring(center, 0) returns an empty slice.
func Ring(center Coord, radius int) []Coord {
	if radius <= 0 {
		return nil
	}
	result := make([]Coord, 0, 6*radius)
	// Start at the corner radius steps in direction 4, then walk each side.
	cur := center
	for i := 0; i < radius; i++ {
		cur = cur.Add(Directions[4])
	}
	for side := 0; side < 6; side++ {
		for step := 0; step < radius; step++ {
			result = append(result, cur)
			cur = cur.Add(Directions[side])
		}
	}
	return result
}

// Line returns the straight hex line from a to b inclusive, using cube
// interpolation with rounding.
func Line(a, b Coord) []Coord {
	dist := Distance(a, b)
	if dist == 0 {
		return []Coord{a}
	}
	result := make([]Coord, 0, dist+1)
	for i := 0; i <= dist; i++ {
		t := float64(i) / float64(dist)
		result = append(result, Round(
			lerp(float64(a.Q), float64(b.Q), t),
			lerp(float64(a.R), float64(b.R), t),
			lerp(float64(a.S), float64(b.S), t),
		))
	}
	return result
}

// Round snaps fractional cube coordinates to the nearest valid hex.
func Round(q, r, s float64) Coord {
	rq := math.Round(q)
	rr := math.Round(r)
	rs := math.Round(s)

	dq := math.Abs(rq - q)
	dr := math.Abs(rr - r)
	ds := math.Abs(rs - s)

	if dq > dr && dq > ds {
		rq = -rr - rs
	} else if dr > ds {
		rr = -rq - rs
	} else {
		rs = -rq - rr
	}

	return Coord{Q: int(rq), R: int(rr), S: int(rs)}
}

// ToPixel converts the coordinate to pointy-top pixel space with the given
// hex size. Presentation helper only; the engine never depends on it.
func (c Coord) ToPixel(size float64) (x, y float64) {
	x = size * (math.Sqrt(3)*float64(c.Q) + math.Sqrt(3)/2*float64(c.R))
	y = size * (3.0 / 2.0 * float64(c.R))
	return x, y
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
