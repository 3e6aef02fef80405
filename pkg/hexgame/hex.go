package hexgame

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Hex is an axial hex-grid coordinate. The implicit cube coordinate is s = -q - r.
type Hex struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// S returns the implicit third cube coordinate.
func (h Hex) S() int {
	return -h.Q - h.R
}

// Add returns the component-wise sum of two coordinates.
func (h Hex) Add(o Hex) Hex {
	return Hex{Q: h.Q + o.Q, R: h.R + o.R}
}

// Scale multiplies both components by k.
func (h Hex) Scale(k int) Hex {
	return Hex{Q: h.Q * k, R: h.R * k}
}

func (h Hex) String() string {
	return strconv.Itoa(h.Q) + "," + strconv.Itoa(h.R)
}

// MarshalText encodes the coordinate as "q,r" so Hex can key JSON objects.
func (h Hex) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText parses the "q,r" form produced by MarshalText.
func (h *Hex) UnmarshalText(b []byte) error {
	parsed, err := ParseHex(string(b))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// ParseHex parses a "q,r" coordinate key.
func ParseHex(s string) (Hex, error) {
	qs, rs, ok := strings.Cut(s, ",")
	if !ok {
		return Hex{}, fmt.Errorf("hex %q: missing comma", s)
	}
	q, err := strconv.Atoi(strings.TrimSpace(qs))
	if err != nil {
		return Hex{}, fmt.Errorf("hex %q: %w", s, err)
	}
	r, err := strconv.Atoi(strings.TrimSpace(rs))
	if err != nil {
		return Hex{}, fmt.Errorf("hex %q: %w", s, err)
	}
	return Hex{Q: q, R: r}, nil
}

// Direction indexes the six neighbor directions, starting east and going counter-clockwise.
type Direction int

const (
	East Direction = iota
	NorthEast
	NorthWest
	West
	SouthWest
	SouthEast
)

// HexDirections holds the six neighbor offsets in axial coordinates, indexed by Direction.
var HexDirections = [6]Hex{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

// Neighbor returns the adjacent coordinate in the given direction.
func (h Hex) Neighbor(d Direction) Hex {
	return h.Add(HexDirections[((int(d)%6)+6)%6])
}

// Neighbors returns the six adjacent coordinates in Direction order.
func (h Hex) Neighbors() [6]Hex {
	var result [6]Hex
	for i, dir := range HexDirections {
		result[i] = h.Add(dir)
	}
	return result
}

// Distance returns the hex distance between two coordinates.
func Distance(a, b Hex) int {
	dq := abs(a.Q - b.Q)
	dr := abs(a.R - b.R)
	ds := abs(a.S() - b.S())
	return max(dq, dr, ds)
}

// Range returns every coordinate within radius n of center, in q-major then r order.
func Range(center Hex, n int) []Hex {
	if n < 0 {
		return nil
	}
	result := make([]Hex, 0, 3*n*(n+1)+1)
	for dq := -n; dq <= n; dq++ {
		lo := max(-n, -dq-n)
		hi := min(n, -dq+n)
		for dr := lo; dr <= hi; dr++ {
			result = append(result, Hex{Q: center.Q + dq, R: center.R + dr})
		}
	}
	return result
}

// Ring returns the coordinates exactly radius n from center. Ring(c, 0) is just c.
func Ring(center Hex, n int) []Hex {
	if n <= 0 {
		return []Hex{center}
	}
	result := make([]Hex, 0, 6*n)
	h := center.Add(HexDirections[SouthWest].Scale(n))
	for side := 0; side < 6; side++ {
		for step := 0; step < n; step++ {
			result = append(result, h)
			h = h.Add(HexDirections[side])
		}
	}
	return result
}

// Line returns the coordinates on the straight line from a to b inclusive.
func Line(a, b Hex) []Hex {
	n := Distance(a, b)
	if n == 0 {
		return []Hex{a}
	}
	// Nudge the endpoints so ties on edges resolve consistently.
	aq, ar := float64(a.Q)+1e-6, float64(a.R)+1e-6
	bq, br := float64(b.Q)+1e-6, float64(b.R)+1e-6
	result := make([]Hex, 0, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		result = append(result, Round(aq+(bq-aq)*t, ar+(br-ar)*t))
	}
	return result
}

// Round converts fractional axial coordinates to the nearest hex.
func Round(q, r float64) Hex {
	s := -q - r
	rq, rr, rs := math.Round(q), math.Round(r), math.Round(s)
	dq, dr, ds := math.Abs(rq-q), math.Abs(rr-r), math.Abs(rs-s)
	if dq > dr && dq > ds {
		rq = -rr - rs
	} else if dr > ds {
		rr = -rq - rs
	}
	return Hex{Q: int(rq), R: int(rr)}
}

// Point is a pixel-space position used by presentation collaborators.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ToPixel projects a hex center for a pointy-top layout with the given hex size.
func ToPixel(h Hex, size float64) Point {
	return Point{
		X: size * (math.Sqrt(3)*float64(h.Q) + math.Sqrt(3)/2*float64(h.R)),
		Y: size * (1.5 * float64(h.R)),
	}
}

// FromPixel inverts ToPixel, returning the hex containing the point.
func FromPixel(p Point, size float64) Hex {
	q := (math.Sqrt(3)/3*p.X - p.Y/3) / size
	r := (2.0 / 3 * p.Y) / size
	return Round(q, r)
}

// OffsetToAxial converts odd-row offset coordinates (col,row) to axial.
func OffsetToAxial(col, row int) Hex {
	return Hex{Q: col - (row-(row&1))/2, R: row}
}

// AxialToOffset converts an axial coordinate to odd-row offset coordinates.
func AxialToOffset(h Hex) (col, row int) {
	return h.Q + (h.R-(h.R&1))/2, h.R
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
