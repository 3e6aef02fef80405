package hexgame

import (
	"encoding/json"
	"testing"
)

func TestDistance(t *testing.T) {
	cases := []struct {
		a, b Hex
		want int
	}{
		{Hex{0, 0}, Hex{0, 0}, 0},
		{Hex{0, 0}, Hex{1, 0}, 1},
		{Hex{0, 0}, Hex{1, -1}, 1},
		{Hex{0, 0}, Hex{2, -1}, 2},
		{Hex{0, 0}, Hex{3, -3}, 3},
		{Hex{-2, 1}, Hex{2, -1}, 4},
	}
	for _, c := range cases {
		if got := Distance(c.a, c.b); got != c.want {
			t.Errorf("Distance(%v, %v) = %d, want %d", c.a, c.b, got, c.want)
		}
		if got := Distance(c.b, c.a); got != c.want {
			t.Errorf("Distance not symmetric for %v, %v", c.a, c.b)
		}
	}
}

func TestNeighborsAreAdjacent(t *testing.T) {
	h := Hex{3, -2}
	for i, n := range h.Neighbors() {
		if Distance(h, n) != 1 {
			t.Errorf("neighbor %d %v is %d away", i, n, Distance(h, n))
		}
		if n != h.Neighbor(Direction(i)) {
			t.Errorf("Neighbor(%d) disagrees with Neighbors()", i)
		}
	}
}

func TestRangeAndRing(t *testing.T) {
	c := Hex{1, 2}
	for n := 0; n <= 4; n++ {
		r := Range(c, n)
		if want := 3*n*(n+1) + 1; len(r) != want {
			t.Errorf("Range(%d) has %d hexes, want %d", n, len(r), want)
		}
		for _, h := range r {
			if Distance(c, h) > n {
				t.Errorf("Range(%d) includes %v at distance %d", n, h, Distance(c, h))
			}
		}
		ring := Ring(c, n)
		want := 6 * n
		if n == 0 {
			want = 1
		}
		if len(ring) != want {
			t.Errorf("Ring(%d) has %d hexes, want %d", n, len(ring), want)
		}
		seen := make(map[Hex]bool)
		for _, h := range ring {
			if Distance(c, h) != n {
				t.Errorf("Ring(%d) includes %v at distance %d", n, h, Distance(c, h))
			}
			if seen[h] {
				t.Errorf("Ring(%d) repeats %v", n, h)
			}
			seen[h] = true
		}
	}
}

func TestLine(t *testing.T) {
	a, b := Hex{0, 0}, Hex{4, -2}
	line := Line(a, b)
	if len(line) != Distance(a, b)+1 {
		t.Fatalf("line has %d hexes, want %d", len(line), Distance(a, b)+1)
	}
	if line[0] != a || line[len(line)-1] != b {
		t.Errorf("line endpoints = %v..%v", line[0], line[len(line)-1])
	}
	for i := 1; i < len(line); i++ {
		if Distance(line[i-1], line[i]) != 1 {
			t.Errorf("line step %d is not adjacent", i)
		}
	}
}

func TestPixelRoundTrip(t *testing.T) {
	for _, h := range Range(Hex{0, 0}, 5) {
		if got := FromPixel(ToPixel(h, 32), 32); got != h {
			t.Errorf("FromPixel(ToPixel(%v)) = %v", h, got)
		}
	}
}

func TestOffsetRoundTrip(t *testing.T) {
	for row := 0; row < 8; row++ {
		for col := 0; col < 10; col++ {
			c, r := AxialToOffset(OffsetToAxial(col, row))
			if c != col || r != row {
				t.Errorf("offset (%d,%d) round-trips to (%d,%d)", col, row, c, r)
			}
		}
	}
}

func TestHexTextKeys(t *testing.T) {
	in := map[Hex]int{{2, -1}: 1, {0, 3}: 2}
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	var out map[Hex]int
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[Hex{2, -1}] != 1 || out[Hex{0, 3}] != 2 {
		t.Errorf("round trip = %v", out)
	}
	if _, err := ParseHex("3"); err == nil {
		t.Error("expected error for malformed key")
	}
}
