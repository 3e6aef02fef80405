package hexgame

// TileResource is a resource deposit on a tile.
type TileResource struct {
	Type     ResourceType `json:"type"`
	Revealed bool         `json:"revealed"`
	Improved bool         `json:"improved"`
}

// Tile is one map cell.
type Tile struct {
	Terrain     Terrain       `json:"terrain"`
	Feature     Feature       `json:"feature,omitempty"`
	Resource    *TileResource `json:"resource,omitempty"`
	Owner       TribeID       `json:"owner,omitempty"`
	Improvement Improvement   `json:"improvement,omitempty"`
}

// Passable reports whether land units may enter the tile.
func (t Tile) Passable() bool {
	return terrainDefs[t.Terrain].Passable
}

// Map is a rectangular odd-row offset grid stored under axial keys.
type Map struct {
	Width  int          `json:"width"`
	Height int          `json:"height"`
	Tiles  map[Hex]Tile `json:"tiles"`
}

// NewMap returns a map of the given size filled with ocean.
func NewMap(width, height int) Map {
	m := Map{Width: width, Height: height, Tiles: make(map[Hex]Tile, width*height)}
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			m.Tiles[OffsetToAxial(col, row)] = Tile{Terrain: Ocean}
		}
	}
	return m
}

// InBounds reports whether h lies on the map.
func (m *Map) InBounds(h Hex) bool {
	col, row := AxialToOffset(h)
	return col >= 0 && col < m.Width && row >= 0 && row < m.Height
}

// Tile returns the tile at h.
func (m *Map) Tile(h Hex) (Tile, bool) {
	t, ok := m.Tiles[h]
	return t, ok
}

// Hexes returns every coordinate in row-major offset order.
func (m *Map) Hexes() []Hex {
	out := make([]Hex, 0, m.Width*m.Height)
	for row := 0; row < m.Height; row++ {
		for col := 0; col < m.Width; col++ {
			out = append(out, OffsetToAxial(col, row))
		}
	}
	return out
}

// InBoundsNeighbors returns h's neighbors that lie on the map, in Direction order.
func (m *Map) InBoundsNeighbors(h Hex) []Hex {
	out := make([]Hex, 0, 6)
	for _, n := range h.Neighbors() {
		if m.InBounds(n) {
			out = append(out, n)
		}
	}
	return out
}

func (m Map) clone() Map {
	out := Map{Width: m.Width, Height: m.Height, Tiles: make(map[Hex]Tile, len(m.Tiles))}
	for h, t := range m.Tiles {
		if t.Resource != nil {
			r := *t.Resource
			t.Resource = &r
		}
		out.Tiles[h] = t
	}
	return out
}

// hexLess orders coordinates row-major.
func hexLess(a, b Hex) bool {
	if a.R != b.R {
		return a.R < b.R
	}
	return a.Q < b.Q
}

func compareHex(a, b Hex) int {
	switch {
	case hexLess(a, b):
		return -1
	case hexLess(b, a):
		return 1
	}
	return 0
}
