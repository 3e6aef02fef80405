package hexgame

const (
	maxTerritoryRadius = 3
	settlementVision   = 3
	minSettlementGap   = 3
)

// territoryRadius grows with population: 1 at founding, up to 3.
func territoryRadius(pop int) int {
	return min(maxTerritoryRadius, 1+pop/3)
}

// claimTerritory assigns unowned tiles around a settlement to its owner.
func claimTerritory(gs *GameState, s Settlement) {
	for _, h := range Range(s.Position, territoryRadius(s.Population)) {
		t, ok := gs.Map.Tiles[h]
		if !ok || (t.Owner != NoTribe && h != s.Position) {
			continue
		}
		t.Owner = s.Owner
		gs.Map.Tiles[h] = t
	}
}

// nearestSettlement returns the id of owner's closest settlement within
// territory range of h, or "". Ties go to the earliest id.
func nearestSettlement(gs *GameState, h Hex, owner TribeID) string {
	best, bestDist := "", maxTerritoryRadius+1
	for _, id := range gs.SettlementIDs() {
		s := gs.Settlements[id]
		if s.Owner != owner {
			continue
		}
		if d := Distance(h, s.Position); d < bestDist {
			best, bestDist = id, d
		}
	}
	return best
}

// TerritoryOf lists a tribe's owned tiles in row-major order.
func TerritoryOf(gs *GameState, t TribeID) []Hex {
	var out []Hex
	for _, h := range gs.Map.Hexes() {
		if gs.Map.Tiles[h].Owner == t {
			out = append(out, h)
		}
	}
	return out
}

// BorderEdge is one side of an owned tile where ownership changes.
type BorderEdge struct {
	Hex       Hex       `json:"hex"`
	Direction Direction `json:"direction"`
}

// BorderEdges lists the edges of a tribe's territory for border drawing.
func BorderEdges(gs *GameState, t TribeID) []BorderEdge {
	var out []BorderEdge
	for _, h := range TerritoryOf(gs, t) {
		for d, n := range h.Neighbors() {
			nt, ok := gs.Map.Tiles[n]
			if !ok || nt.Owner != t {
				out = append(out, BorderEdge{Hex: h, Direction: Direction(d)})
			}
		}
	}
	return out
}

func unitVision(u Unit) int {
	v := unitDefs[u.Type].Vision
	if td, ok := tribeDefs[u.Owner]; ok {
		v += td.VisionBonus
	}
	return v
}

// visibleSet computes the tiles a tribe currently sees.
func visibleSet(gs *GameState, t TribeID) map[Hex]bool {
	seen := make(map[Hex]bool)
	mark := func(center Hex, r int) {
		for _, h := range Range(center, r) {
			if gs.Map.InBounds(h) {
				seen[h] = true
			}
		}
	}
	for _, u := range gs.Units {
		if u.Owner == t {
			mark(u.Position, unitVision(u))
		}
	}
	for _, s := range gs.Settlements {
		if s.Owner == t {
			mark(s.Position, settlementVision)
		}
	}
	for h, tile := range gs.Map.Tiles {
		if tile.Owner == t {
			seen[h] = true
		}
	}
	return seen
}

func refreshFog(gs *GameState) {
	gs.Fog = make(map[TribeID]map[Hex]bool, len(gs.Players))
	for _, p := range gs.Players {
		if p.Eliminated {
			gs.Fog[p.Tribe] = map[Hex]bool{}
			continue
		}
		gs.Fog[p.Tribe] = visibleSet(gs, p.Tribe)
	}
}

// VisibleTo reports whether a tribe currently sees h.
func VisibleTo(gs *GameState, t TribeID, h Hex) bool {
	return gs.Fog[t][h]
}
