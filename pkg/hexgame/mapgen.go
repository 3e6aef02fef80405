package hexgame

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"slices"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// ErrMapTooSmall is returned when a map cannot fit the requested players.
var ErrMapTooSmall = errors.New("map too small")

const (
	minMapWidth   = 10
	minMapHeight  = 8
	seaLevel      = 0.34
	hillLevel     = 0.66
	mountainLevel = 0.76
	resourceOdds  = 12 // percent of eligible tiles
)

// MapLayout is everything GenerateMap places.
type MapLayout struct {
	Map            Map
	StartPositions []Hex
	Lootboxes      []Lootbox
	Camps          []BarbarianCamp
}

// GenerateMap builds terrain from layered simplex noise, then places
// resources, start positions, lootboxes and camps from a seeded generator.
// The same arguments always produce the same layout.
func GenerateMap(seed int64, width, height, playerCount int) (*MapLayout, error) {
	if width < minMapWidth || height < minMapHeight {
		return nil, fmt.Errorf("generate map %dx%d: %w", width, height, ErrMapTooSmall)
	}
	if playerCount < 1 || playerCount > len(tribeDefs) {
		return nil, fmt.Errorf("generate map: player count %d out of range", playerCount)
	}

	elevNoise := opensimplex.NewNormalized(seed)
	moistNoise := opensimplex.NewNormalized(seed + 1)
	riverNoise := opensimplex.NewNormalized(seed + 2)
	rng := rand.New(rand.NewSource(seed))

	m := NewMap(width, height)
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			h := OffsetToAxial(col, row)
			x := float64(col) + 0.5*float64(row&1)
			y := float64(row) * math.Sqrt(3) / 2

			elev := octaveNoise(elevNoise, x, y, 4, 0.11, 0.5)
			moist := octaveNoise(moistNoise, x, y, 3, 0.09, 0.5)

			// Pull the rim down so the map is ringed by water.
			edge := min(col, row, width-1-col, height-1-row)
			elev *= min(1.0, 0.55+0.15*float64(edge))

			lat := math.Abs(float64(row)-float64(height-1)/2) / (float64(height) / 2)
			t := Tile{Terrain: deriveTerrain(elev, moist, lat)}
			if t.Passable() && t.Terrain != Hills && math.Abs(octaveNoise(riverNoise, x, y, 2, 0.14, 0.5)-0.5) < 0.025 {
				t.Feature = River
			}
			m.Tiles[h] = t
		}
	}
	markCoasts(&m)

	hexes := m.Hexes()
	for _, h := range hexes {
		t := m.Tiles[h]
		if t.Terrain == Desert && t.Feature == NoFeature && rng.Intn(6) == 0 {
			t.Feature = Oasis
		}
		if r, ok := pickResource(rng, t.Terrain); ok {
			t.Resource = &TileResource{Type: r, Revealed: resourceDefs[r].RevealTech == ""}
		}
		m.Tiles[h] = t
	}

	starts, err := pickStarts(&m, playerCount)
	if err != nil {
		return nil, fmt.Errorf("generate map: %w", err)
	}
	layout := &MapLayout{Map: m, StartPositions: starts}
	layout.Lootboxes = placeLootboxes(rng, &m, starts, 2*playerCount+2)
	layout.Camps = placeCamps(rng, &m, starts, layout.Lootboxes, max(1, playerCount))
	return layout, nil
}

// octaveNoise layers several noise frequencies into a value in [0,1].
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total, amplitude, maxVal := 0.0, 1.0, 0.0
	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}
	return total / maxVal
}

func deriveTerrain(elev, moist, lat float64) Terrain {
	switch {
	case elev < seaLevel:
		return Ocean
	case elev > mountainLevel:
		return Mountain
	case elev > hillLevel:
		return Hills
	case lat > 0.82:
		return Tundra
	case moist < 0.32 && lat < 0.6:
		return Desert
	case moist > 0.66 && lat < 0.4:
		return Jungle
	case moist > 0.56:
		return Forest
	case moist > 0.44:
		return Grassland
	}
	return Plains
}

// markCoasts turns water next to land into coast. Every other water tile
// stays ocean.
func markCoasts(m *Map) {
	var coast []Hex
	for _, h := range m.Hexes() {
		if m.Tiles[h].Terrain != Ocean {
			continue
		}
		for _, n := range m.InBoundsNeighbors(h) {
			if !terrainDefs[m.Tiles[n].Terrain].Water {
				coast = append(coast, h)
				break
			}
		}
	}
	for _, h := range coast {
		t := m.Tiles[h]
		t.Terrain = Coast
		m.Tiles[h] = t
	}
}

func pickResource(rng *rand.Rand, t Terrain) (ResourceType, bool) {
	var eligible []ResourceType
	for _, r := range resourceOrder {
		if containsTerrain(resourceDefs[r].Terrains, t) {
			eligible = append(eligible, r)
		}
	}
	if len(eligible) == 0 || rng.Intn(100) >= resourceOdds {
		return "", false
	}
	return eligible[rng.Intn(len(eligible))], true
}

// siteScore rates a start position by the yields around it.
func siteScore(m *Map, h Hex) int {
	score := 0
	for _, n := range Range(h, 2) {
		t, ok := m.Tiles[n]
		if !ok {
			continue
		}
		y := terrainDefs[t.Terrain].Yields.Add(featureYields(t.Feature))
		score += y.score()
		if t.Terrain == Mountain {
			score--
		}
	}
	return score
}

func pickStarts(m *Map, n int) ([]Hex, error) {
	type site struct {
		hex   Hex
		score int
	}
	var sites []site
	for _, h := range m.Hexes() {
		t := m.Tiles[h]
		if !t.Passable() || t.Terrain == Desert || t.Terrain == Tundra {
			continue
		}
		free := 0
		for _, nb := range m.InBoundsNeighbors(h) {
			if m.Tiles[nb].Passable() {
				free++
			}
		}
		if free < 3 {
			continue
		}
		sites = append(sites, site{hex: h, score: siteScore(m, h)})
	}
	slices.SortStableFunc(sites, func(a, b site) int { return b.score - a.score })

	for gap := max(6, (m.Width+m.Height)/max(2, n)); gap >= 3; gap-- {
		var starts []Hex
		for _, s := range sites {
			ok := true
			for _, other := range starts {
				if Distance(s.hex, other) < gap {
					ok = false
					break
				}
			}
			if ok {
				starts = append(starts, s.hex)
				if len(starts) == n {
					return starts, nil
				}
			}
		}
	}
	return nil, fmt.Errorf("%w: no room for %d start positions", ErrMapTooSmall, n)
}

func farFrom(h Hex, others []Hex, d int) bool {
	for _, o := range others {
		if Distance(h, o) < d {
			return false
		}
	}
	return true
}

func placeLootboxes(rng *rand.Rand, m *Map, starts []Hex, count int) []Lootbox {
	var candidates []Hex
	for _, h := range m.Hexes() {
		if m.Tiles[h].Passable() && farFrom(h, starts, 3) {
			candidates = append(candidates, h)
		}
	}
	var out []Lootbox
	for len(out) < count && len(candidates) > 0 {
		i := rng.Intn(len(candidates))
		h := candidates[i]
		candidates = slices.Delete(candidates, i, i+1)
		out = append(out, Lootbox{
			ID:       fmt.Sprintf("l%d", len(out)+1),
			Position: h,
			Reward:   rollReward(rng),
		})
	}
	return out
}

func rollReward(rng *rand.Rand) Reward {
	switch rng.Intn(4) {
	case 0:
		return Reward{Kind: RewardGold, Amount: 25 + 10*rng.Intn(4)}
	case 1:
		yields := []YieldType{YieldScience, YieldCulture, YieldProduction, YieldGold}
		return Reward{Kind: RewardBuff, Amount: 20, Yield: yields[rng.Intn(len(yields))], Turns: 5}
	case 2:
		return Reward{Kind: RewardHeal, Amount: 50}
	default:
		return Reward{Kind: RewardExperience, Amount: XPPerPromotion}
	}
}

func placeCamps(rng *rand.Rand, m *Map, starts []Hex, loot []Lootbox, count int) []BarbarianCamp {
	var taken []Hex
	for _, lb := range loot {
		taken = append(taken, lb.Position)
	}
	var candidates []Hex
	for _, h := range m.Hexes() {
		if m.Tiles[h].Passable() && farFrom(h, starts, 5) && farFrom(h, taken, 1) {
			candidates = append(candidates, h)
		}
	}
	var out []BarbarianCamp
	for len(out) < count && len(candidates) > 0 {
		i := rng.Intn(len(candidates))
		h := candidates[i]
		candidates = slices.Delete(candidates, i, i+1)
		if !farFrom(h, taken, 3) {
			continue
		}
		taken = append(taken, h)
		out = append(out, BarbarianCamp{ID: fmt.Sprintf("c%d", len(out)+1), Position: h})
	}
	return out
}
