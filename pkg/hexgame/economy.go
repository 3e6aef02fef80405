package hexgame

import "slices"

const (
	goldenAgePercent = 20
	foodPerPop       = 2
	freeUnits        = 3
)

func growthThreshold(pop int) int {
	return 15 + 6*pop
}

func resourceKnown(p *Player, r ResourceType) bool {
	def, ok := resourceDefs[r]
	if !ok {
		return false
	}
	return def.RevealTech == "" || (p != nil && p.Techs[def.RevealTech])
}

// tileYield is what a tile produces when worked by owner.
func tileYield(gs *GameState, owner TribeID, h Hex) Yields {
	t := gs.Map.Tiles[h]
	y := terrainDefs[t.Terrain].Yields.Add(featureYields(t.Feature))
	if t.Resource != nil && resourceKnown(gs.Player(owner), t.Resource.Type) {
		rd := resourceDefs[t.Resource.Type]
		y = y.Add(rd.Yields)
		if t.Resource.Improved {
			y = y.Add(rd.Bonus)
		}
	}
	if t.Improvement != NoImprovement {
		y = y.Add(improvementDefs[t.Improvement].Yields)
	}
	return y
}

// WorkedTiles returns the tiles a settlement works besides its center: the
// best-yielding owned tiles closest to it, one per population.
func WorkedTiles(gs *GameState, id string) []Hex {
	s, ok := gs.Settlements[id]
	if !ok {
		return nil
	}
	occ := indexOccupancy(gs)
	var candidates []Hex
	for _, h := range Range(s.Position, maxTerritoryRadius) {
		t, ok := gs.Map.Tiles[h]
		if !ok || h == s.Position || t.Owner != s.Owner {
			continue
		}
		if _, city := occ.settlements[h]; city {
			continue
		}
		if nearestSettlement(gs, h, s.Owner) != id {
			continue
		}
		candidates = append(candidates, h)
	}
	slices.SortFunc(candidates, func(a, b Hex) int {
		sa, sb := tileYield(gs, s.Owner, a).score(), tileYield(gs, s.Owner, b).score()
		if sa != sb {
			return sb - sa
		}
		return compareHex(a, b)
	})
	if len(candidates) > s.Population {
		candidates = candidates[:s.Population]
	}
	return candidates
}

// percentBonuses gathers a player's per-yield percentage modifiers.
func percentBonuses(p *Player) map[YieldType]int {
	pct := make(map[YieldType]int, 5)
	if p == nil {
		return pct
	}
	pol := policyEffects(p)
	pct[YieldProduction] += pol.ProductionPercent
	pct[YieldScience] += pol.SciencePercent
	pct[YieldCulture] += pol.CulturePercent
	pct[YieldGold] += pol.GoldPercent
	if td, ok := tribeDefs[p.Tribe]; ok {
		pct[YieldScience] += td.SciencePercent
		pct[YieldCulture] += td.CulturePercent
	}
	if p.GoldenAge.Active {
		for _, y := range []YieldType{YieldGold, YieldScience, YieldCulture, YieldProduction} {
			pct[y] += goldenAgePercent
		}
	}
	for _, b := range p.Buffs {
		pct[b.Yield] += b.Percent
	}
	return pct
}

// SettlementYields is the gross per-turn output of a settlement. Food
// consumption is not subtracted.
func SettlementYields(gs *GameState, id string) Yields {
	s, ok := gs.Settlements[id]
	if !ok {
		return Yields{}
	}
	p := gs.Player(s.Owner)

	center := tileYield(gs, s.Owner, s.Position)
	center.Food = max(center.Food, 2)
	center.Production = max(center.Production, 1)
	center.Gold = max(center.Gold, 1)
	y := center
	for _, h := range WorkedTiles(gs, id) {
		y = y.Add(tileYield(gs, s.Owner, h))
	}
	for _, b := range s.Buildings {
		y = y.Add(buildingDefs[b].Yields)
	}
	for _, w := range wonderOrder {
		if gs.Wonders[w] == id {
			y = y.Add(wonderDefs[w].Yields)
		}
	}
	y = y.Add(s.Bonus)
	y.Science += s.Population / 2
	y.Culture++
	if s.IsCapital {
		y = y.Add(Yields{Gold: 2, Science: 2, Culture: 1})
	}
	if td, ok := tribeDefs[s.Owner]; ok {
		y.Production += td.ProductionFlat
	}
	if p != nil {
		pol := policyEffects(p)
		y.Production += pol.ProductionFlat
		y.Food += pol.FoodFlat
	}

	pct := percentBonuses(p)
	for _, t := range []YieldType{YieldFood, YieldProduction, YieldGold, YieldScience, YieldCulture} {
		y = y.With(t, applyPercent(y.Get(t), pct[t]))
	}
	return y
}

// unitUpkeep is the gold cost of units beyond the free allowance.
func unitUpkeep(gs *GameState, t TribeID) int {
	n := 0
	for _, u := range gs.Units {
		if u.Owner == t {
			n++
		}
	}
	return max(0, n-freeUnits)
}

// PlayerYields sums a tribe's settlements and subtracts unit upkeep from
// gold. Trade income is reported separately by TradeIncome.
func PlayerYields(gs *GameState, t TribeID) Yields {
	var y Yields
	for _, id := range gs.SettlementIDs() {
		if gs.Settlements[id].Owner == t {
			y = y.Add(SettlementYields(gs, id))
		}
	}
	y.Gold -= unitUpkeep(gs, t)
	return y
}

func refreshYields(gs *GameState) {
	for i := range gs.Players {
		gs.Players[i].Yields = PlayerYields(gs, gs.Players[i].Tribe)
	}
}
