package hexgame

import (
	"container/heap"
	"slices"
)

// occupancy indexes what stands on each tile.
type occupancy struct {
	units       map[Hex]Unit
	settlements map[Hex]Settlement
	camps       map[Hex]bool // uncleared camps
}

func indexOccupancy(gs *GameState) occupancy {
	occ := occupancy{
		units:       make(map[Hex]Unit, len(gs.Units)),
		settlements: make(map[Hex]Settlement, len(gs.Settlements)),
		camps:       make(map[Hex]bool, len(gs.BarbarianCamps)),
	}
	for _, u := range gs.Units {
		occ.units[u.Position] = u
	}
	for _, s := range gs.Settlements {
		occ.settlements[s.Position] = s
	}
	for _, c := range gs.BarbarianCamps {
		if !c.Cleared {
			occ.camps[c.Position] = true
		}
	}
	return occ
}

// maxMovement is a unit's per-turn movement including promotions.
func maxMovement(u Unit) int {
	m := unitDefs[u.Type].Movement
	for _, p := range u.Promotions {
		m += promotionDefs[p].Movement
	}
	return m
}

// canEnter reports whether u may step onto h at all, ignoring cost.
func canEnter(gs *GameState, occ occupancy, u Unit, h Hex) bool {
	t, ok := gs.Map.Tiles[h]
	if !ok || !t.Passable() {
		return false
	}
	if other, ok := occ.units[h]; ok && other.Owner != u.Owner {
		return false
	}
	if s, ok := occ.settlements[h]; ok && s.Owner != u.Owner {
		return false
	}
	if occ.camps[h] && !unitDefs[u.Type].IsCombat() {
		return false
	}
	return true
}

type reachItem struct {
	hex       Hex
	remaining int
}

type reachQueue []reachItem

func (q reachQueue) Len() int { return len(q) }
func (q reachQueue) Less(i, j int) bool {
	if q[i].remaining != q[j].remaining {
		return q[i].remaining > q[j].remaining
	}
	return hexLess(q[i].hex, q[j].hex)
}
func (q reachQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *reachQueue) Push(x any)   { *q = append(*q, x.(reachItem)) }
func (q *reachQueue) Pop() any {
	old := *q
	it := old[len(old)-1]
	*q = old[:len(old)-1]
	return it
}

// searchReach runs a Dijkstra search that maximizes remaining movement.
// The result includes tiles the unit can only pass through.
func searchReach(gs *GameState, occ occupancy, u Unit) map[Hex]int {
	best := map[Hex]int{u.Position: u.MovementRemaining}
	q := &reachQueue{{hex: u.Position, remaining: u.MovementRemaining}}
	for q.Len() > 0 {
		cur := heap.Pop(q).(reachItem)
		if cur.remaining < best[cur.hex] || cur.remaining <= 0 {
			continue
		}
		for _, n := range gs.Map.InBoundsNeighbors(cur.hex) {
			if !canEnter(gs, occ, u, n) {
				continue
			}
			cost := terrainDefs[gs.Map.Tiles[n].Terrain].MoveCost
			nr := max(0, cur.remaining-cost)
			if prev, seen := best[n]; seen && prev >= nr {
				continue
			}
			best[n] = nr
			heap.Push(q, reachItem{hex: n, remaining: nr})
		}
	}
	return best
}

// ReachableCosts maps every tile the unit can end its move on to the movement
// it would have left there. The unit's own tile is always included.
func ReachableCosts(gs *GameState, unitID string) map[Hex]int {
	u, ok := gs.Units[unitID]
	if !ok {
		return nil
	}
	occ := indexOccupancy(gs)
	all := searchReach(gs, occ, u)
	for h := range all {
		if h == u.Position {
			continue
		}
		if _, taken := occ.units[h]; taken {
			delete(all, h)
		}
	}
	return all
}

// ReachableHexes lists the tiles from ReachableCosts in row-major order.
func ReachableHexes(gs *GameState, unitID string) []Hex {
	costs := ReachableCosts(gs, unitID)
	out := make([]Hex, 0, len(costs))
	for h := range costs {
		out = append(out, h)
	}
	slices.SortFunc(out, compareHex)
	return out
}

// attackRange is 1 for melee units and Range for ranged ones.
func attackRange(u Unit) int {
	def := unitDefs[u.Type]
	if def.IsRanged() {
		return def.Range
	}
	return 1
}

// ValidTargets lists units of other owners the unit could attack from where
// it stands. War status is not considered.
func ValidTargets(gs *GameState, unitID string) []string {
	u, ok := gs.Units[unitID]
	if !ok || !unitDefs[u.Type].IsCombat() {
		return nil
	}
	r := attackRange(u)
	var out []string
	for _, id := range gs.UnitIDs() {
		t := gs.Units[id]
		if t.Owner != u.Owner && Distance(u.Position, t.Position) <= r {
			out = append(out, id)
		}
	}
	return out
}

// ValidSettlementTargets lists foreign, ungarrisoned settlements in range.
func ValidSettlementTargets(gs *GameState, unitID string) []string {
	u, ok := gs.Units[unitID]
	if !ok || !unitDefs[u.Type].IsCombat() {
		return nil
	}
	occ := indexOccupancy(gs)
	r := attackRange(u)
	var out []string
	for _, id := range gs.SettlementIDs() {
		s := gs.Settlements[id]
		if s.Owner == u.Owner || Distance(u.Position, s.Position) > r {
			continue
		}
		if _, garrisoned := occ.units[s.Position]; garrisoned {
			continue
		}
		out = append(out, id)
	}
	return out
}

func validateMove(gs *GameState, a MoveUnit) error {
	u, ok := gs.Units[a.UnitID]
	if !ok {
		return missing(a.Type(), "unit", a.UnitID)
	}
	if u.Owner != gs.CurrentPlayer {
		return reject(a.Type(), ErrNotOwner, "unit %s belongs to %s", u.ID, u.Owner)
	}
	if !gs.Map.InBounds(a.To) {
		return reject(a.Type(), ErrUnreachable, "%s is off the map", a.To)
	}
	if a.To == u.Position {
		return reject(a.Type(), ErrUnreachable, "unit is already at %s", a.To)
	}
	if u.MovementRemaining <= 0 {
		return reject(a.Type(), ErrInsufficientMovement, "unit %s has no movement left", u.ID)
	}
	if _, ok := ReachableCosts(gs, u.ID)[a.To]; !ok {
		return reject(a.Type(), ErrUnreachable, "%s cannot reach %s this turn", u.ID, a.To)
	}
	return nil
}

func applyMove(gs *GameState, a MoveUnit) {
	u := gs.Units[a.UnitID]
	u.MovementRemaining = ReachableCosts(gs, u.ID)[a.To]
	u.Position = a.To
	u.Moved = true
	u.Fortified = false
	u.Sleeping = false
	gs.Units[u.ID] = u
	claimLootbox(gs, u.ID)
	clearCamp(gs, u.ID)
}

// claimLootbox hands any unclaimed lootbox on the unit's tile to its owner.
func claimLootbox(gs *GameState, unitID string) {
	u := gs.Units[unitID]
	p := gs.Player(u.Owner)
	if p == nil {
		return
	}
	for i := range gs.Lootboxes {
		lb := &gs.Lootboxes[i]
		if lb.Claimed || lb.Position != u.Position {
			continue
		}
		lb.Claimed = true
		switch lb.Reward.Kind {
		case RewardGold:
			p.Treasury += lb.Reward.Amount
		case RewardBuff:
			p.Buffs = append(p.Buffs, Buff{Source: lb.ID, Yield: lb.Reward.Yield, Percent: lb.Reward.Amount, TurnsRemaining: lb.Reward.Turns})
		case RewardHeal:
			u.Health = min(u.MaxHealth, u.Health+lb.Reward.Amount)
		case RewardExperience:
			if unitDefs[u.Type].IsCombat() {
				u.Experience += lb.Reward.Amount
			}
		}
	}
	gs.Units[u.ID] = u
}

// campClearGold is paid to the tribe whose unit clears a camp.
const campClearGold = 40

func clearCamp(gs *GameState, unitID string) {
	u := gs.Units[unitID]
	p := gs.Player(u.Owner)
	if p == nil || !unitDefs[u.Type].IsCombat() {
		return
	}
	for i := range gs.BarbarianCamps {
		c := &gs.BarbarianCamps[i]
		if !c.Cleared && c.Position == u.Position {
			c.Cleared = true
			p.Treasury += campClearGold
		}
	}
}

// freeSpawnHex returns the settlement tile if empty, else the first free
// passable neighbor in Direction order.
func freeSpawnHex(gs *GameState, at Hex) (Hex, bool) {
	occ := indexOccupancy(gs)
	candidates := append([]Hex{at}, gs.Map.InBoundsNeighbors(at)...)
	for _, h := range candidates {
		if !gs.Map.Tiles[h].Passable() {
			continue
		}
		if _, taken := occ.units[h]; taken {
			continue
		}
		if h != at {
			if _, city := occ.settlements[h]; city {
				continue
			}
			if occ.camps[h] {
				continue
			}
		}
		return h, true
	}
	return Hex{}, false
}

// spawnUnit places a new full-health unit for owner at h.
func spawnUnit(gs *GameState, owner TribeID, t UnitType, h Hex, rarity Rarity) Unit {
	def := unitDefs[t]
	u := Unit{
		ID:                gs.newID("u"),
		Type:              t,
		Owner:             owner,
		Position:          h,
		Health:            UnitMaxHealth,
		MaxHealth:         UnitMaxHealth,
		MovementRemaining: def.Movement,
		Rarity:            rarity,
		Charges:           def.Charges,
	}
	gs.Units[u.ID] = u
	return u
}
