package hexgame

import "slices"

const (
	healBase        = 10
	healTerritory   = 15
	healSettlement  = 20
	settlementHeal  = 10
	campSpawnPeriod = 8
	campGuardRadius = 2
	barbarianSight  = 4
)

// applyEndTurn runs the acting player's housekeeping and passes control on.
func applyEndTurn(gs *GameState) {
	p := gs.Current()

	for _, id := range gs.SettlementIDs() {
		if gs.Settlements[id].Owner != p.Tribe {
			continue
		}
		y := SettlementYields(gs, id)
		growSettlement(gs, id, y.Food)
		tickProduction(gs, id, y.Production)
	}

	p.Treasury = max(0, p.Treasury+p.Yields.Gold+TradeIncome(gs, p.Tribe))

	tickResearch(gs, p)
	tickCulture(p)
	tickTimers(p)
	tickRoutes(gs, p.Tribe)
	restUnits(gs, p.Tribe)

	advancePlayer(gs)
}

// growSettlement banks the food surplus, adjusts population, queues any
// milestones crossed, and extends territory.
func growSettlement(gs *GameState, id string, food int) {
	s := gs.Settlements[id]
	oldPop := s.Population
	s.FoodStored += food - foodPerPop*s.Population
	switch {
	case s.FoodStored >= growthThreshold(s.Population):
		s.FoodStored -= growthThreshold(s.Population)
		s.Population++
	case s.FoodStored < 0:
		if s.Population > 1 {
			s.Population--
		}
		s.FoodStored = 0
	}
	for _, level := range crossedMilestones(oldPop, s.Population) {
		if _, chosen := s.MilestoneChoices[level]; chosen || slices.Contains(s.PendingMilestones, level) {
			continue
		}
		s.PendingMilestones = append(s.PendingMilestones, level)
	}
	s.Level = milestoneLevel(s.Population)
	gs.Settlements[id] = s
	if s.Population != oldPop {
		claimTerritory(gs, s)
	}
}

// restUnits heals idle units and restores movement for a tribe.
func restUnits(gs *GameState, t TribeID) {
	for _, id := range gs.UnitIDs() {
		u := gs.Units[id]
		if u.Owner != t {
			continue
		}
		if !u.Moved && !u.HasActed && u.Health < u.MaxHealth {
			u.Health = min(u.MaxHealth, u.Health+healAmount(gs, u))
		}
		u.MovementRemaining = maxMovement(u)
		if u.Fortified {
			u.MovementRemaining = 0
		}
		u.HasActed = false
		u.Moved = false
		gs.Units[id] = u
	}
	for _, id := range gs.SettlementIDs() {
		s := gs.Settlements[id]
		if s.Owner == t && s.Health < s.MaxHealth {
			s.Health = min(s.MaxHealth, s.Health+settlementHeal)
			gs.Settlements[id] = s
		}
	}
}

func healAmount(gs *GameState, u Unit) int {
	amount := healBase
	if s, ok := gs.SettlementAt(u.Position); ok && s.Owner == u.Owner {
		amount = healSettlement
	} else if gs.Map.Tiles[u.Position].Owner == u.Owner {
		amount = healTerritory
	}
	for _, p := range u.Promotions {
		amount += promotionDefs[p].Heal
	}
	return amount
}

// advancePlayer moves to the next living player, running the world step on
// wrap-around and ending the game past MaxTurns.
func advancePlayer(gs *GameState) {
	markEliminated(gs)
	cur := slices.IndexFunc(gs.Players, func(p Player) bool { return p.Tribe == gs.CurrentPlayer })
	n := len(gs.Players)
	advanced := false
	for step := 1; step <= n; step++ {
		if cur+step >= n && !advanced {
			advanced = true
			gs.Turn++
			worldStep(gs)
			markEliminated(gs)
			if gs.Turn > gs.MaxTurns {
				finishByScore(gs)
				return
			}
		}
		idx := (cur + step) % n
		if !gs.Players[idx].Eliminated {
			gs.CurrentPlayer = gs.Players[idx].Tribe
			return
		}
	}
	gs.Finished = true
}

func markEliminated(gs *GameState) {
	for i := range gs.Players {
		p := &gs.Players[i]
		if !p.Eliminated && !gs.Alive(p.Tribe) {
			p.Eliminated = true
			p.CurrentResearch = ""
			p.CurrentCulture = ""
			gs.PendingPeaceProposals = slices.DeleteFunc(gs.PendingPeaceProposals, func(pr Proposal) bool {
				return pr.Proposer == p.Tribe || pr.Target == p.Tribe
			})
			gs.PendingAllianceProposals = slices.DeleteFunc(gs.PendingAllianceProposals, func(pr Proposal) bool {
				return pr.Proposer == p.Tribe || pr.Target == p.Tribe
			})
		}
	}
}

// finishByScore ends the game in favor of the highest floor price. Ties go
// to the earlier player in rotation.
func finishByScore(gs *GameState) {
	gs.Finished = true
	best, bestScore := NoTribe, -1
	for _, p := range gs.Players {
		if p.Eliminated {
			continue
		}
		if score := FloorPriceBreakdown(gs, p.Tribe).Total; score > bestScore {
			best, bestScore = p.Tribe, score
		}
	}
	gs.Winner = best
}

// checkLastStanding ends the game when a single player survives.
func checkLastStanding(gs *GameState) {
	if gs.Finished || len(gs.Players) < 2 {
		return
	}
	var alive []TribeID
	for _, p := range gs.Players {
		if !p.Eliminated {
			alive = append(alive, p.Tribe)
		}
	}
	switch len(alive) {
	case 0:
		gs.Finished = true
	case 1:
		gs.Finished = true
		gs.Winner = alive[0]
	}
}

// worldStep runs the barbarian phase once per full rotation.
func worldStep(gs *GameState) {
	for _, id := range gs.UnitIDs() {
		if u, ok := gs.Units[id]; ok && u.Owner == Barbarian {
			barbarianAct(gs, id)
		}
	}
	spawnFromCamps(gs)
	restUnits(gs, Barbarian)
}

func barbarianAct(gs *GameState, id string) {
	u := gs.Units[id]
	var target *Unit
	bestDist := barbarianSight + 1
	for _, oid := range gs.UnitIDs() {
		o := gs.Units[oid]
		if o.Owner == Barbarian {
			continue
		}
		if d := Distance(u.Position, o.Position); d < bestDist {
			bestDist = d
			target = &o
		}
	}
	if target == nil {
		return
	}
	if bestDist <= attackRange(u) {
		applyAttack(gs, Attack{UnitID: id, TargetUnitID: target.ID})
		return
	}
	costs := ReachableCosts(gs, id)
	dest, destDist := u.Position, bestDist
	for _, h := range sortedHexKeys(costs) {
		if d := Distance(h, target.Position); d < destDist {
			dest, destDist = h, d
		}
	}
	if dest == u.Position {
		return
	}
	applyMove(gs, MoveUnit{UnitID: id, To: dest})
	if u, ok := gs.Units[id]; ok && Distance(u.Position, target.Position) <= attackRange(u) {
		if _, alive := gs.Units[target.ID]; alive {
			applyAttack(gs, Attack{UnitID: id, TargetUnitID: target.ID})
		}
	}
}

func spawnFromCamps(gs *GameState) {
	for i := range gs.BarbarianCamps {
		c := &gs.BarbarianCamps[i]
		if c.Cleared || gs.Turn-c.LastSpawn < campSpawnPeriod {
			continue
		}
		guarded := false
		for _, u := range gs.Units {
			if u.Owner == Barbarian && Distance(u.Position, c.Position) <= campGuardRadius {
				guarded = true
				break
			}
		}
		if guarded {
			continue
		}
		if _, taken := gs.UnitAt(c.Position); taken {
			continue
		}
		spawnUnit(gs, Barbarian, Warrior, c.Position, Common)
		c.LastSpawn = gs.Turn
	}
}

func sortedHexKeys[V any](m map[Hex]V) []Hex {
	out := make([]Hex, 0, len(m))
	for h := range m {
		out = append(out, h)
	}
	slices.SortFunc(out, compareHex)
	return out
}
