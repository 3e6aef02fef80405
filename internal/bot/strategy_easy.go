package bot

import (
	"slices"

	"github.com/freeeve/hexfrontier/pkg/hexgame"
)

// profile tunes the shared heuristic planner.
type profile struct {
	maxSettlements  int
	settlerMinPop   int // population required before a settlement trains settlers
	militaryPerCity int
	exploreChance   float64 // chance an idle soldier wanders instead of guarding
	acceptAlliance  bool
	warRatio        int // declare war when our strength is this percent of the target's; 0 never
	warAfterTurn    int
}

var easyProfile = profile{
	maxSettlements:  3,
	settlerMinPop:   2,
	militaryPerCity: 1,
	exploreChance:   0.3,
	acceptAlliance:  true,
}

// HeuristicStrategy expands steadily, defends what it has, and only fights
// wars others start.
type HeuristicStrategy struct{}

func (HeuristicStrategy) Name() string { return "easy" }

func (HeuristicStrategy) GenerateActions(gs *hexgame.GameState, tribe hexgame.TribeID) []hexgame.Action {
	if !ownTurn(gs, tribe) {
		return []hexgame.Action{hexgame.EndTurn{}}
	}
	return planTurn(newPlan(gs, tribe), easyProfile)
}

// planTurn is the decision order shared by the heuristic strategies:
// diplomacy, empire choices, units, then production and trade.
func planTurn(p *plan, prof profile) []hexgame.Action {
	respondToProposals(p, prof)
	if prof.warRatio > 0 {
		considerWar(p, prof)
	}
	chooseResearch(p)
	chooseCulture(p)
	choosePolicies(p)
	chooseMilestones(p)

	for _, u := range p.gs.UnitsOf(p.tribe) {
		choosePromotion(p, u.ID)
		def, _ := hexgame.UnitInfo(u.Type)
		switch {
		case u.Type == hexgame.Settler:
			moveSettler(p, u.ID)
		case u.Type == hexgame.Builder:
			moveBuilder(p, u.ID)
		case def.IsCombat():
			moveSoldier(p, u.ID, prof)
		}
	}

	chooseProduction(p, prof)
	chooseTradeRoutes(p)
	return p.finish()
}

func respondToProposals(p *plan, prof profile) {
	for _, pr := range slices.Clone(p.gs.PendingPeaceProposals) {
		if pr.Target == p.tribe {
			p.try(hexgame.RespondPeaceProposal{Target: pr.Proposer, Accept: true})
		}
	}
	for _, pr := range slices.Clone(p.gs.PendingAllianceProposals) {
		if pr.Target == p.tribe {
			p.try(hexgame.RespondAllianceProposal{Target: pr.Proposer, Accept: prof.acceptAlliance})
		}
	}
	// Sue for peace after a long war that is not going our way.
	me := militaryStrength(p.gs, p.tribe)
	for _, pl := range p.gs.Players {
		t := pl.Tribe
		if t == p.tribe || pl.Eliminated || !hexgame.AtWar(p.gs, p.tribe, t) {
			continue
		}
		if rel, ok := p.gs.Relations[hexgame.PairOf(p.tribe, t)]; ok && p.gs.Turn-rel.Since >= 10 && me <= militaryStrength(p.gs, t) {
			p.try(hexgame.ProposePeace{Target: t})
		}
	}
}

// chooseResearch picks the quickest available tech, breaking ties by the
// fixed tech order.
func chooseResearch(p *plan) {
	if p.gs.Player(p.tribe).CurrentResearch != "" {
		return
	}
	best, bestTurns := hexgame.TechID(""), 0
	for _, t := range hexgame.AvailableTechs(p.gs, p.tribe) {
		turns := hexgame.TurnsToResearch(p.gs, p.tribe, t)
		if turns < 0 {
			turns = 1 << 20
		}
		if best == "" || turns < bestTurns {
			best, bestTurns = t, turns
		}
	}
	if best != "" {
		p.try(hexgame.StartResearch{Tech: best})
	}
}

func chooseCulture(p *plan) {
	if p.gs.Player(p.tribe).CurrentCulture != "" {
		return
	}
	best, bestTurns := hexgame.CultureID(""), 0
	for _, c := range hexgame.AvailableCultures(p.gs, p.tribe) {
		turns := hexgame.TurnsToCulture(p.gs, p.tribe, c)
		if turns < 0 {
			turns = 1 << 20
		}
		if best == "" || turns < bestTurns {
			best, bestTurns = c, turns
		}
	}
	if best != "" {
		p.try(hexgame.StartCulture{Culture: best})
	}
}

// choosePolicies fills free slots in unlock order.
func choosePolicies(p *plan) {
	for _, id := range hexgame.UnlockedPolicies(p.gs.Player(p.tribe)) {
		p.try(hexgame.SelectPolicy{Policy: id})
	}
}

// chooseMilestones takes the growth option while small and the economy
// option once a settlement is established.
func chooseMilestones(p *plan) {
	for _, s := range p.gs.SettlementsOf(p.tribe) {
		for _, level := range hexgame.PendingMilestones(p.gs, s.ID) {
			choice := hexgame.ChoiceA
			if level == 1 && s.Population < 4 {
				choice = hexgame.ChoiceB
			}
			p.try(hexgame.SelectMilestone{SettlementID: s.ID, Level: level, Choice: choice})
		}
	}
}

func choosePromotion(p *plan, id string) {
	for _, promo := range hexgame.AvailablePromotions(p.gs, id) {
		if p.try(hexgame.SelectPromotion{UnitID: id, Promotion: promo}) {
			return
		}
	}
}

// siteValue scores a prospective settlement center by its surroundings.
func siteValue(gs *hexgame.GameState, h hexgame.Hex) int {
	v := 0
	for _, n := range hexgame.Range(h, 1) {
		t, ok := gs.Map.Tiles[n]
		if !ok {
			continue
		}
		y := hexgame.TerrainInfo(t.Terrain).Yields
		v += 3*y.Food + 2*y.Production + y.Gold
		if t.Resource != nil {
			v += 2
		}
		if t.Feature != hexgame.NoFeature {
			v++
		}
	}
	return v
}

func moveSettler(p *plan, id string) {
	u, ok := p.unit(id)
	if !ok {
		return
	}
	here := hexgame.CanFoundAt(p.gs, p.tribe, u.Position)
	if here && len(p.gs.SettlementsOf(p.tribe)) == 0 {
		p.try(hexgame.FoundSettlement{UnitID: id})
		return
	}

	best, bestScore := u.Position, -1
	if here {
		bestScore = siteValue(p.gs, u.Position) + 2
	}
	for _, h := range hexgame.ReachableHexes(p.gs, id) {
		if h == u.Position || !hexgame.CanFoundAt(p.gs, p.tribe, h) {
			continue
		}
		if score := siteValue(p.gs, h); score > bestScore {
			best, bestScore = h, score
		}
	}
	switch {
	case best == u.Position && here:
		p.try(hexgame.FoundSettlement{UnitID: id})
	case best != u.Position:
		p.try(hexgame.MoveUnit{UnitID: id, To: best})
	default:
		wander(p, id)
	}
}

var improvementOrder = []hexgame.Improvement{
	hexgame.Farm, hexgame.Mine, hexgame.Pasture, hexgame.Quarry, hexgame.FishingBoats,
}

func moveBuilder(p *plan, id string) {
	u, ok := p.unit(id)
	if !ok {
		return
	}
	if !u.HasActed {
		for _, imp := range improvementOrder {
			if p.try(hexgame.BuildImprovement{UnitID: id, Improvement: imp}) {
				return
			}
		}
	}
	// Head for the nearest owned tile still lacking an improvement.
	reach := hexgame.ReachableCosts(p.gs, id)
	var best hexgame.Hex
	found := false
	for _, h := range hexgame.TerritoryOf(p.gs, p.tribe) {
		if _, ok := reach[h]; !ok || h == u.Position {
			continue
		}
		if t := p.gs.Map.Tiles[h]; t.Improvement != hexgame.NoImprovement || !t.Passable() {
			continue
		}
		if !found || hexgame.Distance(u.Position, h) < hexgame.Distance(u.Position, best) {
			best, found = h, true
		}
	}
	if found {
		p.try(hexgame.MoveUnit{UnitID: id, To: best})
	}
}

func moveSoldier(p *plan, id string, prof profile) {
	if attackBest(p, id) {
		return
	}
	u, ok := p.unit(id)
	if !ok || u.HasActed || u.MovementRemaining == 0 {
		return
	}
	if s, home := p.gs.SettlementAt(u.Position); home && s.Owner == p.tribe {
		if !u.Fortified {
			p.try(hexgame.FortifyUnit{UnitID: id})
		}
		return
	}
	if target, ok := nearestEnemy(p, u); ok && hexgame.Distance(u.Position, target) <= 8 {
		approach(p, id, target)
		return
	}
	if h, ok := emptySettlement(p, id); ok {
		p.try(hexgame.MoveUnit{UnitID: id, To: h})
		return
	}
	if h, ok := reachableLootbox(p, id); ok {
		p.try(hexgame.MoveUnit{UnitID: id, To: h})
		return
	}
	if u.Type == hexgame.Scout || p.rng.Float64() < prof.exploreChance {
		explore(p, id)
	}
}

// attackBest resolves the most favourable attack available to the unit.
func attackBest(p *plan, id string) bool {
	u, ok := p.unit(id)
	if !ok || u.HasActed {
		return false
	}
	var best hexgame.Action
	bestScore := 0
	for _, t := range hexgame.ValidTargets(p.gs, id) {
		def := p.gs.Units[t]
		if !hexgame.AtWar(p.gs, p.tribe, def.Owner) {
			continue
		}
		pv, ok := hexgame.PreviewCombat(p.gs, id, t)
		if !ok || pv.AttackerDestroyed {
			continue
		}
		score := pv.DamageToDefender - pv.DamageToAttacker
		if pv.DefenderDestroyed {
			score += 100
		}
		if score > bestScore || (best == nil && pv.DefenderDestroyed) {
			best, bestScore = hexgame.Attack{UnitID: id, TargetUnitID: t}, score
		}
	}
	for _, sid := range hexgame.ValidSettlementTargets(p.gs, id) {
		s := p.gs.Settlements[sid]
		if !hexgame.AtWar(p.gs, p.tribe, s.Owner) {
			continue
		}
		pv, ok := hexgame.PreviewSettlementCombat(p.gs, id, sid)
		if !ok || pv.AttackerDestroyed {
			continue
		}
		score := pv.DamageToDefender - pv.DamageToAttacker/2 + 10
		if pv.Captures {
			score += 200
		}
		if score > bestScore {
			best, bestScore = hexgame.AttackSettlement{UnitID: id, SettlementID: sid}, score
		}
	}
	return best != nil && p.try(best)
}

// nearestEnemy finds the closest hostile unit or settlement position.
func nearestEnemy(p *plan, u hexgame.Unit) (hexgame.Hex, bool) {
	var best hexgame.Hex
	bestDist := -1
	consider := func(owner hexgame.TribeID, h hexgame.Hex) {
		if owner == p.tribe || !hexgame.AtWar(p.gs, p.tribe, owner) {
			return
		}
		if d := hexgame.Distance(u.Position, h); bestDist < 0 || d < bestDist {
			best, bestDist = h, d
		}
	}
	for _, id := range p.gs.SettlementIDs() {
		s := p.gs.Settlements[id]
		consider(s.Owner, s.Position)
	}
	for _, id := range p.gs.UnitIDs() {
		o := p.gs.Units[id]
		consider(o.Owner, o.Position)
	}
	return best, bestDist >= 0
}

// approach moves the unit to the reachable tile closest to target.
func approach(p *plan, id string, target hexgame.Hex) bool {
	u, ok := p.unit(id)
	if !ok {
		return false
	}
	best, bestDist := u.Position, hexgame.Distance(u.Position, target)
	for _, h := range hexgame.ReachableHexes(p.gs, id) {
		if d := hexgame.Distance(h, target); d < bestDist {
			best, bestDist = h, d
		}
	}
	if best == u.Position {
		return false
	}
	if p.try(hexgame.MoveUnit{UnitID: id, To: best}) {
		attackBest(p, id)
		return true
	}
	return false
}

// emptySettlement returns an own ungarrisoned settlement the unit can reach.
func emptySettlement(p *plan, id string) (hexgame.Hex, bool) {
	reach := hexgame.ReachableCosts(p.gs, id)
	for _, s := range p.gs.SettlementsOf(p.tribe) {
		if _, taken := p.gs.UnitAt(s.Position); taken {
			continue
		}
		if _, ok := reach[s.Position]; ok {
			return s.Position, true
		}
	}
	return hexgame.Hex{}, false
}

func reachableLootbox(p *plan, id string) (hexgame.Hex, bool) {
	reach := hexgame.ReachableCosts(p.gs, id)
	for _, lb := range p.gs.Lootboxes {
		if lb.Claimed {
			continue
		}
		if _, ok := reach[lb.Position]; ok {
			return lb.Position, true
		}
	}
	return hexgame.Hex{}, false
}

// explore moves toward the reachable tile farthest from home, preferring
// tiles the tribe cannot currently see around.
func explore(p *plan, id string) {
	u, ok := p.unit(id)
	if !ok {
		return
	}
	home := u.Position
	if s := p.gs.SettlementsOf(p.tribe); len(s) > 0 {
		home = s[0].Position
	}
	hexes := shuffled(p.rng, hexgame.ReachableHexes(p.gs, id))
	best, bestScore := u.Position, -1
	for _, h := range hexes {
		score := hexgame.Distance(home, h) * 2
		for _, n := range hexgame.Ring(h, 2) {
			if p.gs.Map.InBounds(n) && !hexgame.VisibleTo(p.gs, p.tribe, n) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = h, score
		}
	}
	if best != u.Position {
		p.try(hexgame.MoveUnit{UnitID: id, To: best})
	}
}

func wander(p *plan, id string) {
	u, ok := p.unit(id)
	if !ok {
		return
	}
	hexes := hexgame.ReachableHexes(p.gs, id)
	for _, i := range p.rng.Perm(len(hexes)) {
		if hexes[i] != u.Position && p.try(hexgame.MoveUnit{UnitID: id, To: hexes[i]}) {
			return
		}
	}
}

// chooseProduction fills empty queues: settlers while expanding, a builder
// per empire, soldiers up to the garrison target, then the cheapest building.
func chooseProduction(p *plan, prof profile) {
	settlements := p.gs.SettlementsOf(p.tribe)
	counts := make(map[hexgame.UnitType]int)
	military := 0
	for _, u := range p.gs.UnitsOf(p.tribe) {
		counts[u.Type]++
		if def, _ := hexgame.UnitInfo(u.Type); def.IsCombat() && u.Type != hexgame.Scout {
			military++
		}
	}
	for _, s := range settlements {
		for _, it := range s.Queue {
			if it.Kind == hexgame.ProduceUnit {
				counts[hexgame.UnitType(it.ID)]++
			}
		}
	}
	wantMilitary := prof.militaryPerCity * len(settlements)
	if atWarWithAnyone(p.gs, p.tribe) {
		wantMilitary += len(settlements)
	}

	for _, s := range settlements {
		if len(s.Queue) > 0 {
			continue
		}
		opts := hexgame.ProductionOptions(p.gs, s.ID)
		pick := func(kind hexgame.ProductionKind, id string) bool {
			for _, o := range opts {
				if o.Kind == kind && o.ID == id {
					return p.try(hexgame.StartProduction{SettlementID: s.ID, Kind: kind, ItemID: id})
				}
			}
			return false
		}
		switch {
		case military < wantMilitary && pickSoldier(p, s.ID, opts):
			military++
		case len(settlements)+counts[hexgame.Settler] < prof.maxSettlements && s.Population >= prof.settlerMinPop && pick(hexgame.ProduceUnit, string(hexgame.Settler)):
			counts[hexgame.Settler]++
		case counts[hexgame.Builder] == 0 && pick(hexgame.ProduceUnit, string(hexgame.Builder)):
			counts[hexgame.Builder]++
		default:
			if !pickCheapest(p, s.ID, opts, hexgame.ProduceBuilding) && !pickCheapest(p, s.ID, opts, hexgame.ProduceWonder) {
				pickSoldier(p, s.ID, opts)
			}
		}
	}
}

// pickSoldier queues the strongest combat unit the settlement can build.
func pickSoldier(p *plan, sid string, opts []hexgame.ProductionOption) bool {
	var best hexgame.UnitType
	bestStrength := 0
	for _, o := range opts {
		if o.Kind != hexgame.ProduceUnit {
			continue
		}
		def, _ := hexgame.UnitInfo(hexgame.UnitType(o.ID))
		if !def.IsCombat() || def.Class == hexgame.ClassRecon {
			continue
		}
		if s := max(def.Strength, def.RangedStrength); s > bestStrength {
			best, bestStrength = hexgame.UnitType(o.ID), s
		}
	}
	return best != "" && p.try(hexgame.StartProduction{SettlementID: sid, Kind: hexgame.ProduceUnit, ItemID: string(best)})
}

func pickCheapest(p *plan, sid string, opts []hexgame.ProductionOption, kind hexgame.ProductionKind) bool {
	var best *hexgame.ProductionOption
	for i := range opts {
		if opts[i].Kind == kind && (best == nil || opts[i].Cost < best.Cost) {
			best = &opts[i]
		}
	}
	return best != nil && p.try(hexgame.StartProduction{SettlementID: sid, Kind: kind, ItemID: best.ID})
}

// chooseTradeRoutes opens routes from idle origins to the best-paying
// destination while capacity remains.
func chooseTradeRoutes(p *plan) {
	if !hexgame.TradeEligible(p.gs, p.tribe) {
		return
	}
	for _, s := range p.gs.SettlementsOf(p.tribe) {
		if len(hexgame.TradeRoutesOf(p.gs, p.tribe)) >= hexgame.TradeCapacity(p.gs, p.tribe) {
			return
		}
		dests := hexgame.TradeDestinations(p.gs, s.ID)
		for _, d := range dests {
			if p.try(hexgame.CreateTradeRoute{Origin: s.ID, Destination: d}) {
				break
			}
		}
	}
}

func atWarWithAnyone(gs *hexgame.GameState, tribe hexgame.TribeID) bool {
	for _, pl := range gs.Players {
		if pl.Tribe != tribe && !pl.Eliminated && hexgame.AtWar(gs, tribe, pl.Tribe) {
			return true
		}
	}
	return false
}

// militaryStrength sums the base strength of a tribe's combat units.
func militaryStrength(gs *hexgame.GameState, tribe hexgame.TribeID) int {
	total := 0
	for _, u := range gs.UnitsOf(tribe) {
		def, _ := hexgame.UnitInfo(u.Type)
		if def.IsCombat() {
			total += max(def.Strength, def.RangedStrength) * u.Health / max(1, u.MaxHealth)
		}
	}
	return total
}
