package hexgame

import "slices"

const maxRouteDistance = 12

// TradeEligible reports whether a tribe has unlocked trade.
func TradeEligible(gs *GameState, t TribeID) bool {
	p := gs.Player(t)
	if p == nil {
		return false
	}
	for id := range p.Techs {
		if techDefs[id].EnablesTrade {
			return true
		}
	}
	return false
}

// TradeCapacity is the number of routes a tribe may run at once.
func TradeCapacity(gs *GameState, t TribeID) int {
	p := gs.Player(t)
	if p == nil {
		return 0
	}
	n := 0
	for id := range p.Techs {
		n += techDefs[id].TradeCapacity
	}
	for id := range p.Cultures {
		n += cultureDefs[id].TradeCapacity
	}
	for w, sid := range gs.Wonders {
		if s, ok := gs.Settlements[sid]; ok && s.Owner == t {
			n += wonderDefs[w].TradeCapacity
		}
	}
	return n
}

func routesOwned(gs *GameState, t TribeID) int {
	n := 0
	for _, r := range gs.TradeRoutes {
		if r.Owner == t {
			n++
		}
	}
	return n
}

func hasOutgoingRoute(gs *GameState, origin string) bool {
	return slices.ContainsFunc(gs.TradeRoutes, func(r TradeRoute) bool { return r.Origin == origin })
}

// routeGold computes the per-turn income of a route between two settlements.
func routeGold(gs *GameState, origin, dest Settlement) int {
	dist := Distance(origin.Position, dest.Position)
	gold := 2 + dist/3 + dest.Population/3
	if dest.Owner != origin.Owner {
		gold += 2
	}
	if Allied(gs, origin.Owner, dest.Owner) {
		gold = gold * 3 / 2
	}
	if td, ok := tribeDefs[origin.Owner]; ok {
		gold += td.GoldPerRoute
	}
	if p := gs.Player(origin.Owner); p != nil {
		gold += policyEffects(p).GoldPerRoute
	}
	return gold
}

// repriceRoutes recomputes every route's income.
func repriceRoutes(gs *GameState) {
	for i := range gs.TradeRoutes {
		r := &gs.TradeRoutes[i]
		o, ok1 := gs.Settlements[r.Origin]
		d, ok2 := gs.Settlements[r.Destination]
		if ok1 && ok2 {
			r.GoldPerTurn = routeGold(gs, o, d)
		}
	}
}

// checkRoute returns a reason and rejection cause for a route, or a nil cause.
func checkRoute(gs *GameState, origin, dest Settlement) (string, error) {
	if origin.ID == dest.ID {
		return "origin and destination are the same", ErrInvalidTarget
	}
	if !TradeEligible(gs, origin.Owner) {
		return "no trade technology", ErrTradeLocked
	}
	if hasOutgoingRoute(gs, origin.ID) {
		return origin.ID + " already has a route", ErrAlreadyDone
	}
	if routesOwned(gs, origin.Owner) >= TradeCapacity(gs, origin.Owner) {
		return "all trade capacity in use", ErrCapacity
	}
	if Distance(origin.Position, dest.Position) > maxRouteDistance {
		return dest.ID + " is too far", ErrOutOfRange
	}
	if AtWar(gs, origin.Owner, dest.Owner) {
		return "at war with " + string(dest.Owner), ErrAtWar
	}
	return "", nil
}

// TradeDestinations lists settlements a new route from origin could reach.
func TradeDestinations(gs *GameState, originID string) []string {
	origin, ok := gs.Settlements[originID]
	if !ok {
		return nil
	}
	var out []string
	for _, id := range gs.SettlementIDs() {
		if _, err := checkRoute(gs, origin, gs.Settlements[id]); err == nil {
			out = append(out, id)
		}
	}
	return out
}

// TradeIncome is the gold a tribe's active routes pay each turn.
func TradeIncome(gs *GameState, t TribeID) int {
	n := 0
	for _, r := range gs.TradeRoutes {
		if r.Owner == t && r.Active {
			n += r.GoldPerTurn
		}
	}
	return n
}

// TradeRoutesOf lists a tribe's routes in creation order.
func TradeRoutesOf(gs *GameState, t TribeID) []TradeRoute {
	var out []TradeRoute
	for _, r := range gs.TradeRoutes {
		if r.Owner == t {
			out = append(out, r)
		}
	}
	return out
}

func validateCreateTradeRoute(gs *GameState, a CreateTradeRoute) error {
	origin, err := ownedSettlement(gs, a.Type(), a.Origin)
	if err != nil {
		return err
	}
	dest, ok := gs.Settlements[a.Destination]
	if !ok {
		return missing(a.Type(), "settlement", a.Destination)
	}
	if msg, cause := checkRoute(gs, origin, dest); cause != nil {
		return reject(a.Type(), cause, "%s", msg)
	}
	return nil
}

func applyCreateTradeRoute(gs *GameState, a CreateTradeRoute) {
	origin := gs.Settlements[a.Origin]
	dest := gs.Settlements[a.Destination]
	gs.TradeRoutes = append(gs.TradeRoutes, TradeRoute{
		ID:               gs.newID("r"),
		Origin:           origin.ID,
		Destination:      dest.ID,
		Owner:            origin.Owner,
		Target:           dest.Owner,
		TurnsUntilActive: 1 + Distance(origin.Position, dest.Position)/4,
		GoldPerTurn:      routeGold(gs, origin, dest),
	})
}

func findRoute(gs *GameState, id string) int {
	return slices.IndexFunc(gs.TradeRoutes, func(r TradeRoute) bool { return r.ID == id })
}

func validateCancelTradeRoute(gs *GameState, a CancelTradeRoute) error {
	i := findRoute(gs, a.RouteID)
	if i < 0 {
		return missing(a.Type(), "trade route", a.RouteID)
	}
	if r := gs.TradeRoutes[i]; r.Owner != gs.CurrentPlayer {
		return reject(a.Type(), ErrNotOwner, "route %s belongs to %s", r.ID, r.Owner)
	}
	return nil
}

func applyCancelTradeRoute(gs *GameState, a CancelTradeRoute) {
	i := findRoute(gs, a.RouteID)
	gs.TradeRoutes = slices.Delete(gs.TradeRoutes, i, i+1)
}

// tickRoutes advances formation of a tribe's inactive routes.
func tickRoutes(gs *GameState, t TribeID) {
	for i := range gs.TradeRoutes {
		r := &gs.TradeRoutes[i]
		if r.Owner != t || r.Active {
			continue
		}
		r.TurnsUntilActive--
		if r.TurnsUntilActive <= 0 {
			r.TurnsUntilActive = 0
			r.Active = true
		}
	}
}
