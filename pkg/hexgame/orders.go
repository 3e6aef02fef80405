package hexgame

func ownedUnit(gs *GameState, at ActionType, id string) (Unit, error) {
	u, ok := gs.Units[id]
	if !ok {
		return Unit{}, missing(at, "unit", id)
	}
	if u.Owner != gs.CurrentPlayer {
		return Unit{}, reject(at, ErrNotOwner, "unit %s belongs to %s", u.ID, u.Owner)
	}
	return u, nil
}

// CanFoundAt reports whether a new settlement may be placed on h.
func CanFoundAt(gs *GameState, owner TribeID, h Hex) bool {
	_, err := checkFoundSite(gs, owner, h)
	return err == nil
}

func checkFoundSite(gs *GameState, owner TribeID, h Hex) (string, error) {
	t, ok := gs.Map.Tiles[h]
	if !ok || !t.Passable() {
		return "tile cannot hold a settlement", ErrInvalidTarget
	}
	if t.Owner != NoTribe && t.Owner != owner {
		return "tile belongs to " + string(t.Owner), ErrNotOwner
	}
	for _, s := range gs.Settlements {
		if Distance(s.Position, h) < minSettlementGap {
			return "too close to " + s.Name, ErrInvalidTarget
		}
	}
	for _, c := range gs.BarbarianCamps {
		if !c.Cleared && c.Position == h {
			return "barbarian camp on tile", ErrInvalidTarget
		}
	}
	return "", nil
}

func validateFoundSettlement(gs *GameState, a FoundSettlement) error {
	u, err := ownedUnit(gs, a.Type(), a.UnitID)
	if err != nil {
		return err
	}
	if u.Type != Settler {
		return reject(a.Type(), ErrUnitCannot, "%s cannot found settlements", u.Type)
	}
	if msg, cause := checkFoundSite(gs, u.Owner, u.Position); cause != nil {
		return reject(a.Type(), cause, "%s", msg)
	}
	return nil
}

func applyFoundSettlement(gs *GameState, a FoundSettlement) {
	u := gs.Units[a.UnitID]
	delete(gs.Units, u.ID)
	p := gs.Player(u.Owner)
	s := Settlement{
		ID:               gs.newID("s"),
		Owner:            u.Owner,
		Position:         u.Position,
		Name:             settlementName(u.Owner, p.SettlementsFounded),
		IsCapital:        !hasCapital(gs, u.Owner),
		Population:       1,
		Level:            1,
		Health:           settlementMaxHealth,
		MaxHealth:        settlementMaxHealth,
		MilestoneChoices: make(map[int]MilestoneChoice),
		Founded:          gs.Turn,
	}
	p.SettlementsFounded++
	gs.Settlements[s.ID] = s
	claimTerritory(gs, s)
}

const settlementMaxHealth = 200

func validateFortify(gs *GameState, a FortifyUnit) error {
	u, err := ownedUnit(gs, a.Type(), a.UnitID)
	if err != nil {
		return err
	}
	if !unitDefs[u.Type].IsCombat() {
		return reject(a.Type(), ErrUnitCannot, "%s cannot fortify", u.Type)
	}
	if u.Fortified {
		return reject(a.Type(), ErrAlreadyDone, "%s is already fortified", u.ID)
	}
	if u.HasActed {
		return reject(a.Type(), ErrAlreadyDone, "%s has already acted", u.ID)
	}
	return nil
}

func applyFortify(gs *GameState, a FortifyUnit) {
	u := gs.Units[a.UnitID]
	u.Fortified = true
	u.Sleeping = false
	u.MovementRemaining = 0
	gs.Units[u.ID] = u
}

func validateSleep(gs *GameState, a SleepUnit) error {
	u, err := ownedUnit(gs, a.Type(), a.UnitID)
	if err != nil {
		return err
	}
	if u.Sleeping == a.Sleep && (a.Sleep || !u.Fortified) {
		return reject(a.Type(), ErrAlreadyDone, "%s sleeping is already %t", u.ID, a.Sleep)
	}
	return nil
}

func applySleep(gs *GameState, a SleepUnit) {
	u := gs.Units[a.UnitID]
	u.Sleeping = a.Sleep
	if !a.Sleep {
		// Waking also breaks fortification; movement returns next turn.
		u.Fortified = false
	}
	gs.Units[u.ID] = u
}

func validateBuildImprovement(gs *GameState, a BuildImprovement) error {
	u, err := ownedUnit(gs, a.Type(), a.UnitID)
	if err != nil {
		return err
	}
	if u.Type != Builder || u.Charges <= 0 {
		return reject(a.Type(), ErrUnitCannot, "%s cannot build", u.ID)
	}
	if u.MovementRemaining <= 0 || u.HasActed {
		return reject(a.Type(), ErrInsufficientMovement, "%s has no moves left", u.ID)
	}
	def, ok := improvementDefs[a.Improvement]
	if !ok {
		return reject(a.Type(), ErrInvalidChoice, "unknown improvement %q", a.Improvement)
	}
	t := gs.Map.Tiles[u.Position]
	if t.Owner != u.Owner {
		return reject(a.Type(), ErrNotOwner, "tile %s is outside own territory", u.Position)
	}
	if _, city := gs.SettlementAt(u.Position); city {
		return reject(a.Type(), ErrInvalidTarget, "cannot improve a settlement tile")
	}
	if t.Improvement == a.Improvement {
		return reject(a.Type(), ErrAlreadyDone, "tile already has %s", a.Improvement)
	}
	if def.RequiredTech != "" && !gs.Current().Techs[def.RequiredTech] {
		return reject(a.Type(), ErrPrerequisite, "%s requires %s", a.Improvement, def.RequiredTech)
	}
	if !canImprove(t, a.Improvement) {
		return reject(a.Type(), ErrInvalidTarget, "%s does not fit %s", a.Improvement, t.Terrain)
	}
	return nil
}

func applyBuildImprovement(gs *GameState, a BuildImprovement) {
	u := gs.Units[a.UnitID]
	t := gs.Map.Tiles[u.Position]
	t.Improvement = a.Improvement
	if t.Resource != nil {
		r := *t.Resource
		r.Improved = resourceDefs[r.Type].Improvement == a.Improvement
		t.Resource = &r
	}
	gs.Map.Tiles[u.Position] = t

	u.Charges--
	if u.Charges <= 0 {
		delete(gs.Units, u.ID)
		return
	}
	u.MovementRemaining = 0
	u.HasActed = true
	gs.Units[u.ID] = u
}
