package hexgame

import "slices"

// StrengthBreakdown itemizes one side's effective combat strength.
type StrengthBreakdown struct {
	Base          int `json:"base"`
	Rarity        int `json:"rarity"`
	Promotion     int `json:"promotion"`
	Policy        int `json:"policy"`
	Tribe         int `json:"tribe"`
	Terrain       int `json:"terrain"`
	Fortification int `json:"fortification"`
	HealthPenalty int `json:"healthPenalty"`
	Total         int `json:"total"`
}

func (b *StrengthBreakdown) sum() {
	b.Total = max(0, b.Base+b.Rarity+b.Promotion+b.Policy+b.Tribe+b.Terrain+b.Fortification-b.HealthPenalty)
}

// CombatPreview is the projected outcome of an attack. Resolution uses the
// same numbers.
type CombatPreview struct {
	Attacker            StrengthBreakdown `json:"attacker"`
	Defender            StrengthBreakdown `json:"defender"`
	Ranged              bool              `json:"ranged"`
	DamageToDefender    int               `json:"damageToDefender"`
	DamageToAttacker    int               `json:"damageToAttacker"`
	AttackerHealthAfter int               `json:"attackerHealthAfter"`
	DefenderHealthAfter int               `json:"defenderHealthAfter"`
	DefenderDestroyed   bool              `json:"defenderDestroyed"`
	AttackerDestroyed   bool              `json:"attackerDestroyed"`
	Captures            bool              `json:"captures,omitempty"`
}

type combatRole int

const (
	roleAttack combatRole = iota
	roleDefend
)

func healthPenalty(health, maxHealth int) int {
	if maxHealth <= 0 {
		return 0
	}
	return 10 * (maxHealth - health) / maxHealth
}

// unitStrength is the single strength formula for previews and resolution.
func unitStrength(gs *GameState, u Unit, role combatRole, ranged bool) StrengthBreakdown {
	def := unitDefs[u.Type]
	var b StrengthBreakdown
	b.Base = def.Strength
	if role == roleAttack && ranged {
		b.Base = def.RangedStrength
	}
	b.Rarity = u.Rarity.CombatBonus()
	for _, id := range u.Promotions {
		pd := promotionDefs[id]
		b.Promotion += pd.Strength
		if role == roleAttack {
			b.Promotion += pd.AttackBonus
		}
		if role == roleDefend && ranged {
			b.Promotion += pd.RangedDefense
		}
	}
	var pol PolicyDef
	if p := gs.Player(u.Owner); p != nil {
		pol = policyEffects(p)
		b.Policy = pol.Combat
		if role == roleAttack {
			b.Policy += pol.AttackBonus
		}
	}
	if td, ok := tribeDefs[u.Owner]; ok && !(role == roleAttack && ranged) {
		if def.Class == ClassMelee || def.Class == ClassMounted {
			b.Tribe = td.MeleeBonus
		}
	}
	if role == roleDefend {
		tile := gs.Map.Tiles[u.Position]
		b.Terrain = terrainDefs[tile.Terrain].Defense + featureDefense(tile.Feature)
		if u.Fortified {
			b.Fortification += 3 + pol.FortifyBonus
		}
		if s, ok := gs.SettlementAt(u.Position); ok && s.Owner == u.Owner {
			b.Fortification += 5
		}
	}
	b.HealthPenalty = healthPenalty(u.Health, u.MaxHealth)
	b.sum()
	return b
}

// settlementStrength is a settlement's defensive breakdown.
func settlementStrength(gs *GameState, s Settlement) StrengthBreakdown {
	var b StrengthBreakdown
	b.Base = 15 + 2*s.Population
	tile := gs.Map.Tiles[s.Position]
	b.Terrain = terrainDefs[tile.Terrain].Defense + featureDefense(tile.Feature)
	for _, id := range s.Buildings {
		b.Fortification += buildingDefs[id].Defense
	}
	if s.IsCapital {
		b.Fortification += 5
	}
	b.HealthPenalty = healthPenalty(s.Health, s.MaxHealth)
	b.sum()
	return b
}

const (
	baseDamage     = 30
	maxStrengthGap = 30
)

// damageFor returns 30 * 1.04^diff, computed in per-mille integers and
// never below 1. diff is clamped to +/-30.
func damageFor(diff int) int {
	diff = max(-maxStrengthGap, min(maxStrengthGap, diff))
	f := 1000
	for i := 0; i < abs(diff); i++ {
		if diff > 0 {
			f = f * 104 / 100
		} else {
			f = f * 100 / 104
		}
	}
	return max(1, baseDamage*f/1000)
}

// exchange computes both damage figures for an attack.
func exchange(atk, def StrengthBreakdown, ranged bool) (toDefender, toAttacker int) {
	diff := atk.Total - def.Total
	toDefender = damageFor(diff)
	toAttacker = damageFor(-diff)
	if ranged {
		toAttacker /= 2
	}
	return toDefender, toAttacker
}

// PreviewCombat projects an attack by one unit on another without touching state.
func PreviewCombat(gs *GameState, attackerID, defenderID string) (CombatPreview, bool) {
	a, ok := gs.Units[attackerID]
	if !ok {
		return CombatPreview{}, false
	}
	d, ok := gs.Units[defenderID]
	if !ok {
		return CombatPreview{}, false
	}
	return unitCombat(gs, a, d), true
}

func unitCombat(gs *GameState, a, d Unit) CombatPreview {
	ranged := unitDefs[a.Type].IsRanged()
	p := CombatPreview{
		Attacker: unitStrength(gs, a, roleAttack, ranged),
		Defender: unitStrength(gs, d, roleDefend, ranged),
		Ranged:   ranged,
	}
	p.DamageToDefender, p.DamageToAttacker = exchange(p.Attacker, p.Defender, ranged)
	p.DefenderHealthAfter = max(0, d.Health-p.DamageToDefender)
	p.AttackerHealthAfter = max(0, a.Health-p.DamageToAttacker)
	p.DefenderDestroyed = p.DefenderHealthAfter == 0
	p.AttackerDestroyed = p.AttackerHealthAfter == 0
	return p
}

// PreviewSettlementCombat projects an attack by a unit on a settlement.
func PreviewSettlementCombat(gs *GameState, attackerID, settlementID string) (CombatPreview, bool) {
	a, ok := gs.Units[attackerID]
	if !ok {
		return CombatPreview{}, false
	}
	s, ok := gs.Settlements[settlementID]
	if !ok {
		return CombatPreview{}, false
	}
	return settlementCombat(gs, a, s), true
}

func settlementCombat(gs *GameState, a Unit, s Settlement) CombatPreview {
	ranged := unitDefs[a.Type].IsRanged()
	p := CombatPreview{
		Attacker: unitStrength(gs, a, roleAttack, ranged),
		Defender: settlementStrength(gs, s),
		Ranged:   ranged,
	}
	p.DamageToDefender, p.DamageToAttacker = exchange(p.Attacker, p.Defender, ranged)
	p.DefenderHealthAfter = max(0, s.Health-p.DamageToDefender)
	p.AttackerHealthAfter = max(0, a.Health-p.DamageToAttacker)
	p.AttackerDestroyed = p.AttackerHealthAfter == 0
	p.Captures = !ranged && !p.AttackerDestroyed && p.DefenderHealthAfter == 0
	return p
}

// AtWar reports whether two tribes are hostile. Barbarians are hostile to everyone.
func AtWar(gs *GameState, a, b TribeID) bool {
	if a == b {
		return false
	}
	if a == Barbarian || b == Barbarian {
		return true
	}
	return gs.relation(a, b).War
}

// Allied reports whether two tribes hold an alliance.
func Allied(gs *GameState, a, b TribeID) bool {
	if a == b || a == Barbarian || b == Barbarian {
		return false
	}
	return gs.relation(a, b).Allied
}

func validateAttacker(gs *GameState, at ActionType, unitID string) (Unit, error) {
	u, ok := gs.Units[unitID]
	if !ok {
		return Unit{}, missing(at, "unit", unitID)
	}
	if u.Owner != gs.CurrentPlayer {
		return Unit{}, reject(at, ErrNotOwner, "unit %s belongs to %s", u.ID, u.Owner)
	}
	if !unitDefs[u.Type].IsCombat() {
		return Unit{}, reject(at, ErrUnitCannot, "%s cannot attack", u.Type)
	}
	if u.HasActed {
		return Unit{}, reject(at, ErrAlreadyDone, "unit %s has already acted", u.ID)
	}
	return u, nil
}

func validateAttack(gs *GameState, a Attack) error {
	u, err := validateAttacker(gs, a.Type(), a.UnitID)
	if err != nil {
		return err
	}
	t, ok := gs.Units[a.TargetUnitID]
	if !ok {
		return missing(a.Type(), "unit", a.TargetUnitID)
	}
	if t.Owner == u.Owner {
		return reject(a.Type(), ErrInvalidTarget, "cannot attack own unit %s", t.ID)
	}
	if Distance(u.Position, t.Position) > attackRange(u) {
		return reject(a.Type(), ErrOutOfRange, "%s is %d tiles away", t.ID, Distance(u.Position, t.Position))
	}
	if !AtWar(gs, u.Owner, t.Owner) {
		return reject(a.Type(), ErrNotAtWar, "%s is not at war with %s", u.Owner, t.Owner)
	}
	return nil
}

func applyAttack(gs *GameState, a Attack) {
	att := gs.Units[a.UnitID]
	def := gs.Units[a.TargetUnitID]
	res := unitCombat(gs, att, def)

	att.Health = res.AttackerHealthAfter
	def.Health = res.DefenderHealthAfter
	att.HasActed = true
	att.MovementRemaining = 0
	att.Fortified = false
	att.Sleeping = false
	att.Experience += xpAttack

	switch {
	case res.DefenderDestroyed:
		delete(gs.Units, def.ID)
		creditKill(gs, att.Owner)
		att.Experience += xpKill
		if _, city := gs.SettlementAt(def.Position); !city && !res.AttackerDestroyed && !res.Ranged {
			att.Position = def.Position
			att.Moved = true
		}
	default:
		def.Experience += xpDefend
		def.Sleeping = false
		gs.Units[def.ID] = def
	}
	if res.AttackerDestroyed {
		delete(gs.Units, att.ID)
		creditKill(gs, def.Owner)
		return
	}
	gs.Units[att.ID] = att
	if att.Position == def.Position {
		claimLootbox(gs, att.ID)
		clearCamp(gs, att.ID)
	}
}

func creditKill(gs *GameState, t TribeID) {
	if p := gs.Player(t); p != nil {
		p.Kills++
	}
}

func validateAttackSettlement(gs *GameState, a AttackSettlement) error {
	u, err := validateAttacker(gs, a.Type(), a.UnitID)
	if err != nil {
		return err
	}
	s, ok := gs.Settlements[a.SettlementID]
	if !ok {
		return missing(a.Type(), "settlement", a.SettlementID)
	}
	if s.Owner == u.Owner {
		return reject(a.Type(), ErrInvalidTarget, "cannot attack own settlement %s", s.ID)
	}
	if Distance(u.Position, s.Position) > attackRange(u) {
		return reject(a.Type(), ErrOutOfRange, "%s is %d tiles away", s.ID, Distance(u.Position, s.Position))
	}
	if _, garrisoned := gs.UnitAt(s.Position); garrisoned {
		return reject(a.Type(), ErrInvalidTarget, "%s is garrisoned", s.ID)
	}
	if !AtWar(gs, u.Owner, s.Owner) {
		return reject(a.Type(), ErrNotAtWar, "%s is not at war with %s", u.Owner, s.Owner)
	}
	return nil
}

func applyAttackSettlement(gs *GameState, a AttackSettlement) {
	att := gs.Units[a.UnitID]
	s := gs.Settlements[a.SettlementID]
	res := settlementCombat(gs, att, s)

	att.Health = res.AttackerHealthAfter
	att.HasActed = true
	att.MovementRemaining = 0
	att.Fortified = false
	att.Sleeping = false
	att.Experience += xpAttack
	s.Health = res.DefenderHealthAfter
	gs.Settlements[s.ID] = s

	if res.AttackerDestroyed {
		delete(gs.Units, att.ID)
		creditKill(gs, s.Owner)
		return
	}
	if res.Captures {
		att.Position = s.Position
		att.Moved = true
		gs.Units[att.ID] = att
		captureSettlement(gs, s.ID, att.Owner)
		return
	}
	gs.Units[att.ID] = att
}

// captureSettlement transfers a settlement and the territory it anchors.
func captureSettlement(gs *GameState, id string, to TribeID) {
	s := gs.Settlements[id]
	from := s.Owner
	s.Owner = to
	s.IsCapital = false
	s.Queue = nil
	s.Population = max(1, s.Population-1)
	s.Health = s.MaxHealth / 4
	gs.Settlements[id] = s

	for _, h := range Range(s.Position, maxTerritoryRadius) {
		if t, ok := gs.Map.Tiles[h]; ok && t.Owner == from && nearestSettlement(gs, h, from) == "" {
			t.Owner = to
			gs.Map.Tiles[h] = t
		}
	}
	if t, ok := gs.Map.Tiles[s.Position]; ok {
		t.Owner = to
		gs.Map.Tiles[s.Position] = t
	}

	gs.TradeRoutes = slices.DeleteFunc(gs.TradeRoutes, func(r TradeRoute) bool {
		return r.Origin == id || r.Destination == id
	})
	gs.PendingMints = slices.DeleteFunc(gs.PendingMints, func(m PendingMint) bool {
		return m.Settlement == id
	})
	if gs.Player(to) != nil && !hasCapital(gs, to) {
		s.IsCapital = true
		gs.Settlements[id] = s
	}
}

func hasCapital(gs *GameState, t TribeID) bool {
	for _, s := range gs.Settlements {
		if s.Owner == t && s.IsCapital {
			return true
		}
	}
	return false
}
