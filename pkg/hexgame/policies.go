package hexgame

// PolicyCategory is the slot type a policy occupies.
type PolicyCategory string

const (
	Military   PolicyCategory = "military"
	Economic   PolicyCategory = "economic"
	Diplomatic PolicyCategory = "diplomatic"
	Wildcard   PolicyCategory = "wildcard"
)

var categoryOrder = []PolicyCategory{Military, Economic, Diplomatic, Wildcard}

// PolicyID identifies a policy card.
type PolicyID string

const (
	PolicyDiscipline            PolicyID = "discipline"
	PolicyManeuver              PolicyID = "maneuver"
	PolicyLimes                 PolicyID = "limes"
	PolicyUrbanPlanning         PolicyID = "urban_planning"
	PolicyIlkum                 PolicyID = "ilkum"
	PolicyCorvee                PolicyID = "corvee"
	PolicyCaravansaries         PolicyID = "caravansaries"
	PolicyColonization          PolicyID = "colonization"
	PolicyCharismaticLeader     PolicyID = "charismatic_leader"
	PolicyMerchantConfederation PolicyID = "merchant_confederation"
	PolicyNaturalPhilosophy     PolicyID = "natural_philosophy"
)

// PolicyDef holds a policy's category and effect values.
type PolicyDef struct {
	Category          PolicyCategory
	Combat            int
	AttackBonus       int
	FortifyBonus      int
	ProductionFlat    int // per settlement
	FoodFlat          int // per settlement
	ProductionPercent int
	SciencePercent    int
	CulturePercent    int
	GoldPercent       int
	GoldPerRoute      int
}

var policyDefs = map[PolicyID]PolicyDef{
	PolicyDiscipline:            {Category: Military, Combat: 2},
	PolicyManeuver:              {Category: Military, AttackBonus: 3},
	PolicyLimes:                 {Category: Military, FortifyBonus: 2},
	PolicyUrbanPlanning:         {Category: Economic, ProductionFlat: 1},
	PolicyIlkum:                 {Category: Economic, ProductionPercent: 10},
	PolicyCorvee:                {Category: Economic, ProductionPercent: 15},
	PolicyCaravansaries:         {Category: Economic, GoldPerRoute: 2},
	PolicyColonization:          {Category: Economic, FoodFlat: 1},
	PolicyCharismaticLeader:     {Category: Diplomatic, CulturePercent: 10},
	PolicyMerchantConfederation: {Category: Diplomatic, GoldPercent: 10},
	PolicyNaturalPhilosophy:     {Category: Economic, SciencePercent: 15},
}

// PolicyInfo returns the definition for a policy.
func PolicyInfo(p PolicyID) (PolicyDef, bool) {
	def, ok := policyDefs[p]
	return def, ok
}

// policyEffects sums the active policies of a player.
func policyEffects(p *Player) PolicyDef {
	var sum PolicyDef
	for _, id := range p.ActivePolicies {
		d := policyDefs[id]
		sum.Combat += d.Combat
		sum.AttackBonus += d.AttackBonus
		sum.FortifyBonus += d.FortifyBonus
		sum.ProductionFlat += d.ProductionFlat
		sum.FoodFlat += d.FoodFlat
		sum.ProductionPercent += d.ProductionPercent
		sum.SciencePercent += d.SciencePercent
		sum.CulturePercent += d.CulturePercent
		sum.GoldPercent += d.GoldPercent
		sum.GoldPerRoute += d.GoldPerRoute
	}
	return sum
}

// UnlockedPolicies returns the policies a player's cultures make available, in tree order.
func UnlockedPolicies(p *Player) []PolicyID {
	var out []PolicyID
	for _, c := range cultureOrder {
		if p.Cultures[c] {
			out = append(out, cultureDefs[c].Policies...)
		}
	}
	return out
}

// fitPolicies reports whether the set fits the player's slots. Each policy
// takes a slot of its own category first and overflows into wildcard slots.
func fitPolicies(slots map[PolicyCategory]int, policies []PolicyID) bool {
	used := make(map[PolicyCategory]int)
	wild := 0
	for _, id := range policies {
		cat := policyDefs[id].Category
		if used[cat] < slots[cat] {
			used[cat]++
			continue
		}
		wild++
	}
	return wild <= slots[Wildcard]
}
