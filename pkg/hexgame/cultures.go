package hexgame

// CultureID identifies a civic in the culture tree.
type CultureID string

const (
	CultureCodeOfLaws          CultureID = "code_of_laws"
	CultureCraftsmanship       CultureID = "craftsmanship"
	CultureForeignTrade        CultureID = "foreign_trade"
	CultureMilitaryTradition   CultureID = "military_tradition"
	CultureStateWorkforce      CultureID = "state_workforce"
	CultureEarlyEmpire         CultureID = "early_empire"
	CultureDramaPoetry         CultureID = "drama_poetry"
	CulturePoliticalPhilosophy CultureID = "political_philosophy"
	CultureRecordedHistory     CultureID = "recorded_history"
)

// CultureDef describes a civic's cost and grants.
type CultureDef struct {
	Cost          int
	Prereqs       []CultureID
	Slots         map[PolicyCategory]int
	Policies      []PolicyID
	TradeCapacity int
	GoldenAge     int // turns of golden age granted on completion
}

var cultureDefs = map[CultureID]CultureDef{
	CultureCodeOfLaws: {
		Cost:     20,
		Slots:    map[PolicyCategory]int{Military: 1, Economic: 1},
		Policies: []PolicyID{PolicyDiscipline, PolicyUrbanPlanning},
	},
	CultureCraftsmanship: {
		Cost:     40,
		Prereqs:  []CultureID{CultureCodeOfLaws},
		Policies: []PolicyID{PolicyIlkum, PolicyLimes},
	},
	CultureForeignTrade: {
		Cost:          40,
		Prereqs:       []CultureID{CultureCodeOfLaws},
		Policies:      []PolicyID{PolicyCaravansaries},
		TradeCapacity: 1,
	},
	CultureMilitaryTradition: {
		Cost:     60,
		Prereqs:  []CultureID{CultureCraftsmanship},
		Slots:    map[PolicyCategory]int{Military: 1},
		Policies: []PolicyID{PolicyManeuver},
	},
	CultureStateWorkforce: {
		Cost:     60,
		Prereqs:  []CultureID{CultureCraftsmanship},
		Slots:    map[PolicyCategory]int{Economic: 1},
		Policies: []PolicyID{PolicyCorvee},
	},
	CultureEarlyEmpire: {
		Cost:     70,
		Prereqs:  []CultureID{CultureForeignTrade},
		Slots:    map[PolicyCategory]int{Wildcard: 1},
		Policies: []PolicyID{PolicyColonization},
	},
	CultureDramaPoetry: {
		Cost:     90,
		Prereqs:  []CultureID{CultureEarlyEmpire},
		Policies: []PolicyID{PolicyCharismaticLeader},
	},
	CulturePoliticalPhilosophy: {
		Cost:      110,
		Prereqs:   []CultureID{CultureStateWorkforce, CultureEarlyEmpire},
		Slots:     map[PolicyCategory]int{Diplomatic: 1},
		Policies:  []PolicyID{PolicyMerchantConfederation},
		GoldenAge: 10,
	},
	CultureRecordedHistory: {
		Cost:     110,
		Prereqs:  []CultureID{CultureDramaPoetry},
		Policies: []PolicyID{PolicyNaturalPhilosophy},
	},
}

var cultureOrder = []CultureID{
	CultureCodeOfLaws, CultureCraftsmanship, CultureForeignTrade, CultureMilitaryTradition,
	CultureStateWorkforce, CultureEarlyEmpire, CultureDramaPoetry, CulturePoliticalPhilosophy,
	CultureRecordedHistory,
}

// CultureInfo returns the definition for a civic.
func CultureInfo(c CultureID) (CultureDef, bool) {
	def, ok := cultureDefs[c]
	return def, ok
}

// Cultures returns every civic in tree order.
func Cultures() []CultureID {
	out := make([]CultureID, len(cultureOrder))
	copy(out, cultureOrder)
	return out
}
