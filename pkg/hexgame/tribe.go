package hexgame

// TribeID identifies a faction.
type TribeID string

const (
	Ember TribeID = "ember"
	Tide  TribeID = "tide"
	Grove TribeID = "grove"
	Stone TribeID = "stone"
	Gale  TribeID = "gale"
	Frost TribeID = "frost"

	// Barbarian owns neutral hostile units. It never appears in Players.
	Barbarian TribeID = "barbarian"
	NoTribe   TribeID = ""
)

// AllTribes returns the playable tribes in canonical order.
func AllTribes() []TribeID {
	return []TribeID{Ember, Tide, Grove, Stone, Gale, Frost}
}

// TribeDef holds a tribe's passive bonuses and settlement names.
type TribeDef struct {
	Name            string
	MeleeBonus      int
	GoldPerRoute    int
	CulturePercent  int
	SciencePercent  int
	ProductionFlat  int // per settlement
	VisionBonus     int
	SettlementNames []string
}

var tribeDefs = map[TribeID]TribeDef{
	Ember: {Name: "Ember Clans", MeleeBonus: 2, SettlementNames: []string{"Cinderhold", "Ashford", "Brightkiln", "Emberfall", "Flintmere", "Scorchvale"}},
	Tide:  {Name: "Tide Compact", GoldPerRoute: 2, SettlementNames: []string{"Saltmarch", "Brinewick", "Harborlight", "Kelpstead", "Undertow", "Pearlshore"}},
	Grove: {Name: "Grove Wardens", CulturePercent: 10, SettlementNames: []string{"Oakheart", "Mossgate", "Fernhollow", "Thornwall", "Willowmere", "Rootdeep"}},
	Stone: {Name: "Stone Kin", ProductionFlat: 1, SettlementNames: []string{"Granitepeak", "Anvilrest", "Deepdelve", "Slatehome", "Quarrygate", "Basaltcrown"}},
	Gale:  {Name: "Gale Riders", VisionBonus: 1, SettlementNames: []string{"Windreach", "Stormcrest", "Skyhaven", "Driftmoor", "Whistlegap", "Cloudfen"}},
	Frost: {Name: "Frost Circle", SciencePercent: 10, SettlementNames: []string{"Rimewatch", "Icemantle", "Snowmere", "Glacierhold", "Hoarfrost", "Coldharbor"}},
}

// TribeInfo returns the definition for a tribe.
func TribeInfo(t TribeID) (TribeDef, bool) {
	def, ok := tribeDefs[t]
	return def, ok
}

// ValidTribe reports whether t is a playable tribe.
func ValidTribe(t TribeID) bool {
	_, ok := tribeDefs[t]
	return ok
}

func settlementName(t TribeID, index int) string {
	def, ok := tribeDefs[t]
	if !ok || len(def.SettlementNames) == 0 {
		return "Outpost"
	}
	name := def.SettlementNames[index%len(def.SettlementNames)]
	if round := index / len(def.SettlementNames); round > 0 {
		return name + " " + romanNumeral(round+1)
	}
	return name
}

func romanNumeral(n int) string {
	numerals := []string{"", "I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX", "X"}
	if n < len(numerals) {
		return numerals[n]
	}
	return "X+"
}
