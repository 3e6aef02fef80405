package hexgame

// TechID identifies a technology.
type TechID string

const (
	TechPottery         TechID = "pottery"
	TechAnimalHusbandry TechID = "animal_husbandry"
	TechMining          TechID = "mining"
	TechArchery         TechID = "archery"
	TechBronzeWorking   TechID = "bronze_working"
	TechMasonry         TechID = "masonry"
	TechWriting         TechID = "writing"
	TechHorsebackRiding TechID = "horseback_riding"
	TechMysticism       TechID = "mysticism"
	TechCurrency        TechID = "currency"
	TechIronWorking     TechID = "iron_working"
	TechMathematics     TechID = "mathematics"
	TechConstruction    TechID = "construction"
	TechFeudalism       TechID = "feudalism"
	TechMachinery       TechID = "machinery"
)

// TechDef describes a technology's cost and what it grants.
type TechDef struct {
	Cost          int
	Prereqs       []TechID
	EnablesTrade  bool
	TradeCapacity int
}

var techDefs = map[TechID]TechDef{
	TechPottery:         {Cost: 25},
	TechAnimalHusbandry: {Cost: 25},
	TechMining:          {Cost: 25},
	TechArchery:         {Cost: 35, Prereqs: []TechID{TechAnimalHusbandry}},
	TechBronzeWorking:   {Cost: 40, Prereqs: []TechID{TechMining}},
	TechMasonry:         {Cost: 40, Prereqs: []TechID{TechMining}},
	TechWriting:         {Cost: 50, Prereqs: []TechID{TechPottery}},
	TechHorsebackRiding: {Cost: 55, Prereqs: []TechID{TechAnimalHusbandry}},
	TechMysticism:       {Cost: 55, Prereqs: []TechID{TechPottery}},
	TechCurrency:        {Cost: 70, Prereqs: []TechID{TechWriting, TechBronzeWorking}, EnablesTrade: true, TradeCapacity: 1},
	TechIronWorking:     {Cost: 80, Prereqs: []TechID{TechBronzeWorking}},
	TechMathematics:     {Cost: 90, Prereqs: []TechID{TechCurrency}},
	TechConstruction:    {Cost: 90, Prereqs: []TechID{TechMasonry, TechHorsebackRiding}},
	TechFeudalism:       {Cost: 140, Prereqs: []TechID{TechConstruction, TechIronWorking}},
	TechMachinery:       {Cost: 150, Prereqs: []TechID{TechMathematics, TechIronWorking}},
}

var techOrder = []TechID{
	TechPottery, TechAnimalHusbandry, TechMining, TechArchery, TechBronzeWorking,
	TechMasonry, TechWriting, TechHorsebackRiding, TechMysticism, TechCurrency,
	TechIronWorking, TechMathematics, TechConstruction, TechFeudalism, TechMachinery,
}

// TechInfo returns the definition for a technology.
func TechInfo(t TechID) (TechDef, bool) {
	def, ok := techDefs[t]
	return def, ok
}

// Techs returns every technology in tree order.
func Techs() []TechID {
	out := make([]TechID, len(techOrder))
	copy(out, techOrder)
	return out
}

// techUnlocks lists the units, buildings and wonders a tech makes available.
func techUnlocks(t TechID) (units []UnitType, buildings []BuildingID, wonders []WonderID) {
	for _, u := range unitOrder {
		if unitDefs[u].RequiredTech == t {
			units = append(units, u)
		}
	}
	for _, b := range buildingOrder {
		if buildingDefs[b].RequiredTech == t {
			buildings = append(buildings, b)
		}
	}
	for _, w := range wonderOrder {
		if wonderDefs[w].RequiredTech == t {
			wonders = append(wonders, w)
		}
	}
	return units, buildings, wonders
}
