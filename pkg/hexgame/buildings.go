package hexgame

// BuildingID identifies a settlement building.
type BuildingID string

const (
	Monument BuildingID = "monument"
	Granary  BuildingID = "granary"
	Library  BuildingID = "library"
	Market   BuildingID = "market"
	Walls    BuildingID = "walls"
	Barracks BuildingID = "barracks"
	Workshop BuildingID = "workshop"
)

// BuildingDef describes a building's cost and effects.
type BuildingDef struct {
	Cost         int
	RequiredTech TechID
	Yields       Yields
	Defense      int
	Health       int
	StartXP      int
}

var buildingDefs = map[BuildingID]BuildingDef{
	Monument: {Cost: 60, Yields: Yields{Culture: 2}},
	Granary:  {Cost: 65, RequiredTech: TechPottery, Yields: Yields{Food: 2}},
	Library:  {Cost: 90, RequiredTech: TechWriting, Yields: Yields{Science: 2}},
	Market:   {Cost: 100, RequiredTech: TechCurrency, Yields: Yields{Gold: 3}},
	Walls:    {Cost: 80, RequiredTech: TechMasonry, Defense: 8, Health: 100},
	Barracks: {Cost: 90, RequiredTech: TechBronzeWorking, StartXP: xpBarracks},
	Workshop: {Cost: 110, RequiredTech: TechConstruction, Yields: Yields{Production: 2}},
}

var buildingOrder = []BuildingID{Monument, Granary, Library, Market, Walls, Barracks, Workshop}

// BuildingInfo returns the definition for a building.
func BuildingInfo(b BuildingID) (BuildingDef, bool) {
	def, ok := buildingDefs[b]
	return def, ok
}

// WonderID identifies a world wonder. Each can be built once per game.
type WonderID string

const (
	Pyramids     WonderID = "pyramids"
	GreatLibrary WonderID = "great_library"
	Colossus     WonderID = "colossus"
	Oracle       WonderID = "oracle"
)

// WonderDef describes a wonder's cost and effects.
type WonderDef struct {
	Cost          int
	RequiredTech  TechID
	Yields        Yields
	TradeCapacity int
}

var wonderDefs = map[WonderID]WonderDef{
	Pyramids:     {Cost: 220, RequiredTech: TechMasonry, Yields: Yields{Production: 3}},
	GreatLibrary: {Cost: 260, RequiredTech: TechWriting, Yields: Yields{Science: 4}},
	Colossus:     {Cost: 240, RequiredTech: TechCurrency, Yields: Yields{Gold: 4}, TradeCapacity: 1},
	Oracle:       {Cost: 230, RequiredTech: TechMysticism, Yields: Yields{Culture: 4}},
}

var wonderOrder = []WonderID{Pyramids, GreatLibrary, Colossus, Oracle}

// WonderInfo returns the definition for a wonder.
func WonderInfo(w WonderID) (WonderDef, bool) {
	def, ok := wonderDefs[w]
	return def, ok
}

// ProductionKind discriminates queue items.
type ProductionKind string

const (
	ProduceUnit     ProductionKind = "unit"
	ProduceBuilding ProductionKind = "building"
	ProduceWonder   ProductionKind = "wonder"
)

// MaxQueueLength bounds a settlement's production queue.
const MaxQueueLength = 5

// itemCost returns the production cost of a queue item, or false if unknown.
func itemCost(kind ProductionKind, id string) (int, bool) {
	switch kind {
	case ProduceUnit:
		d, ok := unitDefs[UnitType(id)]
		return d.Cost, ok
	case ProduceBuilding:
		d, ok := buildingDefs[BuildingID(id)]
		return d.Cost, ok
	case ProduceWonder:
		d, ok := wonderDefs[WonderID(id)]
		return d.Cost, ok
	}
	return 0, false
}

// itemTech returns the tech an item requires, if any.
func itemTech(kind ProductionKind, id string) TechID {
	switch kind {
	case ProduceUnit:
		return unitDefs[UnitType(id)].RequiredTech
	case ProduceBuilding:
		return buildingDefs[BuildingID(id)].RequiredTech
	case ProduceWonder:
		return wonderDefs[WonderID(id)].RequiredTech
	}
	return ""
}
