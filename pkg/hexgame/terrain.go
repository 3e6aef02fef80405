package hexgame

// Terrain classifies a tile's base land type.
type Terrain string

const (
	Grassland Terrain = "grassland"
	Plains    Terrain = "plains"
	Forest    Terrain = "forest"
	Jungle    Terrain = "jungle"
	Hills     Terrain = "hills"
	Desert    Terrain = "desert"
	Tundra    Terrain = "tundra"
	Mountain  Terrain = "mountain"
	Coast     Terrain = "coast"
	Ocean     Terrain = "ocean"
)

// TerrainDef holds the static rules for one terrain type.
type TerrainDef struct {
	Yields   Yields
	MoveCost int
	Defense  int
	Passable bool // land units may enter
	Water    bool
}

var terrainDefs = map[Terrain]TerrainDef{
	Grassland: {Yields: Yields{Food: 2}, MoveCost: 1, Passable: true},
	Plains:    {Yields: Yields{Food: 1, Production: 1}, MoveCost: 1, Passable: true},
	Forest:    {Yields: Yields{Food: 1, Production: 2}, MoveCost: 2, Defense: 2, Passable: true},
	Jungle:    {Yields: Yields{Food: 2}, MoveCost: 2, Defense: 2, Passable: true},
	Hills:     {Yields: Yields{Production: 2}, MoveCost: 2, Defense: 3, Passable: true},
	Desert:    {MoveCost: 1, Passable: true},
	Tundra:    {Yields: Yields{Food: 1}, MoveCost: 1, Passable: true},
	Mountain:  {},
	Coast:     {Yields: Yields{Food: 1, Gold: 1}, Water: true},
	Ocean:     {Yields: Yields{Food: 1}, Water: true},
}

// TerrainInfo returns the rules for a terrain type. Unknown terrain is impassable.
func TerrainInfo(t Terrain) TerrainDef {
	return terrainDefs[t]
}

// Feature is an optional tile overlay.
type Feature string

const (
	NoFeature Feature = ""
	River     Feature = "river"
	Oasis     Feature = "oasis"
)

func featureYields(f Feature) Yields {
	switch f {
	case River:
		return Yields{Gold: 1}
	case Oasis:
		return Yields{Food: 3, Gold: 1}
	}
	return Yields{}
}

func featureDefense(f Feature) int {
	if f == River {
		return 1
	}
	return 0
}

// ResourceType identifies a map resource.
type ResourceType string

const (
	ResourceWheat  ResourceType = "wheat"
	ResourceCattle ResourceType = "cattle"
	ResourceHorses ResourceType = "horses"
	ResourceIron   ResourceType = "iron"
	ResourceStone  ResourceType = "stone"
	ResourceGems   ResourceType = "gems"
	ResourceFish   ResourceType = "fish"
)

// ResourceDef describes a resource's yields and how it is exploited.
type ResourceDef struct {
	Yields      Yields
	Bonus       Yields // extra yield once improved
	Improvement Improvement
	RevealTech  TechID // empty means visible from the start
	Terrains    []Terrain
}

var resourceDefs = map[ResourceType]ResourceDef{
	ResourceWheat:  {Yields: Yields{Food: 1}, Bonus: Yields{Food: 1}, Improvement: Farm, Terrains: []Terrain{Grassland, Plains}},
	ResourceCattle: {Yields: Yields{Food: 1}, Bonus: Yields{Food: 1}, Improvement: Pasture, Terrains: []Terrain{Grassland}},
	ResourceHorses: {Yields: Yields{Production: 1}, Bonus: Yields{Production: 1}, Improvement: Pasture, RevealTech: TechAnimalHusbandry, Terrains: []Terrain{Plains, Grassland}},
	ResourceIron:   {Yields: Yields{Production: 2}, Bonus: Yields{Production: 1}, Improvement: Mine, RevealTech: TechBronzeWorking, Terrains: []Terrain{Hills, Plains}},
	ResourceStone:  {Yields: Yields{Production: 1}, Bonus: Yields{Production: 1}, Improvement: Quarry, Terrains: []Terrain{Hills, Plains, Desert}},
	ResourceGems:   {Yields: Yields{Gold: 3}, Bonus: Yields{Gold: 1}, Improvement: Mine, RevealTech: TechMining, Terrains: []Terrain{Jungle, Hills, Forest}},
	ResourceFish:   {Yields: Yields{Food: 2}, Bonus: Yields{Food: 1}, Improvement: FishingBoats, Terrains: []Terrain{Coast}},
}

// ResourceInfo returns the rules for a resource type.
func ResourceInfo(r ResourceType) (ResourceDef, bool) {
	def, ok := resourceDefs[r]
	return def, ok
}

// resourceOrder fixes iteration order for map generation.
var resourceOrder = []ResourceType{ResourceWheat, ResourceCattle, ResourceHorses, ResourceIron, ResourceStone, ResourceGems, ResourceFish}

// Improvement is a builder-constructed tile upgrade.
type Improvement string

const (
	NoImprovement Improvement = ""
	Farm          Improvement = "farm"
	Mine          Improvement = "mine"
	Pasture       Improvement = "pasture"
	Quarry        Improvement = "quarry"
	FishingBoats  Improvement = "fishing_boats"
)

// ImprovementDef describes where an improvement can be built.
type ImprovementDef struct {
	Yields       Yields
	RequiredTech TechID
	Terrains     []Terrain // base terrains allowed without a matching resource
}

var improvementDefs = map[Improvement]ImprovementDef{
	Farm:         {Yields: Yields{Food: 1}, Terrains: []Terrain{Grassland, Plains}},
	Mine:         {Yields: Yields{Production: 1}, RequiredTech: TechMining, Terrains: []Terrain{Hills}},
	Pasture:      {Yields: Yields{Production: 1}, RequiredTech: TechAnimalHusbandry},
	Quarry:       {Yields: Yields{Production: 1}, RequiredTech: TechMasonry},
	FishingBoats: {Yields: Yields{Food: 1}, RequiredTech: TechPottery},
}

// ImprovementInfo returns the rules for an improvement.
func ImprovementInfo(i Improvement) (ImprovementDef, bool) {
	def, ok := improvementDefs[i]
	return def, ok
}

// canImprove reports whether improvement imp fits the tile, either by
// terrain or by a matching revealed resource. Farms also fit oasis deserts.
func canImprove(t Tile, imp Improvement) bool {
	def, ok := improvementDefs[imp]
	if !ok {
		return false
	}
	if t.Resource != nil && t.Resource.Revealed {
		if rd, ok := resourceDefs[t.Resource.Type]; ok && rd.Improvement == imp {
			return true
		}
	}
	if imp == Farm && t.Terrain == Desert && t.Feature == Oasis {
		return true
	}
	return containsTerrain(def.Terrains, t.Terrain)
}

func containsTerrain(list []Terrain, t Terrain) bool {
	for _, x := range list {
		if x == t {
			return true
		}
	}
	return false
}
