package hexgame

import "fmt"

// UnitType identifies a unit definition.
type UnitType string

const (
	Warrior     UnitType = "warrior"
	Scout       UnitType = "scout"
	Settler     UnitType = "settler"
	Builder     UnitType = "builder"
	Archer      UnitType = "archer"
	Spearman    UnitType = "spearman"
	Horseman    UnitType = "horseman"
	Swordsman   UnitType = "swordsman"
	Catapult    UnitType = "catapult"
	Knight      UnitType = "knight"
	Crossbowman UnitType = "crossbowman"
)

// UnitClass groups unit types for combat and promotion rules.
type UnitClass string

const (
	ClassMelee    UnitClass = "melee"
	ClassRanged   UnitClass = "ranged"
	ClassMounted  UnitClass = "mounted"
	ClassSiege    UnitClass = "siege"
	ClassRecon    UnitClass = "recon"
	ClassCivilian UnitClass = "civilian"
)

// UnitDef holds the static stats of a unit type.
type UnitDef struct {
	Class          UnitClass
	Strength       int
	RangedStrength int
	Range          int
	Movement       int
	Cost           int
	RequiredTech   TechID
	Mintable       bool // completion goes through a rarity roll
	Vision         int
	Charges        int
}

var unitDefs = map[UnitType]UnitDef{
	Warrior:     {Class: ClassMelee, Strength: 20, Movement: 2, Cost: 40, Mintable: true, Vision: 2},
	Scout:       {Class: ClassRecon, Strength: 10, Movement: 3, Cost: 30, Vision: 3},
	Settler:     {Class: ClassCivilian, Movement: 2, Cost: 80, Vision: 2},
	Builder:     {Class: ClassCivilian, Movement: 2, Cost: 50, Vision: 2, Charges: 3},
	Archer:      {Class: ClassRanged, Strength: 15, RangedStrength: 25, Range: 2, Movement: 2, Cost: 60, RequiredTech: TechArchery, Mintable: true, Vision: 2},
	Spearman:    {Class: ClassMelee, Strength: 25, Movement: 2, Cost: 65, RequiredTech: TechBronzeWorking, Mintable: true, Vision: 2},
	Horseman:    {Class: ClassMounted, Strength: 30, Movement: 4, Cost: 80, RequiredTech: TechHorsebackRiding, Mintable: true, Vision: 2},
	Swordsman:   {Class: ClassMelee, Strength: 35, Movement: 2, Cost: 90, RequiredTech: TechIronWorking, Mintable: true, Vision: 2},
	Catapult:    {Class: ClassSiege, Strength: 20, RangedStrength: 35, Range: 2, Movement: 1, Cost: 120, RequiredTech: TechMathematics, Mintable: true, Vision: 2},
	Knight:      {Class: ClassMounted, Strength: 45, Movement: 4, Cost: 150, RequiredTech: TechFeudalism, Mintable: true, Vision: 2},
	Crossbowman: {Class: ClassRanged, Strength: 30, RangedStrength: 40, Range: 2, Movement: 2, Cost: 140, RequiredTech: TechMachinery, Mintable: true, Vision: 2},
}

// unitOrder fixes iteration order for production menus and AI choices.
var unitOrder = []UnitType{Warrior, Scout, Settler, Builder, Archer, Spearman, Horseman, Swordsman, Catapult, Knight, Crossbowman}

// UnitInfo returns the definition for a unit type.
func UnitInfo(t UnitType) (UnitDef, bool) {
	def, ok := unitDefs[t]
	return def, ok
}

// UnitTypes returns all unit types in canonical order.
func UnitTypes() []UnitType {
	out := make([]UnitType, len(unitOrder))
	copy(out, unitOrder)
	return out
}

// IsRanged reports whether the definition attacks at range.
func (d UnitDef) IsRanged() bool {
	return d.Range > 1 && d.RangedStrength > 0
}

// IsCombat reports whether the unit can attack.
func (d UnitDef) IsCombat() bool {
	return d.Class != ClassCivilian && d.Strength > 0
}

// UnitMaxHealth is the health every unit starts with.
const UnitMaxHealth = 100

// Rarity is the tier assigned to minted units.
type Rarity int

const (
	Common Rarity = iota
	Uncommon
	Rare
	Epic
	Legendary
)

func (r Rarity) String() string {
	switch r {
	case Common:
		return "common"
	case Uncommon:
		return "uncommon"
	case Rare:
		return "rare"
	case Epic:
		return "epic"
	case Legendary:
		return "legendary"
	default:
		return fmt.Sprintf("rarity(%d)", int(r))
	}
}

// Valid reports whether r is one of the five tiers.
func (r Rarity) Valid() bool {
	return r >= Common && r <= Legendary
}

// CombatBonus is the flat strength a rarity tier adds.
func (r Rarity) CombatBonus() int {
	switch r {
	case Uncommon:
		return 2
	case Rare:
		return 4
	case Epic:
		return 6
	case Legendary:
		return 9
	}
	return 0
}

// ScoreBonus is the floor-price contribution of one unit of this rarity.
func (r Rarity) ScoreBonus() int {
	switch r {
	case Uncommon:
		return 5
	case Rare:
		return 15
	case Epic:
		return 30
	case Legendary:
		return 60
	}
	return 0
}

// RarityFromRoll maps a roll in [0,99] to a tier:
// 0-49 common, 50-79 uncommon, 80-94 rare, 95-98 epic, 99 legendary.
// Out-of-range rolls are clamped.
func RarityFromRoll(roll int) Rarity {
	switch {
	case roll <= 49:
		return Common
	case roll <= 79:
		return Uncommon
	case roll <= 94:
		return Rare
	case roll <= 98:
		return Epic
	default:
		return Legendary
	}
}

// PromotionID identifies a unit promotion.
type PromotionID string

const (
	PromoDrill    PromotionID = "drill"
	PromoShock    PromotionID = "shock"
	PromoCover    PromotionID = "cover"
	PromoMedic    PromotionID = "medic"
	PromoMobility PromotionID = "mobility"
	PromoVeteran  PromotionID = "veteran"
)

// PromotionDef describes a promotion's effects.
type PromotionDef struct {
	Strength      int // always
	AttackBonus   int // when attacking
	RangedDefense int // when defending against ranged attacks
	Heal          int
	Movement      int
	Requires      PromotionID
}

var promotionDefs = map[PromotionID]PromotionDef{
	PromoDrill:    {Strength: 3},
	PromoShock:    {AttackBonus: 3},
	PromoCover:    {RangedDefense: 4},
	PromoMedic:    {Heal: 10},
	PromoMobility: {Movement: 1},
	PromoVeteran:  {Strength: 5, Requires: PromoDrill},
}

var promotionOrder = []PromotionID{PromoDrill, PromoShock, PromoCover, PromoMedic, PromoMobility, PromoVeteran}

// PromotionInfo returns the definition for a promotion.
func PromotionInfo(p PromotionID) (PromotionDef, bool) {
	def, ok := promotionDefs[p]
	return def, ok
}

// XPPerPromotion is the experience needed for each promotion point.
const XPPerPromotion = 15

const (
	xpAttack   = 5
	xpDefend   = 3
	xpKill     = 5
	xpBarracks = 15
)
