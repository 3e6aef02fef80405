package hexgame

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// GameState is an immutable snapshot of a match. ApplyAction returns a new
// value for every successful transition; nothing else mutates it.
type GameState struct {
	Seed                     int64                    `json:"seed"`
	Turn                     int                      `json:"turn"`
	MaxTurns                 int                      `json:"maxTurns"`
	CurrentPlayer            TribeID                  `json:"currentPlayer"`
	Map                      Map                      `json:"map"`
	Players                  []Player                 `json:"players"`
	Units                    map[string]Unit          `json:"units"`
	Settlements              map[string]Settlement    `json:"settlements"`
	Fog                      map[TribeID]map[Hex]bool `json:"fog"`
	Lootboxes                []Lootbox                `json:"lootboxes"`
	BarbarianCamps           []BarbarianCamp          `json:"barbarianCamps"`
	TradeRoutes              []TradeRoute             `json:"tradeRoutes"`
	PendingPeaceProposals    []Proposal               `json:"pendingPeaceProposals"`
	PendingAllianceProposals []Proposal               `json:"pendingAllianceProposals"`
	PendingMints             []PendingMint            `json:"pendingMints"`
	Relations                map[TribePair]Relation   `json:"relations"`
	FloorPrices              map[TribeID]int          `json:"floorPrices"`
	Wonders                  map[WonderID]string      `json:"wonders"` // wonder -> settlement id
	NextID                   int                      `json:"nextId"`
	Finished                 bool                     `json:"finished"`
	Winner                   TribeID                  `json:"winner,omitempty"`
}

// GoldenAge is a temporary empire-wide yield boost.
type GoldenAge struct {
	Active         bool `json:"active"`
	TurnsRemaining int  `json:"turnsRemaining"`
}

// Buff is a timed percentage boost to one yield.
type Buff struct {
	Source         string    `json:"source"`
	Yield          YieldType `json:"yield"`
	Percent        int       `json:"percent"`
	TurnsRemaining int       `json:"turnsRemaining"`
}

// Player is one faction's empire-wide state.
type Player struct {
	Tribe               TribeID                `json:"tribe"`
	Human               bool                   `json:"human"`
	Treasury            int                    `json:"treasury"`
	Yields              Yields                 `json:"yields"`
	CurrentResearch     TechID                 `json:"currentResearch,omitempty"`
	ResearchProgress    int                    `json:"researchProgress"`
	PartialResearch     map[TechID]int         `json:"partialResearch,omitempty"`
	CurrentCulture      CultureID              `json:"currentCulture,omitempty"`
	CultureProgress     int                    `json:"cultureProgress"`
	PartialCulture      map[CultureID]int      `json:"partialCulture,omitempty"`
	Techs               map[TechID]bool        `json:"techs"`
	Cultures            map[CultureID]bool     `json:"cultures"`
	PolicySlots         map[PolicyCategory]int `json:"policySlots"`
	ActivePolicies      []PolicyID             `json:"activePolicies"`
	PolicySwapAvailable bool                   `json:"policySwapAvailable"`
	GoldenAge           GoldenAge              `json:"goldenAge"`
	Buffs               []Buff                 `json:"buffs"`
	Kills               int                    `json:"kills"`
	SettlementsFounded  int                    `json:"settlementsFounded"`
	Eliminated          bool                   `json:"eliminated"`
}

// Unit is a piece on the map.
type Unit struct {
	ID                string        `json:"id"`
	Type              UnitType      `json:"type"`
	Owner             TribeID       `json:"owner"`
	Position          Hex           `json:"position"`
	Health            int           `json:"health"`
	MaxHealth         int           `json:"maxHealth"`
	MovementRemaining int           `json:"movementRemaining"`
	HasActed          bool          `json:"hasActed"`
	Moved             bool          `json:"moved"`
	Sleeping          bool          `json:"sleeping"`
	Fortified         bool          `json:"fortified"`
	Rarity            Rarity        `json:"rarity"`
	Promotions        []PromotionID `json:"promotions"`
	Experience        int           `json:"experience"`
	Charges           int           `json:"charges,omitempty"`
}

// ProductionItem is one entry in a settlement's queue.
type ProductionItem struct {
	Kind     ProductionKind `json:"kind"`
	ID       string         `json:"id"`
	Progress int            `json:"progress"`
	Cost     int            `json:"cost"`
}

// Settlement is a city that grows, produces and claims territory.
type Settlement struct {
	ID                string                  `json:"id"`
	Owner             TribeID                 `json:"owner"`
	Position          Hex                     `json:"position"`
	Name              string                  `json:"name"`
	IsCapital         bool                    `json:"isCapital"`
	Population        int                     `json:"population"`
	FoodStored        int                     `json:"foodStored"`
	Level             int                     `json:"level"`
	Health            int                     `json:"health"`
	MaxHealth         int                     `json:"maxHealth"`
	Queue             []ProductionItem        `json:"queue"`
	PendingMilestones []int                   `json:"pendingMilestones"`
	MilestoneChoices  map[int]MilestoneChoice `json:"milestoneChoices"`
	Buildings         []BuildingID            `json:"buildings"`
	Bonus             Yields                  `json:"bonus"`
	Founded           int                     `json:"founded"`
}

// HasBuilding reports whether b has been completed here.
func (s *Settlement) HasBuilding(b BuildingID) bool {
	return slices.Contains(s.Buildings, b)
}

// TradeRoute is a gold-yielding link from one settlement to another.
type TradeRoute struct {
	ID               string  `json:"id"`
	Origin           string  `json:"origin"`
	Destination      string  `json:"destination"`
	Owner            TribeID `json:"owner"`
	Target           TribeID `json:"target"`
	Active           bool    `json:"active"`
	TurnsUntilActive int     `json:"turnsUntilActive"`
	GoldPerTurn      int     `json:"goldPerTurn"`
}

// Proposal is a pending diplomatic offer awaiting a response from Target.
type Proposal struct {
	Proposer TribeID `json:"proposer"`
	Target   TribeID `json:"target"`
	Turn     int     `json:"turn"`
}

// PendingMint is a completed unit waiting for its rarity roll.
type PendingMint struct {
	ID         string   `json:"id"`
	Owner      TribeID  `json:"owner"`
	Settlement string   `json:"settlement"`
	UnitType   UnitType `json:"unitType"`
	Nonce      uint64   `json:"nonce"`
	Turn       int      `json:"turn"`
}

// RewardKind classifies lootbox contents.
type RewardKind string

const (
	RewardGold       RewardKind = "gold"
	RewardBuff       RewardKind = "buff"
	RewardHeal       RewardKind = "heal"
	RewardExperience RewardKind = "experience"
)

// Reward is what a lootbox grants when claimed.
type Reward struct {
	Kind   RewardKind `json:"kind"`
	Amount int        `json:"amount"`
	Yield  YieldType  `json:"yield,omitempty"`
	Turns  int        `json:"turns,omitempty"`
}

// Lootbox is a neutral pickup claimed by the first unit to enter its tile.
type Lootbox struct {
	ID       string `json:"id"`
	Position Hex    `json:"position"`
	Claimed  bool   `json:"claimed"`
	Reward   Reward `json:"reward"`
}

// BarbarianCamp spawns hostile units until a player unit clears it.
type BarbarianCamp struct {
	ID        string `json:"id"`
	Position  Hex    `json:"position"`
	Cleared   bool   `json:"cleared"`
	LastSpawn int    `json:"lastSpawn"`
}

// TribePair is an unordered pair of tribes, stored with A < B.
type TribePair struct {
	A TribeID
	B TribeID
}

// PairOf returns the canonical pair for two tribes.
func PairOf(a, b TribeID) TribePair {
	if b < a {
		a, b = b, a
	}
	return TribePair{A: a, B: b}
}

// MarshalText encodes the pair as "a|b" so it can key JSON objects.
func (p TribePair) MarshalText() ([]byte, error) {
	return []byte(string(p.A) + "|" + string(p.B)), nil
}

// UnmarshalText parses the "a|b" form.
func (p *TribePair) UnmarshalText(b []byte) error {
	a, c, ok := strings.Cut(string(b), "|")
	if !ok {
		return fmt.Errorf("tribe pair %q: missing separator", b)
	}
	*p = PairOf(TribeID(a), TribeID(c))
	return nil
}

// Relation is the diplomatic state between two tribes.
type Relation struct {
	War    bool `json:"war"`
	Allied bool `json:"allied"`
	Since  int  `json:"since"`
}

// Player returns the player for a tribe, or nil.
func (gs *GameState) Player(t TribeID) *Player {
	for i := range gs.Players {
		if gs.Players[i].Tribe == t {
			return &gs.Players[i]
		}
	}
	return nil
}

// Current returns the player whose turn it is.
func (gs *GameState) Current() *Player {
	return gs.Player(gs.CurrentPlayer)
}

// UnitAt returns the unit on h, if any.
func (gs *GameState) UnitAt(h Hex) (Unit, bool) {
	for _, u := range gs.Units {
		if u.Position == h {
			return u, true
		}
	}
	return Unit{}, false
}

// SettlementAt returns the settlement centered on h, if any.
func (gs *GameState) SettlementAt(h Hex) (Settlement, bool) {
	for _, s := range gs.Settlements {
		if s.Position == h {
			return s, true
		}
	}
	return Settlement{}, false
}

// UnitIDs returns every unit id in creation order.
func (gs *GameState) UnitIDs() []string {
	return sortedIDs(gs.Units)
}

// SettlementIDs returns every settlement id in creation order.
func (gs *GameState) SettlementIDs() []string {
	return sortedIDs(gs.Settlements)
}

// UnitsOf returns a tribe's units in creation order.
func (gs *GameState) UnitsOf(t TribeID) []Unit {
	var out []Unit
	for _, id := range gs.UnitIDs() {
		if u := gs.Units[id]; u.Owner == t {
			out = append(out, u)
		}
	}
	return out
}

// SettlementsOf returns a tribe's settlements in creation order.
func (gs *GameState) SettlementsOf(t TribeID) []Settlement {
	var out []Settlement
	for _, id := range gs.SettlementIDs() {
		if s := gs.Settlements[id]; s.Owner == t {
			out = append(out, s)
		}
	}
	return out
}

// Alive reports whether a tribe still has a settlement or a unit.
func (gs *GameState) Alive(t TribeID) bool {
	for _, s := range gs.Settlements {
		if s.Owner == t {
			return true
		}
	}
	for _, u := range gs.Units {
		if u.Owner == t {
			return true
		}
	}
	return false
}

func (gs *GameState) relation(a, b TribeID) Relation {
	return gs.Relations[PairOf(a, b)]
}

func (gs *GameState) setRelation(a, b TribeID, r Relation) {
	gs.Relations[PairOf(a, b)] = r
}

// newID mints the next entity id with the given prefix.
func (gs *GameState) newID(prefix string) string {
	gs.NextID++
	return prefix + strconv.Itoa(gs.NextID)
}

// sortedIDs orders ids like "u2" before "u10".
func sortedIDs[V any](m map[string]V) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, compareID)
	return ids
}

func compareID(a, b string) int {
	if len(a) != len(b) {
		return len(a) - len(b)
	}
	return strings.Compare(a, b)
}

// Clone returns a deep copy. Mutations to the clone never reach gs, which
// lets the reducer and speculative bots work on copies freely.
func (gs *GameState) Clone() *GameState {
	c := *gs
	c.Map = gs.Map.clone()
	c.Players = make([]Player, len(gs.Players))
	for i, p := range gs.Players {
		c.Players[i] = p.clone()
	}
	c.Units = make(map[string]Unit, len(gs.Units))
	for id, u := range gs.Units {
		u.Promotions = slices.Clone(u.Promotions)
		c.Units[id] = u
	}
	c.Settlements = make(map[string]Settlement, len(gs.Settlements))
	for id, s := range gs.Settlements {
		c.Settlements[id] = s.clone()
	}
	c.Fog = make(map[TribeID]map[Hex]bool, len(gs.Fog))
	for t, f := range gs.Fog {
		c.Fog[t] = maps.Clone(f)
	}
	c.Lootboxes = slices.Clone(gs.Lootboxes)
	c.BarbarianCamps = slices.Clone(gs.BarbarianCamps)
	c.TradeRoutes = slices.Clone(gs.TradeRoutes)
	c.PendingPeaceProposals = slices.Clone(gs.PendingPeaceProposals)
	c.PendingAllianceProposals = slices.Clone(gs.PendingAllianceProposals)
	c.PendingMints = slices.Clone(gs.PendingMints)
	c.Relations = maps.Clone(gs.Relations)
	c.FloorPrices = maps.Clone(gs.FloorPrices)
	c.Wonders = maps.Clone(gs.Wonders)
	if c.Relations == nil {
		c.Relations = make(map[TribePair]Relation)
	}
	if c.FloorPrices == nil {
		c.FloorPrices = make(map[TribeID]int)
	}
	if c.Wonders == nil {
		c.Wonders = make(map[WonderID]string)
	}
	return &c
}

func (p Player) clone() Player {
	p.PartialResearch = maps.Clone(p.PartialResearch)
	p.PartialCulture = maps.Clone(p.PartialCulture)
	p.Techs = maps.Clone(p.Techs)
	p.Cultures = maps.Clone(p.Cultures)
	p.PolicySlots = maps.Clone(p.PolicySlots)
	p.ActivePolicies = slices.Clone(p.ActivePolicies)
	p.Buffs = slices.Clone(p.Buffs)
	if p.Techs == nil {
		p.Techs = make(map[TechID]bool)
	}
	if p.Cultures == nil {
		p.Cultures = make(map[CultureID]bool)
	}
	if p.PolicySlots == nil {
		p.PolicySlots = make(map[PolicyCategory]int)
	}
	if p.PartialResearch == nil {
		p.PartialResearch = make(map[TechID]int)
	}
	if p.PartialCulture == nil {
		p.PartialCulture = make(map[CultureID]int)
	}
	return p
}

func (s Settlement) clone() Settlement {
	s.Queue = slices.Clone(s.Queue)
	s.PendingMilestones = slices.Clone(s.PendingMilestones)
	s.MilestoneChoices = maps.Clone(s.MilestoneChoices)
	s.Buildings = slices.Clone(s.Buildings)
	if s.MilestoneChoices == nil {
		s.MilestoneChoices = make(map[int]MilestoneChoice)
	}
	return s
}
