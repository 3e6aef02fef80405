package hexgame

import (
	"encoding/json"
	"testing"
)

// testState returns a 10x8 map of one terrain with ember (human, to move)
// and tide at peace. No units, settlements, camps or lootboxes.
func testState(terrain Terrain) *GameState {
	m := NewMap(10, 8)
	for h := range m.Tiles {
		m.Tiles[h] = Tile{Terrain: terrain}
	}
	gs := &GameState{
		Seed:          7,
		Turn:          1,
		MaxTurns:      100,
		CurrentPlayer: Ember,
		Map:           m,
		Players:       []Player{newPlayer(Ember, true), newPlayer(Tide, false)},
		Units:         make(map[string]Unit),
		Settlements:   make(map[string]Settlement),
		Fog:           make(map[TribeID]map[Hex]bool),
		Relations:     map[TribePair]Relation{PairOf(Ember, Tide): {Since: 1}},
		FloorPrices:   make(map[TribeID]int),
		Wonders:       make(map[WonderID]string),
	}
	return gs
}

// at converts offset coordinates for readability in tests.
func at(col, row int) Hex {
	return OffsetToAxial(col, row)
}

func addUnit(gs *GameState, owner TribeID, t UnitType, h Hex) string {
	return spawnUnit(gs, owner, t, h, Common).ID
}

func addSettlement(gs *GameState, owner TribeID, h Hex, pop int) string {
	s := Settlement{
		ID:               gs.newID("s"),
		Owner:            owner,
		Position:         h,
		Name:             settlementName(owner, 0),
		IsCapital:        !hasCapital(gs, owner),
		Population:       pop,
		Level:            milestoneLevel(pop),
		Health:           settlementMaxHealth,
		MaxHealth:        settlementMaxHealth,
		MilestoneChoices: make(map[int]MilestoneChoice),
		Founded:          gs.Turn,
	}
	gs.Settlements[s.ID] = s
	claimTerritory(gs, s)
	return s.ID
}

func mustApply(t *testing.T, gs *GameState, a Action) *GameState {
	t.Helper()
	res := ApplyAction(gs, a)
	if !res.Success {
		t.Fatalf("%s rejected: %v", a.Type(), res.Err)
	}
	return res.State
}

func mustReject(t *testing.T, gs *GameState, a Action) error {
	t.Helper()
	res := ApplyAction(gs, a)
	if res.Success {
		t.Fatalf("%s unexpectedly accepted", a.Type())
	}
	if res.State != gs {
		t.Fatalf("%s: rejected action returned a different state", a.Type())
	}
	return res.Err
}

// endRound ends the turn for every player until control returns to the
// starting player.
func endRound(t *testing.T, gs *GameState) *GameState {
	t.Helper()
	start := gs.CurrentPlayer
	for {
		gs = mustApply(t, gs, EndTurn{})
		if gs.CurrentPlayer == start || gs.Finished {
			return gs
		}
	}
}

func mustJSON(t *testing.T, gs *GameState) string {
	t.Helper()
	b, err := json.Marshal(gs)
	if err != nil {
		t.Fatalf("marshal state: %v", err)
	}
	return string(b)
}
