package hexgame

import (
	"errors"
	"slices"
	"testing"
)

func TestReachableOpenGround(t *testing.T) {
	gs := testState(Grassland)
	c := at(4, 3)
	id := addUnit(gs, Ember, Warrior, c)

	got := ReachableHexes(gs, id)
	want := Range(c, 2)
	slices.SortFunc(want, compareHex)
	if !slices.Equal(got, want) {
		t.Fatalf("reachable = %v\nwant %v", got, want)
	}
	if rem := ReachableCosts(gs, id)[c]; rem != 2 {
		t.Errorf("own tile remaining = %d, want 2", rem)
	}
}

func TestReachableBlockedByForeignUnit(t *testing.T) {
	gs := testState(Grassland)
	c := at(4, 3)
	id := addUnit(gs, Ember, Warrior, c)
	blocker := c.Neighbor(East)
	addUnit(gs, Tide, Warrior, blocker)

	costs := ReachableCosts(gs, id)
	if _, ok := costs[blocker]; ok {
		t.Error("foreign unit tile should not be reachable")
	}
	if len(costs) != 17 {
		t.Errorf("reachable count = %d, want 17", len(costs))
	}
}

func TestReachablePassThroughOwnUnit(t *testing.T) {
	gs := testState(Ocean)
	// A one-tile-wide corridor: c, c+E, c+2E.
	c := at(2, 3)
	for i := 0; i < 3; i++ {
		gs.Map.Tiles[c.Add(HexDirections[East].Scale(i))] = Tile{Terrain: Grassland}
	}
	id := addUnit(gs, Ember, Warrior, c)
	friend := c.Neighbor(East)
	addUnit(gs, Ember, Scout, friend)

	costs := ReachableCosts(gs, id)
	if _, ok := costs[friend]; ok {
		t.Error("cannot end on an own unit")
	}
	far := c.Add(HexDirections[East].Scale(2))
	if rem, ok := costs[far]; !ok || rem != 0 {
		t.Errorf("tile past own unit: reachable=%t remaining=%d", ok, rem)
	}
}

func TestRoughTerrainCost(t *testing.T) {
	gs := testState(Forest)
	c := at(4, 3)
	id := addUnit(gs, Ember, Warrior, c)
	got := ReachableHexes(gs, id)
	want := Range(c, 1)
	slices.SortFunc(want, compareHex)
	if !slices.Equal(got, want) {
		t.Errorf("forest reach = %v, want adjacent ring only", got)
	}
}

func TestMoveUnit(t *testing.T) {
	gs := testState(Grassland)
	c := at(4, 3)
	id := addUnit(gs, Ember, Warrior, c)
	addUnit(gs, Tide, Warrior, at(9, 7))
	dest := c.Add(HexDirections[East].Scale(2))

	next := mustApply(t, gs, MoveUnit{UnitID: id, To: dest})
	if next.Finished {
		t.Fatal("game ended while tide still holds a unit")
	}
	u := next.Units[id]
	if u.Position != dest || u.MovementRemaining != 0 || !u.Moved {
		t.Errorf("after move: %+v", u)
	}
	if gs.Units[id].Position != c {
		t.Error("input state was mutated")
	}

	far := c.Add(HexDirections[East].Scale(3))
	err := mustReject(t, gs, MoveUnit{UnitID: id, To: far})
	if !errors.Is(err, ErrUnreachable) {
		t.Errorf("err = %v, want ErrUnreachable", err)
	}

	next.CurrentPlayer = Tide
	err = mustReject(t, next, MoveUnit{UnitID: id, To: c})
	if !errors.Is(err, ErrNotOwner) {
		t.Errorf("err = %v, want ErrNotOwner", err)
	}
}

func TestMoveClaimsLootbox(t *testing.T) {
	gs := testState(Grassland)
	c := at(4, 3)
	id := addUnit(gs, Ember, Warrior, c)
	addUnit(gs, Tide, Warrior, at(9, 7))
	box := c.Neighbor(West)
	gs.Lootboxes = []Lootbox{{ID: "l1", Position: box, Reward: Reward{Kind: RewardGold, Amount: 30}}}

	next := mustApply(t, gs, MoveUnit{UnitID: id, To: box})
	if next.Finished {
		t.Fatal("game ended while tide still holds a unit")
	}
	if !next.Lootboxes[0].Claimed {
		t.Error("lootbox not claimed")
	}
	if got := next.Player(Ember).Treasury; got != 30 {
		t.Errorf("treasury = %d, want 30", got)
	}
	if gs.Lootboxes[0].Claimed {
		t.Error("input lootbox mutated")
	}
}

func TestValidTargetsIgnoresWar(t *testing.T) {
	gs := testState(Grassland)
	c := at(4, 3)
	id := addUnit(gs, Ember, Warrior, c)
	near := addUnit(gs, Tide, Warrior, c.Neighbor(East))
	addUnit(gs, Tide, Warrior, c.Add(HexDirections[West].Scale(2)))
	archer := addUnit(gs, Ember, Archer, c.Add(HexDirections[SouthEast].Scale(2)))

	if got := ValidTargets(gs, id); !slices.Equal(got, []string{near}) {
		t.Errorf("melee targets = %v, want [%s]", got, near)
	}
	if got := ValidTargets(gs, archer); len(got) != 1 {
		t.Errorf("archer targets = %v", got)
	}
}
