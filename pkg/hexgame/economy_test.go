package hexgame

import (
	"errors"
	"testing"
)

func TestSettlementCenterFloor(t *testing.T) {
	gs := testState(Desert)
	sid := addSettlement(gs, Ember, at(4, 3), 1)
	y := SettlementYields(gs, sid)
	// Desert yields nothing, so only the center floor and capital bonus count.
	if y.Food != 2 || y.Production != 1 {
		t.Errorf("yields = %+v, want 2 food 1 production", y)
	}
	if y.Gold != 1+2 {
		t.Errorf("gold = %d, want 3", y.Gold)
	}
}

func TestProductionTakesCeilTurns(t *testing.T) {
	gs := testState(Hills)
	sid := addSettlement(gs, Ember, at(4, 3), 1)
	addUnit(gs, Tide, Warrior, at(9, 7))
	gs.Player(Ember).Techs[TechPottery] = true

	perTurn := SettlementYields(gs, sid).Production
	if perTurn != 4 {
		t.Fatalf("production = %d, want 4", perTurn)
	}
	cost, _ := itemCost(ProduceBuilding, string(Granary))
	want := (cost + perTurn - 1) / perTurn

	var opt *ProductionOption
	for _, o := range ProductionOptions(gs, sid) {
		if o.Kind == ProduceBuilding && o.ID == string(Granary) {
			opt = &o
		}
	}
	if opt == nil || opt.Turns != want {
		t.Fatalf("granary option = %+v, want %d turns", opt, want)
	}

	gs = mustApply(t, gs, StartProduction{SettlementID: sid, Kind: ProduceBuilding, ItemID: string(Granary)})
	for turn := 1; turn < want; turn++ {
		gs = endRound(t, gs)
		if s := gs.Settlements[sid]; s.HasBuilding(Granary) {
			t.Fatalf("granary finished early on turn %d", turn)
		}
	}
	gs = endRound(t, gs)
	s := gs.Settlements[sid]
	if !s.HasBuilding(Granary) || len(s.Queue) != 0 {
		t.Errorf("granary not finished after %d turns: %+v", want, s.Queue)
	}
}

func TestProductionPrerequisites(t *testing.T) {
	gs := testState(Grassland)
	sid := addSettlement(gs, Ember, at(4, 3), 1)
	addUnit(gs, Tide, Warrior, at(9, 7))
	err := mustReject(t, gs, StartProduction{SettlementID: sid, Kind: ProduceUnit, ItemID: string(Archer)})
	if !errors.Is(err, ErrPrerequisite) {
		t.Errorf("err = %v, want ErrPrerequisite", err)
	}
	err = mustReject(t, gs, StartProduction{SettlementID: sid, Kind: ProduceUnit, ItemID: "dragon"})
	if !errors.Is(err, ErrInvalidChoice) {
		t.Errorf("err = %v, want ErrInvalidChoice", err)
	}
	for i := 0; i < MaxQueueLength; i++ {
		gs = mustApply(t, gs, StartProduction{SettlementID: sid, Kind: ProduceUnit, ItemID: string(Warrior)})
	}
	err = mustReject(t, gs, StartProduction{SettlementID: sid, Kind: ProduceUnit, ItemID: string(Warrior)})
	if !errors.Is(err, ErrCapacity) {
		t.Errorf("err = %v, want ErrCapacity", err)
	}
	if gs.Finished {
		t.Fatal("game ended while tide still holds a unit")
	}
	gs = mustApply(t, gs, CancelProduction{SettlementID: sid, Index: 0})
	if n := len(gs.Settlements[sid].Queue); n != MaxQueueLength-1 {
		t.Errorf("queue length = %d", n)
	}
}

func TestMintableUnitBecomesPendingMint(t *testing.T) {
	gs := testState(Hills)
	sid := addSettlement(gs, Ember, at(4, 3), 1)
	addUnit(gs, Tide, Warrior, at(9, 7))
	gs = mustApply(t, gs, StartProduction{SettlementID: sid, Kind: ProduceUnit, ItemID: string(Warrior)})
	for i := 0; i < 10; i++ {
		gs = endRound(t, gs)
	}
	mints := PendingMints(gs, Ember)
	if len(mints) != 1 || mints[0].UnitType != Warrior {
		t.Fatalf("pending mints = %+v", mints)
	}
	if len(gs.UnitsOf(Ember)) != 0 {
		t.Fatal("mintable unit spawned before its roll")
	}

	err := mustReject(t, gs, MintUnit{MintID: mints[0].ID, Rarity: Rarity(9)})
	if !errors.Is(err, ErrInvalidChoice) {
		t.Errorf("err = %v, want ErrInvalidChoice", err)
	}
	gs = mustApply(t, gs, MintUnit{MintID: mints[0].ID, Rarity: Epic})
	units := gs.UnitsOf(Ember)
	if len(units) != 1 || units[0].Rarity != Epic || units[0].Position != at(4, 3) {
		t.Errorf("minted units = %+v", units)
	}
	if len(PendingMints(gs, Ember)) != 0 {
		t.Error("mint not consumed")
	}
}

func TestMilestoneIsPermanent(t *testing.T) {
	gs := testState(Grassland)
	sid := addSettlement(gs, Ember, at(4, 3), 2)
	addUnit(gs, Tide, Warrior, at(9, 7))
	s := gs.Settlements[sid]
	s.FoodStored = growthThreshold(2) - 1
	gs.Settlements[sid] = s

	gs = endRound(t, gs)
	if got := gs.Settlements[sid].Population; got != 3 {
		t.Fatalf("population = %d, want 3", got)
	}
	if got := PendingMilestones(gs, sid); len(got) != 1 || got[0] != 1 {
		t.Fatalf("pending milestones = %v, want [1]", got)
	}

	before := SettlementYields(gs, sid).Production
	gs = mustApply(t, gs, SelectMilestone{SettlementID: sid, Level: 1, Choice: ChoiceA})
	if got := SettlementYields(gs, sid).Production; got != before+2 {
		t.Errorf("production = %d, want %d", got, before+2)
	}

	err := mustReject(t, gs, SelectMilestone{SettlementID: sid, Level: 1, Choice: ChoiceB})
	if !errors.Is(err, ErrAlreadyDone) {
		t.Errorf("err = %v, want ErrAlreadyDone", err)
	}
	err = mustReject(t, gs, SelectMilestone{SettlementID: sid, Level: 2, Choice: ChoiceA})
	if !errors.Is(err, ErrInvalidChoice) {
		t.Errorf("err = %v, want ErrInvalidChoice", err)
	}
}
