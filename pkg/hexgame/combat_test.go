package hexgame

import (
	"errors"
	"reflect"
	"testing"
)

func TestDamageCurve(t *testing.T) {
	cases := []struct {
		atk, def     int
		toDef, toAtk int
	}{
		{10, 8, 32, 27},
		{8, 10, 27, 32},
		{20, 20, 30, 30},
		{5, 5, 30, 30},
	}
	for _, c := range cases {
		toDef, toAtk := exchange(StrengthBreakdown{Total: c.atk}, StrengthBreakdown{Total: c.def}, false)
		if toDef != c.toDef || toAtk != c.toAtk {
			t.Errorf("%d vs %d: damage %d/%d, want %d/%d", c.atk, c.def, toDef, toAtk, c.toDef, c.toAtk)
		}
	}
	if damageFor(-100) < 1 {
		t.Error("damage must be at least 1")
	}
	if damageFor(100) != damageFor(maxStrengthGap) {
		t.Error("strength gap should clamp")
	}
	_, ranged := exchange(StrengthBreakdown{Total: 10}, StrengthBreakdown{Total: 8}, true)
	if ranged != 27/2 {
		t.Errorf("ranged counter damage = %d, want %d", ranged, 27/2)
	}
}

func TestAttackRequiresWar(t *testing.T) {
	gs := testState(Grassland)
	c := at(4, 3)
	atk := addUnit(gs, Ember, Warrior, c)
	def := addUnit(gs, Tide, Warrior, c.Neighbor(East))

	err := mustReject(t, gs, Attack{UnitID: atk, TargetUnitID: def})
	if !errors.Is(err, ErrNotAtWar) {
		t.Fatalf("err = %v, want ErrNotAtWar", err)
	}

	gs = mustApply(t, gs, DeclareWar{Target: Tide})
	if !AtWar(gs, Ember, Tide) {
		t.Fatal("not at war after DeclareWar")
	}
	before := mustJSON(t, gs)
	preview, ok := PreviewCombat(gs, atk, def)
	if !ok {
		t.Fatal("no preview")
	}
	if mustJSON(t, gs) != before {
		t.Error("preview mutated state")
	}
	if again, _ := PreviewCombat(gs, atk, def); !reflect.DeepEqual(again, preview) {
		t.Errorf("repeated preview differs: %+v vs %+v", again, preview)
	}
	// Ember's melee bonus makes this 22 against 20.
	if preview.Attacker.Total != 22 || preview.Defender.Total != 20 {
		t.Errorf("strength %d vs %d, want 22 vs 20", preview.Attacker.Total, preview.Defender.Total)
	}

	next := mustApply(t, gs, Attack{UnitID: atk, TargetUnitID: def})
	a, d := next.Units[atk], next.Units[def]
	if a.Health != preview.AttackerHealthAfter || d.Health != preview.DefenderHealthAfter {
		t.Errorf("resolution %d/%d differs from preview %d/%d", a.Health, d.Health, preview.AttackerHealthAfter, preview.DefenderHealthAfter)
	}
	if d.Health != 100-32 || a.Health != 100-27 {
		t.Errorf("health after = %d/%d, want 73/68", a.Health, d.Health)
	}
	if !a.HasActed || a.Experience != xpAttack || d.Experience != xpDefend {
		t.Errorf("attacker %+v defender %+v", a, d)
	}

	err = mustReject(t, next, Attack{UnitID: atk, TargetUnitID: def})
	if !errors.Is(err, ErrAlreadyDone) {
		t.Errorf("second attack err = %v, want ErrAlreadyDone", err)
	}
}

func TestRangedAttackHalvesCounter(t *testing.T) {
	gs := testState(Grassland)
	c := at(4, 3)
	archer := addUnit(gs, Ember, Archer, c)
	def := addUnit(gs, Tide, Warrior, c.Add(HexDirections[East].Scale(2)))
	gs = mustApply(t, gs, DeclareWar{Target: Tide})

	preview, _ := PreviewCombat(gs, archer, def)
	if !preview.Ranged {
		t.Fatal("archer attack should be ranged")
	}
	diff := preview.Attacker.Total - preview.Defender.Total
	if preview.DamageToAttacker != damageFor(-diff)/2 {
		t.Errorf("counter damage = %d, want %d", preview.DamageToAttacker, damageFor(-diff)/2)
	}
	next := mustApply(t, gs, Attack{UnitID: archer, TargetUnitID: def})
	if next.Units[archer].Position != c {
		t.Error("ranged attacker moved")
	}
}

func TestMeleeKillAdvances(t *testing.T) {
	gs := testState(Grassland)
	c := at(4, 3)
	atk := addUnit(gs, Ember, Warrior, c)
	target := c.Neighbor(East)
	def := addUnit(gs, Tide, Warrior, target)
	addUnit(gs, Tide, Scout, at(8, 7))
	d := gs.Units[def]
	d.Health = 5
	gs.Units[def] = d
	gs = mustApply(t, gs, DeclareWar{Target: Tide})

	next := mustApply(t, gs, Attack{UnitID: atk, TargetUnitID: def})
	if _, alive := next.Units[def]; alive {
		t.Fatal("defender survived")
	}
	if next.Units[atk].Position != target {
		t.Error("melee attacker did not advance")
	}
	if next.Player(Ember).Kills != 1 {
		t.Error("kill not credited")
	}
}

func TestCaptureSettlementEndsGame(t *testing.T) {
	gs := testState(Grassland)
	c := at(4, 3)
	atk := addUnit(gs, Ember, Warrior, c)
	sid := addSettlement(gs, Tide, c.Neighbor(East), 1)
	s := gs.Settlements[sid]
	s.Health = 1
	gs.Settlements[sid] = s

	err := mustReject(t, gs, AttackSettlement{UnitID: atk, SettlementID: sid})
	if !errors.Is(err, ErrNotAtWar) {
		t.Fatalf("err = %v, want ErrNotAtWar", err)
	}
	gs = mustApply(t, gs, DeclareWar{Target: Tide})
	preview, _ := PreviewSettlementCombat(gs, atk, sid)
	if !preview.Captures {
		t.Fatalf("preview should capture: %+v", preview)
	}

	next := mustApply(t, gs, AttackSettlement{UnitID: atk, SettlementID: sid})
	got := next.Settlements[sid]
	if got.Owner != Ember || !got.IsCapital || got.Health != settlementMaxHealth/4 {
		t.Errorf("captured settlement = %+v", got)
	}
	if next.Units[atk].Position != got.Position {
		t.Error("attacker did not move in")
	}
	if !next.Finished || next.Winner != Ember {
		t.Errorf("finished=%t winner=%q", next.Finished, next.Winner)
	}
	err = mustReject(t, next, EndTurn{})
	if !errors.Is(err, ErrGameOver) {
		t.Errorf("err = %v, want ErrGameOver", err)
	}
}

func TestGarrisonedSettlementCannotBeAttacked(t *testing.T) {
	gs := testState(Grassland)
	c := at(4, 3)
	atk := addUnit(gs, Ember, Warrior, c)
	sid := addSettlement(gs, Tide, c.Neighbor(East), 1)
	addUnit(gs, Tide, Warrior, c.Neighbor(East))
	gs = mustApply(t, gs, DeclareWar{Target: Tide})

	if got := ValidSettlementTargets(gs, atk); len(got) != 0 {
		t.Errorf("settlement targets = %v, want none", got)
	}
	err := mustReject(t, gs, AttackSettlement{UnitID: atk, SettlementID: sid})
	if !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("err = %v, want ErrInvalidTarget", err)
	}
}

func TestBarbariansAlwaysHostile(t *testing.T) {
	gs := testState(Grassland)
	if !AtWar(gs, Ember, Barbarian) || Allied(gs, Ember, Barbarian) {
		t.Error("barbarians must be hostile")
	}
	err := mustReject(t, gs, DeclareWar{Target: Barbarian})
	if !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("err = %v, want ErrInvalidTarget", err)
	}
}
