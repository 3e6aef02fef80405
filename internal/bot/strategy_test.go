package bot

import (
	"reflect"
	"testing"

	"github.com/freeeve/hexfrontier/pkg/hexgame"
)

func newBotGame(t *testing.T, seed int64) *hexgame.GameState {
	t.Helper()
	gs, err := hexgame.CreateInitialState(hexgame.Config{
		Seed:     seed,
		AITribes: []hexgame.TribeID{hexgame.Ember, hexgame.Tide, hexgame.Grove},
		MaxTurns: 30,
	})
	if err != nil {
		t.Fatalf("create state: %v", err)
	}
	return gs
}

func TestStrategyForDifficulty(t *testing.T) {
	for _, d := range Difficulties {
		if got := StrategyForDifficulty(d).Name(); got != d {
			t.Errorf("difficulty %q: got strategy %q", d, got)
		}
	}
	if got := StrategyForDifficulty("").Name(); got != "easy" {
		t.Errorf("empty difficulty: got %q, want easy", got)
	}
	if got := StrategyForDifficulty("nightmare").Name(); got != "easy" {
		t.Errorf("unknown difficulty: got %q, want easy", got)
	}
}

func TestStrategiesEndWithEndTurn(t *testing.T) {
	gs := newBotGame(t, 3)
	for _, d := range Difficulties {
		actions := StrategyForDifficulty(d).GenerateActions(gs, hexgame.Ember)
		if len(actions) == 0 {
			t.Fatalf("%s: no actions", d)
		}
		if _, ok := actions[len(actions)-1].(hexgame.EndTurn); !ok {
			t.Errorf("%s: last action is %s, want end_turn", d, actions[len(actions)-1].Type())
		}
	}
}

func TestStrategyActionsReplayCleanly(t *testing.T) {
	gs := newBotGame(t, 9)
	for _, d := range Difficulties {
		cur := gs
		for i, a := range StrategyForDifficulty(d).GenerateActions(gs, hexgame.Ember) {
			res := hexgame.ApplyAction(cur, a)
			if !res.Success {
				t.Fatalf("%s: action %d (%s) rejected: %v", d, i, a.Type(), res.Err)
			}
			cur = res.State
		}
		if cur.CurrentPlayer != hexgame.Tide {
			t.Errorf("%s: current player %s after turn, want tide", d, cur.CurrentPlayer)
		}
	}
}

func TestStrategyDoesNotMutateState(t *testing.T) {
	gs := newBotGame(t, 4)
	before := newBotGame(t, 4)
	for _, d := range Difficulties {
		StrategyForDifficulty(d).GenerateActions(gs, hexgame.Ember)
	}
	if !reflect.DeepEqual(before, gs) {
		t.Error("GenerateActions mutated the input state")
	}
}

func TestStrategyIsDeterministic(t *testing.T) {
	gs := newBotGame(t, 12)
	for _, d := range []string{"easy", "hard", "random"} {
		s := StrategyForDifficulty(d)
		a, b := s.GenerateActions(gs, hexgame.Ember), s.GenerateActions(gs, hexgame.Ember)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("%s: two runs on the same state differ", d)
		}
	}
}

func TestStrategyOutOfTurnOnlyEnds(t *testing.T) {
	gs := newBotGame(t, 5)
	for _, d := range Difficulties {
		actions := StrategyForDifficulty(d).GenerateActions(gs, hexgame.Tide)
		if len(actions) != 1 {
			t.Errorf("%s: got %d actions out of turn, want 1", d, len(actions))
			continue
		}
		if _, ok := actions[0].(hexgame.EndTurn); !ok {
			t.Errorf("%s: out-of-turn action is %s", d, actions[0].Type())
		}
	}
}

func TestHeuristicFoundsFirstSettlement(t *testing.T) {
	gs := newBotGame(t, 21)
	cur := gs
	var s HeuristicStrategy
	for _, a := range s.GenerateActions(gs, hexgame.Ember) {
		if res := hexgame.ApplyAction(cur, a); res.Success {
			cur = res.State
		}
	}
	if n := len(cur.SettlementsOf(hexgame.Ember)); n != 1 {
		t.Errorf("ember has %d settlements after its first turn, want 1", n)
	}
}
