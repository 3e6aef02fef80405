package bot

import (
	"math/rand"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/hexfrontier/pkg/hexgame"
)

// Strategy generates the actions for one non-human tribe's turn.
// Implementations must not mutate gs and must end the list with EndTurn.
type Strategy interface {
	Name() string
	GenerateActions(gs *hexgame.GameState, tribe hexgame.TribeID) []hexgame.Action
}

// Difficulties lists the names StrategyForDifficulty understands.
var Difficulties = []string{"easy", "hard", "random", "pass"}

// StrategyForDifficulty returns the strategy for a bot difficulty level.
// Unknown levels fall back to easy.
func StrategyForDifficulty(difficulty string) Strategy {
	switch difficulty {
	case "easy", "":
		return HeuristicStrategy{}
	case "hard":
		return HardStrategy{}
	case "random":
		return RandomStrategy{}
	case "pass":
		return PassStrategy{}
	default:
		log.Warn().Str("difficulty", difficulty).Msg("bot: unknown difficulty; falling back to easy")
		return HeuristicStrategy{}
	}
}

// plan accumulates actions against a speculative copy of the game so later
// decisions see the effect of earlier ones.
type plan struct {
	gs      *hexgame.GameState
	tribe   hexgame.TribeID
	rng     *rand.Rand
	actions []hexgame.Action
}

func newPlan(gs *hexgame.GameState, tribe hexgame.TribeID) *plan {
	return &plan{gs: gs, tribe: tribe, rng: turnRand(gs, tribe)}
}

// try applies a to the speculative state and keeps it only if it succeeds.
func (p *plan) try(a hexgame.Action) bool {
	if _, ok := a.(hexgame.EndTurn); ok {
		return false
	}
	res := hexgame.ApplyAction(p.gs, a)
	if !res.Success {
		return false
	}
	p.gs = res.State
	p.actions = append(p.actions, a)
	return true
}

func (p *plan) unit(id string) (hexgame.Unit, bool) {
	u, ok := p.gs.Units[id]
	return u, ok && u.Owner == p.tribe
}

func (p *plan) finish() []hexgame.Action {
	return append(p.actions, hexgame.EndTurn{})
}

// ownTurn reports whether tribe may act in gs.
func ownTurn(gs *hexgame.GameState, tribe hexgame.TribeID) bool {
	return gs != nil && !gs.Finished && gs.CurrentPlayer == tribe
}

// --- PassStrategy ---

// PassStrategy ends every turn immediately.
type PassStrategy struct{}

func (PassStrategy) Name() string { return "pass" }

func (PassStrategy) GenerateActions(_ *hexgame.GameState, _ hexgame.TribeID) []hexgame.Action {
	return []hexgame.Action{hexgame.EndTurn{}}
}

// --- RandomStrategy ---

// RandomStrategy issues random legal actions. It exists to shake out
// reducer edge cases in arena runs.
type RandomStrategy struct{}

func (RandomStrategy) Name() string { return "random" }

// GenerateActions moves each unit to a random reachable tile (or founds,
// ~30% of the time for settlers), queues random production, and picks
// random research and culture.
func (RandomStrategy) GenerateActions(gs *hexgame.GameState, tribe hexgame.TribeID) []hexgame.Action {
	if !ownTurn(gs, tribe) {
		return []hexgame.Action{hexgame.EndTurn{}}
	}
	p := newPlan(gs, tribe)

	if techs := hexgame.AvailableTechs(p.gs, tribe); len(techs) > 0 && p.gs.Player(tribe).CurrentResearch == "" {
		p.try(hexgame.StartResearch{Tech: techs[p.rng.Intn(len(techs))]})
	}
	if cs := hexgame.AvailableCultures(p.gs, tribe); len(cs) > 0 && p.gs.Player(tribe).CurrentCulture == "" {
		p.try(hexgame.StartCulture{Culture: cs[p.rng.Intn(len(cs))]})
	}

	for _, u := range shuffled(p.rng, p.gs.UnitsOf(tribe)) {
		if u.Type == hexgame.Settler && p.rng.Float64() < 0.3 && p.try(hexgame.FoundSettlement{UnitID: u.ID}) {
			continue
		}
		if targets := hexgame.ValidTargets(p.gs, u.ID); len(targets) > 0 && p.rng.Float64() < 0.5 {
			if p.try(hexgame.Attack{UnitID: u.ID, TargetUnitID: targets[p.rng.Intn(len(targets))]}) {
				continue
			}
		}
		hexes := hexgame.ReachableHexes(p.gs, u.ID)
		for _, i := range p.rng.Perm(len(hexes)) {
			if hexes[i] != u.Position && p.try(hexgame.MoveUnit{UnitID: u.ID, To: hexes[i]}) {
				break
			}
		}
	}

	for _, s := range p.gs.SettlementsOf(tribe) {
		if len(s.Queue) > 0 {
			continue
		}
		if opts := hexgame.ProductionOptions(p.gs, s.ID); len(opts) > 0 {
			o := opts[p.rng.Intn(len(opts))]
			p.try(hexgame.StartProduction{SettlementID: s.ID, Kind: o.Kind, ItemID: o.ID})
		}
	}
	return p.finish()
}
