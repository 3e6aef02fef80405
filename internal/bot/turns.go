package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/hexfrontier/internal/rarity"
	"github.com/freeeve/hexfrontier/pkg/hexgame"
)

// DefaultTurnCap bounds the AI turns a single RunAITurns call may play.
const DefaultTurnCap = 64

// ErrTurnCap is returned when RunAITurns stops at its iteration cap.
var ErrTurnCap = errors.New("ai turn cap reached")

// TurnConfig configures RunAITurns.
type TurnConfig struct {
	Strategies map[hexgame.TribeID]Strategy // per-tribe override
	Default    Strategy                     // used for tribes without an override; nil means easy
	Rarity     rarity.Source                // resolves AI mints; nil leaves them pending
	Cap        int                          // 0 means DefaultTurnCap
}

func (c TurnConfig) strategyFor(t hexgame.TribeID) Strategy {
	if s, ok := c.Strategies[t]; ok && s != nil {
		return s
	}
	if c.Default != nil {
		return c.Default
	}
	return HeuristicStrategy{}
}

// TurnReport summarises what RunAITurns did.
type TurnReport struct {
	Turns    int `json:"turns"`    // AI turns ended
	Applied  int `json:"applied"`  // actions accepted, end turns included
	Rejected int `json:"rejected"` // actions the reducer refused
	Minted   int `json:"minted"`
	Forced   int `json:"forced"` // turns the driver had to end itself
}

// Add accumulates another report into r.
func (r *TurnReport) Add(o TurnReport) {
	r.Turns += o.Turns
	r.Applied += o.Applied
	r.Rejected += o.Rejected
	r.Minted += o.Minted
	r.Forced += o.Forced
}

// RunAITurns plays non-human turns until a human is to move, the game ends,
// or the cap is hit. Each batch from a strategy is applied in order and cut
// at its first successful EndTurn; a batch that never ends the turn is ended
// by the driver. The returned state is always valid, even with an error.
func RunAITurns(ctx context.Context, gs *hexgame.GameState, cfg TurnConfig) (*hexgame.GameState, TurnReport, error) {
	var rep TurnReport
	limit := cfg.Cap
	if limit <= 0 {
		limit = DefaultTurnCap
	}
	for !gs.Finished {
		cur := gs.Current()
		if cur == nil || cur.Human {
			break
		}
		if rep.Turns >= limit {
			return gs, rep, fmt.Errorf("%w after %d turns (turn %d, %s to move)", ErrTurnCap, rep.Turns, gs.Turn, cur.Tribe)
		}
		if err := ctx.Err(); err != nil {
			return gs, rep, err
		}
		tribe := cur.Tribe
		gs = mintPending(ctx, gs, tribe, cfg.Rarity, &rep)

		s := cfg.strategyFor(tribe)
		ended := false
		for _, a := range s.GenerateActions(gs, tribe) {
			res := hexgame.ApplyAction(gs, a)
			if !res.Success {
				rep.Rejected++
				log.Debug().Err(res.Err).Str("tribe", string(tribe)).Str("action", string(a.Type())).Str("strategy", s.Name()).Msg("bot action rejected")
				continue
			}
			gs = res.State
			rep.Applied++
			if _, ok := a.(hexgame.EndTurn); ok {
				ended = true
				break
			}
			if gs.Finished {
				break
			}
		}
		if !ended && !gs.Finished {
			res := hexgame.ApplyAction(gs, hexgame.EndTurn{})
			if !res.Success {
				return gs, rep, fmt.Errorf("force end turn for %s: %w", tribe, res.Err)
			}
			gs = res.State
			rep.Applied++
			rep.Forced++
		}
		rep.Turns++
	}
	return gs, rep, nil
}

// mintPending resolves the tribe's pending mints through src. Mints that
// cannot be rolled or placed stay pending for a later turn.
func mintPending(ctx context.Context, gs *hexgame.GameState, tribe hexgame.TribeID, src rarity.Source, rep *TurnReport) *hexgame.GameState {
	if src == nil {
		return gs
	}
	for _, m := range hexgame.PendingMints(gs, tribe) {
		r, err := src.Roll(ctx, string(tribe), m.Nonce)
		if err != nil {
			log.Warn().Err(err).Str("tribe", string(tribe)).Str("mintId", m.ID).Uint64("nonce", m.Nonce).Msg("bot mint roll failed")
			continue
		}
		res := hexgame.ApplyAction(gs, hexgame.MintUnit{MintID: m.ID, Rarity: r})
		if !res.Success {
			log.Debug().Err(res.Err).Str("tribe", string(tribe)).Str("mintId", m.ID).Msg("bot mint deferred")
			continue
		}
		gs = res.State
		rep.Minted++
	}
	return gs
}
