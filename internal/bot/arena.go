package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/freeeve/hexfrontier/internal/model"
	"github.com/freeeve/hexfrontier/internal/rarity"
	"github.com/freeeve/hexfrontier/internal/repository"
	"github.com/freeeve/hexfrontier/pkg/hexgame"
)

// ArenaConfig configures a single bot-vs-bot match.
type ArenaConfig struct {
	Seed         int64                      // 0 = random
	Tribes       []hexgame.TribeID          // rotation order; empty = first four tribes
	Difficulties map[hexgame.TribeID]string // tribe -> difficulty level
	Default      string                     // difficulty for tribes not listed; empty = easy
	Width        int
	Height       int
	MaxTurns     int
	DryRun       bool // skip DB writes
}

// ArenaResult describes the outcome of a completed arena match.
type ArenaResult struct {
	MatchID      string                     `json:"matchId"`
	Seed         int64                      `json:"seed"`
	Winner       hexgame.TribeID            `json:"winner"`
	Turns        int                        `json:"turns"`
	MaxTurns     int                        `json:"maxTurns"`
	Participants map[hexgame.TribeID]string `json:"participants"`
	FloorPrices  map[hexgame.TribeID]int    `json:"floorPrices"`
	Report       TurnReport                 `json:"report"`
	Duration     time.Duration              `json:"duration"`
}

// RunMatch plays a full match with every tribe under bot control and records
// the result through repo. Pass a nil repo (or DryRun) to skip recording.
func RunMatch(ctx context.Context, cfg ArenaConfig, repo repository.MatchRepository) (*ArenaResult, error) {
	start := time.Now()
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if len(cfg.Tribes) == 0 {
		cfg.Tribes = hexgame.AllTribes()[:4]
	}

	participants := make(map[hexgame.TribeID]string, len(cfg.Tribes))
	strategies := make(map[hexgame.TribeID]Strategy, len(cfg.Tribes))
	for _, t := range cfg.Tribes {
		diff, ok := cfg.Difficulties[t]
		if !ok {
			diff = cfg.Default
		}
		s := StrategyForDifficulty(diff)
		participants[t] = s.Name()
		strategies[t] = s
	}

	gs, err := hexgame.CreateInitialState(hexgame.Config{
		Seed:     cfg.Seed,
		AITribes: cfg.Tribes,
		Width:    cfg.Width,
		Height:   cfg.Height,
		MaxTurns: cfg.MaxTurns,
	})
	if err != nil {
		return nil, fmt.Errorf("create match state: %w", err)
	}

	result := &ArenaResult{
		MatchID:      uuid.NewString(),
		Seed:         cfg.Seed,
		MaxTurns:     gs.MaxTurns,
		Participants: participants,
	}
	logger := log.With().Str("matchId", result.MatchID).Int64("seed", cfg.Seed).Logger()
	logger.Info().Interface("participants", participants).Msg("arena match started")

	// Every player gets one turn per round, plus slack for the final round.
	turnCap := len(cfg.Tribes) * (gs.MaxTurns + 2)
	gs, rep, err := RunAITurns(ctx, gs, TurnConfig{
		Strategies: strategies,
		Rarity:     rarity.NewLocalSource(cfg.Seed),
		Cap:        turnCap,
	})
	result.Report = rep
	if err != nil {
		return nil, fmt.Errorf("play match %s: %w", result.MatchID, err)
	}
	if !gs.Finished {
		return nil, errors.New("arena match stopped before the game finished")
	}

	result.Winner = gs.Winner
	result.Turns = gs.Turn
	result.FloorPrices = make(map[hexgame.TribeID]int, len(gs.Players))
	for _, p := range gs.Players {
		result.FloorPrices[p.Tribe] = gs.FloorPrices[p.Tribe]
	}
	result.Duration = time.Since(start)
	logger.Info().Str("winner", string(result.Winner)).Int("turn", result.Turns).Dur("duration", result.Duration).Msg("arena match finished")

	if !cfg.DryRun && repo != nil {
		if err := repo.SaveMatch(ctx, matchRecord(result, gs)); err != nil {
			return result, fmt.Errorf("save match: %w", err)
		}
	}
	return result, nil
}

func matchRecord(r *ArenaResult, gs *hexgame.GameState) *model.MatchResult {
	participants, _ := json.Marshal(r.Participants)
	prices, _ := json.Marshal(r.FloorPrices)
	return &model.MatchResult{
		ID:           r.MatchID,
		Seed:         r.Seed,
		Winner:       string(r.Winner),
		Turns:        r.Turns,
		MaxTurns:     r.MaxTurns,
		Width:        gs.Map.Width,
		Height:       gs.Map.Height,
		Actions:      r.Report.Applied,
		Rejected:     r.Report.Rejected,
		Participants: participants,
		FloorPrices:  prices,
		DurationMS:   r.Duration.Milliseconds(),
		CreatedAt:    time.Now().UTC(),
	}
}
