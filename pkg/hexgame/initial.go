package hexgame

import (
	"errors"
	"fmt"
)

// Defaults applied by CreateInitialState when a Config field is zero.
const (
	DefaultWidth    = 28
	DefaultHeight   = 20
	DefaultMaxTurns = 150
)

// ErrInvalidConfig is wrapped by every CreateInitialState rejection.
var ErrInvalidConfig = errors.New("invalid game config")

// Config describes a new match. HumanTribe may be empty for an all-AI game.
type Config struct {
	Seed       int64
	HumanTribe TribeID
	AITribes   []TribeID
	Width      int
	Height     int
	MaxTurns   int
}

// startingUnits are placed around each start position, settler first.
var startingUnits = []UnitType{Settler, Warrior, Scout}

// CreateInitialState generates the map and places every player's starting
// units. The result depends only on cfg.
func CreateInitialState(cfg Config) (*GameState, error) {
	if cfg.Width == 0 {
		cfg.Width = DefaultWidth
	}
	if cfg.Height == 0 {
		cfg.Height = DefaultHeight
	}
	if cfg.MaxTurns == 0 {
		cfg.MaxTurns = DefaultMaxTurns
	}
	if cfg.MaxTurns < 1 {
		return nil, fmt.Errorf("%w: max turns %d", ErrInvalidConfig, cfg.MaxTurns)
	}

	var tribes []TribeID
	if cfg.HumanTribe != NoTribe {
		tribes = append(tribes, cfg.HumanTribe)
	}
	tribes = append(tribes, cfg.AITribes...)
	seen := make(map[TribeID]bool, len(tribes))
	for _, t := range tribes {
		if !ValidTribe(t) {
			return nil, fmt.Errorf("%w: unknown tribe %q", ErrInvalidConfig, t)
		}
		if seen[t] {
			return nil, fmt.Errorf("%w: tribe %s listed twice", ErrInvalidConfig, t)
		}
		seen[t] = true
	}
	if len(tribes) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 players, got %d", ErrInvalidConfig, len(tribes))
	}

	layout, err := GenerateMap(cfg.Seed, cfg.Width, cfg.Height, len(tribes))
	if err != nil {
		return nil, fmt.Errorf("create initial state: %w", err)
	}

	gs := &GameState{
		Seed:           cfg.Seed,
		Turn:           1,
		MaxTurns:       cfg.MaxTurns,
		CurrentPlayer:  tribes[0],
		Map:            layout.Map,
		Units:          make(map[string]Unit),
		Settlements:    make(map[string]Settlement),
		Fog:            make(map[TribeID]map[Hex]bool),
		Lootboxes:      layout.Lootboxes,
		BarbarianCamps: layout.Camps,
		Relations:      make(map[TribePair]Relation),
		FloorPrices:    make(map[TribeID]int),
		Wonders:        make(map[WonderID]string),
	}
	for i, t := range tribes {
		gs.Players = append(gs.Players, newPlayer(t, t == cfg.HumanTribe))
		for _, o := range tribes[i+1:] {
			gs.setRelation(t, o, Relation{Since: 1})
		}
	}
	for i, t := range tribes {
		start := layout.StartPositions[i]
		for _, ut := range startingUnits {
			h, ok := freeSpawnHex(gs, start)
			if !ok {
				return nil, fmt.Errorf("create initial state: no room for %s %s at %s", t, ut, start)
			}
			spawnUnit(gs, t, ut, h, Common)
		}
	}

	refreshDerived(gs)
	return gs, nil
}

func newPlayer(t TribeID, human bool) Player {
	return Player{
		Tribe:           t,
		Human:           human,
		PartialResearch: make(map[TechID]int),
		PartialCulture:  make(map[CultureID]int),
		Techs:           make(map[TechID]bool),
		Cultures:        make(map[CultureID]bool),
		PolicySlots:     make(map[PolicyCategory]int),
	}
}
