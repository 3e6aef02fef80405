package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/freeeve/hexfrontier/internal/bot"
	"github.com/freeeve/hexfrontier/internal/logger"
	"github.com/freeeve/hexfrontier/internal/model"
	"github.com/freeeve/hexfrontier/internal/rarity"
	"github.com/freeeve/hexfrontier/pkg/hexgame"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNotHumanTurn    = errors.New("it is not the human player's turn")
	ErrMintNotFound    = errors.New("pending mint not found")
	ErrInvalidSession  = errors.New("invalid session settings")
)

// Options are the server-wide defaults for new sessions.
type Options struct {
	TurnCap           int
	MaxTurns          int
	Width             int
	Height            int
	DefaultDifficulty string
}

// CreateSessionRequest describes a new single-player game.
type CreateSessionRequest struct {
	Seed       int64             `json:"seed,omitempty"`
	HumanTribe hexgame.TribeID   `json:"human_tribe"`
	AITribes   []hexgame.TribeID `json:"ai_tribes,omitempty"`
	Difficulty string            `json:"difficulty,omitempty"`
	Width      int               `json:"width,omitempty"`
	Height     int               `json:"height,omitempty"`
	MaxTurns   int               `json:"max_turns,omitempty"`
}

// TurnEvent is the payload of a turn_started event.
type TurnEvent struct {
	Turn          int             `json:"turn"`
	CurrentPlayer hexgame.TribeID `json:"current_player"`
	AITurns       int             `json:"ai_turns"`
}

// RejectionEvent is the payload of an action_rejected event.
type RejectionEvent struct {
	Action hexgame.ActionType `json:"action"`
	Reason string             `json:"reason"`
}

// MintEvent is the payload of a mint_resolved event.
type MintEvent struct {
	MintID string         `json:"mint_id"`
	UnitID string         `json:"unit_id,omitempty"`
	Rarity hexgame.Rarity `json:"rarity"`
}

// session owns the current GameState of one game. Its mutex serializes every
// submission, so the core never sees concurrent calls for the same game.
type session struct {
	mu         sync.Mutex
	id         string
	humanTribe hexgame.TribeID
	difficulty string
	strategy   bot.Strategy
	state      *hexgame.GameState
	createdAt  time.Time
	updatedAt  time.Time
}

// SessionService manages live game sessions in memory.
type SessionService struct {
	mu       sync.RWMutex
	sessions map[string]*session
	rarity   rarity.Source
	bc       Broadcaster
	opts     Options
}

// NewSessionService creates a SessionService. A nil broadcaster disables
// event delivery.
func NewSessionService(src rarity.Source, bc Broadcaster, opts Options) *SessionService {
	if bc == nil {
		bc = NoopBroadcaster{}
	}
	if opts.TurnCap <= 0 {
		opts.TurnCap = bot.DefaultTurnCap
	}
	if opts.DefaultDifficulty == "" {
		opts.DefaultDifficulty = "easy"
	}
	return &SessionService{
		sessions: make(map[string]*session),
		rarity:   src,
		bc:       bc,
		opts:     opts,
	}
}

// CreateSession starts a new game. If computer players move first their
// turns are played before it returns.
func (s *SessionService) CreateSession(ctx context.Context, req CreateSessionRequest) (*model.SessionSummary, error) {
	if req.HumanTribe == "" {
		req.HumanTribe = hexgame.AllTribes()[0]
	}
	if !hexgame.ValidTribe(req.HumanTribe) {
		return nil, fmt.Errorf("%w: unknown tribe %q", ErrInvalidSession, req.HumanTribe)
	}
	if len(req.AITribes) == 0 {
		for _, t := range hexgame.AllTribes() {
			if t != req.HumanTribe && len(req.AITribes) < 3 {
				req.AITribes = append(req.AITribes, t)
			}
		}
	}
	if req.Seed == 0 {
		req.Seed = time.Now().UnixNano()
	}
	if req.Difficulty == "" {
		req.Difficulty = s.opts.DefaultDifficulty
	}
	cfg := hexgame.Config{
		Seed:       req.Seed,
		HumanTribe: req.HumanTribe,
		AITribes:   req.AITribes,
		Width:      firstPositive(req.Width, s.opts.Width),
		Height:     firstPositive(req.Height, s.opts.Height),
		MaxTurns:   firstPositive(req.MaxTurns, s.opts.MaxTurns),
	}
	gs, err := hexgame.CreateInitialState(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	now := time.Now().UTC()
	sess := &session{
		id:         uuid.NewString(),
		humanTribe: req.HumanTribe,
		difficulty: req.Difficulty,
		strategy:   bot.StrategyForDifficulty(req.Difficulty),
		state:      gs,
		createdAt:  now,
		updatedAt:  now,
	}
	ctx = logger.WithSessionID(ctx, sess.id)
	l := logger.ForContext(ctx)
	l.Info().Int64("seed", req.Seed).Str("tribe", string(req.HumanTribe)).Str("difficulty", req.Difficulty).Msg("Session created")

	sess.mu.Lock()
	defer sess.mu.Unlock()
	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	s.runAI(ctx, sess)
	return sess.summary(), nil
}

// ListSessions returns a summary of every live session, newest first.
func (s *SessionService) ListSessions() []model.SessionSummary {
	s.mu.RLock()
	all := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		all = append(all, sess)
	}
	s.mu.RUnlock()

	out := make([]model.SessionSummary, 0, len(all))
	for _, sess := range all {
		sess.mu.Lock()
		out = append(out, *sess.summary())
		sess.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// Summary returns the summary of one session.
func (s *SessionService) Summary(id string) (*model.SessionSummary, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.summary(), nil
}

// State returns the session's current state. Callers must treat it as
// read-only; it is shared with the session.
func (s *SessionService) State(id string) (*hexgame.GameState, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.state, nil
}

// HumanTribe returns the tribe the session's human plays.
func (s *SessionService) HumanTribe(id string) (hexgame.TribeID, error) {
	sess, err := s.get(id)
	if err != nil {
		return "", err
	}
	return sess.humanTribe, nil
}

// Submit applies one human action. Rule rejections come back as the core's
// *hexgame.ValidationError or *hexgame.IntegrityError. After an accepted
// EndTurn the computer players move until the human is up again.
func (s *SessionService) Submit(ctx context.Context, id string, a hexgame.Action) (*hexgame.GameState, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}
	ctx = logger.WithSessionID(ctx, id)
	l := logger.ForContext(ctx)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := sess.humanToMove(); err != nil {
		return sess.state, err
	}
	res := hexgame.ApplyAction(sess.state, a)
	if !res.Success {
		l.Debug().Err(res.Err).Str("action", string(a.Type())).Msg("Action rejected")
		s.bc.BroadcastGameEvent(id, EventActionRejected, RejectionEvent{Action: a.Type(), Reason: res.Err.Error()})
		return sess.state, res.Err
	}
	sess.state = res.State
	sess.updatedAt = time.Now().UTC()
	l.Debug().Str("action", string(a.Type())).Int("turn", sess.state.Turn).Msg("Action applied")
	s.bc.BroadcastGameEvent(id, EventStateChanged, sess.summary())

	if _, ok := a.(hexgame.EndTurn); ok {
		s.runAI(ctx, sess)
	} else if sess.state.Finished {
		s.announceEnd(sess)
	}
	return sess.state, nil
}

// Advance plays pending computer turns. It is only needed when an earlier
// AI run stopped at the turn cap.
func (s *SessionService) Advance(ctx context.Context, id string) (*hexgame.GameState, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	s.runAI(logger.WithSessionID(ctx, id), sess)
	return sess.state, nil
}

// Mint rolls the rarity for one of the human's pending mints and submits
// the MintUnit action with it.
func (s *SessionService) Mint(ctx context.Context, id, mintID string) (*hexgame.GameState, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}
	ctx = logger.WithSessionID(ctx, id)
	l := logger.ForContext(ctx)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := sess.humanToMove(); err != nil {
		return sess.state, err
	}
	var mint *hexgame.PendingMint
	for _, m := range hexgame.PendingMints(sess.state, sess.humanTribe) {
		if m.ID == mintID {
			mint = &m
			break
		}
	}
	if mint == nil {
		return sess.state, fmt.Errorf("%w: %s", ErrMintNotFound, mintID)
	}

	r, err := s.rarity.Roll(ctx, rollPlayer(id, sess.humanTribe), mint.Nonce)
	if err != nil {
		return sess.state, fmt.Errorf("roll rarity for %s: %w", mintID, err)
	}
	before := sess.state
	res := hexgame.ApplyAction(sess.state, hexgame.MintUnit{MintID: mintID, Rarity: r})
	if !res.Success {
		return sess.state, res.Err
	}
	sess.state = res.State
	sess.updatedAt = time.Now().UTC()

	ev := MintEvent{MintID: mintID, Rarity: r, UnitID: newUnitID(before, sess.state)}
	l.Info().Str("mintId", mintID).Uint64("nonce", mint.Nonce).Str("rarity", r.String()).Msg("Unit minted")
	s.bc.BroadcastGameEvent(id, EventMintResolved, ev)
	s.bc.BroadcastGameEvent(id, EventStateChanged, sess.summary())
	return sess.state, nil
}

// DeleteSession drops a session.
func (s *SessionService) DeleteSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

func (s *SessionService) get(id string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// runAI plays computer turns until the human is to move. sess.mu must be held.
func (s *SessionService) runAI(ctx context.Context, sess *session) {
	l := logger.ForContext(ctx)
	next, rep, err := bot.RunAITurns(ctx, sess.state, bot.TurnConfig{
		Default: sess.strategy,
		Rarity:  s.aiRarity(sess),
		Cap:     s.opts.TurnCap,
	})
	sess.state = next
	sess.updatedAt = time.Now().UTC()
	if err != nil {
		l.Warn().Err(err).Int("turn", next.Turn).Msg("AI turns stopped early")
	}
	if rep.Turns > 0 {
		l.Debug().Int("aiTurns", rep.Turns).Int("applied", rep.Applied).Int("rejected", rep.Rejected).Msg("AI turns played")
		s.bc.BroadcastGameEvent(sess.id, EventStateChanged, sess.summary())
	}
	if next.Finished {
		s.announceEnd(sess)
		return
	}
	s.bc.BroadcastGameEvent(sess.id, EventTurnStarted, TurnEvent{
		Turn:          next.Turn,
		CurrentPlayer: next.CurrentPlayer,
		AITurns:       rep.Turns,
	})
}

// aiRarity keys computer rolls by session so two games never share a nonce.
func (s *SessionService) aiRarity(sess *session) rarity.Source {
	if s.rarity == nil {
		return nil
	}
	return sessionSource{src: s.rarity, session: sess.id}
}

func (s *SessionService) announceEnd(sess *session) {
	l := logger.ForContext(logger.WithSessionID(context.Background(), sess.id))
	l.Info().Str("winner", string(sess.state.Winner)).Int("turn", sess.state.Turn).Msg("Game ended")
	s.bc.BroadcastGameEvent(sess.id, EventGameEnded, map[string]any{
		"winner":       sess.state.Winner,
		"turn":         sess.state.Turn,
		"floor_prices": sess.state.FloorPrices,
	})
}

func (sess *session) humanToMove() error {
	if sess.state.Finished {
		return nil // let the core report game over
	}
	if sess.state.CurrentPlayer != sess.humanTribe {
		return fmt.Errorf("%w: %s to move", ErrNotHumanTurn, sess.state.CurrentPlayer)
	}
	return nil
}

func (sess *session) summary() *model.SessionSummary {
	gs := sess.state
	return &model.SessionSummary{
		ID:            sess.id,
		HumanTribe:    string(sess.humanTribe),
		Difficulty:    sess.difficulty,
		Seed:          gs.Seed,
		Turn:          gs.Turn,
		MaxTurns:      gs.MaxTurns,
		CurrentPlayer: string(gs.CurrentPlayer),
		Finished:      gs.Finished,
		Winner:        string(gs.Winner),
		PendingMints:  len(hexgame.PendingMints(gs, sess.humanTribe)),
		CreatedAt:     sess.createdAt,
		UpdatedAt:     sess.updatedAt,
	}
}

// sessionSource prefixes the player key with the session id.
type sessionSource struct {
	src     rarity.Source
	session string
}

func (s sessionSource) Roll(ctx context.Context, player string, nonce uint64) (hexgame.Rarity, error) {
	return s.src.Roll(ctx, s.session+":"+player, nonce)
}

func rollPlayer(sessionID string, tribe hexgame.TribeID) string {
	return sessionID + ":" + string(tribe)
}

// newUnitID finds the unit present in after but not in before.
func newUnitID(before, after *hexgame.GameState) string {
	for _, id := range after.UnitIDs() {
		if _, ok := before.Units[id]; !ok {
			return id
		}
	}
	return ""
}

func firstPositive(vs ...int) int {
	for _, v := range vs {
		if v > 0 {
			return v
		}
	}
	return 0
}
