package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freeeve/hexfrontier/internal/rarity"
	"github.com/freeeve/hexfrontier/pkg/hexgame"
)

type recordedEvent struct {
	session string
	kind    string
	data    any
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (b *recordingBroadcaster) BroadcastGameEvent(sessionID, eventType string, data any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, recordedEvent{sessionID, eventType, data})
}

func (b *recordingBroadcaster) kinds() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.events))
	for i, e := range b.events {
		out[i] = e.kind
	}
	return out
}

func newTestService(t *testing.T, difficulty string) (*SessionService, *recordingBroadcaster, string) {
	t.Helper()
	bc := &recordingBroadcaster{}
	svc := NewSessionService(rarity.NewLocalSource(11), bc, Options{TurnCap: 16, Width: 20, Height: 14, MaxTurns: 40})
	sum, err := svc.CreateSession(context.Background(), CreateSessionRequest{
		Seed:       11,
		HumanTribe: hexgame.Ember,
		AITribes:   []hexgame.TribeID{hexgame.Tide, hexgame.Grove},
		Difficulty: difficulty,
	})
	require.NoError(t, err)
	return svc, bc, sum.ID
}

func TestCreateSession(t *testing.T) {
	svc, _, id := newTestService(t, "pass")

	sum, err := svc.Summary(id)
	require.NoError(t, err)
	assert.Equal(t, "ember", sum.HumanTribe)
	assert.Equal(t, "ember", sum.CurrentPlayer)
	assert.Equal(t, 1, sum.Turn)
	assert.Equal(t, 40, sum.MaxTurns)
	assert.Equal(t, "pass", sum.Difficulty)

	gs, err := svc.State(id)
	require.NoError(t, err)
	assert.Len(t, gs.Players, 3)
	assert.Equal(t, 20, gs.Map.Width)

	assert.Len(t, svc.ListSessions(), 1)
}

func TestCreateSessionRejectsUnknownTribe(t *testing.T) {
	svc := NewSessionService(rarity.NewLocalSource(1), nil, Options{})
	_, err := svc.CreateSession(context.Background(), CreateSessionRequest{HumanTribe: "atlantis"})
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestUnknownSession(t *testing.T) {
	svc := NewSessionService(rarity.NewLocalSource(1), nil, Options{})
	_, err := svc.Submit(context.Background(), "missing", hexgame.EndTurn{})
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = svc.State("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, svc.DeleteSession("missing"), ErrSessionNotFound)
}

func TestSubmitRejectedActionKeepsState(t *testing.T) {
	svc, bc, id := newTestService(t, "pass")
	before, _ := svc.State(id)

	after, err := svc.Submit(context.Background(), id, hexgame.StartResearch{Tech: "time_travel"})
	require.Error(t, err)
	var ve *hexgame.ValidationError
	assert.True(t, errors.As(err, &ve), "want ValidationError, got %T", err)
	assert.Same(t, before, after)
	assert.Contains(t, bc.kinds(), EventActionRejected)

	_, err = svc.Submit(context.Background(), id, hexgame.MoveUnit{UnitID: "nope", To: hexgame.Hex{}})
	assert.True(t, hexgame.IsIntegrity(err), "want IntegrityError, got %v", err)
}

func TestEndTurnRunsAIAndReturnsToHuman(t *testing.T) {
	svc, bc, id := newTestService(t, "easy")

	gs, err := svc.Submit(context.Background(), id, hexgame.EndTurn{})
	require.NoError(t, err)
	assert.Equal(t, hexgame.Ember, gs.CurrentPlayer)
	assert.Equal(t, 2, gs.Turn)
	assert.Contains(t, bc.kinds(), EventTurnStarted)

	gs, err = svc.Submit(context.Background(), id, hexgame.EndTurn{})
	require.NoError(t, err)
	assert.Equal(t, 3, gs.Turn)
}

func TestSubmitOutOfTurn(t *testing.T) {
	svc, _, id := newTestService(t, "pass")
	sess, err := svc.get(id)
	require.NoError(t, err)

	// Hand the move to an AI without letting the service play it.
	res := hexgame.ApplyAction(sess.state, hexgame.EndTurn{})
	require.True(t, res.Success)
	sess.state = res.State

	_, err = svc.Submit(context.Background(), id, hexgame.EndTurn{})
	assert.ErrorIs(t, err, ErrNotHumanTurn)

	gs, err := svc.Advance(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, hexgame.Ember, gs.CurrentPlayer)
}

func TestMintResolvesPendingUnit(t *testing.T) {
	svc, bc, id := newTestService(t, "pass")
	gs, _ := svc.State(id)

	var settler hexgame.Unit
	for _, u := range gs.UnitsOf(hexgame.Ember) {
		if u.Type == hexgame.Settler {
			settler = u
		}
	}
	require.NotEmpty(t, settler.ID)
	gs, err := svc.Submit(context.Background(), id, hexgame.FoundSettlement{UnitID: settler.ID})
	require.NoError(t, err)
	home := gs.SettlementsOf(hexgame.Ember)[0]

	// Plant a finished warrior awaiting its rarity roll.
	sess, _ := svc.get(id)
	withMint := sess.state.Clone()
	withMint.PendingMints = append(withMint.PendingMints, hexgame.PendingMint{
		ID: "mint-1", Owner: hexgame.Ember, Settlement: home.ID, UnitType: hexgame.Warrior, Nonce: 1, Turn: 1,
	})
	sess.state = withMint
	units := len(withMint.UnitsOf(hexgame.Ember))

	_, err = svc.Mint(context.Background(), id, "mint-2")
	assert.ErrorIs(t, err, ErrMintNotFound)

	gs, err = svc.Mint(context.Background(), id, "mint-1")
	require.NoError(t, err)
	assert.Empty(t, hexgame.PendingMints(gs, hexgame.Ember))
	assert.Len(t, gs.UnitsOf(hexgame.Ember), units+1)
	assert.Contains(t, bc.kinds(), EventMintResolved)

	want := hexgame.RarityFromRoll(rarity.NewLocalSource(11).RollValue(rollPlayer(id, hexgame.Ember), 1))
	for _, e := range bc.events {
		if e.kind == EventMintResolved {
			ev := e.data.(MintEvent)
			assert.Equal(t, want, ev.Rarity)
			assert.Equal(t, want, gs.Units[ev.UnitID].Rarity)
		}
	}
}
