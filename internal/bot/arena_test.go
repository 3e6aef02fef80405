package bot

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/freeeve/hexfrontier/internal/model"
	"github.com/freeeve/hexfrontier/pkg/hexgame"
)

type recordingRepo struct {
	saved   []*model.MatchResult
	saveErr error
}

func (r *recordingRepo) SaveMatch(_ context.Context, m *model.MatchResult) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saved = append(r.saved, m)
	return nil
}

func (r *recordingRepo) FindMatch(context.Context, string) (*model.MatchResult, error) {
	return nil, nil
}

func (r *recordingRepo) ListMatches(context.Context, int) ([]model.MatchResult, error) {
	return nil, nil
}

func (r *recordingRepo) WinCounts(context.Context) (map[string]int, error) {
	return nil, nil
}

func shortMatch(seed int64) ArenaConfig {
	return ArenaConfig{
		Seed:     seed,
		Tribes:   []hexgame.TribeID{hexgame.Ember, hexgame.Tide},
		Default:  "pass",
		MaxTurns: 4,
	}
}

func TestRunMatchRecordsResult(t *testing.T) {
	repo := &recordingRepo{}
	cfg := shortMatch(17)
	cfg.Difficulties = map[hexgame.TribeID]string{hexgame.Ember: "easy"}

	res, err := RunMatch(context.Background(), cfg, repo)
	if err != nil {
		t.Fatalf("RunMatch: %v", err)
	}
	if res.Winner == hexgame.NoTribe {
		t.Error("no winner")
	}
	if res.Turns != 5 {
		t.Errorf("turns = %d, want 5", res.Turns)
	}
	if res.Participants[hexgame.Ember] != "easy" || res.Participants[hexgame.Tide] != "pass" {
		t.Errorf("participants = %v", res.Participants)
	}
	if len(res.FloorPrices) != 2 {
		t.Errorf("floor prices for %d tribes, want 2", len(res.FloorPrices))
	}

	if len(repo.saved) != 1 {
		t.Fatalf("saved %d matches, want 1", len(repo.saved))
	}
	rec := repo.saved[0]
	if rec.ID != res.MatchID || rec.Winner != string(res.Winner) || rec.Seed != 17 {
		t.Errorf("record does not match result: %+v", rec)
	}
	var participants map[string]string
	if err := json.Unmarshal(rec.Participants, &participants); err != nil {
		t.Fatalf("participants json: %v", err)
	}
	if participants["ember"] != "easy" {
		t.Errorf("recorded participants = %v", participants)
	}
}

func TestRunMatchDryRunSkipsRepo(t *testing.T) {
	repo := &recordingRepo{}
	cfg := shortMatch(3)
	cfg.DryRun = true
	if _, err := RunMatch(context.Background(), cfg, repo); err != nil {
		t.Fatal(err)
	}
	if len(repo.saved) != 0 {
		t.Errorf("dry run saved %d matches", len(repo.saved))
	}
	if _, err := RunMatch(context.Background(), shortMatch(3), nil); err != nil {
		t.Errorf("nil repo: %v", err)
	}
}

func TestRunMatchIsReproducible(t *testing.T) {
	cfg := shortMatch(99)
	cfg.Default = "hard"
	a, err := RunMatch(context.Background(), cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := RunMatch(context.Background(), cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if a.Winner != b.Winner || a.Report != b.Report {
		t.Errorf("same seed gave different matches: %+v vs %+v", a.Report, b.Report)
	}
	for tribe, price := range a.FloorPrices {
		if b.FloorPrices[tribe] != price {
			t.Errorf("%s floor price %d vs %d", tribe, price, b.FloorPrices[tribe])
		}
	}
}

func TestRunMatchSaveError(t *testing.T) {
	repo := &recordingRepo{saveErr: errors.New("disk full")}
	res, err := RunMatch(context.Background(), shortMatch(5), repo)
	if err == nil {
		t.Fatal("expected save error")
	}
	if res == nil {
		t.Error("result should still be returned when saving fails")
	}
}

func TestRunMatchRejectsBadTribes(t *testing.T) {
	cfg := shortMatch(1)
	cfg.Tribes = []hexgame.TribeID{hexgame.Ember}
	if _, err := RunMatch(context.Background(), cfg, nil); !errors.Is(err, hexgame.ErrInvalidConfig) {
		t.Errorf("got %v, want ErrInvalidConfig", err)
	}
}
