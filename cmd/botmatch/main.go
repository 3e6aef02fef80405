package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/freeeve/hexfrontier/internal/bot"
	"github.com/freeeve/hexfrontier/internal/repository"
	"github.com/freeeve/hexfrontier/internal/repository/postgres"
	"github.com/freeeve/hexfrontier/internal/repository/sqlite"
	"github.com/freeeve/hexfrontier/internal/repository/store"
	"github.com/freeeve/hexfrontier/pkg/hexgame"
)

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	var (
		tribeCfg string
		tribeArg string
		matchup  string
		numGames int
		workers  int
		dbURL    string
		maxTurns int
		width    int
		height   int
		seed     int64
		dryRun   bool
		jsonOut  bool
		verbose  bool
	)

	flag.StringVar(&tribeCfg, "p", "", "Tribe config (e.g. ember=hard,*=easy)")
	flag.StringVar(&tribeArg, "tribes", "ember,tide,grove,stone", "Comma-separated tribes in rotation order")
	flag.StringVar(&matchup, "matchup", "", "Shorthand tier-vs-tier (e.g. hard-vs-easy)")
	flag.IntVar(&numGames, "n", 1, "Number of games to run")
	flag.IntVar(&workers, "workers", 1, "Concurrency (parallel games)")
	flag.StringVar(&dbURL, "db", "", "Postgres URL or SQLite file (*.db / sqlite:path); defaults to DATABASE_URL")
	flag.IntVar(&maxTurns, "max-turns", hexgame.DefaultMaxTurns, "Turn limit before the floor-price decision")
	flag.IntVar(&width, "width", hexgame.DefaultWidth, "Map width")
	flag.IntVar(&height, "height", hexgame.DefaultHeight, "Map height")
	flag.Int64Var(&seed, "seed", 0, "Base seed (0 = random)")
	flag.BoolVar(&dryRun, "dry-run", false, "Skip database writes")
	flag.BoolVar(&jsonOut, "json", false, "Output results as JSON")
	flag.BoolVar(&verbose, "v", false, "Log rejected bot actions")

	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	tribes, err := parseTribes(tribeArg)
	if err != nil {
		log.Fatal().Err(err).Msg("Bad -tribes")
	}

	// Resolve difficulties
	var (
		difficulties map[hexgame.TribeID]string
		def          = "easy"
	)
	switch {
	case tribeCfg != "":
		difficulties, def, err = bot.ParseTribeConfig(tribeCfg)
	case matchup != "":
		difficulties, err = bot.ParseMatchup(matchup, tribes)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Bad difficulty config")
	}
	lineup := make(map[hexgame.TribeID]string, len(tribes))
	for _, t := range tribes {
		lineup[t] = def
		if d, ok := difficulties[t]; ok {
			lineup[t] = d
		}
	}

	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info().Msg("Shutting down...")
		cancel()
	}()

	// Connect to DB (unless dry-run)
	var repo repository.MatchRepository
	if !dryRun && dbURL != "" {
		db, err := openDB(dbURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Database connection failed")
		}
		defer db.Close()
		repo = store.NewMatchRepo(db)
	} else if !dryRun {
		log.Warn().Msg("No database configured; results will not be saved")
		dryRun = true
	}

	// Run games
	start := time.Now()
	results := make([]*bot.ArenaResult, numGames)
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, max(1, workers))
	errCount := 0

	for i := 0; i < numGames; i++ {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}

		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			gameSeed := seed
			if seed != 0 {
				gameSeed = seed + int64(idx)
			}

			cfg := bot.ArenaConfig{
				Seed:         gameSeed,
				Tribes:       tribes,
				Difficulties: lineup,
				Width:        width,
				Height:       height,
				MaxTurns:     maxTurns,
				DryRun:       dryRun,
			}

			result, err := bot.RunMatch(ctx, cfg, repo)
			if err != nil {
				log.Error().Err(err).Int("game", idx+1).Msg("Game failed")
				mu.Lock()
				errCount++
				mu.Unlock()
				return
			}

			mu.Lock()
			results[idx] = result
			mu.Unlock()

			log.Info().Int("game", idx+1).Str("winner", string(result.Winner)).Int("turns", result.Turns).Dur("duration", result.Duration).Msg("Game completed")
		}(i)
	}

	wg.Wait()

	if jsonOut {
		printJSON(results, numGames, errCount)
	} else {
		printSummary(results, tribes, lineup, maxTurns, errCount, dryRun, time.Since(start))
	}
}

func parseTribes(s string) ([]hexgame.TribeID, error) {
	var out []hexgame.TribeID
	for _, part := range strings.Split(s, ",") {
		t := hexgame.TribeID(strings.TrimSpace(part))
		if !hexgame.ValidTribe(t) {
			return nil, fmt.Errorf("unknown tribe %q", part)
		}
		out = append(out, t)
	}
	return out, nil
}

// openDB picks SQLite for file paths and Postgres for everything else.
func openDB(url string) (*sqlx.DB, error) {
	switch {
	case strings.HasPrefix(url, "sqlite:"):
		return sqlite.Open(strings.TrimPrefix(url, "sqlite:"))
	case strings.HasSuffix(url, ".db"):
		return sqlite.Open(url)
	default:
		return postgres.Connect(url)
	}
}

func buildLabel(lineup map[hexgame.TribeID]string) string {
	diffs := make(map[string]int)
	for _, d := range lineup {
		diffs[d]++
	}
	if len(diffs) == 1 {
		for d := range diffs {
			return fmt.Sprintf("all-%s", d)
		}
	}
	var parts []string
	for d, c := range diffs {
		name := d
		if c > 1 {
			name += "s"
		}
		parts = append(parts, fmt.Sprintf("%d %s", c, name))
	}
	sort.Strings(parts)
	return strings.Join(parts, " vs ")
}

func printSummary(results []*bot.ArenaResult, tribes []hexgame.TribeID, lineup map[hexgame.TribeID]string, maxTurns, errCount int, dryRun bool, elapsed time.Duration) {
	type stats struct {
		wins       int
		totalPrice int
		bestPrice  int
		games      int
	}

	byTribe := make(map[hexgame.TribeID]*stats, len(tribes))
	for _, t := range tribes {
		byTribe[t] = &stats{}
	}

	completed, actions, rejected := 0, 0, 0
	for _, r := range results {
		if r == nil {
			continue
		}
		completed++
		actions += r.Report.Applied
		rejected += r.Report.Rejected
		for _, t := range tribes {
			s := byTribe[t]
			s.games++
			price := r.FloorPrices[t]
			s.totalPrice += price
			s.bestPrice = max(s.bestPrice, price)
			if r.Winner == t {
				s.wins++
			}
		}
	}

	fmt.Printf("\nResults (%s, %d games, max %d turns, %s):\n", buildLabel(lineup), completed, maxTurns, elapsed.Round(time.Millisecond))
	if errCount > 0 {
		fmt.Printf("  (%d games failed)\n", errCount)
	}

	for _, t := range tribes {
		s := byTribe[t]
		avg := 0
		if s.games > 0 {
			avg = s.totalPrice / s.games
		}
		fmt.Printf("  %-8s (%s):  %d wins  -- avg floor price: %s, best: %s\n",
			t, lineup[t], s.wins, humanize.Comma(int64(avg)), humanize.Comma(int64(s.bestPrice)))
	}
	fmt.Printf("\n  %s actions applied, %s rejected\n", humanize.Comma(int64(actions)), humanize.Comma(int64(rejected)))

	if !dryRun && completed > 0 {
		fmt.Printf("\n%s saved to the match log\n", english.Plural(completed, "match", "matches"))
	}
}

func printJSON(results []*bot.ArenaResult, total, errCount int) {
	out := struct {
		Total   int                `json:"total"`
		Errors  int                `json:"errors"`
		Results []*bot.ArenaResult `json:"results"`
	}{
		Total:   total,
		Errors:  errCount,
		Results: results,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(out)
}
