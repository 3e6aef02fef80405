package bot

import (
	"hash/fnv"
	"math/rand"
	"strconv"

	"github.com/freeeve/hexfrontier/pkg/hexgame"
)

// turnRand returns the random source a strategy uses for one tribe's turn.
// It is derived from the game seed, the turn and the tribe, so replaying a
// game replays its bots without any package-level state.
func turnRand(gs *hexgame.GameState, tribe hexgame.TribeID) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(strconv.FormatInt(gs.Seed, 10)))
	h.Write([]byte{'/'})
	h.Write([]byte(strconv.Itoa(gs.Turn)))
	h.Write([]byte{'/'})
	h.Write([]byte(tribe))
	return rand.New(rand.NewSource(int64(h.Sum64())))
}

// shuffled returns a permuted copy of xs.
func shuffled[T any](rng *rand.Rand, xs []T) []T {
	out := make([]T, len(xs))
	for i, j := range rng.Perm(len(xs)) {
		out[i] = xs[j]
	}
	return out
}
