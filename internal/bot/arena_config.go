package bot

import (
	"fmt"
	"slices"
	"strings"

	"github.com/freeeve/hexfrontier/pkg/hexgame"
)

// ParseTribeConfig parses a tribe configuration string like "ember=hard,*=easy".
// The "*" entry sets the default for tribes not named; it comes back as the
// second return value ("easy" when absent).
func ParseTribeConfig(s string) (map[hexgame.TribeID]string, string, error) {
	cfg := make(map[hexgame.TribeID]string)
	def := "easy"
	if strings.TrimSpace(s) == "" {
		return cfg, def, nil
	}
	for _, part := range strings.Split(s, ",") {
		key, val, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok || val == "" {
			return nil, "", fmt.Errorf("bad tribe setting %q: want tribe=difficulty", part)
		}
		if !slices.Contains(Difficulties, val) {
			return nil, "", fmt.Errorf("unknown difficulty %q", val)
		}
		if key == "*" {
			def = val
			continue
		}
		t := hexgame.TribeID(key)
		if !hexgame.ValidTribe(t) || t == hexgame.Barbarian {
			return nil, "", fmt.Errorf("unknown tribe %q", key)
		}
		cfg[t] = val
	}
	return cfg, def, nil
}

// ParseMatchup assigns difficulties from a string like "hard-vs-easy" to
// tribes in rotation order. The last difficulty named covers any remaining
// tribes, so "hard" alone puts every tribe on hard.
func ParseMatchup(s string, tribes []hexgame.TribeID) (map[hexgame.TribeID]string, error) {
	sides := strings.Split(s, "-vs-")
	for _, d := range sides {
		if !slices.Contains(Difficulties, d) {
			return nil, fmt.Errorf("unknown difficulty %q in matchup %q", d, s)
		}
	}
	if len(sides) > len(tribes) {
		return nil, fmt.Errorf("matchup %q names %d sides for %d tribes", s, len(sides), len(tribes))
	}
	cfg := make(map[hexgame.TribeID]string, len(tribes))
	for i, t := range tribes {
		cfg[t] = sides[min(i, len(sides)-1)]
	}
	return cfg, nil
}
