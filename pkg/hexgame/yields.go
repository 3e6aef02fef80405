package hexgame

// YieldType names one component of Yields.
type YieldType string

const (
	YieldFood       YieldType = "food"
	YieldProduction YieldType = "production"
	YieldGold       YieldType = "gold"
	YieldScience    YieldType = "science"
	YieldCulture    YieldType = "culture"
)

// Yields is a bundle of per-turn outputs.
type Yields struct {
	Food       int `json:"food"`
	Production int `json:"production"`
	Gold       int `json:"gold"`
	Science    int `json:"science"`
	Culture    int `json:"culture"`
}

// Add returns the component-wise sum.
func (y Yields) Add(o Yields) Yields {
	return Yields{
		Food:       y.Food + o.Food,
		Production: y.Production + o.Production,
		Gold:       y.Gold + o.Gold,
		Science:    y.Science + o.Science,
		Culture:    y.Culture + o.Culture,
	}
}

// Get returns one component.
func (y Yields) Get(t YieldType) int {
	switch t {
	case YieldFood:
		return y.Food
	case YieldProduction:
		return y.Production
	case YieldGold:
		return y.Gold
	case YieldScience:
		return y.Science
	case YieldCulture:
		return y.Culture
	}
	return 0
}

// With returns a copy with one component replaced.
func (y Yields) With(t YieldType, v int) Yields {
	switch t {
	case YieldFood:
		y.Food = v
	case YieldProduction:
		y.Production = v
	case YieldGold:
		y.Gold = v
	case YieldScience:
		y.Science = v
	case YieldCulture:
		y.Culture = v
	}
	return y
}

// score ranks a tile for working: food first, then production, then gold.
func (y Yields) score() int {
	return 3*y.Food + 2*y.Production + y.Gold + y.Science + y.Culture
}

// applyPercent scales a non-negative base by (100+pct)%, rounding down.
func applyPercent(base, pct int) int {
	if base <= 0 || pct == 0 {
		return base
	}
	v := base * (100 + pct) / 100
	if v < 0 {
		return 0
	}
	return v
}
