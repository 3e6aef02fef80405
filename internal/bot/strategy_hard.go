package bot

import (
	"github.com/freeeve/hexfrontier/pkg/hexgame"
)

var hardProfile = profile{
	maxSettlements:  5,
	settlerMinPop:   2,
	militaryPerCity: 2,
	exploreChance:   0.5,
	acceptAlliance:  true,
	warRatio:        150,
	warAfterTurn:    25,
}

// HardStrategy expands further than easy, keeps a larger army, courts allies
// and declares war on a weaker neighbour once it has the edge.
type HardStrategy struct{}

func (HardStrategy) Name() string { return "hard" }

func (HardStrategy) GenerateActions(gs *hexgame.GameState, tribe hexgame.TribeID) []hexgame.Action {
	if !ownTurn(gs, tribe) {
		return []hexgame.Action{hexgame.EndTurn{}}
	}
	return planTurn(newPlan(gs, tribe), hardProfile)
}

// considerWar picks the weakest reachable rival and declares war when our
// army outweighs theirs by the profile's ratio. While at war it also offers
// alliances to the enemy's enemies.
func considerWar(p *plan, prof profile) {
	if p.gs.Turn < prof.warAfterTurn {
		return
	}
	me := militaryStrength(p.gs, p.tribe)
	if enemy, ok := currentEnemy(p.gs, p.tribe); ok {
		courtAllies(p, enemy)
		return
	}

	var target hexgame.TribeID
	weakest := -1
	for _, pl := range p.gs.Players {
		t := pl.Tribe
		if t == p.tribe || pl.Eliminated || hexgame.Allied(p.gs, p.tribe, t) {
			continue
		}
		if !neighbours(p.gs, p.tribe, t, 10) {
			continue
		}
		if s := militaryStrength(p.gs, t); weakest < 0 || s < weakest {
			target, weakest = t, s
		}
	}
	if target == "" || me*100 < weakest*prof.warRatio || me == 0 {
		return
	}
	if p.try(hexgame.DeclareWar{Target: target}) {
		courtAllies(p, target)
	}
}

// currentEnemy returns the first rival the tribe is at war with.
func currentEnemy(gs *hexgame.GameState, tribe hexgame.TribeID) (hexgame.TribeID, bool) {
	for _, pl := range gs.Players {
		if pl.Tribe != tribe && !pl.Eliminated && hexgame.AtWar(gs, tribe, pl.Tribe) {
			return pl.Tribe, true
		}
	}
	return "", false
}

// courtAllies proposes alliances to everyone else fighting enemy.
func courtAllies(p *plan, enemy hexgame.TribeID) {
	for _, pl := range p.gs.Players {
		t := pl.Tribe
		if t == p.tribe || t == enemy || pl.Eliminated || hexgame.Allied(p.gs, p.tribe, t) {
			continue
		}
		if hexgame.AtWar(p.gs, t, enemy) && !hexgame.AtWar(p.gs, p.tribe, t) {
			p.try(hexgame.ProposeAlliance{Target: t})
		}
	}
}

// neighbours reports whether any settlement of a lies within dist of one of b's.
func neighbours(gs *hexgame.GameState, a, b hexgame.TribeID, dist int) bool {
	theirs := gs.SettlementsOf(b)
	for _, s := range gs.SettlementsOf(a) {
		for _, o := range theirs {
			if hexgame.Distance(s.Position, o.Position) <= dist {
				return true
			}
		}
	}
	return false
}
