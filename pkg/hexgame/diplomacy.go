package hexgame

import "slices"

// validTribeTarget checks a diplomatic target against the current player.
func validTribeTarget(gs *GameState, at ActionType, target TribeID) error {
	if target == gs.CurrentPlayer {
		return reject(at, ErrInvalidTarget, "cannot target self")
	}
	if target == Barbarian {
		return reject(at, ErrInvalidTarget, "barbarians do not negotiate")
	}
	p := gs.Player(target)
	if p == nil {
		return reject(at, ErrInvalidTarget, "unknown tribe %q", target)
	}
	if p.Eliminated {
		return reject(at, ErrInvalidTarget, "%s is eliminated", target)
	}
	return nil
}

func hasProposal(list []Proposal, from, to TribeID) bool {
	return slices.ContainsFunc(list, func(p Proposal) bool {
		return p.Proposer == from && p.Target == to
	})
}

// dropProposalsBetween removes proposals in either direction between a and b.
func dropProposalsBetween(list []Proposal, a, b TribeID) []Proposal {
	return slices.DeleteFunc(list, func(p Proposal) bool {
		return PairOf(p.Proposer, p.Target) == PairOf(a, b)
	})
}

func cancelRoutesBetween(gs *GameState, a, b TribeID) {
	gs.TradeRoutes = slices.DeleteFunc(gs.TradeRoutes, func(r TradeRoute) bool {
		return PairOf(r.Owner, r.Target) == PairOf(a, b)
	})
}

func validateDeclareWar(gs *GameState, a DeclareWar) error {
	if err := validTribeTarget(gs, a.Type(), a.Target); err != nil {
		return err
	}
	rel := gs.relation(gs.CurrentPlayer, a.Target)
	if rel.War {
		return reject(a.Type(), ErrAlreadyAtWar, "already at war with %s", a.Target)
	}
	if rel.Allied {
		return reject(a.Type(), ErrAllied, "allied with %s", a.Target)
	}
	return nil
}

// applyDeclareWar starts a war and pulls the defender's allies in against
// the attacker. The cascade goes one hop: allies of those allies stay out.
func applyDeclareWar(gs *GameState, a DeclareWar) {
	attacker := gs.CurrentPlayer
	enterWar(gs, attacker, a.Target)
	for _, p := range gs.Players {
		ally := p.Tribe
		if ally == attacker || ally == a.Target || p.Eliminated {
			continue
		}
		if !gs.relation(ally, a.Target).Allied {
			continue
		}
		if gs.relation(ally, attacker).War {
			continue
		}
		enterWar(gs, attacker, ally)
	}
}

func enterWar(gs *GameState, a, b TribeID) {
	gs.setRelation(a, b, Relation{War: true, Since: gs.Turn})
	cancelRoutesBetween(gs, a, b)
	gs.PendingPeaceProposals = dropProposalsBetween(gs.PendingPeaceProposals, a, b)
	gs.PendingAllianceProposals = dropProposalsBetween(gs.PendingAllianceProposals, a, b)
}

func validateProposePeace(gs *GameState, a ProposePeace) error {
	if err := validTribeTarget(gs, a.Type(), a.Target); err != nil {
		return err
	}
	if !gs.relation(gs.CurrentPlayer, a.Target).War {
		return reject(a.Type(), ErrNotAtWar, "not at war with %s", a.Target)
	}
	if hasProposal(gs.PendingPeaceProposals, gs.CurrentPlayer, a.Target) {
		return reject(a.Type(), ErrAlreadyDone, "peace already proposed to %s", a.Target)
	}
	return nil
}

func applyProposePeace(gs *GameState, a ProposePeace) {
	gs.PendingPeaceProposals = append(gs.PendingPeaceProposals, Proposal{
		Proposer: gs.CurrentPlayer,
		Target:   a.Target,
		Turn:     gs.Turn,
	})
}

func validateRespondPeace(gs *GameState, a RespondPeaceProposal) error {
	if !hasProposal(gs.PendingPeaceProposals, a.Target, gs.CurrentPlayer) {
		return reject(a.Type(), ErrDiplomacy, "no peace proposal from %s", a.Target)
	}
	return nil
}

func applyRespondPeace(gs *GameState, a RespondPeaceProposal) {
	me := gs.CurrentPlayer
	gs.PendingPeaceProposals = slices.DeleteFunc(gs.PendingPeaceProposals, func(p Proposal) bool {
		return p.Proposer == a.Target && p.Target == me
	})
	if a.Accept && gs.relation(me, a.Target).War {
		gs.setRelation(me, a.Target, Relation{Since: gs.Turn})
		gs.PendingPeaceProposals = dropProposalsBetween(gs.PendingPeaceProposals, me, a.Target)
	}
}

func validateProposeAlliance(gs *GameState, a ProposeAlliance) error {
	if err := validTribeTarget(gs, a.Type(), a.Target); err != nil {
		return err
	}
	rel := gs.relation(gs.CurrentPlayer, a.Target)
	if rel.War {
		return reject(a.Type(), ErrAtWar, "at war with %s", a.Target)
	}
	if rel.Allied {
		return reject(a.Type(), ErrAllied, "already allied with %s", a.Target)
	}
	if hasProposal(gs.PendingAllianceProposals, gs.CurrentPlayer, a.Target) {
		return reject(a.Type(), ErrAlreadyDone, "alliance already proposed to %s", a.Target)
	}
	return nil
}

func applyProposeAlliance(gs *GameState, a ProposeAlliance) {
	gs.PendingAllianceProposals = append(gs.PendingAllianceProposals, Proposal{
		Proposer: gs.CurrentPlayer,
		Target:   a.Target,
		Turn:     gs.Turn,
	})
}

func validateRespondAlliance(gs *GameState, a RespondAllianceProposal) error {
	if !hasProposal(gs.PendingAllianceProposals, a.Target, gs.CurrentPlayer) {
		return reject(a.Type(), ErrDiplomacy, "no alliance proposal from %s", a.Target)
	}
	return nil
}

func applyRespondAlliance(gs *GameState, a RespondAllianceProposal) {
	me := gs.CurrentPlayer
	gs.PendingAllianceProposals = slices.DeleteFunc(gs.PendingAllianceProposals, func(p Proposal) bool {
		return p.Proposer == a.Target && p.Target == me
	})
	rel := gs.relation(me, a.Target)
	if !a.Accept || rel.War {
		return
	}
	gs.setRelation(me, a.Target, Relation{Allied: true, Since: gs.Turn})
	gs.PendingAllianceProposals = dropProposalsBetween(gs.PendingAllianceProposals, me, a.Target)
	repriceRoutes(gs)
}

// FloorPrice itemizes a tribe's victory score.
type FloorPrice struct {
	Settlements int `json:"settlements"`
	Population  int `json:"population"`
	Territory   int `json:"territory"`
	Techs       int `json:"techs"`
	Cultures    int `json:"cultures"`
	Treasury    int `json:"treasury"`
	Kills       int `json:"kills"`
	Units       int `json:"units"`
	Rarity      int `json:"rarity"`
	Wonders     int `json:"wonders"`
	Policies    int `json:"policies"`
	Total       int `json:"total"`
}

// FloorPriceBreakdown computes a tribe's score from the current state.
func FloorPriceBreakdown(gs *GameState, t TribeID) FloorPrice {
	var fp FloorPrice
	p := gs.Player(t)
	if p == nil {
		return fp
	}
	for _, s := range gs.Settlements {
		if s.Owner != t {
			continue
		}
		fp.Settlements += 50
		fp.Population += 10 * s.Population
	}
	for _, tile := range gs.Map.Tiles {
		if tile.Owner == t {
			fp.Territory += 2
		}
	}
	fp.Techs = 15 * len(p.Techs)
	fp.Cultures = 15 * len(p.Cultures)
	fp.Treasury = p.Treasury / 10
	fp.Kills = 5 * p.Kills
	for _, u := range gs.Units {
		if u.Owner != t {
			continue
		}
		fp.Units += 5
		fp.Rarity += u.Rarity.ScoreBonus()
	}
	for _, sid := range gs.Wonders {
		if s, ok := gs.Settlements[sid]; ok && s.Owner == t {
			fp.Wonders += 100
		}
	}
	fp.Policies = 10 * len(p.ActivePolicies)
	fp.Total = fp.Settlements + fp.Population + fp.Territory + fp.Techs + fp.Cultures +
		fp.Treasury + fp.Kills + fp.Units + fp.Rarity + fp.Wonders + fp.Policies
	return fp
}

func refreshFloorPrices(gs *GameState) {
	gs.FloorPrices = make(map[TribeID]int, len(gs.Players))
	for _, p := range gs.Players {
		gs.FloorPrices[p.Tribe] = FloorPriceBreakdown(gs, p.Tribe).Total
	}
}
