package hexgame

import (
	"fmt"
)

// Result is the outcome of ApplyAction. On failure State is the unmodified
// input and Err explains the rejection.
type Result struct {
	Success bool
	State   *GameState
	Err     error
}

// ApplyAction validates a against gs and, if legal, returns a new state with
// the action applied. gs is never modified. The acting player is always
// gs.CurrentPlayer.
func ApplyAction(gs *GameState, a Action) Result {
	if gs == nil {
		return Result{Err: fmt.Errorf("apply action: nil state")}
	}
	a = normalizeAction(a)
	if err := Validate(gs, a); err != nil {
		return Result{State: gs, Err: err}
	}
	next := gs.Clone()
	apply(next, a)
	refreshDerived(next)
	return Result{Success: true, State: next}
}

// Validate reports whether a would be accepted, without applying it.
func Validate(gs *GameState, a Action) error {
	if gs == nil {
		return fmt.Errorf("validate action: nil state")
	}
	a = normalizeAction(a)
	if a == nil {
		return &ValidationError{Err: ErrUnknownAction, Message: "nil action"}
	}
	if gs.Finished {
		return reject(a.Type(), ErrGameOver, "winner %s", gs.Winner)
	}
	if gs.Current() == nil {
		return reject(a.Type(), ErrNotOwner, "no player %q", gs.CurrentPlayer)
	}
	return validate(gs, a)
}

// normalizeAction dereferences pointer actions so *MoveUnit and MoveUnit
// behave alike. A nil pointer becomes a nil Action.
func normalizeAction(a Action) Action {
	return derefAction(a)
}

func validate(gs *GameState, a Action) error {
	switch a := a.(type) {
	case MoveUnit:
		return validateMove(gs, a)
	case Attack:
		return validateAttack(gs, a)
	case AttackSettlement:
		return validateAttackSettlement(gs, a)
	case EndTurn:
		return nil
	case StartProduction:
		return validateStartProduction(gs, a)
	case CancelProduction:
		return validateCancelProduction(gs, a)
	case StartResearch:
		return validateStartResearch(gs, a)
	case StartCulture:
		return validateStartCulture(gs, a)
	case SelectMilestone:
		return validateSelectMilestone(gs, a)
	case SelectPolicy:
		return validateSelectPolicy(gs, a)
	case SwapPolicies:
		return validateSwapPolicies(gs, a)
	case SelectPromotion:
		return validateSelectPromotion(gs, a)
	case MintUnit:
		return validateMintUnit(gs, a)
	case CreateTradeRoute:
		return validateCreateTradeRoute(gs, a)
	case CancelTradeRoute:
		return validateCancelTradeRoute(gs, a)
	case DeclareWar:
		return validateDeclareWar(gs, a)
	case ProposePeace:
		return validateProposePeace(gs, a)
	case RespondPeaceProposal:
		return validateRespondPeace(gs, a)
	case ProposeAlliance:
		return validateProposeAlliance(gs, a)
	case RespondAllianceProposal:
		return validateRespondAlliance(gs, a)
	case FoundSettlement:
		return validateFoundSettlement(gs, a)
	case FortifyUnit:
		return validateFortify(gs, a)
	case SleepUnit:
		return validateSleep(gs, a)
	case BuildImprovement:
		return validateBuildImprovement(gs, a)
	}
	return reject(a.Type(), ErrUnknownAction, "%T", a)
}

// apply mutates gs, which must be a private clone that passed validate.
func apply(gs *GameState, a Action) {
	switch a := a.(type) {
	case MoveUnit:
		applyMove(gs, a)
	case Attack:
		applyAttack(gs, a)
	case AttackSettlement:
		applyAttackSettlement(gs, a)
	case EndTurn:
		applyEndTurn(gs)
	case StartProduction:
		applyStartProduction(gs, a)
	case CancelProduction:
		applyCancelProduction(gs, a)
	case StartResearch:
		applyStartResearch(gs, a)
	case StartCulture:
		applyStartCulture(gs, a)
	case SelectMilestone:
		applySelectMilestone(gs, a)
	case SelectPolicy:
		applySelectPolicy(gs, a)
	case SwapPolicies:
		applySwapPolicies(gs, a)
	case SelectPromotion:
		applySelectPromotion(gs, a)
	case MintUnit:
		applyMintUnit(gs, a)
	case CreateTradeRoute:
		applyCreateTradeRoute(gs, a)
	case CancelTradeRoute:
		applyCancelTradeRoute(gs, a)
	case DeclareWar:
		applyDeclareWar(gs, a)
	case ProposePeace:
		applyProposePeace(gs, a)
	case RespondPeaceProposal:
		applyRespondPeace(gs, a)
	case ProposeAlliance:
		applyProposeAlliance(gs, a)
	case RespondAllianceProposal:
		applyRespondAlliance(gs, a)
	case FoundSettlement:
		applyFoundSettlement(gs, a)
	case FortifyUnit:
		applyFortify(gs, a)
	case SleepUnit:
		applySleep(gs, a)
	case BuildImprovement:
		applyBuildImprovement(gs, a)
	}
}

// refreshDerived recomputes eliminations, yields, fog and floor prices.
func refreshDerived(gs *GameState) {
	markEliminated(gs)
	checkLastStanding(gs)
	refreshYields(gs)
	refreshFog(gs)
	refreshFloorPrices(gs)
}
