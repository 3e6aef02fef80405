package hexgame

import (
	"encoding/json"
	"fmt"
)

// ActionType discriminates the Action sum type.
type ActionType string

const (
	ActionMoveUnit                ActionType = "MOVE_UNIT"
	ActionAttack                  ActionType = "ATTACK"
	ActionAttackSettlement        ActionType = "ATTACK_SETTLEMENT"
	ActionEndTurn                 ActionType = "END_TURN"
	ActionStartProduction         ActionType = "START_PRODUCTION"
	ActionCancelProduction        ActionType = "CANCEL_PRODUCTION"
	ActionStartResearch           ActionType = "START_RESEARCH"
	ActionStartCulture            ActionType = "START_CULTURE"
	ActionSelectMilestone         ActionType = "SELECT_MILESTONE"
	ActionSelectPolicy            ActionType = "SELECT_POLICY"
	ActionSwapPolicies            ActionType = "SWAP_POLICIES"
	ActionSelectPromotion         ActionType = "SELECT_PROMOTION"
	ActionMintUnit                ActionType = "MINT_UNIT"
	ActionCreateTradeRoute        ActionType = "CREATE_TRADE_ROUTE"
	ActionCancelTradeRoute        ActionType = "CANCEL_TRADE_ROUTE"
	ActionDeclareWar              ActionType = "DECLARE_WAR"
	ActionProposePeace            ActionType = "PROPOSE_PEACE"
	ActionRespondPeaceProposal    ActionType = "RESPOND_PEACE_PROPOSAL"
	ActionProposeAlliance         ActionType = "PROPOSE_ALLIANCE"
	ActionRespondAllianceProposal ActionType = "RESPOND_ALLIANCE_PROPOSAL"
	ActionFoundSettlement         ActionType = "FOUND_SETTLEMENT"
	ActionFortifyUnit             ActionType = "FORTIFY_UNIT"
	ActionSleepUnit               ActionType = "SLEEP_UNIT"
	ActionBuildImprovement        ActionType = "BUILD_IMPROVEMENT"
)

// Action is one player command. The set of implementations is closed to
// this package.
type Action interface {
	Type() ActionType
	isAction()
}

type MoveUnit struct {
	UnitID string `json:"unitId"`
	To     Hex    `json:"to"`
}

type Attack struct {
	UnitID       string `json:"unitId"`
	TargetUnitID string `json:"targetUnitId"`
}

type AttackSettlement struct {
	UnitID       string `json:"unitId"`
	SettlementID string `json:"settlementId"`
}

type EndTurn struct{}

type StartProduction struct {
	SettlementID string         `json:"settlementId"`
	Kind         ProductionKind `json:"kind"`
	ItemID       string         `json:"itemId"`
}

type CancelProduction struct {
	SettlementID string `json:"settlementId"`
	Index        int    `json:"index"`
}

type StartResearch struct {
	Tech TechID `json:"tech"`
}

type StartCulture struct {
	Culture CultureID `json:"culture"`
}

type SelectMilestone struct {
	SettlementID string          `json:"settlementId"`
	Level        int             `json:"level"`
	Choice       MilestoneChoice `json:"choice"`
}

type SelectPolicy struct {
	Policy PolicyID `json:"policy"`
}

// SwapPolicies replaces the active policy set. Permitted is the caller's
// grant to swap outside of a culture-completion window.
type SwapPolicies struct {
	Policies  []PolicyID `json:"policies"`
	Permitted bool       `json:"permitted"`
}

type SelectPromotion struct {
	UnitID    string      `json:"unitId"`
	Promotion PromotionID `json:"promotion"`
}

// MintUnit finalizes a pending mint with a rarity rolled outside the core.
type MintUnit struct {
	MintID string `json:"mintId"`
	Rarity Rarity `json:"rarity"`
}

type CreateTradeRoute struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

type CancelTradeRoute struct {
	RouteID string `json:"routeId"`
}

type DeclareWar struct {
	Target TribeID `json:"target"`
}

type ProposePeace struct {
	Target TribeID `json:"target"`
}

// RespondPeaceProposal answers a peace offer made by Target.
type RespondPeaceProposal struct {
	Target TribeID `json:"target"`
	Accept bool    `json:"accept"`
}

type ProposeAlliance struct {
	Target TribeID `json:"target"`
}

// RespondAllianceProposal answers an alliance offer made by Target.
type RespondAllianceProposal struct {
	Target TribeID `json:"target"`
	Accept bool    `json:"accept"`
}

type FoundSettlement struct {
	UnitID string `json:"unitId"`
}

type FortifyUnit struct {
	UnitID string `json:"unitId"`
}

type SleepUnit struct {
	UnitID string `json:"unitId"`
	Sleep  bool   `json:"sleep"`
}

type BuildImprovement struct {
	UnitID      string      `json:"unitId"`
	Improvement Improvement `json:"improvement"`
}

func (MoveUnit) Type() ActionType                { return ActionMoveUnit }
func (Attack) Type() ActionType                  { return ActionAttack }
func (AttackSettlement) Type() ActionType        { return ActionAttackSettlement }
func (EndTurn) Type() ActionType                 { return ActionEndTurn }
func (StartProduction) Type() ActionType         { return ActionStartProduction }
func (CancelProduction) Type() ActionType        { return ActionCancelProduction }
func (StartResearch) Type() ActionType           { return ActionStartResearch }
func (StartCulture) Type() ActionType            { return ActionStartCulture }
func (SelectMilestone) Type() ActionType         { return ActionSelectMilestone }
func (SelectPolicy) Type() ActionType            { return ActionSelectPolicy }
func (SwapPolicies) Type() ActionType            { return ActionSwapPolicies }
func (SelectPromotion) Type() ActionType         { return ActionSelectPromotion }
func (MintUnit) Type() ActionType                { return ActionMintUnit }
func (CreateTradeRoute) Type() ActionType        { return ActionCreateTradeRoute }
func (CancelTradeRoute) Type() ActionType        { return ActionCancelTradeRoute }
func (DeclareWar) Type() ActionType              { return ActionDeclareWar }
func (ProposePeace) Type() ActionType            { return ActionProposePeace }
func (RespondPeaceProposal) Type() ActionType    { return ActionRespondPeaceProposal }
func (ProposeAlliance) Type() ActionType         { return ActionProposeAlliance }
func (RespondAllianceProposal) Type() ActionType { return ActionRespondAllianceProposal }
func (FoundSettlement) Type() ActionType         { return ActionFoundSettlement }
func (FortifyUnit) Type() ActionType             { return ActionFortifyUnit }
func (SleepUnit) Type() ActionType               { return ActionSleepUnit }
func (BuildImprovement) Type() ActionType        { return ActionBuildImprovement }

func (MoveUnit) isAction()                {}
func (Attack) isAction()                  {}
func (AttackSettlement) isAction()        {}
func (EndTurn) isAction()                 {}
func (StartProduction) isAction()         {}
func (CancelProduction) isAction()        {}
func (StartResearch) isAction()           {}
func (StartCulture) isAction()            {}
func (SelectMilestone) isAction()         {}
func (SelectPolicy) isAction()            {}
func (SwapPolicies) isAction()            {}
func (SelectPromotion) isAction()         {}
func (MintUnit) isAction()                {}
func (CreateTradeRoute) isAction()        {}
func (CancelTradeRoute) isAction()        {}
func (DeclareWar) isAction()              {}
func (ProposePeace) isAction()            {}
func (RespondPeaceProposal) isAction()    {}
func (ProposeAlliance) isAction()         {}
func (RespondAllianceProposal) isAction() {}
func (FoundSettlement) isAction()         {}
func (FortifyUnit) isAction()             {}
func (SleepUnit) isAction()               {}
func (BuildImprovement) isAction()        {}

// envelope is the wire form of an Action.
type envelope struct {
	Type    ActionType      `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MarshalAction encodes an action as {"type": ..., "payload": {...}}.
func MarshalAction(a Action) ([]byte, error) {
	if a == nil {
		return nil, fmt.Errorf("marshal action: nil")
	}
	payload, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", a.Type(), err)
	}
	return json.Marshal(envelope{Type: a.Type(), Payload: payload})
}

// UnmarshalAction decodes the envelope produced by MarshalAction.
func UnmarshalAction(data []byte) (Action, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshal action: %w", err)
	}
	a, err := newAction(env.Type)
	if err != nil {
		return nil, err
	}
	if len(env.Payload) == 0 || string(env.Payload) == "null" {
		return derefAction(a), nil
	}
	if err := json.Unmarshal(env.Payload, a); err != nil {
		return nil, fmt.Errorf("unmarshal %s payload: %w", env.Type, err)
	}
	return derefAction(a), nil
}

// newAction returns a pointer to a zero value of the named action.
func newAction(t ActionType) (any, error) {
	switch t {
	case ActionMoveUnit:
		return &MoveUnit{}, nil
	case ActionAttack:
		return &Attack{}, nil
	case ActionAttackSettlement:
		return &AttackSettlement{}, nil
	case ActionEndTurn:
		return &EndTurn{}, nil
	case ActionStartProduction:
		return &StartProduction{}, nil
	case ActionCancelProduction:
		return &CancelProduction{}, nil
	case ActionStartResearch:
		return &StartResearch{}, nil
	case ActionStartCulture:
		return &StartCulture{}, nil
	case ActionSelectMilestone:
		return &SelectMilestone{}, nil
	case ActionSelectPolicy:
		return &SelectPolicy{}, nil
	case ActionSwapPolicies:
		return &SwapPolicies{}, nil
	case ActionSelectPromotion:
		return &SelectPromotion{}, nil
	case ActionMintUnit:
		return &MintUnit{}, nil
	case ActionCreateTradeRoute:
		return &CreateTradeRoute{}, nil
	case ActionCancelTradeRoute:
		return &CancelTradeRoute{}, nil
	case ActionDeclareWar:
		return &DeclareWar{}, nil
	case ActionProposePeace:
		return &ProposePeace{}, nil
	case ActionRespondPeaceProposal:
		return &RespondPeaceProposal{}, nil
	case ActionProposeAlliance:
		return &ProposeAlliance{}, nil
	case ActionRespondAllianceProposal:
		return &RespondAllianceProposal{}, nil
	case ActionFoundSettlement:
		return &FoundSettlement{}, nil
	case ActionFortifyUnit:
		return &FortifyUnit{}, nil
	case ActionSleepUnit:
		return &SleepUnit{}, nil
	case ActionBuildImprovement:
		return &BuildImprovement{}, nil
	}
	return nil, fmt.Errorf("unmarshal action: %w: %q", ErrUnknownAction, t)
}

// derefAction unwraps a pointer to an action. Values pass through.
func derefAction(p any) Action {
	switch v := p.(type) {
	case *MoveUnit:
		return deref(v)
	case *Attack:
		return deref(v)
	case *AttackSettlement:
		return deref(v)
	case *EndTurn:
		return deref(v)
	case *StartProduction:
		return deref(v)
	case *CancelProduction:
		return deref(v)
	case *StartResearch:
		return deref(v)
	case *StartCulture:
		return deref(v)
	case *SelectMilestone:
		return deref(v)
	case *SelectPolicy:
		return deref(v)
	case *SwapPolicies:
		return deref(v)
	case *SelectPromotion:
		return deref(v)
	case *MintUnit:
		return deref(v)
	case *CreateTradeRoute:
		return deref(v)
	case *CancelTradeRoute:
		return deref(v)
	case *DeclareWar:
		return deref(v)
	case *ProposePeace:
		return deref(v)
	case *RespondPeaceProposal:
		return deref(v)
	case *ProposeAlliance:
		return deref(v)
	case *RespondAllianceProposal:
		return deref(v)
	case *FoundSettlement:
		return deref(v)
	case *FortifyUnit:
		return deref(v)
	case *SleepUnit:
		return deref(v)
	case *BuildImprovement:
		return deref(v)
	}
	a, _ := p.(Action)
	return a
}

// deref returns the action p points to, or nil for a nil pointer.
func deref[T Action](p *T) Action {
	if p == nil {
		return nil
	}
	return *p
}
