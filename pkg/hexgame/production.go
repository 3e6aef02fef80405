package hexgame

import "slices"

// ProductionOption is an item a settlement may queue.
type ProductionOption struct {
	Kind  ProductionKind `json:"kind"`
	ID    string         `json:"id"`
	Cost  int            `json:"cost"`
	Turns int            `json:"turns"` // -1 when production is zero
}

func turnsFor(remaining, perTurn int) int {
	if remaining <= 0 {
		return 0
	}
	if perTurn <= 0 {
		return -1
	}
	return (remaining + perTurn - 1) / perTurn
}

func queued(s Settlement, kind ProductionKind, id string) bool {
	return slices.ContainsFunc(s.Queue, func(it ProductionItem) bool {
		return it.Kind == kind && it.ID == id
	})
}

// checkProducible returns a reason and the rejection cause for queueing an
// item, or a nil cause when it may be queued.
func checkProducible(gs *GameState, s Settlement, kind ProductionKind, id string) (string, error) {
	if _, ok := itemCost(kind, id); !ok {
		return "unknown " + string(kind) + " " + id, ErrInvalidChoice
	}
	p := gs.Player(s.Owner)
	if tech := itemTech(kind, id); tech != "" && (p == nil || !p.Techs[tech]) {
		return id + " requires " + string(tech), ErrPrerequisite
	}
	switch kind {
	case ProduceBuilding:
		if s.HasBuilding(BuildingID(id)) || queued(s, kind, id) {
			return id + " already built or queued", ErrAlreadyDone
		}
	case ProduceWonder:
		if _, built := gs.Wonders[WonderID(id)]; built {
			return id + " already built", ErrAlreadyDone
		}
		if queued(s, kind, id) {
			return id + " already queued", ErrAlreadyDone
		}
	}
	return "", nil
}

// ProductionOptions lists what a settlement can queue right now.
func ProductionOptions(gs *GameState, id string) []ProductionOption {
	s, ok := gs.Settlements[id]
	if !ok {
		return nil
	}
	perTurn := SettlementYields(gs, id).Production
	var out []ProductionOption
	add := func(kind ProductionKind, item string) {
		if _, err := checkProducible(gs, s, kind, item); err != nil {
			return
		}
		cost, _ := itemCost(kind, item)
		out = append(out, ProductionOption{Kind: kind, ID: item, Cost: cost, Turns: turnsFor(cost, perTurn)})
	}
	for _, u := range unitOrder {
		add(ProduceUnit, string(u))
	}
	for _, b := range buildingOrder {
		add(ProduceBuilding, string(b))
	}
	for _, w := range wonderOrder {
		add(ProduceWonder, string(w))
	}
	return out
}

func ownedSettlement(gs *GameState, at ActionType, id string) (Settlement, error) {
	s, ok := gs.Settlements[id]
	if !ok {
		return Settlement{}, missing(at, "settlement", id)
	}
	if s.Owner != gs.CurrentPlayer {
		return Settlement{}, reject(at, ErrNotOwner, "settlement %s belongs to %s", s.ID, s.Owner)
	}
	return s, nil
}

func validateStartProduction(gs *GameState, a StartProduction) error {
	s, err := ownedSettlement(gs, a.Type(), a.SettlementID)
	if err != nil {
		return err
	}
	if len(s.Queue) >= MaxQueueLength {
		return reject(a.Type(), ErrCapacity, "queue of %s is full", s.ID)
	}
	if msg, cause := checkProducible(gs, s, a.Kind, a.ItemID); cause != nil {
		return reject(a.Type(), cause, "%s", msg)
	}
	return nil
}

func applyStartProduction(gs *GameState, a StartProduction) {
	s := gs.Settlements[a.SettlementID]
	cost, _ := itemCost(a.Kind, a.ItemID)
	s.Queue = append(s.Queue, ProductionItem{Kind: a.Kind, ID: a.ItemID, Cost: cost})
	gs.Settlements[s.ID] = s
}

func validateCancelProduction(gs *GameState, a CancelProduction) error {
	s, err := ownedSettlement(gs, a.Type(), a.SettlementID)
	if err != nil {
		return err
	}
	if a.Index < 0 || a.Index >= len(s.Queue) {
		return reject(a.Type(), ErrInvalidChoice, "no queue entry %d", a.Index)
	}
	return nil
}

func applyCancelProduction(gs *GameState, a CancelProduction) {
	s := gs.Settlements[a.SettlementID]
	s.Queue = slices.Delete(s.Queue, a.Index, a.Index+1)
	gs.Settlements[s.ID] = s
}

// tickProduction adds one turn of production to the queue head and
// completes it when progress reaches cost. Excess is discarded.
func tickProduction(gs *GameState, id string, perTurn int) {
	s := gs.Settlements[id]
	if len(s.Queue) == 0 {
		return
	}
	head := &s.Queue[0]
	head.Progress = min(head.Cost, head.Progress+max(0, perTurn))
	gs.Settlements[id] = s
	if head.Progress < head.Cost {
		return
	}
	if completeItem(gs, id, *head) {
		s = gs.Settlements[id]
		s.Queue = slices.Delete(s.Queue, 0, 1)
		gs.Settlements[id] = s
	}
}

// completeItem applies a finished item. It returns false when the item must
// stay at the queue head and retry, which happens when a unit has no room.
func completeItem(gs *GameState, id string, it ProductionItem) bool {
	s := gs.Settlements[id]
	switch it.Kind {
	case ProduceUnit:
		t := UnitType(it.ID)
		if unitDefs[t].Mintable {
			mintID := gs.newID("m")
			gs.PendingMints = append(gs.PendingMints, PendingMint{
				ID:         mintID,
				Owner:      s.Owner,
				Settlement: s.ID,
				UnitType:   t,
				Nonce:      uint64(gs.NextID),
				Turn:       gs.Turn,
			})
			return true
		}
		h, ok := freeSpawnHex(gs, s.Position)
		if !ok {
			return false
		}
		u := spawnUnit(gs, s.Owner, t, h, Common)
		grantBarracks(gs, s, u.ID)
		return true
	case ProduceBuilding:
		b := BuildingID(it.ID)
		s.Buildings = append(s.Buildings, b)
		if extra := buildingDefs[b].Health; extra > 0 {
			s.MaxHealth += extra
			s.Health += extra
		}
		gs.Settlements[id] = s
		return true
	case ProduceWonder:
		completeWonder(gs, id, WonderID(it.ID))
		return true
	}
	return true
}

func grantBarracks(gs *GameState, s Settlement, unitID string) {
	if !s.HasBuilding(Barracks) {
		return
	}
	u := gs.Units[unitID]
	if unitDefs[u.Type].IsCombat() {
		u.Experience += buildingDefs[Barracks].StartXP
		gs.Units[unitID] = u
	}
}

// completeWonder records a wonder and refunds every other queued copy as gold.
func completeWonder(gs *GameState, id string, w WonderID) {
	gs.Wonders[w] = id
	for _, sid := range gs.SettlementIDs() {
		if sid == id {
			continue
		}
		other := gs.Settlements[sid]
		refund := 0
		other.Queue = slices.DeleteFunc(other.Queue, func(it ProductionItem) bool {
			if it.Kind == ProduceWonder && WonderID(it.ID) == w {
				refund += it.Progress
				return true
			}
			return false
		})
		gs.Settlements[sid] = other
		if p := gs.Player(other.Owner); p != nil {
			p.Treasury += refund
		}
	}
}

// PendingMints returns a tribe's unresolved mints in creation order.
func PendingMints(gs *GameState, t TribeID) []PendingMint {
	var out []PendingMint
	for _, m := range gs.PendingMints {
		if m.Owner == t {
			out = append(out, m)
		}
	}
	return out
}

func findMint(gs *GameState, id string) (int, bool) {
	for i, m := range gs.PendingMints {
		if m.ID == id {
			return i, true
		}
	}
	return -1, false
}

func validateMintUnit(gs *GameState, a MintUnit) error {
	i, ok := findMint(gs, a.MintID)
	if !ok {
		return missing(a.Type(), "mint", a.MintID)
	}
	m := gs.PendingMints[i]
	if m.Owner != gs.CurrentPlayer {
		return reject(a.Type(), ErrNotOwner, "mint %s belongs to %s", m.ID, m.Owner)
	}
	if !a.Rarity.Valid() {
		return reject(a.Type(), ErrInvalidChoice, "rarity %d out of range", int(a.Rarity))
	}
	s, ok := gs.Settlements[m.Settlement]
	if !ok {
		return missing(a.Type(), "settlement", m.Settlement)
	}
	if _, ok := freeSpawnHex(gs, s.Position); !ok {
		return reject(a.Type(), ErrNoSpace, "no room around %s", s.Name)
	}
	return nil
}

func applyMintUnit(gs *GameState, a MintUnit) {
	i, _ := findMint(gs, a.MintID)
	m := gs.PendingMints[i]
	gs.PendingMints = slices.Delete(gs.PendingMints, i, i+1)
	s := gs.Settlements[m.Settlement]
	h, _ := freeSpawnHex(gs, s.Position)
	u := spawnUnit(gs, m.Owner, m.UnitType, h, a.Rarity)
	grantBarracks(gs, s, u.ID)
}
