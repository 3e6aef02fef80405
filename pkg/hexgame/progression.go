package hexgame

import "slices"

// Progress reports advancement toward the current research or culture target.
type Progress struct {
	Target   string `json:"target,omitempty"`
	Progress int    `json:"progress"`
	Cost     int    `json:"cost"`
	PerTurn  int    `json:"perTurn"`
	Turns    int    `json:"turns"` // -1 when there is no target or no yield
}

// ResearchProgress reports a tribe's current research.
func ResearchProgress(gs *GameState, t TribeID) Progress {
	p := gs.Player(t)
	if p == nil || p.CurrentResearch == "" {
		return Progress{Turns: -1}
	}
	cost := techDefs[p.CurrentResearch].Cost
	return Progress{
		Target:   string(p.CurrentResearch),
		Progress: p.ResearchProgress,
		Cost:     cost,
		PerTurn:  p.Yields.Science,
		Turns:    turnsFor(cost-p.ResearchProgress, p.Yields.Science),
	}
}

// TurnsToResearch estimates turns to finish tech at the current science
// rate, counting any stashed partial progress. It returns 0 for known techs
// and -1 when science is zero.
func TurnsToResearch(gs *GameState, t TribeID, tech TechID) int {
	p := gs.Player(t)
	def, ok := techDefs[tech]
	if p == nil || !ok {
		return -1
	}
	if p.Techs[tech] {
		return 0
	}
	done := p.PartialResearch[tech]
	if p.CurrentResearch == tech {
		done = p.ResearchProgress
	}
	return turnsFor(def.Cost-done, p.Yields.Science)
}

// CultureProgress reports a tribe's current culture target.
func CultureProgress(gs *GameState, t TribeID) Progress {
	p := gs.Player(t)
	if p == nil || p.CurrentCulture == "" {
		return Progress{Turns: -1}
	}
	cost := cultureDefs[p.CurrentCulture].Cost
	return Progress{
		Target:   string(p.CurrentCulture),
		Progress: p.CultureProgress,
		Cost:     cost,
		PerTurn:  p.Yields.Culture,
		Turns:    turnsFor(cost-p.CultureProgress, p.Yields.Culture),
	}
}

// TurnsToCulture is the culture-tree counterpart of TurnsToResearch.
func TurnsToCulture(gs *GameState, t TribeID, c CultureID) int {
	p := gs.Player(t)
	def, ok := cultureDefs[c]
	if p == nil || !ok {
		return -1
	}
	if p.Cultures[c] {
		return 0
	}
	done := p.PartialCulture[c]
	if p.CurrentCulture == c {
		done = p.CultureProgress
	}
	return turnsFor(def.Cost-done, p.Yields.Culture)
}

func techAvailable(p *Player, t TechID) bool {
	def, ok := techDefs[t]
	if !ok || p.Techs[t] {
		return false
	}
	for _, pre := range def.Prereqs {
		if !p.Techs[pre] {
			return false
		}
	}
	return true
}

func cultureAvailable(p *Player, c CultureID) bool {
	def, ok := cultureDefs[c]
	if !ok || p.Cultures[c] {
		return false
	}
	for _, pre := range def.Prereqs {
		if !p.Cultures[pre] {
			return false
		}
	}
	return true
}

// AvailableTechs lists techs whose prerequisites are met, in tree order.
func AvailableTechs(gs *GameState, t TribeID) []TechID {
	p := gs.Player(t)
	if p == nil {
		return nil
	}
	var out []TechID
	for _, id := range techOrder {
		if techAvailable(p, id) {
			out = append(out, id)
		}
	}
	return out
}

// AvailableCultures lists cultures whose prerequisites are met, in tree order.
func AvailableCultures(gs *GameState, t TribeID) []CultureID {
	p := gs.Player(t)
	if p == nil {
		return nil
	}
	var out []CultureID
	for _, id := range cultureOrder {
		if cultureAvailable(p, id) {
			out = append(out, id)
		}
	}
	return out
}

func validateStartResearch(gs *GameState, a StartResearch) error {
	p := gs.Current()
	if _, ok := techDefs[a.Tech]; !ok {
		return reject(a.Type(), ErrInvalidChoice, "unknown tech %q", a.Tech)
	}
	if p.Techs[a.Tech] || p.CurrentResearch == a.Tech {
		return reject(a.Type(), ErrAlreadyDone, "%s already researched or in progress", a.Tech)
	}
	if !techAvailable(p, a.Tech) {
		return reject(a.Type(), ErrPrerequisite, "%s requires %v", a.Tech, techDefs[a.Tech].Prereqs)
	}
	return nil
}

func applyStartResearch(gs *GameState, a StartResearch) {
	p := gs.Current()
	if p.CurrentResearch != "" && p.ResearchProgress > 0 {
		p.PartialResearch[p.CurrentResearch] = p.ResearchProgress
	}
	p.CurrentResearch = a.Tech
	p.ResearchProgress = p.PartialResearch[a.Tech]
	delete(p.PartialResearch, a.Tech)
}

func validateStartCulture(gs *GameState, a StartCulture) error {
	p := gs.Current()
	if _, ok := cultureDefs[a.Culture]; !ok {
		return reject(a.Type(), ErrInvalidChoice, "unknown culture %q", a.Culture)
	}
	if p.Cultures[a.Culture] || p.CurrentCulture == a.Culture {
		return reject(a.Type(), ErrAlreadyDone, "%s already adopted or in progress", a.Culture)
	}
	if !cultureAvailable(p, a.Culture) {
		return reject(a.Type(), ErrPrerequisite, "%s requires %v", a.Culture, cultureDefs[a.Culture].Prereqs)
	}
	return nil
}

func applyStartCulture(gs *GameState, a StartCulture) {
	p := gs.Current()
	if p.CurrentCulture != "" && p.CultureProgress > 0 {
		p.PartialCulture[p.CurrentCulture] = p.CultureProgress
	}
	p.CurrentCulture = a.Culture
	p.CultureProgress = p.PartialCulture[a.Culture]
	delete(p.PartialCulture, a.Culture)
}

// tickResearch accrues science and unlocks the target when paid for.
func tickResearch(gs *GameState, p *Player) {
	if p.CurrentResearch == "" {
		return
	}
	def := techDefs[p.CurrentResearch]
	p.ResearchProgress = min(def.Cost, p.ResearchProgress+max(0, p.Yields.Science))
	if p.ResearchProgress < def.Cost {
		return
	}
	tech := p.CurrentResearch
	p.Techs[tech] = true
	p.CurrentResearch = ""
	p.ResearchProgress = 0
	revealResources(gs, tech)
}

// revealResources flags deposits whose reveal tech was just discovered.
func revealResources(gs *GameState, tech TechID) {
	for h, t := range gs.Map.Tiles {
		if t.Resource == nil || t.Resource.Revealed {
			continue
		}
		if resourceDefs[t.Resource.Type].RevealTech == tech {
			r := *t.Resource
			r.Revealed = true
			t.Resource = &r
			gs.Map.Tiles[h] = t
		}
	}
}

// tickCulture accrues culture and adopts the target when paid for.
func tickCulture(p *Player) {
	if p.CurrentCulture == "" {
		return
	}
	def := cultureDefs[p.CurrentCulture]
	p.CultureProgress = min(def.Cost, p.CultureProgress+max(0, p.Yields.Culture))
	if p.CultureProgress < def.Cost {
		return
	}
	p.Cultures[p.CurrentCulture] = true
	p.CurrentCulture = ""
	p.CultureProgress = 0
	for cat, n := range def.Slots {
		p.PolicySlots[cat] += n
	}
	p.PolicySwapAvailable = true
	if def.GoldenAge > 0 {
		startGoldenAge(p, def.GoldenAge)
	}
}

func startGoldenAge(p *Player, turns int) {
	p.GoldenAge.Active = true
	p.GoldenAge.TurnsRemaining = max(p.GoldenAge.TurnsRemaining, turns)
}

// tickTimers counts down the golden age and buffs, dropping expired ones.
func tickTimers(p *Player) {
	if p.GoldenAge.Active {
		p.GoldenAge.TurnsRemaining--
		if p.GoldenAge.TurnsRemaining <= 0 {
			p.GoldenAge = GoldenAge{}
		}
	}
	kept := p.Buffs[:0]
	for _, b := range p.Buffs {
		b.TurnsRemaining--
		if b.TurnsRemaining > 0 {
			kept = append(kept, b)
		}
	}
	p.Buffs = kept
}

// CanSwapPolicies reports whether a tribe holds an unused swap token.
func CanSwapPolicies(gs *GameState, t TribeID) bool {
	p := gs.Player(t)
	return p != nil && p.PolicySwapAvailable
}

func validateSelectPolicy(gs *GameState, a SelectPolicy) error {
	p := gs.Current()
	if _, ok := policyDefs[a.Policy]; !ok {
		return reject(a.Type(), ErrInvalidChoice, "unknown policy %q", a.Policy)
	}
	if !slices.Contains(UnlockedPolicies(p), a.Policy) {
		return reject(a.Type(), ErrPrerequisite, "%s is not unlocked", a.Policy)
	}
	if slices.Contains(p.ActivePolicies, a.Policy) {
		return reject(a.Type(), ErrAlreadyDone, "%s is already active", a.Policy)
	}
	if !fitPolicies(p.PolicySlots, append(slices.Clone(p.ActivePolicies), a.Policy)) {
		return reject(a.Type(), ErrCapacity, "no free slot for %s", a.Policy)
	}
	return nil
}

func applySelectPolicy(gs *GameState, a SelectPolicy) {
	p := gs.Current()
	p.ActivePolicies = append(p.ActivePolicies, a.Policy)
}

func validateSwapPolicies(gs *GameState, a SwapPolicies) error {
	p := gs.Current()
	if !a.Permitted && !p.PolicySwapAvailable {
		return reject(a.Type(), ErrSwapNotPermitted, "no swap available")
	}
	unlocked := UnlockedPolicies(p)
	seen := make(map[PolicyID]bool, len(a.Policies))
	for _, id := range a.Policies {
		if _, ok := policyDefs[id]; !ok {
			return reject(a.Type(), ErrInvalidChoice, "unknown policy %q", id)
		}
		if seen[id] {
			return reject(a.Type(), ErrInvalidChoice, "%s listed twice", id)
		}
		seen[id] = true
		if !slices.Contains(unlocked, id) {
			return reject(a.Type(), ErrPrerequisite, "%s is not unlocked", id)
		}
	}
	if !fitPolicies(p.PolicySlots, a.Policies) {
		return reject(a.Type(), ErrCapacity, "policies exceed slots")
	}
	return nil
}

func applySwapPolicies(gs *GameState, a SwapPolicies) {
	p := gs.Current()
	p.ActivePolicies = slices.Clone(a.Policies)
	p.PolicySwapAvailable = false
}

// PendingMilestones lists a settlement's unresolved milestone levels.
func PendingMilestones(gs *GameState, id string) []int {
	s, ok := gs.Settlements[id]
	if !ok {
		return nil
	}
	return slices.Clone(s.PendingMilestones)
}

func validateSelectMilestone(gs *GameState, a SelectMilestone) error {
	s, err := ownedSettlement(gs, a.Type(), a.SettlementID)
	if err != nil {
		return err
	}
	if _, chosen := s.MilestoneChoices[a.Level]; chosen {
		return reject(a.Type(), ErrAlreadyDone, "level %d already chosen", a.Level)
	}
	if !slices.Contains(s.PendingMilestones, a.Level) {
		return reject(a.Type(), ErrInvalidChoice, "level %d is not pending", a.Level)
	}
	if a.Choice != ChoiceA && a.Choice != ChoiceB {
		return reject(a.Type(), ErrInvalidChoice, "choice %q", a.Choice)
	}
	return nil
}

func applySelectMilestone(gs *GameState, a SelectMilestone) {
	s := gs.Settlements[a.SettlementID]
	s.PendingMilestones = slices.DeleteFunc(s.PendingMilestones, func(l int) bool { return l == a.Level })
	s.MilestoneChoices[a.Level] = a.Choice
	opts := milestoneRewards[a.Level]
	r := opts[0]
	if a.Choice == ChoiceB {
		r = opts[1]
	}
	s.Bonus = s.Bonus.Add(r.Yields)
	if r.MaxHealth > 0 {
		s.MaxHealth += r.MaxHealth
		s.Health += r.MaxHealth
	}
	gs.Settlements[s.ID] = s

	p := gs.Player(s.Owner)
	if r.GoldenAge > 0 {
		startGoldenAge(p, r.GoldenAge)
	}
	if r.BuffTurns > 0 {
		p.Buffs = append(p.Buffs, Buff{
			Source:         s.ID,
			Yield:          r.BuffYield,
			Percent:        r.BuffPercent,
			TurnsRemaining: r.BuffTurns,
		})
	}
}

// promotionPoints is the number of unspent promotions a unit has earned.
func promotionPoints(u Unit) int {
	return max(0, u.Experience/XPPerPromotion-len(u.Promotions))
}

// AvailablePromotions lists promotions the unit can take now.
func AvailablePromotions(gs *GameState, unitID string) []PromotionID {
	u, ok := gs.Units[unitID]
	if !ok || promotionPoints(u) == 0 {
		return nil
	}
	var out []PromotionID
	for _, id := range promotionOrder {
		if canPromote(u, id) {
			out = append(out, id)
		}
	}
	return out
}

func canPromote(u Unit, id PromotionID) bool {
	def, ok := promotionDefs[id]
	if !ok || slices.Contains(u.Promotions, id) {
		return false
	}
	return def.Requires == "" || slices.Contains(u.Promotions, def.Requires)
}

func validateSelectPromotion(gs *GameState, a SelectPromotion) error {
	u, ok := gs.Units[a.UnitID]
	if !ok {
		return missing(a.Type(), "unit", a.UnitID)
	}
	if u.Owner != gs.CurrentPlayer {
		return reject(a.Type(), ErrNotOwner, "unit %s belongs to %s", u.ID, u.Owner)
	}
	def, ok := promotionDefs[a.Promotion]
	if !ok {
		return reject(a.Type(), ErrInvalidChoice, "unknown promotion %q", a.Promotion)
	}
	if slices.Contains(u.Promotions, a.Promotion) {
		return reject(a.Type(), ErrAlreadyDone, "%s already has %s", u.ID, a.Promotion)
	}
	if promotionPoints(u) == 0 {
		return reject(a.Type(), ErrPrerequisite, "%s has %d xp", u.ID, u.Experience)
	}
	if def.Requires != "" && !slices.Contains(u.Promotions, def.Requires) {
		return reject(a.Type(), ErrPrerequisite, "%s requires %s", a.Promotion, def.Requires)
	}
	return nil
}

func applySelectPromotion(gs *GameState, a SelectPromotion) {
	u := gs.Units[a.UnitID]
	u.Promotions = append(u.Promotions, a.Promotion)
	if d := promotionDefs[a.Promotion].Movement; d > 0 && !u.HasActed {
		u.MovementRemaining += d
	}
	gs.Units[u.ID] = u
}
