package hexgame

// MilestoneChoice picks one of the two rewards at a milestone level.
type MilestoneChoice string

const (
	ChoiceA MilestoneChoice = "a"
	ChoiceB MilestoneChoice = "b"
)

// milestoneThresholds are the population sizes that unlock levels 1 through 4.
var milestoneThresholds = []int{3, 5, 8, 12}

// MilestoneReward is one option at a milestone level.
type MilestoneReward struct {
	Yields      Yields // permanent settlement bonus
	GoldenAge   int
	BuffYield   YieldType
	BuffPercent int
	BuffTurns   int
	MaxHealth   int
}

var milestoneRewards = map[int][2]MilestoneReward{
	1: {{Yields: Yields{Production: 2}}, {Yields: Yields{Food: 2}}},
	2: {{Yields: Yields{Gold: 3}}, {Yields: Yields{Science: 2}}},
	3: {{GoldenAge: 10}, {BuffYield: YieldScience, BuffPercent: 25, BuffTurns: 8}},
	4: {{MaxHealth: 100, Yields: Yields{Production: 3}}, {Yields: Yields{Gold: 4, Culture: 2}}},
}

// MilestoneOptions returns both rewards for a level.
func MilestoneOptions(level int) (a, b MilestoneReward, ok bool) {
	r, ok := milestoneRewards[level]
	return r[0], r[1], ok
}

// milestoneLevel is 1 plus the number of thresholds pop has reached.
func milestoneLevel(pop int) int {
	level := 1
	for _, t := range milestoneThresholds {
		if pop >= t {
			level++
		}
	}
	return level
}

// crossedMilestones returns the milestone levels reached moving from oldPop to newPop.
func crossedMilestones(oldPop, newPop int) []int {
	var out []int
	for i, t := range milestoneThresholds {
		if oldPop < t && newPop >= t {
			out = append(out, i+1)
		}
	}
	return out
}
