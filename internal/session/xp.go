package session

// XP awards. A part pays out proportionally to the fraction answered
// correctly, capped at partXPCap. Finishing the lesson pays a flat base
// plus an accuracy bonus.
const (
	partXPCap          = 20
	completionBase     = 50
	bonusPerfect       = 25
	bonusExcellent     = 15
	bonusGood          = 5
	excellentThreshold = 90
	goodThreshold      = 75
)

// PartXP returns the XP awarded for a finished part: the cap scaled by
// the fraction of questions answered correctly, rounded to nearest.
func PartXP(correct, total int) int {
	if total <= 0 || correct <= 0 {
		return 0
	}
	if correct > total {
		correct = total
	}
	return (partXPCap*correct + total/2) / total
}

// CompletionBonus returns the XP awarded for finishing a lesson: a flat
// base plus a bonus tier by overall accuracy (100%, 90%+, 75%+).
func CompletionBonus(correct, total int) int {
	bonus := completionBase
	if total <= 0 {
		return bonus
	}
	accuracy := correct * 100 / total
	switch {
	case correct == total:
		bonus += bonusPerfect
	case accuracy >= excellentThreshold:
		bonus += bonusExcellent
	case accuracy >= goodThreshold:
		bonus += bonusGood
	}
	return bonus
}
