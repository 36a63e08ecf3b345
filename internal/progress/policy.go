package progress

import (
	"fmt"

	"github.com/catlearn/backend/internal/models"
)

// PassScore is the minimum quiz percentage that marks the lesson complete.
// A lower score still records the attempt but awards no completion.
const PassScore = 80

// PerfectScore is the quiz percentage that qualifies for the perfect bonus.
const PerfectScore = 100

// PointsFor returns the fixed point award for an action kind. The table is
// closed; an unknown kind is a programming error, not a recoverable input.
func PointsFor(kind models.ActionKind) int {
	switch kind {
	case models.ActionLessonComplete:
		return 10
	case models.ActionQuizComplete:
		return 15
	case models.ActionPerfectScore:
		return 25
	case models.ActionModuleComplete:
		return 50
	}
	panic(fmt.Sprintf("progress: unknown action kind %q", kind))
}

// Mini-game rewards are a separate table from the action kinds above: the
// kinds are lesson-centric fixed awards, the game reward interpolates on
// score. The two must not be merged even though the base values coincide.

const gameBaseReward = 15

// GameBonus returns the score-dependent bonus for a drag-and-drop game.
func GameBonus(score int) int {
	switch {
	case score >= 90:
		return 10
	case score >= 75:
		return 5
	default:
		return 0
	}
}

// GameReward returns the full award for completing a game: flat completion
// reward plus the score bonus.
func GameReward(score int) int {
	return gameBaseReward + GameBonus(score)
}
