package progress

import (
	"log"

	"github.com/catlearn/backend/internal/models"
)

// IntroLessonID is the distinguished introductory lesson; completing it
// earns the system_explorer badge.
const IntroLessonID = 1

// BadgeDef defines a single badge: display metadata plus a pure predicate
// over a progress snapshot. Predicates must be deterministic and
// side-effect-free so evaluation order cannot matter.
type BadgeDef struct {
	ID          string
	Name        string
	Description string
	Predicate   func(*models.Snapshot) bool
}

// Catalog is the closed list of badge definitions, loaded once at process
// start. Badges are never revoked once earned.
var Catalog = []BadgeDef{
	{
		ID:          "first_login",
		Name:        "Welcome Aboard",
		Description: "Log in for the first time",
		Predicate:   func(*models.Snapshot) bool { return true },
	},
	{
		ID:          "first_lesson",
		Name:        "First Steps",
		Description: "Complete your first lesson",
		Predicate: func(s *models.Snapshot) bool {
			return len(s.CompletedLessons) > 0
		},
	},
	{
		ID:          "first_quiz",
		Name:        "Quiz Taker",
		Description: "Attempt your first quiz",
		Predicate: func(s *models.Snapshot) bool {
			return len(s.QuizScores) > 0
		},
	},
	{
		ID:          "perfect_quiz",
		Name:        "Perfectionist",
		Description: "Score 100% on a quiz",
		Predicate: func(s *models.Snapshot) bool {
			for _, score := range s.QuizScores {
				if score == PerfectScore {
					return true
				}
			}
			return false
		},
	},
	{
		ID:          "system_explorer",
		Name:        "System Explorer",
		Description: "Complete the introduction to computer systems",
		Predicate: func(s *models.Snapshot) bool {
			return s.CompletedLessons[IntroLessonID]
		},
	},
	{
		ID:          "module_master",
		Name:        "Module Master",
		Description: "Complete a full module",
		Predicate: func(s *models.Snapshot) bool {
			return len(s.CompletedModules) > 0
		},
	},
	{
		ID:          "admin_badge",
		Name:        "Administrator",
		Description: "Keep the platform running",
		Predicate: func(s *models.Snapshot) bool {
			return s.Role == models.RoleAdmin
		},
	},
}

// BadgeByID returns the definition for a badge id.
func BadgeByID(id string) (BadgeDef, bool) {
	for _, def := range Catalog {
		if def.ID == id {
			return def, true
		}
	}
	return BadgeDef{}, false
}

// Evaluate returns the ids of badges whose predicate holds on the snapshot
// and that the user does not already hold.
func Evaluate(snap *models.Snapshot) []string {
	return evaluate(Catalog, snap)
}

func evaluate(defs []BadgeDef, snap *models.Snapshot) []string {
	var earned []string
	for _, def := range defs {
		if snap.Badges[def.ID] {
			continue
		}
		if checkPredicate(def, snap) {
			earned = append(earned, def.ID)
		}
	}
	return earned
}

// checkPredicate runs one predicate, treating a panic as "not earned".
// A broken predicate must never block persistence of the snapshot itself.
func checkPredicate(def BadgeDef, snap *models.Snapshot) (earned bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[progress] badge predicate %q panicked: %v", def.ID, r)
			earned = false
		}
	}()
	return def.Predicate(snap)
}
