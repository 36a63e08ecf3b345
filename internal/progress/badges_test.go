package progress

import (
	"testing"

	"github.com/catlearn/backend/internal/models"
)

func TestEvaluateNewAccount(t *testing.T) {
	snap := models.NewSnapshot(1, models.RoleStudent)

	earned := Evaluate(snap)

	// Only first_login is unconditional.
	if len(earned) != 1 || earned[0] != "first_login" {
		t.Errorf("Evaluate(empty student) = %v, want [first_login]", earned)
	}
}

func TestEvaluateAdminAccount(t *testing.T) {
	snap := models.NewSnapshot(1, models.RoleAdmin)

	earned := Evaluate(snap)

	want := map[string]bool{"first_login": true, "admin_badge": true}
	if len(earned) != 2 {
		t.Fatalf("Evaluate(empty admin) = %v, want first_login and admin_badge", earned)
	}
	for _, id := range earned {
		if !want[id] {
			t.Errorf("unexpected badge %q for empty admin snapshot", id)
		}
	}
}

func TestEvaluateNeverReturnsHeldBadges(t *testing.T) {
	snap := models.NewSnapshot(1, models.RoleAdmin)
	snap.CompletedLessons[IntroLessonID] = true
	snap.CompletedModules[2] = true
	snap.QuizScores[3] = 100

	// Hold everything, then evaluate: nothing may come back.
	for _, def := range Catalog {
		snap.Badges[def.ID] = true
	}

	if earned := Evaluate(snap); len(earned) != 0 {
		t.Errorf("Evaluate returned already-held badges: %v", earned)
	}
}

func TestPerfectQuizBadge(t *testing.T) {
	snap := models.NewSnapshot(1, models.RoleStudent)
	snap.Badges["first_login"] = true
	snap.QuizScores[5] = 95

	if contains(Evaluate(snap), "perfect_quiz") {
		t.Error("perfect_quiz earned at 95%")
	}

	snap.QuizScores[6] = 100
	if !contains(Evaluate(snap), "perfect_quiz") {
		t.Error("perfect_quiz not earned with a 100% score")
	}
}

func TestSystemExplorerBadge(t *testing.T) {
	snap := models.NewSnapshot(1, models.RoleStudent)
	snap.Badges["first_login"] = true
	snap.CompletedLessons[7] = true

	if contains(Evaluate(snap), "system_explorer") {
		t.Error("system_explorer earned without the intro lesson")
	}

	snap.CompletedLessons[IntroLessonID] = true
	if !contains(Evaluate(snap), "system_explorer") {
		t.Error("system_explorer not earned after completing the intro lesson")
	}
}

func TestModuleMasterBadge(t *testing.T) {
	snap := models.NewSnapshot(1, models.RoleStudent)
	snap.Badges["first_login"] = true
	snap.CompletedModules[4] = true

	if !contains(Evaluate(snap), "module_master") {
		t.Error("module_master not earned with a completed module")
	}
}

func TestPanickingPredicateIsNotEarned(t *testing.T) {
	defs := []BadgeDef{
		{
			ID:   "broken",
			Name: "Broken",
			Predicate: func(*models.Snapshot) bool {
				panic("predicate bug")
			},
		},
		{
			ID:        "fine",
			Name:      "Fine",
			Predicate: func(*models.Snapshot) bool { return true },
		},
	}

	snap := models.NewSnapshot(1, models.RoleStudent)
	earned := evaluate(defs, snap)

	if contains(earned, "broken") {
		t.Error("panicking predicate was treated as earned")
	}
	if !contains(earned, "fine") {
		t.Error("a panicking predicate blocked evaluation of later badges")
	}
}

func TestBadgeByID(t *testing.T) {
	def, ok := BadgeByID("first_lesson")
	if !ok || def.Name == "" || def.Description == "" {
		t.Errorf("BadgeByID(first_lesson) = %+v, %v", def, ok)
	}

	if _, ok := BadgeByID("no_such_badge"); ok {
		t.Error("BadgeByID returned ok for an unknown id")
	}
}

func contains(ids []string, want string) bool {
	for _, id := range ids {
		if id == want {
			return true
		}
	}
	return false
}
