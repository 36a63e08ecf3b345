package progress

import (
	"testing"

	"github.com/catlearn/backend/internal/models"
)

func TestMergeSetUnionIsIdempotent(t *testing.T) {
	snap := models.NewSnapshot(1, models.RoleStudent)
	up := models.Update{
		CompletedLessons: []int64{3, 4},
		CompletedModules: []int64{2},
	}

	once := Merge(snap, up)
	twice := Merge(once, up)

	if len(once.CompletedLessons) != 2 || len(twice.CompletedLessons) != 2 {
		t.Errorf("lesson set sizes = %d, %d, want 2, 2",
			len(once.CompletedLessons), len(twice.CompletedLessons))
	}
	if len(twice.CompletedModules) != 1 {
		t.Errorf("module set size after double merge = %d, want 1", len(twice.CompletedModules))
	}
	if !twice.CompletedLessons[3] || !twice.CompletedLessons[4] {
		t.Error("merged snapshot missing expected lesson ids")
	}
}

func TestMergePointsAreAdditive(t *testing.T) {
	snap := models.NewSnapshot(1, models.RoleStudent)
	snap.Points = 30

	up := models.Update{PointsDelta: 15}

	once := Merge(snap, up)
	if once.Points != 45 {
		t.Errorf("points after one merge = %d, want 45", once.Points)
	}

	// Replaying the same update double-counts — expected per the additive
	// contract; de-duplication is the caller's job.
	twice := Merge(once, up)
	if twice.Points != 60 {
		t.Errorf("points after double merge = %d, want 60", twice.Points)
	}
}

func TestMergeQuizScoreOverwrite(t *testing.T) {
	snap := models.NewSnapshot(1, models.RoleStudent)

	first := Merge(snap, models.Update{QuizScores: map[int64]int{7: 60}})
	second := Merge(first, models.Update{QuizScores: map[int64]int{7: 95}})

	if second.QuizScores[7] != 95 {
		t.Errorf("quiz score = %d, want 95 (latest attempt wins)", second.QuizScores[7])
	}

	// Keys absent from the update are untouched.
	third := Merge(second, models.Update{QuizScores: map[int64]int{8: 70}})
	if third.QuizScores[7] != 95 {
		t.Errorf("untouched quiz score = %d, want 95", third.QuizScores[7])
	}
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	snap := models.NewSnapshot(1, models.RoleStudent)
	snap.Points = 10
	snap.CompletedLessons[1] = true

	Merge(snap, models.Update{
		CompletedLessons: []int64{2},
		QuizScores:       map[int64]int{5: 80},
		Badges:           []string{"first_lesson"},
		PointsDelta:      50,
	})

	if snap.Points != 10 {
		t.Errorf("input snapshot points mutated to %d", snap.Points)
	}
	if len(snap.CompletedLessons) != 1 {
		t.Errorf("input snapshot lesson set mutated, size %d", len(snap.CompletedLessons))
	}
	if len(snap.QuizScores) != 0 || len(snap.Badges) != 0 {
		t.Error("input snapshot maps mutated")
	}
}

func TestMergeBadgeUnion(t *testing.T) {
	snap := models.NewSnapshot(1, models.RoleStudent)
	snap.Badges["first_login"] = true

	out := Merge(snap, models.Update{Badges: []string{"first_login", "first_lesson"}})

	if len(out.Badges) != 2 {
		t.Errorf("badge set size = %d, want 2", len(out.Badges))
	}
}

func TestMergePassesRoleThrough(t *testing.T) {
	snap := models.NewSnapshot(1, models.RoleAdmin)
	out := Merge(snap, models.Update{PointsDelta: 10})
	if out.Role != models.RoleAdmin {
		t.Errorf("role = %q, want admin", out.Role)
	}
	if out.UserID != 1 {
		t.Errorf("user id = %d, want 1", out.UserID)
	}
}
