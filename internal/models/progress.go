package models

// ── Action Kinds ──────────────────────────────────────────

// ActionKind identifies what a learner just did. The set is closed — an
// unknown kind reaching the scoring policy is a programming error.
type ActionKind string

const (
	ActionLessonComplete ActionKind = "lesson_complete"
	ActionQuizComplete   ActionKind = "quiz_complete"
	ActionPerfectScore   ActionKind = "perfect_score"
	ActionModuleComplete ActionKind = "module_complete"
)

// Action is one user interaction handed to the progress service.
// LessonID carries the lesson for lesson/quiz kinds, ModuleID the module
// for module_complete. ExtraPoints is a caller-computed bonus (mini-game
// rewards, perfect-score bonus) added on top of the kind's base award.
type Action struct {
	Kind        ActionKind
	LessonID    int64
	ModuleID    int64
	Score       int
	ExtraPoints int
}

// ── Snapshot ──────────────────────────────────────────────

// Snapshot is a learner's full progress state. It is a value owned by the
// learner, read and rewritten atomically through the progress service, and
// only ever replaced — never mutated in place by callers.
type Snapshot struct {
	UserID           int64
	Points           int
	CompletedLessons map[int64]bool
	CompletedModules map[int64]bool
	QuizScores       map[int64]int
	Badges           map[string]bool
	Role             string
}

// NewSnapshot returns the empty snapshot created at registration.
func NewSnapshot(userID int64, role string) *Snapshot {
	return &Snapshot{
		UserID:           userID,
		CompletedLessons: make(map[int64]bool),
		CompletedModules: make(map[int64]bool),
		QuizScores:       make(map[int64]int),
		Badges:           make(map[string]bool),
		Role:             role,
	}
}

// Clone returns a deep copy. Merge works on copies so that a caller's
// snapshot is never mutated under it.
func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{
		UserID:           s.UserID,
		Points:           s.Points,
		CompletedLessons: make(map[int64]bool, len(s.CompletedLessons)),
		CompletedModules: make(map[int64]bool, len(s.CompletedModules)),
		QuizScores:       make(map[int64]int, len(s.QuizScores)),
		Badges:           make(map[string]bool, len(s.Badges)),
		Role:             s.Role,
	}
	for id := range s.CompletedLessons {
		out.CompletedLessons[id] = true
	}
	for id := range s.CompletedModules {
		out.CompletedModules[id] = true
	}
	for id, score := range s.QuizScores {
		out.QuizScores[id] = score
	}
	for id := range s.Badges {
		out.Badges[id] = true
	}
	return out
}

// Update is the delta folded into a snapshot by Merge. Set fields union in
// (idempotent), quiz scores overwrite per key, PointsDelta is additive.
type Update struct {
	CompletedLessons []int64
	CompletedModules []int64
	QuizScores       map[int64]int
	Badges           []string
	PointsDelta      int
}

// ── Request Types ─────────────────────────────────────────

type SubmitScoreRequest struct {
	Score int `json:"score"`
}

// ── Response Types ────────────────────────────────────────

type BadgeInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ProgressResponse struct {
	UserID           int64         `json:"user_id"`
	Points           int           `json:"points"`
	CompletedLessons []int64       `json:"completed_lessons"`
	CompletedModules []int64       `json:"completed_modules"`
	QuizScores       map[int64]int `json:"quiz_scores"`
	Badges           []BadgeInfo   `json:"badges"`
	Role             string        `json:"role"`
}

type ActionResponse struct {
	Progress      ProgressResponse `json:"progress"`
	PointsAwarded int              `json:"points_awarded"`
	NewBadges     []BadgeInfo      `json:"new_badges"`
}
