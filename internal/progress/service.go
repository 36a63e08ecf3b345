package progress

import (
	"log"

	"github.com/catlearn/backend/internal/models"
)

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// ApplyAction turns one learner action into points, completion state and
// badges: load the snapshot, compute the point delta, fold the action in,
// run a badge pass, persist the result as a single write.
//
// Replaying an action double-awards points (Merge's additive contract); the
// HTTP layer short-circuits the already-completed cases, but there is no
// idempotency key below that.
func (s *Service) ApplyAction(userID int64, action models.Action) (*models.Snapshot, []string, error) {
	current, err := s.store.Load(userID)
	if err != nil {
		return nil, nil, err
	}

	delta := PointsFor(action.Kind) + action.ExtraPoints
	merged := Merge(current, buildUpdate(action, delta))

	newBadges := Evaluate(merged)
	if len(newBadges) > 0 {
		merged = Merge(merged, models.Update{Badges: newBadges})
	}

	if err := s.store.Save(merged); err != nil {
		return nil, nil, err
	}

	s.logEvent(userID, action, delta, newBadges)

	return merged, newBadges, nil
}

// Get returns the user's current snapshot.
func (s *Service) Get(userID int64) (*models.Snapshot, error) {
	return s.store.Load(userID)
}

// Bootstrap creates the initial empty snapshot for a new account and runs
// the first badge pass. first_login is awarded here — its predicate is
// unconditionally true.
func (s *Service) Bootstrap(userID int64) (*models.Snapshot, []string, error) {
	if err := s.store.Create(userID); err != nil {
		return nil, nil, err
	}
	snap, err := s.store.Load(userID)
	if err != nil {
		return nil, nil, err
	}

	newBadges := Evaluate(snap)
	if len(newBadges) == 0 {
		return snap, nil, nil
	}

	merged := Merge(snap, models.Update{Badges: newBadges})
	if err := s.store.Save(merged); err != nil {
		return nil, nil, err
	}
	return merged, newBadges, nil
}

// buildUpdate maps an action's payload onto an aggregator update. A quiz
// attempt always records its score; it marks the lesson complete only at
// PassScore or better. perfect_score is a pure point award with no
// completion payload — the caller signals it alongside the quiz result.
func buildUpdate(action models.Action, delta int) models.Update {
	up := models.Update{PointsDelta: delta}

	switch action.Kind {
	case models.ActionLessonComplete:
		up.CompletedLessons = []int64{action.LessonID}
	case models.ActionQuizComplete:
		up.QuizScores = map[int64]int{action.LessonID: action.Score}
		if action.Score >= PassScore {
			up.CompletedLessons = []int64{action.LessonID}
		}
	case models.ActionModuleComplete:
		up.CompletedModules = []int64{action.ModuleID}
	case models.ActionPerfectScore:
	}

	return up
}

func (s *Service) logEvent(userID int64, action models.Action, points int, newBadges []string) {
	metadata := map[string]interface{}{}
	if action.LessonID != 0 {
		metadata["lesson_id"] = action.LessonID
	}
	if action.ModuleID != 0 {
		metadata["module_id"] = action.ModuleID
	}
	if action.Kind == models.ActionQuizComplete {
		metadata["score"] = action.Score
	}
	if action.ExtraPoints != 0 {
		metadata["extra_points"] = action.ExtraPoints
	}
	if len(newBadges) > 0 {
		metadata["new_badges"] = newBadges
	}

	if err := s.store.LogPointEvent(userID, string(action.Kind), points, metadata); err != nil {
		log.Printf("[progress] failed to log point event for user %d: %v", userID, err)
	}
}

// BadgeDetails resolves badge ids to display metadata for API responses.
// Unknown ids are skipped — the catalog is the source of truth.
func BadgeDetails(ids []string) []models.BadgeInfo {
	infos := make([]models.BadgeInfo, 0, len(ids))
	for _, id := range ids {
		def, ok := BadgeByID(id)
		if !ok {
			log.Printf("[progress] unknown badge id %q in snapshot", id)
			continue
		}
		infos = append(infos, models.BadgeInfo{
			ID:          def.ID,
			Name:        def.Name,
			Description: def.Description,
		})
	}
	return infos
}
