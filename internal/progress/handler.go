package progress

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"

	"github.com/catlearn/backend/internal/models"
	"github.com/gorilla/mux"
)

// ContentCatalog checks ids against the content catalog so progress never
// records a lesson or module that doesn't exist.
type ContentCatalog interface {
	LessonExists(id int64) (bool, error)
	ModuleExists(id int64) (bool, error)
	GameExists(lessonID int64) (bool, error)
}

type Handler struct {
	service *Service
	catalog ContentCatalog
}

func NewHandler(service *Service, catalog ContentCatalog) *Handler {
	return &Handler{service: service, catalog: catalog}
}

func getUserID(r *http.Request) (int64, bool) {
	uid, ok := r.Context().Value("user_id").(int64)
	return uid, ok
}

// ── Read ────────────────────────────────────────────────

func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	snap, err := h.service.Get(userID)
	if errors.Is(err, ErrNotFound) {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "No progress found for this account"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load progress"})
		return
	}

	writeJSON(w, http.StatusOK, snapshotResponse(snap))
}

// ── Lesson Completion ───────────────────────────────────

func (h *Handler) CompleteLesson(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	lessonID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if !h.requireLesson(w, lessonID) {
		return
	}

	// Completing an already-completed lesson awards nothing — return the
	// current snapshot instead of replaying the point award.
	current, err := h.service.Get(userID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if current.CompletedLessons[lessonID] {
		writeJSON(w, http.StatusOK, models.ActionResponse{
			Progress:  snapshotResponse(current),
			NewBadges: []models.BadgeInfo{},
		})
		return
	}

	snap, newBadges, err := h.service.ApplyAction(userID, models.Action{
		Kind:     models.ActionLessonComplete,
		LessonID: lessonID,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.ActionResponse{
		Progress:      snapshotResponse(snap),
		PointsAwarded: PointsFor(models.ActionLessonComplete),
		NewBadges:     BadgeDetails(newBadges),
	})
}

// ── Quiz Submission ─────────────────────────────────────

func (h *Handler) SubmitQuiz(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	lessonID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if !h.requireLesson(w, lessonID) {
		return
	}

	score, ok := decodeScore(w, r)
	if !ok {
		return
	}

	// The perfect-score bonus is caller-signaled: a 100% quiz earns the
	// quiz award plus the perfect_score award in one action.
	extra := 0
	if score == PerfectScore {
		extra = PointsFor(models.ActionPerfectScore)
	}

	snap, newBadges, err := h.service.ApplyAction(userID, models.Action{
		Kind:        models.ActionQuizComplete,
		LessonID:    lessonID,
		Score:       score,
		ExtraPoints: extra,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.ActionResponse{
		Progress:      snapshotResponse(snap),
		PointsAwarded: PointsFor(models.ActionQuizComplete) + extra,
		NewBadges:     BadgeDetails(newBadges),
	})
}

// ── Game Submission ─────────────────────────────────────

func (h *Handler) SubmitGame(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	lessonID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	exists, err := h.catalog.GameExists(lessonID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to check game"})
		return
	}
	if !exists {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Game not found"})
		return
	}

	score, ok := decodeScore(w, r)
	if !ok {
		return
	}

	// Games ride the quiz action with their bonus as extra points: the flat
	// game reward equals the quiz award and the score bonus comes from the
	// game table. The score is recorded like any other scored attempt.
	bonus := GameBonus(score)
	snap, newBadges, err := h.service.ApplyAction(userID, models.Action{
		Kind:        models.ActionQuizComplete,
		LessonID:    lessonID,
		Score:       score,
		ExtraPoints: bonus,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.ActionResponse{
		Progress:      snapshotResponse(snap),
		PointsAwarded: GameReward(score),
		NewBadges:     BadgeDetails(newBadges),
	})
}

// ── Module Completion ───────────────────────────────────

func (h *Handler) CompleteModule(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	moduleID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	exists, err := h.catalog.ModuleExists(moduleID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to check module"})
		return
	}
	if !exists {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Module not found"})
		return
	}

	current, err := h.service.Get(userID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if current.CompletedModules[moduleID] {
		writeJSON(w, http.StatusOK, models.ActionResponse{
			Progress:  snapshotResponse(current),
			NewBadges: []models.BadgeInfo{},
		})
		return
	}

	snap, newBadges, err := h.service.ApplyAction(userID, models.Action{
		Kind:     models.ActionModuleComplete,
		ModuleID: moduleID,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.ActionResponse{
		Progress:      snapshotResponse(snap),
		PointsAwarded: PointsFor(models.ActionModuleComplete),
		NewBadges:     BadgeDetails(newBadges),
	})
}

// ── Helpers ─────────────────────────────────────────────

func (h *Handler) requireLesson(w http.ResponseWriter, lessonID int64) bool {
	exists, err := h.catalog.LessonExists(lessonID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to check lesson"})
		return false
	}
	if !exists {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Lesson not found"})
		return false
	}
	return true
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "No progress found for this account"})
		return
	}
	writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to save progress, please try again"})
}

func pathID(w http.ResponseWriter, r *http.Request, key string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[key], 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid id"})
		return 0, false
	}
	return id, true
}

func decodeScore(w http.ResponseWriter, r *http.Request) (int, bool) {
	var req models.SubmitScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return 0, false
	}
	if req.Score < 0 || req.Score > 100 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "score must be between 0 and 100"})
		return 0, false
	}
	return req.Score, true
}

func snapshotResponse(snap *models.Snapshot) models.ProgressResponse {
	lessons := sortedIDs(snap.CompletedLessons)
	modules := sortedIDs(snap.CompletedModules)

	badgeIDs := make([]string, 0, len(snap.Badges))
	for id := range snap.Badges {
		badgeIDs = append(badgeIDs, id)
	}
	sort.Strings(badgeIDs)

	return models.ProgressResponse{
		UserID:           snap.UserID,
		Points:           snap.Points,
		CompletedLessons: lessons,
		CompletedModules: modules,
		QuizScores:       snap.QuizScores,
		Badges:           BadgeDetails(badgeIDs),
		Role:             snap.Role,
	}
}

func sortedIDs(set map[int64]bool) []int64 {
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
