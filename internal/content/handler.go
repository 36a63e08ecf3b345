package content

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/catlearn/backend/internal/models"
	"github.com/gorilla/mux"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ── Learner Reads ───────────────────────────────────────

func (h *Handler) ListModules(w http.ResponseWriter, r *http.Request) {
	modules, err := h.service.ListModules()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list modules"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"modules": modules})
}

func (h *Handler) ListLessons(w http.ResponseWriter, r *http.Request) {
	moduleID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	lessons, err := h.service.ListLessons(moduleID)
	if errors.Is(err, ErrNotFound) {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Module not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list lessons"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"lessons": lessons})
}

func (h *Handler) GetLesson(w http.ResponseWriter, r *http.Request) {
	lessonID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	lesson, err := h.service.GetLesson(lessonID)
	if errors.Is(err, ErrNotFound) {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Lesson not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load lesson"})
		return
	}
	writeJSON(w, http.StatusOK, lesson)
}

func (h *Handler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	lessonID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	quiz, err := h.service.GetQuiz(lessonID)
	if errors.Is(err, ErrNotFound) {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Quiz not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load quiz"})
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	lessonID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	game, err := h.service.GetGame(lessonID)
	if errors.Is(err, ErrNotFound) {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Game not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load game"})
		return
	}
	writeJSON(w, http.StatusOK, game)
}

// ── Admin CRUD ──────────────────────────────────────────

func (h *Handler) CreateModule(w http.ResponseWriter, r *http.Request) {
	var req models.CreateModuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	module, err := h.service.CreateModule(req)
	if err != nil {
		h.writeWriteError(w, err, "Failed to create module")
		return
	}
	writeJSON(w, http.StatusCreated, module)
}

func (h *Handler) CreateLesson(w http.ResponseWriter, r *http.Request) {
	var req models.SaveLessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	lesson, err := h.service.CreateLesson(req)
	if err != nil {
		h.writeWriteError(w, err, "Failed to create lesson")
		return
	}
	writeJSON(w, http.StatusCreated, lesson)
}

func (h *Handler) UpdateLesson(w http.ResponseWriter, r *http.Request) {
	lessonID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req models.SaveLessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	lesson, err := h.service.UpdateLesson(lessonID, req)
	if err != nil {
		h.writeWriteError(w, err, "Failed to update lesson")
		return
	}
	writeJSON(w, http.StatusOK, lesson)
}

func (h *Handler) SaveQuiz(w http.ResponseWriter, r *http.Request) {
	lessonID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req models.SaveQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	quiz, err := h.service.SaveQuiz(lessonID, req.Questions)
	if err != nil {
		h.writeWriteError(w, err, "Failed to save quiz")
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

func (h *Handler) SaveGame(w http.ResponseWriter, r *http.Request) {
	lessonID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req models.SaveGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	game, err := h.service.SaveGame(lessonID, req)
	if err != nil {
		h.writeWriteError(w, err, "Failed to save game")
		return
	}
	writeJSON(w, http.StatusOK, game)
}

// ── Helpers ─────────────────────────────────────────────

func (h *Handler) writeWriteError(w http.ResponseWriter, err error, fallback string) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: verr.Error()})
		return
	}
	if errors.Is(err, ErrNotFound) {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Not found"})
		return
	}
	writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: fallback})
}

func pathID(w http.ResponseWriter, r *http.Request, key string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[key], 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid id"})
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
