package generator

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/catlearn/backend/internal/content"
	"github.com/catlearn/backend/internal/models"
	"github.com/gorilla/mux"
)

const (
	defaultQuestionCount = 5
	maxQuestionCount     = 10
)

// Handler exposes the admin draft-generation endpoint. Generated questions
// are returned for review; the admin publishes them through the regular
// quiz save endpoint.
type Handler struct {
	generator *Generator
	content   *content.Service
}

func NewHandler(g *Generator, contentService *content.Service) *Handler {
	return &Handler{generator: g, content: contentService}
}

type generateRequest struct {
	Count int `json:"count"`
}

type generateResponse struct {
	LessonID  int64                 `json:"lesson_id"`
	Questions []models.QuizQuestion `json:"questions"`
	Model     string                `json:"model"`
}

func (h *Handler) GenerateQuiz(w http.ResponseWriter, r *http.Request) {
	lessonID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || lessonID <= 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid id"})
		return
	}

	var req generateRequest
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}
	count := req.Count
	if count <= 0 {
		count = defaultQuestionCount
	}
	if count > maxQuestionCount {
		count = maxQuestionCount
	}

	lesson, err := h.content.GetLesson(lessonID)
	if errors.Is(err, content.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Lesson not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load lesson"})
		return
	}

	quiz, llmResp, err := h.generator.GenerateQuizDraft(r.Context(), lesson.Title, lesson.Summary, count)
	if err != nil {
		log.Printf("[generator] draft for lesson %d failed: %v", lessonID, err)
		writeJSON(w, http.StatusBadGateway, models.ErrorResponse{Error: "Question generation failed, please try again"})
		return
	}

	log.Printf("[generator] drafted %d questions for lesson %d (%d prompt / %d output tokens)",
		len(quiz.Questions), lessonID, llmResp.PromptTokens, llmResp.OutputTokens)

	writeJSON(w, http.StatusOK, generateResponse{
		LessonID:  lessonID,
		Questions: toModelQuestions(quiz.Questions),
		Model:     h.generator.ModelName(),
	})
}

func toModelQuestions(generated []GeneratedQuestion) []models.QuizQuestion {
	questions := make([]models.QuizQuestion, 0, len(generated))
	for _, q := range generated {
		choices := make([]models.QuizChoice, 0, len(q.Choices))
		for _, c := range q.Choices {
			choices = append(choices, models.QuizChoice{ID: c.ID, Text: c.Text})
		}
		questions = append(questions, models.QuizQuestion{
			Prompt:          q.Prompt,
			Choices:         choices,
			CorrectAnswerID: q.CorrectAnswerID,
			Explanation:     q.Explanation,
		})
	}
	return questions
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
