package content

import (
	"strings"
	"testing"

	"github.com/catlearn/backend/internal/models"
)

func TestValidateBlocks(t *testing.T) {
	valid := []models.ContentBlock{
		{Type: models.BlockHeading, Text: "What is hardware?"},
		{Type: models.BlockText, Text: "Hardware is the physical part of a computer system."},
		{Type: models.BlockImage, URL: "https://cdn.example.com/tower.png", Caption: "A desktop tower"},
		{Type: models.BlockTip, Text: "Remember: if you can touch it, it's hardware."},
	}
	if err := ValidateBlocks(valid); err != nil {
		t.Errorf("valid blocks rejected: %v", err)
	}
}

func TestValidateBlocksRejectsUnknownType(t *testing.T) {
	blocks := []models.ContentBlock{{Type: "carousel", Text: "x"}}
	err := ValidateBlocks(blocks)
	if err == nil {
		t.Fatal("unknown block type accepted")
	}
	if !strings.Contains(err.Error(), "carousel") {
		t.Errorf("error does not name the bad type: %v", err)
	}
}

func TestValidateBlocksRejectsEmptyBodies(t *testing.T) {
	tests := []struct {
		name  string
		block models.ContentBlock
	}{
		{"text without text", models.ContentBlock{Type: models.BlockText}},
		{"heading without text", models.ContentBlock{Type: models.BlockHeading, Text: "   "}},
		{"image without url", models.ContentBlock{Type: models.BlockImage, Caption: "no url"}},
		{"video without url", models.ContentBlock{Type: models.BlockVideo}},
	}

	for _, tt := range tests {
		if err := ValidateBlocks([]models.ContentBlock{tt.block}); err == nil {
			t.Errorf("%s: accepted", tt.name)
		}
	}
}

func TestValidateBlocksRejectsEmptyLesson(t *testing.T) {
	if err := ValidateBlocks(nil); err == nil {
		t.Error("empty lesson body accepted")
	}
}

func validQuestion() models.QuizQuestion {
	return models.QuizQuestion{
		Prompt: "Which of these is an input device?",
		Choices: []models.QuizChoice{
			{ID: "A", Text: "Monitor"},
			{ID: "B", Text: "Keyboard"},
			{ID: "C", Text: "Speaker"},
			{ID: "D", Text: "Printer"},
		},
		CorrectAnswerID: "B",
		Explanation:     "A keyboard sends data into the computer, so it is an input device.",
	}
}

func TestValidateQuestions(t *testing.T) {
	if err := ValidateQuestions([]models.QuizQuestion{validQuestion()}); err != nil {
		t.Errorf("valid quiz rejected: %v", err)
	}
}

func TestValidateQuestionsRejectsWrongChoiceCount(t *testing.T) {
	q := validQuestion()
	q.Choices = q.Choices[:3]
	if err := ValidateQuestions([]models.QuizQuestion{q}); err == nil {
		t.Error("three-choice question accepted")
	}
}

func TestValidateQuestionsRejectsBadChoiceOrder(t *testing.T) {
	q := validQuestion()
	q.Choices[0].ID = "Z"
	if err := ValidateQuestions([]models.QuizQuestion{q}); err == nil {
		t.Error("mislabeled choice accepted")
	}
}

func TestValidateQuestionsRejectsMissingCorrectAnswer(t *testing.T) {
	q := validQuestion()
	q.CorrectAnswerID = "E"
	err := ValidateQuestions([]models.QuizQuestion{q})
	if err == nil {
		t.Fatal("correct_answer_id outside choices accepted")
	}
	if !strings.Contains(err.Error(), "correct_answer_id") {
		t.Errorf("error does not mention correct_answer_id: %v", err)
	}
}

func TestValidateQuestionsRejectsEmptyFields(t *testing.T) {
	q := validQuestion()
	q.Prompt = ""
	q.Explanation = " "
	err := ValidateQuestions([]models.QuizQuestion{q})
	if err == nil {
		t.Fatal("question with empty prompt and explanation accepted")
	}
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("error type = %T, want *ValidationError", err)
	}
	if len(verr.Errors) != 2 {
		t.Errorf("error count = %d, want 2 (prompt + explanation)", len(verr.Errors))
	}
}

func TestValidatePairs(t *testing.T) {
	valid := []models.MatchPair{
		{Term: "CPU", Definition: "Carries out instructions"},
		{Term: "RAM", Definition: "Temporary working memory"},
	}
	if err := ValidatePairs(valid); err != nil {
		t.Errorf("valid pairs rejected: %v", err)
	}

	if err := ValidatePairs(valid[:1]); err == nil {
		t.Error("single-pair game accepted")
	}

	dup := append(valid, models.MatchPair{Term: "cpu", Definition: "Duplicate"})
	if err := ValidatePairs(dup); err == nil {
		t.Error("duplicate term accepted")
	}

	blank := []models.MatchPair{
		{Term: "", Definition: "x"},
		{Term: "RAM", Definition: ""},
	}
	if err := ValidatePairs(blank); err == nil {
		t.Error("blank term/definition accepted")
	}
}
