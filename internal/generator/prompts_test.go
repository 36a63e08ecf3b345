package generator

import (
	"strings"
	"testing"
)

func TestQuizSystemPrompt(t *testing.T) {
	prompt := QuizSystemPrompt()

	for _, want := range []string{"Grade 10", "CAPS", "A through D", "valid JSON"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
}

func TestBuildQuizUserPrompt(t *testing.T) {
	prompt := BuildQuizUserPrompt("Input and Output Devices", "How data gets into and out of a computer.", 5)

	if !strings.Contains(prompt, "exactly 5 multiple-choice questions") {
		t.Error("prompt does not state the question count")
	}
	if !strings.Contains(prompt, "Input and Output Devices") {
		t.Error("prompt does not include the lesson title")
	}
	if !strings.Contains(prompt, "How data gets into and out of a computer.") {
		t.Error("prompt does not include the lesson summary")
	}
	if !strings.Contains(prompt, `"correct_answer_id"`) {
		t.Error("prompt does not show the expected JSON structure")
	}
}

func TestBuildQuizUserPromptWithoutSummary(t *testing.T) {
	prompt := BuildQuizUserPrompt("Storage Media", "  ", 3)

	if strings.Contains(prompt, "Lesson summary") {
		t.Error("blank summary should not produce a summary line")
	}
	if !strings.Contains(prompt, "Storage Media") {
		t.Error("prompt does not include the lesson title")
	}
}
