package generator

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
)

type GeneratedQuiz struct {
	Questions []GeneratedQuestion `json:"questions"`
}

type GeneratedQuestion struct {
	Prompt          string            `json:"prompt"`
	Choices         []GeneratedChoice `json:"choices"`
	CorrectAnswerID string            `json:"correct_answer_id"`
	Explanation     string            `json:"explanation"`
}

type GeneratedChoice struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

func ParseResponse(responseBody string) (*GeneratedQuiz, error) {
	cleaned := stripCodeFences(responseBody)

	var quiz GeneratedQuiz
	if err := json.Unmarshal([]byte(cleaned), &quiz); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if err := validateQuiz(&quiz); err != nil {
		return nil, err
	}

	return &quiz, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimSpace(s)
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSpace(s)
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}

var validChoiceIDs = map[string]bool{"A": true, "B": true, "C": true, "D": true}

func validateQuiz(quiz *GeneratedQuiz) error {
	var errs []string

	if len(quiz.Questions) == 0 {
		return &ValidationError{Errors: []string{"no questions in response"}}
	}

	correctAnswerCounts := make(map[string]int)

	for i, q := range quiz.Questions {
		qNum := i + 1

		promptLen := len(q.Prompt)
		if promptLen < 20 || promptLen > 400 {
			errs = append(errs, fmt.Sprintf("question %d: prompt length %d outside range [20, 400]", qNum, promptLen))
		}

		if len(q.Choices) != 4 {
			errs = append(errs, fmt.Sprintf("question %d: expected 4 choices, got %d", qNum, len(q.Choices)))
			continue
		}

		expectedIDs := []string{"A", "B", "C", "D"}
		for j, c := range q.Choices {
			if c.ID != expectedIDs[j] {
				errs = append(errs, fmt.Sprintf("question %d: choice %d has id %q, expected %q", qNum, j+1, c.ID, expectedIDs[j]))
			}
			textLen := len(c.Text)
			if textLen < 1 || textLen > 300 {
				errs = append(errs, fmt.Sprintf("question %d: choice %s text length %d outside range [1, 300]", qNum, c.ID, textLen))
			}
		}

		if !validChoiceIDs[q.CorrectAnswerID] {
			errs = append(errs, fmt.Sprintf("question %d: invalid correct_answer_id %q", qNum, q.CorrectAnswerID))
		}

		if q.Explanation == "" {
			errs = append(errs, fmt.Sprintf("question %d: empty explanation", qNum))
		}

		correctAnswerCounts[q.CorrectAnswerID]++
	}

	// Warn (but don't reject) if correct answers are clustered
	for letter, count := range correctAnswerCounts {
		if count > 2 && len(quiz.Questions) >= 5 {
			log.Printf("WARNING: correct answer %q appears %d times in batch of %d questions", letter, count, len(quiz.Questions))
		}
	}

	checkTopicDiversity(quiz.Questions)

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}

	return nil
}

// checkTopicDiversity warns if any two prompts share >60% keyword overlap.
func checkTopicDiversity(questions []GeneratedQuestion) {
	if len(questions) < 2 {
		return
	}

	tokenSets := make([]map[string]bool, len(questions))
	for i, q := range questions {
		tokenSets[i] = tokenize(q.Prompt)
	}

	for i := 0; i < len(questions); i++ {
		for j := i + 1; j < len(questions); j++ {
			overlap := jaccardSimilarity(tokenSets[i], tokenSets[j])
			if overlap > 0.60 {
				log.Printf("WARNING: questions %d and %d have %.0f%% keyword overlap — consider more topic diversity", i+1, j+1, overlap*100)
			}
		}
	}
}

func tokenize(s string) map[string]bool {
	tokens := make(map[string]bool)
	for _, word := range strings.Fields(strings.ToLower(s)) {
		// Skip very short words (articles, prepositions)
		if len(word) > 3 {
			tokens[word] = true
		}
	}
	return tokens
}

func jaccardSimilarity(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	intersection := 0
	for k := range a {
		if b[k] {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}

	return float64(intersection) / float64(union)
}
