package content

import (
	"fmt"
	"strings"

	"github.com/catlearn/backend/internal/models"
)

// ValidationError collects everything wrong with a submitted lesson, quiz
// or game so an author can fix it in one pass.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

var validBlockTypes = map[string]bool{
	models.BlockHeading: true,
	models.BlockText:    true,
	models.BlockImage:   true,
	models.BlockVideo:   true,
	models.BlockTip:     true,
}

// quizChoiceIDs is the fixed choice layout for curriculum quizzes.
var quizChoiceIDs = []string{"A", "B", "C", "D"}

// ValidateBlocks checks a lesson body before it is stored: every block must
// carry a known type, text blocks need text, media blocks need a URL.
func ValidateBlocks(blocks []models.ContentBlock) error {
	var errs []string

	if len(blocks) == 0 {
		errs = append(errs, "lesson must contain at least one content block")
	}

	for i, b := range blocks {
		n := i + 1
		if !validBlockTypes[b.Type] {
			errs = append(errs, fmt.Sprintf("block %d: unknown type %q", n, b.Type))
			continue
		}
		switch b.Type {
		case models.BlockHeading, models.BlockText, models.BlockTip:
			if strings.TrimSpace(b.Text) == "" {
				errs = append(errs, fmt.Sprintf("block %d: %s block has no text", n, b.Type))
			}
		case models.BlockImage, models.BlockVideo:
			if strings.TrimSpace(b.URL) == "" {
				errs = append(errs, fmt.Sprintf("block %d: %s block has no url", n, b.Type))
			}
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// ValidateQuestions checks a quiz before it is stored: four choices labeled
// A-D in order, a correct answer among them, prompt and explanation present.
func ValidateQuestions(questions []models.QuizQuestion) error {
	var errs []string

	if len(questions) == 0 {
		errs = append(errs, "quiz must contain at least one question")
	}

	for i, q := range questions {
		n := i + 1

		if strings.TrimSpace(q.Prompt) == "" {
			errs = append(errs, fmt.Sprintf("question %d: empty prompt", n))
		}
		if strings.TrimSpace(q.Explanation) == "" {
			errs = append(errs, fmt.Sprintf("question %d: empty explanation", n))
		}

		if len(q.Choices) != len(quizChoiceIDs) {
			errs = append(errs, fmt.Sprintf("question %d: expected %d choices, got %d", n, len(quizChoiceIDs), len(q.Choices)))
			continue
		}

		correctFound := false
		for j, c := range q.Choices {
			if c.ID != quizChoiceIDs[j] {
				errs = append(errs, fmt.Sprintf("question %d: choice %d has id %q, expected %q", n, j+1, c.ID, quizChoiceIDs[j]))
			}
			if strings.TrimSpace(c.Text) == "" {
				errs = append(errs, fmt.Sprintf("question %d: choice %s has no text", n, c.ID))
			}
			if c.ID == q.CorrectAnswerID {
				correctFound = true
			}
		}
		if !correctFound {
			errs = append(errs, fmt.Sprintf("question %d: correct_answer_id %q is not one of the choices", n, q.CorrectAnswerID))
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// ValidatePairs checks a match game: at least two pairs, no blank sides, no
// duplicate terms (a duplicate makes the drag targets ambiguous).
func ValidatePairs(pairs []models.MatchPair) error {
	var errs []string

	if len(pairs) < 2 {
		errs = append(errs, "game must contain at least two pairs")
	}

	seen := make(map[string]bool)
	for i, p := range pairs {
		n := i + 1
		term := strings.TrimSpace(p.Term)
		if term == "" {
			errs = append(errs, fmt.Sprintf("pair %d: empty term", n))
		}
		if strings.TrimSpace(p.Definition) == "" {
			errs = append(errs, fmt.Sprintf("pair %d: empty definition", n))
		}
		key := strings.ToLower(term)
		if key != "" && seen[key] {
			errs = append(errs, fmt.Sprintf("pair %d: duplicate term %q", n, p.Term))
		}
		seen[key] = true
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// Service validates authored content and delegates storage.
type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) ListModules() ([]models.Module, error) {
	return s.store.ListModules()
}

func (s *Service) CreateModule(req models.CreateModuleRequest) (*models.Module, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, &ValidationError{Errors: []string{"module title is required"}}
	}
	return s.store.CreateModule(req)
}

func (s *Service) ListLessons(moduleID int64) ([]models.Lesson, error) {
	exists, err := s.store.ModuleExists(moduleID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}
	return s.store.ListLessons(moduleID)
}

func (s *Service) GetLesson(id int64) (*models.Lesson, error) {
	return s.store.GetLesson(id)
}

func (s *Service) CreateLesson(req models.SaveLessonRequest) (*models.Lesson, error) {
	if err := s.checkLessonRequest(req); err != nil {
		return nil, err
	}
	return s.store.CreateLesson(req)
}

func (s *Service) UpdateLesson(id int64, req models.SaveLessonRequest) (*models.Lesson, error) {
	if err := s.checkLessonRequest(req); err != nil {
		return nil, err
	}
	return s.store.UpdateLesson(id, req)
}

func (s *Service) checkLessonRequest(req models.SaveLessonRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return &ValidationError{Errors: []string{"lesson title is required"}}
	}
	exists, err := s.store.ModuleExists(req.ModuleID)
	if err != nil {
		return err
	}
	if !exists {
		return &ValidationError{Errors: []string{fmt.Sprintf("module %d does not exist", req.ModuleID)}}
	}
	return ValidateBlocks(req.Blocks)
}

func (s *Service) GetQuiz(lessonID int64) (*models.Quiz, error) {
	return s.store.GetQuiz(lessonID)
}

func (s *Service) SaveQuiz(lessonID int64, questions []models.QuizQuestion) (*models.Quiz, error) {
	exists, err := s.store.LessonExists(lessonID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}
	if err := ValidateQuestions(questions); err != nil {
		return nil, err
	}
	return s.store.SaveQuiz(lessonID, questions)
}

func (s *Service) GetGame(lessonID int64) (*models.MatchGame, error) {
	return s.store.GetGame(lessonID)
}

func (s *Service) SaveGame(lessonID int64, req models.SaveGameRequest) (*models.MatchGame, error) {
	exists, err := s.store.LessonExists(lessonID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, &ValidationError{Errors: []string{"game title is required"}}
	}
	if err := ValidatePairs(req.Pairs); err != nil {
		return nil, err
	}
	return s.store.SaveGame(lessonID, req)
}
