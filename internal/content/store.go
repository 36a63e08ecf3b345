package content

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/catlearn/backend/internal/models"
)

// ErrNotFound means the requested catalog entry does not exist.
var ErrNotFound = errors.New("content not found")

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ── Modules ─────────────────────────────────────────────

func (s *Store) ListModules() ([]models.Module, error) {
	rows, err := s.db.Query(
		`SELECT m.id, m.title, m.description, m.position, COUNT(l.id), m.created_at
		 FROM modules m
		 LEFT JOIN lessons l ON l.module_id = m.id
		 GROUP BY m.id
		 ORDER BY m.position, m.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	defer rows.Close()

	var modules []models.Module
	for rows.Next() {
		var m models.Module
		if err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.Position, &m.LessonCount, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan module: %w", err)
		}
		modules = append(modules, m)
	}
	if modules == nil {
		modules = []models.Module{}
	}
	return modules, rows.Err()
}

func (s *Store) CreateModule(req models.CreateModuleRequest) (*models.Module, error) {
	var m models.Module
	err := s.db.QueryRow(
		`INSERT INTO modules (title, description, position)
		 VALUES ($1, $2, $3)
		 RETURNING id, title, description, position, created_at`,
		req.Title, req.Description, req.Position,
	).Scan(&m.ID, &m.Title, &m.Description, &m.Position, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create module: %w", err)
	}
	return &m, nil
}

func (s *Store) ModuleExists(id int64) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM modules WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// ── Lessons ─────────────────────────────────────────────

// ListLessons returns the lessons of a module without their block bodies —
// the lesson list screen only needs titles and summaries.
func (s *Store) ListLessons(moduleID int64) ([]models.Lesson, error) {
	rows, err := s.db.Query(
		`SELECT id, module_id, title, summary, position, created_at, updated_at
		 FROM lessons
		 WHERE module_id = $1
		 ORDER BY position, id`,
		moduleID,
	)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	defer rows.Close()

	var lessons []models.Lesson
	for rows.Next() {
		var l models.Lesson
		if err := rows.Scan(&l.ID, &l.ModuleID, &l.Title, &l.Summary, &l.Position, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan lesson: %w", err)
		}
		lessons = append(lessons, l)
	}
	if lessons == nil {
		lessons = []models.Lesson{}
	}
	return lessons, rows.Err()
}

func (s *Store) GetLesson(id int64) (*models.Lesson, error) {
	var l models.Lesson
	var blocksRaw []byte
	err := s.db.QueryRow(
		`SELECT id, module_id, title, summary, blocks, position, created_at, updated_at
		 FROM lessons WHERE id = $1`,
		id,
	).Scan(&l.ID, &l.ModuleID, &l.Title, &l.Summary, &blocksRaw, &l.Position, &l.CreatedAt, &l.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get lesson: %w", err)
	}

	if err := json.Unmarshal(blocksRaw, &l.Blocks); err != nil {
		return nil, fmt.Errorf("decode lesson blocks: %w", err)
	}
	return &l, nil
}

func (s *Store) CreateLesson(req models.SaveLessonRequest) (*models.Lesson, error) {
	blocks, err := json.Marshal(req.Blocks)
	if err != nil {
		return nil, fmt.Errorf("encode lesson blocks: %w", err)
	}

	var id int64
	err = s.db.QueryRow(
		`INSERT INTO lessons (module_id, title, summary, blocks, position)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		req.ModuleID, req.Title, req.Summary, blocks, req.Position,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create lesson: %w", err)
	}
	return s.GetLesson(id)
}

func (s *Store) UpdateLesson(id int64, req models.SaveLessonRequest) (*models.Lesson, error) {
	blocks, err := json.Marshal(req.Blocks)
	if err != nil {
		return nil, fmt.Errorf("encode lesson blocks: %w", err)
	}

	result, err := s.db.Exec(
		`UPDATE lessons SET
		    module_id = $2, title = $3, summary = $4, blocks = $5, position = $6,
		    updated_at = NOW()
		 WHERE id = $1`,
		id, req.ModuleID, req.Title, req.Summary, blocks, req.Position,
	)
	if err != nil {
		return nil, fmt.Errorf("update lesson: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, ErrNotFound
	}
	return s.GetLesson(id)
}

func (s *Store) LessonExists(id int64) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM lessons WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// ── Quizzes ─────────────────────────────────────────────

func (s *Store) GetQuiz(lessonID int64) (*models.Quiz, error) {
	var q models.Quiz
	var questionsRaw []byte
	err := s.db.QueryRow(
		`SELECT id, lesson_id, questions, updated_at FROM quizzes WHERE lesson_id = $1`,
		lessonID,
	).Scan(&q.ID, &q.LessonID, &questionsRaw, &q.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get quiz: %w", err)
	}

	if err := json.Unmarshal(questionsRaw, &q.Questions); err != nil {
		return nil, fmt.Errorf("decode quiz questions: %w", err)
	}
	return &q, nil
}

func (s *Store) SaveQuiz(lessonID int64, questions []models.QuizQuestion) (*models.Quiz, error) {
	raw, err := json.Marshal(questions)
	if err != nil {
		return nil, fmt.Errorf("encode quiz questions: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO quizzes (lesson_id, questions)
		 VALUES ($1, $2)
		 ON CONFLICT (lesson_id) DO UPDATE SET questions = $2, updated_at = NOW()`,
		lessonID, raw,
	)
	if err != nil {
		return nil, fmt.Errorf("save quiz: %w", err)
	}
	return s.GetQuiz(lessonID)
}

// ── Games ───────────────────────────────────────────────

func (s *Store) GetGame(lessonID int64) (*models.MatchGame, error) {
	var g models.MatchGame
	var pairsRaw []byte
	err := s.db.QueryRow(
		`SELECT id, lesson_id, title, pairs, updated_at FROM games WHERE lesson_id = $1`,
		lessonID,
	).Scan(&g.ID, &g.LessonID, &g.Title, &pairsRaw, &g.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get game: %w", err)
	}

	if err := json.Unmarshal(pairsRaw, &g.Pairs); err != nil {
		return nil, fmt.Errorf("decode game pairs: %w", err)
	}
	return &g, nil
}

func (s *Store) SaveGame(lessonID int64, req models.SaveGameRequest) (*models.MatchGame, error) {
	raw, err := json.Marshal(req.Pairs)
	if err != nil {
		return nil, fmt.Errorf("encode game pairs: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO games (lesson_id, title, pairs)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (lesson_id) DO UPDATE SET title = $2, pairs = $3, updated_at = NOW()`,
		lessonID, req.Title, raw,
	)
	if err != nil {
		return nil, fmt.Errorf("save game: %w", err)
	}
	return s.GetGame(lessonID)
}

func (s *Store) GameExists(lessonID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM games WHERE lesson_id = $1)`, lessonID).Scan(&exists)
	return exists, err
}
