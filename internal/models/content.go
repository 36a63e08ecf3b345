package models

import "time"

// ── Content Blocks ────────────────────────────────────────

// Block types a lesson body may contain. Lessons store their body as an
// ordered JSON array of blocks; the frontend renders each type with its own
// component.
const (
	BlockHeading = "heading"
	BlockText    = "text"
	BlockImage   = "image"
	BlockVideo   = "video"
	BlockTip     = "tip"
)

// ContentBlock is one typed unit of lesson content. Text carries the body
// for heading/text/tip blocks; URL and Caption carry media blocks.
type ContentBlock struct {
	Type    string `json:"type"`
	Text    string `json:"text,omitempty"`
	URL     string `json:"url,omitempty"`
	Caption string `json:"caption,omitempty"`
}

// ── Catalog ───────────────────────────────────────────────

type Module struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Position    int       `json:"position"`
	LessonCount int       `json:"lesson_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type Lesson struct {
	ID        int64          `json:"id"`
	ModuleID  int64          `json:"module_id"`
	Title     string         `json:"title"`
	Summary   string         `json:"summary"`
	Blocks    []ContentBlock `json:"blocks,omitempty"`
	Position  int            `json:"position"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type QuizChoice struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type QuizQuestion struct {
	Prompt          string       `json:"prompt"`
	Choices         []QuizChoice `json:"choices"`
	CorrectAnswerID string       `json:"correct_answer_id"`
	Explanation     string       `json:"explanation"`
}

type Quiz struct {
	ID        int64          `json:"id"`
	LessonID  int64          `json:"lesson_id"`
	Questions []QuizQuestion `json:"questions"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// MatchPair is one draggable term and its drop target in a match game.
type MatchPair struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

type MatchGame struct {
	ID        int64       `json:"id"`
	LessonID  int64       `json:"lesson_id"`
	Title     string      `json:"title"`
	Pairs     []MatchPair `json:"pairs"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// ── Request Types ─────────────────────────────────────────

type CreateModuleRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Position    int    `json:"position"`
}

type SaveLessonRequest struct {
	ModuleID int64          `json:"module_id"`
	Title    string         `json:"title"`
	Summary  string         `json:"summary"`
	Blocks   []ContentBlock `json:"blocks"`
	Position int            `json:"position"`
}

type SaveQuizRequest struct {
	Questions []QuizQuestion `json:"questions"`
}

type SaveGameRequest struct {
	Title string      `json:"title"`
	Pairs []MatchPair `json:"pairs"`
}
