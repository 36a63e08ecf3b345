package progress

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/catlearn/backend/internal/models"
)

// ErrNotFound means no progress snapshot exists for the user. It usually
// means account bootstrap didn't run; it is surfaced, never retried here.
var ErrNotFound = errors.New("progress snapshot not found")

// Store is the persistence collaborator. Save must be a single atomic
// write of the whole snapshot — points and badges live in one row so they
// cannot diverge on a partial failure.
type Store interface {
	Create(userID int64) error
	Load(userID int64) (*models.Snapshot, error)
	Save(snap *models.Snapshot) error
	LogPointEvent(userID int64, action string, points int, metadata map[string]interface{}) error
}

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Create inserts the empty snapshot row for a new account. It is a no-op
// if the row already exists.
func (s *PostgresStore) Create(userID int64) error {
	_, err := s.db.Exec(
		`INSERT INTO user_progress (user_id) VALUES ($1)
		 ON CONFLICT (user_id) DO NOTHING`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("create progress: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(userID int64) (*models.Snapshot, error) {
	var (
		points                            int
		lessonsRaw, modulesRaw, badgesRaw []byte
		scoresRaw                         []byte
		role                              string
	)
	err := s.db.QueryRow(
		`SELECT p.points, p.completed_lessons, p.completed_modules, p.quiz_scores, p.badges, u.role
		 FROM user_progress p
		 JOIN users u ON u.id = p.user_id
		 WHERE p.user_id = $1`,
		userID,
	).Scan(&points, &lessonsRaw, &modulesRaw, &scoresRaw, &badgesRaw, &role)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}

	snap := models.NewSnapshot(userID, role)
	snap.Points = points

	if err := unmarshalIDSet(lessonsRaw, snap.CompletedLessons); err != nil {
		return nil, fmt.Errorf("decode completed_lessons: %w", err)
	}
	if err := unmarshalIDSet(modulesRaw, snap.CompletedModules); err != nil {
		return nil, fmt.Errorf("decode completed_modules: %w", err)
	}
	if err := json.Unmarshal(scoresRaw, &snap.QuizScores); err != nil {
		return nil, fmt.Errorf("decode quiz_scores: %w", err)
	}
	if err := unmarshalStringSet(badgesRaw, snap.Badges); err != nil {
		return nil, fmt.Errorf("decode badges: %w", err)
	}

	return snap, nil
}

// Save rewrites the whole snapshot row in one UPDATE.
func (s *PostgresStore) Save(snap *models.Snapshot) error {
	lessons, err := marshalIDSet(snap.CompletedLessons)
	if err != nil {
		return fmt.Errorf("encode completed_lessons: %w", err)
	}
	modules, err := marshalIDSet(snap.CompletedModules)
	if err != nil {
		return fmt.Errorf("encode completed_modules: %w", err)
	}
	scores, err := json.Marshal(snap.QuizScores)
	if err != nil {
		return fmt.Errorf("encode quiz_scores: %w", err)
	}
	badges, err := marshalStringSet(snap.Badges)
	if err != nil {
		return fmt.Errorf("encode badges: %w", err)
	}

	result, err := s.db.Exec(
		`UPDATE user_progress SET
		    points = $2, completed_lessons = $3, completed_modules = $4,
		    quiz_scores = $5, badges = $6, updated_at = NOW()
		 WHERE user_id = $1`,
		snap.UserID, snap.Points, lessons, modules, scores, badges,
	)
	if err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// LogPointEvent appends one audit row. Best-effort: the snapshot is already
// committed by the time this runs, so callers only log failures.
func (s *PostgresStore) LogPointEvent(userID int64, action string, points int, metadata map[string]interface{}) error {
	var metaJSON *string
	if metadata != nil {
		b, err := json.Marshal(metadata)
		if err == nil {
			str := string(b)
			metaJSON = &str
		}
	}
	_, err := s.db.Exec(
		`INSERT INTO point_events (user_id, action, points, metadata)
		 VALUES ($1, $2, $3, $4)`,
		userID, action, points, metaJSON,
	)
	return err
}

// ── JSONB Helpers ───────────────────────────────────────

// Sets are stored as sorted JSON arrays so the rows stay readable and
// stable across rewrites.

func marshalIDSet(set map[int64]bool) ([]byte, error) {
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return json.Marshal(ids)
}

func unmarshalIDSet(raw []byte, set map[int64]bool) error {
	var ids []int64
	if err := json.Unmarshal(raw, &ids); err != nil {
		return err
	}
	for _, id := range ids {
		set[id] = true
	}
	return nil
}

func marshalStringSet(set map[string]bool) ([]byte, error) {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return json.Marshal(keys)
}

func unmarshalStringSet(raw []byte, set map[string]bool) error {
	var keys []string
	if err := json.Unmarshal(raw, &keys); err != nil {
		return err
	}
	for _, k := range keys {
		set[k] = true
	}
	return nil
}
