package database

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
)

func Connect() (*sql.DB, error) {
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "catlearn_user")
	password := getEnv("DB_PASSWORD", "catlearn_password")
	dbname := getEnv("DB_NAME", "catlearn")
	sslmode := getEnv("DB_SSLMODE", "disable")

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func Migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id         BIGSERIAL PRIMARY KEY,
		email      VARCHAR(255) UNIQUE NOT NULL,
		name       VARCHAR(255) NOT NULL,
		role       VARCHAR(20) NOT NULL DEFAULT 'student',
		password   VARCHAR(255) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);

	CREATE TABLE IF NOT EXISTS modules (
		id          BIGSERIAL PRIMARY KEY,
		title       VARCHAR(255) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		position    INT NOT NULL DEFAULT 0,
		created_at  TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS lessons (
		id         BIGSERIAL PRIMARY KEY,
		module_id  BIGINT NOT NULL REFERENCES modules(id) ON DELETE CASCADE,
		title      VARCHAR(255) NOT NULL,
		summary    TEXT NOT NULL DEFAULT '',
		blocks     JSONB NOT NULL DEFAULT '[]',
		position   INT NOT NULL DEFAULT 0,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_lessons_module ON lessons(module_id, position);

	CREATE TABLE IF NOT EXISTS quizzes (
		id         BIGSERIAL PRIMARY KEY,
		lesson_id  BIGINT UNIQUE NOT NULL REFERENCES lessons(id) ON DELETE CASCADE,
		questions  JSONB NOT NULL DEFAULT '[]',
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS games (
		id         BIGSERIAL PRIMARY KEY,
		lesson_id  BIGINT UNIQUE NOT NULL REFERENCES lessons(id) ON DELETE CASCADE,
		title      VARCHAR(255) NOT NULL,
		pairs      JSONB NOT NULL DEFAULT '[]',
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS user_progress (
		user_id           BIGINT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		points            INT NOT NULL DEFAULT 0 CHECK (points >= 0),
		completed_lessons JSONB NOT NULL DEFAULT '[]',
		completed_modules JSONB NOT NULL DEFAULT '[]',
		quiz_scores       JSONB NOT NULL DEFAULT '{}',
		badges            JSONB NOT NULL DEFAULT '[]',
		created_at        TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at        TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS point_events (
		id         BIGSERIAL PRIMARY KEY,
		user_id    BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		action     VARCHAR(50) NOT NULL,
		points     INT NOT NULL,
		metadata   JSONB,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_point_events_user ON point_events(user_id, created_at);
	`

	_, err := db.Exec(query)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
