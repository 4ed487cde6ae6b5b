// Package storage provides the SQLite implementation of the Storage interface.
package storage

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/krishisaathi/krishisaathi/internal/models"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		email TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		language TEXT NOT NULL DEFAULT 'en',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS qa_records (
		position INTEGER PRIMARY KEY,
		question TEXT NOT NULL,
		answer TEXT NOT NULL
	);
	`
	_, err := db.Exec(schema)
	return err
}

// HashPassword returns the hex-encoded SHA-256 digest of password.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// CreateUser inserts a user. Duplicate username or email returns (false, nil).
func (s *SQLiteStorage) CreateUser(ctx context.Context, username, email, password, language string) (bool, error) {
	if language == "" {
		language = "en"
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, language, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), username, email, HashPassword(password), language, time.Now(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("create user: %w", err)
	}
	return true, nil
}

// VerifyUser returns the user matching username and password, or nil when no
// account matches.
func (s *SQLiteStorage) VerifyUser(ctx context.Context, username, password string) (*models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, email, language, created_at FROM users
		 WHERE username = ? AND password_hash = ?`,
		username, HashPassword(password),
	).Scan(&u.ID, &u.Username, &u.Email, &u.Language, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("verify user: %w", err)
	}
	return &u, nil
}

// UpdateLanguage sets the preferred language for username.
func (s *SQLiteStorage) UpdateLanguage(ctx context.Context, username, language string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET language = ? WHERE username = ?`, language, username)
	if err != nil {
		return fmt.Errorf("update language: %w", err)
	}
	return nil
}

// ReplaceQARecords swaps the stored corpus in one transaction. Position
// encodes the corpus index so ListQARecords preserves alignment with the
// vector snapshot.
func (s *SQLiteStorage) ReplaceQARecords(ctx context.Context, records []models.QARecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM qa_records`); err != nil {
		return fmt.Errorf("clear qa records: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO qa_records (position, question, answer) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()
	for i, rec := range records {
		if _, err := stmt.ExecContext(ctx, i, rec.Question, rec.Answer); err != nil {
			return fmt.Errorf("insert qa record %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// ListQARecords returns the stored corpus in position order.
func (s *SQLiteStorage) ListQARecords(ctx context.Context) ([]models.QARecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT question, answer FROM qa_records ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list qa records: %w", err)
	}
	defer rows.Close()

	var records []models.QARecord
	for rows.Next() {
		var rec models.QARecord
		if err := rows.Scan(&rec.Question, &rec.Answer); err != nil {
			return nil, fmt.Errorf("scan qa record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// CountQARecords returns the number of stored corpus records.
func (s *SQLiteStorage) CountQARecords(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM qa_records`).Scan(&n)
	return n, err
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// isUniqueViolation reports whether err is a SQLite unique constraint failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
