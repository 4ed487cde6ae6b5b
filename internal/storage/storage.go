// Package storage defines the persistence interface for users and the corpus snapshot.
package storage

import (
	"context"

	"github.com/krishisaathi/krishisaathi/internal/models"
)

// Storage defines user account and corpus snapshot persistence.
type Storage interface {
	// User operations. CreateUser returns false (not an error) when the
	// username or email is already taken. VerifyUser returns nil without
	// error when no account matches.
	CreateUser(ctx context.Context, username, email, password, language string) (bool, error)
	VerifyUser(ctx context.Context, username, password string) (*models.User, error)
	UpdateLanguage(ctx context.Context, username, language string) error

	// Corpus snapshot operations. ReplaceQARecords swaps the stored corpus
	// atomically; ListQARecords returns records in insertion order so the
	// snapshot stays index-aligned with the vector snapshot.
	ReplaceQARecords(ctx context.Context, records []models.QARecord) error
	ListQARecords(ctx context.Context) ([]models.QARecord, error)
	CountQARecords(ctx context.Context) (int64, error)

	Close() error
}
