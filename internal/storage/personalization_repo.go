package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_personalization_store.go -package=mocks textbook-ai/internal/storage PersonalizationStore

import (
	"context"
	"database/sql"
	"fmt"
)

// PersonalizationStore defines the interface for the append-only
// content-personalization log.
type PersonalizationStore interface {
	// Insert appends a personalization record and fills in its assigned ID.
	Insert(ctx context.Context, record *PersonalizationRecord) error
}

// PersonalizationRepo provides methods for personalization log operations.
// It implements the PersonalizationStore interface.
type PersonalizationRepo struct {
	db *sql.DB
}

// NewPersonalizationRepo creates a new PersonalizationRepo.
func NewPersonalizationRepo(db *sql.DB) *PersonalizationRepo {
	return &PersonalizationRepo{db: db}
}

// Insert appends a personalization record and fills in its assigned ID.
func (r *PersonalizationRepo) Insert(ctx context.Context, record *PersonalizationRecord) error {
	if record.Language == "" {
		record.Language = "en"
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO content_personalization (user_id, page_path, original_content, personalized_content, language)
		 VALUES (?, ?, ?, ?, ?)`,
		record.UserID, record.PagePath, record.OriginalContent, record.PersonalizedContent, record.Language,
	)
	if err != nil {
		return fmt.Errorf("failed to insert personalization record: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get personalization record id: %w", err)
	}
	record.ID = id
	return nil
}
