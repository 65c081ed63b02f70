package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_history_store.go -package=mocks textbook-ai/internal/storage HistoryStore

import (
	"context"
	"database/sql"
	"fmt"
)

// HistoryStore defines the interface for the append-only chat history log.
type HistoryStore interface {
	// Insert appends a chat record and fills in its assigned ID.
	Insert(ctx context.Context, record *ChatRecord) error
	// ListBySession returns a session's records ordered oldest first.
	ListBySession(ctx context.Context, sessionID string) ([]ChatRecord, error)
}

// HistoryRepo provides methods for chat history operations.
// It implements the HistoryStore interface.
type HistoryRepo struct {
	db *sql.DB
}

// NewHistoryRepo creates a new HistoryRepo.
func NewHistoryRepo(db *sql.DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

// Insert appends a chat record and fills in its assigned ID.
func (r *HistoryRepo) Insert(ctx context.Context, record *ChatRecord) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO chat_history (user_id, session_id, question, answer, context_used)
		 VALUES (?, ?, ?, ?, ?)`,
		record.UserID, record.SessionID, record.Question, record.Answer, record.ContextUsed,
	)
	if err != nil {
		return fmt.Errorf("failed to insert chat record: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get chat record id: %w", err)
	}
	record.ID = id
	return nil
}

// ListBySession returns a session's records ordered oldest first.
func (r *HistoryRepo) ListBySession(ctx context.Context, sessionID string) ([]ChatRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, session_id, question, answer, context_used, created_at
		 FROM chat_history WHERE session_id = ? ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat history: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var records []ChatRecord
	for rows.Next() {
		var record ChatRecord
		var contextUsed sql.NullString
		if err := rows.Scan(
			&record.ID, &record.UserID, &record.SessionID,
			&record.Question, &record.Answer, &contextUsed, &record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan chat record: %w", err)
		}
		record.ContextUsed = contextUsed.String
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}
