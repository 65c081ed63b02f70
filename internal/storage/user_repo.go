package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_user_store.go -package=mocks textbook-ai/internal/storage UserStore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// UserStore defines the interface for user storage operations.
type UserStore interface {
	// Create inserts a new user and fills in its assigned ID.
	// Returns ErrDuplicateEmail when the email is already registered.
	Create(ctx context.Context, user *User) error
	// GetByEmail gets a user by email. Returns ErrNotFound if not found.
	GetByEmail(ctx context.Context, email string) (*User, error)
	// GetByID gets a user by id. Returns ErrNotFound if not found.
	GetByID(ctx context.Context, id int64) (*User, error)
}

// UserRepo provides methods for user operations.
// It implements the UserStore interface.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create inserts a new user and fills in its assigned ID.
func (r *UserRepo) Create(ctx context.Context, user *User) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (email, name, password_hash, software_experience, hardware_experience)
		 VALUES (?, ?, ?, ?, ?)`,
		user.Email, user.Name, user.PasswordHash, user.SoftwareExperience, user.HardwareExperience,
	)
	if err != nil {
		// SQLite reports the violated constraint in the error text.
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.email") {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get user id: %w", err)
	}
	user.ID = id
	return nil
}

// GetByEmail gets a user by email. Returns ErrNotFound if not found.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT id, email, name, password_hash, software_experience, hardware_experience, created_at, updated_at
		 FROM users WHERE email = ?`, email,
	))
}

// GetByID gets a user by id. Returns ErrNotFound if not found.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT id, email, name, password_hash, software_experience, hardware_experience, created_at, updated_at
		 FROM users WHERE id = ?`, id,
	))
}

func (r *UserRepo) scanOne(row *sql.Row) (*User, error) {
	var user User
	err := row.Scan(
		&user.ID, &user.Email, &user.Name, &user.PasswordHash,
		&user.SoftwareExperience, &user.HardwareExperience,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}
