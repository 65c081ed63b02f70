package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"textbook-ai/internal/storage"
)

// ErrInvalidCredentials is returned when authentication fails, whether the
// email is unknown or the password is wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidToken is returned for missing, malformed, or expired tokens.
var ErrInvalidToken = errors.New("invalid token")

// tokenTTL is the access token lifetime.
const tokenTTL = 7 * 24 * time.Hour

// Claims are the verified contents of an access token.
type Claims struct {
	UserID int64
	Email  string
}

// Service issues and verifies credentials. It is the credential-service
// boundary the rest of the system depends on: Authenticate and IssueToken for
// login, UserFromToken for bearer-token requests.
type Service struct {
	users  storage.UserStore
	secret []byte
}

// NewService creates a new credential service signing tokens with secret.
func NewService(users storage.UserStore, secret string) *Service {
	return &Service{
		users:  users,
		secret: []byte(secret),
	}
}

// Signup registers a new user with a bcrypt-hashed password.
// Returns storage.ErrDuplicateEmail when the email is taken.
func (s *Service) Signup(ctx context.Context, email, name, password, softwareExp, hardwareExp string) (*storage.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &storage.User{
		Email:              email,
		Name:               name,
		PasswordHash:       string(hash),
		SoftwareExperience: softwareExp,
		HardwareExperience: hardwareExp,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies an email/password pair.
// Returns ErrInvalidCredentials on unknown email or wrong password.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*storage.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// IssueToken creates a signed access token for the user (HS256, 7-day expiry).
func (s *Service) IssueToken(user *storage.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(tokenTTL).Unix(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken validates a token's signature and expiry and returns its claims.
func (s *Service) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	userID, ok := mapClaims["user_id"].(float64)
	if !ok {
		return nil, ErrInvalidToken
	}
	email, _ := mapClaims["email"].(string)

	return &Claims{
		UserID: int64(userID),
		Email:  email,
	}, nil
}

// UserFromToken resolves a bearer token to its user.
// Returns ErrInvalidToken when the token does not verify or the user is gone.
func (s *Service) UserFromToken(ctx context.Context, tokenString string) (*storage.User, error) {
	claims, err := s.VerifyToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}
