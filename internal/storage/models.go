package storage

import "time"

// User represents a registered reader with an experience profile.
type User struct {
	ID                 int64
	Email              string
	Name               string
	PasswordHash       string
	SoftwareExperience string // beginner, intermediate, advanced
	HardwareExperience string // beginner, intermediate, advanced
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ChatRecord is one question/answer exchange appended to the chat history log.
// UserID is nil for anonymous requests.
type ChatRecord struct {
	ID          int64
	UserID      *int64
	SessionID   string
	Question    string
	Answer      string
	ContextUsed string // JSON of the sources used for the answer
	CreatedAt   time.Time
}

// PersonalizationRecord is one content-personalization result appended to the log.
type PersonalizationRecord struct {
	ID                  int64
	UserID              int64
	PagePath            string
	OriginalContent     string
	PersonalizedContent string
	Language            string // en, ur
	CreatedAt           time.Time
}
