package domain

import "time"

// PasswordResetToken stores only the one-way hash of the emailed secret.
// At most one active token per user is intended: issuing a new token
// deletes its predecessors, and consuming one purges the siblings.
type PasswordResetToken struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

func (t *PasswordResetToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

func (t *PasswordResetToken) IsActive() bool {
	return !t.Used && !t.IsExpired()
}
