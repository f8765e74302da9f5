package models

import "time"

// Session is a server-side login record. A session is valid while its row
// exists and ExpiresAt is in the future; logging out deletes the row.
type Session struct {
	ID        int64     `db:"id,auto" json:"id"`
	Key       string    `db:"session_key" json:"session_key"`
	UserID    int64     `db:"user_id" json:"user_id"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

func (s Session) TableName() string {
	return "sessions"
}

func (s Session) VerboseName() string {
	return "Session"
}

func (s *Session) BeforeSave(creating bool) {
	if creating && s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
}

// Expired reports whether the session is no longer usable at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
