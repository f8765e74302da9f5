package models

import "time"

// User represents an account that can log into the admin endpoints.
type User struct {
	// ID is the database-generated primary key.
	ID int64 `db:"id,auto" json:"id"`

	// Email is the unique login identifier of the user.
	Email string `db:"email" json:"email" validate:"required,email,max=254"`

	// Password holds the bcrypt hash of the user's password.
	// It is never serialized.
	Password string `db:"password" json:"-"`

	// IsActive marks accounts that are allowed to log in.
	IsActive bool `db:"is_active" json:"is_active"`

	// IsSuperuser grants write access to every admin resource.
	IsSuperuser bool `db:"is_superuser" json:"is_superuser"`

	// LastLogin is stamped on every successful login.
	LastLogin *time.Time `db:"last_login" json:"last_login"`

	// DateJoined is the account creation time.
	DateJoined time.Time `db:"date_joined" json:"date_joined"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// VerboseName implements Model.
func (u User) VerboseName() string {
	return "User"
}

// BeforeSave stamps DateJoined for new accounts.
func (u *User) BeforeSave(creating bool) {
	if creating && u.DateJoined.IsZero() {
		u.DateJoined = time.Now().UTC()
	}
}
