package user

import "time"

// User represents a user account in the system.
// Optional columns are pointers so that an absent value stays NULL in the store.
type User struct {
	ID        int64     // ID is assigned by the store and never changes
	Name      *string   // Name is required by the store; nil is rejected on insert
	Email     *string   // Email is optional
	Password  *string   // Password is optional and kept as plain text
	CreatedAt time.Time // CreatedAt is set by the store on insert
	UpdatedAt time.Time // UpdatedAt is refreshed by the store on every update
}

// Fields holds the column values written by an update.
type Fields struct {
	Name     *string
	Email    *string
	Password *string
}

// Merge applies the partial-overwrite-with-fallback policy: a field that is
// present and non-empty in f replaces the stored one, anything else keeps the
// value already on u.
func (u *User) Merge(f Fields) Fields {
	return Fields{
		Name:     pick(f.Name, u.Name),
		Email:    pick(f.Email, u.Email),
		Password: pick(f.Password, u.Password),
	}
}

func pick(next, prev *string) *string {
	if next != nil && *next != "" {
		return next
	}
	return prev
}
