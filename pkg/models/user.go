package models

// Permission is a user's global permission level.
type Permission int

const (
	PermGlobalOwner Permission = 1
	PermMember      Permission = 2
)

// Valid reports whether p is one of the two defined levels.
func (p Permission) Valid() bool {
	return p == PermGlobalOwner || p == PermMember
}

type User struct {
	ID         int64      `json:"id"`
	Email      string     `json:"email"`
	NameFirst  string     `json:"name_first"`
	NameLast   string     `json:"name_last"`
	Handle     string     `json:"handle"`
	Permission Permission `json:"permission"`

	// PasswordHash is the bcrypt hash of the account password. Never
	// serialized into API responses; it only lives in the snapshot.
	PasswordHash []byte `json:"password_hash,omitempty"`

	// Sessions maps active session ids to their expiry (unix seconds).
	// A token whose session id is absent here no longer resolves.
	Sessions map[string]int64 `json:"sessions,omitempty"`

	// Removed marks a soft-deleted user. The record is kept so message
	// author references stay valid; profile fields are anonymized and
	// email/handle become reusable.
	Removed bool `json:"removed,omitempty"`
}

// Profile is the public view of a user returned by the API. Removed
// users still resolve and show the anonymized name.
type Profile struct {
	UserID    int64  `json:"user_id"`
	Email     string `json:"email"`
	NameFirst string `json:"name_first"`
	NameLast  string `json:"name_last"`
	Handle    string `json:"handle"`
}

func (u *User) Profile() Profile {
	return Profile{
		UserID:    u.ID,
		Email:     u.Email,
		NameFirst: u.NameFirst,
		NameLast:  u.NameLast,
		Handle:    u.Handle,
	}
}
