package types

// User represents an account in the system.
// Users are created by seed data only; there is no registration endpoint.
type User struct {
	// Username is the unique login name of the user.
	Username string `json:"username" db:"username"`

	// Name is the user's display name.
	Name string `json:"name" db:"name"`

	// AvatarURL points to the user's profile image.
	AvatarURL string `json:"avatar_url" db:"avatar_url"`

	// Password stores the bcrypt hash of the user's password.
	// This field is never exposed in API responses.
	Password string `json:"-" db:"password"`
}
