package domain

// User is the authenticated account profile returned by /accounts/auth/users/me/.
type User struct {
	ID        int64        `json:"id"`
	Email     string       `json:"email"`
	Username  string       `json:"username"`
	FirstName string       `json:"first_name,omitempty"`
	LastName  string       `json:"last_name,omitempty"`
	Profile   *Profile     `json:"profile,omitempty"`
	Prefs     *Preferences `json:"preferences,omitempty"`
}

// Profile holds the optional public profile attached to a user.
type Profile struct {
	ProfilePicture string `json:"profile_picture,omitempty"`
	Bio            string `json:"bio,omitempty"`
}

// Preferences holds per-user settings.
type Preferences struct {
	NotificationsEnabled bool   `json:"notifications_enabled"`
	Theme                string `json:"theme,omitempty"`
}

// DisplayName picks the friendliest available name for greetings:
// first name, then username, then email.
func (u *User) DisplayName() string {
	if u == nil {
		return "Student"
	}
	if u.FirstName != "" {
		return u.FirstName
	}
	if u.Username != "" {
		return u.Username
	}
	if u.Email != "" {
		return u.Email
	}
	return "Student"
}
