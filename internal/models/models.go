package models

// SessionUser is the signed-in user as reported by the identity provider.
type SessionUser struct {
	ID           string `json:"id"`
	Email        string `json:"email,omitempty"`
	DisplayName  string `json:"name,omitempty"`
	AvatarURL    string `json:"avatar,omitempty"`
	AuthProvider string `json:"provider,omitempty"`
}

// Label returns the name shown in the UI, falling back to the email.
func (u *SessionUser) Label() string {
	switch {
	case u.DisplayName != "":
		return u.DisplayName
	case u.Email != "":
		return u.Email
	default:
		return "User"
	}
}
