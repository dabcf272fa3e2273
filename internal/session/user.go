package session

import "strings"

// Role is the actor's role as the client understands it.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// ParseRole maps a backend role name onto a Role. The backend calls
// borrowers ANGGOTA; anything that is not ADMIN is treated as a borrower.
func ParseRole(s string) Role {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ADMIN":
		return RoleAdmin
	default:
		return RoleUser
	}
}

// User is the identity stored with the session.
type User struct {
	ID       string `yaml:"id" json:"id"`
	Username string `yaml:"username" json:"username"`
	Email    string `yaml:"email,omitempty" json:"email,omitempty"`
	Role     Role   `yaml:"role" json:"role"`
	Nama     string `yaml:"nama,omitempty" json:"nama,omitempty"`
	NIM      string `yaml:"nim,omitempty" json:"nim,omitempty"`
	Jurusan  string `yaml:"jurusan,omitempty" json:"jurusan,omitempty"`
}

// IsAdmin reports whether u may call admin endpoints.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// DisplayName returns the full name, falling back to the username.
func (u User) DisplayName() string {
	if u.Nama != "" {
		return u.Nama
	}
	return u.Username
}
