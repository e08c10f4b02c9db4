// Package session holds the authentication state of a single connection.
package session

// Session records whether its connection has authenticated as administrator.
// It belongs to exactly one connection and is never shared.
type Session struct {
	admin bool
}

// New returns a session that is not authenticated.
func New() *Session {
	return &Session{}
}

// IsAdmin reports whether the connection authenticated as administrator.
func (s *Session) IsAdmin() bool {
	return s.admin
}

// SetAdmin sets the administrator flag.
func (s *Session) SetAdmin(admin bool) {
	s.admin = admin
}
