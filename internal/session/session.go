package session

import "github.com/golang-jwt/jwt/v5"

// Session is the authenticated user's token and identity as held locally.
// A zero Session means unauthenticated.
type Session struct {
	Token string
	Email string
}

// Valid reports whether a token is present. It says nothing about expiry;
// a stale token only surfaces as an authorization failure from the server.
func (s Session) Valid() bool {
	return s.Token != ""
}

// UserID extracts a user identifier from the token payload without verifying
// the signature. The server remains authoritative; this value is used only
// for display and client-side filtering, never for authorization.
func (s Session) UserID() string {
	if s.Token == "" {
		return ""
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token, claims); err != nil {
		return ""
	}

	for _, key := range []string{"_id", "userId", "id", "sub"} {
		if v, ok := claims[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
