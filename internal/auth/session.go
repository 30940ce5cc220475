// Package auth authenticates requests from the session cookie or a bearer
// token and resolves the caller's role.
package auth

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/gofrs/uuid/v5"
)

// CookieName is the session cookie set by the login flow.
const CookieName = "church-auth-minimal"

// Session is the decoded session cookie.
type Session struct {
	UserID       uuid.UUID `json:"user_id"`
	Email        string    `json:"email"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    int64     `json:"expires_at"`
}

// ParseSession decodes a URL-encoded JSON cookie value.
func ParseSession(value string) (*Session, error) {
	raw, err := url.QueryUnescape(value)
	if err != nil {
		return nil, fmt.Errorf("unescape session cookie: %w", err)
	}
	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("decode session cookie: %w", err)
	}
	if s.UserID == uuid.Nil || s.AccessToken == "" {
		return nil, fmt.Errorf("session cookie is missing user_id or access_token")
	}
	return &s, nil
}

// Encode is the inverse of ParseSession.
func (s *Session) Encode() (string, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return url.QueryEscape(string(raw)), nil
}

func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt != 0 && now.Unix() >= s.ExpiresAt
}
