package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/church-finance/internal/apperr"
	"github.com/carson-networks/church-finance/internal/storage/profile"
)

// Authenticator turns request credentials into a User.
type Authenticator struct {
	verifier   *Verifier
	roles      RoleSource
	serviceKey string
	now        func() time.Time
}

func NewAuthenticator(verifier *Verifier, roles RoleSource, serviceKey string) *Authenticator {
	return &Authenticator{
		verifier:   verifier,
		roles:      roles,
		serviceKey: serviceKey,
		now:        time.Now,
	}
}

// Authenticate prefers the session cookie and falls back to the bearer
// token.
func (a *Authenticator) Authenticate(ctx context.Context, cookieHeader, authorization string) (*User, error) {
	if session, ok := sessionFromHeader(cookieHeader); ok {
		return a.fromSession(ctx, session)
	}

	token, ok := bearer(authorization)
	if !ok {
		return nil, apperr.Unauthorized("Unauthorized", nil)
	}
	if a.serviceKey != "" && subtle.ConstantTimeCompare([]byte(token), []byte(a.serviceKey)) == 1 {
		return &User{Role: profile.RoleAdmin, Service: true}, nil
	}

	userID, claims, err := a.verifier.Verify(token)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired token", err)
	}
	return a.withRole(ctx, &User{ID: userID, Email: claims.Email})
}

func (a *Authenticator) fromSession(ctx context.Context, s *Session) (*User, error) {
	if s.Expired(a.now()) {
		return nil, apperr.Unauthorized("Session expired", nil)
	}
	userID, claims, err := a.verifier.Verify(s.AccessToken)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired token", err)
	}
	if userID != s.UserID {
		return nil, apperr.Unauthorized("Session does not match token", nil)
	}
	email := s.Email
	if email == "" {
		email = claims.Email
	}
	return a.withRole(ctx, &User{ID: userID, Email: email})
}

func (a *Authenticator) withRole(ctx context.Context, u *User) (*User, error) {
	role, err := a.roles.Role(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	u.Role = role
	return u, nil
}

func sessionFromHeader(cookieHeader string) (*Session, bool) {
	if cookieHeader == "" {
		return nil, false
	}
	cookies, err := http.ParseCookie(cookieHeader)
	if err != nil {
		return nil, false
	}
	for _, c := range cookies {
		if c.Name != CookieName {
			continue
		}
		s, err := ParseSession(c.Value)
		if err != nil {
			return nil, false
		}
		return s, true
	}
	return nil, false
}

func bearer(authorization string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(authorization), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Middleware enforces the operation's declared security. Operations without
// security requirements pass through untouched.
func Middleware(api huma.API, a *Authenticator, log logrus.FieldLogger) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		op := ctx.Operation()
		if op == nil || len(op.Security) == 0 {
			next(ctx)
			return
		}

		user, err := a.Authenticate(ctx.Context(), ctx.Header("Cookie"), ctx.Header("Authorization"))
		if err != nil {
			status := http.StatusUnauthorized
			msg := "Unauthorized"
			var ae *apperr.Error
			if errors.As(err, &ae) && ae.Kind == apperr.KindUnauthorized {
				msg = ae.Message
			} else {
				status = http.StatusInternalServerError
				msg = "Failed to resolve user role"
				log.WithError(err).WithField("operation", op.OperationID).Error("auth.Middleware.role lookup failed")
			}
			_ = huma.WriteErr(api, ctx, status, msg)
			return
		}

		if requiresAdmin(op.Security) && !user.IsAdmin() {
			_ = huma.WriteErr(api, ctx, http.StatusForbidden, "Admin role required")
			return
		}

		next(huma.WithValue(ctx, userKey{}, user))
	}
}

func requiresAdmin(security []map[string][]string) bool {
	for _, req := range security {
		for _, scope := range req[SchemeName] {
			if scope == ScopeAdmin {
				return true
			}
		}
	}
	return false
}
