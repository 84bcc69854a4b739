package session

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shopstack/storefront-gateway/pkg/enums"
	pkgerrors "github.com/shopstack/storefront-gateway/pkg/errors"
)

// User is the cached profile slice the gateway needs for checkout prefill
// and role decisions.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone_number"`
	Role     string `json:"role"`
}

// Session is the explicit per-request authentication context threaded into
// every service call. Nothing reads ambient global state; a request either
// carries a Session or it is anonymous.
type Session struct {
	Token string
	User  User
}

// Role returns the closed-enum role for the session. Unknown or missing role
// strings yield the zero Role, which every permission check treats as "no
// access".
func (s Session) Role() enums.Role {
	role, err := enums.ParseRole(s.User.Role)
	if err != nil {
		return ""
	}
	return role
}

// Claims is the subset of the backend-issued JWT the gateway reads. The
// gateway never verifies the signature; the backend re-checks the token on
// every proxied call and stays the authority.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// ParseClaims decodes the bearer token without signature verification.
func ParseClaims(token string) (*Claims, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "bearer token required")
	}
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(trimmed, claims); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "malformed bearer token")
	}
	if strings.TrimSpace(claims.UserID) == "" && claims.Subject != "" {
		claims.UserID = claims.Subject
	}
	return claims, nil
}

// FromToken builds a Session from raw claims alone, used when the user
// record has not been cached yet.
func FromToken(token string) (Session, error) {
	claims, err := ParseClaims(token)
	if err != nil {
		return Session{}, err
	}
	return Session{
		Token: token,
		User: User{
			ID:    claims.UserID,
			Email: claims.Email,
			Role:  claims.Role,
		},
	}, nil
}
