package session

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shopstack/storefront-gateway/pkg/enums"
	pkgerrors "github.com/shopstack/storefront-gateway/pkg/errors"
)

func mintToken(t *testing.T, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func TestParseClaims(t *testing.T) {
	raw := mintToken(t, Claims{
		UserID: "u-1",
		Email:  "buyer@example.com",
		Role:   "normal_user",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := ParseClaims(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != "u-1" || claims.Email != "buyer@example.com" {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if claims.Role != "normal_user" {
		t.Fatalf("unexpected role %q", claims.Role)
	}
}

func TestParseClaimsFallsBackToSubject(t *testing.T) {
	raw := mintToken(t, Claims{
		Role:             "seller",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u-42"},
	})
	claims, err := ParseClaims(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != "u-42" {
		t.Fatalf("expected subject fallback, got %q", claims.UserID)
	}
}

func TestParseClaimsRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "   ", "not-a-jwt", "a.b"} {
		_, err := ParseClaims(raw)
		if err == nil {
			t.Fatalf("expected error for %q", raw)
		}
		if pkgerrors.CodeOf(err) != pkgerrors.CodeUnauthorized {
			t.Fatalf("expected unauthorized code for %q, got %s", raw, pkgerrors.CodeOf(err))
		}
	}
}

func TestSessionRoleFailsClosed(t *testing.T) {
	s := Session{User: User{Role: "superuser"}}
	if s.Role() != "" {
		t.Fatalf("unknown role must map to zero role, got %q", s.Role())
	}
	s = Session{User: User{Role: "admin"}}
	if s.Role() != enums.RoleAdmin {
		t.Fatalf("expected admin role, got %q", s.Role())
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if _, err := store.Get(ctx, "tok"); err != ErrNotCached {
		t.Fatalf("expected ErrNotCached, got %v", err)
	}

	user := User{ID: "u-1", Email: "buyer@example.com", Role: "normal_user"}
	if err := store.Set(ctx, "tok", user, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := store.Get(ctx, "tok")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != user {
		t.Fatalf("expected %+v, got %+v", user, got)
	}

	if err := store.Clear(ctx, "tok"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := store.Get(ctx, "tok"); err != ErrNotCached {
		t.Fatalf("expected cleared session, got %v", err)
	}
}
