package auth_test

import (
	"testing"
	"time"

	"github.com/medicareplus/careportal/internal/auth"
)

func newManager() *auth.Manager {
	return auth.NewManager("test-secret", 15*time.Minute, 7*24*time.Hour)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newManager()

	token, err := m.GenerateAccessToken("user-1", "jane@example.com", "user")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := m.VerifyAccessToken(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	if claims.UserID != "user-1" || claims.Email != "jane@example.com" || claims.Role != "user" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestRefreshTokenRejectedAsAccess(t *testing.T) {
	m := newManager()

	raw, jti, _, err := m.GenerateRefreshToken("user-1", "jane@example.com", "user")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if jti == "" {
		t.Fatal("expected a jti")
	}

	if _, err := m.VerifyAccessToken(raw); err == nil {
		t.Fatal("refresh token must not pass access verification")
	}

	if _, err := m.VerifyRefreshToken(raw); err != nil {
		t.Fatalf("verify refresh: %v", err)
	}
}

func TestAccessTokenRejectedAsRefresh(t *testing.T) {
	m := newManager()

	token, err := m.GenerateAccessToken("user-1", "jane@example.com", "user")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := m.VerifyRefreshToken(token); err == nil {
		t.Fatal("access token must not pass refresh verification")
	}
}

func TestWrongSecretFails(t *testing.T) {
	token, err := newManager().GenerateAccessToken("user-1", "jane@example.com", "user")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	other := auth.NewManager("different-secret", 15*time.Minute, 7*24*time.Hour)

	if _, err := other.VerifyAccessToken(token); err == nil {
		t.Fatal("token signed with another secret must not verify")
	}
}

func TestExpiredAccessTokenFails(t *testing.T) {
	m := auth.NewManager("test-secret", -time.Minute, 7*24*time.Hour)

	token, err := m.GenerateAccessToken("user-1", "jane@example.com", "user")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := m.VerifyAccessToken(token); err == nil {
		t.Fatal("expired token must not verify")
	}
}

func TestHashRefreshTokenIsDeterministic(t *testing.T) {
	m := newManager()

	a := m.HashRefreshToken("raw-token")
	b := m.HashRefreshToken("raw-token")
	c := m.HashRefreshToken("other-token")

	if a != b {
		t.Fatal("same input must hash the same")
	}

	if a == c {
		t.Fatal("different inputs must not collide")
	}
}
