package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type stubVerifier struct {
	identity *Identity
	err      error
	calls    int
}

func (s *stubVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.identity, nil
}

func TestChain_Verify(t *testing.T) {
	ctx := context.Background()

	t.Run("Given first verifier not applicable Then falls through to second", func(t *testing.T) {
		first := &stubVerifier{err: ErrNotApplicable}
		second := &stubVerifier{identity: &Identity{UID: "u1", Email: "u1@x.com"}}
		chain := NewChain(first, second)

		identity, err := chain.Verify(ctx, "tok")
		if err != nil {
			t.Fatalf("verify failed: %v", err)
		}
		if identity.UID != "u1" {
			t.Errorf("expected identity from second verifier, got %+v", identity)
		}
		if first.calls != 1 || second.calls != 1 {
			t.Errorf("expected both verifiers tried once, got %d and %d", first.calls, second.calls)
		}
	})

	t.Run("Given hard failure Then chain stops", func(t *testing.T) {
		first := &stubVerifier{err: errors.New("signature mismatch")}
		second := &stubVerifier{identity: &Identity{UID: "u1"}}
		chain := NewChain(first, second)

		if _, err := chain.Verify(ctx, "tok"); err == nil {
			t.Fatal("expected error")
		}
		if second.calls != 0 {
			t.Errorf("second verifier should not run after a hard failure, got %d calls", second.calls)
		}
	})

	t.Run("Given no verifier accepts Then rejects", func(t *testing.T) {
		chain := NewChain(&stubVerifier{err: ErrNotApplicable})
		if _, err := chain.Verify(ctx, "tok"); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestLocalVerifier_RoundTrip(t *testing.T) {
	verifier := NewLocalVerifier("test-secret")
	token, err := verifier.GenerateToken(Identity{UID: "u1", Email: "u1@x.com", Name: "User One"})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	identity, err := verifier.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if identity.UID != "u1" || identity.Email != "u1@x.com" || identity.Name != "User One" {
		t.Errorf("unexpected identity: %+v", identity)
	}
}

func TestLocalVerifier_WrongSecret(t *testing.T) {
	token, err := NewLocalVerifier("secret-a").GenerateToken(Identity{UID: "u1"})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if _, err := NewLocalVerifier("secret-b").Verify(context.Background(), token); err == nil {
		t.Fatal("expected error for token signed with a different secret")
	}
}

func TestLocalVerifier_ExpiredToken(t *testing.T) {
	secret := []byte("test-secret")
	claims := &Claims{
		UID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	if _, err := NewLocalVerifier("test-secret").Verify(context.Background(), token); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestLocalVerifier_NotApplicable(t *testing.T) {
	verifier := NewLocalVerifier("test-secret")

	cases := []struct {
		name  string
		token string
	}{
		{"opaque string", "not-a-jwt"},
		{"garbage segments", "a.b.c"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := verifier.Verify(context.Background(), tc.token)
			if !errors.Is(err, ErrNotApplicable) {
				t.Errorf("expected ErrNotApplicable, got %v", err)
			}
		})
	}
}
