package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenTTL matches the token exchange contract: locally issued tokens are
// valid for 7 days.
const tokenTTL = 7 * 24 * time.Hour

type Claims struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// LocalVerifier issues and validates HS256 tokens signed with the
// application secret.
type LocalVerifier struct {
	secret []byte
}

func NewLocalVerifier(secret string) *LocalVerifier {
	return &LocalVerifier{secret: []byte(secret)}
}

// GenerateToken issues a 7-day token carrying the identity claims.
func (v *LocalVerifier) GenerateToken(identity Identity) (string, error) {
	claims := &Claims{
		UID:   identity.UID,
		Email: identity.Email,
		Name:  identity.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}

func (v *LocalVerifier) Verify(ctx context.Context, tokenStr string) (*Identity, error) {
	if strings.Count(tokenStr, ".") != 2 {
		return nil, ErrNotApplicable
	}

	unverified, _, err := jwt.NewParser().ParseUnverified(tokenStr, jwt.MapClaims{})
	if err != nil {
		return nil, ErrNotApplicable
	}
	if unverified.Method.Alg() != jwt.SigningMethodHS256.Alg() {
		return nil, ErrNotApplicable
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.Before(time.Now()) {
		return nil, fmt.Errorf("token has expired")
	}

	return &Identity{UID: claims.UID, Email: claims.Email, Name: claims.Name}, nil
}
