package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc"
	"github.com/golang-jwt/jwt/v4"

	"github.com/Pranjal6955/TaskBoard-Pro/logging"
)

// JWKSVerifier validates RS256 ID tokens minted by the external identity
// provider against its published JWKS. Tokens signed with any other
// algorithm are handed to the next verifier in the chain.
type JWKSVerifier struct {
	jwks     *keyfunc.JWKS
	issuer   string
	audience string
}

func NewJWKSVerifier(jwksURL, issuer, audience string) (*JWKSVerifier, error) {
	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		RefreshInterval:  time.Hour,
		RefreshRateLimit: 5 * time.Minute,
		RefreshErrorHandler: func(err error) {
			logging.Logger.Errorf("Event ID: JWKS_REFRESH_FAILED, Description: Failed to refresh JWKS: %v", err)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch JWKS from %s: %w", jwksURL, err)
	}
	return &JWKSVerifier{jwks: jwks, issuer: issuer, audience: audience}, nil
}

func (v *JWKSVerifier) Verify(ctx context.Context, tokenStr string) (*Identity, error) {
	if strings.Count(tokenStr, ".") != 2 {
		return nil, ErrNotApplicable
	}

	// Peek at the unverified header: an HS256 token belongs to the local
	// verifier, not to the provider.
	unverified, _, err := jwt.NewParser().ParseUnverified(tokenStr, jwt.MapClaims{})
	if err != nil {
		return nil, ErrNotApplicable
	}
	if unverified.Method.Alg() != jwt.SigningMethodRS256.Alg() {
		return nil, ErrNotApplicable
	}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{"RS256"}))
	token, err := parser.Parse(tokenStr, v.jwks.Keyfunc)
	if err != nil {
		return nil, fmt.Errorf("invalid provider token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid provider token claims")
	}

	now := time.Now().Unix()
	if !claims.VerifyExpiresAt(now, true) {
		return nil, fmt.Errorf("provider token expired")
	}
	if v.audience != "" && !claims.VerifyAudience(v.audience, true) {
		return nil, fmt.Errorf("invalid provider token audience")
	}
	if v.issuer != "" && !claims.VerifyIssuer(v.issuer, true) {
		return nil, fmt.Errorf("invalid provider token issuer")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, fmt.Errorf("provider token missing sub")
	}
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	if name == "" && email != "" {
		name = strings.SplitN(email, "@", 2)[0]
	}

	return &Identity{UID: sub, Email: email, Name: name}, nil
}
