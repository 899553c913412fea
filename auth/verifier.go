package auth

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotApplicable signals that a verifier does not recognize the token and
// the next verifier in the chain should be tried. Any other error is a hard
// failure and stops the chain.
var ErrNotApplicable = errors.New("token not applicable to this verifier")

// Identity is the authenticated caller extracted from a bearer token.
type Identity struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// TokenVerifier validates one token format.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// Chain tries verifiers in order until one returns a result other than
// ErrNotApplicable.
type Chain struct {
	verifiers []TokenVerifier
}

func NewChain(verifiers ...TokenVerifier) *Chain {
	return &Chain{verifiers: verifiers}
}

func (c *Chain) Verify(ctx context.Context, token string) (*Identity, error) {
	for _, verifier := range c.verifiers {
		identity, err := verifier.Verify(ctx, token)
		if errors.Is(err, ErrNotApplicable) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return identity, nil
	}
	return nil, fmt.Errorf("no verifier accepted the token")
}
