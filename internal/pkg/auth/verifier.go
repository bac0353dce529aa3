package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Credential failure kinds. Each maps to a distinct rejection reason for
// diagnostics; the wire-level behavior is identical (refuse the action).
var (
	ErrMissingCredential   = errors.New("auth: missing credential")
	ErrMalformedCredential = errors.New("auth: malformed credential")
	ErrExpiredCredential   = errors.New("auth: expired credential")
	ErrInvalidSignature    = errors.New("auth: invalid signature")
)

// Claims is the JWT claim set issued for CMUFinds users.
type Claims struct {
	UserID string   `json:"user_id"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

// Verifier validates HS256 bearer tokens and produces verified identities.
// It is used identically for the websocket handshake and the request layer.
type Verifier struct {
	secret []byte
}

// NewVerifier constructs a Verifier with the given signing secret.
func NewVerifier(secret string) (*Verifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("auth: signing secret is empty")
	}
	return &Verifier{secret: []byte(secret)}, nil
}

// NewVerifierFromEnv reads the signing secret from the JWT_SECRET env var.
func NewVerifierFromEnv() (*Verifier, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("auth: JWT_SECRET environment variable is not set")
	}
	return NewVerifier(secret)
}

// Verify parses and validates the credential and returns the identity it
// carries. Unknown role strings are dropped during parsing.
func (v *Verifier) Verify(credential string) (Identity, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return Identity{}, ErrMissingCredential
	}

	token, err := jwt.ParseWithClaims(credential, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Identity{}, ErrExpiredCredential
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Identity{}, ErrInvalidSignature
		default:
			return Identity{}, ErrMalformedCredential
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.UserID == "" {
		return Identity{}, ErrMalformedCredential
	}

	return Identity{UserID: claims.UserID, Roles: ParseRoles(claims.Roles)}, nil
}

// Issue mints a signed token for the given user. Used by the auth endpoints of
// the surrounding application and by tests.
func (v *Verifier) Issue(userID string, roles []Role, ttl time.Duration) (string, error) {
	if userID == "" {
		return "", errors.New("auth: user id is required")
	}
	now := time.Now()
	raw := make([]string, len(roles))
	for n, r := range roles {
		raw[n] = string(r)
	}
	claims := Claims{
		UserID: userID,
		Roles:  raw,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}
