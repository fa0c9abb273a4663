package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/campus-events/server/internal/domain/accounts"
)

// Claims carried by a session token. The subject is the account ID and the
// role claim is pinned to the account roles, so a token minted before a
// role rename cannot smuggle an arbitrary value past authorization.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AccountID returns the token subject.
func (c *Claims) AccountID() string { return c.Subject }

type JWTManager struct {
	secret []byte
	expiry time.Duration
	issuer string
}

var (
	ErrMissingToken    = errors.New("missing bearer token")
	ErrMalformedHeader = errors.New("malformed authorization header")
	ErrInvalidToken    = errors.New("invalid token")
	ErrExpiredToken    = errors.New("token expired")
)

func NewJWTManager(secret string, expiry time.Duration, issuer string) *JWTManager {
	return &JWTManager{
		secret: []byte(secret),
		expiry: expiry,
		issuer: issuer,
	}
}

// Generate signs a token for the account. Only the two known roles are
// mintable.
func (m *JWTManager) Generate(accountID, role string) (string, error) {
	if accountID == "" {
		return "", fmt.Errorf("generate token: %w: empty account ID", ErrInvalidToken)
	}
	if !knownRole(role) {
		return "", fmt.Errorf("generate token: %w: role %q", ErrInvalidToken, role)
	}

	now := time.Now()
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Validate parses and verifies a token. Expired tokens surface as
// ErrExpiredToken so callers can tell a stale session from a forged one.
func (m *JWTManager) Validate(tokenString string) (*Claims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, ErrMissingToken
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{},
		func(*jwt.Token) (interface{}, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || !knownRole(claims.Role) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// TokenFromHeader extracts the bearer token from an Authorization header.
// An absent header and a present-but-garbled one are distinct failures.
func TokenFromHeader(authHeader string) (string, error) {
	if strings.TrimSpace(authHeader) == "" {
		return "", ErrMissingToken
	}
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", ErrMalformedHeader
	}
	return parts[1], nil
}

func knownRole(role string) bool {
	return role == accounts.RoleStudent || role == accounts.RoleFaculty
}
