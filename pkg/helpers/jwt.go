package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any token that fails verification:
// bad signature, malformed structure, or past expiry.
var ErrInvalidToken = errors.New("invalid token")

// JWTManager mints and verifies self-contained identity tokens. The key is
// fixed at construction; a token carries everything needed to verify it, so
// no server-side session state exists.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
}

func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{secret: []byte(secret), ttl: ttl}
}

type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Generate signs a token asserting the given identity, valid for the
// manager's TTL from now.
func (m *JWTManager) Generate(userID, email string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(m.ttl)
	claims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.secret)
	return s, exp, err
}

// Parse verifies signature and expiry and returns the embedded claims.
// There is no not-before check.
func (m *JWTManager) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !tkn.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
