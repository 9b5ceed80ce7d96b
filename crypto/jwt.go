// Package crypto issues and verifies the session tokens handed out by the
// connect endpoint. Identity is just a display name; there are no passwords.
package crypto

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrExpiredToken          = errors.New("expired token")
	ErrInvalidTokenSignature = errors.New("invalid token signature")
	ErrCorruptedToken        = errors.New("corrupted token")
	ErrInvalidSigningAlg     = errors.New("invalid signing algorithm")

	errTokenGeneration   = errors.New("unexpected token generation error")
	errTokenVerification = errors.New("unexpected token verification error")
)

// jwtCustomClaims is an unexported struct used for claims.
// Fields must be exported for JSON serialization.
type jwtCustomClaims struct {
	Id   string `json:"id"`
	Name string `json:"name"`
	jwt.RegisteredClaims
}

type JWTManager struct {
	secretKey []byte
	maxAge    time.Duration
}

func NewJWTManager(secretKey string, maxAge time.Duration) *JWTManager {
	return &JWTManager{
		secretKey: []byte(secretKey),
		maxAge:    maxAge,
	}
}

func (m *JWTManager) Generate(id, name string, now time.Time) (string, error) {
	claims := jwtCustomClaims{
		Id:   id,
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.maxAge)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(m.secretKey)

	if err != nil {
		return "", fmt.Errorf("%w: %w", errTokenGeneration, err)
	}

	return signedToken, nil
}

// Verify returns the player id and display name baked into the token.
func (m *JWTManager) Verify(tokenString string) (string, string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtCustomClaims{}, func(token *jwt.Token) (any, error) {
		// Validate the signing method is what we expect (HMAC)
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSigningAlg
		}
		return m.secretKey, nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidSigningAlg):
			return "", "", err
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", "", ErrExpiredToken
		case errors.Is(err, jwt.ErrSignatureInvalid):
			return "", "", ErrInvalidTokenSignature
		case errors.Is(err, jwt.ErrTokenMalformed):
			return "", "", ErrCorruptedToken
		default:
			return "", "", fmt.Errorf("%w: %w", errTokenVerification, err)
		}
	}

	if claims, ok := token.Claims.(*jwtCustomClaims); ok && token.Valid {
		return claims.Id, claims.Name, nil
	}

	return "", "", ErrCorruptedToken
}
