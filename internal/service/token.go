package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/andrelz/cryptowallet/internal/models"
)

// TokenCodec issues and verifies bearer tokens. Tokens are stateless: there
// is no revocation list, logout is client-side discard, and callers must
// still confirm the embedded subject resolves to a live user.
type TokenCodec interface {
	Issue(userID string) (string, error)
	Verify(tokenString string) (string, error)
}

// jwtCodec implements TokenCodec with HS256-signed JWTs.
type jwtCodec struct {
	secret   []byte
	duration time.Duration
}

func newJWTCodec(secret string, duration time.Duration) *jwtCodec {
	return &jwtCodec{
		secret:   []byte(secret),
		duration: duration,
	}
}

func (c *jwtCodec) Issue(userID string) (string, error) {
	expirationTime := time.Now().Add(c.duration)

	claims := jwt.MapClaims{
		"sub": userID, // subject
		"exp": expirationTime.Unix(),
		"iat": time.Now().Unix(), // issued at
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

func (c *jwtCodec) Verify(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return c.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", models.ErrTokenExpired
		}
		return "", models.ErrTokenMalformed
	}

	if !token.Valid {
		return "", models.ErrTokenMalformed
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", models.ErrTokenMalformed
	}

	userID, ok := claims["sub"].(string)
	if !ok || userID == "" {
		return "", models.ErrTokenMalformed
	}

	return userID, nil
}
