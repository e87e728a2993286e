// Package middleware holds the API auth: the configured API key is
// argon2id-hashed at startup, clients exchange the key for a JWT and
// send it as a bearer token on every other route.
package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/argon2"
)

const (
	exp = 9         // Token expires in 9 hours
	iss = "gungnir" // Issuer

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// Auth verifies API keys and issues/validates session tokens
type Auth struct {
	salt    []byte
	keyHash []byte
	secret  []byte
}

// NewAuth hashes the configured API key with a fresh salt. The derived
// hash doubles as the JWT signing secret, so tokens die with the
// process, which is fine for a polling API.
func NewAuth(apiKey string) (*Auth, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}

	hash := argon2.IDKey([]byte(apiKey), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	return &Auth{
		salt:    salt,
		keyHash: hash,
		secret:  hash,
	}, nil
}

// VerifyKey checks a presented API key in constant time
func (a *Auth) VerifyKey(key string) bool {
	candidate := argon2.IDKey([]byte(key), a.salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	return subtle.ConstantTimeCompare(candidate, a.keyHash) == 1
}

// IssueToken returns a signed session token
func (a *Auth) IssueToken() (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Duration(exp) * time.Hour).Unix(),
		"iss": iss,
	})
	return token.SignedString(a.secret)
}

// VerifyToken parses and validates a session token
func (a *Auth) VerifyToken(tokenString string) error {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return a.secret, nil
	}, jwt.WithExpirationRequired(), jwt.WithIssuer(iss))
	if err != nil {
		return err
	}
	if !token.Valid {
		return fmt.Errorf("token is not valid")
	}
	return nil
}

// Bouncer guards a route group: requests need a valid bearer token
func (a *Auth) Bouncer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		if err := a.VerifyToken(strings.TrimPrefix(header, "Bearer ")); err != nil {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return c.Next()
	}
}
