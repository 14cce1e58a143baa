package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

type MyClaims struct {
	UID string `json:"uid,omitempty"`
	jwt.RegisteredClaims
}

var errMissingUID = errors.New("missing uid")

// BearerToken returns the token of an "Authorization: Bearer" header, or "".
func BearerToken(c *fiber.Ctx) string {
	auth := c.Get(fiber.HeaderAuthorization)
	if len(auth) < 7 || !strings.EqualFold(auth[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(auth[7:])
}

// ParseToken verifies an HS256 token and returns the user id it carries,
// read from uid and falling back to sub.
func ParseToken(secret, tokenStr string) (string, error) {
	var claims MyClaims
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims,
		func(t *jwt.Token) (any, error) {
			return []byte(secret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", jwt.ErrTokenInvalidClaims
	}

	uid := claims.UID
	if uid == "" {
		uid = claims.Subject
	}
	if uid == "" {
		return "", errMissingUID
	}
	return uid, nil
}

// JWTUidOnly puts the token's user id into Locals("user_id"). Requests
// without a bearer token pass through anonymously; a bad token is a 401.
func JWTUidOnly(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := BearerToken(c)
		if tokenStr == "" {
			return c.Next()
		}
		uid, err := ParseToken(secret, tokenStr)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}
		c.Locals("user_id", uid)
		return c.Next()
	}
}
