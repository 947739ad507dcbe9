package middleware // middleware contains reusable HTTP middleware functions

import (
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for prefix checking and trimming

	"github.com/golang-jwt/jwt/v5" // JWT library for parsing and validating tokens
	"github.com/labstack/echo/v4"  // Echo framework used for defining middleware and handlers

	"github.com/ExplorerSKD/BookMyShows/internal/model"
)

// identityKey is the context key under which the authenticated caller
// is stored.  Handlers read it via Identity(c).
const identityKey = "identity"

// Identity returns the authenticated caller from the Echo context.
// The second return value is false for anonymous requests.
func Identity(c echo.Context) (model.Identity, bool) {
	id, ok := c.Get(identityKey).(model.Identity)
	return id, ok
}

// parseIdentity validates a raw bearer token and converts its claims
// into a model.Identity.  It returns false on any kind of invalid
// token; callers decide whether that is fatal.
func parseIdentity(secret, raw string) (model.Identity, bool) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.ErrUnauthorized
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return model.Identity{}, false
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return model.Identity{}, false
	}
	// Numeric claims decode as float64.
	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return model.Identity{}, false
	}
	role, _ := claims["role"].(string)
	approved, _ := claims["approved"].(bool)
	return model.Identity{
		UserID:   uint64(sub),
		Role:     model.Role(role),
		Approved: approved,
	}, true
}

// JWTAuth returns an Echo middleware that validates a Bearer access
// token and stores the resulting identity in the request context.
// Requests without a valid token get 401.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")
			ident, ok := parseIdentity(secret, raw)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			c.Set(identityKey, ident)
			return next(c)
		}
	}
}

// OptionalJWTAuth is like JWTAuth but lets anonymous requests through
// without an identity.  The seat map uses it: anyone may look, but
// only authenticated holders see their own locks highlighted.
func OptionalJWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if strings.HasPrefix(auth, "Bearer ") {
				if ident, ok := parseIdentity(secret, strings.TrimPrefix(auth, "Bearer ")); ok {
					c.Set(identityKey, ident)
				}
			}
			return next(c)
		}
	}
}
