package http

import (
	"net/http"
	"strings"
	"time"

	"dropmarket/internal/core/domain/model/kernel"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Roles carried in access tokens. The token subject is the actor's UUID;
// handlers always take the actor identity from the token, never from the
// request body.
const (
	RoleSender  = "sender"
	RoleCourier = "courier"
	RoleAdmin   = "admin"
)

const (
	actorIDKey   = "actor_id"
	actorRoleKey = "actor_role"
)

// Claims is the access token payload.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// NewToken signs an HS256 access token for the given actor.
func NewToken(secret []byte, actorID kernel.UUID, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actorID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role: role,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Auth authenticates requests with a Bearer token and stores the actor's
// identity and role in the request context.
func Auth(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				return unauthorized(c, "missing bearer token")
			}

			claims := &Claims{}
			parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
				return secret, nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !parsed.Valid {
				return unauthorized(c, "invalid token")
			}

			actorID, err := kernel.UUIDFromString(claims.Subject)
			if err != nil {
				return unauthorized(c, "invalid token subject")
			}

			c.Set(actorIDKey, actorID)
			c.Set(actorRoleKey, claims.Role)
			return next(c)
		}
	}
}

// RequireRole rejects requests whose token carries none of the given roles.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(actorRoleKey).(string)
			for _, allowed := range roles {
				if role == allowed {
					return next(c)
				}
			}

			return c.JSON(http.StatusForbidden, errorBody{
				Code:    "forbidden",
				Message: "role " + role + " may not perform this action",
			})
		}
	}
}

func unauthorized(c echo.Context, message string) error {
	return c.JSON(http.StatusUnauthorized, errorBody{Code: "unauthorized", Message: message})
}

// actorID returns the authenticated actor's identifier. Only valid behind
// the Auth middleware.
func actorID(c echo.Context) kernel.UUID {
	id, _ := c.Get(actorIDKey).(kernel.UUID)
	return id
}

func actorRole(c echo.Context) string {
	role, _ := c.Get(actorRoleKey).(string)
	return role
}
