package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/VDronovVladislav/foodgram-project-react/domain"
	"github.com/VDronovVladislav/foodgram-project-react/internal/api/presenters"
	"github.com/VDronovVladislav/foodgram-project-react/internal/utils"
)

const LocalsUserID = "user_id"

type (
	// Authenticator resolves a raw token to the id of its user.
	Authenticator interface {
		Authenticate(ctx context.Context, token string) (uint, error)
	}

	Middleware interface {
		CORSMiddleware() fiber.Handler
		AuthMiddleware(auth Authenticator) fiber.Handler
		OptionalAuthMiddleware(auth Authenticator) fiber.Handler
	}

	middleware struct{}
)

func NewMiddleware() Middleware {
	return &middleware{}
}

func (m *middleware) CORSMiddleware() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: utils.GetConfig("CORS_ORIGINS"),
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	})
}

// AuthMiddleware rejects the request with 401 unless it carries a live token.
func (m *middleware) AuthMiddleware(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c)
		if !ok {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedGetToken, domain.ErrUnauthorized)
		}
		return authenticate(c, auth, token)
	}
}

// OptionalAuthMiddleware lets anonymous requests through with user id 0. A
// token that is present but invalid is still rejected.
func (m *middleware) OptionalAuthMiddleware(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c)
		if !ok {
			c.Locals(LocalsUserID, uint(0))
			return c.Next()
		}
		return authenticate(c, auth, token)
	}
}

func authenticate(c *fiber.Ctx, auth Authenticator, token string) error {
	userID, err := auth.Authenticate(c.UserContext(), token)
	if err != nil {
		return presenters.HandleError(c, domain.MessageFailedTokenInvalid, err)
	}
	c.Locals(LocalsUserID, userID)
	return c.Next()
}

// bearerToken accepts "Token <key>" and "Bearer <key>".
func bearerToken(c *fiber.Ctx) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(c.Get(fiber.HeaderAuthorization)), " ")
	if !ok {
		return "", false
	}
	if !strings.EqualFold(scheme, "Token") && !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// UserID returns the id stored by the auth middlewares, 0 when anonymous.
func UserID(c *fiber.Ctx) uint {
	id, _ := c.Locals(LocalsUserID).(uint)
	return id
}
