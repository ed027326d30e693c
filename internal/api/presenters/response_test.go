package presenters

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VDronovVladislav/foodgram-project-react/domain"
	"github.com/VDronovVladislav/foodgram-project-react/internal/utils"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.NewValidationError("name", domain.ErrRecipeNameTaken), fiber.StatusBadRequest},
		{domain.ErrRecipeNotFound, fiber.StatusNotFound},
		{domain.ErrUserNotFound, fiber.StatusNotFound},
		{domain.ErrForbidden, fiber.StatusForbidden},
		{domain.ErrUnauthorized, fiber.StatusUnauthorized},
		{domain.ErrTokenRevoked, fiber.StatusUnauthorized},
		{errors.New("boom"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusCode(tt.err), tt.err.Error())
	}
}

func TestHandleErrorBodies(t *testing.T) {
	app := fiber.New()
	app.Get("/validation", func(c *fiber.Ctx) error {
		return HandleError(c, "failed", domain.NewValidationError("ingredients", domain.ErrRecipeNoIngredients))
	})
	app.Get("/struct", func(c *fiber.Ctx) error {
		err := utils.NewValidator().Struct(domain.RegisterRequest{Email: "a@example.com", Username: "bad name!", Password: "x"})
		return HandleError(c, "failed", err)
	})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return HandleError(c, "failed", domain.ErrRecipeNotFound)
	})
	app.Get("/internal", func(c *fiber.Ctx) error {
		return HandleError(c, "failed", errors.New("connection refused"))
	})

	tests := []struct {
		path   string
		status int
		body   string
	}{
		{"/validation", fiber.StatusBadRequest, `{"ingredients":["add ingredients"]}`},
		{"/struct", fiber.StatusBadRequest, `{"username":["enter a valid username: letters, digits and @/./+/-/_ only"]}`},
		{"/missing", fiber.StatusNotFound, `{"detail":"recipe not found"}`},
		{"/internal", fiber.StatusInternalServerError, `{"detail":"A server error occurred."}`},
	}
	for _, tt := range tests {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, tt.path, nil))
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, tt.status, resp.StatusCode, tt.path)
		assert.JSONEq(t, tt.body, string(body), tt.path)
	}
}

func TestPaginatedResponseLinks(t *testing.T) {
	app := fiber.New()
	app.Get("/api/recipes", func(c *fiber.Ctx) error {
		page := domain.PaginationRequest{Page: c.QueryInt("page", 1), Limit: 2}
		return PaginatedResponse(c, []int{1, 2}, 5, page, "ok")
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "http://example.com/api/recipes?page=2&tags=lunch&tags=dinner", nil))
	require.NoError(t, err)

	var body domain.PaginatedResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, int64(5), body.Count)
	require.NotNil(t, body.Next)
	require.NotNil(t, body.Previous)
	assert.Equal(t, "http://example.com/api/recipes?page=3&tags=lunch&tags=dinner", *body.Next)
	assert.Equal(t, "http://example.com/api/recipes?tags=lunch&tags=dinner", *body.Previous)
}
