package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/VDronovVladislav/foodgram-project-react/domain"
)

// paginationFromQuery reads page and limit, clamping limit to
// [1, domain.MaxPageLimit].
func paginationFromQuery(c *fiber.Ctx) domain.PaginationRequest {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	limit := c.QueryInt("limit", domain.DefaultPageLimit)
	if limit < 1 {
		limit = domain.DefaultPageLimit
	}
	if limit > domain.MaxPageLimit {
		limit = domain.MaxPageLimit
	}
	return domain.PaginationRequest{Page: page, Limit: limit}
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, domain.ErrParseID
	}
	return uint(id), nil
}

func queryFlag(c *fiber.Ctx, name string) bool {
	switch strings.ToLower(c.Query(name)) {
	case "1", "true":
		return true
	default:
		return false
	}
}

// recipesLimit reads recipes_limit; a missing or non-positive value means
// no limit.
func recipesLimit(c *fiber.Ctx) int {
	n := c.QueryInt("recipes_limit", 0)
	if n < 0 {
		return 0
	}
	return n
}
