package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/VDronovVladislav/foodgram-project-react/domain"
	"github.com/VDronovVladislav/foodgram-project-react/internal/api/presenters"
	"github.com/VDronovVladislav/foodgram-project-react/pkg/ingredient"
	"github.com/VDronovVladislav/foodgram-project-react/pkg/tag"
)

type (
	ReferenceHandler interface {
		GetTags(c *fiber.Ctx) error
		GetTag(c *fiber.Ctx) error
		GetIngredients(c *fiber.Ctx) error
		GetIngredient(c *fiber.Ctx) error
	}

	referenceHandler struct {
		tagService        tag.TagService
		ingredientService ingredient.IngredientService
	}
)

func NewReferenceHandler(tagService tag.TagService, ingredientService ingredient.IngredientService) ReferenceHandler {
	return &referenceHandler{
		tagService:        tagService,
		ingredientService: ingredientService,
	}
}

func (h *referenceHandler) GetTags(c *fiber.Ctx) error {
	res, err := h.tagService.GetTags(c.UserContext())
	if err != nil {
		return presenters.HandleError(c, domain.MessageFailedGetTags, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetTags)
}

func (h *referenceHandler) GetTag(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return presenters.HandleError(c, domain.MessageFailedGetTags, domain.ErrTagNotFound)
	}

	res, err := h.tagService.GetTagByID(c.UserContext(), id)
	if err != nil {
		return presenters.HandleError(c, domain.MessageFailedGetTags, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetTags)
}

func (h *referenceHandler) GetIngredients(c *fiber.Ctx) error {
	res, err := h.ingredientService.GetIngredients(c.UserContext(), c.Query("name"))
	if err != nil {
		return presenters.HandleError(c, domain.MessageFailedGetIngredients, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetIngredients)
}

func (h *referenceHandler) GetIngredient(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return presenters.HandleError(c, domain.MessageFailedGetIngredients, domain.ErrIngredientNotFound)
	}

	res, err := h.ingredientService.GetIngredientByID(c.UserContext(), id)
	if err != nil {
		return presenters.HandleError(c, domain.MessageFailedGetIngredients, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetIngredients)
}
