package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/VDronovVladislav/foodgram-project-react/domain"
	"github.com/VDronovVladislav/foodgram-project-react/internal/api/presenters"
	"github.com/VDronovVladislav/foodgram-project-react/internal/middleware"
	"github.com/VDronovVladislav/foodgram-project-react/pkg/subscription"
)

type (
	SubscriptionHandler interface {
		GetSubscriptions(c *fiber.Ctx) error
		Subscribe(c *fiber.Ctx) error
		Unsubscribe(c *fiber.Ctx) error
	}

	subscriptionHandler struct {
		subscriptionService subscription.SubscriptionService
	}
)

func NewSubscriptionHandler(subscriptionService subscription.SubscriptionService) SubscriptionHandler {
	return &subscriptionHandler{subscriptionService: subscriptionService}
}

func (h *subscriptionHandler) GetSubscriptions(c *fiber.Ctx) error {
	page := paginationFromQuery(c)

	res, count, err := h.subscriptionService.GetSubscriptions(c.UserContext(), middleware.UserID(c), page, recipesLimit(c))
	if err != nil {
		return presenters.HandleError(c, domain.MessageFailedGetSubscriptions, err)
	}
	return presenters.PaginatedResponse(c, res, count, page, domain.MessageSuccessGetSubscriptions)
}

func (h *subscriptionHandler) Subscribe(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return presenters.HandleError(c, domain.MessageFailedSubscribe, domain.ErrUserNotFound)
	}

	res, err := h.subscriptionService.Subscribe(c.UserContext(), middleware.UserID(c), id, recipesLimit(c))
	if err != nil {
		return presenters.HandleError(c, domain.MessageFailedSubscribe, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessSubscribe)
}

func (h *subscriptionHandler) Unsubscribe(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return presenters.HandleError(c, domain.MessageFailedUnsubscribe, domain.ErrUserNotFound)
	}

	if err := h.subscriptionService.Unsubscribe(c.UserContext(), middleware.UserID(c), id); err != nil {
		return presenters.HandleError(c, domain.MessageFailedUnsubscribe, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusNoContent, domain.MessageSuccessUnsubscribe)
}
