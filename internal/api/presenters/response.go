package presenters

import (
	"errors"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/VDronovVladislav/foodgram-project-react/domain"
)

const messageServerError = "A server error occurred."

// SuccessResponse writes data as the JSON body. A nil data with 204 writes
// no body at all.
func SuccessResponse(c *fiber.Ctx, data any, statusCode int, message string) error {
	log.Debugf("%s %s: %s", c.Method(), c.Path(), message)
	if statusCode == fiber.StatusNoContent {
		return c.SendStatus(statusCode)
	}
	return c.Status(statusCode).JSON(data)
}

// PaginatedResponse wraps results in {count, next, previous, results}. The
// next and previous links keep every query parameter of the request.
func PaginatedResponse(c *fiber.Ctx, results any, count int64, page domain.PaginationRequest, message string) error {
	res := domain.PaginatedResponse{
		Count:   count,
		Results: results,
	}
	if int64(page.Page*page.Limit) < count {
		res.Next = pageLink(c, page.Page+1)
	}
	if page.Page > 1 {
		res.Previous = pageLink(c, page.Page-1)
	}
	return SuccessResponse(c, res, fiber.StatusOK, message)
}

func pageLink(c *fiber.Ctx, page int) *string {
	query, err := url.ParseQuery(string(c.Request().URI().QueryString()))
	if err != nil {
		query = url.Values{}
	}
	if page == 1 {
		query.Del("page")
	} else {
		query.Set("page", strconv.Itoa(page))
	}

	link := c.BaseURL() + c.Path()
	if encoded := query.Encode(); encoded != "" {
		link += "?" + encoded
	}
	return &link
}

// ErrorResponse writes err with an explicit status code.
func ErrorResponse(c *fiber.Ctx, statusCode int, message string, err error) error {
	if statusCode >= fiber.StatusInternalServerError {
		log.Errorf("%s %s: %s: %v", c.Method(), c.Path(), message, err)
		return c.Status(statusCode).JSON(fiber.Map{"detail": messageServerError})
	}
	return c.Status(statusCode).JSON(errorBody(err))
}

// HandleError writes err with the status code its kind maps to.
func HandleError(c *fiber.Ctx, message string, err error) error {
	return ErrorResponse(c, StatusCode(err), message, err)
}

func StatusCode(err error) int {
	var vErr *domain.ValidationError
	var fieldErrs validator.ValidationErrors
	var fiberErr *fiber.Error

	switch {
	case errors.As(err, &vErr), errors.As(err, &fieldErrs):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrRecipeNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrTagNotFound),
		errors.Is(err, domain.ErrIngredientNotFound),
		errors.Is(err, domain.ErrParseID):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrTokenRevoked):
		return fiber.StatusUnauthorized
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	default:
		return fiber.StatusInternalServerError
	}
}

func errorBody(err error) any {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Fields
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		fields := make(map[string][]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields[fe.Field()] = append(fields[fe.Field()], fieldMessage(fe))
		}
		return fields
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiber.Map{"detail": fiberErr.Message}
	}
	return fiber.Map{"detail": err.Error()}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "max":
		return "ensure this field has no more than " + fe.Param() + " characters"
	case "email":
		return "enter a valid email address"
	case "username":
		return "enter a valid username: letters, digits and @/./+/-/_ only"
	case "datauri":
		return domain.ErrInvalidImage.Error()
	default:
		return "invalid value"
	}
}
