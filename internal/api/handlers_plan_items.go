package api

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/platefulapp/plateful/internal/services"
)

type regenerateItemInput struct {
	RecipeName  string `json:"recipe_name" form:"recipe_name"`
	RecipeNotes string `json:"recipe_notes" form:"recipe_notes"`
}

func (handler *Handler) CompleteItem(c *fiber.Ctx) error {
	return handler.stampItem(c, false)
}

// SkipItem marks the meal as handled without pretending it was eaten;
// the selector treats skipped items the same as completed ones.
func (handler *Handler) SkipItem(c *fiber.Ctx) error {
	return handler.stampItem(c, true)
}

func (handler *Handler) stampItem(c *fiber.Ctx, skipped bool) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	itemID, err := parseItemID(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid item id")
	}

	handler.ensureDependencies()
	now := handler.clock.Now().In(services.UserLocation(*user))
	item, err := handler.planService.CompleteItem(user.ID, itemID, now, skipped)
	if err != nil {
		return planItemError(c, err)
	}

	return c.JSON(itemPayload(item))
}

// RegenerateItem swaps the whole item for a fresh recipe, clearing any
// completion stamp.
func (handler *Handler) RegenerateItem(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	itemID, err := parseItemID(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid item id")
	}

	input := regenerateItemInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	handler.ensureDependencies()
	item, err := handler.planService.RegenerateItem(user.ID, itemID, input.RecipeName, input.RecipeNotes)
	if err != nil {
		return planItemError(c, err)
	}

	return c.JSON(itemPayload(item))
}

func parseItemID(c *fiber.Ctx) (uint, error) {
	parsed, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(parsed), nil
}

func planItemError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrPlanItemNotFound):
		return apiError(c, fiber.StatusNotFound, "meal plan item not found")
	case errors.Is(err, services.ErrPlanItemNotOwned):
		return apiError(c, fiber.StatusForbidden, "meal plan item not accessible")
	default:
		return apiError(c, fiber.StatusInternalServerError, "failed to update meal plan item")
	}
}
