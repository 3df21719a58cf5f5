package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/platefulapp/plateful/internal/services"
)

type mealTimesInput struct {
	// Scope selects the precedence level being replaced: "profile" writes
	// the user's settings, "plan" writes the active plan's overrides.
	Scope string            `json:"scope" form:"scope"`
	Times map[string]string `json:"times" form:"times"`
}

type mealToggleInput struct {
	Enabled bool `json:"enabled" form:"enabled"`
}

// UpdateMealTimes replaces a whole custom-times map after validating every
// entry; a single invalid time rejects the entire update.
func (handler *Handler) UpdateMealTimes(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := mealTimesInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if input.Times == nil {
		return apiError(c, fiber.StatusBadRequest, "times map is required")
	}

	handler.ensureDependencies()

	var err error
	switch input.Scope {
	case "", "profile":
		err = handler.scheduleService.UpdateProfileMealTimes(user, input.Times)
	case "plan":
		plan, found, findErr := handler.planService.ActivePlan(user.ID)
		if findErr != nil {
			return apiError(c, fiber.StatusInternalServerError, "failed to load plan")
		}
		if !found {
			return apiError(c, fiber.StatusNotFound, "no active meal plan")
		}
		err = handler.scheduleService.UpdatePlanMealTimes(*user, &plan, input.Times)
	default:
		return apiError(c, fiber.StatusBadRequest, "scope must be profile or plan")
	}

	if err != nil {
		if isScheduleValidationError(err) {
			return apiError(c, fiber.StatusUnprocessableEntity, err.Error())
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to update meal times")
	}

	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) ToggleMeal(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := mealToggleInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	handler.ensureDependencies()
	if err := handler.scheduleService.ToggleMeal(user, c.Params("mealType"), input.Enabled); err != nil {
		if isScheduleValidationError(err) {
			return apiError(c, fiber.StatusUnprocessableEntity, err.Error())
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to toggle meal")
	}

	return c.JSON(fiber.Map{"ok": true})
}

func isScheduleValidationError(err error) bool {
	return errors.Is(err, services.ErrMealTimeInvalid) ||
		errors.Is(err, services.ErrMealUnknown) ||
		errors.Is(err, services.ErrMealTimeBeforePrevious) ||
		errors.Is(err, services.ErrMealTimeAfterNext) ||
		errors.Is(err, services.ErrLastEnabledMeal)
}
