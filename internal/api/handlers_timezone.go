package api

import "github.com/gofiber/fiber/v2"

type timezoneInput struct {
	Timezone    string `json:"timezone" form:"timezone"`
	CountryCode string `json:"country_code" form:"country_code"`
}

// SyncTimezone reconciles the zone detected by the client with storage.
// The persisted value only changes when the detection disagrees with it,
// and a change is reported back so the client can surface a travel notice.
func (handler *Handler) SyncTimezone(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := timezoneInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	handler.ensureDependencies()
	resolution, err := handler.scheduleService.SyncTimezone(user, input.Timezone, input.CountryCode)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to update timezone")
	}

	return c.JSON(fiber.Map{
		"timezone": resolution.Effective,
		"changed":  resolution.Changed,
		"notify":   resolution.ShouldNotify,
	})
}
