package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/platefulapp/plateful/internal/models"
	"github.com/platefulapp/plateful/internal/services"
)

type planItemInput struct {
	WeekNumber  int    `json:"week_number"`
	DayOfWeek   int    `json:"day_of_week"`
	MealType    string `json:"meal_type"`
	RecipeName  string `json:"recipe_name"`
	RecipeNotes string `json:"recipe_notes"`
}

type createPlanInput struct {
	StartDate string          `json:"start_date" form:"start_date"`
	UnlocksAt string          `json:"unlocks_at" form:"unlocks_at"`
	Items     []planItemInput `json:"items"`
}

type planItemPayload struct {
	ID          uint       `json:"id"`
	WeekNumber  int        `json:"week_number"`
	DayOfWeek   int        `json:"day_of_week"`
	MealType    string     `json:"meal_type"`
	RecipeName  string     `json:"recipe_name"`
	RecipeNotes string     `json:"recipe_notes,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Skipped     bool       `json:"skipped,omitempty"`
}

// CreatePlan activates a new plan grid generated by an external collaborator
// and supersedes the previous active plan.
func (handler *Handler) CreatePlan(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := createPlanInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	location := services.UserLocation(*user)
	startDate, err := time.ParseInLocation("2006-01-02", input.StartDate, location)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "start_date must be YYYY-MM-DD")
	}

	plan := models.MealPlan{
		UserID:    user.ID,
		StartDate: services.DateAtLocation(startDate, location),
		CreatedAt: time.Now().In(handler.location),
	}
	if input.UnlocksAt != "" {
		unlocksAt, err := time.Parse(time.RFC3339, input.UnlocksAt)
		if err != nil {
			return apiError(c, fiber.StatusBadRequest, "unlocks_at must be RFC3339")
		}
		plan.UnlocksAt = &unlocksAt
	}

	items := make([]models.MealPlanItem, 0, len(input.Items))
	for _, item := range input.Items {
		if item.WeekNumber < 1 || item.DayOfWeek < 0 || item.DayOfWeek > 6 {
			return apiError(c, fiber.StatusBadRequest, "item outside the plan grid")
		}
		items = append(items, models.MealPlanItem{
			WeekNumber:  item.WeekNumber,
			DayOfWeek:   item.DayOfWeek,
			MealType:    item.MealType,
			RecipeName:  item.RecipeName,
			RecipeNotes: item.RecipeNotes,
		})
	}

	handler.ensureDependencies()
	if err := handler.planService.CreatePlan(&plan, items); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create plan")
	}

	return c.Status(fiber.StatusCreated).JSON(planPayload(plan))
}

func (handler *Handler) GetCurrentPlan(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	handler.ensureDependencies()
	plan, found, err := handler.planService.ActivePlan(user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load plan")
	}
	if !found {
		return apiError(c, fiber.StatusNotFound, "no active meal plan")
	}

	return c.JSON(planPayload(plan))
}

func (handler *Handler) GetTodayItems(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	handler.ensureDependencies()
	plan, found, err := handler.planService.ActivePlan(user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load plan")
	}
	if !found {
		return apiError(c, fiber.StatusNotFound, "no active meal plan")
	}

	location := services.UserLocation(*user)
	now := handler.clock.Now().In(location)
	items, weekNumber, dayOfWeek, err := handler.planService.ItemsForToday(plan, now, location)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load plan items")
	}

	payloads := make([]planItemPayload, 0, len(items))
	for _, item := range items {
		payloads = append(payloads, itemPayload(item))
	}

	return c.JSON(fiber.Map{
		"week_number": weekNumber,
		"day_of_week": dayOfWeek,
		"items":       payloads,
	})
}

// GetNextMeal picks today's next actionable meal. The state field keeps
// "plan exists but locked / not started / finished" distinguishable from
// the 404 a plan-less user receives.
func (handler *Handler) GetNextMeal(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	handler.ensureDependencies()
	plan, found, err := handler.planService.ActivePlan(user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load plan")
	}
	if !found {
		return apiError(c, fiber.StatusNotFound, "no active meal plan")
	}

	canonicalOrder, err := handler.scheduleService.CanonicalOrderForUser()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to resolve meal order")
	}

	location := services.UserLocation(*user)
	now := handler.clock.Now().In(location)
	item, state, err := handler.planService.NextMeal(plan, canonicalOrder, now, location)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to select next meal")
	}

	response := fiber.Map{"state": string(state)}
	if item != nil {
		response["item"] = itemPayload(*item)
	}
	return c.JSON(response)
}

func planPayload(plan models.MealPlan) fiber.Map {
	payload := fiber.Map{
		"id":         plan.ID,
		"start_date": plan.StartDate.Format("2006-01-02"),
		"is_active":  plan.IsActive,
	}
	if plan.UnlocksAt != nil {
		payload["unlocks_at"] = plan.UnlocksAt.Format(time.RFC3339)
	}
	if len(plan.CustomMealTimes) > 0 {
		payload["custom_meal_times"] = plan.CustomMealTimes
	}
	return payload
}

func itemPayload(item models.MealPlanItem) planItemPayload {
	return planItemPayload{
		ID:          item.ID,
		WeekNumber:  item.WeekNumber,
		DayOfWeek:   item.DayOfWeek,
		MealType:    item.MealType,
		RecipeName:  item.RecipeName,
		RecipeNotes: item.RecipeNotes,
		CompletedAt: item.CompletedAt,
		Skipped:     item.Skipped,
	}
}
