package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/favicon.ico", sendNoContent)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Post("/logout", handler.AuthRequired, handler.Logout)

	session := api.Group("/session", handler.AuthRequired)
	session.Post("/timezone", handler.SyncTimezone)

	schedule := api.Group("/schedule", handler.AuthRequired)
	schedule.Get("", handler.GetSchedule)
	schedule.Get("/status", handler.GetScheduleStatus)
	schedule.Put("/meal-times", handler.UpdateMealTimes)
	schedule.Post("/meals/:mealType/toggle", handler.ToggleMeal)

	plans := api.Group("/plans", handler.AuthRequired)
	plans.Post("", handler.CreatePlan)
	plans.Get("/current", handler.GetCurrentPlan)
	plans.Get("/current/today", handler.GetTodayItems)
	plans.Get("/current/next-meal", handler.GetNextMeal)
	plans.Post("/items/:id/complete", handler.CompleteItem)
	plans.Post("/items/:id/skip", handler.SkipItem)
	plans.Post("/items/:id/regenerate", handler.RegenerateItem)
}
