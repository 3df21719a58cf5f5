package api

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

func setupPlanUser(t *testing.T, app *fiber.App, handler *Handler, email string) string {
	t.Helper()

	authCookie := registerAndExtractAuthCookie(t, app, email, "Sup3rSecret")

	response := performJSON(t, app, http.MethodPost, "/api/session/timezone", authCookie, map[string]string{
		"timezone": "UTC",
	})
	expectStatus(t, response, http.StatusOK)
	response.Body.Close()

	handler.clock = &fixedClock{now: time.Date(2026, time.March, 4, 12, 0, 0, 0, time.UTC)}
	return authCookie
}

func createPlanForToday(t *testing.T, app *fiber.App, authCookie string) {
	t.Helper()

	response := performJSON(t, app, http.MethodPost, "/api/plans", authCookie, map[string]any{
		"start_date": "2026-03-02",
		"items": []map[string]any{
			{"week_number": 1, "day_of_week": 2, "meal_type": "breakfast", "recipe_name": "Oatmeal"},
			{"week_number": 1, "day_of_week": 2, "meal_type": "lunch", "recipe_name": "Lentil soup"},
			{"week_number": 1, "day_of_week": 2, "meal_type": "dinner", "recipe_name": "Baked salmon"},
			{"week_number": 1, "day_of_week": 3, "meal_type": "breakfast", "recipe_name": "Pancakes"},
		},
	})
	expectStatus(t, response, http.StatusCreated)
	response.Body.Close()
}

func todayItemIDByMealType(t *testing.T, app *fiber.App, authCookie string, mealType string) uint {
	t.Helper()

	response := performJSON(t, app, http.MethodGet, "/api/plans/current/today", authCookie, nil)
	expectStatus(t, response, http.StatusOK)
	body := decodeJSONMap(t, response)

	items, ok := body["items"].([]any)
	if !ok {
		t.Fatalf("expected an items array, got %T", body["items"])
	}
	for _, rawItem := range items {
		item, ok := rawItem.(map[string]any)
		if !ok {
			continue
		}
		if item["meal_type"] == mealType {
			id, ok := item["id"].(float64)
			if !ok {
				t.Fatalf("expected a numeric item id, got %v", item["id"])
			}
			return uint(id)
		}
	}

	t.Fatalf("meal %s is missing from today's items", mealType)
	return 0
}

func nextMealResponse(t *testing.T, app *fiber.App, authCookie string) map[string]any {
	t.Helper()

	response := performJSON(t, app, http.MethodGet, "/api/plans/current/next-meal", authCookie, nil)
	expectStatus(t, response, http.StatusOK)
	return decodeJSONMap(t, response)
}

func TestNextMealRequiresActivePlan(t *testing.T) {
	app, handler, _ := newTestApp(t)
	authCookie := setupPlanUser(t, app, handler, "planless@example.com")

	response := performJSON(t, app, http.MethodGet, "/api/plans/current/next-meal", authCookie, nil)
	expectStatus(t, response, http.StatusNotFound)
	response.Body.Close()
}

func TestTodayItemsFollowThePlanGrid(t *testing.T) {
	app, handler, _ := newTestApp(t)
	authCookie := setupPlanUser(t, app, handler, "grid@example.com")
	createPlanForToday(t, app, authCookie)

	response := performJSON(t, app, http.MethodGet, "/api/plans/current/today", authCookie, nil)
	expectStatus(t, response, http.StatusOK)
	body := decodeJSONMap(t, response)

	if body["week_number"] != float64(1) || body["day_of_week"] != float64(2) {
		t.Fatalf("expected day 2 of week 1, got week=%v day=%v", body["week_number"], body["day_of_week"])
	}
	items, ok := body["items"].([]any)
	if !ok || len(items) != 3 {
		t.Fatalf("expected 3 items for today, got %v", body["items"])
	}
}

func TestNextMealWalksCanonicalOrderThroughCompletion(t *testing.T) {
	app, handler, _ := newTestApp(t)
	authCookie := setupPlanUser(t, app, handler, "walker@example.com")
	createPlanForToday(t, app, authCookie)

	body := nextMealResponse(t, app, authCookie)
	if body["state"] != "ready" {
		t.Fatalf("expected state ready, got %v", body["state"])
	}
	item, ok := body["item"].(map[string]any)
	if !ok || item["meal_type"] != "breakfast" {
		t.Fatalf("expected breakfast to come first, got %v", body["item"])
	}

	breakfastID := todayItemIDByMealType(t, app, authCookie, "breakfast")
	response := performJSON(t, app, http.MethodPost, fmt.Sprintf("/api/plans/items/%d/complete", breakfastID), authCookie, nil)
	expectStatus(t, response, http.StatusOK)
	completed := decodeJSONMap(t, response)
	if completed["completed_at"] == nil {
		t.Fatal("expected the completed item to carry a timestamp")
	}

	body = nextMealResponse(t, app, authCookie)
	item, ok = body["item"].(map[string]any)
	if !ok || item["meal_type"] != "lunch" {
		t.Fatalf("expected lunch after breakfast, got %v", body["item"])
	}

	lunchID := todayItemIDByMealType(t, app, authCookie, "lunch")
	response = performJSON(t, app, http.MethodPost, fmt.Sprintf("/api/plans/items/%d/skip", lunchID), authCookie, nil)
	expectStatus(t, response, http.StatusOK)
	skipped := decodeJSONMap(t, response)
	if skipped["skipped"] != true {
		t.Fatal("expected the skipped item to be flagged")
	}

	body = nextMealResponse(t, app, authCookie)
	item, ok = body["item"].(map[string]any)
	if !ok || item["meal_type"] != "dinner" {
		t.Fatalf("expected dinner after the skipped lunch, got %v", body["item"])
	}

	dinnerID := todayItemIDByMealType(t, app, authCookie, "dinner")
	response = performJSON(t, app, http.MethodPost, fmt.Sprintf("/api/plans/items/%d/complete", dinnerID), authCookie, nil)
	expectStatus(t, response, http.StatusOK)
	response.Body.Close()

	body = nextMealResponse(t, app, authCookie)
	if body["state"] != "all_done" {
		t.Fatalf("expected all_done once every meal is handled, got %v", body["state"])
	}
	if _, hasItem := body["item"]; hasItem {
		t.Fatal("expected no item once the day is finished")
	}
}

func TestCompleteItemIsIdempotent(t *testing.T) {
	app, handler, _ := newTestApp(t)
	authCookie := setupPlanUser(t, app, handler, "idempotent@example.com")
	createPlanForToday(t, app, authCookie)

	breakfastID := todayItemIDByMealType(t, app, authCookie, "breakfast")

	response := performJSON(t, app, http.MethodPost, fmt.Sprintf("/api/plans/items/%d/complete", breakfastID), authCookie, nil)
	expectStatus(t, response, http.StatusOK)
	first := decodeJSONMap(t, response)

	response = performJSON(t, app, http.MethodPost, fmt.Sprintf("/api/plans/items/%d/skip", breakfastID), authCookie, nil)
	expectStatus(t, response, http.StatusOK)
	second := decodeJSONMap(t, response)

	if second["skipped"] == true {
		t.Fatal("expected the original completion to absorb the later skip")
	}
	if first["completed_at"] != second["completed_at"] {
		t.Fatalf("expected the completion stamp to survive, got %v then %v", first["completed_at"], second["completed_at"])
	}
}

func TestRegenerateItemClearsCompletion(t *testing.T) {
	app, handler, _ := newTestApp(t)
	authCookie := setupPlanUser(t, app, handler, "regen@example.com")
	createPlanForToday(t, app, authCookie)

	dinnerID := todayItemIDByMealType(t, app, authCookie, "dinner")
	response := performJSON(t, app, http.MethodPost, fmt.Sprintf("/api/plans/items/%d/complete", dinnerID), authCookie, nil)
	expectStatus(t, response, http.StatusOK)
	response.Body.Close()

	response = performJSON(t, app, http.MethodPost, fmt.Sprintf("/api/plans/items/%d/regenerate", dinnerID), authCookie, map[string]string{
		"recipe_name": "Grilled shrimp",
	})
	expectStatus(t, response, http.StatusOK)
	regenerated := decodeJSONMap(t, response)

	if regenerated["recipe_name"] != "Grilled shrimp" {
		t.Fatalf("expected the fresh recipe, got %v", regenerated["recipe_name"])
	}
	if regenerated["completed_at"] != nil {
		t.Fatal("expected regeneration to clear the completion stamp")
	}
	if regenerated["meal_type"] != "dinner" {
		t.Fatalf("expected the grid slot to survive regeneration, got %v", regenerated["meal_type"])
	}
}

func TestPlanItemsAreOwnerOnly(t *testing.T) {
	app, handler, _ := newTestApp(t)
	ownerCookie := setupPlanUser(t, app, handler, "owner@example.com")
	createPlanForToday(t, app, ownerCookie)
	breakfastID := todayItemIDByMealType(t, app, ownerCookie, "breakfast")

	intruderCookie := registerAndExtractAuthCookie(t, app, "intruder@example.com", "Sup3rSecret")
	response := performJSON(t, app, http.MethodPost, fmt.Sprintf("/api/plans/items/%d/complete", breakfastID), intruderCookie, nil)
	expectStatus(t, response, http.StatusForbidden)
	response.Body.Close()
}

func TestNextMealReportsLockedAndNotStartedPlans(t *testing.T) {
	app, handler, _ := newTestApp(t)
	authCookie := setupPlanUser(t, app, handler, "future@example.com")

	response := performJSON(t, app, http.MethodPost, "/api/plans", authCookie, map[string]any{
		"start_date": "2026-03-02",
		"unlocks_at": "2026-03-05T00:00:00Z",
		"items": []map[string]any{
			{"week_number": 1, "day_of_week": 2, "meal_type": "lunch", "recipe_name": "Lentil soup"},
		},
	})
	expectStatus(t, response, http.StatusCreated)
	response.Body.Close()

	body := nextMealResponse(t, app, authCookie)
	if body["state"] != "plan_locked" {
		t.Fatalf("expected plan_locked before the unlock instant, got %v", body["state"])
	}

	response = performJSON(t, app, http.MethodPost, "/api/plans", authCookie, map[string]any{
		"start_date": "2026-03-10",
		"items": []map[string]any{
			{"week_number": 1, "day_of_week": 0, "meal_type": "breakfast", "recipe_name": "Oatmeal"},
		},
	})
	expectStatus(t, response, http.StatusCreated)
	response.Body.Close()

	body = nextMealResponse(t, app, authCookie)
	if body["state"] != "plan_not_started" {
		t.Fatalf("expected plan_not_started before the start date, got %v", body["state"])
	}
}

func TestCreatePlanRejectsItemsOutsideTheGrid(t *testing.T) {
	app, handler, _ := newTestApp(t)
	authCookie := setupPlanUser(t, app, handler, "bounds@example.com")

	response := performJSON(t, app, http.MethodPost, "/api/plans", authCookie, map[string]any{
		"start_date": "2026-03-02",
		"items": []map[string]any{
			{"week_number": 1, "day_of_week": 7, "meal_type": "lunch", "recipe_name": "Lentil soup"},
		},
	})
	expectStatus(t, response, http.StatusBadRequest)
	response.Body.Close()
}

func TestPlanScopedMealTimesOverrideProfile(t *testing.T) {
	app, handler, _ := newTestApp(t)
	authCookie := setupPlanUser(t, app, handler, "scoped@example.com")
	createPlanForToday(t, app, authCookie)

	response := performJSON(t, app, http.MethodPut, "/api/schedule/meal-times", authCookie, map[string]any{
		"scope": "profile",
		"times": map[string]string{"lunch": "12:30"},
	})
	expectStatus(t, response, http.StatusOK)
	response.Body.Close()

	response = performJSON(t, app, http.MethodPut, "/api/schedule/meal-times", authCookie, map[string]any{
		"scope": "plan",
		"times": map[string]string{"lunch": "13:00"},
	})
	expectStatus(t, response, http.StatusOK)
	response.Body.Close()

	response = performJSON(t, app, http.MethodGet, "/api/schedule", authCookie, nil)
	expectStatus(t, response, http.StatusOK)
	lunch := scheduleEntryByMealType(t, decodeJSONMap(t, response), "lunch")
	if lunch["start"] != "13:00" {
		t.Fatalf("expected the plan override to win over the profile, got %v", lunch["start"])
	}
}
