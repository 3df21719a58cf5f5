package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/platefulapp/plateful/internal/models"
	"gorm.io/gorm"
)

func newRepositoriesForTest(t *testing.T) (*Repositories, *gorm.DB) {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "plateful-repos.db")
	database := openSQLiteForTest(t, databasePath)
	return NewRepositories(database), database
}

func createUserForTest(t *testing.T, repos *Repositories, email string) models.User {
	t.Helper()

	user := models.User{Email: email, PasswordHash: "test-hash"}
	if err := repos.Users.Create(&user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("expected non-zero user id after create")
	}
	return user
}

func TestMealPlanRepositoryCreateActiveSupersedesPreviousPlan(t *testing.T) {
	repos, _ := newRepositoriesForTest(t)
	user := createUserForTest(t, repos, "plans@example.com")

	firstPlan := models.MealPlan{UserID: user.ID, StartDate: mustParsePlanDay("2026-03-02")}
	firstItems := []models.MealPlanItem{
		{WeekNumber: 1, DayOfWeek: 0, MealType: models.MealBreakfast, RecipeName: "Oatmeal"},
		{WeekNumber: 1, DayOfWeek: 0, MealType: models.MealLunch, RecipeName: "Lentil soup"},
	}
	if err := repos.MealPlans.CreateActive(&firstPlan, firstItems); err != nil {
		t.Fatalf("create first plan: %v", err)
	}

	secondPlan := models.MealPlan{UserID: user.ID, StartDate: mustParsePlanDay("2026-03-09")}
	if err := repos.MealPlans.CreateActive(&secondPlan, []models.MealPlanItem{
		{WeekNumber: 1, DayOfWeek: 0, MealType: models.MealDinner, RecipeName: "Baked salmon"},
	}); err != nil {
		t.Fatalf("create second plan: %v", err)
	}

	active, found, err := repos.MealPlans.FindActiveByUser(user.ID)
	if err != nil {
		t.Fatalf("find active plan: %v", err)
	}
	if !found {
		t.Fatal("expected an active plan")
	}
	if active.ID != secondPlan.ID {
		t.Fatalf("expected plan %d to be active, got %d", secondPlan.ID, active.ID)
	}

	superseded, found, err := repos.MealPlans.FindByID(firstPlan.ID)
	if err != nil {
		t.Fatalf("find superseded plan: %v", err)
	}
	if !found {
		t.Fatal("expected the superseded plan to still exist")
	}
	if superseded.IsActive {
		t.Fatal("expected the superseded plan to no longer be active")
	}

	items, err := repos.PlanItems.ListForPlanDay(firstPlan.ID, 1, 0)
	if err != nil {
		t.Fatalf("list first plan items: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected superseded plan to keep its 2 items, got %d", len(items))
	}
}

func TestMealPlanItemRepositoryReplaceKeepsGridPosition(t *testing.T) {
	repos, _ := newRepositoriesForTest(t)
	user := createUserForTest(t, repos, "regenerate@example.com")

	plan := models.MealPlan{UserID: user.ID, StartDate: mustParsePlanDay("2026-03-02")}
	completedAt := time.Date(2026, time.March, 2, 12, 40, 0, 0, time.UTC)
	if err := repos.MealPlans.CreateActive(&plan, []models.MealPlanItem{
		{WeekNumber: 2, DayOfWeek: 4, MealType: models.MealLunch, RecipeName: "Old dish", CompletedAt: &completedAt},
	}); err != nil {
		t.Fatalf("create plan: %v", err)
	}

	items, err := repos.PlanItems.ListForPlanDay(plan.ID, 2, 4)
	if err != nil {
		t.Fatalf("list plan items: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	old := items[0]

	replacement := models.MealPlanItem{RecipeName: "New dish", RecipeNotes: "rotated in"}
	if err := repos.PlanItems.Replace(old, &replacement); err != nil {
		t.Fatalf("replace item: %v", err)
	}

	if _, found, err := repos.PlanItems.FindByID(old.ID); err != nil {
		t.Fatalf("find old item: %v", err)
	} else if found {
		t.Fatal("expected the replaced item to be gone")
	}

	stored, found, err := repos.PlanItems.FindByID(replacement.ID)
	if err != nil {
		t.Fatalf("find replacement item: %v", err)
	}
	if !found {
		t.Fatal("expected the replacement item to exist")
	}
	if stored.PlanID != old.PlanID || stored.WeekNumber != 2 || stored.DayOfWeek != 4 || stored.MealType != models.MealLunch {
		t.Fatalf("expected the replacement to keep the grid position, got %+v", stored)
	}
	if stored.CompletedAt != nil {
		t.Fatal("expected the replacement to start uncompleted")
	}
	if stored.RecipeName != "New dish" {
		t.Fatalf("expected the new recipe name, got %q", stored.RecipeName)
	}
}

func TestMealPlanRepositoryUpdateCustomMealTimesRoundTrips(t *testing.T) {
	repos, _ := newRepositoriesForTest(t)
	user := createUserForTest(t, repos, "overrides@example.com")

	plan := models.MealPlan{UserID: user.ID, StartDate: mustParsePlanDay("2026-03-02")}
	if err := repos.MealPlans.CreateActive(&plan, nil); err != nil {
		t.Fatalf("create plan: %v", err)
	}

	plan.CustomMealTimes = map[string]string{models.MealLunch: "13:00"}
	if err := repos.MealPlans.UpdateCustomMealTimes(&plan); err != nil {
		t.Fatalf("update plan custom times: %v", err)
	}

	stored, found, err := repos.MealPlans.FindByID(plan.ID)
	if err != nil {
		t.Fatalf("reload plan: %v", err)
	}
	if !found {
		t.Fatal("expected the plan to exist")
	}
	if stored.CustomMealTimes[models.MealLunch] != "13:00" {
		t.Fatalf("expected the stored override to survive a reload, got %v", stored.CustomMealTimes)
	}
}

func TestUserRepositoryCustomMealTimesAndEnabledMealsRoundTrip(t *testing.T) {
	repos, _ := newRepositoriesForTest(t)
	user := createUserForTest(t, repos, "settings@example.com")

	user.CustomMealTimes = map[string]string{models.MealBreakfast: "08:00"}
	if err := repos.Users.UpdateCustomMealTimes(&user); err != nil {
		t.Fatalf("update custom meal times: %v", err)
	}

	user.EnabledMeals = []string{models.MealBreakfast, models.MealLunch, models.MealDinner}
	if err := repos.Users.UpdateEnabledMeals(&user); err != nil {
		t.Fatalf("update enabled meals: %v", err)
	}

	stored, err := repos.Users.FindByID(user.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if stored.CustomMealTimes[models.MealBreakfast] != "08:00" {
		t.Fatalf("expected stored custom times to survive a reload, got %v", stored.CustomMealTimes)
	}
	if len(stored.EnabledMeals) != 3 || stored.EnabledMeals[0] != models.MealBreakfast {
		t.Fatalf("expected stored enabled meals to survive a reload, got %v", stored.EnabledMeals)
	}
}

func TestUserRepositoryFindByNormalizedEmail(t *testing.T) {
	repos, _ := newRepositoriesForTest(t)
	created := createUserForTest(t, repos, "  Casing@Example.COM ")

	found, err := repos.Users.FindByNormalizedEmail("casing@example.com")
	if err != nil {
		t.Fatalf("find by normalized email: %v", err)
	}
	if found.ID != created.ID {
		t.Fatalf("expected user %d, got %d", created.ID, found.ID)
	}

	exists, err := repos.Users.ExistsByNormalizedEmail("casing@example.com")
	if err != nil {
		t.Fatalf("exists by normalized email: %v", err)
	}
	if !exists {
		t.Fatal("expected the normalized lookup to match the padded stored email")
	}
}

func mustParsePlanDay(raw string) time.Time {
	parsed, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		panic(err)
	}
	return parsed
}
