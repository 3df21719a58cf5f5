package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/platefulapp/plateful/internal/models"
	"gorm.io/gorm"
)

// ReminderService re-evaluates every user's schedule on a timer and nudges
// them over Telegram when a meal slips into delayed or critical. Delivery
// failures are logged and retried on the next tick; nothing here is fatal.
type ReminderService struct {
	db       *gorm.DB
	settings *MealSettingsCache
	botToken string
	chatID   string
	enabled  bool
	interval time.Duration
	clock    Clock
	client   *http.Client

	mu            sync.Mutex
	sentReminders map[string]time.Time
}

func NewReminderService(db *gorm.DB, settings *MealSettingsCache, clock Clock) *ReminderService {
	botToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	chatID := os.Getenv("TELEGRAM_CHAT_ID")
	enabled := botToken != "" && chatID != ""

	interval := time.Minute
	if raw := os.Getenv("REMINDER_INTERVAL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			interval = parsed
		}
	}

	if clock == nil {
		clock = SystemClock()
	}

	return &ReminderService{
		db:       db,
		settings: settings,
		botToken: botToken,
		chatID:   chatID,
		enabled:  enabled,
		interval: interval,
		clock:    clock,
		client: &http.Client{
			Timeout: 8 * time.Second,
		},
		sentReminders: make(map[string]time.Time),
	}
}

func (service *ReminderService) Start(ctx context.Context) {
	if !service.enabled {
		return
	}

	ticker := time.NewTicker(service.interval)
	go func() {
		defer ticker.Stop()

		service.run(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				service.run(ctx)
			}
		}
	}()
}

func (service *ReminderService) run(ctx context.Context) {
	users := make([]models.User, 0)
	if err := service.db.WithContext(ctx).Find(&users).Error; err != nil {
		log.Printf("reminders: fetch users failed: %v", err)
		return
	}

	global, err := service.settings.Get()
	if err != nil {
		log.Printf("reminders: fetch meal settings failed: %v", err)
		return
	}

	for _, user := range users {
		if err := service.remindUser(ctx, user, global); err != nil {
			log.Printf("reminders: user %d: %v", user.ID, err)
		}
	}
}

func (service *ReminderService) remindUser(ctx context.Context, user models.User, global []models.MealSetting) error {
	plan := models.MealPlan{}
	result := service.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", user.ID, true).
		Order("id DESC").
		Limit(1).
		Find(&plan)
	if result.Error != nil {
		return fmt.Errorf("fetch active plan: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil
	}

	location := UserLocation(user)
	now := service.clock.Now().In(location)

	if plan.UnlocksAt != nil && plan.UnlocksAt.After(now) {
		return nil
	}
	daysSinceStart := DaysSinceStart(plan.StartDate, now, location)
	if daysSinceStart < 0 {
		return nil
	}
	weekNumber, dayOfWeek := PlanDayPosition(daysSinceStart)

	items := make([]models.MealPlanItem, 0)
	if err := service.db.WithContext(ctx).
		Where("plan_id = ? AND week_number = ? AND day_of_week = ?", plan.ID, weekNumber, dayOfWeek).
		Find(&items).Error; err != nil {
		return fmt.Errorf("fetch plan items: %w", err)
	}

	resolved := ResolveSchedule(global, user.CustomMealTimes, plan.CustomMealTimes)
	ranges := BuildMealRanges(resolved, user.EnabledMealSet(mealTypesOf(global)))
	labels := make(map[string]string, len(resolved))
	for _, entry := range resolved {
		labels[entry.MealType] = entry.Label
	}

	today := DateAtLocation(now, location)
	for _, item := range items {
		status := ClassifyMealStatus(item.MealType, item.CompletedAt, now, ranges)
		if status != StatusDelayed && status != StatusCritical {
			continue
		}

		key := fmt.Sprintf("meal:%d:%s:%s:%s", user.ID, today.Format("2006-01-02"), item.MealType, status)
		if service.alreadySent(key, today) {
			continue
		}

		label := labels[item.MealType]
		if label == "" {
			label = item.MealType
		}
		message := fmt.Sprintf("Plateful: %s is running %d minute(s) late.",
			label, MinutesOverdue(item.MealType, now, ranges))
		if status == StatusCritical {
			message = fmt.Sprintf("Plateful: %s is %d minute(s) overdue. Time to eat!",
				label, MinutesOverdue(item.MealType, now, ranges))
		}
		if err := service.sendTelegram(ctx, message); err != nil {
			log.Printf("reminders: send meal reminder failed: %v", err)
			continue
		}
		service.markSent(key, today)
	}

	return nil
}

// alreadySent reports whether a reminder for this key went out today.
// The key is recorded in markSent only after a successful delivery, so a
// failed send stays eligible for the next tick.
func (service *ReminderService) alreadySent(key string, today time.Time) bool {
	service.mu.Lock()
	defer service.mu.Unlock()

	sentOn, ok := service.sentReminders[key]
	return ok && sentOn.Equal(today)
}

func (service *ReminderService) markSent(key string, today time.Time) {
	service.mu.Lock()
	defer service.mu.Unlock()

	service.sentReminders[key] = today
	if len(service.sentReminders) > 500 {
		service.sentReminders = make(map[string]time.Time)
	}
}

func (service *ReminderService) sendTelegram(ctx context.Context, message string) error {
	values := url.Values{}
	values.Set("chat_id", service.chatID)
	values.Set("text", message)

	endpoint := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", service.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := service.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("telegram status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
