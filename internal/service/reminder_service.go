package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/utkarshdhiman48/remindit48-bot/internal/domain"
	"github.com/utkarshdhiman48/remindit48-bot/internal/model"
	"github.com/utkarshdhiman48/remindit48-bot/internal/repository"
)

// Notifier delivers a rendered reminder to a user. The Telegram bot
// implements it.
type Notifier interface {
	Notify(telegramID int64, text string) error
}

// ReminderService runs the once-a-day sweep that matches every user's
// stored reminders against the current date.
type ReminderService struct {
	userRepo *repository.UserRepository
	taskRepo *repository.TaskRepository
	notifier Notifier
	loc      *time.Location
	log      *zap.Logger
}

func NewReminderService(userRepo *repository.UserRepository, taskRepo *repository.TaskRepository, notifier Notifier, loc *time.Location, log *zap.Logger) *ReminderService {
	return &ReminderService{
		userRepo: userRepo,
		taskRepo: taskRepo,
		notifier: notifier,
		loc:      loc,
		log:      log,
	}
}

// RunDailyMatch notifies every user whose reminders fall due today in
// the configured timezone. The sweep is stateless: invoking it twice on
// the same day re-notifies (at-least-once delivery).
func (s *ReminderService) RunDailyMatch(ctx context.Context) error {
	return s.sweep(ctx, domain.DateOf(time.Now().In(s.loc)))
}

// sweep processes all users concurrently; a failure for one user is
// logged and does not stop the others.
func (s *ReminderService) sweep(ctx context.Context, today domain.Date) error {
	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	var wg sync.WaitGroup
	for _, user := range users {
		wg.Add(1)
		go func(user model.User) {
			defer wg.Done()
			s.sweepUser(ctx, user, today)
		}(user)
	}
	wg.Wait()
	return nil
}

func (s *ReminderService) sweepUser(ctx context.Context, user model.User, today domain.Date) {
	tasks, err := s.taskRepo.ListByDateKey(ctx, user.ID, today.Key())
	if err != nil {
		s.log.Error("daily sweep: fetch tasks failed",
			zap.Int64("telegram_id", user.TelegramID),
			zap.Error(err),
		)
		return
	}

	for _, task := range tasks {
		if !domain.IsDue(task.Date(), today) {
			continue
		}
		if err := s.notifier.Notify(user.TelegramID, renderReminder(task)); err != nil {
			s.log.Error("daily sweep: notify failed",
				zap.Int64("telegram_id", user.TelegramID),
				zap.Uint("task_id", task.ID),
				zap.Error(err),
			)
		}
	}
}

func renderReminder(task model.Task) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("🔔 <b>%s</b>", html.EscapeString(strings.TrimSpace(task.Subject))))
	if task.Description != "" {
		builder.WriteString(fmt.Sprintf("\n%s", html.EscapeString(strings.TrimSpace(task.Description))))
	}
	return builder.String()
}
