package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/utkarshdhiman48/remindit48-bot/internal/domain"
	"github.com/utkarshdhiman48/remindit48-bot/internal/model"
	"github.com/utkarshdhiman48/remindit48-bot/internal/repository"
)

// TaskService wraps reminder CRUD behind the raw text formats the bot
// accepts. Every method is a single read-modify-write round trip: any
// failure aborts the whole operation, never a partial mutation.
type TaskService struct {
	taskRepo *repository.TaskRepository
}

func NewTaskService(taskRepo *repository.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

// Add parses a three-line payload (date, subject, description) and
// appends the task. Nothing is stored when parsing fails.
func (s *TaskService) Add(ctx context.Context, user *model.User, raw string) error {
	draft, err := domain.ParseTask(raw, false)
	if err != nil {
		return err
	}

	var task model.Task
	task.SetDate(*draft.Date)
	task.Subject = *draft.Subject
	task.Description = *draft.Description
	return s.taskRepo.Append(ctx, user.ID, &task)
}

// Delete removes the task addressed by a D-M[-Y]:N selector. The
// sequence is not renumbered; later tasks simply shift down on the
// next read.
func (s *TaskService) Delete(ctx context.Context, user *model.User, raw string) error {
	sel, err := domain.ParseSelector(raw)
	if err != nil {
		return err
	}

	ok, err := s.taskRepo.DeleteAt(ctx, user.ID, sel.Date.Key(), sel.Index-1)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: task not found", domain.ErrNotFound)
	}
	return nil
}

// Update patches the task addressed by the selector on the first line
// with whatever fields the remaining lines supply.
func (s *TaskService) Update(ctx context.Context, user *model.User, raw string) error {
	lines := strings.SplitN(raw, "\n", 2)
	sel, err := domain.ParseSelector(lines[0])
	if err != nil {
		return err
	}

	rest := ""
	if len(lines) > 1 {
		rest = lines[1]
	}
	draft, err := domain.ParseTask(rest, true)
	if err != nil {
		return err
	}

	ok, err := s.taskRepo.UpdateAt(ctx, user.ID, sel.Date.Key(), sel.Index-1, draft)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: task not found", domain.ErrNotFound)
	}
	return nil
}

// Listing renders the user's full reminder list grouped by date, each
// group numbered from 1.
func (s *TaskService) Listing(ctx context.Context, user *model.User, firstLine string) (string, error) {
	tasks, err := s.taskRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return "", err
	}
	if len(tasks) == 0 {
		return "", fmt.Errorf("%w: no reminders found", domain.ErrNotFound)
	}

	// Group by date-key, keeping first-seen key order and insertion
	// order within a key.
	groups := make(map[string][]model.Task)
	var order []string
	for _, task := range tasks {
		if _, ok := groups[task.DateKey]; !ok {
			order = append(order, task.DateKey)
		}
		groups[task.DateKey] = append(groups[task.DateKey], task)
	}

	var builder strings.Builder
	builder.WriteString(firstLine)
	builder.WriteString("\n")
	for _, key := range order {
		section := groups[key]
		builder.WriteString(fmt.Sprintf("\n🗓 <b>%s</b>\n", dateHeading(section[0].Date())))
		for i, task := range section {
			writeTask(&builder, i+1, task)
		}
	}
	return strings.TrimSpace(builder.String()), nil
}

// ListingOf renders the reminders that fire on the given date. When the
// query carries a concrete year, one-time reminders of other years are
// filtered out; a year-less query lists the whole date-key sequence.
func (s *TaskService) ListingOf(ctx context.Context, user *model.User, raw string) (string, error) {
	date, err := domain.ParseDate(raw)
	if err != nil {
		return "", err
	}

	tasks, err := s.taskRepo.ListByDateKey(ctx, user.ID, date.Key())
	if err != nil {
		return "", err
	}

	var due []model.Task
	for _, task := range tasks {
		if date.Yearly || domain.IsDue(task.Date(), date) {
			due = append(due, task)
		}
	}
	if len(due) == 0 {
		return "", fmt.Errorf("%w: no reminders found", domain.ErrNotFound)
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("🗓 <b>%s</b>\n", dateHeading(date)))
	for i, task := range due {
		writeTask(&builder, i+1, task)
	}
	return strings.TrimSpace(builder.String()), nil
}

func writeTask(builder *strings.Builder, ordinal int, task model.Task) {
	builder.WriteString(fmt.Sprintf("%d. <b>%s</b>\n", ordinal, html.EscapeString(strings.TrimSpace(task.Subject))))
	if task.Description != "" {
		builder.WriteString(fmt.Sprintf("   %s\n", html.EscapeString(strings.TrimSpace(task.Description))))
	}
}

func dateHeading(d domain.Date) string {
	if d.Yearly {
		return fmt.Sprintf("%d-%d, every year", d.Day, d.Month)
	}
	return d.String()
}
