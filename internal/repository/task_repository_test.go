package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/utkarshdhiman48/remindit48-bot/internal/domain"
	"github.com/utkarshdhiman48/remindit48-bot/internal/model"
)

func newTestRepos(t *testing.T) (*UserRepository, *TaskRepository) {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	return NewUserRepository(db), NewTaskRepository(db)
}

func mustUser(t *testing.T, users *UserRepository, telegramID int64) *model.User {
	t.Helper()
	ctx := context.Background()
	if _, err := users.Add(ctx, telegramID, "Test", "", "test"); err != nil {
		t.Fatalf("add user: %v", err)
	}
	user, err := users.FindByTelegramID(ctx, telegramID)
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	return user
}

func mustTask(t *testing.T, dateStr, subject, description string) *model.Task {
	t.Helper()
	date, err := domain.ParseDate(dateStr)
	if err != nil {
		t.Fatalf("parse date %q: %v", dateStr, err)
	}
	task := &model.Task{Subject: subject, Description: description}
	task.SetDate(date)
	return task
}

func TestAddUserIdempotent(t *testing.T) {
	users, _ := newTestRepos(t)
	ctx := context.Background()

	created, err := users.Add(ctx, 42, "First", "Last", "user")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !created {
		t.Fatal("first add should create the user")
	}

	created, err = users.Add(ctx, 42, "First", "Last", "user")
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if created {
		t.Fatal("second add should not create a duplicate")
	}

	exists, err := users.Exists(ctx, 42)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !exists {
		t.Fatal("user should exist after add")
	}

	exists, err = users.Exists(ctx, 43)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Fatal("unknown user should not exist")
	}
}

func TestAppendThenListByDateKey(t *testing.T) {
	users, tasks := newTestRepos(t)
	ctx := context.Background()
	user := mustUser(t, users, 1)

	task := mustTask(t, "10-5-2025", "Dentist", "bring insurance card")
	if err := tasks.Append(ctx, user.ID, task); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := tasks.ListByDateKey(ctx, user.ID, task.DateKey)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Subject != "Dentist" {
		t.Fatalf("unexpected listing: %+v", got)
	}
}

func TestDateKeySharedAcrossYears(t *testing.T) {
	users, tasks := newTestRepos(t)
	ctx := context.Background()
	user := mustUser(t, users, 1)

	oneTime := mustTask(t, "10-5-2025", "One-time", "")
	yearly := mustTask(t, "10-5", "Yearly", "")
	if err := tasks.Append(ctx, user.ID, oneTime); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := tasks.Append(ctx, user.ID, yearly); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := tasks.ListByDateKey(ctx, user.ID, oneTime.DateKey)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want both tasks under one key, got %d", len(got))
	}
	if got[0].Subject != "One-time" || got[1].Subject != "Yearly" {
		t.Fatalf("insertion order not preserved: %+v", got)
	}
}

func TestDeleteAtShiftsOrdinals(t *testing.T) {
	users, tasks := newTestRepos(t)
	ctx := context.Background()
	user := mustUser(t, users, 1)

	a := mustTask(t, "1-6-2025", "A", "")
	b := mustTask(t, "1-6-2025", "B", "")
	for _, task := range []*model.Task{a, b} {
		if err := tasks.Append(ctx, user.ID, task); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	// Delete position 0 (visible index 1): B must become the new index 1.
	ok, err := tasks.DeleteAt(ctx, user.ID, a.DateKey, 0)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !ok {
		t.Fatal("delete should succeed")
	}

	got, err := tasks.ListByDateKey(ctx, user.ID, a.DateKey)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Subject != "B" {
		t.Fatalf("want [B] after delete, got %+v", got)
	}

	ok, err = tasks.DeleteAt(ctx, user.ID, a.DateKey, 5)
	if err != nil {
		t.Fatalf("delete out of range: %v", err)
	}
	if ok {
		t.Fatal("out-of-range delete should report false")
	}
}

func TestUpdateAtPartial(t *testing.T) {
	users, tasks := newTestRepos(t)
	ctx := context.Background()
	user := mustUser(t, users, 1)

	task := mustTask(t, "10-5-2025", "Old subject", "old description")
	if err := tasks.Append(ctx, user.ID, task); err != nil {
		t.Fatalf("append: %v", err)
	}

	subject := "New subject"
	ok, err := tasks.UpdateAt(ctx, user.ID, task.DateKey, 0, domain.Draft{Subject: &subject})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !ok {
		t.Fatal("update should succeed")
	}

	got, err := tasks.ListByDateKey(ctx, user.ID, task.DateKey)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got[0].Subject != "New subject" {
		t.Fatalf("subject = %q", got[0].Subject)
	}
	if got[0].Description != "old description" {
		t.Fatalf("description changed: %q", got[0].Description)
	}
	if got[0].Year != 2025 || got[0].Day != 10 || got[0].Month != 5 {
		t.Fatalf("date changed: %+v", got[0])
	}

	ok, err = tasks.UpdateAt(ctx, user.ID, task.DateKey, 7, domain.Draft{Subject: &subject})
	if err != nil {
		t.Fatalf("update out of range: %v", err)
	}
	if ok {
		t.Fatal("out-of-range update should report false")
	}
}

func TestUpdateAtMovesDateKey(t *testing.T) {
	users, tasks := newTestRepos(t)
	ctx := context.Background()
	user := mustUser(t, users, 1)

	task := mustTask(t, "10-5-2025", "Movable", "")
	if err := tasks.Append(ctx, user.ID, task); err != nil {
		t.Fatalf("append: %v", err)
	}

	newDate, err := domain.ParseDate("11-6-2025")
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	ok, err := tasks.UpdateAt(ctx, user.ID, task.DateKey, 0, domain.Draft{Date: &newDate})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !ok {
		t.Fatal("update should succeed")
	}

	old, err := tasks.ListByDateKey(ctx, user.ID, task.DateKey)
	if err != nil {
		t.Fatalf("list old key: %v", err)
	}
	if len(old) != 0 {
		t.Fatalf("old key should be empty, got %+v", old)
	}

	moved, err := tasks.ListByDateKey(ctx, user.ID, newDate.Key())
	if err != nil {
		t.Fatalf("list new key: %v", err)
	}
	if len(moved) != 1 || moved[0].Subject != "Movable" {
		t.Fatalf("task not found under new key: %+v", moved)
	}
}
