package model

import (
	"time"

	"github.com/utkarshdhiman48/remindit48-bot/internal/domain"
)

// Task represents a single reminder owned by a user. DateKey groups
// tasks by day and month only, so a one-time and a yearly reminder on
// the same calendar day land in the same sequence; the visible ordinal
// of a task is its position within that sequence, ordered by insertion
// (row id).
type Task struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      uint   `gorm:"index:idx_task_user_datekey"`
	DateKey     string `gorm:"index:idx_task_user_datekey"`
	Day         int
	Month       int
	Year        int  // 0 when Yearly
	Yearly      bool `gorm:"default:false"`
	Subject     string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Date returns the task's calendar date.
func (t Task) Date() domain.Date {
	return domain.Date{Day: t.Day, Month: t.Month, Year: t.Year, Yearly: t.Yearly}
}

// SetDate stores a calendar date and keeps DateKey in sync.
func (t *Task) SetDate(d domain.Date) {
	t.Day = d.Day
	t.Month = d.Month
	t.Year = d.Year
	t.Yearly = d.Yearly
	t.DateKey = d.Key()
}
