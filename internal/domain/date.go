package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// delim separates the day, month and year fields of the textual format.
const delim = "-"

// yearlySentinel marks a reminder as recurring every year.
const yearlySentinel = 0

// placeholderYear backs calendar math for recurring dates. It is a leap
// year so 29-2 stays representable; it never participates in recurrence
// comparisons.
const placeholderYear = 2000

// monthFirstLayout is the stdlib reference layout used for day-range
// validation. The stored convention is day-first, so SwapOrder bridges
// the two.
const monthFirstLayout = "1-2-2006"

// Date is a calendar date in the day-month-year convention. Yearly
// dates repeat on Day/Month and carry no meaningful Year.
type Date struct {
	Day    int
	Month  int
	Year   int
	Yearly bool
}

// DateOf converts a concrete point in time to its calendar Date.
func DateOf(t time.Time) Date {
	return Date{Day: t.Day(), Month: int(t.Month()), Year: t.Year()}
}

// NormalizeDate validates a D-M[-Y] string and returns the canonical
// d-m-y form. The year may be omitted or 0, meaning the reminder recurs
// every year; the canonical form keeps the 0 sentinel.
//
// Day validity is tied to the year the user typed: 29-2-2023 is
// rejected, while 29-2 (recurring) is accepted and fires in leap years.
func NormalizeDate(text string) (string, error) {
	fields := strings.Split(strings.TrimSpace(text), delim)
	if len(fields) != 2 && len(fields) != 3 {
		return "", fmt.Errorf("%w: expected day%smonth%syear", ErrInvalidFormat, delim, delim)
	}

	nums := make([]int, len(fields))
	for i, field := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return "", fmt.Errorf("%w: %q is not a number", ErrInvalidFormat, strings.TrimSpace(field))
		}
		nums[i] = n
	}

	day, month := nums[0], nums[1]
	year := yearlySentinel
	if len(nums) == 3 {
		year = nums[2]
	}

	if year < 0 {
		return "", fmt.Errorf("%w: year must not be negative", ErrInvalidFormat)
	}
	if month < 1 || month > 12 {
		return "", fmt.Errorf("%w: month must be between 1 and 12", ErrInvalidFormat)
	}

	// Day-range validation (leap years included) is delegated to the
	// stdlib parser. Its reference layout is month-first, hence the
	// field swap; the recurring sentinel borrows the placeholder leap
	// year so 29-2 stays valid.
	checkYear := year
	if checkYear == yearlySentinel {
		checkYear = placeholderYear
	}
	candidate := fmt.Sprintf("%d%s%d%s%04d", day, delim, month, delim, checkYear)
	if _, err := time.Parse(monthFirstLayout, SwapOrder(candidate)); err != nil {
		return "", fmt.Errorf("%w: day %d is out of range for month %d", ErrInvalidFormat, day, month)
	}

	return fmt.Sprintf("%d%s%d%s%d", day, delim, month, delim, year), nil
}

// ParseDate normalizes text and builds a Date from it.
func ParseDate(text string) (Date, error) {
	normalized, err := NormalizeDate(text)
	if err != nil {
		return Date{}, err
	}

	fields := strings.Split(normalized, delim)
	day, _ := strconv.Atoi(fields[0])
	month, _ := strconv.Atoi(fields[1])
	year, _ := strconv.Atoi(fields[2])

	date := Date{Day: day, Month: month, Year: year}
	if year == yearlySentinel {
		date.Year = 0
		date.Yearly = true
	}
	return date, nil
}

// SwapOrder swaps the day and month fields of a delimiter-separated
// date string, bridging the stored day-month-year convention to
// month-first constructors. Applying it twice returns the input.
func SwapOrder(text string) string {
	fields := strings.SplitN(text, delim, 3)
	if len(fields) < 2 {
		return text
	}
	fields[0], fields[1] = fields[1], fields[0]
	return strings.Join(fields, delim)
}

// Key returns the day-month grouping key. One-time and recurring
// reminders on the same calendar day share a key; which of them fire in
// a given year is decided by IsDue, not by storage.
func (d Date) Key() string {
	return fmt.Sprintf("%d%s%d", d.Day, delim, d.Month)
}

// Time builds a concrete time.Time for calendar math. Recurring dates
// borrow the placeholder leap year.
func (d Date) Time() time.Time {
	year := d.Year
	if d.Yearly {
		year = placeholderYear
	}
	return time.Date(year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// String renders the canonical d-m-y form with the 0 sentinel for
// recurring dates.
func (d Date) String() string {
	year := d.Year
	if d.Yearly {
		year = yearlySentinel
	}
	return fmt.Sprintf("%d%s%d%s%d", d.Day, delim, d.Month, delim, year)
}
