package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Draft carries parsed task fields. Nil pointers in a partial draft
// mean the field was not supplied and must be left unchanged.
type Draft struct {
	Date        *Date
	Subject     *string
	Description *string
}

// Selector addresses one task by its date and 1-based position within
// that date's listing. The position is not a stable identifier: it is
// recomputed from the sequence on every read.
type Selector struct {
	Date  Date
	Index int
}

// ParseTask extracts a task from a multi-line payload: line 1 is the
// date, line 2 the subject, lines 3+ the description.
//
// With allowPartial set (update payloads), the date line and the
// subject may be omitted; absent fields stay nil instead of erroring.
func ParseTask(raw string, allowPartial bool) (Draft, error) {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	var draft Draft
	if len(lines) == 0 {
		if allowPartial {
			return draft, nil
		}
		return draft, fmt.Errorf("%w: expected date, subject and description lines", ErrInvalidFormat)
	}

	rest := lines
	if date, err := ParseDate(lines[0]); err == nil {
		draft.Date = &date
		rest = lines[1:]
	} else if !allowPartial {
		return Draft{}, err
	}

	if len(rest) > 0 && rest[0] != "" {
		subject := rest[0]
		draft.Subject = &subject
	} else if !allowPartial {
		return Draft{}, fmt.Errorf("%w: reminder name must not be empty", ErrInvalidFormat)
	}

	if len(rest) > 1 {
		description := strings.Join(rest[1:], "\n")
		draft.Description = &description
	} else if !allowPartial {
		empty := ""
		draft.Description = &empty
	}

	return draft, nil
}

// ParseSelector parses the D-M[-Y]:N addressing syntax used by the
// delete and update flows. The :N segment is mandatory there.
func ParseSelector(text string) (Selector, error) {
	parts := strings.SplitN(strings.TrimSpace(text), ":", 2)
	if len(parts) != 2 {
		return Selector{}, fmt.Errorf("%w: expected day%smonth%syear:ReminderNumber", ErrInvalidFormat, delim, delim)
	}

	date, err := ParseDate(parts[0])
	if err != nil {
		return Selector{}, err
	}

	index, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || index < 1 {
		return Selector{}, fmt.Errorf("%w: reminder number must be a positive integer", ErrInvalidFormat)
	}

	return Selector{Date: date, Index: index}, nil
}
