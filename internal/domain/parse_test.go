package domain

import (
	"errors"
	"testing"
)

func TestParseTaskFull(t *testing.T) {
	draft, err := ParseTask("10-5-0\nMom's birthday\nbuy flowers", false)
	if err != nil {
		t.Fatalf("ParseTask: %v", err)
	}
	if draft.Date == nil || !draft.Date.Yearly || draft.Date.Day != 10 || draft.Date.Month != 5 {
		t.Fatalf("unexpected date: %+v", draft.Date)
	}
	if draft.Subject == nil || *draft.Subject != "Mom's birthday" {
		t.Fatalf("unexpected subject: %v", draft.Subject)
	}
	if draft.Description == nil || *draft.Description != "buy flowers" {
		t.Fatalf("unexpected description: %v", draft.Description)
	}
}

func TestParseTaskMultiLineDescription(t *testing.T) {
	draft, err := ParseTask("1-1-2026\nCall plumber\nkitchen sink\nstill leaking", false)
	if err != nil {
		t.Fatalf("ParseTask: %v", err)
	}
	if *draft.Description != "kitchen sink\nstill leaking" {
		t.Fatalf("description = %q", *draft.Description)
	}
}

func TestParseTaskWithoutDescription(t *testing.T) {
	draft, err := ParseTask("1-1-2026\nCall plumber", false)
	if err != nil {
		t.Fatalf("ParseTask: %v", err)
	}
	if draft.Description == nil || *draft.Description != "" {
		t.Fatalf("description should default to empty, got %v", draft.Description)
	}
}

func TestParseTaskRejectsBadInput(t *testing.T) {
	cases := []string{
		"not-a-date\nSubject",
		"10-5-2025",
		"",
		"32-1-2025\nSubject",
	}
	for _, raw := range cases {
		if _, err := ParseTask(raw, false); !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("ParseTask(%q): want ErrInvalidFormat, got %v", raw, err)
		}
	}
}

func TestParseTaskPartial(t *testing.T) {
	// Subject only: the date line is simply absent.
	draft, err := ParseTask("New subject", true)
	if err != nil {
		t.Fatalf("ParseTask: %v", err)
	}
	if draft.Date != nil {
		t.Fatalf("date should be unset, got %+v", draft.Date)
	}
	if draft.Subject == nil || *draft.Subject != "New subject" {
		t.Fatalf("subject = %v", draft.Subject)
	}
	if draft.Description != nil {
		t.Fatalf("description should be unset, got %v", draft.Description)
	}

	// Date only.
	draft, err = ParseTask("12-12-2027", true)
	if err != nil {
		t.Fatalf("ParseTask: %v", err)
	}
	if draft.Date == nil || draft.Date.Year != 2027 {
		t.Fatalf("date = %+v", draft.Date)
	}
	if draft.Subject != nil {
		t.Fatalf("subject should be unset, got %v", draft.Subject)
	}

	// Nothing supplied at all.
	draft, err = ParseTask("", true)
	if err != nil {
		t.Fatalf("ParseTask: %v", err)
	}
	if draft.Date != nil || draft.Subject != nil || draft.Description != nil {
		t.Fatalf("empty partial payload should leave every field unset: %+v", draft)
	}
}

func TestParseSelector(t *testing.T) {
	sel, err := ParseSelector("10-5-2025:2")
	if err != nil {
		t.Fatalf("ParseSelector: %v", err)
	}
	if sel.Index != 2 || sel.Date.Day != 10 || sel.Date.Month != 5 || sel.Date.Year != 2025 {
		t.Fatalf("unexpected selector: %+v", sel)
	}

	bad := []string{
		"10-5-2025",   // missing index
		"10-5-2025:",  // empty index
		"10-5-2025:0", // index not positive
		"10-5-2025:x",
		"bad:1",
		"",
	}
	for _, raw := range bad {
		if _, err := ParseSelector(raw); !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("ParseSelector(%q): want ErrInvalidFormat, got %v", raw, err)
		}
	}
}
