package task

import (
	"testing"
	"time"

	"github.com/dukerupert/earnlearn/internal/model"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestClassifyNoDeadline(t *testing.T) {
	now := time.Date(2026, 2, 5, 12, 0, 0, 0, time.UTC)
	got := Classify(nil, model.TaskPending, now)
	if got.Applicable {
		t.Error("expected not applicable")
	}
	if got.State != DeadlineNotApplicable {
		t.Errorf("state = %q, want %q", got.State, DeadlineNotApplicable)
	}
	if got.Overdue {
		t.Error("expected not overdue")
	}
}

func TestClassifyDueToday(t *testing.T) {
	now := time.Date(2026, 2, 5, 18, 30, 0, 0, time.UTC)
	got := Classify(date(2026, 2, 5), model.TaskPending, now)
	if got.State != DeadlineDueToday {
		t.Errorf("state = %q, want %q", got.State, DeadlineDueToday)
	}
	if got.Label != "Due today" {
		t.Errorf("label = %q, want %q", got.Label, "Due today")
	}
	if got.Overdue {
		t.Error("due today should not be overdue")
	}
}

func TestClassifyCompletedNeverOverdue(t *testing.T) {
	now := time.Date(2026, 2, 5, 12, 0, 0, 0, time.UTC)
	for _, d := range []*time.Time{date(2026, 1, 1), date(2026, 2, 5), date(2026, 3, 1)} {
		got := Classify(d, model.TaskCompleted, now)
		if got.Overdue {
			t.Errorf("deadline %v: completed task reported overdue", d)
		}
		if got.State != DeadlineDone {
			t.Errorf("deadline %v: state = %q, want %q", d, got.State, DeadlineDone)
		}
	}
}

func TestClassifyOverdue(t *testing.T) {
	now := time.Date(2026, 2, 5, 0, 0, 1, 0, time.UTC)
	got := Classify(date(2026, 2, 2), model.TaskPending, now)
	if !got.Overdue {
		t.Fatal("expected overdue")
	}
	if got.Label != "3d overdue" {
		t.Errorf("label = %q, want %q", got.Label, "3d overdue")
	}
	if got.Severity != SeverityOverdue {
		t.Errorf("severity = %q, want %q", got.Severity, SeverityOverdue)
	}
	if got.Days != -3 {
		t.Errorf("days = %d, want -3", got.Days)
	}
}

func TestClassifyAwaitingApprovalStillClassified(t *testing.T) {
	now := time.Date(2026, 2, 5, 9, 0, 0, 0, time.UTC)
	got := Classify(date(2026, 2, 4), model.TaskAwaitingApproval, now)
	if !got.Overdue {
		t.Error("expected awaiting approval task past its deadline to be overdue")
	}
}

func TestClassifyTomorrowAndLater(t *testing.T) {
	now := time.Date(2026, 2, 5, 23, 59, 0, 0, time.UTC)

	got := Classify(date(2026, 2, 6), model.TaskPending, now)
	if got.State != DeadlineDueTomorrow || got.Label != "Due tomorrow" {
		t.Errorf("got %q/%q, want due_tomorrow/Due tomorrow", got.State, got.Label)
	}

	got = Classify(date(2026, 2, 10), model.TaskPending, now)
	if got.State != DeadlineUpcoming {
		t.Errorf("state = %q, want %q", got.State, DeadlineUpcoming)
	}
	if got.Label != "5 days left" {
		t.Errorf("label = %q, want %q", got.Label, "5 days left")
	}
	if got.Severity != SeverityOK {
		t.Errorf("severity = %q, want %q", got.Severity, SeverityOK)
	}
}

func TestDaysBetweenAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	from := time.Date(2026, 3, 7, 10, 0, 0, 0, loc)
	to := time.Date(2026, 3, 9, 0, 0, 0, 0, loc)
	if got := DaysBetween(from, to); got != 2 {
		t.Errorf("DaysBetween across DST = %d, want 2", got)
	}
}
