package task

import (
	"fmt"
	"time"

	"github.com/dukerupert/earnlearn/internal/model"
)

type DeadlineState string

const (
	DeadlineNotApplicable DeadlineState = "not_applicable"
	DeadlineDone          DeadlineState = "done"
	DeadlineOverdue       DeadlineState = "overdue"
	DeadlineDueToday      DeadlineState = "due_today"
	DeadlineDueTomorrow   DeadlineState = "due_tomorrow"
	DeadlineUpcoming      DeadlineState = "upcoming"
)

type Severity string

const (
	SeverityNone    Severity = "none"
	SeverityOK      Severity = "ok"
	SeveritySoon    Severity = "soon"
	SeverityToday   Severity = "today"
	SeverityOverdue Severity = "overdue"
)

// Deadline is the read-time projection of a task's deadline. Days is the
// number of calendar days between today and the deadline; negative when
// overdue.
type Deadline struct {
	Applicable bool          `json:"applicable"`
	Overdue    bool          `json:"overdue"`
	State      DeadlineState `json:"state"`
	Days       int           `json:"days"`
	Label      string        `json:"label"`
	Severity   Severity      `json:"severity"`
}

// Classify computes the deadline state of a task relative to now. It is never
// stored; callers recompute it on every read.
func Classify(deadline *time.Time, status model.TaskStatus, now time.Time) Deadline {
	if deadline == nil || deadline.IsZero() {
		return Deadline{State: DeadlineNotApplicable, Severity: SeverityNone}
	}

	days := DaysBetween(now, *deadline)

	if status == model.TaskCompleted {
		return Deadline{Applicable: true, State: DeadlineDone, Days: days, Label: "Done", Severity: SeverityNone}
	}

	switch {
	case days < 0:
		return Deadline{
			Applicable: true,
			Overdue:    true,
			State:      DeadlineOverdue,
			Days:       days,
			Label:      fmt.Sprintf("%dd overdue", -days),
			Severity:   SeverityOverdue,
		}
	case days == 0:
		return Deadline{Applicable: true, State: DeadlineDueToday, Label: "Due today", Severity: SeverityToday}
	case days == 1:
		return Deadline{Applicable: true, State: DeadlineDueTomorrow, Days: 1, Label: "Due tomorrow", Severity: SeveritySoon}
	default:
		return Deadline{
			Applicable: true,
			State:      DeadlineUpcoming,
			Days:       days,
			Label:      fmt.Sprintf("%d days left", days),
			Severity:   SeverityOK,
		}
	}
}

// IsOverdue is shorthand for Classify(...).Overdue.
func IsOverdue(t model.Task, now time.Time) bool {
	return Classify(t.Deadline, t.Status, now).Overdue
}

// DaysBetween returns the number of calendar days from the day containing
// from to the day containing to, evaluated in from's location.
func DaysBetween(from, to time.Time) int {
	a := StartOfDay(from)
	b := StartOfDay(to.In(from.Location()))
	// Noon-anchored so DST shifts never change the rounded day count.
	an := time.Date(a.Year(), a.Month(), a.Day(), 12, 0, 0, 0, time.UTC)
	bn := time.Date(b.Year(), b.Month(), b.Day(), 12, 0, 0, 0, time.UTC)
	return int(bn.Sub(an).Hours() / 24)
}

func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
