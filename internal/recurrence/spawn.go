package recurrence

import (
	"time"

	"github.com/dukerupert/earnlearn/internal/model"
	"github.com/dukerupert/earnlearn/internal/task"
)

const day = 24 * time.Hour

// Threshold is the number of whole days that must elapse since a template's
// last spawn before another instance is due.
func Threshold(f model.Frequency) int {
	switch f {
	case model.FrequencyDaily:
		return 1
	case model.FrequencyWeekly:
		return 7
	case model.FrequencyMonthly:
		return 28
	default:
		return -1
	}
}

// Window is the number of days after the spawn day that an instance's
// deadline falls on.
func Window(f model.Frequency) int {
	switch f {
	case model.FrequencyDaily:
		return 0
	case model.FrequencyWeekly:
		return 6
	case model.FrequencyMonthly:
		return 29
	default:
		return 0
	}
}

// ElapsedDays returns floor((now - lastSpawned) / 24h). A template that has
// never spawned is treated as infinitely overdue.
func ElapsedDays(lastSpawned, now time.Time) int {
	if lastSpawned.IsZero() {
		return int(^uint(0) >> 1)
	}
	d := now.Sub(lastSpawned)
	if d < 0 {
		return 0
	}
	return int(d / day)
}

// Result is the outcome of one Spawn pass.
type Result struct {
	Spawned     []model.Task
	LastSpawned map[int64]time.Time
}

// Due reports whether tmpl should spawn now given the existing instances.
func Due(tmpl model.RecurringTemplate, instances []model.Task, now time.Time) bool {
	if !tmpl.Active || !tmpl.Frequency.IsValid() {
		return false
	}
	if ElapsedDays(tmpl.LastSpawned, now) < Threshold(tmpl.Frequency) {
		return false
	}
	return !hasActiveInstance(tmpl.ID, instances)
}

// Spawn creates at most one new Pending instance per due template. Applying
// the result and calling Spawn again with the same clock yields nothing.
func Spawn(templates []model.RecurringTemplate, instances []model.Task, now time.Time) Result {
	res := Result{LastSpawned: make(map[int64]time.Time)}
	seen := make(map[int64]bool)

	for _, tmpl := range templates {
		if seen[tmpl.ID] || !Due(tmpl, instances, now) {
			continue
		}
		seen[tmpl.ID] = true
		res.Spawned = append(res.Spawned, NewInstance(tmpl, now))
		res.LastSpawned[tmpl.ID] = now
	}
	return res
}

// NewInstance materializes a Pending task from tmpl.
func NewInstance(tmpl model.RecurringTemplate, now time.Time) model.Task {
	deadline := task.StartOfDay(now).AddDate(0, 0, Window(tmpl.Frequency))
	id := tmpl.ID
	return model.Task{
		Name:        tmpl.Name,
		Description: tmpl.Description,
		Points:      tmpl.Points,
		AssignedTo:  tmpl.AssignedTo,
		Status:      model.TaskPending,
		Deadline:    &deadline,
		DueTime:     tmpl.DueTime,
		TemplateID:  &id,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func hasActiveInstance(templateID int64, instances []model.Task) bool {
	for _, in := range instances {
		if in.TemplateID != nil && *in.TemplateID == templateID && task.IsActive(in) {
			return true
		}
	}
	return false
}

// NextSpawn returns the earliest time tmpl becomes eligible to spawn again,
// ignoring any active instance. The zero time means "now".
func NextSpawn(tmpl model.RecurringTemplate) time.Time {
	if tmpl.LastSpawned.IsZero() {
		return time.Time{}
	}
	return tmpl.LastSpawned.Add(time.Duration(Threshold(tmpl.Frequency)) * day)
}
