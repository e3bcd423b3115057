package achievement

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/earnlearn/internal/model"
	"github.com/dukerupert/earnlearn/internal/task"
)

// Achievement is a badge a child can unlock. Unlock state is derived on every
// evaluation and never stored.
type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`

	unlocked func(facts) bool
}

type Result struct {
	Achievement
	Unlocked bool `json:"unlocked"`
}

// facts is everything a predicate may look at.
type facts struct {
	completed      int
	overdue        int
	currentPoints  int
	savingsBalance decimal.Decimal
}

var (
	savingsSuper   = decimal.NewFromInt(500)
	pointCollector = 100
	pointHoarder   = 500
)

var all = []Achievement{
	{ID: "first_task", Name: "First Task", Description: "Complete your first task", Icon: "🌱",
		unlocked: func(f facts) bool { return f.completed >= 1 }},
	{ID: "five_tasks", Name: "High Five", Description: "Complete 5 tasks", Icon: "🖐️",
		unlocked: func(f facts) bool { return f.completed >= 5 }},
	{ID: "ten_tasks", Name: "Task Master", Description: "Complete 10 tasks", Icon: "🏅",
		unlocked: func(f facts) bool { return f.completed >= 10 }},
	{ID: "first_savings", Name: "Piggy Bank", Description: "Put something in savings", Icon: "🐷",
		unlocked: func(f facts) bool { return f.savingsBalance.IsPositive() }},
	{ID: "super_saver", Name: "Super Saver", Description: "Reach a savings balance of 500", Icon: "🏦",
		unlocked: func(f facts) bool { return f.savingsBalance.GreaterThanOrEqual(savingsSuper) }},
	{ID: "point_collector", Name: "Point Collector", Description: "Hold 100 points at once", Icon: "⭐",
		unlocked: func(f facts) bool { return f.currentPoints >= pointCollector }},
	{ID: "point_hoarder", Name: "Point Hoarder", Description: "Hold 500 points at once", Icon: "🌟",
		unlocked: func(f facts) bool { return f.currentPoints >= pointHoarder }},
	{ID: "always_on_time", Name: "Always On Time", Description: "Complete tasks with nothing overdue", Icon: "⏰",
		unlocked: func(f facts) bool { return f.completed >= 1 && f.overdue == 0 }},
}

// All returns the fixed achievement catalogue in display order.
func All() []Achievement {
	out := make([]Achievement, len(all))
	copy(out, all)
	return out
}

// Evaluate checks every achievement for child. Tasks assigned to other
// children are ignored.
func Evaluate(child model.Child, tasks []model.Task, now time.Time) []Result {
	f := facts{
		currentPoints:  child.CurrentPoints,
		savingsBalance: child.SavingsBalance,
	}
	for _, t := range tasks {
		if t.AssignedTo != child.ID {
			continue
		}
		if t.Status == model.TaskCompleted {
			f.completed++
		}
		if task.IsOverdue(t, now) {
			f.overdue++
		}
	}

	results := make([]Result, 0, len(all))
	for _, a := range all {
		results = append(results, Result{Achievement: a, Unlocked: a.unlocked(f)})
	}
	return results
}

// CountUnlocked returns how many results are unlocked.
func CountUnlocked(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Unlocked {
			n++
		}
	}
	return n
}
