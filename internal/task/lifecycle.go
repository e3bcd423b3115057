package task

import (
	"errors"
	"fmt"

	"github.com/dukerupert/earnlearn/internal/model"
)

// ErrInvalidTransition is returned when an action is not legal from the
// task's current status.
var ErrInvalidTransition = errors.New("invalid status transition")

type Action string

const (
	ActionSubmit  Action = "submit"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// transitions is the whole state machine. Completed is terminal.
var transitions = map[Action]struct{ from, to model.TaskStatus }{
	ActionSubmit:  {model.TaskPending, model.TaskAwaitingApproval},
	ActionApprove: {model.TaskAwaitingApproval, model.TaskCompleted},
	ActionReject:  {model.TaskAwaitingApproval, model.TaskPending},
}

// Next returns the status reached by applying action to from.
func Next(from model.TaskStatus, action Action) (model.TaskStatus, error) {
	t, ok := transitions[action]
	if !ok {
		return from, fmt.Errorf("%w: unknown action %q", ErrInvalidTransition, action)
	}
	if from != t.from {
		return from, fmt.Errorf("%w: cannot %s a %s task", ErrInvalidTransition, action, from.Label())
	}
	return t.to, nil
}

// CanTransition reports whether from → to is an edge of the state machine.
func CanTransition(from, to model.TaskStatus) bool {
	for _, t := range transitions {
		if t.from == from && t.to == to {
			return true
		}
	}
	return false
}

// Apply moves t through action in place. On error t is unchanged.
func Apply(t *model.Task, action Action) error {
	next, err := Next(t.Status, action)
	if err != nil {
		return err
	}
	t.Status = next
	return nil
}

// IsActive reports whether a task still occupies its template's single
// active slot.
func IsActive(t model.Task) bool {
	return t.Status != model.TaskCompleted
}
