package task

import (
	"errors"
	"testing"

	"github.com/dukerupert/earnlearn/internal/model"
)

func TestNextLegalTransitions(t *testing.T) {
	tests := []struct {
		from   model.TaskStatus
		action Action
		want   model.TaskStatus
	}{
		{model.TaskPending, ActionSubmit, model.TaskAwaitingApproval},
		{model.TaskAwaitingApproval, ActionApprove, model.TaskCompleted},
		{model.TaskAwaitingApproval, ActionReject, model.TaskPending},
	}
	for _, tt := range tests {
		got, err := Next(tt.from, tt.action)
		if err != nil {
			t.Errorf("Next(%s, %s): unexpected error %v", tt.from, tt.action, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Next(%s, %s) = %q, want %q", tt.from, tt.action, got, tt.want)
		}
	}
}

func TestNextIllegalTransitions(t *testing.T) {
	tests := []struct {
		from   model.TaskStatus
		action Action
	}{
		{model.TaskPending, ActionApprove},
		{model.TaskPending, ActionReject},
		{model.TaskAwaitingApproval, ActionSubmit},
		{model.TaskCompleted, ActionSubmit},
		{model.TaskCompleted, ActionApprove},
		{model.TaskCompleted, ActionReject},
		{model.TaskPending, Action("delete")},
	}
	for _, tt := range tests {
		got, err := Next(tt.from, tt.action)
		if !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("Next(%s, %s) err = %v, want ErrInvalidTransition", tt.from, tt.action, err)
		}
		if got != tt.from {
			t.Errorf("Next(%s, %s) = %q, want unchanged %q", tt.from, tt.action, got, tt.from)
		}
	}
}

func TestCanTransitionOnlyGraphEdges(t *testing.T) {
	all := []model.TaskStatus{model.TaskPending, model.TaskAwaitingApproval, model.TaskCompleted}
	legal := map[[2]model.TaskStatus]bool{
		{model.TaskPending, model.TaskAwaitingApproval}:   true,
		{model.TaskAwaitingApproval, model.TaskCompleted}: true,
		{model.TaskAwaitingApproval, model.TaskPending}:   true,
	}
	for _, from := range all {
		for _, to := range all {
			want := legal[[2]model.TaskStatus{from, to}]
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestApplyLeavesTaskUnchangedOnError(t *testing.T) {
	tk := model.Task{ID: 1, Status: model.TaskCompleted}
	if err := Apply(&tk, ActionReject); err == nil {
		t.Fatal("expected error rejecting a completed task")
	}
	if tk.Status != model.TaskCompleted {
		t.Errorf("status = %q, want %q", tk.Status, model.TaskCompleted)
	}
}

func TestRejectThenResubmit(t *testing.T) {
	tk := model.Task{ID: 1, Status: model.TaskPending}
	seq := []Action{ActionSubmit, ActionReject, ActionSubmit, ActionApprove}
	for _, a := range seq {
		if err := Apply(&tk, a); err != nil {
			t.Fatalf("apply %s: %v", a, err)
		}
	}
	if tk.Status != model.TaskCompleted {
		t.Errorf("status = %q, want %q", tk.Status, model.TaskCompleted)
	}
}
