package family

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/dukerupert/earnlearn/internal/ledger"
	"github.com/dukerupert/earnlearn/internal/model"
	"github.com/dukerupert/earnlearn/internal/store"
	"github.com/dukerupert/earnlearn/internal/task"
)

var dueTimePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

type TaskInput struct {
	Name        string
	Description string
	Points      int
	AssignedTo  int64
	Deadline    *time.Time
	DueTime     string
}

func (in *TaskInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.DueTime = strings.TrimSpace(in.DueTime)
	if in.Name == "" {
		return invalid("name", "name is required")
	}
	if in.Points <= 0 {
		return invalid("points", "points must be positive")
	}
	if in.DueTime != "" && !dueTimePattern.MatchString(in.DueTime) {
		return invalid("due_time", "due time must be HH:MM")
	}
	return nil
}

// TaskView pairs a task with its deadline classification at read time.
type TaskView struct {
	model.Task
	DeadlineStatus task.Deadline `json:"deadline_status"`
}

func (s *Service) view(tasks []model.Task) []TaskView {
	now := s.now()
	views := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, TaskView{Task: t, DeadlineStatus: task.Classify(t.Deadline, t.Status, now)})
	}
	return views
}

func (s *Service) CreateTask(ctx context.Context, in TaskInput) (*model.Task, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	var created *model.Task
	err := s.inTx(ctx, func(r repos) error {
		child, err := r.children.GetByID(in.AssignedTo)
		if err != nil {
			return err
		}
		if child == nil {
			return invalid("assigned_to", "unknown child")
		}
		created, err = r.tasks.Create(model.Task{
			Name:        in.Name,
			Description: in.Description,
			Points:      in.Points,
			AssignedTo:  in.AssignedTo,
			Status:      model.TaskPending,
			Deadline:    in.Deadline,
			DueTime:     in.DueTime,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Service) GetTask(ctx context.Context, id int64) (*model.Task, error) {
	t, err := s.read().tasks.GetByID(id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, notFound("get", "task", id)
	}
	return t, nil
}

func (s *Service) ListTasks(ctx context.Context, f store.TaskFilter) ([]TaskView, error) {
	tasks, err := s.read().tasks.List(f)
	if err != nil {
		return nil, err
	}
	return s.view(tasks), nil
}

// ChildTasks lists a child's tasks with their deadline state.
func (s *Service) ChildTasks(ctx context.Context, childID int64) ([]TaskView, error) {
	if _, err := s.GetChild(ctx, childID); err != nil {
		return nil, err
	}
	return s.ListTasks(ctx, store.TaskFilter{AssignedTo: &childID})
}

// DeleteTask removes a task that has not been submitted yet.
func (s *Service) DeleteTask(ctx context.Context, id int64) error {
	return s.inTx(ctx, func(r repos) error {
		t, err := r.tasks.GetByID(id)
		if err != nil {
			return err
		}
		if t == nil {
			return notFound("delete", "task", id)
		}
		return casError(r.tasks.DeletePending(id), model.TaskPending)
	})
}

// Submit is the child marking their task done.
func (s *Service) Submit(ctx context.Context, childID, taskID int64) (*model.Task, error) {
	var out *model.Task
	err := s.inTx(ctx, func(r repos) error {
		t, err := r.tasks.GetByID(taskID)
		if err != nil {
			return err
		}
		if t == nil {
			return notFound("submit", "task", taskID)
		}
		child, err := r.children.GetByID(childID)
		if err != nil {
			return err
		}
		if child == nil {
			return notFound("submit", "child", childID)
		}

		from := t.Status
		if err := ledger.Submit(*child, t); err != nil {
			if errors.Is(err, ledger.ErrWrongChild) {
				return ErrForbidden
			}
			return err
		}
		if err := r.tasks.UpdateStatus(t.ID, from, t.Status, nil); err != nil {
			return casError(err, from)
		}
		out, err = r.tasks.GetByID(t.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("task submitted", "task_id", taskID, "child_id", childID)
	return out, nil
}

type ApproveResult struct {
	Task  *model.Task        `json:"task"`
	Child *model.Child       `json:"child"`
	Entry model.HistoryEntry `json:"entry"`
}

// Approve completes a submitted task, credits its points and, for a
// recurring instance, re-arms the owning template from the approval time.
func (s *Service) Approve(ctx context.Context, taskID int64) (*ApproveResult, error) {
	now := s.now()
	var res ApproveResult
	err := s.inTx(ctx, func(r repos) error {
		t, err := r.tasks.GetByID(taskID)
		if err != nil {
			return err
		}
		if t == nil {
			return notFound("approve", "task", taskID)
		}
		child, err := r.children.GetByID(t.AssignedTo)
		if err != nil {
			return err
		}
		if child == nil {
			return notFound("approve", "child", t.AssignedTo)
		}

		from := t.Status
		entry, err := ledger.Approve(child, t, now)
		if err != nil {
			return err
		}
		if err := r.tasks.UpdateStatus(t.ID, from, t.Status, t.CompletedAt); err != nil {
			return casError(err, from)
		}
		if err := r.children.UpdateBalances(child); err != nil {
			return err
		}
		saved, err := r.history.Append(entry)
		if err != nil {
			return err
		}
		if t.TemplateID != nil {
			if err := r.templates.SetLastSpawned(*t.TemplateID, now); err != nil {
				return err
			}
		}

		res.Child = child
		res.Entry = *saved
		res.Task, err = r.tasks.GetByID(t.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("task approved", "task_id", taskID, "child_id", res.Child.ID, "points", res.Task.Points)
	return &res, nil
}

// Reject sends a submitted task back to Pending.
func (s *Service) Reject(ctx context.Context, taskID int64) (*model.Task, error) {
	now := s.now()
	var out *model.Task
	err := s.inTx(ctx, func(r repos) error {
		t, err := r.tasks.GetByID(taskID)
		if err != nil {
			return err
		}
		if t == nil {
			return notFound("reject", "task", taskID)
		}
		from := t.Status
		if err := ledger.Reject(t, now); err != nil {
			return err
		}
		if err := r.tasks.UpdateStatus(t.ID, from, t.Status, nil); err != nil {
			return casError(err, from)
		}
		out, err = r.tasks.GetByID(t.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("task rejected", "task_id", taskID)
	return out, nil
}
