package family

import (
	"context"
	"strings"

	"github.com/dukerupert/earnlearn/internal/model"
	"github.com/dukerupert/earnlearn/internal/recurrence"
)

type TemplateInput struct {
	Name        string
	Description string
	Points      int
	AssignedTo  int64
	Frequency   string
	DueTime     string
}

func (s *Service) CreateTemplate(ctx context.Context, in TemplateInput) (*model.RecurringTemplate, error) {
	base := TaskInput{Name: in.Name, Description: in.Description, Points: in.Points, DueTime: in.DueTime}
	if err := base.normalize(); err != nil {
		return nil, err
	}
	freq, err := model.ParseFrequency(strings.TrimSpace(in.Frequency))
	if err != nil {
		return nil, invalid("frequency", "frequency must be daily, weekly or monthly")
	}

	var created *model.RecurringTemplate
	err = s.inTx(ctx, func(r repos) error {
		child, err := r.children.GetByID(in.AssignedTo)
		if err != nil {
			return err
		}
		if child == nil {
			return invalid("assigned_to", "unknown child")
		}
		created, err = r.templates.Create(model.RecurringTemplate{
			Name:        base.Name,
			Description: base.Description,
			Points:      base.Points,
			AssignedTo:  in.AssignedTo,
			Frequency:   freq,
			DueTime:     base.DueTime,
			Active:      true,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Service) ListTemplates(ctx context.Context) ([]model.RecurringTemplate, error) {
	return s.read().templates.List()
}

// ToggleTemplate flips a template between active and paused.
func (s *Service) ToggleTemplate(ctx context.Context, id int64) (*model.RecurringTemplate, error) {
	var out *model.RecurringTemplate
	err := s.inTx(ctx, func(r repos) error {
		t, err := r.templates.GetByID(id)
		if err != nil {
			return err
		}
		if t == nil {
			return notFound("toggle", "template", id)
		}
		if err := r.templates.SetActive(id, !t.Active); err != nil {
			return err
		}
		out, err = r.templates.GetByID(id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteTemplate removes a template. Instances already spawned remain as
// one-off tasks.
func (s *Service) DeleteTemplate(ctx context.Context, id int64) error {
	return s.inTx(ctx, func(r repos) error {
		t, err := r.templates.GetByID(id)
		if err != nil {
			return err
		}
		if t == nil {
			return notFound("delete", "template", id)
		}
		return r.templates.Delete(id)
	})
}

// SpawnDue creates one Pending instance for every due template. Running it
// again with no time elapsed creates nothing.
func (s *Service) SpawnDue(ctx context.Context) ([]model.Task, error) {
	now := s.now()
	var spawned []model.Task
	err := s.inTx(ctx, func(r repos) error {
		templates, err := r.templates.ListActive()
		if err != nil {
			return err
		}
		instances, err := r.tasks.ListInstances()
		if err != nil {
			return err
		}

		res := recurrence.Spawn(templates, instances, now)
		for _, in := range res.Spawned {
			created, err := r.tasks.Create(in)
			if err != nil {
				return err
			}
			spawned = append(spawned, *created)
		}
		for id, at := range res.LastSpawned {
			if err := r.templates.SetLastSpawned(id, at); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(spawned) > 0 {
		s.logger.Info("spawned recurring instances", "count", len(spawned))
	}
	return spawned, nil
}
