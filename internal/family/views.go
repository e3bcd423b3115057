package family

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/earnlearn/internal/achievement"
	"github.com/dukerupert/earnlearn/internal/leaderboard"
	"github.com/dukerupert/earnlearn/internal/model"
	"github.com/dukerupert/earnlearn/internal/store"
)

// Overview is the parent dashboard summary.
type Overview struct {
	Children           int             `json:"children"`
	TotalPoints        int             `json:"total_points"`
	PendingApprovals   int             `json:"pending_approvals"`
	TotalSavings       decimal.Decimal `json:"total_savings"`
	SettlementsPending int             `json:"settlements_pending"`
}

func (s *Service) Overview(ctx context.Context) (Overview, error) {
	r := s.read()
	children, err := r.children.List()
	if err != nil {
		return Overview{}, err
	}
	waiting, err := r.tasks.CountByStatus(model.TaskAwaitingApproval)
	if err != nil {
		return Overview{}, err
	}

	ov := Overview{
		Children:         len(children),
		PendingApprovals: waiting,
		TotalSavings:     decimal.Zero,
	}
	for _, c := range children {
		ov.TotalPoints += c.CurrentPoints
		ov.TotalSavings = ov.TotalSavings.Add(c.SavingsBalance)
		if c.SettlementPending {
			ov.SettlementsPending++
		}
	}
	return ov, nil
}

func (s *Service) Achievements(ctx context.Context, childID int64) ([]achievement.Result, error) {
	child, err := s.GetChild(ctx, childID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.read().tasks.List(store.TaskFilter{AssignedTo: &childID})
	if err != nil {
		return nil, err
	}
	return achievement.Evaluate(*child, tasks, s.now()), nil
}

func (s *Service) Leaderboard(ctx context.Context) ([]leaderboard.Entry, error) {
	r := s.read()
	children, err := r.children.List()
	if err != nil {
		return nil, err
	}
	tasks, err := r.tasks.List(store.TaskFilter{Status: model.TaskCompleted})
	if err != nil {
		return nil, err
	}
	return leaderboard.Rank(children, tasks), nil
}
