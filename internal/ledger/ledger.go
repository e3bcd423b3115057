// Package ledger applies the point economy: crediting approved tasks, payday
// interest and a child's settlement choice. Functions mutate the values they
// are given and return the history entries to append; persistence is the
// caller's job.
package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/earnlearn/internal/model"
	"github.com/dukerupert/earnlearn/internal/money"
	"github.com/dukerupert/earnlearn/internal/task"
)

var (
	ErrNothingToSettle = errors.New("no points to settle")
	ErrInvalidChoice   = errors.New("invalid settlement choice")
	ErrWrongChild      = errors.New("task is not assigned to this child")
)

type Choice string

const (
	ChoiceCashout Choice = "cashout"
	ChoiceSave    Choice = "save"
)

func (c Choice) IsValid() bool {
	return c == ChoiceCashout || c == ChoiceSave
}

func ParseChoice(input string) (Choice, error) {
	c := Choice(strings.ToLower(strings.TrimSpace(input)))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidChoice, input)
	}
	return c, nil
}

// Submit marks a Pending task as awaiting approval on behalf of its assignee.
func Submit(child model.Child, t *model.Task) error {
	if t.AssignedTo != child.ID {
		return ErrWrongChild
	}
	return task.Apply(t, task.ActionSubmit)
}

// Approve completes t and credits its points to child.
func Approve(child *model.Child, t *model.Task, now time.Time) (model.HistoryEntry, error) {
	if t.AssignedTo != child.ID {
		return model.HistoryEntry{}, ErrWrongChild
	}
	if err := task.Apply(t, task.ActionApprove); err != nil {
		return model.HistoryEntry{}, err
	}
	t.CompletedAt = &now
	t.UpdatedAt = now
	child.CurrentPoints += t.Points
	return model.HistoryEntry{
		ChildID:     child.ID,
		Type:        model.HistoryEarned,
		Description: t.Name,
		Amount:      money.Points(t.Points),
		CreatedAt:   now,
	}, nil
}

// Reject sends t back to Pending.
func Reject(t *model.Task, now time.Time) error {
	if err := task.Apply(t, task.ActionReject); err != nil {
		return err
	}
	t.UpdatedAt = now
	return nil
}

// Payday accrues interest on savings for every child holding unsettled
// points and marks their settlement as pending. CurrentPoints is untouched.
func Payday(children []model.Child, settings model.FamilySettings, now time.Time) []model.HistoryEntry {
	var entries []model.HistoryEntry
	for i := range children {
		c := &children[i]
		if c.CurrentPoints <= 0 {
			continue
		}
		interest := money.Interest(c.SavingsBalance, settings.InterestRate)
		c.SavingsBalance = c.SavingsBalance.Add(interest)
		c.SettlementPending = true
		entries = append(entries, model.HistoryEntry{
			ChildID:     c.ID,
			Type:        model.HistoryInterest,
			Description: "Monthly Interest",
			Amount:      interest,
			CreatedAt:   now,
		})
	}
	return entries
}

// Settle converts child's current points according to choice.
//
// Saving adds the raw point count to the savings balance; the history entry
// records the currency value either way.
func Settle(child *model.Child, choice Choice, exchangeRate decimal.Decimal, now time.Time) (model.HistoryEntry, error) {
	if !choice.IsValid() {
		return model.HistoryEntry{}, fmt.Errorf("%w: %q", ErrInvalidChoice, choice)
	}
	if child.CurrentPoints <= 0 {
		return model.HistoryEntry{}, ErrNothingToSettle
	}

	value := money.ToCurrency(child.CurrentPoints, exchangeRate)
	entry := model.HistoryEntry{
		ChildID:   child.ID,
		Amount:    value,
		CreatedAt: now,
	}

	switch choice {
	case ChoiceCashout:
		entry.Type = model.HistoryCashout
		entry.Description = "Cashed Out"
	case ChoiceSave:
		child.SavingsBalance = child.SavingsBalance.Add(money.Points(child.CurrentPoints))
		entry.Type = model.HistorySaved
		entry.Description = "Sent to Bank"
	}

	child.CurrentPoints = 0
	child.SettlementPending = false
	return entry, nil
}
