package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/earnlearn/internal/model"
	"github.com/dukerupert/earnlearn/internal/money"
	"github.com/dukerupert/earnlearn/internal/task"
)

var now = time.Date(2026, 2, 28, 18, 0, 0, 0, time.UTC)

func TestApproveCreditsPoints(t *testing.T) {
	child := model.Child{ID: 1, Name: "Aria", CurrentPoints: 320}
	tk := model.Task{ID: 3, Name: "Mop the Floor", Points: 60, AssignedTo: 1, Status: model.TaskAwaitingApproval}

	entry, err := Approve(&child, &tk, now)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if tk.Status != model.TaskCompleted {
		t.Errorf("status = %q, want %q", tk.Status, model.TaskCompleted)
	}
	if child.CurrentPoints != 380 {
		t.Errorf("current_points = %d, want 380", child.CurrentPoints)
	}
	if entry.Type != model.HistoryEarned {
		t.Errorf("entry type = %q, want %q", entry.Type, model.HistoryEarned)
	}
	if !entry.Amount.Equal(decimal.NewFromInt(60)) {
		t.Errorf("entry amount = %s, want 60", entry.Amount)
	}
	if tk.CompletedAt == nil || !tk.CompletedAt.Equal(now) {
		t.Errorf("completed_at = %v, want %v", tk.CompletedAt, now)
	}
}

func TestApprovePendingTaskIsRejected(t *testing.T) {
	child := model.Child{ID: 1, CurrentPoints: 10}
	tk := model.Task{ID: 1, Points: 60, AssignedTo: 1, Status: model.TaskPending}

	if _, err := Approve(&child, &tk, now); !errors.Is(err, task.ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
	if child.CurrentPoints != 10 {
		t.Errorf("current_points = %d, want unchanged 10", child.CurrentPoints)
	}
	if tk.Status != model.TaskPending {
		t.Errorf("status = %q, want unchanged", tk.Status)
	}
}

func TestApproveWrongChild(t *testing.T) {
	child := model.Child{ID: 2}
	tk := model.Task{ID: 1, Points: 5, AssignedTo: 1, Status: model.TaskAwaitingApproval}
	if _, err := Approve(&child, &tk, now); !errors.Is(err, ErrWrongChild) {
		t.Errorf("err = %v, want ErrWrongChild", err)
	}
}

func TestSubmitAndReject(t *testing.T) {
	child := model.Child{ID: 1}
	tk := model.Task{ID: 1, AssignedTo: 1, Status: model.TaskPending}

	if err := Submit(child, &tk); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := Submit(child, &tk); !errors.Is(err, task.ErrInvalidTransition) {
		t.Errorf("double submit err = %v, want ErrInvalidTransition", err)
	}
	if err := Reject(&tk, now); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if tk.Status != model.TaskPending {
		t.Errorf("status = %q, want %q", tk.Status, model.TaskPending)
	}
	if err := Submit(model.Child{ID: 9}, &tk); !errors.Is(err, ErrWrongChild) {
		t.Errorf("submit by other child err = %v, want ErrWrongChild", err)
	}
}

func TestPayday(t *testing.T) {
	children := []model.Child{
		{ID: 1, Name: "Aria", CurrentPoints: 320, SavingsBalance: decimal.NewFromInt(150)},
		{ID: 2, Name: "Vikram", CurrentPoints: 0, SavingsBalance: decimal.NewFromInt(60)},
	}
	settings := model.FamilySettings{ExchangeRate: decimal.RequireFromString("0.5"), InterestRate: decimal.NewFromInt(5)}

	entries := Payday(children, settings, now)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Type != model.HistoryInterest || entries[0].ChildID != 1 {
		t.Errorf("entry = %+v, want interest for child 1", entries[0])
	}
	if !entries[0].Amount.Equal(decimal.RequireFromString("7.5")) {
		t.Errorf("interest = %s, want 7.5", entries[0].Amount)
	}
	if !children[0].SavingsBalance.Equal(decimal.RequireFromString("157.5")) {
		t.Errorf("savings = %s, want 157.5", children[0].SavingsBalance)
	}
	if children[0].CurrentPoints != 320 {
		t.Errorf("current_points = %d, want untouched 320", children[0].CurrentPoints)
	}
	if !children[0].SettlementPending {
		t.Error("expected settlement pending for child with points")
	}
	if !children[1].SavingsBalance.Equal(decimal.NewFromInt(60)) || children[1].SettlementPending {
		t.Errorf("child without points changed: %+v", children[1])
	}
}

func TestSettleSaveAddsPointUnits(t *testing.T) {
	child := model.Child{ID: 1, CurrentPoints: 100, SettlementPending: true}
	entry, err := Settle(&child, ChoiceSave, decimal.RequireFromString("0.5"), now)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if !child.SavingsBalance.Equal(decimal.NewFromInt(100)) {
		t.Errorf("savings = %s, want 100 (not 50)", child.SavingsBalance)
	}
	if child.CurrentPoints != 0 {
		t.Errorf("current_points = %d, want 0", child.CurrentPoints)
	}
	if child.SettlementPending {
		t.Error("expected settlement flag cleared")
	}
	if entry.Type != model.HistorySaved || money.Format(entry.Amount) != "50.00" {
		t.Errorf("entry = %s %s, want saved 50.00", entry.Type, money.Format(entry.Amount))
	}
}

func TestSettleCashout(t *testing.T) {
	child := model.Child{ID: 1, CurrentPoints: 100, SavingsBalance: decimal.NewFromInt(10)}
	entry, err := Settle(&child, ChoiceCashout, decimal.RequireFromString("0.5"), now)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if entry.Type != model.HistoryCashout {
		t.Errorf("type = %q, want %q", entry.Type, model.HistoryCashout)
	}
	if money.Format(entry.Amount) != "50.00" {
		t.Errorf("amount = %s, want 50.00", money.Format(entry.Amount))
	}
	if child.CurrentPoints != 0 {
		t.Errorf("current_points = %d, want 0", child.CurrentPoints)
	}
	if !child.SavingsBalance.Equal(decimal.NewFromInt(10)) {
		t.Errorf("savings = %s, want unchanged 10", child.SavingsBalance)
	}
}

func TestSettleNothingToSettle(t *testing.T) {
	child := model.Child{ID: 1}
	if _, err := Settle(&child, ChoiceSave, decimal.RequireFromString("0.5"), now); !errors.Is(err, ErrNothingToSettle) {
		t.Errorf("err = %v, want ErrNothingToSettle", err)
	}
}

func TestParseChoice(t *testing.T) {
	if c, err := ParseChoice(" Save "); err != nil || c != ChoiceSave {
		t.Errorf("ParseChoice(Save) = %q, %v", c, err)
	}
	if _, err := ParseChoice("spend"); !errors.Is(err, ErrInvalidChoice) {
		t.Errorf("err = %v, want ErrInvalidChoice", err)
	}
}
