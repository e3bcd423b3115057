package store

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/earnlearn/internal/model"
)

func TestHistoryAppendAndList(t *testing.T) {
	db := setupTestDB(t)
	child := createTestChild(t, db, "ARIA01", "Aria")
	hs := NewHistoryStore(db)

	base := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	entries := []model.HistoryEntry{
		{ChildID: child.ID, Type: model.HistoryEarned, Description: "Dishes", Amount: decimal.NewFromInt(20), CreatedAt: base},
		{ChildID: child.ID, Type: model.HistoryInterest, Description: "Monthly Interest", Amount: decimal.RequireFromString("7.5"), CreatedAt: base.Add(time.Hour)},
	}
	for _, e := range entries {
		if _, err := hs.Append(e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := hs.ListByChild(child.ID, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	if got[0].Type != model.HistoryInterest {
		t.Errorf("first type = %q, want newest (interest)", got[0].Type)
	}
	if !got[0].Amount.Equal(decimal.RequireFromString("7.5")) {
		t.Errorf("amount = %s, want 7.5", got[0].Amount)
	}

	limited, _ := hs.ListByChild(child.ID, 1)
	if len(limited) != 1 {
		t.Errorf("limited = %d, want 1", len(limited))
	}
}

func TestHistoryRejectsInvalidType(t *testing.T) {
	db := setupTestDB(t)
	child := createTestChild(t, db, "ARIA01", "Aria")
	_, err := NewHistoryStore(db).Append(model.HistoryEntry{ChildID: child.ID, Type: "refund", Amount: decimal.NewFromInt(1)})
	if err == nil {
		t.Fatal("expected error for invalid type")
	}
}
