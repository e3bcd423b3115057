package store

import (
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/earnlearn/internal/database"
	"github.com/dukerupert/earnlearn/internal/model"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestChild(t *testing.T, db *sql.DB, code, name string) *model.Child {
	t.Helper()
	c, err := NewChildStore(db).Create(code, name, "🐱")
	if err != nil {
		t.Fatalf("create child %s: %v", name, err)
	}
	return c
}

func TestChildCreate(t *testing.T) {
	db := setupTestDB(t)
	cs := NewChildStore(db)

	c, err := cs.Create("ARIA01", "Aria", "🐱")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.ID == 0 {
		t.Error("expected non-zero ID")
	}
	if c.Code != "ARIA01" || c.Name != "Aria" {
		t.Errorf("child = %+v", c)
	}
	if c.CurrentPoints != 0 {
		t.Errorf("current_points = %d, want 0", c.CurrentPoints)
	}
	if !c.SavingsBalance.IsZero() {
		t.Errorf("savings = %s, want 0", c.SavingsBalance)
	}
	if c.SettlementPending {
		t.Error("expected settlement_pending false")
	}

	second, err := cs.Create("VIK01", "Vikram", "🐶")
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if second.SortOrder != c.SortOrder+1 {
		t.Errorf("sort_order = %d, want %d", second.SortOrder, c.SortOrder+1)
	}
}

func TestChildDuplicateCode(t *testing.T) {
	db := setupTestDB(t)
	cs := NewChildStore(db)

	if _, err := cs.Create("ARIA01", "Aria", ""); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := cs.Create("ARIA01", "Other", ""); err == nil {
		t.Fatal("expected error for duplicate code")
	}
}

func TestChildGetMissing(t *testing.T) {
	db := setupTestDB(t)
	c, err := NewChildStore(db).GetByID(999)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if c != nil {
		t.Errorf("expected nil, got %+v", c)
	}
}

func TestChildUpdateBalances(t *testing.T) {
	db := setupTestDB(t)
	cs := NewChildStore(db)
	c := createTestChild(t, db, "ARIA01", "Aria")

	c.CurrentPoints = 320
	c.SavingsBalance = decimal.RequireFromString("157.5")
	c.SettlementPending = true
	if err := cs.UpdateBalances(c); err != nil {
		t.Fatalf("update balances: %v", err)
	}

	got, err := cs.GetByCode("ARIA01")
	if err != nil {
		t.Fatalf("get by code: %v", err)
	}
	if got.CurrentPoints != 320 {
		t.Errorf("current_points = %d, want 320", got.CurrentPoints)
	}
	if !got.SavingsBalance.Equal(decimal.RequireFromString("157.5")) {
		t.Errorf("savings = %s, want 157.5", got.SavingsBalance)
	}
	if !got.SettlementPending {
		t.Error("expected settlement_pending true")
	}
}

func TestChildList(t *testing.T) {
	db := setupTestDB(t)
	createTestChild(t, db, "ARIA01", "Aria")
	createTestChild(t, db, "VIK01", "Vikram")

	children, err := NewChildStore(db).List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(children) != 2 {
		t.Fatalf("got %d children, want 2", len(children))
	}
	if children[0].Name != "Aria" || children[1].Name != "Vikram" {
		t.Errorf("order = %s, %s", children[0].Name, children[1].Name)
	}

	n, err := NewChildStore(db).Count()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Errorf("count = %d, want 2", n)
	}
}
