package store

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/earnlearn/internal/model"
)

func TestSettingsDefaults(t *testing.T) {
	db := setupTestDB(t)
	fs, err := NewSettingsStore(db).Family()
	if err != nil {
		t.Fatalf("family: %v", err)
	}
	if !fs.ExchangeRate.Equal(decimal.RequireFromString("0.5")) {
		t.Errorf("exchange_rate = %s, want 0.5", fs.ExchangeRate)
	}
	if !fs.InterestRate.Equal(decimal.NewFromInt(5)) {
		t.Errorf("interest_rate = %s, want 5", fs.InterestRate)
	}
}

func TestSettingsSetFamily(t *testing.T) {
	db := setupTestDB(t)
	ss := NewSettingsStore(db)

	want := model.FamilySettings{
		ExchangeRate: decimal.RequireFromString("0.25"),
		InterestRate: decimal.RequireFromString("2.5"),
	}
	if err := ss.SetFamily(want); err != nil {
		t.Fatalf("set family: %v", err)
	}
	got, err := ss.Family()
	if err != nil {
		t.Fatalf("family: %v", err)
	}
	if !got.ExchangeRate.Equal(want.ExchangeRate) || !got.InterestRate.Equal(want.InterestRate) {
		t.Errorf("settings = %+v, want %+v", got, want)
	}

	raw, err := ss.Get("interest_rate")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if raw != "2.5" {
		t.Errorf("raw = %q, want 2.5", raw)
	}
}

func TestSettingsGetMissing(t *testing.T) {
	db := setupTestDB(t)
	if _, err := NewSettingsStore(db).Get("nope"); err == nil {
		t.Fatal("expected error for missing key")
	}
}
