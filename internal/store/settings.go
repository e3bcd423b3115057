package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/earnlearn/internal/model"
	"github.com/dukerupert/earnlearn/internal/money"
)

const (
	keyExchangeRate = "exchange_rate"
	keyInterestRate = "interest_rate"
)

type SettingsStore struct {
	db DBTX
}

func NewSettingsStore(db DBTX) *SettingsStore {
	return &SettingsStore{db: db}
}

func (s *SettingsStore) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("setting %q not found", key)
	}
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *SettingsStore) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}

// Family returns the economy settings, falling back to defaults for
// missing keys.
func (s *SettingsStore) Family() (model.FamilySettings, error) {
	fs := model.DefaultFamilySettings()

	var err error
	if fs.ExchangeRate, err = s.rate(keyExchangeRate, fs.ExchangeRate); err != nil {
		return fs, err
	}
	if fs.InterestRate, err = s.rate(keyInterestRate, fs.InterestRate); err != nil {
		return fs, err
	}
	return fs, nil
}

func (s *SettingsStore) rate(key string, fallback decimal.Decimal) (decimal.Decimal, error) {
	var raw string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return fallback, nil
	}
	if err != nil {
		return fallback, fmt.Errorf("get setting %q: %w", key, err)
	}
	rate, err := money.ParseRate(raw)
	if err != nil {
		return fallback, fmt.Errorf("parse setting %q: %w", key, err)
	}
	return rate, nil
}

func (s *SettingsStore) SetFamily(fs model.FamilySettings) error {
	if err := s.Set(keyExchangeRate, fs.ExchangeRate.String()); err != nil {
		return err
	}
	return s.Set(keyInterestRate, fs.InterestRate.String())
}
