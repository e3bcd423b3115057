package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type HistoryType string

const (
	HistoryEarned   HistoryType = "earned"
	HistoryInterest HistoryType = "interest"
	HistoryCashout  HistoryType = "cashout"
	HistorySaved    HistoryType = "saved"
)

func (h HistoryType) IsValid() bool {
	switch h {
	case HistoryEarned, HistoryInterest, HistoryCashout, HistorySaved:
		return true
	default:
		return false
	}
}

func ParseHistoryType(input string) (HistoryType, error) {
	h := HistoryType(strings.ToLower(strings.TrimSpace(input)))
	if !h.IsValid() {
		return "", fmt.Errorf("invalid history type: %q", input)
	}
	return h, nil
}

// Unit is "pts" for earned entries and "currency" for the rest.
func (h HistoryType) Unit() string {
	if h == HistoryEarned {
		return "pts"
	}
	return "currency"
}

// HistoryEntry is an append-only settlement log line. Amount is points for
// earned entries and currency for interest, cashout and saved entries.
type HistoryEntry struct {
	ID          int64           `json:"id"`
	ChildID     int64           `json:"child_id"`
	Type        HistoryType     `json:"type"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	CreatedAt   time.Time       `json:"created_at"`
}
