package family

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/earnlearn/internal/ledger"
	"github.com/dukerupert/earnlearn/internal/model"
)

// Payday accrues interest for every child holding points and leaves their
// settlement pending. It returns the interest entries written.
func (s *Service) Payday(ctx context.Context) ([]model.HistoryEntry, error) {
	now := s.now()
	var written []model.HistoryEntry
	err := s.inTx(ctx, func(r repos) error {
		children, err := r.children.List()
		if err != nil {
			return err
		}
		settings, err := r.settings.Family()
		if err != nil {
			return err
		}

		entries := ledger.Payday(children, settings, now)
		paid := make(map[int64]bool, len(entries))
		for _, e := range entries {
			paid[e.ChildID] = true
		}
		for i := range children {
			if !paid[children[i].ID] {
				continue
			}
			if err := r.children.UpdateBalances(&children[i]); err != nil {
				return err
			}
		}
		for _, e := range entries {
			saved, err := r.history.Append(e)
			if err != nil {
				return err
			}
			written = append(written, *saved)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("payday triggered", "children", len(written))
	return written, nil
}

type SettleResult struct {
	Child *model.Child       `json:"child"`
	Entry model.HistoryEntry `json:"entry"`
}

// Settle applies a child's cash-out or save choice to all current points.
func (s *Service) Settle(ctx context.Context, childID int64, choice ledger.Choice) (*SettleResult, error) {
	if !choice.IsValid() {
		return nil, invalid("choice", "choice must be cashout or save")
	}
	now := s.now()
	var res SettleResult
	err := s.inTx(ctx, func(r repos) error {
		child, err := r.children.GetByID(childID)
		if err != nil {
			return err
		}
		if child == nil {
			return notFound("settle", "child", childID)
		}
		settings, err := r.settings.Family()
		if err != nil {
			return err
		}

		entry, err := ledger.Settle(child, choice, settings.ExchangeRate, now)
		if err != nil {
			return err
		}
		if err := r.children.UpdateBalances(child); err != nil {
			return err
		}
		saved, err := r.history.Append(entry)
		if err != nil {
			return err
		}
		res.Child = child
		res.Entry = *saved
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("settlement applied", "child_id", childID, "choice", choice, "amount", res.Entry.Amount.StringFixed(2))
	return &res, nil
}

func (s *Service) Settings(ctx context.Context) (model.FamilySettings, error) {
	return s.read().settings.Family()
}

func (s *Service) UpdateSettings(ctx context.Context, fs model.FamilySettings) (model.FamilySettings, error) {
	if fs.ExchangeRate.IsNegative() {
		return fs, invalid("exchange_rate", "exchange rate must not be negative")
	}
	if fs.InterestRate.IsNegative() {
		return fs, invalid("interest_rate", "interest rate must not be negative")
	}
	if fs.InterestRate.GreaterThan(decimal.NewFromInt(100)) {
		return fs, invalid("interest_rate", "interest rate must be at most 100")
	}
	err := s.inTx(ctx, func(r repos) error {
		return r.settings.SetFamily(fs)
	})
	if err != nil {
		return fs, err
	}
	return fs, nil
}
