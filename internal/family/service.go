// Package family runs every mutating family operation as one SQLite
// transaction over the pure task, recurrence and ledger packages.
package family

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukerupert/earnlearn/internal/model"
	"github.com/dukerupert/earnlearn/internal/store"
	"github.com/dukerupert/earnlearn/internal/task"
)

type Service struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

func NewService(db *sql.DB, logger *slog.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// SetClock replaces the time source.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// repos groups the stores bound to one connection or transaction.
type repos struct {
	children  *store.ChildStore
	tasks     *store.TaskStore
	templates *store.TemplateStore
	history   *store.HistoryStore
	settings  *store.SettingsStore
	accounts  *store.AccountStore
}

func newRepos(db store.DBTX) repos {
	return repos{
		children:  store.NewChildStore(db),
		tasks:     store.NewTaskStore(db),
		templates: store.NewTemplateStore(db),
		history:   store.NewHistoryStore(db),
		settings:  store.NewSettingsStore(db),
		accounts:  store.NewAccountStore(db),
	}
}

func (s *Service) read() repos {
	return newRepos(s.db)
}

func (s *Service) inTx(ctx context.Context, fn func(r repos) error) error {
	return store.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		return fn(newRepos(tx))
	})
}

// casError turns a lost compare-and-set into an invalid transition.
func casError(err error, from model.TaskStatus) error {
	if errors.Is(err, store.ErrConflict) {
		return fmt.Errorf("%w: task is no longer %s", task.ErrInvalidTransition, from.Label())
	}
	return err
}
