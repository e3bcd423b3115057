package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
)

func TestWithTxRollsBackOnError(t *testing.T) {
	db := setupTestDB(t)
	boom := errors.New("boom")

	err := WithTx(context.Background(), db, func(tx *sql.Tx) error {
		if _, err := NewChildStore(tx).Create("ARIA01", "Aria", ""); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}

	n, _ := NewChildStore(db).Count()
	if n != 0 {
		t.Errorf("children = %d, want 0 after rollback", n)
	}
}

func TestWithTxCommits(t *testing.T) {
	db := setupTestDB(t)
	err := WithTx(context.Background(), db, func(tx *sql.Tx) error {
		_, err := NewChildStore(tx).Create("ARIA01", "Aria", "")
		return err
	})
	if err != nil {
		t.Fatalf("with tx: %v", err)
	}
	n, _ := NewChildStore(db).Count()
	if n != 1 {
		t.Errorf("children = %d, want 1", n)
	}
}
