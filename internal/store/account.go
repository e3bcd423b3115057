package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/earnlearn/internal/model"
)

type AccountStore struct {
	db DBTX
}

func NewAccountStore(db DBTX) *AccountStore {
	return &AccountStore{db: db}
}

func scanAccount(scanner interface{ Scan(...any) error }) (*model.Account, error) {
	var a model.Account
	var childID sql.NullInt64
	err := scanner.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Role, &childID, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	if childID.Valid {
		a.ChildID = &childID.Int64
	}
	return &a, nil
}

const accountCols = `id, username, password_hash, role, child_id, created_at`

func (s *AccountStore) Create(username, passwordHash string, role model.Role, childID *int64) (*model.Account, error) {
	result, err := s.db.Exec(
		`INSERT INTO accounts (username, password_hash, role, child_id) VALUES (?, ?, ?, ?)`,
		username, passwordHash, role, nullInt64(childID),
	)
	if err != nil {
		return nil, fmt.Errorf("insert account: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *AccountStore) GetByID(id int64) (*model.Account, error) {
	row := s.db.QueryRow(`SELECT `+accountCols+` FROM accounts WHERE id = ?`, id)
	a, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

func (s *AccountStore) GetByUsername(username string) (*model.Account, error) {
	row := s.db.QueryRow(`SELECT `+accountCols+` FROM accounts WHERE username = ?`, username)
	a, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get account by username: %w", err)
	}
	return a, nil
}

func (s *AccountStore) ListByRole(role model.Role) ([]model.Account, error) {
	rows, err := s.db.Query(`SELECT `+accountCols+` FROM accounts WHERE role = ? ORDER BY id ASC`, role)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, *a)
	}
	return accounts, rows.Err()
}

func (s *AccountStore) ListByChild(childID int64) ([]model.Account, error) {
	rows, err := s.db.Query(`SELECT `+accountCols+` FROM accounts WHERE child_id = ? ORDER BY id ASC`, childID)
	if err != nil {
		return nil, fmt.Errorf("list accounts by child: %w", err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, *a)
	}
	return accounts, rows.Err()
}
