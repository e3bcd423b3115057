package family

import (
	"context"
	"errors"
	"strings"

	"github.com/dukerupert/earnlearn/internal/auth"
	"github.com/dukerupert/earnlearn/internal/model"
)

// ErrBadCredentials is returned by Authenticate for an unknown user or a
// wrong password.
var ErrBadCredentials = errors.New("invalid username or password")

// CreateAccount registers a login. Child accounts must name an existing
// child; parent accounts must not.
func (s *Service) CreateAccount(ctx context.Context, username, password string, role model.Role, childID *int64) (*model.Account, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, invalid("username", "username is required")
	}
	if !role.IsValid() {
		return nil, invalid("role", "role must be parent or child")
	}
	if role == model.RoleChild && childID == nil {
		return nil, invalid("child_id", "child accounts must be linked to a child")
	}
	if role == model.RoleParent {
		childID = nil
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, invalid("password", err.Error())
	}

	var acct *model.Account
	err = s.inTx(ctx, func(r repos) error {
		existing, err := r.accounts.GetByUsername(username)
		if err != nil {
			return err
		}
		if existing != nil {
			return invalid("username", "username already taken")
		}
		if childID != nil {
			child, err := r.children.GetByID(*childID)
			if err != nil {
				return err
			}
			if child == nil {
				return invalid("child_id", "unknown child")
			}
		}
		acct, err = r.accounts.Create(username, hash, role, childID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("account created", "account_id", acct.ID, "role", acct.Role)
	return acct, nil
}

func (s *Service) Authenticate(ctx context.Context, username, password string) (*model.Account, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	acct, err := s.read().accounts.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if acct == nil || !auth.CheckPassword(acct.PasswordHash, password) {
		return nil, ErrBadCredentials
	}
	return acct, nil
}

func (s *Service) GetAccount(ctx context.Context, id int64) (*model.Account, error) {
	acct, err := s.read().accounts.GetByID(id)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, notFound("get", "account", id)
	}
	return acct, nil
}
