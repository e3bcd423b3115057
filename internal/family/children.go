package family

import (
	"context"
	"strings"
	"unicode"

	"github.com/dukerupert/earnlearn/internal/model"
)

var avatars = []string{"🐱", "🐶", "🐸", "🦊", "🐻", "🐼"}

// CreateChild adds a child with a unique upper-case code. Avatars cycle
// through a fixed set in creation order.
func (s *Service) CreateChild(ctx context.Context, name, code string) (*model.Child, error) {
	name = strings.TrimSpace(name)
	code = strings.ToUpper(strings.TrimSpace(code))
	if name == "" {
		return nil, invalid("name", "name is required")
	}
	if err := validateCode(code); err != nil {
		return nil, err
	}

	var child *model.Child
	err := s.inTx(ctx, func(r repos) error {
		existing, err := r.children.GetByCode(code)
		if err != nil {
			return err
		}
		if existing != nil {
			return invalid("code", "code already in use")
		}
		n, err := r.children.Count()
		if err != nil {
			return err
		}
		child, err = r.children.Create(code, name, avatars[n%len(avatars)])
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("child created", "child_id", child.ID, "code", child.Code)
	return child, nil
}

func validateCode(code string) error {
	if code == "" {
		return invalid("code", "code is required")
	}
	if len(code) > 16 {
		return invalid("code", "code must be at most 16 characters")
	}
	for _, r := range code {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return invalid("code", "code must be letters and digits only")
		}
	}
	return nil
}

func (s *Service) ListChildren(ctx context.Context) ([]model.Child, error) {
	return s.read().children.List()
}

func (s *Service) GetChild(ctx context.Context, id int64) (*model.Child, error) {
	c, err := s.read().children.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, notFound("get", "child", id)
	}
	return c, nil
}

func (s *Service) History(ctx context.Context, childID int64, limit int) ([]model.HistoryEntry, error) {
	if _, err := s.GetChild(ctx, childID); err != nil {
		return nil, err
	}
	return s.read().history.ListByChild(childID, limit)
}
