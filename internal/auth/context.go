package auth

import (
	"context"

	"github.com/dukerupert/earnlearn/internal/model"
)

type contextKey struct{}

// AuthContext identifies the caller of a request. ChildID is set only for
// child accounts.
type AuthContext struct {
	AccountID int64
	Role      model.Role
	ChildID   int64
	SessionID int64
}

func (ac AuthContext) IsParent() bool {
	return ac.Role == model.RoleParent
}

// CanView reports whether the caller may read data belonging to childID.
func (ac AuthContext) CanView(childID int64) bool {
	return ac.IsParent() || ac.ChildID == childID
}

func WithAuth(ctx context.Context, ac AuthContext) context.Context {
	return context.WithValue(ctx, contextKey{}, ac)
}

func FromContext(ctx context.Context) (AuthContext, bool) {
	ac, ok := ctx.Value(contextKey{}).(AuthContext)
	return ac, ok
}

func AccountID(ctx context.Context) int64 {
	ac, ok := FromContext(ctx)
	if !ok {
		return 0
	}
	return ac.AccountID
}

func ChildID(ctx context.Context) int64 {
	ac, ok := FromContext(ctx)
	if !ok {
		return 0
	}
	return ac.ChildID
}

func IsParent(ctx context.Context) bool {
	ac, ok := FromContext(ctx)
	if !ok {
		return false
	}
	return ac.IsParent()
}
