package auth

import (
	"context"
	"testing"

	"github.com/dukerupert/earnlearn/internal/model"
)

func TestWithAuthAndFromContext(t *testing.T) {
	ac := AuthContext{
		AccountID: 1,
		Role:      model.RoleChild,
		ChildID:   2,
		SessionID: 3,
	}

	ctx := WithAuth(context.Background(), ac)
	got, ok := FromContext(ctx)
	if !ok {
		t.Fatal("expected AuthContext in context")
	}
	if got.AccountID != 1 {
		t.Errorf("AccountID = %d, want 1", got.AccountID)
	}
	if got.ChildID != 2 {
		t.Errorf("ChildID = %d, want 2", got.ChildID)
	}
	if got.SessionID != 3 {
		t.Errorf("SessionID = %d, want 3", got.SessionID)
	}
	if AccountID(ctx) != 1 || ChildID(ctx) != 2 {
		t.Errorf("helpers = %d, %d, want 1, 2", AccountID(ctx), ChildID(ctx))
	}
	if IsParent(ctx) {
		t.Error("child reported as parent")
	}
}

func TestFromContextMissing(t *testing.T) {
	ctx := context.Background()
	if _, ok := FromContext(ctx); ok {
		t.Error("expected false for missing AuthContext")
	}
	if AccountID(ctx) != 0 || ChildID(ctx) != 0 || IsParent(ctx) {
		t.Error("expected zero values for missing AuthContext")
	}
}

func TestCanView(t *testing.T) {
	parent := AuthContext{Role: model.RoleParent}
	child := AuthContext{Role: model.RoleChild, ChildID: 5}

	if !parent.CanView(5) || !parent.CanView(6) {
		t.Error("parent should view every child")
	}
	if !child.CanView(5) {
		t.Error("child should view themselves")
	}
	if child.CanView(6) {
		t.Error("child should not view a sibling")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "hunter2" {
		t.Fatal("hash equals plain text")
	}
	if !CheckPassword(hash, "hunter2") {
		t.Error("expected password to match")
	}
	if CheckPassword(hash, "hunter3") {
		t.Error("expected wrong password to fail")
	}
	if _, err := HashPassword("abc"); err != ErrPasswordTooShort {
		t.Errorf("short password err = %v, want ErrPasswordTooShort", err)
	}
}
