package model

import (
	"fmt"
	"strings"
	"time"
)

type Role string

const (
	RoleParent Role = "parent"
	RoleChild  Role = "child"
)

func (r Role) IsValid() bool {
	return r == RoleParent || r == RoleChild
}

func ParseRole(input string) (Role, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "kid" {
		s = string(RoleChild)
	}
	r := Role(s)
	if !r.IsValid() {
		return "", fmt.Errorf("invalid role: %q", input)
	}
	return r, nil
}

type Account struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	ChildID      *int64    `json:"child_id"`
	CreatedAt    time.Time `json:"created_at"`
}

type Session struct {
	ID        int64     `json:"id"`
	AccountID int64     `json:"account_id"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
