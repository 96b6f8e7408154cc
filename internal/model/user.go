package model

import (
	"fmt"
	"strings"
)

// Role is the dashboard a user lands on.
type Role string

const (
	RoleLearner Role = "learner"
	RolePartner Role = "partner"
	RoleAdmin   Role = "admin"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleLearner, RolePartner, RoleAdmin:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// User represents a marketplace account as stored in the `users` table.
//
// Fields:
//  ID     – primary key identifier of the user.
//  Name   – display name used in call notifications.
//  Email  – unique email address.
//  Role   – learner, partner (teacher) or admin.
//  Avatar – optional avatar URL.
type User struct {
	ID     uint64 `json:"id" db:"id"`
	Name   string `json:"name" db:"name"`
	Email  string `json:"email" db:"email"`
	Role   Role   `json:"role" db:"role"`
	Avatar string `json:"avatar,omitempty" db:"avatar"`
}
