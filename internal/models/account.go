package models

import (
	"time"
)

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
	RoleSRO     = "sro"
	RoleODSA    = "odsa"
)

type Account struct {
	AccountID string    `db:"account_id" json:"account_id"`
	Email     string    `db:"email" json:"email"`
	FullName  string    `db:"full_name" json:"full_name,omitempty"`
	Role      string    `db:"role" json:"role,omitempty"`
	OrgID     *string   `db:"org_id" json:"org_id,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at,omitempty"`
}

// IsStaff reports whether the account reviews activities rather than submits them.
func (a *Account) IsStaff() bool {
	switch a.Role {
	case RoleAdmin, RoleSRO, RoleODSA:
		return true
	}
	return false
}
