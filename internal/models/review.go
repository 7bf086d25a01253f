package models

import (
	"fmt"
	"strings"
)

const (
	ReviewRoleSRO  = "sro"
	ReviewRoleODSA = "odsa"
)

// StaffReview is one reviewer's decision on an activity.
type StaffReview struct {
	Role     string `json:"role" binding:"required,oneof=sro odsa"`
	Decision string `json:"decision" binding:"required,oneof=Approved Rejected Pending"`
	Remarks  string `json:"remarks" binding:"max=1000"`
}

func (r *StaffReview) Sanitize() {
	r.Role = strings.ToLower(strings.TrimSpace(r.Role))
	r.Decision = strings.TrimSpace(r.Decision)
	r.Remarks = strings.TrimSpace(r.Remarks)
}

func (r StaffReview) ValidateReview() error {
	if r.Role != ReviewRoleSRO && r.Role != ReviewRoleODSA {
		return fmt.Errorf("review role must be sro or odsa")
	}
	switch r.Decision {
	case DecisionApproved, DecisionRejected, DecisionPending:
	default:
		return fmt.Errorf("unsupported decision: %s", r.Decision)
	}
	if r.Decision == DecisionRejected && r.Remarks == "" {
		return fmt.Errorf("remarks are required when rejecting")
	}
	return nil
}

// CanReview reports whether an account role may record a decision for a review role.
func CanReview(accountRole, reviewRole string) bool {
	if accountRole == RoleAdmin {
		return true
	}
	return accountRole == reviewRole
}

// Apply writes the decision into the activity's staff fields and returns
// the derived final status.
func (r StaffReview) Apply(a *Activity) Status {
	decision := r.Decision
	var remarks *string
	if r.Remarks != "" {
		rm := r.Remarks
		remarks = &rm
	}
	switch r.Role {
	case ReviewRoleSRO:
		a.SROApprovalStatus = &decision
		a.SRORemarks = remarks
	case ReviewRoleODSA:
		a.ODSAApprovalStatus = &decision
		a.ODSARemarks = remarks
	}
	a.FinalStatus = DeriveFinalStatus(a.SROApprovalStatus, a.ODSAApprovalStatus)
	return a.FinalStatus
}
