package helpers

type EnhancedClaims struct {
	*CustomClaims
	Role      string  `json:"role"`
	UserID    string  `json:"id"`
	AccountID string  `json:"account_id"`
	Email     string  `json:"email,omitempty"`
	Fullname  string  `json:"fullname,omitempty"`
	OrgID     *string `json:"org_id,omitempty"`
	SessionID string  `json:"session_id,omitempty"`
	Token     string  `json:"-"`
}

// IsStaff covers every role that reviews activities.
func (ec *EnhancedClaims) IsStaff() bool {
	switch ec.Role {
	case "admin", "sro", "odsa":
		return true
	}
	return false
}

func (ec *EnhancedClaims) IsOwner(accountID string) bool {
	return ec.AccountID != "" && ec.AccountID == accountID
}

func (ec *EnhancedClaims) GetSafeRole() string {
	if ec.Role == "" {
		return "guest"
	}
	return ec.Role
}

// SessionKey identifies the login session; tokens without a session id
// fall back to their issue time.
func (ec *EnhancedClaims) SessionKey() string {
	if ec.SessionID != "" {
		return ec.SessionID
	}
	if ec.CustomClaims != nil && ec.IssuedAt != nil {
		return ec.IssuedAt.Time.UTC().Format("20060102T150405Z")
	}
	return ""
}
