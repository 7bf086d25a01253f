package models

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/supabase-community/gotrue-go/types"
)

const (
	AccountTable      = "account"
	OrganizationTable = "organization"
	ActivityTable     = "activity"
	ScheduleTable     = "activity_schedule"
	AnnualReportTable = "org_annual_report"
	RecognitionTable  = "org_recognition"
)

const accountColumns = "account_id,email,full_name,role,org_id,created_at"

type AccountRepo interface {
	AuthenticateUser(ctx context.Context, email, password string) (*types.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*types.TokenResponse, error)
	Logout(ctx context.Context, accessToken string) error
	GetAccountByEmail(ctx context.Context, email string, accessToken string) (*Account, error)
	GetAccount(ctx context.Context, accountID string, accessToken string) (*Account, error)
}

func (su *SupabaseRepo) AuthenticateUser(ctx context.Context, email, password string) (*types.TokenResponse, error) {
	resp, err := su.supabaseClient.Auth.SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate user: %v", err)
	}
	return resp, nil
}

func (su *SupabaseRepo) RefreshToken(ctx context.Context, refreshToken string) (*types.TokenResponse, error) {
	resp, err := su.supabaseClient.Auth.RefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %v", err)
	}
	return resp, nil
}

func (su *SupabaseRepo) Logout(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return nil
	}
	if err := su.supabaseClient.Auth.WithToken(accessToken).Logout(); err != nil {
		return fmt.Errorf("failed to revoke session: %v", err)
	}
	return nil
}

// GetAccountByEmail resolves the logged-in session's email to its account row.
func (su *SupabaseRepo) GetAccountByEmail(ctx context.Context, email string, accessToken string) (*Account, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}

	client, err := su.client(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticated client: %v", err)
	}

	raw, status, err := client.From(AccountTable).
		Select(accountColumns, "", false).
		Ilike("email", email).
		Execute()
	if err != nil {
		if status != 0 {
			return nil, fmt.Errorf("postgrest error: status=%d body=%s err=%v", status, string(raw), err)
		}
		return nil, fmt.Errorf("failed to get account by email: %v", err)
	}

	var accounts []Account
	if err := json.Unmarshal(raw, &accounts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account rows: %v", err)
	}

	// ilike treats "_" as a wildcard, so confirm the match here
	for i := range accounts {
		if strings.EqualFold(accounts[i].Email, email) {
			return &accounts[i], nil
		}
	}
	return nil, fmt.Errorf("account for %s: %w", email, ErrNotFound)
}

func (su *SupabaseRepo) GetAccount(ctx context.Context, accountID string, accessToken string) (*Account, error) {
	if accountID == "" {
		return nil, fmt.Errorf("account ID is required")
	}

	client, err := su.client(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticated client: %v", err)
	}

	raw, _, err := client.From(AccountTable).
		Select(accountColumns, "", false).
		Eq("account_id", accountID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %v", err)
	}

	// Supabase returns an array even for single results
	var accounts []Account
	if err := json.Unmarshal(raw, &accounts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account rows: %v", err)
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("account %s: %w", accountID, ErrNotFound)
	}
	return &accounts[0], nil
}
