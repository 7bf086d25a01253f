package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/joshua-takyi/activityportal/internal/models"
	"github.com/supabase-community/gotrue-go/types"
)

type AccountService struct {
	accountRepo models.AccountRepo
}

func NewAccountService(accountRepo models.AccountRepo) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
	}
}

func (as *AccountService) AuthenticateUser(ctx context.Context, email, password string) (*types.TokenResponse, error) {
	email = strings.TrimSpace(email)
	if err := models.Validate.Var(email, "required,email"); err != nil {
		return nil, &ValidationError{Field: "email", Message: "invalid email format"}
	}
	if err := models.Validate.Var(password, "required,min=6"); err != nil {
		return nil, &ValidationError{Field: "password", Message: "password must be at least 6 characters"}
	}
	response, err := as.accountRepo.AuthenticateUser(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %v", err)
	}
	return response, nil
}

func (as *AccountService) RefreshToken(ctx context.Context, refreshToken string) (*types.TokenResponse, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("refresh token is required")
	}
	response, err := as.accountRepo.RefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("token refresh failed: %v", err)
	}
	return response, nil
}

func (as *AccountService) Logout(ctx context.Context, accessToken string) error {
	return as.accountRepo.Logout(ctx, accessToken)
}

// ResolveAccount maps the session's email to the internal account record.
func (as *AccountService) ResolveAccount(ctx context.Context, email, accessToken string) (*models.Account, error) {
	if strings.TrimSpace(email) == "" {
		return nil, fmt.Errorf("session has no email: %w", models.ErrNotFound)
	}
	account, err := as.accountRepo.GetAccountByEmail(ctx, email, accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve account: %w", err)
	}
	return account, nil
}

func (as *AccountService) GetAccount(ctx context.Context, accountID, accessToken string) (*models.Account, error) {
	res, err := as.accountRepo.GetAccount(ctx, accountID, accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return res, nil
}
