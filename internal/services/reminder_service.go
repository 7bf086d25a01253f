package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/joshua-takyi/activityportal/internal/models"
)

// ReminderService owns the per-session "reminders shown" state.
type ReminderService struct {
	reminderRepo models.ReminderRepo
}

func NewReminderService(reminderRepo models.ReminderRepo) *ReminderService {
	return &ReminderService{
		reminderRepo: reminderRepo,
	}
}

type ReminderStatus struct {
	Show           bool       `json:"show"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
}

func (rs *ReminderService) Status(ctx context.Context, accountID, sessionID string) (*ReminderStatus, error) {
	if strings.TrimSpace(accountID) == "" || strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("account and session are required")
	}
	state, err := rs.reminderRepo.GetReminderState(ctx, accountID, sessionID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return &ReminderStatus{Show: true}, nil
	}
	at := state.AcknowledgedAt
	return &ReminderStatus{Show: false, AcknowledgedAt: &at}, nil
}

// Acknowledge is idempotent per session.
func (rs *ReminderService) Acknowledge(ctx context.Context, accountID, sessionID string) (*ReminderStatus, error) {
	if strings.TrimSpace(accountID) == "" || strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("account and session are required")
	}
	state := &models.ReminderState{AccountID: accountID, SessionID: sessionID}
	if err := rs.reminderRepo.AcknowledgeReminders(ctx, state); err != nil {
		return nil, err
	}
	return &ReminderStatus{Show: false, AcknowledgedAt: &state.AcknowledgedAt}, nil
}
