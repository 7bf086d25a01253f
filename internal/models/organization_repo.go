package models

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/supabase-community/postgrest-go"
)

type OrganizationRepo interface {
	ListOrganizations(ctx context.Context) ([]*Organization, error)
	GetOrganization(ctx context.Context, orgID string) (*Organization, error)
	CreateAnnualReport(ctx context.Context, report *AnnualReport, accessToken string) (*AnnualReport, error)
	ListAnnualReports(ctx context.Context, orgID string, accessToken string) ([]*AnnualReport, error)
	CreateRecognition(ctx context.Context, rec *Recognition, accessToken string) (*Recognition, error)
	ListRecognitions(ctx context.Context, orgID string, accessToken string) ([]*Recognition, error)
}

func (su *SupabaseRepo) ListOrganizations(ctx context.Context) ([]*Organization, error) {
	data, _, err := su.supabaseClient.From(OrganizationTable).
		Select("org_id,org_name,org_email,adviser_name,adviser_contact", "", false).
		Order("org_name", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get organizations: %v", err)
	}

	var orgs []*Organization
	if err := json.Unmarshal(data, &orgs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal organizations: %v", err)
	}
	if orgs == nil {
		orgs = []*Organization{}
	}
	return orgs, nil
}

func (su *SupabaseRepo) GetOrganization(ctx context.Context, orgID string) (*Organization, error) {
	data, _, err := su.supabaseClient.From(OrganizationTable).
		Select("org_id,org_name,org_email,adviser_name,adviser_contact", "", false).
		Eq("org_id", orgID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get organization: %v", err)
	}

	var orgs []Organization
	if err := json.Unmarshal(data, &orgs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal organization: %v", err)
	}
	if len(orgs) == 0 {
		return nil, fmt.Errorf("organization %s: %w", orgID, ErrNotFound)
	}
	return &orgs[0], nil
}

func (su *SupabaseRepo) CreateAnnualReport(ctx context.Context, report *AnnualReport, accessToken string) (*AnnualReport, error) {
	var created []AnnualReport
	if err := su.insertRow(AnnualReportTable, report, &created, accessToken); err != nil {
		return nil, err
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("no annual report returned after insert")
	}
	return &created[0], nil
}

func (su *SupabaseRepo) ListAnnualReports(ctx context.Context, orgID string, accessToken string) ([]*AnnualReport, error) {
	var reports []*AnnualReport
	if err := su.listByOrg(AnnualReportTable, orgID, &reports, accessToken); err != nil {
		return nil, err
	}
	if reports == nil {
		reports = []*AnnualReport{}
	}
	return reports, nil
}

func (su *SupabaseRepo) CreateRecognition(ctx context.Context, rec *Recognition, accessToken string) (*Recognition, error) {
	var created []Recognition
	if err := su.insertRow(RecognitionTable, rec, &created, accessToken); err != nil {
		return nil, err
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("no recognition application returned after insert")
	}
	return &created[0], nil
}

func (su *SupabaseRepo) ListRecognitions(ctx context.Context, orgID string, accessToken string) ([]*Recognition, error) {
	var recs []*Recognition
	if err := su.listByOrg(RecognitionTable, orgID, &recs, accessToken); err != nil {
		return nil, err
	}
	if recs == nil {
		recs = []*Recognition{}
	}
	return recs, nil
}

func (su *SupabaseRepo) insertRow(table string, row interface{}, out interface{}, accessToken string) error {
	client, err := su.client(accessToken)
	if err != nil {
		return fmt.Errorf("failed to create authenticated client: %v", err)
	}
	data, _, err := client.From(table).
		Insert(row, false, "", "representation", "exact").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to insert into %s: %v", table, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s rows: %v", table, err)
	}
	return nil
}

func (su *SupabaseRepo) listByOrg(table, orgID string, out interface{}, accessToken string) error {
	client, err := su.client(accessToken)
	if err != nil {
		return fmt.Errorf("failed to create authenticated client: %v", err)
	}
	data, _, err := client.From(table).
		Select("*", "", false).
		Eq("org_id", orgID).
		Order("submitted_at", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to list %s: %v", table, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s rows: %v", table, err)
	}
	return nil
}
