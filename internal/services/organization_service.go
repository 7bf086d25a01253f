package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/activityportal/internal/helpers"
	"github.com/joshua-takyi/activityportal/internal/models"
)

type OrganizationService struct {
	orgRepo models.OrganizationRepo
	files   helpers.FileStore
	now     func() time.Time
}

func NewOrganizationService(orgRepo models.OrganizationRepo, files helpers.FileStore) *OrganizationService {
	return &OrganizationService{
		orgRepo: orgRepo,
		files:   files,
		now:     time.Now,
	}
}

func (ors *OrganizationService) ListOrganizations(ctx context.Context) ([]*models.Organization, error) {
	return ors.orgRepo.ListOrganizations(ctx)
}

// canSubmitFor allows staff and members of the organization.
func canSubmitFor(account *models.Account, orgID string) bool {
	if account == nil {
		return false
	}
	if account.IsStaff() {
		return true
	}
	return account.OrgID != nil && *account.OrgID == orgID
}

func (ors *OrganizationService) checkOrg(ctx context.Context, orgID string, account *models.Account) error {
	if strings.TrimSpace(orgID) == "" {
		return &ValidationError{Field: "org_id", Message: "organization ID is required"}
	}
	if !canSubmitFor(account, orgID) {
		return fmt.Errorf("account is not a member of organization %s: %w", orgID, models.ErrForbidden)
	}
	if _, err := ors.orgRepo.GetOrganization(ctx, orgID); err != nil {
		return err
	}
	return nil
}

func validateDocument(doc []byte) error {
	if len(doc) == 0 {
		return &ValidationError{Field: "file", Message: "a PDF file is required"}
	}
	if !helpers.IsPDF(doc) {
		return &ValidationError{Field: "file", Message: helpers.ErrNotPDF.Error()}
	}
	return nil
}

func (ors *OrganizationService) SubmitAnnualReport(ctx context.Context, orgID string, report *models.AnnualReport, doc []byte, account *models.Account, accessToken string) (*models.AnnualReport, error) {
	if err := ors.checkOrg(ctx, orgID, account); err != nil {
		return nil, err
	}
	report.AcademicYear = strings.TrimSpace(report.AcademicYear)
	report.Remarks = strings.TrimSpace(report.Remarks)
	if err := models.Validate.Struct(report); err != nil {
		return nil, &ValidationError{Field: "academic_year", Message: fmt.Sprintf("invalid annual report: %v", err)}
	}
	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	report.ReportID = uuid.NewString()
	report.OrgID = orgID
	report.AccountID = account.AccountID
	report.Status = models.SubmissionSubmitted
	report.SubmittedAt = ors.now()

	url, err := uploadDocument(ctx, ors.files, helpers.AnnualReportFolder,
		helpers.StoredName(orgID+"-"+report.AcademicYear, "pdf"), helpers.PDFContentType, doc)
	if err != nil {
		return nil, err
	}
	report.DocumentURL = url

	return ors.orgRepo.CreateAnnualReport(ctx, report, accessToken)
}

func (ors *OrganizationService) SubmitRecognition(ctx context.Context, orgID string, rec *models.Recognition, doc []byte, account *models.Account, accessToken string) (*models.Recognition, error) {
	if err := ors.checkOrg(ctx, orgID, account); err != nil {
		return nil, err
	}
	rec.AcademicYear = strings.TrimSpace(rec.AcademicYear)
	rec.Category = strings.ToLower(strings.TrimSpace(rec.Category))
	if err := models.Validate.Struct(rec); err != nil {
		return nil, &ValidationError{Field: "category", Message: fmt.Sprintf("invalid recognition application: %v", err)}
	}
	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	rec.RecognitionID = uuid.NewString()
	rec.OrgID = orgID
	rec.AccountID = account.AccountID
	rec.Status = models.SubmissionSubmitted
	rec.SubmittedAt = ors.now()

	url, err := uploadDocument(ctx, ors.files, helpers.RecognitionFolder,
		helpers.StoredName(orgID+"-"+rec.AcademicYear, "pdf"), helpers.PDFContentType, doc)
	if err != nil {
		return nil, err
	}
	rec.DocumentURL = url

	return ors.orgRepo.CreateRecognition(ctx, rec, accessToken)
}

func (ors *OrganizationService) ListAnnualReports(ctx context.Context, orgID string, account *models.Account, accessToken string) ([]*models.AnnualReport, error) {
	if !canSubmitFor(account, orgID) {
		return nil, fmt.Errorf("organization %s: %w", orgID, models.ErrForbidden)
	}
	return ors.orgRepo.ListAnnualReports(ctx, orgID, accessToken)
}

func (ors *OrganizationService) ListRecognitions(ctx context.Context, orgID string, account *models.Account, accessToken string) ([]*models.Recognition, error) {
	if !canSubmitFor(account, orgID) {
		return nil, fmt.Errorf("organization %s: %w", orgID, models.ErrForbidden)
	}
	return ors.orgRepo.ListRecognitions(ctx, orgID, accessToken)
}
