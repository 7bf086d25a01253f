package models

import "time"

type Organization struct {
	OrgID          string `json:"org_id"`
	OrgName        string `json:"org_name"`
	OrgEmail       string `json:"org_email,omitempty"`
	AdviserName    string `json:"adviser_name,omitempty"`
	AdviserContact string `json:"adviser_contact,omitempty"`
}

const (
	SubmissionSubmitted = "Submitted"
	SubmissionAccepted  = "Accepted"
	SubmissionReturned  = "Returned"
)

// AnnualReport is a row of org_annual_report.
type AnnualReport struct {
	ReportID     string    `json:"report_id"`
	OrgID        string    `json:"org_id"`
	AccountID    string    `json:"account_id"`
	AcademicYear string    `json:"academic_year" form:"academic_year" validate:"required,academic_year"`
	Remarks      string    `json:"remarks,omitempty" form:"remarks" validate:"max=500"`
	DocumentURL  string    `json:"document_url"`
	Status       string    `json:"status"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

// Recognition is a row of org_recognition.
type Recognition struct {
	RecognitionID string    `json:"recognition_id"`
	OrgID         string    `json:"org_id"`
	AccountID     string    `json:"account_id"`
	AcademicYear  string    `json:"academic_year" form:"academic_year" validate:"required,academic_year"`
	Category      string    `json:"category" form:"category" validate:"required,oneof=new renewal"`
	DocumentURL   string    `json:"document_url"`
	Status        string    `json:"status"`
	SubmittedAt   time.Time `json:"submitted_at"`
}
