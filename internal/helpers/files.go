package helpers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	storage_go "github.com/supabase-community/storage-go"
)

const (
	ActivityFolder     = "activities"
	AnnualReportFolder = "annual-reports"
	RecognitionFolder  = "recognition"
	ApprovalSlipFolder = "approval-slips"

	MaxUploadBytes = 10 << 20

	PDFContentType  = "application/pdf"
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var (
	ErrNotPDF       = errors.New("file must be a PDF")
	ErrFileTooLarge = errors.New("file exceeds the 10MB limit")
)

// FileStore keeps uploaded documents and returns a URL they can be fetched from.
type FileStore interface {
	Upload(ctx context.Context, folder, name, contentType string, r io.Reader) (string, error)
}

// SupabaseFileStore writes into a storage bucket of the Supabase project.
type SupabaseFileStore struct {
	storage *storage_go.Client
	bucket  string
}

func NewSupabaseFileStore(storage *storage_go.Client, bucket string) *SupabaseFileStore {
	return &SupabaseFileStore{storage: storage, bucket: bucket}
}

func (s *SupabaseFileStore) Upload(ctx context.Context, folder, name, contentType string, r io.Reader) (string, error) {
	if s.storage == nil {
		return "", fmt.Errorf("storage client is not initialized")
	}
	path := strings.Trim(folder, "/") + "/" + name
	upsert := false
	_, err := s.storage.UploadFile(s.bucket, path, r, storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %v", path, err)
	}
	return s.storage.GetPublicUrl(s.bucket, path).SignedURL, nil
}

// CloudinaryFileStore uploads documents as raw Cloudinary assets.
type CloudinaryFileStore struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryFileStore(cld *cloudinary.Cloudinary) *CloudinaryFileStore {
	return &CloudinaryFileStore{cld: cld}
}

func (s *CloudinaryFileStore) Upload(ctx context.Context, folder, name, contentType string, r io.Reader) (string, error) {
	if s.cld == nil {
		return "", fmt.Errorf("cloudinary client is not initialized")
	}
	uploadResult, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:       folder,
		PublicID:     name,
		ResourceType: "raw",
		Tags:         []string{"activity-portal"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %v", name, err)
	}
	if uploadResult.Error.Message != "" {
		return "", fmt.Errorf("failed to upload %s: %s", name, uploadResult.Error.Message)
	}
	return uploadResult.SecureURL, nil
}

// IsPDF checks the file signature rather than the declared type.
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(data, []byte("%PDF-"))
}

// ReadPDF loads an uploaded multipart file and checks it is a PDF within
// the size limit.
func ReadPDF(fh *multipart.FileHeader) ([]byte, error) {
	if fh.Size > MaxUploadBytes {
		return nil, ErrFileTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %v", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %v", err)
	}
	if len(data) > MaxUploadBytes {
		return nil, ErrFileTooLarge
	}
	if !IsPDF(data) {
		return nil, ErrNotPDF
	}
	return data, nil
}

// StoredName builds a collision-free object name keeping the extension.
func StoredName(prefix, ext string) string {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if prefix == "" {
		return uuid.NewString() + "." + ext
	}
	return prefix + "-" + uuid.NewString() + "." + ext
}
