package portalclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/joshua-takyi/activityportal/internal/activityform"
	"github.com/joshua-takyi/activityportal/internal/models"
)

var ErrSubmissionInFlight = errors.New("a submission is already in progress")

var fallbackMessages = map[activityform.Mode]string{
	activityform.ModeCreate: "Failed to submit activity request. Please try again.",
	activityform.ModeEdit:   "Failed to submit appeal. Please try again.",
	activityform.ModeAdmin:  "Failed to create activity. Please try again.",
}

// FieldError is a wizard validation failure raised at submit time.
type FieldError struct {
	activityform.Result
}

func (e *FieldError) Error() string {
	return e.Message
}

// Dispatcher sends a finished wizard to the endpoint of its mode. One
// submission runs at a time per dispatcher.
type Dispatcher struct {
	client     *Client
	now        func() time.Time
	submitting atomic.Bool
}

func NewDispatcher(client *Client) *Dispatcher {
	return &Dispatcher{client: client, now: time.Now}
}

// Submitting reports whether a submission is in flight.
func (d *Dispatcher) Submitting() bool {
	return d.submitting.Load()
}

// Submit validates every section and sends the form. On any failure the
// wizard is left on the submission section with its form untouched.
func (d *Dispatcher) Submit(ctx context.Context, w *activityform.Wizard) (*models.Activity, error) {
	if !d.submitting.CompareAndSwap(false, true) {
		return nil, ErrSubmissionInFlight
	}
	defer d.submitting.Store(false)

	if res := w.ValidateAll(); !res.Valid {
		return nil, &FieldError{Result: res}
	}

	mode := w.Rules().Mode
	form := w.Form()
	switch mode {
	case activityform.ModeEdit:
		return d.appeal(ctx, form)
	case activityform.ModeAdmin:
		if d.client.token() == "" {
			return nil, ErrNoSession
		}
		return d.multipart(ctx, "/api/admin/activity", activityform.AdminFields(form), form, fallbackMessages[mode])
	default:
		return d.multipart(ctx, "/activityRequest", activityform.CreateFields(form, d.now()), form, fallbackMessages[mode])
	}
}

func (d *Dispatcher) appeal(ctx context.Context, form *activityform.FormState) (*models.Activity, error) {
	if form.ActivityID == "" {
		return nil, &FieldError{Result: activityform.Result{
			Section: activityform.SectionSubmission,
			Field:   "activityId",
			Message: "the activity being appealed is unknown",
		}}
	}
	var out models.Activity
	req := d.client.request(ctx).SetBody(activityform.BuildAppeal(form))
	if err := d.client.send(req, http.MethodPut, "/activityEdit/edit/"+form.ActivityID, &out, fallbackMessages[activityform.ModeEdit]); err != nil {
		return nil, err
	}
	return &out, nil
}

func (d *Dispatcher) multipart(ctx context.Context, path string, fields map[string]string, form *activityform.FormState, fallback string) (*models.Activity, error) {
	if len(form.Files) != 1 || form.Files[0].Path == "" {
		return nil, &FieldError{Result: activityform.Result{
			Section: activityform.SectionSubmission,
			Field:   "files",
			Message: "exactly one PDF file is required",
		}}
	}
	doc := form.Files[0]
	f, err := os.Open(doc.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", doc.Path, err)
	}
	defer f.Close()

	name := doc.Name
	if name == "" {
		name = filepath.Base(doc.Path)
	}

	var out models.Activity
	req := d.client.request(ctx).
		SetFormData(fields).
		SetFileReader("file", name, f)
	if err := d.client.send(req, http.MethodPost, path, &out, fallback); err != nil {
		return nil, err
	}
	return &out, nil
}
