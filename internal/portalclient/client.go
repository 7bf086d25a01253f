// Package portalclient talks to the portal API on behalf of a submitter or
// staff member: lookups, login and the three activity submission flows.
package portalclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"
	"github.com/joshua-takyi/activityportal/internal/models"
)

var ErrNoSession = errors.New("no active session, please log in")

// APIError is a non-2xx answer or a transport failure, already turned into
// the text shown to the user.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// envelope mirrors models.ApiResponse with the data left undecoded.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Total   int             `json:"total"`
}

type Client struct {
	http *resty.Client

	mu      sync.RWMutex
	session *Session
}

// New builds a client for the API at baseURL. No timeout is set; calls wait
// on the transport defaults.
func New(baseURL string) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetHeader("Accept", "application/json"),
	}
}

// Session is the token pair handed out by the login and refresh endpoints.
type Session struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	ExpiresIn    int             `json:"expires_in"`
	Account      *models.Account `json:"account,omitempty"`
}

func (c *Client) SetSession(s *Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = s
}

func (c *Client) Session() *Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

func (c *Client) token() string {
	if s := c.Session(); s != nil {
		return s.AccessToken
	}
	return ""
}

func (c *Client) request(ctx context.Context) *resty.Request {
	req := c.http.R().SetContext(ctx)
	if tok := c.token(); tok != "" {
		req.SetAuthToken(tok)
	}
	return req
}

// send runs req and decodes the envelope's data into out. fallback is the
// message used when the backend gives no error text of its own.
func (c *Client) send(req *resty.Request, method, path string, out interface{}, fallback string) error {
	resp, err := req.Execute(method, path)
	if err != nil {
		return &APIError{Message: fmt.Sprintf("%s: %v", fallback, err)}
	}

	var env envelope
	decodeErr := json.Unmarshal(resp.Body(), &env)

	if resp.IsError() {
		msg := fallback
		if decodeErr == nil && strings.TrimSpace(env.Error) != "" {
			msg = env.Error
		}
		return &APIError{Status: resp.StatusCode(), Message: msg}
	}
	if decodeErr != nil {
		return &APIError{Status: resp.StatusCode(), Message: fallback + ": malformed response"}
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &APIError{Status: resp.StatusCode(), Message: fallback + ": malformed response"}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query map[string]string, out interface{}, fallback string) error {
	req := c.request(ctx)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	return c.send(req, http.MethodGet, path, out, fallback)
}

// Login signs in and keeps the returned session on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var s Session
	req := c.http.R().SetContext(ctx).SetBody(map[string]string{
		"email":    email,
		"password": password,
	})
	if err := c.send(req, http.MethodPost, "/api/auth/login", &s, "Login failed"); err != nil {
		return nil, err
	}
	c.SetSession(&s)
	return &s, nil
}

func (c *Client) Logout(ctx context.Context) error {
	if c.Session() == nil {
		return nil
	}
	err := c.send(c.request(ctx), http.MethodPost, "/api/auth/logout", nil, "Logout failed")
	c.SetSession(nil)
	return err
}

func (c *Client) Organizations(ctx context.Context) ([]models.Organization, error) {
	var orgs []models.Organization
	err := c.get(ctx, "/api/organization/list", nil, &orgs, "Failed to load organizations")
	return orgs, err
}

// StaffOrganizations is the organization lookup of the staff dashboard.
func (c *Client) StaffOrganizations(ctx context.Context) ([]models.Organization, error) {
	var orgs []models.Organization
	err := c.get(ctx, "/api/activities/organizations", nil, &orgs, "Failed to load organizations")
	return orgs, err
}

func (c *Client) AcademicYears(ctx context.Context) ([]string, error) {
	var years []string
	err := c.get(ctx, "/api/activities/academic-years", nil, &years, "Failed to load academic years")
	return years, err
}

// Summary lists activities; zero-valued filters are left out of the query.
func (c *Client) Summary(ctx context.Context, f models.SummaryFilter) ([]models.ActivitySummary, error) {
	q := map[string]string{}
	if f.ActivityType != "" {
		q["activity_type"] = f.ActivityType
	}
	if f.Status != "" {
		q["status"] = f.Status
	}
	if f.OrganizationID != "" {
		q["organization"] = f.OrganizationID
	}
	if f.Month != 0 {
		q["month"] = strconv.Itoa(f.Month)
	}
	if f.Year != 0 {
		q["year"] = strconv.Itoa(f.Year)
	}
	var rows []models.ActivitySummary
	err := c.get(ctx, "/api/activities/summary", q, &rows, "Failed to load activity summary")
	return rows, err
}

func (c *Client) Incoming(ctx context.Context) ([]models.Activity, error) {
	var rows []models.Activity
	err := c.get(ctx, "/api/activities/incoming", nil, &rows, "Failed to load incoming activities")
	return rows, err
}

func (c *Client) ActivitiesByAccount(ctx context.Context, accountID string) ([]models.Activity, error) {
	var rows []models.Activity
	err := c.get(ctx, "/activities/user/"+accountID, nil, &rows, "Failed to load activities")
	return rows, err
}

// ApprovalSlips is the generated workbook as reported by the server.
type ApprovalSlips struct {
	URL      string `json:"url"`
	FileName string `json:"file_name"`
	Count    int    `json:"count"`
}

func (c *Client) GenerateApprovalSlips(ctx context.Context) (*ApprovalSlips, error) {
	var slips ApprovalSlips
	if err := c.send(c.request(ctx), http.MethodPost, "/api/generate-approval-slips", &slips, "Failed to generate approval slips"); err != nil {
		return nil, err
	}
	return &slips, nil
}

// ReminderState tells whether the reminders dialog is still due this session.
type ReminderState struct {
	Show bool `json:"show"`
}

func (c *Client) Reminders(ctx context.Context) (*ReminderState, error) {
	var st ReminderState
	if err := c.get(ctx, "/api/session/reminders", nil, &st, "Failed to load reminders"); err != nil {
		return nil, err
	}
	return &st, nil
}

func (c *Client) AcknowledgeReminders(ctx context.Context) (*ReminderState, error) {
	var st ReminderState
	if err := c.send(c.request(ctx), http.MethodPost, "/api/session/reminders/ack", &st, "Failed to save reminders"); err != nil {
		return nil, err
	}
	return &st, nil
}
