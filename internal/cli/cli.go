// Package cli is the portalctl command line: it runs the activity request
// wizard over a form-state JSON file and talks to the portal API.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/joshua-takyi/activityportal/internal/activityform"
	"github.com/joshua-takyi/activityportal/internal/portalclient"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess    = 0
	ExitValidation = 1
	ExitAuth       = 2
	ExitRemote     = 3
	ExitInternal   = 4
)

// exitError carries the exit code a failed command should end with.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

type CLI struct {
	rootCmd *cobra.Command
	now     func() time.Time

	baseURL    string
	token      string
	jsonOutput bool
}

func New() *CLI {
	c := &CLI{now: time.Now}
	c.rootCmd = c.newRootCmd()
	return c
}

// Execute runs the CLI and returns the process exit code.
func (c *CLI) Execute() int {
	err := c.rootCmd.Execute()
	if err == nil {
		return ExitSuccess
	}
	fmt.Fprintf(c.rootCmd.ErrOrStderr(), "portalctl: %v\n", err)

	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitInternal
}

func (c *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "portalctl",
		Short: "Student activity portal client",
		Long: `portalctl checks activity request forms offline and submits them to the
activity portal API. Form files hold the wizard state as JSON.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&c.baseURL, "base-url", os.Getenv("PORTAL_BASE_URL"), "portal API base URL (PORTAL_BASE_URL)")
	cmd.PersistentFlags().StringVar(&c.token, "token", os.Getenv("PORTAL_TOKEN"), "access token (PORTAL_TOKEN)")
	cmd.PersistentFlags().BoolVar(&c.jsonOutput, "json", false, "machine-readable JSON output")

	cmd.AddCommand(c.newValidateCmd())
	cmd.AddCommand(c.newDocumentsCmd())
	cmd.AddCommand(c.newSubmitCmd())
	cmd.AddCommand(c.newLoginCmd())
	cmd.AddCommand(c.newOrgsCmd())
	cmd.AddCommand(c.newSummaryCmd())
	cmd.AddCommand(c.newIncomingCmd())
	cmd.AddCommand(c.newAcademicYearsCmd())
	cmd.AddCommand(c.newApprovalSlipsCmd())

	return cmd
}

// SetArgs and SetOutput are used by tests to drive the root command.
func (c *CLI) SetArgs(args []string) { c.rootCmd.SetArgs(args) }

func (c *CLI) SetOutput(w io.Writer) {
	c.rootCmd.SetOut(w)
	c.rootCmd.SetErr(w)
}

func (c *CLI) client() (*portalclient.Client, error) {
	if c.baseURL == "" {
		return nil, withCode(ExitInternal, errors.New("no API base URL; set PORTAL_BASE_URL or --base-url"))
	}
	client := portalclient.New(c.baseURL)
	if c.token != "" {
		client.SetSession(&portalclient.Session{AccessToken: c.token})
	}
	return client, nil
}

// loadForm reads a form-state file. Attachment paths are relative to the
// file's directory.
func loadForm(path string) (*activityform.FormState, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read form: %w", err)
	}
	var form activityform.FormState
	if err := json.Unmarshal(raw, &form); err != nil {
		return nil, fmt.Errorf("failed to parse form %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	for i := range form.Files {
		if p := form.Files[i].Path; p != "" && !filepath.IsAbs(p) {
			form.Files[i].Path = filepath.Join(dir, p)
		}
	}
	return &form, nil
}

func attach(form *activityform.FormState, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to read attachment: %w", err)
	}
	form.Files = []activityform.Attachment{{
		Name:        filepath.Base(path),
		Path:        path,
		ContentType: "application/pdf",
		Size:        info.Size(),
	}}
	return nil
}

func parseMode(s string) (activityform.Mode, error) {
	mode, ok := activityform.ParseMode(s)
	if !ok {
		return "", withCode(ExitValidation, fmt.Errorf("unknown mode %q (create, edit or admin)", s))
	}
	return mode, nil
}

func (c *CLI) printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// remoteErr maps client failures onto exit codes.
func remoteErr(err error) error {
	if err == nil {
		return nil
	}
	var fe *portalclient.FieldError
	if errors.As(err, &fe) {
		return withCode(ExitValidation, err)
	}
	if errors.Is(err, portalclient.ErrNoSession) {
		return withCode(ExitAuth, err)
	}
	var apiErr *portalclient.APIError
	if errors.As(err, &apiErr) && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden) {
		return withCode(ExitAuth, err)
	}
	return withCode(ExitRemote, err)
}
