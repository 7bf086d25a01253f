package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/joshua-takyi/activityportal/internal/activityform"
	"github.com/joshua-takyi/activityportal/internal/models"
	"github.com/joshua-takyi/activityportal/internal/portalclient"
	"github.com/spf13/cobra"
)

func (c *CLI) newValidateCmd() *cobra.Command {
	var modeFlag, sectionFlag string
	cmd := &cobra.Command{
		Use:   "validate <form.json>",
		Short: "Validate a form the way the wizard does",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := parseMode(modeFlag)
			if err != nil {
				return err
			}
			form, err := loadForm(args[0])
			if err != nil {
				return withCode(ExitInternal, err)
			}

			wizard := activityform.NewWizard(form, mode, c.now)
			var res activityform.Result
			if sectionFlag != "" {
				section, err := activityform.ParseSection(sectionFlag)
				if err != nil {
					return withCode(ExitValidation, err)
				}
				form.ApplyOffCampus()
				res = activityform.ValidateSection(section, form, wizard.Rules(), c.now())
			} else {
				res = wizard.ValidateAll()
			}
			advisory := wizard.Advisory()

			if c.jsonOutput {
				if err := c.printJSON(cmd, map[string]interface{}{"result": res, "advisory": advisory}); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				if res.Valid {
					fmt.Fprintln(out, "OK")
				} else {
					fmt.Fprintf(out, "INVALID [%s] %s: %s\n", res.Section, res.Field, res.Message)
				}
				if advisory != "" {
					fmt.Fprintln(out, "note:", advisory)
				}
			}
			if !res.Valid {
				return withCode(ExitValidation, errors.New(res.Message))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&modeFlag, "mode", string(activityform.ModeCreate), "submission flow: create, edit or admin")
	cmd.Flags().StringVar(&sectionFlag, "section", "", "validate one section only")
	return cmd
}

func (c *CLI) newDocumentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "documents <form.json>",
		Short: "List the documents the activity needs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := loadForm(args[0])
			if err != nil {
				return withCode(ExitInternal, err)
			}
			docs := activityform.RequiredDocumentsFor(form)
			if c.jsonOutput {
				return c.printJSON(cmd, docs)
			}
			for i, d := range docs {
				fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, d.Name)
			}
			return nil
		},
	}
}

func (c *CLI) newSubmitCmd() *cobra.Command {
	var modeFlag, filePath, activityID, reason string
	cmd := &cobra.Command{
		Use:   "submit <form.json>",
		Short: "Validate and submit a form",
		Long: `Submits a form as a new request (create), an appeal of an existing
activity (edit) or a staff-created activity (admin, needs --token).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := parseMode(modeFlag)
			if err != nil {
				return err
			}
			form, err := loadForm(args[0])
			if err != nil {
				return withCode(ExitInternal, err)
			}
			if filePath != "" {
				if err := attach(form, filePath); err != nil {
					return withCode(ExitInternal, err)
				}
			}
			if activityID != "" {
				form.ActivityID = activityID
			}
			if reason != "" {
				form.AppealReason = reason
			}

			client, err := c.client()
			if err != nil {
				return err
			}
			wizard := activityform.NewWizard(form, mode, c.now)
			act, err := portalclient.NewDispatcher(client).Submit(cmd.Context(), wizard)
			if err != nil {
				return remoteErr(err)
			}

			if c.jsonOutput {
				return c.printJSON(cmd, act)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Submitted %s (%s)\n", act.ActivityID, act.FinalStatus)
			return nil
		},
	}
	cmd.Flags().StringVar(&modeFlag, "mode", string(activityform.ModeCreate), "submission flow: create, edit or admin")
	cmd.Flags().StringVar(&filePath, "file", "", "PDF to attach, replacing the form's files")
	cmd.Flags().StringVar(&activityID, "activity", "", "activity being appealed (edit mode)")
	cmd.Flags().StringVar(&reason, "reason", "", "appeal reason (edit mode)")
	return cmd
}

func (c *CLI) newLoginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and print an access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.client()
			if err != nil {
				return err
			}
			s, err := client.Login(cmd.Context(), email, password)
			if err != nil {
				return withCode(ExitAuth, err)
			}
			if c.jsonOutput {
				return c.printJSON(cmd, s)
			}
			fmt.Fprintln(cmd.OutOrStdout(), s.AccessToken)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

// lookupCmd builds a command that fetches something and prints it either
// as JSON or through render.
func (c *CLI) lookupCmd(use, short string, fetch func(ctx context.Context, client *portalclient.Client) (interface{}, error), render func(cmd *cobra.Command, v interface{})) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.client()
			if err != nil {
				return err
			}
			v, err := fetch(cmd.Context(), client)
			if err != nil {
				return remoteErr(err)
			}
			if c.jsonOutput {
				return c.printJSON(cmd, v)
			}
			render(cmd, v)
			return nil
		},
	}
}

func (c *CLI) newOrgsCmd() *cobra.Command {
	var staff bool
	cmd := c.lookupCmd("orgs", "List organizations",
		func(ctx context.Context, client *portalclient.Client) (interface{}, error) {
			if staff {
				return client.StaffOrganizations(ctx)
			}
			return client.Organizations(ctx)
		},
		func(cmd *cobra.Command, v interface{}) {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME")
			for _, o := range v.([]models.Organization) {
				fmt.Fprintf(tw, "%s\t%s\n", o.OrgID, o.OrgName)
			}
			tw.Flush()
		})
	cmd.Flags().BoolVar(&staff, "staff", false, "use the staff dashboard lookup")
	return cmd
}

func (c *CLI) newSummaryCmd() *cobra.Command {
	var filter models.SummaryFilter
	cmd := c.lookupCmd("summary", "Show the staff activity summary",
		func(ctx context.Context, client *portalclient.Client) (interface{}, error) {
			return client.Summary(ctx, filter)
		},
		func(cmd *cobra.Command, v interface{}) {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tACTIVITY\tORGANIZATION\tSTART\tSTATUS")
			for _, s := range v.([]models.ActivitySummary) {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.ActivityID, s.ActivityName, s.OrganizationName, s.StartDate, s.FinalStatus)
			}
			tw.Flush()
		})
	cmd.Flags().StringVar(&filter.ActivityType, "type", "", "activity type")
	cmd.Flags().StringVar(&filter.Status, "status", "", "final status")
	cmd.Flags().StringVar(&filter.OrganizationID, "org", "", "organization ID")
	cmd.Flags().IntVar(&filter.Month, "month", 0, "start month (1-12)")
	cmd.Flags().IntVar(&filter.Year, "year", 0, "start year")
	return cmd
}

func (c *CLI) newIncomingCmd() *cobra.Command {
	return c.lookupCmd("incoming", "List activities waiting on staff",
		func(ctx context.Context, client *portalclient.Client) (interface{}, error) {
			return client.Incoming(ctx)
		},
		func(cmd *cobra.Command, v interface{}) {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tACTIVITY\tSTATUS\tSRO\tODSA")
			for _, a := range v.([]models.Activity) {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", a.ActivityID, a.ActivityName, a.FinalStatus,
					orDash(a.SROApprovalStatus), orDash(a.ODSAApprovalStatus))
			}
			tw.Flush()
		})
}

func (c *CLI) newAcademicYearsCmd() *cobra.Command {
	return c.lookupCmd("academic-years", "List academic years with activities",
		func(ctx context.Context, client *portalclient.Client) (interface{}, error) {
			return client.AcademicYears(ctx)
		},
		func(cmd *cobra.Command, v interface{}) {
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(v.([]string), "\n"))
		})
}

func (c *CLI) newApprovalSlipsCmd() *cobra.Command {
	return c.lookupCmd("approval-slips", "Generate approval slips for approved activities",
		func(ctx context.Context, client *portalclient.Client) (interface{}, error) {
			return client.GenerateApprovalSlips(ctx)
		},
		func(cmd *cobra.Command, v interface{}) {
			slips := v.(*portalclient.ApprovalSlips)
			fmt.Fprintf(cmd.OutOrStdout(), "%d slips: %s\n", slips.Count, slips.URL)
		})
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
