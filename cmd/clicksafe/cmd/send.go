package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Adeela565/ClickSafe/internal/domain"
	"github.com/Adeela565/ClickSafe/internal/service/campaign"
)

func newSendTestCmd(c *cli) *cobra.Command {
	var template string
	cmd := &cobra.Command{
		Use:   "send-test <to>",
		Short: "Send one template to an address without recording anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Campaigns.SendTest(cmd.Context(), args[0], template); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Test email (%s) sent via %s\n", template, a.Config.Mail.Transport)
			return nil
		},
	}
	cmd.Flags().StringVarP(&template, "template", "t", string(domain.TemplatePasswordReset), "template key")
	return cmd
}

func newLaunchCmd(c *cli) *cobra.Command {
	var (
		template    string
		all         bool
		departments []int64
	)
	cmd := &cobra.Command{
		Use:   "launch",
		Short: "Create a campaign and email the selected recipients",
		Args:  cobra.NoArgs,
		Example: `  clicksafe launch --template invoice_overdue --all
  clicksafe launch -t security_alert --department 1 --department 4`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.Campaigns.Launch(cmd.Context(), campaign.LaunchRequest{
				TemplateKey: template,
				Selector:    domain.RecipientSelector{UseAll: all, DepartmentIDs: departments},
				BaseURL:     a.Config.Tracking.BaseURL,
			})
			var te *domain.TransportError
			if errors.As(err, &te) && res != nil {
				return fmt.Errorf("campaign %d stopped after %d of %d emails: %w", res.CampaignID, te.Sent, res.Recipients, err)
			}
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Campaign %d (%s): sent %d of %d\n", res.CampaignID, res.CampaignName, res.SentCount, res.Recipients)
			if res.Recipients == 0 {
				fmt.Fprintln(out, "Warning: the selection contains no recipients")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&template, "template", "t", "", "template key (see GET /api/templates)")
	cmd.Flags().BoolVar(&all, "all", false, "send to every recipient assigned to a department")
	cmd.Flags().Int64SliceVar(&departments, "department", nil, "department id; repeatable")
	_ = cmd.MarkFlagRequired("template")
	return cmd
}
