package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func newExportCmd(c *cli) *cobra.Command {
	var (
		campaignID int64
		out        string
		format     string
		archive    bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export tracking events as CSV or XLSX",
		Long: `Export tracking events newest first. Without --out the export is
written to stdout. With --archive the CSV is uploaded to the configured
S3 bucket, or the local export directory when no bucket is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			var cid *int64
			if cmd.Flags().Changed("campaign") {
				cid = &campaignID
			}
			ctx := cmd.Context()

			if archive {
				store, prefix, err := a.Archive(ctx)
				if err != nil {
					return err
				}
				loc, err := a.Reports.ArchiveCSV(ctx, store, prefix, cid, time.Now())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Archived to %s\n", loc)
				return nil
			}

			var w io.Writer = cmd.OutOrStdout()
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			var n int
			switch format {
			case "csv":
				n, err = a.Reports.WriteCSV(ctx, w, cid)
			case "xlsx":
				n, err = a.Reports.WriteXLSX(ctx, w, cid)
			default:
				return fmt.Errorf("unsupported format %q (csv or xlsx)", format)
			}
			if err != nil {
				return err
			}
			if out != "" && out != "-" {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d events to %s\n", n, out)
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&campaignID, "campaign", 0, "limit to one campaign id")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "csv or xlsx")
	cmd.Flags().BoolVar(&archive, "archive", false, "upload the CSV to the export archive")
	return cmd
}

func newSummaryCmd(c *cli) *cobra.Command {
	var campaignID int64
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print delivered, clicked and reported totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			var cid *int64
			if cmd.Flags().Changed("campaign") {
				cid = &campaignID
			}
			s, err := a.Reports.Summarize(cmd.Context(), cid)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Delivered: %d\n", s.Delivered)
			fmt.Fprintf(w, "Clicked:   %d (%.1f%%)\n", s.Clicked, s.ClickRate())
			fmt.Fprintf(w, "Reported:  %d (%.1f%%)\n", s.Reported, s.ReportRate())
			return nil
		},
	}
	cmd.Flags().Int64Var(&campaignID, "campaign", 0, "limit to one campaign id")
	return cmd
}
