package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newImportCmd(c *cli) *cobra.Command {
	var departmentID int64
	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import recipients from a name,email CSV file",
		Long: `Import recipients from a CSV file with the columns name,email.

A header row is detected and skipped. Rows without a valid email are
skipped, and addresses that already exist are counted as duplicates.`,
		Args:    cobra.ExactArgs(1),
		Example: `  clicksafe import staff.csv
  clicksafe import finance.csv --department 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			var dep *int64
			if cmd.Flags().Changed("department") {
				dep = &departmentID
			}
			res, err := a.Directory.ImportCSV(cmd.Context(), f, dep)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d, duplicates %d, skipped %d\n", res.Imported, res.Duplicates, res.Skipped)
			return nil
		},
	}
	cmd.Flags().Int64Var(&departmentID, "department", 0, "department id for every imported recipient")
	return cmd
}
