package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Adeela565/ClickSafe/internal/service/directory"
)

func newDepartmentCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "department",
		Aliases: []string{"dept"},
		Short:   "Manage departments",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: "Create a department",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			d, err := a.Directory.CreateDepartment(cmd.Context(), directory.DepartmentInput{Name: strings.Join(args, " ")})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created department %d: %s\n", d.ID, d.Name)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List departments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			deps, err := a.Directory.ListDepartments(cmd.Context())
			if err != nil {
				return err
			}
			for _, d := range deps {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", d.ID, d.Name)
			}
			return nil
		},
	})
	return cmd
}
