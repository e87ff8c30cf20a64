// Package cmd provides the commands of the clicksafe admin CLI.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Adeela565/ClickSafe/internal/app"
	"github.com/Adeela565/ClickSafe/internal/config"
	"github.com/Adeela565/ClickSafe/internal/pkg/logger"
)

type cli struct {
	cfgFile string
	verbose bool
	appOpts []app.Option
}

// NewRootCmd builds a fresh command tree. Options are passed to app.New
// by every subcommand that opens the database.
func NewRootCmd(opts ...app.Option) *cobra.Command {
	c := &cli{appOpts: opts}
	root := &cobra.Command{
		Use:   "clicksafe",
		Short: "ClickSafe phishing-simulation admin tool",
		Long: `clicksafe manages recipients, launches simulated phishing campaigns
and exports their results from the command line. It reads the same
configuration file and environment as the server.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (YAML); environment overrides still apply")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(newDepartmentCmd(c))
	root.AddCommand(newImportCmd(c))
	root.AddCommand(newSendTestCmd(c))
	root.AddCommand(newLaunchCmd(c))
	root.AddCommand(newExportCmd(c))
	root.AddCommand(newSummaryCmd(c))
	return root
}

// open loads configuration and wires the application for one command.
func (c *cli) open(cmd *cobra.Command) (*app.App, error) {
	cfg, err := config.LoadFromEnv(c.cfgFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	level := cfg.Log.Level
	if c.verbose {
		level = "debug"
	}
	logger.Configure(logger.Options{Level: level, RedactPII: cfg.Log.Redact()})
	return app.New(cmd.Context(), cfg, c.appOpts...)
}
