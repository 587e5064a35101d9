package cli

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	userID     int
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "industry",
		Short: "Industry planner - plan and track manufacturing and reaction chains",
		Long: `Industry planner expands a target item into its full production chain,
splits long jobs to fit a maximum job duration, matches running industry jobs
to planned steps and produces shopping lists and cost totals.

Examples:
  industry reference import --file sde.yaml
  industry facility save --name "Nullsec EC" --security nullsec --structure engineering_complex
  industry project create --item 12345 --runs 10 --me 10 --te 20
  industry project show <project-id>
  industry project reconcile <project-id>
  industry project shopping <project-id> --net-assets --prices`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: ./config.yaml, ./configs, /etc/industry-planner)")
	rootCmd.PersistentFlags().IntVar(&userID, "user-id", 0,
		"User ID owning the projects (default from user config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")

	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewAccountCommand())
	rootCmd.AddCommand(NewProjectCommand())
	rootCmd.AddCommand(NewStepCommand())
	rootCmd.AddCommand(NewFacilityCommand())
	rootCmd.AddCommand(NewExclusionCommand())
	rootCmd.AddCommand(NewReferenceCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		exitWithError(err)
	}
}
