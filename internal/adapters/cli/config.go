package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/industry-planner/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage industry planner configuration settings.

IND_* variables (and DATABASE_URL) win over config.yaml, which wins over the
built-in defaults.

The default user is kept in ~/.industry-planner/preferences.yaml

Examples:
  industry config show
  industry config set-user --user-id 1
  industry config clear-user`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetUserCommand())
	cmd.AddCommand(newConfigClearUserCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				fmt.Printf("Warning: Failed to load config: %v\n", err)
				fmt.Println("Using default configuration.")
				cfg = config.LoadConfigOrDefault(configPath)
			}

			prefs, err := config.NewPreferencesStore()
			if err != nil {
				return fmt.Errorf("failed to open preferences: %w", err)
			}
			userPrefs, err := prefs.Load()
			if err != nil {
				fmt.Printf("Warning: Failed to load preferences: %v\n\n", err)
				userPrefs = &config.Preferences{}
			}

			fmt.Println("Industry Planner Configuration")
			fmt.Println("==============================")

			fmt.Println("User Preferences:")
			fmt.Printf("  Preferences:      %s\n", prefs.Path())
			if userPrefs.DefaultUserID != nil {
				fmt.Printf("  Default User:     %d\n", *userPrefs.DefaultUserID)
			} else {
				fmt.Println("  Default User:     (not set)")
			}

			fmt.Println("\nDatabase:")
			fmt.Printf("  Type:             %s\n", cfg.Database.Type)
			switch {
			case cfg.Database.URL != "":
				fmt.Printf("  URL:              %s\n", maskPassword(cfg.Database.URL))
			case cfg.Database.Type == "sqlite":
				fmt.Printf("  Path:             %s\n", cfg.Database.Path)
			default:
				fmt.Printf("  Host:             %s:%d\n", cfg.Database.Host, cfg.Database.Port)
				fmt.Printf("  Database:         %s\n", cfg.Database.Name)
			}

			fmt.Println("\nAPI:")
			fmt.Printf("  Base URL:         %s\n", cfg.ESI.BaseURL)
			fmt.Printf("  Timeout:          %s\n", cfg.ESI.Timeout)
			fmt.Printf("  Rate Limit:       %d req/s (burst: %d)\n", cfg.ESI.RateLimit.Requests, cfg.ESI.RateLimit.Burst)
			fmt.Printf("  Max Retries:      %d\n", cfg.ESI.Retry.MaxAttempts)
			fmt.Printf("  Feed Concurrency: %d\n", cfg.Feed.Concurrency)

			fmt.Println("\nPlanner:")
			fmt.Printf("  Component ME/TE:  %d/%d\n", cfg.Planner.ComponentME, cfg.Planner.ComponentTE)
			fmt.Printf("  Max Depth:        %d\n", cfg.Planner.MaxDepth)
			fmt.Printf("  Max Job Days:     %g\n", cfg.Planner.DefaultMaxDurationDays)

			fmt.Println("\nLogging:")
			fmt.Printf("  Level:            %s\n", cfg.Logging.Level)
			fmt.Printf("  Format:           %s\n", cfg.Logging.Format)
			fmt.Printf("  Output:           %s\n", cfg.Logging.Output)

			if cfg.Metrics.Enabled {
				fmt.Println("\nMetrics:")
				fmt.Printf("  Textfile:         %s\n", cfg.Metrics.TextfilePath)
			}
			return nil
		},
	}
}

func newConfigSetUserCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-user",
		Short: "Set the default user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID <= 0 {
				return fmt.Errorf("--user-id is required")
			}
			prefs, err := config.NewPreferencesStore()
			if err != nil {
				return fmt.Errorf("failed to open preferences: %w", err)
			}
			if err := prefs.SetDefaultUser(userID); err != nil {
				return fmt.Errorf("failed to set default user: %w", err)
			}
			fmt.Printf("✓ Default user set to %d\n", userID)
			return nil
		},
	}
}

func newConfigClearUserCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-user",
		Short: "Clear the default user",
		RunE: func(cmd *cobra.Command, args []string) error {
			prefs, err := config.NewPreferencesStore()
			if err != nil {
				return fmt.Errorf("failed to open preferences: %w", err)
			}
			if err := prefs.ClearDefaultUser(); err != nil {
				return fmt.Errorf("failed to clear default user: %w", err)
			}
			fmt.Println("✓ Default user cleared")
			return nil
		},
	}
}

// maskPassword hides the password of a connection URL
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "****")
	}
	return u.String()
}
