package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/industry-planner/internal/application/industry/commands"
	"github.com/andrescamacho/industry-planner/internal/application/industry/queries"
)

// NewFacilityCommand creates the facility command with subcommands
func NewFacilityCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "facility",
		Short: "Manage facility configurations",
		Long: `Manage the structures projects are built in. A facility's security class,
structure type and rigs determine material and time bonuses.

Examples:
  industry facility save --name "Home EC" --security nullsec --structure engineering_complex \
    --rig "Standup M-Set Equipment Material Efficiency I" --default
  industry facility list
  industry facility default <facility-id>
  industry facility delete <facility-id>`,
	}

	cmd.AddCommand(newFacilitySaveCommand())
	cmd.AddCommand(newFacilityListCommand())
	cmd.AddCommand(newFacilityDefaultCommand())
	cmd.AddCommand(newFacilityDeleteCommand())

	return cmd
}

func newFacilitySaveCommand() *cobra.Command {
	var (
		id, name, security, structure string
		rigs                          []string
		makeDefault                   bool
	)

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Create a facility, or replace one with --id",
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := resolveUserID()
			if err != nil {
				return err
			}
			return withApp(func(ctx context.Context, app *App) error {
				resp, err := send[*commands.FacilityResponse](ctx, app.Mediator, &commands.SaveFacilityCommand{
					UserID:      uid,
					FacilityID:  id,
					Name:        name,
					Security:    security,
					Structure:   structure,
					Rigs:        rigs,
					MakeDefault: makeDefault,
				})
				if err != nil {
					return err
				}
				fmt.Printf("✓ Saved facility %s\n", resp.FacilityID)
				if resp.IsDefault {
					fmt.Println("  Default facility for new projects")
				}
				if len(resp.UnknownRigs) > 0 {
					fmt.Printf("⚠ Unknown rigs give no bonus: %s\n", strings.Join(resp.UnknownRigs, ", "))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Existing facility ID to replace")
	cmd.Flags().StringVar(&name, "name", "", "Facility name")
	cmd.Flags().StringVar(&security, "security", "highsec", "Security class (highsec, lowsec, nullsec)")
	cmd.Flags().StringVar(&structure, "structure", "station", "Structure (station, engineering_complex, refinery)")
	cmd.Flags().StringArrayVar(&rigs, "rig", nil, "Installed rig name (repeatable)")
	cmd.Flags().BoolVar(&makeDefault, "default", false, "Make this the default facility")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newFacilityListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List facilities",
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := resolveUserID()
			if err != nil {
				return err
			}
			return withApp(func(ctx context.Context, app *App) error {
				resp, err := send[*queries.ListFacilitiesResponse](ctx, app.Mediator, &queries.ListFacilitiesQuery{UserID: uid})
				if err != nil {
					return err
				}
				if len(resp.Facilities) == 0 {
					fmt.Println("No facilities configured")
					return nil
				}
				w := newTable()
				fmt.Fprintln(w, "ID\tNAME\tSECURITY\tSTRUCTURE\tRIGS\tDEFAULT")
				for _, f := range resp.Facilities {
					def := ""
					if f.IsDefault {
						def = "*"
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n", f.ID, f.Name, f.Security, f.Structure, len(f.Rigs), def)
				}
				return w.Flush()
			})
		},
	}
}

func newFacilityDefaultCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "default <facility-id>",
		Short: "Make a facility the default for new projects",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := resolveUserID()
			if err != nil {
				return err
			}
			return withApp(func(ctx context.Context, app *App) error {
				if _, err := send[*commands.FacilityResponse](ctx, app.Mediator, &commands.SetDefaultFacilityCommand{UserID: uid, FacilityID: args[0]}); err != nil {
					return err
				}
				fmt.Printf("✓ Facility %s is now the default\n", args[0])
				return nil
			})
		},
	}
}

func newFacilityDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <facility-id>",
		Short: "Delete a facility",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := resolveUserID()
			if err != nil {
				return err
			}
			return withApp(func(ctx context.Context, app *App) error {
				if _, err := send[*commands.FacilityResponse](ctx, app.Mediator, &commands.DeleteFacilityCommand{UserID: uid, FacilityID: args[0]}); err != nil {
					return err
				}
				fmt.Printf("✓ Facility %s deleted\n", args[0])
				return nil
			})
		},
	}
}
