package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/industry-planner/internal/application/industry/commands"
)

// NewExclusionCommand creates the exclusion command with subcommands
func NewExclusionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exclusion",
		Short: "Manage items and groups that are always bought",
		Long: `Owner-wide exclusions stop expansion at matching items in every project
expanded afterwards. They are merged with each project's own exclusions.

Examples:
  industry exclusion add item 11399
  industry exclusion add group 334
  industry exclusion remove item 11399`,
	}

	cmd.AddCommand(newExclusionChangeCommand("add", "Exclude an item or group"))
	cmd.AddCommand(newExclusionChangeCommand("remove", "Drop an exclusion"))

	return cmd
}

func newExclusionChangeCommand(action, short string) *cobra.Command {
	return &cobra.Command{
		Use:       action + " <item|group> <id>",
		Short:     short,
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"item", "group"},
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := resolveUserID()
			if err != nil {
				return err
			}
			target, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid id %q: %w", args[1], err)
			}

			var req interface{} = &commands.AddExclusionCommand{UserID: uid, Kind: args[0], TargetID: target}
			if action == "remove" {
				req = &commands.RemoveExclusionCommand{UserID: uid, Kind: args[0], TargetID: target}
			}

			return withApp(func(ctx context.Context, app *App) error {
				resp, err := send[*commands.ExclusionResponse](ctx, app.Mediator, req)
				if err != nil {
					return err
				}
				fmt.Printf("✓ Excluded items: %v\n", resp.ItemIDs)
				fmt.Printf("  Excluded groups: %v\n", resp.GroupIDs)
				return nil
			})
		},
	}
}
