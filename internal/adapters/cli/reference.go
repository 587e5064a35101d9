package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/industry-planner/internal/application/industry/commands"
)

// NewReferenceCommand creates the reference data command group
func NewReferenceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reference",
		Short: "Manage item and blueprint reference data",
		Long: `Load the item and blueprint tables the planner expands against.

The import file is YAML with two lists:

  items:
    - {id: 34, name: Tritanium, group_id: 18, category: mineral}
  blueprints:
    - blueprint_id: 1001
      product_id: 2001
      activity: manufacturing
      output_per_run: 1
      base_time_seconds: 3600
      materials:
        - {item_id: 34, quantity: 100}

Example:
  industry reference import --file sde.yaml`,
	}

	cmd.AddCommand(newReferenceImportCommand())
	return cmd
}

func newReferenceImportCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace reference data from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", file, err)
			}
			return withApp(func(ctx context.Context, app *App) error {
				resp, err := send[*commands.ImportReferenceDataResponse](ctx, app.Mediator, &commands.ImportReferenceDataCommand{Data: data})
				if err != nil {
					return err
				}
				fmt.Printf("✓ Imported %d items, %d blueprints, %d materials\n", resp.Items, resp.Blueprints, resp.Materials)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "YAML reference dump")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
