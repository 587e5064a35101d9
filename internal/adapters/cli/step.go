package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/industry-planner/internal/application/industry/commands"
)

// NewStepCommand creates the step command with subcommands
func NewStepCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "step",
		Short: "Edit individual project steps",
		Long: `Edit the steps of a project. Step IDs are shown by 'industry project show --flat'.

Examples:
  industry step update <project-id> <step-id> --purchased
  industry step update <project-id> <step-id> --in-stock 250
  industry step update <project-id> <step-id> --runs 12
  industry step split <project-id> <step-id> --runs 5
  industry step delete <project-id> <step-id>
  industry step attach <project-id> <step-id> <job-id>
  industry step attach <project-id> <step-id> <job-id> --runs 10 --cost 1250000 --character 90000001
  industry step detach <project-id> <step-id> <job-id>`,
	}

	cmd.AddCommand(newStepUpdateCommand())
	cmd.AddCommand(newStepSplitCommand())
	cmd.AddCommand(newStepDeleteCommand())
	cmd.AddCommand(newStepAttachCommand())
	cmd.AddCommand(newStepDetachCommand())

	return cmd
}

func newStepUpdateCommand() *cobra.Command {
	var (
		runs, inStock     int
		purchased, manual bool
	)

	cmd := &cobra.Command{
		Use:   "update <project-id> <step-id>",
		Short: "Change runs, purchase state, stock or manual job flag of a step",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := resolveUserID()
			if err != nil {
				return err
			}
			req := &commands.UpdateStepCommand{UserID: uid, ProjectID: args[0], StepID: args[1]}
			flags := cmd.Flags()
			if flags.Changed("runs") {
				req.Runs = &runs
			}
			if flags.Changed("in-stock") {
				req.InStockQuantity = &inStock
			}
			if flags.Changed("purchased") {
				req.Purchased = &purchased
			}
			if flags.Changed("manual-jobs") {
				req.ManualJobData = &manual
			}
			return withApp(func(ctx context.Context, app *App) error {
				if _, err := send[*commands.StepResponse](ctx, app.Mediator, req); err != nil {
					return err
				}
				fmt.Println("✓ Step updated")
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&runs, "runs", 0, "Run count (marks a split group manual)")
	cmd.Flags().IntVar(&inStock, "in-stock", 0, "Quantity already on hand")
	cmd.Flags().BoolVar(&purchased, "purchased", false, "Mark the material as bought")
	cmd.Flags().BoolVar(&manual, "manual-jobs", false, "Freeze job matches against reconciliation")
	return cmd
}

func newStepSplitCommand() *cobra.Command {
	var runs int

	cmd := &cobra.Command{
		Use:   "split <project-id> <step-id>",
		Short: "Add a manually sized fragment to a step's split group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := resolveUserID()
			if err != nil {
				return err
			}
			return withApp(func(ctx context.Context, app *App) error {
				resp, err := send[*commands.SplitResponse](ctx, app.Mediator, &commands.AddSplitFragmentCommand{
					UserID: uid, ProjectID: args[0], StepID: args[1], Runs: runs,
				})
				if err != nil {
					return err
				}
				fmt.Printf("✓ Fragment added (%d steps, %d split groups)\n", resp.StepCount, resp.SplitGroups)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&runs, "runs", 0, "Runs of the new fragment")
	_ = cmd.MarkFlagRequired("runs")
	return cmd
}

func newStepDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <project-id> <step-id>",
		Short: "Remove a step",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := resolveUserID()
			if err != nil {
				return err
			}
			return withApp(func(ctx context.Context, app *App) error {
				resp, err := send[*commands.StepResponse](ctx, app.Mediator, &commands.DeleteStepCommand{
					UserID: uid, ProjectID: args[0], StepID: args[1],
				})
				if err != nil {
					return err
				}
				fmt.Printf("✓ Step removed (%d steps left)\n", resp.StepCount)
				return nil
			})
		},
	}
}

func parseJobID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid job id %q", arg)
	}
	return id, nil
}

func newStepAttachCommand() *cobra.Command {
	var (
		runs      int
		character int64
		cost      string
		status    string
	)

	cmd := &cobra.Command{
		Use:   "attach <project-id> <step-id> <job-id>",
		Short: "Bind an industry job to a step by hand",
		Long: `Bind an industry job to a step and freeze the step against reconciliation.
A job listed among the step's similar jobs needs only its id. Any other job
needs --runs.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := resolveUserID()
			if err != nil {
				return err
			}
			jobID, err := parseJobID(args[2])
			if err != nil {
				return err
			}
			return withApp(func(ctx context.Context, app *App) error {
				if _, err := send[*commands.StepResponse](ctx, app.Mediator, &commands.AttachJobCommand{
					UserID: uid, ProjectID: args[0], StepID: args[1], JobID: jobID,
					CharacterID: character, Runs: runs, Cost: cost, Status: status,
				}); err != nil {
					return err
				}
				fmt.Printf("✓ Job %d attached\n", jobID)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&runs, "runs", 0, "Runs of the job")
	cmd.Flags().Int64Var(&character, "character", 0, "Character running the job")
	cmd.Flags().StringVar(&cost, "cost", "", "Installation cost in ISK")
	cmd.Flags().StringVar(&status, "status", "", "Job status (active, paused, ready, delivered)")
	return cmd
}

func newStepDetachCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "detach <project-id> <step-id> <job-id>",
		Short: "Unbind an industry job from a step",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := resolveUserID()
			if err != nil {
				return err
			}
			jobID, err := parseJobID(args[2])
			if err != nil {
				return err
			}
			return withApp(func(ctx context.Context, app *App) error {
				if _, err := send[*commands.StepResponse](ctx, app.Mediator, &commands.DetachJobCommand{
					UserID: uid, ProjectID: args[0], StepID: args[1], JobID: jobID,
				}); err != nil {
					return err
				}
				fmt.Printf("✓ Job %d detached\n", jobID)
				return nil
			})
		},
	}
}
