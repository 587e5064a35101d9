package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/andrescamacho/industry-planner/internal/application/industry/commands"
	"github.com/andrescamacho/industry-planner/internal/application/industry/queries"
	"github.com/andrescamacho/industry-planner/internal/application/industry/services"
)

// NewProjectCommand creates the project command with subcommands
func NewProjectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Plan and track production projects",
		Long: `Create production projects, inspect their step lists and keep them in
sync with running industry jobs.

Examples:
  industry project create --item 12345 --runs 10 --me 10 --te 20 --max-days 7
  industry project list --status active
  industry project show <project-id>
  industry project update <project-id> --runs 20
  industry project resplit <project-id> --max-days 3
  industry project reconcile <project-id>
  industry project shopping <project-id> --net-assets
  industry project totals <project-id>`,
	}

	cmd.AddCommand(newProjectCreateCommand())
	cmd.AddCommand(newProjectPreviewCommand())
	cmd.AddCommand(newProjectListCommand())
	cmd.AddCommand(newProjectShowCommand())
	cmd.AddCommand(newProjectUpdateCommand())
	cmd.AddCommand(newProjectResplitCommand())
	cmd.AddCommand(newProjectReconcileCommand())
	cmd.AddCommand(newProjectShoppingCommand())
	cmd.AddCommand(newProjectTotalsCommand())
	cmd.AddCommand(newProjectLifecycleCommand("complete", "Mark a project completed"))
	cmd.AddCommand(newProjectLifecycleCommand("reopen", "Return a completed project to active"))
	cmd.AddCommand(newProjectLifecycleCommand("delete", "Delete a project and its steps"))

	return cmd
}

type expansionFlags struct {
	itemID        int
	runs          int
	me            int
	te            int
	maxDays       float64
	excludeItems  []int
	excludeGroups []int
	inStock       []int
	facilityID    string
}

func (f *expansionFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.itemID, "item", 0, "Target item ID")
	cmd.Flags().IntVar(&f.runs, "runs", 1, "Runs of the target blueprint")
	cmd.Flags().IntVar(&f.me, "me", 0, "Material efficiency of the target blueprint (0-10)")
	cmd.Flags().IntVar(&f.te, "te", 0, "Time efficiency of the target blueprint (0-20, even)")
	cmd.Flags().Float64Var(&f.maxDays, "max-days", 0, "Maximum job duration in days (default from config)")
	cmd.Flags().IntSliceVar(&f.excludeItems, "exclude-item", nil, "Item IDs to buy instead of build")
	cmd.Flags().IntSliceVar(&f.excludeGroups, "exclude-group", nil, "Item group IDs to buy instead of build")
	cmd.Flags().IntSliceVar(&f.inStock, "in-stock", nil, "Producible item IDs already on hand")
	cmd.Flags().StringVar(&f.facilityID, "facility", "", "Facility ID (default facility when omitted)")
	_ = cmd.MarkFlagRequired("item")
}

func newProjectCreateCommand() *cobra.Command {
	var (
		flags     expansionFlags
		jobsStart string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project and expand its production chain",
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := resolveUserID()
			if err != nil {
				return err
			}
			var start *time.Time
			if jobsStart != "" {
				t, err := time.Parse("2006-01-02", jobsStart)
				if err != nil {
					return fmt.Errorf("invalid --jobs-start (want YYYY-MM-DD): %w", err)
				}
				start = &t
			}

			return withApp(func(ctx context.Context, app *App) error {
				resp, err := send[*commands.CreateProjectResponse](ctx, app.Mediator, &commands.CreateProjectCommand{
					UserID:           uid,
					TargetItemID:     flags.itemID,
					Runs:             flags.runs,
					MELevel:          flags.me,
					TELevel:          flags.te,
					MaxDurationDays:  flags.maxDays,
					ExcludedItemIDs:  flags.excludeItems,
					ExcludedGroupIDs: flags.excludeGroups,
					InStockItemIDs:   flags.inStock,
					FacilityID:       flags.facilityID,
					JobsStartDate:    start,
				})
				if err != nil {
					return err
				}
				fmt.Printf("✓ Created project %s\n", resp.ProjectID)
				fmt.Printf("  Target: %s\n", resp.TargetName)
				fmt.Printf("  Steps:  %d\n", resp.StepCount)
				return nil
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&jobsStart, "jobs-start", "", "Ignore jobs started before this date (YYYY-MM-DD)")
	return cmd
}

func newProjectPreviewCommand() *cobra.Command {
	var flags expansionFlags

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Expand a production chain without saving it",
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := resolveUserID()
			if err != nil {
				return err
			}
			return withApp(func(ctx context.Context, app *App) error {
				resp, err := send[*queries.PreviewExpansionResponse](ctx, app.Mediator, &queries.PreviewExpansionQuery{
					UserID:           uid,
					ItemID:           flags.itemID,
					Runs:             flags.runs,
					MELevel:          flags.me,
					TELevel:          flags.te,
					MaxDurationDays:  flags.maxDays,
					ExcludedItemIDs:  flags.excludeItems,
					ExcludedGroupIDs: flags.excludeGroups,
					InStockItemIDs:   flags.inStock,
					FacilityID:       flags.facilityID,
				})
				if err != nil {
					return err
				}
				fmt.Print(NewTreeFormatter(true).FormatTree(resp.Steps))
				fmt.Println()
				printShoppingList(resp.Shopping)
				return nil
			})
		},
	}

	flags.register(cmd)
	return cmd
}

func newProjectListCommand() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := resolveUserID()
			if err != nil {
				return err
			}
			return withApp(func(ctx context.Context, app *App) error {
				resp, err := send[*queries.ListProjectsResponse](ctx, app.Mediator, &queries.ListProjectsQuery{UserID: uid, Status: status})
				if err != nil {
					return err
				}
				if len(resp.Projects) == 0 {
					fmt.Println("No projects found")
					return nil
				}
				w := newTable()
				fmt.Fprintln(w, "ID\tTARGET\tSTATUS\tRUNS\tSTEPS\tCREATED")
				for _, p := range resp.Projects {
					fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
						p.ID, p.TargetName, p.Status, p.Runs, p.StepCount, p.CreatedAt.Format("2006-01-02"))
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (active, completed)")
	return cmd
}

func newProjectShowCommand() *cobra.Command {
	var flat bool

	cmd := &cobra.Command{
		Use:   "show <project-id>",
		Short: "Show a project with its production tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := resolveUserID()
			if err != nil {
				return err
			}
			return withApp(func(ctx context.Context, app *App) error {
				resp, err := send[*queries.GetProjectResponse](ctx, app.Mediator, &queries.GetProjectQuery{UserID: uid, ProjectID: args[0]})
				if err != nil {
					return err
				}
				p := resp.Project
				fmt.Printf("Project %s\n", p.ID)
				fmt.Printf("  Target:        %s (%d) x%d runs\n", p.TargetName, p.TargetItemID, p.Runs)
				fmt.Printf("  Status:        %s\n", p.Status)
				fmt.Printf("  ME/TE:         %d/%d\n", p.MELevel, p.TELevel)
				fmt.Printf("  Max job days:  %g\n", p.MaxDurationDays)
				fmt.Printf("  Facility:      %s\n", orDash(p.FacilityID))
				fmt.Printf("  Jobs since:    %s\n\n", p.JobsStartDate.Format("2006-01-02"))
				if flat {
					printStepTable(p.Steps)
					return nil
				}
				fmt.Print(NewTreeFormatter(true).FormatTree(p.Steps))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&flat, "flat", false, "Print steps as a table with IDs")
	return cmd
}

func newProjectUpdateCommand() *cobra.Command {
	var (
		runs, me, te                           int
		maxDays                                float64
		facilityID                             string
		excludeItems, excludeGroups, inStock   []int
		blueprintCost, materialCost, transport string
		tax, sellPrice                         string
		clearSell                              bool
		jobsStart                              string
	)

	cmd := &cobra.Command{
		Use:   "update <project-id>",
		Short: "Change project settings, costs or sell price",
		Long: `Change a project. Runs, ME, TE, exclusions, in-stock items and facility
re-expand the production chain; max job duration alone re-splits the existing
steps; cost fields, sell price and jobs start date are plain updates.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := resolveUserID()
			if err != nil {
				return err
			}
			req := &commands.UpdateProjectCommand{UserID: uid, ProjectID: args[0], InStockItemIDs: inStock, ClearSellPrice: clearSell}
			flags := cmd.Flags()
			if flags.Changed("runs") {
				req.Runs = &runs
			}
			if flags.Changed("me") {
				req.MELevel = &me
			}
			if flags.Changed("te") {
				req.TELevel = &te
			}
			if flags.Changed("max-days") {
				req.MaxDurationDays = &maxDays
			}
			if flags.Changed("facility") {
				req.FacilityID = &facilityID
			}
			if flags.Changed("exclude-item") || flags.Changed("exclude-group") {
				req.Exclusions = &commands.ExclusionInput{ItemIDs: excludeItems, GroupIDs: excludeGroups}
			}
			for _, money := range []struct {
				name string
				raw  string
				dst  **decimal.Decimal
			}{
				{"blueprint-cost", blueprintCost, &req.BlueprintCost},
				{"material-cost", materialCost, &req.MaterialCost},
				{"transport-cost", transport, &req.TransportCost},
				{"tax", tax, &req.Tax},
				{"sell-price", sellPrice, &req.SellPrice},
			} {
				if !flags.Changed(money.name) {
					continue
				}
				d, err := decimal.NewFromString(money.raw)
				if err != nil {
					return fmt.Errorf("invalid --%s: %w", money.name, err)
				}
				*money.dst = &d
			}
			if jobsStart != "" {
				t, err := time.Parse("2006-01-02", jobsStart)
				if err != nil {
					return fmt.Errorf("invalid --jobs-start (want YYYY-MM-DD): %w", err)
				}
				req.JobsStartDate = &t
			}

			return withApp(func(ctx context.Context, app *App) error {
				resp, err := send[*commands.UpdateProjectResponse](ctx, app.Mediator, req)
				if err != nil {
					return err
				}
				switch {
				case resp.Reexpanded:
					fmt.Printf("✓ Project re-expanded (%d steps)\n", resp.StepCount)
				case resp.Resplit:
					fmt.Printf("✓ Project re-split (%d steps)\n", resp.StepCount)
				default:
					fmt.Println("✓ Project updated")
				}
				return nil
			})
		},
	}

	f := cmd.Flags()
	f.IntVar(&runs, "runs", 0, "Runs of the target blueprint")
	f.IntVar(&me, "me", 0, "Material efficiency of the target blueprint")
	f.IntVar(&te, "te", 0, "Time efficiency of the target blueprint")
	f.Float64Var(&maxDays, "max-days", 0, "Maximum job duration in days")
	f.StringVar(&facilityID, "facility", "", "Facility ID (empty for the default facility)")
	f.IntSliceVar(&excludeItems, "exclude-item", nil, "Replace excluded item IDs")
	f.IntSliceVar(&excludeGroups, "exclude-group", nil, "Replace excluded group IDs")
	f.IntSliceVar(&inStock, "in-stock", nil, "Producible item IDs already on hand")
	f.StringVar(&blueprintCost, "blueprint-cost", "", "Blueprint cost")
	f.StringVar(&materialCost, "material-cost", "", "Material cost")
	f.StringVar(&transport, "transport-cost", "", "Transport cost")
	f.StringVar(&tax, "tax", "", "Tax")
	f.StringVar(&sellPrice, "sell-price", "", "Expected sell price")
	f.BoolVar(&clearSell, "clear-sell-price", false, "Remove the sell price")
	f.StringVar(&jobsStart, "jobs-start", "", "Ignore jobs started before this date (YYYY-MM-DD)")
	return cmd
}

func newProjectResplitCommand() *cobra.Command {
	var maxDays float64

	cmd := &cobra.Command{
		Use:   "resplit <project-id>",
		Short: "Apply a new max job duration without re-expanding",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := resolveUserID()
			if err != nil {
				return err
			}
			return withApp(func(ctx context.Context, app *App) error {
				resp, err := send[*commands.SplitResponse](ctx, app.Mediator, &commands.ResplitProjectCommand{
					UserID: uid, ProjectID: args[0], MaxDurationDays: maxDays,
				})
				if err != nil {
					return err
				}
				fmt.Printf("✓ %d steps, %d split groups\n", resp.StepCount, resp.SplitGroups)
				return nil
			})
		},
	}

	cmd.Flags().Float64Var(&maxDays, "max-days", 0, "Maximum job duration in days")
	_ = cmd.MarkFlagRequired("max-days")
	return cmd
}

func newProjectReconcileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile <project-id>",
		Short: "Match running industry jobs to the project's steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := resolveUserID()
			if err != nil {
				return err
			}
			return withApp(func(ctx context.Context, app *App) error {
				resp, err := send[*commands.ReconcileJobsResponse](ctx, app.Mediator, &commands.ReconcileJobsCommand{UserID: uid, ProjectID: args[0]})
				if err != nil {
					return err
				}
				printReconciliation(resp.Report)
				return nil
			})
		},
	}
}

func newProjectShoppingCommand() *cobra.Command {
	var netAssets, withPrices bool

	cmd := &cobra.Command{
		Use:   "shopping <project-id>",
		Short: "List materials still to buy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := resolveUserID()
			if err != nil {
				return err
			}
			return withApp(func(ctx context.Context, app *App) error {
				resp, err := send[*queries.GetShoppingListResponse](ctx, app.Mediator, &queries.GetShoppingListQuery{
					UserID: uid, ProjectID: args[0], NetAssets: netAssets, WithPrices: withPrices,
				})
				if err != nil {
					return err
				}
				printShoppingList(resp.Items)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&netAssets, "net-assets", false, "Subtract recorded asset stock")
	cmd.Flags().BoolVar(&withPrices, "prices", false, "Attach market prices")
	return cmd
}

func newProjectTotalsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "totals <project-id>",
		Short: "Show project costs, job costs and profit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := resolveUserID()
			if err != nil {
				return err
			}
			return withApp(func(ctx context.Context, app *App) error {
				resp, err := send[*queries.GetProjectTotalsResponse](ctx, app.Mediator, &queries.GetProjectTotalsQuery{UserID: uid, ProjectID: args[0]})
				if err != nil {
					return err
				}
				t := resp.Totals
				fmt.Printf("Blueprint cost:  %s\n", t.BlueprintCost.StringFixed(2))
				fmt.Printf("Material cost:   %s\n", t.MaterialCost.StringFixed(2))
				fmt.Printf("Transport cost:  %s\n", t.TransportCost.StringFixed(2))
				fmt.Printf("Tax:             %s\n", t.Tax.StringFixed(2))
				fmt.Printf("Job cost:        %s\n", t.JobCost.StringFixed(2))
				fmt.Printf("Total cost:      %s\n", t.TotalCost.StringFixed(2))
				if t.SellPrice != nil {
					fmt.Printf("Sell price:      %s\n", t.SellPrice.StringFixed(2))
					fmt.Printf("Profit:          %s\n", t.Profit.StringFixed(2))
				}
				return nil
			})
		},
	}
}

func newProjectLifecycleCommand(action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " <project-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := resolveUserID()
			if err != nil {
				return err
			}
			var req interface{}
			switch action {
			case "complete":
				req = &commands.CompleteProjectCommand{UserID: uid, ProjectID: args[0]}
			case "reopen":
				req = &commands.ReopenProjectCommand{UserID: uid, ProjectID: args[0]}
			default:
				req = &commands.DeleteProjectCommand{UserID: uid, ProjectID: args[0]}
			}
			return withApp(func(ctx context.Context, app *App) error {
				resp, err := send[*commands.ProjectStatusResponse](ctx, app.Mediator, req)
				if err != nil {
					return err
				}
				fmt.Printf("✓ Project %s is %s\n", resp.ProjectID, resp.Status)
				return nil
			})
		},
	}
}

func printStepTable(steps []queries.StepDTO) {
	w := newTable()
	fmt.Fprintln(w, "#\tID\tPRODUCT\tQTY\tRUNS\tSPLIT\tJOBS\tSTOCK\tBOUGHT")
	for _, st := range steps {
		split := "-"
		if st.SplitGroupID != "" {
			split = fmt.Sprintf("%d/%d", st.SplitIndex+1, st.TotalGroupRuns)
		}
		fmt.Fprintf(w, "%d\t%s\t%s%s\t%d\t%d\t%s\t%d\t%d\t%t\n",
			st.SortOrder, st.ID, indent(st.Depth), st.ProductName, st.Quantity, st.Runs, split,
			st.MatchedJobs, st.InStockQuantity, st.Purchased)
	}
	_ = w.Flush()
}

func printShoppingList(items []services.ShoppingItem) {
	if len(items) == 0 {
		fmt.Println("Nothing to buy")
		return
	}
	w := newTable()
	fmt.Fprintln(w, "ITEM\tNAME\tQUANTITY\tUNIT PRICE\tEST. COST")
	total := decimal.Zero
	for _, it := range items {
		unit, cost := "-", "-"
		if it.UnitPrice != nil {
			unit = it.UnitPrice.StringFixed(2)
		}
		if it.EstimatedCost != nil {
			cost = it.EstimatedCost.StringFixed(2)
			total = total.Add(*it.EstimatedCost)
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n", it.ItemID, it.Name, it.Quantity, unit, cost)
	}
	_ = w.Flush()
	if !total.IsZero() {
		fmt.Printf("\nEstimated total: %s\n", total.StringFixed(2))
	}
}

func printReconciliation(report *services.ReconciliationReport) {
	fmt.Printf("✓ %d new job match(es)\n", report.NewMatchCount())
	if len(report.Matched) > 0 {
		w := newTable()
		fmt.Fprintln(w, "STEP\tPRODUCT\tRUNS\tMATCHED\tACTIVE\tDELIVERED\tJOBS")
		for _, m := range report.Matched {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%v\n",
				m.StepID, m.ProductName, m.Runs, m.MatchedRuns, m.ActiveRuns, m.DeliveredRuns, m.JobIDs)
		}
		_ = w.Flush()
	}
	for _, warn := range report.Warnings {
		switch warn.Kind {
		case services.WarningFeedUnavailable:
			fmt.Printf("⚠ character %d skipped: %s\n", warn.CharacterID, warn.Message)
		default:
			fmt.Printf("⚠ step %s: %s\n", warn.StepID, warn.Message)
			for _, j := range warn.Jobs {
				fmt.Printf("    job %d by %d: %d runs (%s)\n", j.JobID, j.CharacterID, j.Runs, j.Status)
			}
		}
	}
}

func indent(depth int) string {
	return strings.Repeat("  ", depth)
}
