package steps

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"
	messages "github.com/cucumber/messages/go/v21"
	"github.com/shopspring/decimal"

	"github.com/andrescamacho/industry-planner/internal/application/industry/commands"
	"github.com/andrescamacho/industry-planner/internal/application/industry/queries"
	"github.com/andrescamacho/industry-planner/internal/application/industry/services"
	"github.com/andrescamacho/industry-planner/internal/domain/account"
	"github.com/andrescamacho/industry-planner/internal/domain/industry"
	"github.com/andrescamacho/industry-planner/internal/domain/shared"
	"github.com/andrescamacho/industry-planner/test/helpers"
)

type productionContext struct {
	env *helpers.TestEnvironment
	ctx context.Context

	projectIDs []string
	lastErr    error
	report     *services.ReconciliationReport
	shopping   []services.ShoppingItem
}

func (c *productionContext) reset() error {
	env, err := helpers.NewTestEnvironment()
	if err != nil {
		return err
	}
	c.env = env
	c.ctx = context.Background()
	c.projectIDs = nil
	c.lastErr = nil
	c.report = nil
	c.shopping = nil
	return nil
}

func (c *productionContext) currentProjectID() (string, error) {
	if len(c.projectIDs) == 0 {
		return "", fmt.Errorf("no project has been created")
	}
	return c.projectIDs[len(c.projectIDs)-1], nil
}

func (c *productionContext) loadProject(userID int) (*queries.ProjectDTO, error) {
	projectID, err := c.currentProjectID()
	if err != nil {
		return nil, err
	}
	return c.loadProjectByID(userID, projectID)
}

func (c *productionContext) loadProjectByID(userID int, projectID string) (*queries.ProjectDTO, error) {
	resp, err := c.env.Mediator.Send(c.ctx, &queries.GetProjectQuery{UserID: userID, ProjectID: projectID})
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	return resp.(*queries.GetProjectResponse).Project, nil
}

// Accounts

func (c *productionContext) aUserWithID(userID int) error {
	return c.env.Repos.Users.Add(c.ctx, account.NewUser(shared.MustNewUserID(userID), fmt.Sprintf("user-%d", userID)))
}

func (c *productionContext) userHasACharacter(userID int, characterID int64, name string) error {
	return c.env.Repos.Characters.Add(c.ctx, account.NewCharacter(characterID, shared.MustNewUserID(userID), name, "token-"+name))
}

// Projects

func (c *productionContext) create(cmd *commands.CreateProjectCommand) error {
	resp, err := c.env.Mediator.Send(c.ctx, cmd)
	c.lastErr = err
	if err == nil {
		c.projectIDs = append(c.projectIDs, resp.(*commands.CreateProjectResponse).ProjectID)
	}
	return nil
}

func (c *productionContext) userCreatesAProject(userID, itemID, runs, me int) error {
	return c.create(&commands.CreateProjectCommand{UserID: userID, TargetItemID: itemID, Runs: runs, MELevel: me})
}

func (c *productionContext) userCreatesASplitProject(userID, itemID, runs, me, te int, days float64) error {
	return c.create(&commands.CreateProjectCommand{
		UserID: userID, TargetItemID: itemID, Runs: runs, MELevel: me, TELevel: te, MaxDurationDays: days,
	})
}

func (c *productionContext) userCreatesAProjectExcluding(userID, itemID, runs, excluded int) error {
	return c.create(&commands.CreateProjectCommand{
		UserID: userID, TargetItemID: itemID, Runs: runs, MELevel: 10, ExcludedItemIDs: []int{excluded},
	})
}

func (c *productionContext) userCreatesAProjectWithStock(userID, itemID, runs, stocked int) error {
	return c.create(&commands.CreateProjectCommand{
		UserID: userID, TargetItemID: itemID, Runs: runs, MELevel: 10, InStockItemIDs: []int{stocked},
	})
}

func (c *productionContext) userUpdatesTheProjectRuns(userID, runs int) error {
	projectID, err := c.currentProjectID()
	if err != nil {
		return err
	}
	_, c.lastErr = c.env.Mediator.Send(c.ctx, &commands.UpdateProjectCommand{UserID: userID, ProjectID: projectID, Runs: &runs})
	return nil
}

func (c *productionContext) userCompletesTheProject(userID int) error {
	projectID, err := c.currentProjectID()
	if err != nil {
		return err
	}
	_, err = c.env.Mediator.Send(c.ctx, &commands.CompleteProjectCommand{UserID: userID, ProjectID: projectID})
	return err
}

func (c *productionContext) userRecordsCosts(userID int, materialCost string, sellPrice string) error {
	projectID, err := c.currentProjectID()
	if err != nil {
		return err
	}
	cmd := &commands.UpdateProjectCommand{UserID: userID, ProjectID: projectID}
	cost := decimal.RequireFromString(materialCost)
	cmd.MaterialCost = &cost
	if sellPrice != "" {
		sell := decimal.RequireFromString(sellPrice)
		cmd.SellPrice = &sell
	}
	_, c.lastErr = c.env.Mediator.Send(c.ctx, cmd)
	return c.lastErr
}

func (c *productionContext) userRecordsAMaterialCost(userID int, materialCost string) error {
	return c.userRecordsCosts(userID, materialCost, "")
}

// Facilities

func (c *productionContext) userSavesADefaultFacility(userID int, security, structure, name, rig string) error {
	_, err := c.env.Mediator.Send(c.ctx, &commands.SaveFacilityCommand{
		UserID:      userID,
		Name:        name,
		Security:    security,
		Structure:   structure,
		Rigs:        []string{rig},
		MakeDefault: true,
	})
	return err
}

func (c *productionContext) userShouldHaveFacilities(userID, count int, defaultName string) error {
	resp, err := c.env.Mediator.Send(c.ctx, &queries.ListFacilitiesQuery{UserID: userID})
	if err != nil {
		return err
	}
	facilities := resp.(*queries.ListFacilitiesResponse).Facilities
	if len(facilities) != count {
		return fmt.Errorf("expected %d facilities, got %d", count, len(facilities))
	}
	var defaults []string
	for _, f := range facilities {
		if f.IsDefault {
			defaults = append(defaults, f.Name)
		}
	}
	if len(defaults) != 1 || defaults[0] != defaultName {
		return fmt.Errorf("expected %q as the only default, got %v", defaultName, defaults)
	}
	return nil
}

// Steps

func (c *productionContext) stepsFor(userID, itemID int) ([]queries.StepDTO, error) {
	project, err := c.loadProject(userID)
	if err != nil {
		return nil, err
	}
	var out []queries.StepDTO
	for _, s := range project.Steps {
		if s.ProductID == itemID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (c *productionContext) firstStepFor(itemID int) (queries.StepDTO, error) {
	steps, err := c.stepsFor(1, itemID)
	if err != nil {
		return queries.StepDTO{}, err
	}
	if len(steps) == 0 {
		return queries.StepDTO{}, fmt.Errorf("project has no step for item %d", itemID)
	}
	return steps[0], nil
}

func (c *productionContext) editStep(userID, itemID int, edit func(*commands.UpdateStepCommand)) error {
	projectID, err := c.currentProjectID()
	if err != nil {
		return err
	}
	steps, err := c.stepsFor(userID, itemID)
	if err != nil {
		return err
	}
	if len(steps) == 0 {
		return fmt.Errorf("project has no step for item %d", itemID)
	}
	for _, s := range steps {
		cmd := &commands.UpdateStepCommand{UserID: userID, ProjectID: projectID, StepID: s.ID}
		edit(cmd)
		if _, c.lastErr = c.env.Mediator.Send(c.ctx, cmd); c.lastErr != nil {
			return nil
		}
	}
	return nil
}

func (c *productionContext) userMarksItemAsPurchased(userID, itemID int) error {
	purchased := true
	if err := c.editStep(userID, itemID, func(cmd *commands.UpdateStepCommand) { cmd.Purchased = &purchased }); err != nil {
		return err
	}
	return c.lastErr
}

func (c *productionContext) userRecordsStockOnTheStep(userID, quantity, itemID int) error {
	return c.editStep(userID, itemID, func(cmd *commands.UpdateStepCommand) { cmd.InStockQuantity = &quantity })
}

func (c *productionContext) userMarksTheStepAsManual(userID, itemID int) error {
	manual := true
	if err := c.editStep(userID, itemID, func(cmd *commands.UpdateStepCommand) { cmd.ManualJobData = &manual }); err != nil {
		return err
	}
	return c.lastErr
}

func (c *productionContext) theProjectStepsShouldBe(table *godog.Table) error {
	project, err := c.loadProject(1)
	if err != nil {
		return err
	}
	rows := tableRows(table)
	if len(rows) != len(project.Steps) {
		return fmt.Errorf("expected %d steps, got %d", len(rows), len(project.Steps))
	}
	for i, row := range rows {
		s := project.Steps[i]
		got := map[string]string{
			"product":  s.ProductName,
			"depth":    strconv.Itoa(s.Depth),
			"runs":     strconv.Itoa(s.Runs),
			"quantity": strconv.Itoa(s.Quantity),
			"leaf":     strconv.FormatBool(s.Leaf),
		}
		for col, want := range row {
			if got[col] != want {
				return fmt.Errorf("step %d: expected %s %q, got %q", i, col, want, got[col])
			}
		}
		if s.SortOrder != i {
			return fmt.Errorf("step %d has sort order %d", i, s.SortOrder)
		}
	}
	return nil
}

func (c *productionContext) bothProjectsShouldHaveIdenticalStepLists() error {
	if len(c.projectIDs) < 2 {
		return fmt.Errorf("expected two projects, got %d", len(c.projectIDs))
	}
	first, err := c.loadProjectByID(1, c.projectIDs[0])
	if err != nil {
		return err
	}
	second, err := c.loadProjectByID(1, c.projectIDs[1])
	if err != nil {
		return err
	}
	if len(first.Steps) != len(second.Steps) {
		return fmt.Errorf("step counts differ: %d vs %d", len(first.Steps), len(second.Steps))
	}
	for i := range first.Steps {
		a, b := first.Steps[i], second.Steps[i]
		if a.ProductID != b.ProductID || a.Quantity != b.Quantity || a.Runs != b.Runs || a.Depth != b.Depth {
			return fmt.Errorf("step %d differs: %+v vs %+v", i, a, b)
		}
	}
	return nil
}

func (c *productionContext) theProjectShouldHaveSteps(count int) error {
	project, err := c.loadProject(1)
	if err != nil {
		return err
	}
	if len(project.Steps) != count {
		return fmt.Errorf("expected %d steps, got %d", count, len(project.Steps))
	}
	return nil
}

func (c *productionContext) theStepShouldBeALeaf(itemID, quantity int) error {
	s, err := c.firstStepFor(itemID)
	if err != nil {
		return err
	}
	if !s.Leaf || s.Quantity != quantity {
		return fmt.Errorf("expected leaf of %d units for item %d, got leaf=%t quantity=%d", quantity, itemID, s.Leaf, s.Quantity)
	}
	return nil
}

func (c *productionContext) theProjectShouldContainNoStepFor(itemID int) error {
	steps, err := c.stepsFor(1, itemID)
	if err != nil {
		return err
	}
	if len(steps) > 0 {
		return fmt.Errorf("expected no step for item %d, found %d", itemID, len(steps))
	}
	return nil
}

func (c *productionContext) theStepShouldRequire(itemID, quantity int) error {
	s, err := c.firstStepFor(itemID)
	if err != nil {
		return err
	}
	if s.Quantity != quantity {
		return fmt.Errorf("expected item %d to require %d units, got %d", itemID, quantity, s.Quantity)
	}
	return nil
}

func (c *productionContext) theStepShouldBePurchased(itemID int) error {
	s, err := c.firstStepFor(itemID)
	if err != nil {
		return err
	}
	if !s.Purchased {
		return fmt.Errorf("step for item %d is not marked purchased", itemID)
	}
	return nil
}

func (c *productionContext) theStepShouldBeSplitInto(itemID int, expected string) error {
	steps, err := c.stepsFor(1, itemID)
	if err != nil {
		return err
	}
	runs := make([]string, len(steps))
	groups := make(map[string]bool)
	for i, s := range steps {
		runs[i] = strconv.Itoa(s.Runs)
		groups[s.SplitGroupID] = true
	}
	if got := strings.Join(runs, ","); got != expected {
		return fmt.Errorf("expected fragment runs %s, got %s", expected, got)
	}
	if len(groups) != 1 {
		return fmt.Errorf("fragments span %d split groups", len(groups))
	}
	return nil
}

// Reconciliation

func (c *productionContext) characterHasAJob(characterID int64, status string, jobID int64, blueprintID, runs int) error {
	return c.publishJob(characterID, status, jobID, blueprintID, runs, time.Hour, decimal.Zero)
}

func (c *productionContext) characterHasAnEarlyJob(characterID int64, status string, jobID int64, blueprintID, runs int) error {
	return c.publishJob(characterID, status, jobID, blueprintID, runs, -24*time.Hour, decimal.Zero)
}

func (c *productionContext) characterHasACostedJob(characterID int64, status string, jobID int64, blueprintID, runs int, cost string) error {
	return c.publishJob(characterID, status, jobID, blueprintID, runs, time.Hour, decimal.RequireFromString(cost))
}

func (c *productionContext) publishJob(characterID int64, status string, jobID int64, blueprintID, runs int, offset time.Duration, cost decimal.Decimal) error {
	start := c.env.Clock.Now().Add(offset)
	activity := industry.ActivityManufacturing
	if blueprintID == helpers.BlueprintFerniteCarbide {
		activity = industry.ActivityReaction
	}
	c.env.Jobs.AddJob(industry.IndustryJob{
		JobID:       jobID,
		BlueprintID: blueprintID,
		Activity:    activity,
		CharacterID: characterID,
		Runs:        runs,
		Status:      industry.JobStatus(status),
		Cost:        cost,
		StartDate:   start,
		EndDate:     start.Add(48 * time.Hour),
		FacilityID:  60003760,
	})
	return nil
}

func (c *productionContext) jobBecomes(jobID int64, status string) error {
	c.env.Jobs.SetJobStatus(jobID, industry.JobStatus(status))
	return nil
}

func (c *productionContext) theJobFeedIsUnavailable(characterID int64) error {
	c.env.Jobs.FailCharacter(characterID, errors.New("upstream timeout"))
	return nil
}

func (c *productionContext) userReconcilesTheProject(userID int) error {
	projectID, err := c.currentProjectID()
	if err != nil {
		return err
	}
	resp, err := c.env.Mediator.Send(c.ctx, &commands.ReconcileJobsCommand{UserID: userID, ProjectID: projectID})
	c.lastErr = err
	if err == nil {
		c.report = resp.(*commands.ReconcileJobsResponse).Report
	}
	return nil
}

func (c *productionContext) theStepShouldBeMatchedTo(itemID int, expected string) error {
	project, err := c.loadProject(1)
	if err != nil {
		return err
	}
	var step *queries.StepDTO
	for i := range project.Steps {
		if project.Steps[i].ProductID == itemID && !project.Steps[i].Leaf {
			step = &project.Steps[i]
			break
		}
	}
	if step == nil {
		return fmt.Errorf("project has no production step for item %d", itemID)
	}

	var ids []string
	if c.report != nil {
		for _, m := range c.report.Matched {
			if m.StepID == step.ID {
				for _, id := range m.JobIDs {
					ids = append(ids, strconv.FormatInt(id, 10))
				}
			}
		}
	}
	if got := strings.Join(ids, ","); got != expected {
		return fmt.Errorf("expected step for item %d matched to %q, got %q", itemID, expected, got)
	}
	if step.MatchedJobs != len(ids) {
		return fmt.Errorf("stored step has %d matches, report lists %d", step.MatchedJobs, len(ids))
	}
	return nil
}

func (c *productionContext) theStepShouldHaveSimilarJobs(itemID, count int) error {
	s, err := c.firstStepFor(itemID)
	if err != nil {
		return err
	}
	if len(s.SimilarJobs) != count {
		return fmt.Errorf("expected %d similar jobs on item %d, got %d", count, itemID, len(s.SimilarJobs))
	}
	return nil
}

func (c *productionContext) theStepShouldHaveDeliveredRuns(itemID, runs int) error {
	s, err := c.firstStepFor(itemID)
	if err != nil {
		return err
	}
	if s.DeliveredRuns != runs {
		return fmt.Errorf("expected %d delivered runs on item %d, got %d", runs, itemID, s.DeliveredRuns)
	}
	return nil
}

func (c *productionContext) theReconciliationShouldReportNewMatches(count int) error {
	if c.report == nil {
		return fmt.Errorf("no reconciliation has run: %v", c.lastErr)
	}
	if got := c.report.NewMatchCount(); got != count {
		return fmt.Errorf("expected %d new matches, got %d", count, got)
	}
	return nil
}

func (c *productionContext) theReconciliationShouldWarnUnavailable(characterID int64) error {
	if c.report == nil {
		return fmt.Errorf("no reconciliation has run: %v", c.lastErr)
	}
	for _, w := range c.report.Warnings {
		if w.Kind == services.WarningFeedUnavailable && w.CharacterID == characterID {
			return nil
		}
	}
	return fmt.Errorf("no feed warning for character %d in %+v", characterID, c.report.Warnings)
}

// Shopping list and totals

func (c *productionContext) userHoldsAssets(userID, quantity, itemID int) error {
	return c.env.Repos.Stock.Upsert(c.ctx, shared.MustNewUserID(userID), itemID, quantity)
}

func (c *productionContext) thePriceOfItemIs(itemID int, price string) error {
	c.env.Prices.SetPrice(itemID, decimal.RequireFromString(price))
	return nil
}

func (c *productionContext) requestShoppingList(userID int, netAssets, withPrices bool) error {
	projectID, err := c.currentProjectID()
	if err != nil {
		return err
	}
	resp, err := c.env.Mediator.Send(c.ctx, &queries.GetShoppingListQuery{
		UserID: userID, ProjectID: projectID, NetAssets: netAssets, WithPrices: withPrices,
	})
	if err != nil {
		return err
	}
	c.shopping = resp.(*queries.GetShoppingListResponse).Items
	return nil
}

func (c *productionContext) userRequestsTheShoppingList(userID int) error {
	return c.requestShoppingList(userID, false, false)
}

func (c *productionContext) userRequestsTheShoppingListNetOfAssets(userID int) error {
	return c.requestShoppingList(userID, true, false)
}

func (c *productionContext) userRequestsTheShoppingListWithPrices(userID int) error {
	return c.requestShoppingList(userID, false, true)
}

func (c *productionContext) theShoppingListShouldBe(table *godog.Table) error {
	rows := tableRows(table)
	if len(rows) != len(c.shopping) {
		return fmt.Errorf("expected %d shopping entries, got %d: %+v", len(rows), len(c.shopping), c.shopping)
	}
	for i, row := range rows {
		item := c.shopping[i]
		if item.Name != row["item"] || strconv.Itoa(item.Quantity) != row["quantity"] {
			return fmt.Errorf("entry %d: expected %s x%s, got %s x%d", i, row["item"], row["quantity"], item.Name, item.Quantity)
		}
	}
	return nil
}

func (c *productionContext) shoppingItem(itemID int) (services.ShoppingItem, error) {
	for _, it := range c.shopping {
		if it.ItemID == itemID {
			return it, nil
		}
	}
	return services.ShoppingItem{}, fmt.Errorf("item %d is not on the shopping list", itemID)
}

func (c *productionContext) theEstimatedCostShouldBe(itemID int, expected string) error {
	it, err := c.shoppingItem(itemID)
	if err != nil {
		return err
	}
	if it.EstimatedCost == nil || !it.EstimatedCost.Equal(decimal.RequireFromString(expected)) {
		return fmt.Errorf("expected estimated cost %s for item %d, got %v", expected, itemID, it.EstimatedCost)
	}
	return nil
}

func (c *productionContext) itemShouldHaveNoPrice(itemID int) error {
	it, err := c.shoppingItem(itemID)
	if err != nil {
		return err
	}
	if it.UnitPrice != nil {
		return fmt.Errorf("expected no price for item %d, got %s", itemID, it.UnitPrice)
	}
	return nil
}

func (c *productionContext) totals() (services.ProjectTotals, error) {
	projectID, err := c.currentProjectID()
	if err != nil {
		return services.ProjectTotals{}, err
	}
	resp, err := c.env.Mediator.Send(c.ctx, &queries.GetProjectTotalsQuery{UserID: 1, ProjectID: projectID})
	if err != nil {
		return services.ProjectTotals{}, err
	}
	return resp.(*queries.GetProjectTotalsResponse).Totals, nil
}

func (c *productionContext) theProjectTotalCostShouldBe(expected string) error {
	t, err := c.totals()
	if err != nil {
		return err
	}
	if !t.TotalCost.Equal(decimal.RequireFromString(expected)) {
		return fmt.Errorf("expected total cost %s, got %s", expected, t.TotalCost)
	}
	return nil
}

func (c *productionContext) theProjectProfitShouldBe(expected string) error {
	t, err := c.totals()
	if err != nil {
		return err
	}
	if t.Profit == nil || !t.Profit.Equal(decimal.RequireFromString(expected)) {
		return fmt.Errorf("expected profit %s, got %v", expected, t.Profit)
	}
	return nil
}

func (c *productionContext) theProjectShouldHaveNoProfit() error {
	t, err := c.totals()
	if err != nil {
		return err
	}
	if t.Profit != nil {
		return fmt.Errorf("expected no profit, got %s", t.Profit)
	}
	return nil
}

// Outcomes

func (c *productionContext) theCommandShouldSucceed() error {
	if c.lastErr != nil {
		return fmt.Errorf("expected success, got %w", c.lastErr)
	}
	return nil
}

func (c *productionContext) theCommandShouldFailWith(kind string) error {
	if c.lastErr == nil {
		return fmt.Errorf("expected a %s error, got success", kind)
	}
	var ok bool
	switch kind {
	case "validation":
		var target *shared.ValidationError
		ok = errors.As(c.lastErr, &target)
	case "no blueprint":
		var target *industry.ErrNoBlueprintFound
		ok = errors.As(c.lastErr, &target)
	case "invalid state":
		var target *industry.ErrInvalidProjectState
		ok = errors.As(c.lastErr, &target)
	}
	if !ok {
		return fmt.Errorf("expected a %s error, got %T: %v", kind, c.lastErr, c.lastErr)
	}
	return nil
}

// tableRows turns a header-first table into one map per data row
func tableRows(table *messages.PickleTable) []map[string]string {
	if len(table.Rows) == 0 {
		return nil
	}
	header := table.Rows[0].Cells
	rows := make([]map[string]string, 0, len(table.Rows)-1)
	for _, r := range table.Rows[1:] {
		row := make(map[string]string, len(header))
		for i, cell := range r.Cells {
			row[header[i].Value] = cell.Value
		}
		rows = append(rows, row)
	}
	return rows
}

// InitializeProductionScenario registers the planner scenarios that run against a
// wired mediator and an in-memory database
func InitializeProductionScenario(sc *godog.ScenarioContext) {
	c := &productionContext{}

	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		return ctx, c.reset()
	})
	sc.After(func(ctx context.Context, s *godog.Scenario, err error) (context.Context, error) {
		if c.env != nil {
			_ = c.env.Close()
		}
		return ctx, nil
	})

	// Accounts
	sc.Step(`^a user with ID (\d+)$`, c.aUserWithID)
	sc.Step(`^user (\d+) has a character (\d+) named "([^"]*)"$`, c.userHasACharacter)

	// Projects
	sc.Step(`^user (\d+) creates a project for item (\d+) with (\d+) runs and ME (\d+)$`, c.userCreatesAProject)
	sc.Step(`^user (\d+) creates a project for item (\d+) with (\d+) runs, ME (\d+), TE (\d+) and max duration ([\d.]+) days$`, c.userCreatesASplitProject)
	sc.Step(`^user (\d+) creates a project for item (\d+) with (\d+) runs excluding item (\d+)$`, c.userCreatesAProjectExcluding)
	sc.Step(`^user (\d+) creates a project for item (\d+) with (\d+) runs keeping item (\d+) in stock$`, c.userCreatesAProjectWithStock)
	sc.Step(`^user (\d+) updates the project to (\d+) runs$`, c.userUpdatesTheProjectRuns)
	sc.Step(`^user (\d+) completes the project$`, c.userCompletesTheProject)
	sc.Step(`^user (\d+) records a material cost of (\d+) and a sell price of (\d+)$`, c.userRecordsCosts)
	sc.Step(`^user (\d+) records a material cost of (\d+)$`, c.userRecordsAMaterialCost)

	// Facilities
	sc.Step(`^user (\d+) saves a default (highsec|lowsec|nullsec) (station|engineering_complex|refinery) "([^"]*)" with rig "([^"]*)"$`, c.userSavesADefaultFacility)
	sc.Step(`^user (\d+) should have (\d+) facilities with exactly one default named "([^"]*)"$`, c.userShouldHaveFacilities)

	// Steps
	sc.Step(`^user (\d+) marks item (\d+) as purchased$`, c.userMarksItemAsPurchased)
	sc.Step(`^user (\d+) records (\d+) units of item (\d+) in stock on the step$`, c.userRecordsStockOnTheStep)
	sc.Step(`^user (\d+) marks the step for item (\d+) as manual job data$`, c.userMarksTheStepAsManual)
	sc.Step(`^the project steps should be:$`, c.theProjectStepsShouldBe)
	sc.Step(`^both projects should have identical step lists$`, c.bothProjectsShouldHaveIdenticalStepLists)
	sc.Step(`^the project should have (\d+) steps$`, c.theProjectShouldHaveSteps)
	sc.Step(`^the step for item (\d+) should be a purchasable leaf of (\d+) units$`, c.theStepShouldBeALeaf)
	sc.Step(`^the project should contain no step for item (\d+)$`, c.theProjectShouldContainNoStepFor)
	sc.Step(`^the step for item (\d+) should require (\d+) units$`, c.theStepShouldRequire)
	sc.Step(`^the step for item (\d+) should be purchased$`, c.theStepShouldBePurchased)
	sc.Step(`^the step for item (\d+) should be split into runs "([^"]*)"$`, c.theStepShouldBeSplitInto)

	// Reconciliation
	sc.Step(`^character (\d+) has an? (\w+) job (\d+) for blueprint (\d+) with (\d+) runs$`, c.characterHasAJob)
	sc.Step(`^character (\d+) has an? (\w+) job (\d+) for blueprint (\d+) with (\d+) runs started before the project$`, c.characterHasAnEarlyJob)
	sc.Step(`^character (\d+) has an? (\w+) job (\d+) for blueprint (\d+) with (\d+) runs costing (\d+)$`, c.characterHasACostedJob)
	sc.Step(`^job (\d+) becomes (\w+)$`, c.jobBecomes)
	sc.Step(`^the job feed for character (\d+) is unavailable$`, c.theJobFeedIsUnavailable)
	sc.Step(`^user (\d+) reconciles the project$`, c.userReconcilesTheProject)
	sc.Step(`^the step for item (\d+) should be matched to jobs "([^"]*)"$`, c.theStepShouldBeMatchedTo)
	sc.Step(`^the step for item (\d+) should have (\d+) similar jobs?$`, c.theStepShouldHaveSimilarJobs)
	sc.Step(`^the step for item (\d+) should have (\d+) delivered runs$`, c.theStepShouldHaveDeliveredRuns)
	sc.Step(`^the reconciliation should report (\d+) new match(?:es)?$`, c.theReconciliationShouldReportNewMatches)
	sc.Step(`^the reconciliation should warn that character (\d+) is unavailable$`, c.theReconciliationShouldWarnUnavailable)

	// Shopping list and totals
	sc.Step(`^user (\d+) holds (\d+) units of item (\d+) in assets$`, c.userHoldsAssets)
	sc.Step(`^the price of item (\d+) is ([\d.]+)$`, c.thePriceOfItemIs)
	sc.Step(`^user (\d+) requests the shopping list$`, c.userRequestsTheShoppingList)
	sc.Step(`^user (\d+) requests the shopping list net of assets$`, c.userRequestsTheShoppingListNetOfAssets)
	sc.Step(`^user (\d+) requests the shopping list with prices$`, c.userRequestsTheShoppingListWithPrices)
	sc.Step(`^the shopping list should be:$`, c.theShoppingListShouldBe)
	sc.Step(`^the estimated cost of item (\d+) should be (\d+)$`, c.theEstimatedCostShouldBe)
	sc.Step(`^item (\d+) should have no price$`, c.itemShouldHaveNoPrice)
	sc.Step(`^the project total cost should be (\d+)$`, c.theProjectTotalCostShouldBe)
	sc.Step(`^the project profit should be (-?\d+)$`, c.theProjectProfitShouldBe)
	sc.Step(`^the project should have no profit$`, c.theProjectShouldHaveNoProfit)

	// Outcomes
	sc.Step(`^the command should succeed$`, c.theCommandShouldSucceed)
	sc.Step(`^the command should fail with an? (validation|no blueprint|invalid state) error$`, c.theCommandShouldFailWith)
}
