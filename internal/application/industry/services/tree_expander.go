package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/andrescamacho/industry-planner/internal/application/common"
	"github.com/andrescamacho/industry-planner/internal/domain/industry"
)

// ExpanderOptions tunes the tree expander
type ExpanderOptions struct {
	// ME and TE assumed for every blueprint below the root
	ComponentME int
	ComponentTE int

	// Expansion fails with ErrRecursionLimit beyond this depth
	MaxDepth int
}

// ExpansionRequest describes one BOM expansion
type ExpansionRequest struct {
	RootItemID int
	Runs       int
	MELevel    int
	TELevel    int

	// Items or groups that must be bought rather than built; nil excludes nothing
	Exclusions industry.ExclusionResolver

	// Items the caller already holds; they become purchasable leaves
	InStock map[int]bool

	// Facility whose rigs and hull apply; nil means no facility bonus
	Facility *industry.Facility
}

// TreeExpander turns a root item and run count into a flattened, ordered step list.
//
// The walk uses an explicit LIFO stack, so emission is a pre-order depth-first
// traversal: every step precedes the materials it consumes, and siblings appear in
// ascending item id. Identical inputs always produce identical step lists.
type TreeExpander struct {
	oracle  industry.BlueprintOracle
	bonuses *industry.BonusResolver
	opts    ExpanderOptions
	newID   func() string
}

// NewTreeExpander creates a tree expander
func NewTreeExpander(
	oracle industry.BlueprintOracle,
	bonuses *industry.BonusResolver,
	opts ExpanderOptions,
	newID func() string,
) *TreeExpander {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = 32
	}
	return &TreeExpander{
		oracle:  oracle,
		bonuses: bonuses,
		opts:    opts,
		newID:   newID,
	}
}

type workItem struct {
	itemID     int
	name       string
	groupID    int
	category   string
	quantity   int
	depth      int
	facilityME float64
}

// Expand runs the expansion. Only the root may fail for lack of a blueprint; any
// other item without one becomes a purchasable leaf.
func (e *TreeExpander) Expand(ctx context.Context, req ExpansionRequest) ([]industry.Step, error) {
	if err := industry.ValidateExpansionInput(req.Runs, req.MELevel, req.TELevel); err != nil {
		return nil, err
	}

	logger := common.LoggerFromContext(ctx)
	if unknown := e.bonuses.UnknownRigs(req.Facility); len(unknown) > 0 {
		logger.Warn("ignoring rigs missing from the rig catalog", "facility", req.Facility.Name, "rigs", unknown)
	}

	rootBP, found, err := e.oracle.FindBlueprint(ctx, req.RootItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up blueprint for item %d: %w", req.RootItemID, err)
	}
	if !found {
		return nil, &industry.ErrNoBlueprintFound{ItemID: req.RootItemID}
	}

	rootBonus := e.bonuses.Resolve(req.Facility, rootBP.Activity, rootBP.ProductCategory)
	stack := []workItem{{
		itemID:     rootBP.ProductID,
		name:       rootBP.ProductName,
		groupID:    rootBP.ProductGroupID,
		category:   rootBP.ProductCategory,
		quantity:   req.Runs * max(rootBP.OutputPerRun, 1),
		depth:      0,
		facilityME: rootBonus.MaterialPercent,
	}}

	var steps []industry.Step
	for len(stack) > 0 {
		w := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if w.depth > e.opts.MaxDepth {
			return nil, &industry.ErrRecursionLimit{ItemID: w.itemID, Depth: e.opts.MaxDepth}
		}

		root := w.depth == 0
		bp := rootBP
		if !root {
			bp, found, err = e.oracle.FindBlueprint(ctx, w.itemID)
			if err != nil {
				return nil, fmt.Errorf("failed to look up blueprint for item %d: %w", w.itemID, err)
			}
			if !found || e.isExcluded(req, w) || req.InStock[w.itemID] {
				steps = append(steps, e.leafStep(w, len(steps)))
				continue
			}
		}

		step := e.productionStep(req, bp, w, len(steps))
		steps = append(steps, step)

		materials := append([]industry.Material(nil), bp.Materials...)
		sort.SliceStable(materials, func(i, j int) bool { return materials[i].ItemID < materials[j].ItemID })

		me := e.blueprintME(req, bp, root)
		// push in reverse so the lowest item id is popped first
		for i := len(materials) - 1; i >= 0; i-- {
			m := materials[i]
			bonus := e.bonuses.Resolve(req.Facility, bp.Activity, m.Category)
			stack = append(stack, workItem{
				itemID:     m.ItemID,
				name:       m.Name,
				groupID:    m.GroupID,
				category:   m.Category,
				quantity:   industry.RequiredQuantity(m.BaseQuantity, step.Runs, float64(me)+bonus.MaterialPercent),
				depth:      w.depth + 1,
				facilityME: bonus.MaterialPercent,
			})
		}
	}

	logger.Debug("expanded blueprint tree", "root_item", req.RootItemID, "runs", req.Runs, "steps", len(steps))
	return steps, nil
}

func (e *TreeExpander) isExcluded(req ExpansionRequest, w workItem) bool {
	return req.Exclusions != nil && req.Exclusions.IsExcluded(w.itemID, w.groupID)
}

// blueprintME is the project level on the root and the component default below it.
// Reaction formulas cannot be researched.
func (e *TreeExpander) blueprintME(req ExpansionRequest, bp *industry.Blueprint, root bool) int {
	if bp.Activity == industry.ActivityReaction {
		return 0
	}
	if root {
		return req.MELevel
	}
	return e.opts.ComponentME
}

func (e *TreeExpander) blueprintTE(req ExpansionRequest, bp *industry.Blueprint, root bool) int {
	if bp.Activity == industry.ActivityReaction {
		return 0
	}
	if root {
		return req.TELevel
	}
	return e.opts.ComponentTE
}

func (e *TreeExpander) productionStep(req ExpansionRequest, bp *industry.Blueprint, w workItem, order int) industry.Step {
	root := w.depth == 0
	output := max(bp.OutputPerRun, 1)

	runs := req.Runs
	if !root {
		runs = industry.RunsFor(w.quantity, output)
	}

	timeBonus := e.bonuses.Resolve(req.Facility, bp.Activity, bp.ProductCategory).TimePercent
	step := industry.Step{
		ID:           e.newID(),
		BlueprintID:  bp.BlueprintID,
		ProductID:    bp.ProductID,
		ProductName:  bp.ProductName,
		GroupID:      bp.ProductGroupID,
		Category:     bp.ProductCategory,
		Activity:     bp.Activity,
		Quantity:     w.quantity,
		Runs:         runs,
		OutputPerRun: output,
		Depth:        w.depth,
		SortOrder:    order,
		TimePerRun:   industry.TimePerRun(bp.BaseTimeSeconds, float64(e.blueprintTE(req, bp, root)), timeBonus),
		FacilityME:   w.facilityME,
		FacilityTE:   timeBonus,
	}
	if root {
		me, te := req.MELevel, req.TELevel
		step.MELevel = &me
		step.TELevel = &te
	}
	return step
}

func (e *TreeExpander) leafStep(w workItem, order int) industry.Step {
	return industry.Step{
		ID:          e.newID(),
		ProductID:   w.itemID,
		ProductName: w.name,
		GroupID:     w.groupID,
		Category:    w.category,
		Leaf:        true,
		Quantity:    w.quantity,
		Depth:       w.depth,
		SortOrder:   order,
		FacilityME:  w.facilityME,
	}
}
