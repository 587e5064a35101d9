package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/industry-planner/internal/domain/industry"
	"github.com/andrescamacho/industry-planner/internal/domain/shared"
)

// GormProjectRepository implements industry.ProjectRepository using GORM
type GormProjectRepository struct {
	db    *gorm.DB
	clock shared.Clock
}

// NewGormProjectRepository creates a new GORM project repository
// If clock is nil, reconstructed projects use the wall clock
func NewGormProjectRepository(db *gorm.DB, clock shared.Clock) *GormProjectRepository {
	return &GormProjectRepository{db: db, clock: clock}
}

// Save upserts the project and replaces its steps and job matches in one transaction.
// On error nothing is written and the previous step list stays in place.
func (r *GormProjectRepository) Save(ctx context.Context, project *industry.Project) error {
	model := r.projectToModel(project)
	steps, matches := r.stepsToModels(project)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return fmt.Errorf("failed to save project: %w", err)
		}

		if err := tx.Where("project_id = ?", project.ID()).Delete(&JobMatchModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear job matches: %w", err)
		}
		if err := tx.Where("project_id = ?", project.ID()).Delete(&StepModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear steps: %w", err)
		}

		if len(steps) > 0 {
			if err := tx.Omit(clause.Associations).CreateInBatches(steps, 200).Error; err != nil {
				return fmt.Errorf("failed to insert steps: %w", err)
			}
		}
		if len(matches) > 0 {
			if err := tx.CreateInBatches(matches, 200).Error; err != nil {
				return fmt.Errorf("failed to insert job matches: %w", err)
			}
		}
		return nil
	})
}

// FindByID retrieves a project with its steps in sort order
func (r *GormProjectRepository) FindByID(ctx context.Context, id string, ownerID shared.UserID) (*industry.Project, error) {
	var model ProjectModel
	result := r.db.WithContext(ctx).
		Preload("Steps", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Preload("Steps.Matches", func(db *gorm.DB) *gorm.DB { return db.Order("start_date ASC, job_id ASC") }).
		Where("id = ? AND owner_id = ?", id, ownerID.Value()).
		First(&model)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, &industry.ErrProjectNotFound{ProjectID: id}
		}
		return nil, fmt.Errorf("failed to find project: %w", result.Error)
	}

	return r.modelToProject(&model), nil
}

// FindByOwner retrieves an owner's projects, newest first. An empty status returns all.
func (r *GormProjectRepository) FindByOwner(ctx context.Context, ownerID shared.UserID, status industry.ProjectStatus) ([]*industry.Project, error) {
	query := r.db.WithContext(ctx).
		Preload("Steps", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Preload("Steps.Matches").
		Where("owner_id = ?", ownerID.Value())
	if status != "" {
		query = query.Where("status = ?", string(status))
	}

	var models []ProjectModel
	if err := query.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	projects := make([]*industry.Project, 0, len(models))
	for i := range models {
		projects = append(projects, r.modelToProject(&models[i]))
	}
	return projects, nil
}

// Delete removes the project together with its steps and job matches
func (r *GormProjectRepository) Delete(ctx context.Context, id string, ownerID shared.UserID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND owner_id = ?", id, ownerID.Value()).Delete(&ProjectModel{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete project: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return &industry.ErrProjectNotFound{ProjectID: id}
		}

		if err := tx.Where("project_id = ?", id).Delete(&JobMatchModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete job matches: %w", err)
		}
		if err := tx.Where("project_id = ?", id).Delete(&StepModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete steps: %w", err)
		}
		return nil
	})
}

// MatchedJobIDs returns job ids already bound to steps of the owner's other projects
func (r *GormProjectRepository) MatchedJobIDs(ctx context.Context, ownerID shared.UserID, exceptProjectID string) (map[int64]struct{}, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&JobMatchModel{}).
		Where("owner_id = ? AND project_id <> ?", ownerID.Value(), exceptProjectID).
		Pluck("job_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load matched job ids: %w", err)
	}

	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

func (r *GormProjectRepository) projectToModel(p *industry.Project) *ProjectModel {
	settings := p.Settings()
	costs := p.Costs()

	model := &ProjectModel{
		ID:               p.ID(),
		OwnerID:          p.OwnerID().Value(),
		TargetItemID:     p.TargetItemID(),
		TargetName:       p.TargetName(),
		Runs:             settings.Runs,
		MELevel:          settings.MELevel,
		TELevel:          settings.TELevel,
		MaxDurationDays:  settings.MaxDurationDays,
		Status:           string(p.Status()),
		CompletedAt:      p.CompletedAt(),
		ExcludedItemIDs:  settings.Exclusions.ItemIDs(),
		ExcludedGroupIDs: settings.Exclusions.GroupIDs(),
		BlueprintCost:    costs.BlueprintCost,
		MaterialCost:     costs.MaterialCost,
		TransportCost:    costs.TransportCost,
		Tax:              costs.Tax,
		JobsStartDate:    p.JobsStartDate(),
		CreatedAt:        p.CreatedAt(),
		UpdatedAt:        p.UpdatedAt(),
	}
	if settings.FacilityID != "" {
		facilityID := settings.FacilityID
		model.FacilityID = &facilityID
	}
	if price := p.SellPrice(); price != nil {
		model.SellPrice = decimal.NewNullDecimal(*price)
	}
	return model
}

func (r *GormProjectRepository) stepsToModels(p *industry.Project) ([]StepModel, []JobMatchModel) {
	steps := make([]StepModel, 0, len(p.Steps()))
	var matches []JobMatchModel

	for _, s := range p.Steps() {
		model := StepModel{
			ID:              s.ID,
			ProjectID:       p.ID(),
			SortOrder:       s.SortOrder,
			BlueprintID:     s.BlueprintID,
			ProductID:       s.ProductID,
			ProductName:     s.ProductName,
			GroupID:         s.GroupID,
			Category:        s.Category,
			Activity:        string(s.Activity),
			Leaf:            s.Leaf,
			Quantity:        s.Quantity,
			Runs:            s.Runs,
			OutputPerRun:    s.OutputPerRun,
			Depth:           s.Depth,
			TimePerRun:      s.TimePerRun,
			Purchased:       s.Purchased,
			InStockQuantity: s.InStockQuantity,
			MELevel:         s.MELevel,
			TELevel:         s.TELevel,
			FacilityME:      s.FacilityME,
			FacilityTE:      s.FacilityTE,
			SplitIndex:      s.SplitIndex,
			TotalGroupRuns:  s.TotalGroupRuns,
			ManualSplit:     s.ManualSplit,
			ManualJobData:   s.ManualJobData,
			SimilarJobs:     s.SimilarJobs,
		}
		if s.SplitGroupID != "" {
			groupID := s.SplitGroupID
			model.SplitGroupID = &groupID
		}
		steps = append(steps, model)

		for _, m := range s.Matches {
			matches = append(matches, JobMatchModel{
				StepID:      s.ID,
				ProjectID:   p.ID(),
				OwnerID:     p.OwnerID().Value(),
				JobID:       m.JobID,
				CharacterID: m.CharacterID,
				BlueprintID: m.BlueprintID,
				Runs:        m.Runs,
				Status:      string(m.Status),
				Cost:        m.Cost,
				StartDate:   m.StartDate,
				EndDate:     m.EndDate,
				FacilityID:  m.FacilityID,
			})
		}
	}
	return steps, matches
}

func (r *GormProjectRepository) modelToProject(model *ProjectModel) *industry.Project {
	data := industry.ProjectData{
		ID:           model.ID,
		OwnerID:      shared.MustNewUserID(model.OwnerID),
		TargetItemID: model.TargetItemID,
		TargetName:   model.TargetName,
		Settings: industry.ProjectSettings{
			Runs:            model.Runs,
			MELevel:         model.MELevel,
			TELevel:         model.TELevel,
			MaxDurationDays: model.MaxDurationDays,
			Exclusions:      industry.NewExclusionSet(model.ExcludedItemIDs, model.ExcludedGroupIDs),
		},
		Status:      industry.ProjectStatus(model.Status),
		CompletedAt: model.CompletedAt,
		Costs: industry.ProjectCosts{
			BlueprintCost: model.BlueprintCost,
			MaterialCost:  model.MaterialCost,
			TransportCost: model.TransportCost,
			Tax:           model.Tax,
		},
		JobsStartDate: model.JobsStartDate,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
	if model.FacilityID != nil {
		data.Settings.FacilityID = *model.FacilityID
	}
	if model.SellPrice.Valid {
		price := model.SellPrice.Decimal
		data.SellPrice = &price
	}

	steps := make([]industry.Step, 0, len(model.Steps))
	for _, sm := range model.Steps {
		steps = append(steps, modelToStep(&sm))
	}
	return industry.ReconstructProject(data, steps, r.clock)
}

func modelToStep(sm *StepModel) industry.Step {
	step := industry.Step{
		ID:              sm.ID,
		ProjectID:       sm.ProjectID,
		BlueprintID:     sm.BlueprintID,
		ProductID:       sm.ProductID,
		ProductName:     sm.ProductName,
		GroupID:         sm.GroupID,
		Category:        sm.Category,
		Activity:        industry.ActivityKind(sm.Activity),
		Leaf:            sm.Leaf,
		Quantity:        sm.Quantity,
		Runs:            sm.Runs,
		OutputPerRun:    sm.OutputPerRun,
		Depth:           sm.Depth,
		SortOrder:       sm.SortOrder,
		TimePerRun:      sm.TimePerRun,
		Purchased:       sm.Purchased,
		InStockQuantity: sm.InStockQuantity,
		MELevel:         sm.MELevel,
		TELevel:         sm.TELevel,
		FacilityME:      sm.FacilityME,
		FacilityTE:      sm.FacilityTE,
		SplitIndex:      sm.SplitIndex,
		TotalGroupRuns:  sm.TotalGroupRuns,
		ManualSplit:     sm.ManualSplit,
		ManualJobData:   sm.ManualJobData,
		SimilarJobs:     sm.SimilarJobs,
	}
	if sm.SplitGroupID != nil {
		step.SplitGroupID = *sm.SplitGroupID
	}
	for _, mm := range sm.Matches {
		step.Matches = append(step.Matches, industry.JobMatch{
			StepID:      mm.StepID,
			JobID:       mm.JobID,
			CharacterID: mm.CharacterID,
			BlueprintID: mm.BlueprintID,
			Runs:        mm.Runs,
			Status:      industry.JobStatus(mm.Status),
			Cost:        mm.Cost,
			StartDate:   mm.StartDate,
			EndDate:     mm.EndDate,
			FacilityID:  mm.FacilityID,
		})
	}
	return step
}
