package industry

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/industry-planner/internal/domain/account"
	"github.com/andrescamacho/industry-planner/internal/domain/shared"
)

// BlueprintOracle looks up how items are produced
type BlueprintOracle interface {
	// FindBlueprint returns the blueprint producing the item, or false when the
	// item cannot be manufactured or reacted
	FindBlueprint(ctx context.Context, productID int) (*Blueprint, bool, error)
}

// ExclusionResolver decides whether an item must be bought instead of built
type ExclusionResolver interface {
	IsExcluded(itemID, groupID int) bool
}

// JobFeed lists a character's industry jobs from the external API
type JobFeed interface {
	ListJobs(ctx context.Context, character *account.Character) ([]IndustryJob, error)
}

// PriceFeed returns reference prices for items; missing items are absent from the map
type PriceFeed interface {
	Prices(ctx context.Context, itemIDs []int) (map[int]decimal.Decimal, error)
}

// StockProvider returns on-hand quantities per item for an owner
type StockProvider interface {
	StockByItem(ctx context.Context, ownerID shared.UserID) (map[int]int, error)
}

// ProjectRepository persists projects together with their step lists
type ProjectRepository interface {
	// Save upserts the project and replaces its steps and job matches in one transaction
	Save(ctx context.Context, project *Project) error

	// FindByID retrieves a project with its steps ordered by sort order
	FindByID(ctx context.Context, id string, ownerID shared.UserID) (*Project, error)

	// FindByOwner retrieves an owner's projects, optionally filtered by status
	FindByOwner(ctx context.Context, ownerID shared.UserID, status ProjectStatus) ([]*Project, error)

	// Delete removes the project, its steps and its job matches
	Delete(ctx context.Context, id string, ownerID shared.UserID) error

	// MatchedJobIDs returns job ids bound to steps of the owner's other projects
	MatchedJobIDs(ctx context.Context, ownerID shared.UserID, exceptProjectID string) (map[int64]struct{}, error)
}

// FacilityRepository persists facility configurations
type FacilityRepository interface {
	Save(ctx context.Context, facility *Facility) error
	FindByID(ctx context.Context, id string, ownerID shared.UserID) (*Facility, error)
	FindByOwner(ctx context.Context, ownerID shared.UserID) ([]*Facility, error)

	// FindDefault returns the owner's default facility, or nil when none is set
	FindDefault(ctx context.Context, ownerID shared.UserID) (*Facility, error)

	// SetDefault marks one facility default and clears every other default of the owner
	SetDefault(ctx context.Context, id string, ownerID shared.UserID) error

	Delete(ctx context.Context, id string, ownerID shared.UserID) error
}

// ExclusionRepository persists owner-wide exclusion entries
type ExclusionRepository interface {
	Add(ctx context.Context, exclusion Exclusion) error
	Remove(ctx context.Context, exclusion Exclusion) error
	FindByOwner(ctx context.Context, ownerID shared.UserID) ([]Exclusion, error)
}

// ItemType is a reference row describing one item
type ItemType struct {
	ItemID   int
	Name     string
	GroupID  int
	Category string
}

// ReferenceDataStore replaces the static reference tables backing the oracle
type ReferenceDataStore interface {
	ReplaceAll(ctx context.Context, items []ItemType, blueprints []Blueprint) error
}
