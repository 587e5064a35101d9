package persistence

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/andrescamacho/industry-planner/internal/domain/industry"
)

// UserModel represents the users table
type UserModel struct {
	ID        int       `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string    `gorm:"column:name;unique;not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

func (UserModel) TableName() string {
	return "users"
}

// CharacterModel represents the characters table
// NOTE: tokens are written by the external auth flow; refresh happens outside this service
type CharacterModel struct {
	ID          int64      `gorm:"column:id;primaryKey;autoIncrement:false"`
	OwnerID     int        `gorm:"column:owner_id;not null;index"`
	Owner       *UserModel `gorm:"foreignKey:OwnerID;references:ID;constraint:OnDelete:CASCADE"`
	Name        string     `gorm:"column:name;not null"`
	AccessToken string     `gorm:"column:access_token"`
}

func (CharacterModel) TableName() string {
	return "characters"
}

// ProjectModel represents the industry_projects table
type ProjectModel struct {
	ID               string                   `gorm:"column:id;primaryKey"`
	OwnerID          int                      `gorm:"column:owner_id;not null;index"`
	TargetItemID     int                      `gorm:"column:target_item_id;not null"`
	TargetName       string                   `gorm:"column:target_name"`
	Runs             int                      `gorm:"column:runs;not null"`
	MELevel          int                      `gorm:"column:me_level;not null;default:0"`
	TELevel          int                      `gorm:"column:te_level;not null;default:0"`
	MaxDurationDays  float64                  `gorm:"column:max_duration_days;not null"`
	Status           string                   `gorm:"column:status;not null;index"`
	CompletedAt      *time.Time               `gorm:"column:completed_at"`
	ExcludedItemIDs  datatypes.JSONSlice[int] `gorm:"column:excluded_item_ids"`
	ExcludedGroupIDs datatypes.JSONSlice[int] `gorm:"column:excluded_group_ids"`
	FacilityID       *string                  `gorm:"column:facility_id"`
	BlueprintCost    decimal.Decimal          `gorm:"column:blueprint_cost;type:numeric(20,2);not null;default:0"`
	MaterialCost     decimal.Decimal          `gorm:"column:material_cost;type:numeric(20,2);not null;default:0"`
	TransportCost    decimal.Decimal          `gorm:"column:transport_cost;type:numeric(20,2);not null;default:0"`
	Tax              decimal.Decimal          `gorm:"column:tax;type:numeric(20,2);not null;default:0"`
	SellPrice        decimal.NullDecimal      `gorm:"column:sell_price;type:numeric(20,2)"`
	JobsStartDate    time.Time                `gorm:"column:jobs_start_date;not null"`
	CreatedAt        time.Time                `gorm:"column:created_at;not null"`
	UpdatedAt        time.Time                `gorm:"column:updated_at;not null"`
	Steps            []StepModel              `gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
}

func (ProjectModel) TableName() string {
	return "industry_projects"
}

// StepModel represents the industry_steps table
// Matched-run aggregates are not columns; they are derived from job_matches
type StepModel struct {
	ID              string                                   `gorm:"column:id;primaryKey"`
	ProjectID       string                                   `gorm:"column:project_id;not null;index:idx_steps_project_order,priority:1"`
	SortOrder       int                                      `gorm:"column:sort_order;not null;index:idx_steps_project_order,priority:2"`
	BlueprintID     int                                      `gorm:"column:blueprint_id;index"`
	ProductID       int                                      `gorm:"column:product_id;not null"`
	ProductName     string                                   `gorm:"column:product_name"`
	GroupID         int                                      `gorm:"column:group_id"`
	Category        string                                   `gorm:"column:category"`
	Activity        string                                   `gorm:"column:activity"`
	Leaf            bool                                     `gorm:"column:leaf;not null;default:false"`
	Quantity        int                                      `gorm:"column:quantity;not null"`
	Runs            int                                      `gorm:"column:runs;not null;default:0"`
	OutputPerRun    int                                      `gorm:"column:output_per_run;not null"`
	Depth           int                                      `gorm:"column:depth;not null"`
	TimePerRun      int                                      `gorm:"column:time_per_run;not null;default:0"`
	Purchased       bool                                     `gorm:"column:purchased;not null;default:false"`
	InStockQuantity int                                      `gorm:"column:in_stock_quantity;not null;default:0"`
	MELevel         *int                                     `gorm:"column:me_level"`
	TELevel         *int                                     `gorm:"column:te_level"`
	FacilityME      float64                                  `gorm:"column:facility_me;not null;default:0"`
	FacilityTE      float64                                  `gorm:"column:facility_te;not null;default:0"`
	SplitGroupID    *string                                  `gorm:"column:split_group_id;index"`
	SplitIndex      int                                      `gorm:"column:split_index;not null;default:0"`
	TotalGroupRuns  int                                      `gorm:"column:total_group_runs;not null;default:0"`
	ManualSplit     bool                                     `gorm:"column:manual_split;not null;default:false"`
	ManualJobData   bool                                     `gorm:"column:manual_job_data;not null;default:false"`
	SimilarJobs     datatypes.JSONSlice[industry.SimilarJob] `gorm:"column:similar_jobs"`
	Matches         []JobMatchModel                          `gorm:"foreignKey:StepID;references:ID;constraint:OnDelete:CASCADE"`
}

func (StepModel) TableName() string {
	return "industry_steps"
}

// JobMatchModel represents the industry_job_matches table
// One external job binds to at most one step, enforced by the unique job_id index
type JobMatchModel struct {
	ID          uint            `gorm:"column:id;primaryKey;autoIncrement"`
	StepID      string          `gorm:"column:step_id;not null;index"`
	ProjectID   string          `gorm:"column:project_id;not null;index"`
	OwnerID     int             `gorm:"column:owner_id;not null;index"`
	JobID       int64           `gorm:"column:job_id;not null;uniqueIndex"`
	CharacterID int64           `gorm:"column:character_id;not null"`
	BlueprintID int             `gorm:"column:blueprint_id;not null"`
	Runs        int             `gorm:"column:runs;not null"`
	Status      string          `gorm:"column:status;not null"`
	Cost        decimal.Decimal `gorm:"column:cost;type:numeric(20,2);not null;default:0"`
	StartDate   time.Time       `gorm:"column:start_date"`
	EndDate     time.Time       `gorm:"column:end_date"`
	FacilityID  int64           `gorm:"column:facility_id"`
}

func (JobMatchModel) TableName() string {
	return "industry_job_matches"
}

// FacilityModel represents the facilities table
type FacilityModel struct {
	ID        string                      `gorm:"column:id;primaryKey"`
	OwnerID   int                         `gorm:"column:owner_id;not null;index"`
	Name      string                      `gorm:"column:name;not null"`
	Security  string                      `gorm:"column:security;not null"`
	Structure string                      `gorm:"column:structure;not null;default:station"`
	Rigs      datatypes.JSONSlice[string] `gorm:"column:rigs"`
	IsDefault bool                        `gorm:"column:is_default;not null;default:false"`
	CreatedAt time.Time                   `gorm:"column:created_at;not null"`
}

func (FacilityModel) TableName() string {
	return "facilities"
}

// ExclusionModel represents the exclusions table
type ExclusionModel struct {
	ID       uint   `gorm:"column:id;primaryKey;autoIncrement"`
	OwnerID  int    `gorm:"column:owner_id;not null;uniqueIndex:idx_exclusion_target,priority:1"`
	Kind     string `gorm:"column:kind;not null;uniqueIndex:idx_exclusion_target,priority:2"`
	TargetID int    `gorm:"column:target_id;not null;uniqueIndex:idx_exclusion_target,priority:3"`
}

func (ExclusionModel) TableName() string {
	return "exclusions"
}

// AssetStockModel represents the asset_stock table, filled by external asset ingestion
type AssetStockModel struct {
	OwnerID   int       `gorm:"column:owner_id;primaryKey"`
	ItemID    int       `gorm:"column:item_id;primaryKey"`
	Quantity  int       `gorm:"column:quantity;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (AssetStockModel) TableName() string {
	return "asset_stock"
}

// SDEItemModel represents the sde_items reference table
type SDEItemModel struct {
	TypeID   int    `gorm:"column:type_id;primaryKey;autoIncrement:false"`
	Name     string `gorm:"column:name;not null"`
	GroupID  int    `gorm:"column:group_id;not null;index"`
	Category string `gorm:"column:category"`
}

func (SDEItemModel) TableName() string {
	return "sde_items"
}

// SDEBlueprintModel represents the sde_blueprints reference table (one row per activity)
type SDEBlueprintModel struct {
	BlueprintID     int    `gorm:"column:blueprint_id;primaryKey;autoIncrement:false"`
	Activity        string `gorm:"column:activity;primaryKey"`
	ProductID       int    `gorm:"column:product_id;not null;index"`
	OutputPerRun    int    `gorm:"column:output_per_run;not null"`
	BaseTimeSeconds int    `gorm:"column:base_time_seconds;not null"`
}

func (SDEBlueprintModel) TableName() string {
	return "sde_blueprints"
}

// SDEBlueprintMaterialModel represents the sde_blueprint_materials reference table
type SDEBlueprintMaterialModel struct {
	ID          uint   `gorm:"column:id;primaryKey;autoIncrement"`
	BlueprintID int    `gorm:"column:blueprint_id;not null;index:idx_bp_material,priority:1"`
	Activity    string `gorm:"column:activity;not null;index:idx_bp_material,priority:2"`
	MaterialID  int    `gorm:"column:material_id;not null"`
	Quantity    int    `gorm:"column:quantity;not null"`
}

func (SDEBlueprintMaterialModel) TableName() string {
	return "sde_blueprint_materials"
}

// AllModels lists every model in migration order
func AllModels() []interface{} {
	return []interface{}{
		&UserModel{},
		&CharacterModel{},
		&ProjectModel{},
		&StepModel{},
		&JobMatchModel{},
		&FacilityModel{},
		&ExclusionModel{},
		&AssetStockModel{},
		&SDEItemModel{},
		&SDEBlueprintModel{},
		&SDEBlueprintMaterialModel{},
	}
}
