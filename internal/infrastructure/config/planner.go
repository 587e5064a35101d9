package config

// PlannerConfig holds production planner tuning
type PlannerConfig struct {
	// ME level assumed for every blueprint below the root
	ComponentME int `mapstructure:"component_me" validate:"min=0,max=10"`

	// TE level assumed for every blueprint below the root
	ComponentTE int `mapstructure:"component_te" validate:"min=0,max=20,even"`

	// Expansion aborts beyond this depth
	MaxDepth int `mapstructure:"max_depth" validate:"min=1,max=256"`

	// Max job duration applied when a project does not set one
	DefaultMaxDurationDays float64 `mapstructure:"default_max_duration_days" validate:"gt=0"`

	// Entries kept in the facility bonus cache
	BonusCacheSize int `mapstructure:"bonus_cache_size" validate:"min=1"`
}
