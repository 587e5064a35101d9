package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/andrescamacho/industry-planner/internal/adapters/esi"
	"github.com/andrescamacho/industry-planner/internal/adapters/metrics"
	"github.com/andrescamacho/industry-planner/internal/adapters/persistence"
	"github.com/andrescamacho/industry-planner/internal/application/common"
	"github.com/andrescamacho/industry-planner/internal/application/industry/commands"
	"github.com/andrescamacho/industry-planner/internal/application/industry/queries"
	"github.com/andrescamacho/industry-planner/internal/application/industry/services"
	"github.com/andrescamacho/industry-planner/internal/application/mediator"
	"github.com/andrescamacho/industry-planner/internal/domain/industry"
	"github.com/andrescamacho/industry-planner/internal/domain/shared"
	"github.com/andrescamacho/industry-planner/internal/infrastructure/config"
	"github.com/andrescamacho/industry-planner/internal/infrastructure/database"
	"github.com/andrescamacho/industry-planner/internal/infrastructure/logging"
)

// App holds everything one CLI invocation needs
type App struct {
	Config     *config.Config
	Logger     *slog.Logger
	DB         *gorm.DB
	Mediator   mediator.Mediator
	Users      *persistence.GormUserRepository
	Characters *persistence.GormCharacterRepository
	Stock      *persistence.GormAssetStockRepository

	logCloser io.Closer
}

// Repositories groups the gorm adapters the handlers depend on
type Repositories struct {
	Users      *persistence.GormUserRepository
	Characters *persistence.GormCharacterRepository
	Projects   *persistence.GormProjectRepository
	Facilities *persistence.GormFacilityRepository
	Exclusions *persistence.GormExclusionRepository
	Stock      *persistence.GormAssetStockRepository
	Reference  *persistence.GormReferenceRepository
}

// NewRepositories creates every gorm repository over one connection
func NewRepositories(db *gorm.DB, clock shared.Clock) *Repositories {
	return &Repositories{
		Users:      persistence.NewGormUserRepository(db),
		Characters: persistence.NewGormCharacterRepository(db),
		Projects:   persistence.NewGormProjectRepository(db, clock),
		Facilities: persistence.NewGormFacilityRepository(db),
		Exclusions: persistence.NewGormExclusionRepository(db),
		Stock:      persistence.NewGormAssetStockRepository(db),
		Reference:  persistence.NewGormReferenceRepository(db),
	}
}

// Feeds are the external data sources used by reconciliation and shopping lists
type Feeds struct {
	Jobs   industry.JobFeed
	Prices industry.PriceFeed
}

// NewApp loads configuration, opens the database and wires the mediator
func NewApp(configPath string, verbose bool) (*App, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	logger, logCloser, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		_ = logCloser.Close()
		return nil, err
	}
	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			_ = database.Close(db)
			_ = logCloser.Close()
			return nil, err
		}
	}

	var commandMetrics *metrics.CommandMetricsCollector
	if cfg.Metrics.Enabled {
		commandMetrics, err = initMetrics(cfg.Metrics)
		if err != nil {
			_ = database.Close(db)
			_ = logCloser.Close()
			return nil, err
		}
	}

	client := esi.NewClient(esiOptions(cfg.ESI), nil)
	repos := NewRepositories(db, nil)
	m, err := BuildMediator(cfg, repos, Feeds{Jobs: esi.NewJobFeed(client), Prices: esi.NewPriceFeed(client)}, commandMetrics, nil)
	if err != nil {
		_ = database.Close(db)
		_ = logCloser.Close()
		return nil, err
	}

	return &App{
		Config:     cfg,
		Logger:     logger,
		DB:         db,
		Mediator:   m,
		Users:      repos.Users,
		Characters: repos.Characters,
		Stock:      repos.Stock,
		logCloser:  logCloser,
	}, nil
}

// Context attaches the app logger
func (a *App) Context(ctx context.Context) context.Context {
	return common.WithLogger(ctx, a.Logger)
}

// Close flushes metrics and releases the database and log file
func (a *App) Close() error {
	var errs []error
	if a.Config.Metrics.Enabled {
		errs = append(errs, metrics.WriteTextfile(a.Config.Metrics.TextfilePath))
	}
	errs = append(errs, database.Close(a.DB), a.logCloser.Close())
	return errors.Join(errs...)
}

// BuildMediator wires services and registers every command and query handler
func BuildMediator(
	cfg *config.Config,
	repos *Repositories,
	feeds Feeds,
	commandMetrics *metrics.CommandMetricsCollector,
	clock shared.Clock,
) (mediator.Mediator, error) {
	bonuses, err := industry.NewBonusResolver(industry.StandardRigCatalog(), cfg.Planner.BonusCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create bonus resolver: %w", err)
	}

	expander := services.NewTreeExpander(repos.Reference, bonuses, services.ExpanderOptions{
		ComponentME: cfg.Planner.ComponentME,
		ComponentTE: cfg.Planner.ComponentTE,
		MaxDepth:    cfg.Planner.MaxDepth,
	}, uuid.NewString)
	splitter := industry.NewDurationSplitter(uuid.NewString)
	planner := services.NewPlannerService(expander, splitter, repos.Reference, repos.Projects, repos.Facilities, repos.Exclusions)
	reconciler := services.NewJobReconciler(feeds.Jobs, cfg.Feed.Concurrency)
	shopping := services.NewShoppingListService(repos.Stock, feeds.Prices)
	owners := common.NewOwnerResolver(repos.Users)
	maxDays := cfg.Planner.DefaultMaxDurationDays

	m := mediator.NewMediator()
	m.Use(mediator.LoggingMiddleware())
	m.Use(metrics.PrometheusMiddleware(commandMetrics))
	m.Use(mediator.ValidationMiddleware(config.NewValidator().Engine()))

	lifecycle := commands.NewProjectLifecycleHandler(owners, repos.Projects)
	split := commands.NewSplitHandler(owners, repos.Projects, planner)
	steps := commands.NewStepHandler(owners, repos.Projects)
	facilities := commands.NewFacilityHandler(owners, repos.Facilities, bonuses)
	exclusions := commands.NewExclusionHandler(owners, repos.Exclusions)

	registrations := []error{
		mediator.RegisterHandler[*commands.CreateProjectCommand](m, commands.NewCreateProjectHandler(owners, planner, repos.Reference, maxDays, clock)),
		mediator.RegisterHandler[*commands.UpdateProjectCommand](m, commands.NewUpdateProjectHandler(owners, repos.Projects, planner)),
		mediator.RegisterHandler[*commands.CompleteProjectCommand](m, lifecycle),
		mediator.RegisterHandler[*commands.ReopenProjectCommand](m, lifecycle),
		mediator.RegisterHandler[*commands.DeleteProjectCommand](m, lifecycle),
		mediator.RegisterHandler[*commands.ResplitProjectCommand](m, split),
		mediator.RegisterHandler[*commands.AddSplitFragmentCommand](m, split),
		mediator.RegisterHandler[*commands.UpdateStepCommand](m, steps),
		mediator.RegisterHandler[*commands.DeleteStepCommand](m, steps),
		mediator.RegisterHandler[*commands.AttachJobCommand](m, steps),
		mediator.RegisterHandler[*commands.DetachJobCommand](m, steps),
		mediator.RegisterHandler[*commands.ReconcileJobsCommand](m, commands.NewReconcileJobsHandler(owners, repos.Projects, repos.Characters, reconciler)),
		mediator.RegisterHandler[*commands.SaveFacilityCommand](m, facilities),
		mediator.RegisterHandler[*commands.SetDefaultFacilityCommand](m, facilities),
		mediator.RegisterHandler[*commands.DeleteFacilityCommand](m, facilities),
		mediator.RegisterHandler[*commands.AddExclusionCommand](m, exclusions),
		mediator.RegisterHandler[*commands.RemoveExclusionCommand](m, exclusions),
		mediator.RegisterHandler[*commands.ImportReferenceDataCommand](m, commands.NewImportReferenceDataHandler(repos.Reference)),

		mediator.RegisterHandler[*queries.GetProjectQuery](m, queries.NewGetProjectHandler(owners, repos.Projects)),
		mediator.RegisterHandler[*queries.ListProjectsQuery](m, queries.NewListProjectsHandler(owners, repos.Projects)),
		mediator.RegisterHandler[*queries.GetShoppingListQuery](m, queries.NewGetShoppingListHandler(owners, repos.Projects, shopping)),
		mediator.RegisterHandler[*queries.GetProjectTotalsQuery](m, queries.NewGetProjectTotalsHandler(owners, repos.Projects)),
		mediator.RegisterHandler[*queries.ListFacilitiesQuery](m, queries.NewListFacilitiesHandler(owners, repos.Facilities)),
		mediator.RegisterHandler[*queries.PreviewExpansionQuery](m, queries.NewPreviewExpansionHandler(owners, planner, maxDays)),
	}
	if err := errors.Join(registrations...); err != nil {
		return nil, fmt.Errorf("failed to register handlers: %w", err)
	}
	return m, nil
}

func initMetrics(cfg config.MetricsConfig) (*metrics.CommandMetricsCollector, error) {
	metrics.InitRegistry(cfg.Namespace)

	planner := metrics.NewPlannerMetricsCollector()
	api := metrics.NewAPIMetricsCollector()
	cmds := metrics.NewCommandMetricsCollector()
	for _, register := range []func() error{planner.Register, api.Register, cmds.Register} {
		if err := register(); err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}
	metrics.SetGlobalPlannerCollector(planner)
	metrics.SetGlobalAPICollector(api)
	return cmds, nil
}

func esiOptions(cfg config.ESIConfig) esi.Options {
	return esi.Options{
		BaseURL:        cfg.BaseURL,
		Datasource:     cfg.Datasource,
		UserAgent:      cfg.UserAgent,
		Timeout:        cfg.Timeout,
		RequestsPerSec: cfg.RateLimit.Requests,
		Burst:          cfg.RateLimit.Burst,
		MaxRetries:     cfg.Retry.MaxAttempts,
		BackoffBase:    cfg.Retry.BackoffBase,
		MaxFailures:    cfg.CircuitBreaker.MaxFailures,
		BreakerTimeout: cfg.CircuitBreaker.Timeout,
	}
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, formatError(err))
	os.Exit(1)
}
