package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/andrescamacho/industry-planner/internal/application/mediator"
	"github.com/andrescamacho/industry-planner/internal/domain/industry"
	"github.com/andrescamacho/industry-planner/internal/domain/shared"
	"github.com/andrescamacho/industry-planner/internal/infrastructure/config"
)

// resolveUserID returns --user-id, else the default user from the preferences file
func resolveUserID() (int, error) {
	if userID > 0 {
		return userID, nil
	}

	prefs, err := config.NewPreferencesStore()
	if err != nil {
		return 0, fmt.Errorf("no user specified and failed to load preferences: %w", err)
	}
	userPrefs, err := prefs.Load()
	if err != nil {
		return 0, fmt.Errorf("no user specified and failed to load preferences: %w", err)
	}
	if userPrefs.DefaultUserID != nil {
		return *userPrefs.DefaultUserID, nil
	}
	return 0, fmt.Errorf("no user specified: use --user-id, or set a default with 'industry config set-user'")
}

// withApp opens the application for one command and closes it afterwards
func withApp(run func(ctx context.Context, app *App) error) error {
	app, err := NewApp(configPath, verbose)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runErr := run(app.Context(ctx), app)
	if closeErr := app.Close(); closeErr != nil && runErr == nil {
		return closeErr
	}
	return runErr
}

// send dispatches a request and asserts the response type
func send[T any](ctx context.Context, m mediator.Mediator, request mediator.Request) (T, error) {
	var zero T
	resp, err := m.Send(ctx, request)
	if err != nil {
		return zero, err
	}
	typed, ok := resp.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected response type %T", resp)
	}
	return typed, nil
}

// formatError maps domain errors to operator-facing messages
func formatError(err error) string {
	var (
		validation *shared.ValidationError
		notFound   *shared.NotFoundError
		noBP       *industry.ErrNoBlueprintFound
		projectNF  *industry.ErrProjectNotFound
		stepNF     *industry.ErrStepNotFound
		facilityNF *industry.ErrFacilityNotFound
	)
	switch {
	case errors.As(err, &noBP):
		return fmt.Sprintf("Error: item %d cannot be manufactured or reacted", noBP.ItemID)
	case errors.As(err, &projectNF), errors.As(err, &stepNF), errors.As(err, &facilityNF), errors.As(err, &notFound):
		return fmt.Sprintf("Not found: %v", err)
	case errors.As(err, &validation):
		return fmt.Sprintf("Invalid input: %s: %s", validation.Field, validation.Message)
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
