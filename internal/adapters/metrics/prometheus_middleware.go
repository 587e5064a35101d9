package metrics

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/andrescamacho/industry-planner/internal/application/mediator"
)

// PrometheusMiddleware times every mediator request and counts its outcome.
// A nil collector turns the middleware into a passthrough.
func PrometheusMiddleware(collector *CommandMetricsCollector) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		if collector == nil {
			return next(ctx, request)
		}

		start := time.Now()
		response, err := next(ctx, request)
		collector.RecordCommandExecution(extractCommandName(request), time.Since(start).Seconds(), err == nil)

		return response, err
	}
}

// extractCommandName turns "*commands.PlanProjectCommand" into "PlanProjectCommand".
func extractCommandName(request mediator.Request) string {
	if request == nil {
		return "UnknownCommand"
	}

	fullName := strings.TrimPrefix(reflect.TypeOf(request).String(), "*")
	if i := strings.LastIndex(fullName, "."); i >= 0 {
		return fullName[i+1:]
	}
	return fullName
}
