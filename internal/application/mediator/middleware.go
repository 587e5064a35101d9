package mediator

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/andrescamacho/industry-planner/internal/application/common"
	"github.com/andrescamacho/industry-planner/internal/domain/shared"
)

// ValidationMiddleware rejects requests whose struct tags fail validation before
// the handler runs
func ValidationMiddleware(validate *validator.Validate) Middleware {
	return func(ctx context.Context, request Request, next HandlerFunc) (Response, error) {
		v := reflect.ValueOf(request)
		if v.Kind() == reflect.Ptr {
			v = v.Elem()
		}
		if v.Kind() != reflect.Struct {
			return next(ctx, request)
		}

		if err := validate.Struct(request); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) && len(verrs) > 0 {
				fe := verrs[0]
				return nil, shared.NewValidationError(
					toSnakeCase(fe.Field()),
					fmt.Sprintf("failed '%s' validation", fe.Tag()),
				)
			}
			return nil, fmt.Errorf("request validation failed: %w", err)
		}
		return next(ctx, request)
	}
}

// LoggingMiddleware logs each dispatched request with its duration and outcome
func LoggingMiddleware() Middleware {
	return func(ctx context.Context, request Request, next HandlerFunc) (Response, error) {
		logger := common.LoggerFromContext(ctx)
		name := reflect.TypeOf(request).String()
		start := time.Now()

		resp, err := next(ctx, request)
		if err != nil {
			logger.Debug("request failed", "request", name, "duration", time.Since(start), "error", err)
			return resp, err
		}
		logger.Debug("request handled", "request", name, "duration", time.Since(start))
		return resp, nil
	}
}

func toSnakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) ||
				(i+1 < len(runes) && unicode.IsLower(runes[i+1]) && unicode.IsUpper(runes[i-1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
