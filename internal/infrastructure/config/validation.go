package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator with the planner's custom rules:
//
//	even  TE levels are researched in steps of two
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator with the custom rules registered
func NewValidator() *Validator {
	v := validator.New()
	// registration only fails for an empty tag or nil func
	_ = v.RegisterValidation("even", func(fl validator.FieldLevel) bool {
		return fl.Field().Int()%2 == 0
	})
	return &Validator{validate: v}
}

// Engine exposes the underlying validator for the mediator's validation middleware
func (v *Validator) Engine() *validator.Validate {
	return v.validate
}

// Validate checks struct tags and flattens failures into one error
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	messages := make([]string, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		messages = append(messages, fmt.Sprintf("%s: failed %q (value %v)", e.Namespace(), e.Tag(), e.Value()))
	}
	return fmt.Errorf("validation failed:\n  %s", strings.Join(messages, "\n  "))
}

// ValidateConfig validates the entire configuration
func ValidateConfig(cfg *Config) error {
	return NewValidator().Validate(cfg)
}
