package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator with the cross-field rules of Config
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator with the database and sweep struct rules registered
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterStructValidation(validateDatabase, DatabaseConfig{})
	v.RegisterStructValidation(validateSweep, SweepConfig{})

	return &Validator{
		validate: v,
	}
}

// validateDatabase requires a target for the selected driver
func validateDatabase(sl validator.StructLevel) {
	db := sl.Current().Interface().(DatabaseConfig)
	switch db.Type {
	case "sqlite":
		if db.Path == "" {
			sl.ReportError(db.Path, "Path", "path", "required_for_sqlite", "")
		}
	case "postgres":
		if db.URL == "" && db.Host == "" {
			sl.ReportError(db.Host, "Host", "host", "url_or_host", "")
		}
	}
}

// validateSweep rejects an enabled sweep that would spin
func validateSweep(sl validator.StructLevel) {
	sweep := sl.Current().Interface().(SweepConfig)
	if sweep.Enabled && sweep.Interval < time.Second {
		sl.ReportError(sweep.Interval, "Interval", "interval", "min_one_second", "")
	}
}

// Validate validates a struct using validation tags
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return v.formatValidationError(err)
	}
	return nil
}

// formatValidationError lists each failed field by its full path (Config.Economy.RefundRatio)
func (v *Validator) formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	messages := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		messages = append(messages, fmt.Sprintf(
			"field '%s' failed validation: %s (value: '%v')",
			e.Namespace(),
			e.Tag(),
			e.Value(),
		))
	}
	return fmt.Errorf("validation failed:\n  %s", strings.Join(messages, "\n  "))
}

// ValidateConfig checks struct tags, then the economy section as a domain policy
func ValidateConfig(cfg *Config) error {
	if err := NewValidator().Validate(cfg); err != nil {
		return err
	}
	if err := cfg.Economy.Policy().Validate(); err != nil {
		return fmt.Errorf("economy: %w", err)
	}
	return nil
}
