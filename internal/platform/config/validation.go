package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jsamuelsen/insurance-quote-service/internal/domain/pricing"
)

var (
	// registeredStages are the names pricing.stages may use.
	registeredStages = pricing.DefaultRegistry().Names()

	// validate reports fields by their koanf key, so messages name the YAML
	// key an operator has to fix.
	validate = newValidator(registeredStages)
)

func newValidator(stages []string) *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	known := make(map[string]bool, len(stages))
	for _, name := range stages {
		known[name] = true
	}

	_ = v.RegisterValidation("stage", func(fl validator.FieldLevel) bool {
		return known[fl.Field().String()]
	})

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if name == "" || name == "-" {
			return strings.ToLower(f.Name)
		}

		return name
	})

	return v
}

// ValidationError lists every invalid setting found in one pass.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "config validation failed:\n  " + strings.Join(e.Problems, "\n  ")
}

// Validate checks every section and returns a *ValidationError listing all
// problems. The service and quotectl refuse to start on invalid config.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validating config: %w", err)
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, describe(fe))
	}

	return &ValidationError{Problems: problems}
}

func describe(fe validator.FieldError) string {
	key := keyPath(fe.Namespace())

	switch fe.Tag() {
	case "required":
		return key + " is required"
	case "required_if":
		field, value, _ := strings.Cut(fe.Param(), " ")
		return fmt.Sprintf("%s is required when %s is %s", key, strings.ToLower(field), value)
	case "min":
		return fmt.Sprintf("%s must be at least %s", key, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", key, fe.Param())
	case "stage":
		return fmt.Sprintf("%s must be a registered stage: %s", key, strings.Join(registeredStages, " "))
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", key, fe.Param())
	case "unique":
		return key + " must not contain duplicates"
	case "len":
		return fmt.Sprintf("%s must have length %s", key, fe.Param())
	case "uppercase":
		return key + " must be uppercase"
	default:
		return fmt.Sprintf("%s failed validation: %s", key, fe.Tag())
	}
}

// keyPath drops the root struct name: "Config.pricing.stages[1]" becomes
// "pricing.stages[1]".
func keyPath(namespace string) string {
	_, rest, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}

	return rest
}
