package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/alexisbeaulieu97/rollout/internal/deploy"
	rollouterrors "github.com/alexisbeaulieu97/rollout/pkg/errors"
	"github.com/alexisbeaulieu97/rollout/pkg/version"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	hostNamePattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9_.-]*[a-z0-9])?$`)
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("host_name", func(fl validator.FieldLevel) bool {
			return hostNamePattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("stage", func(fl validator.FieldLevel) bool {
			_, err := deploy.ParseStage(fl.Field().String())
			return err == nil
		})

		_ = v.RegisterValidation("match_kind", func(fl validator.FieldLevel) bool {
			_, err := version.ParseMatchKind(fl.Field().String())
			return err == nil
		})

		validateInst = v
	})

	return validateInst
}

// ValidateConfig performs schema and cross-field validation on the configuration.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return rollouterrors.NewValidationError("config", "configuration is nil", nil)
	}

	v := validatorInstance()
	if err := v.Struct(cfg); err != nil {
		return convertValidationError(err)
	}

	seen := make(map[string]int, len(cfg.Hosts))
	for i, host := range cfg.Hosts {
		if first, exists := seen[host.Name]; exists {
			return rollouterrors.NewValidationError(fieldForHost(i, "name"), fmt.Sprintf("duplicate host name %q (first defined at hosts[%d])", host.Name, first), nil)
		}
		seen[host.Name] = i
	}

	return nil
}

func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if errors.As(err, &ves) {
		ve := ves[0]
		field := yamlishFieldName(ve)
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, ve.Tag())
		switch ve.Tag() {
		case "stage":
			msg = fmt.Sprintf("%s must be one of %s", field, strings.Join(deploy.Stages(), ", "))
		case "match_kind":
			msg = fmt.Sprintf("%s must be one of %s", field, strings.Join(version.MatchKinds(), ", "))
		}
		return rollouterrors.NewValidationError(field, msg, err)
	}

	return rollouterrors.NewValidationError("config", err.Error(), err)
}

func yamlishFieldName(fe validator.FieldError) string {
	ns := fe.StructNamespace()
	parts := strings.Split(ns, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	lowered := make([]string, 0, len(parts))
	for _, part := range parts {
		lowered = append(lowered, toSnake(part))
	}
	return strings.Join(lowered, ".")
}

// toSnake turns a Go field name such as "ReinstallOn" or "Hosts[1]" into its
// YAML key.
func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func fieldForHost(index int, field string) string {
	return fmt.Sprintf("hosts[%d].%s", index, field)
}
