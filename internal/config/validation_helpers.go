package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	bcerrors "github.com/alexisbeaulieu97/bookconnect/pkg/errors"
)

// Validate checks the settings document.
func Validate(cfg *Config) error {
	if cfg == nil {
		return bcerrors.NewValidationError("config", "configuration is nil", nil)
	}
	if err := validatorInstance().Struct(cfg); err != nil {
		return convertValidationError(err)
	}
	return nil
}

// convertValidationError normalizes validator errors into bookconnect validation errors.
func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		ve := ves[0]
		field := yamlishFieldName(ve)
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, ve.Tag())
		return bcerrors.NewValidationError(field, msg, err)
	}

	return bcerrors.NewValidationError("config", err.Error(), err)
}

var fieldNames = map[string]string{
	"pagesize": "page_size",
}

// yamlishFieldName turns "Config.Source.Git.URL" into "source.git.url".
func yamlishFieldName(fe validator.FieldError) string {
	parts := strings.Split(fe.StructNamespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	lowered := make([]string, 0, len(parts))
	for _, part := range parts {
		name := strings.ToLower(part)
		if mapped, ok := fieldNames[name]; ok {
			name = mapped
		}
		lowered = append(lowered, name)
	}
	return strings.Join(lowered, ".")
}
