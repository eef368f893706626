package config

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/blocklistproject/blocklist-builder/src/internal/format"
)

var listNameRegexp = regexp.MustCompile(`^[a-z0-9][a-z0-9_.-]*$`)

// getValidationMessage returns a human-readable message for a validation error
func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "field is required"
	case "gte":
		return fmt.Sprintf("must be >= %s", e.Param())
	case "lte":
		return fmt.Sprintf("must be <= %s", e.Param())
	case "url":
		return "must be a valid URL"
	case "list_name":
		return "must consist only of lowercase letters, numbers, dots, hyphens and underscores"
	case "list_status":
		return fmt.Sprintf("must be one of: %s, %s, %s", StatusStable, StatusBeta, StatusDeprecated)
	case "format_name":
		return fmt.Sprintf("must be one of: %s", strings.Join(format.Names(), ", "))
	case "url_template":
		return "must be a valid template, available variables: {name}"
	case "path_template":
		return "must be a valid template, available variables: {name}, {output_dir}, {extension}"
	case "single_line":
		return "must not contain line breaks or control characters"
	default:
		return fmt.Sprintf("validation failed: %s", e.Tag())
	}
}

// ValidationError represents a single validation error with context
type ValidationError struct {
	ItemName  string `json:"item_name,omitempty"` // For lists/formats: the name of the item (e.g., "ads", "adguard")
	FieldPath string `json:"field_path"`          // Dot-notation field path (e.g., "settings.concurrency", "list.0.status")
	Message   string `json:"message"`             // Human-readable error message
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("validation failed with %d error(s):\n", len(ve)))
	for i, err := range ve {
		if err.ItemName != "" {
			sb.WriteString(fmt.Sprintf("  %d. [%s] %s: %s\n", i+1, err.ItemName, err.FieldPath, err.Message))
		} else {
			sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.FieldPath, err.Message))
		}
	}
	return sb.String()
}

var validate *validator.Validate

func init() {
	validate = validator.New()

	if err := validate.RegisterValidation("list_name", validateListName); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("list_status", validateListStatus); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("format_name", validateFormatName); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("url_template", validateURLTemplate); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("path_template", validatePathTemplate); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("single_line", validateSingleLine); err != nil {
		panic(err)
	}

	// Register function to get field name from "toml" tag
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateListName(fl validator.FieldLevel) bool {
	return listNameRegexp.MatchString(fl.Field().String())
}

func validateListStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case StatusStable, StatusBeta, StatusDeprecated:
		return true
	}
	return false
}

func validateFormatName(fl validator.FieldLevel) bool {
	_, err := format.Parse(fl.Field().String())
	return err == nil
}

func validateURLTemplate(fl validator.FieldLevel) bool {
	return checkTemplate(fl.Field().String(), urlTemplateTags) == nil
}

func validatePathTemplate(fl validator.FieldLevel) bool {
	tmpl := fl.Field().String()
	return checkTemplate(tmpl, pathTemplateTags) == nil && strings.Contains(tmpl, "{"+TMPL_NAME+"}")
}

// validateSingleLine rejects values that would break out of a header line.
func validateSingleLine(fl validator.FieldLevel) bool {
	return !strings.ContainsFunc(fl.Field().String(), func(r rune) bool {
		return r != '\t' && unicode.IsControl(r)
	})
}
