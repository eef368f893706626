package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/blocklistproject/blocklist-builder/src/internal/format"
)

// ValidateConfig validates the entire configuration and returns all validation errors
func (c *Config) ValidateConfig() error {
	var validationErrors ValidationErrors

	if c.Settings == nil {
		validationErrors = append(validationErrors, ValidationError{
			FieldPath: "settings",
			Message:   "configuration must contain 'settings' section",
		})
		return validationErrors
	}

	if err := validate.Struct(c.Settings); err != nil {
		validationErrors = append(validationErrors, convertValidatorErrors(err, "settings", "")...)
	}
	validationErrors = append(validationErrors, c.validateSettingsFiles()...)

	if len(c.Lists) == 0 {
		validationErrors = append(validationErrors, ValidationError{
			FieldPath: "list",
			Message:   "configuration must contain at least one list",
		})
	} else {
		validationErrors = append(validationErrors, c.validateLists()...)
	}

	validationErrors = append(validationErrors, c.validateFormats()...)

	if len(validationErrors) > 0 {
		return validationErrors
	}

	return nil
}

func (c *Config) validateSettingsFiles() ValidationErrors {
	var validationErrors ValidationErrors

	if path := c.GetAbsCriticalDomainsPath(); path != "" {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			validationErrors = append(validationErrors, ValidationError{
				FieldPath: "settings.critical_domains_file",
				Message:   fmt.Sprintf("file does not exist: %s", path),
			})
		}
	}

	return validationErrors
}

func (c *Config) validateLists() ValidationErrors {
	var validationErrors ValidationErrors
	seenNames := make(map[string]bool)

	for i, list := range c.Lists {
		if list == nil {
			validationErrors = append(validationErrors, ValidationError{
				FieldPath: fmt.Sprintf("list.%d", i),
				Message:   "list definition cannot be empty",
			})
			continue
		}

		itemName := list.Name
		if itemName == "" {
			itemName = fmt.Sprintf("list[%d]", i)
		}

		if err := validate.Struct(list); err != nil {
			validationErrors = append(validationErrors, convertValidatorErrors(err, fmt.Sprintf("list.%d", i), itemName)...)
		}

		if seenNames[list.Name] {
			validationErrors = append(validationErrors, ValidationError{
				ItemName:  itemName,
				FieldPath: "name",
				Message:   fmt.Sprintf("duplicate list name: %s", list.Name),
			})
		}
		seenNames[list.Name] = true

		seenCategories := make(map[string]bool)
		for _, category := range list.Categories {
			if seenCategories[category] {
				validationErrors = append(validationErrors, ValidationError{
					ItemName:  itemName,
					FieldPath: "categories",
					Message:   fmt.Sprintf("duplicate category: %s", category),
				})
			}
			seenCategories[category] = true
		}
	}

	return validationErrors
}

func (c *Config) validateFormats() ValidationErrors {
	var validationErrors ValidationErrors
	seenPaths := make(map[string]string)

	for _, f := range format.All() {
		def, ok := c.Formats[f.String()]
		if !ok {
			continue
		}
		fieldPrefix := "formats." + f.String()

		if def == nil {
			validationErrors = append(validationErrors, ValidationError{
				ItemName:  f.String(),
				FieldPath: fieldPrefix,
				Message:   "format definition cannot be empty",
			})
			continue
		}

		if err := validate.Struct(def); err != nil {
			validationErrors = append(validationErrors, convertValidatorErrors(err, fieldPrefix, f.String())...)
		}
		validationErrors = append(validationErrors, validateLineShape(f, def)...)

		// formats must not share an output path
		samplePath := def.RelativePath("{list}")
		if other, exists := seenPaths[samplePath]; exists {
			validationErrors = append(validationErrors, ValidationError{
				ItemName:  f.String(),
				FieldPath: fieldPrefix,
				Message:   fmt.Sprintf("output path collides with format %s", other),
			})
		}
		seenPaths[samplePath] = f.String()
	}

	for name := range c.Formats {
		if err := validate.Var(name, "format_name"); err != nil {
			validationErrors = append(validationErrors, convertValidatorErrors(err, "formats", name)...)
		}
	}

	return validationErrors
}

// validateLineShape checks the informational prefix, suffix and comment
// marker against the built-in line template of f.
func validateLineShape(f format.Format, def *FormatDefinition) ValidationErrors {
	var validationErrors ValidationErrors

	const sample = "example.com"
	line := f.Line(sample)
	idx := strings.Index(line, sample)
	prefix, suffix := line[:idx], line[idx+len(sample):]

	check := func(field, got, want string) {
		if got != "" && got != want {
			validationErrors = append(validationErrors, ValidationError{
				ItemName:  f.String(),
				FieldPath: "formats." + f.String() + "." + field,
				Message:   fmt.Sprintf("must be %q for format %s", want, f.String()),
			})
		}
	}
	check("prefix", def.Prefix, prefix)
	check("suffix", def.Suffix, suffix)
	check("comment_char", def.CommentChar, f.CommentMarker())

	return validationErrors
}

// convertValidatorErrors converts go-playground/validator errors to our ValidationError format
func convertValidatorErrors(err error, fieldPrefix string, itemName string) ValidationErrors {
	var validationErrors ValidationErrors

	var validatorErrs validator.ValidationErrors
	if errors.As(err, &validatorErrs) {
		for _, e := range validatorErrs {
			fieldPath := fieldPrefix
			if e.Field() != "" {
				// e.Field() returns the TOML tag name because we registered TagNameFunc
				if fieldPrefix != "" {
					fieldPath = fieldPrefix + "." + e.Field()
				} else {
					fieldPath = e.Field()
				}
			}

			validationErrors = append(validationErrors, ValidationError{
				ItemName:  itemName,
				FieldPath: fieldPath,
				Message:   getValidationMessage(e),
			})
		}
	}

	return validationErrors
}
