package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/idelchi/gogen/pkg/validator"
)

// wordSize is the alignment required of chunk sizes.
const wordSize = 8

// registerExclusive adds a custom validator ensuring two fields are mutually exclusive,
// and reports fields by their label tag.
func registerExclusive(validator *validator.Validator) error {
	if err := validator.RegisterValidationAndTranslation(
		"exclusive",
		validateExclusive,
		"{0} is mutually exclusive with {1}",
	); err != nil {
		return fmt.Errorf("registering exclusive validation: %w", err)
	}

	validator.Validator().RegisterTagNameFunc(func(fld reflect.StructField) string {
		const splitSize = 2

		name := strings.SplitN(fld.Tag.Get("label"), ",", splitSize)[0]
		if name == "-" || name == "" {
			return fld.Name
		}

		return name
	})

	return nil
}

// registerWordAligned adds a custom validator requiring integers to be a multiple of the word size.
func registerWordAligned(validator *validator.Validator) error {
	if err := validator.RegisterValidationAndTranslation(
		"wordaligned",
		validateWordAligned,
		fmt.Sprintf("{0} must be a multiple of %d", wordSize),
	); err != nil {
		return fmt.Errorf("registering wordaligned validation: %w", err)
	}

	return nil
}

// validateExclusive checks if two fields are mutually exclusive.
// Returns false if both fields have non-empty values.
func validateExclusive(fl validator.FieldLevel) bool {
	otherFieldName := fl.Param()
	field := fl.Field()
	otherField := fl.Parent().FieldByName(otherFieldName)

	if !field.IsValid() || !otherField.IsValid() {
		return true
	}

	if field.Kind() == reflect.String && otherField.Kind() == reflect.String {
		return field.String() == "" || otherField.String() == ""
	}

	return true
}

// validateWordAligned checks that an integer field is a multiple of the word size.
func validateWordAligned(fl validator.FieldLevel) bool {
	field := fl.Field()

	switch field.Kind() { //nolint:exhaustive
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return field.Int()%wordSize == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return field.Uint()%wordSize == 0
	default:
		return false
	}
}
