package config

import (
	"fmt"
	"reflect"
	"strings"
)

// Validator validates a loaded configuration
type Validator interface {
	Validate(config interface{}) error
}

// ValidatorFunc is a function that validates configuration
type ValidatorFunc func(config interface{}) error

func (f ValidatorFunc) Validate(config interface{}) error {
	return f(config)
}

// Validate runs every validator against config, stopping at the first error.
func Validate(config interface{}, validators ...Validator) error {
	for _, validator := range validators {
		if err := validator.Validate(config); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
	}
	return nil
}

// RangeValidator validates that a numeric field is within [min, max].
// Nested fields use dot notation (e.g. "Pool.Workers").
func RangeValidator(fieldName string, min, max float64) Validator {
	return ValidatorFunc(func(config interface{}) error {
		fieldVal, err := lookupField(config, fieldName)
		if err != nil {
			return err
		}

		var numVal float64
		switch fieldVal.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			numVal = float64(fieldVal.Int())
		case reflect.Float32, reflect.Float64:
			numVal = fieldVal.Float()
		default:
			return fmt.Errorf("field %s is not numeric", fieldName)
		}

		if numVal < min || numVal > max {
			return fmt.Errorf("field %s value %v is out of range [%v, %v]", fieldName, numVal, min, max)
		}
		return nil
	})
}

// OneOfValidator validates that a field holds one of the allowed values.
func OneOfValidator(fieldName string, allowedValues ...interface{}) Validator {
	return ValidatorFunc(func(config interface{}) error {
		fieldVal, err := lookupField(config, fieldName)
		if err != nil {
			return err
		}

		for _, allowed := range allowedValues {
			if reflect.DeepEqual(fieldVal.Interface(), allowed) {
				return nil
			}
		}
		return fmt.Errorf("field %s value %v is not one of allowed values: %v",
			fieldName, fieldVal.Interface(), allowedValues)
	})
}

// lookupField resolves a possibly nested field path on a struct or pointer
// to struct.
func lookupField(config interface{}, fieldPath string) (reflect.Value, error) {
	current := reflect.ValueOf(config)

	for _, part := range strings.Split(fieldPath, ".") {
		if current.Kind() == reflect.Ptr {
			current = current.Elem()
		}
		if current.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field %s not found in config struct", fieldPath)
		}
		current = current.FieldByName(part)
		if !current.IsValid() {
			return reflect.Value{}, fmt.Errorf("field %s not found in config struct", fieldPath)
		}
	}
	return current, nil
}
