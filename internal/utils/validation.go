package utils

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Matches local@domain.tld; deliberately simpler than full RFC 5322.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validate = validator.New()

// ValidEmail reports whether the address looks like an email.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// MissingFields validates the struct's required fields and returns the JSON
// names of the ones that are absent, in declaration order.
func MissingFields(obj interface{}) []string {
	err := validate.Struct(obj)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}

	t := reflect.TypeOf(obj)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	var missing []string
	for _, e := range errs {
		if e.Tag() != "required" {
			continue
		}
		missing = append(missing, jsonName(t, e.StructField()))
	}
	return missing
}

func jsonName(t reflect.Type, structField string) string {
	field, ok := t.FieldByName(structField)
	if !ok {
		return structField
	}
	tag := field.Tag.Get("json")
	if tag == "" || tag == "-" {
		return structField
	}
	if idx := strings.Index(tag, ","); idx >= 0 {
		tag = tag[:idx]
	}
	return tag
}
