// SPDX-License-Identifier: EPL-2.0

package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report yaml key names instead of Go field names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	validate.RegisterStructValidation(validateStorage, Storage{})
}

func validateStorage(sl validator.StructLevel) {
	s := sl.Current().Interface().(Storage)

	switch s.Backend {
	case "local":
		if s.Dir == "" {
			sl.ReportError(s.Dir, "dir", "Dir", "required_for_local", "")
		}
	case "s3":
		if s.S3.Bucket == "" {
			sl.ReportError(s.S3.Bucket, "s3.bucket", "Bucket", "required_for_s3", "")
		}
	}

	if !s.InMemory && s.BadgerDir == "" {
		sl.ReportError(s.BadgerDir, "badger_dir", "BadgerDir", "required_without_in_memory", "")
	}
}

// Validate checks every field constraint and returns a single error
// listing all failures.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fieldPath(e)+" "+message(e))
	}

	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

// fieldPath drops the root struct name from the namespace.
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}

	return ns
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "required_for_local", "required_for_s3", "required_without_in_memory":
		return "is required"
	case "min", "gte":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max", "lte":
		return fmt.Sprintf("must be at most %s", e.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", e.Param())
	case "url":
		return "must be a valid URL"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	default:
		return fmt.Sprintf("failed validation '%s'", e.Tag())
	}
}
