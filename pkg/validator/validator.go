package validator

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"go-societe-admin/pkg/apperror"
	"go-societe-admin/pkg/optional"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

var validate = validator.New()

func init() {
	// Report json names instead of Go field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	validate.RegisterValidation("uuid_required", func(fl validator.FieldLevel) bool {
		if id, ok := fl.Field().Interface().(uuid.UUID); ok {
			return id != uuid.Nil
		}
		return false
	})

	// Tri-state fields validate as their inner value; absent or null is empty.
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(optional.Value[string]); ok && v.Ptr != nil {
			return *v.Ptr
		}
		return nil
	}, optional.Value[string]{})
}

// Collect returns the raw list of failed constraints, empty when data is valid.
func Collect(data interface{}) []*ErrorResponse {
	var errs []*ErrorResponse
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []*ErrorResponse{{FailedField: "", Tag: "invalid", Value: err.Error()}}
	}
	for _, e := range verrs {
		errs = append(errs, &ErrorResponse{
			FailedField: e.Field(),
			Tag:         e.Tag(),
			Value:       e.Param(),
		})
	}
	return errs
}

// ValidateStruct validates data and returns an *apperror.Error of kind
// validation with one message per failing field, or nil.
func ValidateStruct(data interface{}) error {
	return toError(Collect(data))
}

func toError(errs []*ErrorResponse) error {
	if len(errs) == 0 {
		return nil
	}
	fields := make(map[string]string, len(errs))
	for _, e := range errs {
		if _, seen := fields[e.FailedField]; seen {
			continue
		}
		fields[e.FailedField] = message(e)
	}
	return apperror.ValidationFields(message(errs[0]), fields)
}

var (
	uuidType         = reflect.TypeOf(uuid.UUID{})
	optionalUUIDType = reflect.TypeOf(optional.Value[uuid.UUID]{})
)

// InvalidUUIDs checks the UUID fields of dst against the raw JSON body and
// reports every present, non-null value that is not a UUID. encoding/json
// aborts on the first such value without naming the key, so handlers call
// this after a failed bind.
func InvalidUUIDs(body []byte, dst interface{}) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil
	}

	var errs []*ErrorResponse
	for _, name := range uuidFields(reflect.TypeOf(dst)) {
		value, ok := raw[name]
		if !ok || bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			continue
		}
		var s string
		if err := json.Unmarshal(value, &s); err == nil {
			if _, err := uuid.Parse(s); err == nil {
				continue
			}
		}
		errs = append(errs, &ErrorResponse{FailedField: name, Tag: "uuid"})
	}
	return toError(errs)
}

// uuidFields lists the json names of t's uuid.UUID, *uuid.UUID and
// optional.Value[uuid.UUID] fields, embedded structs included.
func uuidFields(t reflect.Type) []string {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}

	var names []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous {
			names = append(names, uuidFields(f.Type)...)
			continue
		}
		if !f.IsExported() {
			continue
		}
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		ft := f.Type
		if ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
		if ft == uuidType || ft == optionalUUIDType {
			names = append(names, name)
		}
	}
	return names
}

func message(e *ErrorResponse) string {
	field := e.FailedField
	switch e.Tag {
	case "required", "uuid_required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		return field + " must be at least " + e.Value + " characters"
	case "max":
		return field + " must be at most " + e.Value + " characters"
	case "uuid":
		return field + " must be a valid UUID"
	case "eqfield":
		return field + " does not match"
	case "oneof":
		return field + " must be one of " + e.Value
	default:
		return field + " is invalid"
	}
}
