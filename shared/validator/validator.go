package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"tasklist/shared/failure"

	val "github.com/go-playground/validator/v10"
)

var validate *val.Validate

// notBlank rejects strings that are empty once surrounding whitespace is removed.
func notBlank(field val.FieldLevel) bool {
	if str, ok := field.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}

	return !field.Field().IsZero()
}

// maxBytes bounds the encoded length of a string, unlike max which counts runes.
func maxBytes(field val.FieldLevel) bool {
	limit, err := strconv.Atoi(field.Param())
	if err != nil {
		panic(fmt.Sprintf("maxbytes: invalid parameter %q", field.Param()))
	}

	return len(field.Field().String()) <= limit
}

func init() {
	validate = val.New(val.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return field.Name
		}

		return name
	})

	err := validate.RegisterValidation("empty", func(fl val.FieldLevel) bool {
		empty := fl.Field().IsZero()

		return empty
	})

	if err != nil {
		panic(err)
	}

	err = validate.RegisterValidation("notblank", notBlank)
	if err != nil {
		panic(err)
	}

	err = validate.RegisterValidation("maxbytes", maxBytes)
	if err != nil {
		panic(err)
	}
}

// Validate reads from the given io.Reader into the given struct, and then performs validation
// on the struct using the validator package. If the struct is invalid according to the
// validation rules, an error is returned. Otherwise, nil is returned.
// https://github.com/go-playground/validator
func Validate[T any](r io.Reader, data *T) error {
	decoder := json.NewDecoder(r)
	err := decoder.Decode(data)

	if err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	err := validate.Struct(data)

	if err != nil {
		msg := message(err)

		return failure.BadRequestFromString(msg) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	err := validate.Var(field, tag)

	if err != nil {
		msg := message(err)

		return failure.BadRequestFromString(msg) //nolint:wrapcheck
	}

	return nil
}
