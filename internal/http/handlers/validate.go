package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// ValidationError is the wire shape for a single schema violation: the first
// failing rule wins and short-circuits the request.
type ValidationError struct {
	Message string                 `json:"message"`
	Path    []string               `json:"path"`
	Type    string                 `json:"type"`
	Context map[string]interface{} `json:"context"`
}

// BindJSON decodes and validates the request body. On any violation it writes
// the 422 response itself and returns false so the handler can bail out
// before touching the repository.
func BindJSON(ctx *gin.Context, out interface{}) bool {
	err := ctx.ShouldBindJSON(out)

	if err != nil && errors.Is(err, io.EOF) {
		// empty body: run the rules against the zero value so "required"
		// still reports field by field instead of a decode error
		err = validateStruct(out)
	}

	if err == nil {
		return true
	}

	RespondUnprocessable(ctx, parseBindError(err, out))

	return false
}

func validateStruct(out interface{}) error {
	engine, ok := binding.Validator.Engine().(*validator.Validate)

	if !ok {
		return nil
	}

	return engine.Struct(out)
}

func parseBindError(err error, out interface{}) ValidationError {
	rootType := baseStructType(out)

	// validator errors (struct bind tags)

	var validatorErrs validator.ValidationErrors

	if errors.As(err, &validatorErrs) && len(validatorErrs) > 0 {
		// fields are checked in declaration order; report the first only
		return violationFor(rootType, validatorErrs[0])
	}

	// in the event of a type mismatch

	var typeErr *json.UnmarshalTypeError

	if errors.As(err, &typeErr) && strings.TrimSpace(typeErr.Field) != "" {
		field := strings.TrimSpace(typeErr.Field)
		if jsonName := jsonNameForField(rootType, field); jsonName != "" {
			field = jsonName
		}

		return ValidationError{
			Message: fmt.Sprintf("%q must be a string", field),
			Path:    []string{field},
			Type:    "string.base",
			Context: errContext(field),
		}
	}

	// bad json, truncated body, anything else the decoder rejects
	return ValidationError{
		Message: `"body" must be a valid object`,
		Path:    []string{},
		Type:    "object.base",
		Context: errContext("body"),
	}
}

func violationFor(rootType reflect.Type, fe validator.FieldError) ValidationError {
	field := jsonNameForField(rootType, fe.StructField())
	if field == "" {
		field = fe.Field()
	}

	v := ValidationError{
		Path:    []string{field},
		Context: errContext(field),
	}

	switch fe.Tag() {
	case "required":
		v.Type = "any.required"
		v.Message = fmt.Sprintf("%q is required", field)

	case "email":
		v.Type = "string.email"
		v.Message = fmt.Sprintf("%q must be a valid email", field)

	case "min":
		v.Type = "string.min"
		v.Message = fmt.Sprintf("%q length must be at least %s characters long", field, fe.Param())
		if limit, err := strconv.Atoi(fe.Param()); err == nil {
			v.Context["limit"] = limit
		}

	case "eqfield":
		ref := jsonNameForField(rootType, fe.Param())
		if ref == "" {
			ref = fe.Param()
		}
		v.Type = "any.only"
		v.Message = fmt.Sprintf("%q must be [ref:%s]", field, ref)
		v.Context["ref"] = ref

	default:
		v.Type = fe.Tag()
		v.Message = fmt.Sprintf("%q failed %s validation", field, fe.Tag())
	}

	return v
}

// EmailInUse is the uniqueness violation. It is not a pure schema rule (it
// consults the repository) but it reports through the same error shape.
func EmailInUse() ValidationError {
	return ValidationError{
		Message: `"email" is already in use`,
		Path:    []string{"email"},
		Type:    "any.unique",
		Context: errContext("email"),
	}
}

func errContext(field string) map[string]interface{} {
	return map[string]interface{}{
		"label": field,
		"key":   field,
	}
}

func baseStructType(v interface{}) reflect.Type {
	t := reflect.TypeOf(v)

	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t != nil && t.Kind() == reflect.Struct {
		return t
	}

	return nil
}

func jsonNameForField(rootType reflect.Type, structField string) string {
	if rootType == nil || structField == "" {
		return ""
	}

	sf, ok := rootType.FieldByName(structField)
	if !ok {
		return ""
	}

	tag := sf.Tag.Get("json")
	if tag == "" {
		return sf.Name
	}

	name, _, _ := strings.Cut(tag, ",")
	if name == "" || name == "-" {
		return sf.Name
	}

	return name
}
