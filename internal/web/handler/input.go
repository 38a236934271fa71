package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/GoAccessAdmin/GoAccessAdmin/internal/apperror"
)

// Param is a request parameter. In JSON bodies it accepts strings, numbers and
// arrays of numbers (joined with commas).
type Param string

// UnmarshalJSON implements json.Unmarshaler.
func (p *Param) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case bytes.Equal(data, []byte("null")):
		*p = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		*p = Param(s)
	case len(data) > 0 && data[0] == '[':
		var items []json.Number
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}

		parts := make([]string, 0, len(items))
		for _, item := range items {
			parts = append(parts, item.String())
		}

		*p = Param(strings.Join(parts, ","))
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}

		*p = Param(n.String())
	}

	return nil
}

// UnmarshalText implements encoding.TextUnmarshaler for query and form decoding.
func (p *Param) UnmarshalText(text []byte) error {
	*p = Param(text)
	return nil
}

// String returns the raw value.
func (p Param) String() string {
	return string(p)
}

// Optional returns nil for an empty parameter.
func (p Param) Optional() *string {
	if p == "" {
		return nil
	}

	s := string(p)

	return &s
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// report parameters by their wire name
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0] //nolint:mnd
		if name == "" || name == "-" {
			return field.Name
		}

		return name
	})

	return v
}

// Bind decodes the request parameters into in and validates them. GET requests and
// requests without a body read the query string; otherwise the body is decoded as
// JSON or as a URL-encoded form depending on its content type.
func Bind(c *fiber.Ctx, in any) error {
	var err error

	if c.Method() == fiber.MethodGet || len(c.Body()) == 0 {
		err = c.QueryParser(in)
	} else {
		err = c.BodyParser(in)
	}

	if err != nil {
		return apperror.BadRequest("malformed request parameters").WithCause(err)
	}

	return Validate(in)
}

// Validate checks the validate tags of in and reports the first failing parameter.
func Validate(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return apperror.BadRequest("invalid request parameters").WithCause(err)
	}

	fe := validationErrors[0]

	switch fe.Tag() {
	case "required":
		return apperror.BadRequest("parameter [%s] not found", fe.Field())
	case "numeric":
		return apperror.BadRequest("parameter [%s] must be numeric", fe.Field())
	default:
		return apperror.BadRequest("parameter [%s] failed validation [%s]", fe.Field(), fe.Tag())
	}
}

// ParseID converts a validated id parameter.
func ParseID(p Param) (uint64, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(p.String()), 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.BadRequest("parameter [id] must be a positive integer, got [%s]", p)
	}

	return id, nil
}

// ParseIDList converts a comma separated list of ids. Empty elements are skipped.
func ParseIDList(name string, p Param) ([]uint64, error) {
	ids := make([]uint64, 0)

	for _, part := range strings.Split(p.String(), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		id, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return nil, apperror.BadRequest("parameter [%s] must be a comma separated list of ids, got [%s]", name, part)
		}

		ids = append(ids, id)
	}

	return ids, nil
}
