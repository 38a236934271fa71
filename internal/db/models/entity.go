// Package models contains database model definitions.
package models

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/GoAccessAdmin/GoAccessAdmin/internal/apperror"
)

// DateTimeFormat is the layout used when entities are serialized (HTML datetime-local).
const DateTimeFormat = "2006-01-02T15:04"

// Entity is the capability set the generic gateway needs from a primary record.
type Entity interface {
	// TableName returns the database table of the entity.
	TableName() string
	// GetID returns the store assigned id, 0 if not persisted yet.
	GetID() uint64
	// UpdatableColumns lists the columns written by an update.
	UpdatableColumns() []string
	// ValidateForCreate checks the record can be inserted.
	ValidateForCreate() error
	// ValidateForUpdate checks the record can be updated.
	ValidateForUpdate() error
	// ValidateForDelete checks the record can be deleted.
	ValidateForDelete() error
	// CheckStored validates a row read back from the store.
	CheckStored() error
	// Touch sets the last modification date.
	Touch(t time.Time)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// checkLength validates value against max (in runes) and names field in the error.
func checkLength(field, value string, limit int) error {
	if err := validate.Var(value, "max="+strconv.Itoa(limit)); err != nil {
		return apperror.NewValidation("%s length must not be longer than %d characters", field, limit)
	}

	return nil
}

// checkStruct runs the validate tags of v and converts the first failure.
func checkStruct(entity string, v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return apperror.NewValidation("%s is not valid: %v", entity, err)
	}

	fe := validationErrors[0]

	switch fe.Tag() {
	case "required":
		return apperror.NewValidation("%s is not valid: %s value not set", entity, fe.Field())
	case "max":
		return apperror.NewValidation("%s is not valid: %s must not be longer than %s characters",
			entity, fe.Field(), fe.Param())
	default:
		return apperror.NewValidation("%s is not valid: %s failed validation tag '%s'",
			entity, fe.Field(), fe.Tag())
	}
}

func formatDate(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}

	s := t.Format(DateTimeFormat)

	return &s
}

// All returns every model in migration order.
func All() []any {
	return []any{
		&User{},
		&Permission{},
		&UserGroup{},
		&UserPermission{},
		&UserGroupPermission{},
	}
}
