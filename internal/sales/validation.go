package sales

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ErrInvalidDraft is returned when a booking or payment draft breaks a precondition
var ErrInvalidDraft = errors.New("sales: invalid draft")

// ValidationError names one field of a draft and the rule it failed
type ValidationError struct {
	Field string
	Rule  string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s failed on '%s'", e.Field, e.Rule)
}

// ValidationErrors lists every failed rule of a draft, in field order
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Error()
	}
	return strings.Join(msgs, "; ")
}

// DraftValidator checks drafts against their validate struct tags
type DraftValidator struct {
	validate *validator.Validate
}

// NewDraftValidator creates a validator that understands decimal amounts and
// reports fields by their JSON names
func NewDraftValidator() *DraftValidator {
	v := validator.New()

	// Decimals are only ever range-checked against zero, so the sign is exact
	// where a float64 conversion would round tiny negatives to -0
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.Sign()
		}
		return nil
	}, decimal.Decimal{})

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	return &DraftValidator{validate: v}
}

// Validate returns an error wrapping ErrInvalidDraft and ValidationErrors when
// draft breaks any of its rules
func (dv *DraftValidator) Validate(draft any) error {
	err := dv.validate.Struct(draft)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate draft: %w", err)
	}

	errs := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, ValidationError{Field: fe.Field(), Rule: fe.Tag()})
	}
	return fmt.Errorf("%w: %w", ErrInvalidDraft, errs)
}
