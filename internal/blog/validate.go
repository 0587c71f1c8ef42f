package blog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// formOrder is the order fields appear in the create form; the first
// failing field in this order is reported.
var formOrder = []struct {
	field string
	label string
}{
	{"Title", "Title"},
	{"Category", "Categories"},
	{"CoverImage", "Cover Image URL"},
	{"Description", "Description"},
	{"Content", "Content"},
}

// ValidationError names the first required field a draft is missing.
type ValidationError struct {
	Field string
	Label string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Label)
}

// Validate checks that every required field is populated.
func (d Draft) Validate() error {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate draft: %w", err)
	}
	failed := make(map[string]bool, len(verrs))
	for _, fe := range verrs {
		name, _, _ := strings.Cut(fe.StructField(), "[")
		failed[name] = true
	}
	for _, f := range formOrder {
		if failed[f.field] {
			return &ValidationError{Field: f.field, Label: f.label}
		}
	}
	fe := verrs[0]
	return &ValidationError{Field: fe.StructField(), Label: fe.StructField()}
}
