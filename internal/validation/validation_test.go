package validation_test

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vasiliy-maslov/ecommerce-console/internal/validation"
)

type sample struct {
	Name     string `json:"nomeunidade" validate:"required"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Internal string `json:"-" validate:"required"`
	Untagged string `validate:"required"`
}

func TestNew_ReportsJSONNames(t *testing.T) {
	err := validation.New().Struct(sample{Email: "not-an-email"})

	var validationErrors validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrors)
	fields := map[string]string{}
	for _, fe := range validationErrors {
		fields[fe.Field()] = fe.Tag()
	}
	assert.Equal(t, map[string]string{
		"nomeunidade": "required",
		"email":       "email",
		"Internal":    "required",
		"Untagged":    "required",
	}, fields)
}
