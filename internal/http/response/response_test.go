package response_test

import (
	"errors"
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyfuel-aero/skyfuel-platform/internal/apperror"
	"github.com/skyfuel-aero/skyfuel-platform/internal/http/response"
)

func TestOK(t *testing.T) {
	resp := response.OK("done")
	assert.True(t, resp.Success)
	assert.Equal(t, "done", resp.Message)
	assert.Nil(t, resp.Data)
}

func TestOKWithData(t *testing.T) {
	resp := response.OKWithData("done", map[string]any{"id": 7})
	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Data)
}

func TestError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantType    string
		wantMessage string
	}{
		{
			name:        "typed conflict",
			err:         apperror.Conflict("Email already registered"),
			wantType:    "ConflictError",
			wantMessage: "Email already registered",
		},
		{
			name:        "typed authentication",
			err:         apperror.Authentication("Invalid email or password"),
			wantType:    "AuthenticationError",
			wantMessage: "Invalid email or password",
		},
		{
			name:        "untyped error is masked",
			err:         errors.New("pq: connection refused"),
			wantType:    "InternalError",
			wantMessage: "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := response.Error(tt.err)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantType, resp.Type)
			assert.Equal(t, tt.wantMessage, resp.Message)
		})
	}
}

func TestValidationError(t *testing.T) {
	type form struct {
		Email    string `validate:"required,email"`
		Password string `validate:"required"`
	}

	err := validator.New().Struct(form{Email: "not-an-email"})
	require.Error(t, err)

	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)

	resp := response.ValidationError(errs)
	assert.False(t, resp.Success)
	assert.Equal(t, "ValidationError", resp.Type)
	assert.Contains(t, resp.Message, "field Email must be a valid email address")
	assert.Contains(t, resp.Message, "field Password is a required field")
}
