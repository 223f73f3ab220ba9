// Package response contains the helpers building the unified JSON
// envelope of all HTTP handlers: {success, message, data?} on success
// and {success:false, message, type} on error, where type is the
// stable error kind tag.
package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"

	"github.com/skyfuel-aero/skyfuel-platform/internal/apperror"
)

// Response is the success envelope.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse is the error envelope.
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"Invalid request body"`
	Type    string `json:"type" example:"ValidationError"`
}

// OK returns a success envelope with a message only.
func OK(message string) Response {
	return Response{Success: true, Message: message}
}

// OKWithData returns a success envelope carrying data.
func OKWithData(message string, data any) Response {
	return Response{Success: true, Message: message, Data: data}
}

// Error maps an application error to the error envelope. Only the
// client-safe message and kind tag leave the server.
func Error(err error) ErrorResponse {
	appErr := apperror.From(err)
	return ErrorResponse{
		Success: false,
		Message: appErr.Message,
		Type:    string(appErr.Kind),
	}
}

// ErrorMessage builds an error envelope from a literal message and a
// validation kind, for request-decoding failures.
func ErrorMessage(msg string) ErrorResponse {
	return ErrorResponse{
		Success: false,
		Message: msg,
		Type:    string(apperror.KindValidation),
	}
}

// AuthError builds a 401 envelope with the AuthenticationError tag.
func AuthError(msg string) ErrorResponse {
	return ErrorResponse{
		Success: false,
		Message: msg,
		Type:    string(apperror.KindAuthentication),
	}
}

// ValidationError folds validator violations into one error envelope,
// each violation rendered as human-readable text.
func ValidationError(errs validator.ValidationErrors) ErrorResponse {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email address", err.Field()))
		case "min":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is too short", err.Field()))
		case "max":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is too long", err.Field()))
		case "eqfield":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must match %s", err.Field(), err.Param()))
		case "password":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at least 8 characters with one lowercase letter, one uppercase letter and one digit", err.Field()))
		case "oneof":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be one of: %s", err.Field(), err.Param()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not valid", err.Field()))
		}
	}
	return ErrorResponse{
		Success: false,
		Message: strings.Join(errsMsgs, ", "),
		Type:    string(apperror.KindValidation),
	}
}
