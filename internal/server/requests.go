package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type addUserRequest struct {
	Admin    string `json:"admin" validate:"required"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type deleteUserRequest struct {
	Admin    string `json:"admin" validate:"required"`
	Username string `json:"username" validate:"required"`
}

type createBillRequest struct {
	Creator      string          `json:"creator" validate:"required"`
	Amount       json.RawMessage `json:"amount"`
	Date         string          `json:"date"`
	Description  string          `json:"description"`
	Participants []string        `json:"participants"`
	Discount     bool            `json:"discount"`
}

// parseAmount accepts a JSON number or a numeric string, matching the
// original API's float(x) leniency. An absent amount is zero.
func parseAmount(raw json.RawMessage) (float64, error) {
	if len(raw) == 0 {
		return 0, nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strconv.ParseFloat(strings.TrimSpace(s), 64)
	}
	return 0, fmt.Errorf("invalid amount")
}

type payShareRequest struct {
	// Username may be empty when a Bearer token identifies the caller.
	Username string `json:"username"`
}

type deleteBillRequest struct {
	Admin  string `json:"admin" validate:"required"`
	BillID string `json:"bill_id" validate:"required"`
}

// decode unmarshals the request body into v and runs validation tags.
// Returns a caller-facing message on failure.
func (s *Server) decode(r *http.Request, v any) error {
	// An absent body is treated as an empty object, like the original API.
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && err != io.EOF {
		return fmt.Errorf("invalid request body")
	}
	if err := s.validate.Struct(v); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fieldError(fe))
			}
			return fmt.Errorf("%s", strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
