// Package validate checks user profile fields one at a time.
package validate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"example.com/golfbuddy/internal/models"
	"github.com/go-playground/validator/v10"
)

// Field names accepted on registration and profile edit.
const (
	Name      = "name"
	Gender    = "gender"
	Email     = "email"
	HCP       = "hcp"
	Password  = "password"
	Birthdate = "birthdate"
)

// Required lists every field a registration must carry.
var Required = []string{Name, Gender, Email, HCP, Password, Birthdate}

const (
	MsgName       = "Name must be between 1 and 51 characters"
	MsgGender     = "Gender not correct"
	MsgEmailTaken = "This email already has an account"
	MsgHCPRange   = "Not valid HCP"
	MsgHCPFormat  = "HCP must be in the form 1.0"
	MsgPassword   = "Password must be between 7 and 101 characters"
	MsgBirthdate  = "Not correct date"
	MsgWrongInput = "Wrong input"
	MsgMissing    = "Please enter all fields of data"
)

const (
	MinHCP = -4.0
	MaxHCP = 54.0
)

// Error is a rejected field together with the message shown to the caller.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// EmailLookup reports whether an email is already registered.
type EmailLookup interface {
	EmailTaken(ctx context.Context, email string) (bool, error)
}

// Validator checks raw JSON values against the per-field rules.
type Validator struct {
	emails EmailLookup
	v      *validator.Validate
}

var tags = map[string]string{
	Name:      "min=2,max=50",
	Gender:    "gender",
	Password:  "min=8,max=100",
	Birthdate: "datetime=2006-01-02",
}

func New(emails EmailLookup) *Validator {
	v := validator.New()
	_ = v.RegisterValidation("gender", func(fl validator.FieldLevel) bool {
		return slices.Contains(models.Genders, fl.Field().String())
	})
	return &Validator{emails: emails, v: v}
}

// Field validates one raw value. It returns nil when the value is accepted,
// *Error when a rule rejects it, and any other error when the email lookup
// fails.
func (val *Validator) Field(ctx context.Context, field string, raw json.RawMessage) error {
	switch field {
	case Name, Gender, Password, Birthdate:
		s, ok := asString(raw)
		if !ok || val.v.Var(s, tags[field]) != nil {
			return &Error{Field: field, Message: messageFor(field)}
		}
		return nil
	case Email:
		s, ok := asString(raw)
		if !ok {
			return &Error{Field: field, Message: MsgWrongInput}
		}
		taken, err := val.emails.EmailTaken(ctx, s)
		if err != nil {
			return err
		}
		if taken {
			return &Error{Field: field, Message: MsgEmailTaken}
		}
		return nil
	case HCP:
		h, err := ParseHCP(raw)
		if err != nil {
			return &Error{Field: field, Message: MsgHCPFormat}
		}
		if !(h >= MinHCP && h <= MaxHCP) {
			return &Error{Field: field, Message: MsgHCPRange}
		}
		return nil
	default:
		return &Error{Field: field, Message: MsgWrongInput}
	}
}

func messageFor(field string) string {
	switch field {
	case Name:
		return MsgName
	case Gender:
		return MsgGender
	case Password:
		return MsgPassword
	case Birthdate:
		return MsgBirthdate
	}
	return MsgWrongInput
}

// ParseHCP accepts a JSON number or a numeric string.
func ParseHCP(raw json.RawMessage) (float64, error) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, nil
	}
	s, ok := asString(raw)
	if !ok {
		return 0, errors.New("hcp is neither number nor string")
	}
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// String decodes a JSON string value.
func String(raw json.RawMessage) (string, bool) {
	return asString(raw)
}

func asString(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Message extracts the caller-facing message from a validation error.
func Message(err error) (string, bool) {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Message, true
	}
	return "", false
}
