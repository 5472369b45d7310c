// Copyright (C) 2025 Zidio Development (opensource@zidio.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package validation validates user-submitted forms before they reach
// the session or content layers: credentials, password changes, and
// profile updates.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MinPasswordLength is the floor enforced on new passwords.
const MinPasswordLength = 8

var validate = validator.New(validator.WithRequiredStructEnabled())

// Credentials is an email/password pair as submitted by the sign-in
// form.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// PasswordChange is the change-password form. The new password must meet
// the length floor and the confirmation must match it exactly.
type PasswordChange struct {
	Current string `json:"currentPassword" validate:"required"`
	New     string `json:"newPassword" validate:"required,min=8"`
	Confirm string `json:"confirmPassword" validate:"required,eqfield=New"`
}

// ProfileUpdate is the editable subset of a profile form.
type ProfileUpdate struct {
	Name    string `json:"name" validate:"omitempty,min=1,max=100"`
	Email   string `json:"email" validate:"omitempty,email"`
	Website string `json:"website" validate:"omitempty,url"`
	Bio     string `json:"bio" validate:"omitempty,max=500"`
}

// ValidateCredentials checks a sign-in form.
func ValidateCredentials(c Credentials) error {
	return humanize(validate.Struct(c))
}

// ValidatePasswordChange checks a change-password form.
func ValidatePasswordChange(p PasswordChange) error {
	return humanize(validate.Struct(p))
}

// ValidateProfileUpdate checks a profile form.
func ValidateProfileUpdate(p ProfileUpdate) error {
	return humanize(validate.Struct(p))
}

// humanize rewrites validator's field errors into messages fit for a
// form, one line per failed field.
func humanize(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fieldName(fe.Field()))
	case "email":
		return "email address is not valid"
	case "url":
		return "website must be a valid URL"
	case "min":
		if fe.Field() == "New" {
			return fmt.Sprintf("new password must be at least %d characters", MinPasswordLength)
		}
		return fmt.Sprintf("%s is too short", fieldName(fe.Field()))
	case "max":
		return fmt.Sprintf("%s is too long", fieldName(fe.Field()))
	case "eqfield":
		return "password confirmation does not match"
	default:
		return fmt.Sprintf("%s is invalid", fieldName(fe.Field()))
	}
}

func fieldName(f string) string {
	switch f {
	case "New":
		return "new password"
	case "Current":
		return "current password"
	case "Confirm":
		return "password confirmation"
	default:
		return strings.ToLower(f)
	}
}
