package domain

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"
)

const (
	MaxNameLen        = 100
	MaxTitleLen       = 200
	MaxDescriptionLen = 500
	MinPasswordLen    = 6
)

// ErrValidation is wrapped by every input validation failure.
var ErrValidation = errors.New("validation failed")

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *FieldError) Unwrap() error {
	return ErrValidation
}

func fieldErr(field, format string, args ...any) error {
	return &FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func trim(s string) string {
	return strings.TrimSpace(s)
}

func checkTitle(field, title string) error {
	switch {
	case trim(title) == "":
		return fieldErr(field, "is required")
	case utf8.RuneCountInString(title) > MaxTitleLen:
		return fieldErr(field, "must be at most %d characters", MaxTitleLen)
	}
	return nil
}

func checkDescription(desc string) error {
	if utf8.RuneCountInString(desc) > MaxDescriptionLen {
		return fieldErr("description", "must be at most %d characters", MaxDescriptionLen)
	}
	return nil
}

func checkEmail(email string) error {
	if trim(email) == "" {
		return fieldErr("email", "is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != trim(email) {
		return fieldErr("email", "is not a valid address")
	}
	return nil
}

func checkNewPassword(field, password, confirm string) []error {
	var errs []error
	if password == "" {
		errs = append(errs, fieldErr(field, "is required"))
	} else if utf8.RuneCountInString(password) < MinPasswordLen {
		errs = append(errs, fieldErr(field, "must be at least %d characters", MinPasswordLen))
	}
	if confirm == "" {
		errs = append(errs, fieldErr("confirm_password", "is required"))
	} else if password != confirm {
		errs = append(errs, fieldErr("confirm_password", "does not match"))
	}
	return errs
}

// Validate checks a registration form. All field errors are joined.
func (r Registration) Validate() error {
	var errs []error
	name := trim(r.Name)
	if name == "" {
		errs = append(errs, fieldErr("name", "is required"))
	} else if utf8.RuneCountInString(name) > MaxNameLen {
		errs = append(errs, fieldErr("name", "must be at most %d characters", MaxNameLen))
	}
	if err := checkEmail(r.Email); err != nil {
		errs = append(errs, err)
	}
	errs = append(errs, checkNewPassword("password", r.Password, r.ConfirmPassword)...)
	return errors.Join(errs...)
}

func (c Credentials) Validate() error {
	var errs []error
	if err := checkEmail(c.Email); err != nil {
		errs = append(errs, err)
	}
	if c.Password == "" {
		errs = append(errs, fieldErr("password", "is required"))
	}
	return errors.Join(errs...)
}

func (p PasswordChange) Validate() error {
	var errs []error
	if p.CurrentPassword == "" {
		errs = append(errs, fieldErr("current_password", "is required"))
	}
	errs = append(errs, checkNewPassword("new_password", p.NewPassword, p.ConfirmPassword)...)
	return errors.Join(errs...)
}

func (p ProfileUpdate) Validate() error {
	var errs []error
	if p.Name != nil {
		name := trim(*p.Name)
		if name == "" {
			errs = append(errs, fieldErr("name", "is required"))
		} else if utf8.RuneCountInString(name) > MaxNameLen {
			errs = append(errs, fieldErr("name", "must be at most %d characters", MaxNameLen))
		}
	}
	if p.Email != nil {
		if err := checkEmail(*p.Email); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (in PlanInput) Validate() error {
	var errs []error
	if err := checkTitle("title", in.Title); err != nil {
		errs = append(errs, err)
	}
	if err := checkDescription(in.Description); err != nil {
		errs = append(errs, err)
	}
	if in.StartDate.IsZero() {
		errs = append(errs, fieldErr("start_date", "is required"))
	}
	if in.EndDate != nil && !in.StartDate.IsZero() && !in.EndDate.After(in.StartDate) {
		errs = append(errs, fieldErr("end_date", "must be after the start date"))
	}
	return errors.Join(errs...)
}

func (u PlanUpdate) Validate() error {
	var errs []error
	if u.Title != nil {
		if err := checkTitle("title", *u.Title); err != nil {
			errs = append(errs, err)
		}
	}
	if u.Description != nil {
		if err := checkDescription(*u.Description); err != nil {
			errs = append(errs, err)
		}
	}
	if u.Status != nil && !ValidPlanStatuses[*u.Status] {
		errs = append(errs, fieldErr("status", "unknown value %q", *u.Status))
	}
	if u.StartDate != nil && u.EndDate != nil && !u.EndDate.After(*u.StartDate) {
		errs = append(errs, fieldErr("end_date", "must be after the start date"))
	}
	return errors.Join(errs...)
}

func (in GoalInput) Validate() error {
	var errs []error
	if err := checkTitle("title", in.Title); err != nil {
		errs = append(errs, err)
	}
	if err := checkDescription(in.Description); err != nil {
		errs = append(errs, err)
	}
	if _, err := ParseCategory(string(in.Category)); err != nil {
		errs = append(errs, fieldErr("category", "unknown value %q", in.Category))
	}
	if _, err := ParsePriority(string(in.Priority)); err != nil {
		errs = append(errs, fieldErr("priority", "unknown value %q", in.Priority))
	}
	return errors.Join(errs...)
}

func (u GoalUpdate) Validate() error {
	var errs []error
	if u.Title != nil {
		if err := checkTitle("title", *u.Title); err != nil {
			errs = append(errs, err)
		}
	}
	if u.Description != nil {
		if err := checkDescription(*u.Description); err != nil {
			errs = append(errs, err)
		}
	}
	if u.Category != nil {
		if _, err := ParseCategory(string(*u.Category)); err != nil {
			errs = append(errs, fieldErr("category", "unknown value %q", *u.Category))
		}
	}
	if u.Priority != nil {
		if _, err := ParsePriority(string(*u.Priority)); err != nil {
			errs = append(errs, fieldErr("priority", "unknown value %q", *u.Priority))
		}
	}
	return errors.Join(errs...)
}

func (in TaskInput) Validate() error {
	var errs []error
	if err := checkTitle("title", in.Title); err != nil {
		errs = append(errs, err)
	}
	if err := checkDescription(in.Description); err != nil {
		errs = append(errs, err)
	}
	if _, err := ParsePriority(string(in.Priority)); err != nil {
		errs = append(errs, fieldErr("priority", "unknown value %q", in.Priority))
	}
	return errors.Join(errs...)
}

func (u TaskUpdate) Validate() error {
	var errs []error
	if u.Title != nil {
		if err := checkTitle("title", *u.Title); err != nil {
			errs = append(errs, err)
		}
	}
	if u.Description != nil {
		if err := checkDescription(*u.Description); err != nil {
			errs = append(errs, err)
		}
	}
	if u.Priority != nil {
		if _, err := ParsePriority(string(*u.Priority)); err != nil {
			errs = append(errs, fieldErr("priority", "unknown value %q", *u.Priority))
		}
	}
	return errors.Join(errs...)
}
