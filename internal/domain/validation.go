package domain

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		// ALLOW-PANIC: static registration that can only fail on a programming error
		panic(fmt.Sprintf("register notblank validation: %v", err))
	}
	return v
}

var (
	msgTitleRequired    = "title is required"
	msgTitleEmpty       = "title cannot be empty"
	msgTitleTooLong     = fmt.Sprintf("title must not exceed %d characters", MaxTitleLength)
	msgDescTooLong      = fmt.Sprintf("description must not exceed %d characters", MaxDescriptionLength)
	msgFieldInvalidForm = "%s is invalid"
)

// Validate checks the input for a create or replace operation.
// It returns a *ValidationError listing every violated rule, or nil.
func (in TaskInput) Validate() error {
	return collect(validate.Struct(in), func(field, tag string) string {
		switch {
		case field == "Title" && (tag == "required" || tag == "notblank"):
			return msgTitleRequired
		case field == "Title" && tag == "max":
			return msgTitleTooLong
		case field == "Description" && tag == "max":
			return msgDescTooLong
		}
		return fmt.Sprintf(msgFieldInvalidForm, field)
	})
}

// Validate checks the fields present in a partial update.
// It returns a *ValidationError listing every violated rule, or nil.
func (p TaskPatch) Validate() error {
	return collect(validate.Struct(p), func(field, tag string) string {
		switch {
		case field == "Title" && tag == "notblank":
			return msgTitleEmpty
		case field == "Title" && tag == "max":
			return msgTitleTooLong
		case field == "Description" && tag == "max":
			return msgDescTooLong
		}
		return fmt.Sprintf(msgFieldInvalidForm, field)
	})
}

// collect translates validator field errors into a ValidationError.
func collect(err error, message func(field, tag string) string) error {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, message(fe.StructField(), fe.Tag()))
	}
	return NewValidationError(messages...)
}

// ValidationMessages returns the client-facing messages carried by err,
// or nil when err is not a ValidationError.
func ValidationMessages(err error) []string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Messages
	}
	return nil
}
