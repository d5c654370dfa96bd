package account

import (
	"context"
	"errors"
	"reflect"
	"regexp"
	"strconv"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

const (
	MsgEmailTaken = "This email is already registered."
	MsgPhoneTaken = "This phone number is already registered."
)

// UniquenessChecker answers the look-ups the signup form needs. Repo satisfies it.
type UniquenessChecker interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
}

// Validator checks SignupForm shape with struct tags and renders the
// failures through an English translator.
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

func NewValidator() *Validator {
	v := validator.New()

	// Field names in messages come from the label tag.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("label")
	})

	// Errors here only happen on programmer mistakes (bad tag names).
	mustNot(v.RegisterValidation("signup_email", validateSignupEmail))
	mustNot(v.RegisterValidation("phone_digits", validatePhoneDigits))

	locale := en.New()
	trans, _ := ut.New(locale, locale).GetTranslator("en")

	for tag, text := range map[string]string{
		"min":          "{0} must be at least {1} characters.",
		"signup_email": "Invalid email format.",
		"phone_digits": "{0} must be exactly {1} digits (digits only).",
		"eqfield":      "Passwords do not match.",
	} {
		mustNot(v.RegisterTranslation(tag, trans, registerText(tag, text), translateField))
	}

	return &Validator{validate: v, trans: trans}
}

func mustNot(err error) {
	if err != nil {
		panic(err)
	}
}

func registerText(tag, text string) validator.RegisterTranslationsFunc {
	return func(t ut.Translator) error {
		return t.Add(tag, text, true)
	}
}

func translateField(t ut.Translator, fe validator.FieldError) string {
	msg, err := t.T(fe.Tag(), fe.Field(), fe.Param())
	if err != nil {
		return fe.Error()
	}
	return msg
}

// validateSignupEmail enforces the signup address pattern, which is
// stricter about the TLD than the built-in email tag.
func validateSignupEmail(fl validator.FieldLevel) bool {
	return emailPattern.MatchString(fl.Field().String())
}

// validatePhoneDigits requires exactly N ASCII digits, N taken from the param.
func validatePhoneDigits(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	s := fl.Field().String()
	if len(s) != n {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Check validates every field of form and, for well-formed email and
// phone values, asks uc whether they are taken. Fields are never
// short-circuited: a failure on one does not skip the others.
//
// A look-up error leaves that field unset, finishes the remaining checks
// and is returned alongside the partial result.
func (v *Validator) Check(ctx context.Context, form SignupForm, uc UniquenessChecker) (SignupCheck, error) {
	failed := map[string]validator.FieldError{}

	if err := v.validate.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return SignupCheck{}, err
		}
		for _, fe := range verrs {
			failed[fe.StructField()] = fe
		}
	}

	var (
		check     SignupCheck
		lookupErr error
	)
	fail := func(fe validator.FieldError) Flag {
		check.Messages = append(check.Messages, fe.Translate(v.trans))
		return FlagInvalid
	}
	taken := func(msg string, exists bool, err error) Flag {
		switch {
		case err != nil:
			if lookupErr == nil {
				lookupErr = err
			}
			return FlagUnset
		case exists:
			check.Messages = append(check.Messages, msg)
			return FlagInvalid
		default:
			return FlagValid
		}
	}

	if fe, ok := failed["FullName"]; ok {
		check.Flags.FullName = fail(fe)
	} else {
		check.Flags.FullName = FlagValid
	}

	if fe, ok := failed["Email"]; ok {
		check.Flags.Email = fail(fe)
	} else {
		exists, err := uc.ExistsByEmail(ctx, form.Email)
		check.Flags.Email = taken(MsgEmailTaken, exists, err)
	}

	if fe, ok := failed["PhoneNumber"]; ok {
		check.Flags.PhoneNumber = fail(fe)
	} else {
		exists, err := uc.ExistsByPhone(ctx, form.PhoneNumber)
		check.Flags.PhoneNumber = taken(MsgPhoneTaken, exists, err)
	}

	// Password and confirmation share one verdict; length wins over mismatch.
	pw := FlagValid
	if fe, ok := failed["Password"]; ok {
		pw = fail(fe)
	} else if fe, ok := failed["ConfirmPassword"]; ok {
		pw = fail(fe)
	}
	check.Flags.Password = pw
	check.Flags.ConfirmPassword = pw

	return check, lookupErr
}
