package lead

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"lead_handler/phonemask"
)

const (
	maxSourceLen  = 100
	defaultSource = "Неизвестно"
)

// Lead is a validated, trimmed submission.
type Lead struct {
	Name    string `json:"name" validate:"min=2,max=100"`
	Phone   string `json:"phone" validate:"ruphone"`
	Email   string `json:"email,omitempty" validate:"omitempty,max=255,leademail"`
	Message string `json:"message,omitempty" validate:"omitempty,max=1000"`
	Source  string `json:"source"`
}

// PhoneHref is the digits-only tel: target of the submitted phone.
func (l Lead) PhoneHref() string { return phonemask.Href(l.Phone) }

// DisplayPhone returns the phone in mask form, or as submitted if it does not fit the mask.
func (l Lead) DisplayPhone() string {
	if phonemask.IsValid(l.Phone) {
		return phonemask.Format(l.Phone)
	}
	return l.Phone
}

var (
	addressRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	validate  = newValidator()
)

var fieldReasons = map[string]string{
	"Name":    "Имя должно содержать от 2 до 100 символов",
	"Phone":   "Некорректный формат телефона",
	"Email":   "Некорректный email",
	"Message": "Сообщение не должно превышать 1000 символов",
}

func newValidator() *validator.Validate {
	v := validator.New()
	mustRegister(v, "ruphone", func(fl validator.FieldLevel) bool {
		return phonemask.IsValid(fl.Field().String())
	})
	mustRegister(v, "leademail", func(fl validator.FieldLevel) bool {
		return addressRe.MatchString(fl.Field().String())
	})
	return v
}

// mustRegister panics if tag cannot be registered, so a bad tag fails at startup.
func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("lead: register validation %q: %v", tag, err))
	}
}

// Parse decodes a JSON object body. Fields holding anything but a string are
// read as empty so they fail validation instead of parsing.
func Parse(body []byte) (Lead, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return Lead{}, ErrMalformedPayload
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return Lead{}, ErrMalformedPayload
	}

	return Lead{
		Name:    stringField(raw, "name"),
		Phone:   stringField(raw, "phone"),
		Email:   stringField(raw, "email"),
		Message: stringField(raw, "message"),
		Source:  stringField(raw, "source"),
	}, nil
}

func stringField(raw map[string]json.RawMessage, key string) string {
	v, ok := raw[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return ""
	}
	return s
}

// Validate trims l and checks every constraint. The first failing field, in
// declaration order, is reported as a *ValidationError.
func Validate(l Lead) (Lead, error) {
	l.Name = strings.TrimSpace(l.Name)
	l.Phone = strings.TrimSpace(l.Phone)
	l.Email = strings.TrimSpace(l.Email)
	l.Message = strings.TrimSpace(l.Message)
	l.Source = truncate(strings.TrimSpace(l.Source), maxSourceLen)
	if l.Source == "" {
		l.Source = defaultSource
	}

	err := validate.Struct(l)
	if err == nil {
		return l, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return Lead{}, err
	}
	field := verrs[0].StructField()
	return Lead{}, &ValidationError{Field: strings.ToLower(field), Reason: fieldReasons[field]}
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
