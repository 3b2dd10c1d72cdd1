// Package validation checks trade inputs and patches with struct tags.
package validation

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		_ = v.RegisterValidation("symbol", isSymbol)
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		validate = v
	})
	return validate
}

// FieldError is one failed constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors collects every failed constraint of a struct.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, "; ")
}

// Struct validates v. It returns nil or Errors.
func Struct(v interface{}) error {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	field, param := fe.Field(), fe.Param()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "symbol":
		return fmt.Sprintf("%s must be printable text", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// isSymbol accepts any trimmed, printable script name. Option contracts
// ("NIFTY 24500 CE") and suffixed tickers ("M&M.NS") are valid.
func isSymbol(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" || s != strings.TrimSpace(s) {
		return false
	}
	for _, r := range s {
		if !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}
