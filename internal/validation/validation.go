// Package validation configures go-playground/validator for the client's
// forms and renders its errors as field -> message details.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid is matched by every *Error.
var ErrInvalid = errors.New("validation failed")

var httpURL = regexp.MustCompile(`^https?://\S+$`)

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the shared, configured validator:
//   - error field names come from json tags;
//   - "pwd" is an alias for min=8;
//   - "httpurl" accepts http:// and https:// links only.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
		v.RegisterAlias("pwd", "min=8")
		_ = v.RegisterValidation("httpurl", func(fl validator.FieldLevel) bool {
			return httpURL.MatchString(fl.Field().String())
		})
		instance = v
	})
	return instance
}

// Error carries one message per offending field.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return strings.Join(parts, "; ")
}

func (e *Error) Is(target error) bool { return target == ErrInvalid }

// Struct validates s and returns nil or an *Error.
func Struct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	return &Error{Fields: ToDetails(err)}
}

// ToDetails converts validator errors into a map[field]message.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fieldPath(fe)] = formatFieldError(fe)
		}
		return out
	}
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return map[string]string{"payload": err.Error()}
}

// fieldPath drops the top-level struct name: "JobForm.tags[0]" -> "tags[0]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func formatFieldError(fe validator.FieldError) string {
	param := fe.Param()
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "httpurl":
		return "must start with http:// or https://"
	case "pwd":
		return "must be at least 8 characters"
	case "min":
		if fe.Kind() == reflect.Slice || fe.Kind() == reflect.Map {
			return "must contain at least " + param + " item(s)"
		}
		return "must be at least " + param + " characters"
	case "max":
		if fe.Kind() == reflect.Slice || fe.Kind() == reflect.Map {
			return "must contain at most " + param + " item(s)"
		}
		return "must be at most " + param + " characters"
	case "oneof":
		return "must be one of: " + param
	case "datetime":
		return "must be a date in the form " + param
	case "gtefield":
		return "must not be before " + param
	default:
		return "failed on " + fe.Tag()
	}
}
