package validation

import (
	"reflect"
	"regexp"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Messages shown to API clients.
const (
	MsgInvalidID           = "ID no válido"
	MsgNameRequired        = "El nombre del producto no puede ir vacío"
	MsgPriceNotNumeric     = "valor no válido"
	MsgPriceRequired       = "El precio del producto no puede ir vacío"
	MsgPriceNotPositive    = "precio no válido"
	MsgAvailabilityInvalid = "Valor para disponibilidad no válido"
)

var (
	intPattern     = regexp.MustCompile(`^[-+]?(0|[1-9][0-9]*)$`)
	decimalPattern = regexp.MustCompile(`^[-+]?([0-9]*\.)?[0-9]+$`)

	validate = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails on empty tag names or nil funcs.
	_ = v.RegisterValidation("isint", func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.String {
			return false
		}
		s := fl.Field().String()
		if !intPattern.MatchString(s) {
			return false
		}
		_, err := strconv.ParseInt(s, 10, 64)
		return err == nil
	})
	_ = v.RegisterValidation("decimal", func(fl validator.FieldLevel) bool {
		return fl.Field().Kind() == reflect.String && isDecimal(fl.Field().String())
	})
	return v
}

func isDecimal(s string) bool {
	return decimalPattern.MatchString(s)
}

// ParseID converts a path parameter that passed ParamInt into an int64.
func ParseID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

// ParamInt requires the path parameter name to be an integer.
func ParamInt(name, msg string) Rule {
	return func(req *Request) []Violation {
		if validate.Var(req.Params[name], "required,isint") != nil {
			return []Violation{{Field: name, Message: msg}}
		}
		return nil
	}
}

// BodyNotEmpty requires field to be present with a non-empty textual value.
func BodyNotEmpty(field, msg string) Rule {
	return func(req *Request) []Violation {
		if validate.Var(req.Body.String(field), "required") != nil {
			return []Violation{{Field: field, Message: msg}}
		}
		return nil
	}
}

// BodyNumeric requires field to hold a decimal number.
func BodyNumeric(field, msg string) Rule {
	return func(req *Request) []Violation {
		if validate.Var(req.Body.String(field), "decimal") != nil {
			return []Violation{{Field: field, Message: msg}}
		}
		return nil
	}
}

// BodyPositive requires field to hold a number strictly greater than zero.
func BodyPositive(field, msg string) Rule {
	return func(req *Request) []Violation {
		f, ok := req.Body.Float(field)
		if !ok || validate.Var(f, "gt=0") != nil {
			return []Violation{{Field: field, Message: msg}}
		}
		return nil
	}
}

// BodyBoolean requires field to hold a boolean.
func BodyBoolean(field, msg string) Rule {
	return func(req *Request) []Violation {
		if _, ok := req.Body.Bool(field); !ok {
			return []Violation{{Field: field, Message: msg}}
		}
		return nil
	}
}

// IDRules guard routes that only take the product ID.
func IDRules() []Rule {
	return []Rule{
		ParamInt("id", MsgInvalidID),
	}
}

// CreateRules guard product creation.
func CreateRules() []Rule {
	return []Rule{
		BodyNotEmpty("name", MsgNameRequired),
		BodyNumeric("price", MsgPriceNotNumeric),
		BodyNotEmpty("price", MsgPriceRequired),
		BodyPositive("price", MsgPriceNotPositive),
	}
}

// UpdateRules guard the full product update.
func UpdateRules() []Rule {
	rules := IDRules()
	rules = append(rules, CreateRules()...)
	return append(rules, BodyBoolean("availability", MsgAvailabilityInvalid))
}
