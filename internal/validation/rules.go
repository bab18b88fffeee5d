package validation

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// User-facing validation messages.
const (
	MsgInvalidID           = "El id no es valido"
	MsgNameRequired        = "El nombre del producto no puede ir vacio"
	MsgInvalidValue        = "Valor no valido"
	MsgPriceRequired       = "El precio del producto no puede ir vacio"
	MsgInvalidPrice        = "Precio no valido"
	MsgInvalidAvailability = "Valor para disponibilidad no valido"
)

var validate = validator.New()

func fieldError(loc Location, path, msg string, value any) *ErrorRecord {
	return &ErrorRecord{
		Type:     "field",
		Value:    value,
		Msg:      msg,
		Path:     path,
		Location: loc,
	}
}

// ParamID requires the `:id` parameter to be a non-negative integer.
func ParamID() Rule {
	return func(in *Input) *ErrorRecord {
		if _, err := strconv.ParseUint(in.ID, 10, strconv.IntSize); err != nil {
			return fieldError(LocationParams, "id", MsgInvalidID, in.ID)
		}
		return nil
	}
}

// NameNotEmpty requires a non-empty `name`.
func NameNotEmpty() Rule {
	return func(in *Input) *ErrorRecord {
		value, present := in.Body["name"]
		if validate.Var(stringify(value, present), "required") != nil {
			return fieldError(LocationBody, "name", MsgNameRequired, value)
		}
		return nil
	}
}

// PriceNumeric requires `price` to be a number or a numeric string.
func PriceNumeric() Rule {
	return func(in *Input) *ErrorRecord {
		value, present := in.Body["price"]
		if !isNumeric(value, present) {
			return fieldError(LocationBody, "price", MsgInvalidValue, value)
		}
		return nil
	}
}

// PriceNotEmpty requires `price` to be present and not blank.
func PriceNotEmpty() Rule {
	return func(in *Input) *ErrorRecord {
		value, present := in.Body["price"]
		if validate.Var(stringify(value, present), "required") != nil {
			return fieldError(LocationBody, "price", MsgPriceRequired, value)
		}
		return nil
	}
}

// PricePositive requires `price` to be strictly greater than zero.
func PricePositive() Rule {
	return func(in *Input) *ErrorRecord {
		value, present := in.Body["price"]
		price, ok := toFloat(value, present)
		if !ok || validate.Var(price, "gt=0") != nil {
			return fieldError(LocationBody, "price", MsgInvalidPrice, value)
		}
		return nil
	}
}

// AvailabilityBoolean requires `availability` to be a boolean.
func AvailabilityBoolean() Rule {
	return func(in *Input) *ErrorRecord {
		value, present := in.Body["availability"]
		if _, ok := toBool(value, present); !ok {
			return fieldError(LocationBody, "availability", MsgInvalidAvailability, value)
		}
		return nil
	}
}

// IDRules validates routes that take a product ID.
func IDRules() []Rule {
	return []Rule{ParamID()}
}

// CreateProductRules validates POST bodies. Every price check runs even
// after an earlier one failed.
func CreateProductRules() []Rule {
	return []Rule{
		NameNotEmpty(),
		PriceNumeric(),
		PriceNotEmpty(),
		PricePositive(),
	}
}

// UpdateProductRules validates PUT bodies.
func UpdateProductRules() []Rule {
	return append(CreateProductRules(), AvailabilityBoolean())
}

// stringify renders a JSON value the way it would appear in a form field.
// Missing and null values render as "".
func stringify(value any, present bool) string {
	if !present || value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return "[object]"
	}
}

func isNumeric(value any, present bool) bool {
	switch value.(type) {
	case float64:
		return true
	case string:
		return validate.Var(strings.TrimSpace(stringify(value, present)), "required,numeric") == nil
	default:
		return false
	}
}

func toFloat(value any, present bool) (float64, bool) {
	if !present {
		return 0, false
	}
	switch v := value.(type) {
	case float64:
		return v, true
	case string:
		if !isNumeric(v, true) {
			return 0, false
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func toBool(value any, present bool) (bool, bool) {
	if !present {
		return false, false
	}
	switch v := value.(type) {
	case bool:
		return v, true
	case string, float64:
		switch stringify(v, true) {
		case "true", "1":
			return true, true
		case "false", "0":
			return false, true
		}
	}
	return false, false
}
