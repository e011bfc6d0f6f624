package validator

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	"storefront/shipping"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Validator wraps the go-playground validator
type Validator struct {
	validate *validator.Validate
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Tag     string `json:"tag"`
	Value   string `json:"value,omitempty"`
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (v ValidationErrors) Error() string {
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Message)
	}
	return strings.Join(messages, "; ")
}

// MaxPasswordBytes is the longest input bcrypt accepts
const MaxPasswordBytes = 72

// MinPasswordLength matches the min=8 tag on password fields
const MinPasswordLength = 8

var (
	domainPattern  = regexp.MustCompile(`^[a-z0-9](?:-?[a-z0-9])*$`)
	hexColor       = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	phMobile       = regexp.MustCompile(`^(09|\+639)\d{9}$`)
	reservedDomain = map[string]bool{
		"www": true, "api": true, "admin": true, "app": true, "static": true,
		"support": true, "mail": true, "dashboard": true, "health": true,
	}
)

// New creates a new validator instance
func New() *Validator {
	v := validator.New()

	// Register custom tag name function to use JSON tags
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Money and weights are validated through their string form
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	// Register custom validators
	v.RegisterValidation("storedomain", validateStoreDomain)
	v.RegisterValidation("hexcolor6", validateHexColor)
	v.RegisterValidation("phmobile", validatePHMobile)
	v.RegisterValidation("region", validateRegion)
	v.RegisterValidation("weightband", validateWeightBand)
	v.RegisterValidation("template", validateTemplate)
	v.RegisterValidation("paymentmethod", validatePaymentMethod)
	v.RegisterValidation("decimalgt0", validateDecimalPositive)
	v.RegisterValidation("decimalgte0", validateDecimalNonNegative)
	v.RegisterValidation("bcryptlen", validateBcryptLength)

	return &Validator{validate: v}
}

// Validate validates a struct and returns validation errors
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	// Convert validation errors to our custom format
	var validationErrs ValidationErrors
	for _, err := range fieldErrs {
		validationErrs = append(validationErrs, ValidationError{
			Field:   err.Field(),
			Message: msgForTag(err),
			Tag:     err.Tag(),
			Value:   fmt.Sprintf("%v", err.Value()),
		})
	}

	return validationErrs
}

// msgForTag returns a human-readable error message for a validation tag
func msgForTag(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at least %s items", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at most %s items", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "uuid":
		return fmt.Sprintf("%s must be a valid UUID", field)
	case "storedomain":
		return fmt.Sprintf("%s must be 3-63 lowercase letters, numbers or single hyphens and not a reserved name", field)
	case "hexcolor6":
		return fmt.Sprintf("%s must be a hex color like #1a2b3c", field)
	case "phmobile":
		return fmt.Sprintf("%s must be a Philippine mobile number (09XXXXXXXXX or +639XXXXXXXXX)", field)
	case "region":
		return fmt.Sprintf("%s must be one of: metro_manila, luzon, visayas, mindanao", field)
	case "weightband":
		return fmt.Sprintf("%s must be one of: 0-0.5, 0.5-1, 1-3, 3-5, 5+", field)
	case "template":
		return fmt.Sprintf("%s must be one of: classic, minimal, bold", field)
	case "paymentmethod":
		return fmt.Sprintf("%s must be either 'gcash' or 'cod'", field)
	case "decimalgt0":
		return fmt.Sprintf("%s must be greater than 0", field)
	case "decimalgte0":
		return fmt.Sprintf("%s must not be negative", field)
	case "bcryptlen":
		return fmt.Sprintf("%s must be at most %d bytes", field, MaxPasswordBytes)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

// Custom validators

func validateStoreDomain(fl validator.FieldLevel) bool {
	domain := fl.Field().String()
	if len(domain) < 3 || len(domain) > 63 {
		return false
	}
	return domainPattern.MatchString(domain) && !reservedDomain[domain]
}

func validateHexColor(fl validator.FieldLevel) bool {
	return hexColor.MatchString(fl.Field().String())
}

func validatePHMobile(fl validator.FieldLevel) bool {
	return phMobile.MatchString(fl.Field().String())
}

func validateRegion(fl validator.FieldLevel) bool {
	return shipping.ValidRegion(fl.Field().String())
}

func validateWeightBand(fl validator.FieldLevel) bool {
	return shipping.ValidBand(fl.Field().String())
}

func validateTemplate(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "classic", "minimal", "bold":
		return true
	}
	return false
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	method := fl.Field().String()
	return method == "gcash" || method == "cod"
}

func validateDecimalPositive(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	return err == nil && d.IsPositive()
}

func validateDecimalNonNegative(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	return err == nil && !d.IsNegative()
}

func validateBcryptLength(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= MaxPasswordBytes
}

// CheckPassword applies the password rules of the request validators to a raw value
func CheckPassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	if len(password) > MaxPasswordBytes {
		return fmt.Errorf("password must be at most %d bytes", MaxPasswordBytes)
	}
	return nil
}
