package core

import (
	"reflect"
	"regexp"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

const (
	alphaNumUnderTag  = "alphanum_"
	alphaNumUnderText = "only alphanumeric characters and underscores are allowed"

	requiredText = "this field is required"
)

var alphaNumUnderRegex = regexp.MustCompile(`^[\w\s]+$`)

// InitValidators wires the shared tags and English translations into
// validate. Domain packages layer their own tags on top of these.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// error messages carry the JSON field name, not the Go one
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(alphaNumUnderTag, func(fl validator.FieldLevel) bool {
		return alphaNumUnderRegex.MatchString(fl.Field().String())
	})
	RegisterCustomTranslation(validate, translator, alphaNumUnderTag, alphaNumUnderText)

	RegisterCustomTranslation(validate, translator, "required", requiredText, true)
	RegisterCustomTranslation(validate, translator, "required_with", requiredText, true)
}

// RegisterCustomTranslation attaches text to a validation tag, optionally
// overriding the stock translation.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}
