// Package forms contiene la validación de formularios compartida por clínicas,
// artículos y cuentas. Los validadores son funciones puras: reciben el input
// del formulario y devuelven un mapa campo -> mensaje (vacío = válido).
package forms

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	phonePattern   = regexp.MustCompile(`^\+?[0-9\s\-()]{7,20}$`)
	emailPattern   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	websitePattern = regexp.MustCompile(`^(https?://)?([\w-]+\.)+[\w-]+(/[\w\-./?%&=]*)?$`)
)

// Errors mapea nombre de campo -> mensaje legible.
type Errors map[string]string

func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

func (e Errors) Empty() bool {
	return len(e) == 0
}

// Messages traduce errores de validación a texto.
// Se busca primero "campo.tag" y luego "campo".
type Messages map[string]string

const defaultMessage = "El valor no es válido."

// validate es seguro para uso concurrente y cachea la metadata de los structs.
var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	mustRegister(v, "phone", matches(phonePattern))
	mustRegister(v, "emailish", matches(emailPattern))
	mustRegister(v, "website", matches(websitePattern))

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// Check valida in (struct con tags `validate` y `form`) y devuelve un error por campo.
// Si un campo falla varias reglas se conserva la primera.
func Check(in any, msgs Messages) Errors {
	out := Errors{}

	err := validate.Struct(in)
	if err == nil {
		return out
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// InvalidValidationError: bug del caller (in no es struct).
		out["_form"] = defaultMessage
		return out
	}

	for _, fe := range verrs {
		field := fe.Field()
		if out.Has(field) {
			continue
		}
		out[field] = msgs.lookup(field, fe.Tag())
	}
	return out
}

func (m Messages) lookup(field, tag string) string {
	if s, ok := m[field+"."+tag]; ok {
		return s
	}
	if s, ok := m[field]; ok {
		return s
	}
	return defaultMessage
}

// SplitServices separa un texto "a, b, ,c" en ["a","b","c"].
func SplitServices(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// NormalizeWebsite antepone https:// cuando el valor no trae esquema.
func NormalizeWebsite(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return s
	}
	return "https://" + s
}

// LooksLikeEmail aplica la misma regla que el tag emailish.
func LooksLikeEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}
