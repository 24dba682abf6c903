package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name    string `form:"name" validate:"notblank"`
	Phone   string `form:"phone" validate:"notblank,phone"`
	Email   string `form:"email" validate:"omitempty,emailish"`
	Website string `form:"website" validate:"omitempty,website"`
}

var sampleMessages = Messages{
	"name":           "nombre obligatorio",
	"phone.notblank": "teléfono obligatorio",
	"phone.phone":    "teléfono inválido",
	"email":          "email inválido",
}

func TestCheck_FieldKeyedMessages(t *testing.T) {
	errs := Check(sample{Name: "   ", Phone: "abc", Email: "nope", Website: "clinic.com"}, sampleMessages)

	assert.Equal(t, Errors{
		"name":  "nombre obligatorio",
		"phone": "teléfono inválido",
		"email": "email inválido",
	}, errs)
}

func TestCheck_FirstRuleWins(t *testing.T) {
	errs := Check(sample{Name: "x", Phone: ""}, sampleMessages)
	assert.Equal(t, "teléfono obligatorio", errs["phone"])
}

func TestCheck_UnknownTagFallsBackToDefault(t *testing.T) {
	errs := Check(sample{Name: "x", Phone: "555-1234", Website: "not a site"}, sampleMessages)
	assert.Equal(t, defaultMessage, errs["website"])
}

func TestCheck_Valid(t *testing.T) {
	errs := Check(sample{Name: "Sonrisas", Phone: "+52 (55) 1234-5678", Email: "a@b.mx", Website: "www.sonrisas.mx/contacto"}, sampleMessages)
	assert.True(t, errs.Empty())
}

func TestPhonePattern(t *testing.T) {
	cases := map[string]bool{
		"555-1234":              true,
		"+1 (555) 123-4567":     true,
		"123456":                false, // 6 chars
		"abc":                   false,
		"+++5551234":            false,
		"123456789012345678901": false, // 21 chars
	}
	for in, want := range cases {
		assert.Equal(t, want, phonePattern.MatchString(in), in)
	}
}

func TestSplitServices(t *testing.T) {
	assert.Equal(t, []string{"Cleaning", "Braces"}, SplitServices("Cleaning, , Braces ,"))
	assert.Empty(t, SplitServices(" , ,"))
}

func TestNormalizeWebsite(t *testing.T) {
	assert.Equal(t, "https://clinic.com", NormalizeWebsite("clinic.com"))
	assert.Equal(t, "https://clinic.com", NormalizeWebsite("https://clinic.com"))
	assert.Equal(t, "http://clinic.com", NormalizeWebsite("http://clinic.com"))
	assert.Equal(t, "", NormalizeWebsite("  "))
}
