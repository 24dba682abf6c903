package clinics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() Form {
	f := EmptyForm()
	f.Name = "Sonrisas"
	f.Address = "Av. Reforma 1"
	f.Phone = "555-1234"
	return f
}

func TestValidateForm_AcceptsAndNormalizes(t *testing.T) {
	f := validForm()
	f.Website = "www.sonrisas.mx"
	f.ServicesOffered = " Limpieza, ,Ortodoncia ,"
	f.Email = "hola@sonrisas.mx"

	in, errs := ValidateForm(f)
	require.True(t, errs.Empty(), "%v", errs)
	assert.Equal(t, "https://www.sonrisas.mx", in.Website)
	assert.Equal(t, []string{"Limpieza", "Ortodoncia"}, in.ServicesOffered)
	assert.Equal(t, DefaultLocation, in.Location)
}

func TestValidateForm_KeepsExplicitScheme(t *testing.T) {
	f := validForm()
	f.Website = "http://sonrisas.mx/contacto"

	in, errs := ValidateForm(f)
	require.True(t, errs.Empty(), "%v", errs)
	assert.Equal(t, "http://sonrisas.mx/contacto", in.Website)
}

func TestValidateForm_RejectsBadPhone(t *testing.T) {
	f := validForm()
	f.Phone = "abc"

	in, errs := ValidateForm(f)
	assert.True(t, errs.Has("phone"))
	assert.Equal(t, Input{}, in)
}

func TestValidateForm_RequiredFields(t *testing.T) {
	f := EmptyForm()
	f.Name = "   "

	_, errs := ValidateForm(f)
	assert.True(t, errs.Has("name"))
	assert.True(t, errs.Has("address"))
	assert.Equal(t, "El teléfono es obligatorio.", errs["phone"])
	assert.False(t, errs.Has("email"), "email is optional")
	assert.False(t, errs.Has("website"), "website is optional")
}

func TestValidateForm_OptionalFieldsValidatedWhenPresent(t *testing.T) {
	f := validForm()
	f.Email = "no-es-correo"
	f.Website = "not a site"

	_, errs := ValidateForm(f)
	assert.True(t, errs.Has("email"))
	assert.True(t, errs.Has("website"))
}

func TestValidateForm_Location(t *testing.T) {
	f := validForm()
	f.Lat = nil
	_, errs := ValidateForm(f)
	assert.Equal(t, msgLocationMissing, errs["location"])
	assert.False(t, errs.Has("lat"))

	f = validForm()
	bad := 120.0
	f.Lat = &bad
	_, errs = ValidateForm(f)
	assert.Equal(t, msgLocationRange, errs["location"])

	f = validForm()
	badLng := -181.0
	f.Lng = &badLng
	_, errs = ValidateForm(f)
	assert.True(t, errs.Has("location"))
}

func TestFormFromClinic_RoundTrip(t *testing.T) {
	c := Clinic{
		Name:            "Sonrisas",
		Address:         "Av. Reforma 1",
		Phone:           "555-1234",
		Website:         "https://sonrisas.mx",
		ServicesOffered: []string{"Limpieza", "Ortodoncia"},
		Location:        Location{Lat: 20.1, Lng: -100.2},
	}

	in, errs := ValidateForm(FormFromClinic(c))
	require.True(t, errs.Empty(), "%v", errs)
	assert.Equal(t, c.ServicesOffered, in.ServicesOffered)
	assert.Equal(t, c.Location, in.Location)
	assert.Equal(t, c.Website, in.Website)
}
