package clinics

import (
	"strings"

	"denti-directory/internal/forms"
)

// Form es el formulario de registro/edición tal como llega del usuario.
// ServicesOffered viene como texto separado por comas.
type Form struct {
	Name            string   `form:"name" json:"name" validate:"notblank"`
	Address         string   `form:"address" json:"address" validate:"notblank"`
	Phone           string   `form:"phone" json:"phone" validate:"notblank,phone"`
	Email           string   `form:"email" json:"email" validate:"omitempty,emailish"`
	Website         string   `form:"website" json:"website" validate:"omitempty,website"`
	ServicesOffered string   `form:"servicesOffered" json:"servicesOffered"`
	OperatingHours  string   `form:"operatingHours" json:"operatingHours"`
	Description     string   `form:"description" json:"description"`
	Lat             *float64 `form:"lat" json:"lat" validate:"required,gte=-90,lte=90"`
	Lng             *float64 `form:"lng" json:"lng" validate:"required,gte=-180,lte=180"`
}

var formMessages = forms.Messages{
	"name":           "El nombre de la clínica es obligatorio.",
	"address":        "La dirección es obligatoria.",
	"phone.notblank": "El teléfono es obligatorio.",
	"phone":          "El formato del teléfono no es válido.",
	"email":          "El formato del correo electrónico no es válido.",
	"website":        "El formato del sitio web no es válido.",
	"lat.required":   msgLocationMissing,
	"lng.required":   msgLocationMissing,
	"lat":            msgLocationRange,
	"lng":            msgLocationRange,
}

const (
	msgLocationMissing = "Debe seleccionar una ubicación en el mapa."
	msgLocationRange   = "La ubicación seleccionada no es válida."
)

// ValidateForm valida f y, solo si todo es correcto, devuelve el payload
// normalizado (servicios separados, website con esquema).
func ValidateForm(f Form) (Input, forms.Errors) {
	errs := forms.Check(f, formMessages)

	// lat/lng se reportan juntos bajo "location".
	for _, k := range []string{"lat", "lng"} {
		if msg, ok := errs[k]; ok {
			if !errs.Has("location") {
				errs["location"] = msg
			}
			delete(errs, k)
		}
	}

	if !errs.Empty() {
		return Input{}, errs
	}

	return Input{
		Name:            strings.TrimSpace(f.Name),
		Address:         strings.TrimSpace(f.Address),
		Phone:           strings.TrimSpace(f.Phone),
		Email:           strings.TrimSpace(f.Email),
		Website:         forms.NormalizeWebsite(f.Website),
		ServicesOffered: forms.SplitServices(f.ServicesOffered),
		OperatingHours:  strings.TrimSpace(f.OperatingHours),
		Description:     strings.TrimSpace(f.Description),
		Location:        Location{Lat: *f.Lat, Lng: *f.Lng},
	}, errs
}

// FormFromClinic precarga el formulario de edición.
func FormFromClinic(c Clinic) Form {
	lat, lng := c.Location.Lat, c.Location.Lng
	return Form{
		Name:            c.Name,
		Address:         c.Address,
		Phone:           c.Phone,
		Email:           c.Email,
		Website:         c.Website,
		ServicesOffered: strings.Join(c.ServicesOffered, ", "),
		OperatingHours:  c.OperatingHours,
		Description:     c.Description,
		Lat:             &lat,
		Lng:             &lng,
	}
}

// EmptyForm es el formulario de registro con la ubicación por defecto.
func EmptyForm() Form {
	lat, lng := DefaultLocation.Lat, DefaultLocation.Lng
	return Form{Lat: &lat, Lng: &lng}
}
