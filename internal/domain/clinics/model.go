package clinics

import "time"

// Location es un par lat/lng en grados decimales.
type Location struct {
	Lat float64
	Lng float64
}

// DefaultLocation centra el mapa cuando el formulario no trae ubicación (CDMX).
var DefaultLocation = Location{Lat: 19.432608, Lng: -99.133209}

// Clinic representa una clínica dental registrada en el directorio.
type Clinic struct {
	ID string

	Name    string
	Address string
	Phone   string
	Email   string // opcional
	Website string // opcional, siempre con esquema

	ServicesOffered []string
	OperatingHours  string
	Description     string

	Location Location

	// Se fija una sola vez en Create; ningún Patch lo modifica.
	CreatedByUserID string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Input es el payload ya validado y normalizado para crear una clínica.
type Input struct {
	Name            string
	Address         string
	Phone           string
	Email           string
	Website         string
	ServicesOffered []string
	OperatingHours  string
	Description     string
	Location        Location
}

// Patch es una actualización parcial: nil = no tocar.
type Patch struct {
	Name            *string
	Address         *string
	Phone           *string
	Email           *string
	Website         *string
	ServicesOffered *[]string
	OperatingHours  *string
	Description     *string
	Location        *Location
}

// PatchFromInput reemplaza todos los campos editables con los de in.
func PatchFromInput(in Input) Patch {
	services := append([]string(nil), in.ServicesOffered...)
	loc := in.Location
	return Patch{
		Name:            &in.Name,
		Address:         &in.Address,
		Phone:           &in.Phone,
		Email:           &in.Email,
		Website:         &in.Website,
		ServicesOffered: &services,
		OperatingHours:  &in.OperatingHours,
		Description:     &in.Description,
		Location:        &loc,
	}
}

// Apply copia en c los campos presentes en p. No toca ID, owner ni timestamps.
func (p Patch) Apply(c *Clinic) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Address != nil {
		c.Address = *p.Address
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Website != nil {
		c.Website = *p.Website
	}
	if p.ServicesOffered != nil {
		c.ServicesOffered = append([]string(nil), (*p.ServicesOffered)...)
	}
	if p.OperatingHours != nil {
		c.OperatingHours = *p.OperatingHours
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Location != nil {
		c.Location = *p.Location
	}
}
