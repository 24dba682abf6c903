// Package geocoding sugiere coordenadas para una dirección escrita a mano.
// Solo es una ayuda para el selector de mapa: la ubicación final la elige el usuario.
package geocoding

import (
	"context"
	"errors"
)

var ErrNoResults = errors.New("address not found")

type Coordinates struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	DisplayName string  `json:"displayName,omitempty"`
}

type Geocoder interface {
	Geocode(ctx context.Context, address string) (Coordinates, error)
}
