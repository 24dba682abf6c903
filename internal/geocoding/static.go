package geocoding

import (
	"context"
	"strings"
)

// Static resuelve desde un mapa fijo (dev/tests). Sin coincidencia devuelve
// Fallback si está definido, o ErrNoResults.
type Static struct {
	Known    map[string]Coordinates
	Fallback *Coordinates
}

func (s Static) Geocode(_ context.Context, address string) (Coordinates, error) {
	key := strings.ToLower(strings.TrimSpace(address))
	if key == "" {
		return Coordinates{}, ErrNoResults
	}
	if c, ok := s.Known[key]; ok {
		return c, nil
	}
	if s.Fallback != nil {
		return *s.Fallback, nil
	}
	return Coordinates{}, ErrNoResults
}
