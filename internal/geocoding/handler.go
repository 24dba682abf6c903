package geocoding

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, g Geocoder) {
	r.Get("/geocode", geocodeHandler(g))
}

// geocodeHandler godoc
// @Summary Sugerir coordenadas
// @Description Convierte una dirección en lat/lng para centrar el selector de mapa.
// @Tags geocoding
// @Produce json
// @Param address query string true "Dirección"
// @Success 200 {object} Coordinates
// @Failure 404 {string} string "address not found"
// @Failure 502 {string} string "geocoder unavailable"
// @Router /api/geocode [get]
func geocodeHandler(g Geocoder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		address := r.URL.Query().Get("address")
		if address == "" {
			http.Error(w, "address is required", http.StatusBadRequest)
			return
		}

		c, err := g.Geocode(r.Context(), address)
		if err != nil {
			if errors.Is(err, ErrNoResults) {
				http.Error(w, "address not found", http.StatusNotFound)
				return
			}
			http.Error(w, "geocoder unavailable", http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(c)
	}
}
