package clinics

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"denti-directory/internal/forms"
	"denti-directory/internal/middleware"
	"denti-directory/internal/platform/apperr"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/clinics", func(cr chi.Router) {
		cr.Get("/", listClinicsHandler(svc))
		cr.Post("/", createClinicHandler(svc))
		cr.Get("/{clinicID}", getClinicHandler(svc))

		// Solo el dueño puede modificar o borrar.
		cr.Patch("/{clinicID}", updateClinicHandler(svc))
		cr.Delete("/{clinicID}", deleteClinicHandler(svc))
	})

	r.Get("/me/clinics", listMyClinicsHandler(svc))
}

type locationDTO struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// clinicResponse representa una clínica devuelta por la API.
type clinicResponse struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Address         string      `json:"address"`
	Phone           string      `json:"phone"`
	Email           string      `json:"email,omitempty"`
	Website         string      `json:"website,omitempty"`
	ServicesOffered []string    `json:"servicesOffered"`
	OperatingHours  string      `json:"operatingHours,omitempty"`
	Description     string      `json:"description,omitempty"`
	Location        locationDTO `json:"location"`
	CreatedByUserID string      `json:"createdByUserId"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// updateClinicRequest: punteros para PATCH real, nil = no tocar.
// servicesOffered llega como texto separado por comas, igual que en el formulario.
type updateClinicRequest struct {
	Name            *string      `json:"name"`
	Address         *string      `json:"address"`
	Phone           *string      `json:"phone"`
	Email           *string      `json:"email"`
	Website         *string      `json:"website"`
	ServicesOffered *string      `json:"servicesOffered"`
	OperatingHours  *string      `json:"operatingHours"`
	Description     *string      `json:"description"`
	Location        *locationDTO `json:"location"`
}

type createdResponse struct {
	ID string `json:"id"`
}

type validationResponse struct {
	Errors forms.Errors `json:"errors"`
}

// createClinicHandler godoc
// @Summary Registrar clínica
// @Description Registra una clínica a nombre del usuario autenticado. El dueño queda fijo.
// @Tags clinics
// @Accept json
// @Produce json
// @Param payload body Form true "Datos de la clínica; servicesOffered separado por comas"
// @Success 201 {object} createdResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 422 {object} validationResponse
// @Router /api/clinics [post]
func createClinicHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var f Form
		if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in, errs := ValidateForm(f)
		if !errs.Empty() {
			writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Errors: errs})
			return
		}

		id, err := svc.Create(r.Context(), claims.UserID, in)
		if err != nil {
			writeFailure(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, createdResponse{ID: id})
	}
}

// listClinicsHandler godoc
// @Summary Listar clínicas
// @Tags clinics
// @Produce json
// @Success 200 {array} clinicResponse
// @Router /api/clinics [get]
func listClinicsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			writeFailure(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toClinicResponses(items))
	}
}

func listMyClinicsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByOwner(r.Context(), claims.UserID)
		if err != nil {
			writeFailure(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toClinicResponses(items))
	}
}

func getClinicHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := svc.GetByID(r.Context(), chi.URLParam(r, "clinicID"))
		if err != nil {
			writeFailure(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toClinicResponse(c))
	}
}

// updateClinicHandler godoc
// @Summary Actualizar clínica
// @Description Actualización parcial. Solo el dueño (createdByUserId) puede editar.
// @Tags clinics
// @Accept json
// @Produce json
// @Param clinicID path string true "ID de la clínica"
// @Param payload body updateClinicRequest true "Campos a modificar"
// @Success 200 {object} clinicResponse
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "clinic not found"
// @Failure 422 {object} validationResponse
// @Router /api/clinics/{clinicID} [patch]
func updateClinicHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		id := chi.URLParam(r, "clinicID")
		current, err := svc.GetByID(r.Context(), id)
		if err != nil {
			writeFailure(w, err)
			return
		}
		if !IsOwner(current, claims.UserID) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req updateClinicRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		// Se valida el registro resultante completo, no solo los campos enviados.
		f := req.mergeInto(FormFromClinic(current))
		in, errs := ValidateForm(f)
		if !errs.Empty() {
			writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Errors: errs})
			return
		}

		if err := svc.Update(r.Context(), id, PatchFromInput(in)); err != nil {
			writeFailure(w, err)
			return
		}

		updated, err := svc.GetByID(r.Context(), id)
		if err != nil {
			writeFailure(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toClinicResponse(updated))
	}
}

// deleteClinicHandler godoc
// @Summary Eliminar clínica
// @Description Idempotente: borrar una clínica inexistente responde 204.
// @Tags clinics
// @Param clinicID path string true "ID de la clínica"
// @Success 204
// @Failure 403 {string} string "forbidden"
// @Router /api/clinics/{clinicID} [delete]
func deleteClinicHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		id := chi.URLParam(r, "clinicID")
		owner, err := svc.OwnerOf(r.Context(), id)
		switch {
		case errors.Is(err, ErrNotFound):
			w.WriteHeader(http.StatusNoContent)
			return
		case err != nil:
			writeFailure(w, err)
			return
		case owner != claims.UserID:
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			writeFailure(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (req updateClinicRequest) mergeInto(f Form) Form {
	if req.Name != nil {
		f.Name = *req.Name
	}
	if req.Address != nil {
		f.Address = *req.Address
	}
	if req.Phone != nil {
		f.Phone = *req.Phone
	}
	if req.Email != nil {
		f.Email = *req.Email
	}
	if req.Website != nil {
		f.Website = *req.Website
	}
	if req.ServicesOffered != nil {
		f.ServicesOffered = *req.ServicesOffered
	}
	if req.OperatingHours != nil {
		f.OperatingHours = *req.OperatingHours
	}
	if req.Description != nil {
		f.Description = *req.Description
	}
	if req.Location != nil {
		lat, lng := req.Location.Lat, req.Location.Lng
		f.Lat, f.Lng = &lat, &lng
	}
	return f
}

func toClinicResponses(items []Clinic) []clinicResponse {
	out := make([]clinicResponse, 0, len(items))
	for _, c := range items {
		out = append(out, toClinicResponse(c))
	}
	return out
}

func toClinicResponse(c Clinic) clinicResponse {
	services := c.ServicesOffered
	if services == nil {
		services = []string{}
	}
	return clinicResponse{
		ID:              c.ID,
		Name:            c.Name,
		Address:         c.Address,
		Phone:           c.Phone,
		Email:           c.Email,
		Website:         c.Website,
		ServicesOffered: services,
		OperatingHours:  c.OperatingHours,
		Description:     c.Description,
		Location:        locationDTO{Lat: c.Location.Lat, Lng: c.Location.Lng},
		CreatedByUserID: c.CreatedByUserID,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func writeFailure(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "clinic not found", http.StatusNotFound)
		return
	}
	http.Error(w, apperr.Message(err, "internal error"), http.StatusInternalServerError)
}

// writeJSON está duplicado en los handlers de cada módulo (clinics/posts/accounts)
// para no crear un paquete de helpers compartido todavía.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
