package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"denti-directory/internal/domain/clinics"
	"denti-directory/internal/forms"
	"denti-directory/internal/platform/apperr"

	"github.com/go-chi/chi/v5"
)

type clinicListPage struct {
	Clinics  []clinics.Clinic
	Cards    []clinicCard
	Error    string
	RetryURL string
}

// clinicCard es una clínica del listado público; Owned habilita editar/eliminar.
type clinicCard struct {
	Clinic clinics.Clinic
	Owned  bool
}

func clinicCards(items []clinics.Clinic, uid string) []clinicCard {
	cards := make([]clinicCard, 0, len(items))
	for _, c := range items {
		cards = append(cards, clinicCard{Clinic: c, Owned: clinics.IsOwner(c, uid)})
	}
	return cards
}

type clinicFormPage struct {
	Editing bool
	Action  string
	Form    clinics.Form
	Errors  forms.Errors
	Center  clinics.Location
	Zoom    int
}

func (h *Handler) listClinics(w http.ResponseWriter, r *http.Request) {
	items, err := h.clinics.List(r.Context())
	if err != nil {
		h.render(w, r, http.StatusOK, "clinics", "Clínicas", clinicListPage{
			Error:    apperr.Message(err, "No se pudieron cargar las clínicas."),
			RetryURL: "/clinics",
		})
		return
	}
	h.render(w, r, http.StatusOK, "clinics", "Clínicas", clinicListPage{Cards: clinicCards(items, currentUID(r))})
}

func (h *Handler) myClinics(w http.ResponseWriter, r *http.Request) {
	items, err := h.clinics.ListByOwner(r.Context(), currentUID(r))
	if err != nil {
		h.render(w, r, http.StatusOK, "my_clinics", "Mis clínicas", clinicListPage{
			Error: apperr.Message(err, "No se pudieron cargar tus clínicas."),
		})
		return
	}
	h.render(w, r, http.StatusOK, "my_clinics", "Mis clínicas", clinicListPage{Clinics: items})
}

func (h *Handler) newClinicForm(w http.ResponseWriter, r *http.Request) {
	h.renderClinicForm(w, r, http.StatusOK, "", clinics.EmptyForm(), nil)
}

func (h *Handler) createClinic(w http.ResponseWriter, r *http.Request) {
	f, err := clinicFormFromRequest(r)
	if err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	in, errs := clinics.ValidateForm(f)
	if !errs.Empty() {
		h.renderClinicForm(w, r, http.StatusUnprocessableEntity, "", f, errs)
		return
	}

	if _, err := h.clinics.Create(r.Context(), currentUID(r), in); err != nil {
		h.renderClinicForm(w, r, http.StatusOK, "", f, forms.Errors{
			"_form": apperr.Message(err, "No se pudo registrar la clínica."),
		})
		return
	}
	redirect(w, r, "/my-clinics", noticeClinicCreated)
}

func (h *Handler) editClinicForm(w http.ResponseWriter, r *http.Request) {
	c, ok := h.ownedClinic(w, r)
	if !ok {
		return
	}
	h.renderClinicForm(w, r, http.StatusOK, c.ID, clinics.FormFromClinic(c), nil)
}

func (h *Handler) updateClinic(w http.ResponseWriter, r *http.Request) {
	c, ok := h.ownedClinic(w, r)
	if !ok {
		return
	}

	f, err := clinicFormFromRequest(r)
	if err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	in, errs := clinics.ValidateForm(f)
	if !errs.Empty() {
		h.renderClinicForm(w, r, http.StatusUnprocessableEntity, c.ID, f, errs)
		return
	}

	if err := h.clinics.Update(r.Context(), c.ID, clinics.PatchFromInput(in)); err != nil {
		if errors.Is(err, clinics.ErrNotFound) {
			redirect(w, r, "/my-clinics", noticeClinicNotFound)
			return
		}
		h.renderClinicForm(w, r, http.StatusOK, c.ID, f, forms.Errors{
			"_form": apperr.Message(err, "No se pudo actualizar la clínica."),
		})
		return
	}
	redirect(w, r, "/my-clinics", noticeClinicUpdated)
}

// deleteClinic: tras borrar se vuelve a /my-clinics, que recarga el listado.
func (h *Handler) deleteClinic(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "clinicID")

	owner, err := h.clinics.OwnerOf(r.Context(), id)
	switch {
	case errors.Is(err, clinics.ErrNotFound):
		redirect(w, r, "/my-clinics", noticeClinicDeleted)
		return
	case err != nil:
		redirect(w, r, "/my-clinics", noticeActionFailed)
		return
	case owner != currentUID(r):
		redirect(w, r, "/my-clinics", noticeClinicNotOwner)
		return
	}

	if err := h.clinics.Delete(r.Context(), id); err != nil {
		redirect(w, r, "/my-clinics", noticeActionFailed)
		return
	}
	redirect(w, r, "/my-clinics", noticeClinicDeleted)
}

// ownedClinic carga la clínica de la URL y verifica que sea del usuario.
// Si no, responde (redirección o error) y devuelve ok=false.
func (h *Handler) ownedClinic(w http.ResponseWriter, r *http.Request) (clinics.Clinic, bool) {
	c, err := h.clinics.GetByID(r.Context(), chi.URLParam(r, "clinicID"))
	if err != nil {
		if errors.Is(err, clinics.ErrNotFound) {
			h.NotFound(w, r)
			return clinics.Clinic{}, false
		}
		redirect(w, r, "/my-clinics", noticeActionFailed)
		return clinics.Clinic{}, false
	}
	if !clinics.IsOwner(c, currentUID(r)) {
		redirect(w, r, "/my-clinics", noticeClinicNotOwner)
		return clinics.Clinic{}, false
	}
	return c, true
}

func (h *Handler) renderClinicForm(w http.ResponseWriter, r *http.Request, status int, clinicID string, f clinics.Form, errs forms.Errors) {
	page := clinicFormPage{
		Editing: clinicID != "",
		Action:  "/register-clinic",
		Form:    f,
		Errors:  errs,
		Center:  clinics.DefaultLocation,
		Zoom:    mapZoom,
	}
	title := "Registrar clínica"
	if page.Editing {
		page.Action = "/edit-clinic/" + clinicID
		title = "Editar clínica"
	}
	h.render(w, r, status, "clinic_form", title, page)
}

func clinicFormFromRequest(r *http.Request) (clinics.Form, error) {
	if err := r.ParseForm(); err != nil {
		return clinics.Form{}, err
	}
	return clinics.Form{
		Name:            r.PostForm.Get("name"),
		Address:         r.PostForm.Get("address"),
		Phone:           r.PostForm.Get("phone"),
		Email:           r.PostForm.Get("email"),
		Website:         r.PostForm.Get("website"),
		ServicesOffered: r.PostForm.Get("servicesOffered"),
		OperatingHours:  r.PostForm.Get("operatingHours"),
		Description:     r.PostForm.Get("description"),
		Lat:             parseCoord(r.PostForm.Get("lat")),
		Lng:             parseCoord(r.PostForm.Get("lng")),
	}, nil
}

// parseCoord: vacío o no numérico cuenta como "sin ubicación".
func parseCoord(raw string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return nil
	}
	return &v
}
