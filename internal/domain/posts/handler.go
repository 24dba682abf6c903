package posts

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
	r.Route("/posts", func(pr chi.Router) {
		pr.Get("/", listPostsHandler(svc))
		pr.Post("/", createPostHandler(svc))
		pr.Get("/{postID}", getPostHandler(svc))
		pr.Patch("/{postID}", updatePostHandler(svc))
		pr.Delete("/{postID}", deletePostHandler(svc))
	})
}

type authorDTO struct {
	UID         string `json:"uid"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
}

type postResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Excerpt       string    `json:"excerpt"`
	CoverImageURL string    `json:"coverImageUrl,omitempty"`
	Author        authorDTO `json:"author"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type updatePostRequest struct {
	Title         *string `json:"title"`
	Content       *string `json:"content"`
	Excerpt       *string `json:"excerpt"`
	CoverImageURL *string `json:"coverImageUrl"`
}

type createdResponse struct {
	ID string `json:"id"`
}

type validationResponse struct {
	Errors forms.Errors `json:"errors"`
}

// createPostHandler godoc
// @Summary Publicar artículo
// @Description Publica un artículo; el autor es una copia de la identidad autenticada.
// @Tags posts
// @Accept json
// @Produce json
// @Param payload body Form true "Artículo"
// @Success 201 {object} createdResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 422 {object} validationResponse
// @Router /api/posts [post]
func createPostHandler(svc *Service) http.HandlerFunc {
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

		id, err := svc.Create(r.Context(), AuthorFrom(claims.Identity()), in)
		if err != nil {
			writeFailure(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, createdResponse{ID: id})
	}
}

// listPostsHandler godoc
// @Summary Listar artículos
// @Description Más recientes primero.
// @Tags posts
// @Produce json
// @Success 200 {array} postResponse
// @Router /api/posts [get]
func listPostsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			writeFailure(w, err)
			return
		}
		out := make([]postResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPostResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getPostHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "postID"))
		if err != nil {
			writeFailure(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPostResponse(p))
	}
}

// updatePostHandler godoc
// @Summary Editar artículo
// @Description Solo el autor puede editar. El autor no cambia.
// @Tags posts
// @Accept json
// @Produce json
// @Param postID path string true "ID del artículo"
// @Param payload body updatePostRequest true "Campos a modificar"
// @Success 200 {object} postResponse
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "post not found"
// @Failure 422 {object} validationResponse
// @Router /api/posts/{postID} [patch]
func updatePostHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		id := chi.URLParam(r, "postID")
		current, err := svc.GetByID(r.Context(), id)
		if err != nil {
			writeFailure(w, err)
			return
		}
		if !IsAuthor(current, claims.UserID) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req updatePostRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		f := FormFromPost(current)
		if req.Title != nil {
			f.Title = *req.Title
		}
		if req.Content != nil {
			f.Content = *req.Content
		}
		if req.Excerpt != nil {
			f.Excerpt = *req.Excerpt
		}
		if req.CoverImageURL != nil {
			f.CoverImageURL = *req.CoverImageURL
		}

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
		writeJSON(w, http.StatusOK, toPostResponse(updated))
	}
}

// deletePostHandler godoc
// @Summary Eliminar artículo
// @Tags posts
// @Param postID path string true "ID del artículo"
// @Success 204
// @Failure 403 {string} string "forbidden"
// @Router /api/posts/{postID} [delete]
func deletePostHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		id := chi.URLParam(r, "postID")
		current, err := svc.GetByID(r.Context(), id)
		switch {
		case errors.Is(err, ErrNotFound):
			w.WriteHeader(http.StatusNoContent)
			return
		case err != nil:
			writeFailure(w, err)
			return
		case !IsAuthor(current, claims.UserID):
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

func toPostResponse(p Post) postResponse {
	return postResponse{
		ID:            p.ID,
		Title:         p.Title,
		Content:       p.Content,
		Excerpt:       p.Excerpt,
		CoverImageURL: p.CoverImageURL,
		Author: authorDTO{
			UID:         p.Author.UID,
			Email:       p.Author.Email,
			DisplayName: p.Author.DisplayName,
		},
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func writeFailure(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "post not found", http.StatusNotFound)
		return
	}
	http.Error(w, apperr.Message(err, "internal error"), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
