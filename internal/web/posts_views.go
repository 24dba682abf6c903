package web

import (
	"errors"
	"net/http"

	"denti-directory/internal/domain/posts"
	"denti-directory/internal/forms"
	"denti-directory/internal/platform/apperr"

	"github.com/go-chi/chi/v5"
)

const homePostCount = 3

type homePage struct {
	Posts []posts.Post
}

type postListPage struct {
	Posts []posts.Post
	Error string
}

type postPage struct {
	Post     posts.Post
	IsAuthor bool
}

type postFormPage struct {
	Editing bool
	Action  string
	Form    posts.Form
	Errors  forms.Errors
}

// home muestra los últimos artículos; si fallan se omite la sección.
func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	items, err := h.posts.List(r.Context())
	if err != nil {
		h.log.Warn("home posts unavailable", map[string]any{"err": err})
	}
	if len(items) > homePostCount {
		items = items[:homePostCount]
	}
	h.render(w, r, http.StatusOK, "home", "", homePage{Posts: items})
}

func (h *Handler) listPosts(w http.ResponseWriter, r *http.Request) {
	items, err := h.posts.List(r.Context())
	if err != nil {
		h.render(w, r, http.StatusOK, "blog", "Blog", postListPage{
			Error: apperr.Message(err, "No se pudieron cargar los artículos."),
		})
		return
	}
	h.render(w, r, http.StatusOK, "blog", "Blog", postListPage{Posts: items})
}

func (h *Handler) showPost(w http.ResponseWriter, r *http.Request) {
	p, err := h.posts.GetByID(r.Context(), chi.URLParam(r, "postID"))
	if err != nil {
		if errors.Is(err, posts.ErrNotFound) {
			h.NotFound(w, r)
			return
		}
		h.render(w, r, http.StatusOK, "blog", "Blog", postListPage{
			Error: apperr.Message(err, "No se pudo cargar el artículo."),
		})
		return
	}
	h.render(w, r, http.StatusOK, "post", p.Title, postPage{
		Post:     p,
		IsAuthor: posts.IsAuthor(p, currentUID(r)),
	})
}

func (h *Handler) newPostForm(w http.ResponseWriter, r *http.Request) {
	h.renderPostForm(w, r, http.StatusOK, "", posts.Form{}, nil)
}

func (h *Handler) createPost(w http.ResponseWriter, r *http.Request) {
	f, err := postFormFromRequest(r)
	if err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	in, errs := posts.ValidateForm(f)
	if !errs.Empty() {
		h.renderPostForm(w, r, http.StatusUnprocessableEntity, "", f, errs)
		return
	}

	var author posts.Author
	if id := currentUser(r); id != nil {
		author = posts.AuthorFrom(*id)
	}

	id, err := h.posts.Create(r.Context(), author, in)
	if err != nil {
		h.renderPostForm(w, r, http.StatusOK, "", f, forms.Errors{
			"_form": apperr.Message(err, "No se pudo crear el artículo."),
		})
		return
	}
	redirect(w, r, "/blog/"+id, noticePostCreated)
}

func (h *Handler) editPostForm(w http.ResponseWriter, r *http.Request) {
	p, ok := h.authoredPost(w, r)
	if !ok {
		return
	}
	h.renderPostForm(w, r, http.StatusOK, p.ID, posts.FormFromPost(p), nil)
}

func (h *Handler) updatePost(w http.ResponseWriter, r *http.Request) {
	p, ok := h.authoredPost(w, r)
	if !ok {
		return
	}

	f, err := postFormFromRequest(r)
	if err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	in, errs := posts.ValidateForm(f)
	if !errs.Empty() {
		h.renderPostForm(w, r, http.StatusUnprocessableEntity, p.ID, f, errs)
		return
	}

	if err := h.posts.Update(r.Context(), p.ID, posts.PatchFromInput(in)); err != nil {
		h.renderPostForm(w, r, http.StatusOK, p.ID, f, forms.Errors{
			"_form": apperr.Message(err, "No se pudo actualizar el artículo."),
		})
		return
	}
	redirect(w, r, "/blog/"+p.ID, noticePostUpdated)
}

func (h *Handler) deletePost(w http.ResponseWriter, r *http.Request) {
	p, ok := h.authoredPost(w, r)
	if !ok {
		return
	}
	if err := h.posts.Delete(r.Context(), p.ID); err != nil {
		redirect(w, r, "/blog/"+p.ID, noticeActionFailed)
		return
	}
	redirect(w, r, "/blog", noticePostDeleted)
}

// authoredPost carga el artículo y exige que el usuario sea el autor;
// si no lo es, lo manda al detalle del artículo.
func (h *Handler) authoredPost(w http.ResponseWriter, r *http.Request) (posts.Post, bool) {
	id := chi.URLParam(r, "postID")
	p, err := h.posts.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, posts.ErrNotFound) {
			redirect(w, r, "/blog", noticePostNotFound)
			return posts.Post{}, false
		}
		redirect(w, r, "/blog", noticeActionFailed)
		return posts.Post{}, false
	}
	if !posts.IsAuthor(p, currentUID(r)) {
		redirect(w, r, "/blog/"+p.ID, noticePostNotAuthor)
		return posts.Post{}, false
	}
	return p, true
}

func (h *Handler) renderPostForm(w http.ResponseWriter, r *http.Request, status int, postID string, f posts.Form, errs forms.Errors) {
	page := postFormPage{Action: "/blog/new", Form: f, Errors: errs}
	title := "Nuevo artículo"
	if postID != "" {
		page.Editing = true
		page.Action = "/blog/" + postID + "/edit"
		title = "Editar artículo"
	}
	h.render(w, r, status, "post_form", title, page)
}

func postFormFromRequest(r *http.Request) (posts.Form, error) {
	if err := r.ParseForm(); err != nil {
		return posts.Form{}, err
	}
	return posts.Form{
		Title:         r.PostForm.Get("title"),
		Content:       r.PostForm.Get("content"),
		Excerpt:       r.PostForm.Get("excerpt"),
		CoverImageURL: r.PostForm.Get("coverImageUrl"),
	}, nil
}
