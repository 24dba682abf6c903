// Package web sirve las vistas HTML: listados, detalle y formularios de
// clínicas y artículos, más login/registro.
package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"denti-directory/internal/domain/clinics"
	"denti-directory/internal/domain/posts"
	"denti-directory/internal/middleware"
	"denti-directory/internal/platform/logger"
	"denti-directory/internal/ports/auth"
	"denti-directory/internal/session"

	"github.com/go-chi/chi/v5"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	LoginPath = "/login"

	// Zoom inicial del selector de mapa.
	mapZoom = 13
)

var pageNames = []string{
	"home", "clinics", "my_clinics", "clinic_form",
	"blog", "post", "post_form",
	"login", "signup", "loading", "not_found",
}

type Options struct {
	Clinics  *clinics.Service
	Posts    *posts.Service
	Provider auth.Provider
	Registry *session.Registry
	Logger   logger.Logger

	SessionTTL   time.Duration
	SecureCookie bool
}

type Handler struct {
	clinics  *clinics.Service
	posts    *posts.Service
	provider auth.Provider
	registry *session.Registry
	log      logger.Logger

	sessionTTL   time.Duration
	secureCookie bool

	pages map[string]*template.Template
	now   func() time.Time
}

func New(opts Options) (*Handler, error) {
	if opts.Clinics == nil || opts.Posts == nil || opts.Provider == nil || opts.Registry == nil {
		return nil, errors.New("web: clinics, posts, provider and registry are required")
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}

	pages, err := parsePages()
	if err != nil {
		return nil, err
	}

	return &Handler{
		clinics:      opts.Clinics,
		posts:        opts.Posts,
		provider:     opts.Provider,
		registry:     opts.Registry,
		log:          opts.Logger.With(map[string]any{"component": "web"}),
		sessionTTL:   opts.SessionTTL,
		secureCookie: opts.SecureCookie,
		pages:        pages,
		now:          time.Now,
	}, nil
}

var funcs = template.FuncMap{
	"join": strings.Join,
	"date": func(t time.Time) string {
		return t.Local().Format("02/01/2006")
	},
	"deref": func(f *float64) string {
		if f == nil {
			return ""
		}
		return strconv.FormatFloat(*f, 'f', 6, 64)
	},
}

// parsePages arma un template por página: layout + la página.
func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("web: parse %s: %w", name, err)
		}
		pages[name] = t
	}
	return pages, nil
}

// Routes registra las vistas. Las rutas protegidas pasan por RequireSession;
// el resto solo lee la sesión si existe.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.home)
	r.Get("/clinics", h.listClinics)
	r.Get("/blog", h.listPosts)
	r.Get("/blog/{postID}", h.showPost)

	r.Get(LoginPath, h.loginForm)
	r.Post(LoginPath, h.login)
	r.Get("/signup", h.signUpForm)
	r.Post("/signup", h.signUp)
	r.Post("/logout", h.logout)

	r.Group(func(pr chi.Router) {
		pr.Use(middleware.RequireSession(LoginPath, http.HandlerFunc(h.loading)))

		pr.Get("/register-clinic", h.newClinicForm)
		pr.Post("/register-clinic", h.createClinic)
		pr.Get("/edit-clinic/{clinicID}", h.editClinicForm)
		pr.Post("/edit-clinic/{clinicID}", h.updateClinic)
		pr.Get("/my-clinics", h.myClinics)
		pr.Post("/my-clinics/{clinicID}/delete", h.deleteClinic)

		pr.Get("/blog/new", h.newPostForm)
		pr.Post("/blog/new", h.createPost)
		pr.Get("/blog/{postID}/edit", h.editPostForm)
		pr.Post("/blog/{postID}/edit", h.updatePost)
		pr.Post("/blog/{postID}/delete", h.deletePost)
	})
}

// NotFound es la vista para cualquier ruta desconocida.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, "not_found", "Página no encontrada", nil)
}

func (h *Handler) loading(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "loading", "Cargando", nil)
}

type viewData struct {
	Title  string
	User   *auth.Identity
	Notice string
	Year   int
	Page   any
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page, title string, data any) {
	t, ok := h.pages[page]
	if !ok {
		h.log.Error("unknown page", map[string]any{"page": page})
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	vd := viewData{
		Title:  title,
		User:   currentUser(r),
		Notice: noticeText(r.URL.Query().Get("notice")),
		Year:   h.now().Year(),
		Page:   data,
	}

	// Se renderiza a un buffer para no mandar medio HTML si el template falla.
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", vd); err != nil {
		h.log.Error("render failed", map[string]any{"page": page, "err": err})
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// currentUser devuelve la identidad de la sesión del request, o nil.
func currentUser(r *http.Request) *auth.Identity {
	h := session.FromContext(r.Context())
	if h == nil {
		return nil
	}
	id, _ := h.Current()
	return id
}

func currentUID(r *http.Request) string {
	if id := currentUser(r); id != nil {
		return id.UID
	}
	return ""
}

// redirect siempre con 303: después de un POST el navegador hace GET y la
// entrada del historial se reemplaza.
func redirect(w http.ResponseWriter, r *http.Request, path string, n notice) {
	if n != "" {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		path += sep + "notice=" + string(n)
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}
