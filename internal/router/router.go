package router

import (
	"errors"
	"net/http"
	"time"

	_ "denti-directory/docs"
	"denti-directory/internal/adapters/auth/local"
	mem "denti-directory/internal/adapters/storage/memory"
	pg "denti-directory/internal/adapters/storage/postgres"
	"denti-directory/internal/domain/accounts"
	"denti-directory/internal/domain/clinics"
	"denti-directory/internal/domain/posts"
	"denti-directory/internal/geocoding"
	"denti-directory/internal/middleware"
	"denti-directory/internal/platform/logger"
	"denti-directory/internal/ports/auth"
	"denti-directory/internal/session"
	"denti-directory/internal/web"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	Logger logger.Logger

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sqlx.DB

	// Opcional: revocación compartida (redis). Default: en memoria.
	Revocations auth.RevocationStore

	// Opcional. Default: geocoder estático sin direcciones conocidas.
	Geocoder geocoding.Geocoder

	// DevAuth: la API ignora Bearer y acepta X-Debug-User-ID (modo dev/tests).
	DevAuth bool

	JWTSecret   []byte
	TokenTTL    time.Duration
	BcryptCost  int
	SignInRate  float64
	SignInBurst int

	// Cuánto espera una request web a que la sesión se resuelva.
	SessionWait  time.Duration
	SecureCookie bool

	// Opcional. Default: registry propio con collectors de proceso y Go.
	Registry *prometheus.Registry
}

// NewRouter arma la aplicación. La función devuelta libera las sesiones activas; llamarlo
// al apagar el server.
func NewRouter(opts Options) (http.Handler, func(), error) {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if len(opts.JWTSecret) == 0 {
		return nil, nil, errors.New("router: JWT secret required")
	}
	if opts.Geocoder == nil {
		opts.Geocoder = geocoding.Static{}
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
		opts.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	log := opts.Logger

	var (
		clinicRepo clinics.Repository
		postRepo   posts.Repository
		userRepo   accounts.Repository
	)
	if opts.DB != nil {
		clinicRepo = pg.NewClinicsRepo(opts.DB)
		postRepo = pg.NewPostsRepo(opts.DB)
		userRepo = pg.NewUsersRepo(opts.DB)
	} else {
		clinicRepo = mem.NewClinicRepo()
		postRepo = mem.NewPostRepo()
		userRepo = mem.NewUserRepo()
	}

	provider, err := local.New(userRepo, local.Options{
		Secret:      opts.JWTSecret,
		TokenTTL:    opts.TokenTTL,
		BcryptCost:  opts.BcryptCost,
		SignInRate:  opts.SignInRate,
		SignInBurst: opts.SignInBurst,
		Revocations: opts.Revocations,
		Logger:      log,
	})
	if err != nil {
		return nil, nil, err
	}

	// Services por módulo
	clinicsSvc := clinics.NewService(clinicRepo, log)
	postsSvc := posts.NewService(postRepo, log)
	sessions := session.NewRegistry(provider, log)

	views, err := web.New(web.Options{
		Clinics:      clinicsSvc,
		Posts:        postsSvc,
		Provider:     provider,
		Registry:     sessions,
		Logger:       log,
		SessionTTL:   provider.TokenTTL(),
		SecureCookie: opts.SecureCookie,
	})
	if err != nil {
		sessions.Close()
		return nil, nil, err
	}

	metrics := middleware.NewMetrics(opts.Registry)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recover(log))
	r.Use(metrics.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{}))
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// API JSON
	var verifier auth.AuthVerifier = provider
	if opts.DevAuth {
		verifier = nil
	}
	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.AuthContext(verifier))

		accounts.RegisterRoutes(api, provider)
		clinics.RegisterRoutes(api, clinicsSvc)
		posts.RegisterRoutes(api, postsSvc)
		geocoding.RegisterRoutes(api, opts.Geocoder)

		api.NotFound(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "not found", http.StatusNotFound)
		})
	})

	// Vistas HTML
	r.Group(func(site chi.Router) {
		site.Use(middleware.Session(sessions, opts.SessionWait))
		views.Routes(site)
	})
	r.NotFound(views.NotFound)

	return r, sessions.Close, nil
}
