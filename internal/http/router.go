package http

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/myflixjw/movie-api/internal/errors"
	"github.com/myflixjw/movie-api/internal/http/handlers"
	"github.com/myflixjw/movie-api/internal/http/middleware"
)

// Options - параметры сборки HTTP-роутера.
type Options struct {
	Logger  *slog.Logger
	Timeout time.Duration

	AllowedOrigins    []string
	ProtectUserRoutes bool

	// StaticDir отдаётся на все GET/HEAD, не занятые API; пусто - выключено.
	StaticDir string

	LoginRateLimit  int
	LoginRateWindow time.Duration
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc handlers.Service, tokens middleware.TokenVerifier, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),                 // безопасно ловим паники
		middleware.RequestID(),               // X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger),      // request-scoped логгер в контексте
		middleware.Metrics(),                 // счётчики по шаблону маршрута
		middleware.CORS(opts.AllowedOrigins), // белый список Origin
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout))
	}

	h := handlers.New(svc)
	requireToken := middleware.RequireToken(tokens)

	for _, rt := range Routes(h) {
		var mws []middleware.Middleware
		if rt.RateLimited {
			mws = append(mws, middleware.RateLimitByIP(rt.Pattern, opts.LoginRateLimit, opts.LoginRateWindow))
		}
		if rt.Access.effective(opts.ProtectUserRoutes) == Protected {
			mws = append(mws, requireToken)
		}

		root.Method(rt.Method, rt.Pattern, middleware.Chain(rt.Handler, mws...))
	}

	root.NotFound(staticFallback(opts.StaticDir))

	return root
}

// staticFallback отдаёт файлы из dir на GET/HEAD; всё прочее - 404 в конверте.
func staticFallback(dir string) http.HandlerFunc {
	notFound := func(w http.ResponseWriter, r *http.Request) {
		apierrors.WriteStatus(w, r, http.StatusNotFound, "not_found", "not found")
	}

	if dir == "" {
		return notFound
	}
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		return notFound
	}

	files := http.FileServer(http.Dir(dir))
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			notFound(w, r)
			return
		}

		files.ServeHTTP(w, r)
	}
}
