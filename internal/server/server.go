package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"cnpjchat/config"
	"cnpjchat/internal/domain"
	"cnpjchat/internal/log"
	"cnpjchat/internal/port"
)

// Asker answers one natural-language question. Implemented by the ask
// use case; narrowed here so handlers stay testable with a stub.
type Asker interface {
	Ask(ctx context.Context, question string) (domain.Answer, error)
}

// Profiler assembles the structured fact profile of one company.
type Profiler interface {
	Profile(ctx context.Context, cnpj string) (domain.CompanyProfile, error)
}

// Server is the HTTP front of the question pipeline. history may be nil,
// which disables session recording and the history endpoint's data.
type Server struct {
	ask     Asker
	profile Profiler
	history port.HistoryStore
	cfg     config.Server
}

// New creates a server around the ask pipeline. profile may be nil.
func New(cfg config.Server, ask Asker, profile Profiler, history port.HistoryStore) *Server {
	return &Server{ask: ask, profile: profile, history: history, cfg: cfg}
}

// Router builds the chi routing tree.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	if s.cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.cfg.RequestTimeout))
	}

	r.Get("/healthz", s.handleHealthz)
	r.Post("/ask", s.handleAsk)
	r.Get("/company/{cnpj}", s.handleCompany)
	r.Get("/history/{session}", s.handleHistory)
	return r
}

// ListenAndServe blocks serving the API until ctx is cancelled, then
// shuts down draining in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Infof("http server listening on %s", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// requestLogger logs one line per request with status and latency.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Infof("%s %s -> %d (%s)", r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}
