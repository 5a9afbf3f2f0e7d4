package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/figweave/internal/binding"
	"github.com/dgallion1/figweave/internal/config"
	"github.com/dgallion1/figweave/internal/figma"
	"github.com/dgallion1/figweave/internal/render"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP server for figweave: the rendered page plus the
// binding refresh endpoint.
type Server struct {
	router   chi.Router
	figma    *figma.Client
	resolver *binding.Resolver
	log      *slog.Logger
	cfg      config.Config

	fileKey  string
	fileName string
}

// NewServer creates and configures the HTTP server.
func NewServer(fc *figma.Client, resolver *binding.Resolver, log *slog.Logger, cfg config.Config, fileKey, fileName string) *Server {
	s := &Server{
		figma:    fc,
		resolver: resolver,
		log:      log,
		cfg:      cfg,
		fileKey:  fileKey,
		fileName: fileName,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/", s.handlePage)
	r.Get(render.BindingEndpoint, s.handleBindingValue)
	r.Get("/health", s.handleHealth)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
