package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/saulo-duarte/viva-lambda/internal/config"
	"github.com/saulo-duarte/viva-lambda/internal/middlewares"
	"github.com/saulo-duarte/viva-lambda/internal/viva"
)

type RouterConfig struct {
	VivaHandler       *viva.Handler
	ModelID           string
	CorsAllowedOrigin string
}

type healthResponse struct {
	Status string `json:"status"`
	Model  string `json:"model"`
}

func New(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: config.Logger, NoColor: true}))
	r.Use(middlewares.Recoverer)
	r.Use(middlewares.Cors(cfg.CorsAllowedOrigin))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		config.JSON(w, http.StatusOK, healthResponse{Status: "healthy", Model: cfg.ModelID})
	})

	r.Mount("/", viva.Routes(cfg.VivaHandler))
	return r
}
