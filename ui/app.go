package ui

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"stocksheet/app"
	"stocksheet/internal"
	"stocksheet/ports"
)

// App serves the JSON query API over the loaded stock data.
type App struct {
	router       *chi.Mux
	store        ports.StockStore
	queries      *app.QueryService
	importer     *app.ImportService
	historyLimit int
	log          *internal.Logger
}

// NewApp wires the HTTP application.
func NewApp(store ports.StockStore, queries *app.QueryService, importer *app.ImportService, historyLimit int, log *internal.Logger) *App {
	if log == nil {
		log = internal.DefaultLogger
	}
	a := &App{
		router:       chi.NewRouter(),
		store:        store,
		queries:      queries,
		importer:     importer,
		historyLimit: historyLimit,
		log:          log,
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

func (a *App) setupRoutes() {
	a.router.Get("/health", a.handleHealth)

	a.router.Route("/api", func(r chi.Router) {
		r.Get("/dates", a.handleListDates)
		r.Get("/sectors", a.handleListSectors)
		r.Get("/days/{date}", a.handleDay)
		r.Delete("/days/{date}", a.handleDeleteDay)
		r.Get("/days/{date}/stats", a.handleStats)
		r.Get("/range", a.handleRange)
		r.Get("/search", a.handleSearch)
		r.Get("/history", a.handleHistory)
		r.Post("/import", a.handleImport)
	})
}

// Router exposes the configured mux.
func (a *App) Router() http.Handler {
	return a.router
}

// Serve blocks listening on the given port.
func (a *App) Serve(port string) error {
	a.log.Info("[ui] listening on :%s", port)
	return http.ListenAndServe(":"+port, a.router)
}
