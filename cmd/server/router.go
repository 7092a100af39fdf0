package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/phrazzld/task-api/internal/api"
	apiMiddleware "github.com/phrazzld/task-api/internal/api/middleware"
	_ "github.com/phrazzld/task-api/internal/docs" // registers the generated API document
	"github.com/phrazzld/task-api/internal/web"
)

// docsPath is where the generated API documentation UI is mounted.
const docsPath = "/api-docs"

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	requestLog := slog.NewLogLogger(app.logger.Handler(), slog.LevelInfo)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: requestLog, NoColor: true}))
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(apiMiddleware.Recoverer)

	taskHandler := api.NewTaskHandler(app.taskStore, app.logger)
	healthHandler := api.NewHealthHandler(app.config.Server.Environment)

	r.Get("/", web.Home)
	r.Handle(web.AssetsPrefix+"*", web.Assets())

	r.Get("/ping", healthHandler.Health)
	r.Get("/health", healthHandler.Health)

	r.Get(docsPath, func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, docsPath+"/index.html", http.StatusMovedPermanently)
	})
	r.Get(docsPath+"/*", httpSwagger.Handler(httpSwagger.URL(docsPath+"/doc.json")))

	r.Route("/api/tasks", func(r chi.Router) {
		r.Get("/", taskHandler.ListTasks)
		r.Post("/", taskHandler.CreateTask)
		r.Get("/{id}", taskHandler.GetTask)
		r.Put("/{id}", taskHandler.ReplaceTask)
		r.Patch("/{id}", taskHandler.PatchTask)
		r.Delete("/{id}", taskHandler.DeleteTask)
	})

	r.NotFound(web.NotFound)
	r.MethodNotAllowed(web.NotFound)

	return r
}
