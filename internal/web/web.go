// Package web serves the embedded homepage, the 404 page and their assets.
package web

import (
	"embed"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/phrazzld/task-api/internal/platform/logger"
)

//go:embed static
var content embed.FS

// AssetsPrefix is the URL prefix under which static assets are served.
const AssetsPrefix = "/pages/"

const (
	indexPage    = "static/index.html"
	notFoundPage = "static/404.html"
)

// Home handles GET / requests with the embedded homepage.
func Home(w http.ResponseWriter, r *http.Request) {
	servePage(w, r, indexPage, http.StatusOK)
}

// NotFound writes the embedded 404 page with status 404.
func NotFound(w http.ResponseWriter, r *http.Request) {
	servePage(w, r, notFoundPage, http.StatusNotFound)
}

// Assets returns a handler serving files under AssetsPrefix.
// Missing files and directory paths get the 404 page.
func Assets() http.Handler {
	sub, err := fs.Sub(content, "static")
	if err != nil {
		// ALLOW-PANIC: the embedded directory is fixed at compile time
		panic("web: static assets missing: " + err.Error())
	}
	files := http.FileServerFS(sub)

	return http.StripPrefix(AssetsPrefix, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info, err := fs.Stat(sub, r.URL.Path)
		if err != nil || info.IsDir() {
			NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	}))
}

func servePage(w http.ResponseWriter, r *http.Request, name string, status int) {
	page, err := content.ReadFile(name)
	if err != nil {
		logger.FromContext(r.Context()).Error("failed to read embedded page",
			slog.String("page", name),
			slog.String("error", err.Error()))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(page); err != nil {
		logger.FromContext(r.Context()).Debug("failed to write page",
			slog.String("page", name),
			slog.String("error", err.Error()))
	}
}
