package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
)

//go:embed static/*
var staticFiles embed.FS

// RegisterRoutes serves the single-page chat UI at "/".
func RegisterRoutes(r chi.Router) {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	files := http.FileServer(http.FS(sub))

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.ServeFileFS(w, req, sub, "index.html")
	})
	r.Get("/static/*", http.StripPrefix("/static/", files).ServeHTTP)
}
