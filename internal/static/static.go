// Package static is the development file server for the published docs site.
package static

import (
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
)

const notFoundBody = "404 Not Found"

// Handler serves GET P from <root>/P, with "/" mapped to <root>/index.html.
// Any read failure, including a missing file or a directory, is a 404.
type Handler struct {
	root   string
	logger zerolog.Logger
}

func NewHandler(root string, logger zerolog.Logger) *Handler {
	return &Handler{root: root, logger: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	filename := h.resolve(r.URL.Path)

	log := zerolog.Ctx(r.Context())
	if log.GetLevel() == zerolog.Disabled {
		log = &h.logger
	}
	log.Debug().Str("path", r.URL.Path).Str("file", filename).Msg("static request")

	data, err := os.ReadFile(filename)
	if err != nil {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(notFoundBody))
		return
	}

	w.Header().Set("Content-Type", contentType(filename, data))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// resolve maps a URL path under root. path.Clean on a rooted path drops any
// ".." that would climb above "/".
func (h *Handler) resolve(urlPath string) string {
	if urlPath == "" || urlPath == "/" {
		return filepath.Join(h.root, "index.html")
	}
	clean := path.Clean("/" + urlPath)
	return filepath.Join(h.root, filepath.FromSlash(clean))
}

func contentType(filename string, data []byte) string {
	if ct := mime.TypeByExtension(filepath.Ext(filename)); ct != "" {
		return ct
	}
	return mimetype.Detect(data).String()
}
