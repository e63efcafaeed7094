package handlers

import (
	"encoding/json"
	"io/fs"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"ipxplorer/internal/engine"
	"ipxplorer/internal/explorer"
	"ipxplorer/internal/render"
	"ipxplorer/web"
)

// Options tunes the transport.
type Options struct {
	WriteWait      time.Duration
	PongWait       time.Duration // peer silence tolerated before the socket is dropped
	AllowedOrigins []string
}

// RegisterRoutes sets up all HTTP routes on the given router.
func RegisterRoutes(r chi.Router, eng *engine.Engine, rnd *render.Renderer, opts Options) {
	if opts.WriteWait <= 0 {
		opts.WriteWait = defaultWriteWait
	}
	if opts.PongWait <= 0 {
		opts.PongWait = defaultPongWait
	}

	// Serve embedded static files
	staticFS, err := fs.Sub(web.StaticFiles, "static")
	if err != nil {
		panic(err) // embedded layout is fixed at build time
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	r.Get("/", handleIndex(eng, rnd))
	r.Get("/v/{variant}", handlePage(eng, rnd))

	// WebSocket endpoint
	r.Get("/ws/{variant}", HandleWebSocket(eng, rnd, opts))

	r.Route("/api", func(r chi.Router) {
		origins := opts.AllowedOrigins
		if len(origins) == 0 {
			origins = []string{"*"}
		}
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
		r.Get("/variants", handleVariants(eng))
		r.Get("/v/{variant}/view", handleView(eng))
		r.Get("/stats", handleStats(eng))
	})
}

func handleIndex(eng *engine.Engine, rnd *render.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := rnd.Index(w, eng.Variants()); err != nil {
			logrus.WithError(err).Error("render index")
		}
	}
}

// handlePage renders the explorer with its state taken from the query string,
// so every link works without JavaScript.
func handlePage(eng *engine.Engine, rnd *render.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		x, ok := explorerForRequest(w, r, eng)
		if !ok {
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := rnd.Page(w, x.View()); err != nil {
			logrus.WithError(err).WithField("variant", x.Variant().Name).Error("render page")
		}
	}
}

func handleView(eng *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		x, ok := explorerForRequest(w, r, eng)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, x.View())
	}
}

func handleVariants(eng *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, eng.Variants())
	}
}

func handleStats(eng *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, eng.Stats())
	}
}

func explorerForRequest(w http.ResponseWriter, r *http.Request, eng *engine.Engine) (*explorer.Explorer, bool) {
	v, err := eng.Registry().Get(chi.URLParam(r, "variant"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return nil, false
	}
	x, err := ExplorerFromQuery(v, r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return x, true
}

// ExplorerFromQuery replays the state encoded by render.StateQuery onto a
// fresh explorer. Identifiers absent from the dataset degrade to no highlight.
func ExplorerFromQuery(v *explorer.Variant, q url.Values) (*explorer.Explorer, error) {
	x := explorer.New(v)

	if name := q.Get("section"); name != "" {
		s, err := explorer.ParseSection(name)
		if err != nil {
			return nil, err
		}
		x.SelectSection(s)
	}

	switch q.Get("theme") {
	case "":
	case "dark":
		if !x.State().DarkTheme {
			x.ToggleTheme()
		}
	case "light":
		if x.State().DarkTheme {
			x.ToggleTheme()
		}
	default:
		return nil, errors.Errorf("unknown theme %q", q.Get("theme"))
	}

	if name := q.Get("field"); name != "" {
		x.SetHoveredField(name)
	}
	if raw := q.Get("layer"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errors.Wrap(err, "invalid layer")
		}
		x.SetHoveredLayer(n)
	}
	return x, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Warn("write json response")
	}
}
