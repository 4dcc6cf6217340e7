package web

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"path"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/qbx/internal/formatter"
	"github.com/desertthunder/qbx/internal/models"
	"github.com/desertthunder/qbx/internal/server"
	"github.com/desertthunder/qbx/internal/services"
	"github.com/desertthunder/qbx/internal/shared"
	"github.com/desertthunder/qbx/internal/tasks"
)

//go:embed templates/*.html
var templateFS embed.FS

const defaultHistoryLimit = 10

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"size":        formatter.FormatSize,
	"speed":       formatter.FormatSpeed,
	"eta":         formatter.FormatETA,
	"progress":    formatter.FormatProgress,
	"ratio":       formatter.FormatRatio,
	"epoch":       formatter.FormatEpoch,
	"percent":     func(p float64) float64 { return p * 100 },
	"groups":      models.StatusGroups,
	"base":        path.Base,
	"depth":       func(folder string) int { return strings.Count(folder, "/") },
	"trackerName": trackerName,
}).ParseFS(templateFS, "templates/*.html"))

func trackerName(host string) string {
	if host == "" {
		return "(no tracker)"
	}
	return host
}

// Handler serves the HTML and JSON routes on top of a [tasks.Engine].
type Handler struct {
	engine       tasks.Engine
	logger       *log.Logger
	historyLimit int
	mux          *http.ServeMux
}

var _ server.Handler = (*Handler)(nil)

// NewHandler creates a [Handler]. historyLimit <= 0 uses 10.
func NewHandler(engine tasks.Engine, logger *log.Logger, historyLimit int) *Handler {
	if historyLimit <= 0 {
		historyLimit = defaultHistoryLimit
	}
	h := &Handler{
		engine:       engine,
		logger:       shared.WithLogger(logger, "component", "web"),
		historyLimit: historyLimit,
		mux:          http.NewServeMux(),
	}
	h.mux.HandleFunc("GET /{$}", h.index)
	h.mux.HandleFunc("POST /{$}", h.submit)
	h.mux.HandleFunc("GET /api/torrents", h.apiList)
	h.mux.HandleFunc("POST /api/torrents", h.apiSubmit)
	h.mux.HandleFunc("GET /api/torrents/{hash}", h.apiDetail)
	h.mux.HandleFunc("GET /health", h.health)
	return h
}

// Routes returns the mux patterns served by the handler.
func (h *Handler) Routes() []string {
	return []string{"/{$}", "/api/torrents", "/api/torrents/{hash}", "/health"}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// NewRouter wires the handler behind request-ID, access-log and recover middleware.
func NewRouter(engine tasks.Engine, logger *log.Logger, historyLimit int) *server.BasicRouter {
	router := server.NewBasicRouter()
	router.Use(server.RequestID(), server.AccessLog(logger), server.Recover(logger))
	router.Handler(NewHandler(engine, logger, historyLimit))
	return router
}

type indexPage struct {
	Overview  *tasks.Overview
	Filter    string
	History   []*models.Submission
	Message   string
	Submitted bool
}

type errorPage struct {
	Status    int
	Title     string
	Detail    string
	RequestID string
}

func listOptions(r *http.Request) services.ListOptions {
	q := r.URL.Query()
	return services.ListOptions{
		Filter:   q.Get("filter"),
		Category: q.Get("category"),
		Sort:     q.Get("sort"),
		Reverse:  q.Get("reverse") == "true",
	}
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	opts := listOptions(r)
	overview, err := h.engine.Overview(r.Context(), opts)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.render(w, http.StatusOK, "index.html", indexPage{
		Overview: overview,
		Filter:   opts.Filter,
		History:  h.history(r.Context()),
	})
}

// submit forwards the url field unvalidated; a missing field is sent as "".
func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	result, err := h.engine.Submit(r.Context(), r.PostFormValue("url"), services.AddOptions{})
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.render(w, http.StatusOK, "index.html", indexPage{
		Message:   result.Message,
		Submitted: true,
	})
}

func (h *Handler) history(ctx context.Context) []*models.Submission {
	subs, err := h.engine.History(ctx, h.historyLimit)
	if err != nil {
		if !errors.Is(err, shared.ErrHistoryDisabled) {
			h.logger.Warn("failed to load submission history", "error", err)
		}
		return nil
	}
	return subs
}

// render executes name into a buffer and only then writes status and body. A failed render answers 500.
func (h *Handler) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		h.logger.Error("failed to render template", "template", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("qBittorrent request failed", "path", r.URL.Path, "error", err)
	h.render(w, http.StatusBadGateway, "error.html", errorPage{
		Status:    http.StatusBadGateway,
		Title:     "qBittorrent is unavailable",
		Detail:    errorDetail(err),
		RequestID: server.RequestIDFrom(r.Context()),
	})
}

func errorDetail(err error) string {
	switch {
	case errors.Is(err, shared.ErrMalformedResponse):
		return "qBittorrent answered with something that is not a task list."
	case errors.Is(err, shared.ErrServiceUnavailable):
		return "qBittorrent could not be reached or did not answer in time."
	default:
		return "The request to qBittorrent failed."
	}
}
