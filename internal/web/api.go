package web

import (
	"errors"
	"net/http"

	"github.com/desertthunder/qbx/internal/services"
	"github.com/desertthunder/qbx/internal/shared"
)

func (h *Handler) apiList(w http.ResponseWriter, r *http.Request) {
	overview, err := h.engine.Overview(r.Context(), listOptions(r))
	if err != nil {
		h.logger.Error("qBittorrent request failed", "path", r.URL.Path, "error", err)
		h.writeJSON(w, http.StatusBadGateway, map[string]string{"error": errorDetail(err)})
		return
	}
	h.writeJSON(w, http.StatusOK, overview)
}

func (h *Handler) apiSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid form body"})
		return
	}

	opts := services.AddOptions{
		Category: r.PostFormValue("category"),
		SavePath: r.PostFormValue("savepath"),
		Paused:   r.PostFormValue("paused") == "true",
	}
	result, err := h.engine.Submit(r.Context(), r.PostFormValue("url"), opts)
	if err != nil {
		h.logger.Error("qBittorrent request failed", "path", r.URL.Path, "error", err)
		h.writeJSON(w, http.StatusBadGateway, map[string]string{"error": errorDetail(err)})
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// apiDetail answers 404 when qBittorrent does not know the hash and 502 for every other failure.
func (h *Handler) apiDetail(w http.ResponseWriter, r *http.Request) {
	hash := r.PathValue("hash")
	detail, err := h.engine.Detail(r.Context(), hash)
	if err != nil {
		var apiErr *services.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "torrent not found: " + hash})
			return
		}
		h.logger.Error("qBittorrent request failed", "path", r.URL.Path, "error", err)
		h.writeJSON(w, http.StatusBadGateway, map[string]string{"error": errorDetail(err)})
		return
	}
	h.writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := shared.MarshalJSON(v, false)
	if err != nil {
		h.logger.Error("failed to encode response", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}
