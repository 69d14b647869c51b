package handler

import (
	"net/http"
	"strings"

	"github.com/iconidentify/clipgrab/internal/classifier"
	"github.com/iconidentify/clipgrab/internal/domain"
)

// Capabilities reports per-platform behaviour of the acquisition core.
type Capabilities interface {
	ProducesLocalFile(platform domain.Platform) bool
}

// ClassifyHandler exposes URL classification without acquiring anything.
type ClassifyHandler struct {
	caps Capabilities
}

// NewClassifyHandler creates a classify handler.
func NewClassifyHandler(caps Capabilities) *ClassifyHandler {
	return &ClassifyHandler{caps: caps}
}

// ClassifyResponse is the PlatformInfo of a URL plus what a download would yield.
type ClassifyResponse struct {
	domain.PlatformInfo
	DownloadsFile bool `json:"downloads_file"`
}

// Classify handles GET /api/v1/classify?url=
func (h *ClassifyHandler) Classify(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if strings.TrimSpace(url) == "" {
		writeError(w, http.StatusBadRequest, domain.ErrEmptyURL.Error())
		return
	}

	info := classifier.Classify(url)
	resp := ClassifyResponse{PlatformInfo: info}
	if info.IsValid && h.caps != nil {
		resp.DownloadsFile = h.caps.ProducesLocalFile(info.Platform)
	}

	writeJSON(w, http.StatusOK, resp)
}
