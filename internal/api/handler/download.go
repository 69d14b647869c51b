package handler

import (
	"context"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/iconidentify/clipgrab/internal/domain"
	"github.com/iconidentify/clipgrab/internal/orchestrator"
)

// Acquirer runs one acquisition.
type Acquirer interface {
	Acquire(ctx context.Context, url string, opts ...orchestrator.Option) (*domain.AcquisitionResult, error)
}

// DownloadHandler acquires a video synchronously for the requesting client.
type DownloadHandler struct {
	acquirer Acquirer
	timeout  time.Duration
	logger   *slog.Logger
}

// NewDownloadHandler creates a download handler. A zero timeout leaves
// the acquisition bound only by the request context.
func NewDownloadHandler(acquirer Acquirer, timeout time.Duration, logger *slog.Logger) *DownloadHandler {
	return &DownloadHandler{
		acquirer: acquirer,
		timeout:  timeout,
		logger:   logger,
	}
}

// Download handles GET /download?url=&quality=
//
// Downloaded files are streamed back as an attachment; platforms that only
// resolve a link get a 302 to the asset URL.
func (h *DownloadHandler) Download(w http.ResponseWriter, r *http.Request) {
	url := strings.TrimSpace(r.URL.Query().Get("url"))
	if url == "" {
		writeError(w, http.StatusBadRequest, domain.ErrEmptyURL.Error())
		return
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	var opts []orchestrator.Option
	if q := r.URL.Query().Get("quality"); q != "" {
		opts = append(opts, orchestrator.WithQuality(q))
	}

	result, err := h.acquirer.Acquire(ctx, url, opts...)
	if err != nil {
		status := acquisitionStatus(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("download failed", "url", url, "status", status, "error", err)
		}
		writeError(w, status, err.Error())
		return
	}

	w.Header().Set("X-Acquisition-ID", result.ID)

	if !result.HasLocalFile() {
		http.Redirect(w, r, result.AssetURL, http.StatusFound)
		return
	}

	h.serveFile(w, r, result)
}

func (h *DownloadHandler) serveFile(w http.ResponseWriter, r *http.Request, result *domain.AcquisitionResult) {
	f, err := os.Open(result.LocalPath)
	if err != nil {
		h.logger.Error("open downloaded file", "path", result.LocalPath, "error", err)
		writeError(w, http.StatusInternalServerError, "downloaded file is unavailable")
		return
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		h.logger.Error("stat downloaded file", "path", result.LocalPath, "error", err)
		writeError(w, http.StatusInternalServerError, "downloaded file is unavailable")
		return
	}

	name := filepath.Base(result.LocalPath)
	w.Header().Set("Content-Type", videoContentType(name))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	http.ServeContent(w, r, name, st.ModTime(), f)
}

var videoTypes = map[string]string{
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".3gp":  "video/3gpp",
	".m4a":  "audio/mp4",
}

func videoContentType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if t, ok := videoTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}
