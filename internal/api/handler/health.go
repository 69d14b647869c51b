package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/iconidentify/clipgrab/internal/repository"
	"github.com/iconidentify/clipgrab/internal/storage"
)

var startTime = time.Now()

// OutputStore is the part of the file store the health checks inspect.
type OutputStore interface {
	Dir() string
	Writable() error
	DiskUsage() storage.DiskUsage
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	jobRepo repository.JobRepository
	store   OutputStore
	cpu     *cpuSampler
	logger  *slog.Logger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(jobRepo repository.JobRepository, store OutputStore, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		jobRepo: jobRepo,
		store:   store,
		cpu:     &cpuSampler{},
		logger:  logger,
	}
}

// HealthResponse is the JSON response for health checks.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Error     string                 `json:"error,omitempty"`
	Queue     *repository.QueueStats `json:"queue,omitempty"`
}

// Live handles GET /health - liveness probe.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: now(),
	})
}

// Ready handles GET /ready - readiness probe. The service is ready when
// the queue answers and the output directory accepts writes.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	stats, err := h.jobRepo.Stats(ctx)
	if err != nil {
		h.logger.Warn("readiness: job queue unavailable", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:    "error",
			Timestamp: now(),
			Error:     "job queue unavailable",
		})
		return
	}

	if err := h.store.Writable(); err != nil {
		h.logger.Warn("readiness: output directory not writable", "dir", h.store.Dir(), "error", err)
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:    "error",
			Timestamp: now(),
			Error:     "output directory not writable",
			Queue:     stats,
		})
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: now(),
		Queue:     stats,
	})
}

// SystemStats contains process and output disk statistics.
type SystemStats struct {
	Uptime        int64                  `json:"uptime_seconds"`
	UptimeHuman   string                 `json:"uptime_human"`
	MemAllocMB    int64                  `json:"mem_alloc_mb"`
	MemSysMB      int64                  `json:"mem_sys_mb"`
	MemHeapMB     int64                  `json:"mem_heap_mb"`
	NumGoroutines int                    `json:"num_goroutines"`
	NumCPU        int                    `json:"num_cpu"`
	CPUPercent    float64                `json:"cpu_percent"`
	OutputDir     string                 `json:"output_dir"`
	Disk          storage.DiskUsage      `json:"disk"`
	Queue         *repository.QueueStats `json:"queue,omitempty"`
}

// Stats handles GET /api/v1/stats - system statistics.
func (h *HealthHandler) Stats(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	uptime := time.Since(startTime)

	stats := SystemStats{
		Uptime:        int64(uptime.Seconds()),
		UptimeHuman:   formatUptime(uptime),
		MemAllocMB:    int64(m.Alloc / 1024 / 1024),
		MemSysMB:      int64(m.Sys / 1024 / 1024),
		MemHeapMB:     int64(m.HeapAlloc / 1024 / 1024),
		NumGoroutines: runtime.NumGoroutine(),
		NumCPU:        runtime.NumCPU(),
		CPUPercent:    h.cpu.sample(),
		OutputDir:     h.store.Dir(),
		Disk:          h.store.DiskUsage(),
	}

	// Queue stats are best effort here; /ready reports the failure.
	if q, err := h.jobRepo.Stats(r.Context()); err == nil {
		stats.Queue = q
	}

	writeJSON(w, http.StatusOK, stats)
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func formatUptime(d time.Duration) string {
	days := int(d.Hours() / 24)
	hours := int(d.Hours()) % 24
	mins := int(d.Minutes()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, hours, mins)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	return fmt.Sprintf("%dm", mins)
}

// cpuSampler turns cumulative process CPU time into a percentage of one
// core over the interval since the previous sample.
type cpuSampler struct {
	mu       sync.Mutex
	lastCPU  time.Duration
	lastWall time.Time
}

func (s *cpuSampler) sample() float64 {
	cpu, ok := processCPUTime()
	if !ok {
		return 0
	}
	return s.observe(cpu, time.Now())
}

func (s *cpuSampler) observe(cpu time.Duration, wall time.Time) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastWall.IsZero() {
		s.lastCPU, s.lastWall = cpu, wall
		return 0
	}

	cpuDelta := cpu - s.lastCPU
	wallDelta := wall.Sub(s.lastWall)
	s.lastCPU, s.lastWall = cpu, wall

	if wallDelta <= 0 {
		return 0
	}

	pct := float64(cpuDelta) / float64(wallDelta) * 100
	return min(max(pct, 0), 100)
}
