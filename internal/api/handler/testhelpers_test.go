package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/iconidentify/clipgrab/internal/domain"
	"github.com/iconidentify/clipgrab/internal/orchestrator"
	"github.com/iconidentify/clipgrab/internal/repository"
	"github.com/iconidentify/clipgrab/internal/storage"
)

// testLogger returns a silent logger for tests.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockJobRepository is a test implementation of repository.JobRepository.
type mockJobRepository struct {
	mu         sync.Mutex
	stats      *repository.QueueStats
	statsErr   error
	jobs       map[domain.JobID]*domain.Job
	enqueueErr error
	getErr     error
	listErr    error
}

func newMockJobRepository() *mockJobRepository {
	return &mockJobRepository{
		stats: &repository.QueueStats{},
		jobs:  make(map[domain.JobID]*domain.Job),
	}
}

func (m *mockJobRepository) Enqueue(ctx context.Context, job *domain.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.enqueueErr != nil {
		return m.enqueueErr
	}
	m.jobs[job.ID] = job
	return nil
}

func (m *mockJobRepository) Dequeue(ctx context.Context) (*domain.Job, error) {
	return nil, domain.ErrNoJobs
}

func (m *mockJobRepository) Get(ctx context.Context, id domain.JobID) (*domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if job, ok := m.jobs[id]; ok {
		return job, nil
	}
	return nil, domain.ErrJobNotFound
}

func (m *mockJobRepository) Update(ctx context.Context, job *domain.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[job.ID] = job
	return nil
}

func (m *mockJobRepository) List(ctx context.Context, limit int) ([]*domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	jobs := make([]*domain.Job, 0, len(m.jobs))
	for _, job := range m.jobs {
		jobs = append(jobs, job)
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].CreatedAt.After(jobs[j].CreatedAt) })
	if limit > 0 && len(jobs) > limit {
		jobs = jobs[:limit]
	}
	return jobs, nil
}

func (m *mockJobRepository) ListPending(ctx context.Context) ([]*domain.Job, error) {
	return nil, nil
}

func (m *mockJobRepository) Stats(ctx context.Context) (*repository.QueueStats, error) {
	if m.statsErr != nil {
		return nil, m.statsErr
	}
	return m.stats, nil
}

// fakeAcquirer records calls and returns a canned result.
type fakeAcquirer struct {
	mu          sync.Mutex
	result      *domain.AcquisitionResult
	err         error
	block       bool
	urls        []string
	qualities   []string
	hadDeadline bool
}

func (f *fakeAcquirer) Acquire(ctx context.Context, url string, opts ...orchestrator.Option) (*domain.AcquisitionResult, error) {
	var req orchestrator.Request
	for _, opt := range opts {
		opt(&req)
	}

	f.mu.Lock()
	f.urls = append(f.urls, url)
	f.qualities = append(f.qualities, req.Quality)
	_, f.hadDeadline = ctx.Deadline()
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return nil, domain.NewDownloadFailedError(domain.PlatformYouTube, "stream", ctx.Err())
	}
	if f.err != nil {
		return nil, f.err
	}
	r := *f.result
	return &r, nil
}

// fakeStore is a test implementation of OutputStore.
type fakeStore struct {
	dir         string
	writableErr error
	usage       storage.DiskUsage
}

func (s *fakeStore) Dir() string                  { return s.dir }
func (s *fakeStore) Writable() error              { return s.writableErr }
func (s *fakeStore) DiskUsage() storage.DiskUsage { return s.usage }

// fakeCaps marks YouTube and Instagram as producing files.
type fakeCaps struct{}

func (fakeCaps) ProducesLocalFile(p domain.Platform) bool {
	return p == domain.PlatformYouTube || p == domain.PlatformInstagram
}

var errBoom = errors.New("boom")
