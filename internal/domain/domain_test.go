package domain

import (
	"errors"
	"fmt"
	"testing"
)

// =============================================================================
// Platform Tests
// =============================================================================

func TestPlatform_Known(t *testing.T) {
	tests := []struct {
		platform Platform
		want     bool
	}{
		{PlatformYouTube, true},
		{PlatformTwitter, true},
		{PlatformInstagram, true},
		{PlatformUnknown, false},
		{Platform("tiktok"), false},
		{Platform(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.platform.String(), func(t *testing.T) {
			if got := tt.platform.Known(); got != tt.want {
				t.Errorf("Platform(%q).Known() = %v, want %v", tt.platform, got, tt.want)
			}
		})
	}
}

func TestUnknownPlatformInfo(t *testing.T) {
	info := UnknownPlatformInfo("https://example.com")

	if info.IsValid {
		t.Error("IsValid should be false")
	}
	if info.Platform != PlatformUnknown {
		t.Errorf("Platform = %q, want %q", info.Platform, PlatformUnknown)
	}
	if info.ContentType != ContentUnknown {
		t.Errorf("ContentType = %q, want %q", info.ContentType, ContentUnknown)
	}
	if info.ContentID != "" || info.CanonicalURL != "" {
		t.Error("ContentID and CanonicalURL should be empty")
	}
	if info.RawURL != "https://example.com" {
		t.Errorf("RawURL = %q", info.RawURL)
	}
}

func TestAcquisitionResult_HasLocalFile(t *testing.T) {
	tests := []struct {
		name   string
		result AcquisitionResult
		want   bool
	}{
		{"downloaded", AcquisitionResult{LocalFile: true, LocalPath: "/tmp/a.mp4"}, true},
		{"resolved only", AcquisitionResult{AssetURL: "https://cdn/a.mp4"}, false},
		{"flag without path", AcquisitionResult{LocalFile: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.HasLocalFile(); got != tt.want {
				t.Errorf("HasLocalFile() = %v, want %v", got, tt.want)
			}
		})
	}
}

// =============================================================================
// Error Tests
// =============================================================================

func TestUnsupportedURLError(t *testing.T) {
	var err error = &UnsupportedURLError{URL: "https://example.com"}

	if !errors.Is(err, ErrUnsupportedURL) {
		t.Error("errors.Is should match ErrUnsupportedURL")
	}
	if errors.Is(err, ErrDownloadFailed) {
		t.Error("errors.Is should not match ErrDownloadFailed")
	}
	if !IsClientError(err) {
		t.Error("unsupported URL should be a client error")
	}
	want := "unsupported platform or invalid URL format: https://example.com"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestResolutionFailedError(t *testing.T) {
	cause := errors.New("selector timeout")
	err := NewResolutionFailedError(PlatformTwitter, "twitsave", cause)

	if !errors.Is(err, ErrResolutionFailed) {
		t.Error("errors.Is should match ErrResolutionFailed")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should reach the cause")
	}
	want := "video URL resolution failed [twitter via twitsave]: selector timeout"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if IsClientError(err) {
		t.Error("resolution failure is not a client error")
	}
}

func TestDownloadFailedError(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewDownloadFailedError(PlatformYouTube, "stream", cause)

	if !errors.Is(err, ErrDownloadFailed) {
		t.Error("errors.Is should match ErrDownloadFailed")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should reach the cause")
	}
	want := "video download failed [youtube] stream: connection reset"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestDownloadFailedError_WrapsResolution(t *testing.T) {
	resolution := NewResolutionFailedError(PlatformInstagram, "snapinsta", errors.New("no link"))
	err := fmt.Errorf("acquire: %w", NewDownloadFailedError(PlatformInstagram, "resolve", resolution))

	var dl *DownloadFailedError
	if !errors.As(err, &dl) {
		t.Fatal("errors.As should find DownloadFailedError")
	}
	var rf *ResolutionFailedError
	if !errors.As(err, &rf) {
		t.Fatal("errors.As should find ResolutionFailedError")
	}
	if rf.Resolver != "snapinsta" {
		t.Errorf("Resolver = %q, want snapinsta", rf.Resolver)
	}
}

// =============================================================================
// Job Tests
// =============================================================================

func TestNewJob(t *testing.T) {
	job := NewJob("job_1", "https://youtu.be/dQw4w9WgXcQ", 2)

	if job.Status != JobStatusQueued {
		t.Errorf("Status = %q, want %q", job.Status, JobStatusQueued)
	}
	if job.Attempts != 0 {
		t.Errorf("Attempts = %d, want 0", job.Attempts)
	}
	if job.CreatedAt.IsZero() || !job.CreatedAt.Equal(job.UpdatedAt) {
		t.Error("CreatedAt and UpdatedAt should be set and equal")
	}
}

func TestJob_MarkFailed(t *testing.T) {
	tests := []struct {
		name       string
		maxRetries int
		failures   int
		want       JobStatus
	}{
		{"no retries", 0, 1, JobStatusFailed},
		{"first of two", 2, 1, JobStatusRetrying},
		{"exhausted", 2, 2, JobStatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := NewJob("job_1", "u", tt.maxRetries)
			for i := 0; i < tt.failures; i++ {
				job.MarkFailed("boom")
			}
			if job.Status != tt.want {
				t.Errorf("Status = %q, want %q", job.Status, tt.want)
			}
			if job.Attempts != tt.failures {
				t.Errorf("Attempts = %d, want %d", job.Attempts, tt.failures)
			}
			if job.LastError != "boom" {
				t.Errorf("LastError = %q", job.LastError)
			}
		})
	}
}

func TestJob_MarkFailedPermanently(t *testing.T) {
	job := NewJob("job_1", "u", 5)
	job.MarkFailedPermanently("unsupported")

	if job.Status != JobStatusFailed {
		t.Errorf("Status = %q, want %q", job.Status, JobStatusFailed)
	}
	if !job.IsTerminal() {
		t.Error("failed job should be terminal")
	}
}

func TestJob_MarkCompleted(t *testing.T) {
	job := NewJob("job_1", "u", 1)
	job.MarkFailed("transient")
	result := &AcquisitionResult{Title: "clip"}
	job.MarkCompleted(result)

	if job.Status != JobStatusCompleted {
		t.Errorf("Status = %q, want %q", job.Status, JobStatusCompleted)
	}
	if job.Result != result {
		t.Error("Result should be recorded")
	}
	if job.LastError != "" {
		t.Error("LastError should be cleared")
	}
	if !job.IsTerminal() {
		t.Error("completed job should be terminal")
	}
}
