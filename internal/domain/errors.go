package domain

import "errors"

// Domain errors.
var (
	// ErrUnsupportedURL is returned when a URL does not classify to a supported platform.
	ErrUnsupportedURL = errors.New("unsupported platform or invalid URL format")

	// ErrResolutionFailed is returned when a resolver service did not yield a video link.
	ErrResolutionFailed = errors.New("video URL resolution failed")

	// ErrDownloadFailed is returned when fetching or writing video bytes fails.
	ErrDownloadFailed = errors.New("video download failed")

	// ErrNoMatchingFormat is returned when no format satisfies the requested quality.
	ErrNoMatchingFormat = errors.New("no format matches requested quality")

	// ErrURLExpired is returned when the asset URL is no longer accessible.
	ErrURLExpired = errors.New("video URL has expired")

	// ErrRateLimited is returned when rate limited by external services.
	ErrRateLimited = errors.New("rate limited")

	// ErrJobNotFound is returned when a job cannot be found.
	ErrJobNotFound = errors.New("job not found")

	// ErrNoJobs is returned when there are no jobs to process.
	ErrNoJobs = errors.New("no jobs available")

	// ErrEmptyURL is returned when a download request carries no URL.
	ErrEmptyURL = errors.New("url is required")
)

// UnsupportedURLError reports a URL that failed classification.
type UnsupportedURLError struct {
	URL string
}

func (e *UnsupportedURLError) Error() string {
	return ErrUnsupportedURL.Error() + ": " + e.URL
}

// Is makes errors.Is(err, ErrUnsupportedURL) hold.
func (e *UnsupportedURLError) Is(target error) bool {
	return target == ErrUnsupportedURL
}

// ResolutionFailedError wraps a failure to resolve a content URL into an asset URL.
type ResolutionFailedError struct {
	Platform Platform
	Resolver string
	Err      error
}

func (e *ResolutionFailedError) Error() string {
	msg := ErrResolutionFailed.Error() + " [" + e.Platform.String()
	if e.Resolver != "" {
		msg += " via " + e.Resolver
	}
	msg += "]"
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ResolutionFailedError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrResolutionFailed) hold.
func (e *ResolutionFailedError) Is(target error) bool {
	return target == ErrResolutionFailed
}

// NewResolutionFailedError creates a new ResolutionFailedError.
func NewResolutionFailedError(platform Platform, resolver string, err error) *ResolutionFailedError {
	return &ResolutionFailedError{
		Platform: platform,
		Resolver: resolver,
		Err:      err,
	}
}

// DownloadFailedError wraps an error with the platform and step that failed.
type DownloadFailedError struct {
	Platform Platform
	Op       string
	Err      error
}

func (e *DownloadFailedError) Error() string {
	msg := ErrDownloadFailed.Error() + " [" + e.Platform.String() + "]"
	if e.Op != "" {
		msg += " " + e.Op
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DownloadFailedError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrDownloadFailed) hold.
func (e *DownloadFailedError) Is(target error) bool {
	return target == ErrDownloadFailed
}

// NewDownloadFailedError creates a new DownloadFailedError.
func NewDownloadFailedError(platform Platform, op string, err error) *DownloadFailedError {
	return &DownloadFailedError{
		Platform: platform,
		Op:       op,
		Err:      err,
	}
}

// IsClientError reports whether err was caused by bad caller input
// and should not be retried.
func IsClientError(err error) bool {
	return errors.Is(err, ErrUnsupportedURL) || errors.Is(err, ErrEmptyURL)
}
