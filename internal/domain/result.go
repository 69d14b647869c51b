package domain

// AcquisitionResult describes the video asset produced by one acquisition.
// AssetURL is always set. LocalPath is set only when the bytes were written
// to disk, which is the case exactly when LocalFile is true.
type AcquisitionResult struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	SourceURL string   `json:"url"`
	Platform  Platform `json:"platform"`
	AssetURL  string   `json:"video_url"`
	LocalFile bool     `json:"local_file"`
	LocalPath string   `json:"output_path,omitempty"`
	Size      int64    `json:"size_bytes,omitempty"`
	Quality   string   `json:"quality,omitempty"`
	Container string   `json:"format,omitempty"`
}

// HasLocalFile reports whether the asset was downloaded to disk.
func (r *AcquisitionResult) HasLocalFile() bool {
	return r.LocalFile && r.LocalPath != ""
}
