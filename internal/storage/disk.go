package storage

// DiskUsage describes the filesystem holding the output directory.
type DiskUsage struct {
	TotalBytes  int64   `json:"total_bytes"`
	FreeBytes   int64   `json:"free_bytes"`
	UsedBytes   int64   `json:"used_bytes"`
	UsedPercent float64 `json:"used_percent"`
}

// DiskUsage reports usage of the filesystem holding the output directory.
// It returns zeros when the directory does not exist yet.
func (s *FileStore) DiskUsage() DiskUsage {
	total, free := diskSpace(s.dir)
	u := DiskUsage{TotalBytes: total, FreeBytes: free}
	if total > 0 {
		u.UsedBytes = total - free
		u.UsedPercent = float64(u.UsedBytes) / float64(total) * 100
	}
	return u
}
