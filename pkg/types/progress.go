package types

// UploadStatus represents the status of an upload attempt
type UploadStatus string

const (
	UploadPending    UploadStatus = "pending"
	UploadUploading  UploadStatus = "uploading"
	UploadProcessing UploadStatus = "processing"
	UploadCompleted  UploadStatus = "completed"
	UploadFailed     UploadStatus = "failed"
)

// Terminal returns true when no further status change can occur.
func (s UploadStatus) Terminal() bool {
	return s == UploadCompleted || s == UploadFailed
}

// UploadProgress is recomputed continuously during a transfer. Percent is
// monotonically non-decreasing within one attempt.
type UploadProgress struct {
	Percent int          `json:"upload_progress"`
	Status  UploadStatus `json:"status"`

	// Optional estimates, zero when the transport cannot provide them.
	ETASeconds     int64 `json:"eta_seconds,omitempty"`
	BytesPerSecond int64 `json:"bytes_per_second,omitempty"`
}
