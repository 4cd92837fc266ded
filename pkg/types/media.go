package types

import "time"

// ProcessingStatus is the backend-tracked lifecycle state of a stored media
// file, independent of whether the byte transfer itself succeeded.
type ProcessingStatus string

const (
	ProcessingPending   ProcessingStatus = "pending"
	ProcessingActive    ProcessingStatus = "processing"
	ProcessingCompleted ProcessingStatus = "completed"
	ProcessingFailed    ProcessingStatus = "failed"
)

// MediaFile is the durable media record owned by the backend and mirrored
// client-side. It is created only by a successful upload completion and
// mutated by later attach/delete/reprocess operations, never by the upload
// pipeline directly.
type MediaFile struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Filename    string `json:"filename"`
	FileSize    int64  `json:"file_size"`
	ContentType string `json:"content_type"`
	StorageKey  string `json:"storage_key"`
	CdnURL      string `json:"cdn_url,omitempty"`

	ProcessingStatus ProcessingStatus `json:"processing_status"`

	Metadata *MediaMetadata `json:"metadata,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MediaMetadata holds optional technical details extracted by backend
// processing.
type MediaMetadata struct {
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
	Resolution      string  `json:"resolution,omitempty"`
	Codec           string  `json:"codec,omitempty"`
	Width           int     `json:"width,omitempty"`
	Height          int     `json:"height,omitempty"`
	BitrateKbps     int     `json:"bitrate_kbps,omitempty"`
	FrameRate       float64 `json:"frame_rate,omitempty"`
}

// MediaInfo is the auxiliary success payload a proxy upload may return when
// the proxy already registered the media record. When present, the completion
// call is redundant and skipped.
type MediaInfo struct {
	ID               string           `json:"id"`
	CdnURL           string           `json:"cdn_url,omitempty"`
	ProcessingStatus ProcessingStatus `json:"processing_status,omitempty"`
}
