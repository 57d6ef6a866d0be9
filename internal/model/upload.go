package model

// UploadFormat is the declared format of an ingested browsing-history file.
type UploadFormat string

const (
	UploadFormatJSON UploadFormat = "json"
	UploadFormatCSV  UploadFormat = "csv"
)

// Upload is a user-supplied history file. Only its metadata is used, for
// labeling; the content is carried for a future parser and never scored.
type Upload struct {
	Name    string       `json:"name"`
	Format  UploadFormat `json:"format"`
	Size    int64        `json:"size"`
	Digest  string       `json:"digest"` // sha256 hex
	Content string       `json:"-"`
}
