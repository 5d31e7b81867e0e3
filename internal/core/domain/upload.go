package domain

import "time"

// MaxUploadBytes is the default ceiling for a single uploaded image.
const MaxUploadBytes int64 = 5 << 20

// AllowedImageTypes are the MIME types accepted for uploads.
var AllowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// Upload describes a stored image.
type Upload struct {
	ID          string
	Filename    string
	ContentType string
	Size        int64
	UploadedAt  time.Time
}
