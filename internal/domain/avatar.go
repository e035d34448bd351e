package domain

import "time"

// AvatarObject es un archivo subido al bucket de avatares.
type AvatarObject struct {
	Path        string    `json:"name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	Data        []byte    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}
