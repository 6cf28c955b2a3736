package domain

import "time"

// Object is a stored upload.
type Object struct {
	Bucket      string
	Key         string
	ContentType string
	Data        []byte
	CreatedAt   time.Time
}

// Upload is a file handed to a write path by the presentation layer.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}
