package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	at := time.UnixMilli(1740830400000)

	assert.Equal(t, "cat_pic.png-1740830400000", ObjectKey("cat pic.png", at))
	assert.Equal(t, "upload-1740830400000", ObjectKey("  ", at))
	assert.Equal(t, "u-123-1740830400000", ObjectKey("u-123", at))
}

func TestSanitizeKey(t *testing.T) {
	tests := map[string]string{
		"photo.jpg":     "photo.jpg",
		"my photo.jpg":  "my_photo.jpg",
		"../etc/passwd": ".._etc_passwd",
		"\u00e9t\u00e9.png": "_t_.png",
		"":              "upload",
	}
	for in, want := range tests {
		assert.Equal(t, want, SanitizeKey(in), in)
	}
}

func TestPublicPrefix(t *testing.T) {
	assert.Equal(t, "http://cdn.test/storage/v1/object/public/taskimages/", PublicPrefix("http://cdn.test/", "taskimages"))
	assert.Equal(t, "http://cdn.test/storage/v1/object/public/taskimages/", PublicPrefix("http://cdn.test", "taskimages"))
}
