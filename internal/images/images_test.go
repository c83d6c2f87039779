package images

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowedExtension(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{"photo.jpg", true},
		{"photo.jpeg", true},
		{"photo.png", true},
		{"photo.gif", true},
		{"PHOTO.JPG", true},
		{"photo.Png", true},
		{"photo.bmp", false},
		{"photo.svg", false},
		{"photo", false},
		{"photo.jpg.exe", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, AllowedExtension(tt.filename))
		})
	}
}

func TestStorageKey_KeepsExtension(t *testing.T) {
	key := storageKey("IMG_0042.JPG")
	assert.Contains(t, key, "campgrounds/")
	assert.Regexp(t, `\.jpg$`, key)
}
