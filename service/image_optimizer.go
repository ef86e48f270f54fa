package service

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

// ImageProfile is a target size and JPEG quality
type ImageProfile struct {
	Name    string
	MaxDim  int
	Quality int
}

var (
	// ProfileUpload is applied to section images before they are posted to the site API
	ProfileUpload = ImageProfile{Name: "upload", MaxDim: 1600, Quality: 82}
	// ProfileThumb is used for product pictures embedded in the catalog brochure
	ProfileThumb = ImageProfile{Name: "thumb", MaxDim: 480, Quality: 70}
)

// OptimizeImage decodes imageData (JPEG, PNG, GIF, BMP, TIFF), shrinks it to
// fit within the profile's max dimension and re-encodes it as JPEG.
// Images that are already small enough are only re-encoded.
func OptimizeImage(imageData []byte, profile ImageProfile) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(imageData), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > profile.MaxDim || bounds.Dy() > profile.MaxDim {
		img = imaging.Fit(img, profile.MaxDim, profile.MaxDim, imaging.Lanczos)
		zap.S().Debugf("🔄 Resized image: %dx%d -> %dx%d", bounds.Dx(), bounds.Dy(), img.Bounds().Dx(), img.Bounds().Dy())
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(profile.Quality)); err != nil {
		return nil, fmt.Errorf("failed to encode to JPEG: %w", err)
	}

	zap.S().Debugf("✓ Image optimized: profile=%s, quality=%d, %d -> %d bytes", profile.Name, profile.Quality, len(imageData), buf.Len())
	return buf.Bytes(), nil
}

// ImageCache stores optimized images on disk, keyed by their source URL and profile
type ImageCache struct {
	dir string
}

// NewImageCache returns a cache rooted at dir. An empty dir disables caching.
func NewImageCache(dir string) *ImageCache {
	return &ImageCache{dir: dir}
}

func (c *ImageCache) path(source string, profile ImageProfile) string {
	sum := sha1.Sum([]byte(profile.Name + "|" + source))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:])+".jpg")
}

// Get returns the cached image for source, if present
func (c *ImageCache) Get(source string, profile ImageProfile) ([]byte, bool) {
	if c == nil || c.dir == "" {
		return nil, false
	}
	data, err := os.ReadFile(c.path(source, profile))
	if err != nil {
		return nil, false
	}
	return data, true
}

// Put stores data for source. Failures are logged, the cache is best effort.
func (c *ImageCache) Put(source string, profile ImageProfile, data []byte) {
	if c == nil || c.dir == "" {
		return
	}
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		zap.S().Warnf("⚠️  Failed to create image cache directory: %v", err)
		return
	}
	path := c.path(source, profile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		zap.S().Warnf("⚠️  Failed to write image cache %s: %v", path, err)
		return
	}
	zap.S().Debugf("✓ Image cached: %s", path)
}
