// Package media holds file-type detection shared by the image and video
// conversion pipelines.
package media

import (
	"mime"
	"path/filepath"
	"strings"
)

// Kind classifies a user-selected file for the upload pipeline.
type Kind int

const (
	KindUnknown Kind = iota
	KindImage
	KindVideo
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindVideo:
		return "video"
	default:
		return "unknown"
	}
}

var imageExtensions = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {},
	".bmp": {}, ".tif": {}, ".tiff": {}, ".heic": {}, ".heif": {},
}

var videoExtensions = map[string]struct{}{
	".mp4": {}, ".webm": {}, ".mov": {}, ".avi": {}, ".mkv": {},
	".wmv": {}, ".flv": {}, ".3gp": {}, ".mpg": {}, ".mpeg": {}, ".m2ts": {},
}

// DetectKind classifies a file by extension and registered MIME type.
func DetectKind(path string) Kind {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := imageExtensions[ext]; ok {
		return KindImage
	}
	if _, ok := videoExtensions[ext]; ok {
		return KindVideo
	}
	switch {
	case strings.HasPrefix(MIMEType(path), "image/"):
		return KindImage
	case strings.HasPrefix(MIMEType(path), "video/"):
		return KindVideo
	default:
		return KindUnknown
	}
}

// MIMEType returns the MIME type inferred from the file extension, or an
// empty string when unknown.
func MIMEType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	case ".mov":
		return "video/quicktime"
	case ".mkv":
		return "video/x-matroska"
	case ".wmv":
		return "video/x-ms-wmv"
	case ".flv":
		return "video/x-flv"
	case ".3gp":
		return "video/3gpp"
	case ".m2ts":
		return "video/mp2t"
	}
	mediaType := mime.TypeByExtension(ext)
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = strings.TrimSpace(mediaType[:i])
	}
	return mediaType
}

// IsHEIC reports whether the file looks like an HEIC/HEIF capture, by MIME
// type or filename suffix.
func IsHEIC(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".heic", ".heif":
		return true
	}
	switch MIMEType(path) {
	case "image/heic", "image/heif":
		return true
	}
	return false
}
