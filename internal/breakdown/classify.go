package breakdown

import (
	"net/url"
	"path"
	"strings"

	"github.com/harsight/harsight/internal/models"
)

var extensionTypes = map[string]models.ResourceType{
	".js":    models.ResourceScript,
	".mjs":   models.ResourceScript,
	".json":  models.ResourceScript,
	".css":   models.ResourceStylesheet,
	".png":   models.ResourceImage,
	".jpg":   models.ResourceImage,
	".jpeg":  models.ResourceImage,
	".gif":   models.ResourceImage,
	".webp":  models.ResourceImage,
	".svg":   models.ResourceImage,
	".ico":   models.ResourceImage,
	".avif":  models.ResourceImage,
	".woff":  models.ResourceFont,
	".woff2": models.ResourceFont,
	".ttf":   models.ResourceFont,
	".otf":   models.ResourceFont,
	".eot":   models.ResourceFont,
	".html":  models.ResourceDocument,
	".htm":   models.ResourceDocument,
	".mp4":   models.ResourceMedia,
	".webm":  models.ResourceMedia,
	".mp3":   models.ResourceMedia,
	".ogg":   models.ResourceMedia,
	".wav":   models.ResourceMedia,
	".mov":   models.ResourceMedia,
}

var hintTypes = map[string]models.ResourceType{
	"document":   models.ResourceDocument,
	"script":     models.ResourceScript,
	"stylesheet": models.ResourceStylesheet,
	"image":      models.ResourceImage,
	"font":       models.ResourceFont,
	"media":      models.ResourceMedia,
	"xhr":        models.ResourceXHR,
	"fetch":      models.ResourceXHR,
}

// Classify resolves an entry's resource type. The response MIME type is
// authoritative; the URL extension and the capture tool's type hint
// only fill in when the MIME type is missing or too generic to decide.
func Classify(rawURL, mimeType, hint string) models.ResourceType {
	if t, ok := classifyMime(mimeType); ok {
		return t
	}
	if t, ok := classifyExtension(rawURL); ok {
		return t
	}
	if t, ok := hintTypes[strings.ToLower(hint)]; ok {
		return t
	}
	return models.ResourceOther
}

func classifyMime(mimeType string) (models.ResourceType, bool) {
	mime := strings.ToLower(mimeType)
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	mime = strings.TrimSpace(mime)

	switch {
	case mime == "":
		return "", false
	case strings.Contains(mime, "javascript"), strings.Contains(mime, "ecmascript"),
		strings.Contains(mime, "json"):
		return models.ResourceScript, true
	case strings.Contains(mime, "css"):
		return models.ResourceStylesheet, true
	case strings.HasPrefix(mime, "image/"):
		return models.ResourceImage, true
	case strings.Contains(mime, "font"):
		return models.ResourceFont, true
	case strings.Contains(mime, "html"):
		return models.ResourceDocument, true
	case strings.HasPrefix(mime, "video/"), strings.HasPrefix(mime, "audio/"):
		return models.ResourceMedia, true
	}
	return "", false
}

func classifyExtension(rawURL string) (models.ResourceType, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	ext := strings.ToLower(path.Ext(u.Path))
	t, ok := extensionTypes[ext]
	return t, ok
}
