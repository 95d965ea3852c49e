package detection

import (
	"mime/multipart"

	"FaceAgeAPI/internal/entity"
)

// ImageSource is what the client sent in the "image" field: an uploaded
// file, a URL string, or nothing. When both are set the file wins.
type ImageSource struct {
	File *multipart.FileHeader
	URL  *string
}

func (s ImageSource) HasFile() bool {
	return s.File != nil
}

func (s ImageSource) HasURL() bool {
	return s.URL != nil
}

type DetectMeta struct {
	Timestamp       string `json:"timestamp"`
	DetectorBackend string `json:"detector_backend"`
}

type DetectResponse struct {
	FacesCount int                 `json:"faces_count"`
	Faces      []entity.FaceResult `json:"faces"`
	Meta       DetectMeta          `json:"meta"`
}

func (r *DetectResponse) Payload() map[string]interface{} {
	return map[string]interface{}{
		"faces_count": r.FacesCount,
		"faces":       r.Faces,
		"meta":        r.Meta,
	}
}

type HealthResponse struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Time    string `json:"time"`
}

func (r HealthResponse) Payload() map[string]interface{} {
	return map[string]interface{}{
		"service": r.Service,
		"version": r.Version,
		"time":    r.Time,
	}
}
