package detectionService

import (
	"strings"

	"FaceAgeAPI/internal/api/detection"
	"FaceAgeAPI/pkg/response"
)

func (s *detectionService) Validate(src detection.ImageSource) error {
	meta := s.backendMeta()

	switch {
	case src.HasFile():
		if src.File.Filename == "" {
			return detection.ErrMissingFilename.WithMeta(meta)
		}
		if !s.utils.IsAllowedExtension(src.File.Filename, s.cfg.AllowedExtensions) {
			return detection.ErrInvalidFileType.
				WithMessage("Allowed file types are: " + strings.Join(s.cfg.AllowedExtensions, ", ")).
				WithMeta(meta)
		}
		return nil

	case src.HasURL():
		url := *src.URL
		if url == "" {
			return detection.ErrMissingURL.WithMeta(meta)
		}
		if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
			return detection.ErrInvalidURL.WithMeta(meta)
		}
		return nil
	}

	return detection.ErrMissingField.WithMeta(meta)
}

func (s *detectionService) backendMeta() response.Meta {
	return response.Meta{
		"timestamp":        response.Timestamp(),
		"detector_backend": s.cfg.DetectorBackend,
	}
}
