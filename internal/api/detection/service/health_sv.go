package detectionService

import (
	"time"

	"FaceAgeAPI/internal/api/detection"
	"FaceAgeAPI/internal/settings"
	"FaceAgeAPI/pkg/response"
)

func (s *detectionService) Health() detection.HealthResponse {
	return detection.HealthResponse{
		Service: settings.ServiceName,
		Version: settings.ServiceVersion,
		Time:    time.Now().Format(response.TimestampFormat),
	}
}
