package detectionService

import (
	"net/http"

	"FaceAgeAPI/internal/api/detection"
	"FaceAgeAPI/internal/settings"
	"FaceAgeAPI/pkg/faceanalysis"
	"FaceAgeAPI/pkg/utils"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type IDetectionService interface {
	Validate(src detection.ImageSource) error
	Acquire(ctx context.Context, src detection.ImageSource) ([]byte, error)
	Analyze(ctx context.Context, data []byte) (*detection.DetectResponse, error)
	Detect(ctx context.Context, src detection.ImageSource) (*detection.DetectResponse, error)
	Health() detection.HealthResponse
}

type detectionService struct {
	log        *logrus.Logger
	cfg        *settings.Config
	analyzer   faceanalysis.IAnalyzer
	utils      utils.IUtils
	httpClient *http.Client
}

func NewDetectionService(
	log *logrus.Logger,
	cfg *settings.Config,
	analyzer faceanalysis.IAnalyzer,
	utils utils.IUtils,
) IDetectionService {
	return &detectionService{
		log:      log,
		cfg:      cfg,
		analyzer: analyzer,
		utils:    utils,
		httpClient: &http.Client{
			Timeout: cfg.DownloadTimeout,
		},
	}
}

// Detect runs validate, acquire and analyze in order, stopping at the first
// failing stage.
func (s *detectionService) Detect(ctx context.Context, src detection.ImageSource) (*detection.DetectResponse, error) {
	if err := s.Validate(src); err != nil {
		return nil, err
	}

	data, err := s.Acquire(ctx, src)
	if err != nil {
		return nil, err
	}

	return s.Analyze(ctx, data)
}
