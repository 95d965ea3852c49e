package detectionService

import (
	"errors"
	"math"

	"FaceAgeAPI/internal/api/detection"
	"FaceAgeAPI/internal/entity"
	contextPkg "FaceAgeAPI/pkg/context"
	"FaceAgeAPI/pkg/faceanalysis"
	"FaceAgeAPI/pkg/log"
	"FaceAgeAPI/pkg/response"

	"golang.org/x/net/context"
)

func (s *detectionService) Analyze(ctx context.Context, data []byte) (*detection.DetectResponse, error) {
	img, err := s.utils.DecodeImage(data)
	if err != nil {
		return nil, detection.ErrProcessing.
			WithMeta(response.Meta{"details": err.Error()}).
			Wrap(err)
	}

	s.log.WithFields(log.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"analyzer":   s.analyzer.Name(),
		"width":      img.Bounds().Dx(),
		"height":     img.Bounds().Dy(),
	}).Infof("Processing image with backend %s", s.cfg.DetectorBackend)

	detections, err := s.analyzer.Analyze(ctx, img, faceanalysis.Options{
		Actions:          []string{faceanalysis.ActionAge},
		DetectorBackend:  s.cfg.DetectorBackend,
		EnforceDetection: s.cfg.EnforceDetection,
		Silent:           true,
	})
	if err != nil {
		return nil, s.classify(ctx, err)
	}
	if len(detections) == 0 && s.cfg.EnforceDetection {
		return nil, s.classify(ctx, faceanalysis.ErrFaceNotDetected)
	}

	faces := make([]entity.FaceResult, 0, len(detections))
	for _, d := range detections {
		faces = append(faces, normalize(d))
	}

	return &detection.DetectResponse{
		FacesCount: len(faces),
		Faces:      faces,
		Meta: detection.DetectMeta{
			Timestamp:       response.Timestamp(),
			DetectorBackend: s.cfg.DetectorBackend,
		},
	}, nil
}

// classify maps an analyzer failure onto the response taxonomy.
func (s *detectionService) classify(ctx context.Context, err error) error {
	if faceanalysis.IsNoFace(err) {
		return detection.ErrNoFaceDetected.WithMeta(s.backendMeta()).Wrap(err)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return detection.ErrRequestTimeout.WithMeta(s.backendMeta()).Wrap(err)
	}

	return detection.ErrInternalServerError.Wrap(err)
}

func normalize(d faceanalysis.Detection) entity.FaceResult {
	var face entity.FaceResult

	if d.Region != nil {
		face.BBox = entity.BoundingBox{
			X: roundOrZero(d.Region.X),
			Y: roundOrZero(d.Region.Y),
			W: roundOrZero(d.Region.W),
			H: roundOrZero(d.Region.H),
		}
	}

	if d.Age != nil && !math.IsNaN(*d.Age) {
		age := int(math.Round(*d.Age))
		face.Age = &age
	}

	if d.FaceConfidence != nil && !math.IsNaN(*d.FaceConfidence) {
		confidence := *d.FaceConfidence
		face.Confidence = &confidence
	}

	return face
}

func roundOrZero(v *float64) int {
	if v == nil || math.IsNaN(*v) {
		return 0
	}
	return int(math.Round(*v))
}
