// Package rekognition runs face analysis through AWS Rekognition DetectFaces.
package rekognition

import (
	"fmt"
	"image"
	"math"

	"FaceAgeAPI/pkg/faceanalysis"
	"FaceAgeAPI/pkg/utils"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/rekognition"
	"github.com/aws/aws-sdk-go/service/rekognition/rekognitioniface"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

const Name = "rekognition"

type Credentials struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

type Analyzer struct {
	client rekognitioniface.RekognitionAPI
	utils  utils.IUtils
	log    *logrus.Logger
}

func New(creds Credentials, u utils.IUtils, logger *logrus.Logger) (*Analyzer, error) {
	cfg := &aws.Config{Region: aws.String(creds.Region)}
	if creds.AccessKeyID != "" {
		cfg.Credentials = credentials.NewStaticCredentials(creds.AccessKeyID, creds.SecretAccessKey, "")
	}

	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("create aws session: %w", err)
	}

	return NewWithClient(rekognition.New(sess), u, logger), nil
}

func NewWithClient(client rekognitioniface.RekognitionAPI, u utils.IUtils, logger *logrus.Logger) *Analyzer {
	return &Analyzer{client: client, utils: u, log: logger}
}

func (a *Analyzer) Name() string {
	return Name
}

// Analyze ignores opts.DetectorBackend; Rekognition has a single detector.
func (a *Analyzer) Analyze(ctx context.Context, img image.Image, opts faceanalysis.Options) ([]faceanalysis.Detection, error) {
	encoded, err := a.utils.EncodeJPEG(img)
	if err != nil {
		return nil, fmt.Errorf("encode image for rekognition: %w", err)
	}

	input := &rekognition.DetectFacesInput{
		Image: &rekognition.Image{Bytes: encoded},
	}
	if opts.Wants(faceanalysis.ActionAge) {
		input.Attributes = []*string{aws.String(rekognition.AttributeAll)}
	}

	out, err := a.client.DetectFacesWithContext(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("rekognition detect faces: %w", err)
	}

	if len(out.FaceDetails) == 0 {
		if opts.EnforceDetection {
			return nil, faceanalysis.ErrFaceNotDetected
		}
		return []faceanalysis.Detection{}, nil
	}

	bounds := img.Bounds()
	detections := make([]faceanalysis.Detection, 0, len(out.FaceDetails))
	for _, fd := range out.FaceDetails {
		d := faceanalysis.Detection{}

		if fd.BoundingBox != nil {
			d.Region = regionFromBox(fd.BoundingBox, bounds.Dx(), bounds.Dy())
		}
		if fd.AgeRange != nil && fd.AgeRange.Low != nil && fd.AgeRange.High != nil && opts.Wants(faceanalysis.ActionAge) {
			d.Age = faceanalysis.Float(float64(*fd.AgeRange.Low+*fd.AgeRange.High) / 2)
		}
		if fd.Confidence != nil {
			d.FaceConfidence = faceanalysis.Float(*fd.Confidence / 100)
		}

		detections = append(detections, d)
	}

	if !opts.Silent {
		a.log.WithField("faces", len(detections)).Debug("Rekognition returned faces")
	}

	return detections, nil
}

// regionFromBox converts Rekognition's ratio box into pixels, clamped to the
// image.
func regionFromBox(box *rekognition.BoundingBox, width, height int) *faceanalysis.Region {
	left := clampRatio(aws.Float64Value(box.Left))
	top := clampRatio(aws.Float64Value(box.Top))
	w := clampRatio(aws.Float64Value(box.Width))
	h := clampRatio(aws.Float64Value(box.Height))

	x0 := math.Round(left * float64(width))
	y0 := math.Round(top * float64(height))
	x1 := math.Min(math.Round((left+w)*float64(width)), float64(width))
	y1 := math.Min(math.Round((top+h)*float64(height)), float64(height))

	return &faceanalysis.Region{
		X: faceanalysis.Float(x0),
		Y: faceanalysis.Float(y0),
		W: faceanalysis.Float(x1 - x0),
		H: faceanalysis.Float(y1 - y0),
	}
}

func clampRatio(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
