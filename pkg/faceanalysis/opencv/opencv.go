//go:build opencv
// +build opencv

package opencv

import (
	"fmt"
	"image"
	"os"
	"sync"

	"FaceAgeAPI/pkg/faceanalysis"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
	"golang.org/x/net/context"
)

const (
	// SSDThreshold is the minimum confidence for res10 SSD face detections.
	SSDThreshold = 0.5

	ageInputSize = 227
	ssdInputSize = 300
)

var (
	ageMean = gocv.NewScalar(78.4263377603, 87.7689143744, 114.895847746, 0)
	ssdMean = gocv.NewScalar(104, 177, 123, 0)
)

// Analyzer runs detection and age estimation in-process with OpenCV. The
// loaded networks are not safe for concurrent Forward calls, so every
// analysis holds mu.
type Analyzer struct {
	mu       sync.Mutex
	cascade  gocv.CascadeClassifier
	faceNet  gocv.Net
	ageNet   gocv.Net
	hasCasc  bool
	hasSSD   bool
	log      *logrus.Logger
	backends []string
}

func Available() bool {
	return true
}

func New(paths Paths, logger *logrus.Logger) (*Analyzer, error) {
	a := &Analyzer{log: logger}

	if err := requireFile(paths.AgeModel); err != nil {
		return nil, fmt.Errorf("age model: %w", err)
	}
	if err := requireFile(paths.AgeConfig); err != nil {
		return nil, fmt.Errorf("age config: %w", err)
	}
	a.ageNet = gocv.ReadNet(paths.AgeModel, paths.AgeConfig)
	if a.ageNet.Empty() {
		return nil, fmt.Errorf("failed to load age network")
	}
	if err := prefer(&a.ageNet); err != nil {
		return nil, err
	}

	if paths.Cascade != "" {
		a.cascade = gocv.NewCascadeClassifier()
		if !a.cascade.Load(paths.Cascade) {
			return nil, fmt.Errorf("failed to load cascade %s", paths.Cascade)
		}
		a.hasCasc = true
		a.backends = append(a.backends, BackendCascade)
	}

	if paths.FaceModel != "" {
		if err := requireFile(paths.FaceConfig); err != nil {
			return nil, fmt.Errorf("face config: %w", err)
		}
		a.faceNet = gocv.ReadNet(paths.FaceModel, paths.FaceConfig)
		if a.faceNet.Empty() {
			return nil, fmt.Errorf("failed to load face network")
		}
		if err := prefer(&a.faceNet); err != nil {
			return nil, err
		}
		a.hasSSD = true
		a.backends = append(a.backends, BackendSSD)
	}

	if len(a.backends) == 0 {
		return nil, fmt.Errorf("no face detector configured: set a cascade or an SSD model")
	}

	logger.WithField("backends", a.backends).Info("OpenCV analyzer initialized")
	return a, nil
}

func (a *Analyzer) Name() string {
	return Name
}

func (a *Analyzer) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.hasCasc {
		a.cascade.Close()
	}
	if a.hasSSD {
		a.faceNet.Close()
	}
	return a.ageNet.Close()
}

func (a *Analyzer) Analyze(ctx context.Context, img image.Image, opts faceanalysis.Options) ([]faceanalysis.Detection, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("convert image to mat: %w", err)
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, fmt.Errorf("decoded image is empty")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var faces []face
	switch opts.DetectorBackend {
	case BackendCascade:
		if !a.hasCasc {
			return nil, fmt.Errorf("detector backend %q is not loaded", opts.DetectorBackend)
		}
		faces, err = a.detectCascade(mat)
	case BackendSSD:
		if !a.hasSSD {
			return nil, fmt.Errorf("detector backend %q is not loaded", opts.DetectorBackend)
		}
		faces = a.detectSSD(mat)
	default:
		return nil, fmt.Errorf("detector backend %q is not supported by opencv analyzer", opts.DetectorBackend)
	}
	if err != nil {
		return nil, err
	}

	if len(faces) == 0 {
		if opts.EnforceDetection {
			return nil, faceanalysis.ErrFaceNotDetected
		}
		return []faceanalysis.Detection{}, nil
	}

	detections := make([]faceanalysis.Detection, 0, len(faces))
	for _, f := range faces {
		d := faceanalysis.Detection{
			Region:         faceanalysis.RegionFromRect(f.rect),
			FaceConfidence: f.confidence,
		}
		if opts.Wants(faceanalysis.ActionAge) {
			if age, ok := a.estimateAge(mat, f.rect); ok {
				d.Age = faceanalysis.Float(age)
			}
		}
		detections = append(detections, d)
	}

	if !opts.Silent {
		a.log.WithFields(logrus.Fields{
			"backend": opts.DetectorBackend,
			"faces":   len(detections),
		}).Debug("OpenCV analysis finished")
	}

	return detections, nil
}

type face struct {
	rect       image.Rectangle
	confidence *float64
}

func (a *Analyzer) detectCascade(mat gocv.Mat) ([]face, error) {
	gray := gocv.NewMat()
	defer gray.Close()
	if err := gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray); err != nil {
		return nil, fmt.Errorf("failed to convert image to grayscale: %w", err)
	}

	bounds := image.Rect(0, 0, mat.Cols(), mat.Rows())
	var faces []face
	for _, r := range a.cascade.DetectMultiScale(gray) {
		r = r.Intersect(bounds)
		if r.Empty() {
			continue
		}
		faces = append(faces, face{rect: r})
	}
	return faces, nil
}

// detectSSD reads rows of [batch_id, class_id, confidence, x1, y1, x2, y2].
func (a *Analyzer) detectSSD(mat gocv.Mat) []face {
	blob := gocv.BlobFromImage(mat, 1.0, image.Pt(ssdInputSize, ssdInputSize), ssdMean, false, false)
	defer blob.Close()

	a.faceNet.SetInput(blob, "")
	output := a.faceNet.Forward("")
	defer output.Close()

	rows := output.Reshape(1, output.Total()/7)
	defer rows.Close()

	cols := float32(mat.Cols())
	height := float32(mat.Rows())
	bounds := image.Rect(0, 0, mat.Cols(), mat.Rows())

	var faces []face
	for i := 0; i < rows.Rows(); i++ {
		confidence := rows.GetFloatAt(i, 2)
		if confidence < SSDThreshold {
			continue
		}

		r := image.Rect(
			int(rows.GetFloatAt(i, 3)*cols),
			int(rows.GetFloatAt(i, 4)*height),
			int(rows.GetFloatAt(i, 5)*cols),
			int(rows.GetFloatAt(i, 6)*height),
		).Intersect(bounds)
		if r.Empty() {
			continue
		}

		faces = append(faces, face{rect: r, confidence: faceanalysis.Float(float64(confidence))})
	}
	return faces
}

func (a *Analyzer) estimateAge(mat gocv.Mat, rect image.Rectangle) (float64, bool) {
	region := mat.Region(rect)
	defer region.Close()

	blob := gocv.BlobFromImage(region, 1.0, image.Pt(ageInputSize, ageInputSize), ageMean, false, false)
	defer blob.Close()

	a.ageNet.SetInput(blob, "")
	output := a.ageNet.Forward("")
	defer output.Close()

	probs := make([]float32, output.Cols())
	for i := range probs {
		probs[i] = output.GetFloatAt(0, i)
	}

	return faceanalysis.ExpectedAge(probs)
}

func prefer(net *gocv.Net) error {
	errBackend := net.SetPreferableBackend(gocv.NetBackendDefault)
	errTarget := net.SetPreferableTarget(gocv.NetTargetCPU)
	if errBackend != nil || errTarget != nil {
		return fmt.Errorf("failed to set preferable backend or target")
	}
	return nil
}

func requireFile(p string) error {
	if p == "" {
		return fmt.Errorf("path not set")
	}
	if _, err := os.Stat(p); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", p)
	}
	return nil
}
