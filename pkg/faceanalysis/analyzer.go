// Package faceanalysis is the boundary to the external face detection and
// attribute estimation backends.
package faceanalysis

import (
	"errors"
	"image"
	"math"
	"strings"

	"golang.org/x/net/context"
)

const ActionAge = "age"

// ErrFaceNotDetected is returned when enforcement is on and the backend found
// no face.
var ErrFaceNotDetected = errors.New("Face could not be detected. Please confirm that the picture is a face photo or consider to set enforce_detection param to False.")

// noFaceMarkers are matched against backend failure text when the backend does
// not hand back a structured error. Depends on upstream wording.
var noFaceMarkers = []string{
	"No face detected",
	"Face could not be detected",
}

type Options struct {
	Actions          []string
	DetectorBackend  string
	EnforceDetection bool
	Silent           bool
}

func (o Options) Wants(action string) bool {
	for _, a := range o.Actions {
		if a == action {
			return true
		}
	}
	return false
}

type Region struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
	W *float64 `json:"w"`
	H *float64 `json:"h"`
}

// Detection is one face as reported by a backend. Any field may be missing.
type Detection struct {
	Region         *Region  `json:"region"`
	Age            *float64 `json:"age"`
	FaceConfidence *float64 `json:"face_confidence"`
}

type IAnalyzer interface {
	Analyze(ctx context.Context, img image.Image, opts Options) ([]Detection, error)
	Name() string
}

func IsNoFace(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrFaceNotDetected) {
		return true
	}

	msg := err.Error()
	for _, marker := range noFaceMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

func Float(v float64) *float64 {
	return &v
}

func RegionFromRect(r image.Rectangle) *Region {
	return &Region{
		X: Float(float64(r.Min.X)),
		Y: Float(float64(r.Min.Y)),
		W: Float(float64(r.Dx())),
		H: Float(float64(r.Dy())),
	}
}

// ageBucketMidpoints follows the 8 output classes of the Levi-Hassner age net.
var ageBucketMidpoints = []float64{1, 5, 10, 17.5, 28.5, 40.5, 50.5, 80}

// ExpectedAge weights each age bucket midpoint by its probability.
func ExpectedAge(probs []float32) (float64, bool) {
	if len(probs) != len(ageBucketMidpoints) {
		return 0, false
	}

	var sum, weighted float64
	for i, p := range probs {
		if p < 0 || math.IsNaN(float64(p)) {
			return 0, false
		}
		sum += float64(p)
		weighted += float64(p) * ageBucketMidpoints[i]
	}
	if sum == 0 {
		return 0, false
	}

	return weighted / sum, true
}
