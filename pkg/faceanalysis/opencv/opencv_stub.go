//go:build !opencv
// +build !opencv

package opencv

import (
	"errors"
	"image"

	"FaceAgeAPI/pkg/faceanalysis"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

var ErrUnavailable = errors.New("opencv analyzer unavailable: rebuild with -tags opencv")

type Analyzer struct{}

func Available() bool {
	return false
}

func New(_ Paths, _ *logrus.Logger) (*Analyzer, error) {
	return nil, ErrUnavailable
}

func (a *Analyzer) Name() string {
	return Name
}

func (a *Analyzer) Close() error {
	return nil
}

func (a *Analyzer) Analyze(_ context.Context, _ image.Image, _ faceanalysis.Options) ([]faceanalysis.Detection, error) {
	return nil, ErrUnavailable
}
