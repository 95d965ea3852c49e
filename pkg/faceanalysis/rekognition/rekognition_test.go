package rekognition

import (
	"errors"
	"image/color"
	"io"
	"testing"

	"FaceAgeAPI/pkg/faceanalysis"
	"FaceAgeAPI/pkg/utils"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/rekognition"
	"github.com/aws/aws-sdk-go/service/rekognition/rekognitioniface"
	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/context"
)

type fakeRekognition struct {
	rekognitioniface.RekognitionAPI
	out   *rekognition.DetectFacesOutput
	err   error
	input *rekognition.DetectFacesInput
}

func (f *fakeRekognition) DetectFacesWithContext(_ aws.Context, in *rekognition.DetectFacesInput, _ ...request.Option) (*rekognition.DetectFacesOutput, error) {
	f.input = in
	return f.out, f.err
}

func newAnalyzer(fake *fakeRekognition) *Analyzer {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewWithClient(fake, utils.New(), logger)
}

var opts = faceanalysis.Options{Actions: []string{faceanalysis.ActionAge}, EnforceDetection: true}

func TestAnalyze_MapsFaceDetails(t *testing.T) {
	fake := &fakeRekognition{out: &rekognition.DetectFacesOutput{
		FaceDetails: []*rekognition.FaceDetail{{
			AgeRange:    &rekognition.AgeRange{Low: aws.Int64(24), High: aws.Int64(30)},
			BoundingBox: &rekognition.BoundingBox{Left: aws.Float64(0.25), Top: aws.Float64(0.1), Width: aws.Float64(0.5), Height: aws.Float64(0.5)},
			Confidence:  aws.Float64(99.5),
		}},
	}}

	got, err := newAnalyzer(fake).Analyze(context.Background(), imaging.New(200, 100, color.White), opts)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, 27.0, *got[0].Age)
	assert.InDelta(t, 0.995, *got[0].FaceConfidence, 1e-9)
	assert.Equal(t, 50.0, *got[0].Region.X)
	assert.Equal(t, 10.0, *got[0].Region.Y)
	assert.Equal(t, 100.0, *got[0].Region.W)
	assert.Equal(t, 50.0, *got[0].Region.H)

	require.NotNil(t, fake.input)
	assert.Equal(t, []*string{aws.String(rekognition.AttributeAll)}, fake.input.Attributes)
	assert.NotEmpty(t, fake.input.Image.Bytes)
}

func TestAnalyze_NoFaces(t *testing.T) {
	fake := &fakeRekognition{out: &rekognition.DetectFacesOutput{}}

	_, err := newAnalyzer(fake).Analyze(context.Background(), imaging.New(10, 10, color.Black), opts)
	assert.ErrorIs(t, err, faceanalysis.ErrFaceNotDetected)

	relaxed := opts
	relaxed.EnforceDetection = false
	got, err := newAnalyzer(fake).Analyze(context.Background(), imaging.New(10, 10, color.Black), relaxed)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAnalyze_ClientError(t *testing.T) {
	fake := &fakeRekognition{err: errors.New("AccessDeniedException")}

	_, err := newAnalyzer(fake).Analyze(context.Background(), imaging.New(10, 10, color.Black), opts)
	require.Error(t, err)
	assert.False(t, faceanalysis.IsNoFace(err))
}

func TestRegionFromBox_ClampsToImage(t *testing.T) {
	r := regionFromBox(&rekognition.BoundingBox{
		Left: aws.Float64(-0.1), Top: aws.Float64(0.8), Width: aws.Float64(0.5), Height: aws.Float64(0.5),
	}, 100, 100)

	assert.Equal(t, 0.0, *r.X)
	assert.Equal(t, 80.0, *r.Y)
	assert.Equal(t, 50.0, *r.W)
	assert.Equal(t, 20.0, *r.H)
}
