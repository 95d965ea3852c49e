package deepface

import (
	stdjson "encoding/json"
	"image/color"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"FaceAgeAPI/pkg/faceanalysis"
	"FaceAgeAPI/pkg/utils"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/context"
)

func newTestClient(url string) *Client {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return New(url, 0, utils.New(), logger)
}

var ageOnly = faceanalysis.Options{
	Actions:          []string{faceanalysis.ActionAge},
	DetectorBackend:  "retinaface",
	EnforceDetection: true,
	Silent:           true,
}

func TestClient_Analyze_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/analyze", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req AnalyzeRequest
		require.NoError(t, stdjson.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"age"}, req.Actions)
		assert.Equal(t, "retinaface", req.DetectorBackend)
		assert.True(t, req.EnforceDetection)
		assert.True(t, req.Silent)
		assert.True(t, strings.HasPrefix(req.Img, "data:image/jpeg;base64,"))

		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{"results":[{
			"age": 31,
			"face_confidence": 0.97,
			"region": {"x": 10, "y": 12, "w": 40, "h": 44, "left_eye": [20, 25], "right_eye": null},
			"dominant_emotion": "happy",
			"emotion": {"happy": 99.1}
		}]}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL + "/")
	got, err := client.Analyze(context.Background(), imaging.New(64, 64, color.White), ageOnly)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, 31.0, *got[0].Age)
	assert.Equal(t, 0.97, *got[0].FaceConfidence)
	assert.Equal(t, 10.0, *got[0].Region.X)
	assert.Equal(t, 44.0, *got[0].Region.H)
}

func TestClient_Analyze_NoFace(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error": "Exception while analyzing: Face could not be detected in numpy array.Please confirm that the picture is a face photo or consider to set enforce_detection param to False."}`)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Analyze(context.Background(), imaging.New(8, 8, color.Black), ageOnly)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.True(t, faceanalysis.IsNoFace(err))
}

func TestClient_Analyze_ServerErrorWithPlainBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "upstream exploded")
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Analyze(context.Background(), imaging.New(8, 8, color.Black), ageOnly)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream exploded")
	assert.False(t, faceanalysis.IsNoFace(err))
}

func TestClient_Analyze_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestClient(url).Analyze(context.Background(), imaging.New(8, 8, color.Black), ageOnly)
	assert.Error(t, err)
}

func TestClient_Name(t *testing.T) {
	assert.Equal(t, "deepface", newTestClient("http://localhost").Name())
}
