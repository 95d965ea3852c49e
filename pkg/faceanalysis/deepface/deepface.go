// Package deepface is a client for the DeepFace REST API (POST /analyze).
package deepface

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"
	"time"

	"FaceAgeAPI/pkg/faceanalysis"
	"FaceAgeAPI/pkg/utils"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const Name = "deepface"

type AnalyzeRequest struct {
	Img              string   `json:"img"`
	Actions          []string `json:"actions"`
	DetectorBackend  string   `json:"detector_backend"`
	EnforceDetection bool     `json:"enforce_detection"`
	Silent           bool     `json:"silent"`
}

type AnalyzeResponse struct {
	Results []faceanalysis.Detection `json:"results"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// APIError carries the text the DeepFace server reported for a failed call.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("deepface api returned %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	utils      utils.IUtils
	log        *logrus.Logger
}

// New builds a client. A zero timeout leaves the call unbounded; callers
// bound it through the context instead.
func New(baseURL string, timeout time.Duration, u utils.IUtils, logger *logrus.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		utils:      u,
		log:        logger,
	}
}

func (c *Client) Name() string {
	return Name
}

func (c *Client) Analyze(ctx context.Context, img image.Image, opts faceanalysis.Options) ([]faceanalysis.Detection, error) {
	encoded, err := c.utils.EncodeJPEG(img)
	if err != nil {
		return nil, fmt.Errorf("encode image for deepface: %w", err)
	}

	payload, err := json.Marshal(AnalyzeRequest{
		Img:              "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(encoded),
		Actions:          opts.Actions,
		DetectorBackend:  opts.DetectorBackend,
		EnforceDetection: opts.EnforceDetection,
		Silent:           opts.Silent,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal deepface request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build deepface request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.log.WithFields(logrus.Fields{
		"detector_backend":  opts.DetectorBackend,
		"enforce_detection": opts.EnforceDetection,
		"image_bytes":       len(encoded),
	}).Debug("Sending image to deepface")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("deepface request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read deepface response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error == "" {
			errResp.Error = strings.TrimSpace(string(body))
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
	}

	var result AnalyzeResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode deepface response: %w", err)
	}

	return result.Results, nil
}
