package handlerUtil

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"FaceAgeAPI/pkg/response"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, requestID string, err error) (int, map[string]interface{}, *test.Hook) {
	t.Helper()

	logger, hook := test.NewNullLogger()
	h := New(logger)

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return h.Handle(c, requestID, err, c.Path(), "test")
	})

	resp, testErr := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, testErr)

	raw, readErr := io.ReadAll(resp.Body)
	require.NoError(t, readErr)

	var body map[string]interface{}
	require.NoError(t, jsoniter.Unmarshal(raw, &body))
	return resp.StatusCode, body, hook
}

func TestHandle_TypedError(t *testing.T) {
	noFace := response.NewError(response.KindDetection, "no_face_detected", http.StatusUnprocessableEntity, "Tidak ada wajah terdeteksi pada foto.")

	status, body, hook := render(t, "req-1", noFace)

	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "no_face_detected", body["reason"])
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "req-1", hook.LastEntry().Data["request_id"])
}

func TestHandle_UnknownErrorIsHidden(t *testing.T) {
	status, body, hook := render(t, "req-2", errors.New("tensorflow exploded at 0xdeadbeef"))

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal_error", body["reason"])
	assert.Equal(t, ErrInternal.Message, body["message"])

	meta := body["meta"].(map[string]interface{})
	assert.Equal(t, "req-2", meta["trace_id"])
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestHandle_TraceIDWithoutRequestID(t *testing.T) {
	_, body, _ := render(t, "unknown", errors.New("boom"))

	meta := body["meta"].(map[string]interface{})
	assert.Len(t, meta["trace_id"], 36)
}

func TestResolve_FiberErrors(t *testing.T) {
	h := New(logrus.New())

	cases := map[int]string{
		fiber.StatusRequestEntityTooLarge: "payload_too_large",
		fiber.StatusNotFound:              "not_found",
		fiber.StatusMethodNotAllowed:      "method_not_allowed",
		fiber.StatusBadGateway:            "internal_error",
	}

	for code, reason := range cases {
		assert.Equal(t, reason, h.resolve(fiber.NewError(code)).Reason, "code %d", code)
	}
}
