package response

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t *testing.T) {
	t.Helper()
	prev := now
	now = func() time.Time { return time.Date(2026, 10, 18, 9, 30, 0, 123456000, time.Local) }
	t.Cleanup(func() { now = prev })
}

func TestSuccess_MergesPayloadAtTopLevel(t *testing.T) {
	body := Success(map[string]interface{}{
		"faces_count": 1,
		"meta":        Meta{"detector_backend": "opencv"},
	}, "")

	assert.Equal(t, StatusSuccess, body["status"])
	assert.Equal(t, DefaultSuccessMessage, body["message"])
	assert.Equal(t, 1, body["faces_count"])
	assert.NotContains(t, body, "reason")
}

func TestFailed_InjectsTimestamp(t *testing.T) {
	fixedClock(t)

	body := Failed("missing_field", "Field 'image' (file or valid URL) is required.", nil)

	assert.Equal(t, StatusFailed, body["status"])
	assert.Equal(t, "missing_field", body["reason"])
	meta := body["meta"].(Meta)
	assert.Equal(t, "2026-10-18T09:30:00.123456", meta["timestamp"])
}

func TestFailed_KeepsCallerTimestamp(t *testing.T) {
	meta := Meta{"timestamp": "caller", "detector_backend": "ssd"}

	body := Failed("no_face_detected", "x", meta)

	got := body["meta"].(Meta)
	assert.Equal(t, "caller", got["timestamp"])
	assert.Equal(t, "ssd", got["detector_backend"])
	assert.Len(t, meta, 2, "caller meta must not be mutated")
}

func TestError_IsMatchesOnReason(t *testing.T) {
	base := NewError(KindAcquisition, "download_failed", http.StatusBadRequest, "download failed")
	cause := errors.New("dial tcp: connection refused")

	err := fmt.Errorf("acquire: %w", base.WithMessage("other").Wrap(cause))

	assert.ErrorIs(t, err, base)
	assert.ErrorIs(t, err, cause)

	var respErr *Error
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, "other", respErr.Message)
	assert.Equal(t, "download failed", base.Message, "template must stay untouched")
}

func TestError_WithMetaCopies(t *testing.T) {
	base := NewError(KindDecode, "processing_error", http.StatusBadRequest, "x")

	a := base.WithMeta(Meta{"details": "bad header"})
	b := a.WithMeta(Meta{"extra": true})

	assert.Nil(t, base.Meta)
	assert.Len(t, a.Meta, 1)
	assert.Len(t, b.Meta, 2)
	assert.Equal(t, "bad header", b.Body()["meta"].(Meta)["details"])
}
