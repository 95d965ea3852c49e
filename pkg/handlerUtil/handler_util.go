package handlerUtil

import (
	"errors"
	"net/http"

	"FaceAgeAPI/pkg/log"
	"FaceAgeAPI/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrPayloadTooLarge  = response.NewError(response.KindServing, "payload_too_large", http.StatusRequestEntityTooLarge, "Ukuran gambar melebihi batas maksimum.")
	ErrNotFound         = response.NewError(response.KindServing, "not_found", http.StatusNotFound, "Endpoint tidak ditemukan.")
	ErrMethodNotAllowed = response.NewError(response.KindServing, "method_not_allowed", http.StatusMethodNotAllowed, "Metode tidak diizinkan.")
	ErrInternal         = response.NewError(response.KindInternal, "internal_error", http.StatusInternalServerError, "Terjadi kesalahan pada server.")
)

type ErrorHandler struct {
	logger *logrus.Logger
}

func New(logger *logrus.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
	}
}

// Handle writes the failure envelope for err and logs it at the severity of
// its kind. Unrecognized errors never reach the client verbatim.
func (h *ErrorHandler) Handle(c *fiber.Ctx, requestID string, err error, path string, operation string) error {
	respErr := h.resolve(err)

	fields := log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"reason":     respErr.Reason,
		"code":       respErr.Code,
		"path":       path,
		"operation":  operation,
	}

	switch respErr.Kind {
	case response.KindInternal, response.KindDecode:
		if respErr.Code >= fiber.StatusInternalServerError {
			traceID := traceIDFor(requestID)
			fields["trace_id"] = traceID
			respErr = respErr.WithMeta(response.Meta{"trace_id": traceID})
		}
		h.logger.WithFields(fields).Error("Operation failed")
	case response.KindDetection:
		h.logger.WithFields(fields).Warn("No face detected")
	default:
		h.logger.WithFields(fields).Warn("Request rejected")
	}

	return c.Status(respErr.Code).JSON(respErr.Body())
}

func (h *ErrorHandler) resolve(err error) *response.Error {
	var respErr *response.Error
	if errors.As(err, &respErr) {
		return respErr
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		switch fiberErr.Code {
		case fiber.StatusRequestEntityTooLarge:
			return ErrPayloadTooLarge.Wrap(err)
		case fiber.StatusNotFound:
			return ErrNotFound.Wrap(err)
		case fiber.StatusMethodNotAllowed:
			return ErrMethodNotAllowed.Wrap(err)
		}
	}

	return ErrInternal.Wrap(err)
}

func traceIDFor(requestID string) string {
	if requestID != "" && requestID != "unknown" {
		return requestID
	}
	return uuid.NewString()
}

// FiberErrorHandler lets fiber render errors returned from middleware and
// routing with the same envelope.
func (h *ErrorHandler) FiberErrorHandler(c *fiber.Ctx, err error) error {
	requestID, _ := c.Locals("X-Request-ID").(string)
	if requestID == "" {
		requestID = "unknown"
	}
	return h.Handle(c, requestID, err, c.Path(), "fiber")
}

func (h *ErrorHandler) HandleSuccess(c *fiber.Ctx, statusCode int, data map[string]interface{}) error {
	return c.Status(statusCode).JSON(response.Success(data, response.DefaultSuccessMessage))
}
