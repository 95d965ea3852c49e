package detectionHandler

import (
	"bytes"
	"mime"
	"mime/multipart"
	"strings"

	"FaceAgeAPI/internal/api/detection"
	contextPkg "FaceAgeAPI/pkg/context"
	"FaceAgeAPI/pkg/handlerUtil"
	"FaceAgeAPI/pkg/log"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

const imageField = "image"

func (h *DetectionHandler) Detect(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)

	c := contextPkg.WithRequestID(context.Background(), requestID)
	if h.cfg.AnalyzeTimeout > 0 {
		var cancel context.CancelFunc
		c, cancel = context.WithTimeout(c, h.cfg.AnalyzeTimeout)
		defer cancel()
	}

	errHandler := handlerUtil.New(h.log)

	src := h.imageSource(ctx)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
		"has_file":   src.HasFile(),
		"has_url":    src.HasURL(),
	}).Debug("Processing detect request")

	res, err := h.detectionService.Detect(c, src)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "detect")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, res.Payload())
}

// imageSource reads the "image" field from a multipart or urlencoded body.
// A part carrying a file wins over a text value of the same name.
func (h *DetectionHandler) imageSource(ctx *fiber.Ctx) detection.ImageSource {
	var src detection.ImageSource

	contentType := strings.ToLower(ctx.Get(fiber.HeaderContentType))

	if strings.HasPrefix(contentType, fiber.MIMEMultipartForm) {
		form, err := ctx.MultipartForm()
		if err != nil {
			h.log.WithFields(log.Fields{
				"request_id": h.middleware.GetRequestID(ctx),
				"error":      err.Error(),
			}).Debug("Unreadable multipart body")
			return src
		}

		if files := form.File[imageField]; len(files) > 0 {
			src.File = files[0]
			return src
		}
		// The multipart reader files a part with filename="" under values,
		// but it is still an upload without a name.
		if hasEmptyFilenamePart(ctx.Body(), ctx.Get(fiber.HeaderContentType)) {
			src.File = &multipart.FileHeader{}
			return src
		}
		if values := form.Value[imageField]; len(values) > 0 {
			url := values[0]
			src.URL = &url
		}
		return src
	}

	if strings.HasPrefix(contentType, fiber.MIMEApplicationForm) {
		args := ctx.Request().PostArgs()
		if args.Has(imageField) {
			url := string(args.Peek(imageField))
			src.URL = &url
		}
	}

	return src
}

func hasEmptyFilenamePart(body []byte, contentType string) bool {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil || params["boundary"] == "" {
		return false
	}

	reader := multipart.NewReader(bytes.NewReader(body), params["boundary"])
	for {
		part, err := reader.NextPart()
		if err != nil {
			return false
		}

		_, disposition, err := mime.ParseMediaType(part.Header.Get(fiber.HeaderContentDisposition))
		if err != nil || disposition["name"] != imageField {
			continue
		}
		if filename, ok := disposition["filename"]; ok && filename == "" {
			return true
		}
	}
}
