package detection

import (
	"net/http"

	"FaceAgeAPI/pkg/response"
)

var (
	ErrMissingFilename = response.NewError(response.KindValidation, "missing_filename", http.StatusBadRequest, "No selected file.")
	ErrInvalidFileType = response.NewError(response.KindValidation, "invalid_file_type", http.StatusUnsupportedMediaType, "Allowed file types are: png, jpg, jpeg")
	ErrMissingURL      = response.NewError(response.KindValidation, "missing_url", http.StatusBadRequest, "URL cannot be empty.")
	ErrInvalidURL      = response.NewError(response.KindValidation, "invalid_url_scheme", http.StatusBadRequest, "URL must start with http:// or https://")
	ErrMissingField    = response.NewError(response.KindValidation, "missing_field", http.StatusBadRequest, "Field 'image' (file or valid URL) is required.")

	ErrDownloadFailed = response.NewError(response.KindAcquisition, "download_failed", http.StatusBadRequest, "Gagal mengunduh gambar dari URL.")

	ErrProcessing     = response.NewError(response.KindDecode, "processing_error", http.StatusBadRequest, "Gagal memproses gambar.")
	ErrNoFaceDetected = response.NewError(response.KindDetection, "no_face_detected", http.StatusUnprocessableEntity, "Tidak ada wajah terdeteksi pada foto.")
	ErrRequestTimeout = response.NewError(response.KindInternal, "request_timeout", http.StatusRequestTimeout, "Analisis gambar melebihi batas waktu.")

	ErrInternalServerError = response.NewError(response.KindInternal, "internal_error", http.StatusInternalServerError, "Terjadi kesalahan pada server.")
)
