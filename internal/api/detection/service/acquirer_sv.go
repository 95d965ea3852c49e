package detectionService

import (
	"fmt"
	"io"
	"net/http"

	"FaceAgeAPI/internal/api/detection"
	"FaceAgeAPI/pkg/response"

	"golang.org/x/net/context"
)

func (s *detectionService) Acquire(ctx context.Context, src detection.ImageSource) ([]byte, error) {
	if src.HasFile() {
		data, err := s.utils.ReadMultipartFile(src.File)
		if err != nil {
			return nil, detection.ErrProcessing.
				WithMeta(response.Meta{"details": err.Error()}).
				Wrap(err)
		}
		return data, nil
	}

	if !src.HasURL() {
		return nil, detection.ErrMissingField.WithMeta(s.backendMeta())
	}

	data, err := s.download(ctx, *src.URL)
	if err != nil {
		return nil, detection.ErrDownloadFailed.
			WithMessage(fmt.Sprintf("Gagal mengunduh gambar dari URL: %v", err)).
			Wrap(err)
	}

	return data, nil
}

// download reads at most MaxImageBytes so a URL cannot bypass the upload cap.
func (s *detectionService) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%d %s for url: %s", resp.StatusCode, http.StatusText(resp.StatusCode), url)
	}

	limit := int64(s.cfg.MaxImageBytes())
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("image exceeds %d MB limit", s.cfg.MaxImageMB)
	}

	return data, nil
}
