package main

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"FaceAgeAPI/internal/api/detection"
	detectionService "FaceAgeAPI/internal/api/detection/service"
	"FaceAgeAPI/internal/config"
	"FaceAgeAPI/pkg/handlerUtil"
	"FaceAgeAPI/pkg/response"
	"FaceAgeAPI/pkg/utils"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"golang.org/x/net/context"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <path|url>",
	Short: "Run detection on a local file or URL and print the JSON envelope",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	u := utils.New()

	analyzer, err := config.NewAnalyzer(cfg, u, logger)
	if err != nil {
		return err
	}
	if closer, ok := analyzer.(io.Closer); ok {
		defer closer.Close()
	}

	svc := detectionService.NewDetectionService(logger, cfg, analyzer, u)

	ctx := cmd.Context()
	if cfg.AnalyzeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.AnalyzeTimeout)
		defer cancel()
	}

	return analyze(ctx, svc, args[0], cmd.OutOrStdout())
}

// analyze runs the detect pipeline on target and writes the envelope to w.
// A pipeline failure is printed and returned; an unreadable local path is
// returned without an envelope.
func analyze(ctx context.Context, svc detectionService.IDetectionService, target string, w io.Writer) error {
	var (
		res *detection.DetectResponse
		err error
	)

	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		res, err = svc.Detect(ctx, detection.ImageSource{URL: &target})
	} else {
		var data []byte
		data, err = readLocal(svc, target)
		if err != nil && !isPipelineError(err) {
			return err
		}
		if err == nil {
			res, err = svc.Analyze(ctx, data)
		}
	}

	body := envelope(res, err)

	out, marshalErr := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(body, "", "  ")
	if marshalErr != nil {
		return marshalErr
	}
	fmt.Fprintln(w, string(out))

	if err != nil {
		return fmt.Errorf("analyze %s: %w", target, err)
	}
	return nil
}

// readLocal applies the upload rules to the file name before reading it.
func readLocal(svc detectionService.IDetectionService, path string) ([]byte, error) {
	src := detection.ImageSource{File: &multipart.FileHeader{Filename: filepath.Base(path)}}
	if err := svc.Validate(src); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func isPipelineError(err error) bool {
	var respErr *response.Error
	return errors.As(err, &respErr)
}

func envelope(res *detection.DetectResponse, err error) map[string]interface{} {
	if err == nil {
		return response.Success(res.Payload(), response.DefaultSuccessMessage)
	}

	var respErr *response.Error
	if !errors.As(err, &respErr) {
		respErr = handlerUtil.ErrInternal.Wrap(err)
	}
	return respErr.Body()
}
