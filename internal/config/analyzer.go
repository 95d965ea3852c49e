package config

import (
	"fmt"

	"FaceAgeAPI/internal/settings"
	"FaceAgeAPI/pkg/faceanalysis"
	"FaceAgeAPI/pkg/faceanalysis/deepface"
	"FaceAgeAPI/pkg/faceanalysis/opencv"
	"FaceAgeAPI/pkg/faceanalysis/rekognition"
	"FaceAgeAPI/pkg/utils"

	"github.com/sirupsen/logrus"
)

// NewAnalyzer builds the analysis backend named by cfg.Analyzer.
func NewAnalyzer(cfg *settings.Config, u utils.IUtils, logger *logrus.Logger) (faceanalysis.IAnalyzer, error) {
	switch cfg.Analyzer {
	case settings.AnalyzerOpenCV:
		analyzer, err := opencv.New(opencv.Paths{
			Cascade:    cfg.OpenCVCascadePath,
			FaceModel:  cfg.OpenCVFaceModel,
			FaceConfig: cfg.OpenCVFaceConfig,
			AgeModel:   cfg.OpenCVAgeModel,
			AgeConfig:  cfg.OpenCVAgeConfig,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create opencv analyzer: %w", err)
		}
		return analyzer, nil

	case settings.AnalyzerRekognition:
		analyzer, err := rekognition.New(rekognition.Credentials{
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		}, u, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create rekognition analyzer: %w", err)
		}
		return analyzer, nil

	case settings.AnalyzerDeepFace, "":
		return deepface.New(cfg.DeepFaceURL, cfg.AnalyzeTimeout, u, logger), nil
	}

	return nil, fmt.Errorf("unknown analyzer %q", cfg.Analyzer)
}
