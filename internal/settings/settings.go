// Package settings holds the process configuration. It is read from the
// environment once at startup and passed by pointer to every component.
package settings

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	ServiceName    = "flask-deepface"
	ServiceVersion = "1.0.0"

	AnalyzerDeepFace    = "deepface"
	AnalyzerOpenCV      = "opencv"
	AnalyzerRekognition = "rekognition"
)

var AllowedExtensions = []string{"png", "jpg", "jpeg"}

type Config struct {
	Env      string `validate:"required"`
	Host     string `validate:"required"`
	Port     int    `validate:"min=1,max=65535"`
	LogLevel string
	LogDir   string

	DetectorBackend  string `validate:"required"`
	EnforceDetection bool
	Analyzer         string        `validate:"oneof=deepface opencv rekognition"`
	AnalyzeTimeout   time.Duration `validate:"min=0"`
	DeepFaceURL      string        `validate:"required,url"`

	MaxImageMB        int `validate:"min=1"`
	AllowedExtensions []string
	DownloadTimeout   time.Duration `validate:"gt=0"`

	APIKey string

	RateLimitRPS   float64 `validate:"min=0"`
	RateLimitBurst int     `validate:"min=0"`

	OpenCVCascadePath string
	OpenCVFaceModel   string
	OpenCVFaceConfig  string
	OpenCVAgeModel    string `validate:"required_if=Analyzer opencv"`
	OpenCVAgeConfig   string `validate:"required_if=Analyzer opencv"`

	AWSRegion          string `validate:"required_if=Analyzer rekognition"`
	AWSAccessKeyID     string
	AWSSecretAccessKey string
}

// Load reads the environment. Malformed numbers and durations are errors
// rather than silent defaults.
func Load(validate *validator.Validate) (*Config, error) {
	r := &reader{}

	cfg := &Config{
		Env:      getEnv("FLASK_ENV", "production"),
		Host:     getEnv("HOST", "0.0.0.0"),
		Port:     r.int("PORT", 5000),
		LogLevel: getEnv("LOG_LEVEL", "INFO"),
		LogDir:   getEnv("LOG_DIR", "./storage/logs"),

		DetectorBackend:  getEnv("DETECTOR_BACKEND", "opencv"),
		EnforceDetection: strings.ToLower(getEnv("ENFORCE_DETECTION", "true")) == "true",
		Analyzer:         strings.ToLower(getEnv("ANALYZER", AnalyzerDeepFace)),
		AnalyzeTimeout:   r.duration("ANALYZE_TIMEOUT", 0),
		DeepFaceURL:      getEnv("DEEPFACE_URL", "http://localhost:5005"),

		MaxImageMB:        r.int("MAX_IMAGE_MB", 5),
		AllowedExtensions: AllowedExtensions,
		DownloadTimeout:   r.duration("DOWNLOAD_TIMEOUT", 15*time.Second),

		APIKey: os.Getenv("API_KEY"),

		RateLimitRPS:   r.float("RATE_LIMIT_RPS", 0),
		RateLimitBurst: r.int("RATE_LIMIT_BURST", 0),

		OpenCVCascadePath: os.Getenv("OPENCV_CASCADE_PATH"),
		OpenCVFaceModel:   os.Getenv("OPENCV_FACE_MODEL"),
		OpenCVFaceConfig:  os.Getenv("OPENCV_FACE_CONFIG"),
		OpenCVAgeModel:    os.Getenv("OPENCV_AGE_MODEL"),
		OpenCVAgeConfig:   os.Getenv("OPENCV_AGE_CONFIG"),

		AWSRegion:          os.Getenv("AWS_REGION"),
		AWSAccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
	}

	if r.err != nil {
		return nil, r.err
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *Config) MaxImageBytes() int {
	return c.MaxImageMB * 1024 * 1024
}

func (c *Config) AuthEnabled() bool {
	return c.APIKey != ""
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// reader keeps the first parse failure so Load can report it once.
type reader struct {
	err error
}

func (r *reader) fail(key, value string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("invalid %s=%q: %w", key, value, err)
	}
}

func (r *reader) int(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.fail(key, v, err)
		return def
	}
	return n
}

func (r *reader) float(key string, def float64) float64 {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.fail(key, v, err)
		return def
	}
	return f
}

func (r *reader) duration(key string, def time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.fail(key, v, err)
		return def
	}
	return d
}
