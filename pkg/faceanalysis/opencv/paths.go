// Package opencv analyzes faces in-process with gocv. It is compiled only
// with the "opencv" build tag since gocv needs the OpenCV C++ libraries.
package opencv

const (
	Name = "opencv"

	BackendCascade = "opencv"
	BackendSSD     = "ssd"
)

type Paths struct {
	Cascade    string
	FaceModel  string
	FaceConfig string
	AgeModel   string
	AgeConfig  string
}
