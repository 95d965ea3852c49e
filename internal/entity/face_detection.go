package entity

type BoundingBox struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// FaceResult is one normalized face. Age and Confidence serialize as null
// when the backend did not report them.
type FaceResult struct {
	BBox       BoundingBox `json:"bbox"`
	Age        *int        `json:"age"`
	Confidence *float64    `json:"confidence"`
}
