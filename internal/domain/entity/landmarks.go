package entity

// Point is a single landmark coordinate. Pose landmarks are normalized to
// [0,1] of frame width/height with y growing downward; face-mesh landmarks
// are in pixel space.
type Point struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z,omitempty"`
	Visibility float64 `json:"visibility,omitempty"`
}

// PoseLandmarks holds the named upper-body keypoints used by the body
// pipeline. Coordinates are normalized image coordinates.
type PoseLandmarks struct {
	Nose          Point `json:"nose"`
	LeftShoulder  Point `json:"left_shoulder"`
	RightShoulder Point `json:"right_shoulder"`
	LeftElbow     Point `json:"left_elbow"`
	RightElbow    Point `json:"right_elbow"`
	LeftWrist     Point `json:"left_wrist"`
	RightWrist    Point `json:"right_wrist"`
	LeftHip       Point `json:"left_hip"`
	RightHip      Point `json:"right_hip"`
}

// Face mesh landmark count following the MediaPipe convention.
const FaceMeshPoints = 468

// FaceLandmarks is the dense face mesh of the first detected face, in pixel
// coordinates of the source frame.
type FaceLandmarks struct {
	Points      []Point `json:"points"`
	FrameWidth  int     `json:"frame_width"`
	FrameHeight int     `json:"frame_height"`
}
