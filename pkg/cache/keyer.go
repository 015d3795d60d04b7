package cache

import "time"

// Keyer builds cache keys.
type Keyer interface {
	// BoundsKey identifies the bounds of one mesh file at one revision.
	BoundsKey(path string, size int64, modTime time.Time) string

	// SceneKey identifies a composed scene for a frame sequence and options.
	SceneKey(sequenceHash string, opts SceneKeyOpts) string
}

// SceneKeyOpts holds every option that changes a composed scene.
type SceneKeyOpts struct {
	Animation  bool       `json:"animation"`
	Frames     int        `json:"frames"`
	Mode       string     `json:"mode"`
	Spacing    float32    `json:"spacing"`
	Axis       string     `json:"axis"`
	Camera     string     `json:"camera"`
	Floor      string     `json:"floor"`
	StartColor [4]float64 `json:"start_color"`
	EndColor   [4]float64 `json:"end_color"`
	BodyColor  [4]float64 `json:"body_color"`
	Width      int        `json:"width"`
	Height     int        `json:"height"`
	FPS        int        `json:"fps"`
	Lens       float32    `json:"lens"`
}

// DefaultKeyer produces keys of the form "type:sha256".
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// BoundsKey implements Keyer.
func (DefaultKeyer) BoundsKey(path string, size int64, modTime time.Time) string {
	return hashKey("bounds", path, size, modTime.UnixNano())
}

// SceneKey implements Keyer.
func (DefaultKeyer) SceneKey(sequenceHash string, opts SceneKeyOpts) string {
	return hashKey("scene", sequenceHash, opts)
}

var _ Keyer = DefaultKeyer{}
