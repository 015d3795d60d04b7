package scene

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/posetrail/pkg/errors"
)

// Marshal encodes s as indented JSON, the form renderers consume.
func Marshal(s *Scene) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// Unmarshal decodes and validates a JSON scene.
func Unmarshal(data []byte) (*Scene, error) {
	var s Scene
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSceneInconsistency, err, "decode scene")
	}
	if s.Version != Version {
		return nil, errors.New(errors.ErrCodeSceneInconsistency,
			"unsupported scene version %d (want %d)", s.Version, Version)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Write encodes s as JSON to w.
func Write(w io.Writer, s *Scene) error {
	data, err := Marshal(s)
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// Read decodes a JSON scene from r.
func Read(r io.Reader) (*Scene, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}

// WriteFile writes s as JSON to path, creating parent directories.
func WriteFile(path string, s *Scene) error {
	data, err := Marshal(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// ReadFile reads a JSON scene from path.
func ReadFile(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "read scene %s", path)
	}
	return Unmarshal(data)
}

// MarshalYAML encodes s as YAML for inspection.
func MarshalYAML(s *Scene) ([]byte, error) {
	return yaml.Marshal(s)
}
