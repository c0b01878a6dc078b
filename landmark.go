package skintone

import (
	"bytes"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Landmark is a facial keypoint with coordinates normalized to the image size.
type Landmark struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z,omitempty"`
}

// LandmarkSet is an indexable sequence of normalized landmarks produced by a face-landmark detector.
// The processor only reads from it.
type LandmarkSet interface {
	Len() int
	At(i int) Landmark
}

// Landmarks is the slice backed LandmarkSet.
type Landmarks []Landmark

// Len returns the number of landmarks.
func (l Landmarks) Len() int { return len(l) }

// At returns the landmark at index i.
func (l Landmarks) At(i int) Landmark { return l[i] }

// UnmarshalJSON accepts both object records ({"x": .., "y": .., "z": ..})
// and array records ([x, y] or [x, y, z]).
func (l *Landmark) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var coords []float64
		if err := json.Unmarshal(data, &coords); err != nil {
			return err
		}
		if len(coords) < 2 || len(coords) > 3 {
			return fmt.Errorf("landmark record should have 2 or 3 coordinates, got %d", len(coords))
		}
		l.X, l.Y = coords[0], coords[1]
		if len(coords) == 3 {
			l.Z = coords[2]
		}
		return nil
	}

	type record Landmark
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	*l = Landmark(r)
	return nil
}

// landmarkDocument covers the object shaped landmark files.
type landmarkDocument struct {
	Faces []Landmarks `json:"faces"`
	Multi []struct {
		Landmark Landmarks `json:"landmark"`
	} `json:"multi_face_landmarks"`
}

// DecodeLandmarks reads the landmark sets of all the detected faces from a JSON document.
// The supported layouts are:
//
//	[{"x":..,"y":..}, ...]                          a single face
//	[[{"x":..,"y":..}, ...], ...]                   one list per face
//	{"faces": [[...], ...]}
//	{"multi_face_landmarks": [{"landmark": [...]}]} the face mesh output layout
//
// Each landmark record may be an object or an array of coordinates.
func DecodeLandmarks(r io.Reader) ([]Landmarks, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("could not read the landmark file: %v", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("empty landmark file")
	}

	switch data[0] {
	case '{':
		var doc landmarkDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("could not decode the landmark file: %v", err)
		}
		faces := doc.Faces
		for _, m := range doc.Multi {
			faces = append(faces, m.Landmark)
		}
		return faces, nil
	case '[':
		var items []jsoniter.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("could not decode the landmark file: %v", err)
		}
		if len(items) == 0 {
			return nil, nil
		}
		if isFaceList(items[0]) {
			var faces []Landmarks
			if err := json.Unmarshal(data, &faces); err != nil {
				return nil, fmt.Errorf("could not decode the landmark file: %v", err)
			}
			return faces, nil
		}
		var face Landmarks
		if err := json.Unmarshal(data, &face); err != nil {
			return nil, fmt.Errorf("could not decode the landmark file: %v", err)
		}
		return []Landmarks{face}, nil
	}
	return nil, fmt.Errorf("unsupported landmark file layout")
}

// isFaceList reports whether the first element of a top level array is itself a list of landmark
// records, as opposed to a single landmark record.
func isFaceList(item []byte) bool {
	item = bytes.TrimSpace(item)
	if len(item) == 0 || item[0] != '[' {
		return false
	}
	inner := bytes.TrimSpace(item[1:])
	return len(inner) > 0 && (inner[0] == '{' || inner[0] == '[' || inner[0] == ']')
}
