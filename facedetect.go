package skintone

import (
	"fmt"
	"image"
	"os"

	"github.com/AydanPirani/skintone/utils"
	pigo "github.com/esimov/pigo/core"
)

// FaceLocator checks landmark sets against the faces found by a pigo cascade classifier,
// so that landmarks not lying over an actual face can be skipped.
type FaceLocator struct {
	classifier *pigo.Pigo
	// MinSize is the minimum face size, in pixels.
	MinSize int
	// Angle is the in-plane rotation of the searched faces, in the [0, 1] range.
	Angle float64
	// IoU is the intersection over union threshold used to cluster the detections.
	IoU float64
	// Score is the minimum detection quality.
	Score float32
}

// minFaceSize is the smallest window the cascade is run with. The window grows by 10% per
// step, so smaller sizes would never grow.
const minFaceSize = 10

// cascadeHeader is the size of the cascade file header holding the tree depth and count.
const cascadeHeader = 16

// NewFaceLocator unpacks the binary cascade file.
func NewFaceLocator(cascade []byte) (fl *FaceLocator, err error) {
	if len(cascade) < cascadeHeader {
		return nil, fmt.Errorf("error unpacking the cascade file: %d bytes is too short", len(cascade))
	}
	// The unpacker indexes the packet without bound checks.
	defer func() {
		if r := recover(); r != nil {
			fl, err = nil, fmt.Errorf("error unpacking the cascade file: truncated data: %v", r)
		}
	}()

	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		return nil, fmt.Errorf("error unpacking the cascade file: %v", err)
	}
	return &FaceLocator{
		classifier: classifier,
		MinSize:    60,
		IoU:        0.2,
		Score:      5.0,
	}, nil
}

// LoadFaceLocator reads the cascade file from disk.
func LoadFaceLocator(path string) (*FaceLocator, error) {
	cascade, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read the cascade file: %v", err)
	}
	return NewFaceLocator(cascade)
}

// Detect returns the bounding rectangles of the faces found in the image.
func (fl *FaceLocator) Detect(img image.Image) []image.Rectangle {
	src := toNRGBA(img)
	cols, rows := src.Bounds().Dx(), src.Bounds().Dy()

	cParams := pigo.CascadeParams{
		MinSize:     utils.Max(fl.MinSize, minFaceSize),
		MaxSize:     utils.Max(cols, rows),
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,
		ImageParams: pigo.ImageParams{
			Pixels: pigo.RgbToGrayscale(src),
			Rows:   rows,
			Cols:   cols,
			Dim:    cols,
		},
	}

	dets := fl.classifier.RunCascade(cParams, fl.Angle)
	dets = fl.classifier.ClusterDetections(dets, fl.IoU)

	var faces []image.Rectangle
	for _, d := range dets {
		if d.Q < fl.Score {
			continue
		}
		half := d.Scale / 2
		faces = append(faces, image.Rect(d.Col-half, d.Row-half, d.Col+half, d.Row+half))
	}
	return faces
}

// Covers reports whether the box overlaps any of the faces.
func Covers(faces []image.Rectangle, box image.Rectangle) bool {
	for _, f := range faces {
		if f.Overlaps(box) {
			return true
		}
	}
	return false
}
