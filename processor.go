package skintone

import (
	stderrors "errors"
	"fmt"
	"image"
	"io"

	"github.com/AydanPirani/skintone/utils"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Processor runs the skin color pipeline over the faces of an image.
// A Processor is safe for concurrent use as long as its fields are not modified.
type Processor struct {
	Config *Config
	// Locator, when set, is used to skip the landmark sets not lying over a detected face.
	Locator *FaceLocator
	// Log receives the per face diagnostics. A nil Log discards them.
	Log logrus.FieldLogger
}

// FaceResult holds the outcome of the pipeline for a single face.
type FaceResult struct {
	Face    int
	Box     image.Rectangle
	Patches []*Patch
	Stats   ChannelStats
	// Before and After are the pooled pixel counts prior and after the outlier filter.
	Before int
	After  int
	// Nulled lists the patches discarded for not having enough pixels,
	// Gated the cheeks discarded by the area ratio gate.
	Nulled []Region
	Gated  []Region
	// MeanRGB is the mean patch color converted back to RGB.
	MeanRGB            [3]uint8
	Luminance          float64
	EstimatedLuminance float64
	Artifacts          *Artifacts
}

// NewProcessor validates the configuration and returns a processor using it.
func NewProcessor(cfg *Config) (*Processor, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Processor{Config: cfg}, nil
}

func (p *Processor) config() *Config {
	if p.Config == nil {
		return DefaultConfig()
	}
	return p.Config
}

func (p *Processor) logger() logrus.FieldLogger {
	if p.Log == nil {
		return utils.DiscardLogger()
	}
	return p.Log
}

// Process decodes the image and the landmark file and analyzes the faces.
func (p *Processor) Process(img io.Reader, landmarks io.Reader) (image.Image, []*FaceResult, error) {
	src, err := DecodeImage(img)
	if err != nil {
		return nil, nil, err
	}
	faces, err := DecodeLandmarks(landmarks)
	if err != nil {
		return nil, nil, err
	}
	results, err := p.Analyze(src, faces)
	return src, results, err
}

// Analyze runs the pipeline over the first face, or over every face when the AllFaces option is set.
// Each face is processed independently: the results of the successful faces are returned
// together with the errors of the failing ones.
func (p *Processor) Analyze(img image.Image, faces []Landmarks) ([]*FaceResult, error) {
	cfg := p.config()
	log := p.logger()

	if len(faces) == 0 {
		return nil, fmt.Errorf("%w: no face landmarks", ErrInsufficientData)
	}
	if !cfg.AllFaces {
		faces = faces[:1]
	}

	frame := NewFrame(img, cfg.ColorSpace)

	var detected []image.Rectangle
	if p.Locator != nil {
		detected = p.Locator.Detect(img)
		log.WithField("faces", len(detected)).Debug("cascade detection done")
	}

	var (
		results []*FaceResult
		errs    []error
	)
	for i, lms := range faces {
		if p.Locator != nil {
			box, err := landmarkBox(lms, frame.Rect)
			if err != nil {
				errs = append(errs, withFace(err, i))
				continue
			}
			if !Covers(detected, box) {
				log.WithField("face", i).Warn("landmarks do not overlap any detected face, skipping")
				continue
			}
		}

		res, err := p.AnalyzeFace(img, frame, lms, i)
		if err != nil {
			log.WithField("face", i).WithError(err).Warn("face analysis failed")
			errs = append(errs, err)
			continue
		}
		results = append(results, res)
	}
	// pkg/errors has no multi-error type.
	return results, stderrors.Join(errs...)
}

// AnalyzeFace runs the whole pipeline for one face: patch rasterization, validation,
// statistics, outlier filtering and, if enabled, rendering.
func (p *Processor) AnalyzeFace(src image.Image, frame *Frame, lms LandmarkSet, face int) (*FaceResult, error) {
	cfg := p.config()
	log := p.logger().WithField("face", face)

	if err := CheckLandmarkRange(lms.Len()); err != nil {
		return nil, &FaceError{Face: face, Err: err}
	}

	patches, err := NewPatches(lms, frame.Rect.Dx(), frame.Rect.Dy())
	if err != nil {
		return nil, withFace(err, face)
	}

	box := PatchBox(frame.Rect, patches)
	if err := Rasterize(box, patches, cfg.Workers); err != nil {
		return nil, withFace(err, face)
	}

	res := &FaceResult{
		Face:    face,
		Box:     box,
		Patches: patches,
	}

	res.Nulled = Validate(patches, cfg.MinPixels)
	for _, r := range res.Nulled {
		log.WithField("region", r.String()).Debug("patch nulled, not enough pixels")
	}
	res.Gated = GateCheeks(patches[LeftCheek], patches[RightCheek], cfg.CheekRatio)
	for _, r := range res.Gated {
		log.WithField("region", r.String()).Debug("cheek excluded by the area ratio gate")
	}

	sets := make([][]image.Point, 0, len(patches))
	for _, pt := range patches {
		if !pt.Empty() {
			sets = append(sets, pt.Pixels)
		}
	}
	stats, err := ComputeStats(frame, sets...)
	if err != nil {
		return nil, &FaceError{Face: face, Err: err}
	}
	res.Stats = stats
	res.Before = stats.Count

	for _, pt := range patches {
		if pt.Empty() {
			continue
		}
		pt.Pixels = FilterByRange(frame, pt.Pixels, stats, cfg.StdDevs)
		res.After += pt.Len()
	}
	log.WithFields(logrus.Fields{
		"pre_cleaning":  res.Before,
		"post_cleaning": res.After,
	}).Debug("outliers filtered")

	res.MeanRGB = frame.Space.ToRGB(stats.Mean)
	r, g, b := float64(res.MeanRGB[0]), float64(res.MeanRGB[1]), float64(res.MeanRGB[2])
	res.Luminance = CalculateLuminance(r, g, b)
	res.EstimatedLuminance = EstimateLuminance(r, g, b)

	if cfg.Render {
		fill, ok := cfg.Diffuse()
		if !ok {
			fill = DiffuseFromStats(stats, frame.Space)
		}
		res.Artifacts = Render(src, patches, fill)
	}
	return res, nil
}

// landmarkBox returns the bounding box of the patches of a landmark set.
func landmarkBox(lms LandmarkSet, bounds image.Rectangle) (image.Rectangle, error) {
	patches, err := NewPatches(lms, bounds.Dx(), bounds.Dy())
	if err != nil {
		return image.Rectangle{}, err
	}
	return PatchBox(bounds, patches), nil
}

// withFace sets the face index of a FaceError, or wraps the error into one.
func withFace(err error, face int) error {
	var fe *FaceError
	if errors.As(err, &fe) {
		fe.Face = face
		return fe
	}
	return &FaceError{Face: face, Err: err}
}
