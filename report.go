package skintone

import "io"

// Report is the JSON summary written next to the generated images.
type Report struct {
	Image string       `json:"image"`
	Space ColorSpace   `json:"color_space"`
	Faces []FaceReport `json:"faces"`
}

// FaceReport summarizes the result of a single face.
type FaceReport struct {
	Face               int           `json:"face"`
	Stats              ChannelStats  `json:"stats"`
	Before             int           `json:"pre_cleaning"`
	After              int           `json:"post_cleaning"`
	MeanRGB            [3]int        `json:"mean_rgb"`
	Luminance          float64       `json:"luminance"`
	EstimatedLuminance float64       `json:"estimated_luminance"`
	Nulled             []string      `json:"nulled,omitempty"`
	Gated              []string      `json:"gated,omitempty"`
	Patches            []PatchReport `json:"patches"`
}

// PatchReport summarizes a patch after the outlier filter.
type PatchReport struct {
	Region string  `json:"region"`
	Pixels int     `json:"pixels"`
	Area   float64 `json:"area"`
}

// NewReport builds the report of the analyzed faces of an image.
func NewReport(name string, space ColorSpace, results []*FaceResult) *Report {
	rep := &Report{Image: name, Space: space, Faces: []FaceReport{}}
	for _, res := range results {
		fr := FaceReport{
			Face:               res.Face,
			Stats:              res.Stats,
			Before:             res.Before,
			After:              res.After,
			MeanRGB:            [3]int{int(res.MeanRGB[0]), int(res.MeanRGB[1]), int(res.MeanRGB[2])},
			Luminance:          res.Luminance,
			EstimatedLuminance: res.EstimatedLuminance,
			Nulled:             regionNames(res.Nulled),
			Gated:              regionNames(res.Gated),
		}
		for _, p := range res.Patches {
			fr.Patches = append(fr.Patches, PatchReport{
				Region: p.Region.String(),
				Pixels: p.Len(),
				Area:   p.Area,
			})
		}
		rep.Faces = append(rep.Faces, fr)
	}
	return rep
}

// Write encodes the report as indented JSON.
func (r *Report) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func regionNames(regions []Region) []string {
	var names []string
	for _, r := range regions {
		names = append(names, r.String())
	}
	return names
}
