package skintone

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
)

// Config holds the tunable parameters of the skin color pipeline.
// The zero values are not usable, start from DefaultConfig.
type Config struct {
	// ColorSpace is the color space the statistics are computed in.
	ColorSpace ColorSpace `json:"color_space" validate:"oneof=rgb ycbcr yuv hsv"`
	// MinPixels is the minimum number of pixels a patch needs to take part in the statistics.
	MinPixels int `json:"min_pixels" validate:"gte=0"`
	// CheekRatio is the minimum area ratio between a cheek and the opposite one.
	CheekRatio float64 `json:"cheek_ratio" validate:"gte=0,lte=1"`
	// StdDevs is the half width of the outlier band, in standard deviations.
	StdDevs float64 `json:"std_devs" validate:"gt=0"`
	// DiffuseColor is the RGB fill of the diffuse image. When empty, the mean patch color is used.
	DiffuseColor []int `json:"diffuse_color,omitempty" validate:"omitempty,len=3"`
	// Workers is the number of concurrent rasterization tasks of a face.
	Workers int `json:"workers" validate:"gte=1,lte=64"`
	// AllFaces processes every face of the landmark file instead of only the first one.
	AllFaces bool `json:"all_faces"`
	// Render enables the generation of the masked, inverted and diffuse images.
	Render bool `json:"render"`
}

// DefaultConfig returns a Config populated with the standard defaults.
func DefaultConfig() *Config {
	return &Config{
		ColorSpace: YCbCr,
		MinPixels:  200,
		CheekRatio: 0.5,
		StdDevs:    2,
		Workers:    1,
		Render:     true,
	}
}

var validate = validator.New()

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return nil
}

// Diffuse returns the configured diffuse fill and whether it has been set.
func (c *Config) Diffuse() ([3]int, bool) {
	if len(c.DiffuseColor) != 3 {
		return [3]int{}, false
	}
	return [3]int{c.DiffuseColor[0], c.DiffuseColor[1], c.DiffuseColor[2]}, true
}

// LoadConfig reads the configuration from a JSON file. Values missing from the file keep
// their defaults and a missing file yields the default configuration.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("could not read the config file: %v", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: could not decode the config file: %v", ErrConfiguration, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
