package skintone

import (
	"fmt"
	"image"
	"math"

	"gonum.org/v1/gonum/stat"
)

// ChannelStats holds the per channel mean and population standard deviation
// computed over a pool of color samples.
type ChannelStats struct {
	Mean   [3]float64 `json:"mean"`
	StdDev [3]float64 `json:"std_dev"`
	Count  int        `json:"count"`
}

// Band is the closed interval of accepted values for a channel.
type Band struct {
	Lo, Hi float64
}

// Contains reports whether v lies inside the band.
func (b Band) Contains(v float64) bool {
	return v >= b.Lo && v <= b.Hi
}

// Range returns the mean ± k standard deviation band of every channel.
func (s ChannelStats) Range(k float64) [3]Band {
	var bands [3]Band
	for c := range bands {
		bands[c] = Band{
			Lo: s.Mean[c] - k*s.StdDev[c],
			Hi: s.Mean[c] + k*s.StdDev[c],
		}
	}
	return bands
}

// ComputeStats pools the pixels of every non-empty set and computes the mean and the
// population standard deviation (no Bessel correction) of each channel.
// It returns ErrInsufficientData when there is no pixel to pool.
func ComputeStats(f *Frame, sets ...[]image.Point) (ChannelStats, error) {
	var n int
	for _, pts := range sets {
		n += len(pts)
	}
	if n == 0 {
		return ChannelStats{}, fmt.Errorf("%w: no pixels to compute statistics from", ErrInsufficientData)
	}

	var channels [3][]float64
	for c := range channels {
		channels[c] = make([]float64, 0, n)
	}
	for _, pts := range sets {
		for _, p := range pts {
			s := f.At(p)
			for c := range channels {
				channels[c] = append(channels[c], float64(s[c]))
			}
		}
	}

	stats := ChannelStats{Count: n}
	for c := range channels {
		mean, variance := stat.PopMeanVariance(channels[c], nil)
		stats.Mean[c], stats.StdDev[c] = mean, math.Sqrt(math.Max(variance, 0))
	}
	return stats, nil
}

// FilterByRange keeps the pixels whose channels all lie within mean ± k standard deviations.
// The filter is applied once, the statistics are not recomputed. The pixel order is preserved.
func FilterByRange(f *Frame, pixels []image.Point, s ChannelStats, k float64) []image.Point {
	bands := s.Range(k)

	var kept []image.Point
	for _, p := range pixels {
		sample := f.At(p)
		if bands[0].Contains(float64(sample[0])) &&
			bands[1].Contains(float64(sample[1])) &&
			bands[2].Contains(float64(sample[2])) {
			kept = append(kept, p)
		}
	}
	return kept
}

// CalculateLuminance returns the perceived brightness of an RGB color (ITU-R BT.709),
// rounded to two decimals.
func CalculateLuminance(r, g, b float64) float64 {
	return round2(0.2126*r + 0.7152*g + 0.0722*b)
}

// EstimateLuminance returns the average of the RGB channels, rounded to two decimals.
func EstimateLuminance(r, g, b float64) float64 {
	return round2((r + g + b) / 3)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
