package genotype

import (
	"math"
	"sort"

	"github.com/grailbio/base/log"
	"github.com/grailbio/hts/sam"
	"gonum.org/v1/gonum/stat"

	"github.com/svtoolkit/svgenotyper/interval"
)

const (
	// deviationsForThreshold sets the proper-pair window at
	// median ± 1.5 standard deviations.
	deviationsForThreshold = 1.5
	// maxInsertSize caps the template lengths admitted to the insert-size
	// population, excluding chimeric outliers.
	maxInsertSize = 1000
)

// insertSizesForRegion returns the template lengths of perfectly mapped,
// mate-mapped reads in region whose template length is in
// [0, maxInsertSize].
func (s *Sample) insertSizesForRegion(region interval.Entry) ([]float64, error) {
	reads, err := s.fetch(region)
	if err != nil {
		return nil, err
	}
	var sizes []float64
	for _, r := range reads {
		if r.Flags&sam.MateUnmapped != 0 {
			continue
		}
		if r.TempLen < 0 || r.TempLen > maxInsertSize {
			continue
		}
		if !HasPerfectMapping(r) {
			continue
		}
		sizes = append(sizes, float64(r.TempLen))
	}
	return sizes, nil
}

// EstimateInsertSize computes s's insert-size statistics and thresholds
// from the given copy-number-2 control regions.  With an empty qualifying
// population every statistic is NaN and threshold comparisons downstream
// are vacuously false; that degenerate case is reported, not fatal.
func (s *Sample) EstimateInsertSize(regions []interval.Entry) error {
	var sizes []float64
	for _, region := range regions {
		rs, err := s.insertSizesForRegion(region)
		if err != nil {
			return err
		}
		sizes = append(sizes, rs...)
	}
	if len(sizes) == 0 {
		log.Error.Printf("%s: no qualifying reads in control regions; insert-size thresholds undefined", s.Name)
	}
	// MeanInsertSize is actually the median; the field name is historical.
	s.MeanInsertSize = median(sizes)
	s.StdInsertSize = popStdDev(sizes)
	s.LowerInsertThreshold = truncThreshold(s.MeanInsertSize - deviationsForThreshold*s.StdInsertSize)
	s.UpperInsertThreshold = truncThreshold(s.MeanInsertSize + deviationsForThreshold*s.StdInsertSize)
	log.Debug.Printf("%s: insert size median %v, stddev %v, thresholds [%v, %v]",
		s.Name, s.MeanInsertSize, s.StdInsertSize, s.LowerInsertThreshold, s.UpperInsertThreshold)
	return nil
}

// median returns the middle value of xs, averaging the two central values
// for even-length input, or NaN for empty input.  xs is sorted in place.
func median(xs []float64) float64 {
	n := len(xs)
	if n == 0 {
		return math.NaN()
	}
	sort.Float64s(xs)
	if n%2 == 1 {
		return xs[n/2]
	}
	return (xs[n/2-1] + xs[n/2]) / 2
}

// popStdDev returns the population standard deviation of xs.
// stat.StdDev applies Bessel's correction, which would widen the
// thresholds; the calibration wants the population estimate.
func popStdDev(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	mean := stat.Mean(xs, nil)
	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)))
}

// truncThreshold truncates a threshold toward zero, preserving NaN from an
// empty insert-size population.
func truncThreshold(x float64) float64 {
	if math.IsNaN(x) {
		return x
	}
	return math.Trunc(x)
}
