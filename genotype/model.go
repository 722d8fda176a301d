package genotype

import (
	"math"
	"strconv"
)

// Genotype strings emitted in the report.
const (
	GenotypeHomRef = "0/0"
	GenotypeHet    = "1/0"
	GenotypeHomAlt = "1/1"
	GenotypeNoCall = "./."
)

// homozygousDeletionThreshold is the depth below which both counts are
// considered negligible.  It stands in for a per-sample depth standard
// deviation that was never enabled.
const homozygousDeletionThreshold = 5

// Likelihood is a Phred-scaled genotype confidence.  Defined is false when
// the formula degenerates (a zero inside the log), which renders as "inf":
// the limiting maximum-confidence score.
type Likelihood struct {
	Phred   float64
	Defined bool
}

func (l Likelihood) String() string {
	if !l.Defined {
		return "inf"
	}
	return strconv.FormatFloat(l.Phred, 'f', -1, 64)
}

// phred converts a probability-like ratio into a floored Phred score.
func phred(p float64) Likelihood {
	score := math.Floor(-10 * math.Log10(p))
	if math.IsInf(score, 0) || math.IsNaN(score) {
		return Likelihood{}
	}
	return Likelihood{Phred: score, Defined: true}
}

// CallGenotype converts concordant/discordant pair counts into a genotype
// and Phred-scaled likelihood based on the depth ratio of the two counts, a
// la Hormozdiari et al. 2010 (Genome Research).
//
// With both depths below homozygousDeletionThreshold there is no call.
// Otherwise the discordant depth is compared against bounds derived from
// the concordant depth: below a quarter of it is homozygous variant, below
// four times it is heterozygous, and at or above that is homozygous
// reference.  The reference branch shares the heterozygous ratio formula;
// both branches are numerically identical by construction.
func CallGenotype(concordant, discordant int) (string, Likelihood) {
	c := float64(concordant)
	d := float64(discordant)

	if c < homozygousDeletionThreshold && d < homozygousDeletionThreshold {
		concLikelihood := math.Pow(2, c) / math.Pow(2, homozygousDeletionThreshold)
		discLikelihood := math.Pow(2, d) / math.Pow(2, homozygousDeletionThreshold)
		shared := math.Sqrt(concLikelihood*concLikelihood + discLikelihood*discLikelihood)
		return GenotypeNoCall, phred(shared)
	}

	lowerBound := 0.25 * c
	upperBound := 4 * c
	switch {
	case d < lowerBound:
		// Distance between observed discordant depth and the depth expected
		// for this concordant depth.
		return GenotypeHomAlt, phred(math.Pow(2, d) / math.Pow(2, lowerBound))
	case d < upperBound:
		return GenotypeHet, phred(1 - math.Min(depthRatio(d, upperBound), 1))
	default:
		return GenotypeHomRef, phred(1 - math.Min(depthRatio(d, upperBound), 1))
	}
}

func depthRatio(d, upperBound float64) float64 {
	return math.Pow(2, math.Abs(d-upperBound)) / math.Pow(2, upperBound)
}
