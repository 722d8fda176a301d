package genotype

import (
	"math"
	"testing"

	"github.com/grailbio/bio/encoding/bamprovider"
	"github.com/grailbio/hts/sam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svtoolkit/svgenotyper/interval"
)

func withTempLen(r *sam.Record, tlen int) *sam.Record {
	r.TempLen = tlen
	return r
}

func TestEstimateInsertSize(t *testing.T) {
	recs := []*sam.Record{
		withTempLen(newRecord("a", testChr1, 1000, fwd, cigarM(100)), 300),
		withTempLen(newRecord("b", testChr1, 1100, fwd, cigarM(100)), 290),
		withTempLen(newRecord("c", testChr1, 1200, fwd, cigarM(100)), 310),
		withTempLen(newRecord("d", testChr1, 1300, fwd, cigarM(100)), 320),
		// Excluded: negative template length (rightmost read of its pair).
		withTempLen(newRecord("e", testChr1, 1400, rev, cigarM(100)), -300),
		// Excluded: implausibly long template.
		withTempLen(newRecord("f", testChr1, 1500, fwd, cigarM(100)), 1500),
		// Excluded: mate unmapped.
		withTempLen(newRecord("g", testChr1, 1600, fwd|sam.MateUnmapped, cigarM(100)), 300),
		// Excluded: imperfect mapping.
		withTempLen(setNM(newRecord("h", testChr1, 1700, fwd, cigarM(100)), 10), 300),
	}
	s, err := NewSample("test", bamprovider.NewFakeProvider(testHeader, recs))
	require.NoError(t, err)

	regions := []interval.Entry{{Chrom: "chr1", Start: 1000, End: 2000}}
	require.NoError(t, s.EstimateInsertSize(regions))

	// Qualifying sizes are 290, 300, 310, 320.
	assert.Equal(t, 305.0, s.MeanInsertSize)
	assert.InDelta(t, math.Sqrt(125), s.StdInsertSize, 1e-9)
	assert.Equal(t, 288.0, s.LowerInsertThreshold)
	assert.Equal(t, 321.0, s.UpperInsertThreshold)
}

func TestEstimateInsertSizeEmpty(t *testing.T) {
	s, err := NewSample("empty", bamprovider.NewFakeProvider(testHeader, nil))
	require.NoError(t, err)

	regions := []interval.Entry{{Chrom: "chr1", Start: 1000, End: 2000}}
	require.NoError(t, s.EstimateInsertSize(regions))

	assert.True(t, math.IsNaN(s.MeanInsertSize))
	assert.True(t, math.IsNaN(s.StdInsertSize))
	assert.True(t, math.IsNaN(s.LowerInsertThreshold))
	assert.True(t, math.IsNaN(s.UpperInsertThreshold))

	// Undefined thresholds gate out every proper-pair decision.
	r := withTempLen(newRecord("a", testChr1, 1000, fwd, cigarM(100)), 300)
	assert.False(t, IsProperPair(r, s.LowerInsertThreshold, s.UpperInsertThreshold))
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 3.0, median([]float64{5, 1, 3}))
	assert.Equal(t, 2.5, median([]float64{4, 1, 2, 3}))
	assert.True(t, math.IsNaN(median(nil)))
}
