package genotype

import (
	gbam "github.com/grailbio/bio/encoding/bam"
	"github.com/grailbio/bio/encoding/bamprovider"
	"github.com/grailbio/hts/sam"
	"github.com/pkg/errors"

	"github.com/svtoolkit/svgenotyper/interval"
)

// maxReadSpan bounds the reference span of a single alignment.  Ranged
// fetches are padded by this much on the left so reads that start before a
// window but overlap it are not missed.
const maxReadSpan = 511

// Sample is one alignment dataset being genotyped, with the insert-size
// statistics calibrated for it.  A Sample is built once per input BAM at
// startup and is read-only during classification.
type Sample struct {
	Name string

	// Insert-size statistics from copy-number-2 control regions, set by
	// EstimateInsertSize.  MeanInsertSize is the population median; see
	// insertsize.go.
	MeanInsertSize       float64
	StdInsertSize        float64
	LowerInsertThreshold float64
	UpperInsertThreshold float64

	provider  bamprovider.Provider
	header    *sam.Header
	chromLens map[string]interval.PosType
}

// NewSample wraps an alignment provider.  The header is read eagerly so
// chromosome lengths are available for padding arithmetic.
func NewSample(name string, provider bamprovider.Provider) (*Sample, error) {
	header, err := provider.GetHeader()
	if err != nil {
		return nil, errors.Wrapf(err, "%s: reading header", name)
	}
	chromLens := make(map[string]interval.PosType, len(header.Refs()))
	for _, ref := range header.Refs() {
		chromLens[ref.Name()] = interval.PosType(ref.Len())
	}
	return &Sample{
		Name:      name,
		provider:  provider,
		header:    header,
		chromLens: chromLens,
	}, nil
}

// Header returns the sample's SAM header.  Callers must not modify it.
func (s *Sample) Header() *sam.Header { return s.header }

// ChromLens maps reference name to length, for clamping padded regions.
func (s *Sample) ChromLens() map[string]interval.PosType { return s.chromLens }

// Close releases the underlying provider.
func (s *Sample) Close() error { return s.provider.Close() }

// fetch returns the reads overlapping region, including placed unmapped
// mates whose position falls inside it.
func (s *Sample) fetch(region interval.Entry) (reads []*sam.Record, err error) {
	var ref *sam.Reference
	for _, r := range s.header.Refs() {
		if r.Name() == region.Chrom {
			ref = r
			break
		}
	}
	if ref == nil {
		return nil, errors.Errorf("%s: fetch %v: unknown reference", s.Name, region)
	}
	iter := s.provider.NewIterator(gbam.Shard{
		StartRef: ref,
		EndRef:   ref,
		Start:    int(region.Start),
		End:      int(region.End),
		Padding:  maxReadSpan,
	})
	defer func() {
		if cerr := iter.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	for iter.Scan() {
		r := iter.Record()
		end := r.End()
		if r.Flags&sam.Unmapped != 0 {
			// A placed unmapped mate consumes no reference bases; treat it
			// as occupying its placement position.
			end = r.Pos + 1
		}
		if r.Pos < int(region.End) && end > int(region.Start) {
			reads = append(reads, r)
		}
	}
	return reads, nil
}
