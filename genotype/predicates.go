package genotype

import (
	"math"

	"github.com/grailbio/base/log"
	"github.com/grailbio/hts/sam"

	"github.com/svtoolkit/svgenotyper/interval"
)

// PosType is the integer type used to represent genomic positions.
type PosType = interval.PosType

// maxErrorRate allows at most 2 mismatches in a 100 bp read.
const maxErrorRate = 0.02

var nmTag = sam.Tag{'N', 'M'}

// editDistance returns the value of the NM aux tag.  A read without the tag
// cannot be classified; that is an input error, not a branch.
func editDistance(r *sam.Record) int {
	aux := r.AuxFields.Get(nmTag)
	if aux == nil {
		log.Fatalf("%s: missing NM aux tag", r.Name)
	}
	switch v := aux.Value().(type) {
	case int8:
		return int(v)
	case uint8:
		return int(v)
	case int16:
		return int(v)
	case uint16:
		return int(v)
	case int32:
		return int(v)
	case uint32:
		return int(v)
	case int:
		return v
	}
	log.Fatalf("%s: NM aux tag has unexpected type %T", r.Name, aux.Value())
	return 0
}

// alignedQueryLen returns the number of read bases participating in the
// alignment, i.e. the query length with soft and hard clips excluded.
func alignedQueryLen(r *sam.Record) int {
	n := 0
	for _, co := range r.Cigar {
		t := co.Type()
		if t == sam.CigarSoftClipped || t == sam.CigarHardClipped {
			continue
		}
		if t.Consumes().Query == 1 {
			n += co.Len()
		}
	}
	return n
}

// HasPerfectMapping reports whether r maps "perfectly": either a nonzero
// mapping quality with no more than maxErrorRate mismatches, or a
// full-length single-block alignment with zero mismatches.  The second case
// keeps degenerate full matches that carry mapping quality zero.
func HasPerfectMapping(r *sam.Record) bool {
	if r.Flags&sam.Unmapped != 0 {
		return false
	}
	qlen := alignedQueryLen(r)
	nm := editDistance(r)
	if r.MapQ > 0 && float64(nm) <= math.Ceil(maxErrorRate*float64(qlen)) {
		return true
	}
	return len(r.Cigar) == 1 && r.Cigar[0].Type() == sam.CigarMatch &&
		r.Cigar[0].Len() == qlen && nm == 0
}

// SpansRegion reports whether r's alignment covers all of region.  It is
// monotonic: a read spanning region also spans any sub-interval of it.
func SpansRegion(r *sam.Record, region interval.Entry) bool {
	return PosType(r.Start()) <= region.Start && PosType(r.End()) >= region.End
}

// alignedBlocks returns the reference intervals covered by r's alignment,
// one block per match-type cigar op.  Deletions and skips advance the
// reference cursor between blocks; insertions split adjacent blocks without
// advancing it.
func alignedBlocks(r *sam.Record) []interval.Entry {
	pos := PosType(r.Start())
	blocks := make([]interval.Entry, 0, len(r.Cigar))
	for _, co := range r.Cigar {
		switch co.Type() {
		case sam.CigarMatch, sam.CigarEqual, sam.CigarMismatch:
			blocks = append(blocks, interval.Entry{Chrom: r.Ref.Name(), Start: pos, End: pos + PosType(co.Len())})
			pos += PosType(co.Len())
		case sam.CigarDeletion, sam.CigarSkipped:
			pos += PosType(co.Len())
		}
	}
	return blocks
}

// HasGapsInRegion reports whether r's alignment is interrupted inside
// region: more than one aligned block overlaps it.
func HasGapsInRegion(r *sam.Record, region interval.Entry) bool {
	n := 0
	for _, b := range alignedBlocks(r) {
		if b.Start < region.End && b.End > region.Start {
			n++
		}
	}
	return n > 1
}

// PairSpansRegions reports whether pair has two reads that together flank
// regions: the leftmost read starts before the first region and the
// rightmost read ends after the last one.  Either read may still overlap
// the region breakpoints.
func PairSpansRegions(pair Pair, regions []interval.Entry) bool {
	return len(pair) == 2 &&
		PosType(pair[0].Start()) < regions[0].Start &&
		PosType(pair[1].End()) > regions[len(regions)-1].End
}

// SoftClipsAtBreakpoint reports whether r maps up to an edge of region and
// soft clips at that edge.  Either the alignment stops at the breakpoint
// start with a trailing soft clip, or it begins just past the breakpoint
// end with a leading soft clip.  The read must map perfectly so the clip
// reflects its best placement.
func SoftClipsAtBreakpoint(r *sam.Record, region interval.Entry) bool {
	if !HasPerfectMapping(r) || len(r.Cigar) == 0 {
		return false
	}
	if PosType(r.End()) == region.Start && r.Cigar[len(r.Cigar)-1].Type() == sam.CigarSoftClipped {
		return true
	}
	return PosType(r.Start()) == region.End+1 && r.Cigar[0].Type() == sam.CigarSoftClipped
}

// MapsOutsideRegions reports whether r lies entirely before the first
// region or entirely after the last one.
func MapsOutsideRegions(r *sam.Record, regions []interval.Entry) bool {
	first := regions[0]
	last := regions[len(regions)-1]
	return (PosType(r.Start()) < first.Start && PosType(r.End()) < first.Start) ||
		(PosType(r.Start()) > last.End && PosType(r.End()) > last.End)
}

// IsProperPair reports whether r's absolute template length falls within
// the sample's insert-size thresholds.  NaN thresholds (empty insert-size
// population) never match.
func IsProperPair(r *sam.Record, lower, upper float64) bool {
	tlen := math.Abs(float64(r.TempLen))
	return lower <= tlen && tlen <= upper
}
