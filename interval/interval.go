package interval

import (
	"fmt"
	"sort"
)

// PosType is the coordinate type for genomic positions.
type PosType int32

// Entry represents a single interval, with 0-based half-open coordinates.
type Entry struct {
	Chrom string
	Start PosType
	End   PosType
}

func (e Entry) String() string {
	return fmt.Sprintf("%s:%d-%d", e.Chrom, e.Start, e.End)
}

// Overlaps reports whether e and other share at least one base.
func (e Entry) Overlaps(other Entry) bool {
	return e.Chrom == other.Chrom && e.Start < other.End && other.Start < e.End
}

// Pad returns a copy of entries with margin added on both sides of each
// entry.  Results are clamped to [0, chromosome length]; entries on
// chromosomes absent from chromLens are clamped at zero only.
func Pad(entries []Entry, margin PosType, chromLens map[string]PosType) []Entry {
	padded := make([]Entry, 0, len(entries))
	for _, e := range entries {
		start := e.Start - margin
		if start < 0 {
			start = 0
		}
		end := e.End + margin
		if limit, ok := chromLens[e.Chrom]; ok && end > limit {
			end = limit
		}
		padded = append(padded, Entry{Chrom: e.Chrom, Start: start, End: end})
	}
	return padded
}

// Merge sorts entries by (chromosome, start) and merges overlapping and
// book-ended entries on the same chromosome.  The input slice is not
// modified.
func Merge(entries []Entry) []Entry {
	if len(entries) == 0 {
		return nil
	}
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Chrom != sorted[j].Chrom {
			return sorted[i].Chrom < sorted[j].Chrom
		}
		return sorted[i].Start < sorted[j].Start
	})
	merged := []Entry{sorted[0]}
	for _, e := range sorted[1:] {
		last := &merged[len(merged)-1]
		if e.Chrom == last.Chrom && e.Start <= last.End {
			if e.End > last.End {
				last.End = e.End
			}
			continue
		}
		merged = append(merged, e)
	}
	return merged
}

// Span returns the interval covering entries[0].Start through the last
// entry's End, on the first entry's chromosome.  Entries are expected to be
// position-sorted, as produced by Merge.
func Span(entries []Entry) Entry {
	return Entry{
		Chrom: entries[0].Chrom,
		Start: entries[0].Start,
		End:   entries[len(entries)-1].End,
	}
}
