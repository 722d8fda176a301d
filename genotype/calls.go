package genotype

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/svtoolkit/svgenotyper/interval"
)

// Event types recognized in the SV call table.  Any other value is treated
// as a control-region row: only concordant pairs are counted.
const (
	EventInsertion = "insertion"
	EventDeletion  = "deletion"
)

// Call is one structural-variant call: reference coordinates in columns
// 1-3, the event type and length, and the breakpoint coordinates within the
// locally assembled contig in columns 6-8.  Reads are genotyped against the
// contig coordinates.
type Call struct {
	Chrom       string
	Start       PosType
	End         PosType
	Type        string
	Length      int
	ContigName  string
	ContigStart PosType
	ContigEnd   PosType
}

// svCallFields is the required column count of the SV call table.
const svCallFields = 8

// ReadCalls loads the SV call table.  Malformed rows abort the load.
func ReadCalls(path string) ([]Call, error) {
	rows, err := interval.ReadRows(path, svCallFields)
	if err != nil {
		return nil, err
	}
	calls := make([]Call, 0, len(rows))
	for i, row := range rows {
		ref, err := interval.ParseEntry(row[0], row[1], row[2])
		if err != nil {
			return nil, errors.Wrapf(err, "%s: row %d", path, i+1)
		}
		length, err := strconv.Atoi(row[4])
		if err != nil {
			return nil, errors.Wrapf(err, "%s: row %d: bad event length %q", path, i+1, row[4])
		}
		contig, err := interval.ParseEntry(row[5], row[6], row[7])
		if err != nil {
			return nil, errors.Wrapf(err, "%s: row %d: contig coordinates", path, i+1)
		}
		calls = append(calls, Call{
			Chrom:       ref.Chrom,
			Start:       ref.Start,
			End:         ref.End,
			Type:        row[3],
			Length:      length,
			ContigName:  contig.Chrom,
			ContigStart: contig.Start,
			ContigEnd:   contig.End,
		})
	}
	return calls, nil
}

// Breakpoints returns the breakpoint intervals for c in contig coordinates.
// A deletion has a single interval spanning the deleted span; any other
// event type gets two 1-base intervals marking the left and right
// breakpoints.  The intervals are derived fresh on each call and never
// mutated afterwards.
func (c Call) Breakpoints() []interval.Entry {
	if c.Type == EventDeletion {
		return []interval.Entry{
			{Chrom: c.ContigName, Start: c.ContigStart, End: c.ContigEnd},
		}
	}
	return []interval.Entry{
		{Chrom: c.ContigName, Start: c.ContigStart, End: c.ContigStart + 1},
		{Chrom: c.ContigName, Start: c.ContigEnd - 1, End: c.ContigEnd},
	}
}
