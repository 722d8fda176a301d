package genotype

import (
	"bytes"
	"fmt"

	"github.com/grailbio/hts/sam"
)

var (
	testChr1, _   = sam.NewReference("chr1", "", "", 100000, nil, nil)
	testChr2, _   = sam.NewReference("chr2", "", "", 200000, nil, nil)
	testHeader, _ = sam.NewHeader(nil, []*sam.Reference{testChr1, testChr2})

	fwd = sam.Paired
	rev = sam.Paired | sam.Reverse
)

func newAux(name string, val interface{}) sam.Aux {
	aux, err := sam.NewAux(sam.NewTag(name), val)
	if err != nil {
		panic(fmt.Sprintf("error creating %s %v tag: %v", name, val, err))
	}
	return aux
}

// newRecord builds a mapped test read with a clean edit distance.  Callers
// adjust Flags, TempLen, MapQ or the NM tag afterwards as needed.
func newRecord(name string, ref *sam.Reference, pos int, flags sam.Flags, cigar sam.Cigar) *sam.Record {
	r := sam.GetFromFreePool()
	r.Name = name
	r.Ref = ref
	r.Pos = pos
	r.MateRef = ref
	r.Flags = flags
	r.Cigar = cigar
	r.MapQ = 60
	qlen := 0
	for _, co := range cigar {
		if co.Type().Consumes().Query == 1 {
			qlen += co.Len()
		}
	}
	r.Seq = sam.NewSeq(bytes.Repeat([]byte{'A'}, qlen))
	r.Qual = bytes.Repeat([]byte{30}, qlen)
	r.AuxFields = sam.AuxFields{newAux("NM", uint8(0))}
	return r
}

func setNM(r *sam.Record, nm int) *sam.Record {
	r.AuxFields = sam.AuxFields{newAux("NM", uint8(nm))}
	return r
}

func cigarM(n int) sam.Cigar {
	return sam.Cigar{sam.NewCigarOp(sam.CigarMatch, n)}
}
