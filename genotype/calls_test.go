package genotype

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/grailbio/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svtoolkit/svgenotyper/interval"
)

func TestReadCalls(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	path := filepath.Join(tempDir, "calls.txt")
	content := "chr1\t1000\t2000\tdeletion\t1000\tcontig1\t100\t1100\n" +
		"chr2\t5000\t5001\tinsertion\t40\tcontig2\t200\t1201\n"
	require.NoError(t, ioutil.WriteFile(path, []byte(content), 0644))

	calls, err := ReadCalls(path)
	require.NoError(t, err)
	assert.Equal(t, []Call{
		{
			Chrom: "chr1", Start: 1000, End: 2000,
			Type: EventDeletion, Length: 1000,
			ContigName: "contig1", ContigStart: 100, ContigEnd: 1100,
		},
		{
			Chrom: "chr2", Start: 5000, End: 5001,
			Type: EventInsertion, Length: 40,
			ContigName: "contig2", ContigStart: 200, ContigEnd: 1201,
		},
	}, calls)

	require.NoError(t, ioutil.WriteFile(path, []byte("chr1\t1000\t2000\tdeletion\tlong\tcontig1\t100\t1100\n"), 0644))
	_, err = ReadCalls(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad event length")

	require.NoError(t, ioutil.WriteFile(path, []byte("chr1\t1000\t2000\tdeletion\n"), 0644))
	_, err = ReadCalls(path)
	require.Error(t, err)
}

func TestBreakpoints(t *testing.T) {
	deletion := Call{Type: EventDeletion, ContigName: "contig1", ContigStart: 100, ContigEnd: 1100}
	assert.Equal(t, []interval.Entry{
		{Chrom: "contig1", Start: 100, End: 1100},
	}, deletion.Breakpoints())

	insertion := Call{Type: EventInsertion, ContigName: "contig2", ContigStart: 200, ContigEnd: 1201}
	assert.Equal(t, []interval.Entry{
		{Chrom: "contig2", Start: 200, End: 201},
		{Chrom: "contig2", Start: 1200, End: 1201},
	}, insertion.Breakpoints())

	// Unknown event types are genotyped like insertions: two point
	// breakpoints.
	other := Call{Type: "inversion", ContigName: "contig3", ContigStart: 10, ContigEnd: 20}
	assert.Equal(t, 2, len(other.Breakpoints()))
}
