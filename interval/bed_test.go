package interval

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/grailbio/testutil"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	require.NoError(t, ioutil.WriteFile(path, []byte(content), 0644))
}

func TestReadRows(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	path := filepath.Join(tempDir, "calls.txt")
	writeFile(t, path, "chr1\t100\t200\n\nchr2 300 400 extra\n")

	rows, err := ReadRows(path, 3)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"chr1", "100", "200"},
		{"chr2", "300", "400", "extra"},
	}, rows)

	_, err = ReadRows(path, 4)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")

	_, err = ReadRows(filepath.Join(tempDir, "nonexistent.txt"), 3)
	require.Error(t, err)
}

func TestReadRowsGzip(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	path := filepath.Join(tempDir, "calls.txt.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte("chr1\t100\t200\nchr1\t500\t600\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	rows, err := ReadRows(path, 3)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"chr1", "100", "200"},
		{"chr1", "500", "600"},
	}, rows)
}

func TestParseEntry(t *testing.T) {
	e, err := ParseEntry("chr1", "100", "200")
	require.NoError(t, err)
	assert.Equal(t, Entry{Chrom: "chr1", Start: 100, End: 200}, e)

	_, err = ParseEntry("chr1", "abc", "200")
	assert.Error(t, err)
	_, err = ParseEntry("chr1", "100", "xyz")
	assert.Error(t, err)
	_, err = ParseEntry("chr1", "-5", "200")
	assert.Error(t, err)
	// End before start.
	_, err = ParseEntry("chr1", "200", "100")
	assert.Error(t, err)
}

func TestReadControlRegions(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	path := filepath.Join(tempDir, "controls.bed")
	writeFile(t, path, "chr1\t1000\t2000\t2\nchr1\t3000\t4000\t3\nchr2\t100\t200\t2\n")

	regions, err := ReadControlRegions(path)
	require.NoError(t, err)
	assert.Equal(t, []ControlRegion{
		{Entry: Entry{Chrom: "chr1", Start: 1000, End: 2000}, CopyNumber: "2"},
		{Entry: Entry{Chrom: "chr1", Start: 3000, End: 4000}, CopyNumber: "3"},
		{Entry: Entry{Chrom: "chr2", Start: 100, End: 200}, CopyNumber: "2"},
	}, regions)

	// A row missing the copy-number column is an error.
	writeFile(t, path, "chr1\t1000\t2000\n")
	_, err = ReadControlRegions(path)
	assert.Error(t, err)
}
