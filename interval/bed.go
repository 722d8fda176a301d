package interval

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/vcontext"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// ControlRegion is a BED row whose fourth column encodes an empirical copy
// number.  Regions with copy number "2" are presumed diploid-normal and are
// used to calibrate insert-size statistics.
type ControlRegion struct {
	Entry
	CopyNumber string
}

// ReadRows reads a whitespace-separated table, skipping blank lines.  Every
// row must have at least minFields fields; a short row is an error, not a
// best-effort parse.
func ReadRows(path string, minFields int) (rows [][]string, err error) {
	ctx := vcontext.Background()
	var infile file.File
	if infile, err = file.Open(ctx, path); err != nil {
		return nil, err
	}
	defer func() {
		if cerr := infile.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	reader := io.Reader(infile.Reader(ctx))
	switch fileio.DetermineType(path) {
	case fileio.Gzip:
		var gz *gzip.Reader
		if gz, err = gzip.NewReader(reader); err != nil {
			return nil, err
		}
		reader = gz
	}

	scanner := bufio.NewScanner(reader)
	lineIdx := 0
	for scanner.Scan() {
		lineIdx++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < minFields {
			return nil, errors.Errorf("%s: line %d has %d fields, want at least %d", path, lineIdx, len(fields), minFields)
		}
		rows = append(rows, fields)
	}
	if err = scanner.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

// ParseEntry parses chrom/start/end columns into an Entry.
func ParseEntry(chrom, start, end string) (Entry, error) {
	s, err := strconv.Atoi(start)
	if err != nil {
		return Entry{}, errors.Wrapf(err, "bad start coordinate %q", start)
	}
	e, err := strconv.Atoi(end)
	if err != nil {
		return Entry{}, errors.Wrapf(err, "bad end coordinate %q", end)
	}
	if s < 0 || e < s {
		return Entry{}, errors.Errorf("invalid coordinate pair [%d, %d)", s, e)
	}
	return Entry{Chrom: chrom, Start: PosType(s), End: PosType(e)}, nil
}

// ReadControlRegions loads a BED-like control-region table with a
// copy-number string in column 4.
func ReadControlRegions(path string) ([]ControlRegion, error) {
	rows, err := ReadRows(path, 4)
	if err != nil {
		return nil, err
	}
	regions := make([]ControlRegion, 0, len(rows))
	for i, row := range rows {
		entry, err := ParseEntry(row[0], row[1], row[2])
		if err != nil {
			return nil, errors.Wrapf(err, "%s: row %d", path, i+1)
		}
		regions = append(regions, ControlRegion{Entry: entry, CopyNumber: row[3]})
	}
	return regions, nil
}
