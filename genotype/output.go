package genotype

import (
	"context"
	"fmt"
	"os"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/sam"
)

// reportWriter emits the per-(call, sample) genotype table.
type reportWriter struct {
	w     *tsv.Writer
	close func() error
}

// newReportWriter opens the report at path; "-" writes to stdout for
// piping.
func newReportWriter(ctx context.Context, path string) (*reportWriter, error) {
	if path == "-" {
		return &reportWriter{
			w:     tsv.NewWriter(os.Stdout),
			close: func() error { return nil },
		}, nil
	}
	f, err := file.Create(ctx, path)
	if err != nil {
		return nil, err
	}
	return &reportWriter{
		w:     tsv.NewWriter(f.Writer(ctx)),
		close: func() error { return f.Close(ctx) },
	}, nil
}

func (rw *reportWriter) writeHeader() error {
	for _, col := range []string{"chr", "start", "end", "sv_call", "concordant", "discordant", "genotype", "genotype_likelihood"} {
		rw.w.WriteString(col)
	}
	return rw.w.EndLine()
}

// writeRow emits one (SV call, sample) result.  The coordinate columns
// carry the call's contig name and contig-local breakpoint coordinates;
// depths are formatted to two decimal places.
func (rw *reportWriter) writeRow(c Call, concordant, discordant int, genotype string, likelihood Likelihood) error {
	rw.w.WriteString(c.ContigName)
	rw.w.WriteUint32(uint32(c.ContigStart))
	rw.w.WriteUint32(uint32(c.ContigEnd))
	rw.w.WriteString(c.Type)
	rw.w.WriteString(fmt.Sprintf("%.2f", float64(concordant)))
	rw.w.WriteString(fmt.Sprintf("%.2f", float64(discordant)))
	rw.w.WriteString(genotype)
	rw.w.WriteString(likelihood.String())
	return rw.w.EndLine()
}

func (rw *reportWriter) Close() error {
	if err := rw.w.Flush(); err != nil {
		rw.close() // nolint: errcheck
		return err
	}
	return rw.close()
}

// readSink persists every read of every classified pair to a BAM stream
// for downstream inspection.
type readSink struct {
	ctx context.Context
	f   file.File
	w   *bam.Writer
}

// newReadSink opens a BAM output stream sharing the given header.
func newReadSink(ctx context.Context, path string, header *sam.Header) (*readSink, error) {
	f, err := file.Create(ctx, path)
	if err != nil {
		return nil, err
	}
	w, err := bam.NewWriter(f.Writer(ctx), header, 1)
	if err != nil {
		f.Close(ctx) // nolint: errcheck
		return nil, err
	}
	return &readSink{ctx: ctx, f: f, w: w}, nil
}

func (s *readSink) writePairs(pairs []Pair) error {
	for _, pair := range pairs {
		for _, r := range pair {
			if err := s.w.Write(r); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *readSink) Close() error {
	err := s.w.Close()
	if cerr := s.f.Close(s.ctx); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
