package genotype

import (
	"context"
	"math"

	"github.com/grailbio/base/log"
	"github.com/grailbio/bio/encoding/bamprovider"
	"github.com/pkg/errors"

	"github.com/svtoolkit/svgenotyper/interval"
)

// Opts configures a genotyping run.
type Opts struct {
	// CallsPath is the SV call table (see Call for the column layout).
	CallsPath string
	// ControlRegionsPath is a BED-like table with copy number in column 4;
	// only copy "2" rows calibrate the insert-size statistics.
	ControlRegionsPath string
	// BAMPaths lists one alignment dataset per sample.
	BAMPaths []string
	// ReportPath receives the genotype table; "-" writes to stdout.
	ReportPath string
	// ConcordantBAMPath and DiscordantBAMPath receive every read belonging
	// to a classified pair, under the first sample's header.
	ConcordantBAMPath string
	DiscordantBAMPath string
}

// DefaultOpts holds the default option values.
var DefaultOpts = Opts{
	ConcordantBAMPath: "concordant_reads.bam",
	DiscordantBAMPath: "discordant_reads.bam",
}

// padMargin converts a sample's mean insert size into the breakpoint
// padding distance.  An undefined mean (empty insert-size population)
// yields no padding.
func padMargin(meanInsertSize float64) PosType {
	if math.IsNaN(meanInsertSize) {
		return 0
	}
	return PosType(meanInsertSize)
}

// Run genotypes every SV call against every sample, sequentially, writing
// one report row per (call, sample).  Inputs are read fully before any
// classification; sample thresholds are estimated before any call is
// processed and never change afterwards.
func Run(ctx context.Context, opts *Opts) (err error) {
	calls, err := ReadCalls(opts.CallsPath)
	if err != nil {
		return err
	}
	controls, err := interval.ReadControlRegions(opts.ControlRegionsPath)
	if err != nil {
		return err
	}
	var copy2 []interval.Entry
	for _, region := range controls {
		if region.CopyNumber == "2" {
			copy2 = append(copy2, region.Entry)
		}
	}
	log.Debug.Printf("loaded %d control regions, %d with copy number 2", len(controls), len(copy2))
	if len(opts.BAMPaths) == 0 {
		return errors.New("no alignment datasets given")
	}

	samples := make([]*Sample, 0, len(opts.BAMPaths))
	defer func() {
		for _, s := range samples {
			if cerr := s.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}
	}()
	for _, path := range opts.BAMPaths {
		s, err := NewSample(path, bamprovider.NewProvider(path))
		if err != nil {
			return err
		}
		samples = append(samples, s)
		if err := s.EstimateInsertSize(copy2); err != nil {
			return err
		}
	}

	return genotypeCalls(ctx, opts, calls, samples)
}

// genotypeCalls runs the classification and genotyping loop over already
// calibrated samples.
func genotypeCalls(ctx context.Context, opts *Opts, calls []Call, samples []*Sample) (err error) {
	report, err := newReportWriter(ctx, opts.ReportPath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := report.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if err = report.writeHeader(); err != nil {
		return err
	}

	// Both read streams share the first sample's header.
	concordantSink, err := newReadSink(ctx, opts.ConcordantBAMPath, samples[0].Header())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := concordantSink.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	discordantSink, err := newReadSink(ctx, opts.DiscordantBAMPath, samples[0].Header())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := discordantSink.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	for _, call := range calls {
		breakpoints := call.Breakpoints()
		log.Debug.Printf("breakpoint intervals: %v", breakpoints)
		for _, s := range samples {
			// Inspect either side of the breakpoint(s) by padding each with
			// the sample's mean insert size; merging avoids double counting
			// support across adjacent breakpoints.
			fetchRegions := interval.Merge(interval.Pad(breakpoints, padMargin(s.MeanInsertSize), s.ChromLens()))

			concordant, discordant, err := s.ClassifyRegion(fetchRegions, breakpoints, call.Type)
			if err != nil {
				return err
			}
			if err := concordantSink.writePairs(concordant); err != nil {
				return err
			}
			if err := discordantSink.writePairs(discordant); err != nil {
				return err
			}

			genotype, likelihood := CallGenotype(len(concordant), len(discordant))
			log.Debug.Printf("%s: %s had %d concordant, %d discordant for genotype %s (GL: %s)",
				s.Name, call.Type, len(concordant), len(discordant), genotype, likelihood)
			if err := report.writeRow(call, len(concordant), len(discordant), genotype, likelihood); err != nil {
				return err
			}
		}
	}
	return nil
}
