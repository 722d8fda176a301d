package main

/*
sv-genotyper genotypes a set of structural-variant calls (insertions and
deletions) against one or more BAMs.  Read pairs near each call's
breakpoints are classified as concordant or discordant and the counts are
converted into a genotype with a Phred-scaled likelihood, one report row
per (call, sample).
*/

import (
	"flag"
	"fmt"
	"os"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"

	"github.com/svtoolkit/svgenotyper/genotype"
)

var (
	concordantBAM = flag.String("concordant-bam", genotype.DefaultOpts.ConcordantBAMPath,
		"Output BAM receiving every read of every concordant pair")
	discordantBAM = flag.String("discordant-bam", genotype.DefaultOpts.DiscordantBAMPath,
		"Output BAM receiving every read of every discordant pair")
)

func svGenotyperUsage() {
	fmt.Printf("Usage: %s [OPTIONS] sv_calls control_regions bam [bam...] output\n", os.Args[0])
	fmt.Printf("  sv_calls: SV call table with reference coordinates in columns 1-3, type in 4, length in 5, contig coordinates in 6-8\n")
	fmt.Printf("  control_regions: BED file with empirical copy number in column 4\n")
	fmt.Printf("  bam: one or more BAMs to genotype, one per sample\n")
	fmt.Printf("  output: report path; use - for stdout\n")
	fmt.Printf("Other options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = svGenotyperUsage
	shutdown := grail.Init()
	defer shutdown()

	args := flag.Args()
	if flag.NArg() < 4 {
		log.Fatalf("Missing positional arguments (sv_calls, control_regions, at least one bam, and output required); got '%v'", args)
	}
	ctx := vcontext.Background()
	opts := genotype.Opts{
		CallsPath:          args[0],
		ControlRegionsPath: args[1],
		BAMPaths:           args[2 : len(args)-1],
		ReportPath:         args[len(args)-1],
		ConcordantBAMPath:  *concordantBAM,
		DiscordantBAMPath:  *discordantBAM,
	}
	if err := genotype.Run(ctx, &opts); err != nil {
		log.Fatalf("sv-genotyper: %v", err)
	}
	log.Debug.Printf("exiting")
}
