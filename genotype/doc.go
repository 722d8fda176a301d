// Package genotype classifies read pairs near structural-variant
// breakpoints as concordant (consistent with the reference) or discordant
// (consistent with the variant), and converts the two counts into a
// genotype call with a Phred-scaled likelihood.
//
// The decision procedure is a per-SV-type ordered rule chain; the first
// matching rule labels the pair and later rules are not consulted.  Pairs
// matching no rule stay unclassified and are excluded from both counts.
package genotype
