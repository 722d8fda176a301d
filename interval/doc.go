// Package interval provides the small amount of genomic-interval arithmetic
// the genotyper needs: 0-based half-open entries, padding clamped to
// chromosome bounds, merging of overlapping entries, and loaders for the
// BED-like tab-separated tables used as input.
package interval
