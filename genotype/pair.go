package genotype

import (
	"sort"

	"github.com/grailbio/hts/sam"
)

// Pair holds the one or two alignments sharing a read name, ordered by
// ascending reference position.  Index 0 is the leftmost-positioned read,
// not necessarily read 1 of the template; the classification rules assume
// this positional ordering.
type Pair []*sam.Record

// readIdentity distinguishes physical alignment records.  Fetches over
// adjacent merged regions can return the same record more than once.
type readIdentity struct {
	name  string
	flags sam.Flags
	refID int
	pos   int
}

func identify(r *sam.Record) readIdentity {
	refID := -1
	if r.Ref != nil {
		refID = r.Ref.ID()
	}
	return readIdentity{name: r.Name, flags: r.Flags, refID: refID, pos: r.Pos}
}

// groupPairs drops secondary and supplementary alignments, dedupes the
// remaining reads, and groups them into Pairs by read name.
func groupPairs(reads []*sam.Record) map[string]Pair {
	seen := make(map[readIdentity]bool, len(reads))
	pairs := make(map[string]Pair)
	for _, r := range reads {
		if r.Flags&(sam.Secondary|sam.Supplementary) != 0 {
			continue
		}
		id := identify(r)
		if seen[id] {
			continue
		}
		seen[id] = true
		pairs[r.Name] = append(pairs[r.Name], r)
	}
	for _, pair := range pairs {
		sort.SliceStable(pair, func(i, j int) bool { return pair[i].Pos < pair[j].Pos })
	}
	return pairs
}

// sortedNames returns the pair names in lexicographic order so that
// classification output is deterministic run to run.
func sortedNames(pairs map[string]Pair) []string {
	names := make([]string, 0, len(pairs))
	for name := range pairs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
