package genotype

import (
	"math"

	"github.com/grailbio/base/log"
	"github.com/grailbio/hts/sam"

	"github.com/svtoolkit/svgenotyper/interval"
)

// Classification labels a read pair's relationship to an SV call.
type Classification int

const (
	// Unclassified pairs matched no rule and count toward neither total.
	Unclassified Classification = iota
	// Concordant pairs are consistent with the reference.
	Concordant
	// Discordant pairs are consistent with the variant.
	Discordant
)

// ruleContext carries everything a classification rule may inspect: the
// pair, the original (unpadded) breakpoint intervals, the interval spanning
// all breakpoints, and the sample's insert-size thresholds.
type ruleContext struct {
	pair        Pair
	breakpoints []interval.Entry
	svSpan      interval.Entry
	lower       float64
	upper       float64
}

// A rule pairs a predicate with the outcome it implies.  Rules are
// evaluated in order and the first match wins, so each chain's precedence
// is explicit in its slice ordering.
type rule struct {
	name    string
	outcome Classification
	match   func(*ruleContext) bool
}

func isForward(r *sam.Record) bool { return r.Flags&sam.Reverse == 0 }
func isReverse(r *sam.Record) bool { return r.Flags&sam.Reverse != 0 }

// perfectlyOriented reports whether the pair is complete, both reads map
// perfectly, and the leftmost read is forward with a reverse mate.
func perfectlyOriented(pair Pair) bool {
	return len(pair) == 2 &&
		HasPerfectMapping(pair[0]) && HasPerfectMapping(pair[1]) &&
		isForward(pair[0]) && isReverse(pair[1])
}

// mateLost reports whether mate is unmapped or maps to a different
// reference than anchor.
func mateLost(anchor, mate *sam.Record) bool {
	if mate.Flags&sam.Unmapped != 0 {
		return true
	}
	if anchor.Ref == nil || mate.Ref == nil {
		return anchor.Ref != mate.Ref
	}
	return anchor.Ref.ID() != mate.Ref.ID()
}

// softClipsAtAnyBreakpoint applies SoftClipsAtBreakpoint to every
// breakpoint for the given pair member.
func softClipsAtAnyBreakpoint(c *ruleContext, idx int) bool {
	if idx >= len(c.pair) {
		return false
	}
	for _, bp := range c.breakpoints {
		if SoftClipsAtBreakpoint(c.pair[idx], bp) {
			return true
		}
	}
	return false
}

// insertionRules classify pairs near an insertion's two 1-base
// breakpoints.
var insertionRules = []rule{
	{"read spans SV with gaps", Discordant, func(c *ruleContext) bool {
		for _, r := range c.pair {
			if SpansRegion(r, c.svSpan) && HasGapsInRegion(r, c.svSpan) {
				return true
			}
		}
		return false
	}},
	{"soft clips at breakpoint", Discordant, func(c *ruleContext) bool {
		return softClipsAtAnyBreakpoint(c, 0) || softClipsAtAnyBreakpoint(c, 1)
	}},
	{"forward read spans left breakpoint", Concordant, func(c *ruleContext) bool {
		r := c.pair[0]
		return isForward(r) && HasPerfectMapping(r) && SpansRegion(r, c.breakpoints[0])
	}},
	{"reverse mate spans right breakpoint", Concordant, func(c *ruleContext) bool {
		if len(c.pair) != 2 {
			return false
		}
		r := c.pair[1]
		return isReverse(r) && HasPerfectMapping(r) && SpansRegion(r, c.breakpoints[len(c.breakpoints)-1])
	}},
	// The last two rules share a gate: a complete, perfectly mapped,
	// correctly oriented pair.  A pair passing the gate but matching
	// neither inner condition stays unclassified.
	{"pair flanks breakpoints", Concordant, func(c *ruleContext) bool {
		if !perfectlyOriented(c.pair) {
			return false
		}
		outside0 := MapsOutsideRegions(c.pair[0], c.breakpoints)
		outside1 := MapsOutsideRegions(c.pair[1], c.breakpoints)
		return (outside0 && !outside1) ||
			(!outside0 && outside1) ||
			(outside0 && SpansRegion(c.pair[1], c.breakpoints[0])) ||
			(SpansRegion(c.pair[0], c.breakpoints[len(c.breakpoints)-1]) && outside1)
	}},
	{"reads too far apart", Discordant, func(c *ruleContext) bool {
		return perfectlyOriented(c.pair) && math.Abs(float64(c.pair[0].TempLen)) > c.upper
	}},
}

// deletionRules classify pairs against a deletion's single spanning
// breakpoint interval.
var deletionRules = []rule{
	{"proper pair spans deletion", Concordant, func(c *ruleContext) bool {
		return perfectlyOriented(c.pair) && PairSpansRegions(c.pair, c.breakpoints) &&
			IsProperPair(c.pair[0], c.lower, c.upper)
	}},
	{"reads too close together", Discordant, func(c *ruleContext) bool {
		return perfectlyOriented(c.pair) && PairSpansRegions(c.pair, c.breakpoints) &&
			math.Abs(float64(c.pair[0].TempLen)) < c.lower
	}},
	{"one end anchored to left", Discordant, func(c *ruleContext) bool {
		r := c.pair[0]
		if !HasPerfectMapping(r) || !isForward(r) || PosType(r.End()) >= c.breakpoints[0].Start {
			return false
		}
		return len(c.pair) == 1 || mateLost(r, c.pair[1])
	}},
	{"one end anchored to right", Discordant, func(c *ruleContext) bool {
		if len(c.pair) != 1 {
			return false
		}
		r := c.pair[0]
		return HasPerfectMapping(r) && isReverse(r) &&
			PosType(r.Start()) > c.breakpoints[len(c.breakpoints)-1].End
	}},
	{"one end anchored to right, mate lost", Discordant, func(c *ruleContext) bool {
		if len(c.pair) != 2 {
			return false
		}
		r := c.pair[1]
		return HasPerfectMapping(r) && isReverse(r) &&
			PosType(r.Start()) > c.breakpoints[len(c.breakpoints)-1].End &&
			mateLost(r, c.pair[0])
	}},
	{"soft clips at breakpoint", Discordant, func(c *ruleContext) bool {
		if SoftClipsAtBreakpoint(c.pair[0], c.breakpoints[0]) {
			return true
		}
		return len(c.pair) == 2 && SoftClipsAtBreakpoint(c.pair[1], c.breakpoints[0])
	}},
}

// controlRules count properly paired, correctly oriented pairs in control
// regions.  Control regions define no discordant case.
var controlRules = []rule{
	{"proper pair", Concordant, func(c *ruleContext) bool {
		return perfectlyOriented(c.pair) && IsProperPair(c.pair[0], c.lower, c.upper)
	}},
}

// rulesForType selects the rule chain for an SV event type.  Event types
// other than insertion and deletion (e.g. baseline depth estimation over
// control regions) use the control chain.
func rulesForType(eventType string) []rule {
	switch eventType {
	case EventInsertion:
		return insertionRules
	case EventDeletion:
		return deletionRules
	}
	return controlRules
}

// classifyPair runs the rule chain over the pair in c.  The first matching
// rule decides; no match leaves the pair unclassified.
func classifyPair(c *ruleContext, rules []rule) Classification {
	for _, ru := range rules {
		if ru.match(c) {
			if ru.outcome == Discordant {
				log.Debug.Printf("discordant: %s", ru.name)
			}
			return ru.outcome
		}
	}
	return Unclassified
}

// ClassifyRegion fetches the reads overlapping the padded fetch regions,
// groups them into pairs, and labels each pair against the original
// (unpadded) breakpoint intervals of an SV of the given event type.
func (s *Sample) ClassifyRegion(fetchRegions, breakpoints []interval.Entry, eventType string) (concordant, discordant []Pair, err error) {
	var reads []*sam.Record
	for _, region := range fetchRegions {
		rs, err := s.fetch(region)
		if err != nil {
			return nil, nil, err
		}
		reads = append(reads, rs...)
	}
	pairs := groupPairs(reads)
	log.Debug.Printf("%s: found %d potential read pairs near %v", s.Name, len(pairs), fetchRegions)

	c := ruleContext{
		breakpoints: breakpoints,
		svSpan:      interval.Span(breakpoints),
		lower:       s.LowerInsertThreshold,
		upper:       s.UpperInsertThreshold,
	}
	rules := rulesForType(eventType)
	for _, name := range sortedNames(pairs) {
		c.pair = pairs[name]
		switch classifyPair(&c, rules) {
		case Concordant:
			concordant = append(concordant, c.pair)
		case Discordant:
			discordant = append(discordant, c.pair)
		}
	}
	return concordant, discordant, nil
}
