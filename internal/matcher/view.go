package matcher

import "sort"

// RankedView is an immutable, fully-sorted snapshot of MatchResults for
// one (reader-epoch, query-epoch) pair. Readers either see the old view
// or the new one in its entirety; there is no observable in-between
// state because a view is never mutated after publication.
type RankedView struct {
	ReaderEpoch uint64
	QueryEpoch  uint64
	Results     []MatchResult
}

// Len is the number of surviving results in this view.
func (v RankedView) Len() int { return len(v.Results) }

func newRankedView(readerEpoch, queryEpoch uint64, results []MatchResult) RankedView {
	sort.Slice(results, func(i, j int) bool { return less(results[i], results[j]) })
	return RankedView{ReaderEpoch: readerEpoch, QueryEpoch: queryEpoch, Results: results}
}
