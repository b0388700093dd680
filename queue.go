package sprout

import (
	"math/rand"
	"sort"
	"time"
)

// DefaultQueueWindow is the span used to partition a due-sorted queue into
// windows before interleaving.
const DefaultQueueWindow = 30 * time.Minute

// QueueItem is the scheduling view of one queued card: its id, the parent
// linking sibling sub-cards (cards with no parent pool together), and its
// due time.
type QueueItem struct {
	ID     string
	Parent string
	Due    time.Time
}

// OrderQueue returns a presentation order for the items: sorted ascending
// by due, partitioned into contiguous windows spanning at most window from
// each window's first due, and interleaved within each window so that
// sibling cards sharing a parent never cluster. The result is always a
// permutation of the input; the input slice is not modified.
//
// Randomness comes from rng so tests can inject a deterministic source; a
// nil rng falls back to a time-seeded one.
func OrderQueue(items []QueueItem, window time.Duration, rng *rand.Rand) []QueueItem {
	out := make([]QueueItem, len(items))
	copy(out, items)
	if len(out) <= 1 {
		return out
	}

	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Due.Before(out[j].Due)
	})

	// A new window starts whenever a card's due exceeds the window start
	// by more than the window span. Windows never reorder across their
	// boundaries, only within.
	result := make([]QueueItem, 0, len(out))
	for start := 0; start < len(out); {
		end := start + 1
		for end < len(out) && out[end].Due.Sub(out[start].Due) <= window {
			end++
		}
		result = append(result, interleave(out[start:end], rng)...)
		start = end
	}
	return result
}

// interleave shuffles a window's items so siblings are maximally separated:
// group by parent, shuffle each group, then take one card from each group
// in turn until all are drained. A window with a single group degrades to
// a plain shuffle.
func interleave(window []QueueItem, rng *rand.Rand) []QueueItem {
	if len(window) <= 1 {
		res := make([]QueueItem, len(window))
		copy(res, window)
		return res
	}

	groups := make(map[string][]QueueItem)
	var order []string // first-appearance order keeps the result deterministic
	for _, item := range window {
		if _, ok := groups[item.Parent]; !ok {
			order = append(order, item.Parent)
		}
		groups[item.Parent] = append(groups[item.Parent], item)
	}

	for _, key := range order {
		group := groups[key]
		rng.Shuffle(len(group), func(i, j int) {
			group[i], group[j] = group[j], group[i]
		})
	}

	res := make([]QueueItem, 0, len(window))
	taken := make(map[string]int, len(order))
	for len(res) < len(window) {
		for _, key := range order {
			group := groups[key]
			if n := taken[key]; n < len(group) {
				res = append(res, group[n])
				taken[key] = n + 1
			}
		}
	}
	return res
}
