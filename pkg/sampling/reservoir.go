package sampling

import (
	"container/heap"
	"sort"
)

// runHeapReservoir implements a heap-based reservoir: a min-heap of
// capacity n keyed on score. Used for every bounded weighted sample, and
// for unweighted samples that do not go to Algorithm R, outside
// compatibility mode (which uses runBoundedUnweightedFullLoad instead).
//
// Rather than draining the heap element-by-element and reversing the
// ascending pop order, this sorts the final backing array descending by
// score once — the same final sequence with one sort instead of n pops.
func runHeapReservoir(d *runContext, weighted bool) error {
	n := int(d.opts.SampleSize)
	h := make(scoredHeap, 0, n)
	heap.Init(&h)

	var pos uint64
	for {
		ln, ok, err := d.src.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}

		score, err := d.scoreLine(ln, weighted)
		if err != nil {
			return err
		}

		entry := ScoredEntry{Score: score, Line: ln.Bytes, OriginalPosition: pos}
		pos++

		if h.Len() < n {
			heap.Push(&h, entry)
		} else if n > 0 && score > h[0].Score {
			h[0] = entry
			heap.Fix(&h, 0)
		}
	}

	entries := []ScoredEntry(h)
	return emitReservoir(d, entries)
}

// runAlgorithmR implements Waterman/Knuth reservoir sampling, O(1) insert
// / O(n) memory, used for large unweighted samples outside compatibility
// mode and without value printing.
func runAlgorithmR(d *runContext) error {
	n := int(d.opts.SampleSize)
	buf := make([]ScoredEntry, 0, n)

	var t uint64
	for {
		ln, ok, err := d.src.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}

		if len(buf) < n {
			buf = append(buf, ScoredEntry{Line: ln.Bytes, OriginalPosition: t})
		} else {
			i := d.rng.UniformInt(0, t+1)
			if i < uint64(n) {
				buf[i] = ScoredEntry{Line: ln.Bytes, OriginalPosition: t}
			}
		}
		t++
	}

	if d.opts.PreserveInputOrder {
		sort.Slice(buf, func(i, j int) bool { return buf[i].OriginalPosition < buf[j].OriginalPosition })
	} else {
		d.rng.Shuffle(len(buf), func(i, j int) { buf[i], buf[j] = buf[j], buf[i] })
	}

	for _, e := range buf {
		if err := d.writePlain(e.Line); err != nil {
			return err
		}
	}
	return nil
}

// emitReservoir applies the output-order contract to a filled reservoir:
// preserve-input-order sorts by original position, otherwise the sample
// is emitted in descending-score (weighted-selection) order.
func emitReservoir(d *runContext, entries []ScoredEntry) error {
	if d.opts.PreserveInputOrder {
		sort.Slice(entries, func(i, j int) bool { return entries[i].OriginalPosition < entries[j].OriginalPosition })
	} else {
		sort.Slice(entries, func(i, j int) bool { return entries[i].Score > entries[j].Score })
	}
	for _, e := range entries {
		if err := d.writeScored(e.Score, e.Line); err != nil {
			return err
		}
	}
	return nil
}
