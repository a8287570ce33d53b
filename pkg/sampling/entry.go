package sampling

// ScoredEntry is the in-memory state held by a reservoir or full-load
// sampler: a score, the owning line bytes, and (only meaningful in
// preserve-input-order modes) the 0-based position of the line within the
// body stream.
type ScoredEntry struct {
	Score            float64
	Line             []byte
	OriginalPosition uint64
}

// scoredHeap is a container/heap min-heap on Score, giving the N
// highest-scored entries seen so far the top of a max-reservoir.
type scoredHeap []ScoredEntry

func (h scoredHeap) Len() int            { return len(h) }
func (h scoredHeap) Less(i, j int) bool  { return h[i].Score < h[j].Score }
func (h scoredHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *scoredHeap) Push(x interface{}) { *h = append(*h, x.(ScoredEntry)) }
func (h *scoredHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
