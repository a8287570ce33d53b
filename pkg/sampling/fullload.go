package sampling

import "sort"

// loadAll reads every remaining body line into memory, tagging each with
// its 0-based original position. The full-load samplers in this file all
// need the complete set before they can produce output, unlike the
// streaming and reservoir samplers above.
func loadAll(d *runContext) ([]ScoredEntry, error) {
	var all []ScoredEntry
	var pos uint64
	for {
		ln, ok, err := d.src.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		all = append(all, ScoredEntry{Line: ln.Bytes, OriginalPosition: pos})
		pos++
	}
	return all, nil
}

// runShuffleAll implements the no-flags-given default: load every line,
// Fisher-Yates shuffle it with the run's Rng, and emit the whole file in
// the shuffled order. Under compatibility mode (which --print-random and
// --gen-random-inorder force on) every line instead gets a uniform score
// and the file is emitted in descending score order, with the score
// column when one is asked for. Never applies when --inorder is set,
// since a full shuffle has nothing left to preserve.
func runShuffleAll(d *runContext) error {
	all, err := loadAll(d)
	if err != nil {
		return err
	}
	if d.opts.CompatibilityMode {
		for i := range all {
			all[i].Score = d.scoreModel.UniformScore()
		}
		return emitReservoir(d, all)
	}
	d.rng.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	for _, e := range all {
		if err := d.writePlain(e.Line); err != nil {
			return err
		}
	}
	return nil
}

// runWeightedFullLoad implements weighted sampling without a bounded
// sample size: every line gets an A-Res score, and the whole file is
// emitted sorted by descending score (or, under --inorder, by its
// original position).
func runWeightedFullLoad(d *runContext) error {
	all, err := loadAll(d)
	if err != nil {
		return err
	}
	for i := range all {
		w, err := d.extractor.Weight(all[i].Line, d.weightSpec.Index, "", int(all[i].OriginalPosition)+1)
		if err != nil {
			return err
		}
		all[i].Score = d.scoreModel.WeightedScore(w)
	}
	return emitReservoir(d, all)
}

// runWithReplacement implements --replace: draw SampleSize lines
// independently and uniformly, with repeats allowed, from the fully
// loaded input. A SampleSize of 0 draws exactly len(input) lines; this
// mode does not produce an endless stream. Output order always follows
// draw order; --inorder is
// rejected for this mode at validation time since "input order" is not
// well defined once a line may be emitted more than once.
func runWithReplacement(d *runContext) error {
	all, err := loadAll(d)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		return nil
	}
	n := d.opts.SampleSize
	if n == 0 {
		n = int64(len(all))
	}
	for i := int64(0); i < n; i++ {
		idx := d.rng.UniformInt(0, uint64(len(all)))
		if err := d.writePlain(all[idx].Line); err != nil {
			return err
		}
	}
	return nil
}

// runBoundedUnweightedFullLoad handles a bounded, unweighted, non-replace
// sample outside Algorithm R's range: assign every line a uniform score,
// keep the top SampleSize by score via a plain sort, then apply the same
// output-order contract as the heap reservoir. Used chiefly for
// --compatibility-mode, where a full in-memory sort is preferred over
// Algorithm R's streaming replacement.
func runBoundedUnweightedFullLoad(d *runContext) error {
	all, err := loadAll(d)
	if err != nil {
		return err
	}
	for i := range all {
		all[i].Score = d.scoreModel.UniformScore()
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Score > all[j].Score })
	n := int(d.opts.SampleSize)
	if n < len(all) {
		all = all[:n]
	}
	return emitReservoir(d, all)
}
