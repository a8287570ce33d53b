package sampling

import (
	"io"
)

// algorithmRThreshold is the 128 KiB-line sample-size floor above which
// Algorithm R's O(1)-per-line replacement beats the heap reservoir's
// O(log n) updates enough to be worth giving up the heap reservoir's
// ability to carry a score per line.
const algorithmRThreshold = 128 * 1024

// skipSamplingThreshold is the probability at or below which Bernoulli
// sampling switches from the per-line draw form to the skip-counter form
// by default.
const skipSamplingThreshold = 0.04

// runContext bundles one Dispatch call's resolved components: the
// options it was built from, the line source it reads, and the shared
// Rng-derived machinery every sampler function below draws through. It
// exists so the sampler implementations in reservoir.go, streaming.go,
// and fullload.go take one small argument instead of five.
type runContext struct {
	opts       *Options
	src        LineSource
	out        *OutputWriter
	rng        *Rng
	scoreModel *ScoreModel
	extractor  *FieldExtractor
	hasher     *Hasher

	weightSpec FieldSpec
	keySpecs   []FieldSpec

	hintIgnored string
}

// RunResult carries the run-level facts worth logging or reporting once
// Dispatch returns: which seed was used and where it came from, which
// concrete algorithm serviced the request, and any hint the option
// combination forced the Dispatcher to set aside.
type RunResult struct {
	Seed      uint64
	SeedFrom  SeedSource
	Algorithm string

	// HintIgnored names a --prefer-* hint the Dispatcher could not honor
	// because the option combination made it illegal, empty otherwise.
	HintIgnored string
	// SeedConflict is true when both --static-seed and --seed-value were
	// given; --static-seed always wins.
	SeedConflict bool
}

// Dispatch is the sampling core's single entry point: given validated
// Options, a LineSource, and an output sink, it resolves the seed, picks
// the one algorithm the option combination calls for, runs it, and
// flushes the writer. The precedence among modes follows the derived mode
// flags: replacement first, then weighted, then Bernoulli/distinct
// streaming, then the bounded/unbounded unweighted cases, with
// --compatibility-mode and the prefer-* hints adjusting the algorithm
// choice inside each branch.
func Dispatch(opts *Options, src LineSource, w io.Writer) (RunResult, error) {
	// Validate against the user's raw --compatibility-mode flag before the
	// print/gen-random forcing rule applies, so --print-random and
	// --gen-random-inorder never trip the distinct/compatibility-mode
	// conflict check on the user's behalf.
	if err := opts.Validate(); err != nil {
		return RunResult{}, err
	}
	opts.normalizeCompatibilityMode()

	seedConflict := opts.StaticSeed && opts.HasSeedValue && opts.SeedValue != 0
	seed, seedFrom := opts.ResolveSeed()
	rng := NewRng(seed)

	header, hasHeader := src.Header()
	keySpecs := opts.KeyFields
	weightSpec := opts.WeightField
	if hasHeader {
		fields := splitBytes(header, opts.Delimiter)
		if len(keySpecs) > 0 {
			resolved, err := ResolveFieldSpecs(keySpecs, fields, opts.Delimiter)
			if err != nil {
				return RunResult{}, err
			}
			keySpecs = resolved
		}
		if opts.HasWeightField {
			resolved, err := ResolveFieldSpecs([]FieldSpec{weightSpec}, fields, opts.Delimiter)
			if err != nil {
				return RunResult{}, err
			}
			weightSpec = resolved[0]
		}
	}

	out := NewOutputWriter(w, opts.Delimiter)
	if hasHeader {
		printValue := opts.PrintRandom || opts.GenRandomInorder
		if err := out.WriteHeader(header, printValue, opts.RandomValueHeader); err != nil {
			return RunResult{}, err
		}
	}

	d := &runContext{
		opts:       opts,
		src:        src,
		out:        out,
		rng:        rng,
		scoreModel: NewScoreModel(rng),
		extractor:  NewFieldExtractor(opts.Delimiter),
		hasher:     NewHasher(uint32(seed)),
		weightSpec: weightSpec,
		keySpecs:   keySpecs,
	}

	algorithm, err := d.run()
	if err != nil {
		return RunResult{}, err
	}
	if err := out.Flush(); err != nil {
		return RunResult{}, err
	}

	return RunResult{
		Seed:         seed,
		SeedFrom:     seedFrom,
		Algorithm:    algorithm,
		HintIgnored:  d.hintIgnored,
		SeedConflict: seedConflict,
	}, nil
}

// run picks and executes the one algorithm this option bundle calls for,
// returning its name for diagnostics.
func (d *runContext) run() (string, error) {
	m := deriveModeFlags(d.opts)
	o := d.opts

	switch {
	case m.WithReplacement:
		return "with-replacement", runWithReplacement(d)

	case m.UseWeightedSampling:
		if o.GenRandomInorder {
			return "weighted-random-value", runWeightedRandomValueEmission(d)
		}
		if o.SampleSize > 0 {
			return "weighted-reservoir", runHeapReservoir(d, true)
		}
		return "weighted-full-load", runWeightedFullLoad(d)

	case m.UseDistinct:
		return "distinct", runDistinct(d)

	case m.UseBernoulli:
		if d.preferSkip() {
			return "bernoulli-skip", runBernoulliSkip(d)
		}
		return "bernoulli-per-line", runBernoulliPerLine(d)

	case m.ShuffleAll:
		return "shuffle-all", runShuffleAll(d)

	case o.SampleSize > 0:
		if d.useAlgorithmR() {
			return "algorithm-r", runAlgorithmR(d)
		}
		if o.CompatibilityMode {
			return "full-load-sort", runBoundedUnweightedFullLoad(d)
		}
		return "heap-reservoir", runHeapReservoir(d, false)

	default:
		return "full-load-sort", runBoundedUnweightedFullLoad(d)
	}
}

// preferSkip decides the Bernoulli streaming form: the explicit hints
// take precedence (--prefer-skip-sampling first, then
// --prefer-algorithm-r selecting the per-line form), otherwise the
// probability threshold applies. Validate does not check either hint.
func (d *runContext) preferSkip() bool {
	if d.opts.PreferSkipSampling {
		return true
	}
	if d.opts.PreferAlgorithmR {
		return false
	}
	return d.opts.Prob <= skipSamplingThreshold
}

// useAlgorithmR decides the unweighted bounded-sample algorithm: Algorithm
// R needs neither a score per line nor --compatibility-mode's full sort,
// so it is excluded whenever either is in play regardless of hints.
func (d *runContext) useAlgorithmR() bool {
	if d.opts.CompatibilityMode || d.opts.PrintRandom || d.opts.GenRandomInorder {
		if d.opts.PreferAlgorithmR {
			d.hintIgnored = "prefer-algorithm-r ignored: incompatible with compatibility-mode/print-random/gen-random-inorder"
		}
		return false
	}
	if d.opts.PreferAlgorithmR {
		return true
	}
	if d.opts.PreferSkipSampling {
		return false
	}
	return d.opts.SampleSize >= algorithmRThreshold
}

// scoreLine draws this line's score under the active model: a plain
// uniform draw, or the A-Res weighted key when weighted is true.
func (d *runContext) scoreLine(ln Line, weighted bool) (float64, error) {
	if !weighted {
		return d.scoreModel.UniformScore(), nil
	}
	w, err := d.extractor.Weight(ln.Bytes, d.weightSpec.Index, ln.File, ln.Num)
	if err != nil {
		return 0, err
	}
	return d.scoreModel.WeightedScore(w), nil
}

// writePlain emits line with no random-value column, for Algorithm R and
// with-replacement (neither runs when a column is asked for) and for the
// plain shuffle and distinct paths taken when no column is asked for.
func (d *runContext) writePlain(line []byte) error {
	return d.out.WriteLine(line)
}

// writeScored emits line, prepending score when the active options call
// for the random-value column, or nothing otherwise.
func (d *runContext) writeScored(score float64, line []byte) error {
	if d.opts.PrintRandom || d.opts.GenRandomInorder {
		return d.out.WriteLineWithScore(score, line)
	}
	return d.out.WriteLine(line)
}
