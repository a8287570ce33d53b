package sampling

import "math"

// runBernoulliPerLine implements the per-line Bernoulli form: every
// line consumes exactly one uniform draw, whether or not it is kept. This
// is what makes two runs at different probabilities over the same seed
// produce nested subsets — the later draw sequence is identical regardless
// of how many earlier lines were rejected.
func runBernoulliPerLine(d *runContext) error {
	var emitted int64
	for {
		if d.opts.SampleSize > 0 && emitted >= d.opts.SampleSize {
			return nil
		}

		ln, ok, err := d.src.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		u := d.scoreModel.UniformScore()
		if u >= d.opts.Prob {
			continue
		}
		if err := d.writeScored(u, ln.Bytes); err != nil {
			return err
		}
		emitted++
	}
}

// runBernoulliSkip implements the skip-sampling form: a geometric
// skip counter advances through the input without drawing once per
// rejected line, trading the per-line draw-parity guarantee for much
// better throughput at small probabilities. Chosen by default for
// p <= 0.04, or whenever the caller passes --prefer-skip-sampling.
func runBernoulliSkip(d *runContext) error {
	var emitted int64
	for {
		if d.opts.SampleSize > 0 && emitted >= d.opts.SampleSize {
			return nil
		}

		skip := geometricSkip(d.rng, d.opts.Prob)
		for skip > 0 {
			if _, ok, err := d.src.Next(); err != nil {
				return err
			} else if !ok {
				return nil
			}
			skip--
		}

		ln, ok, err := d.src.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		// The kept line still needs a score when the caller wants the
		// random-value column; skip-sampling otherwise never draws for it.
		var score float64
		if d.opts.PrintRandom || d.opts.GenRandomInorder {
			score = d.scoreModel.UniformScore()
		}
		if err := d.writeScored(score, ln.Bytes); err != nil {
			return err
		}
		emitted++
	}
}

// geometricSkip draws the number of lines to skip before the next kept
// line under Bernoulli(p): floor(log(1-u) / log(1-p)).
func geometricSkip(rng *Rng, p float64) int {
	if p >= 1 {
		return 0
	}
	u := rng.Uniform01()
	return int(math.Log(1-u) / math.Log(1-p))
}

// runDistinct implements keyed/distinct sampling: lines are bucketed
// by a seeded hash of their key field(s) into B = round(1/p) buckets, and
// every line whose key falls in bucket 0 is kept (with a "0" value column
// under --print-random). Under --gen-random-inorder every line is emitted
// instead, prefixed with its bucket number. Because the bucket
// assignment is a pure function of the key, all lines sharing a key are
// kept or rejected together across a whole run.
func runDistinct(d *runContext) error {
	buckets := uint32(math.Round(1 / d.opts.Prob))
	if buckets == 0 {
		buckets = 1
	}

	var emitted int64
	for {
		if d.opts.SampleSize > 0 && emitted >= d.opts.SampleSize {
			return nil
		}

		ln, ok, err := d.src.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		key, err := d.extractor.BuildKey(ln.Bytes, d.keySpecs, ln.File, ln.Num)
		if err != nil {
			return err
		}
		bucket := d.hasher.Hash32(key) % buckets

		if d.opts.GenRandomInorder {
			if err := d.out.WriteLineWithRaw(uitoa(bucket), ln.Bytes); err != nil {
				return err
			}
			emitted++
			continue
		}
		if bucket != 0 {
			continue
		}
		if d.opts.PrintRandom {
			if err := d.out.WriteLineWithRaw("0", ln.Bytes); err != nil {
				return err
			}
		} else if err := d.writePlain(ln.Bytes); err != nil {
			return err
		}
		emitted++
	}
}

// runWeightedRandomValueEmission implements weighted random-value emission:
// --weight-field combined with --gen-random-inorder streams every line
// through unmodified, each tagged with its A-Res weighted score, in input
// order. No line is ever dropped and no sort or cap applies — this is the
// one weighted mode that never reservoirs or sorts.
func runWeightedRandomValueEmission(d *runContext) error {
	for {
		ln, ok, err := d.src.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		score, err := d.scoreLine(ln, true)
		if err != nil {
			return err
		}
		if err := d.writeScored(score, ln.Bytes); err != nil {
			return err
		}
	}
}

func uitoa(v uint32) string {
	if v == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
