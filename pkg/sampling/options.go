package sampling

// StaticSeed is the fixed constant used when the caller asks for a
// reproducible run without supplying an explicit seed value.
const StaticSeed uint64 = 2438424139

// SeedSource names where a run's seed came from, for diagnostics.
type SeedSource string

const (
	SeedSourceStatic SeedSource = "static"
	SeedSourceUser   SeedSource = "user"
	SeedSourceRandom SeedSource = "random"
)

// Options is the immutable, validated request the Dispatcher acts on.
// Construct it with NewOptions and call Validate before use; the zero
// value is not valid (Delimiter defaults to tab via NewOptions).
type Options struct {
	Delimiter byte
	HasHeader bool

	SampleSize int64 // N; 0 means unbounded (with-replacement then draws len(input) lines)

	Prob    float64
	HasProb bool

	KeyFields []FieldSpec

	WeightField    FieldSpec
	HasWeightField bool

	WithReplacement    bool
	PreserveInputOrder bool
	PrintRandom        bool
	GenRandomInorder   bool
	RandomValueHeader  string
	CompatibilityMode  bool

	StaticSeed   bool
	SeedValue    uint64
	HasSeedValue bool

	PreferSkipSampling bool
	PreferAlgorithmR   bool

	Files []string
}

// NewOptions returns an Options with the documented defaults: tab
// delimiter, "random_value" header name.
func NewOptions() *Options {
	return &Options{
		Delimiter:         '\t',
		RandomValueHeader: "random_value",
	}
}

// ModeFlags are the derived, mutually-constrained booleans the Dispatcher
// computes from a validated Options.
type ModeFlags struct {
	UseBernoulli         bool
	UseDistinct          bool
	UseWeightedSampling  bool
	WithReplacement      bool
	ShuffleAll           bool
	GenRandomInorder     bool
}

// deriveModeFlags computes the derived mode flags from validated options.
func deriveModeFlags(o *Options) ModeFlags {
	m := ModeFlags{
		UseWeightedSampling: o.HasWeightField,
		WithReplacement:     o.WithReplacement,
		GenRandomInorder:    o.GenRandomInorder,
	}
	m.UseBernoulli = o.HasProb && len(o.KeyFields) == 0 && !o.HasWeightField
	m.UseDistinct = o.HasProb && len(o.KeyFields) > 0
	m.ShuffleAll = !m.UseBernoulli && !m.UseDistinct && !m.UseWeightedSampling &&
		!m.WithReplacement && o.SampleSize == 0
	return m
}

// Validate checks the option bundle for internally consistent flag
// combinations. It never touches input.
func (o *Options) Validate() error {
	if o.WithReplacement {
		if o.HasWeightField {
			return configErrorf("--replace cannot be combined with --weight-field")
		}
		if o.HasProb {
			return configErrorf("--replace cannot be combined with --prob")
		}
		if len(o.KeyFields) > 0 {
			return configErrorf("--replace cannot be combined with --key-fields")
		}
		if o.PrintRandom {
			return configErrorf("--replace cannot be combined with --print-random")
		}
		if o.GenRandomInorder {
			return configErrorf("--replace cannot be combined with --gen-random-inorder")
		}
		if o.PreserveInputOrder {
			return configErrorf("--replace cannot be combined with --inorder")
		}
	}

	if o.HasProb && (o.Prob <= 0 || o.Prob > 1) {
		return configErrorf("--prob must satisfy 0 < p <= 1, got %v", o.Prob)
	}

	if o.HasWeightField && o.HasProb {
		return configErrorf("--weight-field and --prob are mutually exclusive")
	}

	if len(o.KeyFields) > 0 && !o.HasProb {
		return configErrorf("--key-fields requires --prob")
	}

	for _, spec := range o.KeyFields {
		if spec.Whole && len(o.KeyFields) > 1 {
			return configErrorf("field 0 (whole line) cannot be combined with other key fields")
		}
	}

	m := deriveModeFlags(o)

	if o.PreserveInputOrder && o.SampleSize == 0 && !m.UseBernoulli && !m.UseDistinct {
		return configErrorf("--inorder requires a bounded sample size (-n) unless a streaming mode is selected")
	}

	if m.UseDistinct && o.CompatibilityMode {
		return configErrorf("distinct sampling (--key-fields with --prob) is incompatible with --compatibility-mode")
	}

	if o.GenRandomInorder && o.HasProb && len(o.KeyFields) == 0 {
		return configErrorf("--gen-random-inorder with --prob requires --key-fields (distinct mode)")
	}

	return nil
}

// normalizeCompatibilityMode applies the forcing rule: printing a random
// value always implies compatibility mode.
func (o *Options) normalizeCompatibilityMode() {
	if o.PrintRandom || o.GenRandomInorder {
		o.CompatibilityMode = true
	}
}

// ResolveSeed derives the run's PRNG seed: the static constant when
// requested, the user's value when supplied and non-zero, otherwise an
// unpredictable OS-provided source.
func (o *Options) ResolveSeed() (uint64, SeedSource) {
	if o.StaticSeed {
		return StaticSeed, SeedSourceStatic
	}
	if o.HasSeedValue && o.SeedValue != 0 {
		return o.SeedValue, SeedSourceUser
	}
	return osRandomSeed(), SeedSourceRandom
}
