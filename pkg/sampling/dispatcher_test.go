package sampling_test

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/jihwankim/tsv-sample/pkg/sampling"
)

// memLineSource is an in-memory LineSource for tests, avoiding a
// filesystem round trip for small fixed bodies.
type memLineSource struct {
	header    []byte
	hasHeader bool
	lines     [][]byte
	pos       int
}

func newMemLineSource(header string, hasHeader bool, body []string) *memLineSource {
	lines := make([][]byte, len(body))
	for i, s := range body {
		lines[i] = []byte(s)
	}
	return &memLineSource{header: []byte(header), hasHeader: hasHeader, lines: lines}
}

func (m *memLineSource) Header() ([]byte, bool) { return m.header, m.hasHeader }

func (m *memLineSource) Next() (sampling.Line, bool, error) {
	if m.pos >= len(m.lines) {
		return sampling.Line{}, false, nil
	}
	ln := sampling.Line{File: "mem", Num: m.pos + 1, Bytes: m.lines[m.pos]}
	m.pos++
	return ln, true, nil
}

func (m *memLineSource) Close() error { return nil }

func colorBody() []string {
	return []string{
		"red\t23.8",
		"green\t0.0072",
		"white\t1.65",
		"yellow\t12",
		"blue\t12",
		"black\t0.983",
	}
}

func bodyText(body []byte) []string {
	lines := strings.Split(strings.TrimRight(string(body), "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil
	}
	return lines
}

// TestRerunDeterminism asserts that the same seed and input
// yield byte-identical output across repeated dispatches.
func TestRerunDeterminism(t *testing.T) {
	run := func() string {
		opts := sampling.NewOptions()
		opts.StaticSeed = true
		src := newMemLineSource("color\tweight", true, colorBody())
		var buf bytes.Buffer
		if _, err := sampling.Dispatch(opts, src, &buf); err != nil {
			t.Fatalf("Dispatch: %v", err)
		}
		return buf.String()
	}

	first := run()
	second := run()
	if first != second {
		t.Errorf("rerun with same seed produced different output:\n%q\nvs\n%q", first, second)
	}
}

// TestBernoulliSubsetMonotonic asserts that per-line Bernoulli
// output at p1 is a subset of output at p2 when p1 <= p2, for the same
// seed.
func TestBernoulliSubsetMonotonic(t *testing.T) {
	body := make([]string, 0, 500)
	for i := 0; i < 500; i++ {
		body = append(body, "line"+strconv.Itoa(i))
	}

	run := func(p float64) map[string]bool {
		opts := sampling.NewOptions()
		opts.StaticSeed = true
		opts.HasProb = true
		opts.Prob = p
		opts.PreferSkipSampling = false
		src := newMemLineSource("", false, body)
		var buf bytes.Buffer
		if _, err := sampling.Dispatch(opts, src, &buf); err != nil {
			t.Fatalf("Dispatch(p=%v): %v", p, err)
		}
		set := map[string]bool{}
		for _, l := range bodyText(buf.Bytes()) {
			set[l] = true
		}
		return set
	}

	low := run(0.2)
	high := run(0.6)
	for l := range low {
		if !high[l] {
			t.Errorf("line %q selected at p=0.2 but not at p=0.6", l)
		}
	}
}

// TestWithReplacementPrefixStable asserts that every prefix of
// an N-sample with-replacement run equals the full output for that
// shorter N, given the same seed.
func TestWithReplacementPrefixStable(t *testing.T) {
	body := colorBody()

	run := func(n int64) []string {
		opts := sampling.NewOptions()
		opts.StaticSeed = true
		opts.WithReplacement = true
		opts.SampleSize = n
		src := newMemLineSource("", false, body)
		var buf bytes.Buffer
		if _, err := sampling.Dispatch(opts, src, &buf); err != nil {
			t.Fatalf("Dispatch(n=%d): %v", n, err)
		}
		return bodyText(buf.Bytes())
	}

	full := run(10)
	prefix := run(4)
	if len(prefix) != 4 {
		t.Fatalf("len(prefix) = %d, want 4", len(prefix))
	}
	for i, l := range prefix {
		if full[i] != l {
			t.Errorf("prefix[%d] = %q, want %q (from full run)", i, l, full[i])
		}
	}
}

// TestDistinctGroupsSharedKeys asserts that lines sharing a
// distinct-sampling key are selected or discarded together.
func TestDistinctGroupsSharedKeys(t *testing.T) {
	body := []string{
		"a\tgroup1\t1",
		"b\tgroup1\t2",
		"c\tgroup2\t3",
		"d\tgroup2\t4",
		"e\tgroup3\t5",
	}

	opts := sampling.NewOptions()
	opts.StaticSeed = true
	opts.HasProb = true
	opts.Prob = 0.5
	specs, err := sampling.ParseFieldList("2")
	if err != nil {
		t.Fatalf("ParseFieldList: %v", err)
	}
	opts.KeyFields = specs

	src := newMemLineSource("", false, body)
	var buf bytes.Buffer
	if _, err := sampling.Dispatch(opts, src, &buf); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	selected := map[string]bool{}
	for _, l := range bodyText(buf.Bytes()) {
		fields := strings.Split(l, "\t")
		selected[fields[1]] = true
	}

	groupLines := map[string][]string{}
	for _, l := range body {
		fields := strings.Split(l, "\t")
		groupLines[fields[1]] = append(groupLines[fields[1]], l)
	}

	for group, lines := range groupLines {
		want := selected[group]
		for _, l := range lines {
			fields := strings.Split(l, "\t")
			got := false
			for _, out := range bodyText(buf.Bytes()) {
				if out == l {
					got = true
				}
			}
			if got != want {
				t.Errorf("group %s: line %q selected=%v, want %v (fields=%v)", group, l, got, want, fields)
			}
		}
	}
}

// TestBernoulliProbOneIsIdentity asserts that --prob 1.0
// preserves input order exactly.
func TestBernoulliProbOneIsIdentity(t *testing.T) {
	body := colorBody()
	opts := sampling.NewOptions()
	opts.StaticSeed = true
	opts.HasProb = true
	opts.Prob = 1.0

	src := newMemLineSource("", false, body)
	var buf bytes.Buffer
	if _, err := sampling.Dispatch(opts, src, &buf); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	got := bodyText(buf.Bytes())
	if len(got) != len(body) {
		t.Fatalf("len(got) = %d, want %d", len(got), len(body))
	}
	for i, l := range body {
		if got[i] != l {
			t.Errorf("line %d = %q, want %q", i, got[i], l)
		}
	}
}

// TestWeightedReservoirPrefixMonotonic asserts that the
// weighted reservoir sample at size k1 is a prefix, in emission order,
// of the sample at size k2 when k1 <= k2, given the same seed.
func TestWeightedReservoirPrefixMonotonic(t *testing.T) {
	body := make([]string, 0, 50)
	for i := 0; i < 50; i++ {
		body = append(body, "item"+strconv.Itoa(i)+"\t"+strconv.Itoa(i+1))
	}

	run := func(n int64) []string {
		opts := sampling.NewOptions()
		opts.StaticSeed = true
		opts.SampleSize = n
		specs, err := sampling.ParseFieldList("2")
		if err != nil {
			t.Fatalf("ParseFieldList: %v", err)
		}
		opts.WeightField = specs[0]
		opts.HasWeightField = true
		src := newMemLineSource("", false, body)
		var buf bytes.Buffer
		if _, err := sampling.Dispatch(opts, src, &buf); err != nil {
			t.Fatalf("Dispatch(n=%d): %v", n, err)
		}
		return bodyText(buf.Bytes())
	}

	small := run(5)
	large := run(15)
	if len(small) != 5 || len(large) != 15 {
		t.Fatalf("unexpected sample sizes: len(small)=%d len(large)=%d", len(small), len(large))
	}
	for i, l := range small {
		if large[i] != l {
			t.Errorf("small[%d] = %q, want %q (prefix of large)", i, l, large[i])
		}
	}
}

// TestBernoulliNumCapsEmission asserts that -n/--num bounds a Bernoulli
// run's emission count even though every line could otherwise qualify.
func TestBernoulliNumCapsEmission(t *testing.T) {
	body := make([]string, 0, 1000)
	for i := 0; i < 1000; i++ {
		body = append(body, "line"+strconv.Itoa(i))
	}

	opts := sampling.NewOptions()
	opts.StaticSeed = true
	opts.HasProb = true
	opts.Prob = 1.0 // every line qualifies; only the cap should limit output
	opts.SampleSize = 7

	src := newMemLineSource("", false, body)
	var buf bytes.Buffer
	if _, err := sampling.Dispatch(opts, src, &buf); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if got := len(bodyText(buf.Bytes())); got != 7 {
		t.Errorf("emitted %d lines, want 7", got)
	}
}

// TestDistinctNumCapsEmission asserts that -n/--num bounds a distinct
// sampling run the same way it bounds Bernoulli.
func TestDistinctNumCapsEmission(t *testing.T) {
	body := make([]string, 0, 200)
	for i := 0; i < 200; i++ {
		body = append(body, "k"+strconv.Itoa(i)+"\tv")
	}

	opts := sampling.NewOptions()
	opts.StaticSeed = true
	opts.HasProb = true
	opts.Prob = 1.0
	opts.SampleSize = 3
	specs, err := sampling.ParseFieldList("1")
	if err != nil {
		t.Fatalf("ParseFieldList: %v", err)
	}
	opts.KeyFields = specs

	src := newMemLineSource("", false, body)
	var buf bytes.Buffer
	if _, err := sampling.Dispatch(opts, src, &buf); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if got := len(bodyText(buf.Bytes())); got != 3 {
		t.Errorf("emitted %d lines, want 3", got)
	}
}

// TestWeightedGenRandomInorderStreamsUnsortedUncapped asserts that
// --weight-field combined with --gen-random-inorder emits every input
// line, in input order, each tagged with its score column, regardless
// of any --num cap — the one weighted mode that never reservoirs.
func TestWeightedGenRandomInorderStreamsUnsortedUncapped(t *testing.T) {
	body := []string{
		"a\t1",
		"b\t2",
		"c\t3",
		"d\t4",
	}

	opts := sampling.NewOptions()
	opts.StaticSeed = true
	opts.GenRandomInorder = true
	opts.SampleSize = 2 // must not cap this mode
	specs, err := sampling.ParseFieldList("2")
	if err != nil {
		t.Fatalf("ParseFieldList: %v", err)
	}
	opts.WeightField = specs[0]
	opts.HasWeightField = true

	src := newMemLineSource("name\tweight", true, body)
	var buf bytes.Buffer
	result, err := sampling.Dispatch(opts, src, &buf)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if result.Algorithm != "weighted-random-value" {
		t.Errorf("Algorithm = %q, want %q", result.Algorithm, "weighted-random-value")
	}

	got := bodyText(buf.Bytes())
	if len(got) != len(body)+1 {
		t.Fatalf("got %d lines (incl. header), want %d", len(got), len(body)+1)
	}
	for i, l := range body {
		fields := strings.Split(got[i+1], "\t")
		if len(fields) != 3 {
			t.Fatalf("line %d = %q, want 3 columns (score, name, weight)", i, got[i+1])
		}
		if fields[1]+"\t"+fields[2] != l {
			t.Errorf("line %d body = %q, want %q", i, fields[1]+"\t"+fields[2], l)
		}
	}
}

// TestDistinctWithPrintRandomPassesValidation asserts that -k/-p combined
// with --print-random or --gen-random-inorder is accepted: the
// compatibility-mode forcing rule those flags trigger must not trip the
// distinct/compatibility-mode conflict check.
func TestDistinctWithPrintRandomPassesValidation(t *testing.T) {
	for _, flag := range []string{"print-random", "gen-random-inorder"} {
		opts := sampling.NewOptions()
		opts.StaticSeed = true
		opts.HasProb = true
		opts.Prob = 0.5
		specs, err := sampling.ParseFieldList("1")
		if err != nil {
			t.Fatalf("ParseFieldList: %v", err)
		}
		opts.KeyFields = specs
		switch flag {
		case "print-random":
			opts.PrintRandom = true
		case "gen-random-inorder":
			opts.GenRandomInorder = true
		}

		src := newMemLineSource("", false, []string{"a", "b", "c"})
		var buf bytes.Buffer
		if _, err := sampling.Dispatch(opts, src, &buf); err != nil {
			t.Errorf("Dispatch with --%s: unexpected error: %v", flag, err)
		}
	}
}
