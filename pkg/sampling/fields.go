package sampling

import (
	"strconv"
	"strings"
)

// FieldSpec names one column, either by its already-resolved 1-based index
// or (until the header is read) by the literal text the user typed — a
// number or, when the input has a header, a column name. Whole is set when
// the user wrote the "0" (whole line) sentinel, which may not be combined
// with any other field.
type FieldSpec struct {
	Whole bool
	Index int // 1-based; 0 until resolved for a name reference
	Name  string
}

// ParseFieldList parses a comma-separated field-list: plain field numbers, the "0" whole-line sentinel (which may not mix with
// other fields), and inclusive ranges like "2-4". Header-name resolution
// happens later, once a LineSource has captured the header (see
// ResolveFieldSpecs).
func ParseFieldList(s string) ([]FieldSpec, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, configErrorf("field list is empty")
	}

	var specs []FieldSpec
	sawWhole := false
	sawOther := false

	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if lo, hi, ok := splitRange(part); ok {
			loN, err := strconv.Atoi(lo)
			if err != nil {
				return nil, configErrorf("invalid field range %q: %v", part, err)
			}
			hiN, err := strconv.Atoi(hi)
			if err != nil {
				return nil, configErrorf("invalid field range %q: %v", part, err)
			}
			if loN < 1 || hiN < loN {
				return nil, configErrorf("invalid field range %q", part)
			}
			for n := loN; n <= hiN; n++ {
				specs = append(specs, FieldSpec{Index: n, Name: strconv.Itoa(n)})
			}
			sawOther = true
			continue
		}

		if n, err := strconv.Atoi(part); err == nil {
			if n == 0 {
				sawWhole = true
				specs = append(specs, FieldSpec{Whole: true})
				continue
			}
			if n < 0 {
				return nil, configErrorf("invalid field number %q", part)
			}
			specs = append(specs, FieldSpec{Index: n, Name: part})
			sawOther = true
			continue
		}

		// Not numeric: a header name, resolved later.
		specs = append(specs, FieldSpec{Name: part})
		sawOther = true
	}

	if len(specs) == 0 {
		return nil, configErrorf("field list %q names no fields", s)
	}
	if sawWhole && sawOther {
		return nil, configErrorf("field 0 (whole line) cannot be combined with other fields")
	}

	return specs, nil
}

func splitRange(s string) (lo, hi string, ok bool) {
	i := strings.IndexByte(s, '-')
	if i <= 0 || i == len(s)-1 {
		return "", "", false
	}
	return s[:i], s[i+1:], true
}

// ResolveFieldSpecs fills in Index for any FieldSpec that named a column by
// header text, using the captured header fields (split on delim). It
// reports a ConfigError for an unknown name.
func ResolveFieldSpecs(specs []FieldSpec, header [][]byte, delim byte) ([]FieldSpec, error) {
	resolved := make([]FieldSpec, len(specs))
	copy(resolved, specs)
	for i, spec := range resolved {
		if spec.Whole || spec.Index != 0 {
			continue
		}
		idx := -1
		for j, h := range header {
			if string(h) == spec.Name {
				idx = j + 1
				break
			}
		}
		if idx == -1 {
			return nil, configErrorf("unknown field name %q", spec.Name)
		}
		resolved[i].Index = idx
	}
	return resolved, nil
}

// FieldExtractor splits a line on a single delimiter byte and returns
// individual fields without allocating a full [][]byte unless asked.
type FieldExtractor struct {
	Delim byte
}

// NewFieldExtractor constructs a FieldExtractor for the given delimiter.
func NewFieldExtractor(delim byte) *FieldExtractor {
	return &FieldExtractor{Delim: delim}
}

// Split returns every field of line, split on the extractor's delimiter.
// The returned slices alias line's backing array.
func (fe *FieldExtractor) Split(line []byte) [][]byte {
	return splitBytes(line, fe.Delim)
}

// Field returns the 1-based field at idx, or (nil, false) if the line has
// fewer fields than idx.
func (fe *FieldExtractor) Field(line []byte, idx int) ([]byte, bool) {
	if idx < 1 {
		return line, true
	}
	start := 0
	field := 1
	for i := 0; i < len(line); i++ {
		if line[i] == fe.Delim {
			if field == idx {
				return line[start:i], true
			}
			field++
			start = i + 1
		}
	}
	if field == idx {
		return line[start:], true
	}
	return nil, false
}

// Weight parses the idx'th field of line as a float64 weight. Weights at or
// below 0 are clamped to 0.
func (fe *FieldExtractor) Weight(line []byte, idx int, file string, lineNum int) (float64, error) {
	raw, ok := fe.Field(line, idx)
	if !ok || len(raw) == 0 {
		return 0, &FieldError{File: file, Line: lineNum, Msg: "weight field is missing or blank"}
	}
	w, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return 0, &FieldError{File: file, Line: lineNum, Msg: "weight field is not numeric: " + string(raw)}
	}
	if w <= 0 {
		return 0, nil
	}
	return w, nil
}

// BuildKey concatenates the named fields (in list order, delimiter-joined)
// to form the distinct-sampling key, or returns the whole line when the
// spec list is the whole-line sentinel.
func (fe *FieldExtractor) BuildKey(line []byte, specs []FieldSpec, file string, lineNum int) ([]byte, error) {
	if len(specs) == 1 && specs[0].Whole {
		return line, nil
	}

	var buf []byte
	for i, spec := range specs {
		raw, ok := fe.Field(line, spec.Index)
		if !ok {
			return nil, &FieldError{File: file, Line: lineNum, Msg: "key field " + strconv.Itoa(spec.Index) + " exceeds this line's field count"}
		}
		if i > 0 {
			buf = append(buf, fe.Delim)
		}
		buf = append(buf, raw...)
	}
	return buf, nil
}

func splitBytes(line []byte, delim byte) [][]byte {
	var out [][]byte
	start := 0
	for i := 0; i < len(line); i++ {
		if line[i] == delim {
			out = append(out, line[start:i])
			start = i + 1
		}
	}
	out = append(out, line[start:])
	return out
}
