package sampling

import (
	"bufio"
	"io"
)

// OutputWriter is the sampling core's single sink. It buffers body writes
// but flushes the header line immediately, so a downstream pipeline stage
// can start consuming a header before this process has produced any body
// output. The random-value column is prepended exactly when the caller
// asks for it via the WithScore/WithRaw variants — the Dispatcher picks
// which variant to call per mode, so the column appears iff
// print_random || gen_random_inorder.
type OutputWriter struct {
	w     *bufio.Writer
	delim byte
	fmt   *RandomValueFormatter
}

// NewOutputWriter wraps w with the given output field delimiter.
func NewOutputWriter(w io.Writer, delim byte) *OutputWriter {
	return &OutputWriter{
		w:     bufio.NewWriterSize(w, 64*1024),
		delim: delim,
		fmt:   NewRandomValueFormatter(),
	}
}

// WriteHeader writes the header line, prepending valueHeader when
// printValue is set, and flushes immediately.
func (ow *OutputWriter) WriteHeader(header []byte, printValue bool, valueHeader string) error {
	if printValue {
		if _, err := ow.w.WriteString(valueHeader); err != nil {
			return err
		}
		if err := ow.w.WriteByte(ow.delim); err != nil {
			return err
		}
	}
	if _, err := ow.w.Write(header); err != nil {
		return err
	}
	if err := ow.w.WriteByte('\n'); err != nil {
		return err
	}
	return ow.w.Flush()
}

// WriteLine writes a body line with no prepended value.
func (ow *OutputWriter) WriteLine(line []byte) error {
	if _, err := ow.w.Write(line); err != nil {
		return err
	}
	return ow.w.WriteByte('\n')
}

// WriteLineWithScore prepends score, formatted via RandomValueFormatter,
// before the line.
func (ow *OutputWriter) WriteLineWithScore(score float64, line []byte) error {
	if _, err := ow.w.WriteString(ow.fmt.Format(score)); err != nil {
		return err
	}
	if err := ow.w.WriteByte(ow.delim); err != nil {
		return err
	}
	return ow.WriteLine(line)
}

// WriteLineWithRaw prepends a pre-rendered value (used for the distinct
// sampler's integer hash bucket) before the line.
func (ow *OutputWriter) WriteLineWithRaw(valueText string, line []byte) error {
	if _, err := ow.w.WriteString(valueText); err != nil {
		return err
	}
	if err := ow.w.WriteByte(ow.delim); err != nil {
		return err
	}
	return ow.WriteLine(line)
}

// Flush flushes any buffered body output. Call once at the end of a run.
func (ow *OutputWriter) Flush() error {
	return ow.w.Flush()
}
