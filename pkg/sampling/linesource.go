package sampling

import (
	"bufio"
	"io"
	"os"
)

// Line is one line read from a LineSource: the owning byte buffer, the
// file it came from, and its 1-based line number within that file.
type Line struct {
	File  string
	Num   int
	Bytes []byte
}

// LineSource abstracts over one or many input files (or stdin) producing
// body lines, with the header — when present — read exactly once across
// the whole concatenation and exposed separately. Option parsing, field-
// name resolution, and platform newline detection beyond the \r\n header
// check are out of this package's scope; this is the seam the rest of
// the core reads through.
type LineSource interface {
	// Header returns the captured header line and true, or (nil, false)
	// if the source has no header.
	Header() ([]byte, bool)
	// Next returns the next body line. ok is false with a nil error at
	// end of input.
	Next() (Line, bool, error)
	// Close releases any open file handles.
	Close() error
}

// fileLineSource reads a sequence of named files (or stdin, named "-") in
// order, exposing them as one logical stream of body lines.
type fileLineSource struct {
	files     []string
	hasHeader bool

	idx        int
	cur        *bufio.Scanner
	curFile    string
	curHandle  io.Closer
	curLineNum int

	header    []byte
	gotHeader bool

	started  bool
	startErr error
}

// NewFileLineSource builds a LineSource over the given file paths. An
// empty list or a single "-" entry reads standard input.
func NewFileLineSource(files []string, hasHeader bool) LineSource {
	if len(files) == 0 {
		files = []string{"-"}
	}
	return &fileLineSource{files: files, hasHeader: hasHeader}
}

// ensureStarted opens the first file (capturing its header, if any) on
// first access from either Header or Next — whichever the caller reaches
// first, since the Dispatcher needs the header before it reads any body
// lines.
func (s *fileLineSource) ensureStarted() {
	if s.started {
		return
	}
	s.started = true
	if _, err := s.advance(); err != nil {
		s.startErr = err
	}
}

func (s *fileLineSource) Header() ([]byte, bool) {
	s.ensureStarted()
	return s.header, s.gotHeader
}

func (s *fileLineSource) Close() error {
	if s.curHandle != nil {
		return s.curHandle.Close()
	}
	return nil
}

// advance opens the next file in sequence, consuming and (for the first
// file only) capturing its header line if one is expected.
func (s *fileLineSource) advance() (bool, error) {
	if s.curHandle != nil {
		_ = s.curHandle.Close()
		s.curHandle = nil
	}
	if s.idx >= len(s.files) {
		return false, nil
	}

	name := s.files[s.idx]
	s.idx++

	var r io.Reader
	if name == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(name)
		if err != nil {
			return false, err
		}
		s.curHandle = f
		r = f
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	// bufio.ScanLines drops a trailing '\r'; keep it so the
	// Windows-newline check on the first line can see it.
	scanner.Split(func(data []byte, atEOF bool) (int, []byte, error) {
		n, token, err := bufio.ScanLines(data, atEOF)
		if token != nil && len(token) < n && data[len(token)] == '\r' {
			token = data[:len(token)+1]
		}
		return n, token, err
	})
	s.cur = scanner
	s.curFile = name
	s.curLineNum = 0

	if s.hasHeader {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return false, err
			}
			// Empty file with an expected header: nothing more here.
			return s.advance()
		}
		s.curLineNum = 1
		raw := scanner.Bytes()
		if hasWindowsNewline(raw) {
			return false, &HeaderError{File: name, Line: 1, Msg: "Windows newline (\\r\\n) found on Unix; convert the file or strip \\r"}
		}
		line := append([]byte(nil), raw...)
		if !s.gotHeader {
			s.header = line
			s.gotHeader = true
		}
	}

	return true, nil
}

func (s *fileLineSource) Next() (Line, bool, error) {
	s.ensureStarted()
	if s.startErr != nil {
		err := s.startErr
		s.startErr = nil
		return Line{}, false, err
	}

	for {
		if s.cur == nil {
			ok, err := s.advance()
			if err != nil {
				return Line{}, false, err
			}
			if !ok {
				return Line{}, false, nil
			}
		}

		if s.cur.Scan() {
			s.curLineNum++
			raw := s.cur.Bytes()
			if s.curLineNum == 1 && !s.hasHeader && hasWindowsNewline(raw) {
				return Line{}, false, &HeaderError{File: s.curFile, Line: 1, Msg: "Windows newline (\\r\\n) found on Unix; convert the file or strip \\r"}
			}
			line := append([]byte(nil), raw...)
			return Line{File: s.curFile, Num: s.curLineNum, Bytes: line}, true, nil
		}
		if err := s.cur.Err(); err != nil {
			return Line{}, false, err
		}

		// This file is exhausted; move to the next one.
		s.cur = nil
		if s.curHandle != nil {
			_ = s.curHandle.Close()
			s.curHandle = nil
		}
	}
}

func hasWindowsNewline(raw []byte) bool {
	return len(raw) > 0 && raw[len(raw)-1] == '\r'
}
