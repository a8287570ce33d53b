package sampling_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jihwankim/tsv-sample/pkg/sampling"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestFileLineSourceHeaderOnceAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	f1 := writeTempFile(t, dir, "a.tsv", "color\tweight\nred\t1\ngreen\t2\n")
	f2 := writeTempFile(t, dir, "b.tsv", "color\tweight\nblue\t3\n")

	src := sampling.NewFileLineSource([]string{f1, f2}, true)
	defer src.Close()

	header, ok := src.Header()
	if !ok {
		t.Fatal("expected a header")
	}
	_ = header

	var lines []string
	for {
		ln, ok, err := src.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			break
		}
		lines = append(lines, string(ln.Bytes))
	}

	want := []string{"red\t1", "green\t2", "blue\t3"}
	if len(lines) != len(want) {
		t.Fatalf("got %v lines, want %v", lines, want)
	}
	for i, l := range lines {
		if l != want[i] {
			t.Errorf("lines[%d] = %q, want %q", i, l, want[i])
		}
	}

	if string(header) != "color\tweight" {
		t.Errorf("header = %q, want %q", header, "color\tweight")
	}
}

func TestFileLineSourceWindowsNewlineError(t *testing.T) {
	dir := t.TempDir()
	f := writeTempFile(t, dir, "crlf.tsv", "color\tweight\r\nred\t1\n")

	src := sampling.NewFileLineSource([]string{f}, true)
	defer src.Close()

	// Header() triggers the same lazy advance() as Next() would; the
	// Windows-newline error only surfaces once something actually asks
	// for a line, via Next().
	if _, ok := src.Header(); ok {
		t.Fatal("expected no header on a read error")
	}
	_, _, err := src.Next()
	var headerErr *sampling.HeaderError
	if err == nil {
		t.Fatal("want a HeaderError for a \\r\\n-terminated first line")
	}
	if !errorsAsHeaderError(err, &headerErr) {
		t.Errorf("error = %v, want *sampling.HeaderError", err)
	}
}

func errorsAsHeaderError(err error, target **sampling.HeaderError) bool {
	he, ok := err.(*sampling.HeaderError)
	if ok {
		*target = he
	}
	return ok
}
