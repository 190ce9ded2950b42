package summarizer

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/user/yuvenc/pkg/mocks"
)

func TestWriter_Write(t *testing.T) {
	fs := mocks.NewFileSystem()
	w := NewWriter(FormatFunc(func(s *Summary) string { return "# " + s.SessionID }), fs)

	path := filepath.Join("reports", "summary.md")
	if err := w.Write(path, &Summary{SessionID: "abc"}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, ok := fs.GetFile(path)
	if !ok {
		t.Fatal("expected summary file")
	}
	if string(data) != "# abc" {
		t.Errorf("unexpected content %q", data)
	}
	if !fs.DirExists("reports") {
		t.Error("expected parent directory to be created")
	}
}

func TestWriter_WriteError(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.WriteFileFunc = func(path string, data []byte) error { return errors.New("disk full") }
	w := NewWriter(NewMarkdownFormatter(), fs)

	if err := w.Write("summary.md", NewSummary()); err == nil {
		t.Error("expected write error")
	}
}
