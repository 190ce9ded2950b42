package filesink

import (
	"errors"
	"image"
	"path/filepath"
	"testing"

	"github.com/user/yuvenc/pkg/mocks"
	"github.com/user/yuvenc/pkg/ports"
)

var testBaseDir = filepath.Join("debug")

func TestSink_Enabled(t *testing.T) {
	sink := New(testBaseDir, mocks.NewFileSystem(), &mocks.Renderer{})

	if !sink.Enabled() {
		t.Error("expected Enabled to return true")
	}
}

func TestSink_SaveSessionJSON(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New(testBaseDir, fs, &mocks.Renderer{})

	data := []byte(`{"session":"abc"}`)
	if err := sink.SaveSessionJSON(data); err != nil {
		t.Fatalf("SaveSessionJSON failed: %v", err)
	}

	saved, ok := fs.GetFile(filepath.Join(testBaseDir, "session.json"))
	if !ok {
		t.Fatal("expected session.json to be saved")
	}
	if string(saved) != string(data) {
		t.Errorf("expected %q, got %q", data, saved)
	}
}

func TestSink_SaveSourceImage(t *testing.T) {
	fs := mocks.NewFileSystem()
	var gotFormat ports.ImageFormat = -1
	renderer := &mocks.Renderer{
		EncodeImageFunc: func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
			gotFormat = format
			return []byte("png"), nil
		},
	}
	sink := New(testBaseDir, fs, renderer)

	if err := sink.SaveSourceImage(3, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatalf("SaveSourceImage failed: %v", err)
	}

	if gotFormat != ports.FormatPNG {
		t.Errorf("expected PNG encoding, got %d", gotFormat)
	}
	if _, ok := fs.GetFile(filepath.Join(testBaseDir, "source", "frame-0003.png")); !ok {
		t.Error("expected source frame to be saved")
	}
	if !fs.DirExists(filepath.Join(testBaseDir, "source")) {
		t.Error("expected source directory to be created")
	}
}

func TestSink_SaveSourceImageEncodeError(t *testing.T) {
	renderer := &mocks.Renderer{
		EncodeImageFunc: func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
			return nil, errors.New("boom")
		},
	}
	sink := New(testBaseDir, mocks.NewFileSystem(), renderer)

	if err := sink.SaveSourceImage(0, image.NewRGBA(image.Rect(0, 0, 1, 1))); err == nil {
		t.Error("expected encode error to propagate")
	}
}

func TestSink_SaveConvertedFrameAndAccessUnit(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New(testBaseDir, fs, &mocks.Renderer{})

	if err := sink.SaveConvertedFrame(0, []byte{1, 2, 3}); err != nil {
		t.Fatalf("SaveConvertedFrame failed: %v", err)
	}
	if err := sink.SaveAccessUnit(12, []byte{0, 0, 0, 1, 0x65}); err != nil {
		t.Fatalf("SaveAccessUnit failed: %v", err)
	}

	frame, ok := fs.GetFile(filepath.Join(testBaseDir, "frames", "nv12", "frame-0000.nv12"))
	if !ok || len(frame) != 3 {
		t.Errorf("expected converted frame saved, got %v", frame)
	}
	if _, ok := fs.GetFile(filepath.Join(testBaseDir, "units", "au-0012.es")); !ok {
		t.Error("expected access unit saved")
	}
}
