package ffmpegencoder

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/user/yuvenc/pkg/ports"
)

// EnvFFmpegPath names the environment variable consulted when no explicit
// path is configured.
const EnvFFmpegPath = "FFMPEG_PATH"

// installPaths are tried after PATH lookup fails.
var installPaths = map[string][]string{
	"windows": {`C:\ffmpeg\bin\ffmpeg.exe`, `C:\Program Files\ffmpeg\bin\ffmpeg.exe`},
	"darwin":  {"/opt/homebrew/bin/ffmpeg", "/usr/local/bin/ffmpeg"},
	"linux":   {"/usr/bin/ffmpeg", "/usr/local/bin/ffmpeg", "/snap/bin/ffmpeg"},
}

// libraries maps codecs to the ffmpeg encoders buildArgs selects.
var libraries = map[ports.Codec]string{
	ports.CodecH264: "libx264",
	ports.CodecHEVC: "libx265",
}

// FindFFmpeg resolves the ffmpeg binary. An explicit customPath or
// $FFMPEG_PATH must exist; otherwise PATH and then installPaths are searched.
func FindFFmpeg(customPath string) (string, error) {
	explicit := []struct{ origin, path string }{
		{"configured path", customPath},
		{EnvFFmpegPath, os.Getenv(EnvFFmpegPath)},
	}
	for _, e := range explicit {
		if e.path == "" {
			continue
		}
		if !isFile(e.path) {
			return "", fmt.Errorf("%w: %s %s does not exist", ErrFFmpegNotFound, e.origin, e.path)
		}
		return e.path, nil
	}

	name := "ffmpeg"
	if runtime.GOOS == "windows" {
		name = "ffmpeg.exe"
	}
	if p, err := exec.LookPath(name); err == nil {
		return p, nil
	}

	for _, p := range installPaths[runtime.GOOS] {
		if isFile(p) {
			return p, nil
		}
	}
	return "", ErrFFmpegNotFound
}

// SupportsCodec reports whether the ffmpeg at ffmpegPath (resolved with
// FindFFmpeg) was built with the encoder library for codec.
func SupportsCodec(ffmpegPath string, codec ports.Codec) bool {
	lib, ok := libraries[codec]
	if !ok {
		return false
	}
	path, err := FindFFmpeg(ffmpegPath)
	if err != nil {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	out, err := exec.CommandContext(ctx, path, "-hide_banner", "-encoders").Output()
	if err != nil {
		return false
	}
	return bytes.Contains(out, []byte(" "+lib+" "))
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
