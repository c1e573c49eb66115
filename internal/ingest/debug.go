package ingest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// DebugImageHook returns a PageHook that copies each rendered page image
// into dir before it is recycled with the OCR temp directory. Copy failures
// are logged and otherwise ignored.
func DebugImageHook(dir string, log zerolog.Logger) PageHook {
	return func(page int, imagePath string) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Warn().Str("dir", dir).Err(err).Msg("create debug image dir")
			return
		}
		dst := filepath.Join(dir, fmt.Sprintf("page-%03d.png", page))
		if err := copyFile(imagePath, dst); err != nil {
			log.Warn().Str("src", imagePath).Str("dst", dst).Err(err).Msg("copy debug image")
		}
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, in)
	return err
}
