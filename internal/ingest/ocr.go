package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Abhishek-bramhawale/PYQuer-server/internal/util"
)

type OCRConfig struct {
	Pdftoppm  string // binary name or absolute path; empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; empty -> "tesseract"
	Lang      string // default "eng"
	DPI       int    // rasterization DPI, default 300
	Workers   int    // concurrent page recognitions, default 4
	MaxPages  int    // 0 = no limit
}

// PageHook receives each rendered page image before recognition. Used for
// debug artifact collection; recognition does not depend on it. Pages are
// processed concurrently, so the hook may be called from multiple
// goroutines.
type PageHook func(page int, imagePath string)

// OCREngine rasterizes a PDF page by page and runs text recognition on each
// page image. It is the slow path, invoked only when direct extraction
// produced nothing usable.
type OCREngine struct {
	cfg      OCRConfig
	runner   Runner
	log      zerolog.Logger
	pageHook PageHook
}

func NewOCREngine(cfg OCRConfig, log zerolog.Logger) *OCREngine {
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Lang == "" {
		cfg.Lang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	return &OCREngine{cfg: cfg, runner: execRunner{log: log}, log: log}
}

// SetPageHook installs an optional per-page diagnostic hook.
func (e *OCREngine) SetPageHook(h PageHook) {
	e.pageHook = h
}

// SetRunner replaces the command runner. Tests use this to avoid depending
// on the real binaries.
func (e *OCREngine) SetRunner(r Runner) {
	e.runner = r
}

// Recognize renders every page of the document to a PNG and recognizes each
// one. Page results are concatenated in page order with a separating
// newline. A page whose rasterization or recognition fails contributes an
// empty string; only a whole-document rasterization failure is an error.
func (e *OCREngine) Recognize(ctx context.Context, data []byte) (string, error) {
	tmpDir, err := os.MkdirTemp("", "pyquer-ocr-*")
	if err != nil {
		return "", fmt.Errorf("create ocr temp dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			e.log.Warn().Str("dir", tmpDir).Err(err).Msg("remove ocr temp dir")
		}
	}()

	pdfPath := filepath.Join(tmpDir, "input.pdf")
	if err := os.WriteFile(pdfPath, data, 0o600); err != nil {
		return "", fmt.Errorf("write ocr input: %w", err)
	}

	// pdftoppm -r <dpi> -png input.pdf <tmp>/page
	prefix := filepath.Join(tmpDir, "page")
	if _, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, "-r", fmt.Sprintf("%d", e.cfg.DPI), "-png", pdfPath, prefix); err != nil {
		return "", fmt.Errorf("rasterize pdf: %w (%s)", err, truncate(string(errb), 512))
	}

	// pdftoppm zero-pads page numbers to equal width, so a lexical sort is
	// page order.
	images, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(images)
	if e.cfg.MaxPages > 0 && len(images) > e.cfg.MaxPages {
		images = images[:e.cfg.MaxPages]
	}
	if len(images) == 0 {
		return "", fmt.Errorf("rasterize pdf: no pages rendered")
	}

	// Pages are independent; recognize them concurrently but assemble by
	// page index so output order never depends on arrival order.
	results := make([]string, len(images))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)
	for i, img := range images {
		i, img := i, img
		g.Go(func() error {
			if e.pageHook != nil {
				e.pageHook(i+1, img)
			}
			text, err := e.recognizePage(gctx, img)
			if err != nil {
				// A cancelled request is not a bad page; stop instead of
				// degrading every remaining page to empty text.
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				e.log.Warn().Int("page", i+1).Err(err).Msg("page ocr failed, contributing empty text")
				results[i] = ""
				return nil
			}
			results[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	text := util.SanitizeText(strings.Join(results, "\n"))
	if text == "" {
		return "", util.ErrNoExtractableText
	}
	return text, nil
}

func (e *OCREngine) recognizePage(ctx context.Context, imagePath string) (string, error) {
	// tesseract <image> stdout -l <lang>
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, imagePath, "stdout", "-l", e.cfg.Lang)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w (%s)", err, truncate(string(errb), 512))
	}
	return util.SanitizeText(string(out)), nil
}
