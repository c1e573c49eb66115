package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Abhishek-bramhawale/PYQuer-server/internal/util"
)

// fakeRunner simulates pdftoppm and tesseract. pdftoppm calls create page
// PNGs under the requested prefix; tesseract calls return canned text keyed
// by page file name.
type fakeRunner struct {
	pages     int
	rasterErr error
	failPage  string // page file suffix whose recognition fails
	failErr   error  // error for failPage; defaults to an exec failure
	pageText  func(n int) string
	tessCalls atomic.Int32
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	if strings.Contains(name, "pdftoppm") {
		if f.rasterErr != nil {
			return nil, []byte("raster boom"), f.rasterErr
		}
		prefix := args[len(args)-1]
		for i := 1; i <= f.pages; i++ {
			if err := os.WriteFile(fmt.Sprintf("%s-%d.png", prefix, i), []byte("png"), 0o600); err != nil {
				return nil, nil, err
			}
		}
		return nil, nil, nil
	}

	// tesseract <image> stdout -l <lang>
	f.tessCalls.Add(1)
	img := args[0]
	if f.failPage != "" && strings.HasSuffix(img, f.failPage) {
		if f.failErr != nil {
			return nil, nil, f.failErr
		}
		return nil, []byte("tess boom"), errors.New("exit status 1")
	}
	for i := 1; i <= f.pages; i++ {
		if strings.HasSuffix(img, fmt.Sprintf("-%d.png", i)) {
			return []byte(f.pageText(i)), nil, nil
		}
	}
	return nil, nil, fmt.Errorf("unexpected image %s", img)
}

func newTestEngine(r Runner) *OCREngine {
	e := NewOCREngine(OCRConfig{Workers: 3}, zerolog.Nop())
	e.SetRunner(r)
	return e
}

func TestRecognizeConcatenatesInPageOrder(t *testing.T) {
	runner := &fakeRunner{
		pages:    4,
		pageText: func(n int) string { return fmt.Sprintf("text of page %d", n) },
	}
	e := newTestEngine(runner)

	text, err := e.Recognize(context.Background(), []byte("pdf bytes"))
	require.NoError(t, err)
	require.Equal(t, "text of page 1\ntext of page 2\ntext of page 3\ntext of page 4", text)
	require.Equal(t, int32(4), runner.tessCalls.Load())
}

func TestRecognizePartialFailureKeepsOtherPages(t *testing.T) {
	runner := &fakeRunner{
		pages:    3,
		failPage: "-2.png",
		pageText: func(n int) string { return fmt.Sprintf("page %d", n) },
	}
	e := newTestEngine(runner)

	text, err := e.Recognize(context.Background(), []byte("pdf bytes"))
	require.NoError(t, err)
	// Failed page contributes an empty string between its neighbours.
	require.Equal(t, "page 1\n\npage 3", text)
}

func TestRecognizePropagatesContextCancellation(t *testing.T) {
	runner := &fakeRunner{
		pages:    3,
		failPage: "-1.png",
		failErr:  context.Canceled,
		pageText: func(n int) string { return fmt.Sprintf("page %d", n) },
	}
	e := NewOCREngine(OCRConfig{Workers: 1}, zerolog.Nop())
	e.SetRunner(runner)

	_, err := e.Recognize(context.Background(), []byte("pdf bytes"))
	require.ErrorIs(t, err, context.Canceled)
	require.NotErrorIs(t, err, util.ErrNoExtractableText)
}

func TestRecognizeRasterizationFailure(t *testing.T) {
	e := newTestEngine(&fakeRunner{rasterErr: errors.New("exit status 1")})

	_, err := e.Recognize(context.Background(), []byte("pdf bytes"))
	require.ErrorContains(t, err, "rasterize pdf")
}

func TestRecognizeNoPagesRendered(t *testing.T) {
	e := newTestEngine(&fakeRunner{pages: 0})

	_, err := e.Recognize(context.Background(), []byte("pdf bytes"))
	require.ErrorContains(t, err, "no pages rendered")
}

func TestRecognizeRespectsMaxPages(t *testing.T) {
	runner := &fakeRunner{
		pages:    5,
		pageText: func(n int) string { return fmt.Sprintf("p%d", n) },
	}
	e := NewOCREngine(OCRConfig{Workers: 2, MaxPages: 2}, zerolog.Nop())
	e.SetRunner(runner)

	text, err := e.Recognize(context.Background(), []byte("pdf bytes"))
	require.NoError(t, err)
	require.Equal(t, "p1\np2", text)
	require.Equal(t, int32(2), runner.tessCalls.Load())
}

func TestRecognizePageHookReceivesPages(t *testing.T) {
	runner := &fakeRunner{
		pages:    2,
		pageText: func(n int) string { return "x" },
	}
	e := NewOCREngine(OCRConfig{Workers: 1}, zerolog.Nop())
	e.SetRunner(runner)

	seen := make(map[int]bool)
	e.SetPageHook(func(page int, imagePath string) {
		seen[page] = strings.HasSuffix(imagePath, ".png")
	})

	_, err := e.Recognize(context.Background(), []byte("pdf bytes"))
	require.NoError(t, err)
	require.True(t, seen[1])
	require.True(t, seen[2])
}
